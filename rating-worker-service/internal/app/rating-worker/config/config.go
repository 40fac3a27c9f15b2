package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"restaurantreviews/pkg/database"
)

// Config содержит все настройки rating-worker-service
type Config struct {
	Database     database.PostgresConfig // БД ресторанов, обновляются рейтинги
	MongoDB      MongoDBConfig           // Отзывы, источник статистики
	Kafka        KafkaConfig
	CronSchedule CronScheduleConfig
	Reconcile    ReconcileConfig
	HTTP         HTTPConfig
	Log          LogConfig
}

type MongoDBConfig struct {
	URI      string
	Database string
}

// KafkaConfig - подписка на топик review_events
type KafkaConfig struct {
	Brokers  []string // Список брокеров Kafka (формат: host:port)
	Topic    string   // Топик для прослушивания (review_events)
	GroupID  string   // ID группы потребителей для распределения нагрузки
	MinBytes int      // Минимум байт для fetch запроса
	MaxBytes int      // Максимум байт для fetch запроса
}

type CronScheduleConfig struct {
	Reconcile string // Расписание полной сверки рейтингов (стандартный 5-польный cron)
}

// ReconcileConfig - нагрузка полной сверки на PostgreSQL
type ReconcileConfig struct {
	Workers          int
	UpdatesPerSecond int
}

type HTTPConfig struct {
	Port string // Порт health и metrics
}

type LogConfig struct {
	Level        string
	LogstashAddr string
}

// Load загружает конфигурацию из переменных окружения
// Возвращает ошибку, если не удалось распарсить значения
func Load() (*Config, error) {
	minBytes, err := getEnvInt("KAFKA_MIN_BYTES", 1)
	if err != nil {
		return nil, err
	}
	maxBytes, err := getEnvInt("KAFKA_MAX_BYTES", 10e6)
	if err != nil {
		return nil, err
	}
	workers, err := getEnvInt("RECONCILE_WORKERS", 4)
	if err != nil {
		return nil, err
	}
	updatesPerSecond, err := getEnvInt("RECONCILE_UPDATES_PER_SECOND", 50)
	if err != nil {
		return nil, err
	}
	maxConns, err := getEnvInt("DB_MAX_CONNS", 5)
	if err != nil {
		return nil, err
	}

	return &Config{
		Database: database.PostgresConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "restaurants"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			MaxConns: int32(maxConns),
			MinConns: 1,
		},
		MongoDB: MongoDBConfig{
			URI:      getEnv("MONGODB_URI", "mongodb://localhost:27017"),
			Database: getEnv("MONGODB_DATABASE", "restaurant_reviews"),
		},
		Kafka: KafkaConfig{
			Brokers:  getEnvList("KAFKA_BROKERS", []string{"localhost:9092"}),
			Topic:    getEnv("KAFKA_TOPIC", "review_events"),
			GroupID:  getEnv("KAFKA_GROUP_ID", "rating-worker-group"),
			MinBytes: minBytes,
			MaxBytes: maxBytes,
		},
		CronSchedule: CronScheduleConfig{
			Reconcile: getEnv("CRON_RECONCILE_RATINGS", "*/15 * * * *"),
		},
		Reconcile: ReconcileConfig{
			Workers:          workers,
			UpdatesPerSecond: updatesPerSecond,
		},
		HTTP: HTTPConfig{
			Port: getEnv("HTTP_PORT", "8080"),
		},
		Log: LogConfig{
			Level:        getEnv("LOG_LEVEL", "info"),
			LogstashAddr: getEnv("LOGSTASH_ADDR", ""),
		},
	}, nil
}

func (c *HTTPConfig) Address() string {
	return ":" + c.Port
}

// getEnv получает значение переменной окружения или возвращает значение по умолчанию
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return n, nil
}

func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		return defaultValue
	}
	return items
}
