package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"restaurantreviews/pkg/database"
	"restaurantreviews/pkg/logger"
	"restaurantreviews/reviews-service/internal/app/reviews/config"
	"restaurantreviews/reviews-service/internal/app/reviews/handler"
	"restaurantreviews/reviews-service/internal/app/reviews/infrastructure/messaging"
	"restaurantreviews/reviews-service/internal/app/reviews/mapper"
	"restaurantreviews/reviews-service/internal/app/reviews/repository"
	"restaurantreviews/reviews-service/internal/app/reviews/service"
)

const serviceName = "reviews-service"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(serviceName, cfg.Log.Level)

	if cfg.Log.LogstashAddr != "" {
		if err := logger.InitLogstash(cfg.Log.LogstashAddr, serviceName, cfg.Log.Level); err != nil {
			logger.Warn().Err(err).Msg("Failed to connect to Logstash, using stdout only")
		} else {
			logger.Info().Str("logstash_addr", cfg.Log.LogstashAddr).Msg("Connected to Logstash")
		}
	}

	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancelStartup()

	mongoClient, err := database.ConnectMongo(startupCtx, cfg.MongoDB.URI)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to MongoDB")
	}
	defer database.DisconnectMongo(mongoClient)
	logger.Info().
		Str("database", cfg.MongoDB.Database).
		Msg("Connected to MongoDB")

	pg, err := database.ConnectPostgres(startupCtx, cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pg.Close()
	logger.Info().
		Str("database", cfg.Database.DBName).
		Msg("Connected to PostgreSQL")

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()
	if err := redisClient.Ping(startupCtx).Err(); err != nil {
		// Без Redis защищенные запросы получат 503, чтение отзывов продолжит работать
		logger.Warn().Err(err).Str("addr", cfg.Redis.Address()).Msg("Redis is not reachable")
	} else {
		logger.Info().Str("addr", cfg.Redis.Address()).Msg("Connected to Redis")
	}

	kafkaProducer := messaging.NewKafkaProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
	defer kafkaProducer.Close()
	logger.Info().
		Str("topic", cfg.Kafka.Topic).
		Strs("brokers", cfg.Kafka.Brokers).
		Msg("Initialized Kafka producer")

	reviewRepo := repository.NewReviewRepository(mongoClient.Database(cfg.MongoDB.Database))
	restaurantRepo := repository.NewRestaurantRepository(pg.DB)
	tokenBlacklist := repository.NewTokenBlacklist(redisClient)

	reviewService := service.NewReviewService(reviewRepo, restaurantRepo, kafkaProducer, cfg.Reviews.EditWindow)

	authMiddleware := handler.NewAuthMiddleware(cfg.JWT.Secret, tokenBlacklist)
	reviewHandler := handler.NewReviewHandler(reviewService, mapper.NewReviewMapper())
	router := handler.SetupRoutes(reviewHandler, authMiddleware, cfg.Server.AllowedOrigins)

	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Dur("edit_window", cfg.Reviews.EditWindow).
			Msg("Starting Reviews Service")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down Reviews Service...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("Server forced to shutdown")
	}

	logger.Info().Msg("Reviews Service stopped gracefully")
}
