package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"restaurantreviews/pkg/database"
	"restaurantreviews/pkg/logger"
	"restaurantreviews/rating-worker-service/internal/app/rating-worker/config"
	"restaurantreviews/rating-worker-service/internal/app/rating-worker/handler"
	"restaurantreviews/rating-worker-service/internal/app/rating-worker/processor"
	"restaurantreviews/rating-worker-service/internal/app/rating-worker/repository"
	"restaurantreviews/rating-worker-service/internal/app/rating-worker/service"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const serviceName = "rating-worker-service"

func main() {
	// === ИНИЦИАЛИЗАЦИЯ КОНФИГУРАЦИИ ===
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(serviceName, cfg.Log.Level)
	if cfg.Log.LogstashAddr != "" {
		if err := logger.InitLogstash(cfg.Log.LogstashAddr, serviceName, cfg.Log.Level); err != nil {
			logger.Warn().Err(err).Msg("Failed to connect to Logstash, using stdout only")
		}
	}

	logger.Info().Msg("Starting Rating Worker Service...")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// === ПОДКЛЮЧЕНИЕ К POSTGRESQL ===
	startupCtx, cancelStartup := context.WithTimeout(ctx, 2*time.Minute)
	defer cancelStartup()

	pg, err := database.ConnectPostgres(startupCtx, cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pg.Close()
	logger.Info().Str("database", cfg.Database.DBName).Msg("Connected to PostgreSQL")

	// === ПОДКЛЮЧЕНИЕ К MONGODB ===
	mongoClient, err := database.ConnectMongo(startupCtx, cfg.MongoDB.URI)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to MongoDB")
	}
	defer database.DisconnectMongo(mongoClient)
	logger.Info().Str("database", cfg.MongoDB.Database).Msg("Connected to MongoDB")

	// === РЕПОЗИТОРИИ И СЕРВИСЫ ===
	restaurantRepo := repository.NewRestaurantRepository(pg.DB)
	statsRepo := repository.NewReviewStatsRepository(mongoClient.Database(cfg.MongoDB.Database))
	ratingSvc := service.NewRatingService(restaurantRepo, statsRepo, service.ReconcileOptions{
		Workers:          cfg.Reconcile.Workers,
		UpdatesPerSecond: cfg.Reconcile.UpdatesPerSecond,
	})

	// === HEALTHCHECK HTTP СЕРВЕР ===
	healthHandler := handler.NewHealthCheckHandler(pg.DB, mongoClient)

	mux := http.NewServeMux()
	healthHandler.RegisterRoutes(mux)
	mux.Handle("/metrics", promhttp.Handler())

	httpServer := &http.Server{
		Addr:              cfg.HTTP.Address(),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info().Str("address", cfg.HTTP.Address()).Msg("Starting healthcheck HTTP server")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("HTTP server error")
		}
	}()

	// === KAFKA CONSUMER ===
	kafkaConsumer := processor.NewKafkaConsumer(
		cfg.Kafka.Brokers,
		cfg.Kafka.Topic,
		cfg.Kafka.GroupID,
		cfg.Kafka.MinBytes,
		cfg.Kafka.MaxBytes,
		ratingSvc,
	)
	kafkaConsumer.Start(ctx)

	// === CRON SCHEDULER ===
	cronScheduler := processor.NewCronScheduler(ratingSvc)
	if err := cronScheduler.Start(ctx, cfg.CronSchedule.Reconcile); err != nil {
		logger.Fatal().Err(err).Str("schedule", cfg.CronSchedule.Reconcile).Msg("Failed to start cron scheduler")
	}

	logger.Info().
		Str("topic", cfg.Kafka.Topic).
		Str("group", cfg.Kafka.GroupID).
		Str("schedule", cfg.CronSchedule.Reconcile).
		Msg("Rating Worker Service is running")

	// === GRACEFUL SHUTDOWN ===
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down Rating Worker Service...")

	cronScheduler.Stop()
	kafkaConsumer.Stop()
	cancel()

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("HTTP server shutdown error")
	}

	logger.Info().Msg("Rating Worker Service stopped gracefully")
}
