package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/mealtracker/backend/config"
	"github.com/pageza/mealtracker/backend/internal/database"
	"github.com/pageza/mealtracker/backend/internal/logging"
	"github.com/pageza/mealtracker/backend/internal/server"
	"github.com/pageza/mealtracker/backend/internal/service"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.IsProduction())
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()

	db, err := database.New(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	if err := database.RunMigrations(ctx, db, logger); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	deps := server.Deps{DB: db}

	// Rate limiting is skipped without redis.
	redisClient, err := database.NewRedisClient(cfg, logger)
	if err != nil {
		logger.Warn("Redis unavailable, report rate limiting disabled", zap.Error(err))
	} else {
		deps.Redis = redisClient
		defer redisClient.Close()
	}

	s3cfg, err := config.NewS3Config(ctx, cfg)
	if err != nil {
		logger.Warn("S3 unavailable, report archive disabled", zap.Error(err))
	}
	deps.S3 = s3cfg

	model, err := service.NewGeminiModel(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, cfg.ReportTemperature)
	switch {
	case errors.Is(err, service.ErrModelNotConfigured):
		logger.Warn("GEMINI_API_KEY not set, report generation will fail as misconfigured")
	case err != nil:
		logger.Fatal("Failed to initialize report model", zap.Error(err))
	default:
		deps.Model = model
	}

	srv, err := server.New(cfg, deps, logger)
	if err != nil {
		logger.Fatal("Failed to create server", zap.Error(err))
	}

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			logger.Fatal("Server error", zap.Error(err))
		}
	case sig := <-quit:
		logger.Info("Received signal", zap.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Stop(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", zap.Error(err))
	}
	logger.Info("Server stopped")
}
