package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/shop-ex/shopex-backend/config"
	"github.com/shop-ex/shopex-backend/internal/app/controller"
	"github.com/shop-ex/shopex-backend/internal/app/repository"
	"github.com/shop-ex/shopex-backend/internal/app/service"
	"github.com/shop-ex/shopex-backend/internal/db"
	"github.com/shop-ex/shopex-backend/internal/guard"
	"github.com/shop-ex/shopex-backend/internal/middleware"
	"github.com/shop-ex/shopex-backend/internal/router"
	"github.com/shop-ex/shopex-backend/internal/scheduler"
	"github.com/shop-ex/shopex-backend/internal/storage"
	"github.com/shop-ex/shopex-backend/pkg/logger"
	"github.com/shop-ex/shopex-backend/pkg/redis"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      "console", // Use "json" for production
		EnableColor: true,
	})

	logger.Info("Starting SHOP-EX Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	// Run migrations
	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Redis backs the guard role cache and the facet cache; the server
	// still runs without it, just slower.
	if err := redis.Init(&cfg.Redis); err != nil {
		logger.Warn("Redis unavailable, caches disabled", map[string]interface{}{
			"error": err.Error(),
		})
	}
	defer func() {
		if err := redis.Close(); err != nil {
			logger.Error("Failed to close Redis connection", err)
		}
	}()

	// Initialize repositories
	userRepo := repository.NewUserRepository(db.GetDB())
	productRepo := repository.NewProductRepository(db.GetDB())

	// Initialize services
	authService := service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.TokenExpiry)
	moderationService := service.NewModerationService(productRepo, userRepo)
	onboardingService := service.NewOnboardingService(userRepo)
	catalogService := service.NewCatalogService(productRepo)

	// Initialize controllers
	authController := controller.NewAuthController(authService)
	catalogController := controller.NewCatalogController(catalogService, authService)
	moderationController := controller.NewModerationController(moderationService)
	onboardingController := controller.NewOnboardingController(onboardingService)

	s3Storage := storage.NewS3Storage(
		cfg.S3.Region,
		cfg.S3.Bucket,
		cfg.S3.AccessKeyID,
		cfg.S3.SecretAccessKey,
		cfg.S3.BaseURL,
	)
	uploadController := controller.NewUploadController(s3Storage)

	// Initialize middleware and guard directories
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret)
	userDirectory := guard.NewDirectory(userRepo)

	// Start facet cache scheduler
	facetScheduler := scheduler.NewFacetScheduler(catalogService)
	if err := facetScheduler.Start(); err != nil {
		logger.Warn("Facet scheduler failed to start", map[string]interface{}{
			"error": err.Error(),
		})
	}
	defer facetScheduler.Stop()

	// Setup router
	r := router.NewRouter(
		authController,
		catalogController,
		moderationController,
		onboardingController,
		uploadController,
		authMiddleware,
		userDirectory,
		productRepo,
		cfg,
	)
	engine := r.Setup()

	// Start server in a goroutine
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server started successfully", map[string]interface{}{
			"address": addr,
			"pid":     os.Getpid(),
		})
		if err := engine.Run(addr); err != nil {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	logger.Info("Server stopped successfully")
}
