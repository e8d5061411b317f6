package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shirokumado/menu-backend/config"
	"github.com/shirokumado/menu-backend/internal/app/controller"
	"github.com/shirokumado/menu-backend/internal/app/repository"
	"github.com/shirokumado/menu-backend/internal/app/service"
	"github.com/shirokumado/menu-backend/internal/db"
	"github.com/shirokumado/menu-backend/internal/menu"
	"github.com/shirokumado/menu-backend/internal/router"
	"github.com/shirokumado/menu-backend/internal/scheduler"
	"github.com/shirokumado/menu-backend/internal/storage"
	"github.com/shirokumado/menu-backend/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := cfg.Server.LogLevel
	if logLevel == "" {
		logLevel = "info"
		if cfg.Server.Environment == "development" {
			logLevel = "debug"
		}
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      cfg.Server.LogFormat,
		EnableColor: cfg.Server.LogFormat == "console",
	})

	logger.Info("Starting menu backend server", map[string]interface{}{
		"environment":    cfg.Server.Environment,
		"port":           cfg.Server.Port,
		"log_level":      logLevel,
		"storage_driver": cfg.Storage.Driver,
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

	if cfg.Database.Seed {
		if err := db.Seed(); err != nil {
			logger.Warn("Failed to seed database", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	fileStorage, err := newFileStorage(cfg)
	if err != nil {
		logger.Fatal("Failed to initialize file storage", err)
	}

	loc := cfg.Menu.Location()
	rules := menu.Rules{
		LimitedTag:   cfg.Menu.LimitedTag,
		NormalTag:    cfg.Menu.NormalTag,
		SideCategory: cfg.Menu.SideCategory,
	}

	// Initialize repositories
	imageRepo := repository.NewImageRepository(db.GetDB())
	categoryRepo := repository.NewCategoryRepository(db.GetDB())
	tagRepo := repository.NewTagRepository(db.GetDB())

	// Initialize services
	categoryService := service.NewCategoryService(categoryRepo)
	tagService := service.NewTagService(tagRepo)
	imageService := service.NewImageService(imageRepo, categoryService, tagService, fileStorage)
	menuService := service.NewMenuService(imageRepo, imageService, rules, loc)

	// Initialize controllers
	imageController := controller.NewImageController(imageService, loc, cfg.Storage.MaxBytes)
	categoryController := controller.NewCategoryController(categoryService)
	tagController := controller.NewTagController(tagService)
	menuController := controller.NewMenuController(menuService, imageService, rules)

	// Setup router
	r := router.NewRouter(
		imageController,
		categoryController,
		tagController,
		menuController,
		cfg,
	)
	engine, err := r.Setup()
	if err != nil {
		logger.Fatal("Failed to set up router", err)
	}

	windowScheduler := scheduler.NewPublishWindowScheduler(imageService, cfg.Menu.WindowCron, loc)
	if err := windowScheduler.Start(); err != nil {
		logger.Warn("Publish window scheduler disabled", map[string]interface{}{
			"error": err.Error(),
		})
	} else {
		defer windowScheduler.Stop()
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: engine,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server started successfully", map[string]interface{}{
			"address": srv.Addr,
			"pid":     os.Getpid(),
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", err)
	}

	logger.Info("Server stopped successfully")
}

func newFileStorage(cfg *config.Config) (storage.FileStorage, error) {
	switch cfg.Storage.Driver {
	case config.StorageDriverS3:
		return storage.NewS3Storage(
			cfg.S3.Region,
			cfg.S3.Bucket,
			cfg.S3.AccessKeyID,
			cfg.S3.SecretAccessKey,
			cfg.S3.BaseURL,
			cfg.S3.Prefix,
		), nil
	default:
		return storage.NewLocalStorage(cfg.Storage.UploadDir, cfg.Storage.PublicPath)
	}
}
