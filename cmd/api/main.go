package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/timmy/artsearch/internal/api"
	"github.com/timmy/artsearch/internal/config"
	"github.com/timmy/artsearch/internal/logger"
	"github.com/timmy/artsearch/internal/repository"
	"github.com/timmy/artsearch/internal/service"
	"github.com/timmy/artsearch/internal/source/europeana"
	"github.com/timmy/artsearch/internal/source/vam"
	"github.com/timmy/artsearch/internal/storage"
)

func main() {
	// Support CONFIG_PATH environment variable for production deployments
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger := logger.NewFromEnv(logger.LoadFromEnv())
	logger.SetDefaultLogger(appLogger)
	defer logger.Sync()

	ctx := logger.SetComponent(context.Background(), "main")

	// Initialize database
	db, err := repository.InitDB(&cfg.Database)
	if err != nil {
		logger.CtxError(ctx, "Failed to initialize database: %v", err)
		os.Exit(1)
	}
	exhibitionRepo := repository.NewExhibitionRepository(db)

	// Initialize export storage (S3, R2 or any S3-compatible service)
	var exportStore storage.ExportStore
	if cfg.Storage.Enabled {
		exportStore, err = storage.NewExportStore(&storage.S3Config{
			Type:      storage.StorageType(cfg.Storage.Type),
			Endpoint:  cfg.Storage.Endpoint,
			AccessKey: cfg.Storage.AccessKey,
			SecretKey: cfg.Storage.SecretKey,
			UseSSL:    cfg.Storage.UseSSL,
			Bucket:    cfg.Storage.Bucket,
			Region:    cfg.Storage.Region,
			Prefix:    cfg.Storage.Prefix,
			PublicURL: cfg.Storage.PublicURL,
			LinkTTL:   cfg.Storage.LinkTTL,
		})
		if err != nil {
			logger.CtxError(ctx, "Failed to initialize storage: %v", err)
			os.Exit(1)
		}
	}
	if exportStore != nil {
		if err := exportStore.EnsureBucket(ctx); err != nil {
			logger.CtxError(ctx, "Failed to ensure storage bucket: %v", err)
			os.Exit(1)
		}
	} else {
		logger.CtxInfo(ctx, "Exhibition export disabled: storage.enabled=%t, bucket=%q", cfg.Storage.Enabled, cfg.Storage.Bucket)
	}

	// Initialize catalog adapters
	vamAdapter := vam.NewAdapter(&vam.Config{
		BaseURL:     cfg.Sources.VAM.BaseURL,
		IIIFBaseURL: cfg.Sources.VAM.IIIFBaseURL,
		Timeout:     cfg.Sources.VAM.Timeout,
	})
	if cfg.Sources.Europeana.APIKey == "" {
		logger.CtxWarn(ctx, "EUROPEANA_API_KEY is not set; aggregator catalog requests will be rejected upstream")
	}
	europeanaAdapter := europeana.NewAdapter(&europeana.Config{
		BaseURL:         cfg.Sources.Europeana.BaseURL,
		APIKey:          cfg.Sources.Europeana.APIKey,
		Rows:            cfg.Sources.Europeana.Rows,
		TargetCount:     cfg.Sources.Europeana.TargetCount,
		MaxAttempts:     cfg.Sources.Europeana.MaxAttempts,
		MinCompleteness: cfg.Sources.Europeana.MinCompleteness,
		Timeout:         cfg.Sources.Europeana.Timeout,
	})

	// Initialize services
	aggregator := service.NewAggregator(vamAdapter, europeanaAdapter, &service.AggregatorConfig{
		TargetCount: cfg.Sources.Europeana.TargetCount,
		MaxAttempts: cfg.Sources.Europeana.MaxAttempts,
	})
	sessions := service.NewSessionManager(aggregator, cfg.Search.SessionTTL)
	exhibitions := service.NewExhibitionService(exhibitionRepo, exportStore)

	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	go sessions.Run(sweepCtx)

	router := api.SetupRouter(api.Dependencies{
		VAM:         vamAdapter,
		Europeana:   europeanaAdapter,
		Sessions:    sessions,
		Exhibitions: exhibitions,
		Logger:      appLogger,
	}, cfg.Server)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.CtxInfo(ctx, "Starting API server: port=%d, mode=%s", cfg.Server.Port, cfg.Server.Mode)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.CtxError(ctx, "Failed to start server: %v", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.CtxInfo(ctx, "Shutting down server...")
	stopSweep()

	timeout := cfg.Server.ShutdownTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.CtxError(ctx, "Server forced to shutdown: %v", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}

	logger.CtxInfo(ctx, "Server exited")
}
