package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"wordgraph/backend/internal/api"
	"wordgraph/backend/internal/app"
	"wordgraph/backend/internal/snapshot"
	"wordgraph/backend/pkg/config"
	apperrors "wordgraph/backend/pkg/errors"
	"wordgraph/backend/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load configuration: %v", err))
	}

	// Initialize logger
	if err := logger.InitWithOptions(cfg.Env, logger.Options{Level: cfg.LogLevel, File: cfg.LogFile}); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Sync()

	log := logger.Get()
	log.Info("Starting word graph API server...")

	ctx := context.Background()

	// Initialize dependencies
	datamart, err := app.OpenDatamart(cfg, log)
	if err != nil {
		log.Fatal("Failed to open datamart", zap.Error(err))
	}
	defer datamart.Close()

	store, closeStore, err := app.OpenSnapshotStore(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to open snapshot store", zap.Error(err))
	}
	defer closeStore()

	builder, err := app.NewBuilder(cfg, log)
	if err != nil {
		log.Fatal("Invalid build strategy", zap.Error(err))
	}

	holder := app.NewHolder(cfg)
	rebuilder := snapshot.NewRebuilder(datamart, store, holder, builder, log.Named("rebuilder"))

	// Load the last snapshot; the server still starts without one
	if loaded, err := snapshot.Restore(ctx, store, holder); err != nil {
		if apperrors.IsErrorType(err, apperrors.ErrorTypeStore) {
			log.Warn("Starting without a graph; run a build or POST /api/admin/rebuild", zap.Error(err))
		} else {
			log.Error("Failed to restore graph snapshot", zap.Error(err))
		}
	} else {
		api.ObservePublished(loaded)
		log.Info("Graph loaded",
			zap.String("snapshot_id", loaded.Meta.ID),
			zap.Int("nodes", loaded.Graph.NodeCount()),
			zap.Int("edges", loaded.Graph.EdgeCount()),
		)
	}

	// Setup Gin router
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	server := api.NewServer(holder, rebuilder, limitsFromConfig(cfg), log)

	// Start server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: server.Router(),
	}

	// Graceful shutdown
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	log.Info("Server started", zap.String("port", cfg.Port))

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited")
}

func limitsFromConfig(cfg *config.Config) api.Limits {
	return api.Limits{
		DefaultPathDepth: cfg.DefaultPathDepth,
		MaxPathDepth:     cfg.MaxPathDepth,
		MaxPaths:         cfg.MaxPaths,
		QueryTimeout:     cfg.QueryTimeout,
	}
}
