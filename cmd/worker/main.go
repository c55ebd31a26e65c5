package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"library-backend/internal/config"
	"library-backend/internal/infrastructure/storage"
	"library-backend/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("[Worker] Failed to load config")
	}
	logger.Init(cfg.App.Environment, cfg.App.LogLevel)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	store, err := storage.NewFromConfig(ctx, cfg)
	cancel()
	if err != nil {
		log.Fatal().Err(err).Msg("[Worker] Failed to initialize file storage")
	}

	handlers := initializeHandlers(store)
	srv := setupAsynqServer(cfg, handlers)

	health, err := startServices(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("[Startup] Health check failed")
	}

	waitForShutdown(srv, health)
}

func waitForShutdown(srv *asynqServer, health *healthServer) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("[Shutdown] Gracefully stopping")
	health.Shutdown()
	srv.Shutdown()
	log.Info().Msg("[Shutdown] Stopped")
}
