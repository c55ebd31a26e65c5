package main

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"library-backend/internal/config"
)

type asynqServer struct {
	*asynq.Server
}

// setupAsynqServer starts consuming the queues used by the API
func setupAsynqServer(cfg *config.Config, handlers *HandlerRegistry) *asynqServer {
	mux := asynq.NewServeMux()
	handlers.RegisterHandlers(mux)

	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     cfg.Redis.Host,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		},
		asynq.Config{
			Queues: map[string]int{
				"default": 10,
				"low":     5,
			},
			Concurrency: cfg.Queue.Concurrency,
			Logger:      asynqLogger{},
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				retried, _ := asynq.GetRetryCount(ctx)
				maxRetry, _ := asynq.GetMaxRetry(ctx)
				log.Error().Err(err).
					Str("type", task.Type()).
					Int("retry", retried).
					Int("max_retry", maxRetry).
					Msg("[Asynq] Task failed")
			}),
		},
	)

	go func() {
		log.Info().Int("concurrency", cfg.Queue.Concurrency).Msg("[Worker] Starting")
		if err := srv.Run(mux); err != nil {
			log.Fatal().Err(err).Msg("[Worker] Failed")
		}
	}()

	return &asynqServer{Server: srv}
}

// Shutdown waits for in-flight tasks before returning
func (s *asynqServer) Shutdown() {
	log.Info().Msg("[Worker] Shutting down")
	s.Server.Shutdown()
	log.Info().Msg("[Worker] Gracefully stopped")
}

// asynqLogger routes asynq's internal logs through zerolog
type asynqLogger struct{}

func (asynqLogger) Debug(args ...interface{}) { log.Debug().Msg("[Asynq] " + fmt.Sprint(args...)) }
func (asynqLogger) Info(args ...interface{})  { log.Info().Msg("[Asynq] " + fmt.Sprint(args...)) }
func (asynqLogger) Warn(args ...interface{})  { log.Warn().Msg("[Asynq] " + fmt.Sprint(args...)) }
func (asynqLogger) Error(args ...interface{}) { log.Error().Msg("[Asynq] " + fmt.Sprint(args...)) }
func (asynqLogger) Fatal(args ...interface{}) { log.Fatal().Msg("[Asynq] " + fmt.Sprint(args...)) }
