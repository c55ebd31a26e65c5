package job

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"library-backend/internal/infrastructure/storage"
	"library-backend/internal/shared"
)

// DeletePictureHandler removes profile pictures no member references any more
type DeletePictureHandler struct {
	store storage.FileStore
}

func NewDeletePictureHandler(store storage.FileStore) *DeletePictureHandler {
	return &DeletePictureHandler{store: store}
}

// ProcessTask deletes the stored file; malformed payloads are not retried
func (h *DeletePictureHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload shared.DeletePicturePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		log.Error().Err(err).Msg("Failed to unmarshal DeletePicture payload")
		return fmt.Errorf("unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}
	if payload.Path == "" {
		return fmt.Errorf("empty path: %w", asynq.SkipRetry)
	}

	log.Info().
		Str("path", payload.Path).
		Str("reason", payload.Reason).
		Msg("Deleting member picture")

	if err := h.store.Delete(ctx, payload.Path); err != nil {
		if errors.Is(err, storage.ErrInvalidPath) {
			log.Warn().Str("path", payload.Path).Msg("Refusing to delete path outside the store")
			return fmt.Errorf("delete picture: %v: %w", err, asynq.SkipRetry)
		}
		log.Error().Err(err).Str("path", payload.Path).Msg("Failed to delete member picture")
		return fmt.Errorf("delete picture: %w", err)
	}

	log.Info().Str("path", payload.Path).Msg("Member picture deleted")
	return nil
}
