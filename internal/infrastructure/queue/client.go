package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"library-backend/internal/shared"
)

// Client enqueues background tasks for cmd/worker
type Client struct {
	client *asynq.Client
}

func NewClient(redisAddr, password string, db int) *Client {
	return &Client{
		client: asynq.NewClient(asynq.RedisClientOpt{
			Addr:     redisAddr,
			Password: password,
			DB:       db,
		}),
	}
}

// NewDeletePictureTask builds the task removing a stored profile picture
func NewDeletePictureTask(payload shared.DeletePicturePayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}
	return asynq.NewTask(shared.TypeDeleteMemberPicture, data,
		asynq.MaxRetry(5),
		asynq.Timeout(30*time.Second),
		asynq.Queue("low"),
	), nil
}

// EnqueueDeletePicture schedules removal of a picture that is no longer referenced
func (c *Client) EnqueueDeletePicture(ctx context.Context, payload shared.DeletePicturePayload) error {
	task, err := NewDeletePictureTask(payload)
	if err != nil {
		return err
	}

	info, err := c.client.EnqueueContext(ctx, task)
	if err != nil {
		return fmt.Errorf("enqueue %s: %w", shared.TypeDeleteMemberPicture, err)
	}

	log.Debug().
		Str("task_id", info.ID).
		Str("path", payload.Path).
		Str("reason", payload.Reason).
		Msg("Picture deletion enqueued")
	return nil
}

func (c *Client) Close() error {
	return c.client.Close()
}
