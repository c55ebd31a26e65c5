package storage

import (
	"context"
	"errors"
	"fmt"

	"library-backend/internal/config"
)

var ErrInvalidPath = errors.New("invalid storage path")

// FileStore persists uploaded files.
// Save returns the public path clients use to fetch the file.
type FileStore interface {
	Save(ctx context.Context, name string, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, path string) error
}

// NewFromConfig builds the store selected by STORAGE_DRIVER
func NewFromConfig(ctx context.Context, cfg *config.Config) (FileStore, error) {
	switch cfg.Storage.Driver {
	case "minio":
		return NewMinIOStorage(ctx, cfg.MinIO)
	case "local":
		return NewLocalStore(cfg.Storage.UploadDir, cfg.Storage.PublicURL)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}
