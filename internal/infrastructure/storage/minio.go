package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog/log"

	"library-backend/internal/config"
)

// MinIOStorage stores files in a MinIO bucket
type MinIOStorage struct {
	client *minio.Client
	bucket string
}

var _ FileStore = (*MinIOStorage)(nil)

// NewMinIOStorage creates the client and the bucket if it does not exist yet
func NewMinIOStorage(ctx context.Context, cfg config.MinIOConfig) (*MinIOStorage, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
		log.Info().Str("bucket", cfg.Bucket).Msg("[STORAGE] Bucket created")
	}

	return &MinIOStorage{client: client, bucket: cfg.Bucket}, nil
}

// Save uploads data under key name and returns the object URL
func (s *MinIOStorage) Save(ctx context.Context, name string, data []byte, contentType string) (string, error) {
	key, err := cleanName(name)
	if err != nil {
		return "", err
	}

	_, err = s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType},
	)
	if err != nil {
		return "", fmt.Errorf("failed to upload to minio: %w", err)
	}

	return s.objectURL(key), nil
}

// Delete accepts either the URL returned by Save or a bare key
func (s *MinIOStorage) Delete(ctx context.Context, path string) error {
	key, err := cleanName(s.keyFromURL(path))
	if err != nil {
		return err
	}
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

func (s *MinIOStorage) objectURL(key string) string {
	u := s.client.EndpointURL()
	return fmt.Sprintf("%s://%s/%s/%s", u.Scheme, u.Host, s.bucket, key)
}

func (s *MinIOStorage) keyFromURL(path string) string {
	marker := "/" + s.bucket + "/"
	if i := strings.Index(path, marker); i >= 0 {
		return path[i+len(marker):]
	}
	return path
}
