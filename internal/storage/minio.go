package storage

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"inkwell/internal/config"
)

// ObjectStore uploads binary assets and returns their public URLs.
type ObjectStore interface {
	Upload(ctx context.Context, path string, data []byte, contentType string) (string, error)
}

// MinioStore implements ObjectStore on a MinIO / S3-compatible endpoint.
type MinioStore struct {
	client    *minio.Client
	bucket    string
	publicURL string
	logger    *slog.Logger
}

// NewMinioStore connects to the configured endpoint and ensures the asset
// bucket exists.
func NewMinioStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*MinioStore, error) {
	client, err := minio.New(cfg.StorageEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.StorageAccessKey, cfg.StorageSecretKey, ""),
		Secure: cfg.StorageUseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.StorageBucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %s: %w", cfg.StorageBucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.StorageBucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket %s: %w", cfg.StorageBucket, err)
		}
		logger.Info("created asset bucket", "bucket", cfg.StorageBucket)
	}

	publicURL := cfg.StoragePublicURL
	if publicURL == "" {
		scheme := "http"
		if cfg.StorageUseSSL {
			scheme = "https"
		}
		publicURL = fmt.Sprintf("%s://%s", scheme, cfg.StorageEndpoint)
	}

	return &MinioStore{
		client:    client,
		bucket:    cfg.StorageBucket,
		publicURL: strings.TrimRight(publicURL, "/"),
		logger:    logger,
	}, nil
}

// Upload stores one object and returns its public URL.
func (s *MinioStore) Upload(ctx context.Context, path string, data []byte, contentType string) (string, error) {
	path = strings.TrimLeft(path, "/")
	if path == "" {
		return "", fmt.Errorf("object path must not be empty")
	}

	_, err := s.client.PutObject(ctx, s.bucket, path, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", path, err)
	}

	url := fmt.Sprintf("%s/%s/%s", s.publicURL, s.bucket, path)
	s.logger.Debug("asset uploaded",
		"path", path,
		"bytes", len(data),
		"content_type", contentType,
	)

	return url, nil
}
