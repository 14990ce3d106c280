package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	gcs "cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/SAP-F-2025/phonics-service/internal/config"
	"github.com/SAP-F-2025/phonics-service/internal/models"
)

type GCSStore struct {
	client    *gcs.Client
	bucket    string
	cdnDomain string
	logger    *slog.Logger
}

func NewGCSStore(ctx context.Context, cfg config.StorageConfig, logger *slog.Logger) (*GCSStore, error) {
	if cfg.BucketName == "" {
		return nil, errors.New("missing env var GCS_BUCKET_NAME")
	}

	opts := clientOptions(cfg.CredentialsJSON)
	opts = append(opts, option.WithScopes(gcs.ScopeReadWrite))
	client, err := gcs.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	logger.Info("Object storage initialized", "mode", ModeGCS, "bucket", cfg.BucketName, "cdn_domain", cfg.CDNDomain)

	return &GCSStore{
		client:    client,
		bucket:    cfg.BucketName,
		cdnDomain: cfg.CDNDomain,
		logger:    logger.With("service", "GCSStore"),
	}, nil
}

// clientOptions accepts either inline JSON credentials or a file path
func clientOptions(creds string) []option.ClientOption {
	creds = strings.TrimSpace(creds)
	if creds == "" {
		return nil
	}
	if strings.HasPrefix(creds, "{") {
		return []option.ClientOption{option.WithCredentialsJSON([]byte(creds))}
	}
	return []option.ClientOption{option.WithCredentialsFile(creds)}
}

func (s *GCSStore) Put(ctx context.Context, key, contentType string, r io.Reader) (models.ImageRef, error) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	key = cleanKey(key)
	w := s.client.Bucket(s.bucket).Object(key).NewWriter(ctx)
	w.ContentType = contentType
	w.CacheControl = "public, max-age=31536000"
	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("failed to write data to GCS: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to close GCS writer: %w", err)
	}

	s.logger.Debug("Uploaded object", "key", key, "content_type", contentType)
	return models.ImageRef(s.PublicURL(key)), nil
}

func (s *GCSStore) Delete(ctx context.Context, key string) error {
	err := s.client.Bucket(s.bucket).Object(cleanKey(key)).Delete(ctx)
	if err != nil && !errors.Is(err, gcs.ErrObjectNotExist) {
		return fmt.Errorf("failed to delete GCS object: %w", err)
	}
	return nil
}

func (s *GCSStore) PublicURL(key string) string {
	return gcsPublicURL(s.bucket, s.cdnDomain, key)
}

func gcsPublicURL(bucket, cdnDomain, key string) string {
	key = cleanKey(key)
	if cdnDomain != "" {
		return fmt.Sprintf("https://%s/%s", cdnDomain, key)
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", bucket, key)
}

func (s *GCSStore) Close() error {
	return s.client.Close()
}
