// Package storage puts uploaded images somewhere with a public URL.
package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/SAP-F-2025/phonics-service/internal/config"
	"github.com/SAP-F-2025/phonics-service/internal/models"
)

const (
	ModeGCS = "gcs"
	ModeFS  = "fs"
)

// ImageStore stores an object under key and returns its public reference
type ImageStore interface {
	Put(ctx context.Context, key, contentType string, r io.Reader) (models.ImageRef, error)
	Delete(ctx context.Context, key string) error
	PublicURL(key string) string
}

// New builds the store selected by cfg.Mode
func New(ctx context.Context, cfg config.StorageConfig, logger *slog.Logger) (ImageStore, error) {
	switch cfg.Mode {
	case ModeGCS:
		return NewGCSStore(ctx, cfg, logger)
	case ModeFS, "":
		return NewFSStore(cfg.Dir, cfg.PublicBaseURL)
	default:
		return nil, fmt.Errorf("unknown storage mode: %s", cfg.Mode)
	}
}

func cleanKey(key string) string {
	return strings.TrimLeft(strings.TrimSpace(key), "/")
}
