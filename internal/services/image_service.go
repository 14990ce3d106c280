package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/SAP-F-2025/phonics-service/internal/models"
	"github.com/SAP-F-2025/phonics-service/internal/storage"
)

// MaxImageSize is the largest image an author may upload
const MaxImageSize = 2 << 20

const imagePrefix = "images/"

// imageExtensions covers every image type http.DetectContentType reports
var imageExtensions = map[string]string{
	"image/png":    ".png",
	"image/jpeg":   ".jpg",
	"image/gif":    ".gif",
	"image/webp":   ".webp",
	"image/bmp":    ".bmp",
	"image/avif":   ".avif",
	"image/x-icon": ".ico",
}

type imageService struct {
	store   storage.ImageStore
	logger  *slog.Logger
	log     *ServiceLogger
	maxSize int64
}

func NewImageService(store storage.ImageStore, logger *slog.Logger) ImageService {
	return &imageService{
		store:   store,
		logger:  logger,
		log:     NewServiceLogger(logger, LogConfig{Service: "phonics", Component: "images"}),
		maxSize: MaxImageSize,
	}
}

// Upload checks size and content, then stores the image under a fresh key.
// The content type is sniffed from the bytes; the file name only supplies
// the extension when it agrees with the sniffed type.
func (s *imageService) Upload(ctx context.Context, filename string, r io.Reader, actor models.Principal) (resp *ImageUploadResponse, err error) {
	op := s.log.WithOperation(ctx, "upload_image", actor.Subject)
	defer func() { op.LogResult(0, "image", err) }()

	data, err := io.ReadAll(io.LimitReader(r, s.maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read upload: %v", ErrBadRequest, err)
	}
	if int64(len(data)) > s.maxSize {
		return nil, fmt.Errorf("%w: limit is %d bytes", ErrImageTooLarge, s.maxSize)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty file", ErrNotAnImage)
	}

	contentType := http.DetectContentType(data)
	if !strings.HasPrefix(contentType, "image/") {
		return nil, fmt.Errorf("%w: detected %s", ErrNotAnImage, contentType)
	}

	key := imagePrefix + uuid.NewString() + imageExtension(filename, contentType)
	ref, err := s.store.Put(ctx, key, contentType, bytes.NewReader(data))
	if err != nil {
		return nil, storageFailure("store image", err)
	}

	s.logger.Info("Image uploaded", "key", key, "size", len(data), "content_type", contentType)
	return &ImageUploadResponse{
		Key:         key,
		URL:         ref,
		ContentType: contentType,
		Size:        int64(len(data)),
	}, nil
}

func (s *imageService) Delete(ctx context.Context, key string, actor models.Principal) (err error) {
	op := s.log.WithOperation(ctx, "delete_image", actor.Subject)
	defer func() { op.LogResult(0, "image", err) }()

	key = strings.TrimLeft(key, "/")
	if !strings.HasPrefix(key, imagePrefix) || strings.Contains(key, "..") {
		return fmt.Errorf("%w: invalid image key", ErrBadRequest)
	}
	if err := s.store.Delete(ctx, key); err != nil {
		return storageFailure("delete image", err)
	}
	return nil
}

func imageExtension(filename, contentType string) string {
	ext := strings.ToLower(path.Ext(filename))
	if ext != "" && mime.TypeByExtension(ext) == contentType {
		return ext
	}
	return imageExtensions[contentType]
}
