package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"

	"github.com/JithuMorrison/Lingzee/internal/platform/apierr"
	"github.com/JithuMorrison/Lingzee/internal/platform/logger"
)

const (
	DefaultThumbnailMaxWidth  = 1280
	DefaultThumbnailMaxHeight = 720
	maxThumbnailUploadBytes   = 10 << 20
	thumbnailJPEGQuality      = 85
	thumbnailKeyPrefix        = "thumbnails/"
)

var ErrInvalidThumbnail = apierr.BadRequest("invalid_thumbnail", "Thumbnail must be an image under 10MB")

// ThumbnailStore is the object storage behind course thumbnails; both the GCS
// bucket and the local media store satisfy it.
type ThumbnailStore interface {
	UploadFile(ctx context.Context, key string, file io.Reader) error
	DeleteFile(ctx context.Context, key string) error
	GetPublicURL(key string) string
}

type ThumbnailService interface {
	// Save normalizes the uploaded image and stores it, returning its public
	// URL and storage key.
	Save(ctx context.Context, upload io.Reader) (url string, key string, err error)
	// Delete removes a stored thumbnail. Failures are logged, not returned.
	Delete(ctx context.Context, key string)
}

type thumbnailService struct {
	log       *logger.Logger
	store     ThumbnailStore
	maxWidth  int
	maxHeight int
}

func NewThumbnailService(log *logger.Logger, store ThumbnailStore, maxWidth, maxHeight int) ThumbnailService {
	if maxWidth <= 0 {
		maxWidth = DefaultThumbnailMaxWidth
	}
	if maxHeight <= 0 {
		maxHeight = DefaultThumbnailMaxHeight
	}
	return &thumbnailService{
		log:       log.With("service", "ThumbnailService"),
		store:     store,
		maxWidth:  maxWidth,
		maxHeight: maxHeight,
	}
}

func (ts *thumbnailService) Save(ctx context.Context, upload io.Reader) (string, string, error) {
	raw, err := io.ReadAll(io.LimitReader(upload, maxThumbnailUploadBytes+1))
	if err != nil {
		return "", "", fmt.Errorf("read thumbnail upload: %w", err)
	}
	if len(raw) == 0 || len(raw) > maxThumbnailUploadBytes {
		return "", "", ErrInvalidThumbnail
	}
	img, err := imaging.Decode(bytes.NewReader(raw), imaging.AutoOrientation(true))
	if err != nil {
		return "", "", apierr.New(http.StatusBadRequest, "invalid_thumbnail", fmt.Errorf("decode thumbnail: %w", err))
	}
	b := img.Bounds()
	if b.Dx() > ts.maxWidth || b.Dy() > ts.maxHeight {
		img = imaging.Fit(img, ts.maxWidth, ts.maxHeight, imaging.Lanczos)
	}

	var out bytes.Buffer
	if err := imaging.Encode(&out, img, imaging.JPEG, imaging.JPEGQuality(thumbnailJPEGQuality)); err != nil {
		return "", "", fmt.Errorf("encode thumbnail: %w", err)
	}
	key := thumbnailKeyPrefix + "course_" + uuid.NewString() + ".jpg"
	if err := ts.store.UploadFile(ctx, key, &out); err != nil {
		return "", "", fmt.Errorf("upload thumbnail: %w", err)
	}
	return ts.store.GetPublicURL(key), key, nil
}

func (ts *thumbnailService) Delete(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := ts.store.DeleteFile(ctx, key); err != nil {
		ts.log.Warn("Failed to delete thumbnail", "key", key, "error", err)
	}
}
