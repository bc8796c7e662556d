package gcp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/JithuMorrison/Lingzee/internal/platform/logger"
)

type BucketConfig struct {
	Bucket    string
	CDNDomain string
	// EmulatorHost points the client at a fake-gcs style emulator and turns
	// authentication off.
	EmulatorHost string
	Credentials  string
}

// BucketService stores public objects (course thumbnails) in one GCS bucket.
type BucketService interface {
	UploadFile(ctx context.Context, key string, file io.Reader) error
	DeleteFile(ctx context.Context, key string) error
	GetPublicURL(key string) string
	Close() error
}

type bucketService struct {
	log           *logger.Logger
	storageClient *storage.Client
	bucket        string
	cdnDomain     string
	emulatorHost  string
}

func NewBucketService(log *logger.Logger, cfg BucketConfig) (BucketService, error) {
	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, errors.New("missing bucket name")
	}
	emulatorHost := strings.TrimRight(strings.TrimSpace(cfg.EmulatorHost), "/")
	if emulatorHost != "" {
		if u, err := url.Parse(emulatorHost); err != nil || u.Scheme == "" || u.Host == "" {
			return nil, fmt.Errorf("invalid emulator host %q; expected absolute URL like http://localhost:4443", cfg.EmulatorHost)
		}
	}

	ctx := context.Background()
	var opts []option.ClientOption
	if emulatorHost != "" {
		_ = os.Setenv("STORAGE_EMULATOR_HOST", emulatorHost)
		opts = []option.ClientOption{option.WithoutAuthentication()}
	} else {
		opts = append(ClientOptions(cfg.Credentials), option.WithScopes(storage.ScopeReadWrite))
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	serviceLog := log.With("service", "BucketService")
	serviceLog.Info("Object storage initialized",
		"bucket", cfg.Bucket,
		"cdn_domain", cfg.CDNDomain,
		"emulator_host", emulatorHost,
	)
	return &bucketService{
		log:           serviceLog,
		storageClient: client,
		bucket:        cfg.Bucket,
		cdnDomain:     strings.TrimSpace(cfg.CDNDomain),
		emulatorHost:  emulatorHost,
	}, nil
}

func (bs *bucketService) UploadFile(ctx context.Context, key string, file io.Reader) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	w := bs.storageClient.Bucket(bs.bucket).Object(key).NewWriter(ctx)
	if ct := ContentTypeForKey(key); ct != "" {
		w.ContentType = ct
	}
	if _, err := io.Copy(w, file); err != nil {
		_ = w.Close()
		return fmt.Errorf("failed to write data to GCS: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close GCS writer: %w", err)
	}
	return nil
}

func (bs *bucketService) DeleteFile(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := bs.storageClient.Bucket(bs.bucket).Object(key).Delete(ctx); err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil
		}
		return fmt.Errorf("failed to delete GCS object %q in bucket %q: %w", key, bs.bucket, err)
	}
	return nil
}

func (bs *bucketService) GetPublicURL(key string) string {
	return publicURL(bs.bucket, bs.cdnDomain, bs.emulatorHost, key)
}

func (bs *bucketService) Close() error {
	return bs.storageClient.Close()
}

func publicURL(bucket, cdnDomain, emulatorHost, key string) string {
	key = strings.TrimLeft(strings.TrimSpace(key), "/")
	if cdnDomain != "" {
		return fmt.Sprintf("https://%s/%s", cdnDomain, key)
	}
	if emulatorHost != "" {
		return fmt.Sprintf("%s/storage/v1/b/%s/o/%s?alt=media", emulatorHost, url.PathEscape(bucket), url.PathEscape(key))
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", bucket, key)
}

// ContentTypeForKey guesses an image content type from the key's extension.
func ContentTypeForKey(key string) string {
	s := strings.ToLower(strings.TrimSpace(key))
	if i := strings.Index(s, "?"); i >= 0 {
		s = s[:i]
	}
	switch {
	case strings.HasSuffix(s, ".png"):
		return "image/png"
	case strings.HasSuffix(s, ".jpg"), strings.HasSuffix(s, ".jpeg"):
		return "image/jpeg"
	case strings.HasSuffix(s, ".gif"):
		return "image/gif"
	case strings.HasSuffix(s, ".webp"):
		return "image/webp"
	default:
		return ""
	}
}
