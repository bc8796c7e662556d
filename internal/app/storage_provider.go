package app

import (
	"errors"
	"fmt"
	"strings"

	"github.com/JithuMorrison/Lingzee/internal/platform/gcp"
	"github.com/JithuMorrison/Lingzee/internal/platform/localmedia"
	"github.com/JithuMorrison/Lingzee/internal/platform/logger"
	"github.com/JithuMorrison/Lingzee/internal/services"
)

var newBucketService = gcp.NewBucketService

type StorageProviderBootstrapErrorCode string

const (
	StorageProviderBootstrapErrorInvalidEmulatorHost StorageProviderBootstrapErrorCode = "invalid_emulator_host"
	StorageProviderBootstrapErrorConnectFailed       StorageProviderBootstrapErrorCode = "connect_failed"
	StorageProviderBootstrapErrorLocalDir            StorageProviderBootstrapErrorCode = "local_dir"
)

const (
	storageModeGCS   = "gcs"
	storageModeLocal = "local"
)

type StorageProviderBootstrapError struct {
	Code         StorageProviderBootstrapErrorCode
	Mode         string
	EmulatorHost string
	Cause        error
}

func (e *StorageProviderBootstrapError) Error() string {
	if e == nil {
		return "thumbnail storage bootstrap failed"
	}
	return fmt.Sprintf(
		"thumbnail storage bootstrap failed (code=%s mode=%q emulator_host=%q): %v",
		e.Code,
		e.Mode,
		e.EmulatorHost,
		e.Cause,
	)
}

func (e *StorageProviderBootstrapError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// thumbnailStorage is the selected thumbnail backend. closer is nil for the
// local store.
type thumbnailStorage struct {
	Store  services.ThumbnailStore
	Mode   string
	closer func() error
}

// resolveThumbnailStore picks GCS when a bucket is configured and the local
// upload directory otherwise.
func resolveThumbnailStore(log *logger.Logger, cfg Config) (thumbnailStorage, error) {
	bucket := strings.TrimSpace(cfg.ThumbnailBucket)
	if bucket == "" {
		log.Info("Selecting thumbnail storage provider", "mode", storageModeLocal, "dir", cfg.UploadDir)
		store, err := localmedia.New(log, cfg.UploadDir, localmedia.DefaultURLPrefix)
		if err != nil {
			err = &StorageProviderBootstrapError{
				Code:  StorageProviderBootstrapErrorLocalDir,
				Mode:  storageModeLocal,
				Cause: err,
			}
			log.Error("Thumbnail storage bootstrap failed", "mode", storageModeLocal, "error", err)
			return thumbnailStorage{}, err
		}
		return thumbnailStorage{Store: store, Mode: storageModeLocal}, nil
	}

	emulatorHost := strings.TrimSpace(cfg.ThumbnailEmulatorHost)
	log.Info(
		"Selecting thumbnail storage provider",
		"mode", storageModeGCS,
		"bucket", bucket,
		"emulator_host", emulatorHost,
	)
	bs, err := newBucketService(log, gcp.BucketConfig{
		Bucket:       bucket,
		CDNDomain:    cfg.ThumbnailCDNDomain,
		EmulatorHost: emulatorHost,
		Credentials:  cfg.GCPCredentials,
	})
	if err != nil {
		classified := classifyStorageProviderBootstrapError(emulatorHost, err)
		log.Error(
			"Thumbnail storage bootstrap failed",
			"mode", storageModeGCS,
			"emulator_host", emulatorHost,
			"error_code", storageProviderBootstrapErrorCode(classified),
			"error", classified,
		)
		return thumbnailStorage{}, classified
	}
	return thumbnailStorage{Store: bs, Mode: storageModeGCS, closer: bs.Close}, nil
}

func classifyStorageProviderBootstrapError(emulatorHost string, err error) error {
	code := StorageProviderBootstrapErrorConnectFailed
	if emulatorHost != "" && strings.Contains(err.Error(), "invalid emulator host") {
		code = StorageProviderBootstrapErrorInvalidEmulatorHost
	}
	return &StorageProviderBootstrapError{
		Code:         code,
		Mode:         storageModeGCS,
		EmulatorHost: emulatorHost,
		Cause:        err,
	}
}

func storageProviderBootstrapErrorCode(err error) StorageProviderBootstrapErrorCode {
	var bootstrapErr *StorageProviderBootstrapError
	if errors.As(err, &bootstrapErr) {
		if bootstrapErr.Code != "" {
			return bootstrapErr.Code
		}
	}
	return StorageProviderBootstrapErrorConnectFailed
}
