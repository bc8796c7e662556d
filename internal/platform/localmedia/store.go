package localmedia

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/JithuMorrison/Lingzee/internal/platform/logger"
)

// DefaultURLPrefix is where the HTTP server mounts the upload directory.
const DefaultURLPrefix = "/uploads"

// Store keeps uploaded media on local disk under one root directory. It is the
// fallback when no bucket is configured.
type Store interface {
	UploadFile(ctx context.Context, key string, file io.Reader) error
	DeleteFile(ctx context.Context, key string) error
	GetPublicURL(key string) string
	Root() string
}

type store struct {
	log       *logger.Logger
	root      string
	urlPrefix string
}

func New(log *logger.Logger, root, urlPrefix string) (Store, error) {
	root = strings.TrimSpace(root)
	if root == "" {
		return nil, errors.New("missing upload directory")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve upload directory: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create upload directory: %w", err)
	}
	if urlPrefix == "" {
		urlPrefix = DefaultURLPrefix
	}
	s := &store{
		log:       log.With("service", "LocalMediaStore"),
		root:      abs,
		urlPrefix: "/" + strings.Trim(urlPrefix, "/"),
	}
	s.log.Info("Local media store initialized", "root", abs, "url_prefix", s.urlPrefix)
	return s, nil
}

func (s *store) Root() string { return s.root }

// resolve maps key into the root, rejecting keys that would escape it.
func (s *store) resolve(key string) (string, error) {
	clean := path.Clean("/" + strings.TrimSpace(key))
	if clean == "/" {
		return "", errors.New("empty media key")
	}
	return filepath.Join(s.root, filepath.FromSlash(strings.TrimPrefix(clean, "/"))), nil
}

func (s *store) UploadFile(ctx context.Context, key string, file io.Reader) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	dst, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("create media dir: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(dst), ".upload-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := io.Copy(tmp, file); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write media file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close media file: %w", err)
	}
	if err := os.Rename(tmpName, dst); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("move media file into place: %w", err)
	}
	return nil
}

func (s *store) DeleteFile(ctx context.Context, key string) error {
	dst, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(dst); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete media file: %w", err)
	}
	return nil
}

func (s *store) GetPublicURL(key string) string {
	clean := strings.TrimPrefix(path.Clean("/"+strings.TrimSpace(key)), "/")
	return s.urlPrefix + "/" + clean
}
