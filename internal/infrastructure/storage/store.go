// Package storage puts ticket attachments into object storage.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/orris-inc/helpdesk/internal/shared/config"
)

const defaultSignedURLTTL = 15 * time.Minute

var (
	ErrObjectNotFound        = errors.New("object not found")
	ErrSignedURLUnsupported  = errors.New("signed urls are not supported by this driver")
	ErrUnknownStorageDriver  = errors.New("unknown storage driver")
	errMissingStorageSetting = errors.New("missing storage setting")
)

// Store is the object storage used for attachments. Keys are relative, slash separated paths.
type Store interface {
	// Put streams r into key and returns the number of bytes written.
	Put(ctx context.Context, key string, r io.Reader, contentType string) (int64, error)
	// Open returns a reader for key. Callers must close Object.Body.
	Open(ctx context.Context, key string) (*Object, error)
	SignedURL(ctx context.Context, key string, expiry time.Duration) (string, error)
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	// Stat reports what is actually stored under key without reading the body.
	Stat(ctx context.Context, key string) (*ObjectInfo, error)
	// PublicURL is the address clients use to fetch key directly.
	PublicURL(key string) string
	Close() error
}

// Object is an opened stored file.
type Object struct {
	Body        io.ReadCloser
	Size        int64
	ContentType string
	ModTime     time.Time
}

// ObjectInfo is the stored size and content type of an object.
type ObjectInfo struct {
	Size        int64
	ContentType string
	ModTime     time.Time
}

// Open builds the Store selected by cfg.Driver.
func Open(ctx context.Context, cfg config.StorageConfig) (Store, error) {
	if err := Validate(cfg); err != nil {
		return nil, err
	}

	switch strings.ToLower(cfg.Driver) {
	case "s3":
		return openS3(ctx, cfg)
	case "file":
		return openFile(cfg)
	case "mem":
		return openMem(cfg), nil
	case "oss":
		return openOSS(cfg)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownStorageDriver, cfg.Driver)
	}
}

// Validate checks the settings each driver needs.
func Validate(cfg config.StorageConfig) error {
	switch strings.ToLower(cfg.Driver) {
	case "s3":
		if cfg.Bucket == "" {
			return fmt.Errorf("%w: bucket required for s3 driver", errMissingStorageSetting)
		}
	case "oss":
		if cfg.Bucket == "" || cfg.Endpoint == "" {
			return fmt.Errorf("%w: bucket and endpoint required for oss driver", errMissingStorageSetting)
		}
		if cfg.AccessKey == "" || cfg.SecretKey == "" {
			return fmt.Errorf("%w: access_key/secret_key required for oss driver", errMissingStorageSetting)
		}
	case "file":
		if cfg.BaseDir == "" {
			return fmt.Errorf("%w: base_dir required for file driver", errMissingStorageSetting)
		}
	case "mem":
	case "":
		return fmt.Errorf("%w: storage.driver not set", errMissingStorageSetting)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownStorageDriver, cfg.Driver)
	}
	return nil
}

// SanitizeKey strips leading slashes and dot segments so a key can never escape its bucket.
func SanitizeKey(key string) string {
	key = filepath.ToSlash(key)
	key = strings.TrimLeft(key, "/")
	parts := strings.Split(key, "/")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p == "" || p == "." || p == ".." {
			continue
		}
		out = append(out, p)
	}
	return strings.Join(out, "/")
}

func joinPublicURL(base, key string) string {
	key = SanitizeKey(key)
	escaped := (&url.URL{Path: key}).EscapedPath()
	return strings.TrimRight(base, "/") + "/" + escaped
}

func signedURLTTL(cfg config.StorageConfig) time.Duration {
	if cfg.SignedURLTTL <= 0 {
		return defaultSignedURLTTL
	}
	return cfg.SignedURLTTL
}

// buildS3URL constructs a gocloud s3 URL with query params.
func buildS3URL(cfg config.StorageConfig) string {
	u := url.URL{Scheme: "s3", Host: cfg.Bucket}
	q := url.Values{}
	if cfg.Region != "" {
		q.Set("region", cfg.Region)
	}
	if cfg.Endpoint != "" {
		q.Set("endpoint", cfg.Endpoint)
	}
	if cfg.ForcePathStyle {
		q.Set("s3ForcePathStyle", "true")
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// countingReader counts bytes as they are consumed.
type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
