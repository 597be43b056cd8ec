package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"gocloud.dev/blob"
	"gocloud.dev/blob/fileblob"
	"gocloud.dev/blob/memblob"
	_ "gocloud.dev/blob/s3blob"
	"gocloud.dev/gcerrors"

	"github.com/orris-inc/helpdesk/internal/shared/config"
)

// blobStore serves the s3, file and mem drivers through the portable gocloud bucket.
type blobStore struct {
	bk         *blob.Bucket
	publicBase string
	ttl        time.Duration
}

func openS3(ctx context.Context, cfg config.StorageConfig) (Store, error) {
	bk, err := blob.OpenBucket(ctx, buildS3URL(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to open s3 bucket %s: %w", cfg.Bucket, err)
	}
	return &blobStore{bk: bk, publicBase: cfg.PublicBaseURL, ttl: signedURLTTL(cfg)}, nil
}

func openFile(cfg config.StorageConfig) (Store, error) {
	if err := os.MkdirAll(cfg.BaseDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to ensure base_dir: %w", err)
	}
	bk, err := fileblob.OpenBucket(cfg.BaseDir, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open file bucket: %w", err)
	}
	base := cfg.PublicBaseURL
	if base == "" {
		base = "/uploads"
	}
	return &blobStore{bk: bk, publicBase: base, ttl: signedURLTTL(cfg)}, nil
}

func openMem(cfg config.StorageConfig) Store {
	return NewMemStore(cfg.PublicBaseURL)
}

// NewMemStore returns an in-memory store.
func NewMemStore(publicBase string) Store {
	return &blobStore{bk: memblob.OpenBucket(nil), publicBase: publicBase, ttl: defaultSignedURLTTL}
}

func (s *blobStore) Put(ctx context.Context, key string, r io.Reader, contentType string) (int64, error) {
	key = SanitizeKey(key)

	// Cancelling the writer's context before Close discards a partial upload.
	writeCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	w, err := s.bk.NewWriter(writeCtx, key, &blob.WriterOptions{ContentType: contentType})
	if err != nil {
		return 0, err
	}

	cr := &countingReader{r: r}
	if _, err := io.Copy(w, cr); err != nil {
		cancel()
		_ = w.Close()
		return cr.n, err
	}
	if err := w.Close(); err != nil {
		return cr.n, err
	}
	return cr.n, nil
}

func (s *blobStore) Open(ctx context.Context, key string) (*Object, error) {
	key = SanitizeKey(key)
	rd, err := s.bk.NewReader(ctx, key, nil)
	if err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return nil, ErrObjectNotFound
		}
		return nil, err
	}
	return &Object{
		Body:        rd,
		Size:        rd.Size(),
		ContentType: rd.ContentType(),
		ModTime:     rd.ModTime(),
	}, nil
}

func (s *blobStore) SignedURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	key = SanitizeKey(key)
	if expiry <= 0 {
		expiry = s.ttl
	}
	u, err := s.bk.SignedURL(ctx, key, &blob.SignedURLOptions{Method: "GET", Expiry: expiry})
	if err != nil {
		if gcerrors.Code(err) == gcerrors.Unimplemented {
			return "", ErrSignedURLUnsupported
		}
		return "", err
	}
	return u, nil
}

func (s *blobStore) Delete(ctx context.Context, key string) error {
	key = SanitizeKey(key)
	if err := s.bk.Delete(ctx, key); err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return ErrObjectNotFound
		}
		return err
	}
	return nil
}

func (s *blobStore) Exists(ctx context.Context, key string) (bool, error) {
	return s.bk.Exists(ctx, SanitizeKey(key))
}

func (s *blobStore) Stat(ctx context.Context, key string) (*ObjectInfo, error) {
	attrs, err := s.bk.Attributes(ctx, SanitizeKey(key))
	if err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return nil, ErrObjectNotFound
		}
		return nil, err
	}
	return &ObjectInfo{
		Size:        attrs.Size,
		ContentType: attrs.ContentType,
		ModTime:     attrs.ModTime,
	}, nil
}

func (s *blobStore) PublicURL(key string) string {
	return joinPublicURL(s.publicBase, key)
}

func (s *blobStore) Close() error {
	return s.bk.Close()
}
