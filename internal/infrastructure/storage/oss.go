package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"

	"github.com/orris-inc/helpdesk/internal/shared/config"
)

type ossStore struct {
	bk         *oss.Bucket
	publicBase string
	ttl        time.Duration
}

func openOSS(cfg config.StorageConfig) (Store, error) {
	cli, err := oss.New(cfg.Endpoint, cfg.AccessKey, cfg.SecretKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create oss client: %w", err)
	}
	bk, err := cli.Bucket(cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to open oss bucket %s: %w", cfg.Bucket, err)
	}
	base := cfg.PublicBaseURL
	if base == "" {
		base = "https://" + cfg.Bucket + "." + cfg.Endpoint
	}
	return &ossStore{bk: bk, publicBase: base, ttl: signedURLTTL(cfg)}, nil
}

func (s *ossStore) Put(ctx context.Context, key string, r io.Reader, contentType string) (int64, error) {
	key = SanitizeKey(key)
	opts := []oss.Option{oss.WithContext(ctx)}
	if contentType != "" {
		opts = append(opts, oss.ContentType(contentType))
	}
	cr := &countingReader{r: r}
	if err := s.bk.PutObject(key, cr, opts...); err != nil {
		return cr.n, err
	}
	return cr.n, nil
}

func (s *ossStore) Open(ctx context.Context, key string) (*Object, error) {
	key = SanitizeKey(key)
	info, err := s.Stat(ctx, key)
	if err != nil {
		return nil, err
	}
	body, err := s.bk.GetObject(key, oss.WithContext(ctx))
	if err != nil {
		return nil, err
	}

	return &Object{
		Body:        body,
		Size:        info.Size,
		ContentType: info.ContentType,
		ModTime:     info.ModTime,
	}, nil
}

func (s *ossStore) Stat(ctx context.Context, key string) (*ObjectInfo, error) {
	meta, err := s.bk.GetObjectDetailedMeta(SanitizeKey(key), oss.WithContext(ctx))
	if err != nil {
		if isOSSNotFound(err) {
			return nil, ErrObjectNotFound
		}
		return nil, err
	}

	size, _ := strconv.ParseInt(meta.Get("Content-Length"), 10, 64)
	modTime, _ := http.ParseTime(meta.Get("Last-Modified"))
	return &ObjectInfo{
		Size:        size,
		ContentType: meta.Get("Content-Type"),
		ModTime:     modTime,
	}, nil
}

func (s *ossStore) SignedURL(_ context.Context, key string, expiry time.Duration) (string, error) {
	key = SanitizeKey(key)
	if expiry <= 0 {
		expiry = s.ttl
	}
	return s.bk.SignURL(key, oss.HTTPGet, int64(expiry/time.Second))
}

func (s *ossStore) Delete(ctx context.Context, key string) error {
	return s.bk.DeleteObject(SanitizeKey(key), oss.WithContext(ctx))
}

func (s *ossStore) Exists(ctx context.Context, key string) (bool, error) {
	return s.bk.IsObjectExist(SanitizeKey(key), oss.WithContext(ctx))
}

func (s *ossStore) PublicURL(key string) string {
	return joinPublicURL(s.publicBase, key)
}

func (s *ossStore) Close() error {
	return nil
}

func isOSSNotFound(err error) bool {
	if svcErr, ok := err.(oss.ServiceError); ok {
		return svcErr.StatusCode == http.StatusNotFound
	}
	return false
}
