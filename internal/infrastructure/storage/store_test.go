package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orris-inc/helpdesk/internal/shared/config"
)

func TestSanitizeKey(t *testing.T) {
	tests := map[string]string{
		"attachments/a.png":           "attachments/a.png",
		"/attachments//a.png":         "attachments/a.png",
		"../../etc/passwd":            "etc/passwd",
		"attachments/./../secret.txt": "attachments/secret.txt",
	}
	for in, want := range tests {
		assert.Equal(t, want, SanitizeKey(in), in)
	}
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate(config.StorageConfig{Driver: "mem"}))
	assert.Error(t, Validate(config.StorageConfig{Driver: ""}))
	assert.Error(t, Validate(config.StorageConfig{Driver: "s3"}))
	assert.Error(t, Validate(config.StorageConfig{Driver: "oss", Bucket: "b"}))
	assert.Error(t, Validate(config.StorageConfig{Driver: "file"}))

	err := Validate(config.StorageConfig{Driver: "ftp"})
	assert.True(t, errors.Is(err, ErrUnknownStorageDriver))
}

func TestMemStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemStore("https://cdn.example.com/ticket-attachments")
	defer store.Close()

	payload := bytes.Repeat([]byte("x"), 70_000)
	n, err := store.Put(ctx, "attachments/a.bin", bytes.NewReader(payload), "application/octet-stream")
	require.NoError(t, err)
	assert.Equal(t, int64(len(payload)), n)

	exists, err := store.Exists(ctx, "attachments/a.bin")
	require.NoError(t, err)
	assert.True(t, exists)

	obj, err := store.Open(ctx, "attachments/a.bin")
	require.NoError(t, err)
	got, err := io.ReadAll(obj.Body)
	require.NoError(t, err)
	require.NoError(t, obj.Body.Close())
	assert.Equal(t, payload, got)
	assert.Equal(t, int64(len(payload)), obj.Size)
	assert.Equal(t, "application/octet-stream", obj.ContentType)

	assert.Equal(t, "https://cdn.example.com/ticket-attachments/attachments/a.bin", store.PublicURL("attachments/a.bin"))

	require.NoError(t, store.Delete(ctx, "attachments/a.bin"))
	_, err = store.Open(ctx, "attachments/a.bin")
	assert.True(t, errors.Is(err, ErrObjectNotFound))
	assert.True(t, errors.Is(store.Delete(ctx, "attachments/a.bin"), ErrObjectNotFound))
}

type failingReader struct{ after int }

func (f *failingReader) Read(p []byte) (int, error) {
	if f.after <= 0 {
		return 0, errors.New("client went away")
	}
	n := len(p)
	if n > f.after {
		n = f.after
	}
	f.after -= n
	return n, nil
}

func TestMemStore_FailedPutLeavesNothing(t *testing.T) {
	ctx := context.Background()
	store := NewMemStore("")

	_, err := store.Put(ctx, "attachments/broken.bin", &failingReader{after: 1024}, "")
	require.Error(t, err)

	exists, err := store.Exists(ctx, "attachments/broken.bin")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestFileStore_PublicURLDefaultsToUploads(t *testing.T) {
	store, err := Open(context.Background(), config.StorageConfig{Driver: "file", BaseDir: t.TempDir()})
	require.NoError(t, err)
	defer store.Close()

	n, err := store.Put(context.Background(), "attachments/note.txt", strings.NewReader("hello"), "text/plain")
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)
	assert.Equal(t, "/uploads/attachments/note.txt", store.PublicURL("attachments/note.txt"))
}

func TestMemStore_Stat(t *testing.T) {
	ctx := context.Background()
	store := NewMemStore("https://cdn.example.com")
	defer store.Close()

	_, err := store.Put(ctx, "attachments/doc.pdf", strings.NewReader("%PDF-1.4"), "application/pdf")
	require.NoError(t, err)

	info, err := store.Stat(ctx, "attachments/doc.pdf")
	require.NoError(t, err)
	assert.Equal(t, int64(8), info.Size)
	assert.Equal(t, "application/pdf", info.ContentType)

	_, err = store.Stat(ctx, "attachments/missing.pdf")
	assert.True(t, errors.Is(err, ErrObjectNotFound))
}
