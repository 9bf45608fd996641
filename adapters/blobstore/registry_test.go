package blobstore

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/melevanoronha/admin-console/internal/domain/media"
	"github.com/melevanoronha/admin-console/pkg/logger"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func TestRegistry_CreateOpenRevoke(t *testing.T) {
	r := NewRegistry(0, logger.NewNopLogger())

	url, err := r.Create([]byte("hello"), "text/plain")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, Scheme))
	assert.Equal(t, 1, r.Live())

	blob, err := r.Open(url)
	require.NoError(t, err)
	data, _ := io.ReadAll(blob.Body)
	assert.Equal(t, "hello", string(data))
	assert.Equal(t, "text/plain", blob.ContentType)
	assert.Equal(t, int64(5), blob.Size)

	assert.True(t, r.Revoke(url))
	assert.False(t, r.Revoke(url), "second revoke is a no-op")
	assert.Equal(t, 0, r.Live())

	_, err = r.Open(url)
	assert.ErrorIs(t, err, media.ErrBlobNotFound)
}

func TestRegistry_SniffsMissingContentType(t *testing.T) {
	r := NewRegistry(0, logger.NewNopLogger())

	url, err := r.Create(pngHeader, "")
	require.NoError(t, err)
	blob, err := r.Open(url)
	require.NoError(t, err)
	assert.Equal(t, "image/png", blob.ContentType)

	url, err = r.Create(pngHeader, "application/octet-stream")
	require.NoError(t, err)
	blob, err = r.Open(url)
	require.NoError(t, err)
	assert.Equal(t, "image/png", blob.ContentType)
}

func TestRegistry_RejectsOversizedBlobs(t *testing.T) {
	r := NewRegistry(4, logger.NewNopLogger())

	_, err := r.Create([]byte("12345"), "text/plain")
	assert.ErrorIs(t, err, media.ErrBlobTooLarge)
	assert.Equal(t, 0, r.Live())
}

func TestPathAndID(t *testing.T) {
	id, ok := ID("blob:abc")
	assert.True(t, ok)
	assert.Equal(t, "abc", id)

	_, ok = ID("https://cdn/x.png")
	assert.False(t, ok)

	assert.Equal(t, "/console/blob/abc", Path("blob:abc"))
	assert.Empty(t, Path("blob:"))
}
