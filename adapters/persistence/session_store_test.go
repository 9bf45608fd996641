package persistence

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/melevanoronha/admin-console/internal/config"
	"github.com/melevanoronha/admin-console/internal/domain/session"
	"github.com/melevanoronha/admin-console/pkg/logger"
)

var sample = session.Tokens{AccessToken: "access-1", RefreshToken: "refresh-1"}

func exerciseStore(t *testing.T, store session.Store) {
	t.Helper()
	ctx := context.Background()

	_, err := store.Load(ctx)
	assert.ErrorIs(t, err, session.ErrNoSession)

	require.NoError(t, store.Save(ctx, sample))
	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, sample, got)

	require.NoError(t, store.Clear(ctx))
	_, err = store.Load(ctx)
	assert.ErrorIs(t, err, session.ErrNoSession)

	require.NoError(t, store.Clear(ctx), "clearing twice is not an error")
}

func TestMemorySessionStore(t *testing.T) {
	exerciseStore(t, NewMemorySessionStore())
}

func TestFileSessionStore_Plain(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	store, err := NewFileSessionStore(path, "")
	require.NoError(t, err)

	exerciseStore(t, store)

	require.NoError(t, store.Save(context.Background(), sample))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"accessToken":"access-1"`)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestFileSessionStore_Encrypted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	store, err := NewFileSessionStore(path, "s3cret")
	require.NoError(t, err)

	exerciseStore(t, store)

	require.NoError(t, store.Save(context.Background(), sample))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.False(t, bytes.Contains(data, []byte("access-1")))

	other, err := NewFileSessionStore(path, "another")
	require.NoError(t, err)
	_, err = other.Load(context.Background())
	assert.ErrorIs(t, err, ErrSessionCorrupt)
}

func TestFileSessionStore_ExpandsHome(t *testing.T) {
	store, err := NewFileSessionStore("~/.meleva/session.json", "")
	require.NoError(t, err)
	assert.False(t, strings.HasPrefix(store.Path(), "~"))
	assert.True(t, strings.HasSuffix(store.Path(), filepath.Join(".meleva", "session.json")))
}

func TestNewSessionStore(t *testing.T) {
	var cfg config.Config

	cfg.Session.Store = "memory"
	store, rdb, err := NewSessionStore(context.Background(), cfg, logger.NewNopLogger())
	require.NoError(t, err)
	assert.Nil(t, rdb)
	assert.IsType(t, &MemorySessionStore{}, store)

	cfg.Session.Store = "file"
	cfg.Session.File = filepath.Join(t.TempDir(), "s.json")
	store, _, err = NewSessionStore(context.Background(), cfg, logger.NewNopLogger())
	require.NoError(t, err)
	assert.IsType(t, &FileSessionStore{}, store)

	cfg.Session.Store = "bolt"
	_, _, err = NewSessionStore(context.Background(), cfg, logger.NewNopLogger())
	assert.Error(t, err)
}
