package persistence

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/melevanoronha/admin-console/adapters/api"
	authUC "github.com/melevanoronha/admin-console/internal/application/usecase/auth"
	"github.com/melevanoronha/admin-console/internal/domain/session"
	"github.com/melevanoronha/admin-console/pkg/apperror"
	"github.com/melevanoronha/admin-console/pkg/logger"
)

func TestSharedSession_FollowsConsoleAndNeverClearsStore(t *testing.T) {
	ctx := context.Background()
	log := logger.NewNopLogger()
	store, err := NewFileSessionStore(filepath.Join(t.TempDir(), "session.json"), "")
	require.NoError(t, err)

	console := authUC.NewSession(store, log)
	require.NoError(t, console.Init(ctx))
	worker := authUC.NewSharedSession(store, log)
	require.NoError(t, worker.Reload(ctx))
	assert.False(t, worker.Authenticated())

	good := session.Tokens{AccessToken: "good", RefreshToken: "r1"}
	require.NoError(t, console.Update(ctx, good))

	require.NoError(t, worker.Reload(ctx))
	assert.Equal(t, "good", worker.AccessToken())

	var seen string
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer backend.Close()

	client := api.NewClient(api.Config{BaseURL: backend.URL}, worker, nil, log)
	err = client.Do(ctx, api.Request{Method: http.MethodGet, Path: "/api/dicas/1"}, nil)
	assert.True(t, apperror.IsKind(err, apperror.KindUnauthorized))
	assert.Equal(t, "Bearer good", seen)
	assert.False(t, worker.Authenticated(), "worker forgets its own copy")

	persisted, err := store.Load(ctx)
	require.NoError(t, err, "the console's saved session survives a worker 401")
	assert.Equal(t, good, persisted)
	assert.Equal(t, "good", console.AccessToken())

	rotated := session.Tokens{AccessToken: "fresh", RefreshToken: "r2"}
	require.NoError(t, console.Update(ctx, rotated))
	require.NoError(t, worker.Reload(ctx))
	assert.Equal(t, "fresh", worker.AccessToken())
}
