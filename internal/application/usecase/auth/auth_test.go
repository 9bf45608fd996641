package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/melevanoronha/admin-console/internal/domain/session"
	"github.com/melevanoronha/admin-console/pkg/apperror"
	pkgauth "github.com/melevanoronha/admin-console/pkg/auth"
	"github.com/melevanoronha/admin-console/pkg/logger"
)

type memStore struct {
	tokens session.Tokens
	saves  int
	clears int
}

func (m *memStore) Load(ctx context.Context) (session.Tokens, error) {
	if m.tokens.Empty() {
		return session.Tokens{}, session.ErrNoSession
	}
	return m.tokens, nil
}

func (m *memStore) Save(ctx context.Context, t session.Tokens) error {
	m.saves++
	m.tokens = t
	return nil
}

func (m *memStore) Clear(ctx context.Context) error {
	m.clears++
	m.tokens = session.Tokens{}
	return nil
}

type fakeGateway struct {
	loginTokens   session.Tokens
	loginErr      error
	logoutErr     error
	logoutCalls   []string
	refreshTokens session.Tokens
	refreshCalls  int
}

func (g *fakeGateway) Login(ctx context.Context, username, password string) (session.Tokens, error) {
	return g.loginTokens, g.loginErr
}

func (g *fakeGateway) Logout(ctx context.Context, refreshToken string) error {
	g.logoutCalls = append(g.logoutCalls, refreshToken)
	return g.logoutErr
}

func (g *fakeGateway) RefreshToken(ctx context.Context, refreshToken string) (session.Tokens, error) {
	g.refreshCalls++
	return g.refreshTokens, nil
}

func signed(t *testing.T, exp time.Time) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "admin",
		ExpiresAt: jwt.NewNumericDate(exp),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return tok
}

func TestSession_InitRestoresPersistedTokens(t *testing.T) {
	store := &memStore{tokens: session.Tokens{AccessToken: "a", RefreshToken: "r"}}
	sess := NewSession(store, logger.NewNopLogger())

	require.NoError(t, sess.Init(context.Background()))
	assert.Equal(t, "a", sess.AccessToken())
	assert.Equal(t, "r", sess.RefreshToken())
	assert.True(t, sess.Authenticated())
}

func TestSession_InitWithoutSession(t *testing.T) {
	sess := NewSession(&memStore{}, logger.NewNopLogger())

	require.NoError(t, sess.Init(context.Background()))
	assert.False(t, sess.Authenticated())
}

func TestSharedSession_ClearLeavesStoreAlone(t *testing.T) {
	ctx := context.Background()
	store := &memStore{tokens: session.Tokens{AccessToken: "a", RefreshToken: "r"}}
	shared := NewSharedSession(store, logger.NewNopLogger())

	require.NoError(t, shared.Reload(ctx))
	assert.Equal(t, "a", shared.AccessToken())

	require.NoError(t, shared.Clear(ctx))
	assert.False(t, shared.Authenticated())
	assert.Equal(t, 0, store.clears)
	assert.Equal(t, 0, store.saves)
	assert.Equal(t, "a", store.tokens.AccessToken)

	store.tokens = session.Tokens{}
	require.NoError(t, shared.Reload(ctx))
	assert.Empty(t, shared.RefreshToken())
}

func TestLogin_StoresBothTokens(t *testing.T) {
	store := &memStore{}
	sess := NewSession(store, logger.NewNopLogger())
	gw := &fakeGateway{loginTokens: session.Tokens{AccessToken: "a1", RefreshToken: "r1"}}

	err := NewLoginUseCase(gw, sess, logger.NewNopLogger()).Execute(context.Background(), LoginInput{Username: "admin", Password: "pw"})

	require.NoError(t, err)
	assert.Equal(t, "a1", sess.AccessToken())
	assert.Equal(t, session.Tokens{AccessToken: "a1", RefreshToken: "r1"}, store.tokens)
}

func TestLogin_FailureLeavesSessionUntouched(t *testing.T) {
	store := &memStore{}
	sess := NewSession(store, logger.NewNopLogger())
	require.NoError(t, sess.Update(context.Background(), session.Tokens{AccessToken: "old", RefreshToken: "old-r"}))
	gw := &fakeGateway{loginErr: apperror.NewHTTP(401, "invalid credentials")}

	err := NewLoginUseCase(gw, sess, logger.NewNopLogger()).Execute(context.Background(), LoginInput{Username: "admin", Password: "bad"})

	assert.Equal(t, "invalid credentials", apperror.Message(err, ""))
	assert.Equal(t, "old", sess.AccessToken())
	assert.Zero(t, store.clears)
}

func TestLogin_RequiresCredentials(t *testing.T) {
	sess := NewSession(&memStore{}, logger.NewNopLogger())

	err := NewLoginUseCase(&fakeGateway{}, sess, logger.NewNopLogger()).Execute(context.Background(), LoginInput{})

	fields, ok := apperror.Fields(err)
	require.True(t, ok)
	assert.Equal(t, apperror.FieldErrors{"username": "required", "senha": "required"}, fields)
}

func TestLogout_AlwaysClears(t *testing.T) {
	store := &memStore{}
	sess := NewSession(store, logger.NewNopLogger())
	require.NoError(t, sess.Update(context.Background(), session.Tokens{AccessToken: "a", RefreshToken: "r"}))
	gw := &fakeGateway{logoutErr: errors.New("backend down")}

	require.NoError(t, NewLogoutUseCase(gw, sess, logger.NewNopLogger()).Execute(context.Background()))

	assert.Equal(t, []string{"r"}, gw.logoutCalls)
	assert.False(t, sess.Authenticated())
	assert.Equal(t, 1, store.clears)
}

func TestLogout_SkipsBackendWithoutRefreshToken(t *testing.T) {
	gw := &fakeGateway{}
	sess := NewSession(&memStore{}, logger.NewNopLogger())

	require.NoError(t, NewLogoutUseCase(gw, sess, logger.NewNopLogger()).Execute(context.Background()))
	assert.Empty(t, gw.logoutCalls)
}

func TestRefresh_EnsureFresh(t *testing.T) {
	ctx := context.Background()

	t.Run("token about to expire is refreshed", func(t *testing.T) {
		sess := NewSession(&memStore{}, logger.NewNopLogger())
		require.NoError(t, sess.Update(ctx, session.Tokens{AccessToken: signed(t, time.Now().Add(10*time.Second)), RefreshToken: "r"}))
		gw := &fakeGateway{refreshTokens: session.Tokens{AccessToken: "new"}}

		refreshed := NewRefreshUseCase(gw, sess, pkgauth.NewTokenInspector(), logger.NewNopLogger()).EnsureFresh(ctx)

		assert.True(t, refreshed)
		assert.Equal(t, "new", sess.AccessToken())
		assert.Equal(t, "r", sess.RefreshToken())
	})

	t.Run("token far from expiry is kept", func(t *testing.T) {
		token := signed(t, time.Now().Add(time.Hour))
		sess := NewSession(&memStore{}, logger.NewNopLogger())
		require.NoError(t, sess.Update(ctx, session.Tokens{AccessToken: token, RefreshToken: "r"}))
		gw := &fakeGateway{}

		assert.False(t, NewRefreshUseCase(gw, sess, pkgauth.NewTokenInspector(), logger.NewNopLogger()).EnsureFresh(ctx))
		assert.Zero(t, gw.refreshCalls)
		assert.Equal(t, token, sess.AccessToken())
	})

	t.Run("opaque tokens are never refreshed early", func(t *testing.T) {
		sess := NewSession(&memStore{}, logger.NewNopLogger())
		require.NoError(t, sess.Update(ctx, session.Tokens{AccessToken: "opaque", RefreshToken: "r"}))
		gw := &fakeGateway{}

		assert.False(t, NewRefreshUseCase(gw, sess, pkgauth.NewTokenInspector(), logger.NewNopLogger()).EnsureFresh(ctx))
		assert.Zero(t, gw.refreshCalls)
	})
}
