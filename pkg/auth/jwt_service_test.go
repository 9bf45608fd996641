package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signed(t *testing.T, exp time.Time) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Subject:   "staff-1",
		ExpiresAt: jwt.NewNumericDate(exp),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("backend-secret"))
	require.NoError(t, err)
	return token
}

func TestInspect(t *testing.T) {
	s := NewTokenInspector()
	exp := time.Now().Add(time.Hour).Truncate(time.Second)

	info, err := s.Inspect(signed(t, exp))
	require.NoError(t, err)
	assert.Equal(t, "staff-1", info.Subject)
	assert.True(t, info.ExpiresAt.Equal(exp))
}

func TestExpiresWithin(t *testing.T) {
	s := NewTokenInspector()

	assert.True(t, s.ExpiresWithin(signed(t, time.Now().Add(30*time.Second)), time.Minute))
	assert.False(t, s.ExpiresWithin(signed(t, time.Now().Add(time.Hour)), time.Minute))
	assert.False(t, s.ExpiresWithin("opaque-token", time.Minute))
}
