package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenInspector reads the claims of access tokens issued by the backend.
// The console never holds the signing key, so signatures are not verified;
// the result is only used to decide when to refresh.
type TokenInspector struct {
	parser *jwt.Parser
	now    func() time.Time
}

type TokenInfo struct {
	Subject   string
	ExpiresAt time.Time
}

func NewTokenInspector() *TokenInspector {
	return &TokenInspector{
		parser: jwt.NewParser(),
		now:    time.Now,
	}
}

func (s *TokenInspector) Inspect(tokenString string) (*TokenInfo, error) {
	claims := jwt.RegisteredClaims{}
	if _, _, err := s.parser.ParseUnverified(tokenString, &claims); err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	info := &TokenInfo{Subject: claims.Subject}
	if claims.ExpiresAt != nil {
		info.ExpiresAt = claims.ExpiresAt.Time
	}
	return info, nil
}

// ExpiresWithin reports whether the token expires in less than d.
// Opaque tokens and tokens without exp never report true.
func (s *TokenInspector) ExpiresWithin(tokenString string, d time.Duration) bool {
	info, err := s.Inspect(tokenString)
	if err != nil || info.ExpiresAt.IsZero() {
		return false
	}
	return info.ExpiresAt.Before(s.now().Add(d))
}
