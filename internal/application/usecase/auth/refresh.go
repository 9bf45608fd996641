package auth

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/melevanoronha/admin-console/pkg/apperror"
	"github.com/melevanoronha/admin-console/pkg/auth"
	"github.com/melevanoronha/admin-console/pkg/logger"
)

// RefreshWindow is how close to expiry an access token may get before it is renewed.
const RefreshWindow = time.Minute

type RefreshUseCase struct {
	gateway   Gateway
	session   *Session
	inspector *auth.TokenInspector
	logger    logger.Logger
}

func NewRefreshUseCase(gw Gateway, sess *Session, inspector *auth.TokenInspector, log logger.Logger) *RefreshUseCase {
	return &RefreshUseCase{
		gateway:   gw,
		session:   sess,
		inspector: inspector,
		logger:    log,
	}
}

// Execute swaps the refresh token for a new pair. A backend that does not
// rotate refresh tokens keeps the old one.
func (uc *RefreshUseCase) Execute(ctx context.Context) error {
	refresh := uc.session.RefreshToken()
	if refresh == "" {
		return apperror.NewUnauthorized("no refresh token in session")
	}

	tokens, err := uc.gateway.RefreshToken(ctx, refresh)
	if err != nil {
		return err
	}
	if tokens.AccessToken == "" {
		return apperror.NewHTTP(0, "refresh response did not include an access token")
	}
	if tokens.RefreshToken == "" {
		tokens.RefreshToken = refresh
	}
	return uc.session.Update(ctx, tokens)
}

// EnsureFresh refreshes only when the access token is about to expire. Refresh
// failures are logged and left to the next backend call to surface.
func (uc *RefreshUseCase) EnsureFresh(ctx context.Context) bool {
	access := uc.session.AccessToken()
	if access == "" || uc.session.RefreshToken() == "" || !uc.inspector.ExpiresWithin(access, RefreshWindow) {
		return false
	}
	if err := uc.Execute(ctx); err != nil {
		uc.logger.Warn("Proactive token refresh failed", zap.Error(err))
		return false
	}
	uc.logger.Debug("Access token refreshed before expiry")
	return true
}
