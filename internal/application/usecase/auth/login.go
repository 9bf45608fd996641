package auth

import (
	"context"

	"go.uber.org/zap"

	"github.com/melevanoronha/admin-console/internal/domain/session"
	"github.com/melevanoronha/admin-console/pkg/apperror"
	"github.com/melevanoronha/admin-console/pkg/logger"
	"github.com/melevanoronha/admin-console/pkg/validation"
)

// Gateway is the backend's authentication surface.
type Gateway interface {
	Login(ctx context.Context, username, password string) (session.Tokens, error)
	Logout(ctx context.Context, refreshToken string) error
	RefreshToken(ctx context.Context, refreshToken string) (session.Tokens, error)
}

type LoginUseCase struct {
	gateway Gateway
	session *Session
	logger  logger.Logger
}

func NewLoginUseCase(gw Gateway, sess *Session, log logger.Logger) *LoginUseCase {
	return &LoginUseCase{
		gateway: gw,
		session: sess,
		logger:  log,
	}
}

type LoginInput struct {
	Username string `json:"username"`
	Password string `json:"senha"`
}

// Execute stores both tokens on success. On failure the current session is left as it was.
func (uc *LoginUseCase) Execute(ctx context.Context, input LoginInput) error {
	fields := apperror.FieldErrors{}
	if msg := validation.Var(input.Username, "required"); msg != "" {
		fields["username"] = msg
	}
	if msg := validation.Var(input.Password, "required"); msg != "" {
		fields["senha"] = msg
	}
	if len(fields) > 0 {
		return apperror.NewValidation(0, "username and password are required", fields)
	}

	tokens, err := uc.gateway.Login(ctx, input.Username, input.Password)
	if err != nil {
		uc.logger.Warn("Login rejected", zap.String("username", input.Username), zap.Error(err))
		return err
	}
	if tokens.AccessToken == "" {
		return apperror.NewHTTP(0, "login response did not include an access token")
	}

	if err := uc.session.Update(ctx, tokens); err != nil {
		return err
	}
	uc.logger.Info("Operator signed in", zap.String("username", input.Username))
	return nil
}

type LogoutUseCase struct {
	gateway Gateway
	session *Session
	logger  logger.Logger
}

func NewLogoutUseCase(gw Gateway, sess *Session, log logger.Logger) *LogoutUseCase {
	return &LogoutUseCase{gateway: gw, session: sess, logger: log}
}

// Execute tells the backend to drop the refresh token and always clears the
// local session, whatever the backend answered.
func (uc *LogoutUseCase) Execute(ctx context.Context) error {
	if refresh := uc.session.RefreshToken(); refresh != "" {
		if err := uc.gateway.Logout(ctx, refresh); err != nil {
			uc.logger.Warn("Backend logout failed, clearing local session anyway", zap.Error(err))
		}
	}
	return uc.session.Clear(ctx)
}
