package api

import (
	"context"
	"net/http"

	"github.com/melevanoronha/admin-console/internal/domain/session"
)

const (
	LogoutPath       = "/api/auth/logout"
	RefreshTokenPath = "/api/auth/refresh-token"
)

type loginRequest struct {
	Username string `json:"username"`
	Senha    string `json:"senha"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// AuthAPI groups the backend's authentication endpoints.
type AuthAPI struct {
	client *Client
}

func NewAuthAPI(c *Client) *AuthAPI {
	return &AuthAPI{client: c}
}

// Login exchanges credentials for a token pair. A rejected login surfaces the
// backend message and never touches the current session.
func (a *AuthAPI) Login(ctx context.Context, username, password string) (session.Tokens, error) {
	var tokens session.Tokens
	err := a.client.Do(ctx, Request{
		Method:       http.MethodPost,
		Path:         LoginPath,
		JSON:         loginRequest{Username: username, Senha: password},
		DefaultError: "invalid credentials",
	}, &tokens)
	return tokens, err
}

func (a *AuthAPI) Logout(ctx context.Context, refreshToken string) error {
	return a.client.Do(ctx, Request{
		Method:       http.MethodPost,
		Path:         LogoutPath,
		JSON:         refreshRequest{RefreshToken: refreshToken},
		DefaultError: "error signing out",
	}, nil)
}

func (a *AuthAPI) RefreshToken(ctx context.Context, refreshToken string) (session.Tokens, error) {
	var tokens session.Tokens
	err := a.client.Do(ctx, Request{
		Method:       http.MethodPost,
		Path:         RefreshTokenPath,
		JSON:         refreshRequest{RefreshToken: refreshToken},
		DefaultError: "error refreshing session",
	}, &tokens)
	return tokens, err
}
