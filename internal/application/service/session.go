package service

import "context"

// SessionContext is the token holder every outgoing backend call reads from.
type SessionContext interface {
	AccessToken() string
	RefreshToken() string
	Clear(ctx context.Context) error
}

// Navigator sends the operator back to the login entry point.
type Navigator interface {
	RedirectToLogin()
}
