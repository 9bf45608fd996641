package auth

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/melevanoronha/admin-console/internal/domain/session"
	"github.com/melevanoronha/admin-console/pkg/logger"
)

// SharedSession follows the session another process owns and persists. It
// reads the store but never writes it: Clear only forgets the local copy, so a
// rejected token here cannot sign the owning process out.
type SharedSession struct {
	mu     sync.RWMutex
	tokens session.Tokens
	store  session.Store
	logger logger.Logger
}

func NewSharedSession(store session.Store, log logger.Logger) *SharedSession {
	return &SharedSession{
		store:  store,
		logger: log.With(zap.String("component", "shared_session")),
	}
}

// Reload picks up whatever the owner last persisted. An empty store leaves no tokens.
func (s *SharedSession) Reload(ctx context.Context) error {
	tokens, err := s.store.Load(ctx)
	if err != nil {
		if !errors.Is(err, session.ErrNoSession) {
			return err
		}
		tokens = session.Tokens{}
	}

	s.mu.Lock()
	changed := tokens.AccessToken != s.tokens.AccessToken
	s.tokens = tokens
	s.mu.Unlock()

	if changed {
		s.logger.Debug("Shared session changed", zap.Bool("authenticated", tokens.AccessToken != ""))
	}
	return nil
}

func (s *SharedSession) Clear(ctx context.Context) error {
	s.mu.Lock()
	s.tokens = session.Tokens{}
	s.mu.Unlock()
	return nil
}

func (s *SharedSession) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tokens.AccessToken
}

func (s *SharedSession) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tokens.RefreshToken
}

func (s *SharedSession) Authenticated() bool {
	return s.AccessToken() != ""
}
