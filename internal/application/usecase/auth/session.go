package auth

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/melevanoronha/admin-console/internal/domain/session"
	"github.com/melevanoronha/admin-console/pkg/logger"
)

// Session is the console's single token holder. It is read by every outgoing
// backend call and written by login, refresh, logout and the 401 handler.
type Session struct {
	mu     sync.RWMutex
	tokens session.Tokens
	store  session.Store
	logger logger.Logger
}

func NewSession(store session.Store, log logger.Logger) *Session {
	return &Session{
		store:  store,
		logger: log.With(zap.String("component", "session")),
	}
}

// Init restores the tokens persisted by a previous run.
func (s *Session) Init(ctx context.Context) error {
	tokens, err := s.store.Load(ctx)
	if err != nil && !errors.Is(err, session.ErrNoSession) {
		return err
	}

	s.mu.Lock()
	s.tokens = tokens
	s.mu.Unlock()

	if !tokens.Empty() {
		s.logger.Info("Restored persisted session")
	}
	return nil
}

func (s *Session) Update(ctx context.Context, tokens session.Tokens) error {
	s.mu.Lock()
	s.tokens = tokens
	s.mu.Unlock()

	if err := s.store.Save(ctx, tokens); err != nil {
		s.logger.Error("Failed to persist session", err)
		return err
	}
	return nil
}

// Clear forgets the tokens in memory first so no later request can use them,
// even if the store fails.
func (s *Session) Clear(ctx context.Context) error {
	s.mu.Lock()
	s.tokens = session.Tokens{}
	s.mu.Unlock()

	if err := s.store.Clear(ctx); err != nil {
		s.logger.Error("Failed to clear persisted session", err)
		return err
	}
	return nil
}

func (s *Session) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tokens.AccessToken
}

func (s *Session) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tokens.RefreshToken
}

func (s *Session) Authenticated() bool {
	return s.AccessToken() != ""
}
