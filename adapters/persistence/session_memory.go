package persistence

import (
	"context"
	"sync"

	"github.com/melevanoronha/admin-console/internal/domain/session"
)

// MemorySessionStore keeps the session for the lifetime of the process only.
type MemorySessionStore struct {
	mu     sync.Mutex
	tokens session.Tokens
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{}
}

func (m *MemorySessionStore) Load(ctx context.Context) (session.Tokens, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.tokens.Empty() {
		return session.Tokens{}, session.ErrNoSession
	}
	return m.tokens, nil
}

func (m *MemorySessionStore) Save(ctx context.Context, tokens session.Tokens) error {
	m.mu.Lock()
	m.tokens = tokens
	m.mu.Unlock()
	return nil
}

func (m *MemorySessionStore) Clear(ctx context.Context) error {
	m.mu.Lock()
	m.tokens = session.Tokens{}
	m.mu.Unlock()
	return nil
}
