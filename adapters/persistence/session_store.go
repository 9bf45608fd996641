package persistence

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/melevanoronha/admin-console/internal/config"
	"github.com/melevanoronha/admin-console/internal/domain/session"
	"github.com/melevanoronha/admin-console/pkg/logger"
)

// NewSessionStore picks the store named by SESSION_STORE. The returned redis
// client is nil unless the redis store was chosen; the caller closes it.
func NewSessionStore(ctx context.Context, cfg config.Config, log logger.Logger) (session.Store, *redis.Client, error) {
	switch cfg.Session.Store {
	case "memory":
		log.Info("Using in-memory session store")
		return NewMemorySessionStore(), nil, nil
	case "redis":
		rdb, err := NewRedisClient(ctx, cfg, log)
		if err != nil {
			return nil, nil, err
		}
		return NewRedisSessionStore(rdb, cfg.Redis.Prefix), rdb, nil
	case "file", "":
		store, err := NewFileSessionStore(cfg.Session.File, cfg.Session.Secret)
		if err != nil {
			return nil, nil, err
		}
		log.Info("Using file session store", zap.String("path", store.Path()), zap.Bool("encrypted", cfg.Session.Secret != ""))
		return store, nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown session store %q", cfg.Session.Store)
	}
}
