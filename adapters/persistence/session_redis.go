package persistence

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/melevanoronha/admin-console/internal/domain/session"
)

// RedisSessionStore shares one session between the console and the media worker.
type RedisSessionStore struct {
	client redis.Cmdable
	key    string
}

func NewRedisSessionStore(client redis.Cmdable, prefix string) *RedisSessionStore {
	return &RedisSessionStore{client: client, key: prefix + "current"}
}

func (r *RedisSessionStore) Load(ctx context.Context) (session.Tokens, error) {
	values, err := r.client.HGetAll(ctx, r.key).Result()
	if err != nil {
		return session.Tokens{}, fmt.Errorf("load session from redis: %w", err)
	}
	tokens := session.Tokens{
		AccessToken:  values[session.KeyAccessToken],
		RefreshToken: values[session.KeyRefreshToken],
	}
	if tokens.Empty() {
		return session.Tokens{}, session.ErrNoSession
	}
	return tokens, nil
}

func (r *RedisSessionStore) Save(ctx context.Context, tokens session.Tokens) error {
	pipe := r.client.TxPipeline()
	pipe.Del(ctx, r.key)
	pipe.HSet(ctx, r.key,
		session.KeyAccessToken, tokens.AccessToken,
		session.KeyRefreshToken, tokens.RefreshToken,
	)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("save session to redis: %w", err)
	}
	return nil
}

func (r *RedisSessionStore) Clear(ctx context.Context) error {
	if err := r.client.Del(ctx, r.key).Err(); err != nil {
		return fmt.Errorf("clear session in redis: %w", err)
	}
	return nil
}
