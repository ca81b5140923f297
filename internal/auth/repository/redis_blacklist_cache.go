package repository

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/allisson/quizly/internal/errors"
)

const defaultBlacklistKeyPrefix = "quizly:blacklist:"

// RedisBlacklistCache remembers blacklisted token ids until the token would have
// expired anyway. Only positives are cached, so a miss always falls through to SQL.
type RedisBlacklistCache struct {
	client    redis.Cmdable
	keyPrefix string
	now       func() time.Time
}

// NewRedisBlacklistCache creates a cache over client. An empty keyPrefix selects the default.
func NewRedisBlacklistCache(client redis.Cmdable, keyPrefix string) *RedisBlacklistCache {
	if keyPrefix == "" {
		keyPrefix = defaultBlacklistKeyPrefix
	}
	return &RedisBlacklistCache{
		client:    client,
		keyPrefix: keyPrefix,
		now:       time.Now,
	}
}

// Add caches jti as blacklisted. Tokens already past expiresAt are skipped.
func (r *RedisBlacklistCache) Add(ctx context.Context, jti string, expiresAt time.Time) error {
	ttl := expiresAt.Sub(r.now())
	if ttl <= 0 {
		return nil
	}
	if err := r.client.Set(ctx, r.key(jti), "1", ttl).Err(); err != nil {
		return apperrors.Wrap(err, "failed to cache blacklisted token")
	}
	return nil
}

// Contains reports whether jti is cached as blacklisted.
func (r *RedisBlacklistCache) Contains(ctx context.Context, jti string) (bool, error) {
	err := r.client.Get(ctx, r.key(jti)).Err()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, apperrors.Wrap(err, "failed to read blacklist cache")
	}
	return true, nil
}

func (r *RedisBlacklistCache) key(jti string) string {
	return r.keyPrefix + jti
}
