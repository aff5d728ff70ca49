package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/Domenick1991/opdqueue/internal/domain"
	"github.com/redis/go-redis/v9"
)

// RedisSessionStore keeps one key per (holder, scope) holding the issue time in unix millis.
// Keys outlive the scope timeout by sessionKeyGrace; the guard decides expiry and the TTL
// only sweeps abandoned markers.
const sessionKeyGrace = time.Minute

type RedisSessionStore struct {
	client redis.UniversalClient
}

func NewRedisSessionStore(client redis.UniversalClient) *RedisSessionStore {
	return &RedisSessionStore{client: client}
}

func (s *RedisSessionStore) Issued(ctx context.Context, holder string, scope domain.Scope) (time.Time, bool, error) {
	raw, err := s.client.Get(ctx, sessionKey(holder, scope)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, err
	}
	ms, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("corrupt session marker %q: %w", raw, err)
	}
	return time.UnixMilli(ms), true, nil
}

func (s *RedisSessionStore) Issue(ctx context.Context, holder string, scope domain.Scope, at time.Time, ttl time.Duration) error {
	return s.client.Set(ctx, sessionKey(holder, scope), strconv.FormatInt(at.UnixMilli(), 10), ttl+sessionKeyGrace).Err()
}

func (s *RedisSessionStore) Remove(ctx context.Context, holder string, scope domain.Scope) error {
	return s.client.Del(ctx, sessionKey(holder, scope)).Err()
}

func sessionKey(holder string, scope domain.Scope) string {
	return fmt.Sprintf("session:%s:%s", holder, scope)
}
