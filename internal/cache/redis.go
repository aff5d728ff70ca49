package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Domenick1991/opdqueue/config"
	"github.com/Domenick1991/opdqueue/internal/domain"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type RedisCache struct {
	client     redis.UniversalClient
	doctorsTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, doctorsTTL time.Duration) *RedisCache {
	return NewRedisCacheWithClient(
		redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		doctorsTTL,
	)
}

func NewRedisCacheWithClient(client redis.UniversalClient, doctorsTTL time.Duration) *RedisCache {
	return &RedisCache{client: client, doctorsTTL: doctorsTTL}
}

func (c *RedisCache) Client() redis.UniversalClient {
	return c.client
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

// GetDoctors returns nil, nil on a cache miss.
func (c *RedisCache) GetDoctors(ctx context.Context) ([]domain.Doctor, error) {
	data, err := c.client.Get(ctx, doctorsKey()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var doctors []domain.Doctor
	if err := json.Unmarshal(data, &doctors); err != nil {
		return nil, err
	}
	return doctors, nil
}

func (c *RedisCache) SetDoctors(ctx context.Context, doctors []domain.Doctor) error {
	payload, err := json.Marshal(doctors)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, doctorsKey(), payload, c.doctorsTTL).Err()
}

func (c *RedisCache) InvalidateDoctors(ctx context.Context) error {
	return c.client.Del(ctx, doctorsKey()).Err()
}

// ErrLockNotHeld means the day lock expired, and possibly passed to another holder, before release.
var ErrLockNotHeld = errors.New("day lock no longer held")

// releaseDayLock deletes the key only while it still carries the caller's token.
var releaseDayLock = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// AcquireDayLock stores a fresh owner token under the day key if nobody holds it.
func (c *RedisCache) AcquireDayLock(ctx context.Context, doctorID, date string, ttl time.Duration) (string, bool, error) {
	token := uuid.NewString()
	ok, err := c.client.SetNX(ctx, dayLockKey(doctorID, date), token, ttl).Result()
	if err != nil || !ok {
		return "", false, err
	}
	return token, true, nil
}

func (c *RedisCache) ReleaseDayLock(ctx context.Context, doctorID, date, token string) error {
	deleted, err := releaseDayLock.Run(ctx, c.client, []string{dayLockKey(doctorID, date)}, token).Int64()
	if err != nil {
		return fmt.Errorf("release day lock: %w", err)
	}
	if deleted == 0 {
		return ErrLockNotHeld
	}
	return nil
}

func doctorsKey() string {
	return "cache:doctors"
}

func dayLockKey(doctorID, date string) string {
	return fmt.Sprintf("lock:booking:%s:%s", doctorID, date)
}
