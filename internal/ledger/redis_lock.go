package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"

	"github.com/josh-kwaku/bakery-pos/internal/domain"
)

const (
	defaultLockKey   = "lock:ledger"
	lockRetryBackoff = 25 * time.Millisecond
)

// RedisLocker serializes appends between till processes that share a ledger
// volume.
type RedisLocker struct {
	client *redislock.Client
	key    string
	ttl    time.Duration
	wait   time.Duration
}

// NewRedisLocker holds the lock for at most ttl and waits up to wait to
// obtain it. An empty key uses "lock:ledger".
func NewRedisLocker(rdb *redis.Client, key string, ttl, wait time.Duration) *RedisLocker {
	if key == "" {
		key = defaultLockKey
	}
	return &RedisLocker{
		client: redislock.New(rdb),
		key:    key,
		ttl:    ttl,
		wait:   wait,
	}
}

func (l *RedisLocker) Acquire(ctx context.Context) (func(context.Context) error, error) {
	ctx, cancel := context.WithTimeout(ctx, l.wait)
	defer cancel()

	lock, err := l.client.Obtain(ctx, l.key, l.ttl, &redislock.Options{
		RetryStrategy: redislock.LinearBackoff(lockRetryBackoff),
	})
	if errors.Is(err, redislock.ErrNotObtained) || errors.Is(err, context.DeadlineExceeded) {
		return nil, fmt.Errorf("Acquire: %s: %w", l.key, domain.ErrLockNotObtained)
	}
	if err != nil {
		return nil, fmt.Errorf("Acquire: %s: %w", l.key, err)
	}

	return func(ctx context.Context) error {
		if err := lock.Release(ctx); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			return fmt.Errorf("Release: %s: %w", l.key, err)
		}
		return nil
	}, nil
}

// ConnectRedis returns a client for addr after a successful ping.
func ConnectRedis(ctx context.Context, addr string) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("ConnectRedis: %s: %w", addr, err)
	}
	return rdb, nil
}
