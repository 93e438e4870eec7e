package redislock

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Locker is a best-effort advisory lock on top of Redis SETNX with a TTL.
// The TTL keeps a crashed holder from wedging the lock forever.
type Locker struct {
	client *redis.Client
}

// New creates a new Locker
func New(client *redis.Client) *Locker {
	return &Locker{client: client}
}

// Acquire attempts to take the lock, returning false if another holder has it.
func (l *Locker) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return l.client.SetNX(ctx, key, "1", ttl).Result()
}

// Release drops the lock.
func (l *Locker) Release(ctx context.Context, key string) error {
	return l.client.Del(ctx, key).Err()
}
