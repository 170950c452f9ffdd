package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	"github.com/casccoach/platform/backend/internal/domain"
)

// ErrLocked is returned by Acquire when another holder owns the lock.
var ErrLocked = fmt.Errorf("%w: resource is locked", domain.ErrConflict)

// releaseScript deletes the key only if it still holds our token, so a lock
// that expired and was taken by someone else is left alone.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Locker hands out short exclusive locks backed by SET NX.
type Locker struct {
	client *redis.Client
	ttl    time.Duration
}

// NewLocker returns a Locker whose locks expire after ttl if never released.
func NewLocker(client *redis.Client, ttl time.Duration) *Locker {
	return &Locker{client: client, ttl: ttl}
}

// Acquire takes the lock named key. The returned release function is safe to
// call once the work is done; it never releases a lock taken by someone else.
func (l *Locker) Acquire(ctx context.Context, key string) (release func(context.Context) error, err error) {
	token := uuid.NewString()
	ok, err := l.client.SetNX(ctx, lockKey(key), token, l.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("cache.Locker.Acquire: %w", err)
	}
	if !ok {
		return nil, ErrLocked
	}

	return func(ctx context.Context) error {
		if err := releaseScript.Run(ctx, l.client, []string{lockKey(key)}, token).Err(); err != nil && !errors.Is(err, redis.Nil) {
			return fmt.Errorf("cache.Locker.release: %w", err)
		}
		return nil
	}, nil
}

// Held reports whether anyone currently holds the lock named key.
func (l *Locker) Held(ctx context.Context, key string) (bool, error) {
	n, err := l.client.Exists(ctx, lockKey(key)).Result()
	if err != nil {
		return false, fmt.Errorf("cache.Locker.Held: %w", err)
	}
	return n > 0, nil
}

func lockKey(key string) string {
	return "lock:" + key
}
