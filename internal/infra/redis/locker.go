package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	DefaultLockLease = 10 * time.Second
	lockRetry        = 20 * time.Millisecond
)

// unlockScript deletes the lock only while it still holds our token, so an
// expired lease taken over by another instance is left alone.
var unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Locker is a storage.Locker shared by every instance using the same Redis.
// SET iqscalar:lock:{key} {token} NX PX lease
type Locker struct {
	client *redis.Client
	lease  time.Duration
}

func NewLocker(client *redis.Client, lease time.Duration) *Locker {
	if lease <= 0 {
		lease = DefaultLockLease
	}
	return &Locker{client: client, lease: lease}
}

func (l *Locker) Lock(ctx context.Context, key string) (func(), error) {
	lockKey := keyPrefix + "lock:" + key
	token := uuid.NewString()

	ticker := time.NewTicker(lockRetry)
	defer ticker.Stop()
	for {
		ok, err := l.client.SetNX(ctx, lockKey, token, l.lease).Result()
		if err != nil {
			return nil, fmt.Errorf("lock %s: %w", key, err)
		}
		if ok {
			return func() {
				_ = unlockScript.Run(context.Background(), l.client, []string{lockKey}, token).Err()
			}, nil
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("lock %s: %w", key, ctx.Err())
		case <-ticker.C:
		}
	}
}
