package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4/pgxpool"
)

const (
	DefaultLockLease = 10 * time.Second
	lockRetry        = 20 * time.Millisecond
)

// Locker is a storage.Locker shared by every instance using the same
// database. A lock is a kv_locks row with a lease; an expired lease may be
// taken over. No connection is held while the lock is held.
type Locker struct {
	pool  *pgxpool.Pool
	lease time.Duration
}

func NewLocker(pool *pgxpool.Pool, lease time.Duration) *Locker {
	if lease <= 0 {
		lease = DefaultLockLease
	}
	return &Locker{pool: pool, lease: lease}
}

func (l *Locker) Lock(ctx context.Context, key string) (func(), error) {
	token := uuid.NewString()
	ticker := time.NewTicker(lockRetry)
	defer ticker.Stop()
	for {
		tag, err := l.pool.Exec(ctx, `
			INSERT INTO kv_locks (key, token, expires_at)
			VALUES ($1, $2, now() + $3::interval)
			ON CONFLICT (key) DO UPDATE
			SET token = EXCLUDED.token, expires_at = EXCLUDED.expires_at
			WHERE kv_locks.expires_at < now()`,
			key, token, fmt.Sprintf("%d milliseconds", l.lease.Milliseconds()))
		if err != nil {
			return nil, fmt.Errorf("lock %s: %w", key, err)
		}
		if tag.RowsAffected() == 1 {
			return func() {
				_, _ = l.pool.Exec(context.Background(), `DELETE FROM kv_locks WHERE key = $1 AND token = $2`, key, token)
			}, nil
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("lock %s: %w", key, ctx.Err())
		case <-ticker.C:
		}
	}
}
