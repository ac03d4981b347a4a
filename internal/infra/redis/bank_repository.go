package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"iqscalar-assessment-service/internal/domain"
)

// BankLoader produces a normalized bank for a kind (see bank.Catalog).
type BankLoader interface {
	LoadBank(ctx context.Context, kind domain.BankKind) (domain.Bank, error)
}

const fallbackRetry = time.Minute

// BankRepository caches normalized banks in Redis and falls back to a loader on cache miss.
// Banks are stored as JSON: SET iqscalar:bank:{kind} {bank} EX ttl
// Fallback banks are kept for fallbackRetry only, so a recovered source is picked up soon.
type BankRepository struct {
	client *redis.Client
	loader BankLoader
	ttl    time.Duration
	sf     singleflight.Group

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewBankRepository(client *redis.Client, loader BankLoader, ttl time.Duration) *BankRepository {
	return &BankRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *BankRepository) GetBank(ctx context.Context, kind domain.BankKind) (domain.Bank, error) {
	if b, ok := r.cached(ctx, kind); ok {
		return b, nil
	}

	result, err, _ := r.sf.Do(string(kind), func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if b, ok := r.cached(ctx, kind); ok {
			return b, nil
		}

		// The load outlives the caller that triggered it: every caller
		// waiting on this flight shares its result.
		loadCtx := context.WithoutCancel(ctx)
		b, err := r.loader.LoadBank(loadCtx, kind)
		if err != nil {
			return domain.Bank{}, err
		}
		ttl := r.ttlWithJitter()
		if b.Fallback {
			ttl = fallbackRetry
		}
		if raw, err := json.Marshal(b); err == nil {
			_ = r.client.Set(loadCtx, bankKey(kind), raw, ttl).Err()
		}
		return b, nil
	})
	if err != nil {
		return domain.Bank{}, err
	}
	return result.(domain.Bank), nil
}

// Invalidate removes the cached bank so the next access reloads it.
func (r *BankRepository) Invalidate(ctx context.Context, kind domain.BankKind) error {
	return r.client.Del(ctx, bankKey(kind)).Err()
}

func (r *BankRepository) cached(ctx context.Context, kind domain.BankKind) (domain.Bank, bool) {
	raw, err := r.client.Get(ctx, bankKey(kind)).Bytes()
	if err != nil {
		// redis.Nil and transport errors both fall through to the loader.
		return domain.Bank{}, false
	}
	var b domain.Bank
	if err := json.Unmarshal(raw, &b); err != nil || len(b.Questions) == 0 {
		return domain.Bank{}, false
	}
	return b, true
}

func bankKey(kind domain.BankKind) string {
	return keyPrefix + "bank:" + string(kind)
}

// ttlWithJitter returns 0 (no expiry) for a non-positive TTL.
func (r *BankRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
