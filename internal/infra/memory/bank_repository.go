package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"iqscalar-assessment-service/internal/domain"
)

// BankLoader produces a normalized bank for a kind (see bank.Catalog).
type BankLoader interface {
	LoadBank(ctx context.Context, kind domain.BankKind) (domain.Bank, error)
}

// fallbackRetry is how long a fallback bank is served before the source is retried.
const fallbackRetry = time.Minute

// BankRepository caches banks per kind to avoid refetching the documents.
// A non-positive TTL keeps a loaded bank for the life of the process.
type BankRepository struct {
	loader BankLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand

	mu    sync.RWMutex
	cache map[domain.BankKind]cachedBank
}

type cachedBank struct {
	bank      domain.Bank
	expiresAt time.Time
}

func NewBankRepository(loader BankLoader, ttl time.Duration) *BankRepository {
	return &BankRepository{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[domain.BankKind]cachedBank),
	}
}

func (r *BankRepository) GetBank(ctx context.Context, kind domain.BankKind) (domain.Bank, error) {
	if b, ok := r.cached(kind); ok {
		return b, nil
	}

	result, err, _ := r.sf.Do(string(kind), func() (interface{}, error) {
		if b, ok := r.cached(kind); ok {
			return b, nil
		}

		// The load outlives the caller that triggered it: every caller
		// waiting on this flight shares its result.
		b, err := r.loader.LoadBank(context.WithoutCancel(ctx), kind)
		if err != nil {
			return domain.Bank{}, err
		}

		entry := cachedBank{bank: b}
		switch {
		case b.Fallback:
			entry.expiresAt = r.clock().Add(fallbackRetry)
		case r.ttl > 0:
			entry.expiresAt = r.clock().Add(r.ttlWithJitter())
		}
		r.mu.Lock()
		r.cache[kind] = entry
		r.mu.Unlock()
		return b, nil
	})
	if err != nil {
		return domain.Bank{}, err
	}
	return result.(domain.Bank), nil
}

// Invalidate drops the cached bank so the next access reloads it wholesale.
func (r *BankRepository) Invalidate(_ context.Context, kind domain.BankKind) error {
	r.mu.Lock()
	delete(r.cache, kind)
	r.mu.Unlock()
	return nil
}

func (r *BankRepository) cached(kind domain.BankKind) (domain.Bank, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.cache[kind]
	if !ok {
		return domain.Bank{}, false
	}
	if !entry.expiresAt.IsZero() && !entry.expiresAt.After(r.clock()) {
		return domain.Bank{}, false
	}
	return entry.bank, true
}

// StaticBankLoader serves fixed banks (useful for tests/demos).
type StaticBankLoader struct {
	banks map[domain.BankKind][]domain.Question
}

func NewStaticBankLoader(banks map[domain.BankKind][]domain.Question) *StaticBankLoader {
	return &StaticBankLoader{banks: banks}
}

func (l *StaticBankLoader) LoadBank(_ context.Context, kind domain.BankKind) (domain.Bank, error) {
	questions, ok := l.banks[kind]
	if !ok {
		return domain.Bank{}, domain.ErrUnknownBank
	}
	return domain.Bank{Kind: kind, Questions: questions}, nil
}

func (r *BankRepository) ttlWithJitter() time.Duration {
	// add up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
