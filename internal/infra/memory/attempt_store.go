package memory

import (
	"context"
	"sync"
	"time"

	"iqscalar-assessment-service/internal/domain"
)

// AttemptStore is an in-memory implementation of app.AttemptRepository.
// Attempts older than ttl are dropped; a non-positive ttl keeps them until taken.
type AttemptStore struct {
	ttl   time.Duration
	clock func() time.Time

	mu       sync.Mutex
	attempts map[string]pendingAttempt
}

type pendingAttempt struct {
	attempt   domain.Attempt
	expiresAt time.Time
}

func NewAttemptStore(ttl time.Duration) *AttemptStore {
	return &AttemptStore{
		ttl:      ttl,
		clock:    time.Now,
		attempts: make(map[string]pendingAttempt),
	}
}

func (s *AttemptStore) Save(_ context.Context, attempt domain.Attempt) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.clock()
	s.sweep(now)
	entry := pendingAttempt{attempt: attempt}
	if s.ttl > 0 {
		entry.expiresAt = now.Add(s.ttl)
	}
	s.attempts[attempt.ID] = entry
	return nil
}

func (s *AttemptStore) Take(_ context.Context, attemptID string) (domain.Attempt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweep(s.clock())
	entry, ok := s.attempts[attemptID]
	if !ok {
		return domain.Attempt{}, domain.ErrAttemptNotFound
	}
	delete(s.attempts, attemptID)
	return entry.attempt, nil
}

// Len reports how many attempts are pending.
func (s *AttemptStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweep(s.clock())
	return len(s.attempts)
}

// sweep drops expired attempts. Callers hold s.mu.
func (s *AttemptStore) sweep(now time.Time) {
	for id, entry := range s.attempts {
		if !entry.expiresAt.IsZero() && !entry.expiresAt.After(now) {
			delete(s.attempts, id)
		}
	}
}
