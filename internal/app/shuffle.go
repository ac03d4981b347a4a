package app

import (
	"math/rand"
	"sync"
	"time"

	"iqscalar-assessment-service/internal/domain"
)

// Shuffler performs Fisher-Yates shuffles over a shared random source.
type Shuffler struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewShuffler wraps rnd; a nil rnd is seeded from the clock.
func NewShuffler(rnd *rand.Rand) *Shuffler {
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Shuffler{rnd: rnd}
}

// Shuffle returns a shuffled copy of questions; the input is not modified.
func (s *Shuffler) Shuffle(questions []domain.Question) []domain.Question {
	out := make([]domain.Question, len(questions))
	copy(out, questions)

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(out) - 1; i > 0; i-- {
		j := s.rnd.Intn(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}
