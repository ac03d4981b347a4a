package app

import (
	"context"
	"log/slog"
	"math/rand"
	"time"

	"iqscalar-assessment-service/internal/config"
	"iqscalar-assessment-service/internal/domain"
	"iqscalar-assessment-service/internal/storage"
)

// BankRepository serves normalized banks (cached in memory, Redis, etc).
type BankRepository interface {
	GetBank(ctx context.Context, kind domain.BankKind) (domain.Bank, error)
}

// AttemptRepository holds allocated sets until they are submitted.
// Take removes the attempt; a second Take returns domain.ErrAttemptNotFound.
type AttemptRepository interface {
	Save(ctx context.Context, attempt domain.Attempt) error
	Take(ctx context.Context, attemptID string) (domain.Attempt, error)
}

// ResultRecorder consumes scored results (history, achievements).
type ResultRecorder interface {
	Record(ctx context.Context, result domain.ScoredResult) error
}

type options struct {
	now          func() time.Time
	rnd          *rand.Rand
	logger       *slog.Logger
	recorder     ResultRecorder
	testSize     int
	practiceSize int
	salt         string
	locker       storage.Locker
}

// Option customizes a service.
type Option func(*options)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithRand fixes the random source used for shuffling.
func WithRand(rnd *rand.Rand) Option {
	return func(o *options) { o.rnd = rnd }
}

func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithRecorder forwards every scored result to recorder.
func WithRecorder(recorder ResultRecorder) Option {
	return func(o *options) { o.recorder = recorder }
}

// WithTestSize sets the default number of questions per full test.
func WithTestSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.testSize = n
		}
	}
}

// WithPracticeSize sets the default number of questions per practice run.
func WithPracticeSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.practiceSize = n
		}
	}
}

// WithDailySalt sets the salt hashed with the date by the daily quiz.
func WithDailySalt(salt string) Option {
	return func(o *options) {
		if salt != "" {
			o.salt = salt
		}
	}
}

// WithLocker sets the lock guarding per-user read-modify-write sequences.
// Instances sharing a store must share a Locker backed by that store.
func WithLocker(locker storage.Locker) Option {
	return func(o *options) {
		if locker != nil {
			o.locker = locker
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{
		now:          time.Now,
		logger:       slog.Default(),
		testSize:     config.DefaultTestQuestions,
		practiceSize: config.DefaultPracticeQuestions,
		salt:         config.DefaultDailySalt,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.locker == nil {
		o.locker = storage.NewLocalLocker()
	}
	return o
}
