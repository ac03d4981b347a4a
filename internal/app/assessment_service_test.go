package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"iqscalar-assessment-service/internal/config"
	"iqscalar-assessment-service/internal/domain"
	"iqscalar-assessment-service/internal/infra/memory"
	"iqscalar-assessment-service/internal/storage"
)

type captureRecorder struct {
	mu      sync.Mutex
	results []domain.ScoredResult
	err     error
}

func (r *captureRecorder) Record(_ context.Context, result domain.ScoredResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results = append(r.results, result)
	return r.err
}

func newAssessment(t *testing.T, recorder ResultRecorder) (*AssessmentService, *memory.AttemptStore) {
	t.Helper()
	banks := staticBanks{
		domain.BankTest:     makeBank(fourCategories, 10),
		domain.BankPractice: makeBank([]string{"numerical", "verbal"}, 4),
	}
	attempts := memory.NewAttemptStore(time.Hour)
	opts := []Option{WithRand(fixedRand()), WithTestSize(20), WithPracticeSize(6)}
	if recorder != nil {
		opts = append(opts, WithRecorder(recorder))
	}
	return NewAssessmentService(banks, newExposure(), attempts, opts...), attempts
}

func TestStartTestAndSubmit(t *testing.T) {
	ctx := context.Background()
	recorder := &captureRecorder{}
	svc, attempts := newAssessment(t, recorder)

	attempt, err := svc.StartTest(ctx, "u1", 0)
	if err != nil {
		t.Fatalf("start test: %v", err)
	}
	if len(attempt.Questions) != 20 || attempt.Mode != domain.ModeTest || attempt.UserID != "u1" || attempt.ID == "" {
		t.Fatalf("unexpected attempt %+v", attempt)
	}
	if attempts.Len() != 1 {
		t.Fatalf("expected attempt to be stored")
	}

	answers := make([]*int, len(attempt.Questions))
	for i, q := range attempt.Questions[:10] {
		answers[i] = intp(q.CorrectIndex)
	}
	result, err := svc.Submit(ctx, attempt.ID, answers, 5*time.Minute)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if result.UserID != "u1" || result.Percentage != 50 || result.AbilityEstimate != 100 || result.DurationSeconds != 300 {
		t.Fatalf("unexpected result %+v", result)
	}
	if len(recorder.results) != 1 || recorder.results[0].ID != result.ID {
		t.Fatalf("expected result forwarded to recorder")
	}

	if _, err := svc.Submit(ctx, attempt.ID, answers, 0); !errors.Is(err, domain.ErrAttemptNotFound) {
		t.Fatalf("expected ErrAttemptNotFound on resubmit, got %v", err)
	}
}

func TestSubmitSurvivesRecorderFailure(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAssessment(t, &captureRecorder{err: errors.New("disk full")})

	attempt, err := svc.StartPractice(ctx, "u1", "", 0)
	if err != nil {
		t.Fatalf("start practice: %v", err)
	}
	if _, err := svc.Submit(ctx, attempt.ID, nil, 0); err != nil {
		t.Fatalf("recorder failure must not fail submit: %v", err)
	}
}

func TestStartPractice(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAssessment(t, nil)

	attempt, err := svc.StartPractice(ctx, "u1", "", 0)
	if err != nil {
		t.Fatalf("start practice: %v", err)
	}
	if len(attempt.Questions) != 6 || attempt.Mode != domain.ModePractice {
		t.Fatalf("unexpected practice attempt %+v", attempt)
	}

	verbal, err := svc.StartPractice(ctx, "u1", "verbal", 10)
	if err != nil {
		t.Fatalf("start practice by category: %v", err)
	}
	if len(verbal.Questions) != 4 || verbal.Category != "verbal" {
		t.Fatalf("unexpected verbal practice %+v", verbal)
	}

	progress, _ := svc.Progress(ctx, "u1")
	if progress.TestCount != 0 {
		t.Fatalf("practice must not record exposure, got %+v", progress)
	}
}

func TestAbandonDropsAttempt(t *testing.T) {
	ctx := context.Background()
	svc, attempts := newAssessment(t, nil)

	attempt, _ := svc.StartTest(ctx, "u1", 4)
	if err := svc.Abandon(ctx, attempt.ID); err != nil {
		t.Fatalf("abandon: %v", err)
	}
	if attempts.Len() != 0 {
		t.Fatalf("expected attempt removed")
	}
	if err := svc.Abandon(ctx, attempt.ID); err != nil {
		t.Fatalf("abandon twice: %v", err)
	}
	progress, _ := svc.Progress(ctx, "u1")
	if progress.TestCount != 0 {
		t.Fatalf("unexpected progress %+v", progress)
	}
}

func TestProgressAndReset(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAssessment(t, nil)

	progress, err := svc.Progress(ctx, "u1")
	if err != nil {
		t.Fatalf("progress: %v", err)
	}
	if progress.TotalPossibleTests != 2 || progress.RemainingTests != 2 || !progress.CanTakeMoreTests {
		t.Fatalf("unexpected initial progress %+v", progress)
	}

	if _, err := svc.StartTest(ctx, "u1", 0); err != nil {
		t.Fatalf("start test: %v", err)
	}
	progress, _ = svc.Progress(ctx, "u1")
	if progress.TestCount != 1 || progress.ProgressPercentage != 50 {
		t.Fatalf("unexpected progress %+v", progress)
	}

	if err := svc.ResetExposure(ctx, "u1"); err != nil {
		t.Fatalf("reset: %v", err)
	}
	progress, _ = svc.Progress(ctx, "u1")
	if progress.TestCount != 0 {
		t.Fatalf("expected reset progress, got %+v", progress)
	}
}

func TestStatisticsAndCategories(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAssessment(t, nil)

	stats, err := svc.Statistics(ctx, domain.BankTest)
	if err != nil {
		t.Fatalf("statistics: %v", err)
	}
	if stats.TotalQuestions != 40 || stats.Categories != 4 || stats.QuestionsPerCategory["spatial"] != 10 || stats.TotalPossibleTests != 2 {
		t.Fatalf("unexpected statistics %+v", stats)
	}

	categories, _ := svc.Categories(ctx, domain.BankPractice)
	if len(categories) != 2 || categories[0] != "numerical" || categories[1] != "verbal" {
		t.Fatalf("unexpected categories %v", categories)
	}

	if _, err := svc.Statistics(ctx, domain.BankKind("bonus")); !errors.Is(err, domain.ErrUnknownBank) {
		t.Fatalf("expected ErrUnknownBank, got %v", err)
	}
}

func TestServiceRequiresUser(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAssessment(t, nil)

	if _, err := svc.StartTest(ctx, "", 0); !errors.Is(err, domain.ErrMissingUser) {
		t.Fatalf("StartTest: %v", err)
	}
	if _, err := svc.StartPractice(ctx, "", "", 0); !errors.Is(err, domain.ErrMissingUser) {
		t.Fatalf("StartPractice: %v", err)
	}
	if _, err := svc.Progress(ctx, ""); !errors.Is(err, domain.ErrMissingUser) {
		t.Fatalf("Progress: %v", err)
	}
	if err := svc.ResetExposure(ctx, ""); !errors.Is(err, domain.ErrMissingUser) {
		t.Fatalf("ResetExposure: %v", err)
	}
}

func TestConcurrentStartTestNeverOverlaps(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAssessment(t, nil)

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		seen = make(map[string]int)
	)
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			attempt, err := svc.StartTest(ctx, "u1", 10)
			if err != nil {
				t.Errorf("start test: %v", err)
				return
			}
			mu.Lock()
			defer mu.Unlock()
			for _, q := range attempt.Questions {
				seen[q.ID]++
			}
		}()
	}
	wg.Wait()

	if len(seen) != 40 {
		t.Fatalf("expected 40 distinct questions across 4 tests, got %d", len(seen))
	}
}

// slowStore widens the window between reading and writing a record.
type slowStore struct {
	storage.Store
	delay time.Duration
}

func (s slowStore) Get(ctx context.Context, key string) ([]byte, error) {
	time.Sleep(s.delay)
	return s.Store.Get(ctx, key)
}

func TestInstancesSharingStoreAndLockerNeverOverlap(t *testing.T) {
	ctx := context.Background()
	store := slowStore{Store: memory.NewKVStore(), delay: 10 * time.Millisecond}
	locker := storage.NewLocalLocker()
	banks := staticBanks{domain.BankTest: makeBank(fourCategories, 10)}

	instances := make([]*AssessmentService, 2)
	for i := range instances {
		instances[i] = NewAssessmentService(banks, NewExposureTracker(store), memory.NewAttemptStore(time.Hour),
			WithLocker(locker))
	}

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		seen = make(map[string]int)
	)
	for _, svc := range instances {
		wg.Add(1)
		go func(svc *AssessmentService) {
			defer wg.Done()
			attempt, err := svc.StartTest(ctx, "u1", 20)
			if err != nil {
				t.Errorf("start test: %v", err)
				return
			}
			mu.Lock()
			defer mu.Unlock()
			for _, q := range attempt.Questions {
				seen[q.ID]++
			}
		}(svc)
	}
	wg.Wait()

	if len(seen) != 40 {
		t.Fatalf("expected 40 distinct questions across instances, got %d", len(seen))
	}
	used, err := NewExposureTracker(store).Used(ctx, "u1")
	if err != nil || len(used) != 40 {
		t.Fatalf("expected exposure of 40, got %d (%v)", len(used), err)
	}
}

func TestStartTestFailsWhenLockUnavailable(t *testing.T) {
	locker := storage.NewLocalLocker()
	unlock, _ := locker.Lock(context.Background(), storage.ExposureKey("u1"))
	defer unlock()

	banks := staticBanks{domain.BankTest: makeBank(fourCategories, 10)}
	svc := NewAssessmentService(banks, newExposure(), memory.NewAttemptStore(time.Hour), WithLocker(locker), WithTestSize(20))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := svc.StartTest(ctx, "u1", 0); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected lock wait to end with the context, got %v", err)
	}
}

func TestDefaultsComeFromConfig(t *testing.T) {
	banks := staticBanks{domain.BankPractice: makeBank(fourCategories, 10)}
	svc := NewAssessmentService(banks, newExposure(), memory.NewAttemptStore(time.Hour))
	if svc.TestSize() != config.DefaultTestQuestions {
		t.Fatalf("expected default test size %d, got %d", config.DefaultTestQuestions, svc.TestSize())
	}
	attempt, err := svc.StartPractice(context.Background(), "u1", "", 0)
	if err != nil || len(attempt.Questions) != config.DefaultPracticeQuestions {
		t.Fatalf("expected %d practice questions, got %d (%v)", config.DefaultPracticeQuestions, len(attempt.Questions), err)
	}
	if got := buildOptions(nil).salt; got != config.DefaultDailySalt {
		t.Fatalf("expected default salt %q, got %q", config.DefaultDailySalt, got)
	}
}
