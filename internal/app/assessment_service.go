package app

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"iqscalar-assessment-service/internal/bank"
	"iqscalar-assessment-service/internal/domain"
	"iqscalar-assessment-service/internal/storage"
)

// AssessmentService contains the test and practice use cases.
type AssessmentService struct {
	banks     BankRepository
	exposure  ExposureRecord
	attempts  AttemptRepository
	recorder  ResultRecorder
	allocator *Allocator
	scorer    *Scorer
	locks     storage.Locker
	now       func() time.Time
	logger    *slog.Logger

	testSize     int
	practiceSize int
}

func NewAssessmentService(banks BankRepository, exposure ExposureRecord, attempts AttemptRepository, opts ...Option) *AssessmentService {
	o := buildOptions(opts)
	return &AssessmentService{
		banks:        banks,
		exposure:     exposure,
		attempts:     attempts,
		recorder:     o.recorder,
		allocator:    NewAllocator(NewShuffler(o.rnd)),
		scorer:       NewScorer(o.now),
		locks:        o.locker,
		now:          o.now,
		logger:       o.logger,
		testSize:     o.testSize,
		practiceSize: o.practiceSize,
	}
}

// TestSize is the default number of questions in a full test.
func (s *AssessmentService) TestSize() int { return s.testSize }

// StartTest allocates a non-repeating full test for userID. count 0 uses the default size.
func (s *AssessmentService) StartTest(ctx context.Context, userID string, count int) (domain.Attempt, error) {
	if userID == "" {
		return domain.Attempt{}, domain.ErrMissingUser
	}
	if count == 0 {
		count = s.testSize
	}
	b, err := s.banks.GetBank(ctx, domain.BankTest)
	if err != nil {
		return domain.Attempt{}, err
	}

	unlock, err := s.locks.Lock(ctx, storage.ExposureKey(userID))
	if err != nil {
		return domain.Attempt{}, err
	}
	questions, err := s.allocator.Allocate(ctx, userID, b.Questions, s.exposure, count)
	unlock()
	if err != nil {
		return domain.Attempt{}, err
	}
	return s.saveAttempt(ctx, userID, domain.ModeTest, "", questions)
}

// StartPractice allocates a repeatable practice set, optionally restricted to one category.
func (s *AssessmentService) StartPractice(ctx context.Context, userID, category string, count int) (domain.Attempt, error) {
	if userID == "" {
		return domain.Attempt{}, domain.ErrMissingUser
	}
	if count == 0 {
		count = s.practiceSize
	}
	b, err := s.banks.GetBank(ctx, domain.BankPractice)
	if err != nil {
		return domain.Attempt{}, err
	}
	questions, err := s.allocator.Practice(b.Questions, category, count)
	if err != nil {
		return domain.Attempt{}, err
	}
	return s.saveAttempt(ctx, userID, domain.ModePractice, category, questions)
}

func (s *AssessmentService) saveAttempt(ctx context.Context, userID string, mode domain.Mode, category string, questions []domain.AllocatedQuestion) (domain.Attempt, error) {
	attempt := domain.Attempt{
		ID:        uuid.NewString(),
		UserID:    userID,
		Mode:      mode,
		Category:  category,
		Questions: questions,
		CreatedAt: s.now().UTC(),
	}
	if err := s.attempts.Save(ctx, attempt); err != nil {
		return domain.Attempt{}, err
	}
	return attempt, nil
}

// Submit scores the attempt's answers and consumes the attempt.
func (s *AssessmentService) Submit(ctx context.Context, attemptID string, answers []*int, elapsed time.Duration) (domain.ScoredResult, error) {
	attempt, err := s.attempts.Take(ctx, attemptID)
	if err != nil {
		return domain.ScoredResult{}, err
	}
	result, err := s.scorer.Score(attempt.Mode, attempt.Questions, answers)
	if err != nil {
		return domain.ScoredResult{}, err
	}
	result.UserID = attempt.UserID
	result.DurationSeconds = int(elapsed.Seconds())

	if s.recorder != nil {
		if err := s.recorder.Record(ctx, result); err != nil {
			s.logger.Error("record result failed", "result", result.ID, "user", result.UserID, "error", err)
		}
	}
	return result, nil
}

// Abandon drops an attempt that will never be submitted. Exposure is kept.
func (s *AssessmentService) Abandon(ctx context.Context, attemptID string) error {
	_, err := s.attempts.Take(ctx, attemptID)
	if errors.Is(err, domain.ErrAttemptNotFound) {
		return nil
	}
	return err
}

// Progress reports how many full tests the user has taken in the current lap.
func (s *AssessmentService) Progress(ctx context.Context, userID string) (domain.UserProgress, error) {
	if userID == "" {
		return domain.UserProgress{}, domain.ErrMissingUser
	}
	b, err := s.banks.GetBank(ctx, domain.BankTest)
	if err != nil {
		return domain.UserProgress{}, err
	}
	used, err := s.exposure.Used(ctx, userID)
	if err != nil {
		return domain.UserProgress{}, err
	}

	testCount := len(used) / s.testSize
	total := len(b.Questions) / s.testSize
	progress := domain.UserProgress{
		TestCount:          testCount,
		TotalPossibleTests: total,
		RemainingTests:     max(0, total-testCount),
		CanTakeMoreTests:   testCount < total,
	}
	if total > 0 {
		progress.ProgressPercentage = 100 * float64(testCount) / float64(total)
	}
	return progress, nil
}

// Statistics summarizes the bank of kind.
func (s *AssessmentService) Statistics(ctx context.Context, kind domain.BankKind) (domain.BankStatistics, error) {
	b, err := s.banks.GetBank(ctx, kind)
	if err != nil {
		return domain.BankStatistics{}, err
	}
	counts := bank.CategoryCounts(b.Questions)
	return domain.BankStatistics{
		TotalQuestions:       len(b.Questions),
		Categories:           len(counts),
		QuestionsPerCategory: counts,
		TotalPossibleTests:   len(b.Questions) / s.testSize,
	}, nil
}

// Categories lists the category labels of the bank of kind.
func (s *AssessmentService) Categories(ctx context.Context, kind domain.BankKind) ([]string, error) {
	b, err := s.banks.GetBank(ctx, kind)
	if err != nil {
		return nil, err
	}
	return bank.Categories(b.Questions), nil
}

// ResetExposure clears the user's served-question record.
func (s *AssessmentService) ResetExposure(ctx context.Context, userID string) error {
	if userID == "" {
		return domain.ErrMissingUser
	}
	unlock, err := s.locks.Lock(ctx, storage.ExposureKey(userID))
	if err != nil {
		return err
	}
	defer unlock()
	return s.exposure.Reset(ctx, userID)
}
