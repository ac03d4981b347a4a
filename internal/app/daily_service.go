package app

import (
	"context"
	"fmt"
	"time"

	"iqscalar-assessment-service/internal/domain"
	"iqscalar-assessment-service/internal/storage"
)

// DailyService serves the date-seeded daily question and per-user streaks.
type DailyService struct {
	banks BankRepository
	store storage.Store
	locks storage.Locker
	salt  string
	now   func() time.Time
}

func NewDailyService(banks BankRepository, store storage.Store, opts ...Option) *DailyService {
	o := buildOptions(opts)
	return &DailyService{
		banks: banks,
		store: store,
		locks: o.locker,
		salt:  o.salt,
		now:   o.now,
	}
}

// Today returns the current UTC date key.
func (s *DailyService) Today() string {
	return s.now().UTC().Format(domain.DateLayout)
}

// Question returns the question for date. It is the same for every user.
func (s *DailyService) Question(ctx context.Context, date string) (domain.DailyQuestion, error) {
	b, err := s.banks.GetBank(ctx, domain.BankTest)
	if err != nil {
		return domain.DailyQuestion{}, err
	}
	return SelectDaily(b.Questions, s.salt, date)
}

// HasAnswered reports whether userID already answered the question for date.
func (s *DailyService) HasAnswered(ctx context.Context, userID, date string) (bool, error) {
	rec, err := s.Answer(ctx, userID, date)
	if err != nil {
		return false, err
	}
	return rec != nil && rec.Answered, nil
}

// Answer returns the stored record for date, or nil if none.
func (s *DailyService) Answer(ctx context.Context, userID, date string) (*domain.DailyRecord, error) {
	if userID == "" {
		return nil, domain.ErrMissingUser
	}
	records, err := s.records(ctx, userID)
	if err != nil {
		return nil, err
	}
	rec, ok := records[date]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

// SubmitAnswer stores the user's answer for date. The first submission wins;
// later ones return domain.ErrAlreadyAnswered.
func (s *DailyService) SubmitAnswer(ctx context.Context, userID, date string, answerIndex int) (domain.DailyOutcome, error) {
	if userID == "" {
		return domain.DailyOutcome{}, domain.ErrMissingUser
	}
	question, err := s.Question(ctx, date)
	if err != nil {
		return domain.DailyOutcome{}, err
	}

	unlock, err := s.locks.Lock(ctx, storage.DailyKey(userID))
	if err != nil {
		return domain.DailyOutcome{}, err
	}
	defer unlock()

	records, err := s.records(ctx, userID)
	if err != nil {
		return domain.DailyOutcome{}, err
	}
	if rec, ok := records[date]; ok && rec.Answered {
		return domain.DailyOutcome{}, fmt.Errorf("%w for %s", domain.ErrAlreadyAnswered, date)
	}

	isCorrect := answerIndex == question.CorrectIndex
	records[date] = domain.DailyRecord{
		Answered:     true,
		AnswerIndex:  answerIndex,
		IsCorrect:    isCorrect,
		QuestionID:   question.ID,
		Question:     question.Prompt,
		CorrectIndex: question.CorrectIndex,
		Explanation:  question.Explanation,
		Timestamp:    s.now().UTC(),
	}
	if err := storage.SetJSON(ctx, s.store, storage.DailyKey(userID), records); err != nil {
		return domain.DailyOutcome{}, err
	}

	return domain.DailyOutcome{
		IsCorrect:     isCorrect,
		CorrectAnswer: question.AnswerText(),
		UserAnswer:    question.OptionText(&answerIndex),
		Explanation:   question.Explanation,
	}, nil
}

// Stats returns totals, accuracy and streaks as of today.
func (s *DailyService) Stats(ctx context.Context, userID string) (domain.DailyStats, error) {
	if userID == "" {
		return domain.DailyStats{}, domain.ErrMissingUser
	}
	records, err := s.records(ctx, userID)
	if err != nil {
		return domain.DailyStats{}, err
	}
	return ComputeDailyStats(records, s.now().UTC()), nil
}

func (s *DailyService) records(ctx context.Context, userID string) (map[string]domain.DailyRecord, error) {
	records := make(map[string]domain.DailyRecord)
	if _, err := storage.GetJSON(ctx, s.store, storage.DailyKey(userID), &records); err != nil {
		return nil, err
	}
	if records == nil {
		records = make(map[string]domain.DailyRecord)
	}
	return records, nil
}
