// Package history keeps per-user result history and milestone achievements.
package history

import (
	"context"
	"math"

	"iqscalar-assessment-service/internal/config"
	"iqscalar-assessment-service/internal/domain"
	"iqscalar-assessment-service/internal/storage"
)

const (
	fullTestType   = "Full IQ Test"
	practicePrefix = "Practice - "
)

// Recorder stores scored results as history entries and re-evaluates
// achievements after each one. It satisfies app.ResultRecorder.
type Recorder struct {
	store storage.Store
	locks storage.Locker
	limit int
}

// NewRecorder keeps up to limit entries per user. A nil locker only excludes
// writers within this process.
func NewRecorder(store storage.Store, locker storage.Locker, limit int) *Recorder {
	if limit <= 0 {
		limit = config.DefaultHistoryLimit
	}
	if locker == nil {
		locker = storage.NewLocalLocker()
	}
	return &Recorder{store: store, locks: locker, limit: limit}
}

// Record prepends result to the user's history and updates achievements.
// Results without a user are ignored.
func (r *Recorder) Record(ctx context.Context, result domain.ScoredResult) error {
	if result.UserID == "" {
		return nil
	}
	entry := NewEntry(result)

	unlock, err := r.locks.Lock(ctx, storage.HistoryKey(result.UserID))
	if err != nil {
		return err
	}
	defer unlock()

	entries, err := r.entries(ctx, result.UserID)
	if err != nil {
		return err
	}
	entries = append([]domain.HistoryEntry{entry}, entries...)
	if len(entries) > r.limit {
		entries = entries[:r.limit]
	}
	if err := storage.SetJSON(ctx, r.store, storage.HistoryKey(result.UserID), entries); err != nil {
		return err
	}

	achievements, err := r.achievements(ctx, result.UserID)
	if err != nil {
		return err
	}
	achievements = evaluate(achievements, entries, entry)
	return storage.SetJSON(ctx, r.store, storage.AchievementsKey(result.UserID), achievements)
}

// NewEntry summarizes a scored result. Full tests report the ability estimate
// as their score, practice runs the raw number correct.
func NewEntry(result domain.ScoredResult) domain.HistoryEntry {
	entry := domain.HistoryEntry{
		ID:                  result.ID,
		Date:                result.Timestamp,
		Type:                fullTestType,
		Score:               result.AbilityEstimate,
		Accuracy:            int(math.Round(result.Percentage)),
		DurationSeconds:     result.DurationSeconds,
		TotalQuestions:      result.TotalQuestions,
		CorrectAnswers:      result.CorrectAnswers,
		CategoryPerformance: result.CategoryPerformance,
		IsPractice:          result.IsPractice,
	}
	if result.IsPractice {
		entry.Score = result.Score
		category := "General"
		if len(result.Outcomes) > 0 && result.Outcomes[0].Question.Category != "" {
			category = result.Outcomes[0].Question.Category
		}
		entry.Type = practicePrefix + category
	}
	return entry
}

// History returns the user's entries, newest first.
func (r *Recorder) History(ctx context.Context, userID string) ([]domain.HistoryEntry, error) {
	if userID == "" {
		return nil, domain.ErrMissingUser
	}
	return r.entries(ctx, userID)
}

// Achievements returns every achievement with the user's status.
func (r *Recorder) Achievements(ctx context.Context, userID string) ([]domain.Achievement, error) {
	if userID == "" {
		return nil, domain.ErrMissingUser
	}
	return r.achievements(ctx, userID)
}

// Stats aggregates the user's full-test history.
func (r *Recorder) Stats(ctx context.Context, userID string) (domain.UserStats, error) {
	if userID == "" {
		return domain.UserStats{}, domain.ErrMissingUser
	}
	entries, err := r.entries(ctx, userID)
	if err != nil {
		return domain.UserStats{}, err
	}
	achievements, err := r.achievements(ctx, userID)
	if err != nil {
		return domain.UserStats{}, err
	}
	return computeStats(entries, achievements), nil
}

// Clear removes the user's history and achievements.
func (r *Recorder) Clear(ctx context.Context, userID string) error {
	if userID == "" {
		return domain.ErrMissingUser
	}
	unlock, err := r.locks.Lock(ctx, storage.HistoryKey(userID))
	if err != nil {
		return err
	}
	defer unlock()
	if err := r.store.Delete(ctx, storage.HistoryKey(userID)); err != nil {
		return err
	}
	return r.store.Delete(ctx, storage.AchievementsKey(userID))
}

func (r *Recorder) entries(ctx context.Context, userID string) ([]domain.HistoryEntry, error) {
	var entries []domain.HistoryEntry
	if _, err := storage.GetJSON(ctx, r.store, storage.HistoryKey(userID), &entries); err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []domain.HistoryEntry{}
	}
	return entries, nil
}

func (r *Recorder) achievements(ctx context.Context, userID string) ([]domain.Achievement, error) {
	var stored []domain.Achievement
	if _, err := storage.GetJSON(ctx, r.store, storage.AchievementsKey(userID), &stored); err != nil {
		return nil, err
	}
	return withDefaults(stored), nil
}
