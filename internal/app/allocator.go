package app

import (
	"context"
	"fmt"

	"iqscalar-assessment-service/internal/bank"
	"iqscalar-assessment-service/internal/domain"
)

// ExposureRecord tracks which question IDs each user has been served in full tests.
type ExposureRecord interface {
	Used(ctx context.Context, userID string) ([]string, error)
	MarkUsed(ctx context.Context, userID string, ids []string) error
	Reset(ctx context.Context, userID string) error
}

// Allocator selects category-balanced, shuffled question sets.
type Allocator struct {
	shuffler *Shuffler
}

func NewAllocator(shuffler *Shuffler) *Allocator {
	if shuffler == nil {
		shuffler = NewShuffler(nil)
	}
	return &Allocator{shuffler: shuffler}
}

// Allocate returns count questions the user has not been served since their
// last reset, and records them as served. When fewer than count unseen
// questions remain the user's exposure is cleared and the whole bank is
// available again. A bank smaller than count is ErrBankTooSmall.
//
// Callers must serialize calls per user; exposure is read, then written.
func (a *Allocator) Allocate(ctx context.Context, userID string, questions []domain.Question, exposure ExposureRecord, count int) ([]domain.AllocatedQuestion, error) {
	if count <= 0 {
		return nil, domain.ErrInvalidCount
	}
	if len(questions) < count {
		return nil, fmt.Errorf("%w: requested %d, bank has %d", domain.ErrBankTooSmall, count, len(questions))
	}

	used, err := exposure.Used(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("read exposure: %w", err)
	}
	available := unseen(questions, used)
	if len(available) < count {
		if err := exposure.Reset(ctx, userID); err != nil {
			return nil, fmt.Errorf("reset exposure: %w", err)
		}
		available = questions
	}

	selected := a.balanced(available, bank.Categories(questions), count)

	ids := make([]string, len(selected))
	for i, q := range selected {
		ids[i] = q.ID
	}
	if err := exposure.MarkUsed(ctx, userID, ids); err != nil {
		return nil, fmt.Errorf("record exposure: %w", err)
	}
	return number(selected), nil
}

// Practice returns up to count questions using the same balancing, without
// consulting or recording exposure. A non-empty category restricts the pool.
func (a *Allocator) Practice(questions []domain.Question, category string, count int) ([]domain.AllocatedQuestion, error) {
	if count <= 0 {
		return nil, domain.ErrInvalidCount
	}
	pool := questions
	if category != "" {
		pool = bank.InCategory(questions, category)
		if len(pool) == 0 {
			return nil, fmt.Errorf("%w: %q", domain.ErrUnknownCategory, category)
		}
	}
	if count > len(pool) {
		count = len(pool)
	}
	return number(a.balanced(pool, bank.Categories(pool), count)), nil
}

// balanced draws an even quota per category (the first count%n categories
// get one extra), tops up from the rest of the pool when a category runs
// short, and shuffles the combined selection.
func (a *Allocator) balanced(pool []domain.Question, categories []string, count int) []domain.Question {
	if len(categories) == 0 || count <= 0 {
		return nil
	}
	groups := bank.Partition(pool)
	base := count / len(categories)
	extra := count % len(categories)

	selected := make([]domain.Question, 0, count)
	picked := make(map[string]struct{}, count)
	for i, category := range categories {
		take := base
		if i < extra {
			take++
		}
		shuffled := a.shuffler.Shuffle(groups[category])
		if take > len(shuffled) {
			take = len(shuffled)
		}
		for _, q := range shuffled[:take] {
			selected = append(selected, q)
			picked[q.ID] = struct{}{}
		}
	}

	if len(selected) < count {
		remaining := make([]domain.Question, 0, len(pool)-len(selected))
		for _, q := range pool {
			if _, ok := picked[q.ID]; !ok {
				remaining = append(remaining, q)
			}
		}
		topUp := a.shuffler.Shuffle(remaining)
		need := count - len(selected)
		if need > len(topUp) {
			need = len(topUp)
		}
		selected = append(selected, topUp[:need]...)
	}

	return a.shuffler.Shuffle(selected)
}

func unseen(questions []domain.Question, used []string) []domain.Question {
	if len(used) == 0 {
		return questions
	}
	seen := make(map[string]struct{}, len(used))
	for _, id := range used {
		seen[id] = struct{}{}
	}
	out := make([]domain.Question, 0, len(questions))
	for _, q := range questions {
		if _, ok := seen[q.ID]; !ok {
			out = append(out, q)
		}
	}
	return out
}

func number(questions []domain.Question) []domain.AllocatedQuestion {
	out := make([]domain.AllocatedQuestion, len(questions))
	for i, q := range questions {
		out[i] = domain.AllocatedQuestion{Question: q, Position: i + 1}
	}
	return out
}
