package app

import (
	"context"
	"fmt"
	"math/rand"

	"iqscalar-assessment-service/internal/domain"
	"iqscalar-assessment-service/internal/infra/memory"
)

// makeBank builds perCategory questions for each category; question i of a
// category has correct index i%4.
func makeBank(categories []string, perCategory int) []domain.Question {
	var out []domain.Question
	for _, c := range categories {
		for i := 0; i < perCategory; i++ {
			out = append(out, domain.Question{
				ID:           fmt.Sprintf("%s_%d", c, i),
				Category:     c,
				Prompt:       fmt.Sprintf("%s question %d", c, i),
				Options:      []string{"A", "B", "C", "D"},
				CorrectIndex: i % 4,
			})
		}
	}
	return out
}

func fixedRand() *rand.Rand {
	return rand.New(rand.NewSource(42))
}

func newExposure() *ExposureTracker {
	return NewExposureTracker(memory.NewKVStore())
}

func ids(questions []domain.AllocatedQuestion) []string {
	out := make([]string, len(questions))
	for i, q := range questions {
		out[i] = q.ID
	}
	return out
}

func perCategory(questions []domain.AllocatedQuestion) map[string]int {
	counts := make(map[string]int)
	for _, q := range questions {
		counts[q.Category]++
	}
	return counts
}

type staticBanks map[domain.BankKind][]domain.Question

func (b staticBanks) GetBank(_ context.Context, kind domain.BankKind) (domain.Bank, error) {
	q, ok := b[kind]
	if !ok {
		return domain.Bank{}, domain.ErrUnknownBank
	}
	return domain.Bank{Kind: kind, Questions: q}, nil
}
