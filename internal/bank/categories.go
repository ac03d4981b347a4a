package bank

import (
	"sort"

	"iqscalar-assessment-service/internal/domain"
)

// Categories returns the distinct category labels of questions, sorted.
func Categories(questions []domain.Question) []string {
	seen := make(map[string]struct{})
	labels := make([]string, 0)
	for _, q := range questions {
		if _, ok := seen[q.Category]; ok {
			continue
		}
		seen[q.Category] = struct{}{}
		labels = append(labels, q.Category)
	}
	sort.Strings(labels)
	return labels
}

// InCategory returns the questions labelled category, in bank order.
func InCategory(questions []domain.Question, category string) []domain.Question {
	out := make([]domain.Question, 0)
	for _, q := range questions {
		if q.Category == category {
			out = append(out, q)
		}
	}
	return out
}

// Partition groups questions by category, preserving bank order within each group.
func Partition(questions []domain.Question) map[string][]domain.Question {
	groups := make(map[string][]domain.Question)
	for _, q := range questions {
		groups[q.Category] = append(groups[q.Category], q)
	}
	return groups
}

// CategoryCounts returns the number of questions per category.
func CategoryCounts(questions []domain.Question) map[string]int {
	counts := make(map[string]int)
	for _, q := range questions {
		counts[q.Category]++
	}
	return counts
}
