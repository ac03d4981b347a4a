package bank

import (
	"bytes"
	"encoding/json"
	"fmt"

	"iqscalar-assessment-service/internal/domain"
)

const defaultCategory = "General"

// Normalize parses a raw bank document into questions. Records that are not
// valid questions are skipped and counted in dropped, as are duplicate IDs
// (first occurrence wins). An error is returned only when the document
// itself cannot be read.
func Normalize(data []byte, idPrefix string) (questions []domain.Question, dropped int, err error) {
	entries, err := parseDocument(data)
	if err != nil {
		return nil, 0, fmt.Errorf("parse bank document: %w", err)
	}

	questions = make([]domain.Question, 0, len(entries))
	for idx, entry := range entries {
		if len(bytes.TrimSpace(entry)) == 0 || bytes.Equal(bytes.TrimSpace(entry), []byte("null")) {
			continue
		}
		var raw rawQuestion
		if err := json.Unmarshal(entry, &raw); err != nil {
			dropped++
			continue
		}
		q, ok := normalizeRecord(raw, idx, idPrefix)
		if !ok {
			dropped++
			continue
		}
		questions = append(questions, q)
	}

	deduped := Dedupe(questions)
	dropped += len(questions) - len(deduped)
	return deduped, dropped, nil
}

func normalizeRecord(raw rawQuestion, idx int, idPrefix string) (domain.Question, bool) {
	options := raw.Options.Values()
	q := domain.Question{
		ID:           raw.id(),
		Category:     raw.Category,
		Prompt:       raw.prompt(),
		Options:      options,
		CorrectIndex: raw.correctIndex(options),
		Explanation:  raw.Explanation,
	}
	if q.ID == "" {
		q.ID = fmt.Sprintf("%s%d", idPrefix, idx)
	}
	if q.Category == "" {
		q.Category = defaultCategory
	}
	return q, Valid(q)
}

// Valid reports whether q satisfies the question invariants: non-empty
// prompt, at least two options and an in-range correct index.
func Valid(q domain.Question) bool {
	return q.Prompt != "" && len(q.Options) >= 2 && q.CorrectIndex >= 0 && q.CorrectIndex < len(q.Options)
}

// Dedupe drops questions whose ID was already seen.
func Dedupe(questions []domain.Question) []domain.Question {
	seen := make(map[string]struct{}, len(questions))
	out := make([]domain.Question, 0, len(questions))
	for _, q := range questions {
		if _, ok := seen[q.ID]; ok {
			continue
		}
		seen[q.ID] = struct{}{}
		out = append(out, q)
	}
	return out
}
