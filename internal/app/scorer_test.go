package app

import (
	"errors"
	"strings"
	"testing"
	"time"

	"iqscalar-assessment-service/internal/domain"
)

func allocated(questions []domain.Question) []domain.AllocatedQuestion {
	out := make([]domain.AllocatedQuestion, len(questions))
	for i, q := range questions {
		out[i] = domain.AllocatedQuestion{Question: q, Position: i + 1}
	}
	return out
}

func intp(v int) *int { return &v }

func TestAbilityEstimate(t *testing.T) {
	tests := []struct {
		percentage float64
		want       int
	}{
		{0, 70},
		{10, 70},
		{16.7, 70},
		{50, 100},
		{66.6, 115},
		{100, 145},
	}
	for _, tt := range tests {
		if got := AbilityEstimate(tt.percentage); got != tt.want {
			t.Errorf("AbilityEstimate(%v) = %d, want %d", tt.percentage, got, tt.want)
		}
	}
}

func TestScoreAllCorrect(t *testing.T) {
	now := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	questions := allocated(makeBank(fourCategories, 2))
	answers := make([]*int, len(questions))
	for i, q := range questions {
		answers[i] = intp(q.CorrectIndex)
	}

	result, err := NewScorer(func() time.Time { return now }).Score(domain.ModeTest, questions, answers)
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	if result.Percentage != 100 || result.AbilityEstimate != 145 || result.CorrectAnswers != 8 || result.WrongAnswers != 0 {
		t.Fatalf("unexpected result %+v", result)
	}
	if result.IsPractice || !result.Timestamp.Equal(now) || !strings.HasPrefix(result.ID, "test_") {
		t.Fatalf("unexpected metadata %+v", result)
	}
	for c, s := range result.CategoryPerformance {
		if s.Correct != 2 || s.Total != 2 || s.Percentage != 100 {
			t.Fatalf("unexpected %s stats %+v", c, s)
		}
	}
}

func TestScoreAllUnanswered(t *testing.T) {
	questions := allocated(makeBank(fourCategories, 1))
	result, err := NewScorer(nil).Score(domain.ModePractice, questions, nil)
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	if result.CorrectAnswers != 0 || result.Percentage != 0 || result.AbilityEstimate != 70 {
		t.Fatalf("unexpected result %+v", result)
	}
	if !result.IsPractice || !strings.HasPrefix(result.ID, "practice_") {
		t.Fatalf("expected practice result, got %+v", result)
	}
	for _, o := range result.Outcomes {
		if o.AnswerIndex != nil || o.IsCorrect || o.UserAnswerText != "" {
			t.Fatalf("unexpected outcome for unanswered question %+v", o)
		}
	}
}

func TestScoreOutcomesAndCategories(t *testing.T) {
	questions := allocated([]domain.Question{
		{ID: "n1", Category: "numerical", Options: []string{"1", "2"}, CorrectIndex: 1},
		{ID: "n2", Category: "numerical", Options: []string{"1", "2"}, CorrectIndex: 0},
		{ID: "v1", Category: "verbal", Options: []string{"hot", "cold"}, CorrectIndex: 1},
	})
	answer := 1
	answers := []*int{&answer, &answer, intp(1)}

	result, err := NewScorer(nil).Score(domain.ModeTest, questions, answers)
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	if result.Score != 2 || result.WrongAnswers != 1 || result.TotalQuestions != 3 {
		t.Fatalf("unexpected totals %+v", result)
	}

	second := result.Outcomes[1]
	if second.IsCorrect || second.CorrectAnswerText != "1" || second.UserAnswerText != "2" || second.Position != 2 {
		t.Fatalf("unexpected outcome %+v", second)
	}

	// Outcomes hold copies of the submitted answers.
	answer = 0
	if *result.Outcomes[0].AnswerIndex != 1 {
		t.Fatalf("outcome aliased caller's answer")
	}

	num := result.CategoryPerformance["numerical"]
	if num.Correct != 1 || num.Total != 2 || num.Percentage != 50 {
		t.Fatalf("unexpected numerical stats %+v", num)
	}
	if v := result.CategoryPerformance["verbal"]; v.Correct != 1 || v.Percentage != 100 {
		t.Fatalf("unexpected verbal stats %+v", v)
	}
}

func TestScoreEmptySet(t *testing.T) {
	if _, err := NewScorer(nil).Score(domain.ModeTest, nil, nil); !errors.Is(err, domain.ErrEmptySubmission) {
		t.Fatalf("expected ErrEmptySubmission, got %v", err)
	}
}
