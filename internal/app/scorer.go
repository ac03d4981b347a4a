package app

import (
	"math"
	"time"

	"github.com/google/uuid"

	"iqscalar-assessment-service/internal/domain"
)

const (
	abilityFloor   = 70
	abilityCeiling = 145
)

// AbilityEstimate maps a percentage to the reported IQ score:
// round(clamp(55 + 0.9*percentage, 70, 145)).
func AbilityEstimate(percentage float64) int {
	v := 55 + percentage*0.9
	v = math.Max(abilityFloor, math.Min(abilityCeiling, v))
	return int(math.Round(v))
}

// NewResultID returns a unique result identifier prefixed with the mode.
func NewResultID(mode domain.Mode) string {
	return string(mode) + "_" + uuid.NewString()
}

// Scorer turns an allocated set and submitted answers into a ScoredResult.
type Scorer struct {
	now   func() time.Time
	newID func(domain.Mode) string
}

func NewScorer(now func() time.Time) *Scorer {
	if now == nil {
		now = time.Now
	}
	return &Scorer{now: now, newID: NewResultID}
}

// Score grades answers against questions. answers[i] answers questions[i];
// a nil or missing answer is unanswered and never correct. Scoring an empty
// set is ErrEmptySubmission.
func (s *Scorer) Score(mode domain.Mode, questions []domain.AllocatedQuestion, answers []*int) (domain.ScoredResult, error) {
	total := len(questions)
	if total == 0 {
		return domain.ScoredResult{}, domain.ErrEmptySubmission
	}

	outcomes := make([]domain.QuestionOutcome, total)
	correct := 0
	for i, q := range questions {
		var answer *int
		if i < len(answers) && answers[i] != nil {
			v := *answers[i]
			answer = &v
		}
		isCorrect := answer != nil && *answer == q.CorrectIndex
		if isCorrect {
			correct++
		}
		outcomes[i] = domain.QuestionOutcome{
			Question:          q.Question,
			Position:          q.Position,
			AnswerIndex:       answer,
			IsCorrect:         isCorrect,
			CorrectAnswerText: q.AnswerText(),
			UserAnswerText:    q.OptionText(answer),
		}
	}

	percentage := 100 * float64(correct) / float64(total)
	return domain.ScoredResult{
		ID:                  s.newID(mode),
		Mode:                mode,
		IsPractice:          mode == domain.ModePractice,
		Score:               correct,
		Percentage:          percentage,
		AbilityEstimate:     AbilityEstimate(percentage),
		TotalQuestions:      total,
		CorrectAnswers:      correct,
		WrongAnswers:        total - correct,
		Outcomes:            outcomes,
		CategoryPerformance: CategoryPerformance(outcomes),
		Timestamp:           s.now().UTC(),
	}, nil
}

// CategoryPerformance groups outcomes by question category.
func CategoryPerformance(outcomes []domain.QuestionOutcome) map[string]domain.CategoryStats {
	stats := make(map[string]domain.CategoryStats)
	for _, o := range outcomes {
		s := stats[o.Question.Category]
		s.Total++
		if o.IsCorrect {
			s.Correct++
		}
		stats[o.Question.Category] = s
	}
	for category, s := range stats {
		s.Percentage = 100 * float64(s.Correct) / float64(s.Total)
		stats[category] = s
	}
	return stats
}
