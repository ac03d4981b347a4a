package http

import (
	"time"

	"iqscalar-assessment-service/internal/domain"
)

// questionView is what clients see before scoring: no correct index, no explanation.
type questionView struct {
	Position int      `json:"position,omitempty"`
	ID       string   `json:"id"`
	Category string   `json:"category"`
	Prompt   string   `json:"prompt"`
	Options  []string `json:"options"`
}

func newQuestionView(q domain.Question, position int) questionView {
	return questionView{
		Position: position,
		ID:       q.ID,
		Category: q.Category,
		Prompt:   q.Prompt,
		Options:  append([]string(nil), q.Options...),
	}
}

type attemptView struct {
	AttemptID        string         `json:"attemptId"`
	UserID           string         `json:"userId"`
	Mode             domain.Mode    `json:"mode"`
	Category         string         `json:"category,omitempty"`
	Questions        []questionView `json:"questions"`
	CreatedAt        time.Time      `json:"createdAt"`
	TimeLimitSeconds int            `json:"timeLimitSeconds,omitempty"`
}

func newAttemptView(a domain.Attempt, timeLimit time.Duration) attemptView {
	view := attemptView{
		AttemptID: a.ID,
		UserID:    a.UserID,
		Mode:      a.Mode,
		Category:  a.Category,
		Questions: make([]questionView, len(a.Questions)),
		CreatedAt: a.CreatedAt,
	}
	for i, q := range a.Questions {
		view.Questions[i] = newQuestionView(q.Question, q.Position)
	}
	if a.Mode == domain.ModeTest && timeLimit > 0 {
		view.TimeLimitSeconds = int(timeLimit.Seconds())
	}
	return view
}

type dailyQuestionView struct {
	DailyQuizID string `json:"dailyQuizId"`
	Date        string `json:"date"`
	questionView
}

type dailyStatusView struct {
	Date     string              `json:"date"`
	Answered bool                `json:"answered"`
	Record   *domain.DailyRecord `json:"record,omitempty"`
}
