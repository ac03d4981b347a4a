package domain

import "time"

// BankKind names one of the question banks the service can load.
type BankKind string

const (
	BankTest     BankKind = "test"
	BankPractice BankKind = "practice"
)

// Mode distinguishes full tests (exposure tracked) from practice runs (repeatable).
type Mode string

const (
	ModeTest     Mode = "test"
	ModePractice Mode = "practice"
)

// Question is a normalized multiple-choice question. Immutable once loaded.
type Question struct {
	ID           string   `json:"id"`
	Category     string   `json:"category"`
	Prompt       string   `json:"prompt"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correctIndex"`
	Explanation  string   `json:"explanation,omitempty"`
}

// AnswerText returns the text of the correct option.
func (q Question) AnswerText() string {
	if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
		return ""
	}
	return q.Options[q.CorrectIndex]
}

// OptionText returns the option at index, or "" when the index is nil or out of range.
func (q Question) OptionText(index *int) string {
	if index == nil || *index < 0 || *index >= len(q.Options) {
		return ""
	}
	return q.Options[*index]
}

// Bank is an ordered, id-deduplicated set of questions.
type Bank struct {
	Kind      BankKind   `json:"kind"`
	Questions []Question `json:"questions"`
	LoadedAt  time.Time  `json:"loadedAt"`
	Fallback  bool       `json:"fallback"`
}

// AllocatedQuestion is a question plus its 1-based position in one attempt.
type AllocatedQuestion struct {
	Question
	Position int `json:"position"`
}

// Attempt is one allocated question set awaiting a submission.
type Attempt struct {
	ID        string              `json:"id"`
	UserID    string              `json:"userId"`
	Mode      Mode                `json:"mode"`
	Category  string              `json:"category,omitempty"`
	Questions []AllocatedQuestion `json:"questions"`
	CreatedAt time.Time           `json:"createdAt"`
}

// QuestionOutcome is the per-question part of a scored result.
type QuestionOutcome struct {
	Question          Question `json:"question"`
	Position          int      `json:"position"`
	AnswerIndex       *int     `json:"answerIndex"`
	IsCorrect         bool     `json:"isCorrect"`
	CorrectAnswerText string   `json:"correctAnswerText"`
	UserAnswerText    string   `json:"userAnswerText"`
}

// CategoryStats aggregates outcomes for one category.
type CategoryStats struct {
	Correct    int     `json:"correct"`
	Total      int     `json:"total"`
	Percentage float64 `json:"percentage"`
}

// ScoredResult is the write-once record produced by scoring a submission.
type ScoredResult struct {
	ID                  string                   `json:"id"`
	UserID              string                   `json:"userId,omitempty"`
	Mode                Mode                     `json:"mode"`
	IsPractice          bool                     `json:"isPractice"`
	Score               int                      `json:"score"`
	Percentage          float64                  `json:"percentage"`
	AbilityEstimate     int                      `json:"iqScore"`
	TotalQuestions      int                      `json:"totalQuestions"`
	CorrectAnswers      int                      `json:"correctAnswers"`
	WrongAnswers        int                      `json:"wrongAnswers"`
	Outcomes            []QuestionOutcome        `json:"results"`
	CategoryPerformance map[string]CategoryStats `json:"categoryPerformance"`
	Timestamp           time.Time                `json:"timestamp"`
	DurationSeconds     int                      `json:"durationSeconds"`
}

// UserProgress reports how far a user has worked through the test bank.
type UserProgress struct {
	TestCount          int     `json:"testCount"`
	RemainingTests     int     `json:"remainingTests"`
	TotalPossibleTests int     `json:"totalPossibleTests"`
	ProgressPercentage float64 `json:"progressPercentage"`
	CanTakeMoreTests   bool    `json:"canTakeMoreTests"`
}

// BankStatistics summarizes a loaded bank.
type BankStatistics struct {
	TotalQuestions       int            `json:"totalQuestions"`
	Categories           int            `json:"categories"`
	QuestionsPerCategory map[string]int `json:"questionsPerCategory"`
	TotalPossibleTests   int            `json:"totalPossibleTests"`
}
