package domain

import "time"

// DateLayout is the calendar date key format used by the daily quiz.
const DateLayout = "2006-01-02"

// DailyQuestion is the question selected for one calendar date.
type DailyQuestion struct {
	Question
	Date        string `json:"date"`
	DailyQuizID string `json:"dailyQuizId"`
}

// DailyRecord is the stored answer for one date. At most one per date per user.
type DailyRecord struct {
	Answered     bool      `json:"answered"`
	AnswerIndex  int       `json:"answerIndex"`
	IsCorrect    bool      `json:"isCorrect"`
	QuestionID   string    `json:"questionId"`
	Question     string    `json:"question"`
	CorrectIndex int       `json:"correctIndex"`
	Explanation  string    `json:"explanation,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}

// DailyOutcome is returned to the caller after a daily answer is stored.
type DailyOutcome struct {
	IsCorrect     bool   `json:"isCorrect"`
	CorrectAnswer string `json:"correctAnswer"`
	UserAnswer    string `json:"userAnswer"`
	Explanation   string `json:"explanation,omitempty"`
}

// DailyStats aggregates a user's daily quiz records.
type DailyStats struct {
	TotalAnswered  int `json:"totalAnswered"`
	CorrectAnswers int `json:"correctAnswers"`
	Accuracy       int `json:"accuracy"`
	CurrentStreak  int `json:"currentStreak"`
	BestStreak     int `json:"bestStreak"`
}
