package domain

import "time"

// HistoryEntry is the summary of one scored result kept in a user's history.
type HistoryEntry struct {
	ID                  string                   `json:"id"`
	Date                time.Time                `json:"date"`
	Type                string                   `json:"type"`
	Score               int                      `json:"score"`
	Accuracy            int                      `json:"accuracy"`
	DurationSeconds     int                      `json:"durationSeconds,omitempty"`
	TotalQuestions      int                      `json:"totalQuestions"`
	CorrectAnswers      int                      `json:"correctAnswers"`
	CategoryPerformance map[string]CategoryStats `json:"categoryPerformance"`
	IsPractice          bool                     `json:"isPractice"`
}

// AchievementStatus is either locked or earned.
type AchievementStatus string

const (
	AchievementLocked AchievementStatus = "locked"
	AchievementEarned AchievementStatus = "earned"
)

// Achievement is a milestone badge unlocked from history.
type Achievement struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Status      AchievementStatus `json:"status"`
	Progress    int               `json:"progress"`
	Total       int               `json:"total"`
	Earned      *time.Time        `json:"earned"`
}

// UserStats aggregates a user's full-test history.
type UserStats struct {
	TotalTests         int `json:"totalTests"`
	AverageScore       int `json:"averageScore"`
	AverageAccuracy    int `json:"averageAccuracy"`
	BestScore          int `json:"bestScore"`
	TotalAchievements  int `json:"totalAchievements"`
	EarnedAchievements int `json:"earnedAchievements"`
	RecentImprovement  int `json:"recentImprovement"`
}
