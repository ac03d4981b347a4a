package history

import (
	"math"
	"time"

	"iqscalar-assessment-service/internal/domain"
)

const (
	speedLimit          = 25 * time.Minute
	consistentAccuracy  = 90
	masteryPercentage   = 95
	veteranTests        = 10
	speedTests          = 5
	consistentTestCount = 3
)

// catalog returns the locked starting set, in display order.
func catalog() []domain.Achievement {
	return []domain.Achievement{
		{ID: "first_test", Name: "First Test", Description: "Completed your first IQ test", Total: 1},
		{ID: "speed_demon", Name: "Speed Demon", Description: "Complete 5 tests in under 25 minutes each", Total: speedTests},
		{ID: "perfect_score", Name: "Perfect Score", Description: "Achieve 100% accuracy on any test", Total: 1},
		{ID: "consistent_performer", Name: "Consistent Performer", Description: "Maintain 90%+ accuracy for 3 consecutive tests", Total: consistentTestCount},
		{ID: "test_veteran", Name: "Test Veteran", Description: "Complete 10 IQ tests", Total: veteranTests},
		{ID: "category_master", Name: "Category Master", Description: "Score 95%+ in all question categories", Total: 1},
	}
}

func withDefaults(stored []domain.Achievement) []domain.Achievement {
	byID := make(map[string]domain.Achievement, len(stored))
	for _, a := range stored {
		byID[a.ID] = a
	}
	out := catalog()
	for i, a := range out {
		if s, ok := byID[a.ID]; ok {
			out[i].Status = s.Status
			out[i].Progress = s.Progress
			out[i].Earned = s.Earned
		}
		if out[i].Status == "" {
			out[i].Status = domain.AchievementLocked
		}
	}
	return out
}

// evaluate updates achievements after latest was prepended to entries.
// Earned achievements are left untouched.
func evaluate(achievements []domain.Achievement, entries []domain.HistoryEntry, latest domain.HistoryEntry) []domain.Achievement {
	tests := fullTests(entries)
	for i := range achievements {
		a := &achievements[i]
		if a.Status == domain.AchievementEarned {
			continue
		}
		switch a.ID {
		case "first_test":
			if !latest.IsPractice && len(tests) >= 1 {
				earn(a, 1, latest.Date)
			}
		case "speed_demon":
			fast := 0
			for _, t := range tests {
				if t.DurationSeconds > 0 && time.Duration(t.DurationSeconds)*time.Second <= speedLimit {
					fast++
				}
			}
			a.Progress = min(fast, a.Total)
			if a.Progress >= a.Total {
				earn(a, a.Total, latest.Date)
			}
		case "perfect_score":
			if !latest.IsPractice && latest.Accuracy == 100 {
				earn(a, 1, latest.Date)
			}
		case "consistent_performer":
			if len(tests) < consistentTestCount {
				continue
			}
			above := 0
			for _, t := range tests[:consistentTestCount] {
				if t.Accuracy >= consistentAccuracy {
					above++
				}
			}
			a.Progress = above
			if above == consistentTestCount {
				earn(a, consistentTestCount, latest.Date)
			}
		case "test_veteran":
			a.Progress = min(len(tests), a.Total)
			if a.Progress >= a.Total {
				earn(a, a.Total, latest.Date)
			}
		case "category_master":
			if !latest.IsPractice && masteredAll(latest.CategoryPerformance) {
				earn(a, 1, latest.Date)
			}
		}
	}
	return achievements
}

func earn(a *domain.Achievement, progress int, at time.Time) {
	a.Status = domain.AchievementEarned
	a.Progress = progress
	t := at
	a.Earned = &t
}

// masteredAll needs more than one category, all at 95% or better.
func masteredAll(perf map[string]domain.CategoryStats) bool {
	if len(perf) < 2 {
		return false
	}
	for _, s := range perf {
		if s.Percentage < masteryPercentage {
			return false
		}
	}
	return true
}

// fullTests filters out practice entries, keeping newest-first order.
func fullTests(entries []domain.HistoryEntry) []domain.HistoryEntry {
	out := make([]domain.HistoryEntry, 0, len(entries))
	for _, e := range entries {
		if !e.IsPractice {
			out = append(out, e)
		}
	}
	return out
}

// computeStats aggregates full tests only.
func computeStats(entries []domain.HistoryEntry, achievements []domain.Achievement) domain.UserStats {
	tests := fullTests(entries)
	stats := domain.UserStats{TotalTests: len(tests)}
	if len(tests) == 0 {
		return stats
	}

	stats.TotalAchievements = len(achievements)
	for _, a := range achievements {
		if a.Status == domain.AchievementEarned {
			stats.EarnedAchievements++
		}
	}

	var scoreSum, accSum int
	for _, t := range tests {
		scoreSum += t.Score
		accSum += t.Accuracy
		stats.BestScore = max(stats.BestScore, t.Score)
	}
	stats.AverageScore = roundDiv(scoreSum, len(tests))
	stats.AverageAccuracy = roundDiv(accSum, len(tests))

	if len(tests) >= 6 {
		recent := meanAccuracy(tests[:3])
		previous := meanAccuracy(tests[3:6])
		stats.RecentImprovement = int(math.Round(recent - previous))
	}
	return stats
}

func meanAccuracy(entries []domain.HistoryEntry) float64 {
	sum := 0
	for _, e := range entries {
		sum += e.Accuracy
	}
	return float64(sum) / float64(len(entries))
}

func roundDiv(sum, n int) int {
	return int(math.Round(float64(sum) / float64(n)))
}
