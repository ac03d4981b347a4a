package app

import (
	"fmt"
	"math"
	"sort"
	"time"
	"unicode/utf16"

	"iqscalar-assessment-service/internal/domain"
)

// maxStreakLookback bounds how many days CurrentStreak walks back.
const maxStreakLookback = 365

// DailySeed hashes salt+date with a 31-multiplier rolling hash over UTF-16
// code units, folded to a signed 32-bit integer; the absolute value is returned.
func DailySeed(salt, date string) int64 {
	var h int32
	for _, unit := range utf16.Encode([]rune(salt + date)) {
		h = h*31 + int32(unit)
	}
	seed := int64(h)
	if seed < 0 {
		seed = -seed
	}
	return seed
}

// SelectDaily picks the question for date: seed mod bank size. Same bank and
// date always give the same question.
func SelectDaily(questions []domain.Question, salt, date string) (domain.DailyQuestion, error) {
	if _, err := time.Parse(domain.DateLayout, date); err != nil {
		return domain.DailyQuestion{}, fmt.Errorf("%w: %q", domain.ErrInvalidDate, date)
	}
	if len(questions) == 0 {
		return domain.DailyQuestion{}, fmt.Errorf("daily question: %w", domain.ErrBankTooSmall)
	}
	index := int(DailySeed(salt, date) % int64(len(questions)))
	return domain.DailyQuestion{
		Question:    questions[index],
		Date:        date,
		DailyQuizID: fmt.Sprintf("daily_%s_%d", date, index),
	}, nil
}

// CurrentStreak counts consecutive correct days walking back from today.
// Today may be unanswered without breaking a streak that ended yesterday;
// any other missing day, or any incorrect answer, ends the walk.
func CurrentStreak(records map[string]domain.DailyRecord, today time.Time) int {
	streak := 0
	for i := 0; i < maxStreakLookback; i++ {
		day := today.AddDate(0, 0, -i).Format(domain.DateLayout)
		rec, ok := records[day]
		if !ok || !rec.Answered {
			if i > 0 {
				break
			}
			continue
		}
		if !rec.IsCorrect {
			break
		}
		streak++
	}
	return streak
}

// BestStreak is the longest run of correct records in ascending date-key
// order. Gaps between stored dates do not break a run.
func BestStreak(records map[string]domain.DailyRecord) int {
	dates := make([]string, 0, len(records))
	for d := range records {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	best, run := 0, 0
	for _, d := range dates {
		rec := records[d]
		if rec.Answered && rec.IsCorrect {
			run++
			if run > best {
				best = run
			}
			continue
		}
		run = 0
	}
	return best
}

// ComputeDailyStats summarizes records as of today.
func ComputeDailyStats(records map[string]domain.DailyRecord, today time.Time) domain.DailyStats {
	stats := domain.DailyStats{
		TotalAnswered: len(records),
		CurrentStreak: CurrentStreak(records, today),
		BestStreak:    BestStreak(records),
	}
	for _, rec := range records {
		if rec.IsCorrect {
			stats.CorrectAnswers++
		}
	}
	if stats.TotalAnswered > 0 {
		stats.Accuracy = int(math.Round(100 * float64(stats.CorrectAnswers) / float64(stats.TotalAnswered)))
	}
	return stats
}
