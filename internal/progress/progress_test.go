package progress

import (
	"testing"
	"time"

	"codeclass/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

var now = time.Date(2026, 5, 20, 15, 30, 0, 0, time.UTC)

func daysAgo(n int) string {
	return now.AddDate(0, 0, -n).Format(time.RFC3339)
}

func recordsOn(offsets ...int) map[string]models.ProgressRecord {
	records := map[string]models.ProgressRecord{}
	for i, n := range offsets {
		records[string(rune('a'+i))] = models.ProgressRecord{CompletedAt: daysAgo(n)}
	}
	return records
}

func TestStreak(t *testing.T) {
	tests := []struct {
		name    string
		records map[string]models.ProgressRecord
		want    int
	}{
		{"four consecutive days ending today", recordsOn(3, 2, 1, 0), 4},
		{"gap before today", recordsOn(5, 1, 0), 2},
		{"non-consecutive most recent today", recordsOn(5, 0), 1},
		{"non-consecutive most recent yesterday", recordsOn(5, 1), 1},
		{"most recent two days ago", recordsOn(4, 3, 2), 0},
		{"several completions same day count once", recordsOn(0, 0, 1), 2},
		{"empty", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Streak(tt.records, now))
		})
	}
}

func TestStreakIgnoresBadTimestamps(t *testing.T) {
	records := recordsOn(0)
	records["bad"] = models.ProgressRecord{CompletedAt: "not a date"}
	assert.Equal(t, 1, Streak(records, now))
}

func TestStreakUsesCalendarDaysInLocation(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*60*60)
	local := time.Date(2026, 5, 20, 20, 0, 0, 0, loc)
	records := map[string]models.ProgressRecord{
		// 2026-05-21 00:30 UTC is still the 20th in UTC-5
		"a": {CompletedAt: "2026-05-21T00:30:00Z"},
		"b": {CompletedAt: "2026-05-19T12:00:00Z"},
	}
	assert.Equal(t, 2, Streak(records, local))
}

func TestQuizzesPassed(t *testing.T) {
	records := map[string]models.ProgressRecord{
		"a": {CompletedAt: daysAgo(0), Score: intPtr(70)},
		"b": {CompletedAt: daysAgo(0), Score: intPtr(69)},
		"c": {CompletedAt: daysAgo(0), Score: intPtr(100)},
		"d": {CompletedAt: daysAgo(0)},
	}
	assert.Equal(t, 2, QuizzesPassed(records))
}

func TestSummarize(t *testing.T) {
	t.Run("empty account yields zeros", func(t *testing.T) {
		stats := Summarize(&models.Account{}, 12, now)
		assert.Equal(t, Stats{Total: 12}, stats)
	})

	t.Run("nil account yields zeros", func(t *testing.T) {
		assert.Equal(t, Stats{Total: 3}, Summarize(nil, 3, now))
	})

	t.Run("populated account", func(t *testing.T) {
		account := &models.Account{
			CompletedLessons: []string{"01", "02", "03"},
			Progress: map[string]models.ProgressRecord{
				"01": {CompletedAt: daysAgo(1), Score: intPtr(100)},
				"02": {CompletedAt: daysAgo(0), Score: intPtr(40)},
				"03": {CompletedAt: daysAgo(0)},
			},
		}
		before := len(account.Progress)

		stats := Summarize(account, 10, now)
		assert.Equal(t, 3, stats.Completed)
		assert.Equal(t, 10, stats.Total)
		assert.Equal(t, 5, stats.HoursSpent) // 4.5 rounds up
		assert.Equal(t, 2, stats.Streak)
		assert.Equal(t, 1, stats.QuizzesPassed)
		assert.Len(t, account.Progress, before)
		assert.LessOrEqual(t, stats.Completed, stats.Total)
	})
}

func TestShouldRecord(t *testing.T) {
	account := &models.Account{
		CompletedLessons: []string{"scored", "unscored"},
		Progress: map[string]models.ProgressRecord{
			"scored":   {CompletedAt: daysAgo(1), Score: intPtr(85)},
			"unscored": {CompletedAt: daysAgo(1)},
		},
	}

	tests := []struct {
		name     string
		lessonID string
		score    *int
		want     bool
	}{
		{"new lesson", "fresh", intPtr(10), true},
		{"new lesson without score", "fresh", nil, true},
		{"higher score", "scored", intPtr(90), true},
		{"equal score", "scored", intPtr(85), false},
		{"lower score", "scored", intPtr(50), false},
		{"no score on completed lesson", "scored", nil, false},
		{"any score beats missing score", "unscored", intPtr(1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ShouldRecord(account, tt.lessonID, tt.score))
		})
	}
}

func TestScoreImprovementPolicy(t *testing.T) {
	account := &models.Account{}

	for _, score := range []int{60, 85, 50} {
		s := score
		if ShouldRecord(account, "lesson", &s) {
			Apply(account, "lesson", NewRecord(now, &s))
		}
	}

	require.Len(t, account.CompletedLessons, 1)
	assert.Equal(t, 85, *account.Progress["lesson"].Score)
}

func TestApplyIsSetLike(t *testing.T) {
	account := &models.Account{}
	Apply(account, "01", NewRecord(now.Add(-time.Hour), intPtr(100)))
	Apply(account, "01", NewRecord(now, intPtr(100)))

	assert.Equal(t, []string{"01"}, account.CompletedLessons)
	assert.Equal(t, now.Format(time.RFC3339), account.Progress["01"].CompletedAt)
}

func TestScoreQuiz(t *testing.T) {
	questions := []models.QuizQuestion{
		{ID: "q1", CorrectAnswer: 0},
		{ID: "q2", CorrectAnswer: 2},
		{ID: "q3", CorrectAnswer: 1},
	}

	correct, err := ScoreQuiz(questions, map[string]int{"q1": 0, "q2": 2, "q3": 3})
	require.NoError(t, err)
	assert.Equal(t, 2, correct)

	_, err = ScoreQuiz(questions, map[string]int{"q1": 0})
	assert.ErrorIs(t, err, ErrIncompleteAnswers)
}

func TestQuizPassed(t *testing.T) {
	tests := []struct {
		correct, total int
		want           bool
	}{
		{4, 5, true},
		{3, 5, false},
		{2, 2, true},
		{1, 2, false},
		{1, 1, true},
		{0, 1, false},
		{7, 10, true},
		{2, 3, false},
		{0, 0, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, QuizPassed(tt.correct, tt.total), "%d/%d", tt.correct, tt.total)
	}
}
