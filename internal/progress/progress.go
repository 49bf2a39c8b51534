// Package progress derives dashboard statistics from an account's progress
// map and decides when a completion should be written.
package progress

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"codeclass/internal/models"
)

const (
	// HoursPerLesson is the flat estimate used for time spent
	HoursPerLesson = 1.5

	// PassingScore is the minimum score a record needs to count as a passed quiz
	PassingScore = 70

	// CodeScore is attached to a lesson completed with a passing code submission
	CodeScore = 100

	passRatio          = 0.7
	smallQuizQuestions = 3
)

// ErrIncompleteAnswers is returned when not every question has a selected option
var ErrIncompleteAnswers = errors.New("every question must be answered")

// Stats is the dashboard summary of one account
type Stats struct {
	Completed     int `json:"completed"`
	Total         int `json:"total"`
	HoursSpent    int `json:"hoursSpent"`
	Streak        int `json:"streak"`
	QuizzesPassed int `json:"quizzesPassed"`
}

// Summarize computes the dashboard statistics. A nil account yields zeros.
func Summarize(account *models.Account, totalLessons int, now time.Time) Stats {
	stats := Stats{Total: totalLessons}
	if account == nil {
		return stats
	}
	stats.Completed = len(account.CompletedLessons)
	stats.HoursSpent = int(math.Round(float64(stats.Completed) * HoursPerLesson))
	stats.Streak = Streak(account.Progress, now)
	stats.QuizzesPassed = QuizzesPassed(account.Progress)
	return stats
}

// QuizzesPassed counts records carrying a score of at least PassingScore
func QuizzesPassed(records map[string]models.ProgressRecord) int {
	passed := 0
	for _, rec := range records {
		if rec.Score != nil && *rec.Score >= PassingScore {
			passed++
		}
	}
	return passed
}

// Streak counts consecutive calendar days with a completion, ending today
// or yesterday in now's location. Unparsable timestamps are ignored.
func Streak(records map[string]models.ProgressRecord, now time.Time) int {
	loc := now.Location()
	seen := map[time.Time]bool{}
	for _, rec := range records {
		ts, err := time.Parse(time.RFC3339, rec.CompletedAt)
		if err != nil {
			continue
		}
		seen[day(ts.In(loc))] = true
	}
	if len(seen) == 0 {
		return 0
	}

	days := make([]time.Time, 0, len(seen))
	for d := range seen {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].After(days[j]) })

	today := day(now)
	yesterday := today.AddDate(0, 0, -1)
	if !days[0].Equal(today) && !days[0].Equal(yesterday) {
		return 0
	}

	streak := 1
	for i := 1; i < len(days); i++ {
		if !days[i].Equal(days[i-1].AddDate(0, 0, -1)) {
			break
		}
		streak++
	}
	return streak
}

func day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// ShouldRecord reports whether completing lessonID with score must be
// written: the lesson is new to the completed set, or score strictly beats
// the stored one. A stored record without a score is beaten by any score.
func ShouldRecord(account *models.Account, lessonID string, score *int) bool {
	if !account.HasCompleted(lessonID) {
		return true
	}
	if score == nil {
		return false
	}
	prev, ok := account.Progress[lessonID]
	if !ok || prev.Score == nil {
		return true
	}
	return *score > *prev.Score
}

// NewRecord builds the progress record for a completion at now
func NewRecord(now time.Time, score *int) models.ProgressRecord {
	return models.ProgressRecord{
		CompletedAt: now.UTC().Format(time.RFC3339),
		Score:       score,
	}
}

// Apply updates the in-memory account as if the write already succeeded
func Apply(account *models.Account, lessonID string, rec models.ProgressRecord) {
	if !account.HasCompleted(lessonID) {
		account.CompletedLessons = append(account.CompletedLessons, lessonID)
	}
	if account.Progress == nil {
		account.Progress = map[string]models.ProgressRecord{}
	}
	account.Progress[lessonID] = rec
}

// ScoreQuiz counts correct answers. answers maps question ID to the chosen
// option index and must cover every question.
func ScoreQuiz(questions []models.QuizQuestion, answers map[string]int) (int, error) {
	correct := 0
	for _, q := range questions {
		choice, ok := answers[q.ID]
		if !ok {
			return 0, fmt.Errorf("%w: missing %s", ErrIncompleteAnswers, q.ID)
		}
		if choice == q.CorrectAnswer {
			correct++
		}
	}
	return correct, nil
}

// QuizPassed applies the pass threshold. Quizzes with fewer than three
// questions must be answered perfectly.
func QuizPassed(correct, total int) bool {
	if total <= 0 {
		return false
	}
	if float64(correct)/float64(total) >= passRatio {
		return true
	}
	return total < smallQuizQuestions && correct == total
}
