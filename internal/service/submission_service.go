package service

import (
	"context"
	"log"
	"strings"
	"time"

	"codeclass/internal/grading"
	"codeclass/internal/models"
	"codeclass/internal/progress"
)

// Grader is the AI collaborator that simulates and judges student code
type Grader interface {
	Simulate(ctx context.Context, code string) grading.Execution
	Grade(ctx context.Context, code, task string) grading.Verdict
	Assist(ctx context.Context, content, question string) grading.Answer
}

// ProgressStore persists lesson completions
type ProgressStore interface {
	RecordProgress(accountID, lessonID string, rec models.ProgressRecord) error
}

// SubmissionState is the outcome of a code or quiz submission
type SubmissionState string

const (
	StateCorrect   SubmissionState = "correct"
	StateIncorrect SubmissionState = "incorrect"
	StateErrored   SubmissionState = "errored"
)

// Submission is returned to the lesson screen after a submit
type Submission struct {
	State    SubmissionState `json:"state"`
	Output   string          `json:"output,omitempty"`
	Feedback string          `json:"feedback,omitempty"`
	Error    string          `json:"error,omitempty"`
	// Celebrate is set once per passing submission to fire the confetti effect
	Celebrate bool `json:"celebrate"`
	Recorded  bool `json:"recorded"`
	Correct   int  `json:"correct,omitempty"`
	Total     int  `json:"total,omitempty"`
	Passed    bool `json:"passed"`
}

// SubmissionService runs, grades and records lesson work
type SubmissionService struct {
	lessons   *LessonService
	store     ProgressStore
	grader    Grader
	publisher Publisher
	now       func() time.Time
}

// NewSubmissionService creates a new submission service
func NewSubmissionService(lessons *LessonService, store ProgressStore, grader Grader, publisher Publisher) *SubmissionService {
	return &SubmissionService{
		lessons:   lessons,
		store:     store,
		grader:    grader,
		publisher: publisherOrNop(publisher),
		now:       time.Now,
	}
}

// RunCode asks the grader to simulate running code
func (s *SubmissionService) RunCode(ctx context.Context, code string) grading.Execution {
	return s.grader.Simulate(ctx, code)
}

// SubmitCode grades code against the lesson task. Only a correct verdict
// records progress.
func (s *SubmissionService) SubmitCode(ctx context.Context, account *models.Account, lessonID, code string) (*Submission, error) {
	lesson, err := s.lessons.Get(lessonID)
	if err != nil {
		return nil, err
	}

	verdict := s.grader.Grade(ctx, code, lesson.Task)
	if verdict.Error != "" {
		return &Submission{State: StateErrored, Error: verdict.Error}, nil
	}

	sub := &Submission{
		State:    StateIncorrect,
		Output:   verdict.Output,
		Feedback: verdict.Feedback,
	}
	if !verdict.IsCorrect {
		return sub, nil
	}

	score := progress.CodeScore
	sub.State = StateCorrect
	sub.Passed = true
	sub.Celebrate = true
	sub.Recorded = s.RecordCompletion(account, lesson.ID, &score)
	return sub, nil
}

// SubmitQuiz scores answers, keyed by question ID, and marks the lesson
// complete on a pass. Quiz completions carry no score.
func (s *SubmissionService) SubmitQuiz(account *models.Account, lessonID string, answers map[string]int) (*Submission, error) {
	lesson, err := s.lessons.Get(lessonID)
	if err != nil {
		return nil, err
	}
	if !lesson.HasQuiz() {
		return nil, ErrNoQuiz
	}

	correct, err := progress.ScoreQuiz(lesson.Quiz, answers)
	if err != nil {
		return nil, err
	}

	sub := &Submission{
		State:   StateIncorrect,
		Correct: correct,
		Total:   len(lesson.Quiz),
	}
	if !progress.QuizPassed(correct, len(lesson.Quiz)) {
		return sub, nil
	}

	sub.State = StateCorrect
	sub.Passed = true
	sub.Celebrate = true
	sub.Recorded = s.RecordCompletion(account, lesson.ID, nil)
	return sub, nil
}

// Ask forwards a student question to the tutoring assistant
func (s *SubmissionService) Ask(ctx context.Context, lessonID, question string) (grading.Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return grading.Answer{}, ErrEmptyQuestion
	}
	lesson, err := s.lessons.Get(lessonID)
	if err != nil {
		return grading.Answer{}, err
	}
	return s.grader.Assist(ctx, lesson.Content, question), nil
}

// RecordCompletion applies the write policy and reports whether a write was
// attempted. The account is updated in place before the store call and is
// not reverted if that call fails.
func (s *SubmissionService) RecordCompletion(account *models.Account, lessonID string, score *int) bool {
	if !progress.ShouldRecord(account, lessonID, score) {
		return false
	}

	rec := progress.NewRecord(s.now(), score)
	progress.Apply(account, lessonID, rec)

	if err := s.store.RecordProgress(account.ID, lessonID, rec); err != nil {
		log.Printf("Failed to save progress for %s on %s: %v", account.ID, lessonID, err)
	}
	publishAccount(s.publisher, account)
	return true
}
