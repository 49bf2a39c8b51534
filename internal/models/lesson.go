package models

import "time"

// Difficulty labels a lesson's level
type Difficulty string

const (
	Beginner     Difficulty = "Beginner"
	Intermediate Difficulty = "Intermediate"
	Advanced     Difficulty = "Advanced"
)

// QuizQuestion is a single multiple-choice question. Options conventionally
// hold four entries; CorrectAnswer is a zero-based index into Options.
type QuizQuestion struct {
	ID            string   `json:"id" validate:"required"`
	Question      string   `json:"question" validate:"required"`
	Options       []string `json:"options" validate:"min=2,dive,required"`
	CorrectAnswer int      `json:"correctAnswer" validate:"gte=0"`
}

// Lesson is a unit of the curriculum
type Lesson struct {
	ID             string         `json:"id" validate:"required,max=64"`
	Title          string         `json:"title" validate:"required,max=200"`
	Description    string         `json:"description"`
	Difficulty     Difficulty     `json:"difficulty" validate:"oneof=Beginner Intermediate Advanced"`
	Topics         []string       `json:"topics"`
	Content        string         `json:"content"`
	StarterCode    string         `json:"starterCode"`
	Task           string         `json:"task"`
	ExpectedOutput string         `json:"expectedOutput,omitempty"`
	Quiz           []QuizQuestion `json:"quiz,omitempty" validate:"dive"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
}

// HasQuiz reports whether the lesson carries quiz questions
func (l *Lesson) HasQuiz() bool {
	return len(l.Quiz) > 0
}
