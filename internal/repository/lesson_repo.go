package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"codeclass/internal/database"
	"codeclass/internal/models"
)

// LessonRepository handles database operations for the curriculum
type LessonRepository struct {
	db *database.DB
}

// NewLessonRepository creates a new lesson repository
func NewLessonRepository(db *database.DB) *LessonRepository {
	return &LessonRepository{db: db}
}

var lessonColumns = []string{
	"id", "title", "description", "difficulty", "topics", "content",
	"starter_code", "task", "expected_output", "quiz", "created_at", "updated_at",
}

const lessonSelect = `SELECT id, title, description, difficulty, topics, content, starter_code, task, expected_output, quiz, created_at, updated_at FROM lessons`

func scanLesson(row rowScanner) (*models.Lesson, error) {
	l := &models.Lesson{}
	var difficulty, topics, quiz string
	err := row.Scan(
		&l.ID,
		&l.Title,
		&l.Description,
		&difficulty,
		&topics,
		&l.Content,
		&l.StarterCode,
		&l.Task,
		&l.ExpectedOutput,
		&quiz,
		&l.CreatedAt,
		&l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	l.Difficulty = models.Difficulty(difficulty)
	if err := json.Unmarshal([]byte(topics), &l.Topics); err != nil {
		return nil, fmt.Errorf("failed to decode topics of %s: %w", l.ID, err)
	}
	if err := json.Unmarshal([]byte(quiz), &l.Quiz); err != nil {
		return nil, fmt.Errorf("failed to decode quiz of %s: %w", l.ID, err)
	}
	if l.Topics == nil {
		l.Topics = []string{}
	}
	return l, nil
}

func lessonArgs(l *models.Lesson) ([]interface{}, error) {
	topics := l.Topics
	if topics == nil {
		topics = []string{}
	}
	topicsJSON, err := json.Marshal(topics)
	if err != nil {
		return nil, fmt.Errorf("failed to encode topics: %w", err)
	}
	quiz := l.Quiz
	if quiz == nil {
		quiz = []models.QuizQuestion{}
	}
	quizJSON, err := json.Marshal(quiz)
	if err != nil {
		return nil, fmt.Errorf("failed to encode quiz: %w", err)
	}
	return []interface{}{
		l.ID, l.Title, l.Description, string(l.Difficulty), string(topicsJSON), l.Content,
		l.StarterCode, l.Task, l.ExpectedOutput, string(quizJSON), l.CreatedAt, l.UpdatedAt,
	}, nil
}

// List retrieves every lesson ordered by ID
func (r *LessonRepository) List() ([]*models.Lesson, error) {
	rows, err := r.db.Query(lessonSelect + ` ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query lessons: %w", database.Classify(r.db.Dialect, err))
	}
	defer rows.Close()

	lessons := []*models.Lesson{}
	for rows.Next() {
		lesson, err := scanLesson(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan lesson: %w", err)
		}
		lessons = append(lessons, lesson)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate lessons: %w", err)
	}
	return lessons, nil
}

// GetByID retrieves a lesson by ID
func (r *LessonRepository) GetByID(id string) (*models.Lesson, error) {
	lesson, err := scanLesson(r.db.QueryRow(lessonSelect+` WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get lesson: %w", database.Classify(r.db.Dialect, err))
	}
	return lesson, nil
}

// Count returns the number of lessons
func (r *LessonRepository) Count() (int, error) {
	var count int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM lessons").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count lessons: %w", database.Classify(r.db.Dialect, err))
	}
	return count, nil
}

// Save inserts or replaces a lesson. CreatedAt is kept when already set.
func (r *LessonRepository) Save(lesson *models.Lesson) error {
	return saveLesson(r.db, lesson)
}

func saveLesson(db database.DBTX, lesson *models.Lesson) error {
	now := time.Now().UTC()
	if lesson.CreatedAt.IsZero() {
		lesson.CreatedAt = now
	}
	lesson.UpdatedAt = now

	args, err := lessonArgs(lesson)
	if err != nil {
		return err
	}
	d := db.GetDialect()
	if _, err := db.Exec(d.UpsertQuery("lessons", lessonColumns, []string{"id"}), args...); err != nil {
		return fmt.Errorf("failed to save lesson %s: %w", lesson.ID, database.Classify(d, err))
	}
	return nil
}

// Delete removes a lesson. Progress rows referencing it are left in place.
func (r *LessonRepository) Delete(id string) error {
	if _, err := r.db.Exec("DELETE FROM lessons WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete lesson: %w", database.Classify(r.db.Dialect, err))
	}
	return nil
}

// SeedLessons writes every lesson in a single transaction
func (r *LessonRepository) SeedLessons(lessons []*models.Lesson) error {
	return r.db.WithTx(func(tx *database.Tx) error {
		for _, lesson := range lessons {
			if err := saveLesson(tx, lesson); err != nil {
				return err
			}
		}
		return nil
	})
}
