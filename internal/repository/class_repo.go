package repository

import (
	"fmt"
	"time"

	"codeclass/internal/database"
	"codeclass/internal/models"

	"github.com/google/uuid"
)

// ClassRepository handles database operations for scheduled classes
type ClassRepository struct {
	db *database.DB
}

// NewClassRepository creates a new class repository
func NewClassRepository(db *database.DB) *ClassRepository {
	return &ClassRepository{db: db}
}

// List retrieves all scheduled classes ordered by start time
func (r *ClassRepository) List() ([]*models.ScheduledClass, error) {
	query := `
		SELECT id, title, description, instructor, starts_at, duration_minutes, created_at
		FROM classes
		ORDER BY starts_at ASC
	`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query classes: %w", database.Classify(r.db.Dialect, err))
	}
	defer rows.Close()

	classes := []*models.ScheduledClass{}
	for rows.Next() {
		c := &models.ScheduledClass{}
		if err := rows.Scan(&c.ID, &c.Title, &c.Description, &c.Instructor, &c.StartsAt, &c.DurationMinutes, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan class: %w", err)
		}
		classes = append(classes, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate classes: %w", err)
	}
	return classes, nil
}

// Save inserts or replaces a scheduled class. An empty ID is replaced with
// a fresh UUID.
func (r *ClassRepository) Save(class *models.ScheduledClass) error {
	if class.ID == "" {
		class.ID = uuid.New().String()
	}
	if class.CreatedAt.IsZero() {
		class.CreatedAt = time.Now().UTC()
	}

	columns := []string{"id", "title", "description", "instructor", "starts_at", "duration_minutes", "created_at"}
	query := r.db.Dialect.UpsertQuery("classes", columns, []string{"id"})
	_, err := r.db.Exec(query, class.ID, class.Title, class.Description, class.Instructor, class.StartsAt.UTC(), class.DurationMinutes, class.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save class: %w", database.Classify(r.db.Dialect, err))
	}
	return nil
}

// Delete removes a scheduled class
func (r *ClassRepository) Delete(id string) error {
	if _, err := r.db.Exec("DELETE FROM classes WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete class: %w", database.Classify(r.db.Dialect, err))
	}
	return nil
}
