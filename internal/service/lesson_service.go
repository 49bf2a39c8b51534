package service

import (
	"fmt"
	"strings"

	"codeclass/internal/live"
	"codeclass/internal/models"
	"codeclass/internal/repository"
	"codeclass/internal/validation"
)

// LessonService handles curriculum reads and administrator edits
type LessonService struct {
	lessons   *repository.LessonRepository
	publisher Publisher
}

// NewLessonService creates a new lesson service
func NewLessonService(lessons *repository.LessonRepository, publisher Publisher) *LessonService {
	return &LessonService{lessons: lessons, publisher: publisherOrNop(publisher)}
}

// List returns all lessons ordered by ID
func (s *LessonService) List() ([]*models.Lesson, error) {
	lessons, err := s.lessons.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list lessons: %w", err)
	}
	return lessons, nil
}

// Get returns one lesson or ErrLessonNotFound
func (s *LessonService) Get(id string) (*models.Lesson, error) {
	lesson, err := s.lessons.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to get lesson: %w", err)
	}
	if lesson == nil {
		return nil, ErrLessonNotFound
	}
	return lesson, nil
}

// ValidateLesson checks the editor form. Correct answers must index an option.
func ValidateLesson(lesson *models.Lesson) error {
	lesson.ID = strings.TrimSpace(lesson.ID)
	lesson.Title = strings.TrimSpace(lesson.Title)
	if lesson.Difficulty == "" {
		lesson.Difficulty = models.Beginner
	}
	if err := validation.Struct(lesson); err != nil {
		return err
	}

	seen := map[string]bool{}
	for i, q := range lesson.Quiz {
		if q.CorrectAnswer >= len(q.Options) {
			return validation.ValidationError{
				Field:   fmt.Sprintf("quiz[%d].correctAnswer", i),
				Message: "must index one of the options",
			}
		}
		if seen[q.ID] {
			return validation.ValidationError{
				Field:   fmt.Sprintf("quiz[%d].id", i),
				Message: "must be unique within the quiz",
			}
		}
		seen[q.ID] = true
	}
	return nil
}

// Create adds a lesson whose ID is not taken yet
func (s *LessonService) Create(actor *models.Account, lesson *models.Lesson) (*models.Lesson, error) {
	return s.save(actor, lesson, true)
}

// Save creates or replaces a lesson
func (s *LessonService) Save(actor *models.Account, lesson *models.Lesson) (*models.Lesson, error) {
	return s.save(actor, lesson, false)
}

func (s *LessonService) save(actor *models.Account, lesson *models.Lesson, create bool) (*models.Lesson, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	if err := ValidateLesson(lesson); err != nil {
		return nil, err
	}

	existing, err := s.lessons.GetByID(lesson.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check lesson: %w", err)
	}
	if existing != nil {
		if create {
			return nil, ErrLessonExists
		}
		lesson.CreatedAt = existing.CreatedAt
	}

	if err := s.lessons.Save(lesson); err != nil {
		return nil, fmt.Errorf("failed to save lesson: %w", err)
	}
	s.publishLessons()
	return lesson, nil
}

// Delete removes a lesson
func (s *LessonService) Delete(actor *models.Account, id string) error {
	if !actor.IsAdmin() {
		return ErrForbidden
	}
	if _, err := s.Get(id); err != nil {
		return err
	}
	if err := s.lessons.Delete(id); err != nil {
		return fmt.Errorf("failed to delete lesson: %w", err)
	}
	s.publishLessons()
	return nil
}

// SeedCurriculum loads the built-in curriculum in one batch. It only runs
// for an administrator and only while no lessons exist.
func (s *LessonService) SeedCurriculum(actor *models.Account) (int, error) {
	if !actor.IsAdmin() {
		return 0, ErrForbidden
	}

	count, err := s.lessons.Count()
	if err != nil {
		return 0, fmt.Errorf("failed to count lessons: %w", err)
	}
	if count > 0 {
		return 0, ErrAlreadySeeded
	}

	lessons := DefaultCurriculum()
	if err := s.lessons.SeedLessons(lessons); err != nil {
		return 0, fmt.Errorf("failed to seed curriculum: %w", err)
	}
	s.publishLessons()
	return len(lessons), nil
}

func (s *LessonService) publishLessons() {
	lessons, err := s.lessons.List()
	if err != nil {
		return
	}
	publish(s.publisher, live.TopicLessons, lessons)
}
