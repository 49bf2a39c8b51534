package service

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"codeclass/internal/live"
	"codeclass/internal/models"
	"codeclass/internal/repository"
	"codeclass/internal/validation"
)

// RecentClassWindow keeps a class on the timetable after it has started
const RecentClassWindow = 2 * time.Hour

// ClassService manages the live class timetable
type ClassService struct {
	classes   *repository.ClassRepository
	publisher Publisher
}

// NewClassService creates a new class service
func NewClassService(classes *repository.ClassRepository, publisher Publisher) *ClassService {
	return &ClassService{classes: classes, publisher: publisherOrNop(publisher)}
}

// UpcomingClasses keeps classes starting in the future or within the last
// RecentClassWindow, sorted by start time
func UpcomingClasses(classes []*models.ScheduledClass, now time.Time) []*models.ScheduledClass {
	cutoff := now.Add(-RecentClassWindow)
	upcoming := make([]*models.ScheduledClass, 0, len(classes))
	for _, c := range classes {
		if !c.StartsAt.Before(cutoff) {
			upcoming = append(upcoming, c)
		}
	}
	sort.SliceStable(upcoming, func(i, j int) bool {
		return upcoming[i].StartsAt.Before(upcoming[j].StartsAt)
	})
	return upcoming
}

// Upcoming returns the timetable as shown to students
func (s *ClassService) Upcoming(now time.Time) ([]*models.ScheduledClass, error) {
	classes, err := s.classes.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list classes: %w", err)
	}
	return UpcomingClasses(classes, now), nil
}

// Create schedules a new class
func (s *ClassService) Create(actor *models.Account, class *models.ScheduledClass) (*models.ScheduledClass, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	class.ID = ""
	class.Title = strings.TrimSpace(class.Title)
	if err := validation.Struct(class); err != nil {
		return nil, err
	}
	if class.Instructor == "" {
		class.Instructor = actor.DisplayName
	}

	if err := s.classes.Save(class); err != nil {
		return nil, fmt.Errorf("failed to create class: %w", err)
	}
	s.publishClasses()
	return class, nil
}

// Delete removes a class from the timetable
func (s *ClassService) Delete(actor *models.Account, id string) error {
	if !actor.IsAdmin() {
		return ErrForbidden
	}

	classes, err := s.classes.List()
	if err != nil {
		return fmt.Errorf("failed to list classes: %w", err)
	}
	found := false
	for _, c := range classes {
		if c.ID == id {
			found = true
			break
		}
	}
	if !found {
		return ErrClassNotFound
	}

	if err := s.classes.Delete(id); err != nil {
		return fmt.Errorf("failed to delete class: %w", err)
	}
	s.publishClasses()
	return nil
}

func (s *ClassService) publishClasses() {
	classes, err := s.Upcoming(time.Now())
	if err != nil {
		return
	}
	publish(s.publisher, live.TopicClasses, classes)
}
