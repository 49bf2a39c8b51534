package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"codeclass/internal/models"
	"codeclass/internal/progress"
	"codeclass/internal/repository"
	"codeclass/internal/validation"
)

// ProfileInput is the editable part of an account
type ProfileInput struct {
	DisplayName string `json:"displayName"`
	AvatarURL   string `json:"photoURL" validate:"omitempty,url,max=1024"`
}

// Dashboard is the signed-in landing view
type Dashboard struct {
	Account    *models.Account  `json:"account"`
	Stats      progress.Stats   `json:"stats"`
	NextLesson *models.Lesson   `json:"nextLesson,omitempty"`
	LiveRoom   *models.LiveRoom `json:"liveRoom"`
}

// AccountService handles profiles and administrator account management
type AccountService struct {
	accounts  *repository.AccountRepository
	lessons   *repository.LessonRepository
	rooms     *repository.RoomRepository
	email     *EmailService
	publisher Publisher
}

// NewAccountService creates a new account service
func NewAccountService(accounts *repository.AccountRepository, lessons *repository.LessonRepository, rooms *repository.RoomRepository, email *EmailService, publisher Publisher) *AccountService {
	return &AccountService{
		accounts:  accounts,
		lessons:   lessons,
		rooms:     rooms,
		email:     email,
		publisher: publisherOrNop(publisher),
	}
}

// Dashboard summarizes progress against the current curriculum
func (s *AccountService) Dashboard(account *models.Account, now time.Time) (*Dashboard, error) {
	lessons, err := s.lessons.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list lessons: %w", err)
	}
	room, err := s.rooms.Get()
	if err != nil {
		return nil, fmt.Errorf("failed to get live room: %w", err)
	}

	d := &Dashboard{
		Account:  account,
		Stats:    progress.Summarize(account, len(lessons), now),
		LiveRoom: room,
	}
	for _, l := range lessons {
		if !account.HasCompleted(l.ID) {
			d.NextLesson = l
			break
		}
	}
	return d, nil
}

// UpdateProfile applies the change to account immediately. A failed write is
// logged and the updated account is still returned.
func (s *AccountService) UpdateProfile(account *models.Account, in ProfileInput) (*models.Account, error) {
	name := strings.TrimSpace(in.DisplayName)
	if err := validation.ValidateName(name); err != nil {
		return nil, err
	}
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	account.DisplayName = name
	account.AvatarURL = strings.TrimSpace(in.AvatarURL)

	if err := s.accounts.UpdateProfile(account.ID, account.DisplayName, account.AvatarURL); err != nil {
		log.Printf("Failed to save profile for %s: %v", account.ID, err)
	}
	publishAccount(s.publisher, account)
	return account, nil
}

// List returns every account for the admin dashboard
func (s *AccountService) List(actor *models.Account) ([]*models.Account, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	accounts, err := s.accounts.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return accounts, nil
}

// SetAccess lets an administrator approve, reject or promote an account.
// An empty role keeps the current one.
func (s *AccountService) SetAccess(ctx context.Context, actor *models.Account, targetID string, status models.Status, role models.Role) (*models.Account, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}
	if role != "" && !role.Valid() {
		return nil, ErrInvalidRole
	}

	target, err := s.accounts.GetByID(targetID)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	if target == nil {
		return nil, ErrAccountNotFound
	}
	if role == "" {
		role = target.Role
	}

	statusChanged := target.Status != status
	if err := s.accounts.UpdateAccess(target.ID, role, status); err != nil {
		return nil, fmt.Errorf("failed to update account: %w", err)
	}
	target.Role = role
	target.Status = status
	publishAccount(s.publisher, target)

	if statusChanged {
		if err := s.email.SendStatusEmail(ctx, target); err != nil {
			log.Printf("Warning: failed to send status email to %s: %v", target.Email, err)
		}
	}
	return target, nil
}
