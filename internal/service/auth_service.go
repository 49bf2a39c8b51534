package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"codeclass/internal/models"
	"codeclass/internal/repository"
	"codeclass/internal/security"
	"codeclass/internal/validation"
)

// AdminPolicy decides which emails are promoted to administrator
type AdminPolicy interface {
	IsAdminEmail(email string) bool
}

// SignUpInput is the sign-up form. RequestAdmin reflects the role toggle and
// never grants the admin role on its own.
type SignUpInput struct {
	Email        string `json:"email"`
	Password     string `json:"password"`
	DisplayName  string `json:"displayName"`
	RequestAdmin bool   `json:"asAdmin"`
}

// AuthService handles authentication business logic
type AuthService struct {
	accounts        *repository.AccountRepository
	admins          AdminPolicy
	email           *EmailService
	publisher       Publisher
	sessionDuration time.Duration
}

// NewAuthService creates a new auth service
func NewAuthService(accounts *repository.AccountRepository, admins AdminPolicy, email *EmailService, publisher Publisher, sessionDuration time.Duration) *AuthService {
	return &AuthService{
		accounts:        accounts,
		admins:          admins,
		email:           email,
		publisher:       publisherOrNop(publisher),
		sessionDuration: sessionDuration,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// initialAccess derives role and status for a new account
func (s *AuthService) initialAccess(email string) (models.Role, models.Status) {
	if s.admins.IsAdminEmail(email) {
		return models.RoleAdmin, models.StatusActive
	}
	return models.RoleStudent, models.StatusPending
}

// SignUp creates an account and signs it in
func (s *AuthService) SignUp(ctx context.Context, in SignUpInput) (*models.Session, *models.Account, error) {
	email := normalizeEmail(in.Email)
	if err := validation.ValidateEmail(email); err != nil {
		return nil, nil, err
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, nil, err
	}
	if err := validation.ValidateName(in.DisplayName); err != nil {
		return nil, nil, err
	}

	existing, err := s.accounts.GetByEmail(email)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to check existing account: %w", err)
	}
	if existing != nil {
		return nil, nil, ErrEmailTaken
	}

	passwordHash, err := security.HashPassword(in.Password)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to hash password: %w", err)
	}

	role, status := s.initialAccess(email)
	if in.RequestAdmin && role != models.RoleAdmin {
		log.Printf("Admin role requested by %s but email is not allow-listed; creating student account", email)
	}

	account := &models.Account{
		Email:        email,
		PasswordHash: passwordHash,
		DisplayName:  strings.TrimSpace(in.DisplayName),
		Role:         role,
		Status:       status,
	}
	if err := s.accounts.Create(account); err != nil {
		return nil, nil, fmt.Errorf("failed to create account: %w", err)
	}

	if err := s.email.SendWelcomeEmail(ctx, account); err != nil {
		log.Printf("Warning: failed to send welcome email to %s: %v", email, err)
	}

	session, err := s.startSession(account)
	if err != nil {
		return nil, nil, err
	}
	return session, account, nil
}

// Login authenticates with email and password. With asAdmin set, a
// non-admin account is signed straight back out and ErrNotAdmin returned.
func (s *AuthService) Login(email, password string, asAdmin bool) (*models.Session, *models.Account, error) {
	account, err := s.accounts.GetByEmail(normalizeEmail(email))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get account: %w", err)
	}
	if account == nil {
		return nil, nil, ErrInvalidCredentials
	}

	if !security.CheckPassword(password, account.PasswordHash) {
		return nil, nil, ErrInvalidCredentials
	}

	return s.completeSignIn(account, asAdmin)
}

// OAuthLogin authenticates or creates an account using an OAuth provider
func (s *AuthService) OAuthLogin(ctx context.Context, provider, subject, email, name, avatarURL string) (*models.Session, *models.Account, error) {
	if provider == "" || subject == "" {
		return nil, nil, errors.New("missing oauth provider information")
	}
	email = normalizeEmail(email)
	if err := validation.ValidateEmail(email); err != nil {
		return nil, nil, err
	}

	account, err := s.accounts.GetByOAuth(provider, subject)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to lookup oauth account: %w", err)
	}

	if account == nil {
		existing, err := s.accounts.GetByEmail(email)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to check existing account: %w", err)
		}
		if existing != nil {
			if existing.OAuthProvider != "" && existing.OAuthProvider != provider {
				return nil, nil, ErrEmailTaken
			}
			if existing.OAuthProvider == "" {
				if err := s.accounts.LinkOAuthProvider(existing.ID, provider, subject); err != nil {
					return nil, nil, fmt.Errorf("failed to link oauth provider: %w", err)
				}
			}
			account = existing
		} else {
			if name == "" {
				name = strings.Split(email, "@")[0]
			}
			role, status := s.initialAccess(email)
			account = &models.Account{
				Email:         email,
				DisplayName:   name,
				AvatarURL:     avatarURL,
				Role:          role,
				Status:        status,
				OAuthProvider: provider,
				OAuthSubject:  subject,
			}
			if err := s.accounts.Create(account); err != nil {
				return nil, nil, fmt.Errorf("failed to create oauth account: %w", err)
			}
			if err := s.email.SendWelcomeEmail(ctx, account); err != nil {
				log.Printf("Warning: failed to send welcome email to %s: %v", email, err)
			}
		}
	}

	return s.completeSignIn(account, false)
}

func (s *AuthService) completeSignIn(account *models.Account, asAdmin bool) (*models.Session, *models.Account, error) {
	if err := s.promote(account); err != nil {
		return nil, nil, err
	}

	session, err := s.startSession(account)
	if err != nil {
		return nil, nil, err
	}

	if asAdmin && !account.IsAdmin() {
		if err := s.accounts.DeleteSession(session.ID); err != nil {
			log.Printf("Warning: failed to revoke session for %s: %v", account.Email, err)
		}
		return nil, nil, ErrNotAdmin
	}
	return session, account, nil
}

// promote raises allow-listed accounts to admin+active, overwriting any
// lower stored role or status
func (s *AuthService) promote(account *models.Account) error {
	if !s.admins.IsAdminEmail(account.Email) {
		return nil
	}
	if account.Role == models.RoleAdmin && account.Status == models.StatusActive {
		return nil
	}

	if err := s.accounts.UpdateAccess(account.ID, models.RoleAdmin, models.StatusActive); err != nil {
		return fmt.Errorf("failed to promote account: %w", err)
	}
	account.Role = models.RoleAdmin
	account.Status = models.StatusActive
	log.Printf("Promoted allow-listed account %s to admin", account.Email)
	publishAccount(s.publisher, account)
	return nil
}

func (s *AuthService) startSession(account *models.Account) (*models.Session, error) {
	sessionID := security.GenerateSessionID()
	expiresAt := time.Now().Add(s.sessionDuration)

	session, err := s.accounts.CreateSession(sessionID, account.ID, expiresAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return session, nil
}

// ValidateSession checks if a session is valid and returns the associated account
func (s *AuthService) ValidateSession(sessionID string) (*models.Account, error) {
	session, err := s.accounts.GetSession(sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}

	if session.IsExpired() {
		_ = s.accounts.DeleteSession(sessionID)
		return nil, ErrSessionExpired
	}

	account, err := s.accounts.GetByID(session.AccountID)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	if account == nil {
		return nil, ErrSessionNotFound
	}

	return account, nil
}

// Logout invalidates a session
func (s *AuthService) Logout(sessionID string) error {
	if err := s.accounts.DeleteSession(sessionID); err != nil {
		return fmt.Errorf("failed to logout: %w", err)
	}
	return nil
}

// CleanupExpiredSessions removes expired sessions from the database
func (s *AuthService) CleanupExpiredSessions() (int64, error) {
	removed, err := s.accounts.DeleteExpiredSessions()
	if err != nil {
		return 0, fmt.Errorf("failed to cleanup sessions: %w", err)
	}
	return removed, nil
}
