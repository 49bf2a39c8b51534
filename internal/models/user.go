package models

import (
	"slices"
	"time"
)

// Role is the account's authorization role
type Role string

const (
	RoleStudent Role = "student"
	RoleAdmin   Role = "admin"
)

// Valid reports whether r is a known role
func (r Role) Valid() bool {
	return r == RoleStudent || r == RoleAdmin
}

// Status is the account's approval status
type Status string

const (
	StatusPending  Status = "pending"
	StatusActive   Status = "active"
	StatusRejected Status = "rejected"
)

// Valid reports whether s is a known status
func (s Status) Valid() bool {
	return s == StatusPending || s == StatusActive || s == StatusRejected
}

// ProgressRecord is the per-lesson completion metadata of an account
type ProgressRecord struct {
	// CompletedAt is an RFC 3339 timestamp
	CompletedAt string `json:"completedAt"`
	Score       *int   `json:"score,omitempty"`
}

// Account is the stored record behind a signed-in identity
type Account struct {
	ID               string                    `json:"uid"`
	Email            string                    `json:"email"`
	PasswordHash     string                    `json:"-"`
	DisplayName      string                    `json:"displayName"`
	Role             Role                      `json:"role"`
	Status           Status                    `json:"status"`
	AvatarURL        string                    `json:"photoURL"`
	OAuthProvider    string                    `json:"-"`
	OAuthSubject     string                    `json:"-"`
	CompletedLessons []string                  `json:"completedLessons"`
	Progress         map[string]ProgressRecord `json:"progress"`
	CreatedAt        time.Time                 `json:"createdAt"`
	UpdatedAt        time.Time                 `json:"updatedAt"`
}

// IsAdmin reports whether the account holds the admin role
func (a *Account) IsAdmin() bool {
	return a != nil && a.Role == RoleAdmin
}

// HasCompleted reports whether lessonID is in the completed set
func (a *Account) HasCompleted(lessonID string) bool {
	return a != nil && slices.Contains(a.CompletedLessons, lessonID)
}

// Session represents an authenticated session
type Session struct {
	ID        string
	AccountID string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// IsExpired checks if the session has expired
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}
