package repository

import (
	"database/sql"
	"fmt"
	"time"

	"codeclass/internal/database"
	"codeclass/internal/models"

	"github.com/google/uuid"
)

// AccountRepository handles database operations for accounts, their
// progress and sessions
type AccountRepository struct {
	db *database.DB
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db *database.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

const accountColumns = `id, email, password_hash, name, role, status, avatar_url, oauth_provider, oauth_subject, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAccount(row rowScanner) (*models.Account, error) {
	a := &models.Account{}
	var role, status string
	err := row.Scan(
		&a.ID,
		&a.Email,
		&a.PasswordHash,
		&a.DisplayName,
		&role,
		&status,
		&a.AvatarURL,
		&a.OAuthProvider,
		&a.OAuthSubject,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	a.Role = models.Role(role)
	a.Status = models.Status(status)
	a.CompletedLessons = []string{}
	a.Progress = map[string]models.ProgressRecord{}
	return a, nil
}

// Create inserts a new account. An empty ID is replaced with a fresh UUID.
func (r *AccountRepository) Create(account *models.Account) error {
	if account.ID == "" {
		account.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	account.CreatedAt = now
	account.UpdatedAt = now

	query := `
		INSERT INTO users (` + accountColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.Exec(query,
		account.ID,
		account.Email,
		account.PasswordHash,
		account.DisplayName,
		string(account.Role),
		string(account.Status),
		account.AvatarURL,
		account.OAuthProvider,
		account.OAuthSubject,
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to create account: %w", database.Classify(r.db.Dialect, err))
	}

	if account.CompletedLessons == nil {
		account.CompletedLessons = []string{}
	}
	if account.Progress == nil {
		account.Progress = map[string]models.ProgressRecord{}
	}
	return nil
}

// GetByID retrieves an account with its progress by ID
func (r *AccountRepository) GetByID(id string) (*models.Account, error) {
	return r.getOne("id = ?", id)
}

// GetByEmail retrieves an account with its progress by email address
func (r *AccountRepository) GetByEmail(email string) (*models.Account, error) {
	return r.getOne("email = ?", email)
}

// GetByOAuth retrieves an account by OAuth provider and subject
func (r *AccountRepository) GetByOAuth(provider, subject string) (*models.Account, error) {
	return r.getOne("oauth_provider = ? AND oauth_subject = ?", provider, subject)
}

func (r *AccountRepository) getOne(where string, args ...interface{}) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM users WHERE ` + where
	account, err := scanAccount(r.db.QueryRow(query, args...))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", database.Classify(r.db.Dialect, err))
	}

	if err := r.loadProgress(map[string]*models.Account{account.ID: account}, "WHERE user_id = ?", account.ID); err != nil {
		return nil, err
	}
	return account, nil
}

// List retrieves all accounts with their progress, newest first
func (r *AccountRepository) List() ([]*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM users ORDER BY created_at DESC`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", database.Classify(r.db.Dialect, err))
	}
	defer rows.Close()

	accounts := []*models.Account{}
	byID := map[string]*models.Account{}
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, account)
		byID[account.ID] = account
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate accounts: %w", err)
	}

	if err := r.loadProgress(byID, ""); err != nil {
		return nil, err
	}
	return accounts, nil
}

// loadProgress fills the completed set and progress map of every account in byID
func (r *AccountRepository) loadProgress(byID map[string]*models.Account, where string, args ...interface{}) error {
	rows, err := r.db.Query(`SELECT user_id, lesson_id FROM completed_lessons `+where+` ORDER BY lesson_id`, args...)
	if err != nil {
		return fmt.Errorf("failed to query completed lessons: %w", database.Classify(r.db.Dialect, err))
	}
	for rows.Next() {
		var userID, lessonID string
		if err := rows.Scan(&userID, &lessonID); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan completed lesson: %w", err)
		}
		if a, ok := byID[userID]; ok {
			a.CompletedLessons = append(a.CompletedLessons, lessonID)
		}
	}
	rows.Close()

	rows, err = r.db.Query(`SELECT user_id, lesson_id, completed_at, score FROM lesson_progress `+where, args...)
	if err != nil {
		return fmt.Errorf("failed to query lesson progress: %w", database.Classify(r.db.Dialect, err))
	}
	defer rows.Close()
	for rows.Next() {
		var userID, lessonID, completedAt string
		var score sql.NullInt64
		if err := rows.Scan(&userID, &lessonID, &completedAt, &score); err != nil {
			return fmt.Errorf("failed to scan lesson progress: %w", err)
		}
		a, ok := byID[userID]
		if !ok {
			continue
		}
		rec := models.ProgressRecord{CompletedAt: completedAt}
		if score.Valid {
			s := int(score.Int64)
			rec.Score = &s
		}
		a.Progress[lessonID] = rec
	}
	return rows.Err()
}

// UpdateProfile updates the display name and avatar URL
func (r *AccountRepository) UpdateProfile(id, displayName, avatarURL string) error {
	query := `
		UPDATE users
		SET name = ?, avatar_url = ?, updated_at = ?
		WHERE id = ?
	`
	_, err := r.db.Exec(query, displayName, avatarURL, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", database.Classify(r.db.Dialect, err))
	}
	return nil
}

// UpdateAccess sets role and status
func (r *AccountRepository) UpdateAccess(id string, role models.Role, status models.Status) error {
	query := `
		UPDATE users
		SET role = ?, status = ?, updated_at = ?
		WHERE id = ?
	`
	_, err := r.db.Exec(query, string(role), string(status), time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to update access: %w", database.Classify(r.db.Dialect, err))
	}
	return nil
}

// LinkOAuthProvider links an existing account to an OAuth provider
func (r *AccountRepository) LinkOAuthProvider(id, provider, subject string) error {
	query := `
		UPDATE users
		SET oauth_provider = ?, oauth_subject = ?, updated_at = ?
		WHERE id = ?
		AND oauth_provider = ''
	`
	result, err := r.db.Exec(query, provider, subject, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to link oauth provider: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read link result: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("oauth provider already linked")
	}
	return nil
}

var (
	completedColumns = []string{"user_id", "lesson_id"}
	progressColumns  = []string{"user_id", "lesson_id", "completed_at", "score"}
	progressKeys     = []string{"user_id", "lesson_id"}
)

// RecordProgress adds lessonID to the completed set and replaces its
// progress record in one transaction. Adding an id twice is a no-op.
func (r *AccountRepository) RecordProgress(accountID, lessonID string, rec models.ProgressRecord) error {
	return r.db.WithTx(func(tx *database.Tx) error {
		return recordProgressTx(tx, accountID, lessonID, rec)
	})
}

func recordProgressTx(tx *database.Tx, accountID, lessonID string, rec models.ProgressRecord) error {
	d := tx.GetDialect()

	if _, err := tx.Exec(d.InsertIgnoreQuery("completed_lessons", completedColumns), accountID, lessonID); err != nil {
		return fmt.Errorf("failed to add completed lesson: %w", database.Classify(d, err))
	}

	var score interface{}
	if rec.Score != nil {
		score = *rec.Score
	}
	if _, err := tx.Exec(d.UpsertQuery("lesson_progress", progressColumns, progressKeys), accountID, lessonID, rec.CompletedAt, score); err != nil {
		return fmt.Errorf("failed to save lesson progress: %w", database.Classify(d, err))
	}
	return nil
}

// Import writes an account and its progress as-is, replacing any existing
// row with the same ID
func (r *AccountRepository) Import(account *models.Account) error {
	return r.db.WithTx(func(tx *database.Tx) error {
		d := tx.GetDialect()
		columns := []string{"id", "email", "password_hash", "name", "role", "status", "avatar_url", "oauth_provider", "oauth_subject", "created_at", "updated_at"}
		_, err := tx.Exec(d.UpsertQuery("users", columns, []string{"id"}),
			account.ID,
			account.Email,
			account.PasswordHash,
			account.DisplayName,
			string(account.Role),
			string(account.Status),
			account.AvatarURL,
			account.OAuthProvider,
			account.OAuthSubject,
			account.CreatedAt,
			account.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to import account %s: %w", account.Email, err)
		}

		for _, lessonID := range account.CompletedLessons {
			if _, err := tx.Exec(d.InsertIgnoreQuery("completed_lessons", completedColumns), account.ID, lessonID); err != nil {
				return fmt.Errorf("failed to import completed lesson: %w", err)
			}
		}
		for lessonID, rec := range account.Progress {
			var score interface{}
			if rec.Score != nil {
				score = *rec.Score
			}
			if _, err := tx.Exec(d.UpsertQuery("lesson_progress", progressColumns, progressKeys), account.ID, lessonID, rec.CompletedAt, score); err != nil {
				return fmt.Errorf("failed to import lesson progress: %w", err)
			}
		}
		return nil
	})
}

// CreateSession creates a new session for an account
func (r *AccountRepository) CreateSession(sessionID, accountID string, expiresAt time.Time) (*models.Session, error) {
	now := time.Now().UTC()
	query := `
		INSERT INTO sessions (id, user_id, expires_at, created_at)
		VALUES (?, ?, ?, ?)
	`
	_, err := r.db.Exec(query, sessionID, accountID, expiresAt.UTC(), now)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", database.Classify(r.db.Dialect, err))
	}

	return &models.Session{
		ID:        sessionID,
		AccountID: accountID,
		ExpiresAt: expiresAt,
		CreatedAt: now,
	}, nil
}

// GetSession retrieves a session by ID
func (r *AccountRepository) GetSession(sessionID string) (*models.Session, error) {
	query := `
		SELECT id, user_id, expires_at, created_at
		FROM sessions
		WHERE id = ?
	`
	session := &models.Session{}
	err := r.db.QueryRow(query, sessionID).Scan(
		&session.ID,
		&session.AccountID,
		&session.ExpiresAt,
		&session.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", database.Classify(r.db.Dialect, err))
	}

	return session, nil
}

// DeleteSession removes a session from the database
func (r *AccountRepository) DeleteSession(sessionID string) error {
	query := "DELETE FROM sessions WHERE id = ?"
	_, err := r.db.Exec(query, sessionID)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// DeleteExpiredSessions removes all expired sessions and returns how many were removed
func (r *AccountRepository) DeleteExpiredSessions() (int64, error) {
	query := "DELETE FROM sessions WHERE expires_at < ?"
	result, err := r.db.Exec(query, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", err)
	}
	return result.RowsAffected()
}
