package service

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"codeclass/internal/database"
	"codeclass/internal/models"
	"codeclass/internal/repository"
)

// BackupVersion is written into every export
const BackupVersion = "1.0"

// BackupData represents the complete database backup structure
type BackupData struct {
	Version      string                   `json:"version"`
	ExportedAt   time.Time                `json:"exported_at"`
	DatabaseType string                   `json:"database_type"`
	Accounts     []AccountBackup          `json:"accounts"`
	Lessons      []*models.Lesson         `json:"lessons"`
	Classes      []*models.ScheduledClass `json:"classes"`
	LiveRoom     *models.LiveRoom         `json:"live_room,omitempty"`
}

// AccountBackup represents an account with the credentials the public JSON hides
type AccountBackup struct {
	ID               string                           `json:"id"`
	Email            string                           `json:"email"`
	PasswordHash     string                           `json:"password_hash"`
	DisplayName      string                           `json:"name"`
	Role             models.Role                      `json:"role"`
	Status           models.Status                    `json:"status"`
	AvatarURL        string                           `json:"avatar_url"`
	OAuthProvider    string                           `json:"oauth_provider"`
	OAuthSubject     string                           `json:"oauth_subject"`
	CompletedLessons []string                         `json:"completed_lessons"`
	Progress         map[string]models.ProgressRecord `json:"progress"`
	CreatedAt        time.Time                        `json:"created_at"`
	UpdatedAt        time.Time                        `json:"updated_at"`
}

func toAccountBackup(a *models.Account) AccountBackup {
	return AccountBackup{
		ID:               a.ID,
		Email:            a.Email,
		PasswordHash:     a.PasswordHash,
		DisplayName:      a.DisplayName,
		Role:             a.Role,
		Status:           a.Status,
		AvatarURL:        a.AvatarURL,
		OAuthProvider:    a.OAuthProvider,
		OAuthSubject:     a.OAuthSubject,
		CompletedLessons: a.CompletedLessons,
		Progress:         a.Progress,
		CreatedAt:        a.CreatedAt,
		UpdatedAt:        a.UpdatedAt,
	}
}

func (b AccountBackup) account() *models.Account {
	return &models.Account{
		ID:               b.ID,
		Email:            b.Email,
		PasswordHash:     b.PasswordHash,
		DisplayName:      b.DisplayName,
		Role:             b.Role,
		Status:           b.Status,
		AvatarURL:        b.AvatarURL,
		OAuthProvider:    b.OAuthProvider,
		OAuthSubject:     b.OAuthSubject,
		CompletedLessons: b.CompletedLessons,
		Progress:         b.Progress,
		CreatedAt:        b.CreatedAt,
		UpdatedAt:        b.UpdatedAt,
	}
}

// BackupService handles database backup and restore operations
type BackupService struct {
	db       *database.DB
	accounts *repository.AccountRepository
	lessons  *repository.LessonRepository
	classes  *repository.ClassRepository
	rooms    *repository.RoomRepository
}

// NewBackupService creates a new backup service
func NewBackupService(db *database.DB) *BackupService {
	return &BackupService{
		db:       db,
		accounts: repository.NewAccountRepository(db),
		lessons:  repository.NewLessonRepository(db),
		classes:  repository.NewClassRepository(db),
		rooms:    repository.NewRoomRepository(db),
	}
}

// Export creates a complete backup of the database to a file
func (s *BackupService) Export(outputPath string) error {
	log.Println("Starting database export...")

	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	backup, err := s.ExportToWriter(file)
	if err != nil {
		return err
	}

	log.Printf("Database exported successfully to %s", outputPath)
	log.Printf("Exported: %d accounts, %d lessons, %d classes",
		len(backup.Accounts), len(backup.Lessons), len(backup.Classes))
	return nil
}

// ExportToWriter writes the backup as indented JSON and returns what was written
func (s *BackupService) ExportToWriter(w io.Writer) (*BackupData, error) {
	backup := &BackupData{
		Version:      BackupVersion,
		ExportedAt:   time.Now().UTC(),
		DatabaseType: s.db.Dialect.DriverName(),
	}

	accounts, err := s.accounts.List()
	if err != nil {
		return nil, fmt.Errorf("failed to export accounts: %w", err)
	}
	for _, a := range accounts {
		backup.Accounts = append(backup.Accounts, toAccountBackup(a))
	}

	if backup.Lessons, err = s.lessons.List(); err != nil {
		return nil, fmt.Errorf("failed to export lessons: %w", err)
	}
	if backup.Classes, err = s.classes.List(); err != nil {
		return nil, fmt.Errorf("failed to export classes: %w", err)
	}
	if backup.LiveRoom, err = s.rooms.Get(); err != nil {
		return nil, fmt.Errorf("failed to export live room: %w", err)
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(backup); err != nil {
		return nil, fmt.Errorf("failed to encode backup: %w", err)
	}
	return backup, nil
}

// Import restores a database from a backup file
func (s *BackupService) Import(inputPath string) error {
	log.Printf("Starting database import from %s...", inputPath)

	file, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("failed to open input file: %w", err)
	}
	defer file.Close()

	return s.ImportFromReader(file)
}

// ImportFromReader restores a database from a backup reader. Existing rows
// with matching IDs are replaced.
func (s *BackupService) ImportFromReader(reader io.Reader) error {
	var backup BackupData
	if err := json.NewDecoder(reader).Decode(&backup); err != nil {
		return fmt.Errorf("failed to decode backup: %w", err)
	}

	log.Printf("Backup version: %s, exported at: %s", backup.Version, backup.ExportedAt)
	if backup.Version != BackupVersion {
		return fmt.Errorf("unsupported backup version %q", backup.Version)
	}

	for _, a := range backup.Accounts {
		if err := s.accounts.Import(a.account()); err != nil {
			return fmt.Errorf("failed to import accounts: %w", err)
		}
	}
	if len(backup.Lessons) > 0 {
		if err := s.lessons.SeedLessons(backup.Lessons); err != nil {
			return fmt.Errorf("failed to import lessons: %w", err)
		}
	}
	for _, c := range backup.Classes {
		if err := s.classes.Save(c); err != nil {
			return fmt.Errorf("failed to import classes: %w", err)
		}
	}
	if backup.LiveRoom != nil {
		if err := s.rooms.Set(backup.LiveRoom); err != nil {
			return fmt.Errorf("failed to import live room: %w", err)
		}
	}

	log.Printf("Database import completed: %d accounts, %d lessons, %d classes",
		len(backup.Accounts), len(backup.Lessons), len(backup.Classes))
	return nil
}
