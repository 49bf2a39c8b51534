package service

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"codeclass/internal/database"
	"codeclass/internal/grading"
	"codeclass/internal/models"
	"codeclass/internal/repository"
	"codeclass/migrations"
)

func setupTestDB(t *testing.T) *database.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping database test in short mode")
	}

	db, err := database.Initialize(filepath.Join(t.TempDir(), "service.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, db.RunMigrations(migrations.FS))
	return db
}

type adminList map[string]bool

func (a adminList) IsAdminEmail(email string) bool {
	return a[strings.ToLower(strings.TrimSpace(email))]
}

type publishedEvent struct {
	topic   string
	payload json.RawMessage
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (p *recordingPublisher) Publish(topic string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{topic: topic, payload: data})
	return nil
}

func (p *recordingPublisher) topics() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	topics := make([]string, len(p.events))
	for i, e := range p.events {
		topics[i] = e.topic
	}
	return topics
}

type fakeGrader struct {
	execution grading.Execution
	verdict   grading.Verdict
	answer    grading.Answer

	gradedTask string
	asked      string
}

func (g *fakeGrader) Simulate(context.Context, string) grading.Execution { return g.execution }

func (g *fakeGrader) Grade(_ context.Context, _, task string) grading.Verdict {
	g.gradedTask = task
	return g.verdict
}

func (g *fakeGrader) Assist(_ context.Context, _, question string) grading.Answer {
	g.asked = question
	return g.answer
}

func intPtr(v int) *int { return &v }

func newStudent(t *testing.T, accounts *repository.AccountRepository, email string, status models.Status) *models.Account {
	t.Helper()
	account := &models.Account{
		Email:       email,
		DisplayName: "Student",
		Role:        models.RoleStudent,
		Status:      status,
	}
	require.NoError(t, accounts.Create(account))
	return account
}

var testAdmin = &models.Account{ID: "admin-1", DisplayName: "Admin", Role: models.RoleAdmin, Status: models.StatusActive}
