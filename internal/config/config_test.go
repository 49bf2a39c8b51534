package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseEmailSet(t *testing.T) {
	set := ParseEmailSet(" Admin@Example.com, ,tutor@example.com,")

	assert.Len(t, set, 2)
	assert.Contains(t, set, "admin@example.com")
	assert.Contains(t, set, "tutor@example.com")
	assert.Empty(t, ParseEmailSet(""))
}

func TestIsAdminEmail(t *testing.T) {
	cfg := &Config{AdminEmails: ParseEmailSet("admin@example.com")}

	assert.True(t, cfg.IsAdminEmail("admin@example.com"))
	assert.True(t, cfg.IsAdminEmail("  ADMIN@example.com "))
	assert.False(t, cfg.IsAdminEmail("student@example.com"))
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_TYPE", "")
	t.Setenv("AI_TIMEOUT", "")
	t.Setenv("EMAIL_PROVIDER", "")

	cfg := Load()

	assert.Equal(t, "sqlite", cfg.DatabaseType)
	assert.Equal(t, 30*time.Second, cfg.AITimeout)
	assert.Equal(t, 7*24*time.Hour, cfg.SessionDuration)
	assert.Empty(t, cfg.EmailProvider)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATABASE_TYPE", "postgres")
	t.Setenv("AI_TIMEOUT", "5s")
	t.Setenv("SESSION_DURATION", "not-a-duration")
	t.Setenv("DEBUG", "yes")
	t.Setenv("EMAIL_PROVIDER", "SendGrid")
	t.Setenv("ADMIN_EMAILS", "a@example.com,b@example.com")

	cfg := Load()

	assert.Equal(t, "postgres", cfg.DatabaseType)
	assert.Equal(t, 5*time.Second, cfg.AITimeout)
	assert.Equal(t, 7*24*time.Hour, cfg.SessionDuration, "invalid durations fall back to the default")
	assert.True(t, cfg.Debug)
	assert.Equal(t, "sendgrid", cfg.EmailProvider)
	assert.True(t, cfg.IsAdminEmail("b@example.com"))
}

func TestLoadGeneratesMissingSecrets(t *testing.T) {
	t.Setenv("CSRF_SECRET", "")
	t.Setenv("ROOM_TICKET_SECRET", "")

	first := Load()
	second := Load()

	assert.Len(t, first.CSRFSecret, 64)
	assert.Len(t, first.RoomTicketSecret, 64)
	assert.NotEqual(t, first.CSRFSecret, first.RoomTicketSecret)
	assert.NotEqual(t, first.CSRFSecret, second.CSRFSecret, "each process gets its own secret")
}

func TestLoadKeepsConfiguredSecrets(t *testing.T) {
	t.Setenv("CSRF_SECRET", "csrf-from-env")
	t.Setenv("ROOM_TICKET_SECRET", "rooms-from-env")

	cfg := Load()

	assert.Equal(t, "csrf-from-env", cfg.CSRFSecret)
	assert.Equal(t, "rooms-from-env", cfg.RoomTicketSecret)
}
