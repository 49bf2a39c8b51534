package config

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"codeclass/internal/security"
)

// Config holds application configuration
type Config struct {
	Env              string
	Debug            bool
	ServerPort       string
	DatabaseType     string
	DatabasePath     string
	DatabaseURL      string
	MigrationsPath   string
	SessionDuration  time.Duration
	AppBaseURL       string
	SetupHelpURL     string
	CSRFSecret       string
	RoomTicketSecret string

	// AdminEmails is the set of email addresses promoted to admin on sign-in
	AdminEmails map[string]struct{}

	AIAPIKey  string
	AIAPIURL  string
	AIModel   string
	AITimeout time.Duration

	GoogleClientID       string
	GoogleClientSecret   string
	OAuthRedirectBaseURL string

	EmailProvider  string
	AWSRegion      string
	SESFromEmail   string
	SendgridAPIKey string
	EmailFromName  string

	RollbarToken string
}

// Load reads configuration from environment variables with sensible defaults.
// A .env file in the working directory is loaded first when present.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: failed to load .env file: %v", err)
	}

	return &Config{
		Env:              getEnv("APP_ENV", "development"),
		Debug:            getEnvBool("DEBUG", false),
		ServerPort:       getEnv("PORT", "8080"),
		DatabaseType:     getEnv("DATABASE_TYPE", "sqlite"),
		DatabasePath:     getEnv("DB_PATH", "./codeclass.db"),
		DatabaseURL:      getEnv("DATABASE_URL", ""),
		MigrationsPath:   getEnv("MIGRATIONS_PATH", ""),
		SessionDuration:  getEnvDuration("SESSION_DURATION", 7*24*time.Hour),
		AppBaseURL:       getEnv("APP_BASE_URL", "http://localhost:8080"),
		SetupHelpURL:     getEnv("SETUP_HELP_URL", "https://github.com/codeclass/codeclass#database-setup"),
		CSRFSecret:       getSecret("CSRF_SECRET"),
		RoomTicketSecret: getSecret("ROOM_TICKET_SECRET"),

		AdminEmails: ParseEmailSet(getEnv("ADMIN_EMAILS", "")),

		AIAPIKey:  getEnv("AI_API_KEY", ""),
		AIAPIURL:  getEnv("AI_API_URL", "https://generativelanguage.googleapis.com/v1beta"),
		AIModel:   getEnv("AI_MODEL", "gemini-2.5-flash"),
		AITimeout: getEnvDuration("AI_TIMEOUT", 30*time.Second),

		GoogleClientID:       getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret:   getEnv("GOOGLE_CLIENT_SECRET", ""),
		OAuthRedirectBaseURL: getEnv("OAUTH_REDIRECT_BASE_URL", ""),

		EmailProvider:  strings.ToLower(getEnv("EMAIL_PROVIDER", "")),
		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		SESFromEmail:   getEnv("SES_FROM_EMAIL", ""),
		SendgridAPIKey: getEnv("SENDGRID_API_KEY", ""),
		EmailFromName:  getEnv("EMAIL_FROM_NAME", "CodeClass"),

		RollbarToken: getEnv("ROLLBAR_TOKEN", ""),
	}
}

// IsAdminEmail reports whether email is on the admin allow-list
func (c *Config) IsAdminEmail(email string) bool {
	_, ok := c.AdminEmails[strings.ToLower(strings.TrimSpace(email))]
	return ok
}

// ParseEmailSet splits a comma separated list into a lower-cased set
func ParseEmailSet(raw string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, part := range strings.Split(raw, ",") {
		email := strings.ToLower(strings.TrimSpace(part))
		if email != "" {
			set[email] = struct{}{}
		}
	}
	return set
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getSecret reads a signing secret. Unset secrets get a random value that
// lasts for this process only.
func getSecret(key string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	log.Printf("Warning: %s not set, using a random secret (tokens will not survive a restart)", key)
	return security.RandomSecret()
}

func getEnvBool(key string, defaultValue bool) bool {
	switch strings.ToLower(os.Getenv(key)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("Warning: invalid duration for %s (%q), using %s", key, value, defaultValue)
		return defaultValue
	}
	return d
}
