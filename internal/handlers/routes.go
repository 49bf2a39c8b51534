package handlers

import (
	"net/http"
	"time"

	"codeclass/internal/live"
	"codeclass/internal/security"
	"codeclass/internal/service"
)

// Services bundles what the router needs
type Services struct {
	Auth       *service.AuthService
	Accounts   *service.AccountService
	Lessons    *service.LessonService
	Submission *service.SubmissionService
	Classes    *service.ClassService
	Rooms      *service.RoomService
	Backup     *service.BackupService
	Broker     *live.Broker
}

// RouterConfig holds the HTTP-level settings
type RouterConfig struct {
	CSRFSecret           string
	OAuthProviders       map[string]OAuthProvider
	OAuthRedirectBaseURL string
	AppBaseURL           string
	SetupHelpURL         string

	// SignInLimit and AILimit are requests per minute per client IP
	SignInLimit int
	AILimit     int
}

// NewRouter registers every route and wraps the mux with request logging
func NewRouter(svc Services, cfg RouterConfig) http.Handler {
	if cfg.SignInLimit <= 0 {
		cfg.SignInLimit = 10
	}
	if cfg.AILimit <= 0 {
		cfg.AILimit = 20
	}

	csrf := security.NewCSRFGenerator(cfg.CSRFSecret)
	signInLimiter := security.NewRateLimiter(cfg.SignInLimit, time.Minute)
	aiLimiter := security.NewRateLimiter(cfg.AILimit, time.Minute)

	m := NewMiddleware(svc.Auth, csrf)
	authHandler := NewAuthHandler(svc.Auth, csrf, cfg.OAuthProviders, cfg.OAuthRedirectBaseURL, cfg.AppBaseURL)
	accountHandler := NewAccountHandler(svc.Accounts, svc.Lessons, csrf)
	lessonHandler := NewLessonHandler(svc.Lessons, svc.Submission)
	liveHandler := NewLiveHandler(svc.Classes, svc.Rooms, svc.Lessons, svc.Broker)
	adminHandler := NewAdminHandler(svc.Accounts, svc.Lessons, svc.Classes, svc.Rooms, svc.Backup)

	// active wraps a mutation for active accounts; admin for administrators
	active := func(h http.HandlerFunc) http.HandlerFunc { return m.RequireActive(m.RequireCSRF(h)) }
	admin := func(h http.HandlerFunc) http.HandlerFunc { return m.RequireAdmin(m.RequireCSRF(h)) }

	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", Health)

	// Public routes
	mux.HandleFunc("POST /api/auth/signup", signInLimiter.Middleware(authHandler.SignUp))
	mux.HandleFunc("POST /api/auth/login", signInLimiter.Middleware(authHandler.Login))
	mux.HandleFunc("POST /api/auth/logout", authHandler.Logout)
	mux.HandleFunc("GET /api/auth/providers", authHandler.Providers)
	mux.HandleFunc("GET /auth/{provider}/start", authHandler.StartOAuth)
	mux.HandleFunc("GET /auth/{provider}/callback", authHandler.OAuthCallback)
	mux.HandleFunc("GET /api/live/verify", liveHandler.VerifyTicket)

	// Any signed-in account, used to pick the waiting room or rejection screen
	mux.HandleFunc("GET /api/session", m.RequireAuth(accountHandler.Session))

	// Active accounts
	mux.HandleFunc("GET /api/dashboard", m.RequireActive(accountHandler.Dashboard))
	mux.HandleFunc("GET /api/profile", m.RequireActive(accountHandler.Profile))
	mux.HandleFunc("PUT /api/profile", active(accountHandler.UpdateProfile))

	mux.HandleFunc("GET /api/lessons", m.RequireActive(lessonHandler.List))
	mux.HandleFunc("GET /api/lessons/{id}", m.RequireActive(lessonHandler.Get))
	mux.HandleFunc("POST /api/lessons/{id}/run", active(aiLimiter.Middleware(lessonHandler.Run)))
	mux.HandleFunc("POST /api/lessons/{id}/submit", active(aiLimiter.Middleware(lessonHandler.Submit)))
	mux.HandleFunc("POST /api/lessons/{id}/quiz", active(lessonHandler.Quiz))
	mux.HandleFunc("POST /api/lessons/{id}/ask", active(aiLimiter.Middleware(lessonHandler.Ask)))

	mux.HandleFunc("GET /api/classes", m.RequireActive(liveHandler.Classes))
	mux.HandleFunc("GET /api/live", m.RequireActive(liveHandler.Room))
	mux.HandleFunc("POST /api/live/join", active(liveHandler.Join))
	mux.HandleFunc("GET /api/stream", m.RequireActive(liveHandler.Stream))

	// Admin routes
	mux.HandleFunc("POST /api/admin/lessons", admin(adminHandler.CreateLesson))
	mux.HandleFunc("PUT /api/admin/lessons/{id}", admin(adminHandler.UpdateLesson))
	mux.HandleFunc("DELETE /api/admin/lessons/{id}", admin(adminHandler.DeleteLesson))
	mux.HandleFunc("POST /api/admin/seed", admin(adminHandler.SeedCurriculum))
	mux.HandleFunc("GET /api/admin/accounts", m.RequireAdmin(adminHandler.ListAccounts))
	mux.HandleFunc("POST /api/admin/accounts/{id}/status", admin(adminHandler.SetAccountStatus))
	mux.HandleFunc("POST /api/admin/classes", admin(adminHandler.CreateClass))
	mux.HandleFunc("DELETE /api/admin/classes/{id}", admin(adminHandler.DeleteClass))
	mux.HandleFunc("PUT /api/admin/live", admin(adminHandler.SetLive))
	mux.HandleFunc("GET /api/admin/backup", m.RequireAdmin(adminHandler.ExportDatabase))
	mux.HandleFunc("POST /api/admin/backup", admin(adminHandler.ImportDatabase))

	return Logging(withSetupHelpURL(cfg.SetupHelpURL, mux))
}
