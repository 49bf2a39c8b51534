package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"codeclass/internal/gate"
	"codeclass/internal/models"
	"codeclass/internal/repository"
	"codeclass/internal/security"
	"codeclass/internal/service"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	AccountContextKey ContextKey = "account"
	SessionContextKey ContextKey = "session"
)

// Middleware holds dependencies for middleware functions
type Middleware struct {
	authService *service.AuthService
	csrf        *security.CSRFGenerator
}

// NewMiddleware creates a new middleware instance
func NewMiddleware(authService *service.AuthService, csrf *security.CSRFGenerator) *Middleware {
	return &Middleware{
		authService: authService,
		csrf:        csrf,
	}
}

// RequireAuth is middleware that requires a valid session
func (m *Middleware) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(SessionCookieName)
		if err != nil || cookie.Value == "" {
			respondJSON(w, http.StatusUnauthorized, errorResponse{Error: ErrUnauthorized, State: gate.Unauthenticated})
			return
		}

		account, err := m.authService.ValidateSession(cookie.Value)
		if err != nil {
			if errors.Is(err, repository.ErrSetupRequired) {
				respondServiceError(w, r, "Failed to validate session", err)
				return
			}
			http.SetCookie(w, security.CreateDeleteCookie(r, SessionCookieName))
			respondJSON(w, http.StatusUnauthorized, errorResponse{Error: ErrUnauthorized, State: gate.Unauthenticated})
			return
		}

		ctx := context.WithValue(r.Context(), AccountContextKey, account)
		ctx = context.WithValue(ctx, SessionContextKey, cookie.Value)
		next(w, r.WithContext(ctx))
	}
}

// RequireActive admits accounts that reach the main shell. Pending and
// rejected students get the gate state instead.
func (m *Middleware) RequireActive(next http.HandlerFunc) http.HandlerFunc {
	return m.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		account := GetAccountFromContext(r.Context())
		state := gate.Resolve(gate.Input{SignedIn: true, Account: account})
		if state != gate.Main {
			respondJSON(w, http.StatusForbidden, errorResponse{Error: service.ErrInactiveAccount.Error(), State: state})
			return
		}
		next(w, r)
	})
}

// RequireAdmin admits active administrators only
func (m *Middleware) RequireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return m.RequireActive(func(w http.ResponseWriter, r *http.Request) {
		if !GetAccountFromContext(r.Context()).IsAdmin() {
			respondJSON(w, http.StatusForbidden, errorResponse{Error: service.ErrForbidden.Error(), State: gate.AccessDenied})
			return
		}
		next(w, r)
	})
}

// RequireCSRF checks the CSRF header on authenticated mutations. It must
// run inside RequireAuth.
func (m *Middleware) RequireCSRF(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := GetSessionIDFromContext(r.Context())
		if !m.csrf.ValidateToken(sessionID, r.Header.Get(security.CSRFHeader)) {
			respondWithError(w, http.StatusForbidden, "Invalid CSRF token", "", nil)
			return
		}
		next(w, r)
	}
}

// Logging middleware logs HTTP requests
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		next.ServeHTTP(w, r)

		log.Printf("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}

// GetAccountFromContext retrieves the account from the request context
func GetAccountFromContext(ctx context.Context) *models.Account {
	account, ok := ctx.Value(AccountContextKey).(*models.Account)
	if !ok {
		return nil
	}
	return account
}

// GetSessionIDFromContext retrieves the session ID from the request context
func GetSessionIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(SessionContextKey).(string)
	return id
}
