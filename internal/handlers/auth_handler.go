package handlers

import (
	"errors"
	"net/http"

	"codeclass/internal/gate"
	"codeclass/internal/models"
	"codeclass/internal/security"
	"codeclass/internal/service"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	authService          *service.AuthService
	csrf                 *security.CSRFGenerator
	oauthProviders       map[string]OAuthProvider
	oauthRedirectBaseURL string
	appBaseURL           string
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService, csrf *security.CSRFGenerator, oauthProviders map[string]OAuthProvider, oauthRedirectBaseURL, appBaseURL string) *AuthHandler {
	return &AuthHandler{
		authService:          authService,
		csrf:                 csrf,
		oauthProviders:       oauthProviders,
		oauthRedirectBaseURL: oauthRedirectBaseURL,
		appBaseURL:           appBaseURL,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	AsAdmin  bool   `json:"asAdmin"`
}

// authResponse is returned by every endpoint that starts a session
type authResponse struct {
	Account   *models.Account `json:"account"`
	State     gate.State      `json:"state"`
	CSRFToken string          `json:"csrfToken"`
}

func (h *AuthHandler) startSession(w http.ResponseWriter, r *http.Request, status int, session *models.Session, account *models.Account) {
	token, err := h.csrf.GenerateToken(session.ID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Error generating CSRF token", err)
		return
	}
	http.SetCookie(w, security.CreateSessionCookie(r, SessionCookieName, session.ID, session.ExpiresAt))
	respondJSON(w, status, authResponse{
		Account:   account,
		State:     gate.Resolve(gate.Input{SignedIn: true, Account: account}),
		CSRFToken: token,
	})
}

// SignUp creates an account and signs it in
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var in service.SignUpInput
	if !decodeJSON(w, r, &in) {
		return
	}

	session, account, err := h.authService.SignUp(r.Context(), in)
	if err != nil {
		respondServiceError(w, r, "Error signing up", err)
		return
	}
	h.startSession(w, r, http.StatusCreated, session, account)
}

// Login authenticates with email and password
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var in loginRequest
	if !decodeJSON(w, r, &in) {
		return
	}

	session, account, err := h.authService.Login(in.Email, in.Password, in.AsAdmin)
	if err != nil {
		if errors.Is(err, service.ErrNotAdmin) {
			http.SetCookie(w, security.CreateDeleteCookie(r, SessionCookieName))
		}
		respondServiceError(w, r, "Error logging in", err)
		return
	}
	h.startSession(w, r, http.StatusOK, session, account)
}

// Logout handles logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(SessionCookieName); err == nil {
		_ = h.authService.Logout(cookie.Value)
	}

	http.SetCookie(w, security.CreateDeleteCookie(r, SessionCookieName))
	w.WriteHeader(http.StatusNoContent)
}
