package handlers

import (
	"errors"
	"net/http"
	"time"

	"codeclass/internal/gate"
	"codeclass/internal/models"
	"codeclass/internal/repository"
	"codeclass/internal/security"
	"codeclass/internal/service"
)

// AccountHandler serves the session state, dashboard and profile
type AccountHandler struct {
	accountService *service.AccountService
	lessonService  *service.LessonService
	csrf           *security.CSRFGenerator
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(accountService *service.AccountService, lessonService *service.LessonService, csrf *security.CSRFGenerator) *AccountHandler {
	return &AccountHandler{
		accountService: accountService,
		lessonService:  lessonService,
		csrf:           csrf,
	}
}

type sessionResponse struct {
	State     gate.State      `json:"state"`
	Account   *models.Account `json:"account"`
	CSRFToken string          `json:"csrfToken"`
	HelpURL   string          `json:"helpUrl,omitempty"`
}

// Session reports which screen the signed-in account may render. A
// ?screen= parameter checks a specific page of the main shell.
func (h *AccountHandler) Session(w http.ResponseWriter, r *http.Request) {
	account := GetAccountFromContext(r.Context())

	configError := false
	if _, err := h.lessonService.List(); err != nil {
		if !errors.Is(err, repository.ErrSetupRequired) {
			respondServiceError(w, r, "Error loading lessons", err)
			return
		}
		configError = true
	}

	in := gate.Input{SignedIn: true, Account: account, ConfigError: configError}
	state := gate.Resolve(in)
	if screen := r.URL.Query().Get("screen"); screen != "" {
		state = gate.ResolveScreen(in, gate.Screen(screen))
	}

	token, err := h.csrf.GenerateToken(GetSessionIDFromContext(r.Context()))
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Error generating CSRF token", err)
		return
	}

	resp := sessionResponse{State: state, Account: account, CSRFToken: token}
	if state == gate.SetupRequired {
		resp.HelpURL = setupHelpURL(r)
	}
	respondJSON(w, http.StatusOK, resp)
}

// Dashboard returns the landing statistics. Streak days follow the browser's
// IANA zone from ?tz=, or the server's zone without one.
func (h *AccountHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	loc, err := requestLocation(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid time zone", "", err)
		return
	}

	dashboard, err := h.accountService.Dashboard(GetAccountFromContext(r.Context()), time.Now().In(loc))
	if err != nil {
		respondServiceError(w, r, "Error loading dashboard", err)
		return
	}
	respondJSON(w, http.StatusOK, dashboard)
}

// Profile returns the signed-in account
func (h *AccountHandler) Profile(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, GetAccountFromContext(r.Context()))
}

// UpdateProfile changes display name and avatar
func (h *AccountHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var in service.ProfileInput
	if !decodeJSON(w, r, &in) {
		return
	}

	account, err := h.accountService.UpdateProfile(GetAccountFromContext(r.Context()), in)
	if err != nil {
		respondServiceError(w, r, "Error updating profile", err)
		return
	}
	respondJSON(w, http.StatusOK, account)
}

func requestLocation(r *http.Request) (*time.Location, error) {
	tz := r.URL.Query().Get("tz")
	if tz == "" {
		return time.Local, nil
	}
	return time.LoadLocation(tz)
}
