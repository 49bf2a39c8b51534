package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"codeclass/internal/gate"
	"codeclass/internal/logging"
	"codeclass/internal/progress"
	"codeclass/internal/repository"
	"codeclass/internal/service"
	"codeclass/internal/validation"
)

type errorResponse struct {
	Error   string                       `json:"error"`
	State   gate.State                   `json:"state,omitempty"`
	HelpURL string                       `json:"helpUrl,omitempty"`
	Fields  []validation.ValidationError `json:"fields,omitempty"`
}

type setupHelpKey struct{}

// withSetupHelpURL attaches the remediation link shown when the store is not
// provisioned to every request
func withSetupHelpURL(url string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), setupHelpKey{}, url)))
	})
}

func setupHelpURL(r *http.Request) string {
	url, _ := r.Context().Value(setupHelpKey{}).(string)
	return url
}

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

func respondWithError(w http.ResponseWriter, status int, userMsg, logMsg string, err error) {
	if err != nil {
		if logMsg == "" {
			logMsg = userMsg
		}
		if status >= http.StatusInternalServerError {
			logging.Error(logMsg, err)
		} else {
			log.Printf("%s: %v", logMsg, err)
		}
	}

	respondJSON(w, status, errorResponse{Error: userMsg})
}

var errorStatus = []struct {
	err    error
	status int
}{
	{service.ErrEmailTaken, http.StatusConflict},
	{service.ErrInvalidCredentials, http.StatusUnauthorized},
	{service.ErrSessionNotFound, http.StatusUnauthorized},
	{service.ErrSessionExpired, http.StatusUnauthorized},
	{service.ErrInvalidTicket, http.StatusUnauthorized},
	{service.ErrNotAdmin, http.StatusForbidden},
	{service.ErrForbidden, http.StatusForbidden},
	{service.ErrInactiveAccount, http.StatusForbidden},
	{service.ErrAccountNotFound, http.StatusNotFound},
	{service.ErrLessonNotFound, http.StatusNotFound},
	{service.ErrClassNotFound, http.StatusNotFound},
	{service.ErrInvalidStatus, http.StatusBadRequest},
	{service.ErrInvalidRole, http.StatusBadRequest},
	{service.ErrNoQuiz, http.StatusBadRequest},
	{service.ErrEmptyQuestion, http.StatusBadRequest},
	{progress.ErrIncompleteAnswers, http.StatusBadRequest},
	{service.ErrAlreadySeeded, http.StatusConflict},
	{service.ErrLessonExists, http.StatusConflict},
	{service.ErrRoomClosed, http.StatusConflict},
}

// respondServiceError maps service errors to responses. Unknown errors are 500s.
func respondServiceError(w http.ResponseWriter, r *http.Request, logMsg string, err error) {
	if errors.Is(err, repository.ErrSetupRequired) {
		logging.RequestError(r, logMsg, err)
		respondJSON(w, http.StatusServiceUnavailable, errorResponse{
			Error:   ErrSetupRequired,
			State:   gate.SetupRequired,
			HelpURL: setupHelpURL(r),
		})
		return
	}

	var single validation.ValidationError
	if errors.As(err, &single) {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: single.Message, Fields: []validation.ValidationError{single}})
		return
	}
	var many validation.Errors
	if errors.As(err, &many) {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: ErrValidationFailed, Fields: many})
		return
	}

	for _, e := range errorStatus {
		if errors.Is(err, e.err) {
			respondJSON(w, e.status, errorResponse{Error: e.err.Error()})
			return
		}
	}

	logging.RequestError(r, logMsg, err)
	respondJSON(w, http.StatusInternalServerError, errorResponse{Error: ErrInternalServerError})
}

// decodeJSON reads a bounded JSON body into v
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidJSON, "", err)
		return false
	}
	return true
}
