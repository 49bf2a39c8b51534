package handlers

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"codeclass/internal/models"
	"codeclass/internal/service"
)

// AdminHandler handles admin-specific routes
type AdminHandler struct {
	accountService *service.AccountService
	lessonService  *service.LessonService
	classService   *service.ClassService
	roomService    *service.RoomService
	backupService  *service.BackupService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(accountService *service.AccountService, lessonService *service.LessonService, classService *service.ClassService, roomService *service.RoomService, backupService *service.BackupService) *AdminHandler {
	return &AdminHandler{
		accountService: accountService,
		lessonService:  lessonService,
		classService:   classService,
		roomService:    roomService,
		backupService:  backupService,
	}
}

type accessRequest struct {
	Status models.Status `json:"status"`
	Role   models.Role   `json:"role"`
}

type liveRequest struct {
	IsLive bool   `json:"isLive"`
	RoomID string `json:"roomId"`
}

// CreateLesson adds a lesson from the editor
func (h *AdminHandler) CreateLesson(w http.ResponseWriter, r *http.Request) {
	var lesson models.Lesson
	if !decodeJSON(w, r, &lesson) {
		return
	}
	saved, err := h.lessonService.Create(GetAccountFromContext(r.Context()), &lesson)
	if err != nil {
		respondServiceError(w, r, "Error creating lesson", err)
		return
	}
	respondJSON(w, http.StatusCreated, saved)
}

// UpdateLesson replaces the lesson named in the path
func (h *AdminHandler) UpdateLesson(w http.ResponseWriter, r *http.Request) {
	var lesson models.Lesson
	if !decodeJSON(w, r, &lesson) {
		return
	}
	id := r.PathValue("id")
	if _, err := h.lessonService.Get(id); err != nil {
		respondServiceError(w, r, "Error loading lesson", err)
		return
	}
	lesson.ID = id
	saved, err := h.lessonService.Save(GetAccountFromContext(r.Context()), &lesson)
	if err != nil {
		respondServiceError(w, r, "Error saving lesson", err)
		return
	}
	respondJSON(w, http.StatusOK, saved)
}

// DeleteLesson removes a lesson
func (h *AdminHandler) DeleteLesson(w http.ResponseWriter, r *http.Request) {
	if err := h.lessonService.Delete(GetAccountFromContext(r.Context()), r.PathValue("id")); err != nil {
		respondServiceError(w, r, "Error deleting lesson", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SeedCurriculum loads the built-in course into an empty lesson table
func (h *AdminHandler) SeedCurriculum(w http.ResponseWriter, r *http.Request) {
	n, err := h.lessonService.SeedCurriculum(GetAccountFromContext(r.Context()))
	if err != nil {
		respondServiceError(w, r, "Error seeding curriculum", err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]int{"seeded": n})
}

// ListAccounts returns every account
func (h *AdminHandler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.accountService.List(GetAccountFromContext(r.Context()))
	if err != nil {
		respondServiceError(w, r, "Error listing accounts", err)
		return
	}
	respondJSON(w, http.StatusOK, accounts)
}

// SetAccountStatus approves, rejects or changes the role of an account
func (h *AdminHandler) SetAccountStatus(w http.ResponseWriter, r *http.Request) {
	var in accessRequest
	if !decodeJSON(w, r, &in) {
		return
	}

	admin := GetAccountFromContext(r.Context())
	account, err := h.accountService.SetAccess(r.Context(), admin, r.PathValue("id"), in.Status, in.Role)
	if err != nil {
		respondServiceError(w, r, "Error updating account", err)
		return
	}
	log.Printf("Account %s set to %s/%s by %s", account.Email, account.Role, account.Status, admin.Email)
	respondJSON(w, http.StatusOK, account)
}

// CreateClass schedules a live class
func (h *AdminHandler) CreateClass(w http.ResponseWriter, r *http.Request) {
	var class models.ScheduledClass
	if !decodeJSON(w, r, &class) {
		return
	}

	created, err := h.classService.Create(GetAccountFromContext(r.Context()), &class)
	if err != nil {
		respondServiceError(w, r, "Error creating class", err)
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

// DeleteClass removes a scheduled class
func (h *AdminHandler) DeleteClass(w http.ResponseWriter, r *http.Request) {
	if err := h.classService.Delete(GetAccountFromContext(r.Context()), r.PathValue("id")); err != nil {
		respondServiceError(w, r, "Error deleting class", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetLive starts or stops the live session
func (h *AdminHandler) SetLive(w http.ResponseWriter, r *http.Request) {
	var in liveRequest
	if !decodeJSON(w, r, &in) {
		return
	}

	room, err := h.roomService.Set(GetAccountFromContext(r.Context()), in.IsLive, in.RoomID)
	if err != nil {
		respondServiceError(w, r, "Error updating live room", err)
		return
	}
	respondJSON(w, http.StatusOK, room)
}

// ExportDatabase exports the database to JSON for download
func (h *AdminHandler) ExportDatabase(w http.ResponseWriter, r *http.Request) {
	admin := GetAccountFromContext(r.Context())

	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("codeclass_backup_%s.json", timestamp)
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))

	if _, err := h.backupService.ExportToWriter(w); err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to export database", "Error exporting database", err)
		return
	}

	log.Printf("Database exported by admin %s", admin.Email)
}

// ImportDatabase restores a JSON backup posted as the request body
func (h *AdminHandler) ImportDatabase(w http.ResponseWriter, r *http.Request) {
	admin := GetAccountFromContext(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, 10<<20)
	if err := h.backupService.ImportFromReader(r.Body); err != nil {
		respondWithError(w, http.StatusBadRequest, "Failed to import database", "Error importing database", err)
		return
	}

	log.Printf("Database imported by admin %s", admin.Email)
	w.WriteHeader(http.StatusNoContent)
}
