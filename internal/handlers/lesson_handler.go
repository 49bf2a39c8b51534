package handlers

import (
	"net/http"

	"codeclass/internal/service"
)

// LessonHandler serves the curriculum and lesson submissions
type LessonHandler struct {
	lessonService     *service.LessonService
	submissionService *service.SubmissionService
}

// NewLessonHandler creates a new lesson handler
func NewLessonHandler(lessonService *service.LessonService, submissionService *service.SubmissionService) *LessonHandler {
	return &LessonHandler{
		lessonService:     lessonService,
		submissionService: submissionService,
	}
}

type codeRequest struct {
	Code string `json:"code"`
}

type quizRequest struct {
	Answers map[string]int `json:"answers"`
}

type askRequest struct {
	Question string `json:"question"`
}

// List returns every lesson
func (h *LessonHandler) List(w http.ResponseWriter, r *http.Request) {
	lessons, err := h.lessonService.List()
	if err != nil {
		respondServiceError(w, r, "Error listing lessons", err)
		return
	}
	respondJSON(w, http.StatusOK, lessons)
}

// Get returns one lesson
func (h *LessonHandler) Get(w http.ResponseWriter, r *http.Request) {
	lesson, err := h.lessonService.Get(r.PathValue("id"))
	if err != nil {
		respondServiceError(w, r, "Error loading lesson", err)
		return
	}
	respondJSON(w, http.StatusOK, lesson)
}

// Run simulates the editor code without grading it
func (h *LessonHandler) Run(w http.ResponseWriter, r *http.Request) {
	var in codeRequest
	if !decodeJSON(w, r, &in) {
		return
	}
	if _, err := h.lessonService.Get(r.PathValue("id")); err != nil {
		respondServiceError(w, r, "Error loading lesson", err)
		return
	}
	respondJSON(w, http.StatusOK, h.submissionService.RunCode(r.Context(), in.Code))
}

// Submit grades the editor code against the lesson task
func (h *LessonHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var in codeRequest
	if !decodeJSON(w, r, &in) {
		return
	}

	sub, err := h.submissionService.SubmitCode(r.Context(), GetAccountFromContext(r.Context()), r.PathValue("id"), in.Code)
	if err != nil {
		respondServiceError(w, r, "Error grading submission", err)
		return
	}
	respondJSON(w, http.StatusOK, sub)
}

// Quiz scores the selected answers
func (h *LessonHandler) Quiz(w http.ResponseWriter, r *http.Request) {
	var in quizRequest
	if !decodeJSON(w, r, &in) {
		return
	}

	sub, err := h.submissionService.SubmitQuiz(GetAccountFromContext(r.Context()), r.PathValue("id"), in.Answers)
	if err != nil {
		respondServiceError(w, r, "Error scoring quiz", err)
		return
	}
	respondJSON(w, http.StatusOK, sub)
}

// Ask answers a tutoring question about the lesson
func (h *LessonHandler) Ask(w http.ResponseWriter, r *http.Request) {
	var in askRequest
	if !decodeJSON(w, r, &in) {
		return
	}

	answer, err := h.submissionService.Ask(r.Context(), r.PathValue("id"), in.Question)
	if err != nil {
		respondServiceError(w, r, "Error asking assistant", err)
		return
	}
	respondJSON(w, http.StatusOK, answer)
}
