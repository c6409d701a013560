package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fairyhunter13/ai-hiring-assessor/internal/domain"
	"github.com/fairyhunter13/ai-hiring-assessor/internal/usecase"
)

// CandidateHandler serves the unauthenticated candidate test flow. Candidates
// are identified by the opaque ID returned at registration.
type CandidateHandler struct {
	Assessments usecase.AssessmentService
	Candidates  usecase.CandidateService
}

// NewCandidateHandler constructs a CandidateHandler.
func NewCandidateHandler(as usecase.AssessmentService, cs usecase.CandidateService) *CandidateHandler {
	return &CandidateHandler{Assessments: as, Candidates: cs}
}

// Preview returns the public view of an active assessment: enough for a
// candidate to decide to register, nothing about the questions.
func (h *CandidateHandler) Preview(w http.ResponseWriter, r *http.Request) {
	a, err := h.Assessments.Assessments.GetPublic(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	if a.Status != domain.AssessmentActive {
		writeError(w, domain.ErrNotFound)
		return
	}
	n, err := h.Assessments.Assessments.QuestionCount(r.Context(), a.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"id":               a.ID,
		"title":            a.Title,
		"duration_minutes": a.DurationMinutes,
		"question_count":   n,
		"status":           a.Status,
	})
}

type registerCandidateRequest struct {
	FullName string `json:"full_name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone"`
}

// Register creates or resumes a candidate registration.
func (h *CandidateHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerCandidateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := validate.Struct(req); err != nil {
		writeValidationError(w, err.Error())
		return
	}
	id, err := h.Candidates.Register(r.Context(), usecase.RegisterInput{
		AssessmentID: chi.URLParam(r, "id"),
		FullName:     req.FullName,
		Email:        req.Email,
		Phone:        req.Phone,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"candidate_id": id})
}

// BeginTest starts or resumes the candidate's attempt and returns the
// candidate-safe question set.
func (h *CandidateHandler) BeginTest(w http.ResponseWriter, r *http.Request) {
	view, err := h.Candidates.BeginTest(r.Context(), chi.URLParam(r, "candidateID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

type submitRequest struct {
	Answers []usecase.AnswerInput `json:"answers"`
}

// Submit records the candidate's answers exactly once.
func (h *CandidateHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := h.Candidates.Submit(r.Context(), chi.URLParam(r, "candidateID"), req.Answers); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "submitted"})
}

// Status reports scoring progress after submission.
func (h *CandidateHandler) Status(w http.ResponseWriter, r *http.Request) {
	view, err := h.Candidates.Status(r.Context(), chi.URLParam(r, "candidateID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}
