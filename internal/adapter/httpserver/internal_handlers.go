package httpserver

import (
	"crypto/subtle"
	"net/http"

	"github.com/fairyhunter13/ai-hiring-assessor/internal/domain"
	"github.com/fairyhunter13/ai-hiring-assessor/internal/usecase"
)

// InternalHandler serves the relay RPCs: stateless generation endpoints used
// by the thin edge deployment that cannot reach the model host directly.
// Requests must carry the shared X-Internal-Key.
type InternalHandler struct {
	Extraction usecase.ExtractionService
	APIKey     string
}

// NewInternalHandler constructs an InternalHandler.
func NewInternalHandler(ex usecase.ExtractionService, apiKey string) *InternalHandler {
	return &InternalHandler{Extraction: ex, APIKey: apiKey}
}

// RequireInternalKey rejects requests without the shared secret. An empty
// configured key disables the internal API entirely.
func (h *InternalHandler) RequireInternalKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got := r.Header.Get("X-Internal-Key")
		if h.APIKey == "" || subtle.ConstantTimeCompare([]byte(got), []byte(h.APIKey)) != 1 {
			writeJSON(w, http.StatusForbidden, errorEnvelope{Error: errorBody{
				Code:    "FORBIDDEN",
				Message: "invalid internal key",
			}})
			return
		}
		next.ServeHTTP(w, r)
	})
}

type generateExamRequest struct {
	JobDescription string `json:"job_description" validate:"required"`
	QuestionCount  int    `json:"question_count"`
}

// GenerateExam parses a job description and generates questions without
// persisting anything. The caller owns storage.
func (h *InternalHandler) GenerateExam(w http.ResponseWriter, r *http.Request) {
	var req generateExamRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := validate.Struct(req); err != nil {
		writeValidationError(w, err.Error())
		return
	}
	count := req.QuestionCount
	if count == 0 {
		count = 10
	}
	profile := h.Extraction.ParseJobDescription(r.Context(), req.JobDescription)
	questions, err := h.Extraction.GenerateQuestions(r.Context(), profile, count)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"job_profile": profile,
		"questions":   toQuestionResponses(questions),
	})
}

type gradeRequest struct {
	QuestionText string              `json:"question_text" validate:"required"`
	Guidelines   string              `json:"ideal_answer_guidelines"`
	AnswerText   string              `json:"answer_text"`
	Type         domain.QuestionType `json:"type"`
	MaxScore     int                 `json:"max_score"`
}

// GradeOpenEnded scores one free-text answer without persisting anything.
func (h *InternalHandler) GradeOpenEnded(w http.ResponseWriter, r *http.Request) {
	var req gradeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := validate.Struct(req); err != nil {
		writeValidationError(w, err.Error())
		return
	}
	if req.MaxScore <= 0 {
		req.MaxScore = 10
	}
	if req.Type == "" {
		req.Type = domain.QuestionShortAnswer
	}
	res := h.Extraction.ScoreResponse(r.Context(), req.QuestionText, req.Guidelines, req.AnswerText, req.Type, req.MaxScore)
	writeJSON(w, http.StatusOK, res)
}
