package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/fairyhunter13/ai-hiring-assessor/internal/domain"
	"github.com/fairyhunter13/ai-hiring-assessor/internal/usecase"
)

// AssessmentHandler serves the recruiter-facing assessment and candidate
// review API.
type AssessmentHandler struct {
	Assessments usecase.AssessmentService
	Candidates  usecase.CandidateService
}

// NewAssessmentHandler constructs an AssessmentHandler.
func NewAssessmentHandler(as usecase.AssessmentService, cs usecase.CandidateService) *AssessmentHandler {
	return &AssessmentHandler{Assessments: as, Candidates: cs}
}

type createAssessmentRequest struct {
	JobDescription  string `json:"job_description" validate:"required"`
	QuestionCount   int    `json:"question_count"`
	DurationMinutes int    `json:"duration_minutes"`
}

type updateAssessmentRequest struct {
	Title           string `json:"title"`
	DurationMinutes int    `json:"duration_minutes"`
}

type assessmentResponse struct {
	ID              string                  `json:"id"`
	Title           string                  `json:"title"`
	Profile         domain.JobProfile       `json:"job_profile"`
	DurationMinutes int                     `json:"duration_minutes"`
	Status          domain.AssessmentStatus `json:"status"`
	CreatedAt       time.Time               `json:"created_at"`
	PublishedAt     *time.Time              `json:"published_at"`
	ClosedAt        *time.Time              `json:"closed_at"`
	CandidateCount  int                     `json:"candidate_count,omitempty"`
	AverageScore    float64                 `json:"average_score,omitempty"`
	Questions       []questionResponse      `json:"questions,omitempty"`
}

// questionResponse is the recruiter view: scoring material included.
type questionResponse struct {
	ID            string              `json:"id"`
	Number        int                 `json:"question_number"`
	Type          domain.QuestionType `json:"type"`
	Skill         string              `json:"skill_tested"`
	Difficulty    string              `json:"difficulty_level"`
	Text          string              `json:"question_text"`
	Options       []string            `json:"options"`
	CorrectAnswer string              `json:"correct_answer"`
	Guidelines    string              `json:"ideal_answer_guidelines"`
	MaxScore      int                 `json:"max_score"`
}

func toQuestionResponses(qs []domain.Question) []questionResponse {
	out := make([]questionResponse, 0, len(qs))
	for _, q := range qs {
		opts := q.Options
		if opts == nil {
			opts = []string{}
		}
		out = append(out, questionResponse{
			ID:            q.ID,
			Number:        q.Number,
			Type:          q.Type,
			Skill:         q.Skill,
			Difficulty:    q.Difficulty,
			Text:          q.Text,
			Options:       opts,
			CorrectAnswer: q.CorrectAnswer,
			Guidelines:    q.Guidelines,
			MaxScore:      q.MaxScore,
		})
	}
	return out
}

// Create builds an assessment from a job description.
func (h *AssessmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createAssessmentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := validate.Struct(req); err != nil {
		writeValidationError(w, err.Error())
		return
	}
	id, err := h.Assessments.Create(r.Context(), UserIDFrom(r.Context()), usecase.CreateInput{
		JobDescription:  req.JobDescription,
		QuestionCount:   req.QuestionCount,
		DurationMinutes: req.DurationMinutes,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

// List returns the recruiter's assessments.
func (h *AssessmentHandler) List(w http.ResponseWriter, r *http.Request) {
	sums, err := h.Assessments.List(r.Context(), UserIDFrom(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]assessmentResponse, 0, len(sums))
	for _, s := range sums {
		out = append(out, assessmentResponse{
			ID:              s.ID,
			Title:           s.Title,
			Profile:         s.Profile,
			DurationMinutes: s.DurationMinutes,
			Status:          s.Status,
			CreatedAt:       s.CreatedAt,
			PublishedAt:     s.PublishedAt,
			ClosedAt:        s.ClosedAt,
			CandidateCount:  s.CandidateCount,
			AverageScore:    s.AverageScore,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// Get returns one assessment with its questions.
func (h *AssessmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	a, qs, err := h.Assessments.Get(r.Context(), chi.URLParam(r, "id"), UserIDFrom(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, assessmentResponse{
		ID:              a.ID,
		Title:           a.Title,
		Profile:         a.Profile,
		DurationMinutes: a.DurationMinutes,
		Status:          a.Status,
		CreatedAt:       a.CreatedAt,
		PublishedAt:     a.PublishedAt,
		ClosedAt:        a.ClosedAt,
		Questions:       toQuestionResponses(qs),
	})
}

// Update patches the title and/or duration.
func (h *AssessmentHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateAssessmentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	err := h.Assessments.UpdateMeta(r.Context(), chi.URLParam(r, "id"), UserIDFrom(r.Context()),
		req.Title, req.DurationMinutes)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// Publish moves a draft assessment to active.
func (h *AssessmentHandler) Publish(w http.ResponseWriter, r *http.Request) {
	if err := h.Assessments.Publish(r.Context(), chi.URLParam(r, "id"), UserIDFrom(r.Context())); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "active"})
}

// Close moves an active assessment to closed.
func (h *AssessmentHandler) Close(w http.ResponseWriter, r *http.Request) {
	if err := h.Assessments.Close(r.Context(), chi.URLParam(r, "id"), UserIDFrom(r.Context())); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "closed"})
}

// Delete removes an assessment and everything under it.
func (h *AssessmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Assessments.Delete(r.Context(), chi.URLParam(r, "id"), UserIDFrom(r.Context())); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// Dashboard aggregates the recruiter's activity.
func (h *AssessmentHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Assessments.Dashboard(r.Context(), UserIDFrom(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"total_assessments":  stats.TotalAssessments,
		"active_assessments": stats.ActiveAssessments,
		"closed_assessments": stats.ClosedAssessments,
		"total_candidates":   stats.TotalCandidates,
		"average_score":      stats.AverageScore,
	})
}

type candidateResultResponse struct {
	ID               string                `json:"id"`
	FullName         string                `json:"full_name"`
	Email            string                `json:"email"`
	SubmittedAt      *time.Time            `json:"submitted_at"`
	TimeSpentMinutes int                   `json:"time_spent_minutes"`
	ScoringStatus    domain.ScoringStatus  `json:"scoring_status"`
	TotalScore       float64               `json:"total_score"`
	MaxScore         float64               `json:"max_score"`
	Percentage       float64               `json:"percentage"`
	Rank             *int                  `json:"rank"`
	Percentile       *float64              `json:"percentile"`
	Recommendation   domain.Recommendation `json:"recommendation"`
}

func toCandidateResult(c domain.Candidate) candidateResultResponse {
	return candidateResultResponse{
		ID:               c.ID,
		FullName:         c.FullName,
		Email:            c.Email,
		SubmittedAt:      c.SubmittedAt,
		TimeSpentMinutes: c.TimeSpentMinutes,
		ScoringStatus:    c.ScoringStatus,
		TotalScore:       c.TotalScore,
		MaxScore:         c.MaxScore,
		Percentage:       c.Percentage,
		Rank:             c.Rank,
		Percentile:       c.Percentile,
		Recommendation:   c.Recommendation,
	}
}

// Results lists an assessment's submitted candidates with standings.
func (h *AssessmentHandler) Results(w http.ResponseWriter, r *http.Request) {
	cs, err := h.Candidates.Results(r.Context(), chi.URLParam(r, "id"), UserIDFrom(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]candidateResultResponse, 0, len(cs))
	for _, c := range cs {
		out = append(out, toCandidateResult(c))
	}
	writeJSON(w, http.StatusOK, out)
}

// Leaderboard summarizes an assessment's candidate pool by hire tier.
func (h *AssessmentHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	lb, err := h.Candidates.Leaderboard(r.Context(), chi.URLParam(r, "id"), UserIDFrom(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lb)
}

type responseDetailResponse struct {
	QuestionNumber int                 `json:"question_number"`
	Type           domain.QuestionType `json:"type"`
	Skill          string              `json:"skill_tested"`
	QuestionText   string              `json:"question_text"`
	Options        []string            `json:"options"`
	CorrectAnswer  string              `json:"correct_answer"`
	AnswerText     string              `json:"answer_text"`
	SelectedOption string              `json:"selected_option"`
	Score          float64             `json:"score"`
	MaxScore       int                 `json:"max_score"`
	Reasoning      string              `json:"reasoning"`
	Strengths      []string            `json:"strengths"`
	Gaps           []string            `json:"gaps"`
}

// CandidateDetails returns one candidate and every response with its grade.
func (h *AssessmentHandler) CandidateDetails(w http.ResponseWriter, r *http.Request) {
	c, rs, err := h.Candidates.Details(r.Context(), chi.URLParam(r, "candidateID"), UserIDFrom(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	details := make([]responseDetailResponse, 0, len(rs))
	for _, d := range rs {
		opts := d.Options
		if opts == nil {
			opts = []string{}
		}
		details = append(details, responseDetailResponse{
			QuestionNumber: d.Number,
			Type:           d.Type,
			Skill:          d.Skill,
			QuestionText:   d.QuestionText,
			Options:        opts,
			CorrectAnswer:  d.CorrectAnswer,
			AnswerText:     d.AnswerText,
			SelectedOption: d.SelectedOption,
			Score:          d.Score,
			MaxScore:       d.MaxScore,
			Reasoning:      d.Reasoning,
			Strengths:      d.Strengths,
			Gaps:           d.Gaps,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"candidate": toCandidateResult(c),
		"notes":     c.Notes,
		"responses": details,
	})
}

type notesRequest struct {
	Notes string `json:"notes"`
}

// SaveNotes stores recruiter notes on a candidate.
func (h *AssessmentHandler) SaveNotes(w http.ResponseWriter, r *http.Request) {
	var req notesRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	err := h.Candidates.SaveNotes(r.Context(), chi.URLParam(r, "candidateID"), UserIDFrom(r.Context()), req.Notes)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "saved"})
}

// TriggerScoring re-queues AI scoring for a candidate.
func (h *AssessmentHandler) TriggerScoring(w http.ResponseWriter, r *http.Request) {
	err := h.Candidates.TriggerScoring(r.Context(), chi.URLParam(r, "candidateID"), UserIDFrom(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "queued"})
}
