package usecase

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/fairyhunter13/ai-hiring-assessor/internal/domain"
)

// Bounds applied to recruiter-supplied knobs. Out-of-range values are clamped
// rather than rejected.
const (
	minJDLength = 50

	minQuestionCount     = 5
	maxQuestionCount     = 20
	defaultQuestionCount = 10

	minDurationMinutes     = 15
	maxDurationMinutes     = 180
	defaultDurationMinutes = 60
)

// AssessmentService owns the recruiter-facing assessment lifecycle: creation
// from a raw job description, publication, closing, and review projections.
type AssessmentService struct {
	Assessments domain.AssessmentRepository
	Extraction  ExtractionService
}

// NewAssessmentService constructs an AssessmentService.
func NewAssessmentService(ar domain.AssessmentRepository, ex ExtractionService) AssessmentService {
	return AssessmentService{Assessments: ar, Extraction: ex}
}

// CreateInput is the recruiter's request to build an assessment.
type CreateInput struct {
	JobDescription  string
	QuestionCount   int
	DurationMinutes int
}

func clamp(v, lo, hi, def int) int {
	if v == 0 {
		return def
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Create parses the job description, generates questions, and persists the
// assessment in draft. A generation outage during profile extraction degrades
// to a sentinel profile; an outage during question generation fails the whole
// operation because an assessment without questions is useless.
func (s AssessmentService) Create(ctx domain.Context, ownerID string, in CreateInput) (string, error) {
	jd := strings.TrimSpace(in.JobDescription)
	if len(jd) < minJDLength {
		return "", fmt.Errorf("op=assessment.Create: %w: job description too short", domain.ErrInvalidArgument)
	}
	count := clamp(in.QuestionCount, minQuestionCount, maxQuestionCount, defaultQuestionCount)
	duration := clamp(in.DurationMinutes, minDurationMinutes, maxDurationMinutes, defaultDurationMinutes)

	profile := s.Extraction.ParseJobDescription(ctx, jd)
	questions, err := s.Extraction.GenerateQuestions(ctx, profile, count)
	if err != nil {
		return "", fmt.Errorf("op=assessment.Create: %w", err)
	}
	if len(questions) == 0 {
		return "", fmt.Errorf("op=assessment.Create: %w: no usable questions generated", domain.ErrGenerationUnavailable)
	}

	a := domain.Assessment{
		OwnerID:         ownerID,
		Title:           profile.RoleTitle + " - Assessment",
		Profile:         profile,
		RawJD:           jd,
		DurationMinutes: duration,
		Status:          domain.AssessmentDraft,
	}
	id, err := s.Assessments.CreateWithQuestions(ctx, a, questions)
	if err != nil {
		return "", fmt.Errorf("op=assessment.Create: %w", err)
	}
	slog.Info("assessment created",
		slog.String("assessment_id", id),
		slog.String("role", profile.RoleTitle),
		slog.Int("questions", len(questions)))
	return id, nil
}

// List returns the owner's assessments with candidate aggregates.
func (s AssessmentService) List(ctx domain.Context, ownerID string) ([]domain.AssessmentSummary, error) {
	out, err := s.Assessments.List(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("op=assessment.List: %w", err)
	}
	return out, nil
}

// Get returns an owned assessment together with its full question set,
// including scoring material. Recruiter-only.
func (s AssessmentService) Get(ctx domain.Context, id, ownerID string) (domain.Assessment, []domain.Question, error) {
	a, err := s.Assessments.Get(ctx, id, ownerID)
	if err != nil {
		return domain.Assessment{}, nil, fmt.Errorf("op=assessment.Get: %w", err)
	}
	qs, err := s.Assessments.Questions(ctx, id)
	if err != nil {
		return domain.Assessment{}, nil, fmt.Errorf("op=assessment.Get: %w", err)
	}
	return a, qs, nil
}

// UpdateMeta changes the title and/or duration of an owned assessment. Zero
// values keep the stored value.
func (s AssessmentService) UpdateMeta(ctx domain.Context, id, ownerID, title string, durationMinutes int) error {
	a, err := s.Assessments.Get(ctx, id, ownerID)
	if err != nil {
		return fmt.Errorf("op=assessment.UpdateMeta: %w", err)
	}
	if t := strings.TrimSpace(title); t != "" {
		a.Title = t
	}
	if durationMinutes != 0 {
		a.DurationMinutes = clamp(durationMinutes, minDurationMinutes, maxDurationMinutes, a.DurationMinutes)
	}
	if err := s.Assessments.UpdateMeta(ctx, id, ownerID, a.Title, a.DurationMinutes); err != nil {
		return fmt.Errorf("op=assessment.UpdateMeta: %w", err)
	}
	return nil
}

// Publish moves a draft assessment to active so candidates can register.
func (s AssessmentService) Publish(ctx domain.Context, id, ownerID string) error {
	a, err := s.Assessments.Get(ctx, id, ownerID)
	if err != nil {
		return fmt.Errorf("op=assessment.Publish: %w", err)
	}
	if a.Status != domain.AssessmentDraft {
		return fmt.Errorf("op=assessment.Publish: %w: assessment is %s", domain.ErrConflict, a.Status)
	}
	n, err := s.Assessments.QuestionCount(ctx, id)
	if err != nil {
		return fmt.Errorf("op=assessment.Publish: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("op=assessment.Publish: %w: assessment has no questions", domain.ErrInvalidArgument)
	}
	if err := s.Assessments.SetStatus(ctx, id, ownerID, domain.AssessmentActive); err != nil {
		return fmt.Errorf("op=assessment.Publish: %w", err)
	}
	slog.Info("assessment published", slog.String("assessment_id", id))
	return nil
}

// Close moves an active assessment to closed; new registrations and
// submissions are refused afterwards.
func (s AssessmentService) Close(ctx domain.Context, id, ownerID string) error {
	a, err := s.Assessments.Get(ctx, id, ownerID)
	if err != nil {
		return fmt.Errorf("op=assessment.Close: %w", err)
	}
	if a.Status != domain.AssessmentActive {
		return fmt.Errorf("op=assessment.Close: %w: assessment is %s", domain.ErrConflict, a.Status)
	}
	if err := s.Assessments.SetStatus(ctx, id, ownerID, domain.AssessmentClosed); err != nil {
		return fmt.Errorf("op=assessment.Close: %w", err)
	}
	slog.Info("assessment closed", slog.String("assessment_id", id))
	return nil
}

// Delete removes an owned assessment and, by cascade, its questions,
// candidates, and responses.
func (s AssessmentService) Delete(ctx domain.Context, id, ownerID string) error {
	if err := s.Assessments.Delete(ctx, id, ownerID); err != nil {
		return fmt.Errorf("op=assessment.Delete: %w", err)
	}
	slog.Info("assessment deleted", slog.String("assessment_id", id))
	return nil
}

// Dashboard aggregates the owner's activity across all assessments.
func (s AssessmentService) Dashboard(ctx domain.Context, ownerID string) (domain.DashboardStats, error) {
	stats, err := s.Assessments.DashboardStats(ctx, ownerID)
	if err != nil {
		return domain.DashboardStats{}, fmt.Errorf("op=assessment.Dashboard: %w", err)
	}
	return stats, nil
}
