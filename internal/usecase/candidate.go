package usecase

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/fairyhunter13/ai-hiring-assessor/internal/domain"
	"github.com/fairyhunter13/ai-hiring-assessor/pkg/sanitize"
)

// CandidateService owns the candidate-facing test flow (register, start,
// submit, status) and the recruiter-facing review projections over submitted
// candidates.
type CandidateService struct {
	Assessments domain.AssessmentRepository
	Candidates  domain.CandidateRepository
	Responses   domain.ResponseRepository
	Queue       domain.ScoringQueue
	Limiter     *RescoreLimiter
}

// NewCandidateService constructs a CandidateService.
func NewCandidateService(
	ar domain.AssessmentRepository,
	cr domain.CandidateRepository,
	rr domain.ResponseRepository,
	q domain.ScoringQueue,
	lim *RescoreLimiter,
) CandidateService {
	return CandidateService{Assessments: ar, Candidates: cr, Responses: rr, Queue: q, Limiter: lim}
}

// RegisterInput identifies a candidate registering for an assessment.
type RegisterInput struct {
	AssessmentID string
	FullName     string
	Email        string
	Phone        string
}

// Register creates (or resumes) a candidate registration. Registration is
// idempotent per (assessment, email): re-registering before submission yields
// the existing candidate, re-registering after submission is a conflict.
func (s CandidateService) Register(ctx domain.Context, in RegisterInput) (string, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	name := strings.TrimSpace(in.FullName)
	if email == "" || name == "" {
		return "", fmt.Errorf("op=candidate.Register: %w: name and email are required", domain.ErrInvalidArgument)
	}

	a, err := s.Assessments.GetPublic(ctx, in.AssessmentID)
	if err != nil {
		return "", fmt.Errorf("op=candidate.Register: %w", err)
	}
	if a.Status != domain.AssessmentActive {
		return "", fmt.Errorf("op=candidate.Register: %w: assessment not active", domain.ErrConflict)
	}

	existing, err := s.Candidates.FindByEmail(ctx, in.AssessmentID, email)
	switch {
	case err == nil:
		if existing.HasSubmitted {
			return "", fmt.Errorf("op=candidate.Register: %w: already submitted", domain.ErrConflict)
		}
		return existing.ID, nil
	case !errors.Is(err, domain.ErrNotFound):
		return "", fmt.Errorf("op=candidate.Register: %w", err)
	}

	id, err := s.Candidates.Create(ctx, domain.Candidate{
		AssessmentID:  in.AssessmentID,
		FullName:      name,
		Email:         email,
		Phone:         strings.TrimSpace(in.Phone),
		ScoringStatus: domain.ScoringPending,
	})
	if err != nil {
		return "", fmt.Errorf("op=candidate.Register: %w", err)
	}
	slog.Info("candidate registered",
		slog.String("candidate_id", id),
		slog.String("assessment_id", in.AssessmentID))
	return id, nil
}

// TestQuestion is a candidate-safe question projection: no correct answer, no
// scoring guidelines.
type TestQuestion struct {
	ID         string              `json:"id"`
	Number     int                 `json:"question_number"`
	Type       domain.QuestionType `json:"type"`
	Skill      string              `json:"skill_tested"`
	Difficulty string              `json:"difficulty_level"`
	Text       string              `json:"question_text"`
	Options    []string            `json:"options"`
	MaxScore   int                 `json:"max_score"`
}

// TestView is everything a candidate needs to take the test.
type TestView struct {
	CandidateID     string         `json:"candidate_id"`
	AssessmentTitle string         `json:"assessment_title"`
	DurationMinutes int            `json:"duration_minutes"`
	StartedAt       time.Time      `json:"started_at"`
	Questions       []TestQuestion `json:"questions"`
}

// BeginTest starts (or resumes) a candidate's attempt. The clock starts on
// first call; later calls return the original start time and the same
// questions. Scoring material never leaves this projection.
func (s CandidateService) BeginTest(ctx domain.Context, candidateID string) (TestView, error) {
	c, err := s.Candidates.Get(ctx, candidateID)
	if err != nil {
		return TestView{}, fmt.Errorf("op=candidate.BeginTest: %w", err)
	}
	if c.HasSubmitted {
		return TestView{}, fmt.Errorf("op=candidate.BeginTest: %w: already submitted", domain.ErrConflict)
	}
	a, err := s.Assessments.GetPublic(ctx, c.AssessmentID)
	if err != nil {
		return TestView{}, fmt.Errorf("op=candidate.BeginTest: %w", err)
	}
	if a.Status != domain.AssessmentActive {
		return TestView{}, fmt.Errorf("op=candidate.BeginTest: %w: assessment not active", domain.ErrConflict)
	}

	startedAt := time.Now().UTC()
	if c.StartedAt != nil {
		startedAt = *c.StartedAt
	} else if err := s.Candidates.MarkStarted(ctx, candidateID, startedAt); err != nil {
		return TestView{}, fmt.Errorf("op=candidate.BeginTest: %w", err)
	}

	qs, err := s.Assessments.Questions(ctx, c.AssessmentID)
	if err != nil {
		return TestView{}, fmt.Errorf("op=candidate.BeginTest: %w", err)
	}
	view := TestView{
		CandidateID:     candidateID,
		AssessmentTitle: a.Title,
		DurationMinutes: a.DurationMinutes,
		StartedAt:       startedAt,
		Questions:       make([]TestQuestion, 0, len(qs)),
	}
	for _, q := range qs {
		opts := q.Options
		if opts == nil {
			opts = []string{}
		}
		view.Questions = append(view.Questions, TestQuestion{
			ID:         q.ID,
			Number:     q.Number,
			Type:       q.Type,
			Skill:      q.Skill,
			Difficulty: q.Difficulty,
			Text:       q.Text,
			Options:    opts,
			MaxScore:   q.MaxScore,
		})
	}
	return view, nil
}

// AnswerInput is one submitted answer keyed by question ID. MCQs use
// SelectedOption (a letter); free-text questions use AnswerText.
type AnswerInput struct {
	QuestionID     string `json:"question_id"`
	AnswerText     string `json:"answer_text"`
	SelectedOption string `json:"selected_option"`
}

// Submit records a candidate's answers exactly once. MCQs are scored
// synchronously against the stored key; free-text answers are queued for
// background AI scoring. A second submission fails with ErrConflict.
func (s CandidateService) Submit(ctx domain.Context, candidateID string, answers []AnswerInput) error {
	c, err := s.Candidates.Get(ctx, candidateID)
	if err != nil {
		return fmt.Errorf("op=candidate.Submit: %w", err)
	}
	if c.HasSubmitted {
		return fmt.Errorf("op=candidate.Submit: %w: already submitted", domain.ErrConflict)
	}

	qs, err := s.Assessments.Questions(ctx, c.AssessmentID)
	if err != nil {
		return fmt.Errorf("op=candidate.Submit: %w", err)
	}
	byID := make(map[string]domain.Question, len(qs))
	for _, q := range qs {
		byID[q.ID] = q
	}

	now := time.Now().UTC()
	var (
		rs       []domain.Response
		mcqTotal float64
		maxTotal float64
		pending  int
	)
	seen := make(map[string]bool, len(answers))
	for _, in := range answers {
		q, ok := byID[in.QuestionID]
		if !ok || seen[in.QuestionID] {
			// Unknown question IDs are dropped, not rejected: partial client
			// state must not lose the rest of the submission. Duplicates keep
			// the first answer; a second row for the same question would trip
			// the unique index and abort the whole transaction.
			continue
		}
		seen[in.QuestionID] = true
		r := domain.Response{
			CandidateID: candidateID,
			QuestionID:  q.ID,
			AnswerText:  sanitize.Strip(in.AnswerText),
			Strengths:   []string{},
			Gaps:        []string{},
		}
		if q.Type == domain.QuestionMCQ {
			selected := strings.ToUpper(strings.TrimSpace(in.SelectedOption))
			r.SelectedOption = selected
			switch {
			case selected == "":
				r.Reasoning = "No answer selected"
			case selected == q.CorrectAnswer:
				r.Score = float64(q.MaxScore)
				r.Reasoning = "Correct answer selected"
			default:
				r.Reasoning = "Incorrect. Correct answer: " + q.CorrectAnswer
			}
			mcqTotal += r.Score
		} else {
			pending++
		}
		maxTotal += float64(q.MaxScore)
		rs = append(rs, r)
	}

	sub := domain.Submission{
		SubmittedAt: now,
		TotalScore:  mcqTotal,
		MaxScore:    maxTotal,
	}
	if c.StartedAt != nil {
		sub.TimeSpentMinutes = int(now.Sub(*c.StartedAt).Minutes())
	}
	if maxTotal > 0 {
		sub.Percentage = math.Round(mcqTotal/maxTotal*100*10) / 10
	}

	if err := s.Candidates.SubmitResponses(ctx, candidateID, sub, rs); err != nil {
		return fmt.Errorf("op=candidate.Submit: %w", err)
	}
	slog.Info("candidate submitted",
		slog.String("candidate_id", candidateID),
		slog.Int("answers", len(rs)),
		slog.Int("pending_ai", pending))

	if pending > 0 {
		if err := s.Queue.EnqueueScore(ctx, candidateID); err != nil {
			// The submission is durable; scoring can be re-triggered manually.
			slog.Error("scoring enqueue failed", slog.String("candidate_id", candidateID), slog.Any("error", err))
		}
	} else if err := s.Candidates.SetScoringStatus(ctx, candidateID, domain.ScoringDone); err != nil {
		slog.Error("scoring status update failed", slog.String("candidate_id", candidateID), slog.Any("error", err))
	}
	return nil
}

// StatusView is the candidate's post-submission view of scoring progress.
type StatusView struct {
	CandidateID   string               `json:"candidate_id"`
	HasSubmitted  bool                 `json:"has_submitted"`
	ScoringStatus domain.ScoringStatus `json:"scoring_status"`
	SubmittedAt   *time.Time           `json:"submitted_at"`
}

// Status returns the scoring progress for a candidate.
func (s CandidateService) Status(ctx domain.Context, candidateID string) (StatusView, error) {
	c, err := s.Candidates.Get(ctx, candidateID)
	if err != nil {
		return StatusView{}, fmt.Errorf("op=candidate.Status: %w", err)
	}
	return StatusView{
		CandidateID:   c.ID,
		HasSubmitted:  c.HasSubmitted,
		ScoringStatus: c.ScoringStatus,
		SubmittedAt:   c.SubmittedAt,
	}, nil
}

// Results returns the submitted candidates of an owned assessment, ranked.
// Standings are recomputed on every read (a new submission shifts everyone)
// and persisted best-effort so exports see the same numbers.
func (s CandidateService) Results(ctx domain.Context, assessmentID, ownerID string) ([]domain.Candidate, error) {
	if _, err := s.Assessments.Get(ctx, assessmentID, ownerID); err != nil {
		return nil, fmt.Errorf("op=candidate.Results: %w", err)
	}
	cs, err := s.Candidates.ListSubmitted(ctx, assessmentID)
	if err != nil {
		return nil, fmt.Errorf("op=candidate.Results: %w", err)
	}
	standings := Rank(cs)
	byID := make(map[string]Standing, len(standings))
	for _, st := range standings {
		byID[st.CandidateID] = st
		if err := s.Candidates.UpdateStanding(ctx, st.CandidateID, st.Rank, st.Percentile, st.Recommendation); err != nil {
			slog.Warn("standing persist failed", slog.String("candidate_id", st.CandidateID), slog.Any("error", err))
		}
	}
	for i := range cs {
		if st, ok := byID[cs[i].ID]; ok {
			rank, pct := st.Rank, st.Percentile
			cs[i].Rank = &rank
			cs[i].Percentile = &pct
			cs[i].Recommendation = st.Recommendation
		}
	}
	// Present in rank order.
	sort.SliceStable(cs, func(i, j int) bool { return rankOf(cs[i]) < rankOf(cs[j]) })
	return cs, nil
}

func rankOf(c domain.Candidate) int {
	if c.Rank == nil {
		return int(^uint(0) >> 1)
	}
	return *c.Rank
}

// Leaderboard summarizes a ranked pool by hire tier.
type Leaderboard struct {
	AssessmentID    string  `json:"assessment_id"`
	TotalCandidates int     `json:"total_candidates"`
	AveragePercent  float64 `json:"average_percent"`
	Advance         int     `json:"advance"`
	Consider        int     `json:"consider"`
	Reject          int     `json:"reject"`
}

// Leaderboard aggregates tier counts and the average score over all ranked
// candidates of an owned assessment.
func (s CandidateService) Leaderboard(ctx domain.Context, assessmentID, ownerID string) (Leaderboard, error) {
	cs, err := s.Results(ctx, assessmentID, ownerID)
	if err != nil {
		return Leaderboard{}, fmt.Errorf("op=candidate.Leaderboard: %w", err)
	}
	lb := Leaderboard{AssessmentID: assessmentID, TotalCandidates: len(cs)}
	var sum float64
	for _, c := range cs {
		sum += c.Percentage
		switch c.Recommendation {
		case domain.RecommendAdvance:
			lb.Advance++
		case domain.RecommendConsider:
			lb.Consider++
		case domain.RecommendReject:
			lb.Reject++
		}
	}
	if len(cs) > 0 {
		lb.AveragePercent = math.Round(sum/float64(len(cs))*10) / 10
	}
	return lb, nil
}

// Details returns an owned candidate together with every response joined to
// its question, for recruiter review.
func (s CandidateService) Details(ctx domain.Context, candidateID, ownerID string) (domain.Candidate, []domain.ResponseDetail, error) {
	c, err := s.Candidates.GetOwned(ctx, candidateID, ownerID)
	if err != nil {
		return domain.Candidate{}, nil, fmt.Errorf("op=candidate.Details: %w", err)
	}
	rs, err := s.Responses.ListByCandidate(ctx, candidateID)
	if err != nil {
		return domain.Candidate{}, nil, fmt.Errorf("op=candidate.Details: %w", err)
	}
	return c, rs, nil
}

// SaveNotes stores the recruiter's free-form notes on an owned candidate.
func (s CandidateService) SaveNotes(ctx domain.Context, candidateID, ownerID, notes string) error {
	if _, err := s.Candidates.GetOwned(ctx, candidateID, ownerID); err != nil {
		return fmt.Errorf("op=candidate.SaveNotes: %w", err)
	}
	if err := s.Candidates.UpdateNotes(ctx, candidateID, notes); err != nil {
		return fmt.Errorf("op=candidate.SaveNotes: %w", err)
	}
	return nil
}

// TriggerScoring re-queues AI scoring for an owned candidate, throttled per
// candidate so repeated clicks cannot flood the generation backend.
func (s CandidateService) TriggerScoring(ctx domain.Context, candidateID, ownerID string) error {
	c, err := s.Candidates.GetOwned(ctx, candidateID, ownerID)
	if err != nil {
		return fmt.Errorf("op=candidate.TriggerScoring: %w", err)
	}
	if !c.HasSubmitted {
		return fmt.Errorf("op=candidate.TriggerScoring: %w: candidate has not submitted", domain.ErrConflict)
	}
	if !s.Limiter.Allow(candidateID) {
		return fmt.Errorf("op=candidate.TriggerScoring: %w: rescore requested too soon", domain.ErrRateLimited)
	}
	if err := s.Queue.EnqueueScore(ctx, candidateID); err != nil {
		// A failed enqueue must not burn the owner's throttle window.
		s.Limiter.Release(candidateID)
		return fmt.Errorf("op=candidate.TriggerScoring: %w", err)
	}
	slog.Info("rescore queued", slog.String("candidate_id", candidateID))
	return nil
}
