package postgres

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fairyhunter13/ai-hiring-assessor/internal/domain"
)

// CandidateRepo implements domain.CandidateRepository.
type CandidateRepo struct {
	pool *pgxpool.Pool
}

// NewCandidateRepo creates a CandidateRepo backed by the given pool.
func NewCandidateRepo(pool *pgxpool.Pool) *CandidateRepo { return &CandidateRepo{pool: pool} }

// Create inserts a registration. A duplicate (assessment, email) maps to
// ErrConflict; callers treat registration as idempotent above this layer.
func (r *CandidateRepo) Create(ctx domain.Context, c domain.Candidate) (string, error) {
	ctx, span := tracer.Start(ctx, "candidates.create")
	defer span.End()

	id := uuid.New().String()
	_, err := r.pool.Exec(ctx,
		`INSERT INTO candidates (id, assessment_id, full_name, email, phone, scoring_status)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		id, c.AssessmentID, c.FullName, c.Email, c.Phone, c.ScoringStatus)
	if err != nil {
		if isUniqueViolation(err) {
			return "", fmt.Errorf("op=candidates.Create: %w: already registered", domain.ErrConflict)
		}
		return "", fmt.Errorf("op=candidates.Create: %w", err)
	}
	return id, nil
}

const candidateCols = `id, assessment_id, full_name, email, phone, started_at, submitted_at,
	time_spent_minutes, has_submitted, scoring_status, total_score, max_score, percentage,
	rank, percentile, recommendation, notes, created_at`

func scanCandidate(row pgx.Row) (domain.Candidate, error) {
	var c domain.Candidate
	err := row.Scan(&c.ID, &c.AssessmentID, &c.FullName, &c.Email, &c.Phone,
		&c.StartedAt, &c.SubmittedAt, &c.TimeSpentMinutes, &c.HasSubmitted,
		&c.ScoringStatus, &c.TotalScore, &c.MaxScore, &c.Percentage,
		&c.Rank, &c.Percentile, &c.Recommendation, &c.Notes, &c.CreatedAt)
	return c, err
}

// Get returns a candidate by ID.
func (r *CandidateRepo) Get(ctx domain.Context, id string) (domain.Candidate, error) {
	ctx, span := tracer.Start(ctx, "candidates.get")
	defer span.End()

	c, err := scanCandidate(r.pool.QueryRow(ctx,
		`SELECT `+candidateCols+` FROM candidates WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Candidate{}, fmt.Errorf("op=candidates.Get: %w", domain.ErrNotFound)
	}
	if err != nil {
		return domain.Candidate{}, fmt.Errorf("op=candidates.Get: %w", err)
	}
	return c, nil
}

// GetOwned resolves a candidate only when its assessment belongs to ownerID.
// Absence and foreign ownership are indistinguishable to the caller.
func (r *CandidateRepo) GetOwned(ctx domain.Context, id, ownerID string) (domain.Candidate, error) {
	ctx, span := tracer.Start(ctx, "candidates.get_owned")
	defer span.End()

	c, err := scanCandidate(r.pool.QueryRow(ctx,
		`SELECT c.id, c.assessment_id, c.full_name, c.email, c.phone, c.started_at, c.submitted_at,
		        c.time_spent_minutes, c.has_submitted, c.scoring_status, c.total_score, c.max_score,
		        c.percentage, c.rank, c.percentile, c.recommendation, c.notes, c.created_at
		 FROM candidates c
		 JOIN assessments a ON a.id = c.assessment_id
		 WHERE c.id = $1 AND a.owner_id = $2`, id, ownerID))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Candidate{}, fmt.Errorf("op=candidates.GetOwned: %w", domain.ErrNotFound)
	}
	if err != nil {
		return domain.Candidate{}, fmt.Errorf("op=candidates.GetOwned: %w", err)
	}
	return c, nil
}

// FindByEmail returns the registration for (assessmentID, email).
func (r *CandidateRepo) FindByEmail(ctx domain.Context, assessmentID, email string) (domain.Candidate, error) {
	ctx, span := tracer.Start(ctx, "candidates.find_by_email")
	defer span.End()

	c, err := scanCandidate(r.pool.QueryRow(ctx,
		`SELECT `+candidateCols+` FROM candidates WHERE assessment_id = $1 AND email = $2`,
		assessmentID, email))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Candidate{}, fmt.Errorf("op=candidates.FindByEmail: %w", domain.ErrNotFound)
	}
	if err != nil {
		return domain.Candidate{}, fmt.Errorf("op=candidates.FindByEmail: %w", err)
	}
	return c, nil
}

// MarkStarted sets started_at only when it is still unset, so a page refresh
// never restarts the clock.
func (r *CandidateRepo) MarkStarted(ctx domain.Context, id string, at time.Time) error {
	ctx, span := tracer.Start(ctx, "candidates.mark_started")
	defer span.End()

	_, err := r.pool.Exec(ctx,
		`UPDATE candidates SET started_at = $2 WHERE id = $1 AND started_at IS NULL`, id, at)
	if err != nil {
		return fmt.Errorf("op=candidates.MarkStarted: %w", err)
	}
	return nil
}

// SubmitResponses atomically flips has_submitted, stores the aggregates, and
// inserts all responses. The flip is a compare-and-set: if another request
// already submitted, the transaction rolls back with ErrConflict.
func (r *CandidateRepo) SubmitResponses(ctx domain.Context, id string, sub domain.Submission, rs []domain.Response) error {
	ctx, span := tracer.Start(ctx, "candidates.submit_responses")
	defer span.End()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("op=candidates.SubmitResponses: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx,
		`UPDATE candidates
		 SET has_submitted = TRUE, submitted_at = $2, time_spent_minutes = $3,
		     total_score = $4, max_score = $5, percentage = $6
		 WHERE id = $1 AND has_submitted = FALSE`,
		id, sub.SubmittedAt, sub.TimeSpentMinutes, sub.TotalScore, sub.MaxScore, sub.Percentage)
	if err != nil {
		return fmt.Errorf("op=candidates.SubmitResponses: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("op=candidates.SubmitResponses: %w: already submitted", domain.ErrConflict)
	}

	for _, resp := range rs {
		strengthsJSON, err := json.Marshal(resp.Strengths)
		if err != nil {
			return fmt.Errorf("op=candidates.SubmitResponses: %w", err)
		}
		gapsJSON, err := json.Marshal(resp.Gaps)
		if err != nil {
			return fmt.Errorf("op=candidates.SubmitResponses: %w", err)
		}
		_, err = tx.Exec(ctx,
			`INSERT INTO responses
			   (id, candidate_id, question_id, answer_text, selected_option, score, reasoning, strengths, gaps)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			uuid.New().String(), id, resp.QuestionID, resp.AnswerText, resp.SelectedOption,
			resp.Score, resp.Reasoning, strengthsJSON, gapsJSON)
		if err != nil {
			return fmt.Errorf("op=candidates.SubmitResponses: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("op=candidates.SubmitResponses: %w", err)
	}
	return nil
}

// SetScoringStatus updates the background scoring status.
func (r *CandidateRepo) SetScoringStatus(ctx domain.Context, id string, status domain.ScoringStatus) error {
	ctx, span := tracer.Start(ctx, "candidates.set_scoring_status")
	defer span.End()

	tag, err := r.pool.Exec(ctx,
		`UPDATE candidates SET scoring_status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("op=candidates.SetScoringStatus: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("op=candidates.SetScoringStatus: %w", domain.ErrNotFound)
	}
	return nil
}

// UpdateAggregates stores the recomputed total and percentage after scoring.
func (r *CandidateRepo) UpdateAggregates(ctx domain.Context, id string, total, percentage float64) error {
	ctx, span := tracer.Start(ctx, "candidates.update_aggregates")
	defer span.End()

	_, err := r.pool.Exec(ctx,
		`UPDATE candidates SET total_score = $2, percentage = $3 WHERE id = $1`, id, total, percentage)
	if err != nil {
		return fmt.Errorf("op=candidates.UpdateAggregates: %w", err)
	}
	return nil
}

// ListSubmitted returns the submitted candidates of an assessment, newest
// submission first.
func (r *CandidateRepo) ListSubmitted(ctx domain.Context, assessmentID string) ([]domain.Candidate, error) {
	ctx, span := tracer.Start(ctx, "candidates.list_submitted")
	defer span.End()

	rows, err := r.pool.Query(ctx,
		`SELECT `+candidateCols+` FROM candidates
		 WHERE assessment_id = $1 AND has_submitted
		 ORDER BY submitted_at DESC`, assessmentID)
	if err != nil {
		return nil, fmt.Errorf("op=candidates.ListSubmitted: %w", err)
	}
	defer rows.Close()

	var out []domain.Candidate
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, fmt.Errorf("op=candidates.ListSubmitted: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("op=candidates.ListSubmitted: %w", err)
	}
	return out, nil
}

// UpdateStanding persists the computed rank, percentile, and recommendation.
func (r *CandidateRepo) UpdateStanding(ctx domain.Context, id string, rank int, percentile float64, rec domain.Recommendation) error {
	ctx, span := tracer.Start(ctx, "candidates.update_standing")
	defer span.End()

	_, err := r.pool.Exec(ctx,
		`UPDATE candidates SET rank = $2, percentile = $3, recommendation = $4 WHERE id = $1`,
		id, rank, percentile, rec)
	if err != nil {
		return fmt.Errorf("op=candidates.UpdateStanding: %w", err)
	}
	return nil
}

// UpdateNotes stores recruiter notes.
func (r *CandidateRepo) UpdateNotes(ctx domain.Context, id, notes string) error {
	ctx, span := tracer.Start(ctx, "candidates.update_notes")
	defer span.End()

	tag, err := r.pool.Exec(ctx,
		`UPDATE candidates SET notes = $2 WHERE id = $1`, id, notes)
	if err != nil {
		return fmt.Errorf("op=candidates.UpdateNotes: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("op=candidates.UpdateNotes: %w", domain.ErrNotFound)
	}
	return nil
}
