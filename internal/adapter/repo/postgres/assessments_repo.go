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

// AssessmentRepo implements domain.AssessmentRepository. The job profile and
// question options are stored as JSONB.
type AssessmentRepo struct {
	pool *pgxpool.Pool
}

// NewAssessmentRepo creates an AssessmentRepo backed by the given pool.
func NewAssessmentRepo(pool *pgxpool.Pool) *AssessmentRepo { return &AssessmentRepo{pool: pool} }

// CreateWithQuestions inserts the assessment and its questions in one
// transaction so a failed question insert never leaves a half-built test.
func (r *AssessmentRepo) CreateWithQuestions(ctx domain.Context, a domain.Assessment, qs []domain.Question) (string, error) {
	ctx, span := tracer.Start(ctx, "assessments.create_with_questions")
	defer span.End()

	profileJSON, err := json.Marshal(a.Profile)
	if err != nil {
		return "", fmt.Errorf("op=assessments.CreateWithQuestions: %w", err)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return "", fmt.Errorf("op=assessments.CreateWithQuestions: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	id := uuid.New().String()
	_, err = tx.Exec(ctx,
		`INSERT INTO assessments (id, owner_id, title, profile, raw_jd, duration_minutes, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		id, a.OwnerID, a.Title, profileJSON, a.RawJD, a.DurationMinutes, a.Status)
	if err != nil {
		return "", fmt.Errorf("op=assessments.CreateWithQuestions: %w", err)
	}

	for _, q := range qs {
		optsJSON, err := json.Marshal(q.Options)
		if err != nil {
			return "", fmt.Errorf("op=assessments.CreateWithQuestions: %w", err)
		}
		_, err = tx.Exec(ctx,
			`INSERT INTO questions
			   (id, assessment_id, question_number, type, skill_tested, difficulty_level,
			    question_text, options, correct_answer, ideal_answer_guidelines, max_score)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
			uuid.New().String(), id, q.Number, q.Type, q.Skill, q.Difficulty,
			q.Text, optsJSON, q.CorrectAnswer, q.Guidelines, q.MaxScore)
		if err != nil {
			return "", fmt.Errorf("op=assessments.CreateWithQuestions: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return "", fmt.Errorf("op=assessments.CreateWithQuestions: %w", err)
	}
	return id, nil
}

const assessmentCols = `id, owner_id, title, profile, raw_jd, duration_minutes, status, created_at, published_at, closed_at`

func scanAssessment(row pgx.Row) (domain.Assessment, error) {
	var (
		a           domain.Assessment
		profileJSON []byte
	)
	err := row.Scan(&a.ID, &a.OwnerID, &a.Title, &profileJSON, &a.RawJD,
		&a.DurationMinutes, &a.Status, &a.CreatedAt, &a.PublishedAt, &a.ClosedAt)
	if err != nil {
		return domain.Assessment{}, err
	}
	if err := json.Unmarshal(profileJSON, &a.Profile); err != nil {
		return domain.Assessment{}, err
	}
	return a, nil
}

// Get returns an assessment scoped to its owner.
func (r *AssessmentRepo) Get(ctx domain.Context, id, ownerID string) (domain.Assessment, error) {
	ctx, span := tracer.Start(ctx, "assessments.get")
	defer span.End()

	a, err := scanAssessment(r.pool.QueryRow(ctx,
		`SELECT `+assessmentCols+` FROM assessments WHERE id = $1 AND owner_id = $2`, id, ownerID))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Assessment{}, fmt.Errorf("op=assessments.Get: %w", domain.ErrNotFound)
	}
	if err != nil {
		return domain.Assessment{}, fmt.Errorf("op=assessments.Get: %w", err)
	}
	return a, nil
}

// GetPublic returns an assessment regardless of owner, for candidate flows.
func (r *AssessmentRepo) GetPublic(ctx domain.Context, id string) (domain.Assessment, error) {
	ctx, span := tracer.Start(ctx, "assessments.get_public")
	defer span.End()

	a, err := scanAssessment(r.pool.QueryRow(ctx,
		`SELECT `+assessmentCols+` FROM assessments WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Assessment{}, fmt.Errorf("op=assessments.GetPublic: %w", domain.ErrNotFound)
	}
	if err != nil {
		return domain.Assessment{}, fmt.Errorf("op=assessments.GetPublic: %w", err)
	}
	return a, nil
}

// List returns the owner's assessments newest first, with candidate counts
// and the average percentage across submitted candidates.
func (r *AssessmentRepo) List(ctx domain.Context, ownerID string) ([]domain.AssessmentSummary, error) {
	ctx, span := tracer.Start(ctx, "assessments.list")
	defer span.End()

	rows, err := r.pool.Query(ctx,
		`SELECT a.id, a.owner_id, a.title, a.profile, a.raw_jd, a.duration_minutes,
		        a.status, a.created_at, a.published_at, a.closed_at,
		        COUNT(c.id) FILTER (WHERE c.has_submitted),
		        COALESCE(AVG(c.percentage) FILTER (WHERE c.has_submitted), 0)
		 FROM assessments a
		 LEFT JOIN candidates c ON c.assessment_id = a.id
		 WHERE a.owner_id = $1
		 GROUP BY a.id
		 ORDER BY a.created_at DESC`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("op=assessments.List: %w", err)
	}
	defer rows.Close()

	var out []domain.AssessmentSummary
	for rows.Next() {
		var (
			s           domain.AssessmentSummary
			profileJSON []byte
		)
		err := rows.Scan(&s.ID, &s.OwnerID, &s.Title, &profileJSON, &s.RawJD,
			&s.DurationMinutes, &s.Status, &s.CreatedAt, &s.PublishedAt, &s.ClosedAt,
			&s.CandidateCount, &s.AverageScore)
		if err != nil {
			return nil, fmt.Errorf("op=assessments.List: %w", err)
		}
		if err := json.Unmarshal(profileJSON, &s.Profile); err != nil {
			return nil, fmt.Errorf("op=assessments.List: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("op=assessments.List: %w", err)
	}
	return out, nil
}

// UpdateMeta updates the title and duration of an owned assessment.
func (r *AssessmentRepo) UpdateMeta(ctx domain.Context, id, ownerID, title string, durationMinutes int) error {
	ctx, span := tracer.Start(ctx, "assessments.update_meta")
	defer span.End()

	tag, err := r.pool.Exec(ctx,
		`UPDATE assessments SET title = $3, duration_minutes = $4
		 WHERE id = $1 AND owner_id = $2`, id, ownerID, title, durationMinutes)
	if err != nil {
		return fmt.Errorf("op=assessments.UpdateMeta: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("op=assessments.UpdateMeta: %w", domain.ErrNotFound)
	}
	return nil
}

// SetStatus transitions the lifecycle status and stamps the transition time.
func (r *AssessmentRepo) SetStatus(ctx domain.Context, id, ownerID string, status domain.AssessmentStatus) error {
	ctx, span := tracer.Start(ctx, "assessments.set_status")
	defer span.End()

	now := time.Now().UTC()
	var query string
	switch status {
	case domain.AssessmentActive:
		query = `UPDATE assessments SET status = $3, published_at = $4 WHERE id = $1 AND owner_id = $2`
	case domain.AssessmentClosed:
		query = `UPDATE assessments SET status = $3, closed_at = $4 WHERE id = $1 AND owner_id = $2`
	default:
		query = `UPDATE assessments SET status = $3, published_at = COALESCE(published_at, $4) WHERE id = $1 AND owner_id = $2`
	}

	tag, err := r.pool.Exec(ctx, query, id, ownerID, status, now)
	if err != nil {
		return fmt.Errorf("op=assessments.SetStatus: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("op=assessments.SetStatus: %w", domain.ErrNotFound)
	}
	return nil
}

// Delete removes an owned assessment; questions, candidates, and responses
// cascade.
func (r *AssessmentRepo) Delete(ctx domain.Context, id, ownerID string) error {
	ctx, span := tracer.Start(ctx, "assessments.delete")
	defer span.End()

	tag, err := r.pool.Exec(ctx,
		`DELETE FROM assessments WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return fmt.Errorf("op=assessments.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("op=assessments.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// Questions returns the assessment's questions in display order.
func (r *AssessmentRepo) Questions(ctx domain.Context, assessmentID string) ([]domain.Question, error) {
	ctx, span := tracer.Start(ctx, "assessments.questions")
	defer span.End()

	rows, err := r.pool.Query(ctx,
		`SELECT id, assessment_id, question_number, type, skill_tested, difficulty_level,
		        question_text, options, correct_answer, ideal_answer_guidelines, max_score
		 FROM questions WHERE assessment_id = $1 ORDER BY question_number`, assessmentID)
	if err != nil {
		return nil, fmt.Errorf("op=assessments.Questions: %w", err)
	}
	defer rows.Close()

	var out []domain.Question
	for rows.Next() {
		var (
			q        domain.Question
			optsJSON []byte
		)
		err := rows.Scan(&q.ID, &q.AssessmentID, &q.Number, &q.Type, &q.Skill, &q.Difficulty,
			&q.Text, &optsJSON, &q.CorrectAnswer, &q.Guidelines, &q.MaxScore)
		if err != nil {
			return nil, fmt.Errorf("op=assessments.Questions: %w", err)
		}
		if err := json.Unmarshal(optsJSON, &q.Options); err != nil {
			return nil, fmt.Errorf("op=assessments.Questions: %w", err)
		}
		out = append(out, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("op=assessments.Questions: %w", err)
	}
	return out, nil
}

// QuestionCount returns the number of questions in the assessment.
func (r *AssessmentRepo) QuestionCount(ctx domain.Context, assessmentID string) (int, error) {
	ctx, span := tracer.Start(ctx, "assessments.question_count")
	defer span.End()

	var n int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM questions WHERE assessment_id = $1`, assessmentID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("op=assessments.QuestionCount: %w", err)
	}
	return n, nil
}

// DashboardStats aggregates the owner's activity in one round trip.
func (r *AssessmentRepo) DashboardStats(ctx domain.Context, ownerID string) (domain.DashboardStats, error) {
	ctx, span := tracer.Start(ctx, "assessments.dashboard_stats")
	defer span.End()

	var st domain.DashboardStats
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(DISTINCT a.id),
		        COUNT(DISTINCT a.id) FILTER (WHERE a.status = 'active'),
		        COUNT(DISTINCT a.id) FILTER (WHERE a.status = 'closed'),
		        COUNT(c.id) FILTER (WHERE c.has_submitted),
		        COALESCE(AVG(c.percentage) FILTER (WHERE c.has_submitted), 0)
		 FROM assessments a
		 LEFT JOIN candidates c ON c.assessment_id = a.id
		 WHERE a.owner_id = $1`, ownerID).
		Scan(&st.TotalAssessments, &st.ActiveAssessments, &st.ClosedAssessments,
			&st.TotalCandidates, &st.AverageScore)
	if err != nil {
		return domain.DashboardStats{}, fmt.Errorf("op=assessments.DashboardStats: %w", err)
	}
	return st, nil
}
