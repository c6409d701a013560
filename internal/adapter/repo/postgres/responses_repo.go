package postgres

import (
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fairyhunter13/ai-hiring-assessor/internal/domain"
)

// ResponseRepo implements domain.ResponseRepository.
type ResponseRepo struct {
	pool *pgxpool.Pool
}

// NewResponseRepo creates a ResponseRepo backed by the given pool.
func NewResponseRepo(pool *pgxpool.Pool) *ResponseRepo { return &ResponseRepo{pool: pool} }

// ListPendingAI returns the candidate's free-text responses joined with the
// scoring material of their questions. MCQ responses are excluded; they are
// scored at submission time.
func (r *ResponseRepo) ListPendingAI(ctx domain.Context, candidateID string) ([]domain.PendingResponse, error) {
	ctx, span := tracer.Start(ctx, "responses.list_pending_ai")
	defer span.End()

	rows, err := r.pool.Query(ctx,
		`SELECT r.id, r.answer_text, q.question_text, q.ideal_answer_guidelines, q.type, q.max_score
		 FROM responses r
		 JOIN questions q ON q.id = r.question_id
		 WHERE r.candidate_id = $1 AND q.type <> 'MCQ'
		 ORDER BY q.question_number`, candidateID)
	if err != nil {
		return nil, fmt.Errorf("op=responses.ListPendingAI: %w", err)
	}
	defer rows.Close()

	var out []domain.PendingResponse
	for rows.Next() {
		var p domain.PendingResponse
		if err := rows.Scan(&p.ID, &p.AnswerText, &p.QuestionText, &p.Guidelines, &p.Type, &p.MaxScore); err != nil {
			return nil, fmt.Errorf("op=responses.ListPendingAI: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("op=responses.ListPendingAI: %w", err)
	}
	return out, nil
}

// UpdateScore stores the AI grade for one response.
func (r *ResponseRepo) UpdateScore(ctx domain.Context, id string, score float64, reasoning string, strengths, gaps []string) error {
	ctx, span := tracer.Start(ctx, "responses.update_score")
	defer span.End()

	if strengths == nil {
		strengths = []string{}
	}
	if gaps == nil {
		gaps = []string{}
	}
	strengthsJSON, err := json.Marshal(strengths)
	if err != nil {
		return fmt.Errorf("op=responses.UpdateScore: %w", err)
	}
	gapsJSON, err := json.Marshal(gaps)
	if err != nil {
		return fmt.Errorf("op=responses.UpdateScore: %w", err)
	}

	tag, err := r.pool.Exec(ctx,
		`UPDATE responses SET score = $2, reasoning = $3, strengths = $4, gaps = $5 WHERE id = $1`,
		id, score, reasoning, strengthsJSON, gapsJSON)
	if err != nil {
		return fmt.Errorf("op=responses.UpdateScore: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("op=responses.UpdateScore: %w", domain.ErrNotFound)
	}
	return nil
}

// SumScores returns the candidate's total across all responses.
func (r *ResponseRepo) SumScores(ctx domain.Context, candidateID string) (float64, error) {
	ctx, span := tracer.Start(ctx, "responses.sum_scores")
	defer span.End()

	var total float64
	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(score), 0) FROM responses WHERE candidate_id = $1`, candidateID).
		Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("op=responses.SumScores: %w", err)
	}
	return total, nil
}

// ListByCandidate returns every response joined with its question, in
// question order, for recruiter review.
func (r *ResponseRepo) ListByCandidate(ctx domain.Context, candidateID string) ([]domain.ResponseDetail, error) {
	ctx, span := tracer.Start(ctx, "responses.list_by_candidate")
	defer span.End()

	rows, err := r.pool.Query(ctx,
		`SELECT r.id, r.candidate_id, r.question_id, r.answer_text, r.selected_option,
		        r.score, r.reasoning, r.strengths, r.gaps, r.created_at,
		        q.question_number, q.type, q.skill_tested, q.question_text, q.max_score,
		        q.options, q.correct_answer
		 FROM responses r
		 JOIN questions q ON q.id = r.question_id
		 WHERE r.candidate_id = $1
		 ORDER BY q.question_number`, candidateID)
	if err != nil {
		return nil, fmt.Errorf("op=responses.ListByCandidate: %w", err)
	}
	defer rows.Close()

	var out []domain.ResponseDetail
	for rows.Next() {
		var (
			d             domain.ResponseDetail
			strengthsJSON []byte
			gapsJSON      []byte
			optsJSON      []byte
		)
		err := rows.Scan(&d.ID, &d.CandidateID, &d.QuestionID, &d.AnswerText, &d.SelectedOption,
			&d.Score, &d.Reasoning, &strengthsJSON, &gapsJSON, &d.CreatedAt,
			&d.Number, &d.Type, &d.Skill, &d.QuestionText, &d.MaxScore,
			&optsJSON, &d.CorrectAnswer)
		if err != nil {
			return nil, fmt.Errorf("op=responses.ListByCandidate: %w", err)
		}
		if err := json.Unmarshal(strengthsJSON, &d.Strengths); err != nil {
			return nil, fmt.Errorf("op=responses.ListByCandidate: %w", err)
		}
		if err := json.Unmarshal(gapsJSON, &d.Gaps); err != nil {
			return nil, fmt.Errorf("op=responses.ListByCandidate: %w", err)
		}
		if err := json.Unmarshal(optsJSON, &d.Options); err != nil {
			return nil, fmt.Errorf("op=responses.ListByCandidate: %w", err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("op=responses.ListByCandidate: %w", err)
	}
	return out, nil
}
