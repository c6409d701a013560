package postgres

import (
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fairyhunter13/ai-hiring-assessor/internal/domain"
)

// Migrate applies the schema idempotently at startup. The schema is small
// enough that versioned migration tooling would be overhead.
func Migrate(ctx domain.Context, pool *pgxpool.Pool) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			full_name TEXT NOT NULL DEFAULT '',
			company_name TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS assessments (
			id TEXT PRIMARY KEY,
			owner_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			title TEXT NOT NULL,
			profile JSONB NOT NULL DEFAULT '{}',
			raw_jd TEXT NOT NULL DEFAULT '',
			duration_minutes INT NOT NULL DEFAULT 60,
			status TEXT NOT NULL DEFAULT 'draft',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			published_at TIMESTAMPTZ,
			closed_at TIMESTAMPTZ
		)`,
		`CREATE INDEX IF NOT EXISTS idx_assessments_owner ON assessments(owner_id)`,
		`CREATE TABLE IF NOT EXISTS questions (
			id TEXT PRIMARY KEY,
			assessment_id TEXT NOT NULL REFERENCES assessments(id) ON DELETE CASCADE,
			question_number INT NOT NULL,
			type TEXT NOT NULL,
			skill_tested TEXT NOT NULL DEFAULT '',
			difficulty_level TEXT NOT NULL DEFAULT '',
			question_text TEXT NOT NULL,
			options JSONB NOT NULL DEFAULT '[]',
			correct_answer TEXT NOT NULL DEFAULT '',
			ideal_answer_guidelines TEXT NOT NULL DEFAULT '',
			max_score INT NOT NULL DEFAULT 10
		)`,
		`CREATE INDEX IF NOT EXISTS idx_questions_assessment ON questions(assessment_id, question_number)`,
		`CREATE TABLE IF NOT EXISTS candidates (
			id TEXT PRIMARY KEY,
			assessment_id TEXT NOT NULL REFERENCES assessments(id) ON DELETE CASCADE,
			full_name TEXT NOT NULL,
			email TEXT NOT NULL,
			phone TEXT NOT NULL DEFAULT '',
			started_at TIMESTAMPTZ,
			submitted_at TIMESTAMPTZ,
			time_spent_minutes INT NOT NULL DEFAULT 0,
			has_submitted BOOLEAN NOT NULL DEFAULT FALSE,
			scoring_status TEXT NOT NULL DEFAULT 'pending',
			total_score DOUBLE PRECISION NOT NULL DEFAULT 0,
			max_score DOUBLE PRECISION NOT NULL DEFAULT 0,
			percentage DOUBLE PRECISION NOT NULL DEFAULT 0,
			rank INT,
			percentile DOUBLE PRECISION,
			recommendation TEXT NOT NULL DEFAULT '',
			notes TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			UNIQUE (assessment_id, email)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_candidates_assessment ON candidates(assessment_id)`,
		`CREATE TABLE IF NOT EXISTS responses (
			id TEXT PRIMARY KEY,
			candidate_id TEXT NOT NULL REFERENCES candidates(id) ON DELETE CASCADE,
			question_id TEXT NOT NULL REFERENCES questions(id) ON DELETE CASCADE,
			answer_text TEXT NOT NULL DEFAULT '',
			selected_option TEXT NOT NULL DEFAULT '',
			score DOUBLE PRECISION NOT NULL DEFAULT 0,
			reasoning TEXT NOT NULL DEFAULT '',
			strengths JSONB NOT NULL DEFAULT '[]',
			gaps JSONB NOT NULL DEFAULT '[]',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			UNIQUE (candidate_id, question_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_responses_candidate ON responses(candidate_id)`,
	}
	for _, stmt := range stmts {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("op=postgres.Migrate: %w", err)
		}
	}
	return nil
}
