package usecase

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/fairyhunter13/ai-hiring-assessor/internal/adapter/observability"
	"github.com/fairyhunter13/ai-hiring-assessor/internal/domain"
)

// ScoringService runs the background AI grading job for one candidate:
// score each pending free-text response, then recompute and persist the
// candidate's aggregates.
type ScoringService struct {
	Candidates domain.CandidateRepository
	Responses  domain.ResponseRepository
	Extraction ExtractionService
}

// NewScoringService constructs a ScoringService.
func NewScoringService(cr domain.CandidateRepository, rr domain.ResponseRepository, ex ExtractionService) ScoringService {
	return ScoringService{Candidates: cr, Responses: rr, Extraction: ex}
}

// Run executes the scoring job for candidateID. A panic or hard failure
// flips the candidate to the error status so the UI never shows a job stuck
// in progress. Individual response failures degrade to a zero score inside
// ExtractionService and do not fail the job.
func (s ScoringService) Run(ctx domain.Context, candidateID string) (err error) {
	observability.StartScoringJob()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("op=scoring.Run: %w: panic: %v", domain.ErrInternal, r)
		}
		if err != nil {
			observability.FailScoringJob()
			if serr := s.Candidates.SetScoringStatus(ctx, candidateID, domain.ScoringError); serr != nil {
				slog.Error("scoring error status update failed",
					slog.String("candidate_id", candidateID), slog.Any("error", serr))
			}
		} else {
			observability.CompleteScoringJob()
		}
	}()

	if err := s.Candidates.SetScoringStatus(ctx, candidateID, domain.ScoringRunning); err != nil {
		return fmt.Errorf("op=scoring.Run: %w", err)
	}

	pending, err := s.Responses.ListPendingAI(ctx, candidateID)
	if err != nil {
		return fmt.Errorf("op=scoring.Run: %w", err)
	}
	for _, p := range pending {
		res := s.Extraction.ScoreResponse(ctx, p.QuestionText, p.Guidelines, p.AnswerText, p.Type, p.MaxScore)
		if err := s.Responses.UpdateScore(ctx, p.ID, res.Score, res.Reasoning, res.Strengths, res.Gaps); err != nil {
			return fmt.Errorf("op=scoring.Run: %w", err)
		}
	}

	c, err := s.Candidates.Get(ctx, candidateID)
	if err != nil {
		return fmt.Errorf("op=scoring.Run: %w", err)
	}
	total, err := s.Responses.SumScores(ctx, candidateID)
	if err != nil {
		return fmt.Errorf("op=scoring.Run: %w", err)
	}
	var percentage float64
	if c.MaxScore > 0 {
		percentage = math.Round(total/c.MaxScore*100*10) / 10
	}
	if err := s.Candidates.UpdateAggregates(ctx, candidateID, total, percentage); err != nil {
		return fmt.Errorf("op=scoring.Run: %w", err)
	}
	if err := s.Candidates.SetScoringStatus(ctx, candidateID, domain.ScoringDone); err != nil {
		return fmt.Errorf("op=scoring.Run: %w", err)
	}
	observability.ObserveCandidatePercentage(percentage)
	slog.Info("scoring complete",
		slog.String("candidate_id", candidateID),
		slog.Int("scored", len(pending)),
		slog.Float64("percentage", percentage))
	return nil
}
