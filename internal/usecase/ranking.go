package usecase

import (
	"math"
	"sort"

	"github.com/fairyhunter13/ai-hiring-assessor/internal/domain"
)

// Standing is a candidate's computed rank, percentile, and hire tier among all
// submitted candidates of one assessment.
type Standing struct {
	CandidateID    string
	Rank           int
	Percentile     float64
	Recommendation domain.Recommendation
}

// Percentile cutoffs for hire tiers.
const (
	advanceCutoff  = 80.0
	considerCutoff = 30.0
)

func recommendationFor(percentile float64) domain.Recommendation {
	switch {
	case percentile >= advanceCutoff:
		return domain.RecommendAdvance
	case percentile >= considerCutoff:
		return domain.RecommendConsider
	default:
		return domain.RecommendReject
	}
}

// Rank orders candidates by score percentage descending and assigns each a
// rank (1..N), a percentile (share of the pool at or below the candidate), and
// a recommendation tier. The sort is stable so equally-scored candidates keep
// their submission order.
func Rank(cs []domain.Candidate) []Standing {
	if len(cs) == 0 {
		return nil
	}
	ordered := make([]domain.Candidate, len(cs))
	copy(ordered, cs)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Percentage > ordered[j].Percentage
	})

	n := float64(len(ordered))
	out := make([]Standing, len(ordered))
	for i, c := range ordered {
		pct := math.Round((100-float64(i)/n*100)*10) / 10
		out[i] = Standing{
			CandidateID:    c.ID,
			Rank:           i + 1,
			Percentile:     pct,
			Recommendation: recommendationFor(pct),
		}
	}
	return out
}
