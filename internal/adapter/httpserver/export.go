package httpserver

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// ExportResults streams the ranked candidate list as CSV. Standings are
// recomputed the same way the JSON results endpoint does.
func (h *AssessmentHandler) ExportResults(w http.ResponseWriter, r *http.Request) {
	assessmentID := chi.URLParam(r, "id")
	cs, err := h.Candidates.Results(r.Context(), assessmentID, UserIDFrom(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="results-%s.csv"`, assessmentID))

	cw := csv.NewWriter(w)
	_ = cw.Write([]string{
		"rank", "full_name", "email", "submitted_at", "time_spent_minutes",
		"total_score", "max_score", "percentage", "percentile", "recommendation", "scoring_status",
	})
	for _, c := range cs {
		rank, percentile := "", ""
		if c.Rank != nil {
			rank = strconv.Itoa(*c.Rank)
		}
		if c.Percentile != nil {
			percentile = strconv.FormatFloat(*c.Percentile, 'f', 1, 64)
		}
		submitted := ""
		if c.SubmittedAt != nil {
			submitted = c.SubmittedAt.UTC().Format("2006-01-02 15:04:05")
		}
		_ = cw.Write([]string{
			rank,
			c.FullName,
			c.Email,
			submitted,
			strconv.Itoa(c.TimeSpentMinutes),
			strconv.FormatFloat(c.TotalScore, 'f', 1, 64),
			strconv.FormatFloat(c.MaxScore, 'f', 1, 64),
			strconv.FormatFloat(c.Percentage, 'f', 1, 64),
			percentile,
			string(c.Recommendation),
			string(c.ScoringStatus),
		})
	}
	cw.Flush()
}
