package observability

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"route", "method", "status"},
	)
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		},
		[]string{"route", "method"},
	)

	GenRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "generation_requests_total",
			Help: "Total number of text-generation requests by operation and outcome",
		},
		[]string{"operation", "outcome"},
	)
	GenRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "generation_request_duration_seconds",
			Help:    "Text-generation request duration in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60, 120},
		},
		[]string{"operation"},
	)

	ScoringJobsEnqueuedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "scoring_jobs_enqueued_total",
			Help: "Total number of candidate scoring jobs enqueued",
		},
	)
	ScoringJobsRunning = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "scoring_jobs_running",
			Help: "Number of candidate scoring jobs currently running",
		},
	)
	ScoringJobsCompletedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scoring_jobs_completed_total",
			Help: "Total number of candidate scoring jobs finished, by outcome",
		},
		[]string{"outcome"},
	)

	// Distribution of final candidate percentages after scoring completes.
	CandidatePercentageHistogram = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "candidate_score_percentage",
			Help:    "Distribution of candidate total score percentages [0,100]",
			Buckets: []float64{0, 10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
		},
	)
)

// InitMetrics registers all Prometheus collectors. Call once per process.
func InitMetrics() {
	prometheus.MustRegister(HTTPRequestsTotal)
	prometheus.MustRegister(HTTPRequestDuration)
	prometheus.MustRegister(GenRequestsTotal)
	prometheus.MustRegister(GenRequestDuration)
	prometheus.MustRegister(ScoringJobsEnqueuedTotal)
	prometheus.MustRegister(ScoringJobsRunning)
	prometheus.MustRegister(ScoringJobsCompletedTotal)
	prometheus.MustRegister(CandidatePercentageHistogram)
}

// HTTPMetricsMiddleware records Prometheus metrics for each request.
func HTTPMetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		dur := time.Since(start).Seconds()
		// Route pattern may be unavailable outside chi router; guard nil
		var route string
		if rc := chi.RouteContext(r.Context()); rc != nil {
			route = rc.RoutePattern()
		}
		if route == "" {
			route = r.URL.Path
		}
		status := ww.Status()
		HTTPRequestsTotal.WithLabelValues(route, r.Method, http.StatusText(status)).Inc()
		HTTPRequestDuration.WithLabelValues(route, r.Method).Observe(dur)
	})
}

// EnqueueScoringJob records a scheduled scoring job.
func EnqueueScoringJob() { ScoringJobsEnqueuedTotal.Inc() }

// StartScoringJob marks a scoring job as running.
func StartScoringJob() { ScoringJobsRunning.Inc() }

// CompleteScoringJob marks a scoring job as finished successfully.
func CompleteScoringJob() {
	ScoringJobsRunning.Dec()
	ScoringJobsCompletedTotal.WithLabelValues("done").Inc()
}

// FailScoringJob marks a scoring job as finished with an error.
func FailScoringJob() {
	ScoringJobsRunning.Dec()
	ScoringJobsCompletedTotal.WithLabelValues("error").Inc()
}

// ObserveCandidatePercentage records a final percentage after scoring.
func ObserveCandidatePercentage(pct float64) {
	if pct >= 0 && pct <= 100 {
		CandidatePercentageHistogram.Observe(pct)
	}
}
