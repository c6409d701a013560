// Package app wires handlers, middleware, and routes into the HTTP router.
package app

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fairyhunter13/ai-hiring-assessor/internal/adapter/httpserver"
	"github.com/fairyhunter13/ai-hiring-assessor/internal/adapter/observability"
	"github.com/fairyhunter13/ai-hiring-assessor/internal/config"
)

// Handlers carries everything the router mounts.
type Handlers struct {
	Auth        *httpserver.AuthHandler
	Assessments *httpserver.AssessmentHandler
	Candidates  *httpserver.CandidateHandler
	Internal    *httpserver.InternalHandler
}

// NewRouter builds the chi router with the full middleware stack and all
// route groups. pool may be nil in tests; readiness then reports ok.
func NewRouter(cfg config.Config, h Handlers, pool *pgxpool.Pool) http.Handler {
	r := chi.NewRouter()

	r.Use(httpserver.RequestID)
	r.Use(httpserver.Recoverer)
	r.Use(httpserver.SecurityHeaders)
	r.Use(httpserver.AccessLog)
	r.Use(observability.HTTPMetricsMiddleware)
	r.Use(chimw.Timeout(cfg.HTTPWriteTimeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSAllowOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Internal-Key", "X-Request-Id"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/readyz", func(w http.ResponseWriter, req *http.Request) {
		if pool != nil {
			if err := pool.Ping(req.Context()); err != nil {
				http.Error(w, "db unavailable", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})
	r.Handle("/metrics", promhttp.Handler())

	mutatingLimit := httprate.LimitByIP(cfg.RateLimitPerMin, time.Minute)

	r.Route("/v1", func(r chi.Router) {
		// Recruiter auth
		r.Group(func(r chi.Router) {
			r.Use(mutatingLimit)
			r.Post("/auth/register", h.Auth.Register)
			r.Post("/auth/login", h.Auth.Login)
		})

		// Recruiter API
		r.Group(func(r chi.Router) {
			r.Use(h.Auth.RequireRecruiter)
			r.Get("/auth/me", h.Auth.Me)
			r.Get("/dashboard", h.Assessments.Dashboard)

			r.Route("/assessments", func(r chi.Router) {
				r.With(mutatingLimit).Post("/", h.Assessments.Create)
				r.Get("/", h.Assessments.List)
				r.Get("/{id}", h.Assessments.Get)
				r.Patch("/{id}", h.Assessments.Update)
				r.Delete("/{id}", h.Assessments.Delete)
				r.Post("/{id}/publish", h.Assessments.Publish)
				r.Post("/{id}/close", h.Assessments.Close)
				r.Get("/{id}/results", h.Assessments.Results)
				r.Get("/{id}/leaderboard", h.Assessments.Leaderboard)
				r.Get("/{id}/results/export", h.Assessments.ExportResults)
			})
			r.Route("/candidates/{candidateID}", func(r chi.Router) {
				r.Get("/", h.Assessments.CandidateDetails)
				r.Put("/notes", h.Assessments.SaveNotes)
				r.With(mutatingLimit).Post("/score", h.Assessments.TriggerScoring)
			})
		})

		// Public candidate flow
		r.Group(func(r chi.Router) {
			r.Use(mutatingLimit)
			r.Get("/public/assessments/{id}", h.Candidates.Preview)
			r.Post("/public/assessments/{id}/register", h.Candidates.Register)
			r.Get("/public/candidates/{candidateID}/test", h.Candidates.BeginTest)
			r.Post("/public/candidates/{candidateID}/submit", h.Candidates.Submit)
			r.Get("/public/candidates/{candidateID}/status", h.Candidates.Status)
		})
	})

	// Relay RPCs
	if h.Internal != nil {
		r.Route("/internal/v1", func(r chi.Router) {
			r.Use(h.Internal.RequireInternalKey)
			r.Post("/exams", h.Internal.GenerateExam)
			r.Post("/grades", h.Internal.GradeOpenEnded)
		})
	}

	return r
}
