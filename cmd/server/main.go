// Command server runs the hiring assessment API: recruiter assessment
// management, the public candidate test flow, and the background scoring
// workers, in one process.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/fairyhunter13/ai-hiring-assessor/internal/adapter/ai/ollama"
	"github.com/fairyhunter13/ai-hiring-assessor/internal/adapter/ai/stub"
	"github.com/fairyhunter13/ai-hiring-assessor/internal/adapter/httpserver"
	"github.com/fairyhunter13/ai-hiring-assessor/internal/adapter/observability"
	"github.com/fairyhunter13/ai-hiring-assessor/internal/adapter/queue/memqueue"
	"github.com/fairyhunter13/ai-hiring-assessor/internal/adapter/repo/postgres"
	"github.com/fairyhunter13/ai-hiring-assessor/internal/app"
	"github.com/fairyhunter13/ai-hiring-assessor/internal/config"
	"github.com/fairyhunter13/ai-hiring-assessor/internal/domain"
	"github.com/fairyhunter13/ai-hiring-assessor/internal/usecase"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", slog.Any("error", err))
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	slog.SetDefault(observability.SetupLogger(cfg))
	observability.InitMetrics()

	shutdownTracing, err := observability.SetupTracing(cfg)
	if err != nil {
		return fmt.Errorf("op=main.run: tracing: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.DBURL)
	if err != nil {
		return err
	}
	defer pool.Close()
	if err := postgres.Migrate(ctx, pool); err != nil {
		return err
	}

	var gen domain.Generator
	if cfg.OllamaURL == "" {
		slog.Warn("no generation backend configured; using stub generator")
		gen = stub.New()
	} else {
		gen = ollama.New(cfg)
	}

	userRepo := postgres.NewUserRepo(pool)
	assessmentRepo := postgres.NewAssessmentRepo(pool)
	candidateRepo := postgres.NewCandidateRepo(pool)
	responseRepo := postgres.NewResponseRepo(pool)

	extraction := usecase.NewExtractionService(gen, cfg.PromptTokenBudget)
	scoring := usecase.NewScoringService(candidateRepo, responseRepo, extraction)
	queue := memqueue.New(cfg.ScoringQueueDepth, cfg.ScoringWorkers, scoring.Run)
	assessments := usecase.NewAssessmentService(assessmentRepo, extraction)
	candidates := usecase.NewCandidateService(
		assessmentRepo, candidateRepo, responseRepo, queue,
		usecase.NewRescoreLimiter(cfg.RescoreMinGap))

	handlers := app.Handlers{
		Auth:        httpserver.NewAuthHandler(userRepo, cfg),
		Assessments: httpserver.NewAssessmentHandler(assessments, candidates),
		Candidates:  httpserver.NewCandidateHandler(assessments, candidates),
	}
	if cfg.InternalAPIKey != "" {
		handlers.Internal = httpserver.NewInternalHandler(extraction, cfg.InternalAPIKey)
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      app.NewRouter(cfg, handlers, pool),
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("http server listening", slog.Int("port", cfg.Port), slog.String("env", cfg.AppEnv))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		slog.Info("scoring workers started", slog.Int("workers", cfg.ScoringWorkers))
		if err := queue.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ServerShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if shutdownTracing != nil {
			traceCtx, tcancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer tcancel()
			_ = shutdownTracing(traceCtx)
		}
		return nil
	})

	err = g.Wait()
	slog.Info("shutdown complete")
	return err
}
