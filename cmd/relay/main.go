// Command relay is a thin edge proxy for deployments where the public host
// cannot reach the model backend directly. It forwards the two stateless
// generation RPCs to the main server, attaching the shared internal key.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
)

type relayConfig struct {
	Port        int           `env:"RELAY_PORT" envDefault:"8081"`
	UpstreamURL string        `env:"UPSTREAM_URL" envDefault:"http://localhost:8080"`
	InternalKey string        `env:"INTERNAL_API_KEY"`
	Timeout     time.Duration `env:"RELAY_TIMEOUT" envDefault:"180s"`
}

func main() {
	_ = godotenv.Load()

	var cfg relayConfig
	if err := env.Parse(&cfg); err != nil {
		slog.Error("relay config parse failed", slog.Any("error", err))
		os.Exit(1)
	}
	if cfg.InternalKey == "" {
		slog.Error("INTERNAL_API_KEY is required")
		os.Exit(1)
	}

	client := &http.Client{Timeout: cfg.Timeout}
	forward := func(path string) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			req, err := http.NewRequestWithContext(r.Context(), http.MethodPost, cfg.UpstreamURL+path, r.Body)
			if err != nil {
				http.Error(w, "bad upstream request", http.StatusInternalServerError)
				return
			}
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("X-Internal-Key", cfg.InternalKey)
			if id := r.Header.Get("X-Request-Id"); id != "" {
				req.Header.Set("X-Request-Id", id)
			}
			resp, err := client.Do(req)
			if err != nil {
				slog.Error("upstream call failed", slog.String("path", path), slog.Any("error", err))
				http.Error(w, "upstream unavailable", http.StatusBadGateway)
				return
			}
			defer func() { _ = resp.Body.Close() }()
			w.Header().Set("Content-Type", resp.Header.Get("Content-Type"))
			w.WriteHeader(resp.StatusCode)
			_, _ = io.Copy(w, resp.Body)
		}
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Logger)
	r.Post("/generate-exam", forward("/internal/v1/exams"))
	r.Post("/grade-open-ended", forward("/internal/v1/grades"))
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	slog.Info("relay listening", slog.String("addr", addr), slog.String("upstream", cfg.UpstreamURL))
	srv := &http.Server{Addr: addr, Handler: r, ReadTimeout: 15 * time.Second, WriteTimeout: cfg.Timeout + 10*time.Second}
	if err := srv.ListenAndServe(); err != nil {
		slog.Error("relay exited", slog.Any("error", err))
		os.Exit(1)
	}
}
