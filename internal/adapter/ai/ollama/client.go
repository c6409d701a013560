// Package ollama implements domain.Generator against an Ollama-compatible
// generate API.
package ollama

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	backoff "github.com/cenkalti/backoff/v4"

	"github.com/fairyhunter13/ai-hiring-assessor/internal/adapter/observability"
	"github.com/fairyhunter13/ai-hiring-assessor/internal/config"
	"github.com/fairyhunter13/ai-hiring-assessor/internal/domain"
)

// Client calls the generate endpoint with bounded retries. Decoding uses low
// temperature and nucleus sampling so that identical scoring prompts produce
// stable completions.
type Client struct {
	cfg config.Config
	hc  *http.Client
}

// New constructs a Client with the configured per-call timeout.
func New(cfg config.Config) *Client {
	return &Client{
		cfg: cfg,
		hc:  &http.Client{Timeout: cfg.GenTimeout},
	}
}

type generateRequest struct {
	Model   string          `json:"model"`
	Prompt  string          `json:"prompt"`
	System  string          `json:"system"`
	Stream  bool            `json:"stream"`
	Options generateOptions `json:"options"`
}

type generateOptions struct {
	Temperature float64 `json:"temperature"`
	TopP        float64 `json:"top_p"`
}

// Generate returns the raw text completion for (prompt, system). Any failure
// (transport, non-2xx status, malformed body) is retried with exponential
// backoff; after retries are exhausted the error wraps
// domain.ErrGenerationUnavailable.
func (c *Client) Generate(ctx domain.Context, prompt, system string) (string, error) {
	body, _ := json.Marshal(generateRequest{
		Model:  c.cfg.OllamaModel,
		Prompt: prompt,
		System: system,
		Stream: false,
		Options: generateOptions{
			Temperature: 0.2,
			TopP:        0.8,
		},
	})

	var out struct {
		Response string `json:"response"`
	}
	op := func() error {
		start := time.Now()
		// Recreate the request each attempt to avoid reusing a consumed body.
		r, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.OllamaURL+"/api/generate", bytes.NewReader(body))
		if err != nil {
			return backoff.Permanent(err)
		}
		r.Header.Set("Content-Type", "application/json")
		resp, err := c.hc.Do(r)
		observability.GenRequestDuration.WithLabelValues("generate").Observe(time.Since(start).Seconds())
		if err != nil {
			observability.GenRequestsTotal.WithLabelValues("generate", "transport_error").Inc()
			slog.Warn("generation transport error", slog.Any("error", err))
			return err
		}
		defer func() { _ = resp.Body.Close() }()
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			observability.GenRequestsTotal.WithLabelValues("generate", "bad_status").Inc()
			snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			slog.Warn("generation non-2xx",
				slog.Int("status", resp.StatusCode),
				slog.String("model", c.cfg.OllamaModel),
				slog.String("body", string(snippet)))
			return fmt.Errorf("generate status %d", resp.StatusCode)
		}
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			observability.GenRequestsTotal.WithLabelValues("generate", "decode_error").Inc()
			slog.Warn("generation decode error", slog.Any("error", err))
			return err
		}
		observability.GenRequestsTotal.WithLabelValues("generate", "ok").Inc()
		return nil
	}

	expo := backoff.NewExponentialBackOff()
	expo.InitialInterval, expo.MaxInterval = c.cfg.GetGenBackoffConfig()
	expo.MaxElapsedTime = 0 // bounded by attempt count, not wall clock
	bo := backoff.WithContext(backoff.WithMaxRetries(expo, c.cfg.GenMaxRetries), ctx)

	if err := backoff.Retry(op, bo); err != nil {
		slog.Error("generation failed after retries",
			slog.String("model", c.cfg.OllamaModel),
			slog.Any("error", err))
		return "", fmt.Errorf("%w: %v", domain.ErrGenerationUnavailable, err)
	}
	return out.Response, nil
}
