package ollama_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/ai-hiring-assessor/internal/adapter/ai/ollama"
	"github.com/fairyhunter13/ai-hiring-assessor/internal/config"
	"github.com/fairyhunter13/ai-hiring-assessor/internal/domain"
)

func testConfig(url string) config.Config {
	return config.Config{
		AppEnv:        "test",
		OllamaURL:     url,
		OllamaModel:   "test-model",
		GenTimeout:    5 * time.Second,
		GenMaxRetries: 2,
	}
}

func TestGenerate_Success(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)

		var req struct {
			Model   string `json:"model"`
			Prompt  string `json:"prompt"`
			System  string `json:"system"`
			Stream  bool   `json:"stream"`
			Options struct {
				Temperature float64 `json:"temperature"`
				TopP        float64 `json:"top_p"`
			} `json:"options"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test-model", req.Model)
		assert.Equal(t, "the prompt", req.Prompt)
		assert.Equal(t, "the system", req.System)
		assert.False(t, req.Stream)
		assert.Equal(t, 0.2, req.Options.Temperature)
		assert.Equal(t, 0.8, req.Options.TopP)

		_ = json.NewEncoder(w).Encode(map[string]string{"response": "hello"})
	}))
	defer srv.Close()

	out, err := ollama.New(testConfig(srv.URL)).Generate(context.Background(), "the prompt", "the system")
	require.NoError(t, err)
	assert.Equal(t, "hello", out)
}

func TestGenerate_RetriesThenSucceeds(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"response": "eventually"})
	}))
	defer srv.Close()

	out, err := ollama.New(testConfig(srv.URL)).Generate(context.Background(), "p", "s")
	require.NoError(t, err)
	assert.Equal(t, "eventually", out)
	assert.Equal(t, int32(3), calls.Load())
}

func TestGenerate_ExhaustedRetriesWrapSentinel(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := ollama.New(testConfig(srv.URL)).Generate(context.Background(), "p", "s")
	assert.ErrorIs(t, err, domain.ErrGenerationUnavailable)
	// Initial attempt plus GenMaxRetries.
	assert.Equal(t, int32(3), calls.Load())
}

func TestGenerate_MalformedBodyRetried(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			_, _ = w.Write([]byte("{not json"))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"response": "fine"})
	}))
	defer srv.Close()

	out, err := ollama.New(testConfig(srv.URL)).Generate(context.Background(), "p", "s")
	require.NoError(t, err)
	assert.Equal(t, "fine", out)
}

func TestGenerate_ContextCancelled(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := ollama.New(testConfig(srv.URL)).Generate(ctx, "p", "s")
	assert.Error(t, err)
}
