package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/ai-hiring-assessor/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.AppEnv)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 120*time.Second, cfg.GenTimeout)
	assert.Equal(t, uint64(2), cfg.GenMaxRetries)
	assert.Equal(t, 6000, cfg.PromptTokenBudget)
	assert.Equal(t, 2, cfg.ScoringWorkers)
	assert.Equal(t, 256, cfg.ScoringQueueDepth)
	assert.Equal(t, 10*time.Second, cfg.RescoreMinGap)
	assert.True(t, cfg.IsDev())
	assert.False(t, cfg.IsProd())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("APP_ENV", "prod")
	t.Setenv("PORT", "9999")
	t.Setenv("SCORING_WORKERS", "8")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.True(t, cfg.IsProd())
	assert.Equal(t, 9999, cfg.Port)
	assert.Equal(t, 8, cfg.ScoringWorkers)
}

func TestGetGenBackoffConfig_TestModeIsFast(t *testing.T) {
	cfg := config.Config{AppEnv: "test"}
	initial, max := cfg.GetGenBackoffConfig()
	assert.Equal(t, 10*time.Millisecond, initial)
	assert.Equal(t, 100*time.Millisecond, max)

	cfg = config.Config{
		AppEnv:                    "prod",
		GenBackoffInitialInterval: time.Second,
		GenBackoffMaxInterval:     10 * time.Second,
	}
	initial, max = cfg.GetGenBackoffConfig()
	assert.Equal(t, time.Second, initial)
	assert.Equal(t, 10*time.Second, max)
}
