package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abe-mart/contextual/internal/chunker"
)

func TestInitDefaults(t *testing.T) {
	var cfg Config
	require.NoError(t, Init(&cfg))

	assert.Equal(t, "http://localhost:11434/v1", cfg.LlmURL)
	assert.Equal(t, "gemma2:2b", cfg.LlmModel)
	assert.Equal(t, 3000, cfg.ChunkSize)
	assert.Equal(t, 200, cfg.ChunkOverlap)
	assert.Equal(t, 1, cfg.MaxConcurrency)
	assert.Equal(t, 2*time.Minute, cfg.WindowTimeout)
	assert.False(t, cfg.SkipFailedWindows)
	assert.Equal(t, "markdown", cfg.OutputFormat)
	assert.NoError(t, cfg.Validate())
}

func TestInitFromEnv(t *testing.T) {
	t.Setenv("LLM_URL", "https://api.openai.com/v1")
	t.Setenv("LLM_API_KEY", "sk-test")
	t.Setenv("CHUNK_SIZE", "1500")
	t.Setenv("CHUNK_OVERLAP", "0")
	t.Setenv("MAX_CONCURRENCY", "4")
	t.Setenv("WINDOW_TIMEOUT", "30s")
	t.Setenv("SKIP_FAILED_WINDOWS", "true")

	var cfg Config
	require.NoError(t, Init(&cfg))

	assert.Equal(t, "https://api.openai.com/v1", cfg.LlmURL)
	assert.Equal(t, "sk-test", cfg.LlmKey)
	assert.Equal(t, 1500, cfg.ChunkSize)
	assert.Equal(t, 0, cfg.ChunkOverlap)
	assert.Equal(t, 4, cfg.MaxConcurrency)
	assert.Equal(t, 30*time.Second, cfg.WindowTimeout)
	assert.True(t, cfg.SkipFailedWindows)
	assert.NoError(t, cfg.Validate())
}

func TestInitRejectsMalformedValues(t *testing.T) {
	t.Setenv("CHUNK_SIZE", "big")
	var cfg Config
	assert.Error(t, Init(&cfg))
}

func TestValidate(t *testing.T) {
	base := func() Config {
		var cfg Config
		require.NoError(t, Init(&cfg))
		return cfg
	}

	tests := []struct {
		name     string
		mutate   func(*Config)
		chunking bool
	}{
		{"zero chunk size", func(c *Config) { c.ChunkSize = 0 }, true},
		{"overlap equals size", func(c *Config) { c.ChunkOverlap = c.ChunkSize }, true},
		{"negative overlap", func(c *Config) { c.ChunkOverlap = -1 }, true},
		{"no concurrency", func(c *Config) { c.MaxConcurrency = 0 }, false},
		{"negative timeout", func(c *Config) { c.WindowTimeout = -time.Second }, false},
		{"negative token budget", func(c *Config) { c.MaxInputTokens = -5 }, false},
		{"no model", func(c *Config) { c.LlmModel = "" }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			if tt.chunking {
				assert.ErrorIs(t, err, chunker.ErrInvalidConfig)
			} else {
				assert.NotErrorIs(t, err, chunker.ErrInvalidConfig)
			}
		})
	}
}
