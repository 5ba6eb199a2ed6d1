// Package config читает настройки из окружения (и .env через cmd).
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"

	"github.com/abe-mart/contextual/internal/chunker"
)

type Config struct {
	// LLM
	LlmURL         string  `env:"LLM_URL" envDefault:"http://localhost:11434/v1"`
	LlmKey         string  `env:"LLM_API_KEY"`
	LlmModel       string  `env:"LLM_MODEL" envDefault:"gemma2:2b"`
	Temperature    float64 `env:"LLM_TEMPERATURE" envDefault:"0.2"`
	MaxTokens      int     `env:"LLM_MAX_TOKENS" envDefault:"2048"`
	MaxInputTokens int     `env:"LLM_MAX_INPUT_TOKENS" envDefault:"0"`
	SkipModelCheck bool    `env:"SKIP_MODEL_CHECK" envDefault:"false"`

	// Разбиение и прогон
	ChunkSize         int           `env:"CHUNK_SIZE" envDefault:"3000"`
	ChunkOverlap      int           `env:"CHUNK_OVERLAP" envDefault:"200"`
	MaxConcurrency    int           `env:"MAX_CONCURRENCY" envDefault:"1"`
	WindowTimeout     time.Duration `env:"WINDOW_TIMEOUT" envDefault:"2m"`
	SkipFailedWindows bool          `env:"SKIP_FAILED_WINDOWS" envDefault:"false"`

	// Вывод
	LogLevel     string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat    string `env:"LOG_FORMAT" envDefault:"console"`
	MetricsAddr  string `env:"METRICS_ADDR"`
	OutputFormat string `env:"OUTPUT_FORMAT" envDefault:"markdown"`
}

func Init(cfg interface{}) error {
	return env.Parse(cfg)
}

// Validate проверяет настройки до начала работы
func (c *Config) Validate() error {
	if err := (chunker.Config{ChunkSize: c.ChunkSize, Overlap: c.ChunkOverlap}).Validate(); err != nil {
		return err
	}
	if c.MaxConcurrency < 1 {
		return fmt.Errorf("MAX_CONCURRENCY must be at least 1, got %d", c.MaxConcurrency)
	}
	if c.WindowTimeout < 0 {
		return fmt.Errorf("WINDOW_TIMEOUT must not be negative, got %s", c.WindowTimeout)
	}
	if c.MaxInputTokens < 0 {
		return fmt.Errorf("LLM_MAX_INPUT_TOKENS must not be negative, got %d", c.MaxInputTokens)
	}
	if c.LlmURL == "" || c.LlmModel == "" {
		return fmt.Errorf("LLM_URL and LLM_MODEL are required")
	}
	return nil
}
