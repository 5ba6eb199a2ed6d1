// Package app связывает конфигурацию, классификатор, пайплайн, чтение документов и отчёты.
package app

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/abe-mart/contextual/internal/analyzer"
	"github.com/abe-mart/contextual/internal/classifier"
	"github.com/abe-mart/contextual/internal/config"
	"github.com/abe-mart/contextual/internal/ingest"
	"github.com/abe-mart/contextual/internal/pipeline"
	"github.com/abe-mart/contextual/internal/report"
)

type App struct {
	cfg        *config.Config
	log        *zap.Logger
	classifier analyzer.Classifier
	driver     *pipeline.Driver
	opts       pipeline.Options
	readers    *ingest.Factory
	format     report.Format
	outputPath string
	in         io.Reader
	out        io.Writer
	registry   prometheus.Registerer
}

// Option настраивает приложение
type Option func(*App)

// WithClassifier подменяет HTTP-классификатор (тесты, другие бэкенды)
func WithClassifier(c analyzer.Classifier) Option {
	return func(a *App) { a.classifier = c }
}

// WithRegistry включает метрики пайплайна в указанном реестре
func WithRegistry(reg prometheus.Registerer) Option {
	return func(a *App) { a.registry = reg }
}

// WithIO задаёт вход интерактивного режима и вывод отчётов по тексту
func WithIO(in io.Reader, out io.Writer) Option {
	return func(a *App) {
		a.in = in
		a.out = out
	}
}

func New(cfg *config.Config, log *zap.Logger, opts ...Option) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	format, err := report.ParseFormat(cfg.OutputFormat)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}

	a := &App{
		cfg:     cfg,
		log:     log,
		readers: ingest.NewFactory(),
		format:  format,
		in:      os.Stdin,
		out:     os.Stdout,
		opts: pipeline.Options{
			ChunkSize:     cfg.ChunkSize,
			Overlap:       cfg.ChunkOverlap,
			Concurrency:   cfg.MaxConcurrency,
			WindowTimeout: cfg.WindowTimeout,
			SkipFailed:    cfg.SkipFailedWindows,
		},
	}
	for _, opt := range opts {
		opt(a)
	}

	if a.classifier == nil {
		c, err := classifier.New(classifier.Config{
			URL:            cfg.LlmURL,
			Key:            cfg.LlmKey,
			Model:          cfg.LlmModel,
			Temperature:    cfg.Temperature,
			MaxTokens:      cfg.MaxTokens,
			MaxInputTokens: cfg.MaxInputTokens,
		}, log.Named("classifier"))
		if err != nil {
			return nil, fmt.Errorf("failed to create classifier: %w", err)
		}
		a.classifier = c
	}

	var metrics *pipeline.Metrics
	if a.registry != nil {
		metrics = pipeline.NewMetrics(a.registry)
	}
	a.driver = pipeline.NewDriver(a.classifier, a.opts, log.Named("pipeline"), metrics)

	return a, nil
}

// SetOutputPath задаёт файл отчёта; "-" - стандартный вывод
func (a *App) SetOutputPath(path string) {
	a.outputPath = path
}

// Init проверяет доступность модели, если это не отключено
func (a *App) Init(ctx context.Context) error {
	if a.cfg.SkipModelCheck {
		a.log.Info("⏭️  model check skipped")
		return nil
	}
	p, ok := a.classifier.(interface{ Ping(context.Context) error })
	if !ok {
		return nil
	}
	if err := p.Ping(ctx); err != nil {
		return fmt.Errorf("model check failed: %w", err)
	}
	return nil
}
