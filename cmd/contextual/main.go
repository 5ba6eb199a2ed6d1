// Command contextual находит в документах термины, значение которых зависит от научной области.
//
// Usage:
//
//	contextual lecture.md paper.pdf        # анализ файлов, отчёт рядом
//	contextual --output - --format json x  # отчёт в stdout
//	contextual                             # интерактивный режим: пути или текст из stdin
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abe-mart/contextual/internal/app"
	"github.com/abe-mart/contextual/internal/config"
	"github.com/abe-mart/contextual/internal/logging"
)

var (
	outputFile  string
	format      string
	chunkSize   int
	overlap     int
	concurrency int
	skipFailed  bool
	envFile     string
	metricsAddr string
)

var rootCmd = &cobra.Command{
	Use:   "contextual [files...]",
	Short: "Find discipline-dependent terms in documents",
	Long: `Split documents into overlapping windows, ask an OpenAI-compatible LLM for terms
whose meaning depends on the academic field, and merge the findings into one report.
Without arguments paths or raw text are read line by line from stdin.`,
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	f := rootCmd.Flags()
	f.StringVarP(&outputFile, "output", "o", "", "report file (\"-\" for stdout, default: auto-named per file)")
	f.StringVarP(&format, "format", "f", "", "report format: markdown, json, yaml")
	f.IntVar(&chunkSize, "chunk-size", 0, "window size in characters")
	f.IntVar(&overlap, "overlap", -1, "overlap between windows in characters")
	f.IntVarP(&concurrency, "concurrency", "c", 0, "windows analyzed in parallel")
	f.BoolVar(&skipFailed, "skip-failed", false, "skip windows whose classifier call fails and mark the report partial")
	f.StringVar(&envFile, "env-file", ".env", "dotenv file to load (optional)")
	f.StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address, e.g. :9090")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	if len(args) > 1 && outputFile != "" && outputFile != "-" {
		return errors.New("--output with several files would overwrite the report; omit it to auto-name reports")
	}

	// Загружаем .env (опционально)
	_ = godotenv.Load(envFile)

	// Флаги имеют приоритет над окружением
	setEnvFromFlags(cmd)

	cfg := config.Config{}
	if err := config.Init(&cfg); err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var opts []app.Option
	if cfg.MetricsAddr != "" {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		opts = append(opts, app.WithRegistry(reg))
		serveMetrics(ctx, logger, cfg.MetricsAddr, reg)
	}

	a, err := app.New(&cfg, logger, opts...)
	if err != nil {
		return fmt.Errorf("failed to create app: %w", err)
	}
	if outputFile != "" {
		a.SetOutputPath(outputFile)
	}

	logger.Info("🚀 contextual started",
		zap.String("llm", cfg.LlmURL),
		zap.String("model", cfg.LlmModel),
		zap.Int("chunk_size", cfg.ChunkSize),
		zap.Int("overlap", cfg.ChunkOverlap),
		zap.Int("concurrency", cfg.MaxConcurrency))

	if err := a.Init(ctx); err != nil {
		return fmt.Errorf("failed to initialize app: %w", err)
	}

	if len(args) == 0 {
		return a.Run(ctx)
	}
	return a.AnalyzeFiles(ctx, args)
}

// setEnvFromFlags переносит явно заданные флаги в переменные окружения до разбора конфига
func setEnvFromFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	set := func(flag, key, value string) {
		if f.Changed(flag) {
			_ = os.Setenv(key, value)
		}
	}
	set("format", "OUTPUT_FORMAT", format)
	set("chunk-size", "CHUNK_SIZE", strconv.Itoa(chunkSize))
	set("overlap", "CHUNK_OVERLAP", strconv.Itoa(overlap))
	set("concurrency", "MAX_CONCURRENCY", strconv.Itoa(concurrency))
	set("skip-failed", "SKIP_FAILED_WINDOWS", strconv.FormatBool(skipFailed))
	set("metrics-addr", "METRICS_ADDR", metricsAddr)
}

func serveMetrics(ctx context.Context, logger *zap.Logger, addr string, reg *prometheus.Registry) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		logger.Info("📈 metrics server listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", zap.Error(err))
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
}
