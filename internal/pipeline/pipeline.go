// Package pipeline ведёт анализ документа целиком: разбиение на окна,
// анализ каждого окна, прогресс и слияние результатов.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/abe-mart/contextual/internal/analyzer"
	"github.com/abe-mart/contextual/internal/chunker"
	"github.com/abe-mart/contextual/internal/terms"
)

// Options - параметры прогона
type Options struct {
	ChunkSize     int
	Overlap       int
	Concurrency   int           // Сколько окон анализировать одновременно; 1 - строго по порядку
	WindowTimeout time.Duration // Таймаут одного вызова классификатора; 0 - без ограничения
	SkipFailed    bool          // Пропускать окна с ошибкой вызова вместо остановки прогона
}

// DefaultOptions возвращает значения по умолчанию
func DefaultOptions() Options {
	def := chunker.DefaultConfig()
	return Options{
		ChunkSize:     def.ChunkSize,
		Overlap:       def.Overlap,
		Concurrency:   1,
		WindowTimeout: 2 * time.Minute,
	}
}

// WindowFailure - окно, пропущенное из-за ошибки вызова классификатора
type WindowFailure struct {
	Window int
	Err    error
}

// Result - итог прогона
type Result struct {
	Terms         []terms.Term
	Windows       int // Всего окон
	Analyzed      int // Окон с ответом классификатора (включая неразобранные)
	ParseFailures int
	Unresolved    int
	Failed        []WindowFailure
	Partial       bool // Результат покрывает не все окна
}

// Driver запускает прогоны
type Driver struct {
	opts       Options
	classifier analyzer.Classifier
	log        *zap.Logger
	metrics    *Metrics
}

// NewDriver создаёт драйвер. metrics может быть nil.
func NewDriver(c analyzer.Classifier, opts Options, log *zap.Logger, metrics *Metrics) *Driver {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	return &Driver{opts: opts, classifier: c, log: log, metrics: metrics}
}

// Run - прогон документа; предоставляет поток прогресса и итог
type Run struct {
	progress chan Progress
	done     chan struct{}
	result   *Result
	err      error
}

// Progress возвращает канал событий прогресса. Канал закрывается по окончании прогона.
func (r *Run) Progress() <-chan Progress {
	return r.progress
}

// Wait дожидается окончания прогона.
// При ошибке вызова классификатора (без SkipFailed) результат nil.
// При отмене возвращается частичный результат вместе с ошибкой контекста.
func (r *Run) Wait() (*Result, error) {
	<-r.done
	return r.result, r.err
}

// Start разбивает документ и запускает анализ в фоне.
// Ошибка конфигурации разбиения возвращается из Wait сразу, без вызовов классификатора.
func (d *Driver) Start(ctx context.Context, document string) *Run {
	run := &Run{done: make(chan struct{})}

	if strings.TrimSpace(document) == "" {
		run.progress = make(chan Progress)
		run.result = &Result{Terms: []terms.Term{}}
		close(run.progress)
		close(run.done)
		return run
	}

	windows, err := chunker.Split(document, d.opts.ChunkSize, d.opts.Overlap)
	if err != nil {
		run.progress = make(chan Progress)
		run.err = err
		close(run.progress)
		close(run.done)
		return run
	}

	d.log.Info("📦 document split into windows",
		zap.Int("windows", len(windows)),
		zap.Int("chunk_size", d.opts.ChunkSize),
		zap.Int("overlap", d.opts.Overlap),
		zap.Int("concurrency", d.opts.Concurrency))

	// Буфер на все окна: отправка прогресса никогда не блокирует анализ
	run.progress = make(chan Progress, len(windows))
	go func() {
		defer close(run.done)
		defer close(run.progress)
		run.result, run.err = d.execute(ctx, windows, run.progress)
	}()
	return run
}

// Run выполняет прогон синхронно; onProgress (может быть nil) вызывается
// в горутине вызывающего после каждого окна.
func (d *Driver) Run(ctx context.Context, document string, onProgress func(Progress)) (*Result, error) {
	run := d.Start(ctx, document)
	for p := range run.Progress() {
		if onProgress != nil {
			onProgress(p)
		}
	}
	return run.Wait()
}

func (d *Driver) execute(ctx context.Context, windows []chunker.Window, progress chan<- Progress) (*Result, error) {
	an := analyzer.New(d.classifier, d.opts.WindowTimeout, d.log)

	reports := make([]*analyzer.Report, len(windows))
	failures := make([]error, len(windows))

	var mu sync.Mutex
	completed := 0

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.opts.Concurrency)

	for i, w := range windows {
		// Отмена проверяется между окнами
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}

			report, err := an.Analyze(gctx, w)
			// Окно прервано отменой прогона - не считается ни успехом, ни сбоем
			if err != nil && gctx.Err() != nil && errors.Is(err, gctx.Err()) {
				return nil
			}
			d.metrics.observe(report, err)

			mu.Lock()
			if err != nil {
				failures[i] = err
			} else {
				reports[i] = &report
			}
			completed++
			progress <- Progress{Completed: completed, Total: len(windows), Window: w.Index}
			mu.Unlock()

			if err != nil {
				d.log.Error("❌ window analysis failed",
					zap.Int("window", w.Index),
					zap.Int("start", w.Start),
					zap.Error(err))
				if d.opts.SkipFailed {
					return nil
				}
				return err
			}

			d.log.Debug("window analyzed",
				zap.Int("window", w.Index),
				zap.Int("terms", len(report.Terms)),
				zap.Int("unresolved", report.Unresolved),
				zap.Duration("took", report.Duration))
			return nil
		})
	}

	err := g.Wait()

	if ctxErr := ctx.Err(); ctxErr != nil {
		result := d.collect(windows, reports, failures)
		result.Partial = true
		d.log.Warn("⏹️  analysis cancelled",
			zap.Int("completed", completed),
			zap.Int("windows", len(windows)))
		return result, fmt.Errorf("analysis cancelled: %w", ctxErr)
	}
	if err != nil {
		return nil, err
	}

	result := d.collect(windows, reports, failures)
	d.log.Info("📊 analysis summary",
		zap.Int("windows", result.Windows),
		zap.Int("analyzed", result.Analyzed),
		zap.Int("failed", len(result.Failed)),
		zap.Int("parse_failures", result.ParseFailures),
		zap.Int("unresolved", result.Unresolved),
		zap.Int("terms", len(result.Terms)))
	return result, nil
}

// collect собирает термины в порядке подачи окон, а не завершения,
// поэтому итог слияния не зависит от планирования
func (d *Driver) collect(windows []chunker.Window, reports []*analyzer.Report, failures []error) *Result {
	result := &Result{Windows: len(windows)}

	var all []terms.Term
	for i := range windows {
		if failures[i] != nil {
			result.Failed = append(result.Failed, WindowFailure{Window: i, Err: failures[i]})
			continue
		}
		r := reports[i]
		if r == nil {
			continue
		}
		result.Analyzed++
		if r.ParseErr != nil {
			result.ParseFailures++
		}
		result.Unresolved += r.Unresolved
		all = append(all, r.Terms...)
	}

	result.Terms = terms.Merge(all)
	result.Partial = len(result.Failed) > 0 || result.Analyzed < result.Windows
	return result
}
