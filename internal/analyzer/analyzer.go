// Package analyzer обрабатывает одно окно документа: один вызов классификатора,
// разбор ответа и привязка найденных терминов к абсолютным позициям.
package analyzer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/abe-mart/contextual/internal/chunker"
	"github.com/abe-mart/contextual/internal/terms"
)

// Classifier - внешняя модель: по тексту окна возвращает сырой структурированный ответ
type Classifier interface {
	Classify(ctx context.Context, text string) ([]byte, error)
}

// ClassifierFunc позволяет использовать функцию как Classifier
type ClassifierFunc func(ctx context.Context, text string) ([]byte, error)

func (f ClassifierFunc) Classify(ctx context.Context, text string) ([]byte, error) {
	return f(ctx, text)
}

// ClassifierCallError - вызов классификатора для окна завершился ошибкой
// (транспорт, авторизация, лимиты, таймаут)
type ClassifierCallError struct {
	Window int
	Err    error
}

func (e *ClassifierCallError) Error() string {
	return fmt.Sprintf("classifier call failed for window %d: %v", e.Window, e.Err)
}

func (e *ClassifierCallError) Unwrap() error {
	return e.Err
}

// Report - итог анализа одного окна
type Report struct {
	Window     int
	Terms      []terms.Term // Термины с абсолютными позициями
	Candidates int          // Сколько записей вернул классификатор
	Unresolved int          // Сколько терминов не найдено дословно в окне
	Dropped    int          // Записи без термина
	ParseErr   error        // Ответ не разобран; окно дало ноль терминов
	Duration   time.Duration
}

// Analyzer выполняет анализ окон
type Analyzer struct {
	classifier Classifier
	timeout    time.Duration
	log        *zap.Logger
}

// New создаёт анализатор. timeout <= 0 - без ограничения на вызов.
func New(c Classifier, timeout time.Duration, log *zap.Logger) *Analyzer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Analyzer{classifier: c, timeout: timeout, log: log}
}

// Analyze вызывает классификатор ровно один раз для текста окна.
// Ошибка вызова возвращается как *ClassifierCallError; неразбираемый ответ
// не является ошибкой и даёт пустой отчёт с ParseErr.
func (a *Analyzer) Analyze(ctx context.Context, w chunker.Window) (Report, error) {
	report := Report{Window: w.Index}

	callCtx := ctx
	if a.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	started := time.Now()
	raw, err := a.classifier.Classify(callCtx, w.Text)
	report.Duration = time.Since(started)
	if err != nil {
		return report, &ClassifierCallError{Window: w.Index, Err: err}
	}

	candidates, err := terms.Normalize(raw)
	if err != nil {
		a.log.Warn("⚠️  unparseable classifier response, window yields no terms",
			zap.Int("window", w.Index),
			zap.String("window_id", w.ID()),
			zap.Error(err),
			zap.String("payload", chunker.Preview(string(raw), 200)))
		report.ParseErr = err
		return report, nil
	}

	report.Candidates = len(candidates)
	report.Terms = make([]terms.Term, 0, len(candidates))
	for _, c := range candidates {
		c.Term = strings.TrimSpace(c.Term)
		if c.Term == "" {
			report.Dropped++
			a.log.Debug("dropping candidate without term", zap.Int("window", w.Index))
			continue
		}

		c.Window = w.Index
		if span, ok := terms.Locate(c.Term, w); ok {
			c.Place(span)
		} else {
			c.Unresolve()
			report.Unresolved++
			a.log.Debug("term not found verbatim in window",
				zap.Int("window", w.Index),
				zap.String("term", c.Term))
		}
		report.Terms = append(report.Terms, c)
	}

	return report, nil
}
