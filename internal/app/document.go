package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/abe-mart/contextual/internal/chunker"
	"github.com/abe-mart/contextual/internal/ingest"
	"github.com/abe-mart/contextual/internal/pipeline"
	"github.com/abe-mart/contextual/internal/report"
)

// Сколько терминов показывать в логе после прогона
const summaryTerms = 10

// AnalyzeFile читает файл, анализирует его и сохраняет отчёт.
// Без явного пути отчёт пишется рядом с рабочим каталогом с автоматическим именем.
func (a *App) AnalyzeFile(ctx context.Context, path string) (*report.Report, error) {
	doc, err := a.readers.ReadFile(path, "")
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	a.log.Info("📄 file loaded",
		zap.String("file", path),
		zap.String("format", doc.Format),
		zap.Int("runes", chunker.RuneLen(doc.Text)))

	output := a.outputPath
	if output == "" {
		timestamp := time.Now().Format("20060102_150405")
		output = fmt.Sprintf("%s_terms_%s%s", doc.Title, timestamp, a.format.Extension())
	}
	return a.analyze(ctx, filepath.Base(path), doc, output)
}

// AnalyzeText анализирует введённый текст; отчёт уходит в вывод приложения,
// если путь отчёта не задан явно
func (a *App) AnalyzeText(ctx context.Context, text string) (*report.Report, error) {
	doc := ingest.FromText("input", text)
	output := a.outputPath
	if output == "" {
		output = "-"
	}
	return a.analyze(ctx, doc.Title, doc, output)
}

func (a *App) analyze(ctx context.Context, name string, doc *ingest.Document, output string) (*report.Report, error) {
	result, runErr := a.driver.Run(ctx, doc.Text, func(p pipeline.Progress) {
		a.log.Info(fmt.Sprintf("🔄 window %d/%d", p.Completed, p.Total),
			zap.Int("window", p.Window),
			zap.Int("percent", p.Percent()))
	})
	// Частичный результат есть только при отмене
	if result == nil {
		return nil, runErr
	}

	rep := report.New(name, a.modelName(), a.opts, result)
	a.logSummary(rep)

	if err := a.write(rep, output); err != nil {
		return rep, errors.Join(runErr, err)
	}
	return rep, runErr
}

func (a *App) write(rep *report.Report, output string) error {
	if output == "-" {
		return report.Write(a.out, rep, a.format)
	}
	if err := report.Save(output, rep, a.format); err != nil {
		a.log.Warn("⚠️  failed to save results", zap.Error(err))
		return err
	}
	a.log.Info("💾 results saved", zap.String("path", output))
	return nil
}

func (a *App) logSummary(rep *report.Report) {
	if rep.Partial {
		a.log.Warn("⚠️  partial result",
			zap.Int("analyzed", rep.Analyzed),
			zap.Int("windows", rep.Windows),
			zap.Int("failed", len(rep.Failed)))
	}
	a.log.Info(fmt.Sprintf("🔍 found %d ambiguous terms", len(rep.Terms)))
	for i, t := range rep.Terms {
		if i == summaryTerms {
			a.log.Info(fmt.Sprintf("   ... and %d more", len(rep.Terms)-summaryTerms))
			break
		}
		meanings := make([]string, 0, len(t.PossibleMeanings))
		for _, m := range t.PossibleMeanings {
			meanings = append(meanings, m.Field)
		}
		a.log.Info(fmt.Sprintf("   %d. %s (%d%%)", i+1, t.Term, t.Confidence),
			zap.String("fields", strings.Join(meanings, ", ")),
			zap.Bool("resolved", t.Resolved))
	}
}

func (a *App) modelName() string {
	if m, ok := a.classifier.(interface{ Model() string }); ok {
		return m.Model()
	}
	return ""
}
