package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// Поддерживаемые расширения файлов в интерактивном режиме
var supportedExt = map[string]bool{".md": true, ".markdown": true, ".txt": true, ".pdf": true}

// Run - интерактивный режим: каждая строка входа это путь к файлу или текст для анализа
func (a *App) Run(ctx context.Context) error {
	a.log.Info("Application started")
	a.log.Info("Enter a file path or text to analyze (one per line). Ctrl+C to exit.")

	scanner := bufio.NewScanner(a.in)

	// Увеличим буфер, если пути/строки будут длинные
	const maxLineSize = 1024 * 1024
	buf := make([]byte, 64*1024)
	scanner.Buffer(buf, maxLineSize)

	for {
		select {
		case <-ctx.Done():
			a.log.Info("Shutting down application")
			return nil
		default:
			if !scanner.Scan() {
				if err := scanner.Err(); err != nil {
					return fmt.Errorf("stdin error: %w", err)
				}
				a.log.Info("stdin closed")
				return nil
			}

			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			a.handleLine(ctx, line)
		}
	}
}

// AnalyzeFiles анализирует файлы по очереди; ошибка одного файла не останавливает остальные,
// отмена контекста останавливает всё
func (a *App) AnalyzeFiles(ctx context.Context, paths []string) error {
	var errs []error
	for _, path := range paths {
		if _, err := a.AnalyzeFile(ctx, path); err != nil {
			a.log.Error("❌ processing failed", zap.String("file", path), zap.Error(err))
			errs = append(errs, fmt.Errorf("%s: %w", path, err))
			if ctx.Err() != nil {
				break
			}
		}
	}
	return errors.Join(errs...)
}

func (a *App) handleLine(ctx context.Context, line string) {
	a.log.Debug("received input", zap.String("input", line))

	// Проверяем, это файл или текст
	if info, err := os.Stat(line); err == nil && !info.IsDir() {
		ext := strings.ToLower(filepath.Ext(line))
		if !supportedExt[ext] {
			a.log.Error("❌ unsupported format", zap.String("ext", ext))
			return
		}
		if _, err := a.AnalyzeFile(ctx, line); err != nil {
			a.log.Error("❌ processing failed", zap.Error(err))
		}
		return
	}

	// Это просто текст
	if _, err := a.AnalyzeText(ctx, line); err != nil {
		a.log.Error("❌ analysis failed", zap.Error(err))
	}
}
