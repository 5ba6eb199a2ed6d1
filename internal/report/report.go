// Package report сохраняет итог анализа документа в markdown, JSON или YAML.
package report

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/abe-mart/contextual/internal/pipeline"
	"github.com/abe-mart/contextual/internal/terms"
)

// Format - формат отчёта
type Format string

const (
	Markdown Format = "markdown"
	JSON     Format = "json"
	YAML     Format = "yaml"
)

// ParseFormat разбирает название формата
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "markdown", "md":
		return Markdown, nil
	case "json":
		return JSON, nil
	case "yaml", "yml":
		return YAML, nil
	default:
		return "", fmt.Errorf("unknown report format: %s", s)
	}
}

// Extension - расширение файла для формата
func (f Format) Extension() string {
	switch f {
	case JSON:
		return ".json"
	case YAML:
		return ".yaml"
	default:
		return ".md"
	}
}

// Failure - окно, пропущенное из-за ошибки классификатора
type Failure struct {
	Window int    `json:"window" yaml:"window"`
	Error  string `json:"error" yaml:"error"`
}

// Report - полный результат анализа документа
type Report struct {
	RunID         string       `json:"runId" yaml:"runId"`
	FileName      string       `json:"fileName" yaml:"fileName"`
	Model         string       `json:"model,omitempty" yaml:"model,omitempty"`
	ProcessedAt   time.Time    `json:"processedAt" yaml:"processedAt"`
	ChunkSize     int          `json:"chunkSize" yaml:"chunkSize"`
	Overlap       int          `json:"overlap" yaml:"overlap"`
	Windows       int          `json:"windows" yaml:"windows"`
	Analyzed      int          `json:"analyzed" yaml:"analyzed"`
	ParseFailures int          `json:"parseFailures" yaml:"parseFailures"`
	Unresolved    int          `json:"unresolved" yaml:"unresolved"`
	Partial       bool         `json:"partial" yaml:"partial"`
	Failed        []Failure    `json:"failed,omitempty" yaml:"failed,omitempty"`
	Terms         []terms.Term `json:"terms" yaml:"terms"`
}

// New собирает отчёт из результата прогона
func New(fileName, model string, opts pipeline.Options, res *pipeline.Result) *Report {
	r := &Report{
		RunID:       uuid.NewString(),
		FileName:    fileName,
		Model:       model,
		ProcessedAt: time.Now().UTC().Truncate(time.Second),
		ChunkSize:   opts.ChunkSize,
		Overlap:     opts.Overlap,
		Terms:       []terms.Term{},
	}
	if res == nil {
		return r
	}

	r.Windows = res.Windows
	r.Analyzed = res.Analyzed
	r.ParseFailures = res.ParseFailures
	r.Unresolved = res.Unresolved
	r.Partial = res.Partial
	if res.Terms != nil {
		r.Terms = res.Terms
	}
	for _, f := range res.Failed {
		r.Failed = append(r.Failed, Failure{Window: f.Window, Error: f.Err.Error()})
	}
	return r
}

// Write пишет отчёт в выбранном формате
func Write(w io.Writer, r *Report, f Format) error {
	switch f {
	case JSON:
		return writeJSON(w, r)
	case YAML:
		return writeYAML(w, r)
	case Markdown:
		return writeMarkdown(w, r)
	default:
		return fmt.Errorf("unknown report format: %s", f)
	}
}

// Save сохраняет отчёт в файл
func Save(path string, r *Report, f Format) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	if err := Write(file, r, f); err != nil {
		file.Close()
		return fmt.Errorf("write report: %w", err)
	}
	return file.Close()
}
