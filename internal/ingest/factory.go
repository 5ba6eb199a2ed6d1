// Package ingest читает документы с диска и превращает их в плоский текст для анализа.
package ingest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Reader извлекает текст из содержимого файла
type Reader interface {
	Name() string
	Read(raw []byte) (string, error)
}

// Document - прочитанный и очищенный документ
type Document struct {
	Path   string
	Title  string
	Format string // Имя ридера
	Text   string
}

// Factory выбирает ридер по явному формату или расширению файла
type Factory struct{}

// NewFactory создаёт фабрику ридеров
func NewFactory() *Factory {
	return &Factory{}
}

// GetReader возвращает ридер для файла. format может быть пустым.
func (f *Factory) GetReader(filePath, format string) (Reader, error) {
	// Если формат явно указан - используем его
	if format != "" {
		return f.GetReaderByFormat(format)
	}

	// Иначе определяем по расширению файла
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".md", ".markdown":
		return MarkdownReader{}, nil
	case ".pdf":
		return PDFReader{}, nil
	default:
		return TextReader{}, nil
	}
}

// GetReaderByFormat возвращает ридер по названию формата
func (f *Factory) GetReaderByFormat(format string) (Reader, error) {
	switch strings.ToLower(format) {
	case "markdown", "md":
		return MarkdownReader{}, nil
	case "pdf":
		return PDFReader{}, nil
	case "text", "txt", "plain":
		return TextReader{}, nil
	default:
		return nil, fmt.Errorf("unknown document format: %s", format)
	}
}

// ReadFile читает файл, извлекает текст подходящим ридером и очищает его
func (f *Factory) ReadFile(path, format string) (*Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	r, err := f.GetReader(path, format)
	if err != nil {
		return nil, err
	}

	text, err := r.Read(raw)
	if err != nil {
		return nil, fmt.Errorf("%s reader: %w", r.Name(), err)
	}

	return &Document{
		Path:   path,
		Title:  strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		Format: r.Name(),
		Text:   Sanitize(text),
	}, nil
}

// FromText оборачивает введённый вручную текст
func FromText(title, text string) *Document {
	return &Document{Title: title, Format: "text", Text: Sanitize(text)}
}

// TextReader - обычный текст без разметки
type TextReader struct{}

func (TextReader) Name() string { return "text" }

func (TextReader) Read(raw []byte) (string, error) {
	return string(raw), nil
}
