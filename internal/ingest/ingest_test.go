package ingest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetReader(t *testing.T) {
	f := NewFactory()

	tests := []struct {
		path   string
		format string
		want   string
	}{
		{"notes.md", "", "markdown"},
		{"NOTES.MARKDOWN", "", "markdown"},
		{"paper.pdf", "", "pdf"},
		{"essay.txt", "", "text"},
		{"no_extension", "", "text"},
		{"essay.txt", "md", "markdown"},
		{"paper.pdf", "plain", "text"},
	}
	for _, tt := range tests {
		t.Run(tt.path+"/"+tt.format, func(t *testing.T) {
			r, err := f.GetReader(tt.path, tt.format)
			require.NoError(t, err)
			assert.Equal(t, tt.want, r.Name())
		})
	}

	_, err := f.GetReader("x.txt", "docx")
	assert.ErrorContains(t, err, "unknown document format")
}

func TestMarkdownReaderStripsMarkup(t *testing.T) {
	src := "# Title\n\nSome *emphasis* text with a [link](http://example.com).\n\n" +
		"- item one\n- item two\n\n```go\ncode()\n```\n\n<div>raw html</div>\n"

	got, err := MarkdownReader{}.Read([]byte(src))
	require.NoError(t, err)

	assert.Equal(t, "Title\n\nSome emphasis text with a link.\n\nitem one\n\nitem two\n\ncode()", got)
}

func TestMarkdownReaderKeepsSoftBreaks(t *testing.T) {
	got, err := MarkdownReader{}.Read([]byte("first line\nsecond line\n"))
	require.NoError(t, err)
	assert.Equal(t, "first line\nsecond line", got)
}

func TestPDFReaderRejectsGarbage(t *testing.T) {
	_, err := PDFReader{}.Read([]byte("definitely not a pdf"))
	assert.Error(t, err)
}

func TestNormalizeWhitespace(t *testing.T) {
	got := normalizeWhitespace("  Page   one \n\n\n   second\tline  \n")
	assert.Equal(t, "Page one\nsecond line", got)
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"crlf", "a\r\nb\rc", "a\nb\nc"},
		{"control chars", "te\x00x\x07t\tok\n", "text\tok\n"},
		{"bom", "\uFEFFhello", "hello"},
		{"nfc", "e\u0301cole", "\u00e9cole"},
		{"plain", "Сила тока", "Сила тока"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Sanitize(tt.in))
		})
	}
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lecture.md")
	require.NoError(t, os.WriteFile(path, []byte("## Energy\n\nEnergy is conserved.\n"), 0o644))

	doc, err := NewFactory().ReadFile(path, "")
	require.NoError(t, err)

	assert.Equal(t, "lecture", doc.Title)
	assert.Equal(t, "markdown", doc.Format)
	assert.Equal(t, "Energy\n\nEnergy is conserved.", doc.Text)

	_, err = NewFactory().ReadFile(filepath.Join(dir, "missing.txt"), "")
	assert.ErrorContains(t, err, "read file")
}

func TestFromText(t *testing.T) {
	doc := FromText("stdin", "line\r\n")
	assert.Equal(t, "line\n", doc.Text)
	assert.Equal(t, "text", doc.Format)
}
