package ingest

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Управляющие символы кроме перевода строки и табуляции
var controlChars = runes.Predicate(func(r rune) bool {
	return r != '\n' && r != '\t' && (unicode.IsControl(r) || r == '\uFEFF')
})

// Sanitize приводит текст к NFC и удаляет управляющие символы.
// Смещения терминов считаются по результату, поэтому очистка делается до разбиения.
func Sanitize(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")

	t := transform.Chain(norm.NFC, runes.Remove(controlChars))
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
