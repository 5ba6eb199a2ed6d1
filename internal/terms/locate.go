package terms

import (
	"unicode"

	"github.com/abe-mart/contextual/internal/chunker"
)

// Locate ищет первое вхождение термина в тексте окна без учёта регистра
// и возвращает абсолютный диапазон в документе. Поиск ведётся только внутри окна.
func Locate(term string, w chunker.Window) (Span, bool) {
	needle := []rune(term)
	if len(needle) == 0 {
		return Span{}, false
	}
	hay := []rune(w.Text)

	for i := 0; i+len(needle) <= len(hay); i++ {
		if equalFold(hay[i:i+len(needle)], needle) {
			start := w.Start + i
			return Span{Start: start, End: start + len(needle)}, true
		}
	}
	return Span{}, false
}

// equalFold сравнивает посимвольно с простым case folding, длина не меняется
func equalFold(a, b []rune) bool {
	for i := range a {
		if !foldRune(a[i], b[i]) {
			return false
		}
	}
	return true
}

func foldRune(a, b rune) bool {
	if a == b {
		return true
	}
	for r := unicode.SimpleFold(a); r != a; r = unicode.SimpleFold(r) {
		if r == b {
			return true
		}
	}
	return false
}
