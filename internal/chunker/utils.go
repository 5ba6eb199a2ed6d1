package chunker

import (
	"crypto/sha256"
	"fmt"
	"strconv"
	"unicode/utf8"
)

// ID возвращает короткий детерминированный идентификатор окна (hash текста и смещения)
func (w Window) ID() string {
	hash := sha256.Sum256([]byte(strconv.Itoa(w.Start) + ":" + w.Text))
	return fmt.Sprintf("%x", hash[:8])
}

// RuneLen возвращает длину строки в символах
func RuneLen(s string) int {
	return utf8.RuneCountInString(s)
}

// Preview возвращает первые n символов текста для логов
func Preview(text string, n int) string {
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n]) + "…"
}
