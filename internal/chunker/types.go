package chunker

import "errors"

// Значения по умолчанию для размера окна и перекрытия (в символах)
const (
	DefaultChunkSize = 3000
	DefaultOverlap   = 200
)

// ErrInvalidConfig - недопустимые параметры разбиения (chunkSize/overlap)
var ErrInvalidConfig = errors.New("invalid chunking config")

// Window - непрерывный фрагмент документа с абсолютным смещением
type Window struct {
	Index int    // Порядковый номер окна (с 0)
	Text  string // Текст окна
	Start int    // Смещение начала в документе (в рунах)
	End   int    // Смещение конца (не включительно)
}

// Len возвращает длину окна в рунах
func (w Window) Len() int {
	return w.End - w.Start
}

// Config содержит параметры разбиения
type Config struct {
	ChunkSize int // Размер окна в символах
	Overlap   int // Размер перекрытия между соседними окнами
}

// DefaultConfig возвращает параметры по умолчанию
func DefaultConfig() Config {
	return Config{ChunkSize: DefaultChunkSize, Overlap: DefaultOverlap}
}
