package chunker

import "fmt"

// Validate проверяет параметры разбиения
func (c Config) Validate() error {
	if c.ChunkSize <= 0 {
		return fmt.Errorf("%w: chunk size must be > 0, got %d", ErrInvalidConfig, c.ChunkSize)
	}
	if c.Overlap < 0 {
		return fmt.Errorf("%w: overlap must be >= 0, got %d", ErrInvalidConfig, c.Overlap)
	}
	if c.Overlap >= c.ChunkSize {
		return fmt.Errorf("%w: overlap (%d) must be smaller than chunk size (%d)",
			ErrInvalidConfig, c.Overlap, c.ChunkSize)
	}
	return nil
}

// Split разбивает документ на перекрывающиеся окна фиксированного размера.
// Каждое следующее окно начинается на overlap символов раньше конца предыдущего,
// последнее окно заканчивается ровно на конце документа.
func Split(document string, chunkSize, overlap int) ([]Window, error) {
	return Config{ChunkSize: chunkSize, Overlap: overlap}.Split(document)
}

// Split разбивает документ согласно конфигурации
func (c Config) Split(document string) ([]Window, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	runes := []rune(document)
	total := len(runes)

	// Короткий документ - одно окно целиком
	if total <= c.ChunkSize {
		return []Window{{Index: 0, Text: document, Start: 0, End: total}}, nil
	}

	windows := make([]Window, 0, total/(c.ChunkSize-c.Overlap)+1)
	for start := 0; ; {
		end := start + c.ChunkSize
		if end > total {
			end = total
		}

		windows = append(windows, Window{
			Index: len(windows),
			Text:  string(runes[start:end]),
			Start: start,
			End:   end,
		})

		if end >= total {
			break
		}
		start = end - c.Overlap
	}

	return windows, nil
}
