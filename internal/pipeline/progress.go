package pipeline

// Progress - событие завершения очередного окна.
// Completed растёт монотонно независимо от порядка завершения окон.
type Progress struct {
	Completed int
	Total     int
	Window    int // Индекс только что завершённого окна
}

// Percent возвращает долю выполненной работы в процентах (0..100)
func (p Progress) Percent() int {
	if p.Total <= 0 {
		return 100
	}
	pct := p.Completed * 100 / p.Total
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}
