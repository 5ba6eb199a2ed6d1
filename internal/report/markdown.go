package report

import (
	"fmt"
	"io"
	"strings"
)

func writeMarkdown(w io.Writer, r *Report) error {
	var buf strings.Builder

	buf.WriteString(fmt.Sprintf("# Анализ терминов: %s\n\n", r.FileName))
	buf.WriteString(fmt.Sprintf("**Дата анализа:** %s\n\n", r.ProcessedAt.Format("2006-01-02 15:04:05")))
	buf.WriteString(fmt.Sprintf("**Прогон:** `%s`\n\n", r.RunID))
	if r.Model != "" {
		buf.WriteString(fmt.Sprintf("**Модель:** %s\n\n", r.Model))
	}

	// Итоговая статистика
	buf.WriteString("## Итоговая статистика\n\n")
	buf.WriteString(fmt.Sprintf("- 📦 Окон: %d (размер %d, перекрытие %d)\n", r.Windows, r.ChunkSize, r.Overlap))
	buf.WriteString(fmt.Sprintf("- ✅ Проанализировано: %d\n", r.Analyzed))
	buf.WriteString(fmt.Sprintf("- ⚠️ Неразобранных ответов: %d\n", r.ParseFailures))
	buf.WriteString(fmt.Sprintf("- ❌ Ошибок: %d\n", len(r.Failed)))
	buf.WriteString(fmt.Sprintf("- 🔍 Терминов: %d (без позиции: %d)\n\n", len(r.Terms), countUnresolved(r)))

	if r.Partial {
		buf.WriteString("> ⚠️ Результат неполный: часть окон не проанализирована.\n\n")
	}
	for _, f := range r.Failed {
		buf.WriteString(fmt.Sprintf("- Окно %d: %s\n", f.Window, f.Error))
	}
	if len(r.Failed) > 0 {
		buf.WriteString("\n")
	}

	buf.WriteString("## Термины\n\n")
	if len(r.Terms) == 0 {
		buf.WriteString("Неоднозначных терминов не найдено.\n")
	}

	for i, t := range r.Terms {
		position := "позиция не найдена"
		if t.Resolved {
			position = fmt.Sprintf("%d–%d", t.PositionStart, t.PositionEnd)
		}
		buf.WriteString(fmt.Sprintf("### %d. %s\n\n", i+1, t.Term))
		buf.WriteString(fmt.Sprintf("**Уверенность:** %d%% · **Позиция:** %s · **Окно:** %d\n\n", t.Confidence, position, t.Window))
		if t.Context != "" {
			buf.WriteString(fmt.Sprintf("> %s\n\n", oneLine(t.Context)))
		}
		if t.LikelyIntendedMeaning != "" {
			buf.WriteString(fmt.Sprintf("**Вероятное значение:** %s\n\n", t.LikelyIntendedMeaning))
		}
		if len(t.PossibleMeanings) > 0 {
			buf.WriteString("| Область | Значение |\n|---|---|\n")
			for _, m := range t.PossibleMeanings {
				buf.WriteString(fmt.Sprintf("| %s | %s |\n", cell(m.Field), cell(m.Definition)))
			}
			buf.WriteString("\n")
		}
		buf.WriteString("---\n\n")
	}

	_, err := io.WriteString(w, buf.String())
	return err
}

func countUnresolved(r *Report) int {
	n := 0
	for _, t := range r.Terms {
		if !t.Resolved {
			n++
		}
	}
	return n
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// cell экранирует текст для ячейки markdown-таблицы
func cell(s string) string {
	return strings.ReplaceAll(oneLine(s), "|", `\|`)
}
