// Package terms описывает найденные неоднозначные термины: каноническую запись,
// разбор ответа классификатора, поиск позиции термина в окне и слияние результатов
// из перекрывающихся окон.
package terms

import (
	"errors"
	"strings"
)

// NoPosition - маркер неразрешённой позиции (термин не найден дословно в своём окне)
const NoPosition = -1

// ErrParse - ответ классификатора не удалось разобрать ни в одну из известных форм
var ErrParse = errors.New("classifier payload not parseable")

// PossibleMeaning - значение термина в конкретной дисциплине
type PossibleMeaning struct {
	Field      string `json:"field" yaml:"field"`
	Definition string `json:"definition" yaml:"definition"`
}

// Term - найденный термин с абсолютной позицией в документе
type Term struct {
	Term                  string            `json:"term" yaml:"term"`
	Context               string            `json:"context" yaml:"context"`
	PositionStart         int               `json:"positionStart" yaml:"positionStart"`
	PositionEnd           int               `json:"positionEnd" yaml:"positionEnd"`
	Resolved              bool              `json:"resolved" yaml:"resolved"`
	PossibleMeanings      []PossibleMeaning `json:"possibleMeanings" yaml:"possibleMeanings"`
	LikelyIntendedMeaning string            `json:"likelyIntendedMeaning" yaml:"likelyIntendedMeaning"`
	Confidence            int               `json:"confidence" yaml:"confidence"`
	Window                int               `json:"window" yaml:"window"`
}

// Key - ключ дедупликации: термин в нижнем регистре, точное совпадение
func (t Term) Key() string {
	return strings.ToLower(t.Term)
}

// Span - абсолютный диапазон [Start, End) в документе
type Span struct {
	Start int
	End   int
}

// Place проставляет найденную позицию
func (t *Term) Place(s Span) {
	t.PositionStart = s.Start
	t.PositionEnd = s.End
	t.Resolved = true
}

// Unresolve помечает позицию как неразрешённую
func (t *Term) Unresolve() {
	t.PositionStart = NoPosition
	t.PositionEnd = NoPosition
	t.Resolved = false
}
