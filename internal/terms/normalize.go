package terms

import (
	"bytes"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/bytedance/sonic"
)

// shape - распознанная форма ответа классификатора
type shape int

const (
	shapeUnknown shape = iota
	shapeList          // [ {...}, ... ]
	shapeWrapped       // {"terms": [ ... ]}
	shapeRecord        // { "term": ... }
	shapeNested        // {"anything": [ {...} ]}
)

// Normalize разбирает сырой ответ классификатора в список кандидатов.
// Позиции не проставляются (NoPosition), их определяет Locate.
func Normalize(raw []byte) ([]Term, error) {
	payload := stripFence(raw)
	if len(payload) == 0 {
		return nil, fmt.Errorf("%w: empty payload", ErrParse)
	}

	var v any
	if err := sonic.ConfigStd.Unmarshal(payload, &v); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	return NormalizeValue(v)
}

// NormalizeValue разбирает уже декодированное значение
func NormalizeValue(v any) ([]Term, error) {
	sh, records := detectShape(v)
	if sh == shapeUnknown {
		return nil, fmt.Errorf("%w: unrecognized payload shape (%T)", ErrParse, v)
	}

	out := make([]Term, 0, len(records))
	for _, r := range records {
		rec, ok := r.(map[string]any)
		if !ok {
			continue
		}
		out = append(out, toTerm(rec))
	}
	return out, nil
}

// detectShape выбирает форму ответа и возвращает список сырых записей
func detectShape(v any) (shape, []any) {
	switch x := v.(type) {
	case []any:
		return shapeList, x
	case map[string]any:
		for _, key := range wrapperKeys {
			if list, ok := x[key].([]any); ok {
				return shapeWrapped, list
			}
		}
		// Одиночная запись проверяется раньше произвольного списка:
		// иначе possibleMeanings будет принят за обёртку
		if _, ok := lookup(x, termAliases); ok {
			return shapeRecord, []any{x}
		}
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if list, ok := x[k].([]any); ok && hasObject(list) {
				return shapeNested, list
			}
		}
	}
	return shapeUnknown, nil
}

func hasObject(list []any) bool {
	for _, item := range list {
		if _, ok := item.(map[string]any); ok {
			return true
		}
	}
	return false
}

// toTerm отображает сырую запись в кандидата с допустимыми значениями по умолчанию
func toTerm(rec map[string]any) Term {
	t := Term{
		PositionStart:    NoPosition,
		PositionEnd:      NoPosition,
		PossibleMeanings: []PossibleMeaning{},
	}
	if v, ok := lookup(rec, termAliases); ok {
		t.Term = toString(v)
	}
	if v, ok := lookup(rec, contextAliases); ok {
		t.Context = toString(v)
	}
	if v, ok := lookup(rec, meaningsAliases); ok {
		t.PossibleMeanings = toMeanings(v)
	}
	if v, ok := lookup(rec, likelyMeaningAliases); ok {
		t.LikelyIntendedMeaning = toString(v)
	}
	if v, ok := lookup(rec, confidenceAliases); ok {
		t.Confidence = toConfidence(v)
	}
	return t
}

func toMeanings(v any) []PossibleMeaning {
	out := []PossibleMeaning{}
	switch x := v.(type) {
	case []any:
		for _, item := range x {
			m, ok := item.(map[string]any)
			if !ok {
				continue
			}
			var pm PossibleMeaning
			if f, ok := lookup(m, fieldAliases); ok {
				pm.Field = toString(f)
			}
			if d, ok := lookup(m, definitionAliases); ok {
				pm.Definition = toString(d)
			}
			if pm.Field != "" {
				out = append(out, pm)
			}
		}
	case map[string]any:
		// {"physics": "...", "biology": "..."}
		fields := make([]string, 0, len(x))
		for k := range x {
			fields = append(fields, k)
		}
		sort.Strings(fields)
		for _, f := range fields {
			field := strings.TrimSpace(f)
			if field == "" {
				continue
			}
			def := x[f]
			if m, ok := def.(map[string]any); ok {
				def, _ = lookup(m, definitionAliases)
			}
			out = append(out, PossibleMeaning{Field: field, Definition: toString(def)})
		}
	}
	return out
}

func toString(v any) string {
	switch x := v.(type) {
	case string:
		return strings.TrimSpace(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		return ""
	}
}

// toConfidence приводит уверенность к целому в [0,100]; нечисловое значение -> 0
func toConfidence(v any) int {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case int:
		f = float64(x)
	case int64:
		f = float64(x)
	case string:
		s := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(x), "%"))
		p, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0
		}
		f = p
	default:
		return 0
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	// Доля вместо процентов (0.85)
	if f > 0 && f < 1 {
		f *= 100
	}
	f = math.Round(f)
	if f < 0 {
		return 0
	}
	if f > 100 {
		return 100
	}
	return int(f)
}

// stripFence убирает пробелы и markdown-ограждение ```json ... ```
func stripFence(raw []byte) []byte {
	b := bytes.TrimSpace(raw)
	if !bytes.HasPrefix(b, []byte("```")) {
		return b
	}
	if nl := bytes.IndexByte(b, '\n'); nl >= 0 {
		b = b[nl+1:]
	} else {
		b = bytes.TrimPrefix(b, []byte("```"))
	}
	b = bytes.TrimSpace(b)
	b = bytes.TrimSuffix(b, []byte("```"))
	return bytes.TrimSpace(b)
}
