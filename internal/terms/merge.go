package terms

import "sort"

// Merge убирает дубликаты по ключу (термин в нижнем регистре).
// Из дубликатов остаётся запись со строго большей уверенностью, при равенстве - первая.
// Результат упорядочен по PositionStart; неразрешённые позиции идут последними
// в порядке обнаружения.
func Merge(all []Term) []Term {
	index := make(map[string]int, len(all))
	out := make([]Term, 0, len(all))

	for _, t := range all {
		key := t.Key()
		if i, ok := index[key]; ok {
			if t.Confidence > out[i].Confidence {
				out[i] = t
			}
			continue
		}
		index[key] = len(out)
		out = append(out, t)
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Resolved != b.Resolved {
			return a.Resolved
		}
		if !a.Resolved {
			return false
		}
		return a.PositionStart < b.PositionStart
	})
	return out
}
