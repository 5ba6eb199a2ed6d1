package terms

// Допустимые имена полей записи. Порядок важен: побеждает первый присутствующий.
var (
	termAliases = []string{"term", "name", "word", "phrase"}

	contextAliases = []string{"context", "snippet", "excerpt", "sentence"}

	meaningsAliases = []string{"possibleMeanings", "possible_meanings", "meanings", "definitions"}

	likelyMeaningAliases = []string{
		"likelyIntendedMeaning",
		"likely_intended_meaning",
		"likelyMeaning",
		"likely_meaning",
		"intendedMeaning",
		"intended_meaning",
	}

	confidenceAliases = []string{"confidence", "confidence_score", "confidenceScore", "score"}

	fieldAliases = []string{"field", "discipline", "domain", "area"}

	definitionAliases = []string{"definition", "meaning", "description"}
)

// wrapperKeys - известные ключи объекта-обёртки со списком записей
var wrapperKeys = []string{"terms", "ambiguous_terms", "ambiguousTerms", "results", "items", "data"}

// lookup возвращает значение первого найденного алиаса
func lookup(rec map[string]any, aliases []string) (any, bool) {
	for _, name := range aliases {
		if v, ok := rec[name]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}
