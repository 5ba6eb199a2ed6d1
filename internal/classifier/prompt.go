package classifier

import "strings"

// systemPrompt описывает контракт ответа: объект с массивом terms
const systemPrompt = `You are an expert in academic terminology across disciplines.
Find words or phrases in the user's text whose meaning differs between academic fields
(for example "cell" in biology and in computing, "energy" in physics and in psychology).

Respond with a single JSON object and nothing else:
{"terms": [
  {
    "term": "<exact word or phrase as it appears in the text>",
    "context": "<short snippet around the occurrence>",
    "possibleMeanings": [{"field": "<discipline>", "definition": "<meaning in that discipline>"}],
    "likelyIntendedMeaning": "<the meaning most likely intended here>",
    "confidence": <integer 0-100>
  }
]}

Rules:
- copy "term" verbatim from the text, do not paraphrase or inflect it;
- list at least two possibleMeanings per term;
- if nothing is ambiguous, return {"terms": []}.`

// buildUserPrompt оборачивает текст окна, другие окна в промпт не попадают
func buildUserPrompt(text string) string {
	var buf strings.Builder
	buf.Grow(len(text) + 64)
	buf.WriteString("Analyzed text:\n<<<\n")
	buf.WriteString(text)
	buf.WriteString("\n>>>")
	return buf.String()
}
