package tutor

import (
	"encoding/json"
	"strings"
)

// ParseAnswer normalizes the raw model output into an Answer. Models are
// asked for JSON but drift: the parser tolerates code fences, missing fields,
// and plain prose. It never fails; the worst case is the raw text as the
// answer with no suggestions.
func ParseAnswer(raw string) Answer {
	trimmed := strings.TrimSpace(raw)
	candidate := stripCodeFence(trimmed)

	var decoded struct {
		Answer      string `json:"answer"`
		Suggestions []struct {
			Label    string `json:"label"`
			Question string `json:"question"`
		} `json:"suggestions"`
	}
	if err := json.Unmarshal([]byte(candidate), &decoded); err != nil {
		return Answer{Text: trimmed}
	}

	text := strings.TrimSpace(decoded.Answer)
	if text == "" {
		text = trimmed
	}

	var suggestions []Suggestion
	for _, s := range decoded.Suggestions {
		label := strings.TrimSpace(s.Label)
		question := strings.TrimSpace(s.Question)
		if label == "" || question == "" {
			continue
		}
		suggestions = append(suggestions, Suggestion{Label: label, Question: question})
		if len(suggestions) == maxSuggestions {
			break
		}
	}

	return Answer{Text: text, Suggestions: suggestions, Structured: true}
}

// stripCodeFence removes one surrounding markdown code fence, with or without
// a language tag.
func stripCodeFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	body := s[3:]
	if idx := strings.Index(body, "\n"); idx >= 0 {
		firstLine := strings.TrimSpace(body[:idx])
		// A fence opener is "```" or "```json"; anything with spaces is content.
		if firstLine == "" || !strings.ContainsAny(firstLine, " \t{") {
			body = body[idx+1:]
		}
	}
	body = strings.TrimSpace(body)
	body = strings.TrimSuffix(body, "```")
	return strings.TrimSpace(body)
}
