package ai

import (
	"encoding/json"
	"fmt"
	"strings"
)

// MalformedResponseError means no recommendation could be parsed out of the
// model's reply. Raw always carries the full original text so the audit log
// never loses what the model actually said.
type MalformedResponseError struct {
	Raw string
	Err error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed LLM response: %v", e.Err)
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Err
}

// ExtractRecommendation pulls a structured recommendation out of free-form
// model output. Models routinely wrap JSON in prose or code fences, so we
// first try the span from the first '{' to the last '}' and fall back to the
// whole trimmed text.
//
// The span is the widest brace-delimited slice, not a nested-brace match;
// a reply containing stray braces around malformed JSON can therefore be
// mis-extracted. Known limitation, accepted in exchange for tolerating the
// common "Here you go: {...} Thanks!" shape.
func ExtractRecommendation(raw string) (*Recommendation, error) {
	trimmed := strings.TrimSpace(raw)

	candidate := braceSpan(trimmed)
	if candidate != "" {
		var rec Recommendation
		if err := json.Unmarshal([]byte(candidate), &rec); err == nil {
			return &rec, nil
		}
	}

	var rec Recommendation
	if err := json.Unmarshal([]byte(trimmed), &rec); err != nil {
		return nil, &MalformedResponseError{Raw: raw, Err: err}
	}
	return &rec, nil
}

// braceSpan returns the substring from the first '{' to the last '}', or ""
// when no such span exists.
func braceSpan(s string) string {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end == -1 || end < start {
		return ""
	}
	return s[start : end+1]
}
