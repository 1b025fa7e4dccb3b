package search

import (
	"encoding/json"
	"regexp"
	"strings"
)

// answerField is the single structured field the format directive asks
// the model to emit.
const answerField = "jawaban"

// fencedBlockRegex captures the body of a ```json (or bare ```) fenced
// code block. Models frequently wrap the block in prose; only the
// first block counts.
var fencedBlockRegex = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)```")

// Extract parses the structured answer field out of raw model output.
// On any parse failure it returns the raw text verbatim with
// fallback=true: a deliberate local recovery, never an error.
func Extract(raw string) (answer string, fallback bool) {
	if body, ok := extractAnswer(raw); ok {
		return body, false
	}
	return raw, true
}

func extractAnswer(raw string) (string, bool) {
	candidate := strings.TrimSpace(raw)

	if m := fencedBlockRegex.FindStringSubmatch(candidate); m != nil {
		candidate = strings.TrimSpace(m[1])
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(candidate), &fields); err != nil {
		return "", false
	}

	rawField, ok := fields[answerField]
	if !ok {
		return "", false
	}

	var value string
	if err := json.Unmarshal(rawField, &value); err != nil {
		return "", false
	}
	if strings.TrimSpace(value) == "" {
		return "", false
	}
	return value, true
}
