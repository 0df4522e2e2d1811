package utils

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var markdownJSONRe = regexp.MustCompile("(?s)```(?:json)?\\s*(.+?)\\s*```")

// ParseModelJSON parses JSON produced by a language model. Model output is
// not always clean JSON: it may be wrapped in markdown code fences or
// surrounded by prose, so parsing falls back to extraction.
func ParseModelJSON(input string, target interface{}) error {
	input = strings.TrimSpace(input)
	if input == "" {
		return fmt.Errorf("empty input")
	}

	if err := json.Unmarshal([]byte(input), target); err == nil {
		return nil
	}

	// Markdown code fence
	if matches := markdownJSONRe.FindStringSubmatch(input); len(matches) > 1 {
		candidate := strings.TrimSpace(matches[1])
		if err := json.Unmarshal([]byte(candidate), target); err == nil {
			return nil
		}
	}

	// First balanced JSON object or array embedded in prose
	for _, pair := range [][2]rune{{'{', '}'}, {'[', ']'}} {
		if candidate := extractBalanced(input, pair[0], pair[1]); candidate != "" {
			if err := json.Unmarshal([]byte(candidate), target); err == nil {
				return nil
			}
		}
	}

	return fmt.Errorf("failed to parse JSON from model output: %s", truncate(input, 100))
}

// extractBalanced returns the first substring delimited by balanced open/close
// runes, respecting JSON string literals and escapes.
func extractBalanced(input string, open, close rune) string {
	start := strings.IndexRune(input, open)
	if start < 0 {
		return ""
	}

	depth := 0
	inString := false
	escape := false
	for i, ch := range input[start:] {
		if escape {
			escape = false
			continue
		}
		switch {
		case ch == '\\':
			escape = true
		case ch == '"':
			inString = !inString
		case inString:
		case ch == open:
			depth++
		case ch == close:
			depth--
			if depth == 0 {
				return input[start : start+i+1]
			}
		}
	}
	return ""
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
