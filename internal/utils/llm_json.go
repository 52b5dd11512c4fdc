package utils

import (
	"errors"
	"strings"
)

var ErrNoJSONFound = errors.New("no JSON structure found in response")

// CleanLLMResponse strips the wrapping the completion service tends to add
// around JSON: markdown code fences, curly quotes, leading/trailing prose
// markers. The result is still untrusted text; callers must decode defensively.
func CleanLLMResponse(response string) string {
	response = strings.TrimSpace(response)

	if strings.HasPrefix(response, "```") {
		lines := strings.Split(response, "\n")
		if len(lines) > 1 {
			if strings.HasPrefix(lines[len(lines)-1], "```") {
				lines = lines[:len(lines)-1]
			}
			response = strings.Join(lines[1:], "\n")
		}
	}
	response = strings.TrimPrefix(response, "```json")
	response = strings.TrimSuffix(response, "```")

	response = strings.ReplaceAll(response, "“", `"`) // Left curly quote
	response = strings.ReplaceAll(response, "”", `"`) // Right curly quote

	return strings.TrimSpace(response)
}

// ExtractJSONArray returns the first balanced [...] substring.
func ExtractJSONArray(response string) (string, error) {
	return extractBalanced(response, '[', ']')
}

// ExtractJSONObject returns the first balanced {...} substring.
func ExtractJSONObject(response string) (string, error) {
	return extractBalanced(response, '{', '}')
}

func extractBalanced(s string, open, close byte) (string, error) {
	start := strings.IndexByte(s, open)
	if start < 0 {
		return "", ErrNoJSONFound
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return s[start : i+1], nil
			}
		}
	}
	return "", ErrNoJSONFound
}
