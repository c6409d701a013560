// Package jsonx extracts JSON payloads from noisy model output.
//
// Generation backends are asked to return ONLY JSON but routinely wrap the
// payload in prose or markdown fences. These helpers locate the embedded
// object or array so parsing can be unit-tested against recorded outputs
// without a live backend.
package jsonx

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ExtractObject finds the first '{' and its matching '}' in s and returns the
// substring. Falls back to first-to-last brace when nesting is unbalanced.
func ExtractObject(s string) (string, error) {
	return extract(s, '{', '}')
}

// ExtractArray finds the first '[' and its matching ']' in s.
func ExtractArray(s string) (string, error) {
	return extract(s, '[', ']')
}

func extract(s string, open, close byte) (string, error) {
	start := strings.IndexByte(s, open)
	if start < 0 {
		return "", fmt.Errorf("no %q in output", string(open))
	}
	depth := 0
	inStr := false
	esc := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inStr {
			switch {
			case esc:
				esc = false
			case c == '\\':
				esc = true
			case c == '"':
				inStr = false
			}
			continue
		}
		switch c {
		case '"':
			inStr = true
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return s[start : i+1], nil
			}
		}
	}
	// Unbalanced nesting: take everything up to the last closer.
	if end := strings.LastIndexByte(s, close); end > start {
		return s[start : end+1], nil
	}
	return "", fmt.Errorf("no matching %q in output", string(close))
}

// UnmarshalObject extracts the embedded object and decodes it into v.
func UnmarshalObject(s string, v any) error {
	raw, err := ExtractObject(s)
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(raw), v)
}

// UnmarshalArray extracts the embedded array and decodes it into v.
func UnmarshalArray(s string, v any) error {
	raw, err := ExtractArray(s)
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(raw), v)
}
