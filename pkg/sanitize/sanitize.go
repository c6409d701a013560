// Package sanitize strips prompt-injection phrasing from free text before it
// is interpolated into a generation prompt.
package sanitize

import (
	"regexp"
	"strings"
)

// MaxLen is the hard cap, in characters, applied to sanitized text.
const MaxLen = 10000

// Redaction replaces any matched injection pattern.
const Redaction = "[REMOVED]"

var injectionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)ignore\s+(?:(?:previous|above|all)\s+)+instructions?`),
	regexp.MustCompile(`(?i)(system|assistant|user)\s*:\s*`),
	regexp.MustCompile(`(?i)<\s*(system|assistant|user)\s*>`),
	regexp.MustCompile(`(?i)\[\s*(INST|SYS|END)\s*\]`),
	regexp.MustCompile(`(?i)###\s*(instruction|system|prompt)`),
	regexp.MustCompile(`(?i)act\s+as\s+(if|though)`),
	regexp.MustCompile(`(?i)new\s+role`),
	regexp.MustCompile(`(?i)forget\s+(your|all|previous)`),
}

// Strip replaces known injection phrasings with the redaction marker and hard
// truncates the result to MaxLen. Pure; always returns a string.
func Strip(s string) string {
	if s == "" {
		return s
	}
	cleaned := s
	for _, p := range injectionPatterns {
		cleaned = p.ReplaceAllString(cleaned, Redaction)
	}
	if len(cleaned) > MaxLen {
		// Cut on a rune boundary; a byte slice could split a multibyte
		// character and leak invalid UTF-8 into prompts.
		rs := []rune(cleaned)
		if len(rs) > MaxLen {
			cleaned = string(rs[:MaxLen])
		}
	}
	return cleaned
}

// Clean removes control characters except tab/newline/CR and trims spaces.
func Clean(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r == '\n' || r == '\r' || r == '\t' || (r >= 32 && r != 127) {
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}
