package llm

import (
	"regexp"
	"strings"
)

var (
	thinkBlockPattern = regexp.MustCompile(`(?s)<think>.*?</think>\s*`)
	thinkTagPattern   = regexp.MustCompile(`</?think>`)
)

// StripThink removes <think>...</think> reasoning sections from a model
// reply, including any orphan opening or closing tag left by a truncated
// generation.
func StripThink(text string) string {
	cleaned := thinkBlockPattern.ReplaceAllString(text, "")
	cleaned = thinkTagPattern.ReplaceAllString(cleaned, "")
	return strings.TrimSpace(cleaned)
}
