package config

import (
	"regexp"
	"strings"
)

// maskRevealThreshold is the length above which a masked token keeps its
// first 6 and last 4 characters visible. Anything at or below it masks
// entirely.
const maskRevealThreshold = 10

var whitespaceRun = regexp.MustCompile(`\s+`)

// MaskToken masks a token for display: the first 6 and last 4 characters
// stay visible with the middle replaced by stars, preserving total
// length. Tokens of 10 characters or fewer are masked entirely.
// Characters are runes, so multibyte tokens never split mid-rune.
func MaskToken(token string) string {
	runes := []rune(token)
	if len(runes) <= maskRevealThreshold {
		return strings.Repeat("*", len(runes))
	}
	return string(runes[:6]) + strings.Repeat("*", len(runes)-maskRevealThreshold) + string(runes[len(runes)-4:])
}

// NormalizeEnvironmentID turns arbitrary user input into the canonical
// environment id: trimmed, lowercased, with internal whitespace runs
// collapsed to single hyphens ("My Env" becomes "my-env").
func NormalizeEnvironmentID(id string) string {
	id = strings.ToLower(strings.TrimSpace(id))
	return whitespaceRun.ReplaceAllString(id, "-")
}
