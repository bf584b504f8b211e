// Package wake implements the trigger-phrase check that gates assistant
// replies.
package wake

import "strings"

// Detect reports whether the configured phrase occurs in the transcribed
// text. Matching is a case-insensitive substring test; no fuzzy matching.
// Empty text or an empty phrase never match.
func Detect(text, phrase string) bool {
	if text == "" || phrase == "" {
		return false
	}
	return strings.Contains(strings.ToLower(text), strings.ToLower(phrase))
}
