// Package voice implements the spoken-command resolution pipeline: it turns a
// raw transcript into exactly one map action by consulting the owner's magic
// phrases, saved locations, and — as a last resort — an external geocoder.
package voice

import (
	"strings"
	"unicode"
)

// Normalize converts raw spoken text into the canonical comparison form used
// throughout the pipeline: lower-cased, punctuation stripped, whitespace runs
// collapsed to single spaces, trimmed. Total — empty input yields empty output.
func Normalize(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range strings.ToLower(text) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// StripNavigationPrefix removes the first prefix (in list order) that is a
// literal prefix of the already-normalized text, returning the re-normalized
// remainder and true. Only one prefix is ever stripped. If no prefix matches,
// the text is returned unchanged with false.
func StripNavigationPrefix(text string, prefixes []string) (string, bool) {
	for _, p := range prefixes {
		if strings.HasPrefix(text, p) {
			return Normalize(strings.TrimPrefix(text, p)), true
		}
	}
	return text, false
}
