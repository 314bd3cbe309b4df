// Package slug generates ASCII slugs from arbitrary Unicode titles.
//
// Slugs back the fallback library keys ("fb-<slug>") for titles whose
// provider has no stable numeric id, so the transformation must be
// deterministic across platforms and input encodings.
package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// From converts a title into a lowercase ASCII slug: accents are stripped
// via NFD decomposition, anything that is not a letter or digit becomes a
// hyphen, and runs of hyphens collapse to one.
func From(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))
	decomposed, _, err := transform.String(t, s)
	if err == nil {
		s = decomposed
	}

	var b strings.Builder
	b.Grow(len(s))
	lastHyphen := true // suppress leading hyphens
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}
