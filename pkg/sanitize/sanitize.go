// pkg/sanitize/sanitize.go
package sanitize

import (
	"strings"
	"unicode"

	"github.com/finreg-data/sanctions-ingress/pkg/model"
)

// Directional-format characters that appear in the source export and
// must never reach the output. U+200E (LRM) is the one actually seen in
// the UK list; the rest of the bidi control set is stripped alongside it.
var invisibleRunes = map[rune]struct{}{
	'\u200b': {}, // zero-width space
	'\u200e': {}, // left-to-right mark
	'\u200f': {}, // right-to-left mark
	'\u202a': {}, // left-to-right embedding
	'\u202b': {}, // right-to-left embedding
	'\u202c': {}, // pop directional formatting
	'\u202d': {}, // left-to-right override
	'\u202e': {}, // right-to-left override
	'\u2066': {}, // left-to-right isolate
	'\u2067': {}, // right-to-left isolate
	'\u2068': {}, // first strong isolate
	'\u2069': {}, // pop directional isolate
	'\u061c': {}, // arabic letter mark
	'\ufeff': {}, // zero-width no-break space / stray BOM
}

// Clean trims a raw cell, removes invisible directional-control
// characters and collapses internal whitespace runs to single spaces.
// A value that is empty after cleaning is absent, never an empty string.
func Clean(raw string) model.Field {
	var b strings.Builder
	b.Grow(len(raw))

	lastWasSpace := false
	for _, r := range raw {
		if _, invisible := invisibleRunes[r]; invisible {
			continue
		}
		if unicode.IsSpace(r) {
			if !lastWasSpace {
				b.WriteRune(' ')
				lastWasSpace = true
			}
			continue
		}
		b.WriteRune(r)
		lastWasSpace = false
	}

	cleaned := strings.TrimSpace(b.String())
	if cleaned == "" {
		return model.AbsentField()
	}
	return model.NewField(cleaned)
}

// CleanField applies Clean to a field that may already be absent.
func CleanField(f model.Field) model.Field {
	if !f.Present() {
		return model.AbsentField()
	}
	return Clean(f.Value())
}
