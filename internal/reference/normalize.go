package reference

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Normalize puts text into the canonical form used for keyword matching:
// NFC composition followed by Unicode case folding. Keywords and messages
// must both pass through it so that decomposed input and mixed case match.
func Normalize(s string) string {
	// cases.Caser is stateful, so a fresh one is built per call.
	return cases.Fold().String(norm.NFC.String(s))
}
