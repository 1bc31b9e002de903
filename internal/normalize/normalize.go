// Package normalize canonicalizes free-text answers so they can be compared
// without regard to case, surrounding whitespace, character width or accents.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// diacritics is the Combining Diacritical Marks block. Kana voicing marks
// (U+3099, U+309A) are combining too but change the reading, so they stay.
var diacritics = &unicode.RangeTable{
	R16: []unicode.Range16{{Lo: 0x0300, Hi: 0x036f, Stride: 1}},
}

// Normalize returns the canonical form of an answer.
func Normalize(s string) string {
	// Transformers keep state, so the chain is built per call
	t := transform.Chain(
		width.Fold,
		cases.Lower(language.Und),
		norm.NFD,
		runes.Remove(runes.In(diacritics)),
		norm.NFC,
	)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = strings.ToLower(s)
	}
	return strings.TrimSpace(out)
}

// Equal reports whether two answers have the same canonical form.
func Equal(a, b string) bool {
	return Normalize(a) == Normalize(b)
}
