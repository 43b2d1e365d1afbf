// Package textfold strips diacritics so Portuguese labels compare reliably.
package textfold

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold removes combining marks ("Concluída" -> "Concluida"). The input is returned
// unchanged when the transform fails.
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// Upper folds and uppercases s, trimming surrounding whitespace.
func Upper(s string) string {
	return strings.ToUpper(Fold(strings.TrimSpace(s)))
}

// Lower folds and lowercases s, trimming surrounding whitespace.
func Lower(s string) string {
	return strings.ToLower(Fold(strings.TrimSpace(s)))
}
