package schema

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold strips diacritics and drops any rune that has no plain ASCII
// form: "Descrição" -> "Descricao".
func Fold(s string) string {
	t := transform.Chain(
		norm.NFKD,
		runes.Remove(runes.In(unicode.Mn)),
		runes.Remove(runes.Predicate(func(r rune) bool { return r > unicode.MaxASCII })),
	)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// NormalizeHeader lowercases, folds and joins the words of a header with
// underscores: " Data  Pagamento " -> "data_pagamento".
func NormalizeHeader(s string) string {
	return strings.Join(strings.Fields(Fold(strings.ToLower(s))), "_")
}
