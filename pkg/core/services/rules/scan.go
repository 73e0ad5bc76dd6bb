package rules

import (
	"unicode"
	"unicode/utf8"

	"github.com/renjie/prism-units/pkg/core/domain"
)

// topLevelDivisions returns the indices of "/" operators outside any parentheses.
func topLevelDivisions(tokens []domain.Token) []int {
	var idx []int
	depth := 0
	for i, t := range tokens {
		switch {
		case t.Kind == domain.TokenOpenParen:
			depth++
		case t.Kind == domain.TokenCloseParen:
			if depth > 0 {
				depth--
			}
		case depth == 0 && t.IsDivision():
			idx = append(idx, i)
		}
	}
	return idx
}

// numeralPrefixed reports whether a term is a number glued to a unit, e.g. "100g".
func numeralPrefixed(text string) bool {
	i := 0
	for i < len(text) && (text[i] >= '0' && text[i] <= '9' || text[i] == '.') {
		i++
	}
	if i == 0 || i == len(text) {
		return false
	}
	r, _ := utf8.DecodeRuneInString(text[i:])
	return unicode.IsLetter(r) || r == '%' || r == '_'
}
