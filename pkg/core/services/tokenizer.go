package services

import (
	"strings"

	"github.com/renjie/prism-units/pkg/core/domain"
)

// Tokenize 将原始单位字符串切分为带标签的词法流
// 注释 [entity] 被识别为独立的 Annotation 词法单元，供 StripTokens 丢弃
// 该函数是全函数: 任意输入都会产生词法流，非法片段原样保留为 Term，交由引擎报错
func Tokenize(raw string) []domain.Token {
	var tokens []domain.Token
	spaced := false

	for i := 0; i < len(raw); {
		c := raw[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			spaced = true
			i++
			continue

		case c == '.' || c == '/' || c == '*':
			tokens = append(tokens, domain.Operator(string(c)))
			i++

		case c == '(':
			tokens = appendImplicitProduct(tokens, spaced)
			tokens = append(tokens, domain.Token{Kind: domain.TokenOpenParen, Text: "("})
			i++

		case c == ')':
			tokens = append(tokens, domain.Token{Kind: domain.TokenCloseParen, Text: ")"})
			i++

		case c == '[':
			end := matchBracket(raw, i)
			if end < 0 {
				// 未闭合的 '[': 剩余部分整体作为单位项
				tokens = appendImplicitProduct(tokens, spaced)
				tokens = append(tokens, domain.Term(raw[i:]))
				return tokens
			}
			attached := !spaced && len(tokens) > 0 &&
				(tokens[len(tokens)-1].Kind == domain.TokenTerm || tokens[len(tokens)-1].Kind == domain.TokenCloseParen)
			if !attached {
				tokens = appendImplicitProduct(tokens, spaced)
				end += exponentLen(raw[end:])
			}
			tokens = append(tokens, domain.Token{Kind: domain.TokenAnnotation, Text: raw[i:end], Attached: attached})
			i = end

		default:
			end := scanTerm(raw, i)
			tokens = appendImplicitProduct(tokens, spaced)
			tokens = append(tokens, domain.Term(raw[i:end]))
			i = end
		}
		spaced = false
	}
	return tokens
}

// appendImplicitProduct inserts the implicit product operator " " between two
// whitespace-separated factors.
func appendImplicitProduct(tokens []domain.Token, spaced bool) []domain.Token {
	if !spaced || len(tokens) == 0 {
		return tokens
	}
	switch tokens[len(tokens)-1].Kind {
	case domain.TokenTerm, domain.TokenCloseParen, domain.TokenAnnotation:
		return append(tokens, domain.Operator(" "))
	}
	return tokens
}

// matchBracket returns the index just past the ']' closing the '[' at start, or -1.
func matchBracket(s string, start int) int {
	depth := 0
	for i := start; i < len(s); i++ {
		switch s[i] {
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return i + 1
			}
		}
	}
	return -1
}

// exponentLen measures an exponent written directly after an annotation:
// "^-2", "^2", "-1", "2".
func exponentLen(s string) int {
	i := 0
	if i < len(s) && s[i] == '^' {
		i++
	}
	if i < len(s) && (s[i] == '-' || s[i] == '+') {
		i++
	}
	digits := i
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == digits {
		return 0
	}
	return i
}

func scanTerm(s string, start int) int {
	i := start
	for i < len(s) {
		c := s[i]
		if c == '.' && isDecimalPoint(s, start, i) {
			i++
			continue
		}
		if strings.IndexByte(" \t\n\r./*()[", c) >= 0 {
			break
		}
		i++
	}
	return i
}

// isDecimalPoint reports whether the '.' at i belongs to a plain number such as "0.5".
func isDecimalPoint(s string, start, i int) bool {
	if i == start || i+1 >= len(s) || s[i+1] < '0' || s[i+1] > '9' {
		return false
	}
	for j := start; j < i; j++ {
		if s[j] < '0' || s[j] > '9' {
			return false
		}
	}
	return true
}
