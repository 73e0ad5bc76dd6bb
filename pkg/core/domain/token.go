package domain

import "strings"

// TokenKind 单位表达式的词法分类
type TokenKind int

const (
	TokenTerm       TokenKind = iota // 单位项 (g, d-1, 100g, m^2)
	TokenOperator                    // 运算符: "." "/" "*" 以及隐式乘法 " "
	TokenAnnotation                  // 待丢弃的注释: [plant], [plant]-1, [plant]^2
	TokenOpenParen
	TokenCloseParen
)

func (k TokenKind) String() string {
	switch k {
	case TokenTerm:
		return "term"
	case TokenOperator:
		return "operator"
	case TokenAnnotation:
		return "annotation"
	case TokenOpenParen:
		return "open_paren"
	case TokenCloseParen:
		return "close_paren"
	default:
		return "unknown"
	}
}

// Token 是带标签的词法单元
// Attached 仅对注释有效: 注释紧贴在单位项之后 (g[C])，而不是独立的因子 (g/[plant])
type Token struct {
	Kind     TokenKind
	Text     string
	Attached bool
}

// Operator is a convenience constructor.
func Operator(op string) Token { return Token{Kind: TokenOperator, Text: op} }

// Term is a convenience constructor.
func Term(text string) Token { return Token{Kind: TokenTerm, Text: text} }

// IsDivision reports whether t is the "/" operator.
func (t Token) IsDivision() bool { return t.Kind == TokenOperator && t.Text == "/" }

// JoinTokens renders a token stream back into an expression string.
func JoinTokens(tokens []Token) string {
	var b strings.Builder
	for _, t := range tokens {
		b.WriteString(t.Text)
	}
	return b.String()
}
