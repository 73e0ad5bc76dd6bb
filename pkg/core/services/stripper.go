package services

import "github.com/renjie/prism-units/pkg/core/domain"

// Strip 去除所有 [entity] 注释 (连同其指数)，保留算术结构
//
//	g.[plant]-1.d-1 -> g.d-1
//	g/[plant]/d     -> g/d
//	g/[plant]       -> g
//
// Strip(Strip(s)) == Strip(s)
func Strip(raw string) string {
	return domain.JoinTokens(StripTokens(Tokenize(raw)))
}

// StripTokens removes annotation tokens from a token stream.
//
// An attached annotation (g[C]) is dropped alone. A standalone annotation takes the
// operator that bound it along. When it opens a group it is replaced by "1" if a
// division follows or nothing else is left, otherwise the dangling operator after it goes.
func StripTokens(tokens []domain.Token) []domain.Token {
	out := make([]domain.Token, 0, len(tokens))
	for i := 0; i < len(tokens); i++ {
		t := tokens[i]
		if t.Kind != domain.TokenAnnotation {
			out = append(out, t)
			continue
		}
		if t.Attached {
			continue
		}

		n := len(out)
		if n > 0 && out[n-1].Kind == domain.TokenOperator {
			out = out[:n-1]
			// 隐式乘法只能跟在因子之后，否则重新切分时会被吞掉
			if i+1 < len(tokens) && isImplicitProduct(tokens[i+1]) && !endsWithFactor(out) {
				i++
			}
			continue
		}
		if n > 0 && out[n-1].Kind != domain.TokenOpenParen {
			continue
		}

		j := i + 1
		for j < len(tokens) && tokens[j].Kind == domain.TokenAnnotation {
			j++
		}
		switch {
		case j == len(tokens) || tokens[j].Kind == domain.TokenCloseParen || tokens[j].IsDivision():
			out = append(out, domain.Term("1"))
		case tokens[j].Kind == domain.TokenOperator:
			j++
		}
		i = j - 1
	}
	return out
}

func isImplicitProduct(t domain.Token) bool {
	return t.Kind == domain.TokenOperator && t.Text == " "
}

func endsWithFactor(tokens []domain.Token) bool {
	if len(tokens) == 0 {
		return false
	}
	k := tokens[len(tokens)-1].Kind
	return k == domain.TokenTerm || k == domain.TokenCloseParen
}
