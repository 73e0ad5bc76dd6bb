package rules

import (
	"fmt"

	"github.com/renjie/prism-units/pkg/core/domain"
	"github.com/renjie/prism-units/pkg/core/ports"
)

// NumericDenominatorRule 给数字前缀的分母加括号
// g/100g -> g/(100g)，避免 100 被解析为整个表达式的系数
type NumericDenominatorRule struct{}

func (r *NumericDenominatorRule) Name() string { return string(domain.RuleTypeNumericDenominator) }

// Rewrite wraps every numeral-prefixed term that directly follows a top-level "/".
func (r *NumericDenominatorRule) Rewrite(tokens []domain.Token) ports.RewriteResult {
	divs := topLevelDivisions(tokens)
	wrap := make(map[int]bool)
	for _, d := range divs {
		if next := d + 1; next < len(tokens) && tokens[next].Kind == domain.TokenTerm && numeralPrefixed(tokens[next].Text) {
			wrap[next] = true
		}
	}
	if len(wrap) == 0 {
		return ports.RewriteResult{Tokens: tokens}
	}

	out := make([]domain.Token, 0, len(tokens)+2*len(wrap))
	var wrapped []string
	for i, t := range tokens {
		if !wrap[i] {
			out = append(out, t)
			continue
		}
		out = append(out,
			domain.Token{Kind: domain.TokenOpenParen, Text: "("},
			t,
			domain.Token{Kind: domain.TokenCloseParen, Text: ")"},
		)
		wrapped = append(wrapped, t.Text)
	}
	return ports.RewriteResult{
		Tokens:    out,
		Rewritten: true,
		Reason:    fmt.Sprintf("grouped numeric denominator %v", wrapped),
	}
}
