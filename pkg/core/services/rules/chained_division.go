package rules

import (
	"fmt"

	"github.com/renjie/prism-units/pkg/core/domain"
	"github.com/renjie/prism-units/pkg/core/ports"
)

// ChainedDivisionRule 连续除法改写
// 约定: 第一个 "/" 之后的所有因子相乘构成同一个分母
//
//	a/b/c     -> a/(b.c)
//	a.b/c.d/e -> a.b/(c.d.e)
//	/d        -> 1/d
//
// 单个 "/" 保持原样 (kg/ha.d 仍按从左到右结合)
type ChainedDivisionRule struct{}

func (r *ChainedDivisionRule) Name() string { return string(domain.RuleTypeChainedDivision) }

func (r *ChainedDivisionRule) Rewrite(tokens []domain.Token) ports.RewriteResult {
	divs := topLevelDivisions(tokens)
	if len(divs) == 0 || (len(divs) == 1 && divs[0] > 0) {
		return ports.RewriteResult{Tokens: tokens}
	}

	numerator := tokens[:divs[0]]
	if len(numerator) == 0 {
		numerator = []domain.Token{domain.Term("1")}
	}

	var factors [][]domain.Token
	for k, d := range divs {
		end := len(tokens)
		if k+1 < len(divs) {
			end = divs[k+1]
		}
		if seg := tokens[d+1 : end]; len(seg) > 0 {
			factors = append(factors, seg)
		}
	}

	out := make([]domain.Token, 0, len(tokens)+4)
	out = append(out, numerator...)
	if len(factors) == 0 {
		return ports.RewriteResult{Tokens: out, Rewritten: true, Reason: "dropped empty denominator"}
	}

	out = append(out, domain.Operator("/"))
	if len(factors) == 1 {
		out = append(out, factors[0]...)
		return ports.RewriteResult{Tokens: out, Rewritten: true, Reason: "added implicit numerator 1"}
	}

	out = append(out, domain.Token{Kind: domain.TokenOpenParen, Text: "("})
	for k, f := range factors {
		if k > 0 {
			out = append(out, domain.Operator("."))
		}
		out = append(out, f...)
	}
	out = append(out, domain.Token{Kind: domain.TokenCloseParen, Text: ")"})

	return ports.RewriteResult{
		Tokens:    out,
		Rewritten: true,
		Reason:    fmt.Sprintf("merged %d chained divisions into one denominator", len(divs)),
	}
}
