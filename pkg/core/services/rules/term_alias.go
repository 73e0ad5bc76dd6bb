package rules

import (
	"fmt"

	"github.com/renjie/prism-units/pkg/core/domain"
	"github.com/renjie/prism-units/pkg/core/ports"
)

// TermAliasRule 将整项匹配的别名替换为规范单位名 (oC -> degC, # -> count)
type TermAliasRule struct {
	Aliases map[string]string
}

func (r *TermAliasRule) Name() string { return string(domain.RuleTypeTermAlias) }

func (r *TermAliasRule) Rewrite(tokens []domain.Token) ports.RewriteResult {
	var out []domain.Token
	var replaced []string
	for i, t := range tokens {
		target, ok := r.Aliases[t.Text]
		if !ok || t.Kind != domain.TokenTerm {
			continue
		}
		if out == nil {
			out = append([]domain.Token(nil), tokens...)
		}
		out[i] = domain.Term(target)
		replaced = append(replaced, t.Text+"->"+target)
	}
	if out == nil {
		return ports.RewriteResult{Tokens: tokens}
	}
	return ports.RewriteResult{
		Tokens:    out,
		Rewritten: true,
		Reason:    fmt.Sprintf("replaced aliases %v", replaced),
	}
}
