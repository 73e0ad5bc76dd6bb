package rules_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/renjie/prism-units/pkg/core/domain"
	"github.com/renjie/prism-units/pkg/core/ports"
	"github.com/renjie/prism-units/pkg/core/services"
	"github.com/renjie/prism-units/pkg/core/services/rules"
)

func rewrite(rule ports.RewriteRule, expr string) (string, bool) {
	res := rule.Rewrite(services.Tokenize(expr))
	return domain.JoinTokens(res.Tokens), res.Rewritten
}

func TestNumericDenominatorRule(t *testing.T) {
	rule := &rules.NumericDenominatorRule{}

	cases := []struct {
		expr      string
		want      string
		rewritten bool
	}{
		{"g/100g", "g/(100g)", true},
		{"g/100g/d", "g/(100g)/d", true},
		{"mg/100ml", "mg/(100ml)", true},
		{"g/(100g)", "g/(100g)", false},
		{"g/m2", "g/m2", false},
		{"1/d", "1/d", false},
		{"g/100", "g/100", false},
		{"100g/kg", "100g/kg", false},
	}
	for _, c := range cases {
		t.Run(c.expr, func(t *testing.T) {
			got, rewritten := rewrite(rule, c.expr)
			assert.Equal(t, c.want, got)
			assert.Equal(t, c.rewritten, rewritten)
		})
	}
	assert.Equal(t, "NUMERIC_DENOMINATOR", rule.Name())
}

func TestChainedDivisionRule(t *testing.T) {
	rule := &rules.ChainedDivisionRule{}

	cases := []struct {
		expr      string
		want      string
		rewritten bool
	}{
		{"a/b/c", "a/(b.c)", true},
		{"a.b/c.d/e", "a.b/(c.d.e)", true},
		{"g/m2/s", "g/(m2.s)", true},
		{"a/b/c/d", "a/(b.c.d)", true},
		{"/d", "1/d", true},
		{"a//b", "a/b", true},
		{"a/(b/c)/d", "a/((b/c).d)", true},
		{"kg/ha.d", "kg/ha.d", false},
		{"g/(m2.s)", "g/(m2.s)", false},
		{"m", "m", false},
	}
	for _, c := range cases {
		t.Run(c.expr, func(t *testing.T) {
			got, rewritten := rewrite(rule, c.expr)
			assert.Equal(t, c.want, got)
			assert.Equal(t, c.rewritten, rewritten)
		})
	}
}

func TestTermAliasRule(t *testing.T) {
	rule := &rules.TermAliasRule{Aliases: map[string]string{"oC": "degC", "#": "count"}}

	got, rewritten := rewrite(rule, "oC")
	assert.True(t, rewritten)
	assert.Equal(t, "degC", got)

	got, rewritten = rewrite(rule, "#/m2")
	assert.True(t, rewritten)
	assert.Equal(t, "count/m2", got)

	// Only whole terms are replaced.
	got, rewritten = rewrite(rule, "oCm")
	assert.False(t, rewritten)
	assert.Equal(t, "oCm", got)
}

func TestRulesDoNotMutateInput(t *testing.T) {
	tokens := services.Tokenize("g/m2/s")
	before := domain.JoinTokens(tokens)

	(&rules.ChainedDivisionRule{}).Rewrite(tokens)
	(&rules.NumericDenominatorRule{}).Rewrite(tokens)
	(&rules.TermAliasRule{Aliases: map[string]string{"g": "kg"}}).Rewrite(tokens)

	assert.Equal(t, before, domain.JoinTokens(tokens))
}
