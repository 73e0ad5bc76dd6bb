package domain

// RuleType 定义改写规则类型
type RuleType string

const (
	RuleTypeNumericDenominator RuleType = "NUMERIC_DENOMINATOR" // g/100g -> g/(100g)
	RuleTypeChainedDivision    RuleType = "CHAINED_DIVISION"    // a/b/c -> a/(b.c)
	RuleTypeTermAlias          RuleType = "TERM_ALIAS"          // oC -> degC
)

// RewriteRuleConfig 定义一条改写规则的配置
// 规则由 factory 根据 Type 实例化，按 Priority 升序执行
type RewriteRuleConfig struct {
	ID         string         `json:"id" yaml:"id"`
	Type       RuleType       `json:"type" yaml:"type"`
	Enabled    bool           `json:"enabled" yaml:"enabled"`
	Parameters map[string]any `json:"parameters" yaml:"parameters"` // 规则参数 (例如: {"aliases": {"oC": "degC"}})
	Priority   int            `json:"priority" yaml:"priority"`
}

// DefaultRewriteRules returns the built-in rule chain configuration.
func DefaultRewriteRules() []RewriteRuleConfig {
	return []RewriteRuleConfig{
		{ID: "numeric-denominator", Type: RuleTypeNumericDenominator, Enabled: true, Priority: 10},
		{ID: "chained-division", Type: RuleTypeChainedDivision, Enabled: true, Priority: 20},
	}
}
