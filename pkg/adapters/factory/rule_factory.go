package factory

import (
	"fmt"
	"sort"
	"sync"

	"github.com/renjie/prism-units/pkg/core/domain"
	"github.com/renjie/prism-units/pkg/core/ports"
	"github.com/renjie/prism-units/pkg/core/services/rules"
)

// RuleBuilder defines the contract for creating a specific rewrite rule
type RuleBuilder func(params map[string]any) (ports.RewriteRule, error)

// RuleFactory is the registry for all available rewrite rule types
type RuleFactory struct {
	builders map[domain.RuleType]RuleBuilder
	mu       sync.RWMutex
}

var (
	instance *RuleFactory
	once     sync.Once
)

// GetRuleFactory returns the singleton instance
func GetRuleFactory() *RuleFactory {
	once.Do(func() {
		instance = NewRuleFactory()
	})
	return instance
}

// NewRuleFactory creates a new RuleFactory instance with built-in rules registered
// This constructor is useful for testing where you need isolated factory instances
func NewRuleFactory() *RuleFactory {
	f := &RuleFactory{
		builders: make(map[domain.RuleType]RuleBuilder),
	}
	// Register built-in rules
	f.Register(domain.RuleTypeNumericDenominator, buildNumericDenominatorRule)
	f.Register(domain.RuleTypeChainedDivision, buildChainedDivisionRule)
	f.Register(domain.RuleTypeTermAlias, buildTermAliasRule)
	return f
}

// Register adds or overrides a rule builder
func (f *RuleFactory) Register(ruleType domain.RuleType, builder RuleBuilder) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.builders[ruleType] = builder
}

// CreateRule instantiates a rewrite rule based on configuration
func (f *RuleFactory) CreateRule(rule domain.RewriteRuleConfig) (ports.RewriteRule, error) {
	f.mu.RLock()
	builder, ok := f.builders[rule.Type]
	f.mu.RUnlock()

	if !ok {
		return nil, domain.NewError("factory.create_rule", domain.KindInvalidConfig, rule.ID,
			fmt.Errorf("no builder registered for rule type: %s", rule.Type))
	}
	r, err := builder(rule.Parameters)
	if err != nil {
		return nil, domain.NewError("factory.create_rule", domain.KindInvalidConfig, rule.ID, err)
	}
	return r, nil
}

// BuildChain instantiates the enabled rules ordered by ascending Priority.
// Rules with equal priority keep their configured order.
func (f *RuleFactory) BuildChain(configs []domain.RewriteRuleConfig) ([]ports.RewriteRule, error) {
	enabled := make([]domain.RewriteRuleConfig, 0, len(configs))
	for _, c := range configs {
		if c.Enabled {
			enabled = append(enabled, c)
		}
	}
	sort.SliceStable(enabled, func(i, j int) bool {
		return enabled[i].Priority < enabled[j].Priority
	})

	chain := make([]ports.RewriteRule, 0, len(enabled))
	for _, c := range enabled {
		r, err := f.CreateRule(c)
		if err != nil {
			return nil, err
		}
		chain = append(chain, r)
	}
	return chain, nil
}

// buildNumericDenominatorRule (Built-in implementation)
func buildNumericDenominatorRule(map[string]any) (ports.RewriteRule, error) {
	return &rules.NumericDenominatorRule{}, nil
}

func buildChainedDivisionRule(map[string]any) (ports.RewriteRule, error) {
	return &rules.ChainedDivisionRule{}, nil
}

// buildTermAliasRule expects params["aliases"] as a string-to-string mapping.
// Decoded YAML and JSON both yield map[string]any, so values are checked one by one.
func buildTermAliasRule(params map[string]any) (ports.RewriteRule, error) {
	raw, ok := params["aliases"]
	if !ok {
		return nil, fmt.Errorf("invalid parameters for TERM_ALIAS rule: need aliases(map)")
	}

	aliases := make(map[string]string)
	switch m := raw.(type) {
	case map[string]string:
		for k, v := range m {
			aliases[k] = v
		}
	case map[string]any:
		for k, v := range m {
			s, ok := v.(string)
			if !ok || s == "" {
				return nil, fmt.Errorf("invalid alias target for %q: %v", k, v)
			}
			aliases[k] = s
		}
	default:
		return nil, fmt.Errorf("invalid parameters for TERM_ALIAS rule: aliases must be a map, got %T", raw)
	}

	if len(aliases) == 0 {
		return nil, fmt.Errorf("invalid parameters for TERM_ALIAS rule: aliases is empty")
	}
	return &rules.TermAliasRule{Aliases: aliases}, nil
}
