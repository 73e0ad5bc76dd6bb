package services

import (
	"strings"

	"github.com/renjie/prism-units/pkg/core/domain"
	"github.com/renjie/prism-units/pkg/core/ports"
)

// ChainSanitizer 基于责任链模式的规范化器实现
// 先去除注释，再依次执行改写规则
type ChainSanitizer struct {
	rules []ports.RewriteRule
}

// NewSanitizer 创建基于规则链的规范化器
func NewSanitizer(rules ...ports.RewriteRule) *ChainSanitizer {
	return &ChainSanitizer{rules: rules}
}

// Sanitize 实现 ports.Sanitizer 接口
func (s *ChainSanitizer) Sanitize(raw string) domain.NormalizedUnit {
	trimmed := strings.TrimSpace(raw)
	tokens := StripTokens(Tokenize(trimmed))

	result := domain.NormalizedUnit{
		Raw:      raw,
		Stripped: domain.JoinTokens(tokens),
	}

	// 像流水线一样依次改写 (Pipe and Filter)
	for _, rule := range s.rules {
		res := rule.Rewrite(tokens)
		if !res.Rewritten {
			continue
		}
		tokens = res.Tokens
		result.Applied = append(result.Applied, rule.Name())
	}

	result.Normalized = domain.JoinTokens(tokens)
	return result
}
