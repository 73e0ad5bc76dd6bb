package ports

import "github.com/renjie/prism-units/pkg/core/domain"

// RewriteResult 改写规则执行的结果
type RewriteResult struct {
	Tokens    []domain.Token // 结果词法流 (可能是原值或改写后的值)
	Rewritten bool           // 是否进行了改写
	Reason    string         // 改写原因描述
}

// RewriteRule 改写规则接口
// 这是一个策略接口，具体的语法改写（如连续除法、数字前缀分母）由外部实现注入
type RewriteRule interface {
	// Name 返回规则标识，记录在 NormalizedUnit.Applied 中
	Name() string

	// Rewrite 改写已去除注释的词法流
	Rewrite(tokens []domain.Token) RewriteResult
}

// Sanitizer 单位字符串规范化器接口
// 负责协调注释去除与多个改写规则的执行
type Sanitizer interface {
	// Sanitize 执行规范化逻辑，永远不会失败 (纯字符串变换)
	Sanitize(raw string) domain.NormalizedUnit
}
