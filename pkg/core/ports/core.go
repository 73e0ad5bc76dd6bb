package ports

import (
	"context"

	"github.com/renjie/prism-units/pkg/core/domain"
	"gopkg.in/inf.v0"
)

// UnitService 单位规范化与换算服务 (Core Capability)
// 职责:
// A. 规范化 (去除 [entity] 注释、改写连续除法与数字前缀分母)
// B. 校验 / 描述 / 分类
// C. 换算 (精确小数，可选精度)
type UnitService interface {
	PreParse(raw string) string
	IsValid(raw string) bool
	Describe(raw string) (string, error)
	Category(raw string) (string, error)
	Convert(from, to, value string) (*inf.Dec, error)
	ConvertWithPrecision(from, to, value string, precision int) (*inf.Dec, error)

	// ValidateAll 批量校验一份不可变的单位清单
	ValidateAll(ctx context.Context, units []string) (domain.ValidationReport, error)

	// ConvertAll 批量换算，单条失败记录在 outcome 中
	ConvertAll(ctx context.Context, requests []domain.ConversionRequest) ([]domain.ConversionOutcome, error)
}
