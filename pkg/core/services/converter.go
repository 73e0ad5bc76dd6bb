package services

import (
	"fmt"

	"go.uber.org/zap"
	"gopkg.in/inf.v0"

	"github.com/renjie/prism-units/pkg/core/domain"
	"github.com/renjie/prism-units/pkg/core/ports"
	"github.com/renjie/prism-units/pkg/core/services/rules"
)

// UnitConverter 核心单位规范化与换算服务
// 实现了 ports.UnitService 接口
//
// 所有单条操作都是无状态的: 每次调用重新规范化并解析输入，可安全并发调用
type UnitConverter struct {
	sanitizer        ports.Sanitizer
	engine           ports.UnitEngine
	concurrencyLimit int                        // 批量操作并发限制
	quarantineRepo   ports.QuarantineRepository // 可选隔离区持久层 (for bad units)
	observer         ports.Observer             // 可选观测回调
	logger           *zap.Logger
}

var _ ports.UnitService = (*UnitConverter)(nil)

// ConverterOption 定义配置选项函数 (Functional Option Pattern)
type ConverterOption func(*UnitConverter)

// WithRewriteRules 设置改写规则链 (替换默认规则)
func WithRewriteRules(rules ...ports.RewriteRule) ConverterOption {
	return func(s *UnitConverter) {
		s.sanitizer = NewSanitizer(rules...)
	}
}

// WithSanitizer 设置自定义规范化器
func WithSanitizer(sanitizer ports.Sanitizer) ConverterOption {
	return func(s *UnitConverter) {
		if sanitizer != nil {
			s.sanitizer = sanitizer
		}
	}
}

// WithQuarantineRepository 设置隔离区仓储依赖
func WithQuarantineRepository(repo ports.QuarantineRepository) ConverterOption {
	return func(s *UnitConverter) {
		s.quarantineRepo = repo
	}
}

// WithObserver 设置观测回调
func WithObserver(observer ports.Observer) ConverterOption {
	return func(s *UnitConverter) {
		s.observer = observer
	}
}

// WithLogger 设置日志
func WithLogger(logger *zap.Logger) ConverterOption {
	return func(s *UnitConverter) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithConcurrencyLimit 设置批量操作最大并发数 (默认 100)
func WithConcurrencyLimit(limit int) ConverterOption {
	return func(s *UnitConverter) {
		if limit > 0 {
			s.concurrencyLimit = limit
		}
	}
}

// DefaultRewriteRules returns the built-in rewrite chain.
func DefaultRewriteRules() []ports.RewriteRule {
	return []ports.RewriteRule{
		&rules.NumericDenominatorRule{},
		&rules.ChainedDivisionRule{},
	}
}

// NewUnitConverter 初始化换算服务
// 使用 Functional Options 模式进行配置
func NewUnitConverter(engine ports.UnitEngine, opts ...ConverterOption) *UnitConverter {
	s := &UnitConverter{
		sanitizer:        NewSanitizer(DefaultRewriteRules()...),
		engine:           engine,
		concurrencyLimit: 100,
		logger:           zap.NewNop(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// With returns a copy of s with extra options applied; s itself is unchanged.
func (s *UnitConverter) With(opts ...ConverterOption) *UnitConverter {
	c := *s
	for _, opt := range opts {
		opt(&c)
	}
	return &c
}

// Sanitize 返回完整的规范化记录 (去注释 + 改写)
func (s *UnitConverter) Sanitize(raw string) domain.NormalizedUnit {
	return s.sanitizer.Sanitize(raw)
}

// PreParse 返回规范化后的单位表达式，便于检查与测试
func (s *UnitConverter) PreParse(raw string) string {
	return s.sanitizer.Sanitize(raw).Normalized
}

// IsValid 校验单位字符串，任何阶段失败都返回 false 而不是错误
func (s *UnitConverter) IsValid(raw string) bool {
	_, _, err := s.resolve(raw)
	s.observe("is_valid", err)
	return err == nil
}

// Describe 以基本单位描述单位，例如 "cm" -> "0.01 m"，"degC" -> "(K) @ 273.15"
func (s *UnitConverter) Describe(raw string) (string, error) {
	u, _, err := s.resolve(raw)
	s.observe("describe", err)
	if err != nil {
		return "", err
	}
	return s.engine.Describe(u), nil
}

// Category 返回单位的物理量分类，例如 "deg" -> "Plane Angle"
func (s *UnitConverter) Category(raw string) (string, error) {
	u, _, err := s.resolve(raw)
	s.observe("category", err)
	if err != nil {
		return "", err
	}
	return s.engine.Category(u), nil
}

// Convert 换算数值，保留引擎换算的全部精度
func (s *UnitConverter) Convert(from, to, value string) (*inf.Dec, error) {
	out, err := s.convert(domain.ConversionRequest{From: from, To: to, Value: value})
	s.observe("convert", err)
	return out, err
}

// ConvertWithPrecision 换算数值并按 RoundHalfUp 舍入到 precision 位小数
func (s *UnitConverter) ConvertWithPrecision(from, to, value string, precision int) (*inf.Dec, error) {
	req := domain.ConversionRequest{From: from, To: to, Value: value}.WithPrecision(precision)
	out, err := s.convert(req)
	s.observe("convert", err)
	return out, err
}

func (s *UnitConverter) convert(req domain.ConversionRequest) (*inf.Dec, error) {
	if req.Precision != nil && *req.Precision < 0 {
		return nil, domain.NewError("convert", domain.KindMalformedValue, fmt.Sprint(*req.Precision),
			fmt.Errorf("precision must be non-negative"))
	}

	value, ok := parseDecimal(req.Value)
	if !ok {
		return nil, domain.NewError("convert", domain.KindMalformedValue, req.Value,
			fmt.Errorf("value is not a decimal number"))
	}

	from, _, err := s.resolve(req.From)
	if err != nil {
		return nil, err
	}
	to, _, err := s.resolve(req.To)
	if err != nil {
		return nil, err
	}

	out, err := s.engine.Convert(from, to, value)
	if err != nil {
		return nil, fmt.Errorf("convert %q to %q: %w", req.From, req.To, err)
	}

	if req.Precision != nil {
		return ratToScale(out, *req.Precision), nil
	}
	return ratToDec(out, DefaultSignificantDigits), nil
}

// resolve 规范化并解析单位字符串
func (s *UnitConverter) resolve(raw string) (ports.Unit, domain.NormalizedUnit, error) {
	n := s.sanitizer.Sanitize(raw)
	if len(n.Applied) > 0 {
		s.logger.Debug("unit rewritten",
			zap.String("raw", raw),
			zap.String("normalized", n.Normalized),
			zap.Strings("rules", n.Applied))
	}

	u, err := s.engine.Parse(n.Normalized)
	if err != nil {
		return nil, n, fmt.Errorf("resolve %q: %w", raw, err)
	}
	return u, n, nil
}

func (s *UnitConverter) observe(op string, err error) {
	if s.observer != nil {
		s.observer.Observe(op, err)
	}
}
