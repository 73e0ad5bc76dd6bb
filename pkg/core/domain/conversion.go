package domain

import "gopkg.in/inf.v0"

// NormalizedUnit 记录一次单位字符串规范化的全过程
// 对应 PreParse 的输出，便于排查规则链的改写行为
type NormalizedUnit struct {
	Raw        string   `json:"raw"`
	Stripped   string   `json:"stripped"`   // 去除 [entity] 注释后的表达式
	Normalized string   `json:"normalized"` // 规则链改写后的规范表达式
	Applied    []string `json:"applied"`    // 实际生效的改写规则
}

// ConversionRequest 代表一次换算请求
// Precision 为 nil 表示保留引擎换算的全部精度
type ConversionRequest struct {
	ID        string `json:"id,omitempty"`
	From      string `json:"from"`
	To        string `json:"to"`
	Value     string `json:"value"`
	Precision *int   `json:"precision,omitempty"`
}

// WithPrecision returns a copy of r carrying the given precision.
func (r ConversionRequest) WithPrecision(precision int) ConversionRequest {
	r.Precision = &precision
	return r
}

// ConversionOutcome 批量换算中单条请求的结果
type ConversionOutcome struct {
	Request ConversionRequest `json:"request"`
	Result  *inf.Dec          `json:"-"`
	Err     error             `json:"-"`
}

// ValidationResult 单个单位字符串的校验结果
type ValidationResult struct {
	Raw        string    `json:"raw"`
	Normalized string    `json:"normalized"`
	Valid      bool      `json:"valid"`
	Kind       ErrorKind `json:"kind,omitempty"`
	Reason     string    `json:"reason,omitempty"`
}

// ValidationReport 批量校验报告
type ValidationReport struct {
	BatchID     string             `json:"batch_id"`
	Results     []ValidationResult `json:"results"`
	Invalid     int                `json:"invalid"`
	Quarantined []QuarantineUnit   `json:"quarantined,omitempty"`
}

// Valid reports whether every unit in the batch resolved.
func (r ValidationReport) Valid() bool { return r.Invalid == 0 }
