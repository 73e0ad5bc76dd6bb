package domain

import "time"

// QuarantineStatus 定义隔离记录的状态
type QuarantineStatus string

// 批量校验产生的记录均为待处理状态
const QuarantineStatusPending QuarantineStatus = "PENDING"

// QuarantineUnit 代表一条被“隔离”审查的单位字符串
// 批量校验中无法解析的单位会被封装为此对象交给隔离区仓储
type QuarantineUnit struct {
	ID         string           `json:"id"`
	Raw        string           `json:"raw"`        // 原始单位字符串
	Normalized string           `json:"normalized"` // 规范化后的表达式
	Reason     string           `json:"reason"`     // 隔离原因
	Kind       ErrorKind        `json:"kind"`       // 错误分类
	CreatedAt  time.Time        `json:"created_at"`
	Status     QuarantineStatus `json:"status"`

	BatchID string `json:"batch_id,omitempty"`
}
