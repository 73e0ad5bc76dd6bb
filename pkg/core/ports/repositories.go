package ports

import (
	"context"

	"github.com/renjie/prism-units/pkg/core/domain"
)

// QuarantineRepository 隔离区仓储接口
// 职责: 存储批量校验中被“拒收”的单位字符串，供后续补充单位定义或别名
type QuarantineRepository interface {
	// Save 保存一条隔离记录
	Save(ctx context.Context, record domain.QuarantineUnit) error
}

// Observer 观测接口 (可选)
// 每次单位解析/换算完成后回调，err 为 nil 表示成功
type Observer interface {
	Observe(op string, err error)
}
