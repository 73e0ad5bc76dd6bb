package domain

import "context"

// BatchSource 标记批量任务的来源
type BatchSource string

const (
	BatchSourceCLI    BatchSource = "CLI"    // 命令行直接输入
	BatchSourceFile   BatchSource = "FILE"   // CSV / JSON 文件
	BatchSourceConfig BatchSource = "CONFIG" // 配置中的已知单位清单
)

// BatchContext 携带批量校验/换算时的上下文信息
type BatchContext struct {
	TraceID string
	Source  BatchSource
	BatchID string // 批次号
}

type batchContextKey struct{}

// NewContext returns a new Context that carries the BatchContext value.
func NewContext(ctx context.Context, info BatchContext) context.Context {
	return context.WithValue(ctx, batchContextKey{}, info)
}

// FromContext returns the BatchContext value stored in ctx, if any.
func FromContext(ctx context.Context) (BatchContext, bool) {
	info, ok := ctx.Value(batchContextKey{}).(BatchContext)
	return info, ok
}
