package ports

import "math/big"

// Unit 是引擎解析出的不透明单位句柄
// 仅在单次调用内有效，不跨调用缓存
type Unit interface {
	// String 返回单位的基本单位表示 (e.g. "kg.m-2")
	String() string
}

// UnitEngine 单位代数引擎 (外部协作者)
// 职责: 规范语法解析、前缀查找、量纲兼容性检查、比例/偏移提取与数值换算
type UnitEngine interface {
	// Parse 解析规范化后的单位表达式
	Parse(expr string) (Unit, error)

	// Convert 将 value 从 from 单位换算到 to 单位 (精确有理数运算)
	Convert(from, to Unit, value *big.Rat) (*big.Rat, error)

	// Describe 以基本单位描述单位: "<scale> <base>" / "(<base>) @ <offset>"
	Describe(u Unit) string

	// Category 返回粗粒度的物理量分类 (e.g. "Plane Angle")
	Category(u Unit) string
}
