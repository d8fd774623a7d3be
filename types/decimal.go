package types

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ExDecimal 支持空字符串的 decimal.Decimal 类型
// Kraken 的数值字段混用 JSON 字符串和数字，统一在这里处理。
type ExDecimal struct {
	decimal.Decimal
}

// UnmarshalJSON 自定义 JSON 反序列化，支持空字符串
func (d *ExDecimal) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(strings.Trim(string(data), `"`))
	if s == "" || s == "null" {
		d.Decimal = decimal.Zero
		return nil
	}
	return d.Decimal.UnmarshalJSON(data)
}

// Float64 转换为 float64（忽略精度损失标志）
func (d ExDecimal) Float64() float64 {
	f, _ := d.Decimal.Float64()
	return f
}
