package types

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ExTimestamp 支持多种格式的时间戳类型
// Kraken 的时间字段是带小数的 Unix 秒（如 1499827319.559），
// 部分接口返回整数秒或毫秒，统一在这里处理。
type ExTimestamp struct {
	time.Time
}

// UnmarshalJSON 自定义 JSON 反序列化
func (t *ExTimestamp) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(strings.Trim(string(b), `"`))
	if s == "" || s == "null" || s == "0" {
		t.Time = time.Time{}
		return nil
	}

	// 带小数的 Unix 秒
	if strings.Contains(s, ".") {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("invalid timestamp %s: %w", s, err)
		}
		sec := int64(f)
		nsec := int64((f - float64(sec)) * 1e9)
		t.Time = time.Unix(sec, nsec)
		return nil
	}

	// 整数：按位数区分秒和毫秒
	if ts, err := strconv.ParseInt(s, 10, 64); err == nil {
		if len(s) >= 13 {
			t.Time = time.UnixMilli(ts)
		} else {
			t.Time = time.Unix(ts, 0)
		}
		return nil
	}

	return fmt.Errorf("unsupported timestamp: %s", s)
}

// Milli 返回毫秒时间戳，零值返回 0
func (t ExTimestamp) Milli() int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}
