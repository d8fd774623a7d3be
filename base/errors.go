package base

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMarketNotFound 市场未找到
	ErrMarketNotFound = errors.New("market not found")
	// ErrOrderNotFound 订单未找到（取消或查询的订单已不存在）
	ErrOrderNotFound = errors.New("order not found")
	// ErrServiceUnavailable 交易所临时不可用，调用方可以重试
	ErrServiceUnavailable = errors.New("exchange temporarily unavailable")
	// ErrNotSupported 该交易对不支持此操作（如 darkpool 行情）
	ErrNotSupported = errors.New("operation not supported")
	// ErrWithdrawKeyRequired 提现必须提供账户里配置的提现密钥名称
	ErrWithdrawKeyRequired = errors.New("withdraw requires a withdrawal key name")
	// ErrAuthenticationRequired 私有接口需要 API Key 和 Secret
	ErrAuthenticationRequired = errors.New("authentication required")
)

// APIError 交易所返回的应用层错误
// Messages 保留原始错误列表用于诊断；kind 标记错误类别，
// 可以通过 errors.Is 与上面的哨兵错误比较。
type APIError struct {
	Exchange string
	Messages []string
	kind     error
}

// NewAPIError 创建交易所错误
func NewAPIError(exchange string, messages []string, kind error) *APIError {
	return &APIError{
		Exchange: exchange,
		Messages: messages,
		kind:     kind,
	}
}

// Error 实现 error 接口
func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Exchange, strings.Join(e.Messages, ", "))
}

// Unwrap 返回错误类别，支持 errors.Is 判断
func (e *APIError) Unwrap() error {
	return e.kind
}

// WithKind 返回一个携带相同原始错误列表、但类别不同的 APIError
// 用于 cancelOrder 把通用错误重新归类为 ErrOrderNotFound。
func (e *APIError) WithKind(kind error) *APIError {
	return &APIError{
		Exchange: e.Exchange,
		Messages: e.Messages,
		kind:     kind,
	}
}

// HasMessage 检查原始错误列表里是否包含指定子串
func (e *APIError) HasMessage(substr string) bool {
	for _, m := range e.Messages {
		if strings.Contains(m, substr) {
			return true
		}
	}
	return false
}
