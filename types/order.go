package types

import "strings"

// OrderSide 订单方向
type OrderSide string

const (
	OrderSideBuy  OrderSide = "buy"  // 买入
	OrderSideSell OrderSide = "sell" // 卖出
)

func (s OrderSide) Lower() string {
	return strings.ToLower(string(s))
}

func (s OrderSide) IsBuy() bool {
	return s == OrderSideBuy
}

func (s OrderSide) IsSell() bool {
	return s == OrderSideSell
}

// OrderType 订单类型
type OrderType string

const (
	OrderTypeMarket OrderType = "market" // 市价单
	OrderTypeLimit  OrderType = "limit"  // 限价单
)

func (t OrderType) Lower() string {
	return strings.ToLower(string(t))
}

func (t OrderType) IsMarket() bool {
	return t == OrderTypeMarket
}

func (t OrderType) IsLimit() bool {
	return t == OrderTypeLimit
}

// Order 订单信息
type Order struct {
	ID        string    `json:"id"`        // 订单ID
	Symbol    string    `json:"symbol"`    // 交易对（无法解析时为空）
	Type      OrderType `json:"type"`      // 订单类型
	Side      OrderSide `json:"side"`      // 订单方向
	Status    string    `json:"status"`    // 交易所订单状态
	Price     *float64  `json:"price"`     // 订单价格，交易所未提供时为 nil
	Cost      float64   `json:"cost"`      // 成交金额
	Amount    float64   `json:"amount"`    // 订单数量
	Filled    float64   `json:"filled"`    // 已成交数量
	Remaining float64   `json:"remaining"` // 剩余数量（= Amount - Filled）
	Fee       *Fee      `json:"fee,omitempty"`
	Timestamp int64     `json:"timestamp"` // 创建时间（毫秒）

	Info map[string]interface{} `json:"info"` // 交易所原始信息
}

// Fee 手续费
// Rate 在 Kraken 的订单记录里不存在，保持为 nil。
type Fee struct {
	Currency string   `json:"currency,omitempty"` // 手续费币种，由订单 oflags 推导
	Cost     float64  `json:"cost"`               // 手续费金额
	Rate     *float64 `json:"rate,omitempty"`     // 手续费率，恒为 nil
}
