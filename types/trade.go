package types

// Trade 交易记录
type Trade struct {
	ID        string    `json:"id"`        // 交易ID（公开成交流无ID，为空）
	OrderID   string    `json:"order_id"`  // 关联订单ID（仅私有成交记录）
	Symbol    string    `json:"symbol"`    // 交易对（无法解析时为空）
	Type      OrderType `json:"type"`      // 订单类型 limit/market
	Side      OrderSide `json:"side"`      // 方向 buy/sell
	Price     float64   `json:"price"`     // 价格
	Amount    float64   `json:"amount"`    // 数量
	Timestamp int64     `json:"timestamp"` // 时间戳（毫秒）

	Info interface{} `json:"info"` // 交易所原始信息
}
