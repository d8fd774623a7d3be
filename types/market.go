package types

// Market 市场信息
type Market struct {
	ID       string `json:"id"`       // 交易所原生交易对代码，如 "XXBTZUSD"
	Symbol   string `json:"symbol"`   // 统一格式交易对，如 "BTC/USD"；darkpool 交易对使用 altname
	Base     string `json:"base"`     // 基础货币，如 "BTC"
	Quote    string `json:"quote"`    // 计价货币，如 "USD"
	Altname  string `json:"altname"`  // 交易所备用名称，如 "XBTUSD"
	Darkpool bool   `json:"darkpool"` // 是否为暗池交易对（不提供公开行情和订单簿）
	Active   bool   `json:"active"`   // 是否活跃

	// Maker/Taker 手续费率（小数，非百分比）；nil 表示交易所未提供
	Maker *float64 `json:"maker,omitempty"`
	Taker *float64 `json:"taker,omitempty"`

	// Lot 最小下单数量（等于 Limits.Amount.Min）
	Lot float64 `json:"lot"`

	Precision struct {
		Amount int `json:"amount"` // 数量精度（小数位数）
		Price  int `json:"price"`  // 价格精度（小数位数）
	} `json:"precision"`

	// Limits 由精度推导出的占位边界，并非交易所强制执行的限制
	Limits struct {
		Amount struct {
			Min float64 `json:"min"` // 最小数量（10^-精度）
			Max float64 `json:"max"` // 最大数量（10^精度）
		} `json:"amount"`
		Price struct {
			Min float64  `json:"min"`           // 最小价格（10^-精度）
			Max *float64 `json:"max,omitempty"` // 无上限
		} `json:"price"`
		Cost struct {
			Min float64  `json:"min"`           // 最小成本，固定为 0
			Max *float64 `json:"max,omitempty"` // 无上限
		} `json:"cost"`
	} `json:"limits"`

	Info map[string]interface{} `json:"info"` // 交易所原始信息
}
