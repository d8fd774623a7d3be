package types

// Ticker 行情信息
// Close/Change/Percentage/Average/QuoteVolume 在 Kraken 的行情接口里不存在，
// 保持为 nil，不从其他字段推算。
type Ticker struct {
	Symbol     string  `json:"symbol"`      // 交易对
	Timestamp  int64   `json:"timestamp"`   // 时间戳（毫秒，解析时刻的本地时间）
	High       float64 `json:"high"`        // 24小时最高价
	Low        float64 `json:"low"`         // 24小时最低价
	Bid        float64 `json:"bid"`         // 买一价
	Ask        float64 `json:"ask"`         // 卖一价
	Vwap       float64 `json:"vwap"`        // 24小时成交量加权均价
	Open       float64 `json:"open"`        // 开盘价
	Last       float64 `json:"last"`        // 最新价
	BaseVolume float64 `json:"base_volume"` // 24小时成交量（基础货币）

	Close       *float64 `json:"close,omitempty"`
	Change      *float64 `json:"change,omitempty"`
	Percentage  *float64 `json:"percentage,omitempty"`
	Average     *float64 `json:"average,omitempty"`
	QuoteVolume *float64 `json:"quote_volume,omitempty"`

	Info map[string]interface{} `json:"info"` // 交易所原始信息
}
