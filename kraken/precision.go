package kraken

import (
	"github.com/shopspring/decimal"
)

// truncateToPrecision 把数值截断到指定小数位
// 始终向零截断、从不四舍五入，避免下单数量或价格超出交易所接受的范围。
func truncateToPrecision(value float64, precision int) string {
	return decimal.NewFromFloat(value).RoundDown(int32(precision)).String()
}

// AmountToPrecision 把数量截断到市场的数量精度
func (k *Kraken) AmountToPrecision(symbol string, amount float64) (string, error) {
	market, err := k.catalog.market(symbol)
	if err != nil {
		return "", err
	}
	return truncateToPrecision(amount, market.Precision.Amount), nil
}

// PriceToPrecision 把价格截断到市场的价格精度
func (k *Kraken) PriceToPrecision(symbol string, price float64) (string, error) {
	market, err := k.catalog.market(symbol)
	if err != nil {
		return "", err
	}
	return truncateToPrecision(price, market.Precision.Price), nil
}

// CostToPrecision 把成交金额截断到市场的价格精度
func (k *Kraken) CostToPrecision(symbol string, cost float64) (string, error) {
	return k.PriceToPrecision(symbol, cost)
}

// FeeToPrecision 把手续费截断到市场的数量精度
func (k *Kraken) FeeToPrecision(symbol string, fee float64) (string, error) {
	return k.AmountToPrecision(symbol, fee)
}
