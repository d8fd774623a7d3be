package common

// commonCurrencies 币种代码替换表
// 交易所的内部代码映射为业界通用代码。
var commonCurrencies = map[string]string{
	"XBT": "BTC",
	"BCC": "BCH",
	"DRK": "DASH",
}

// CommonCurrencyCode 标准化币种代码
func CommonCurrencyCode(code string) string {
	if common, ok := commonCurrencies[code]; ok {
		return common
	}
	return code
}
