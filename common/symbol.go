package common

import "strings"

// NormalizeSymbol 标准化交易对格式为 BASE/QUOTE (如 BTC/USD)
func NormalizeSymbol(base, quote string) string {
	return strings.ToUpper(base) + "/" + strings.ToUpper(quote)
}
