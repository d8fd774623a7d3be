package kraken

import (
	"github.com/lemconn/krakenlink/common"
)

// darkpoolMarker 暗池交易对在原生代码里的标记
const darkpoolMarker = ".d"

// stripAssetPrefix 去掉资产代码的 X/Z 前缀
// Kraken 按类 ISO-4217 惯例给加密资产加 X、法币加 Z 前缀（如 XXBT、ZUSD）。
// 只看首字符且只剥一次；短代码（如 ZEC、XTZ）本身就以这些字母开头，不处理。
func stripAssetPrefix(code string) string {
	if len(code) > 3 && (code[0] == 'X' || code[0] == 'Z') {
		return code[1:]
	}
	return code
}

// normalizeAsset 前缀剥离加通用代码替换
// 目录和余额两条路径都经过这里，保证同一个代码得到同一个结果。
func normalizeAsset(code string) string {
	return common.CommonCurrencyCode(stripAssetPrefix(code))
}
