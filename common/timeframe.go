package common

import "strings"

// krakenTimeframes Kraken OHLC 接口的 interval 参数（分钟）
var krakenTimeframes = map[string]string{
	"1m":  "1",
	"5m":  "5",
	"15m": "15",
	"30m": "30",
	"1h":  "60",
	"4h":  "240",
	"1d":  "1440",
	"1w":  "10080",
	"2w":  "21600",
}

// KrakenTimeframe 转换为Kraken时间框架格式（interval 分钟数）
// 返回 false 表示不支持该时间框架。
func KrakenTimeframe(timeframe string) (string, bool) {
	interval, ok := krakenTimeframes[strings.ToLower(timeframe)]
	return interval, ok
}

// SupportedTimeframes 返回支持的时间框架列表
func SupportedTimeframes() []string {
	frames := make([]string, 0, len(krakenTimeframes))
	for tf := range krakenTimeframes {
		frames = append(frames, tf)
	}
	return frames
}
