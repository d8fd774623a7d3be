// Package krakenlink exposes the Kraken REST API through a uniform
// trading interface: markets, tickers, order books, OHLCV candles,
// trades, balances and the order lifecycle, all in exchange-agnostic
// units and field names.
package krakenlink

import (
	"go.uber.org/zap"

	"github.com/lemconn/krakenlink/base"
	"github.com/lemconn/krakenlink/kraken"
)

// ExchangeOptions 交易所配置选项
type ExchangeOptions struct {
	APIKey    string
	SecretKey string
	BaseURL   string
	Proxy     string
	Logger    *zap.Logger
}

// Option 配置选项函数类型
type Option func(*ExchangeOptions)

// WithAPIKey 设置 API Key
func WithAPIKey(apiKey string) Option {
	return func(opts *ExchangeOptions) {
		opts.APIKey = apiKey
	}
}

// WithSecretKey 设置 Secret Key（base64 编码）
func WithSecretKey(secretKey string) Option {
	return func(opts *ExchangeOptions) {
		opts.SecretKey = secretKey
	}
}

// WithBaseURL 设置基础 URL
func WithBaseURL(baseURL string) Option {
	return func(opts *ExchangeOptions) {
		opts.BaseURL = baseURL
	}
}

// WithProxy 设置代理
func WithProxy(proxy string) Option {
	return func(opts *ExchangeOptions) {
		opts.Proxy = proxy
	}
}

// WithLogger 设置日志器（用于调试请求和响应）
func WithLogger(logger *zap.Logger) Option {
	return func(opts *ExchangeOptions) {
		opts.Logger = logger
	}
}

// New 创建交易所实例
func New(opts ...Option) (base.Exchange, error) {
	options := &ExchangeOptions{}
	for _, opt := range opts {
		opt(options)
	}

	optionsMap := make(map[string]interface{})
	if options.BaseURL != "" {
		optionsMap["baseURL"] = options.BaseURL
	}
	if options.Proxy != "" {
		optionsMap["proxy"] = options.Proxy
	}
	if options.Logger != nil {
		optionsMap["logger"] = options.Logger
	}

	return kraken.New(options.APIKey, options.SecretKey, optionsMap)
}
