package kraken

import (
	"context"
	"encoding/json"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/lemconn/krakenlink/base"
	"github.com/lemconn/krakenlink/common"
	"github.com/lemconn/krakenlink/types"
)

const (
	krakenName    = "kraken"
	krakenBaseURL = "https://api.kraken.com"
	krakenVersion = "0"
)

// 交易所错误列表里的致命标记
const (
	errServiceUnavailable = "EService:Unavailable"
	errUnknownOrder       = "EOrder:Unknown order"
)

// Client Kraken 客户端
type Client struct {
	// HTTPClient HTTP 客户端
	HTTPClient *common.HTTPClient

	// APIKey API 密钥
	APIKey string

	// SecretKey base64 编码的密钥
	SecretKey string

	signer *Signer
	nonce  *common.Nonce
}

// NewClient 创建 Kraken 客户端
func NewClient(apiKey, secretKey string, options map[string]interface{}) (*Client, error) {
	baseURL := krakenBaseURL
	proxyURL := ""
	var logger *zap.Logger

	if v, ok := options["baseURL"].(string); ok {
		baseURL = v
	}
	if v, ok := options["proxy"].(string); ok {
		proxyURL = v
	}
	if v, ok := options["logger"].(*zap.Logger); ok {
		logger = v
	}

	client := &Client{
		HTTPClient: common.NewHTTPClient(baseURL),
		APIKey:     apiKey,
		SecretKey:  secretKey,
		signer:     NewSigner(secretKey),
		nonce:      common.NewNonce(),
	}

	if proxyURL != "" {
		if err := client.HTTPClient.SetProxy(proxyURL); err != nil {
			return nil, err
		}
	}
	if logger != nil {
		client.HTTPClient.SetLogger(logger)
	}

	return client, nil
}

// Public 调用公开接口并返回信封里的 result
func (c *Client) Public(ctx context.Context, endpoint string, params *types.ExValues) (json.RawMessage, error) {
	path := "/" + krakenVersion + "/public/" + endpoint
	resp, err := c.HTTPClient.Get(ctx, path, params)
	if err != nil {
		return nil, err
	}
	return parseResponse(resp)
}

// Private 调用私有接口
// nonce 合并进表单体，签名通过 API-Key / API-Sign 两个请求头附加。
func (c *Client) Private(ctx context.Context, endpoint string, params *types.ExValues) (json.RawMessage, error) {
	if c.APIKey == "" || c.SecretKey == "" {
		return nil, base.ErrAuthenticationRequired
	}

	path := "/" + krakenVersion + "/private/" + endpoint
	nonce := c.nonce.NextString()

	body := types.NewExValues()
	body.Set("nonce", nonce)
	body.Merge(params)
	encoded := body.EncodeQuery()

	signature, err := c.signer.SignRequest(path, nonce, encoded)
	if err != nil {
		return nil, err
	}

	headers := map[string]string{
		"API-Key":  c.APIKey,
		"API-Sign": signature,
	}

	resp, err := c.HTTPClient.PostForm(ctx, path, headers, encoded)
	if err != nil {
		return nil, err
	}
	return parseResponse(resp)
}

// parseResponse 解码信封并分类应用层错误
func parseResponse(resp []byte) (json.RawMessage, error) {
	var env apiEnvelope
	if err := jsoniter.Unmarshal(resp, &env); err != nil {
		return nil, errors.Wrap(err, "decode response envelope")
	}
	if err := classifyError(env.Error); err != nil {
		return nil, err
	}
	if len(env.Result) == 0 {
		return nil, errors.New("kraken: response has no result")
	}
	return env.Result, nil
}

// classifyError 检查交易所错误列表
// 空列表表示成功；服务不可用映射为可重试的错误类别，
// 其余保留原始错误内容作为通用错误抛出。
func classifyError(messages []string) error {
	if len(messages) == 0 {
		return nil
	}
	for _, m := range messages {
		if strings.Contains(m, errServiceUnavailable) {
			return base.NewAPIError(krakenName, messages, base.ErrServiceUnavailable)
		}
	}
	return base.NewAPIError(krakenName, messages, nil)
}
