package common

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/lemconn/krakenlink/types"
)

// HTTPClient HTTP客户端
// 负责连接处理和超时；重试和退避策略留给调用方。
type HTTPClient struct {
	client  *http.Client
	baseURL string
	headers map[string]string
	proxy   string
	logger  *zap.Logger
}

// NewHTTPClient 创建HTTP客户端
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL: baseURL,
		headers: make(map[string]string),
		logger:  zap.NewNop(),
	}
}

// SetProxy 设置代理
func (c *HTTPClient) SetProxy(proxyURL string) error {
	if proxyURL == "" {
		c.client.Transport = nil
		c.proxy = ""
		return nil
	}

	proxy, err := url.Parse(proxyURL)
	if err != nil {
		return errors.Wrap(err, "invalid proxy URL")
	}

	transport := &http.Transport{
		Proxy: http.ProxyURL(proxy),
	}

	if c.client.Transport != nil {
		// 保留现有的Transport设置
		if existingTransport, ok := c.client.Transport.(*http.Transport); ok {
			transport.TLSClientConfig = existingTransport.TLSClientConfig
		}
	}

	c.client.Transport = transport
	c.proxy = proxyURL
	return nil
}

// GetProxy 获取当前代理设置
func (c *HTTPClient) GetProxy() string {
	return c.proxy
}

// SetHeader 设置请求头
func (c *HTTPClient) SetHeader(key, value string) {
	c.headers[key] = value
}

// SetTimeout 设置超时时间
func (c *HTTPClient) SetTimeout(timeout time.Duration) {
	c.client.Timeout = timeout
}

// SetLogger 设置日志器（默认为 zap.NewNop()）
func (c *HTTPClient) SetLogger(logger *zap.Logger) {
	if logger != nil {
		c.logger = logger
	}
}

// Get 发送GET请求，params 追加到查询字符串
func (c *HTTPClient) Get(ctx context.Context, path string, params *types.ExValues) ([]byte, error) {
	if params != nil {
		path = params.JoinPath(path)
	}
	return c.do(ctx, http.MethodGet, path, nil, "")
}

// PostForm 发送表单编码的POST请求，headers 附加到本次请求
func (c *HTTPClient) PostForm(ctx context.Context, path string, headers map[string]string, form string) ([]byte, error) {
	if headers == nil {
		headers = make(map[string]string)
	}
	headers["Content-Type"] = "application/x-www-form-urlencoded"
	return c.do(ctx, http.MethodPost, path, headers, form)
}

// do 发送HTTP请求
func (c *HTTPClient) do(ctx context.Context, method, path string, headers map[string]string, body string) ([]byte, error) {
	url := c.baseURL + path

	var reqBody io.Reader
	if body != "" {
		reqBody = strings.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return nil, errors.Wrap(err, "create request")
	}

	// 设置请求头
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	c.logger.Debug("http request",
		zap.String("method", method),
		zap.String("url", url),
		zap.String("body", body),
	)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "send request")
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			c.logger.Warn("close response body", zap.Error(closeErr))
		}
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "read response")
	}

	c.logger.Debug("http response",
		zap.Int("status", resp.StatusCode),
		zap.ByteString("body", respBody),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errors.Errorf("http error %d: %s", resp.StatusCode, string(respBody))
	}

	return respBody, nil
}
