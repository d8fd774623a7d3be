package kraken

import (
	"github.com/pkg/errors"

	"github.com/lemconn/krakenlink/common"
)

// Signer Kraken 签名工具
type Signer struct {
	secretKey string // base64 编码的共享密钥
}

// NewSigner 创建签名工具
func NewSigner(secretKey string) *Signer {
	return &Signer{
		secretKey: secretKey,
	}
}

// SignRequest 计算私有接口的 API-Sign 请求头
// path: API 路径（如 /0/private/Balance）
// nonce: 本次请求的 nonce（十进制字符串）
// body: 表单编码的请求体（已包含 nonce）
//
// 算法: base64( HMAC-SHA512( base64decode(secret), path ++ SHA256(nonce ++ body) ) )
// 字节拼接顺序、摘要算法和编码必须与交易所完全一致，
// 任何偏差都只会得到认证错误，不会有格式提示。
func (s *Signer) SignRequest(path, nonce, body string) (string, error) {
	secret, err := common.DecodeBase64(s.secretKey)
	if err != nil {
		return "", errors.Wrap(err, "decode secret key")
	}

	digest := common.HashSHA256([]byte(nonce + body))
	message := append([]byte(path), digest...)

	return common.SignHMAC512Base64(message, secret), nil
}
