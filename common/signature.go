package common

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/base64"
	"time"
)

// SignHMAC512Base64 HMAC-SHA512签名（base64编码，密钥为原始字节）
// Kraken 的 API-Sign 使用 base64 解码后的 secret 作为 HMAC 密钥。
func SignHMAC512Base64(message, secret []byte) string {
	mac := hmac.New(sha512.New, secret)
	mac.Write(message)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// HashSHA256 SHA256摘要（原始字节）
func HashSHA256(data []byte) []byte {
	sum := sha256.Sum256(data)
	return sum[:]
}

// DecodeBase64 base64解码
func DecodeBase64(s string) ([]byte, error) {
	return base64.StdEncoding.DecodeString(s)
}

// GetTimestamp 获取时间戳（毫秒）
func GetTimestamp() int64 {
	return time.Now().UnixMilli()
}
