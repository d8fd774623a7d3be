package common

import (
	"strconv"
	"sync"
	"time"
)

// Nonce 单调递增的 nonce 生成器
// 同一组 API 密钥的 nonce 不允许重复或回退，否则交易所直接拒绝请求，
// 因此并发的私有调用必须串行分配。
type Nonce struct {
	mu   sync.Mutex
	last int64
}

// NewNonce 创建 nonce 生成器，从当前毫秒时间戳开始
func NewNonce() *Nonce {
	return &Nonce{last: time.Now().UnixMilli()}
}

// Next 返回下一个 nonce，保证严格递增
func (n *Nonce) Next() int64 {
	n.mu.Lock()
	defer n.mu.Unlock()

	now := time.Now().UnixMilli()
	if now <= n.last {
		now = n.last + 1
	}
	n.last = now
	return n.last
}

// NextString 返回下一个 nonce 的十进制字符串
func (n *Nonce) NextString() string {
	return strconv.FormatInt(n.Next(), 10)
}
