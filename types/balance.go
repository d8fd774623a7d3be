package types

// Balance 单币种余额
// Kraken 的账户余额接口不区分冻结资金，Used 恒为 0。
type Balance struct {
	Currency string  `json:"currency"` // 币种
	Free     float64 `json:"free"`     // 可用余额
	Used     float64 `json:"used"`     // 冻结余额，恒为 0
	Total    float64 `json:"total"`    // 总余额
}

// Balances 账户所有余额
type Balances struct {
	Accounts map[string]*Balance    `json:"accounts"` // 按标准化币种代码索引
	Info     map[string]interface{} `json:"info"`     // 交易所原始信息
}

// Get 获取指定币种余额，不存在时返回零值余额
func (b *Balances) Get(currency string) *Balance {
	if balance, ok := b.Accounts[currency]; ok {
		return balance
	}
	return &Balance{Currency: currency}
}
