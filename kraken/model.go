package kraken

import (
	"bytes"
	"encoding/json"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"

	"github.com/lemconn/krakenlink/types"
)

// apiEnvelope Kraken 响应信封
// error 为空列表表示成功，result 携带业务数据。
type apiEnvelope struct {
	Error  []string        `json:"error"`
	Result json.RawMessage `json:"result"`
}

// krakenPair AssetPairs 返回的交易对
type krakenPair struct {
	Altname      string              `json:"altname"`
	Base         string              `json:"base"`
	Quote        string              `json:"quote"`
	PairDecimals int                 `json:"pair_decimals"`
	LotDecimals  int                 `json:"lot_decimals"`
	Fees         [][]types.ExDecimal `json:"fees"`       // 分级费率表 [交易量, 百分比]
	FeesMaker    [][]types.ExDecimal `json:"fees_maker"` // 可选的 maker 费率表
}

// krakenTicker Ticker 返回的行情
// 字段都是定长数组：a/b/c 为 [价格, ...]，h/l/p/v 为 [今日, 24小时]。
type krakenTicker struct {
	A []types.ExDecimal `json:"a"` // ask
	B []types.ExDecimal `json:"b"` // bid
	C []types.ExDecimal `json:"c"` // 最新成交
	V []types.ExDecimal `json:"v"` // 成交量
	P []types.ExDecimal `json:"p"` // 成交量加权均价
	L []types.ExDecimal `json:"l"` // 最低价
	H []types.ExDecimal `json:"h"` // 最高价
	O types.ExDecimal   `json:"o"` // 开盘价
}

// krakenDepth Depth 返回的订单簿，行为 [价格, 数量, 时间戳]
type krakenDepth struct {
	Asks [][]types.ExDecimal `json:"asks"`
	Bids [][]types.ExDecimal `json:"bids"`
}

// krakenTradeObject 私有成交记录（对象形式）
type krakenTradeObject struct {
	ID        string            `json:"id"` // 来自 result.trades 的 key，解码后注入
	OrderTxID string            `json:"ordertxid"`
	Pair      string            `json:"pair"`
	Time      types.ExTimestamp `json:"time"`
	Type      string            `json:"type"`      // buy / sell
	OrderType string            `json:"ordertype"` // limit / market
	Price     types.ExDecimal   `json:"price"`
	Vol       types.ExDecimal   `json:"vol"`
}

// krakenTrade 成交记录的两种原始形态
// 私有接口返回对象，公开接口返回定位数组
// [价格, 数量, 时间(秒), 方向码 b/s, 类型码 l/m, misc]。
// 形态在反序列化时一次性判定，解析器不再重复探测。
type krakenTrade struct {
	object bool
	obj    krakenTradeObject

	price    types.ExDecimal
	amount   types.ExDecimal
	tm       types.ExTimestamp
	sideCode string
	typeCode string

	raw interface{}
}

// UnmarshalJSON 根据 JSON 形态分发
func (t *krakenTrade) UnmarshalJSON(b []byte) error {
	if err := jsoniter.Unmarshal(b, &t.raw); err != nil {
		return err
	}

	trimmed := bytes.TrimSpace(b)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		t.object = true
		return jsoniter.Unmarshal(b, &t.obj)
	}

	var row []json.RawMessage
	if err := jsoniter.Unmarshal(b, &row); err != nil {
		return err
	}
	if len(row) < 5 {
		return errors.Errorf("trade row too short: %d elements", len(row))
	}
	if err := jsoniter.Unmarshal(row[0], &t.price); err != nil {
		return errors.Wrap(err, "trade price")
	}
	if err := jsoniter.Unmarshal(row[1], &t.amount); err != nil {
		return errors.Wrap(err, "trade amount")
	}
	if err := jsoniter.Unmarshal(row[2], &t.tm); err != nil {
		return errors.Wrap(err, "trade time")
	}
	if err := jsoniter.Unmarshal(row[3], &t.sideCode); err != nil {
		return errors.Wrap(err, "trade side")
	}
	if err := jsoniter.Unmarshal(row[4], &t.typeCode); err != nil {
		return errors.Wrap(err, "trade type")
	}
	return nil
}

// krakenOrderDescr 订单的描述子对象
type krakenOrderDescr struct {
	Pair      string          `json:"pair"`
	Type      string          `json:"type"`      // buy / sell
	OrderType string          `json:"ordertype"` // limit / market
	Price     types.ExDecimal `json:"price"`
}

// krakenOrder OpenOrders / ClosedOrders / QueryOrders 返回的订单
type krakenOrder struct {
	Descr    krakenOrderDescr  `json:"descr"`
	Status   string            `json:"status"`
	OpenTime types.ExTimestamp `json:"opentm"`
	Vol      types.ExDecimal   `json:"vol"`
	VolExec  types.ExDecimal   `json:"vol_exec"`
	Cost     types.ExDecimal   `json:"cost"`
	Price    types.ExDecimal   `json:"price"`
	Fee      *types.ExDecimal  `json:"fee"` // 缺失时不构造手续费对象
	OFlags   string            `json:"oflags"`
}

// krakenOrderCreated AddOrder 的返回
type krakenOrderCreated struct {
	Descr struct {
		Order string `json:"order"`
	} `json:"descr"`
	TxID []string `json:"txid"`
}

// krakenTradesHistory TradesHistory 的返回
type krakenTradesHistory struct {
	Trades map[string]json.RawMessage `json:"trades"`
}

// krakenWithdraw Withdraw 的返回
type krakenWithdraw struct {
	RefID string `json:"refid"`
}
