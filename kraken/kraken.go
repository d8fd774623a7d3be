package kraken

import (
	"context"
	"encoding/json"
	"sort"
	"strconv"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"

	"github.com/lemconn/krakenlink/base"
	"github.com/lemconn/krakenlink/common"
	"github.com/lemconn/krakenlink/types"
)

// Kraken 交易所实现
// 每个操作都是一条短流水线：确保目录已加载 → 解析市场 →
// 构建请求 → 调用传输层 → 分类响应 → 解析载荷。
type Kraken struct {
	client  *Client
	catalog *marketCatalog
}

// New 创建 Kraken 实例
func New(apiKey, secretKey string, options map[string]interface{}) (*Kraken, error) {
	client, err := NewClient(apiKey, secretKey, options)
	if err != nil {
		return nil, err
	}
	return &Kraken{
		client:  client,
		catalog: newMarketCatalog(),
	}, nil
}

var _ base.Exchange = (*Kraken)(nil)

// Name 返回交易所名称
func (k *Kraken) Name() string {
	return krakenName
}

// LoadMarkets 加载市场目录
func (k *Kraken) LoadMarkets(ctx context.Context, reload bool) error {
	return k.catalog.ensure(ctx, k.client, reload)
}

// FetchMarkets 获取市场列表
func (k *Kraken) FetchMarkets(ctx context.Context) ([]*types.Market, error) {
	if err := k.LoadMarkets(ctx, false); err != nil {
		return nil, err
	}
	return k.catalog.list(), nil
}

// GetMarket 按统一符号获取市场信息
func (k *Kraken) GetMarket(symbol string) (*types.Market, error) {
	return k.catalog.market(symbol)
}

// FetchTicker 获取单个交易对行情
// 暗池交易对没有公开行情，在发起网络请求之前拒绝。
func (k *Kraken) FetchTicker(ctx context.Context, symbol string) (*types.Ticker, error) {
	if err := k.LoadMarkets(ctx, false); err != nil {
		return nil, err
	}
	market, err := k.publicMarket(symbol, "ticker")
	if err != nil {
		return nil, err
	}

	params := types.NewExValues()
	params.Set("pair", market.ID)
	result, err := k.client.Public(ctx, "Ticker", params)
	if err != nil {
		return nil, err
	}

	tickers, infos, err := decodeTickers(result)
	if err != nil {
		return nil, err
	}
	t, ok := tickers[market.ID]
	if !ok {
		return nil, errors.Errorf("kraken: ticker response missing pair %s", market.ID)
	}
	return parseTicker(t, market, infos[market.ID]), nil
}

// FetchTickers 批量获取行情
// 不指定符号时请求全部活跃的非暗池交易对。
func (k *Kraken) FetchTickers(ctx context.Context, symbols ...string) (map[string]*types.Ticker, error) {
	if err := k.LoadMarkets(ctx, false); err != nil {
		return nil, err
	}

	var ids []string
	if len(symbols) == 0 {
		ids = k.catalog.activePublicIDs()
	} else {
		for _, symbol := range symbols {
			market, err := k.publicMarket(symbol, "ticker")
			if err != nil {
				return nil, err
			}
			ids = append(ids, market.ID)
		}
	}

	params := types.NewExValues()
	params.Set("pair", strings.Join(ids, ","))
	result, err := k.client.Public(ctx, "Ticker", params)
	if err != nil {
		return nil, err
	}

	tickers, infos, err := decodeTickers(result)
	if err != nil {
		return nil, err
	}

	out := make(map[string]*types.Ticker, len(tickers))
	for id, t := range tickers {
		market := k.catalog.findByAltnameOrID(id)
		ticker := parseTicker(t, market, infos[id])
		if ticker.Symbol != "" {
			out[ticker.Symbol] = ticker
		}
	}
	return out, nil
}

// FetchOrderBook 获取订单簿
func (k *Kraken) FetchOrderBook(ctx context.Context, symbol string, limit int) (*types.OrderBook, error) {
	if err := k.LoadMarkets(ctx, false); err != nil {
		return nil, err
	}
	market, err := k.publicMarket(symbol, "order book")
	if err != nil {
		return nil, err
	}

	params := types.NewExValues()
	params.Set("pair", market.ID)
	if limit > 0 {
		params.Set("count", limit)
	}
	result, err := k.client.Public(ctx, "Depth", params)
	if err != nil {
		return nil, err
	}

	var books map[string]krakenDepth
	if err := jsoniter.Unmarshal(result, &books); err != nil {
		return nil, errors.Wrap(err, "decode order book")
	}
	book, ok := books[market.ID]
	if !ok {
		return nil, errors.Errorf("kraken: depth response missing pair %s", market.ID)
	}
	return parseOrderBook(book, market), nil
}

// FetchOHLCV 获取K线数据
func (k *Kraken) FetchOHLCV(ctx context.Context, symbol string, timeframe string, since time.Time, limit int) (types.OHLCVs, error) {
	if err := k.LoadMarkets(ctx, false); err != nil {
		return nil, err
	}
	market, err := k.catalog.market(symbol)
	if err != nil {
		return nil, err
	}
	interval, ok := common.KrakenTimeframe(timeframe)
	if !ok {
		return nil, errors.Wrapf(base.ErrNotSupported, "timeframe %s", timeframe)
	}

	params := types.NewExValues()
	params.Set("pair", market.ID)
	params.Set("interval", interval)
	if !since.IsZero() {
		params.Set("since", since.Unix())
	}
	result, err := k.client.Public(ctx, "OHLC", params)
	if err != nil {
		return nil, err
	}

	var payload map[string]json.RawMessage
	if err := jsoniter.Unmarshal(result, &payload); err != nil {
		return nil, errors.Wrap(err, "decode ohlcv")
	}
	var rows [][]types.ExDecimal
	if raw, ok := payload[market.ID]; ok {
		if err := jsoniter.Unmarshal(raw, &rows); err != nil {
			return nil, errors.Wrap(err, "decode ohlcv rows")
		}
	}

	ohlcvs := make(types.OHLCVs, 0, len(rows))
	for _, row := range rows {
		ohlcv, err := parseOHLCV(row)
		if err != nil {
			return nil, err
		}
		ohlcvs = append(ohlcvs, ohlcv)
	}
	if limit > 0 && len(ohlcvs) > limit {
		ohlcvs = ohlcvs[len(ohlcvs)-limit:]
	}
	return ohlcvs, nil
}

// FetchTrades 获取公开成交记录
func (k *Kraken) FetchTrades(ctx context.Context, symbol string) ([]*types.Trade, error) {
	if err := k.LoadMarkets(ctx, false); err != nil {
		return nil, err
	}
	market, err := k.catalog.market(symbol)
	if err != nil {
		return nil, err
	}

	params := types.NewExValues()
	params.Set("pair", market.ID)
	result, err := k.client.Public(ctx, "Trades", params)
	if err != nil {
		return nil, err
	}

	var payload map[string]json.RawMessage
	if err := jsoniter.Unmarshal(result, &payload); err != nil {
		return nil, errors.Wrap(err, "decode trades")
	}
	var rows []krakenTrade
	if raw, ok := payload[market.ID]; ok {
		if err := jsoniter.Unmarshal(raw, &rows); err != nil {
			return nil, errors.Wrap(err, "decode trade rows")
		}
	}

	trades := make([]*types.Trade, 0, len(rows))
	for _, row := range rows {
		trades = append(trades, k.parseTrade(row, market))
	}
	return trades, nil
}

// FetchBalance 获取账户余额
func (k *Kraken) FetchBalance(ctx context.Context) (*types.Balances, error) {
	if err := k.LoadMarkets(ctx, false); err != nil {
		return nil, err
	}
	result, err := k.client.Private(ctx, "Balance", nil)
	if err != nil {
		return nil, err
	}

	var raw map[string]types.ExDecimal
	if err := jsoniter.Unmarshal(result, &raw); err != nil {
		return nil, errors.Wrap(err, "decode balance")
	}
	var info map[string]interface{}
	if err := jsoniter.Unmarshal(result, &info); err != nil {
		return nil, errors.Wrap(err, "decode balance")
	}
	return parseBalances(raw, info), nil
}

// CreateOrder 创建订单
// 数量和价格先按市场精度截断再发送。
func (k *Kraken) CreateOrder(ctx context.Context, symbol string, side types.OrderSide, orderType types.OrderType, amount, price float64, params map[string]interface{}) (*types.Order, error) {
	if err := k.LoadMarkets(ctx, false); err != nil {
		return nil, err
	}
	market, err := k.catalog.market(symbol)
	if err != nil {
		return nil, err
	}

	volume, err := k.AmountToPrecision(symbol, amount)
	if err != nil {
		return nil, err
	}

	body := types.NewExValues()
	body.Set("pair", market.ID)
	body.Set("type", side.Lower())
	body.Set("ordertype", orderType.Lower())
	body.Set("volume", volume)
	if orderType.IsLimit() {
		limitPrice, err := k.PriceToPrecision(symbol, price)
		if err != nil {
			return nil, err
		}
		body.Set("price", limitPrice)
	}
	body.SetAll(params)

	result, err := k.client.Private(ctx, "AddOrder", body)
	if err != nil {
		return nil, err
	}

	var created krakenOrderCreated
	if err := jsoniter.Unmarshal(result, &created); err != nil {
		return nil, errors.Wrap(err, "decode add order")
	}
	var info map[string]interface{}
	if err := jsoniter.Unmarshal(result, &info); err != nil {
		return nil, errors.Wrap(err, "decode add order")
	}

	order := &types.Order{
		ID:        strings.Join(created.TxID, ","),
		Symbol:    market.Symbol,
		Type:      orderType,
		Side:      side,
		Status:    "open",
		Amount:    amount,
		Remaining: amount,
		Timestamp: common.GetTimestamp(),
		Info:      info,
	}
	if orderType.IsLimit() {
		order.Price = &price
	}
	return order, nil
}

// FetchOrder 查询订单
func (k *Kraken) FetchOrder(ctx context.Context, orderID, symbol string) (*types.Order, error) {
	if err := k.LoadMarkets(ctx, false); err != nil {
		return nil, err
	}
	var market *types.Market
	if symbol != "" {
		m, err := k.catalog.market(symbol)
		if err != nil {
			return nil, err
		}
		market = m
	}

	body := types.NewExValues()
	body.Set("trades", true)
	body.Set("txid", orderID)
	result, err := k.client.Private(ctx, "QueryOrders", body)
	if err != nil {
		return nil, err
	}

	orders, err := decodeOrderMap(result)
	if err != nil {
		return nil, err
	}
	raw, ok := orders[orderID]
	if !ok {
		return nil, errors.Wrap(base.ErrOrderNotFound, orderID)
	}
	return k.parseOrder(orderID, raw.order, market, raw.info), nil
}

// FetchOpenOrders 查询未成交订单
func (k *Kraken) FetchOpenOrders(ctx context.Context, symbol string) ([]*types.Order, error) {
	result, err := k.fetchOrderList(ctx, "OpenOrders")
	if err != nil {
		return nil, err
	}
	var payload struct {
		Open map[string]json.RawMessage `json:"open"`
	}
	if err := jsoniter.Unmarshal(result, &payload); err != nil {
		return nil, errors.Wrap(err, "decode open orders")
	}
	return k.parseOrderMap(payload.Open, symbol)
}

// FetchClosedOrders 查询已关闭订单
func (k *Kraken) FetchClosedOrders(ctx context.Context, symbol string) ([]*types.Order, error) {
	result, err := k.fetchOrderList(ctx, "ClosedOrders")
	if err != nil {
		return nil, err
	}
	var payload struct {
		Closed map[string]json.RawMessage `json:"closed"`
	}
	if err := jsoniter.Unmarshal(result, &payload); err != nil {
		return nil, errors.Wrap(err, "decode closed orders")
	}
	return k.parseOrderMap(payload.Closed, symbol)
}

// FetchMyTrades 获取我的成交记录
// 成交 ID 来自 result.trades 的 key，解析前注入。
func (k *Kraken) FetchMyTrades(ctx context.Context, symbol string) ([]*types.Trade, error) {
	if err := k.LoadMarkets(ctx, false); err != nil {
		return nil, err
	}
	result, err := k.client.Private(ctx, "TradesHistory", nil)
	if err != nil {
		return nil, err
	}

	var payload krakenTradesHistory
	if err := jsoniter.Unmarshal(result, &payload); err != nil {
		return nil, errors.Wrap(err, "decode trades history")
	}

	ids := make([]string, 0, len(payload.Trades))
	for id := range payload.Trades {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	trades := make([]*types.Trade, 0, len(ids))
	for _, id := range ids {
		var row krakenTrade
		if err := jsoniter.Unmarshal(payload.Trades[id], &row); err != nil {
			return nil, errors.Wrapf(err, "decode trade %s", id)
		}
		row.obj.ID = id
		trade := k.parseTrade(row, nil)
		if symbol != "" && trade.Symbol != symbol {
			continue
		}
		trades = append(trades, trade)
	}
	return trades, nil
}

// CancelOrder 取消订单
// 交易所对未知订单返回通用错误，这里检查错误内容
// 重新归类为订单未找到，其余错误原样抛出。
func (k *Kraken) CancelOrder(ctx context.Context, orderID, symbol string) error {
	if err := k.LoadMarkets(ctx, false); err != nil {
		return err
	}

	body := types.NewExValues()
	body.Set("txid", orderID)
	_, err := k.client.Private(ctx, "CancelOrder", body)
	if err != nil {
		var apiErr *base.APIError
		if errors.As(err, &apiErr) && apiErr.HasMessage(errUnknownOrder) {
			return apiErr.WithKind(base.ErrOrderNotFound)
		}
		return err
	}
	return nil
}

// Withdraw 提现
// 交易所不允许直接提现到地址，address 参数被忽略，
// 必须通过 params["key"] 指定账户里配置的提现密钥名称。
func (k *Kraken) Withdraw(ctx context.Context, currency string, amount float64, address string, params map[string]interface{}) (string, error) {
	if _, ok := params["key"]; !ok {
		return "", errors.Wrap(base.ErrWithdrawKeyRequired, krakenName)
	}
	if err := k.LoadMarkets(ctx, false); err != nil {
		return "", err
	}

	body := types.NewExValues()
	body.Set("asset", currency)
	body.Set("amount", strconv.FormatFloat(amount, 'f', -1, 64))
	body.SetAll(params)

	result, err := k.client.Private(ctx, "Withdraw", body)
	if err != nil {
		return "", err
	}

	var withdraw krakenWithdraw
	if err := jsoniter.Unmarshal(result, &withdraw); err != nil {
		return "", errors.Wrap(err, "decode withdraw")
	}
	return withdraw.RefID, nil
}

// ========== 内部辅助 ==========

// publicMarket 解析统一符号并拒绝暗池交易对
func (k *Kraken) publicMarket(symbol, what string) (*types.Market, error) {
	market, err := k.catalog.market(symbol)
	if err != nil {
		return nil, err
	}
	if market.Darkpool {
		return nil, errors.Wrapf(base.ErrNotSupported, "no %s for darkpool symbol %s", what, symbol)
	}
	return market, nil
}

// fetchOrderList 调用订单列表私有接口
func (k *Kraken) fetchOrderList(ctx context.Context, endpoint string) (json.RawMessage, error) {
	if err := k.LoadMarkets(ctx, false); err != nil {
		return nil, err
	}
	return k.client.Private(ctx, endpoint, nil)
}

// rawOrder 原始订单及其透传信息
type rawOrder struct {
	order krakenOrder
	info  map[string]interface{}
}

// decodeOrderMap 解码 id -> 订单 的结果映射
func decodeOrderMap(result json.RawMessage) (map[string]rawOrder, error) {
	var raw map[string]json.RawMessage
	if err := jsoniter.Unmarshal(result, &raw); err != nil {
		return nil, errors.Wrap(err, "decode orders")
	}
	orders := make(map[string]rawOrder, len(raw))
	for id, msg := range raw {
		var o krakenOrder
		if err := jsoniter.Unmarshal(msg, &o); err != nil {
			return nil, errors.Wrapf(err, "decode order %s", id)
		}
		var info map[string]interface{}
		if err := jsoniter.Unmarshal(msg, &info); err != nil {
			return nil, errors.Wrapf(err, "decode order %s", id)
		}
		orders[id] = rawOrder{order: o, info: info}
	}
	return orders, nil
}

// parseOrderMap 解析订单映射并按符号过滤
func (k *Kraken) parseOrderMap(raw map[string]json.RawMessage, symbol string) ([]*types.Order, error) {
	ids := make([]string, 0, len(raw))
	for id := range raw {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	orders := make([]*types.Order, 0, len(ids))
	for _, id := range ids {
		var o krakenOrder
		if err := jsoniter.Unmarshal(raw[id], &o); err != nil {
			return nil, errors.Wrapf(err, "decode order %s", id)
		}
		var info map[string]interface{}
		if err := jsoniter.Unmarshal(raw[id], &info); err != nil {
			return nil, errors.Wrapf(err, "decode order %s", id)
		}
		order := k.parseOrder(id, o, nil, info)
		if symbol != "" && order.Symbol != symbol {
			continue
		}
		orders = append(orders, order)
	}
	return orders, nil
}

// decodeTickers 解码 id -> 行情 的结果映射
func decodeTickers(result json.RawMessage) (map[string]krakenTicker, map[string]map[string]interface{}, error) {
	var raw map[string]json.RawMessage
	if err := jsoniter.Unmarshal(result, &raw); err != nil {
		return nil, nil, errors.Wrap(err, "decode tickers")
	}
	tickers := make(map[string]krakenTicker, len(raw))
	infos := make(map[string]map[string]interface{}, len(raw))
	for id, msg := range raw {
		var t krakenTicker
		if err := jsoniter.Unmarshal(msg, &t); err != nil {
			return nil, nil, errors.Wrapf(err, "decode ticker %s", id)
		}
		var info map[string]interface{}
		if err := jsoniter.Unmarshal(msg, &info); err != nil {
			return nil, nil, errors.Wrapf(err, "decode ticker %s", id)
		}
		tickers[id] = t
		infos[id] = info
	}
	return tickers, infos, nil
}
