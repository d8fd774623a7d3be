package kraken

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/lemconn/krakenlink/common"
	"github.com/lemconn/krakenlink/types"
)

// 订单 oflags 里的手续费标记
const (
	feeInQuoteFlag = "fciq" // 手续费从计价货币扣
	feeInBaseFlag  = "fcib" // 手续费从基础货币扣
)

// parseTicker 把原始行情转换为标准化记录
// 行情接口不带时间戳，Timestamp 取解析时刻的本地时间。
func parseTicker(t krakenTicker, market *types.Market, info map[string]interface{}) *types.Ticker {
	ticker := &types.Ticker{
		Timestamp:  common.GetTimestamp(),
		High:       decAt(t.H, 1),
		Low:        decAt(t.L, 1),
		Bid:        decAt(t.B, 0),
		Ask:        decAt(t.A, 0),
		Vwap:       decAt(t.P, 1),
		Open:       t.O.Float64(),
		Last:       decAt(t.C, 0),
		BaseVolume: decAt(t.V, 1),
		Info:       info,
	}
	if market != nil {
		ticker.Symbol = market.Symbol
	}
	return ticker
}

// decAt 取定长数组里的第 i 个数值，越界返回 0
func decAt(values []types.ExDecimal, i int) float64 {
	if i < len(values) {
		return values[i].Float64()
	}
	return 0
}

// parseOHLCV 把原始K线行转换为标准化记录
// 原始行为 [时间(秒), 开, 高, 低, 收, vwap, 成交量, 笔数]，
// 标准化的成交量取下标 6，不是下标 5 的 vwap。
func parseOHLCV(row []types.ExDecimal) (types.OHLCV, error) {
	if len(row) < 7 {
		return types.OHLCV{}, errors.Errorf("ohlcv row too short: %d elements", len(row))
	}
	return types.OHLCV{
		Timestamp: row[0].IntPart() * 1000,
		Open:      row[1].Float64(),
		High:      row[2].Float64(),
		Low:       row[3].Float64(),
		Close:     row[4].Float64(),
		Volume:    row[6].Float64(),
	}, nil
}

// parseTrade 把两种形态的原始成交转换为标准化记录
// 对象形式来自私有接口，字段直接取值；数组形式来自公开接口，
// 方向和类型从单字符代码解码。
func (k *Kraken) parseTrade(t krakenTrade, market *types.Market) *types.Trade {
	trade := &types.Trade{Info: t.raw}

	if t.object {
		obj := t.obj
		if market == nil {
			market = k.catalog.findByAltnameOrID(obj.Pair)
		}
		trade.ID = obj.ID
		trade.OrderID = obj.OrderTxID
		trade.Timestamp = obj.Time.Milli()
		trade.Side = types.OrderSide(obj.Type)
		trade.Type = types.OrderType(obj.OrderType)
		trade.Price = obj.Price.Float64()
		trade.Amount = obj.Vol.Float64()
	} else {
		trade.Timestamp = t.tm.Milli()
		if t.sideCode == "s" {
			trade.Side = types.OrderSideSell
		} else {
			trade.Side = types.OrderSideBuy
		}
		if t.typeCode == "l" {
			trade.Type = types.OrderTypeLimit
		} else {
			trade.Type = types.OrderTypeMarket
		}
		trade.Price = t.price.Float64()
		trade.Amount = t.amount.Float64()
	}

	// 解析不到市场时符号留空，不报错
	if market != nil {
		trade.Symbol = market.Symbol
	}
	return trade
}

// parseOrder 把原始订单转换为标准化记录
// 方向和类型在 descr 子对象里；剩余数量始终重新计算，
// 不信任原始数据；价格优先取 descr 里的，其次取订单顶层的。
func (k *Kraken) parseOrder(id string, o krakenOrder, market *types.Market, info map[string]interface{}) *types.Order {
	if market == nil {
		market = k.catalog.findByAltnameOrID(o.Descr.Pair)
	}

	amount := o.Vol.Float64()
	filled := o.VolExec.Float64()

	order := &types.Order{
		ID:        id,
		Status:    o.Status,
		Type:      types.OrderType(o.Descr.OrderType),
		Side:      types.OrderSide(o.Descr.Type),
		Timestamp: o.OpenTime.Milli(),
		Amount:    amount,
		Filled:    filled,
		Remaining: amount - filled,
		Cost:      o.Cost.Float64(),
		Info:      info,
	}

	if price := o.Descr.Price.Float64(); price != 0 {
		order.Price = &price
	} else if price := o.Price.Float64(); price != 0 {
		order.Price = &price
	}

	if market != nil {
		order.Symbol = market.Symbol
		// 手续费对象只在原始订单带 fee 字段时构造；
		// 币种由 oflags 推导，两个标记都没有时留空
		if o.Fee != nil {
			fee := &types.Fee{Cost: o.Fee.Float64()}
			switch {
			case strings.Contains(o.OFlags, feeInQuoteFlag):
				fee.Currency = market.Quote
			case strings.Contains(o.OFlags, feeInBaseFlag):
				fee.Currency = market.Base
			}
			order.Fee = fee
		}
	}

	return order
}

// parseBalances 把原始余额转换为标准化记录
// 账户余额接口不区分冻结资金，Used 恒为 0。
func parseBalances(raw map[string]types.ExDecimal, info map[string]interface{}) *types.Balances {
	balances := &types.Balances{
		Accounts: make(map[string]*types.Balance, len(raw)),
		Info:     info,
	}
	for code, value := range raw {
		currency := normalizeAsset(code)
		total := value.Float64()
		balances.Accounts[currency] = &types.Balance{
			Currency: currency,
			Free:     total,
			Used:     0,
			Total:    total,
		}
	}
	return balances
}

// parseOrderBook 把原始订单簿转换为标准化记录
func parseOrderBook(d krakenDepth, market *types.Market) *types.OrderBook {
	book := &types.OrderBook{
		Timestamp: common.GetTimestamp(),
		Bids:      make([]types.OrderBookEntry, 0, len(d.Bids)),
		Asks:      make([]types.OrderBookEntry, 0, len(d.Asks)),
	}
	if market != nil {
		book.Symbol = market.Symbol
	}
	for _, row := range d.Bids {
		if len(row) < 2 {
			continue
		}
		book.Bids = append(book.Bids, types.OrderBookEntry{Price: row[0].Float64(), Amount: row[1].Float64()})
	}
	for _, row := range d.Asks {
		if len(row) < 2 {
			continue
		}
		book.Asks = append(book.Asks, types.OrderBookEntry{Price: row[0].Float64(), Amount: row[1].Float64()})
	}
	return book
}
