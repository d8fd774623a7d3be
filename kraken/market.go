package kraken

import (
	"context"
	"encoding/json"
	"math"
	"sort"
	"strings"
	"sync"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"golang.org/x/sync/singleflight"

	"github.com/lemconn/krakenlink/base"
	"github.com/lemconn/krakenlink/common"
	"github.com/lemconn/krakenlink/types"
)

// inactiveMarkets 交易所列表接口漏掉的已知交易对
// 用通用的 8 位精度默认值补进目录，标记为不活跃。
var inactiveMarkets = []struct {
	id, symbol, base, quote, altname string
}{
	{"XXLMZEUR", "XLM/EUR", "XLM", "EUR", "XLMEUR"},
}

// marketCatalog 市场目录
// 一次完整拉取后按 symbol、原生 ID 和 altname 三个维度建立索引。
// 索引整体替换，重新加载不会让并发的符号解析读到半成品。
type marketCatalog struct {
	mu    sync.RWMutex
	group singleflight.Group

	markets   []*types.Market
	bySymbol  map[string]*types.Market
	byID      map[string]*types.Market
	byAltname map[string]*types.Market
}

func newMarketCatalog() *marketCatalog {
	return &marketCatalog{}
}

func (c *marketCatalog) ready() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.bySymbol != nil
}

// ensure 加载市场目录，进程内幂等
// 并发的首次加载通过 singleflight 合并成一次请求。
func (c *marketCatalog) ensure(ctx context.Context, client *Client, reload bool) error {
	if !reload && c.ready() {
		return nil
	}

	_, err, _ := c.group.Do("markets", func() (interface{}, error) {
		if !reload && c.ready() {
			return nil, nil
		}
		markets, err := fetchMarkets(ctx, client)
		if err != nil {
			return nil, err
		}
		c.replace(markets)
		return nil, nil
	})
	return err
}

// replace 整体替换市场列表和三个索引
func (c *marketCatalog) replace(markets []*types.Market) {
	bySymbol := make(map[string]*types.Market, len(markets))
	byID := make(map[string]*types.Market, len(markets))
	byAltname := make(map[string]*types.Market, len(markets))
	for _, m := range markets {
		bySymbol[m.Symbol] = m
		byID[m.ID] = m
		if m.Altname != "" {
			byAltname[m.Altname] = m
		}
	}

	c.mu.Lock()
	c.markets = markets
	c.bySymbol = bySymbol
	c.byID = byID
	c.byAltname = byAltname
	c.mu.Unlock()
}

// list 返回市场列表
func (c *marketCatalog) list() []*types.Market {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*types.Market, len(c.markets))
	copy(out, c.markets)
	return out
}

// market 按统一符号查找市场
func (c *marketCatalog) market(symbol string) (*types.Market, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	m, ok := c.bySymbol[symbol]
	if !ok {
		return nil, errors.Wrap(base.ErrMarketNotFound, symbol)
	}
	return m, nil
}

// findByAltnameOrID 按 altname 或原生 ID 查找市场
// 未命中返回 nil，调用方把符号留空而不是报错。
func (c *marketCatalog) findByAltnameOrID(id string) *types.Market {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if m, ok := c.byAltname[id]; ok {
		return m
	}
	return c.byID[id]
}

// activePublicIDs 返回活跃且非暗池的原生交易对代码
func (c *marketCatalog) activePublicIDs() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ids := make([]string, 0, len(c.markets))
	for _, m := range c.markets {
		if m.Active && !m.Darkpool {
			ids = append(ids, m.ID)
		}
	}
	return ids
}

// fetchMarkets 拉取 AssetPairs 并转换为标准化市场记录
func fetchMarkets(ctx context.Context, client *Client) ([]*types.Market, error) {
	result, err := client.Public(ctx, "AssetPairs", nil)
	if err != nil {
		return nil, err
	}

	var pairs map[string]json.RawMessage
	if err := jsoniter.Unmarshal(result, &pairs); err != nil {
		return nil, errors.Wrap(err, "decode asset pairs")
	}

	ids := make([]string, 0, len(pairs))
	for id := range pairs {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	markets := make([]*types.Market, 0, len(ids)+len(inactiveMarkets))
	for _, id := range ids {
		var pair krakenPair
		if err := jsoniter.Unmarshal(pairs[id], &pair); err != nil {
			return nil, errors.Wrapf(err, "decode asset pair %s", id)
		}
		var info map[string]interface{}
		if err := jsoniter.Unmarshal(pairs[id], &info); err != nil {
			return nil, errors.Wrapf(err, "decode asset pair %s", id)
		}
		markets = append(markets, buildMarket(id, pair, info))
	}

	return appendInactiveMarkets(markets), nil
}

// buildMarket 把一个原始交易对转换为标准化市场记录
func buildMarket(id string, pair krakenPair, info map[string]interface{}) *types.Market {
	baseCode := normalizeAsset(pair.Base)
	quoteCode := normalizeAsset(pair.Quote)

	// 暗池交易对没有可交易的公开对名，用 altname 作为统一符号
	darkpool := strings.Contains(id, darkpoolMarker)
	symbol := common.NormalizeSymbol(baseCode, quoteCode)
	if darkpool {
		symbol = pair.Altname
	}

	m := &types.Market{
		ID:       id,
		Symbol:   symbol,
		Base:     baseCode,
		Quote:    quoteCode,
		Altname:  pair.Altname,
		Darkpool: darkpool,
		Active:   true,
		Info:     info,
	}
	m.Precision.Amount = pair.LotDecimals
	m.Precision.Price = pair.PairDecimals
	applyPrecisionLimits(m)

	// maker 费率表可选；taker 取分级费率表的第一档，百分比转小数
	if len(pair.FeesMaker) > 0 && len(pair.FeesMaker[0]) > 1 {
		maker := pair.FeesMaker[0][1].Float64() / 100
		m.Maker = &maker
	}
	if len(pair.Fees) > 0 && len(pair.Fees[0]) > 1 {
		taker := pair.Fees[0][1].Float64() / 100
		m.Taker = &taker
	}

	return m
}

// applyPrecisionLimits 由精度推导占位边界
// 这些不是交易所强制的限制，只是 10^±精度 的推导值。
func applyPrecisionLimits(m *types.Market) {
	m.Limits.Amount.Min = math.Pow(10, -float64(m.Precision.Amount))
	m.Limits.Amount.Max = math.Pow(10, float64(m.Precision.Amount))
	m.Limits.Price.Min = math.Pow(10, -float64(m.Precision.Price))
	m.Limits.Cost.Min = 0
	m.Lot = m.Limits.Amount.Min
}

// appendInactiveMarkets 补充列表接口不返回的已知交易对
func appendInactiveMarkets(markets []*types.Market) []*types.Market {
	for _, im := range inactiveMarkets {
		m := &types.Market{
			ID:      im.id,
			Symbol:  im.symbol,
			Base:    im.base,
			Quote:   im.quote,
			Altname: im.altname,
			Active:  false,
		}
		m.Precision.Amount = 8
		m.Precision.Price = 8
		applyPrecisionLimits(m)
		markets = append(markets, m)
	}
	return markets
}
