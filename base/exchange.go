package base

import (
	"context"
	"time"

	"github.com/lemconn/krakenlink/types"
)

// Exchange 统一交易接口
// 所有方法返回 types 包里的标准化记录；交易所返回的应用层错误
// 通过 *APIError 抛出，可以用 errors.Is 与哨兵错误比较。
type Exchange interface {
	// 基本信息
	Name() string                                              // 交易所名称
	LoadMarkets(ctx context.Context, reload bool) error        // 加载市场信息
	FetchMarkets(ctx context.Context) ([]*types.Market, error) // 获取市场列表
	GetMarket(symbol string) (*types.Market, error)            // 获取市场信息

	// 行情数据
	FetchTicker(ctx context.Context, symbol string) (*types.Ticker, error)                                             // 获取行情
	FetchTickers(ctx context.Context, symbols ...string) (map[string]*types.Ticker, error)                             // 批量获取行情
	FetchOrderBook(ctx context.Context, symbol string, limit int) (*types.OrderBook, error)                            // 获取订单簿
	FetchOHLCV(ctx context.Context, symbol string, timeframe string, since time.Time, limit int) (types.OHLCVs, error) // 获取K线数据
	FetchTrades(ctx context.Context, symbol string) ([]*types.Trade, error)                                            // 获取公开成交记录

	// 账户信息
	FetchBalance(ctx context.Context) (*types.Balances, error) // 获取余额

	// 订单操作
	CreateOrder(ctx context.Context, symbol string, side types.OrderSide, orderType types.OrderType, amount, price float64, params map[string]interface{}) (*types.Order, error) // 创建订单
	FetchOrder(ctx context.Context, orderID, symbol string) (*types.Order, error)                                                                                               // 查询订单
	FetchOpenOrders(ctx context.Context, symbol string) ([]*types.Order, error)                                                                                                 // 查询未成交订单
	FetchClosedOrders(ctx context.Context, symbol string) ([]*types.Order, error)                                                                                               // 查询已关闭订单
	CancelOrder(ctx context.Context, orderID, symbol string) error                                                                                                              // 取消订单

	// 交易记录
	FetchMyTrades(ctx context.Context, symbol string) ([]*types.Trade, error) // 获取我的交易记录

	// 资金操作
	Withdraw(ctx context.Context, currency string, amount float64, address string, params map[string]interface{}) (string, error) // 提现，返回交易所引用ID
}
