package kraken

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/lemconn/krakenlink/base"
	"github.com/lemconn/krakenlink/types"
)

const assetPairsFixture = `{
	"error": [],
	"result": {
		"XXBTZUSD": {
			"altname": "XBTUSD",
			"base": "XXBT",
			"quote": "ZUSD",
			"pair_decimals": 1,
			"lot_decimals": 8,
			"fees": [[0, 0.26]],
			"fees_maker": [[0, 0.16]]
		},
		"XXBTZUSD.d": {
			"altname": "XBTUSD.d",
			"base": "XXBT",
			"quote": "ZUSD",
			"pair_decimals": 1,
			"lot_decimals": 8,
			"fees": [[0, 0.36]]
		}
	}
}`

func newTestExchange(t *testing.T, mux *http.ServeMux) *Kraken {
	t.Helper()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	secret := base64.StdEncoding.EncodeToString([]byte("test secret"))
	k, err := New("test-key", secret, map[string]interface{}{"baseURL": srv.URL})
	if err != nil {
		t.Fatalf("create exchange: %v", err)
	}
	return k
}

func assetPairsMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/0/public/AssetPairs", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, assetPairsFixture)
	})
	return mux
}

func TestLoadMarkets_Idempotent(t *testing.T) {
	var fetches int64
	mux := http.NewServeMux()
	mux.HandleFunc("/0/public/AssetPairs", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&fetches, 1)
		fmt.Fprint(w, assetPairsFixture)
	})
	k := newTestExchange(t, mux)

	ctx := context.Background()
	if err := k.LoadMarkets(ctx, false); err != nil {
		t.Fatalf("load markets: %v", err)
	}
	if err := k.LoadMarkets(ctx, false); err != nil {
		t.Fatalf("load markets: %v", err)
	}
	if n := atomic.LoadInt64(&fetches); n != 1 {
		t.Errorf("fetches=%d, want 1", n)
	}

	if err := k.LoadMarkets(ctx, true); err != nil {
		t.Fatalf("reload markets: %v", err)
	}
	if n := atomic.LoadInt64(&fetches); n != 2 {
		t.Errorf("fetches=%d after reload, want 2", n)
	}

	markets, err := k.FetchMarkets(ctx)
	if err != nil {
		t.Fatalf("fetch markets: %v", err)
	}
	// 两个返回的交易对加一个补充的不活跃交易对
	if len(markets) != 3 {
		t.Errorf("len(markets)=%d, want 3", len(markets))
	}
}

func TestLoadMarkets_ServiceUnavailable(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/0/public/AssetPairs", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"error":["EService:Unavailable"]}`)
	})
	k := newTestExchange(t, mux)

	err := k.LoadMarkets(context.Background(), false)
	if !errors.Is(err, base.ErrServiceUnavailable) {
		t.Errorf("err=%v, want ErrServiceUnavailable", err)
	}
	var apiErr *base.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err=%v, want *base.APIError", err)
	}
	if len(apiErr.Messages) != 1 || apiErr.Messages[0] != "EService:Unavailable" {
		t.Errorf("Messages=%v", apiErr.Messages)
	}
}

func TestFetchTicker(t *testing.T) {
	mux := assetPairsMux()
	mux.HandleFunc("/0/public/Ticker", func(w http.ResponseWriter, r *http.Request) {
		if pair := r.URL.Query().Get("pair"); pair != "XXBTZUSD" {
			t.Errorf("pair=%q, want XXBTZUSD", pair)
		}
		fmt.Fprint(w, `{"error":[],"result":{"XXBTZUSD":{
			"a":["30300.1","1","1.0"],"b":["30300.0","1","1.0"],"c":["30303.2","0.001"],
			"v":["1000.1","2000.2"],"p":["30200.1","30250.2"],"t":[100,200],
			"l":["29000.0","28000.0"],"h":["31000.0","32000.0"],"o":"30100.0"}}}`)
	})
	k := newTestExchange(t, mux)

	ticker, err := k.FetchTicker(context.Background(), "BTC/USD")
	if err != nil {
		t.Fatalf("fetch ticker: %v", err)
	}
	if ticker.Symbol != "BTC/USD" {
		t.Errorf("Symbol=%q", ticker.Symbol)
	}
	if ticker.Last != 30303.2 || ticker.High != 32000.0 || ticker.BaseVolume != 2000.2 {
		t.Errorf("ticker=%+v", ticker)
	}
}

func TestFetchTicker_DarkpoolRejected(t *testing.T) {
	var tickerCalls int64
	mux := assetPairsMux()
	mux.HandleFunc("/0/public/Ticker", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&tickerCalls, 1)
		fmt.Fprint(w, `{"error":[],"result":{}}`)
	})
	k := newTestExchange(t, mux)

	_, err := k.FetchTicker(context.Background(), "XBTUSD.d")
	if !errors.Is(err, base.ErrNotSupported) {
		t.Errorf("err=%v, want ErrNotSupported", err)
	}
	// 暗池交易对在发起网络请求之前就被拒绝
	if n := atomic.LoadInt64(&tickerCalls); n != 0 {
		t.Errorf("ticker endpoint hit %d times, want 0", n)
	}
}

func TestFetchOrderBook_DarkpoolRejected(t *testing.T) {
	var depthCalls int64
	mux := assetPairsMux()
	mux.HandleFunc("/0/public/Depth", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&depthCalls, 1)
		fmt.Fprint(w, `{"error":[],"result":{}}`)
	})
	k := newTestExchange(t, mux)

	_, err := k.FetchOrderBook(context.Background(), "XBTUSD.d", 0)
	if !errors.Is(err, base.ErrNotSupported) {
		t.Errorf("err=%v, want ErrNotSupported", err)
	}
	if n := atomic.LoadInt64(&depthCalls); n != 0 {
		t.Errorf("depth endpoint hit %d times, want 0", n)
	}
}

func TestFetchOHLCV(t *testing.T) {
	mux := assetPairsMux()
	mux.HandleFunc("/0/public/OHLC", func(w http.ResponseWriter, r *http.Request) {
		if interval := r.URL.Query().Get("interval"); interval != "60" {
			t.Errorf("interval=%q, want 60", interval)
		}
		fmt.Fprint(w, `{"error":[],"result":{"XXBTZUSD":[
			[1609459200,"100","110","95","105","102","50",7],
			[1609462800,"105","115","100","110","107","60",9]],"last":1609462800}}`)
	})
	k := newTestExchange(t, mux)

	ohlcvs, err := k.FetchOHLCV(context.Background(), "BTC/USD", "1h", time.Time{}, 0)
	if err != nil {
		t.Fatalf("fetch ohlcv: %v", err)
	}
	if len(ohlcvs) != 2 {
		t.Fatalf("len=%d, want 2", len(ohlcvs))
	}
	if ohlcvs[0].Timestamp != 1609459200000 || ohlcvs[0].Volume != 50 {
		t.Errorf("ohlcvs[0]=%+v", ohlcvs[0])
	}

	_, err = k.FetchOHLCV(context.Background(), "BTC/USD", "7h", time.Time{}, 0)
	if !errors.Is(err, base.ErrNotSupported) {
		t.Errorf("err=%v, want ErrNotSupported for unknown timeframe", err)
	}
}

func TestFetchBalance(t *testing.T) {
	mux := assetPairsMux()
	mux.HandleFunc("/0/private/Balance", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("API-Key") != "test-key" {
			t.Errorf("API-Key=%q", r.Header.Get("API-Key"))
		}
		if r.Header.Get("API-Sign") == "" {
			t.Error("API-Sign header missing")
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/x-www-form-urlencoded" {
			t.Errorf("Content-Type=%q", ct)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		if r.PostForm.Get("nonce") == "" {
			t.Error("nonce missing from body")
		}
		fmt.Fprint(w, `{"error":[],"result":{"XXBT":"1.5","ZUSD":"100.25"}}`)
	})
	k := newTestExchange(t, mux)

	balances, err := k.FetchBalance(context.Background())
	if err != nil {
		t.Fatalf("fetch balance: %v", err)
	}
	if b := balances.Get("BTC"); b.Total != 1.5 || b.Free != 1.5 || b.Used != 0 {
		t.Errorf("BTC=%+v", b)
	}
	if b := balances.Get("USD"); b.Total != 100.25 {
		t.Errorf("USD=%+v", b)
	}
}

func TestPrivate_NonceMonotonic(t *testing.T) {
	var nonces []int64
	mux := assetPairsMux()
	mux.HandleFunc("/0/private/Balance", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		n, err := strconv.ParseInt(r.PostForm.Get("nonce"), 10, 64)
		if err != nil {
			t.Fatalf("parse nonce: %v", err)
		}
		nonces = append(nonces, n)
		fmt.Fprint(w, `{"error":[],"result":{}}`)
	})
	k := newTestExchange(t, mux)

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if _, err := k.FetchBalance(ctx); err != nil {
			t.Fatalf("fetch balance: %v", err)
		}
	}
	for i := 1; i < len(nonces); i++ {
		if nonces[i] <= nonces[i-1] {
			t.Errorf("nonce %d (%d) not greater than previous (%d)", i, nonces[i], nonces[i-1])
		}
	}
}

func TestCreateOrder(t *testing.T) {
	mux := assetPairsMux()
	mux.HandleFunc("/0/private/AddOrder", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		if got := r.PostForm.Get("pair"); got != "XXBTZUSD" {
			t.Errorf("pair=%q", got)
		}
		if got := r.PostForm.Get("type"); got != "buy" {
			t.Errorf("type=%q", got)
		}
		if got := r.PostForm.Get("ordertype"); got != "limit" {
			t.Errorf("ordertype=%q", got)
		}
		// 数量按市场精度截断（8 位），价格按价格精度截断（1 位）
		if got := r.PostForm.Get("volume"); got != "1.99999999" {
			t.Errorf("volume=%q, want 1.99999999", got)
		}
		if got := r.PostForm.Get("price"); got != "30010.1" {
			t.Errorf("price=%q, want 30010.1", got)
		}
		fmt.Fprint(w, `{"error":[],"result":{"descr":{"order":"buy 1.99999999 XBTUSD @ limit 30010.1"},"txid":["OUF4EM-FRGI2-MQMWZD"]}}`)
	})
	k := newTestExchange(t, mux)

	order, err := k.CreateOrder(context.Background(), "BTC/USD", types.OrderSideBuy, types.OrderTypeLimit, 1.999999999, 30010.19, nil)
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	if order.ID != "OUF4EM-FRGI2-MQMWZD" {
		t.Errorf("ID=%q", order.ID)
	}
	if order.Symbol != "BTC/USD" {
		t.Errorf("Symbol=%q", order.Symbol)
	}
}

func TestCancelOrder_UnknownOrderReclassified(t *testing.T) {
	mux := assetPairsMux()
	mux.HandleFunc("/0/private/CancelOrder", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"error":["EOrder:Unknown order"]}`)
	})
	k := newTestExchange(t, mux)

	err := k.CancelOrder(context.Background(), "OUF4EM-FRGI2-MQMWZD", "")
	if !errors.Is(err, base.ErrOrderNotFound) {
		t.Errorf("err=%v, want ErrOrderNotFound", err)
	}
	// 原始错误内容保留用于诊断
	var apiErr *base.APIError
	if !errors.As(err, &apiErr) || !apiErr.HasMessage("EOrder:Unknown order") {
		t.Errorf("raw error payload lost: %v", err)
	}
}

func TestCancelOrder_OtherErrorsUnchanged(t *testing.T) {
	mux := assetPairsMux()
	mux.HandleFunc("/0/private/CancelOrder", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"error":["EGeneral:Invalid arguments"]}`)
	})
	k := newTestExchange(t, mux)

	err := k.CancelOrder(context.Background(), "OUF4EM-FRGI2-MQMWZD", "")
	if err == nil {
		t.Fatal("expected error")
	}
	if errors.Is(err, base.ErrOrderNotFound) {
		t.Error("generic failure must not be reclassified")
	}
}

func TestFetchOrder(t *testing.T) {
	mux := assetPairsMux()
	mux.HandleFunc("/0/private/QueryOrders", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"error":[],"result":{"OUF4EM-FRGI2-MQMWZD":{
			"status":"closed","opentm":1688666559.8974,
			"vol":"1.25","vol_exec":"1.25","cost":"37512.5","fee":"60.0","price":"30010.0",
			"oflags":"fcib",
			"descr":{"pair":"XBTUSD","type":"sell","ordertype":"limit","price":"30010.0"}}}}`)
	})
	k := newTestExchange(t, mux)

	order, err := k.FetchOrder(context.Background(), "OUF4EM-FRGI2-MQMWZD", "")
	if err != nil {
		t.Fatalf("fetch order: %v", err)
	}
	if order.Status != "closed" || order.Remaining != 0 {
		t.Errorf("order=%+v", order)
	}
	if order.Fee == nil || order.Fee.Currency != "BTC" {
		t.Errorf("Fee=%+v, want base currency via fcib", order.Fee)
	}

	_, err = k.FetchOrder(context.Background(), "MISSING-ID", "")
	if !errors.Is(err, base.ErrOrderNotFound) {
		t.Errorf("err=%v, want ErrOrderNotFound", err)
	}
}

func TestFetchMyTrades_InjectsIDFromKey(t *testing.T) {
	mux := assetPairsMux()
	mux.HandleFunc("/0/private/TradesHistory", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"error":[],"result":{"trades":{"THVRQM-33VKH-UCI7BS":{
			"ordertxid":"OQCLML-BW3P3-BUCMWZ","pair":"XXBTZUSD","time":1688667796.8802,
			"type":"buy","ordertype":"limit","price":"30010.0","vol":"1.25"}},"count":1}}`)
	})
	k := newTestExchange(t, mux)

	trades, err := k.FetchMyTrades(context.Background(), "")
	if err != nil {
		t.Fatalf("fetch my trades: %v", err)
	}
	if len(trades) != 1 {
		t.Fatalf("len=%d, want 1", len(trades))
	}
	if trades[0].ID != "THVRQM-33VKH-UCI7BS" {
		t.Errorf("ID=%q, want key-injected id", trades[0].ID)
	}
	if trades[0].OrderID != "OQCLML-BW3P3-BUCMWZ" {
		t.Errorf("OrderID=%q", trades[0].OrderID)
	}
	if trades[0].Symbol != "BTC/USD" {
		t.Errorf("Symbol=%q", trades[0].Symbol)
	}
}

func TestWithdraw_RequiresKey(t *testing.T) {
	var calls int64
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&calls, 1)
		fmt.Fprint(w, `{"error":[],"result":{}}`)
	})
	k := newTestExchange(t, mux)

	_, err := k.Withdraw(context.Background(), "BTC", 0.5, "", nil)
	if !errors.Is(err, base.ErrWithdrawKeyRequired) {
		t.Errorf("err=%v, want ErrWithdrawKeyRequired", err)
	}
	// 前置条件失败，不发起任何网络请求
	if n := atomic.LoadInt64(&calls); n != 0 {
		t.Errorf("transport hit %d times, want 0", n)
	}
}

func TestWithdraw(t *testing.T) {
	mux := assetPairsMux()
	mux.HandleFunc("/0/private/Withdraw", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		if got := r.PostForm.Get("asset"); got != "BTC" {
			t.Errorf("asset=%q", got)
		}
		if got := r.PostForm.Get("key"); got != "my-withdrawal-key" {
			t.Errorf("key=%q", got)
		}
		fmt.Fprint(w, `{"error":[],"result":{"refid":"AGBSO6T-UFMTTQ-I7KGS6"}}`)
	})
	k := newTestExchange(t, mux)

	refid, err := k.Withdraw(context.Background(), "BTC", 0.5, "", map[string]interface{}{"key": "my-withdrawal-key"})
	if err != nil {
		t.Fatalf("withdraw: %v", err)
	}
	if refid != "AGBSO6T-UFMTTQ-I7KGS6" {
		t.Errorf("refid=%q", refid)
	}
}

func TestPrivate_RequiresCredentials(t *testing.T) {
	mux := assetPairsMux()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	k, err := New("", "", map[string]interface{}{"baseURL": srv.URL})
	if err != nil {
		t.Fatalf("create exchange: %v", err)
	}
	_, err = k.FetchBalance(context.Background())
	if !errors.Is(err, base.ErrAuthenticationRequired) {
		t.Errorf("err=%v, want ErrAuthenticationRequired", err)
	}
}
