package kraken

import "testing"

func TestTruncateToPrecision(t *testing.T) {
	tests := []struct {
		value     float64
		precision int
		want      string
	}{
		// 截断从不进位
		{1.999, 2, "1.99"},
		{0.123456789, 8, "0.12345678"},
		{100.0, 2, "100"},
		{0.1, 8, "0.1"},
		{12345.6789, 1, "12345.6"},
		{2.0, 0, "2"},
		{1.9999999, 0, "1"},
	}
	for _, tt := range tests {
		if got := truncateToPrecision(tt.value, tt.precision); got != tt.want {
			t.Errorf("truncateToPrecision(%v, %d)=%q, want %q", tt.value, tt.precision, got, tt.want)
		}
	}
}

func TestToPrecisionUsesMarketConfig(t *testing.T) {
	k := newTestCatalog(t)

	// BTC/USD: 数量精度 8，价格精度 1
	amount, err := k.AmountToPrecision("BTC/USD", 1.999999999)
	if err != nil {
		t.Fatalf("amount: %v", err)
	}
	if amount != "1.99999999" {
		t.Errorf("AmountToPrecision=%q, want 1.99999999", amount)
	}

	price, err := k.PriceToPrecision("BTC/USD", 30010.19)
	if err != nil {
		t.Fatalf("price: %v", err)
	}
	if price != "30010.1" {
		t.Errorf("PriceToPrecision=%q, want 30010.1", price)
	}

	cost, err := k.CostToPrecision("BTC/USD", 99.99)
	if err != nil {
		t.Fatalf("cost: %v", err)
	}
	if cost != "99.9" {
		t.Errorf("CostToPrecision=%q, want 99.9 (price precision)", cost)
	}

	fee, err := k.FeeToPrecision("BTC/USD", 0.123456789)
	if err != nil {
		t.Fatalf("fee: %v", err)
	}
	if fee != "0.12345678" {
		t.Errorf("FeeToPrecision=%q, want 0.12345678 (amount precision)", fee)
	}

	if _, err := k.AmountToPrecision("NOPE/USD", 1); err == nil {
		t.Error("unknown symbol must fail")
	}
}
