package gasengine

import (
	"context"
	"math/big"
	"testing"

	"chaingateway/internal/model"
)

type fakeReader struct {
	price *big.Int
	block model.BlockSample
	err   error
}

func (f *fakeReader) GetGasPrice(context.Context) (*big.Int, error) { return f.price, f.err }
func (f *fakeReader) LatestBlock(context.Context, bool) (model.BlockSample, error) {
	return f.block, f.err
}

func TestQuoteAppliesTierMultipliers(t *testing.T) {
	r := &fakeReader{
		price: big.NewInt(100_000_000_000),
		block: model.BlockSample{GasUsed: 1_000_000, GasLimit: 10_000_000},
	}
	quote, err := Quote(context.Background(), "ethereum", r)
	if err != nil {
		t.Fatalf("Quote: %v", err)
	}
	if quote.Slow.Cmp(big.NewInt(80_000_000_000)) != 0 {
		t.Fatalf("expected slow=80e9, got %v", quote.Slow)
	}
	if quote.Instant.Cmp(big.NewInt(150_000_000_000)) != 0 {
		t.Fatalf("expected instant=150e9, got %v", quote.Instant)
	}
	if quote.Congestion != model.CongestionLow {
		t.Fatalf("expected low congestion at 10%% usage, got %v", quote.Congestion)
	}
}

func TestQuoteClassifiesHighCongestion(t *testing.T) {
	r := &fakeReader{
		price: big.NewInt(100),
		block: model.BlockSample{GasUsed: 9_500_000, GasLimit: 10_000_000},
	}
	quote, err := Quote(context.Background(), "ethereum", r)
	if err != nil {
		t.Fatalf("Quote: %v", err)
	}
	if quote.Congestion != model.CongestionHigh {
		t.Fatalf("expected high congestion at 95%% usage, got %v", quote.Congestion)
	}
}

func TestClassifyCongestionBoundaries(t *testing.T) {
	cases := []struct {
		used, limit uint64
		want        model.Congestion
	}{
		{used: 40, limit: 100, want: model.CongestionLow},
		{used: 41, limit: 100, want: model.CongestionMedium},
		{used: 70, limit: 100, want: model.CongestionMedium},
		{used: 72, limit: 100, want: model.CongestionHigh},
	}
	for _, c := range cases {
		got := classifyCongestion(model.BlockSample{GasUsed: c.used, GasLimit: c.limit})
		if got != c.want {
			t.Fatalf("ratio %d/%d: expected %v, got %v", c.used, c.limit, c.want, got)
		}
	}
}

func TestEstimateCostFormatsAtDecimals(t *testing.T) {
	estimate := EstimateCost(21000, big.NewInt(50_000_000_000), "ETH", 18)
	if estimate.NativeSymbol != "ETH" {
		t.Fatalf("unexpected symbol: %s", estimate.NativeSymbol)
	}
	if estimate.USDEquivalent != nil {
		t.Fatalf("expected nil USD equivalent, got %v", *estimate.USDEquivalent)
	}
	want := new(big.Int).Mul(big.NewInt(21000), big.NewInt(50_000_000_000))
	if estimate.TotalWei.Cmp(want) != 0 {
		t.Fatalf("unexpected total wei: %v", estimate.TotalWei)
	}
}
