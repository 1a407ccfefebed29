package analytics

import (
	"context"
	"math/big"
	"testing"

	"chaingateway/internal/model"
)

type fakeReader struct {
	head      uint64
	blocks    map[uint64]model.BlockSample
	gasPrice  *big.Int
	failNums  map[uint64]bool
}

func (f *fakeReader) BlockNumber(context.Context) (uint64, error) { return f.head, nil }

func (f *fakeReader) BlockByNumber(_ context.Context, number *big.Int, _ bool) (model.BlockSample, error) {
	n := number.Uint64()
	if f.failNums[n] {
		return model.BlockSample{}, errFake
	}
	b, ok := f.blocks[n]
	if !ok {
		return model.BlockSample{}, errFake
	}
	return b, nil
}

func (f *fakeReader) GetGasPrice(context.Context) (*big.Int, error) { return f.gasPrice, nil }

type fakeErr string

func (e fakeErr) Error() string { return string(e) }

const errFake = fakeErr("not found")

func newLinearReader(head uint64, n int, blockTimeSecs uint64, txPerBlock int) *fakeReader {
	blocks := make(map[uint64]model.BlockSample, n+1)
	for i := 0; i <= n; i++ {
		num := head - uint64(i)
		blocks[num] = model.BlockSample{
			Number:    num,
			Timestamp: 1_000_000 - uint64(i)*blockTimeSecs,
			GasUsed:   5_000_000,
			GasLimit:  10_000_000,
			TxCount:   txPerBlock,
		}
	}
	return &fakeReader{head: head, blocks: blocks, gasPrice: big.NewInt(25_000_000_000), failNums: map[uint64]bool{}}
}

func TestGatherMetricsHealthySample(t *testing.T) {
	r := newLinearReader(1000, 10, 12, 150)
	metrics, err := GatherMetrics(context.Background(), "ethereum", r, model.NativeToken{Name: "Ether", Symbol: "ETH", Decimals: 18}, 10)
	if err != nil {
		t.Fatalf("GatherMetrics: %v", err)
	}
	if !metrics.Healthy {
		t.Fatalf("expected healthy snapshot, got %+v", metrics)
	}
	if metrics.SampleSize != 10 {
		t.Fatalf("expected sample size 10, got %d", metrics.SampleSize)
	}
	if metrics.AvgBlockTimeS <= 0 {
		t.Fatalf("expected positive avg block time, got %v", metrics.AvgBlockTimeS)
	}
	if metrics.UtilizationPct != 50 {
		t.Fatalf("expected 50%% utilization, got %v", metrics.UtilizationPct)
	}
}

func TestGatherMetricsDefaultsSampleSizeWhenUnspecified(t *testing.T) {
	r := newLinearReader(1000, 30, 12, 150)
	metrics, err := GatherMetrics(context.Background(), "ethereum", r, model.NativeToken{}, 0)
	if err != nil {
		t.Fatalf("GatherMetrics: %v", err)
	}
	if metrics.SampleSize != defaultSampleSize {
		t.Fatalf("expected default sample size %d, got %d", defaultSampleSize, metrics.SampleSize)
	}
}

func TestGatherMetricsTooFewUsableBlocksIsUnhealthy(t *testing.T) {
	r := newLinearReader(1000, 10, 12, 150)
	for i := uint64(992); i <= 1000; i++ {
		r.failNums[i] = true
	}
	metrics, err := GatherMetrics(context.Background(), "ethereum", r, model.NativeToken{}, 10)
	if err != nil {
		t.Fatalf("GatherMetrics: %v", err)
	}
	if metrics.Healthy {
		t.Fatalf("expected unhealthy snapshot when samples fail, got %+v", metrics)
	}
	if metrics.SampleSize != 0 {
		t.Fatalf("expected zeroed sample size, got %d", metrics.SampleSize)
	}
}

func TestCompareRanksHealthyAheadOfErrored(t *testing.T) {
	healthy := newLinearReader(1000, 10, 12, 150)
	source := func(_ context.Context, network string) (Reader, model.NativeToken, error) {
		if network == "broken" {
			return nil, model.NativeToken{}, errFake
		}
		return healthy, model.NativeToken{}, nil
	}

	cmp, err := Compare(context.Background(), "ethereum", []string{"broken", "ethereum"}, source)
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	if len(cmp.ByTPSDesc) != 2 {
		t.Fatalf("expected 2 ranked rows, got %d", len(cmp.ByTPSDesc))
	}
	if cmp.ByTPSDesc[0].Errored {
		t.Fatalf("expected healthy network ranked first, got %+v", cmp.ByTPSDesc[0])
	}
}

func TestGrowthRejectsNonPositivePeriod(t *testing.T) {
	r := newLinearReader(1000, 10, 12, 150)
	if _, err := Growth(context.Background(), "ethereum", r, 0); err == nil {
		t.Fatalf("expected error for zero periodDays")
	}
}

func TestGrowthComputesDailyBlockCount(t *testing.T) {
	r := newLinearReader(1000, 1000, 12, 150)
	g, err := Growth(context.Background(), "ethereum", r, 1)
	if err != nil {
		t.Fatalf("Growth: %v", err)
	}
	if g.DailyBlockCount <= 0 {
		t.Fatalf("expected positive daily block count, got %+v", g)
	}
}
