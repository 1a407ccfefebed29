package historian

import (
	"context"
	"math/big"
	"testing"

	"chaingateway/internal/model"
)

type fakeReader struct {
	head   uint64
	blocks map[uint64]model.BlockSample
}

func (f *fakeReader) BlockNumber(context.Context) (uint64, error) { return f.head, nil }

func (f *fakeReader) BlockByNumber(_ context.Context, number *big.Int, _ bool) (model.BlockSample, error) {
	n := number.Uint64()
	b, ok := f.blocks[n]
	if !ok {
		return model.BlockSample{}, errFake
	}
	return b, nil
}

type fakeErr string

func (e fakeErr) Error() string { return string(e) }

const errFake = fakeErr("not found")

func TestClassifyTxNativeTransfer(t *testing.T) {
	tx := model.TxRecord{To: "0xabc", Input: nil}
	if got := ClassifyTx(tx); got != ClassNativeTransfer {
		t.Fatalf("expected native transfer, got %s", got)
	}
}

func TestClassifyTxContractDeployment(t *testing.T) {
	tx := model.TxRecord{To: ""}
	if got := ClassifyTx(tx); got != ClassContractDeployment {
		t.Fatalf("expected contract deployment, got %s", got)
	}
}

func TestClassifyTxERC20Transfer(t *testing.T) {
	tx := model.TxRecord{To: "0xabc", Input: []byte{0xa9, 0x05, 0x9c, 0xbb, 0x00}}
	if got := ClassifyTx(tx); got != ClassERC20Transfer {
		t.Fatalf("expected erc20 transfer, got %s", got)
	}
}

func TestAddressMetricsAggregatesSentAndReceived(t *testing.T) {
	addr := "0x00000000000000000000000000000000000001"
	other := "0x00000000000000000000000000000000000002"
	ts0, ts1 := uint64(1000), uint64(1100)

	blocks := map[uint64]model.BlockSample{
		100: {
			Number:    100,
			Timestamp: ts0,
			Txs: []model.TxRef{
				{Hash: "0x1", Full: &model.TxRecord{From: addr, To: other, Value: big.NewInt(10), BlockTimestamp: ts0}},
			},
		},
		99: {
			Number:    99,
			Timestamp: ts1,
			Txs: []model.TxRef{
				{Hash: "0x2", Full: &model.TxRecord{From: other, To: addr, Value: big.NewInt(5), BlockTimestamp: ts1}},
			},
		},
	}
	r := &fakeReader{head: 100, blocks: blocks}

	metrics, err := AddressMetrics(context.Background(), r, addr)
	if err != nil {
		t.Fatalf("AddressMetrics: %v", err)
	}
	if metrics.Sent != 1 || metrics.Received != 1 {
		t.Fatalf("unexpected sent/received: %+v", metrics)
	}
	if metrics.TotalSent != "10" || metrics.TotalReceived != "5" {
		t.Fatalf("unexpected totals: %+v", metrics)
	}
	if metrics.ScanCap != maxScanBlocks {
		t.Fatalf("expected scan cap %d, got %d", maxScanBlocks, metrics.ScanCap)
	}
}

func TestAgeBuckets(t *testing.T) {
	oneHour := uint64(3600)
	tenDays := uint64(10 * secondsPerDayF)
	twoYears := uint64(730 * secondsPerDayF)

	if Age(nil) != AgeNew {
		t.Fatalf("expected AgeNew for nil age")
	}
	if Age(&oneHour) != AgeNew {
		t.Fatalf("expected AgeNew for 1 hour")
	}
	if Age(&tenDays) != AgeRecent {
		t.Fatalf("expected AgeRecent for 10 days")
	}
	if Age(&twoYears) != AgeVeteran {
		t.Fatalf("expected AgeVeteran for 2 years")
	}
}

func TestConfirmationsFloorsAtZero(t *testing.T) {
	if Confirmations(100, 150) != 0 {
		t.Fatalf("expected 0 confirmations for future block")
	}
	if Confirmations(100, 90) != 10 {
		t.Fatalf("expected 10 confirmations")
	}
}

func TestGasEfficiency(t *testing.T) {
	receipt := model.Receipt{GasUsed: 21000}
	if got := GasEfficiency(receipt, 42000); got != 0.5 {
		t.Fatalf("expected 0.5 efficiency, got %v", got)
	}
	if got := GasEfficiency(receipt, 0); got != 0 {
		t.Fatalf("expected 0 for zero gas limit, got %v", got)
	}
}

func TestGasEfficiencyLabelBuckets(t *testing.T) {
	cases := []struct {
		ratio float64
		want  string
	}{
		{0.10, "Excellent"},
		{0.59, "Excellent"},
		{0.60, "Good"},
		{0.79, "Good"},
		{0.80, "Fair"},
		{0.94, "Fair"},
		{0.95, "Poor"},
		{1.00, "Poor"},
	}
	for _, c := range cases {
		if got := GasEfficiencyLabel(c.ratio); got != c.want {
			t.Fatalf("ratio %v: expected %s, got %s", c.ratio, c.want, got)
		}
	}
}
