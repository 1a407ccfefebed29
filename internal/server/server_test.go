package server

import (
	"context"
	"encoding/json"
	"math/big"
	"testing"

	"chaingateway/internal/apperr"
	"chaingateway/internal/defi"
	"chaingateway/internal/poolreg"
	"chaingateway/internal/registry"
)

func newTestServices(t *testing.T) *Services {
	t.Helper()
	reg := registry.New()
	pools, err := poolreg.Load([]byte(`
pools:
  - symbol: USDC
    network: ethereum
    pairAddress: "0x1111111111111111111111111111111111111111"
    dexName: test-dex
    bridgedFromCanonical: false
  - symbol: USDC
    network: polygon
    pairAddress: "0x2222222222222222222222222222222222222222"
    dexName: test-dex
    bridgedFromCanonical: true
`))
	if err != nil {
		t.Fatalf("poolreg.Load: %v", err)
	}
	return &Services{
		Registry: reg,
		Pools:    pools,
		Defi:     defi.NewProvider(),
	}
}

func TestClassifyFinalityBuckets(t *testing.T) {
	cases := []struct {
		delay int64
		want  string
	}{
		{0, "high"},
		{14, "high"},
		{15, "medium"},
		{59, "medium"},
		{60, "low"},
		{600, "low"},
	}
	for _, c := range cases {
		if got := classifyFinality(c.delay); got != c.want {
			t.Errorf("classifyFinality(%d) = %q, want %q", c.delay, got, c.want)
		}
	}
}

func TestFormatTokenAmount(t *testing.T) {
	got := formatTokenAmount(big.NewInt(1_500_000_000_000_000_000), 18)
	if got != "1.500000000000000000" {
		t.Fatalf("unexpected formatted amount: %s", got)
	}
	if formatTokenAmount(nil, 18) != "0" {
		t.Fatalf("nil value should format as 0")
	}
}

func TestGasRecommendationCoversAllTiers(t *testing.T) {
	if gasRecommendation("high") == "" || gasRecommendation("medium") == "" || gasRecommendation("low") == "" {
		t.Fatalf("every congestion tier must produce a non-empty recommendation")
	}
}

func TestHandleTransferAndDeployAreUnsupported(t *testing.T) {
	s := newTestServices(t)

	if _, err := s.handleTransferDelegated(context.Background(), nil); err == nil {
		t.Fatalf("expected unsupported error")
	} else if e, ok := apperr.As(err); !ok || e.Kind != apperr.KindUnsupported {
		t.Fatalf("expected KindUnsupported, got %v", err)
	}

	if _, err := s.handleDeployDelegated(context.Background(), nil); err == nil {
		t.Fatalf("expected unsupported error")
	} else if e, ok := apperr.As(err); !ok || e.Kind != apperr.KindUnsupported {
		t.Fatalf("expected KindUnsupported, got %v", err)
	}
}

func TestHandleStakingInfoKnownSibling(t *testing.T) {
	s := newTestServices(t)
	result, err := s.handleStakingInfo(context.Background(), map[string]interface{}{"network": "iota"})
	if err != nil {
		t.Fatalf("handleStakingInfo: %v", err)
	}
	payload, ok := result.(map[string]interface{})
	if !ok {
		t.Fatalf("unexpected result type %T", result)
	}
	if payload["network"] != "iota" {
		t.Fatalf("expected network iota, got %v", payload["network"])
	}
}

func TestHandleListArbitrageTokensFlagsBridging(t *testing.T) {
	s := newTestServices(t)
	result, err := s.handleListArbitrageTokens(context.Background(), nil)
	if err != nil {
		t.Fatalf("handleListArbitrageTokens: %v", err)
	}
	payload, ok := result.(map[string]interface{})
	if !ok {
		t.Fatalf("unexpected result type %T", result)
	}
	raw, err := json.Marshal(payload["tokens"])
	if err != nil {
		t.Fatalf("marshal tokens: %v", err)
	}
	var decoded []struct {
		Symbol           string   `json:"symbol"`
		Networks         []string `json:"networks"`
		BridgingRequired bool     `json:"bridgingRequiredAmongNetworks"`
	}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal tokens: %v", err)
	}
	if len(decoded) != 1 || decoded[0].Symbol != "USDC" {
		t.Fatalf("expected one USDC entry, got %+v", decoded)
	}
	if !decoded[0].BridgingRequired {
		t.Fatalf("ethereum/polygon pairing should require bridging since neither is a sibling network")
	}
}
