package registry

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestResolveByNameCaseInsensitive(t *testing.T) {
	r := New()

	d, err := r.Resolve("IOTA")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if d.ShortName != "iota" || d.ChainID != 8822 {
		t.Fatalf("unexpected descriptor: %+v", d)
	}
}

func TestResolveByChainID(t *testing.T) {
	r := New()

	d, err := r.Resolve("148")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if d.ShortName != "shimmer" {
		t.Fatalf("unexpected descriptor: %+v", d)
	}
}

func TestResolveUnknown(t *testing.T) {
	r := New()
	if _, err := r.Resolve("doesnotexist"); err == nil {
		t.Fatalf("expected error for unknown network")
	}
}

func TestIsSiblingClosedSet(t *testing.T) {
	r := New()

	for _, name := range []string{"iota", "Shimmer", "iota-testnet", "8822", "148", "1075"} {
		if !r.IsSibling(name) {
			t.Fatalf("expected %s to be a sibling", name)
		}
	}

	for _, name := range []string{"ethereum", "bsc", "1", "56", ""} {
		if r.IsSibling(name) {
			t.Fatalf("expected %s not to be a sibling", name)
		}
	}
}

func TestDescriptorJSONRoundTrip(t *testing.T) {
	r := New()
	original, err := r.Resolve("iota")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	b, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded struct {
		ShortName       string
		ChainId         uint64
		DisplayName     string
		NativeToken     struct {
			Name     string
			Symbol   string
			Decimals uint8
		}
		DefaultRpcUrl   string
		ExplorerUrl     string
		IsSiblingFamily bool
		SiblingVariant  string
	}
	if err := json.Unmarshal(b, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if decoded.ShortName != original.ShortName ||
		decoded.ChainId != original.ChainID ||
		decoded.DisplayName != original.DisplayName ||
		decoded.NativeToken.Symbol != original.NativeToken.Symbol ||
		decoded.NativeToken.Decimals != original.NativeToken.Decimals ||
		decoded.DefaultRpcUrl != original.DefaultRPCURL ||
		decoded.ExplorerUrl != original.ExplorerURL ||
		decoded.IsSiblingFamily != original.IsSiblingFamily ||
		decoded.SiblingVariant != string(original.SiblingVariant) {
		t.Fatalf("round-trip mismatch: %+v != %+v", decoded, original)
	}
}

func TestListReturnsIndependentCopy(t *testing.T) {
	r := New()
	list := r.List()
	list[0].ShortName = "mutated"

	fresh := r.List()
	if reflect.DeepEqual(list, fresh) {
		t.Fatalf("mutation of List() result leaked into registry state")
	}
}
