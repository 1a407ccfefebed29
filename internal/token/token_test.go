package token

import (
	"context"
	"math/big"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"

	"chaingateway/internal/model"
)

type fakeReader struct {
	responses map[string][]byte
	err       error
}

func (f *fakeReader) Call(_ context.Context, _ string, data []byte) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	sel := string(data[:4])
	resp, ok := f.responses[sel]
	if !ok {
		return nil, errSelectorNotStubbed
	}
	return resp, nil
}

var errSelectorNotStubbed = errSentinel("selector not stubbed")

type errSentinel string

func (e errSentinel) Error() string { return string(e) }

func TestReadFungibleMetaHappyPath(t *testing.T) {
	stringABI, err := erc20StringABI()
	if err != nil {
		t.Fatalf("erc20StringABI: %v", err)
	}

	decimalsData, _ := stringABI.Pack("decimals")
	symbolData, _ := stringABI.Pack("symbol")
	nameData, _ := stringABI.Pack("name")
	supplyData, _ := stringABI.Pack("totalSupply")

	decimalsOut, _ := stringABI.Methods["decimals"].Outputs.Pack(uint8(6))
	symbolOut, _ := stringABI.Methods["symbol"].Outputs.Pack("IOTA")
	nameOut, _ := stringABI.Methods["name"].Outputs.Pack("IOTA")
	supplyOut, _ := stringABI.Methods["totalSupply"].Outputs.Pack(big.NewInt(1_000_000))

	reader := &fakeReader{responses: map[string][]byte{
		string(decimalsData[:4]): decimalsOut,
		string(symbolData[:4]):   symbolOut,
		string(nameData[:4]):     nameOut,
		string(supplyData[:4]):   supplyOut,
	}}

	meta, err := ReadFungibleMeta(context.Background(), reader, "0xabc", nil)
	if err != nil {
		t.Fatalf("ReadFungibleMeta: %v", err)
	}
	if meta.Symbol != "IOTA" || meta.Name != "IOTA" || meta.Decimals != 6 {
		t.Fatalf("unexpected meta: %+v", meta)
	}
	if meta.TotalSupply.Cmp(big.NewInt(1_000_000)) != 0 {
		t.Fatalf("unexpected total supply: %v", meta.TotalSupply)
	}
}

func TestReadFungibleMetaAllFailuresFallsBackToNative(t *testing.T) {
	reader := &fakeReader{err: errSentinel("rpc down")}
	fallback := &model.NativeToken{Name: "IOTA", Symbol: "IOTA", Decimals: 6}

	meta, err := ReadFungibleMeta(context.Background(), reader, "0xabc", fallback)
	if err != nil {
		t.Fatalf("ReadFungibleMeta: %v", err)
	}
	if meta.Symbol != "IOTA" || meta.Decimals != 6 {
		t.Fatalf("expected native fallback, got %+v", meta)
	}
}

func TestReadFungibleMetaAllFailuresNoFallbackUsesDefaults(t *testing.T) {
	reader := &fakeReader{err: errSentinel("rpc down")}

	meta, err := ReadFungibleMeta(context.Background(), reader, "0xabc", nil)
	if err != nil {
		t.Fatalf("ReadFungibleMeta: %v", err)
	}
	if meta.Symbol != defaultSymbol || meta.Name != defaultName || meta.Decimals != defaultDecimals {
		t.Fatalf("expected stdlib defaults, got %+v", meta)
	}
}

const minimalERC20ABI = `[
  {"type":"function","name":"totalSupply","inputs":[],"outputs":[{"type":"uint256"}],"stateMutability":"view"},
  {"type":"function","name":"balanceOf","inputs":[{"type":"address"}],"outputs":[{"type":"uint256"}],"stateMutability":"view"},
  {"type":"function","name":"transfer","inputs":[{"type":"address"},{"type":"uint256"}],"outputs":[{"type":"bool"}],"stateMutability":"nonpayable"},
  {"type":"function","name":"transferFrom","inputs":[{"type":"address"},{"type":"address"},{"type":"uint256"}],"outputs":[{"type":"bool"}],"stateMutability":"nonpayable"},
  {"type":"function","name":"approve","inputs":[{"type":"address"},{"type":"uint256"}],"outputs":[{"type":"bool"}],"stateMutability":"nonpayable"},
  {"type":"function","name":"allowance","inputs":[{"type":"address"},{"type":"address"}],"outputs":[{"type":"uint256"}],"stateMutability":"view"}
]`

func TestDetectInterfacesRecognizesERC20(t *testing.T) {
	parsed, err := abi.JSON(strings.NewReader(minimalERC20ABI))
	if err != nil {
		t.Fatalf("abi.JSON: %v", err)
	}

	analysis := DetectInterfaces(parsed)
	found := false
	for _, std := range analysis.Implements {
		if std == model.StandardERC20 {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected ERC20 in implements, got %v", analysis.Implements)
	}
	if found2 := containsStandard(analysis.Implements, model.StandardERC721); found2 {
		t.Fatalf("did not expect ERC721 to match a minimal ERC20 ABI")
	}
}

func containsStandard(list []model.StandardID, want model.StandardID) bool {
	for _, s := range list {
		if s == want {
			return true
		}
	}
	return false
}

func TestScanSecurityFlagsDetectsDelegatecallAndSelfdestruct(t *testing.T) {
	bytecode := []byte{
		byte(0x60), 0x00, // PUSH1 0x00
		byte(0xf4), // DELEGATECALL
		byte(0xff), // SELFDESTRUCT
	}
	flags := ScanSecurityFlags(bytecode)
	if !flags.Delegatecall {
		t.Fatalf("expected Delegatecall flag")
	}
	if !flags.SelfDestruct {
		t.Fatalf("expected SelfDestruct flag")
	}
}

func TestScanSecurityFlagsCleanBytecode(t *testing.T) {
	bytecode := []byte{0x60, 0x01, 0x60, 0x02, 0x01} // PUSH1 1, PUSH1 2, ADD
	flags := ScanSecurityFlags(bytecode)
	if flags.Delegatecall || flags.SelfDestruct || flags.ExternalCalls {
		t.Fatalf("expected no flags on arithmetic-only bytecode, got %+v", flags)
	}
}
