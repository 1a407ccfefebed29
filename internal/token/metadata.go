package token

import (
	"bytes"
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"

	"chaingateway/internal/model"
)

// Reader is the read surface token metadata calls need. *chain.Client
// satisfies it; tests use a fake.
type Reader interface {
	Call(ctx context.Context, to string, data []byte) ([]byte, error)
}

// defaults per spec §4.3: any single failed field falls back rather than
// failing the whole read.
const (
	defaultName     = "Unknown"
	defaultSymbol   = "Unknown"
	defaultDecimals = 18
)

// ReadFungibleMeta reads name/symbol/decimals/totalSupply via the standard
// ERC20 view selectors, defaulting any field that fails independently.
// If nativeFallback is non-nil and every call fails, the sibling-family
// native token descriptor is substituted (spec §4.3 "sibling wrapper
// fallback").
func ReadFungibleMeta(ctx context.Context, r Reader, address string, nativeFallback *model.NativeToken) (model.FungibleMeta, error) {
	meta := model.FungibleMeta{
		Address:     address,
		Name:        defaultName,
		Symbol:      defaultSymbol,
		Decimals:    defaultDecimals,
		TotalSupply: big.NewInt(0),
	}

	stringABI, err := erc20StringABI()
	if err != nil {
		return meta, err
	}
	bytes32ABI, err := erc20Bytes32ABI()
	if err != nil {
		return meta, err
	}

	failures := 0
	const totalCalls = 4

	if decimals, ok := callDecimals(ctx, r, address, stringABI); ok {
		meta.Decimals = decimals
	} else {
		failures++
	}

	if symbol, ok := callStringOrBytes32(ctx, r, address, "symbol", stringABI, bytes32ABI); ok {
		meta.Symbol = symbol
	} else {
		failures++
	}

	if name, ok := callStringOrBytes32(ctx, r, address, "name", stringABI, bytes32ABI); ok {
		meta.Name = name
	} else {
		failures++
	}

	if supply, ok := callTotalSupply(ctx, r, address, stringABI); ok {
		meta.TotalSupply = supply
	} else {
		failures++
	}

	if failures == totalCalls && nativeFallback != nil {
		meta.Name = nativeFallback.Name
		meta.Symbol = nativeFallback.Symbol
		meta.Decimals = nativeFallback.Decimals
		meta.TotalSupply = big.NewInt(0)
	}

	return meta, nil
}

func callDecimals(ctx context.Context, r Reader, address string, parsed abi.ABI) (uint8, bool) {
	values, err := call(ctx, r, address, parsed, "decimals")
	if err != nil || len(values) != 1 {
		return 0, false
	}
	dec, ok := values[0].(uint8)
	if !ok {
		return 0, false
	}
	return dec, true
}

func callTotalSupply(ctx context.Context, r Reader, address string, parsed abi.ABI) (*big.Int, bool) {
	values, err := call(ctx, r, address, parsed, "totalSupply")
	if err != nil || len(values) != 1 {
		return nil, false
	}
	supply, ok := values[0].(*big.Int)
	if !ok {
		return nil, false
	}
	return supply, true
}

func callStringOrBytes32(ctx context.Context, r Reader, address, method string, stringABI, bytes32ABI abi.ABI) (string, bool) {
	if values, err := call(ctx, r, address, stringABI, method); err == nil && len(values) == 1 {
		if s, ok := values[0].(string); ok {
			return s, true
		}
	}
	if values, err := call(ctx, r, address, bytes32ABI, method); err == nil && len(values) == 1 {
		if raw, ok := values[0].([32]byte); ok {
			return string(bytes.TrimRight(raw[:], "\x00")), true
		}
	}
	return "", false
}

func call(ctx context.Context, r Reader, address string, parsed abi.ABI, method string) ([]interface{}, error) {
	data, err := parsed.Pack(method)
	if err != nil {
		return nil, err
	}
	resp, err := r.Call(ctx, address, data)
	if err != nil {
		return nil, err
	}
	return parsed.Unpack(method, resp)
}
