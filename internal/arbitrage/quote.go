// Package arbitrage implements the cross-network arbitrage component
// (C7): constant-product pair quoting against the static pool registry,
// and directed-pair opportunity discovery across networks.
package arbitrage

import (
	"context"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/sync/errgroup"

	"chaingateway/internal/apperr"
	"chaingateway/internal/model"
	"chaingateway/internal/poolreg"
	"chaingateway/internal/token"
)

// Reader is the chain read surface Quote needs.
type Reader interface {
	Call(ctx context.Context, to string, data []byte) ([]byte, error)
}

// Source resolves a network name to its Reader, the way the dispatcher
// resolves via the chain factory.
type Source func(ctx context.Context, network string) (Reader, error)

// Quote prices symbol on network against the registered pair's current
// reserves (spec §4.7): read reserves and sides, read both sides' decimals
// and symbols via C3, identify target (matches symbol) vs base, and price
// the base in terms of one target unit.
func Quote(ctx context.Context, symbol, network string, reg *poolreg.Registry, src Source) (model.TokenQuote, error) {
	entry, ok := reg.Lookup(symbol, network)
	if !ok {
		return model.TokenQuote{}, apperr.NotFound("quote token", "no registered pool for %s on %s", symbol, network)
	}

	reader, err := src(ctx, network)
	if err != nil {
		return model.TokenQuote{}, err
	}

	parsed, err := PairABI()
	if err != nil {
		return model.TokenQuote{}, err
	}

	reserve0, reserve1, err := readReserves(ctx, reader, parsed, entry.PairAddress)
	if err != nil {
		return model.TokenQuote{}, err
	}
	token0, token1, err := readSides(ctx, reader, parsed, entry.PairAddress)
	if err != nil {
		return model.TokenQuote{}, err
	}

	var meta0, meta1 model.FungibleMeta
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		m, err := token.ReadFungibleMeta(gctx, reader, token0, nil)
		meta0 = m
		return err
	})
	g.Go(func() error {
		m, err := token.ReadFungibleMeta(gctx, reader, token1, nil)
		meta1 = m
		return err
	})
	if err := g.Wait(); err != nil {
		return model.TokenQuote{}, apperr.Upstream("read pair token metadata", err)
	}

	targetReserve, targetDecimals, baseReserve, baseDecimals, baseSymbol, ok := identifySides(
		symbol, reserve0, meta0, reserve1, meta1)
	if !ok {
		return model.TokenQuote{}, apperr.Logic("identify target token", "neither pair side matches symbol %s on %s", symbol, network)
	}
	if targetReserve.Sign() == 0 {
		return model.TokenQuote{}, apperr.Upstream("decode reserves", nil)
	}

	targetScale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(targetDecimals)), nil)
	baseScale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(baseDecimals)), nil)
	numerator := new(big.Int).Mul(baseReserve, targetScale)
	denominator := new(big.Int).Mul(targetReserve, baseScale)
	price := new(big.Rat).SetFrac(numerator, denominator)
	liquidity := new(big.Rat).SetFrac(targetReserve, targetScale)

	return model.TokenQuote{
		Network:   network,
		Price:     price.FloatString(int(baseDecimals)),
		DexName:   entry.DexName,
		Liquidity: liquidity.FloatString(int(targetDecimals)),
		BaseToken: baseSymbol,
	}, nil
}

func readReserves(ctx context.Context, reader Reader, parsed abi.ABI, pairAddress string) (*big.Int, *big.Int, error) {
	callData, err := parsed.Pack("getReserves")
	if err != nil {
		return nil, nil, err
	}
	resp, err := reader.Call(ctx, pairAddress, callData)
	if err != nil {
		return nil, nil, err
	}
	values, err := parsed.Unpack("getReserves", resp)
	if err != nil || len(values) != 3 {
		return nil, nil, apperr.Upstream("unpack getReserves", err)
	}
	reserve0, ok := values[0].(*big.Int)
	reserve1, ok2 := values[1].(*big.Int)
	if !ok || !ok2 {
		return nil, nil, apperr.Upstream("decode reserves", nil)
	}
	return reserve0, reserve1, nil
}

func readSides(ctx context.Context, reader Reader, parsed abi.ABI, pairAddress string) (string, string, error) {
	var side0, side1 string
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		addr, err := readAddress(gctx, reader, parsed, pairAddress, "token0")
		side0 = addr
		return err
	})
	g.Go(func() error {
		addr, err := readAddress(gctx, reader, parsed, pairAddress, "token1")
		side1 = addr
		return err
	})
	if err := g.Wait(); err != nil {
		return "", "", apperr.Upstream("read pair sides", err)
	}
	return side0, side1, nil
}

func readAddress(ctx context.Context, reader Reader, parsed abi.ABI, pairAddress, method string) (string, error) {
	callData, err := parsed.Pack(method)
	if err != nil {
		return "", err
	}
	resp, err := reader.Call(ctx, pairAddress, callData)
	if err != nil {
		return "", err
	}
	values, err := parsed.Unpack(method, resp)
	if err != nil || len(values) != 1 {
		return "", apperr.Upstream("unpack "+method, err)
	}
	addr, ok := values[0].(common.Address)
	if !ok {
		return "", apperr.Upstream("decode "+method, nil)
	}
	return addr.Hex(), nil
}

// identifySides picks the side whose symbol matches symbol (case-insensitive)
// as the target and the other as the base (spec §4.7 step 3).
func identifySides(symbol string, reserve0 *big.Int, meta0 model.FungibleMeta, reserve1 *big.Int, meta1 model.FungibleMeta) (targetReserve *big.Int, targetDecimals uint8, baseReserve *big.Int, baseDecimals uint8, baseSymbol string, ok bool) {
	switch {
	case strings.EqualFold(meta0.Symbol, symbol):
		return reserve0, meta0.Decimals, reserve1, meta1.Decimals, meta1.Symbol, true
	case strings.EqualFold(meta1.Symbol, symbol):
		return reserve1, meta1.Decimals, reserve0, meta0.Decimals, meta0.Symbol, true
	default:
		return nil, 0, nil, 0, "", false
	}
}

// FindOpportunities quotes symbol on each of networks (a network with no
// registered pool or a failed quote drops out) and reports directed pairs
// whose profit is at least minProfitPct, sorted descending (spec §4.7).
func FindOpportunities(ctx context.Context, symbol string, networks []string, minProfitPct float64, siblingCheck func(string) bool, reg *poolreg.Registry, src Source) ([]model.ArbitragePair, error) {
	quotes := make([]model.TokenQuote, 0, len(networks))
	g, gctx := errgroup.WithContext(ctx)
	results := make([]*model.TokenQuote, len(networks))
	for i, network := range networks {
		i, network := i, network
		g.Go(func() error {
			quote, err := Quote(gctx, symbol, network, reg, src)
			if err != nil {
				return nil // absent/unreachable pool just drops out of consideration
			}
			results[i] = &quote
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	for _, q := range results {
		if q != nil {
			quotes = append(quotes, *q)
		}
	}

	takenAt := time.Now().Unix()
	var pairs []model.ArbitragePair
	for i, buy := range quotes {
		for j, sell := range quotes {
			if i == j {
				continue
			}
			if !strings.EqualFold(buy.BaseToken, sell.BaseToken) {
				continue // mismatched base tokens are not comparable; spec §4.7 requires skipping, not silently assuming equality
			}
			profitPct, ok := profitPercent(buy.Price, sell.Price)
			if !ok || profitPct < minProfitPct {
				continue
			}
			pairs = append(pairs, model.ArbitragePair{
				Token:            symbol,
				BaseToken:        buy.BaseToken,
				Buy:              buy,
				Sell:             sell,
				ProfitPct:        profitPct,
				BridgingRequired: bridgingRequired(buy.Network, sell.Network, siblingCheck),
				TakenAt:          takenAt,
			})
		}
	}

	sortByProfitDesc(pairs)
	return pairs, nil
}

func profitPercent(buyPrice, sellPrice string) (float64, bool) {
	buy, ok1 := new(big.Rat).SetString(buyPrice)
	sell, ok2 := new(big.Rat).SetString(sellPrice)
	if !ok1 || !ok2 || buy.Sign() == 0 {
		return 0, false
	}
	delta := new(big.Rat).Sub(sell, buy)
	ratio := new(big.Rat).Quo(delta, buy)
	ratio.Mul(ratio, big.NewRat(100, 1))
	f, _ := ratio.Float64()
	return f, true
}

// bridgingRequired reports whether moving a position from buyNetwork to
// sellNetwork needs a cross-chain bridge. Networks within the sibling
// family share a native-bridge path; any other cross-network move does.
func bridgingRequired(buyNetwork, sellNetwork string, siblingCheck func(string) bool) bool {
	if strings.EqualFold(buyNetwork, sellNetwork) {
		return false
	}
	return !(siblingCheck(buyNetwork) && siblingCheck(sellNetwork))
}

func sortByProfitDesc(pairs []model.ArbitragePair) {
	for i := 1; i < len(pairs); i++ {
		for j := i; j > 0 && pairs[j-1].ProfitPct < pairs[j].ProfitPct; j-- {
			pairs[j-1], pairs[j] = pairs[j], pairs[j-1]
		}
	}
}
