// Package gasengine implements the gas pricing component (C5): tiered
// quotes derived from a network's suggested gas price and newest-block
// congestion, and cost estimates priced against a chosen tier.
package gasengine

import (
	"context"
	"math/big"
	"time"

	"chaingateway/internal/model"
)

// Reader is the chain read surface Quote needs.
type Reader interface {
	GetGasPrice(ctx context.Context) (*big.Int, error)
	LatestBlock(ctx context.Context, fullTxs bool) (model.BlockSample, error)
}

// tierMultiplier is the fixed per-speed multiplier applied to the
// network's base suggested gas price (spec §4.5 "fixed tier multipliers").
var tierMultiplier = map[string]float64{
	"slow":     0.8,
	"standard": 1.0,
	"fast":     1.2,
	"instant":  1.5,
}

const (
	congestionLowMax    = 0.40
	congestionMediumMax = 0.70
)

// Quote reads the network's current suggested gas price and newest-block
// utilization, and derives four tiered prices (slow/standard/fast/instant)
// plus a congestion label; Base carries the suggested price itself.
func Quote(ctx context.Context, network string, r Reader) (model.GasQuote, error) {
	base, err := r.GetGasPrice(ctx)
	if err != nil {
		return model.GasQuote{}, err
	}

	block, err := r.LatestBlock(ctx, false)
	if err != nil {
		return model.GasQuote{}, err
	}

	return model.GasQuote{
		Network:    network,
		Base:       base,
		Slow:       scale(base, tierMultiplier["slow"]),
		Standard:   scale(base, tierMultiplier["standard"]),
		Fast:       scale(base, tierMultiplier["fast"]),
		Instant:    scale(base, tierMultiplier["instant"]),
		Congestion: classifyCongestion(block),
		TakenAt:    time.Now().Unix(),
	}, nil
}

func classifyCongestion(block model.BlockSample) model.Congestion {
	if block.GasLimit == 0 {
		return model.CongestionLow
	}
	ratio := float64(block.GasUsed) / float64(block.GasLimit)
	switch {
	case ratio <= congestionLowMax:
		return model.CongestionLow
	case ratio <= congestionMediumMax:
		return model.CongestionMedium
	default:
		return model.CongestionHigh
	}
}

func scale(base *big.Int, factor float64) *big.Int {
	if base == nil {
		return big.NewInt(0)
	}
	scaled := new(big.Float).Mul(new(big.Float).SetInt(base), big.NewFloat(factor))
	out, _ := scaled.Int(nil)
	return out
}
