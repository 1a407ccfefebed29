package analytics

import (
	"context"
	"math/big"
	"sort"

	"golang.org/x/sync/errgroup"

	"chaingateway/internal/model"
)

// NetworkSource resolves a network name to its Reader and native token,
// the way the dispatcher resolves via the registry + chain factory.
type NetworkSource func(ctx context.Context, network string) (Reader, model.NativeToken, error)

// comparisonSampleSize trades sample depth for latency when comparing
// several networks in one call (spec §4.4): every network pays one
// fan-out, so each one samples fewer blocks than a standalone GatherMetrics
// call would.
const comparisonSampleSize = 5

// Compare gathers metrics for every network concurrently and produces the
// four rankings spec §4.4 requires. A network whose gather fails is kept
// in the output, marked Errored, rather than dropped — callers should
// see which networks answered.
func Compare(ctx context.Context, primary string, networks []string, source NetworkSource) (model.Comparison, error) {
	results := make([]model.NetworkMetrics, len(networks))
	errored := make([]bool, len(networks))

	g, gctx := errgroup.WithContext(ctx)
	for i, network := range networks {
		i, network := i, network
		g.Go(func() error {
			reader, native, err := source(gctx, network)
			if err != nil {
				errored[i] = true
				results[i] = model.NetworkMetrics{Network: network}
				return nil
			}
			metrics, err := GatherMetrics(gctx, network, reader, native, comparisonSampleSize)
			if err != nil {
				errored[i] = true
				metrics.Network = network
			}
			results[i] = metrics
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return model.Comparison{}, err
	}

	return model.Comparison{
		Primary:           primary,
		ByTPSDesc:         rank(results, errored, func(m model.NetworkMetrics) float64 { return m.RecentTPS }, true),
		ByBlockTimeAsc:    rank(results, errored, func(m model.NetworkMetrics) float64 { return m.AvgBlockTimeS }, false),
		ByGasPriceAsc:     rank(results, errored, gasPriceFloat, false),
		ByUtilizationDesc: rank(results, errored, func(m model.NetworkMetrics) float64 { return m.UtilizationPct }, true),
	}, nil
}

func gasPriceFloat(m model.NetworkMetrics) float64 {
	if m.GasPriceWei == "" {
		return 0
	}
	v, ok := new(big.Int).SetString(m.GasPriceWei, 10)
	if !ok {
		return 0
	}
	f := new(big.Float).SetInt(v)
	out, _ := f.Float64()
	return out
}

func rank(results []model.NetworkMetrics, errored []bool, value func(model.NetworkMetrics) float64, descending bool) []model.RankedNetwork {
	out := make([]model.RankedNetwork, len(results))
	for i, m := range results {
		out[i] = model.RankedNetwork{Network: m.Network, Value: value(m), Errored: errored[i]}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Errored != out[j].Errored {
			return !out[i].Errored // healthy rows sort ahead of errored ones
		}
		if descending {
			return out[i].Value > out[j].Value
		}
		return out[i].Value < out[j].Value
	})
	return out
}
