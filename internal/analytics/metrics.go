// Package analytics implements the network analytics component (C4):
// bounded block-sample health metrics, cross-network comparison rankings,
// and delta-based growth estimates.
package analytics

import (
	"context"
	"math/big"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"chaingateway/internal/apperr"
	"chaingateway/internal/model"
)

// Reader is the chain read surface GatherMetrics needs. *chain.Client
// satisfies it; tests use a fake.
type Reader interface {
	BlockNumber(ctx context.Context) (uint64, error)
	BlockByNumber(ctx context.Context, number *big.Int, fullTxs bool) (model.BlockSample, error)
	GetGasPrice(ctx context.Context) (*big.Int, error)
}

const (
	defaultSampleSize = 20
	batchSize         = 5
	minUsableBlocks   = 2
)

// GatherMetrics samples the most recent sampleSize blocks (0 means the
// default of defaultSampleSize) in batches of up to batchSize concurrent
// reads (spec §4.4 bounded fan-out) and folds them into a NetworkMetrics
// snapshot. Fewer than minUsableBlocks usable samples produces a zeroed,
// unhealthy snapshot rather than an error — a degraded upstream still
// answers, it just answers honestly.
func GatherMetrics(ctx context.Context, network string, r Reader, native model.NativeToken, sampleSize int) (model.NetworkMetrics, error) {
	if sampleSize <= 0 {
		sampleSize = defaultSampleSize
	}

	head, err := r.BlockNumber(ctx)
	if err != nil {
		return model.NetworkMetrics{}, err
	}

	blocks, err := sampleBlocks(ctx, r, head, sampleSize)
	if err != nil {
		return model.NetworkMetrics{}, err
	}

	metrics := model.NetworkMetrics{
		Network:     network,
		BlockHeight: head,
		TokenInfo:   native,
	}

	if len(blocks) < minUsableBlocks {
		return metrics, nil
	}

	sort.Slice(blocks, func(i, j int) bool { return blocks[i].Number < blocks[j].Number })

	var totalTx, totalGasUsed uint64
	var totalGasLimit uint64
	var totalDeltaS float64
	for i, b := range blocks {
		totalTx += uint64(b.TxCount)
		totalGasUsed += b.GasUsed
		totalGasLimit += b.GasLimit
		if i > 0 {
			prev := blocks[i-1]
			if b.Timestamp > prev.Timestamp {
				totalDeltaS += float64(b.Timestamp - prev.Timestamp)
			}
		}
	}

	n := float64(len(blocks))
	metrics.SampleSize = len(blocks)
	metrics.AvgTxPerBlock = float64(totalTx) / n
	metrics.AvgGasUsed = float64(totalGasUsed) / n
	if totalGasLimit > 0 {
		metrics.UtilizationPct = 100 * float64(totalGasUsed) / float64(totalGasLimit)
	}
	if len(blocks) > 1 {
		metrics.AvgBlockTimeS = totalDeltaS / float64(len(blocks)-1)
		if metrics.AvgBlockTimeS > 0 {
			metrics.RecentTPS = metrics.AvgTxPerBlock / metrics.AvgBlockTimeS
		}
	}

	gasPrice, err := r.GetGasPrice(ctx)
	if err == nil && gasPrice != nil {
		metrics.GasPriceWei = gasPrice.String()
	}

	metrics.Healthy = true
	return metrics, nil
}

// sampleBlocks fetches count blocks ending at head, in batches of
// batchSize concurrent reads via errgroup. A failed block within a batch
// is dropped rather than failing the whole sample — partial results beat
// no results for a health snapshot.
func sampleBlocks(ctx context.Context, r Reader, head uint64, count int) ([]model.BlockSample, error) {
	if count > int(head)+1 {
		count = int(head) + 1
	}

	numbers := make([]uint64, 0, count)
	for i := 0; i < count; i++ {
		numbers = append(numbers, head-uint64(i))
	}

	var (
		mu      sync.Mutex
		samples []model.BlockSample
	)

	for start := 0; start < len(numbers); start += batchSize {
		end := start + batchSize
		if end > len(numbers) {
			end = len(numbers)
		}
		batch := numbers[start:end]

		g, gctx := errgroup.WithContext(ctx)
		for _, num := range batch {
			num := num
			g.Go(func() error {
				block, err := r.BlockByNumber(gctx, new(big.Int).SetUint64(num), false)
				if err != nil {
					return nil // drop, do not fail the batch
				}
				mu.Lock()
				samples = append(samples, block)
				mu.Unlock()
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, apperr.Upstream("sample blocks", err)
		}
	}

	return samples, nil
}
