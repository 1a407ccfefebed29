package historian

import (
	"context"
	"math/big"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"chaingateway/internal/apperr"
	"chaingateway/internal/model"
)

// Reader is the chain read surface the historian scan needs.
type Reader interface {
	BlockNumber(ctx context.Context) (uint64, error)
	BlockByNumber(ctx context.Context, number *big.Int, fullTxs bool) (model.BlockSample, error)
}

const (
	maxScanBlocks  = 50
	scanBatchSize  = 5
	maxTxPerBlock  = 10
)

// scanBlocks walks backward from head for at most maxScanBlocks blocks,
// in batches of scanBatchSize concurrent reads, truncating each block's
// transaction list to maxTxPerBlock (spec §4.6 "bounded backward scan").
// A failed block is dropped rather than aborting the scan.
func scanBlocks(ctx context.Context, r Reader, head uint64) ([]model.BlockSample, error) {
	count := maxScanBlocks
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

	for start := 0; start < len(numbers); start += scanBatchSize {
		end := start + scanBatchSize
		if end > len(numbers) {
			end = len(numbers)
		}
		batch := numbers[start:end]

		g, gctx := errgroup.WithContext(ctx)
		for _, num := range batch {
			num := num
			g.Go(func() error {
				block, err := r.BlockByNumber(gctx, new(big.Int).SetUint64(num), true)
				if err != nil {
					return nil
				}
				if len(block.Txs) > maxTxPerBlock {
					block.Txs = block.Txs[:maxTxPerBlock]
				}
				mu.Lock()
				samples = append(samples, block)
				mu.Unlock()
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, apperr.Upstream("scan blocks", err)
		}
	}

	return samples, nil
}

// AddressMetrics scans the last maxScanBlocks blocks for transactions
// touching addr and aggregates a lower-bound activity snapshot. The
// result is explicitly annotated with its scan window, since a 50-block
// window can never be a lifetime total (spec §4.6).
func AddressMetrics(ctx context.Context, r Reader, addr string) (model.AddressMetrics, error) {
	head, err := r.BlockNumber(ctx)
	if err != nil {
		return model.AddressMetrics{}, err
	}

	blocks, err := scanBlocks(ctx, r, head)
	if err != nil {
		return model.AddressMetrics{}, err
	}

	lower := strings.ToLower(addr)
	metrics := model.AddressMetrics{
		Address: addr,
		ScanCap: maxScanBlocks,
	}
	totalSent := big.NewInt(0)
	totalReceived := big.NewInt(0)

	minBlock, maxBlock := head, uint64(0)
	for _, block := range blocks {
		if block.Number < minBlock {
			minBlock = block.Number
		}
		if block.Number > maxBlock {
			maxBlock = block.Number
		}
		for _, ref := range block.Txs {
			if ref.Full == nil {
				continue
			}
			tx := ref.Full
			isFrom := strings.EqualFold(tx.From, lower)
			isTo := strings.EqualFold(tx.To, lower)
			if !isFrom && !isTo {
				continue
			}
			metrics.TxCount++
			ts := tx.BlockTimestamp
			if metrics.FirstSeen == nil || ts < *metrics.FirstSeen {
				metrics.FirstSeen = &ts
			}
			if metrics.LastSeen == nil || ts > *metrics.LastSeen {
				metrics.LastSeen = &ts
			}
			if isFrom {
				metrics.Sent++
				if tx.Value != nil {
					totalSent.Add(totalSent, tx.Value)
				}
			}
			if isTo {
				metrics.Received++
				if tx.Value != nil {
					totalReceived.Add(totalReceived, tx.Value)
				}
			}
		}
	}

	metrics.TotalSent = totalSent.String()
	metrics.TotalReceived = totalReceived.String()
	metrics.SampleFromBlk = minBlock
	metrics.SampleToBlk = maxBlock
	if metrics.FirstSeen != nil && metrics.LastSeen != nil {
		age := *metrics.LastSeen - *metrics.FirstSeen
		metrics.AccountAgeSecs = &age
	}

	return metrics, nil
}
