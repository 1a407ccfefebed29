package analytics

import (
	"context"
	"math/big"

	"chaingateway/internal/apperr"
	"chaingateway/internal/model"
)

const (
	secondsPerDay      = 86400
	maxIntermediateOps = 50
)

// Growth estimates throughput change over the last periodDays by locating
// the block nearest "now - periodDays" with a bounded binary search (at
// most maxIntermediateOps header reads, spec §4.5) and diffing its sample
// against the current head.
func Growth(ctx context.Context, network string, r Reader, periodDays float64) (model.Growth, error) {
	if periodDays <= 0 {
		return model.Growth{}, apperr.Validation("growth", "periodDays must be positive")
	}

	head, err := r.BlockNumber(ctx)
	if err != nil {
		return model.Growth{}, err
	}
	headSample, err := r.BlockByNumber(ctx, new(big.Int).SetUint64(head), false)
	if err != nil {
		return model.Growth{}, err
	}

	targetTS := uint64(0)
	if now := headSample.Timestamp; uint64(periodDays*secondsPerDay) < now {
		targetTS = now - uint64(periodDays*secondsPerDay)
	}

	pastBlock, pastSample, err := locateBlockByTimestamp(ctx, r, head, headSample.Timestamp, targetTS)
	if err != nil {
		return model.Growth{}, err
	}
	if head <= pastBlock {
		return model.Growth{Network: network, PeriodDays: periodDays}, nil
	}

	blockDelta := float64(head - pastBlock)
	actualDays := periodDays
	if headSample.Timestamp > pastSample.Timestamp {
		actualDays = float64(headSample.Timestamp-pastSample.Timestamp) / secondsPerDay
	}
	if actualDays <= 0 {
		actualDays = periodDays
	}

	dailyBlocks := blockDelta / actualDays

	recentTxRate, pastTxRate := float64(headSample.TxCount), float64(pastSample.TxCount)
	dailyTx := dailyBlocks * ((recentTxRate + pastTxRate) / 2)

	var avgDailyTPS float64
	if secondsPerDay > 0 {
		avgDailyTPS = dailyTx / secondsPerDay
	}

	midNum := pastBlock + (head-pastBlock)/2
	var blockTimeImprovement float64
	if midNum > pastBlock && midNum < head {
		midSample, err := r.BlockByNumber(ctx, new(big.Int).SetUint64(midNum), false)
		if err == nil {
			earlyHalfBlockTime := safeBlockTime(midSample.Timestamp, pastSample.Timestamp, midNum, pastBlock)
			lateHalfBlockTime := safeBlockTime(headSample.Timestamp, midSample.Timestamp, head, midNum)
			if earlyHalfBlockTime > 0 {
				blockTimeImprovement = 100 * (earlyHalfBlockTime - lateHalfBlockTime) / earlyHalfBlockTime
			}
		}
	}

	var txGrowth float64
	if pastTxRate > 0 {
		txGrowth = 100 * (recentTxRate - pastTxRate) / pastTxRate
	}

	return model.Growth{
		Network:                  network,
		PeriodDays:               actualDays,
		DailyBlockCount:          dailyBlocks,
		DailyTxCount:             dailyTx,
		AvgDailyTPS:              avgDailyTPS,
		BlockTimeImprovementPct:  blockTimeImprovement,
		TransactionGrowthRatePct: txGrowth,
	}, nil
}

func safeBlockTime(newerTS, olderTS, newerBlock, olderBlock uint64) float64 {
	if newerBlock <= olderBlock || newerTS <= olderTS {
		return 0
	}
	return float64(newerTS-olderTS) / float64(newerBlock-olderBlock)
}

// locateBlockByTimestamp binary searches [0, head] for the highest block
// number whose timestamp is <= targetTS, bounded to maxIntermediateOps
// header reads.
func locateBlockByTimestamp(ctx context.Context, r Reader, head, headTS, targetTS uint64) (uint64, model.BlockSample, error) {
	if targetTS == 0 || targetTS >= headTS {
		sample, err := r.BlockByNumber(ctx, new(big.Int).SetUint64(head), false)
		return head, sample, err
	}

	lo, hi := uint64(0), head
	var best model.BlockSample
	bestNum := uint64(0)
	haveBest := false

	for i := 0; i < maxIntermediateOps && lo <= hi; i++ {
		mid := lo + (hi-lo)/2
		sample, err := r.BlockByNumber(ctx, new(big.Int).SetUint64(mid), false)
		if err != nil {
			return 0, model.BlockSample{}, err
		}
		if sample.Timestamp <= targetTS {
			best, bestNum, haveBest = sample, mid, true
			if mid == hi {
				break
			}
			lo = mid + 1
		} else {
			if mid == 0 {
				break
			}
			hi = mid - 1
		}
	}

	if !haveBest {
		sample, err := r.BlockByNumber(ctx, new(big.Int).SetUint64(0), false)
		return 0, sample, err
	}
	return bestNum, best, nil
}
