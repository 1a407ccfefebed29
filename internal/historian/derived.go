package historian

import "chaingateway/internal/model"

// AgeBucket classifies a wallet's account age into coarse buckets used by
// the contract/address analysis tools.
type AgeBucket string

const (
	AgeNew       AgeBucket = "new"        // < 1 day
	AgeRecent    AgeBucket = "recent"     // 1-30 days
	AgeEstablished AgeBucket = "established" // 30-365 days
	AgeVeteran   AgeBucket = "veteran"    // > 365 days
)

const (
	secondsPerDayF  = 86400
	newAgeMaxDays   = 1
	recentAgeMaxDays = 30
	establishedAgeMaxDays = 365
)

// Age buckets an account-age duration measured in seconds. A nil age
// (no observed activity in the scan window) reports AgeNew conservatively
// rather than guessing.
func Age(accountAgeSecs *uint64) AgeBucket {
	if accountAgeSecs == nil {
		return AgeNew
	}
	days := float64(*accountAgeSecs) / secondsPerDayF
	switch {
	case days < newAgeMaxDays:
		return AgeNew
	case days < recentAgeMaxDays:
		return AgeRecent
	case days < establishedAgeMaxDays:
		return AgeEstablished
	default:
		return AgeVeteran
	}
}

// Confirmations is head minus the transaction's mined block, floored at
// zero for a transaction observed at or above the current head (e.g. a
// stale cached head read racing a fresh block).
func Confirmations(head uint64, txBlockNumber uint64) uint64 {
	if txBlockNumber >= head {
		return 0
	}
	return head - txBlockNumber
}

// GasEfficiency is the fraction of the gas limit actually consumed; a low
// ratio on a reverted call usually means it failed before doing real work.
func GasEfficiency(receipt model.Receipt, gasLimit uint64) float64 {
	if gasLimit == 0 {
		return 0
	}
	return float64(receipt.GasUsed) / float64(gasLimit)
}

const (
	gasEfficiencyGoodMax = 0.60
	gasEfficiencyFairMax = 0.80
	gasEfficiencyPoorMax = 0.95
)

// GasEfficiencyLabel buckets a GasEfficiency ratio into the textual scale
// callers surface: under-utilized gas limits read as headroom, not waste.
func GasEfficiencyLabel(ratio float64) string {
	switch {
	case ratio < gasEfficiencyGoodMax:
		return "Excellent"
	case ratio < gasEfficiencyFairMax:
		return "Good"
	case ratio < gasEfficiencyPoorMax:
		return "Fair"
	default:
		return "Poor"
	}
}
