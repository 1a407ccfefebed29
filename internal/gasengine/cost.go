package gasengine

import (
	"math/big"

	"chaingateway/internal/model"
)

// EstimateCost prices gasLimit at gasPrice against nativeSymbol/decimals.
// USD pricing is intentionally left nil — there is no price oracle in
// scope (spec §5 non-goals).
func EstimateCost(gasLimit uint64, gasPrice *big.Int, nativeSymbol string, decimals uint8) model.CostEstimate {
	if gasPrice == nil {
		gasPrice = big.NewInt(0)
	}
	total := new(big.Int).Mul(new(big.Int).SetUint64(gasLimit), gasPrice)

	return model.CostEstimate{
		GasLimit:       gasLimit,
		GasPrice:       gasPrice,
		TotalWei:       total,
		TotalFormatted: formatTokenAmount(total, decimals),
		NativeSymbol:   nativeSymbol,
		USDEquivalent:  nil,
	}
}

// formatTokenAmount renders a wei-scale integer at decimals precision,
// mirroring the decimal formatting helper used elsewhere in this codebase.
func formatTokenAmount(value *big.Int, decimals uint8) string {
	if value == nil {
		return "0"
	}
	if decimals == 0 {
		return value.String()
	}
	sign := value.Sign()
	abs := new(big.Int).Abs(value)
	denom := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	rat := new(big.Rat).SetFrac(abs, denom)
	text := rat.FloatString(int(decimals))
	if sign < 0 {
		return "-" + text
	}
	return text
}
