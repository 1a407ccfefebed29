package server

import (
	"context"
	"encoding/json"
	"math/big"
	"strings"
	"time"

	abipkg "github.com/ethereum/go-ethereum/accounts/abi"

	"chaingateway/internal/apperr"
	"chaingateway/internal/arbitrage"
	"chaingateway/internal/dispatch"
	"chaingateway/internal/gasengine"
	"chaingateway/internal/model"
	"chaingateway/internal/token"
)

// RegisterTools wires the closed 12-tool set (spec §4.8/§6.3) onto d.
func (s *Services) RegisterTools(d *dispatch.Dispatcher) {
	d.RegisterTool(dispatch.Schema{
		Name:        "get_iota_network_info",
		Description: "Registry entry, latest block number, and native token snapshot for a network.",
		Params:      []dispatch.Param{{Name: "network", Type: "string"}},
	}, s.handleNetworkInfo)

	d.RegisterTool(dispatch.Schema{
		Name:        "get_iota_balance",
		Description: "Native-token balance for an address, raw and formatted.",
		Params: []dispatch.Param{
			{Name: "address", Type: "string", Required: true},
			{Name: "network", Type: "string"},
		},
	}, s.handleBalance)

	d.RegisterTool(dispatch.Schema{
		Name:        "transfer_iota",
		Description: "Submit a native-token transfer. Delegated to the out-of-scope signer module.",
		Params: []dispatch.Param{
			{Name: "to", Type: "string", Required: true},
			{Name: "amount", Type: "string", Required: true},
			{Name: "network", Type: "string"},
		},
	}, s.handleTransferDelegated)

	d.RegisterTool(dispatch.Schema{
		Name:        "get_iota_staking_info",
		Description: "Synthetic staking pool inventory for a sibling network.",
		Params:      []dispatch.Param{{Name: "network", Type: "string"}},
	}, s.handleStakingInfo)

	d.RegisterTool(dispatch.Schema{
		Name:        "verify_iota_network_status",
		Description: "Head block, staleness, and finality classification for a network.",
		Params:      []dispatch.Param{{Name: "network", Type: "string"}},
	}, s.handleNetworkStatus)

	d.RegisterTool(dispatch.Schema{
		Name:        "get_iota_gas_prices",
		Description: "Tiered gas quote plus a textual recommendation.",
		Params:      []dispatch.Param{{Name: "network", Type: "string"}},
	}, s.handleGasPrices)

	d.RegisterTool(dispatch.Schema{
		Name:        "estimate_iota_transaction_cost",
		Description: "Price a gas limit at a chosen speed or explicit gas price.",
		Params: []dispatch.Param{
			{Name: "gasLimit", Type: "string", Required: true},
			{Name: "gasPrice", Type: "string"},
			{Name: "speed", Type: "string"},
			{Name: "network", Type: "string"},
		},
	}, s.handleEstimateCost)

	d.RegisterTool(dispatch.Schema{
		Name:        "deploy_iota_smart_contract",
		Description: "Deploy a contract. Delegated to the out-of-scope signer module.",
		Params: []dispatch.Param{
			{Name: "bytecode", Type: "string", Required: true},
			{Name: "network", Type: "string"},
		},
	}, s.handleDeployDelegated)

	d.RegisterTool(dispatch.Schema{
		Name:        "analyze_iota_smart_contract",
		Description: "Interface detection and bytecode security heuristics for a contract.",
		Params: []dispatch.Param{
			{Name: "contractAddress", Type: "string", Required: true},
			{Name: "abi", Type: "array", Required: true},
			{Name: "network", Type: "string"},
		},
	}, s.handleAnalyzeContract)

	d.RegisterTool(dispatch.Schema{
		Name:        "get_cross_chain_token_price",
		Description: "Quote a token against the pool registry on one network.",
		Params: []dispatch.Param{
			{Name: "token", Type: "string", Required: true},
			{Name: "network", Type: "string", Required: true},
		},
	}, s.handleTokenPrice)

	d.RegisterTool(dispatch.Schema{
		Name:        "find_arbitrage_opportunities",
		Description: "Enumerate profitable directed routes for a token across networks.",
		Params: []dispatch.Param{
			{Name: "token", Type: "string", Required: true},
			{Name: "networks", Type: "array"},
			{Name: "minProfitPercent", Type: "number"},
		},
	}, s.handleFindArbitrage)

	d.RegisterTool(dispatch.Schema{
		Name:        "list_arbitrage_tokens",
		Description: "Pool-registry summary: symbols, their quotable networks, and bridging between each pair.",
	}, s.handleListArbitrageTokens)
}

func (s *Services) handleNetworkInfo(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	network := argString(args, "network", "")
	client, desc, err := s.clientFor(ctx, network)
	if err != nil {
		return nil, err
	}
	head, err := client.BlockNumber(ctx)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"network":     desc,
		"latestBlock": head,
		"nativeToken": desc.NativeToken,
	}, nil
}

func (s *Services) handleBalance(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	address, err := requireString(args, "address")
	if err != nil {
		return nil, err
	}
	network := argString(args, "network", "")
	client, desc, err := s.clientFor(ctx, network)
	if err != nil {
		return nil, err
	}
	balance, err := client.GetBalance(ctx, address)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"address":   address,
		"network":   desc.ShortName,
		"raw":       balance.String(),
		"formatted": formatTokenAmount(balance, desc.NativeToken.Decimals),
		"symbol":    desc.NativeToken.Symbol,
	}, nil
}

func (s *Services) handleTransferDelegated(context.Context, map[string]interface{}) (interface{}, error) {
	return nil, apperr.Unsupported("transfer_iota", "transaction signing is delegated to the out-of-scope signer module")
}

func (s *Services) handleDeployDelegated(context.Context, map[string]interface{}) (interface{}, error) {
	return nil, apperr.Unsupported("deploy_iota_smart_contract", "contract deployment is delegated to the out-of-scope signer module")
}

func (s *Services) handleStakingInfo(_ context.Context, args map[string]interface{}) (interface{}, error) {
	network := argString(args, "network", "")
	desc, err := s.resolveNetwork(network)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"network": desc.ShortName,
		"pools":   s.Defi.StakingInfo(desc.ShortName),
	}, nil
}

const (
	finalityHighMaxSecs   = 15
	finalityMediumMaxSecs = 60
)

func (s *Services) handleNetworkStatus(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	network := argString(args, "network", "")
	client, desc, err := s.clientFor(ctx, network)
	if err != nil {
		return nil, err
	}
	block, err := client.LatestBlock(ctx, false)
	if err != nil {
		return nil, err
	}
	now := time.Now().Unix()
	var blockDelay int64
	if now > int64(block.Timestamp) {
		blockDelay = now - int64(block.Timestamp)
	}

	return map[string]interface{}{
		"status":         "ok",
		"network":        desc.ShortName,
		"latestBlock":    block.Number,
		"blockTimestamp": block.Timestamp,
		"blockDelay":     blockDelay,
		"finality":       classifyFinality(blockDelay),
	}, nil
}

func classifyFinality(blockDelaySecs int64) string {
	switch {
	case blockDelaySecs < finalityHighMaxSecs:
		return "high"
	case blockDelaySecs < finalityMediumMaxSecs:
		return "medium"
	default:
		return "low"
	}
}

func (s *Services) handleGasPrices(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	network := argString(args, "network", "")
	client, desc, err := s.clientFor(ctx, network)
	if err != nil {
		return nil, err
	}
	quote, err := gasengine.Quote(ctx, desc.ShortName, client)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"quote":          quote,
		"recommendation": gasRecommendation(quote.Congestion),
	}, nil
}

func gasRecommendation(congestion model.Congestion) string {
	switch congestion {
	case model.CongestionHigh:
		return "network is congested; use fast or instant to avoid a long wait"
	case model.CongestionMedium:
		return "moderate load; standard should confirm in a reasonable time"
	default:
		return "network is quiet; slow is usually sufficient"
	}
}

var speedMultiplier = map[string]func(model.GasQuote) *big.Int{
	"slow":     func(q model.GasQuote) *big.Int { return q.Slow },
	"standard": func(q model.GasQuote) *big.Int { return q.Standard },
	"fast":     func(q model.GasQuote) *big.Int { return q.Fast },
	"instant":  func(q model.GasQuote) *big.Int { return q.Instant },
}

func (s *Services) handleEstimateCost(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	gasLimitStr, err := requireString(args, "gasLimit")
	if err != nil {
		return nil, err
	}
	gasLimit, ok := new(big.Int).SetString(gasLimitStr, 10)
	if !ok {
		return nil, apperr.Validation("estimate cost", "gasLimit must be a base-10 integer string")
	}

	network := argString(args, "network", "")
	client, desc, err := s.clientFor(ctx, network)
	if err != nil {
		return nil, err
	}

	var gasPrice *big.Int
	if raw := argString(args, "gasPrice", ""); raw != "" {
		gasPrice, ok = new(big.Int).SetString(raw, 10)
		if !ok {
			return nil, apperr.Validation("estimate cost", "gasPrice must be a base-10 integer string")
		}
	} else {
		quote, err := gasengine.Quote(ctx, desc.ShortName, client)
		if err != nil {
			return nil, err
		}
		speed := argString(args, "speed", "standard")
		pick, ok := speedMultiplier[speed]
		if !ok {
			return nil, apperr.Validation("estimate cost", "speed must be one of slow, standard, fast, instant")
		}
		gasPrice = pick(quote)
	}

	estimate := gasengine.EstimateCost(gasLimit.Uint64(), gasPrice, desc.NativeToken.Symbol, desc.NativeToken.Decimals)
	return estimate, nil
}

func (s *Services) handleAnalyzeContract(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	address, err := requireString(args, "contractAddress")
	if err != nil {
		return nil, err
	}
	abiEntries := argMapSlice(args, "abi")
	if len(abiEntries) == 0 {
		return nil, apperr.Validation("analyze contract", "abi must be a non-empty array")
	}

	network := argString(args, "network", "")
	client, _, err := s.clientFor(ctx, network)
	if err != nil {
		return nil, err
	}

	code, err := client.GetBytecode(ctx, address)
	if err != nil {
		return nil, err
	}
	if len(code) == 0 {
		return model.ContractAnalysis{IsContract: false}, nil
	}

	raw, err := json.Marshal(abiEntries)
	if err != nil {
		return nil, apperr.Validation("analyze contract", "abi entries must be JSON-encodable")
	}
	parsed, err := abipkg.JSON(strings.NewReader(string(raw)))
	if err != nil {
		return nil, apperr.Validation("analyze contract", "abi could not be parsed: %s", err.Error())
	}

	analysis := token.DetectInterfaces(parsed)
	analysis.Security = tokenScanSecurity(code)
	return analysis, nil
}

func tokenScanSecurity(code []byte) model.SecurityFlags {
	return token.ScanSecurityFlags(code)
}

func (s *Services) handleTokenPrice(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	symbol, err := requireString(args, "token")
	if err != nil {
		return nil, err
	}
	network, err := requireString(args, "network")
	if err != nil {
		return nil, err
	}
	return arbitrage.Quote(ctx, symbol, network, s.Pools, s.arbitrageSource)
}

const defaultMinProfitPercent = 1.0

func (s *Services) handleFindArbitrage(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	symbol, err := requireString(args, "token")
	if err != nil {
		return nil, err
	}
	networks := argStringSlice(args, "networks")
	if len(networks) == 0 {
		networks = s.Pools.NetworksFor(symbol)
	}
	minProfit := argFloat(args, "minProfitPercent", defaultMinProfitPercent)

	pairs, err := arbitrage.FindOpportunities(ctx, symbol, networks, minProfit, s.Registry.IsSibling, s.Pools, s.arbitrageSource)
	if err != nil {
		return nil, err
	}

	preview := pairs
	if len(preview) > 3 {
		preview = preview[:3]
	}
	return map[string]interface{}{
		"opportunities": pairs,
		"preview":       preview,
	}, nil
}

func (s *Services) handleListArbitrageTokens(context.Context, map[string]interface{}) (interface{}, error) {
	symbols := s.Pools.Symbols()
	type entry struct {
		Symbol           string   `json:"symbol"`
		Networks         []string `json:"networks"`
		BridgingRequired bool     `json:"bridgingRequiredAmongNetworks"`
	}
	out := make([]entry, 0, len(symbols))
	for _, symbol := range symbols {
		networks := s.Pools.NetworksFor(symbol)
		bridging := false
		for i := range networks {
			for j := range networks {
				if i == j {
					continue
				}
				if !s.Registry.IsSibling(networks[i]) || !s.Registry.IsSibling(networks[j]) {
					bridging = true
				}
			}
		}
		out = append(out, entry{Symbol: symbol, Networks: networks, BridgingRequired: bridging})
	}
	return map[string]interface{}{"tokens": out}, nil
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

