package registry

import "chaingateway/internal/model"

// defaultNetworks is the closed startup table: the three sibling networks
// (spec §3 "closed set declared at registry build time") plus the broader
// EVM set exercised by analytics and arbitrage.
func defaultNetworks() []model.NetworkDescriptor {
	return []model.NetworkDescriptor{
		{
			ShortName:       "iota",
			ChainID:         8822,
			DisplayName:     "IOTA EVM",
			NativeToken:     model.NativeToken{Name: "IOTA", Symbol: "IOTA", Decimals: 6},
			DefaultRPCURL:   "https://json-rpc.evm.iotaledger.net",
			ExplorerURL:     "https://explorer.evm.iota.org",
			IsSiblingFamily: true,
			SiblingVariant:  model.SiblingMainnet,
		},
		{
			ShortName:       "shimmer",
			ChainID:         148,
			DisplayName:     "ShimmerEVM",
			NativeToken:     model.NativeToken{Name: "Shimmer", Symbol: "SMR", Decimals: 6},
			DefaultRPCURL:   "https://json-rpc.evm.shimmer.network",
			ExplorerURL:     "https://explorer.evm.shimmer.network",
			IsSiblingFamily: true,
			SiblingVariant:  model.SiblingAltMainnet,
		},
		{
			ShortName:       "iota-testnet",
			ChainID:         1075,
			DisplayName:     "IOTA EVM Testnet",
			NativeToken:     model.NativeToken{Name: "IOTA", Symbol: "IOTA", Decimals: 6},
			DefaultRPCURL:   "https://json-rpc.evm.testnet.iotaledger.net",
			ExplorerURL:     "https://explorer.evm.testnet.iota.org",
			IsSiblingFamily: true,
			SiblingVariant:  model.SiblingTestnet,
		},
		{
			ShortName:     "ethereum",
			ChainID:       1,
			DisplayName:   "Ethereum",
			NativeToken:   model.NativeToken{Name: "Ether", Symbol: "ETH", Decimals: 18},
			DefaultRPCURL: "https://eth.llamarpc.com",
			ExplorerURL:   "https://etherscan.io",
			SiblingVariant: model.SiblingNone,
		},
		{
			ShortName:     "bsc",
			ChainID:       56,
			DisplayName:   "BNB Smart Chain",
			NativeToken:   model.NativeToken{Name: "BNB", Symbol: "BNB", Decimals: 18},
			DefaultRPCURL: "https://bsc-dataseed.binance.org",
			ExplorerURL:   "https://bscscan.com",
			SiblingVariant: model.SiblingNone,
		},
		{
			ShortName:     "polygon",
			ChainID:       137,
			DisplayName:   "Polygon",
			NativeToken:   model.NativeToken{Name: "POL", Symbol: "POL", Decimals: 18},
			DefaultRPCURL: "https://polygon-rpc.com",
			ExplorerURL:   "https://polygonscan.com",
			SiblingVariant: model.SiblingNone,
		},
		{
			ShortName:     "arbitrum",
			ChainID:       42161,
			DisplayName:   "Arbitrum One",
			NativeToken:   model.NativeToken{Name: "Ether", Symbol: "ETH", Decimals: 18},
			DefaultRPCURL: "https://arb1.arbitrum.io/rpc",
			ExplorerURL:   "https://arbiscan.io",
			SiblingVariant: model.SiblingNone,
		},
		{
			ShortName:     "optimism",
			ChainID:       10,
			DisplayName:   "OP Mainnet",
			NativeToken:   model.NativeToken{Name: "Ether", Symbol: "ETH", Decimals: 18},
			DefaultRPCURL: "https://mainnet.optimism.io",
			ExplorerURL:   "https://optimistic.etherscan.io",
			SiblingVariant: model.SiblingNone,
		},
		{
			ShortName:     "base",
			ChainID:       8453,
			DisplayName:   "Base",
			NativeToken:   model.NativeToken{Name: "Ether", Symbol: "ETH", Decimals: 18},
			DefaultRPCURL: "https://mainnet.base.org",
			ExplorerURL:   "https://basescan.org",
			SiblingVariant: model.SiblingNone,
		},
		{
			ShortName:     "avalanche",
			ChainID:       43114,
			DisplayName:   "Avalanche C-Chain",
			NativeToken:   model.NativeToken{Name: "Avax", Symbol: "AVAX", Decimals: 18},
			DefaultRPCURL: "https://api.avax.network/ext/bc/C/rpc",
			ExplorerURL:   "https://snowtrace.io",
			SiblingVariant: model.SiblingNone,
		},
	}
}
