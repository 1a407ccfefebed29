package model

// NetworkMetrics is the aggregate health/throughput snapshot for a network
// derived from a bounded block sample.
type NetworkMetrics struct {
	Network        string      `json:"network"`
	BlockHeight    uint64      `json:"blockHeight"`
	SampleSize     int         `json:"sampleSize"`
	AvgBlockTimeS  float64     `json:"avgBlockTime_s"`
	AvgTxPerBlock  float64     `json:"avgTxPerBlock"`
	RecentTPS      float64     `json:"recentTPS"`
	AvgGasUsed     float64     `json:"avgGasUsed"`
	UtilizationPct float64     `json:"utilization_pct"`
	GasPriceWei    string      `json:"gasPrice_wei"`
	Healthy        bool        `json:"healthy"`
	TokenInfo      NativeToken `json:"tokenInfo"`
}

// RankedNetwork is one row of a comparison ranking.
type RankedNetwork struct {
	Network string  `json:"network"`
	Value   float64 `json:"value"`
	Errored bool    `json:"errored"`
}

// Comparison bundles the four rankings produced by Compare.
type Comparison struct {
	Primary          string          `json:"primary"`
	ByTPSDesc        []RankedNetwork `json:"byTpsDesc"`
	ByBlockTimeAsc   []RankedNetwork `json:"byBlockTimeAsc"`
	ByGasPriceAsc    []RankedNetwork `json:"byGasPriceAsc"`
	ByUtilizationDesc []RankedNetwork `json:"byUtilizationDesc"`
}

// Growth is the delta-based estimate between now and ~periodDays ago.
type Growth struct {
	Network                  string  `json:"network"`
	PeriodDays               float64 `json:"periodDays"`
	DailyBlockCount          float64 `json:"dailyBlockCount"`
	DailyTxCount             float64 `json:"dailyTxCount"`
	AvgDailyTPS              float64 `json:"avgDailyTps"`
	BlockTimeImprovementPct  float64 `json:"blockTimeImprovementPct"`
	TransactionGrowthRatePct float64 `json:"transactionGrowthRatePct"`
}

// AddressMetrics is a scanner-lower-bound aggregate over a bounded
// block-window scan; never an authoritative lifetime figure.
type AddressMetrics struct {
	Address        string   `json:"address"`
	TxCount        int      `json:"txCount"`
	Sent           int      `json:"sent"`
	Received       int      `json:"received"`
	TotalSent      string   `json:"totalSent"`
	TotalReceived  string   `json:"totalReceived"`
	FirstSeen      *uint64  `json:"firstSeen"`
	LastSeen       *uint64  `json:"lastSeen"`
	AccountAgeSecs *uint64  `json:"accountAge"`
	SampleFromBlk  uint64   `json:"sampleFromBlock"`
	SampleToBlk    uint64   `json:"sampleToBlock"`
	ScanCap        int      `json:"scanCap"`
}
