package model

import "math/big"

// TxRef is either a bare hash (when a block was fetched without full
// transactions) or an inlined TxRecord.
type TxRef struct {
	Hash string
	Full *TxRecord
}

// BlockSample is the ephemeral per-block record analytics and the
// historian build their windows from.
type BlockSample struct {
	Number        uint64
	Timestamp     uint64
	GasUsed       uint64
	GasLimit      uint64
	BaseFeePerGas *big.Int
	TxCount       int
	Txs           []TxRef
}

// TxRecord is the ephemeral per-transaction record.
type TxRecord struct {
	Hash             string
	From             string
	To               string // empty => contract deployment
	Value            *big.Int
	Gas              uint64
	GasPrice         *big.Int // legacy gas price, or effective price for EIP-1559
	Input            []byte
	Nonce            uint64
	BlockNumber      uint64
	BlockTimestamp   uint64
	Status           *uint64 // nil when the receipt hasn't been fetched
}

// Selector returns the first four bytes of Input, or nil if Input is
// shorter than that.
func (t TxRecord) Selector() []byte {
	if len(t.Input) < 4 {
		return nil
	}
	return t.Input[:4]
}

// ReceiptStatus enumerates on-chain execution outcomes.
type ReceiptStatus string

const (
	ReceiptSuccess  ReceiptStatus = "success"
	ReceiptReverted ReceiptStatus = "reverted"
)

// Receipt is the ephemeral per-transaction receipt record.
type Receipt struct {
	GasUsed         uint64
	BlockNumber     uint64
	Status          ReceiptStatus
	Logs            int
	ContractAddress string // empty unless this receipt created a contract
}
