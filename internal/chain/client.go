// Package chain adapts go-ethereum's RPC client into the read surface the
// rest of the gateway depends on (C2, spec §4.2). A single write
// operation (signing/submission) is intentionally absent — that lives in
// an out-of-scope signer module.
package chain

import (
	"context"
	"math/big"

	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"

	"chaingateway/internal/apperr"
	"chaingateway/internal/model"
)

// Client wraps a single network's go-ethereum RPC connection.
type Client struct {
	network   string
	rpcClient *rpc.Client
	ethClient *ethclient.Client
}

// New dials rpcURL for the given network short name. opts carries the
// startup-time TLS material threaded in from config (never a
// process-wide singleton, per spec §9).
func New(ctx context.Context, network, rpcURL string, opts Options) (*Client, error) {
	dialOpts, err := opts.rpcOptions()
	if err != nil {
		return nil, err
	}

	rpcClient, err := rpc.DialOptions(ctx, rpcURL, dialOpts...)
	if err != nil {
		return nil, err
	}

	return &Client{
		network:   network,
		rpcClient: rpcClient,
		ethClient: ethclient.NewClient(rpcClient),
	}, nil
}

// Close releases the underlying connection.
func (c *Client) Close() {
	if c.rpcClient != nil {
		c.rpcClient.Close()
	}
}

// BlockNumber returns the chain's current head height.
func (c *Client) BlockNumber(ctx context.Context) (uint64, error) {
	n, err := c.ethClient.BlockNumber(ctx)
	if err != nil {
		return 0, apperr.Upstream("eth_blockNumber", err)
	}
	return n, nil
}

// LatestBlock returns the newest block, optionally with inlined transactions.
func (c *Client) LatestBlock(ctx context.Context, fullTxs bool) (model.BlockSample, error) {
	return c.BlockByNumber(ctx, nil, fullTxs)
}

// BlockByNumber returns the block at number (nil means "latest").
func (c *Client) BlockByNumber(ctx context.Context, number *big.Int, fullTxs bool) (model.BlockSample, error) {
	if fullTxs {
		block, err := c.ethClient.BlockByNumber(ctx, number)
		if err != nil {
			return model.BlockSample{}, apperr.Upstream("eth_getBlockByNumber", err)
		}
		return blockToSample(block), nil
	}

	header, err := c.ethClient.HeaderByNumber(ctx, number)
	if err != nil {
		return model.BlockSample{}, apperr.Upstream("eth_getBlockByNumber", err)
	}
	return c.headerToSample(ctx, header)
}

// GetTx returns the transaction identified by hash.
func (c *Client) GetTx(ctx context.Context, hash string) (model.TxRecord, error) {
	if len(hash) != 66 {
		return model.TxRecord{}, apperr.Validation("get transaction", "malformed transaction hash: %s", hash)
	}
	tx, isPending, err := c.ethClient.TransactionByHash(ctx, common.HexToHash(hash))
	if err != nil {
		if err == ethereum.NotFound {
			return model.TxRecord{}, apperr.NotFound("get transaction", "transaction not found: %s", hash)
		}
		return model.TxRecord{}, apperr.Upstream("eth_getTransactionByHash", err)
	}

	record := txToRecord(tx)
	if !isPending {
		if receipt, err := c.ethClient.TransactionReceipt(ctx, tx.Hash()); err == nil {
			record.BlockNumber = receipt.BlockNumber.Uint64()
			status := receipt.Status
			record.Status = &status
		}
	}
	return record, nil
}

// GetReceipt returns the receipt for a mined transaction.
func (c *Client) GetReceipt(ctx context.Context, hash string) (model.Receipt, error) {
	receipt, err := c.ethClient.TransactionReceipt(ctx, common.HexToHash(hash))
	if err != nil {
		if err == ethereum.NotFound {
			return model.Receipt{}, apperr.NotFound("get receipt", "receipt not found: %s", hash)
		}
		return model.Receipt{}, apperr.Upstream("eth_getTransactionReceipt", err)
	}

	status := model.ReceiptReverted
	if receipt.Status == types.ReceiptStatusSuccessful {
		status = model.ReceiptSuccess
	}

	var contractAddr string
	if receipt.ContractAddress != (common.Address{}) {
		contractAddr = receipt.ContractAddress.Hex()
	}

	return model.Receipt{
		GasUsed:         receipt.GasUsed,
		BlockNumber:     receipt.BlockNumber.Uint64(),
		Status:          status,
		Logs:            len(receipt.Logs),
		ContractAddress: contractAddr,
	}, nil
}

// GetBalance returns the native balance of addr.
func (c *Client) GetBalance(ctx context.Context, addr string) (*big.Int, error) {
	if !common.IsHexAddress(addr) {
		return nil, apperr.Validation("get balance", "malformed address: %s", addr)
	}
	balance, err := c.ethClient.BalanceAt(ctx, common.HexToAddress(addr), nil)
	if err != nil {
		return nil, apperr.Upstream("eth_getBalance", err)
	}
	return balance, nil
}

// GetBytecode returns the deployed bytecode at addr (empty for EOAs).
func (c *Client) GetBytecode(ctx context.Context, addr string) ([]byte, error) {
	if !common.IsHexAddress(addr) {
		return nil, apperr.Validation("get bytecode", "malformed address: %s", addr)
	}
	code, err := c.ethClient.CodeAt(ctx, common.HexToAddress(addr), nil)
	if err != nil {
		return nil, apperr.Upstream("eth_getCode", err)
	}
	return code, nil
}

// GetGasPrice returns the network's current suggested gas price.
func (c *Client) GetGasPrice(ctx context.Context) (*big.Int, error) {
	price, err := c.ethClient.SuggestGasPrice(ctx)
	if err != nil {
		return nil, apperr.Upstream("eth_gasPrice", err)
	}
	return price, nil
}

// EstimateGas estimates gas for a call.
func (c *Client) EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error) {
	gas, err := c.ethClient.EstimateGas(ctx, msg)
	if err != nil {
		return 0, apperr.Upstream("eth_estimateGas", err)
	}
	return gas, nil
}

// Call performs a read-only eth_call against to with data.
func (c *Client) Call(ctx context.Context, to string, data []byte) ([]byte, error) {
	if !common.IsHexAddress(to) {
		return nil, apperr.Validation("call", "malformed address: %s", to)
	}
	addr := common.HexToAddress(to)
	resp, err := c.ethClient.CallContract(ctx, ethereum.CallMsg{To: &addr, Data: data}, nil)
	if err != nil {
		return nil, apperr.Upstream("eth_call", err)
	}
	return resp, nil
}

func (c *Client) headerToSample(ctx context.Context, header *types.Header) (model.BlockSample, error) {
	block, err := c.ethClient.BlockByHash(ctx, header.Hash())
	if err != nil {
		return model.BlockSample{}, apperr.Upstream("eth_getBlockByHash", err)
	}
	return blockToSample(block), nil
}

func blockToSample(block *types.Block) model.BlockSample {
	txs := make([]model.TxRef, 0, len(block.Transactions()))
	for _, tx := range block.Transactions() {
		record := txToRecord(tx)
		record.BlockNumber = block.NumberU64()
		record.BlockTimestamp = block.Time()
		txs = append(txs, model.TxRef{Hash: tx.Hash().Hex(), Full: &record})
	}

	return model.BlockSample{
		Number:        block.NumberU64(),
		Timestamp:     block.Time(),
		GasUsed:       block.GasUsed(),
		GasLimit:      block.GasLimit(),
		BaseFeePerGas: block.BaseFee(),
		TxCount:       len(txs),
		Txs:           txs,
	}
}

func txToRecord(tx *types.Transaction) model.TxRecord {
	var to string
	if tx.To() != nil {
		to = tx.To().Hex()
	}

	var from common.Address
	if signer := types.LatestSignerForChainID(tx.ChainId()); signer != nil {
		if sender, err := types.Sender(signer, tx); err == nil {
			from = sender
		}
	}

	gasPrice := tx.GasPrice()
	if gasPrice == nil {
		gasPrice = tx.GasFeeCap()
	}

	return model.TxRecord{
		Hash:     tx.Hash().Hex(),
		From:     from.Hex(),
		To:       to,
		Value:    tx.Value(),
		Gas:      tx.Gas(),
		GasPrice: gasPrice,
		Input:    tx.Data(),
		Nonce:    tx.Nonce(),
	}
}
