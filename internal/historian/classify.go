// Package historian implements the transaction history component (C6):
// a bounded backward block scan, transaction classification by selector,
// and lower-bound address activity metrics derived from that scan.
package historian

import (
	"encoding/hex"

	"chaingateway/internal/model"
)

// TxClass is the closed set of transaction shapes ClassifyTx recognizes.
type TxClass string

const (
	ClassNativeTransfer     TxClass = "native_transfer"
	ClassERC20Transfer      TxClass = "erc20_transfer"
	ClassERC20Approval      TxClass = "erc20_approval"
	ClassERC721Transfer     TxClass = "erc721_transfer"
	ClassERC1155Transfer    TxClass = "erc1155_transfer"
	ClassContractDeployment TxClass = "contract_deployment"
	ClassContractInteraction TxClass = "contract_interaction"
)

// selectorClass maps a known 4-byte selector (hex, no 0x) to its class.
// ERC20's and ERC721's transferFrom(address,address,uint256) share one
// selector (23b872dd), so the selector alone cannot tell them apart; this
// table assigns it to ERC721.
var selectorClass = map[string]TxClass{
	"a9059cbb": ClassERC20Transfer,      // transfer(address,uint256)
	"095ea7b3": ClassERC20Approval,      // approve(address,uint256)
	"23b872dd": ClassERC721Transfer,     // transferFrom(address,address,uint256)
	"42842e0e": ClassERC721Transfer,     // safeTransferFrom(address,address,uint256)
	"b88d4fde": ClassERC721Transfer,     // safeTransferFrom(address,address,uint256,bytes)
	"f242432a": ClassERC1155Transfer,    // safeTransferFrom(address,address,uint256,uint256,bytes)
	"2eb2c2d6": ClassERC1155Transfer,    // safeBatchTransferFrom
}

// ClassifyTx buckets a transaction by its selector and shape.
func ClassifyTx(tx model.TxRecord) TxClass {
	if tx.To == "" {
		return ClassContractDeployment
	}
	selector := tx.Selector()
	if len(selector) == 0 {
		return ClassNativeTransfer
	}
	if class, ok := selectorClass[hex.EncodeToString(selector)]; ok {
		return class
	}
	return ClassContractInteraction
}
