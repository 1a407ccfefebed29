package token

import (
	"encoding/hex"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/crypto"

	"chaingateway/internal/model"
)

// standardSelectors is the closed set of required-selector lists per
// spec §4.3: a contract "implements" a standard iff its declared ABI
// contains every selector in that standard's set.
var standardSelectors = map[model.StandardID][]string{
	model.StandardERC20: {
		"totalSupply()", "balanceOf(address)", "transfer(address,uint256)",
		"transferFrom(address,address,uint256)", "approve(address,uint256)",
		"allowance(address,address)",
	},
	model.StandardERC721: {
		"balanceOf(address)", "ownerOf(uint256)", "transferFrom(address,address,uint256)",
		"approve(address,uint256)", "setApprovalForAll(address,bool)",
		"getApproved(uint256)", "isApprovedForAll(address,address)",
	},
	model.StandardERC1155: {
		"balanceOf(address,uint256)", "balanceOfBatch(address[],uint256[])",
		"setApprovalForAll(address,bool)", "isApprovedForAll(address,address)",
		"safeTransferFrom(address,address,uint256,uint256,bytes)",
		"safeBatchTransferFrom(address,address,uint256[],uint256[],bytes)",
	},
	model.StandardERC4626: {
		"asset()", "totalAssets()", "convertToShares(uint256)", "convertToAssets(uint256)",
		"deposit(uint256,address)", "mint(uint256,address)",
		"withdraw(uint256,address,address)", "redeem(uint256,address,address)",
	},
	model.StandardEIP2612: {
		"permit(address,address,uint256,uint256,uint8,bytes32,bytes32)",
		"nonces(address)", "DOMAIN_SEPARATOR()",
	},
	model.StandardOwnable: {
		"owner()", "transferOwnership(address)", "renounceOwnership()",
	},
	model.StandardPausable: {
		"paused()", "pause()", "unpause()",
	},
}

var (
	standardOnce sync.Once
	requiredIDs  map[model.StandardID]map[string]struct{}
)

// requiredSelectorIDs lazily derives each standard's 4-byte selector set
// from its canonical signatures, memoized the same way a parsed contract ABI is cached elsewhere in this codebase.
func requiredSelectorIDs() map[model.StandardID]map[string]struct{} {
	standardOnce.Do(func() {
		requiredIDs = make(map[model.StandardID]map[string]struct{}, len(standardSelectors))
		for std, sigs := range standardSelectors {
			set := make(map[string]struct{}, len(sigs))
			for _, sig := range sigs {
				set[selectorHex(sig)] = struct{}{}
			}
			requiredIDs[std] = set
		}
	})
	return requiredIDs
}

// selectorHex returns the lowercase hex 4-byte selector for a canonical
// function signature, e.g. "transfer(address,uint256)" -> "a9059cbb".
func selectorHex(signature string) string {
	hash := crypto.Keccak256([]byte(signature))
	return hex.EncodeToString(hash[:4])
}

// DetectInterfaces classifies contractABI against the closed standard set
// and reports the declared functions/events alongside it (spec §4.3).
func DetectInterfaces(contractABI abi.ABI) model.ContractAnalysis {
	declaredSelectors := make(map[string]struct{}, len(contractABI.Methods))
	functions := make([]string, 0, len(contractABI.Methods))
	for name, method := range contractABI.Methods {
		declaredSelectors[hex.EncodeToString(method.ID)] = struct{}{}
		functions = append(functions, name)
	}

	events := make([]string, 0, len(contractABI.Events))
	for name := range contractABI.Events {
		events = append(events, name)
	}

	var implements []model.StandardID
	for std, required := range requiredSelectorIDs() {
		if selectorSetContains(declaredSelectors, required) {
			implements = append(implements, std)
		}
	}

	return model.ContractAnalysis{
		IsContract: true,
		Implements: implements,
		Functions:  functions,
		Events:     events,
	}
}

func selectorSetContains(have map[string]struct{}, want map[string]struct{}) bool {
	for sel := range want {
		if _, ok := have[sel]; !ok {
			return false
		}
	}
	return true
}
