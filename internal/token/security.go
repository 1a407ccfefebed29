package token

import (
	"bytes"

	"github.com/ethereum/go-ethereum/core/vm"

	"chaingateway/internal/model"
)

// rawSendGasStipend is the fixed gas stipend Solidity's `.transfer`/`.send`
// forward; a PUSH of this value shortly before a CALL sets RawSendTransfer
// (see rawSendPattern).
const rawSendGasStipend = 2300

// ScanSecurityFlags walks raw contract bytecode for opcode patterns that
// flag common risk surfaces (spec §4.3). This is a heuristic scan, not a
// decompiler: it looks for opcode bytes, not verified control flow.
func ScanSecurityFlags(bytecode []byte) model.SecurityFlags {
	var flags model.SecurityFlags

	for i := 0; i < len(bytecode); i++ {
		op := vm.OpCode(bytecode[i])
		switch op {
		case vm.DELEGATECALL:
			flags.Delegatecall = true
		case vm.SELFDESTRUCT:
			flags.SelfDestruct = true
		case vm.CALL, vm.STATICCALL, vm.CALLCODE:
			flags.ExternalCalls = true
		case vm.PUSH1, vm.PUSH2:
			if rawSendPattern(bytecode, i) {
				flags.RawSendTransfer = true
			}
		}

		if op.IsPush() {
			i += pushSize(op)
		}
	}

	return flags
}

// rawSendPattern looks for a PUSH of the 2300 stipend immediately
// preceding a CALL within a short opcode window, the bytecode signature
// left by Solidity's `.transfer`/`.send` before gas became configurable.
func rawSendPattern(bytecode []byte, pos int) bool {
	op := vm.OpCode(bytecode[pos])
	size := pushSize(op)
	if pos+1+size > len(bytecode) {
		return false
	}
	pushed := bytecode[pos+1 : pos+1+size]
	if !bytes.Equal(bytes.TrimLeft(pushed, "\x00"), bigEndian16(rawSendGasStipend)) {
		return false
	}
	window := bytecode[pos+1+size:]
	if len(window) > 8 {
		window = window[:8]
	}
	for _, b := range window {
		if vm.OpCode(b) == vm.CALL {
			return true
		}
	}
	return false
}

func pushSize(op vm.OpCode) int {
	if op < vm.PUSH1 || op > vm.PUSH32 {
		return 0
	}
	return int(op-vm.PUSH1) + 1
}

func bigEndian16(v int) []byte {
	return []byte{byte(v >> 8), byte(v)}
}
