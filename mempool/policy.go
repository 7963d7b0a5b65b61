// Copyright (c) 2014-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mempool

import (
	"fmt"

	"github.com/vireo-chain/vireod/txscript"
	"github.com/vireo-chain/vireod/txvalidate"
	"github.com/vireo-chain/vireod/wire"
)

// maxStandardSigScriptSize is the largest signature script considered
// standard: room for a 15-of-15 bare-multisig redeem, plus a little
// buffer.
const maxStandardSigScriptSize = 1650

// checkTransactionStandard rejects scriptSig/pkScript shapes outside
// the recognized templates and any dust output, unless relayNonStd
// disables the policy entirely. It never consults previous outputs -
// ConnectInputs is what verifies a scriptSig actually satisfies its
// pkScript.
func checkTransactionStandard(tx *wire.MsgTx, relayNonStd bool) txvalidate.Result {
	if relayNonStd {
		return txvalidate.Ok
	}

	for i, in := range tx.TxIn {
		if len(in.SignatureScript) > maxStandardSigScriptSize {
			return txvalidate.Rejected(0, fmt.Sprintf("input %d: signature script of %d bytes is larger than the standard maximum of %d", i, len(in.SignatureScript), maxStandardSigScriptSize))
		}
		if !txscript.IsPushOnly(in.SignatureScript) {
			return txvalidate.Rejected(0, fmt.Sprintf("input %d: signature script is not push-only", i))
		}
	}

	for i, out := range tx.TxOut {
		if txscript.GetScriptClass(out.PkScript) == txscript.NonStandardTy {
			return txvalidate.Rejected(0, fmt.Sprintf("output %d: non-standard script form", i))
		}
		if isDustOutput(out) {
			return txvalidate.Rejected(0, fmt.Sprintf("output %d: payment of %d is dust", i, out.Value))
		}
	}

	return txvalidate.Ok
}

// isDustOutput reports whether out's value is uneconomical to spend:
// the cost of the input needed to redeem it, at the minimum relay
// fee, would exceed a third of the value itself. An unspendable
// output (OP_RETURN) is always treated as dust since it carries no
// redeemable value at all.
func isDustOutput(out *wire.TxOut) bool {
	if txscript.IsUnspendable(out.PkScript) {
		return true
	}

	// 148 bytes approximates a typical P2PKH input: outpoint, a
	// signature push, a pubkey push, and the sequence number.
	totalSize := int64(out.SerializeSize() + 148)
	return out.Value*1000/(3*totalSize) < txvalidate.MinRelayTxFee
}
