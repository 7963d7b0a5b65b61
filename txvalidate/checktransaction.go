// Copyright (c) 2014-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txvalidate

import (
	"github.com/vireo-chain/vireod/util"
	"github.com/vireo-chain/vireod/wire"
)

// MaxBlockSize bounds the serialized size of both a block and, by
// extension, any single transaction within it.
const MaxBlockSize = 1000000

// MainNetMinTxOutputAmount is the CENT threshold below which any output
// forces the minimum relay fee regardless of transaction size.
const MainNetMinTxOutputAmount = util.CentPerCoin

// CheckTransaction performs the stateless structural checks every
// transaction must pass before it is eligible for ConnectInputs: shape,
// money range, and distinct-input checks. It does not consult any
// storage and never classifies a coinbase or coinstake as acceptable on
// its own - those are only valid embedded in a block.
func CheckTransaction(tx *wire.MsgTx) Result {
	if len(tx.TxIn) == 0 {
		return Rejected(10, "transaction has no inputs")
	}
	if len(tx.TxOut) == 0 {
		return Rejected(10, "transaction has no outputs")
	}

	if tx.IsCoinBase() || tx.IsCoinStake() {
		return Rejected(100, "coinbase/coinstake transactions are only valid inside a block")
	}

	if tx.SerializeSize() > MaxBlockSize {
		return Rejected(100, "transaction exceeds the maximum block size")
	}

	var valueOut int64
	for _, out := range tx.TxOut {
		if out.Value < 0 {
			return Rejected(100, "transaction output has negative value")
		}
		if out.Value > util.MaxMoney {
			return Rejected(100, "transaction output value exceeds the money supply limit")
		}
		valueOut += out.Value
		if valueOut > util.MaxMoney {
			return Rejected(100, "total transaction output value exceeds the money supply limit")
		}
	}

	seenOutpoints := make(map[wire.OutPoint]struct{}, len(tx.TxIn))
	for _, in := range tx.TxIn {
		if _, seen := seenOutpoints[in.PreviousOutPoint]; seen {
			return Rejected(100, "transaction contains a duplicate input outpoint")
		}
		seenOutpoints[in.PreviousOutPoint] = struct{}{}

		if in.PreviousOutPoint.IsNull() {
			return Rejected(100, "non-coinbase transaction has a null previous outpoint")
		}
	}

	return Ok
}

// IsFinalTx reports whether tx is final with respect to the given block
// height and block time, i.e. safe to include in a block at that point.
// A zero LockTime, or every input sequence at the maximum, makes a
// transaction immediately final.
func IsFinalTx(tx *wire.MsgTx, blockHeight int32, blockTime int64) bool {
	if tx.LockTime == 0 {
		return true
	}

	lockTimeThreshold := int64(500000000)
	var blockTimeOrHeight int64
	if int64(tx.LockTime) < lockTimeThreshold {
		blockTimeOrHeight = int64(blockHeight)
	} else {
		blockTimeOrHeight = blockTime
	}
	if int64(tx.LockTime) < blockTimeOrHeight {
		return true
	}

	for _, in := range tx.TxIn {
		if in.Sequence != wire.MaxTxInSequenceNum {
			return false
		}
	}
	return true
}
