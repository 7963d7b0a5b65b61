// Copyright (c) 2014-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txvalidate

import (
	"github.com/vireo-chain/vireod/database"
	"github.com/vireo-chain/vireod/txscript"
	"github.com/vireo-chain/vireod/util"
	"github.com/vireo-chain/vireod/wire"
)

// PrevOut bundles everything ConnectInputs needs to know about a
// spent transaction's prior appearance: the transaction itself, the
// height at which it was mined, and its persisted index entry so the
// spent-outputs vector can be consulted and updated.
type PrevOut struct {
	Tx          *wire.MsgTx
	BlockHeight int32
	BlockTime   int64
	Index       *database.TxIndex
}

// InputFetcher locates the previous output a transaction input
// references. Implementations consult, in order, a proposed-block
// overlay, the on-disk transaction index, and the mempool - that
// layering lives above this package, in the caller.
type InputFetcher interface {
	FetchPrevOut(outpoint wire.OutPoint) (*PrevOut, error)
}

// ErrMissingInput is returned by an InputFetcher when a previous
// output cannot be located anywhere it looked. ConnectInputs turns
// this into a Transient(TransientMissingParent, ...) result rather
// than a Rejected one.
var ErrMissingInput = missingInputError{}

type missingInputError struct{}

func (missingInputError) Error() string { return "previous output not found" }

// ConnectedInput is the resolved, about-to-be-spent previous output
// for a single transaction input, returned alongside the running
// ConnectInputs result so the caller can persist the spend.
type ConnectedInput struct {
	Outpoint  wire.OutPoint
	PrevIndex *database.TxIndex
	OutIndex  int
}

// ConnectInputs performs the dry-run input-consumption check: range
// checks, coinbase/coinstake maturity, the prev.time <= this.time
// ordering rule, signature verification, and double-spend detection
// against each previous output's spent vector. It persists nothing;
// the caller commits ConnectedInputs (by writing thisPos into each
// PrevIndex.Spent[OutIndex] and calling UpdateTxIndex) only once the
// entire block or mempool-accept operation has otherwise succeeded.
func ConnectInputs(tx *wire.MsgTx, fetch InputFetcher, spendHeight int32, blockTime int64, coinbaseMaturity int32) (valueIn int64, connected []ConnectedInput, result Result) {
	for inputIdx, in := range tx.TxIn {
		prev, err := fetch.FetchPrevOut(in.PreviousOutPoint)
		if err != nil {
			return 0, nil, Transient(TransientMissingParent, "previous output not found: "+err.Error())
		}

		outIdx := int(in.PreviousOutPoint.Index)
		if outIdx < 0 || outIdx >= len(prev.Tx.TxOut) {
			return 0, nil, Rejected(100, "previous outpoint index out of range")
		}

		if prev.Tx.IsCoinBase() || prev.Tx.IsCoinStake() {
			depth := spendHeight - prev.BlockHeight
			if depth < coinbaseMaturity {
				return 0, nil, Rejected(100, "attempt to spend an immature coinbase or coinstake output")
			}
		}

		if prev.BlockTime > tx.Timestamp.Unix() {
			return 0, nil, Rejected(100, "transaction timestamp earlier than an input it spends")
		}

		if outIdx >= len(prev.Index.Spent) {
			return 0, nil, Fatal("transaction index spent-vector shorter than referenced output count")
		}
		if prev.Index.Spent[outIdx] != nil {
			return 0, nil, Rejected(100, "double spend: previous output already spent")
		}

		pkScript := prev.Tx.TxOut[outIdx].PkScript
		if err := txscript.VerifyPkScript(tx, inputIdx, pkScript); err != nil {
			return 0, nil, Rejected(100, "signature verification failed: "+err.Error())
		}

		valueIn += prev.Tx.TxOut[outIdx].Value
		if valueIn > util.MaxMoney {
			return 0, nil, Rejected(100, "sum of input values exceeds the money supply limit")
		}

		connected = append(connected, ConnectedInput{
			Outpoint:  in.PreviousOutPoint,
			PrevIndex: prev.Index,
			OutIndex:  outIdx,
		})
	}

	return valueIn, connected, Ok
}

// ApplySpends marks every ConnectedInput as spent at thisPos in its
// PrevIndex.Spent vector. Called only after the enclosing block or
// mempool-accept operation has otherwise fully succeeded; the caller
// is responsible for persisting each mutated *database.TxIndex via
// UpdateTxIndex inside the same storage transaction.
func ApplySpends(connected []ConnectedInput, thisPos *database.DiskTxPos) {
	for _, c := range connected {
		c.PrevIndex.Spent[c.OutIndex] = thisPos
	}
}

// UndoSpends reverses ApplySpends for a disconnected block, clearing
// the spent marker each of connected's entries set.
func UndoSpends(connected []ConnectedInput) {
	for _, c := range connected {
		c.PrevIndex.Spent[c.OutIndex] = nil
	}
}
