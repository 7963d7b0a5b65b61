// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package util

import (
	"bytes"

	"github.com/vireo-chain/vireod/chainhash"
	"github.com/vireo-chain/vireod/wire"
)

// TxIndexUnknown is the value returned for a transaction's index within
// its containing block when it hasn't been set explicitly.
const TxIndexUnknown = -1

// Tx wraps a wire.MsgTx, memoizing its hash and serialized bytes.
type Tx struct {
	msgTx          *wire.MsgTx
	txHash         *chainhash.Hash
	serializedTx   []byte
	txIndex        int
}

// MsgTx returns the underlying wire.MsgTx.
func (t *Tx) MsgTx() *wire.MsgTx {
	return t.msgTx
}

// Hash returns the transaction identifier hash, computing and caching
// it if this is the first invocation.
func (t *Tx) Hash() *chainhash.Hash {
	if t.txHash != nil {
		return t.txHash
	}
	hash := t.msgTx.TxHash()
	t.txHash = &hash
	return t.txHash
}

// Index returns the index the transaction has within its containing
// block, or TxIndexUnknown if it has not been set via SetIndex.
func (t *Tx) Index() int {
	return t.txIndex
}

// SetIndex sets the index the transaction has within its containing
// block.
func (t *Tx) SetIndex(index int) {
	t.txIndex = index
}

// Bytes returns the serialized bytes for the transaction, computing and
// caching them if this is the first invocation.
func (t *Tx) Bytes() ([]byte, error) {
	if len(t.serializedTx) != 0 {
		return t.serializedTx, nil
	}
	buf := bytes.NewBuffer(make([]byte, 0, t.msgTx.SerializeSize()))
	if err := t.msgTx.Serialize(buf); err != nil {
		return nil, err
	}
	t.serializedTx = buf.Bytes()
	return t.serializedTx, nil
}

// IsCoinBase is a convenience wrapper around msgTx.IsCoinBase.
func (t *Tx) IsCoinBase() bool {
	return t.msgTx.IsCoinBase()
}

// IsCoinStake is a convenience wrapper around msgTx.IsCoinStake.
func (t *Tx) IsCoinStake() bool {
	return t.msgTx.IsCoinStake()
}

// NewTx returns a new Tx instance wrapping the given wire.MsgTx, with an
// unknown block index.
func NewTx(msgTx *wire.MsgTx) *Tx {
	return &Tx{msgTx: msgTx, txIndex: TxIndexUnknown}
}

// NewTxFromBytes returns a new Tx instance, decoding msgTx from
// serializedTx and caching serializedTx for a later Bytes call.
func NewTxFromBytes(serializedTx []byte) (*Tx, error) {
	msgTx := new(wire.MsgTx)
	if err := msgTx.Deserialize(bytes.NewReader(serializedTx)); err != nil {
		return nil, err
	}
	tx := NewTx(msgTx)
	tx.serializedTx = serializedTx
	return tx, nil
}
