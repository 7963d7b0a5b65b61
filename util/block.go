// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package util

import (
	"bytes"

	"github.com/vireo-chain/vireod/chainhash"
	"github.com/vireo-chain/vireod/wire"
)

// Block wraps a wire.MsgBlock, memoizing its hash and serialized bytes on
// first access so repeated calls skip the relatively expensive hashing
// and encoding operations.
type Block struct {
	msgBlock        *wire.MsgBlock
	serializedBlock []byte
	blockHash       *chainhash.Hash
	txs             []*Tx
}

// MsgBlock returns the underlying wire.MsgBlock.
func (b *Block) MsgBlock() *wire.MsgBlock {
	return b.msgBlock
}

// Bytes returns the serialized bytes for the block, computing and
// caching them if this is the first invocation.
func (b *Block) Bytes() ([]byte, error) {
	if len(b.serializedBlock) != 0 {
		return b.serializedBlock, nil
	}
	buf := bytes.NewBuffer(make([]byte, 0, b.msgBlock.SerializeSize()))
	if err := b.msgBlock.Serialize(buf); err != nil {
		return nil, err
	}
	b.serializedBlock = buf.Bytes()
	return b.serializedBlock, nil
}

// Hash returns the block identifier hash, computing and caching it if
// this is the first invocation.
func (b *Block) Hash() *chainhash.Hash {
	if b.blockHash != nil {
		return b.blockHash
	}
	hash := b.msgBlock.BlockHash()
	b.blockHash = &hash
	return b.blockHash
}

// Transactions returns the block's transactions wrapped as Tx values,
// each aware of its index within the block.
func (b *Block) Transactions() []*Tx {
	if len(b.txs) == len(b.msgBlock.Transactions) {
		return b.txs
	}
	b.txs = make([]*Tx, len(b.msgBlock.Transactions))
	for i, tx := range b.msgBlock.Transactions {
		newTx := NewTx(tx)
		newTx.SetIndex(i)
		b.txs[i] = newTx
	}
	return b.txs
}

// Height returns -1 by default since the height of a block is only known
// once it is connected into BlockIndex; callers that know the height set
// it explicitly.
func (b *Block) Height() int32 {
	return -1
}

// NewBlock returns a new Block instance wrapping the given wire.MsgBlock.
func NewBlock(msgBlock *wire.MsgBlock) *Block {
	return &Block{msgBlock: msgBlock}
}

// NewBlockFromBytes returns a new Block instance, decoding msgBlock from
// serializedBlock and caching serializedBlock for a later Bytes call.
func NewBlockFromBytes(serializedBlock []byte) (*Block, error) {
	msgBlock := new(wire.MsgBlock)
	if err := msgBlock.Deserialize(bytes.NewReader(serializedBlock)); err != nil {
		return nil, err
	}
	b := NewBlock(msgBlock)
	b.serializedBlock = serializedBlock
	return b, nil
}
