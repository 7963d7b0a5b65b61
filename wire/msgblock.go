// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"bytes"
	"fmt"
	"io"

	"github.com/pkg/errors"
	"github.com/vireo-chain/vireod/chainhash"
)

// maxTxPerBlock bounds the number of transactions readable from a single
// block message, derived from the minimum possible serialized tx size.
const maxTxPerBlock = (maxMessagePayload / 60) + 1

// MsgBlock implements the Message interface and represents a block: a
// header, its transactions, and — for a proof-of-stake block — a
// signature over the block hash from the coinstake's staking key.
type MsgBlock struct {
	Header        BlockHeader
	Transactions  []*MsgTx
	BlockSig      []byte
}

// NewMsgBlock returns a new block message using the provided header,
// with no transactions.
func NewMsgBlock(header *BlockHeader) *MsgBlock {
	return &MsgBlock{
		Header:       *header,
		Transactions: make([]*MsgTx, 0, defaultTxInOutAlloc),
	}
}

// AddTransaction adds a transaction to the message.
func (msg *MsgBlock) AddTransaction(tx *MsgTx) {
	msg.Transactions = append(msg.Transactions, tx)
}

// BlockHash computes the block identifier hash.
func (msg *MsgBlock) BlockHash() chainhash.Hash {
	return msg.Header.BlockHash()
}

// IsProofOfStake reports whether the block carries a coinstake as its
// second transaction, the on-chain marker of a proof-of-stake block.
func (msg *MsgBlock) IsProofOfStake() bool {
	return len(msg.Transactions) > 1 && msg.Transactions[1].IsCoinStake()
}

// BtcDecode decodes r using the wire encoding into the receiver.
func (msg *MsgBlock) BtcDecode(r io.Reader, pver uint32) error {
	if err := readBlockHeader(r, pver, &msg.Header); err != nil {
		return err
	}

	txCount, err := ReadVarInt(r)
	if err != nil {
		return err
	}
	if txCount > uint64(maxTxPerBlock) {
		return errors.Errorf("too many transactions to fit into max message size [count %d, max %d]",
			txCount, maxTxPerBlock)
	}

	msg.Transactions = make([]*MsgTx, txCount)
	for i := uint64(0); i < txCount; i++ {
		tx := &MsgTx{}
		if err := tx.BtcDecode(r, pver); err != nil {
			return err
		}
		msg.Transactions[i] = tx
	}

	sig, err := ReadVarBytes(r, maxMessagePayload, "block signature")
	if err != nil {
		return err
	}
	msg.BlockSig = sig
	return nil
}

// BtcEncode encodes the receiver to w using the wire encoding.
func (msg *MsgBlock) BtcEncode(w io.Writer, pver uint32) error {
	if err := writeBlockHeader(w, pver, &msg.Header); err != nil {
		return err
	}

	if err := WriteVarInt(w, uint64(len(msg.Transactions))); err != nil {
		return err
	}
	for _, tx := range msg.Transactions {
		if err := tx.BtcEncode(w, pver); err != nil {
			return err
		}
	}

	return WriteVarBytes(w, msg.BlockSig)
}

// Deserialize decodes a block from r using the long-term storage format,
// used by the bootstrap block-file loader.
func (msg *MsgBlock) Deserialize(r io.Reader) error {
	return msg.BtcDecode(r, 0)
}

// Serialize encodes the block to w using the long-term storage format.
func (msg *MsgBlock) Serialize(w io.Writer) error {
	return msg.BtcEncode(w, 0)
}

// SerializeSize returns the number of bytes it would take to serialize
// the block.
func (msg *MsgBlock) SerializeSize() int {
	n := BlockHeaderPayload + VarIntSerializeSize(uint64(len(msg.Transactions)))
	for _, tx := range msg.Transactions {
		n += tx.SerializeSize()
	}
	n += VarIntSerializeSize(uint64(len(msg.BlockSig))) + len(msg.BlockSig)
	return n
}

// Bytes returns the block's serialized form, used when writing it to the
// block store.
func (msg *MsgBlock) Bytes() ([]byte, error) {
	buf := bytes.NewBuffer(make([]byte, 0, msg.SerializeSize()))
	if err := msg.Serialize(buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Command returns "block", satisfying the Message interface.
func (msg *MsgBlock) Command() MessageCommand {
	return CmdBlock
}

// MaxPayloadLength returns the maximum length the payload can be.
func (msg *MsgBlock) MaxPayloadLength(pver uint32) uint32 {
	return maxMessagePayload
}

func (msg *MsgBlock) String() string {
	return fmt.Sprintf("block %s (%d tx)", msg.BlockHash(), len(msg.Transactions))
}
