// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"bytes"
	"io"
	"time"

	"github.com/vireo-chain/vireod/chainhash"
)

// BlockHeaderPayload is the number of bytes a block header occupies on
// the wire: version 4 + prev block hash + merkle root hash + time 4 +
// bits 4 + nonce 4.
const BlockHeaderPayload = 16 + 2*chainhash.HashSize

// BlockHeader defines the chain-linking metadata carried by every block.
// Unlike multi-parent formats, a block has exactly one predecessor.
type BlockHeader struct {
	// Version of the block. Not the same as the protocol version.
	Version int32

	// Hash of the previous block header in the chain.
	PrevBlock chainhash.Hash

	// Merkle tree reference to the hash of all transactions in the block.
	MerkleRoot chainhash.Hash

	// Time the block was created. Encoded on the wire as a uint32 and
	// therefore limited to 2106.
	Timestamp time.Time

	// Difficulty target for the block, compact representation.
	Bits uint32

	// Nonce used to satisfy the proof of work.
	Nonce uint32
}

// BlockHash computes the block identifier hash for the given header.
func (h *BlockHeader) BlockHash() chainhash.Hash {
	buf := bytes.NewBuffer(make([]byte, 0, BlockHeaderPayload))
	_ = writeBlockHeader(buf, 0, h)
	return chainhash.DoubleHashH(buf.Bytes())
}

// BtcDecode decodes r using the wire encoding into the receiver.
func (h *BlockHeader) BtcDecode(r io.Reader, pver uint32) error {
	return readBlockHeader(r, pver, h)
}

// BtcEncode encodes the receiver to w using the wire encoding.
func (h *BlockHeader) BtcEncode(w io.Writer, pver uint32) error {
	return writeBlockHeader(w, pver, h)
}

// Command returns the message command, satisfying the Message interface
// in contexts that send a bare header. BlockHeader is normally embedded
// in MsgBlock and MsgHeaders rather than sent on its own.
func (h *BlockHeader) Command() MessageCommand {
	return CmdHeaders
}

// MaxPayloadLength returns the maximum length of a block header.
func (h *BlockHeader) MaxPayloadLength(pver uint32) uint32 {
	return BlockHeaderPayload
}

// Deserialize decodes a block header from r into the receiver using the
// long-term storage format.
func (h *BlockHeader) Deserialize(r io.Reader) error {
	return readBlockHeader(r, 0, h)
}

// Serialize encodes the receiver into w using the long-term storage
// format.
func (h *BlockHeader) Serialize(w io.Writer) error {
	return writeBlockHeader(w, 0, h)
}

// NewBlockHeader returns a new BlockHeader using the provided version,
// previous block hash, merkle root, difficulty bits, and nonce, with the
// timestamp set to now.
func NewBlockHeader(version int32, prevBlock, merkleRootHash *chainhash.Hash,
	bits uint32, nonce uint32) *BlockHeader {

	return &BlockHeader{
		Version:    version,
		PrevBlock:  *prevBlock,
		MerkleRoot: *merkleRootHash,
		Timestamp:  time.Unix(time.Now().Unix(), 0),
		Bits:       bits,
		Nonce:      nonce,
	}
}

func readBlockHeader(r io.Reader, pver uint32, bh *BlockHeader) error {
	return readElements(r, &bh.Version, &bh.PrevBlock, &bh.MerkleRoot,
		(*uint32Time)(&bh.Timestamp), &bh.Bits, &bh.Nonce)
}

func writeBlockHeader(w io.Writer, pver uint32, bh *BlockHeader) error {
	sec := uint32(bh.Timestamp.Unix())
	return writeElements(w, bh.Version, &bh.PrevBlock, &bh.MerkleRoot,
		sec, bh.Bits, bh.Nonce)
}
