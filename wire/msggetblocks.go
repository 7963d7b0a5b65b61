// Copyright (c) 2013-2015 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"io"

	"github.com/pkg/errors"
	"github.com/vireo-chain/vireod/chainhash"
)

// MaxBlockLocatorsPerMsg is the maximum number of block locator hashes
// a getblocks or getheaders message may carry.
const MaxBlockLocatorsPerMsg = 500

// MsgGetBlocks implements the Message interface and is used to request
// a list of blocks starting after the last known hash in the locator.
// The core replies with up to 500 block inv entries.
type MsgGetBlocks struct {
	BlockLocatorHashes []*chainhash.Hash
	HashStop           chainhash.Hash
}

// AddBlockLocatorHash adds a new block locator hash to the message.
func (msg *MsgGetBlocks) AddBlockLocatorHash(hash *chainhash.Hash) error {
	if len(msg.BlockLocatorHashes)+1 > MaxBlockLocatorsPerMsg {
		return errors.Errorf("too many block locator hashes for message [max %d]", MaxBlockLocatorsPerMsg)
	}
	msg.BlockLocatorHashes = append(msg.BlockLocatorHashes, hash)
	return nil
}

// NewMsgGetBlocks returns a new getblocks message with the given stop hash.
func NewMsgGetBlocks(hashStop *chainhash.Hash) *MsgGetBlocks {
	return &MsgGetBlocks{
		BlockLocatorHashes: make([]*chainhash.Hash, 0, MaxBlockLocatorsPerMsg),
		HashStop:           *hashStop,
	}
}

// BtcDecode decodes r using the wire encoding into the receiver.
func (msg *MsgGetBlocks) BtcDecode(r io.Reader, pver uint32) error {
	count, err := ReadVarInt(r)
	if err != nil {
		return err
	}
	if count > MaxBlockLocatorsPerMsg {
		return errors.Errorf("too many block locator hashes for message [count %d, max %d]",
			count, MaxBlockLocatorsPerMsg)
	}

	msg.BlockLocatorHashes = make([]*chainhash.Hash, 0, count)
	for i := uint64(0); i < count; i++ {
		hash := chainhash.Hash{}
		if err := readElement(r, &hash); err != nil {
			return err
		}
		msg.BlockLocatorHashes = append(msg.BlockLocatorHashes, &hash)
	}

	return readElement(r, &msg.HashStop)
}

// BtcEncode encodes the receiver to w using the wire encoding.
func (msg *MsgGetBlocks) BtcEncode(w io.Writer, pver uint32) error {
	count := len(msg.BlockLocatorHashes)
	if count > MaxBlockLocatorsPerMsg {
		return errors.Errorf("too many block locator hashes for message [count %d, max %d]",
			count, MaxBlockLocatorsPerMsg)
	}

	if err := WriteVarInt(w, uint64(count)); err != nil {
		return err
	}
	for _, hash := range msg.BlockLocatorHashes {
		if err := writeElement(w, hash); err != nil {
			return err
		}
	}

	return writeElement(w, &msg.HashStop)
}

// Command returns "getblocks", satisfying the Message interface.
func (msg *MsgGetBlocks) Command() MessageCommand {
	return CmdGetBlocks
}

// MaxPayloadLength returns the maximum length the payload can be.
func (msg *MsgGetBlocks) MaxPayloadLength(pver uint32) uint32 {
	return 9 + MaxBlockLocatorsPerMsg*chainhash.HashSize + chainhash.HashSize
}

// MsgGetHeaders implements the Message interface and is used to request
// a list of block headers, replied to with up to 2000 headers.
type MsgGetHeaders struct {
	BlockLocatorHashes []*chainhash.Hash
	HashStop           chainhash.Hash
}

// AddBlockLocatorHash adds a new block locator hash to the message.
func (msg *MsgGetHeaders) AddBlockLocatorHash(hash *chainhash.Hash) error {
	if len(msg.BlockLocatorHashes)+1 > MaxBlockLocatorsPerMsg {
		return errors.Errorf("too many block locator hashes for message [max %d]", MaxBlockLocatorsPerMsg)
	}
	msg.BlockLocatorHashes = append(msg.BlockLocatorHashes, hash)
	return nil
}

// NewMsgGetHeaders returns a new getheaders message with an empty locator.
func NewMsgGetHeaders() *MsgGetHeaders {
	return &MsgGetHeaders{BlockLocatorHashes: make([]*chainhash.Hash, 0, MaxBlockLocatorsPerMsg)}
}

// BtcDecode decodes r using the wire encoding into the receiver.
func (msg *MsgGetHeaders) BtcDecode(r io.Reader, pver uint32) error {
	count, err := ReadVarInt(r)
	if err != nil {
		return err
	}
	if count > MaxBlockLocatorsPerMsg {
		return errors.Errorf("too many block locator hashes for message [count %d, max %d]",
			count, MaxBlockLocatorsPerMsg)
	}

	msg.BlockLocatorHashes = make([]*chainhash.Hash, 0, count)
	for i := uint64(0); i < count; i++ {
		hash := chainhash.Hash{}
		if err := readElement(r, &hash); err != nil {
			return err
		}
		msg.BlockLocatorHashes = append(msg.BlockLocatorHashes, &hash)
	}

	return readElement(r, &msg.HashStop)
}

// BtcEncode encodes the receiver to w using the wire encoding.
func (msg *MsgGetHeaders) BtcEncode(w io.Writer, pver uint32) error {
	count := len(msg.BlockLocatorHashes)
	if count > MaxBlockLocatorsPerMsg {
		return errors.Errorf("too many block locator hashes for message [count %d, max %d]",
			count, MaxBlockLocatorsPerMsg)
	}

	if err := WriteVarInt(w, uint64(count)); err != nil {
		return err
	}
	for _, hash := range msg.BlockLocatorHashes {
		if err := writeElement(w, hash); err != nil {
			return err
		}
	}

	return writeElement(w, &msg.HashStop)
}

// Command returns "getheaders", satisfying the Message interface.
func (msg *MsgGetHeaders) Command() MessageCommand {
	return CmdGetHeaders
}

// MaxPayloadLength returns the maximum length the payload can be.
func (msg *MsgGetHeaders) MaxPayloadLength(pver uint32) uint32 {
	return 9 + MaxBlockLocatorsPerMsg*chainhash.HashSize + chainhash.HashSize
}

// MaxBlockHeadersPerMsg is the maximum number of headers a headers
// message may carry in reply to getheaders.
const MaxBlockHeadersPerMsg = 2000

// MsgHeaders implements the Message interface and carries a list of
// block headers in reply to a getheaders request.
type MsgHeaders struct {
	Headers []*BlockHeader
}

// AddBlockHeader adds a new block header to the message.
func (msg *MsgHeaders) AddBlockHeader(bh *BlockHeader) error {
	if len(msg.Headers)+1 > MaxBlockHeadersPerMsg {
		return errors.Errorf("too many block headers for message [max %d]", MaxBlockHeadersPerMsg)
	}
	msg.Headers = append(msg.Headers, bh)
	return nil
}

// NewMsgHeaders returns a new headers message with an empty list.
func NewMsgHeaders() *MsgHeaders {
	return &MsgHeaders{Headers: make([]*BlockHeader, 0, MaxBlockHeadersPerMsg)}
}

// BtcDecode decodes r using the wire encoding into the receiver.
func (msg *MsgHeaders) BtcDecode(r io.Reader, pver uint32) error {
	count, err := ReadVarInt(r)
	if err != nil {
		return err
	}
	if count > MaxBlockHeadersPerMsg {
		return errors.Errorf("too many headers for message [count %d, max %d]", count, MaxBlockHeadersPerMsg)
	}

	msg.Headers = make([]*BlockHeader, 0, count)
	for i := uint64(0); i < count; i++ {
		bh := &BlockHeader{}
		if err := readBlockHeader(r, pver, bh); err != nil {
			return err
		}
		msg.Headers = append(msg.Headers, bh)
	}
	return nil
}

// BtcEncode encodes the receiver to w using the wire encoding.
func (msg *MsgHeaders) BtcEncode(w io.Writer, pver uint32) error {
	count := len(msg.Headers)
	if count > MaxBlockHeadersPerMsg {
		return errors.Errorf("too many headers for message [count %d, max %d]", count, MaxBlockHeadersPerMsg)
	}

	if err := WriteVarInt(w, uint64(count)); err != nil {
		return err
	}
	for _, bh := range msg.Headers {
		if err := writeBlockHeader(w, pver, bh); err != nil {
			return err
		}
	}
	return nil
}

// Command returns "headers", satisfying the Message interface.
func (msg *MsgHeaders) Command() MessageCommand {
	return CmdHeaders
}

// MaxPayloadLength returns the maximum length the payload can be.
func (msg *MsgHeaders) MaxPayloadLength(pver uint32) uint32 {
	return 9 + MaxBlockHeadersPerMsg*(BlockHeaderPayload+1)
}
