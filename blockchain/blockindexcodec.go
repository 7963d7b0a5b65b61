// Copyright (c) 2014-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"bytes"
	"encoding/binary"
	"io"
	"math/big"

	"github.com/pkg/errors"

	"github.com/vireo-chain/vireod/chainhash"
)

// serializeBlockIndexNode encodes node's persistent fields - the ones
// needed to reconstruct the block tree and its validation totals on
// restart - for storage under database.WriteBlockIndex. parentHash is
// the zero hash for the genesis node. Parent/next links are stored by
// hash rather than by BlockID, since the arena index is rebuilt fresh
// each process start.
func serializeBlockIndexNode(node *BlockIndexNode, parentHash chainhash.Hash) ([]byte, error) {
	var buf bytes.Buffer

	buf.Write(node.Hash.CloneBytes())
	buf.Write(parentHash.CloneBytes())

	if err := binary.Write(&buf, binary.LittleEndian, node.Height); err != nil {
		return nil, err
	}
	if err := binary.Write(&buf, binary.LittleEndian, node.BlockTime); err != nil {
		return nil, err
	}
	if err := binary.Write(&buf, binary.LittleEndian, node.Bits); err != nil {
		return nil, err
	}
	if err := binary.Write(&buf, binary.LittleEndian, node.Version); err != nil {
		return nil, err
	}
	if err := binary.Write(&buf, binary.LittleEndian, node.FileOffset); err != nil {
		return nil, err
	}
	if err := binary.Write(&buf, binary.LittleEndian, node.FileSize); err != nil {
		return nil, err
	}
	if err := binary.Write(&buf, binary.LittleEndian, node.MoneySupply); err != nil {
		return nil, err
	}
	if err := binary.Write(&buf, binary.LittleEndian, node.Mint); err != nil {
		return nil, err
	}
	if err := binary.Write(&buf, binary.LittleEndian, node.IsProofOfStake); err != nil {
		return nil, err
	}
	if err := binary.Write(&buf, binary.LittleEndian, node.StakeModifier); err != nil {
		return nil, err
	}
	if err := binary.Write(&buf, binary.LittleEndian, node.StakeModifierGenerated); err != nil {
		return nil, err
	}
	if err := binary.Write(&buf, binary.LittleEndian, node.StakeEntropyBit); err != nil {
		return nil, err
	}
	if err := binary.Write(&buf, binary.LittleEndian, node.Invalid); err != nil {
		return nil, err
	}

	trustBytes := node.Trust.Bytes()
	if err := binary.Write(&buf, binary.LittleEndian, uint32(len(trustBytes))); err != nil {
		return nil, err
	}
	buf.Write(trustBytes)

	return buf.Bytes(), nil
}

// deserializeBlockIndexNode is the inverse of serializeBlockIndexNode.
// It does not resolve the parent hash to a BlockID - the caller
// (index rebuild at startup) links nodes together once every node in
// the index has been read once.
func deserializeBlockIndexNode(data []byte) (node *BlockIndexNode, parentHash chainhash.Hash, err error) {
	r := bytes.NewReader(data)
	node = &BlockIndexNode{}

	if _, err = io.ReadFull(r, node.Hash[:]); err != nil {
		return nil, parentHash, errors.Wrap(err, "failed to read block hash")
	}
	if _, err = io.ReadFull(r, parentHash[:]); err != nil {
		return nil, parentHash, errors.Wrap(err, "failed to read parent hash")
	}

	fields := []interface{}{
		&node.Height, &node.BlockTime, &node.Bits, &node.Version,
		&node.FileOffset, &node.FileSize, &node.MoneySupply, &node.Mint,
		&node.IsProofOfStake, &node.StakeModifier, &node.StakeModifierGenerated,
		&node.StakeEntropyBit, &node.Invalid,
	}
	for _, field := range fields {
		if err = binary.Read(r, binary.LittleEndian, field); err != nil {
			return nil, parentHash, errors.Wrap(err, "failed to read block index node field")
		}
	}

	var trustLen uint32
	if err = binary.Read(r, binary.LittleEndian, &trustLen); err != nil {
		return nil, parentHash, errors.Wrap(err, "failed to read trust length")
	}
	trustBytes := make([]byte, trustLen)
	if _, err = io.ReadFull(r, trustBytes); err != nil {
		return nil, parentHash, errors.Wrap(err, "failed to read trust")
	}
	node.Trust = new(big.Int).SetBytes(trustBytes)

	return node, parentHash, nil
}
