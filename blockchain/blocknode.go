// Copyright (c) 2014-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package blockchain implements the consensus core: the block index,
// the active-chain manager, block and checkpoint validation, the
// stake-modifier kernel check, and the reward schedule.
package blockchain

import (
	"math/big"

	"github.com/vireo-chain/vireod/chainhash"
	"github.com/vireo-chain/vireod/wire"
)

// BlockID indexes a BlockIndexNode inside a BlockIndex's arena. The
// zero value never denotes a live node; nodeNone marks "no node" in
// place of a nullable pointer, removing the dangling-reference hazard
// a reorganization's disconnect/connect vectors would otherwise share
// with the live index map.
type BlockID uint32

// nodeNone is the not-present sentinel for a BlockID field.
const nodeNone BlockID = 0

// BlockIndexNode is the per-block metadata the chain manager tracks
// once a block has been accepted: its location on disk, its place in
// the block tree, and the running totals a child needs to validate
// against it.
type BlockIndexNode struct {
	id     BlockID
	parent BlockID
	next   BlockID // forward pointer along the active chain only

	Hash       chainhash.Hash
	Height      int32
	BlockTime  uint32
	Bits       uint32
	Version    int32

	// FileOffset/FileSize locate the serialized block inside the
	// block store; Hash is cached so a node never needs to
	// re-read and re-hash the header just to identify itself.
	FileOffset uint32
	FileSize   uint32

	// Trust accumulates the proof weight of this node and all of its
	// ancestors; it is
	// the value maybe_advance compares against the current tip to
	// decide whether a candidate chain should become active.
	Trust *big.Int

	// MoneySupply is the running total of atoms in existence once this
	// block is connected.
	MoneySupply int64

	// Mint is value_out - value_in for this block alone, the net change
	// the block makes to MoneySupply; transaction fees are not added
	// back into it.
	Mint int64

	IsProofOfStake        bool
	StakeModifier         uint64
	StakeModifierGenerated bool
	StakeEntropyBit        uint8

	// Invalid marks a node whose AcceptBlock/ConnectBlock failed; no
	// descendant of an invalid node may ever become the active tip.
	Invalid bool
}

// BlockIndex is the arena owning every accepted BlockIndexNode, plus
// the hash-to-node lookup the chain manager and storage layer share.
// Nodes are never removed for the process lifetime.
type BlockIndex struct {
	nodes   []*BlockIndexNode
	byHash  map[chainhash.Hash]BlockID
}

// NewBlockIndex returns an empty BlockIndex. Index 0 of the arena is
// reserved as the nodeNone sentinel so a zero BlockID never aliases a
// live node.
func NewBlockIndex() *BlockIndex {
	return &BlockIndex{
		nodes:  []*BlockIndexNode{nil},
		byHash: make(map[chainhash.Hash]BlockID),
	}
}

// AddNode inserts node into the arena, assigning it a fresh BlockID,
// and indexes it by hash. The node's own id field is set as a side
// effect.
func (bi *BlockIndex) AddNode(node *BlockIndexNode) BlockID {
	id := BlockID(len(bi.nodes))
	node.id = id
	bi.nodes = append(bi.nodes, node)
	bi.byHash[node.Hash] = id
	return id
}

// LookupHash returns the node for hash, or nil if no such block has
// been accepted.
func (bi *BlockIndex) LookupHash(hash chainhash.Hash) *BlockIndexNode {
	id, ok := bi.byHash[hash]
	if !ok {
		return nil
	}
	return bi.node(id)
}

// node resolves id to its node, or nil for nodeNone.
func (bi *BlockIndex) node(id BlockID) *BlockIndexNode {
	if id == nodeNone {
		return nil
	}
	return bi.nodes[id]
}

// Parent returns node's parent, or nil if node is the genesis node.
func (bi *BlockIndex) Parent(node *BlockIndexNode) *BlockIndexNode {
	return bi.node(node.parent)
}

// Next returns the active-chain child of node, or nil if node is not
// on the active chain or has no accepted child yet.
func (bi *BlockIndex) Next(node *BlockIndexNode) *BlockIndexNode {
	return bi.node(node.next)
}

// SetNext sets node's active-chain forward pointer. A nil child clears
// it, matching DisconnectBlock nulling out prev->next.
func (bi *BlockIndex) SetNext(node *BlockIndexNode, child *BlockIndexNode) {
	if child == nil {
		node.next = nodeNone
		return
	}
	node.next = child.id
}

// SetParent links child under parent in the block tree. It does not
// touch the active-chain next pointer.
func (bi *BlockIndex) SetParent(child, parent *BlockIndexNode) {
	child.parent = parent.id
}

// AncestorAt walks node's parent chain back to the ancestor at height,
// or nil if node's chain does not reach that far back.
func (bi *BlockIndex) AncestorAt(node *BlockIndexNode, height int32) *BlockIndexNode {
	for node != nil && node.Height > height {
		node = bi.Parent(node)
	}
	if node == nil || node.Height != height {
		return nil
	}
	return node
}

// NewGenesisNode builds the root BlockIndexNode from header, with
// trust seeded at one and no parent.
func NewGenesisNode(header *wire.BlockHeader, bits uint32) *BlockIndexNode {
	return &BlockIndexNode{
		parent:    nodeNone,
		next:      nodeNone,
		Hash:      header.BlockHash(),
		Height:    0,
		BlockTime: uint32(header.Timestamp.Unix()),
		Bits:      bits,
		Version:   header.Version,
		Trust:     big.NewInt(1),

		StakeModifierGenerated: true,
	}
}

// NewChildNode builds a BlockIndexNode for header extending parent,
// with height and trust derived from it. The caller still links it
// into the BlockIndex via SetParent/AddNode and fills in the
// validation-derived fields (MoneySupply, Mint, stake fields) once
// ConnectBlock succeeds.
func NewChildNode(parent *BlockIndexNode, header *wire.BlockHeader, blockWork *big.Int) *BlockIndexNode {
	trust := new(big.Int).Add(parent.Trust, blockWork)
	return &BlockIndexNode{
		parent:    parent.id,
		next:      nodeNone,
		Hash:      header.BlockHash(),
		Height:    parent.Height + 1,
		BlockTime: uint32(header.Timestamp.Unix()),
		Bits:      header.Bits,
		Version:   header.Version,
		Trust:     trust,
	}
}
