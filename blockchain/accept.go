// Copyright (c) 2014-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"math/big"
	"time"

	"github.com/pkg/errors"

	"github.com/vireo-chain/vireod/chainhash"
	"github.com/vireo-chain/vireod/database"
	"github.com/vireo-chain/vireod/txvalidate"
	"github.com/vireo-chain/vireod/util"
	"github.com/vireo-chain/vireod/wire"
)

var errKernelAboveTarget = errors.New("stake kernel hash does not fall below the proof-of-stake target")

// AcceptBlock runs CheckBlock plus every contextual rule that needs the
// block index and storage to evaluate - retarget, checkpoints,
// proof-of-stake kernel, coinbase height - and, on success, writes the
// block to the store, links it into the index, and asks MaybeAdvance
// to fold it into the active chain. A block whose parent is unknown is
// parked in the orphan pool and reported as a transient miss rather
// than a rule violation.
func (cm *ChainManager) AcceptBlock(block *util.Block, now time.Time) (*BlockIndexNode, txvalidate.Result) {
	hash := *block.Hash()
	if existing := cm.index.LookupHash(hash); existing != nil {
		return existing, txvalidate.Transient(txvalidate.TransientAlreadyKnown, "block already accepted")
	}

	if result := cm.validator.CheckBlock(block, now); !result.IsOk() {
		return nil, result
	}

	header := &block.MsgBlock().Header
	parent := cm.index.LookupHash(header.PrevBlock)
	if parent == nil {
		cm.orphans.Add(block, header.PrevBlock)
		log.Debugf("block %s parked as an orphan, parent %s unknown", hash, header.PrevBlock)
		return nil, txvalidate.Transient(txvalidate.TransientMissingParent, "parent block not found")
	}

	height := parent.Height + 1
	isPoS := block.MsgBlock().IsProofOfStake()

	if !isPoS && height > cm.params.LastPowBlock {
		return nil, txvalidate.Rejected(100, "proof-of-work block submitted after the last allowed proof-of-work height")
	}

	lastOfKind := lastNodeOfKind(cm.index, parent, isPoS)
	var prevBits uint32
	var actualSpacing int64
	if lastOfKind != nil {
		prevBits = lastOfKind.Bits
		actualSpacing = int64(header.Timestamp.Unix()) - int64(lastOfKind.BlockTime)
	} else {
		prevBits = BigToCompact(cm.limitFor(isPoS))
		actualSpacing = int64(cm.params.TargetSpacing.Seconds())
	}
	wantBits := GetNextTargetRequired(prevBits, actualSpacing, int64(cm.params.TargetSpacing.Seconds()), int64(cm.params.TargetTimespan.Seconds()), cm.limitFor(isPoS))
	if header.Bits != wantBits {
		return nil, txvalidate.Rejected(100, "block bits does not match the required retarget")
	}

	if header.Timestamp.Unix() <= GetMedianTimePast(cm.index, parent) {
		return nil, txvalidate.Rejected(100, "block timestamp does not exceed its ancestors' median past time")
	}

	if err := cm.checkpoints.CheckHardened(height, hash); err != nil {
		return nil, txvalidate.Rejected(100, err.Error())
	}
	if violated, fatal := cm.checkpoints.CheckSynchronized(height, hash); violated {
		if fatal {
			return nil, txvalidate.Rejected(100, "block contradicts the synchronized checkpoint")
		}
		log.Warnf("block %s at height %d conflicts with the synchronized checkpoint (advisory)", hash, height)
	}

	if !CheckCoinbaseHeight(block.MsgBlock().Transactions[0], height) {
		return nil, txvalidate.Rejected(100, "coinbase does not commit to the correct block height")
	}

	var proofHash chainhash.Hash
	var entropyBit uint8
	if isPoS {
		var err error
		proofHash, entropyBit, err = cm.checkProofOfStakeKernel(block, header, parent)
		if err != nil {
			return nil, txvalidate.Rejected(100, "proof-of-stake kernel check failed: "+err.Error())
		}
	}

	blockWork := CalcWork(header.Bits)
	node := NewChildNode(parent, header, blockWork)
	node.IsProofOfStake = isPoS
	node.StakeEntropyBit = entropyBit
	node.StakeModifier, node.StakeModifierGenerated = ComputeStakeModifier(cm.index, parent, proofHash)

	raw, err := block.Bytes()
	if err != nil {
		return nil, txvalidate.Fatal("failed to serialize block for storage: " + err.Error())
	}
	node.FileOffset = 0
	node.FileSize = uint32(len(raw))

	ctx, err := database.NewTx(cm.db)
	if err != nil {
		return nil, txvalidate.Fatal("failed to begin storage transaction: " + err.Error())
	}
	if err := database.StoreBlock(ctx, hash.CloneBytes(), raw); err != nil {
		ctx.RollbackUnlessClosed()
		return nil, txvalidate.Fatal("failed to store block: " + err.Error())
	}
	if err := ctx.Commit(); err != nil {
		return nil, txvalidate.Fatal("failed to commit block store transaction: " + err.Error())
	}

	cm.index.SetParent(node, parent)
	cm.index.AddNode(node)

	result := cm.MaybeAdvance(node, block)
	if !result.IsOk() {
		return node, result
	}

	cm.acceptOrphanDescendants(hash, now)
	return node, txvalidate.Ok
}

// acceptOrphanDescendants walks the orphan pool breadth-first from
// parent, accepting every dependent orphan in turn. Each orphan is
// removed from the pool regardless of its own accept outcome, so a
// rejected orphan does not block its unrelated siblings and a
// successfully accepted one is free to unblock its own children.
func (cm *ChainManager) acceptOrphanDescendants(parent chainhash.Hash, now time.Time) {
	queue := []chainhash.Hash{parent}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]

		children := cm.orphans.Children(next)
		for _, child := range children {
			childHash := *child.Hash()
			cm.orphans.Remove(childHash)
			if _, result := cm.AcceptBlock(child, now); result.IsOk() {
				queue = append(queue, childHash)
			}
		}
	}
}

// lastNodeOfKind walks node's ancestors (node included) back to the
// most recent one whose IsProofOfStake matches wantPoS, the "last
// block of matching kind" retarget rule requires. Returns the genesis
// node if no such ancestor exists (e.g. for the very first block of its
// kind).
func lastNodeOfKind(bi *BlockIndex, node *BlockIndexNode, wantPoS bool) *BlockIndexNode {
	for n := node; n != nil; n = bi.Parent(n) {
		if n.IsProofOfStake == wantPoS || n.Height == 0 {
			return n
		}
	}
	return nil
}

func (cm *ChainManager) limitFor(isPoS bool) *big.Int {
	if isPoS {
		return cm.params.PosLimit
	}
	return cm.params.PowLimit
}

// checkProofOfStakeKernel verifies the stake kernel for a PoS
// candidate block against its coinstake's first input, fetching that
// input's previous transaction from storage (outside any in-progress
// write transaction, since AcceptBlock runs before the block's own
// storage transaction opens). The modifier used is parent's own -
// the one in effect before this block - not a value recomputed from
// this block's own (not yet known to be valid) kernel hash.
func (cm *ChainManager) checkProofOfStakeKernel(block *util.Block, header *wire.BlockHeader, parent *BlockIndexNode) (chainhash.Hash, uint8, error) {
	coinstake := block.MsgBlock().Transactions[1]
	outpoint := coinstake.TxIn[0].PreviousOutPoint

	ctx := database.NoTx(cm.db)
	fetcher := &connectBlockFetcher{ctx: ctx, cm: cm, overlay: make(map[wire.OutPoint]*txvalidate.PrevOut)}
	prev, err := fetcher.FetchPrevOut(outpoint)
	if err != nil {
		return chainhash.Hash{}, 0, err
	}

	proofHash, ok, err := CheckProofOfStake(
		parent.StakeModifier,
		uint32(header.Timestamp.Unix()),
		uint32(prev.Tx.Timestamp.Unix()),
		database.DiskTxPos{TxOffset: prev.Index.Pos.TxOffset},
		outpoint,
		uint32(coinstake.Timestamp.Unix()),
		prev.Tx.TxOut[outpoint.Index].Value,
		cm.params.StakeMinAge,
		cm.params.StakeMaxAge,
		header.Bits,
	)
	if err != nil {
		return chainhash.Hash{}, 0, err
	}
	if !ok {
		return chainhash.Hash{}, 0, errKernelAboveTarget
	}
	return proofHash, proofHash.CloneBytes()[0] & 1, nil
}
