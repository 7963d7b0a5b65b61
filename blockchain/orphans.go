// Copyright (c) 2014-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"sync"

	"github.com/vireo-chain/vireod/chainhash"
	"github.com/vireo-chain/vireod/util"
	"github.com/vireo-chain/vireod/wire"
)

// stakeClaim identifies a coinstake's kernel: the outpoint it spends
// and the claimed block time. Indexing orphans by this pair denies a
// peer from flooding the pool with many orphan blocks that all race
// to claim the same stake, while still admitting the legitimate case
// of a child orphan chained on top of one of them.
type stakeClaim struct {
	outpoint wire.OutPoint
	time     uint32
}

// OrphanBlockPool holds blocks accepted into memory but whose parent
// is not yet known, keyed by hash and secondarily by the missing
// parent's hash so a late-arriving parent can resolve every
// dependent orphan at once.
type OrphanBlockPool struct {
	mu sync.Mutex

	byHash        map[chainhash.Hash]*util.Block
	byParent      map[chainhash.Hash]map[chainhash.Hash]struct{}
	byStakeClaim  map[stakeClaim]chainhash.Hash
}

// NewOrphanBlockPool returns an empty OrphanBlockPool.
func NewOrphanBlockPool() *OrphanBlockPool {
	return &OrphanBlockPool{
		byHash:       make(map[chainhash.Hash]*util.Block),
		byParent:     make(map[chainhash.Hash]map[chainhash.Hash]struct{}),
		byStakeClaim: make(map[stakeClaim]chainhash.Hash),
	}
}

// Add stores block as an orphan of its (currently unknown) parent. If
// the block is a proof-of-stake block whose kernel outpoint and claim
// time are already claimed by a different orphan, and that orphan has
// no child waiting on it, Add rejects the duplicate claim to deny
// stake-flooding; an existing orphan with a pending child is assumed
// legitimate (a staker may resubmit after a chain tip shifted) and is
// allowed to be superseded.
func (p *OrphanBlockPool) Add(block *util.Block, missingParent chainhash.Hash) (accepted bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	hash := block.Hash()

	if block.MsgBlock().IsProofOfStake() {
		claim := stakeClaim{
			outpoint: block.MsgBlock().Transactions[1].TxIn[0].PreviousOutPoint,
			time:     uint32(block.MsgBlock().Transactions[1].Timestamp.Unix()),
		}
		if existing, ok := p.byStakeClaim[claim]; ok && existing != *hash {
			if !p.hasChild(existing) {
				return false
			}
		}
		p.byStakeClaim[claim] = *hash
	}

	p.byHash[*hash] = block
	if p.byParent[missingParent] == nil {
		p.byParent[missingParent] = make(map[chainhash.Hash]struct{})
	}
	p.byParent[missingParent][*hash] = struct{}{}
	return true
}

// hasChild reports whether some orphan in the pool names parent as
// its missing parent.
func (p *OrphanBlockPool) hasChild(parent chainhash.Hash) bool {
	children, ok := p.byParent[parent]
	return ok && len(children) > 0
}

// Children returns, and does not remove, every orphan currently
// waiting on parent.
func (p *OrphanBlockPool) Children(parent chainhash.Hash) []*util.Block {
	p.mu.Lock()
	defer p.mu.Unlock()

	children := p.byParent[parent]
	blocks := make([]*util.Block, 0, len(children))
	for hash := range children {
		if block, ok := p.byHash[hash]; ok {
			blocks = append(blocks, block)
		}
	}
	return blocks
}

// Remove deletes hash from the pool unconditionally, regardless of
// why it is leaving (accepted, rejected, or evicted).
func (p *OrphanBlockPool) Remove(hash chainhash.Hash) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.removeLocked(hash)
}

func (p *OrphanBlockPool) removeLocked(hash chainhash.Hash) {
	block, ok := p.byHash[hash]
	if !ok {
		return
	}
	delete(p.byHash, hash)

	parent := block.MsgBlock().Header.PrevBlock
	if children, ok := p.byParent[parent]; ok {
		delete(children, hash)
		if len(children) == 0 {
			delete(p.byParent, parent)
		}
	}
	for claim, h := range p.byStakeClaim {
		if h == hash {
			delete(p.byStakeClaim, claim)
		}
	}
}

// Len reports the number of orphan blocks currently held.
func (p *OrphanBlockPool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.byHash)
}
