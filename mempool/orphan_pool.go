// Copyright (c) 2014-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mempool

import (
	"bytes"
	"crypto/rand"
	"sort"
	"sync"

	"github.com/vireo-chain/vireod/chainhash"
	"github.com/vireo-chain/vireod/wire"
)

// OrphanTxPool holds transactions accepted structurally but whose
// inputs could not all be resolved, keyed by hash and secondarily by
// every input's previous transaction hash so a late-arriving parent -
// whichever input it satisfies - can resolve every dependent orphan
// at once.
type OrphanTxPool struct {
	mu sync.Mutex

	maxSize  int
	maxCount int

	byHash   map[chainhash.Hash]*wire.MsgTx
	byParent map[chainhash.Hash]map[chainhash.Hash]struct{}
}

// NewOrphanTxPool returns an empty pool bounded by maxSize (the
// largest single orphan admitted, in bytes) and maxCount (the largest
// number of orphans held at once).
func NewOrphanTxPool(maxSize, maxCount int) *OrphanTxPool {
	return &OrphanTxPool{
		maxSize:  maxSize,
		maxCount: maxCount,
		byHash:   make(map[chainhash.Hash]*wire.MsgTx),
		byParent: make(map[chainhash.Hash]map[chainhash.Hash]struct{}),
	}
}

// Add stores tx as an orphan, indexed under every input's previous
// transaction hash. A transaction larger than maxSize is rejected
// outright to bound memory; otherwise, if the pool is already at
// maxCount, one existing orphan is evicted pseudo-randomly first.
func (p *OrphanTxPool) Add(tx *wire.MsgTx) bool {
	if tx.SerializeSize() > p.maxSize {
		return false
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.byHash) >= p.maxCount {
		p.evictLocked()
	}

	hash := tx.TxHash()
	p.byHash[hash] = tx
	for _, in := range tx.TxIn {
		parent := in.PreviousOutPoint.Hash
		if p.byParent[parent] == nil {
			p.byParent[parent] = make(map[chainhash.Hash]struct{})
		}
		p.byParent[parent][hash] = struct{}{}
	}
	return true
}

// evictLocked drops one orphan chosen by a lower-bound lookup against
// a random probe hash: cheaper than tracking real insertion order and
// resistant to an adversary picking which orphan gets evicted next.
func (p *OrphanTxPool) evictLocked() {
	if len(p.byHash) == 0 {
		return
	}

	hashes := make([]chainhash.Hash, 0, len(p.byHash))
	for h := range p.byHash {
		hashes = append(hashes, h)
	}
	sort.Slice(hashes, func(i, j int) bool {
		return bytes.Compare(hashes[i][:], hashes[j][:]) < 0
	})

	var probe chainhash.Hash
	_, _ = rand.Read(probe[:])

	idx := sort.Search(len(hashes), func(i int) bool {
		return bytes.Compare(hashes[i][:], probe[:]) >= 0
	})
	if idx == len(hashes) {
		idx = 0
	}
	p.removeLocked(hashes[idx])
}

// Children returns, and does not remove, every orphan currently
// waiting on some input whose previous transaction hash is parent.
func (p *OrphanTxPool) Children(parent chainhash.Hash) []*wire.MsgTx {
	p.mu.Lock()
	defer p.mu.Unlock()

	children := p.byParent[parent]
	txs := make([]*wire.MsgTx, 0, len(children))
	for hash := range children {
		if tx, ok := p.byHash[hash]; ok {
			txs = append(txs, tx)
		}
	}
	return txs
}

// Remove deletes hash from the pool unconditionally, regardless of
// why it is leaving (accepted, rejected, or evicted).
func (p *OrphanTxPool) Remove(hash chainhash.Hash) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.removeLocked(hash)
}

func (p *OrphanTxPool) removeLocked(hash chainhash.Hash) {
	tx, ok := p.byHash[hash]
	if !ok {
		return
	}
	delete(p.byHash, hash)

	for _, in := range tx.TxIn {
		parent := in.PreviousOutPoint.Hash
		if children, ok := p.byParent[parent]; ok {
			delete(children, hash)
			if len(children) == 0 {
				delete(p.byParent, parent)
			}
		}
	}
}

// Len reports the number of orphan transactions currently held.
func (p *OrphanTxPool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.byHash)
}
