// Copyright (c) 2014-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mempool

import (
	"sync"
	"time"

	"github.com/vireo-chain/vireod/chainhash"
	"github.com/vireo-chain/vireod/util"
	"github.com/vireo-chain/vireod/wire"
)

// poolEntry is one transaction accepted into the mempool.
type poolEntry struct {
	tx      *util.Tx
	addedAt time.Time
	fee     int64
}

// transactionsPool is the mempool's core index: every accepted
// transaction by hash, plus a spend index over their inputs so a
// second transaction spending the same outpoint is caught before it
// is ever considered for ConnectInputs.
type transactionsPool struct {
	mu sync.RWMutex

	byHash  map[chainhash.Hash]*poolEntry
	spentBy map[wire.OutPoint]chainhash.Hash
}

func newTransactionsPool() *transactionsPool {
	return &transactionsPool{
		byHash:  make(map[chainhash.Hash]*poolEntry),
		spentBy: make(map[wire.OutPoint]chainhash.Hash),
	}
}

func (tp *transactionsPool) has(hash chainhash.Hash) bool {
	tp.mu.RLock()
	defer tp.mu.RUnlock()
	_, ok := tp.byHash[hash]
	return ok
}

// conflict returns the hash of a pool transaction that already spends
// one of tx's inputs, if any.
func (tp *transactionsPool) conflict(tx *wire.MsgTx) (chainhash.Hash, bool) {
	tp.mu.RLock()
	defer tp.mu.RUnlock()
	for _, in := range tx.TxIn {
		if hash, ok := tp.spentBy[in.PreviousOutPoint]; ok {
			return hash, true
		}
	}
	return chainhash.Hash{}, false
}

func (tp *transactionsPool) add(tx *util.Tx, fee int64, now time.Time) {
	tp.mu.Lock()
	defer tp.mu.Unlock()

	hash := *tx.Hash()
	tp.byHash[hash] = &poolEntry{tx: tx, addedAt: now, fee: fee}
	for _, in := range tx.MsgTx().TxIn {
		tp.spentBy[in.PreviousOutPoint] = hash
	}
}

func (tp *transactionsPool) remove(hash chainhash.Hash) *util.Tx {
	tp.mu.Lock()
	defer tp.mu.Unlock()

	entry, ok := tp.byHash[hash]
	if !ok {
		return nil
	}
	delete(tp.byHash, hash)
	for _, in := range entry.tx.MsgTx().TxIn {
		if tp.spentBy[in.PreviousOutPoint] == hash {
			delete(tp.spentBy, in.PreviousOutPoint)
		}
	}
	return entry.tx
}

// fetchPrevOut returns the mempool-pending transaction outpoint's
// hash names, if it is itself an unconfirmed transaction in the pool.
func (tp *transactionsPool) fetchPrevOut(outpoint wire.OutPoint) (*wire.MsgTx, bool) {
	tp.mu.RLock()
	defer tp.mu.RUnlock()
	entry, ok := tp.byHash[outpoint.Hash]
	if !ok {
		return nil, false
	}
	return entry.tx.MsgTx(), true
}

func (tp *transactionsPool) transactions() []*wire.MsgTx {
	tp.mu.RLock()
	defer tp.mu.RUnlock()
	out := make([]*wire.MsgTx, 0, len(tp.byHash))
	for _, entry := range tp.byHash {
		out = append(out, entry.tx.MsgTx())
	}
	return out
}

func (tp *transactionsPool) count() int {
	tp.mu.RLock()
	defer tp.mu.RUnlock()
	return len(tp.byHash)
}
