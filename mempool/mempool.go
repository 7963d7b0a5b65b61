// Copyright (c) 2014-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mempool

import (
	"time"

	"github.com/vireo-chain/vireod/chainhash"
	"github.com/vireo-chain/vireod/logger"
	"github.com/vireo-chain/vireod/txvalidate"
	"github.com/vireo-chain/vireod/util"
	"github.com/vireo-chain/vireod/wire"
)

var log = logger.RegisterSubSystem("MEMP")

// Mempool holds transactions that have individually passed every
// contextual check but are not yet part of the active chain. It
// implements blockchain.MempoolPurger, so a *ChainManager can drop
// newly-confirmed transactions from it and resurrect ones a
// reorganization disconnected, without this package importing
// blockchain back.
type Mempool struct {
	cfg   *Config
	chain ChainReader

	pool    *transactionsPool
	orphans *OrphanTxPool
	limiter *FreeLimiter
}

// New returns an empty Mempool consulting chain for confirmed state.
func New(cfg *Config, chain ChainReader) *Mempool {
	return &Mempool{
		cfg:     cfg,
		chain:   chain,
		pool:    newTransactionsPool(),
		orphans: NewOrphanTxPool(cfg.MaxOrphanTxSize, cfg.MaxOrphanTxCount),
		limiter: NewFreeLimiter(cfg.FreeTxRateLimit),
	}
}

// AcceptToMemoryPool runs the contextual transaction accept path: the
// stateless structural and standardness checks, in-pool/on-disk
// dedup, in-pool double-spend detection, input resolution and the
// dry-run ConnectInputs check (maturity, prev.time ordering, script
// verification, on-chain double-spend), and finally the fee floor and
// free-relay rate limit. A transaction whose inputs cannot all be
// resolved is parked in the orphan pool and reported as transient
// rather than rejected outright.
func (mp *Mempool) AcceptToMemoryPool(tx *wire.MsgTx, now time.Time) txvalidate.Result {
	hash := tx.TxHash()

	if result := txvalidate.CheckTransaction(tx); !result.IsOk() {
		return result
	}
	if result := checkTransactionStandard(tx, mp.cfg.RelayNonStd); !result.IsOk() {
		return result
	}

	if mp.pool.has(hash) {
		return txvalidate.Transient(txvalidate.TransientAlreadyKnown, "transaction already in the mempool")
	}
	confirmed, err := mp.chain.ContainsTx(hash)
	if err != nil {
		return txvalidate.Fatal("failed to consult the transaction index: " + err.Error())
	}
	if confirmed {
		return txvalidate.Transient(txvalidate.TransientAlreadyKnown, "transaction already confirmed")
	}

	if conflict, ok := mp.pool.conflict(tx); ok {
		return txvalidate.Rejected(0, "conflicts with mempool transaction "+conflict.String())
	}

	fetcher := &poolFetcher{pool: mp.pool, chain: mp.chain}
	spendHeight := mp.chain.TipHeight() + 1
	valueIn, _, result := txvalidate.ConnectInputs(tx, fetcher, spendHeight, now.Unix(), mp.cfg.CoinbaseMaturity)
	if !result.IsOk() {
		if result.Severity == txvalidate.SeverityTransient && result.Kind == txvalidate.TransientMissingParent {
			mp.orphans.Add(tx)
		}
		return result
	}

	var valueOut int64
	for _, out := range tx.TxOut {
		valueOut += out.Value
	}
	fee := valueIn - valueOut
	if fee < 0 {
		return txvalidate.Rejected(100, "transaction outputs exceed its inputs")
	}

	size := tx.SerializeSize()
	minFee := txvalidate.GetMinFee(size, mp.cfg.FeeMode, 0)
	if fee < minFee {
		if !mp.cfg.LimitFreeRelay {
			return txvalidate.Rejected(0, "transaction fee below the minimum relay fee")
		}
		if !mp.limiter.Allow(size, now) {
			return txvalidate.Rejected(0, "free transaction relay rate exceeded")
		}
	}

	mp.pool.add(util.NewTx(tx), fee, now)
	mp.acceptOrphanDescendants(hash, now)
	return txvalidate.Ok
}

// acceptOrphanDescendants walks the orphan pool breadth-first from
// parent, retrying every waiting orphan now that one of its inputs'
// transactions has arrived. An orphan still missing a different input
// re-parks itself (AcceptToMemoryPool does that on its own
// TransientMissingParent path); any other failure permanently drops
// it, since it was already removed from the pool before the retry.
func (mp *Mempool) acceptOrphanDescendants(parent chainhash.Hash, now time.Time) {
	queue := []chainhash.Hash{parent}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]

		for _, tx := range mp.orphans.Children(next) {
			childHash := tx.TxHash()
			mp.orphans.Remove(childHash)
			if result := mp.AcceptToMemoryPool(tx, now); result.IsOk() {
				queue = append(queue, childHash)
			}
		}
	}
}

// RemoveConfirmed implements blockchain.MempoolPurger: it drops every
// non-coinbase/coinstake transaction in txs, which have just been
// confirmed by a connected block and no longer belong in the pool.
func (mp *Mempool) RemoveConfirmed(txs []*wire.MsgTx) {
	for _, tx := range txs {
		if tx.IsCoinBase() || tx.IsCoinStake() {
			continue
		}
		mp.pool.remove(tx.TxHash())
	}
}

// Resurrect implements blockchain.MempoolPurger: a reorganization
// disconnected the block that had confirmed txs, so they are
// unconfirmed again. Each is re-offered to AcceptToMemoryPool on a
// best-effort basis; one that no longer validates against the new tip
// (e.g. its inputs were spent by a transaction now on the active
// chain) is simply dropped.
func (mp *Mempool) Resurrect(txs []*wire.MsgTx) {
	now := time.Now()
	for _, tx := range txs {
		if tx.IsCoinBase() || tx.IsCoinStake() {
			continue
		}
		if result := mp.AcceptToMemoryPool(tx, now); !result.IsOk() && result.Severity != txvalidate.SeverityTransient {
			log.Debugf("resurrected transaction %s did not revalidate: %s", tx.TxHash(), result.Error())
		}
	}
}

// Transactions returns every transaction currently accepted into the
// pool, for relay and block assembly.
func (mp *Mempool) Transactions() []*wire.MsgTx {
	return mp.pool.transactions()
}

// Count returns the number of transactions currently in the pool.
func (mp *Mempool) Count() int {
	return mp.pool.count()
}

// OrphanCount returns the number of transactions currently parked in
// the orphan pool.
func (mp *Mempool) OrphanCount() int {
	return mp.orphans.Len()
}
