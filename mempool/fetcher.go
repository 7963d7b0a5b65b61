// Copyright (c) 2014-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mempool

import (
	"github.com/vireo-chain/vireod/chainhash"
	"github.com/vireo-chain/vireod/database"
	"github.com/vireo-chain/vireod/txvalidate"
	"github.com/vireo-chain/vireod/wire"
)

// ChainReader is the slice of *blockchain.ChainManager the mempool
// needs: resolving a confirmed previous output, checking whether a
// transaction is already confirmed, and reading the active tip's
// height. Declared here rather than depending on *blockchain.
// ChainManager directly so tests can substitute a fake.
type ChainReader interface {
	FetchPrevOut(outpoint wire.OutPoint) (*txvalidate.PrevOut, error)
	ContainsTx(hash chainhash.Hash) (bool, error)
	TipHeight() int32
}

// poolFetcher implements txvalidate.InputFetcher over the mempool's
// own pending transactions first, falling back to the confirmed chain
// - the same overlay-then-storage layering ChainManager uses for
// ConnectBlock, so a chain of unconfirmed spends validates correctly.
type poolFetcher struct {
	pool  *transactionsPool
	chain ChainReader
}

func (f *poolFetcher) FetchPrevOut(outpoint wire.OutPoint) (*txvalidate.PrevOut, error) {
	if tx, ok := f.pool.fetchPrevOut(outpoint); ok {
		return &txvalidate.PrevOut{
			Tx:        tx,
			BlockTime: tx.Timestamp.Unix(),
			Index:     &database.TxIndex{Spent: make([]*database.DiskTxPos, len(tx.TxOut))},
		}, nil
	}
	return f.chain.FetchPrevOut(outpoint)
}
