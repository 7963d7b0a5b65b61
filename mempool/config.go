// Copyright (c) 2014-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package mempool holds transactions that have been individually
// validated but are not yet part of the active chain: the pool of
// accepted, relayable transactions and the orphan pool of
// transactions still waiting on an unseen parent.
package mempool

import (
	"github.com/vireo-chain/vireod/chaincfg"
	"github.com/vireo-chain/vireod/txvalidate"
)

const (
	defaultMaxOrphanTxSize  = 5000
	defaultMaxOrphanTxCount = 10000

	// defaultFreeTxRateLimit is the default free-relay budget, in
	// byte-units per minute: 15 transactions at the 10 000-byte-unit
	// reference size.
	defaultFreeTxRateLimit = 15 * 10000.0
)

// Config bundles the tunables AcceptToMemoryPool and the orphan pool
// need, derived once per network from chaincfg.Params.
type Config struct {
	// MaxOrphanTxSize rejects any orphan transaction larger than this
	// many bytes outright, regardless of the count cap.
	MaxOrphanTxSize int

	// MaxOrphanTxCount bounds the orphan pool; once full, Add evicts a
	// pseudo-randomly chosen entry before inserting the new one.
	MaxOrphanTxCount int

	// FreeTxRateLimit is the exponentially-decaying byte budget a
	// below-minimum-fee transaction may consume per minute.
	FreeTxRateLimit float64

	// LimitFreeRelay, when false, rejects any transaction below the
	// minimum relay fee outright instead of consulting the rate
	// limiter.
	LimitFreeRelay bool

	// RelayNonStd, when true, skips the standard-script and
	// standard-signature-script checks entirely.
	RelayNonStd bool

	// CoinbaseMaturity is the depth a coinbase or coinstake output
	// must have before ConnectInputs allows it to be spent.
	CoinbaseMaturity int32

	// FeeMode selects which of GetMinFee's floors AcceptToMemoryPool
	// enforces.
	FeeMode txvalidate.FeeMode
}

// DefaultConfig derives a Config from a network's consensus
// parameters.
func DefaultConfig(params *chaincfg.Params) *Config {
	return &Config{
		MaxOrphanTxSize:  defaultMaxOrphanTxSize,
		MaxOrphanTxCount: defaultMaxOrphanTxCount,
		FreeTxRateLimit:  defaultFreeTxRateLimit,
		LimitFreeRelay:   true,
		RelayNonStd:      false,
		CoinbaseMaturity: int32(params.CoinbaseMaturity),
		FeeMode:          txvalidate.FeeModeSendOrSize,
	}
}
