// Copyright (c) 2014-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txvalidate

import "github.com/vireo-chain/vireod/util"

// MinTxFee is the floor transaction fee below which GetMinFee never
// drops, regardless of transaction size.
const MinTxFee = 10000

// MinRelayTxFee is the fee rate, in atoms per 1000 bytes, used when a
// caller is not rate-limiting free transactions.
const MinRelayTxFee = 1000

// MaxBlockSizeGen is the maximum size a miner-generated block may reach.
// In FeeModeSendOrSize, GetMinFee begins scaling fees upward once the
// candidate block reaches MaxBlockSizeGen/2, and returns MaxMoney once
// it reaches MaxBlockSizeGen.
const MaxBlockSizeGen = MaxBlockSize / 2

// FeeMode selects which floor GetMinFee enforces.
type FeeMode int

const (
	// FeeModeRelay enforces only MinRelayTxFee.
	FeeModeRelay FeeMode = iota

	// FeeModeSendOrSize enforces MinTxFee and applies the scale-up once
	// the candidate block approaches MaxBlockSizeGen.
	FeeModeSendOrSize
)

// GetMinFee computes the minimum required fee for a transaction of the
// given serialized size, to be included in a candidate block whose
// current size is newBlockSize.
func GetMinFee(size int, mode FeeMode, newBlockSize int) int64 {
	baseFee := int64(MinRelayTxFee)
	if mode == FeeModeSendOrSize {
		baseFee = MinTxFee
	}

	fee := baseFee * int64(1+size/1000)

	if mode == FeeModeSendOrSize && newBlockSize >= MaxBlockSizeGen/2 {
		if newBlockSize >= MaxBlockSizeGen {
			return util.MaxMoney
		}
		fee *= int64(MaxBlockSizeGen) / int64(MaxBlockSizeGen-newBlockSize)
	}

	if fee > util.MaxMoney {
		fee = util.MaxMoney
	}
	return fee
}

// HasDustOutput reports whether the output value valueOut falls below
// MainNetMinTxOutputAmount, the cent threshold that forces the
// minimum fee regardless of size.
func HasDustOutput(valueOut int64) bool {
	return valueOut < MainNetMinTxOutputAmount
}
