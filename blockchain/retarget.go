// Copyright (c) 2014-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import "math/big"

// CompactToBig decodes the compact representation a block header's
// Bits field uses (the IEEE-754-like mantissa/exponent packing
// inherited from Bitcoin) into a big.Int.
func CompactToBig(compact uint32) *big.Int {
	mantissa := compact & 0x007fffff
	isNegative := compact&0x00800000 != 0
	exponent := compact >> 24

	var n *big.Int
	if exponent <= 3 {
		mantissa >>= 8 * (3 - exponent)
		n = big.NewInt(int64(mantissa))
	} else {
		n = big.NewInt(int64(mantissa))
		n.Lsh(n, uint(8*(exponent-3)))
	}

	if isNegative {
		n = n.Neg(n)
	}
	return n
}

// BigToCompact encodes n into the compact representation used by a
// block header's Bits field.
func BigToCompact(n *big.Int) uint32 {
	if n.Sign() == 0 {
		return 0
	}

	var mantissa uint32
	exponent := uint(len(n.Bytes()))

	if exponent <= 3 {
		mantissa = uint32(n.Bits()[0])
		mantissa <<= 8 * (3 - exponent)
	} else {
		tn := new(big.Int).Set(n)
		mantissa = uint32(tn.Rsh(tn, 8*(exponent-3)).Bits()[0])
	}

	if mantissa&0x00800000 != 0 {
		mantissa >>= 8
		exponent++
	}

	compact := uint32(exponent)<<24 | mantissa
	if n.Sign() < 0 {
		compact |= 0x00800000
	}
	return compact
}

// CalcWork returns the proof-of-work "work" a block with the given
// Bits contributes to a chain's accumulated trust: 2^256 / (target+1),
// so smaller targets (harder blocks) contribute more work.
func CalcWork(bits uint32) *big.Int {
	target := CompactToBig(bits)
	if target.Sign() <= 0 {
		return big.NewInt(0)
	}
	denominator := new(big.Int).Add(target, big.NewInt(1))
	return new(big.Int).Div(oneLsh256, denominator)
}

var oneLsh256 = new(big.Int).Lsh(big.NewInt(1), 256)

// GetNextTargetRequired computes the next block's required Bits by
// an exponential moving average toward targetSpacing: new_bits scales
// old_bits by ((interval-1)*spacing + 2*actualSpacing) /
// ((interval+1)*spacing), where interval = timespan/spacing, then
// clamps to limit. prevBits are the Bits of the most recent block of
// the same kind (PoW or PoS) as the block being built;
// actualSpacingSeconds is the wall-clock gap since that block.
func GetNextTargetRequired(prevBits uint32, actualSpacingSeconds int64, targetSpacingSeconds, targetTimespanSeconds int64, limit *big.Int) uint32 {
	interval := targetTimespanSeconds / targetSpacingSeconds

	minSpacing := targetSpacingSeconds / 4
	maxSpacing := targetSpacingSeconds * 4
	if actualSpacingSeconds < minSpacing {
		actualSpacingSeconds = minSpacing
	}
	if actualSpacingSeconds > maxSpacing {
		actualSpacingSeconds = maxSpacing
	}

	target := CompactToBig(prevBits)

	numerator := (interval-1)*targetSpacingSeconds + 2*actualSpacingSeconds
	denominator := (interval + 1) * targetSpacingSeconds

	target.Mul(target, big.NewInt(numerator))
	target.Div(target, big.NewInt(denominator))

	if target.Cmp(limit) > 0 {
		target.Set(limit)
	}
	return BigToCompact(target)
}
