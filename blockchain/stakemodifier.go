// Copyright (c) 2014-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"encoding/binary"
	"math/big"

	"github.com/pkg/errors"

	"github.com/vireo-chain/vireod/chainhash"
	"github.com/vireo-chain/vireod/database"
	"github.com/vireo-chain/vireod/wire"
)

// stakeModifierInterval is the spacing, in seconds, at which a new
// block is eligible to roll the stake modifier forward.
const stakeModifierInterval = 10 * 60

// ComputeStakeModifier derives the next stake modifier by hashing
// kernelHash together with the previous chain tip's modifier, once per
// stakeModifierInterval; between intervals the modifier is carried
// forward unchanged so a staker cannot roll it at will by timing
// block submission. The stake entropy bits of earlier blocks are not
// used.
func ComputeStakeModifier(bi *BlockIndex, prev *BlockIndexNode, kernelHash chainhash.Hash) (modifier uint64, generated bool) {
	if prev == nil {
		return 0, true
	}
	if !prev.StakeModifierGenerated {
		return prev.StakeModifier, false
	}

	if prev.BlockTime/stakeModifierInterval == modifierTimeSlot(prev, bi) {
		return prev.StakeModifier, true
	}

	h := chainhash.HashH(append(kernelHash.CloneBytes(), uint64ToBytes(prev.StakeModifier)...))
	return binary.LittleEndian.Uint64(h[:8]), true
}

// modifierTimeSlot reports the stakeModifierInterval-sized time slot
// of prev's parent, used to decide whether prev itself crossed into a
// new slot and is therefore eligible to roll the modifier.
func modifierTimeSlot(prev *BlockIndexNode, bi *BlockIndex) uint32 {
	parent := bi.Parent(prev)
	if parent == nil {
		return 0
	}
	return parent.BlockTime / stakeModifierInterval
}

func uint64ToBytes(v uint64) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, v)
	return b
}

// StakeKernelWeight bounds a stake input's effective age, in seconds,
// for kernel-hash weighting: ages are clamped to [0, StakeMaxAge] and
// an input younger than StakeMinAge is not eligible to stake at all.
func StakeKernelWeight(stakeMinAge, stakeMaxAge int64, coinAgeSeconds int64) (weight int64, eligible bool) {
	if coinAgeSeconds < stakeMinAge {
		return 0, false
	}
	if coinAgeSeconds > stakeMaxAge {
		return stakeMaxAge, true
	}
	return coinAgeSeconds, true
}

// CheckProofOfStake verifies the stake kernel: the coinstake's first
// input must reference an output old enough to stake, and
// hash(modifier || block-time || txPrev-time || txPrev-offset ||
// outpoint || tx-time) interpreted as a 256-bit integer must fall
// below target * weight, where weight is the clamped coin-age-seconds
// of the spent output scaled by its value. It returns the proof hash
// for the caller to record on the accepted node.
func CheckProofOfStake(
	modifier uint64,
	blockTime uint32,
	prevTxTime uint32,
	prevTxPos database.DiskTxPos,
	outpoint wire.OutPoint,
	txTime uint32,
	prevOutValue int64,
	stakeMinAge, stakeMaxAge int64,
	bits uint32,
) (proofHash chainhash.Hash, ok bool, err error) {
	coinAge := int64(txTime) - int64(prevTxTime)
	weightSeconds, eligible := StakeKernelWeight(stakeMinAge, stakeMaxAge, coinAge)
	if !eligible {
		return chainhash.Hash{}, false, errors.New("stake input has not reached the minimum age to stake")
	}

	buf := make([]byte, 0, 8+4+4+4+chainhash.HashSize+4+4)
	buf = append(buf, uint64ToBytes(modifier)...)
	buf = appendUint32LE(buf, blockTime)
	buf = appendUint32LE(buf, prevTxTime)
	buf = appendUint32LE(buf, prevTxPos.TxOffset)
	buf = append(buf, outpoint.Hash.CloneBytes()...)
	buf = appendUint32LE(buf, outpoint.Index)
	buf = appendUint32LE(buf, txTime)

	proofHash = chainhash.HashH(buf)

	target := CompactToBig(bits)
	weight := new(big.Int).Mul(big.NewInt(prevOutValue/1e8), big.NewInt(weightSeconds))
	target.Mul(target, weight)

	proofInt := hashToBig(proofHash)
	return proofHash, proofInt.Cmp(target) < 0, nil
}

func appendUint32LE(buf []byte, v uint32) []byte {
	return append(buf, byte(v), byte(v>>8), byte(v>>16), byte(v>>24))
}

// hashToBig interprets a hash's raw bytes as a little-endian unsigned
// integer, matching how a proof hash is compared against a target.
func hashToBig(hash chainhash.Hash) *big.Int {
	raw := hash.CloneBytes()
	reversed := make([]byte, len(raw))
	for i, b := range raw {
		reversed[len(raw)-1-i] = b
	}
	return new(big.Int).SetBytes(reversed)
}
