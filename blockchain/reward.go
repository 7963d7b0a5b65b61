// Copyright (c) 2014-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import "github.com/vireo-chain/vireod/chaincfg"

// GetProofOfWorkReward looks up the stepwise PoW reward table for
// height, returning the reward in effect at the highest step not
// exceeding height, plus fees. Schedule entries are sorted ascending
// by Height; an empty schedule, or a height before its first entry,
// pays fees only.
func GetProofOfWorkReward(schedule []chaincfg.RewardStep, height int32, fees int64) int64 {
	var base int64
	for _, step := range schedule {
		if step.Height > height {
			break
		}
		base = step.Reward
	}
	return base + fees
}

// GetProofOfStakeReward computes the PoS block reward for height, plus
// fees.
// Below cutoffHeight it reuses the PoW-style stepwise table baked
// into the PoS schedule by the caller; at or above cutoffHeight it
// follows 40 * 2^(-floor(height/1_000_000)) coins per block,
// interpolated linearly within each million-block halving period and
// dropping to zero once 64 halvings have elapsed, independent of the
// staked input's coin age (coin-age-proportional staking was an earlier, discarded
// design the original source still carries as dead code).
func GetProofOfStakeReward(schedule []chaincfg.RewardStep, cutoffHeight, height int32, fees int64) int64 {
	if height < cutoffHeight {
		var base int64
		for _, step := range schedule {
			if step.Height > height {
				break
			}
			base = step.Reward
		}
		return base + fees
	}

	const coinsPerBlockAtEpochZero int64 = 40 * 1e8
	halvings := height / 1000000
	if halvings >= 64 {
		return fees
	}

	base := coinsPerBlockAtEpochZero >> uint(halvings)
	base -= base * int64(height%1000000) / (2 * 1000000)
	return base + fees
}

// GetDeveloperPayment returns the fixed-fraction developer payment
// owed out of blockValue, per params.DeveloperPaymentFraction parts
// per 100.
func GetDeveloperPayment(params *chaincfg.Params, blockValue int64) int64 {
	return blockValue * params.DeveloperPaymentFraction / 100
}

// GetMasternodePayment returns the masternode payment owed out of a
// PoS block's stake reward, after the developer payment has been
// deducted: params.MasternodePaymentFraction parts per 100 of the
// remainder.
func GetMasternodePayment(params *chaincfg.Params, stakeReward, developerPayment int64) int64 {
	remainder := stakeReward - developerPayment
	if remainder <= 0 {
		return 0
	}
	return remainder * params.MasternodePaymentFraction / 100
}
