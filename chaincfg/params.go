// Copyright (c) 2014-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package chaincfg defines the chain parameters for each supported
// network: proof-of-work/proof-of-stake limits, retarget spacing,
// reward schedule, checkpoints, and masternode/developer payout
// fractions.
package chaincfg

import (
	"math/big"
	"time"

	"github.com/pkg/errors"
	"github.com/vireo-chain/vireod/chainhash"
	"github.com/vireo-chain/vireod/wire"
)

var bigOne = big.NewInt(1)

// mainPowLimit is the highest proof-of-work target a mainnet block can
// have, the value 2^224 - 1.
var mainPowLimit = new(big.Int).Sub(new(big.Int).Lsh(bigOne, 224), bigOne)

// mainPosLimit is the highest proof-of-stake target a mainnet block can
// have, the value 2^232 - 1. PoS targets are looser than PoW since
// stake weight already costs coin-age.
var mainPosLimit = new(big.Int).Sub(new(big.Int).Lsh(bigOne, 232), bigOne)

// Checkpoint defines a hardened checkpoint: a known-good (height, hash)
// pair. Any block arriving at that height with a different hash is
// rejected outright.
type Checkpoint struct {
	Height int32
	Hash   chainhash.Hash
}

// RewardStep is one entry of a stepwise reward schedule: the reward
// paid at heights [Height, next step's Height).
type RewardStep struct {
	Height int32
	Reward int64
}

// Params defines a network by its consensus parameters.
type Params struct {
	// Name is a human-readable identifier for the network.
	Name string

	// Net is the magic bytes identifying the network in the block file
	// format and wire handshake.
	Net uint32

	// DefaultPort is the default peer-to-peer port for the network.
	DefaultPort string

	// GenesisBlock is the first block of the chain.
	GenesisBlock *wire.MsgBlock

	// GenesisHash is the hash of GenesisBlock, cached to avoid
	// recomputing it.
	GenesisHash chainhash.Hash

	// PowLimit is the highest allowed proof-of-work target.
	PowLimit *big.Int

	// PosLimit is the highest allowed proof-of-stake target.
	PosLimit *big.Int

	// LastPowBlock is the height of the last block that may use
	// proof-of-work; every subsequent block must be proof-of-stake.
	LastPowBlock int32

	// CoinbaseMaturity is the number of blocks a coinbase or coinstake
	// output must sit before it can be spent.
	CoinbaseMaturity int64

	// StakeMinAge and StakeMaxAge bound the coin-age (in seconds) a
	// stake input may carry: too young is not eligible to stake, too
	// old is capped for kernel weight purposes.
	StakeMinAge int64
	StakeMaxAge int64

	// TargetTimespan is the total interval over which retargeting is
	// averaged; TargetSpacing is the desired time between blocks of
	// matching kind (PoW or PoS).
	TargetTimespan time.Duration
	TargetSpacing  time.Duration

	// FutureDrift bounds how far into the future a block timestamp may
	// claim to be.
	FutureDrift time.Duration

	// PowRewardSchedule and PosRewardSchedule are the stepwise reward
	// tables described in the reward schedule module, in effect below
	// PosRewardScheduleCutoffHeight for PosRewardSchedule. Entries must
	// be sorted ascending by Height.
	PowRewardSchedule             []RewardStep
	PosRewardSchedule             []RewardStep
	PosRewardScheduleCutoffHeight int32

	// MasternodePaymentFraction and DeveloperPaymentFraction are fixed
	// fractions expressed as parts per 100: the developer fraction is
	// taken of a PoS block's stake reward, the masternode fraction of
	// what remains of the stake reward after the developer payment.
	MasternodePaymentFraction int64
	DeveloperPaymentFraction  int64

	// EnforceMasternodePaymentHeight and EnforceDeveloperPaymentHeight
	// are the heights at which the corresponding payout becomes a hard
	// rule rather than advisory logging.
	EnforceMasternodePaymentHeight int32
	EnforceDeveloperPaymentHeight  int32

	// MasternodePaymentDoSWeight is the DoS weight assigned to a PoS
	// block that fails the (enforced) masternode payment rule.
	MasternodePaymentDoSWeight int

	// DeveloperPaymentScript is the script new coin must pay to satisfy
	// the developer payment rule.
	DeveloperPaymentScript []byte

	// Checkpoints is the hardened checkpoint table, sorted ascending by
	// Height.
	Checkpoints []Checkpoint

	// CheckpointMasterPubKey verifies signed synchronized-checkpoint
	// messages from the checkpoint master key. Nil disables
	// synchronized checkpoints for the network.
	CheckpointMasterPubKey []byte
}

// Network magic bytes for the bootstrap block file format.
const (
	MainNetMagic uint32 = 0xb2d1f4a3
	TestNetMagic uint32 = 0xaff4c1a2
)

// MainNetParams defines the parameters for the main network.
var MainNetParams = Params{
	Name:        "mainnet",
	Net:         MainNetMagic,
	DefaultPort: "15714",

	PowLimit: mainPowLimit,
	PosLimit: mainPosLimit,

	LastPowBlock: 20000,

	CoinbaseMaturity: 60,
	StakeMinAge:      60 * 60,
	StakeMaxAge:      60 * 60 * 24 * 90,

	TargetTimespan: 16 * time.Minute,
	TargetSpacing:  64 * time.Second,
	FutureDrift:    15 * time.Second,

	PowRewardSchedule: []RewardStep{
		{Height: 0, Reward: 0},
		{Height: 1, Reward: 25000 * 1e8},
		{Height: 50, Reward: 2000 * 1e8},
		{Height: 1000, Reward: 200 * 1e8},
		{Height: 20000, Reward: 0},
	},
	PosRewardSchedule: []RewardStep{
		{Height: 0, Reward: 0},
		{Height: 1, Reward: 25000 * 1e8},
		{Height: 50, Reward: 2000 * 1e8},
		{Height: 1000, Reward: 200 * 1e8},
		{Height: 13500, Reward: 40 * 1e8},
	},
	PosRewardScheduleCutoffHeight: 13500,

	MasternodePaymentFraction: 66,
	DeveloperPaymentFraction:  4,

	EnforceMasternodePaymentHeight: 30000,
	EnforceDeveloperPaymentHeight:  30000,
	MasternodePaymentDoSWeight:     20,

	Checkpoints: []Checkpoint{
		{Height: 0, Hash: chainhash.Hash{}},
	},
}

// TestNetParams defines the parameters for the test network. Maturity
// and enforcement heights are lowered so test fixtures can exercise
// payout enforcement without building tens of thousands of blocks.
var TestNetParams = Params{
	Name:        "testnet",
	Net:         TestNetMagic,
	DefaultPort: "25714",

	PowLimit: mainPowLimit,
	PosLimit: mainPosLimit,

	LastPowBlock: 2000,

	CoinbaseMaturity: 10,
	StakeMinAge:      60,
	StakeMaxAge:      60 * 60 * 24,

	TargetTimespan: 16 * time.Minute,
	TargetSpacing:  64 * time.Second,
	FutureDrift:    15 * time.Second,

	PowRewardSchedule: []RewardStep{
		{Height: 0, Reward: 0},
		{Height: 1, Reward: 25000 * 1e8},
		{Height: 50, Reward: 2000 * 1e8},
		{Height: 1000, Reward: 200 * 1e8},
		{Height: 2000, Reward: 0},
	},
	PosRewardSchedule: []RewardStep{
		{Height: 0, Reward: 0},
		{Height: 1, Reward: 25000 * 1e8},
		{Height: 50, Reward: 2000 * 1e8},
		{Height: 1000, Reward: 200 * 1e8},
		{Height: 1350, Reward: 40 * 1e8},
	},
	PosRewardScheduleCutoffHeight: 1350,

	MasternodePaymentFraction: 66,
	DeveloperPaymentFraction:  4,

	EnforceMasternodePaymentHeight: 50,
	EnforceDeveloperPaymentHeight:  50,
	MasternodePaymentDoSWeight:     20,
}

var (
	// ErrDuplicateNet is returned by Register when params for a network
	// have already been registered, either as a default network or by
	// a previous Register call.
	ErrDuplicateNet = errors.New("duplicate network")
)

var registeredNets = map[uint32]struct{}{
	MainNetMagic: {},
	TestNetMagic: {},
}

// Register registers the parameters for a non-default network so
// library code can look it up later by its magic bytes.
func Register(params *Params) error {
	if _, ok := registeredNets[params.Net]; ok {
		return ErrDuplicateNet
	}
	registeredNets[params.Net] = struct{}{}
	return nil
}
