// Copyright (c) 2014-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"github.com/pkg/errors"

	"github.com/vireo-chain/vireod/chaincfg"
	"github.com/vireo-chain/vireod/chainhash"
)

// CheckpointMode governs how a synchronized-checkpoint violation is
// treated: strict rejects, advisory logs and continues, permissive
// ignores checkpoints entirely (used by isolated test/regtest setups).
type CheckpointMode int

const (
	CheckpointModeStrict CheckpointMode = iota
	CheckpointModeAdvisory
	CheckpointModePermissive
)

// Checkpoints enforces the network's hardened checkpoint table and
// tracks the latest synchronized checkpoint announced by the
// checkpoint master key.
type Checkpoints struct {
	hardened []chaincfg.Checkpoint
	mode     CheckpointMode

	syncedHeight int32
	syncedHash   chainhash.Hash
}

// NewCheckpoints builds a Checkpoints enforcer from a network's
// hardened table, sorted ascending by height as chaincfg guarantees.
func NewCheckpoints(hardened []chaincfg.Checkpoint, mode CheckpointMode) *Checkpoints {
	return &Checkpoints{hardened: hardened, mode: mode}
}

// CheckHardened rejects a block whose (height, hash) contradicts a
// hardened checkpoint entry at that exact height. Heights without an
// entry always pass.
func (c *Checkpoints) CheckHardened(height int32, hash chainhash.Hash) error {
	for _, cp := range c.hardened {
		if cp.Height == height && cp.Hash != hash {
			return errors.Errorf("block at height %d contradicts hardened checkpoint %s", height, cp.Hash)
		}
	}
	return nil
}

// CheckSynchronized enforces the most recently accepted synchronized
// checkpoint against a candidate block at height with hash. A
// candidate at or below the synchronized height must match it
// exactly; one that postdates it is unconstrained here (it is
// constrained only once it, or a descendant, itself becomes a new
// synchronized checkpoint). The mode determines whether a violation
// is fatal (strict), advisory-only (advisory, caller should log and
// continue), or ignored outright (permissive).
func (c *Checkpoints) CheckSynchronized(height int32, hash chainhash.Hash) (violated bool, fatal bool) {
	if c.mode == CheckpointModePermissive || c.syncedHash == (chainhash.Hash{}) {
		return false, false
	}
	if height > c.syncedHeight {
		return false, false
	}
	if height == c.syncedHeight && hash == c.syncedHash {
		return false, false
	}
	return true, c.mode == CheckpointModeStrict
}

// PromoteSynchronized advances the synchronized checkpoint to
// (height, hash) if it is more recent than the current one. Intended
// to be called once a signed checkpoint message from the master key
// has been verified by the caller; signature verification itself is
// out of scope for this package (peer-layer responsibility).
func (c *Checkpoints) PromoteSynchronized(height int32, hash chainhash.Hash) {
	if height > c.syncedHeight {
		c.syncedHeight = height
		c.syncedHash = hash
	}
}

// Mode reports the enforcer's configured violation mode.
func (c *Checkpoints) Mode() CheckpointMode {
	return c.mode
}
