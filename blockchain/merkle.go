// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import "github.com/vireo-chain/vireod/chainhash"

// BuildMerkleRoot computes the merkle root over txHashes using the
// classic Bitcoin pairing algorithm: pair adjacent hashes and
// double-SHA256 their concatenation, duplicating the last hash of an
// odd-sized level, until a single hash remains.
func BuildMerkleRoot(txHashes []chainhash.Hash) chainhash.Hash {
	if len(txHashes) == 0 {
		return chainhash.Hash{}
	}

	level := make([]chainhash.Hash, len(txHashes))
	copy(level, txHashes)

	for len(level) > 1 {
		if len(level)%2 != 0 {
			level = append(level, level[len(level)-1])
		}
		next := make([]chainhash.Hash, len(level)/2)
		for i := 0; i < len(next); i++ {
			var buf [2 * chainhash.HashSize]byte
			copy(buf[:chainhash.HashSize], level[2*i].CloneBytes())
			copy(buf[chainhash.HashSize:], level[2*i+1].CloneBytes())
			next[i] = chainhash.DoubleHashH(buf[:])
		}
		level = next
	}
	return level[0]
}
