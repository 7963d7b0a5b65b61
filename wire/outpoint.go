// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"fmt"

	"github.com/vireo-chain/vireod/chainhash"
)

// OutPointSize is the size of the serialized representation of an
// OutPoint: hash + index.
const OutPointSize = chainhash.HashSize + 4

// OutPoint defines a transaction outpoint by referencing the hash of the
// transaction that contains the output, and the output's index within it.
type OutPoint struct {
	Hash  chainhash.Hash
	Index uint32
}

// NewOutPoint returns a new OutPoint using the provided hash and index.
func NewOutPoint(hash *chainhash.Hash, index uint32) *OutPoint {
	return &OutPoint{Hash: *hash, Index: index}
}

// String returns the OutPoint in human-readable form.
func (o OutPoint) String() string {
	return fmt.Sprintf("%s:%d", o.Hash, o.Index)
}

// IsNull reports whether outpoint is the null outpoint used by a coinbase
// input.
func (o *OutPoint) IsNull() bool {
	return o.Index == ^uint32(0) && o.Hash == chainhash.ZeroHash
}
