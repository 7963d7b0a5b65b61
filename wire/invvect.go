// Copyright (c) 2013-2015 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"io"

	"github.com/vireo-chain/vireod/chainhash"
)

// InvVect defines an inventory vector, used to describe data, as specified
// by the Type field, that a peer either possesses or wants.
type InvVect struct {
	Type InvType
	Hash chainhash.Hash
}

// NewInvVect returns a new InvVect using the provided type and hash.
func NewInvVect(typ InvType, hash *chainhash.Hash) *InvVect {
	return &InvVect{Type: typ, Hash: *hash}
}

func readInvVect(r io.Reader, iv *InvVect) error {
	return readElements(r, &iv.Type, &iv.Hash)
}

func writeInvVect(w io.Writer, iv *InvVect) error {
	return writeElements(w, iv.Type, &iv.Hash)
}
