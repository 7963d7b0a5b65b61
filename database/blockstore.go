package database

import "github.com/pkg/errors"

var blockBucket = MakeBucket([]byte("blocks"))

// StoreBlock writes the raw serialized bytes of a block, keyed by its
// hash. Blocks are immutable once written; callers never overwrite an
// existing entry.
func StoreBlock(ctx Context, hash []byte, serializedBlock []byte) error {
	key := blockBucket.Key(hash)
	exists, err := accessorFor(ctx).Has(key)
	if err != nil {
		return err
	}
	if exists {
		return errors.Errorf("block %x is already stored", hash)
	}
	return accessorFor(ctx).Put(key, serializedBlock)
}

// FetchBlock returns the raw serialized bytes of the block with the
// given hash.
func FetchBlock(ctx Context, hash []byte) ([]byte, error) {
	return accessorFor(ctx).Get(blockBucket.Key(hash))
}

// HasBlock reports whether a block with the given hash has been
// stored.
func HasBlock(ctx Context, hash []byte) (bool, error) {
	return accessorFor(ctx).Has(blockBucket.Key(hash))
}
