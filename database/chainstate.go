package database

var chainStateBucket = MakeBucket([]byte("chain-state"))

var hashBestChainKey = chainStateBucket.Key([]byte("hash-best-chain"))

// ReadHashBestChain returns the hash of the current best chain tip, or
// ErrNotFound if the database has never committed a tip.
func ReadHashBestChain(ctx Context) ([]byte, error) {
	return accessorFor(ctx).Get(hashBestChainKey)
}

// WriteHashBestChain records hash as the new best chain tip. Per the
// reorganization ordering guarantee, callers write this last inside
// the enclosing storage transaction.
func WriteHashBestChain(ctx Context, hash []byte) error {
	return accessorFor(ctx).Put(hashBestChainKey, hash)
}
