package database

var blockIndexBucket = MakeBucket([]byte("block-index"))

// WriteBlockIndex persists the serialized form of a block index entry
// keyed by block hash. The core is responsible for encoding/decoding;
// this package only moves bytes.
func WriteBlockIndex(ctx Context, hash []byte, serializedEntry []byte) error {
	return accessorFor(ctx).Put(blockIndexBucket.Key(hash), serializedEntry)
}

// ReadBlockIndexEntry returns the serialized block index entry for
// hash, or ErrNotFound if none exists.
func ReadBlockIndexEntry(ctx Context, hash []byte) ([]byte, error) {
	return accessorFor(ctx).Get(blockIndexBucket.Key(hash))
}

// ReadBlockIndex returns a cursor over every stored block index entry,
// in key (hash) order. The core walks it once at startup to rebuild
// the in-memory index.
func ReadBlockIndex(ctx Context) (Cursor, error) {
	return accessorFor(ctx).Cursor(blockIndexBucket)
}
