package database

import "bytes"

var separator = []byte("/")

// Bucket is a helper type meant to combine buckets, sub-buckets, and keys
// into a single full key-value database key.
type Bucket struct {
	path [][]byte
}

// MakeBucket creates a new Bucket using the given path of buckets.
func MakeBucket(path ...[]byte) *Bucket {
	return &Bucket{path: path}
}

// Bucket returns the sub-bucket of the current bucket defined by name.
func (b *Bucket) Bucket(name []byte) *Bucket {
	newPath := make([][]byte, len(b.path)+1)
	copy(newPath, b.path)
	newPath[len(b.path)] = name
	return MakeBucket(newPath...)
}

// Key returns the full database key for key inside of the current bucket.
func (b *Bucket) Key(key []byte) []byte {
	path := b.Path()
	fullKey := make([]byte, len(path)+len(key))
	copy(fullKey, path)
	copy(fullKey[len(path):], key)
	return fullKey
}

// Path returns the full path of the current bucket.
func (b *Bucket) Path() []byte {
	joined := bytes.Join(b.path, separator)
	withTrailingSeparator := make([]byte, len(joined)+len(separator))
	copy(withTrailingSeparator, joined)
	copy(withTrailingSeparator[len(joined):], separator)
	return withTrailingSeparator
}
