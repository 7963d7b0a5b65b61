package chainhash

import (
	"crypto/sha256"
	"fmt"
	"hash"
)

// HashWriter incrementally hashes data without concatenating it into a
// single buffer first. HashWriter.Write(slice).Finalize() == HashH(slice).
type HashWriter struct {
	inner hash.Hash
}

// NewHashWriter returns a new HashWriter.
func NewHashWriter() *HashWriter {
	return &HashWriter{inner: sha256.New()}
}

// Write always returns (len(p), nil).
func (w *HashWriter) Write(p []byte) (int, error) {
	return w.inner.Write(p)
}

// Finalize returns the resulting hash.
func (w *HashWriter) Finalize() Hash {
	result := Hash{}
	sum := w.inner.Sum(nil)
	if err := result.SetBytes(sum); err != nil {
		panic(fmt.Sprintf("sha256 sum is always %d bytes: %s", HashSize, err))
	}
	return result
}

// DoubleHashWriter incrementally double-hashes data without
// concatenating it into a single buffer first.
type DoubleHashWriter struct {
	inner hash.Hash
}

// NewDoubleHashWriter returns a new DoubleHashWriter.
func NewDoubleHashWriter() *DoubleHashWriter {
	return &DoubleHashWriter{inner: sha256.New()}
}

// Write always returns (len(p), nil).
func (w *DoubleHashWriter) Write(p []byte) (int, error) {
	return w.inner.Write(p)
}

// Finalize returns the resulting double hash.
func (w *DoubleHashWriter) Finalize() Hash {
	firstRound := w.inner.Sum(nil)
	return Hash(sha256.Sum256(firstRound))
}
