package database

import "github.com/pkg/errors"

// ErrNotFound is returned by Get and Cursor operations when the requested
// key does not exist in the database.
var ErrNotFound = errors.New("key not found")

// Cursor iterates over the key/value pairs of a bucket in key order.
type Cursor interface {
	Next() bool
	Key() ([]byte, error)
	Value() ([]byte, error)
	Seek(key []byte) error
	Close() error
}

// DataAccessor defines the common interface by which data gets read and
// written, whether directly against the database or inside a Transaction.
type DataAccessor interface {
	Put(key []byte, value []byte) error
	Get(key []byte) ([]byte, error)
	Has(key []byte) (bool, error)
	Delete(key []byte) error
	Cursor(bucket *Bucket) (Cursor, error)
}

// Transaction is an atomic, isolated view of the database. Every TxnBegin
// must be matched by exactly one Commit or Rollback.
type Transaction interface {
	DataAccessor
	Commit() error
	Rollback() error
	RollbackUnlessClosed() error
}

// Database is a key/value store with support for atomic transactions. The
// core never talks to a storage engine directly; it talks to this interface.
type Database interface {
	DataAccessor
	Begin() (Transaction, error)
	Close() error
}
