package database

import (
	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/iterator"
	"github.com/syndtr/goleveldb/leveldb/util"
)

// levelDB is a Database backed by goleveldb. It is the only storage engine
// the core ships with; callers that need something else implement Database
// themselves.
type levelDB struct {
	ldb *leveldb.DB
}

// Open opens (and creates, if necessary) a levelDB-backed Database at path.
func Open(path string) (Database, error) {
	ldb, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open database at %s", path)
	}
	return &levelDB{ldb: ldb}, nil
}

func (db *levelDB) Put(key, value []byte) error {
	return db.ldb.Put(key, value, nil)
}

func (db *levelDB) Get(key []byte) ([]byte, error) {
	value, err := db.ldb.Get(key, nil)
	if err == leveldb.ErrNotFound {
		return nil, errors.WithStack(ErrNotFound)
	}
	return value, err
}

func (db *levelDB) Has(key []byte) (bool, error) {
	return db.ldb.Has(key, nil)
}

func (db *levelDB) Delete(key []byte) error {
	return db.ldb.Delete(key, nil)
}

func (db *levelDB) Cursor(bucket *Bucket) (Cursor, error) {
	iter := db.ldb.NewIterator(util.BytesPrefix(bucket.Path()), nil)
	return &levelDBCursor{iter: iter}, nil
}

func (db *levelDB) Begin() (Transaction, error) {
	ldbTx, err := db.ldb.OpenTransaction()
	if err != nil {
		return nil, errors.Wrap(err, "failed to open database transaction")
	}
	return &levelDBTransaction{ldbTx: ldbTx}, nil
}

func (db *levelDB) Close() error {
	return db.ldb.Close()
}

type levelDBCursor struct {
	iter iterator.Iterator
}

func (c *levelDBCursor) Next() bool { return c.iter.Next() }

func (c *levelDBCursor) Key() ([]byte, error) {
	key := c.iter.Key()
	cp := make([]byte, len(key))
	copy(cp, key)
	return cp, nil
}

func (c *levelDBCursor) Value() ([]byte, error) {
	value := c.iter.Value()
	cp := make([]byte, len(value))
	copy(cp, value)
	return cp, nil
}

func (c *levelDBCursor) Seek(key []byte) error {
	if !c.iter.Seek(key) {
		return errors.WithStack(ErrNotFound)
	}
	return nil
}

func (c *levelDBCursor) Close() error {
	c.iter.Release()
	return c.iter.Error()
}

// levelDBTransaction wraps a goleveldb Transaction to satisfy Transaction.
// Reads inside the transaction see a consistent snapshot; nothing is
// durable until Commit.
type levelDBTransaction struct {
	ldbTx  *leveldb.Transaction
	closed bool
}

func (tx *levelDBTransaction) Put(key, value []byte) error {
	return tx.ldbTx.Put(key, value, nil)
}

func (tx *levelDBTransaction) Get(key []byte) ([]byte, error) {
	value, err := tx.ldbTx.Get(key, nil)
	if err == leveldb.ErrNotFound {
		return nil, errors.WithStack(ErrNotFound)
	}
	return value, err
}

func (tx *levelDBTransaction) Has(key []byte) (bool, error) {
	return tx.ldbTx.Has(key, nil)
}

func (tx *levelDBTransaction) Delete(key []byte) error {
	return tx.ldbTx.Delete(key, nil)
}

func (tx *levelDBTransaction) Cursor(bucket *Bucket) (Cursor, error) {
	iter := tx.ldbTx.NewIterator(util.BytesPrefix(bucket.Path()), nil)
	return &levelDBCursor{iter: iter}, nil
}

func (tx *levelDBTransaction) Commit() error {
	if tx.closed {
		return errors.New("cannot commit a closed transaction")
	}
	tx.closed = true
	return tx.ldbTx.Commit()
}

func (tx *levelDBTransaction) Rollback() error {
	if tx.closed {
		return errors.New("cannot roll back a closed transaction")
	}
	tx.closed = true
	tx.ldbTx.Discard()
	return nil
}

func (tx *levelDBTransaction) RollbackUnlessClosed() error {
	if tx.closed {
		return nil
	}
	return tx.Rollback()
}
