package database

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
)

// DiskTxPos locates a transaction inside a stored block: which block,
// and the byte offset/length of the serialized transaction within it.
type DiskTxPos struct {
	BlockHash [32]byte
	TxOffset  uint32
	TxSize    uint32
}

// IsNull reports whether pos is nil, the "no spender" marker inside
// TxIndex.Spent.
func (pos *DiskTxPos) IsNull() bool {
	return pos == nil
}

// TxIndex is the on-disk record the core keeps per transaction: where
// it lives on disk, and which of its outputs have been spent and by
// what. Spent[i] is nil until output i is consumed by some input.
type TxIndex struct {
	Pos   DiskTxPos
	Spent []*DiskTxPos
}

var txIndexBucket = MakeBucket([]byte("tx-index"))

func serializeDiskTxPos(w io.Writer, pos *DiskTxPos) error {
	if pos == nil {
		_, err := w.Write(make([]byte, 40))
		return err
	}
	if _, err := w.Write(pos.BlockHash[:]); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, pos.TxOffset); err != nil {
		return err
	}
	return binary.Write(w, binary.LittleEndian, pos.TxSize)
}

func deserializeDiskTxPos(r io.Reader) (*DiskTxPos, error) {
	pos := &DiskTxPos{}
	if _, err := io.ReadFull(r, pos.BlockHash[:]); err != nil {
		return nil, err
	}
	if err := binary.Read(r, binary.LittleEndian, &pos.TxOffset); err != nil {
		return nil, err
	}
	if err := binary.Read(r, binary.LittleEndian, &pos.TxSize); err != nil {
		return nil, err
	}
	var zero [32]byte
	if pos.BlockHash == zero && pos.TxOffset == 0 && pos.TxSize == 0 {
		return nil, nil
	}
	return pos, nil
}

func serializeTxIndex(index *TxIndex) ([]byte, error) {
	buf := &bytes.Buffer{}
	if err := serializeDiskTxPos(buf, &index.Pos); err != nil {
		return nil, err
	}
	if err := binary.Write(buf, binary.LittleEndian, uint32(len(index.Spent))); err != nil {
		return nil, err
	}
	for _, spent := range index.Spent {
		if err := serializeDiskTxPos(buf, spent); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

func deserializeTxIndex(serialized []byte) (*TxIndex, error) {
	r := bytes.NewReader(serialized)
	pos, err := deserializeDiskTxPos(r)
	if err != nil {
		return nil, err
	}
	if pos == nil {
		pos = &DiskTxPos{}
	}
	var numSpent uint32
	if err := binary.Read(r, binary.LittleEndian, &numSpent); err != nil {
		return nil, err
	}
	spent := make([]*DiskTxPos, numSpent)
	for i := range spent {
		spent[i], err = deserializeDiskTxPos(r)
		if err != nil {
			return nil, err
		}
	}
	return &TxIndex{Pos: *pos, Spent: spent}, nil
}

// ReadTxIndex returns the stored TxIndex for hash, or ErrNotFound if
// the transaction has never been indexed.
func ReadTxIndex(ctx Context, hash []byte) (*TxIndex, error) {
	serialized, err := accessorFor(ctx).Get(txIndexBucket.Key(hash))
	if err != nil {
		return nil, err
	}
	return deserializeTxIndex(serialized)
}

// UpdateTxIndex writes (or overwrites) the TxIndex for hash.
func UpdateTxIndex(ctx Context, hash []byte, index *TxIndex) error {
	serialized, err := serializeTxIndex(index)
	if err != nil {
		return errors.Wrap(err, "failed to serialize tx index")
	}
	return accessorFor(ctx).Put(txIndexBucket.Key(hash), serialized)
}

// EraseTxIndex removes the TxIndex entry for hash, used when
// disconnecting a block that introduced it.
func EraseTxIndex(ctx Context, hash []byte) error {
	return accessorFor(ctx).Delete(txIndexBucket.Key(hash))
}

// ContainsTx reports whether hash has an index entry.
func ContainsTx(ctx Context, hash []byte) (bool, error) {
	return accessorFor(ctx).Has(txIndexBucket.Key(hash))
}
