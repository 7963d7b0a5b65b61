// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"encoding/binary"
	"fmt"
	"io"
	"time"

	"github.com/pkg/errors"
	"github.com/vireo-chain/vireod/chainhash"
)

var (
	littleEndian = binary.LittleEndian
	bigEndian    = binary.BigEndian
)

// MaxVarIntPayload is the maximum payload size for a variable length
// integer.
const MaxVarIntPayload = 9

// uint32Time represents a unix timestamp encoded with a uint32 on the wire.
type uint32Time time.Time

// int64Time represents a unix timestamp, encoded as a uint32 on the wire,
// stored internally as an int64.
type int64Time time.Time

// errNonCanonicalVarInt is returned when a variable length integer is
// not minimally encoded.
var errNonCanonicalVarInt = errors.New("non-canonical varint")

// readElement reads the next sequence of bytes from r using little endian
// depending on the concrete type of element.
func readElement(r io.Reader, element interface{}) error {
	switch e := element.(type) {
	case *int32:
		rv, err := binarySerializerUint32(r, littleEndian)
		if err != nil {
			return err
		}
		*e = int32(rv)
		return nil

	case *uint32:
		rv, err := binarySerializerUint32(r, littleEndian)
		if err != nil {
			return err
		}
		*e = rv
		return nil

	case *int64:
		rv, err := binarySerializerUint64(r, littleEndian)
		if err != nil {
			return err
		}
		*e = int64(rv)
		return nil

	case *uint64:
		rv, err := binarySerializerUint64(r, littleEndian)
		if err != nil {
			return err
		}
		*e = rv
		return nil

	case *bool:
		var buf [1]byte
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return err
		}
		*e = buf[0] != 0
		return nil

	case *byte:
		var buf [1]byte
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return err
		}
		*e = buf[0]
		return nil

	case *chainhash.Hash:
		_, err := io.ReadFull(r, e[:])
		return err

	case *[]chainhash.Hash:
		return nil

	case *uint32Time:
		rv, err := binarySerializerUint32(r, littleEndian)
		if err != nil {
			return err
		}
		*e = uint32Time(time.Unix(int64(rv), 0))
		return nil

	case *int64Time:
		rv, err := binarySerializerUint32(r, littleEndian)
		if err != nil {
			return err
		}
		*e = int64Time(time.Unix(int64(rv), 0))
		return nil

	case *ServiceFlag:
		rv, err := binarySerializerUint64(r, littleEndian)
		if err != nil {
			return err
		}
		*e = ServiceFlag(rv)
		return nil

	case *InvType:
		rv, err := binarySerializerUint32(r, littleEndian)
		if err != nil {
			return err
		}
		*e = InvType(rv)
		return nil
	}

	return binary.Read(r, littleEndian, element)
}

// readElements reads multiple items from r in order, using readElement.
func readElements(r io.Reader, elements ...interface{}) error {
	for _, element := range elements {
		if err := readElement(r, element); err != nil {
			return err
		}
	}
	return nil
}

// writeElement writes the little endian representation of element to w.
func writeElement(w io.Writer, element interface{}) error {
	switch e := element.(type) {
	case int32:
		return binarySerializerPutUint32(w, littleEndian, uint32(e))

	case uint32:
		return binarySerializerPutUint32(w, littleEndian, e)

	case int64:
		return binarySerializerPutUint64(w, littleEndian, uint64(e))

	case uint64:
		return binarySerializerPutUint64(w, littleEndian, e)

	case bool:
		var buf [1]byte
		if e {
			buf[0] = 1
		}
		_, err := w.Write(buf[:])
		return err

	case byte:
		_, err := w.Write([]byte{e})
		return err

	case chainhash.Hash:
		_, err := w.Write(e[:])
		return err

	case *chainhash.Hash:
		_, err := w.Write(e[:])
		return err

	case ServiceFlag:
		return binarySerializerPutUint64(w, littleEndian, uint64(e))

	case InvType:
		return binarySerializerPutUint32(w, littleEndian, uint32(e))
	}

	return binary.Write(w, littleEndian, element)
}

// writeElements writes multiple items to w in order, using writeElement.
func writeElements(w io.Writer, elements ...interface{}) error {
	for _, element := range elements {
		if err := writeElement(w, element); err != nil {
			return err
		}
	}
	return nil
}

func binarySerializerUint32(r io.Reader, order binary.ByteOrder) (uint32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return order.Uint32(buf[:]), nil
}

func binarySerializerUint64(r io.Reader, order binary.ByteOrder) (uint64, error) {
	var buf [8]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return order.Uint64(buf[:]), nil
}

func binarySerializerPutUint32(w io.Writer, order binary.ByteOrder, v uint32) error {
	var buf [4]byte
	order.PutUint32(buf[:], v)
	_, err := w.Write(buf[:])
	return err
}

func binarySerializerPutUint64(w io.Writer, order binary.ByteOrder, v uint64) error {
	var buf [8]byte
	order.PutUint64(buf[:], v)
	_, err := w.Write(buf[:])
	return err
}

// ReadVarInt reads a variable length integer from r and returns it as a
// uint64, using the Bitcoin-style compact size prefix.
func ReadVarInt(r io.Reader) (uint64, error) {
	var prefix [1]byte
	if _, err := io.ReadFull(r, prefix[:]); err != nil {
		return 0, err
	}

	var rv uint64
	switch prefix[0] {
	case 0xff:
		v, err := binarySerializerUint64(r, littleEndian)
		if err != nil {
			return 0, err
		}
		rv = v
		if rv < 0x100000000 {
			return 0, errNonCanonicalVarInt
		}

	case 0xfe:
		v, err := binarySerializerUint32(r, littleEndian)
		if err != nil {
			return 0, err
		}
		rv = uint64(v)
		if rv < 0x10000 {
			return 0, errNonCanonicalVarInt
		}

	case 0xfd:
		var buf [2]byte
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return 0, err
		}
		rv = uint64(littleEndian.Uint16(buf[:]))
		if rv < 0xfd {
			return 0, errNonCanonicalVarInt
		}

	default:
		rv = uint64(prefix[0])
	}

	return rv, nil
}

// WriteVarInt writes val to w using the minimal possible Bitcoin-style
// compact size representation.
func WriteVarInt(w io.Writer, val uint64) error {
	if val < 0xfd {
		return writeElement(w, byte(val))
	}
	if val <= 0xffff {
		if err := writeElement(w, byte(0xfd)); err != nil {
			return err
		}
		var buf [2]byte
		littleEndian.PutUint16(buf[:], uint16(val))
		_, err := w.Write(buf[:])
		return err
	}
	if val <= 0xffffffff {
		if err := writeElement(w, byte(0xfe)); err != nil {
			return err
		}
		return binarySerializerPutUint32(w, littleEndian, uint32(val))
	}
	if err := writeElement(w, byte(0xff)); err != nil {
		return err
	}
	return binarySerializerPutUint64(w, littleEndian, val)
}

// VarIntSerializeSize returns the number of bytes it would take to
// serialize val as a variable length integer.
func VarIntSerializeSize(val uint64) int {
	if val < 0xfd {
		return 1
	}
	if val <= 0xffff {
		return 3
	}
	if val <= 0xffffffff {
		return 5
	}
	return 9
}

// ReadVarBytes reads a variable length byte array, erroring if the
// encoded size exceeds maxAllowed. fieldName is used only in the error
// message.
func ReadVarBytes(r io.Reader, maxAllowed uint64, fieldName string) ([]byte, error) {
	count, err := ReadVarInt(r)
	if err != nil {
		return nil, err
	}
	if count > maxAllowed {
		return nil, errors.Errorf("%s is larger than the max allowed size [count %d, max %d]",
			fieldName, count, maxAllowed)
	}
	buf := make([]byte, count)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// WriteVarBytes writes a variable length byte array.
func WriteVarBytes(w io.Writer, bytes []byte) error {
	if err := WriteVarInt(w, uint64(len(bytes))); err != nil {
		return err
	}
	_, err := w.Write(bytes)
	return err
}

// ReadVarString reads a variable length string, erroring if the encoded
// size exceeds maxAllowed.
func ReadVarString(r io.Reader, maxAllowed uint64) (string, error) {
	b, err := ReadVarBytes(r, maxAllowed, "variable length string")
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// WriteVarString writes a variable length string.
func WriteVarString(w io.Writer, s string) error {
	return WriteVarBytes(w, []byte(s))
}

// ServiceFlag identifies the services supported by a node advertised in
// the version message.
type ServiceFlag uint64

// InvType represents the allowed types of inventory vectors.
type InvType uint32

// Inventory vector types.
const (
	InvTypeError InvType = 0
	InvTypeTx    InvType = 1
	InvTypeBlock InvType = 2
)

func (invType InvType) String() string {
	switch invType {
	case InvTypeTx:
		return "MSG_TX"
	case InvTypeBlock:
		return "MSG_BLOCK"
	default:
		return fmt.Sprintf("Unknown InvType (%d)", uint32(invType))
	}
}

// MessageCommand identifies the command carried in a message header.
type MessageCommand string

// Command strings for each message the core reacts to, per the wire
// message table.
const (
	CmdVersion    MessageCommand = "version"
	CmdVerAck     MessageCommand = "verack"
	CmdInv        MessageCommand = "inv"
	CmdGetData    MessageCommand = "getdata"
	CmdGetBlocks  MessageCommand = "getblocks"
	CmdGetHeaders MessageCommand = "getheaders"
	CmdHeaders    MessageCommand = "headers"
	CmdBlock      MessageCommand = "block"
	CmdTx         MessageCommand = "tx"
	CmdReject     MessageCommand = "reject"
	CmdNotFound   MessageCommand = "notfound"
	CmdPing       MessageCommand = "ping"
	CmdPong       MessageCommand = "pong"
)

// Message is implemented by every message the core exchanges over the
// wire.
type Message interface {
	BtcDecode(r io.Reader, pver uint32) error
	BtcEncode(w io.Writer, pver uint32) error
	Command() MessageCommand
	MaxPayloadLength(pver uint32) uint32
}
