// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/pkg/errors"
	"github.com/vireo-chain/vireod/chainhash"
)

const (
	// TxVersion is the current latest supported transaction version.
	TxVersion = 1

	// MaxTxInSequenceNum is the maximum sequence number a TxIn can have,
	// marking it as final and disabling relative lock-time.
	MaxTxInSequenceNum uint32 = 0xffffffff

	// defaultTxInOutAlloc and defaultTxOutOutAlloc are the default
	// capacities reserved when decoding a transaction's input/output
	// vectors, to avoid a per-element allocation during decode.
	defaultTxInOutAlloc  = 15
	defaultTxOutOutAlloc = 15

	// maxTxInPerMessage and maxTxOutPerMessage bound the number of
	// inputs/outputs readable from a single transaction, derived from
	// the minimum possible size of each on the wire.
	maxTxInPerMessage  = (maxMessagePayload / 41) + 1
	maxTxOutPerMessage = (maxMessagePayload / 9) + 1
)

// maxMessagePayload is the maximum bytes a message payload can be.
const maxMessagePayload = 32 * 1024 * 1024

// TxIn defines a transaction input, referencing a previous transaction's
// output via OutPoint, along with the signature script authorizing its
// spend and a sequence number.
type TxIn struct {
	PreviousOutPoint OutPoint
	SignatureScript  []byte
	Sequence         uint32
}

// NewTxIn returns a new transaction input with the provided previous
// outpoint and signature script, with a default sequence number.
func NewTxIn(prevOut *OutPoint, signatureScript []byte) *TxIn {
	return &TxIn{
		PreviousOutPoint: *prevOut,
		SignatureScript:  signatureScript,
		Sequence:         MaxTxInSequenceNum,
	}
}

// SerializeSize returns the number of bytes it would take to serialize
// the transaction input.
func (t *TxIn) SerializeSize() int {
	return OutPointSize + VarIntSerializeSize(uint64(len(t.SignatureScript))) +
		len(t.SignatureScript) + 4
}

// TxOut defines a transaction output, carrying a value in atomic units
// and the script that must be satisfied to spend it.
type TxOut struct {
	Value    int64
	PkScript []byte
}

// NewTxOut returns a new transaction output with the provided value and
// locking script.
func NewTxOut(value int64, pkScript []byte) *TxOut {
	return &TxOut{Value: value, PkScript: pkScript}
}

// SerializeSize returns the number of bytes it would take to serialize
// the transaction output.
func (t *TxOut) SerializeSize() int {
	return 8 + VarIntSerializeSize(uint64(len(t.PkScript))) + len(t.PkScript)
}

// MsgTx implements the Message interface and represents a transaction.
type MsgTx struct {
	Version   int32
	Timestamp time.Time
	TxIn      []*TxIn
	TxOut     []*TxOut
	LockTime  uint32
}

// NewMsgTx returns a new transaction message with the given version and
// the current time as its timestamp.
func NewMsgTx(version int32) *MsgTx {
	return &MsgTx{
		Version:   version,
		Timestamp: time.Unix(time.Now().Unix(), 0),
		TxIn:      make([]*TxIn, 0, defaultTxInOutAlloc),
		TxOut:     make([]*TxOut, 0, defaultTxOutOutAlloc),
	}
}

// AddTxIn adds a transaction input to the message.
func (msg *MsgTx) AddTxIn(ti *TxIn) {
	msg.TxIn = append(msg.TxIn, ti)
}

// AddTxOut adds a transaction output to the message.
func (msg *MsgTx) AddTxOut(to *TxOut) {
	msg.TxOut = append(msg.TxOut, to)
}

// IsCoinBase reports whether the transaction is a coinbase transaction,
// i.e. it has exactly one input, and that input has a null outpoint.
func (msg *MsgTx) IsCoinBase() bool {
	return len(msg.TxIn) == 1 && msg.TxIn[0].PreviousOutPoint.IsNull()
}

// IsCoinStake reports whether the transaction is a coinstake transaction:
// its first input is non-null, it has at least two outputs, and its
// first output is the empty marker output.
func (msg *MsgTx) IsCoinStake() bool {
	if len(msg.TxIn) == 0 || msg.TxIn[0].PreviousOutPoint.IsNull() {
		return false
	}
	if len(msg.TxOut) < 2 {
		return false
	}
	return msg.TxOut[0].Value == 0 && len(msg.TxOut[0].PkScript) == 0
}

// TxHash computes the hash of the transaction's serialized form,
// identifying it on disk and in the mempool.
func (msg *MsgTx) TxHash() chainhash.Hash {
	buf := bytes.NewBuffer(make([]byte, 0, msg.SerializeSize()))
	_ = msg.Serialize(buf)
	return chainhash.DoubleHashH(buf.Bytes())
}

// Copy creates a deep copy of the transaction.
func (msg *MsgTx) Copy() *MsgTx {
	newTx := &MsgTx{
		Version:   msg.Version,
		Timestamp: msg.Timestamp,
		TxIn:      make([]*TxIn, 0, len(msg.TxIn)),
		TxOut:     make([]*TxOut, 0, len(msg.TxOut)),
		LockTime:  msg.LockTime,
	}

	for _, oldTxIn := range msg.TxIn {
		newTxIn := &TxIn{
			PreviousOutPoint: oldTxIn.PreviousOutPoint,
			Sequence:         oldTxIn.Sequence,
		}
		if len(oldTxIn.SignatureScript) > 0 {
			newTxIn.SignatureScript = make([]byte, len(oldTxIn.SignatureScript))
			copy(newTxIn.SignatureScript, oldTxIn.SignatureScript)
		}
		newTx.TxIn = append(newTx.TxIn, newTxIn)
	}

	for _, oldTxOut := range msg.TxOut {
		newTxOut := &TxOut{Value: oldTxOut.Value}
		if len(oldTxOut.PkScript) > 0 {
			newTxOut.PkScript = make([]byte, len(oldTxOut.PkScript))
			copy(newTxOut.PkScript, oldTxOut.PkScript)
		}
		newTx.TxOut = append(newTx.TxOut, newTxOut)
	}

	return newTx
}

// BtcDecode decodes r using the wire encoding into the receiver.
func (msg *MsgTx) BtcDecode(r io.Reader, pver uint32) error {
	if err := readElements(r, &msg.Version, (*uint32Time)(&msg.Timestamp)); err != nil {
		return err
	}

	txInCount, err := ReadVarInt(r)
	if err != nil {
		return err
	}
	if txInCount > uint64(maxTxInPerMessage) {
		return errors.Errorf("too many input transactions to fit into max message size [count %d, max %d]",
			txInCount, maxTxInPerMessage)
	}

	msg.TxIn = make([]*TxIn, txInCount)
	for i := uint64(0); i < txInCount; i++ {
		ti := &TxIn{}
		if err := readTxIn(r, ti); err != nil {
			return err
		}
		msg.TxIn[i] = ti
	}

	txOutCount, err := ReadVarInt(r)
	if err != nil {
		return err
	}
	if txOutCount > uint64(maxTxOutPerMessage) {
		return errors.Errorf("too many output transactions to fit into max message size [count %d, max %d]",
			txOutCount, maxTxOutPerMessage)
	}

	msg.TxOut = make([]*TxOut, txOutCount)
	for i := uint64(0); i < txOutCount; i++ {
		to := &TxOut{}
		if err := readTxOut(r, to); err != nil {
			return err
		}
		msg.TxOut[i] = to
	}

	return readElement(r, &msg.LockTime)
}

// BtcEncode encodes the receiver to w using the wire encoding.
func (msg *MsgTx) BtcEncode(w io.Writer, pver uint32) error {
	sec := uint32(msg.Timestamp.Unix())
	if err := writeElements(w, msg.Version, sec); err != nil {
		return err
	}

	if err := WriteVarInt(w, uint64(len(msg.TxIn))); err != nil {
		return err
	}
	for _, ti := range msg.TxIn {
		if err := writeTxIn(w, ti); err != nil {
			return err
		}
	}

	if err := WriteVarInt(w, uint64(len(msg.TxOut))); err != nil {
		return err
	}
	for _, to := range msg.TxOut {
		if err := writeTxOut(w, to); err != nil {
			return err
		}
	}

	return writeElement(w, msg.LockTime)
}

// Deserialize decodes a transaction from r using the long-term storage
// format.
func (msg *MsgTx) Deserialize(r io.Reader) error {
	return msg.BtcDecode(r, 0)
}

// Serialize encodes the transaction to w using the long-term storage
// format.
func (msg *MsgTx) Serialize(w io.Writer) error {
	return msg.BtcEncode(w, 0)
}

// SerializeSize returns the number of bytes it would take to serialize
// the transaction.
func (msg *MsgTx) SerializeSize() int {
	n := 8 + VarIntSerializeSize(uint64(len(msg.TxIn))) + VarIntSerializeSize(uint64(len(msg.TxOut))) + 4
	for _, txIn := range msg.TxIn {
		n += txIn.SerializeSize()
	}
	for _, txOut := range msg.TxOut {
		n += txOut.SerializeSize()
	}
	return n
}

// Command returns "tx", satisfying the Message interface.
func (msg *MsgTx) Command() MessageCommand {
	return CmdTx
}

// MaxPayloadLength returns the maximum length the payload can be.
func (msg *MsgTx) MaxPayloadLength(pver uint32) uint32 {
	return maxMessagePayload
}

func (msg *MsgTx) String() string {
	return fmt.Sprintf("tx %s (%d in, %d out)", msg.TxHash(), len(msg.TxIn), len(msg.TxOut))
}

func readTxIn(r io.Reader, ti *TxIn) error {
	if err := readElements(r, &ti.PreviousOutPoint.Hash, &ti.PreviousOutPoint.Index); err != nil {
		return err
	}
	script, err := ReadVarBytes(r, maxMessagePayload, "signature script")
	if err != nil {
		return err
	}
	ti.SignatureScript = script
	return readElement(r, &ti.Sequence)
}

func writeTxIn(w io.Writer, ti *TxIn) error {
	if err := writeElements(w, &ti.PreviousOutPoint.Hash, ti.PreviousOutPoint.Index); err != nil {
		return err
	}
	if err := WriteVarBytes(w, ti.SignatureScript); err != nil {
		return err
	}
	return writeElement(w, ti.Sequence)
}

func readTxOut(r io.Reader, to *TxOut) error {
	if err := readElement(r, &to.Value); err != nil {
		return err
	}
	script, err := ReadVarBytes(r, maxMessagePayload, "public key script")
	if err != nil {
		return err
	}
	to.PkScript = script
	return nil
}

func writeTxOut(w io.Writer, to *TxOut) error {
	if err := writeElement(w, to.Value); err != nil {
		return err
	}
	return WriteVarBytes(w, to.PkScript)
}
