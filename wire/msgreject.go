// Copyright (c) 2014-2015 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"io"

	"github.com/vireo-chain/vireod/chainhash"
)

// RejectCode represents the numeric code sent in a reject message,
// mirroring the DoS weight of the rule that rejected the data.
type RejectCode uint8

// Reject codes.
const (
	RejectMalformed       RejectCode = 0x01
	RejectInvalid         RejectCode = 0x10
	RejectObsolete        RejectCode = 0x11
	RejectDuplicate       RejectCode = 0x12
	RejectNonstandard     RejectCode = 0x40
	RejectDust            RejectCode = 0x41
	RejectInsufficientFee RejectCode = 0x42
	RejectCheckpoint      RejectCode = 0x43
)

const maxRejectMessageLength = 111
const maxRejectReasonLength = 250

// MsgReject implements the Message interface and is sent by a peer in
// response to a message it could not process, carrying the rejected
// command, a numeric code, a human-readable reason, and — for tx/block
// rejections — the hash of the rejected data. The core logs it only.
type MsgReject struct {
	Cmd    MessageCommand
	Code   RejectCode
	Reason string
	Hash   chainhash.Hash
}

// NewMsgReject returns a new reject message for the given command, code,
// and reason.
func NewMsgReject(command MessageCommand, code RejectCode, reason string) *MsgReject {
	return &MsgReject{Cmd: command, Code: code, Reason: reason}
}

// BtcDecode decodes r using the wire encoding into the receiver.
func (msg *MsgReject) BtcDecode(r io.Reader, pver uint32) error {
	cmd, err := ReadVarString(r, maxRejectMessageLength)
	if err != nil {
		return err
	}
	msg.Cmd = MessageCommand(cmd)

	if err := readElement(r, &msg.Code); err != nil {
		return err
	}

	reason, err := ReadVarString(r, maxRejectReasonLength)
	if err != nil {
		return err
	}
	msg.Reason = reason

	if msg.Cmd == CmdBlock || msg.Cmd == CmdTx {
		return readElement(r, &msg.Hash)
	}
	return nil
}

// BtcEncode encodes the receiver to w using the wire encoding.
func (msg *MsgReject) BtcEncode(w io.Writer, pver uint32) error {
	if err := WriteVarString(w, string(msg.Cmd)); err != nil {
		return err
	}
	if err := writeElement(w, msg.Code); err != nil {
		return err
	}
	if err := WriteVarString(w, msg.Reason); err != nil {
		return err
	}
	if msg.Cmd == CmdBlock || msg.Cmd == CmdTx {
		return writeElement(w, &msg.Hash)
	}
	return nil
}

// Command returns "reject", satisfying the Message interface.
func (msg *MsgReject) Command() MessageCommand {
	return CmdReject
}

// MaxPayloadLength returns the maximum length the payload can be.
func (msg *MsgReject) MaxPayloadLength(pver uint32) uint32 {
	return maxRejectMessageLength + maxRejectReasonLength + chainhash.HashSize + 10
}
