// Copyright (c) 2013-2015 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"io"

	"github.com/pkg/errors"
)

// MaxInvPerMsg is the maximum number of inventory vectors a single inv
// or getdata message may carry.
const MaxInvPerMsg = 50000

const maxInvPayload = 9 + MaxInvPerMsg*(4+32)

// MsgInv implements the Message interface and is used to advertise data
// a peer possesses, or to request data a peer wants (getdata).
type MsgInv struct {
	InvList []*InvVect
}

// AddInvVect adds an inventory vector to the message.
func (msg *MsgInv) AddInvVect(iv *InvVect) error {
	if len(msg.InvList)+1 > MaxInvPerMsg {
		return errors.Errorf("too many invvect in message [max %d]", MaxInvPerMsg)
	}
	msg.InvList = append(msg.InvList, iv)
	return nil
}

// NewMsgInv returns a new inv message with an empty inventory list.
func NewMsgInv() *MsgInv {
	return &MsgInv{InvList: make([]*InvVect, 0, defaultTxInOutAlloc)}
}

// BtcDecode decodes r using the wire encoding into the receiver.
func (msg *MsgInv) BtcDecode(r io.Reader, pver uint32) error {
	count, err := ReadVarInt(r)
	if err != nil {
		return err
	}
	if count > MaxInvPerMsg {
		return errors.Errorf("too many invvect in message [count %d, max %d]", count, MaxInvPerMsg)
	}

	msg.InvList = make([]*InvVect, count)
	for i := uint64(0); i < count; i++ {
		iv := &InvVect{}
		if err := readInvVect(r, iv); err != nil {
			return err
		}
		msg.InvList[i] = iv
	}
	return nil
}

// BtcEncode encodes the receiver to w using the wire encoding.
func (msg *MsgInv) BtcEncode(w io.Writer, pver uint32) error {
	if len(msg.InvList) > MaxInvPerMsg {
		return errors.Errorf("too many invvect in message [count %d, max %d]", len(msg.InvList), MaxInvPerMsg)
	}
	if err := WriteVarInt(w, uint64(len(msg.InvList))); err != nil {
		return err
	}
	for _, iv := range msg.InvList {
		if err := writeInvVect(w, iv); err != nil {
			return err
		}
	}
	return nil
}

// Command returns "inv", satisfying the Message interface.
func (msg *MsgInv) Command() MessageCommand {
	return CmdInv
}

// MaxPayloadLength returns the maximum length the payload can be.
func (msg *MsgInv) MaxPayloadLength(pver uint32) uint32 {
	return maxInvPayload
}

// MsgGetData implements the Message interface and is used to request
// the full data for one or more inventory vectors previously advertised.
type MsgGetData struct {
	InvList []*InvVect
}

// AddInvVect adds an inventory vector to the message.
func (msg *MsgGetData) AddInvVect(iv *InvVect) error {
	if len(msg.InvList)+1 > MaxInvPerMsg {
		return errors.Errorf("too many invvect in message [max %d]", MaxInvPerMsg)
	}
	msg.InvList = append(msg.InvList, iv)
	return nil
}

// NewMsgGetData returns a new getdata message with an empty inventory list.
func NewMsgGetData() *MsgGetData {
	return &MsgGetData{InvList: make([]*InvVect, 0, defaultTxInOutAlloc)}
}

// BtcDecode decodes r using the wire encoding into the receiver.
func (msg *MsgGetData) BtcDecode(r io.Reader, pver uint32) error {
	count, err := ReadVarInt(r)
	if err != nil {
		return err
	}
	if count > MaxInvPerMsg {
		return errors.Errorf("too many invvect in message [count %d, max %d]", count, MaxInvPerMsg)
	}

	msg.InvList = make([]*InvVect, count)
	for i := uint64(0); i < count; i++ {
		iv := &InvVect{}
		if err := readInvVect(r, iv); err != nil {
			return err
		}
		msg.InvList[i] = iv
	}
	return nil
}

// BtcEncode encodes the receiver to w using the wire encoding.
func (msg *MsgGetData) BtcEncode(w io.Writer, pver uint32) error {
	if err := WriteVarInt(w, uint64(len(msg.InvList))); err != nil {
		return err
	}
	for _, iv := range msg.InvList {
		if err := writeInvVect(w, iv); err != nil {
			return err
		}
	}
	return nil
}

// Command returns "getdata", satisfying the Message interface.
func (msg *MsgGetData) Command() MessageCommand {
	return CmdGetData
}

// MaxPayloadLength returns the maximum length the payload can be.
func (msg *MsgGetData) MaxPayloadLength(pver uint32) uint32 {
	return maxInvPayload
}
