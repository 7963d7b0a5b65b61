// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"io"
	"time"

	"github.com/pkg/errors"
)

// ProtocolVersion is the version of the wire protocol this core speaks.
const ProtocolVersion uint32 = 1

// MaxUserAgentLen is the maximum allowed length for the user agent field.
const MaxUserAgentLen = 256

// DefaultUserAgent is the user agent advertised when none is configured.
const DefaultUserAgent = "/vireod:0.1.0/"

// MsgVersion implements the Message interface and is the first message
// exchanged on a new connection: it carries the protocol fields the core
// uses to admit a peer and record its starting height.
type MsgVersion struct {
	ProtocolVersion uint32
	Services        ServiceFlag
	Timestamp       time.Time
	AddrYou         NetAddress
	AddrMe          NetAddress
	Nonce           uint64
	UserAgent       string
	LastBlock       int32
}

// NewMsgVersion returns a new version message for the given addresses,
// nonce, and last block height.
func NewMsgVersion(me, you *NetAddress, nonce uint64, lastBlock int32) *MsgVersion {
	return &MsgVersion{
		ProtocolVersion: ProtocolVersion,
		Services:        0,
		Timestamp:       time.Unix(time.Now().Unix(), 0),
		AddrYou:         *you,
		AddrMe:          *me,
		Nonce:           nonce,
		UserAgent:       DefaultUserAgent,
		LastBlock:       lastBlock,
	}
}

// AddService adds service as a supported service by the peer generating
// the message.
func (msg *MsgVersion) AddService(service ServiceFlag) {
	msg.Services |= service
}

// HasService returns whether the specified service is supported by the
// peer that generated the message.
func (msg *MsgVersion) HasService(service ServiceFlag) bool {
	return msg.Services&service == service
}

// BtcDecode decodes r using the wire encoding into the receiver.
func (msg *MsgVersion) BtcDecode(r io.Reader, pver uint32) error {
	if err := readElements(r, &msg.ProtocolVersion, &msg.Services, (*int64Time)(&msg.Timestamp)); err != nil {
		return err
	}
	if err := readNetAddress(r, pver, &msg.AddrYou, false); err != nil {
		return err
	}
	if err := readNetAddress(r, pver, &msg.AddrMe, false); err != nil {
		return err
	}
	if err := readElement(r, &msg.Nonce); err != nil {
		return err
	}
	userAgent, err := ReadVarString(r, MaxUserAgentLen)
	if err != nil {
		return err
	}
	if len(userAgent) > MaxUserAgentLen {
		return errors.Errorf("user agent too long [len %d, max %d]", len(userAgent), MaxUserAgentLen)
	}
	msg.UserAgent = userAgent
	return readElement(r, &msg.LastBlock)
}

// BtcEncode encodes the receiver to w using the wire encoding.
func (msg *MsgVersion) BtcEncode(w io.Writer, pver uint32) error {
	if len(msg.UserAgent) > MaxUserAgentLen {
		return errors.Errorf("user agent too long [len %d, max %d]", len(msg.UserAgent), MaxUserAgentLen)
	}

	if err := writeElements(w, msg.ProtocolVersion, msg.Services, uint32(msg.Timestamp.Unix())); err != nil {
		return err
	}
	if err := writeNetAddress(w, pver, &msg.AddrYou, false); err != nil {
		return err
	}
	if err := writeNetAddress(w, pver, &msg.AddrMe, false); err != nil {
		return err
	}
	if err := writeElement(w, msg.Nonce); err != nil {
		return err
	}
	if err := WriteVarString(w, msg.UserAgent); err != nil {
		return err
	}
	return writeElement(w, msg.LastBlock)
}

// Command returns "version", satisfying the Message interface.
func (msg *MsgVersion) Command() MessageCommand {
	return CmdVersion
}

// MaxPayloadLength returns the maximum length the payload can be.
func (msg *MsgVersion) MaxPayloadLength(pver uint32) uint32 {
	return 33 + (maxNetAddressPayload(pver) * 2) + MaxVarIntPayload + MaxUserAgentLen + 4
}
