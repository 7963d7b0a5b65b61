// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/pkg/errors"

	"github.com/vireo-chain/vireod/chainhash"
	"github.com/vireo-chain/vireod/wire"
)

// SigHashType distinguishes which parts of the transaction a
// signature commits to. Only SigHashAll is produced by this package's
// signer, but CalcSignatureHash supports the others for verifying
// signatures produced elsewhere.
type SigHashType uint32

const (
	SigHashAll          SigHashType = 0x1
	SigHashNone         SigHashType = 0x2
	SigHashSingle       SigHashType = 0x3
	SigHashAnyOneCanPay SigHashType = 0x80
)

// CalcSignatureHash computes the double-SHA256 digest a signature over
// the idx'th input of tx commits to, per the classic Bitcoin sighash
// algorithm: every input's signature script is blanked, subScript is
// substituted into the input being signed, SigHashNone/Single strip or
// narrow the outputs committed to, and SigHashAnyOneCanPay strips
// every input but the one being signed.
func CalcSignatureHash(subScript []byte, hashType SigHashType, tx *wire.MsgTx, idx int) (chainhash.Hash, error) {
	if idx >= len(tx.TxIn) {
		return chainhash.Hash{}, errors.Errorf("input index %d out of range for transaction with %d inputs", idx, len(tx.TxIn))
	}

	txCopy := tx.Copy()

	for i := range txCopy.TxIn {
		if i == idx {
			txCopy.TxIn[i].SignatureScript = subScript
		} else {
			txCopy.TxIn[i].SignatureScript = nil
		}
	}

	switch hashType & 0x1f {
	case SigHashNone:
		txCopy.TxOut = nil
		for i := range txCopy.TxIn {
			if i != idx {
				txCopy.TxIn[i].Sequence = 0
			}
		}
	case SigHashSingle:
		if idx >= len(txCopy.TxOut) {
			return chainhash.Hash{}, errors.Errorf("SigHashSingle index %d out of range for transaction with %d outputs", idx, len(txCopy.TxOut))
		}
		txCopy.TxOut = txCopy.TxOut[:idx+1]
		for i := 0; i < idx; i++ {
			txCopy.TxOut[i].Value = -1
			txCopy.TxOut[i].PkScript = nil
		}
		for i := range txCopy.TxIn {
			if i != idx {
				txCopy.TxIn[i].Sequence = 0
			}
		}
	}

	if hashType&SigHashAnyOneCanPay != 0 {
		txCopy.TxIn = []*wire.TxIn{txCopy.TxIn[idx]}
	}

	buf := make([]byte, 0, txCopy.SerializeSize()+4)
	w := &byteSliceWriter{buf: buf}
	if err := txCopy.Serialize(w); err != nil {
		return chainhash.Hash{}, errors.Wrap(err, "failed to serialize transaction copy for signature hash")
	}
	w.writeUint32LE(uint32(hashType))

	return chainhash.DoubleHashH(w.buf), nil
}

// byteSliceWriter is a minimal io.Writer over a growable byte slice,
// used so CalcSignatureHash can append the trailing hash-type word
// without a second allocation pass.
type byteSliceWriter struct {
	buf []byte
}

func (w *byteSliceWriter) Write(p []byte) (int, error) {
	w.buf = append(w.buf, p...)
	return len(p), nil
}

func (w *byteSliceWriter) writeUint32LE(v uint32) {
	w.buf = append(w.buf, byte(v), byte(v>>8), byte(v>>16), byte(v>>24))
}

// RawTxInSignature computes a DER-encoded ECDSA signature, with the
// hash type byte appended, over tx's idx'th input using subScript as
// the substituted signature script and privKey as the signing key.
func RawTxInSignature(tx *wire.MsgTx, idx int, subScript []byte, hashType SigHashType, privKey *btcec.PrivateKey) ([]byte, error) {
	hash, err := CalcSignatureHash(subScript, hashType, tx, idx)
	if err != nil {
		return nil, err
	}
	sig := ecdsa.Sign(privKey, hash[:])
	return append(sig.Serialize(), byte(hashType)), nil
}

// SignatureScript builds the standard P2PKH scriptSig: <sig> <pubkey>.
func SignatureScript(tx *wire.MsgTx, idx int, subScript []byte, hashType SigHashType, privKey *btcec.PrivateKey, compress bool) ([]byte, error) {
	sig, err := RawTxInSignature(tx, idx, subScript, hashType, privKey)
	if err != nil {
		return nil, err
	}

	var pubKeyBytes []byte
	if compress {
		pubKeyBytes = privKey.PubKey().SerializeCompressed()
	} else {
		pubKeyBytes = privKey.PubKey().SerializeUncompressed()
	}

	script := make([]byte, 0, len(sig)+len(pubKeyBytes)+2)
	script = appendDataPush(script, sig)
	script = appendDataPush(script, pubKeyBytes)
	return script, nil
}

// appendDataPush appends the canonical push opcode(s) for data to
// script, followed by data itself.
func appendDataPush(script, data []byte) []byte {
	switch {
	case len(data) <= OpData75:
		script = append(script, byte(len(data)))
	case len(data) <= 0xff:
		script = append(script, OpPushData1, byte(len(data)))
	case len(data) <= 0xffff:
		script = append(script, OpPushData2, byte(len(data)), byte(len(data)>>8))
	default:
		script = append(script, OpPushData4, byte(len(data)), byte(len(data)>>8), byte(len(data)>>16), byte(len(data)>>24))
	}
	return append(script, data...)
}
