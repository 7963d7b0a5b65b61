// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"

	"github.com/vireo-chain/vireod/chainhash"
	"github.com/vireo-chain/vireod/util"
	"github.com/vireo-chain/vireod/wire"
)

func newTestPrivKey(t *testing.T) *btcec.PrivateKey {
	t.Helper()
	priv, err := btcec.NewPrivateKey()
	if err != nil {
		t.Fatalf("btcec.NewPrivateKey: %v", err)
	}
	return priv
}

func TestPayToAddrScriptRoundTrip(t *testing.T) {
	priv := newTestPrivKey(t)
	pubKeyHash := util.Hash160(priv.PubKey().SerializeCompressed())

	pkScript := PayToAddrScript(pubKeyHash)
	if GetScriptClass(pkScript) != PubKeyHashTy {
		t.Fatalf("GetScriptClass = %v, want PubKeyHashTy", GetScriptClass(pkScript))
	}
	if !bytesEqual(ExtractPubKeyHash(pkScript), pubKeyHash) {
		t.Fatalf("ExtractPubKeyHash mismatch")
	}
}

func TestSignatureScriptVerifiesAgainstPubKeyHash(t *testing.T) {
	priv := newTestPrivKey(t)
	pubKeyHash := util.Hash160(priv.PubKey().SerializeCompressed())
	pkScript := PayToAddrScript(pubKeyHash)

	tx := wire.NewMsgTx(wire.TxVersion)
	tx.AddTxIn(wire.NewTxIn(wire.NewOutPoint(&chainhash.Hash{}, 0), nil))
	tx.AddTxOut(wire.NewTxOut(5000, pkScript))

	sigScript, err := SignatureScript(tx, 0, pkScript, SigHashAll, priv, true)
	if err != nil {
		t.Fatalf("SignatureScript: %v", err)
	}
	tx.TxIn[0].SignatureScript = sigScript

	if err := VerifyPkScript(tx, 0, pkScript); err != nil {
		t.Fatalf("VerifyPkScript: %v", err)
	}
}

func TestSignatureScriptFailsWrongKey(t *testing.T) {
	priv := newTestPrivKey(t)
	wrongPriv := newTestPrivKey(t)
	pubKeyHash := util.Hash160(priv.PubKey().SerializeCompressed())
	pkScript := PayToAddrScript(pubKeyHash)

	tx := wire.NewMsgTx(wire.TxVersion)
	tx.AddTxIn(wire.NewTxIn(wire.NewOutPoint(&chainhash.Hash{}, 0), nil))
	tx.AddTxOut(wire.NewTxOut(5000, pkScript))

	sigScript, err := SignatureScript(tx, 0, pkScript, SigHashAll, wrongPriv, true)
	if err != nil {
		t.Fatalf("SignatureScript: %v", err)
	}
	tx.TxIn[0].SignatureScript = sigScript

	if err := VerifyPkScript(tx, 0, pkScript); err == nil {
		t.Fatal("expected verification failure with mismatched key")
	}
}

func TestIsPushOnly(t *testing.T) {
	if !IsPushOnly([]byte{OpData1, 0x01}) {
		t.Error("expected a single data push to be push-only")
	}
	if IsPushOnly([]byte{OpCheckSig}) {
		t.Error("expected OP_CHECKSIG alone to not be push-only")
	}
}

func TestGetSigOpCount(t *testing.T) {
	pkScript := PayToAddrScript(make([]byte, 20))
	if got := GetSigOpCount(pkScript); got != 1 {
		t.Errorf("GetSigOpCount(P2PKH) = %d, want 1", got)
	}
}

func TestMultiSigRoundTrip(t *testing.T) {
	priv1 := newTestPrivKey(t)
	priv2 := newTestPrivKey(t)

	pk1 := priv1.PubKey().SerializeCompressed()
	pk2 := priv2.PubKey().SerializeCompressed()

	pkScript := make([]byte, 0)
	pkScript = append(pkScript, OpTrue+1) // OP_2
	pkScript = appendDataPush(pkScript, pk1)
	pkScript = appendDataPush(pkScript, pk2)
	pkScript = append(pkScript, OpTrue+1) // OP_2
	pkScript = append(pkScript, OpCheckMultiSig)

	if GetScriptClass(pkScript) != MultiSigTy {
		t.Fatalf("GetScriptClass = %v, want MultiSigTy", GetScriptClass(pkScript))
	}

	tx := wire.NewMsgTx(wire.TxVersion)
	tx.AddTxIn(wire.NewTxIn(wire.NewOutPoint(&chainhash.Hash{}, 0), nil))
	tx.AddTxOut(wire.NewTxOut(5000, pkScript))

	sig1, err := RawTxInSignature(tx, 0, pkScript, SigHashAll, priv1)
	if err != nil {
		t.Fatalf("RawTxInSignature: %v", err)
	}
	sig2, err := RawTxInSignature(tx, 0, pkScript, SigHashAll, priv2)
	if err != nil {
		t.Fatalf("RawTxInSignature: %v", err)
	}

	scriptSig := make([]byte, 0)
	scriptSig = append(scriptSig, OpFalse)
	scriptSig = appendDataPush(scriptSig, sig1)
	scriptSig = appendDataPush(scriptSig, sig2)
	tx.TxIn[0].SignatureScript = scriptSig

	if err := VerifyPkScript(tx, 0, pkScript); err != nil {
		t.Fatalf("VerifyPkScript: %v", err)
	}
}
