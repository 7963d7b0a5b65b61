// Copyright (c) 2014-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txvalidate

import (
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"

	"github.com/vireo-chain/vireod/chainhash"
	"github.com/vireo-chain/vireod/database"
	"github.com/vireo-chain/vireod/txscript"
	"github.com/vireo-chain/vireod/util"
	"github.com/vireo-chain/vireod/wire"
)

// fakeFetcher implements InputFetcher over an in-memory map, standing
// in for the overlay/disk/mempool lookup chain a real caller layers.
type fakeFetcher map[wire.OutPoint]*PrevOut

func (f fakeFetcher) FetchPrevOut(outpoint wire.OutPoint) (*PrevOut, error) {
	prev, ok := f[outpoint]
	if !ok {
		return nil, ErrMissingInput
	}
	return prev, nil
}

func TestConnectInputsAcceptsValidSpend(t *testing.T) {
	priv, err := btcec.NewPrivateKey()
	if err != nil {
		t.Fatalf("btcec.NewPrivateKey: %v", err)
	}
	pubKeyHash := util.Hash160(priv.PubKey().SerializeCompressed())
	pkScript := txscript.PayToAddrScript(pubKeyHash)

	prevTx := wire.NewMsgTx(wire.TxVersion)
	prevTx.AddTxIn(wire.NewTxIn(wire.NewOutPoint(&chainhash.Hash{}, 0), nil))
	prevTx.AddTxOut(wire.NewTxOut(50000, pkScript))

	outpoint := wire.OutPoint{Hash: prevTx.TxHash(), Index: 0}
	prevIndex := &database.TxIndex{Spent: make([]*database.DiskTxPos, 1)}

	spendingTx := wire.NewMsgTx(wire.TxVersion)
	spendingTx.AddTxIn(wire.NewTxIn(&outpoint, nil))
	spendingTx.AddTxOut(wire.NewTxOut(40000, pkScript))

	sigScript, err := txscript.SignatureScript(spendingTx, 0, pkScript, txscript.SigHashAll, priv, true)
	if err != nil {
		t.Fatalf("SignatureScript: %v", err)
	}
	spendingTx.TxIn[0].SignatureScript = sigScript

	fetcher := fakeFetcher{
		outpoint: {Tx: prevTx, BlockHeight: 10, BlockTime: spendingTx.Timestamp.Unix(), Index: prevIndex},
	}

	valueIn, connected, result := ConnectInputs(spendingTx, fetcher, 70, spendingTx.Timestamp.Unix(), 60)
	if !result.IsOk() {
		t.Fatalf("ConnectInputs: %v", result)
	}
	if valueIn != 50000 {
		t.Errorf("valueIn = %d, want 50000", valueIn)
	}
	if len(connected) != 1 {
		t.Fatalf("len(connected) = %d, want 1", len(connected))
	}
}

func TestConnectInputsRejectsImmatureCoinbase(t *testing.T) {
	priv, err := btcec.NewPrivateKey()
	if err != nil {
		t.Fatalf("btcec.NewPrivateKey: %v", err)
	}
	pubKeyHash := util.Hash160(priv.PubKey().SerializeCompressed())
	pkScript := txscript.PayToAddrScript(pubKeyHash)

	coinbase := wire.NewMsgTx(wire.TxVersion)
	coinbase.AddTxIn(wire.NewTxIn(wire.NewOutPoint(&chainhash.Hash{}, 0xffffffff), nil))
	coinbase.AddTxOut(wire.NewTxOut(50000, pkScript))

	outpoint := wire.OutPoint{Hash: coinbase.TxHash(), Index: 0}
	prevIndex := &database.TxIndex{Spent: make([]*database.DiskTxPos, 1)}

	spendingTx := wire.NewMsgTx(wire.TxVersion)
	spendingTx.AddTxIn(wire.NewTxIn(&outpoint, nil))
	spendingTx.AddTxOut(wire.NewTxOut(40000, pkScript))

	sigScript, err := txscript.SignatureScript(spendingTx, 0, pkScript, txscript.SigHashAll, priv, true)
	if err != nil {
		t.Fatalf("SignatureScript: %v", err)
	}
	spendingTx.TxIn[0].SignatureScript = sigScript

	fetcher := fakeFetcher{
		outpoint: {Tx: coinbase, BlockHeight: 10, BlockTime: spendingTx.Timestamp.Unix(), Index: prevIndex},
	}

	_, _, result := ConnectInputs(spendingTx, fetcher, 20, spendingTx.Timestamp.Unix(), 60)
	if result.Severity != SeverityRejected {
		t.Fatalf("ConnectInputs severity = %v, want SeverityRejected (immature coinbase)", result.Severity)
	}
}

func TestConnectInputsRejectsDoubleSpend(t *testing.T) {
	priv, err := btcec.NewPrivateKey()
	if err != nil {
		t.Fatalf("btcec.NewPrivateKey: %v", err)
	}
	pubKeyHash := util.Hash160(priv.PubKey().SerializeCompressed())
	pkScript := txscript.PayToAddrScript(pubKeyHash)

	prevTx := wire.NewMsgTx(wire.TxVersion)
	prevTx.AddTxIn(wire.NewTxIn(wire.NewOutPoint(&chainhash.Hash{}, 0), nil))
	prevTx.AddTxOut(wire.NewTxOut(50000, pkScript))

	outpoint := wire.OutPoint{Hash: prevTx.TxHash(), Index: 0}
	alreadySpentAt := &database.DiskTxPos{}
	prevIndex := &database.TxIndex{Spent: []*database.DiskTxPos{alreadySpentAt}}

	spendingTx := wire.NewMsgTx(wire.TxVersion)
	spendingTx.AddTxIn(wire.NewTxIn(&outpoint, nil))
	spendingTx.AddTxOut(wire.NewTxOut(40000, pkScript))

	sigScript, err := txscript.SignatureScript(spendingTx, 0, pkScript, txscript.SigHashAll, priv, true)
	if err != nil {
		t.Fatalf("SignatureScript: %v", err)
	}
	spendingTx.TxIn[0].SignatureScript = sigScript

	fetcher := fakeFetcher{
		outpoint: {Tx: prevTx, BlockHeight: 10, BlockTime: spendingTx.Timestamp.Unix(), Index: prevIndex},
	}

	_, _, result := ConnectInputs(spendingTx, fetcher, 70, spendingTx.Timestamp.Unix(), 60)
	if result.Severity != SeverityRejected {
		t.Fatalf("ConnectInputs severity = %v, want SeverityRejected (double spend)", result.Severity)
	}
}
