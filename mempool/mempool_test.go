// Copyright (c) 2014-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mempool

import (
	"testing"
	"time"

	"github.com/btcsuite/btcd/btcec/v2"

	"github.com/vireo-chain/vireod/chaincfg"
	"github.com/vireo-chain/vireod/chainhash"
	"github.com/vireo-chain/vireod/database"
	"github.com/vireo-chain/vireod/txscript"
	"github.com/vireo-chain/vireod/txvalidate"
	"github.com/vireo-chain/vireod/util"
	"github.com/vireo-chain/vireod/wire"
)

// fakeChain implements ChainReader over an in-memory map, standing in
// for a *blockchain.ChainManager backed by a real store.
type fakeChain struct {
	prevOuts  map[wire.OutPoint]*txvalidate.PrevOut
	confirmed map[chainhash.Hash]bool
	tipHeight int32
}

func newFakeChain() *fakeChain {
	return &fakeChain{
		prevOuts:  make(map[wire.OutPoint]*txvalidate.PrevOut),
		confirmed: make(map[chainhash.Hash]bool),
		tipHeight: 100,
	}
}

func (f *fakeChain) FetchPrevOut(outpoint wire.OutPoint) (*txvalidate.PrevOut, error) {
	if prev, ok := f.prevOuts[outpoint]; ok {
		return prev, nil
	}
	return nil, txvalidate.ErrMissingInput
}

func (f *fakeChain) ContainsTx(hash chainhash.Hash) (bool, error) {
	return f.confirmed[hash], nil
}

func (f *fakeChain) TipHeight() int32 { return f.tipHeight }

// spendableTx builds a signed transaction spending a fresh confirmed
// output of value atoms registered with chain, returning the
// transaction and its own hash.
func spendableTx(t *testing.T, chain *fakeChain, value, spend int64) *wire.MsgTx {
	t.Helper()

	priv, err := btcec.NewPrivateKey()
	if err != nil {
		t.Fatalf("btcec.NewPrivateKey: %v", err)
	}
	pkScript := txscript.PayToAddrScript(util.Hash160(priv.PubKey().SerializeCompressed()))

	prevTx := wire.NewMsgTx(wire.TxVersion)
	prevTx.AddTxIn(wire.NewTxIn(wire.NewOutPoint(&chainhash.Hash{}, 0), nil))
	prevTx.AddTxOut(wire.NewTxOut(value, pkScript))

	outpoint := wire.OutPoint{Hash: prevTx.TxHash(), Index: 0}
	chain.prevOuts[outpoint] = &txvalidate.PrevOut{
		Tx:          prevTx,
		BlockHeight: 1,
		Index:       &database.TxIndex{Spent: make([]*database.DiskTxPos, 1)},
	}

	tx := wire.NewMsgTx(wire.TxVersion)
	tx.AddTxIn(wire.NewTxIn(&outpoint, nil))
	tx.AddTxOut(wire.NewTxOut(spend, pkScript))

	sigScript, err := txscript.SignatureScript(tx, 0, pkScript, txscript.SigHashAll, priv, true)
	if err != nil {
		t.Fatalf("SignatureScript: %v", err)
	}
	tx.TxIn[0].SignatureScript = sigScript
	return tx
}

func TestAcceptToMemoryPoolAcceptsWellFormedSpend(t *testing.T) {
	chain := newFakeChain()
	mp := New(DefaultConfig(&chaincfg.TestNetParams), chain)

	tx := spendableTx(t, chain, 10*util.AtomsPerCoin, 10*util.AtomsPerCoin-2*txvalidate.MinTxFee)

	result := mp.AcceptToMemoryPool(tx, time.Unix(1700000000, 0))
	if !result.IsOk() {
		t.Fatalf("AcceptToMemoryPool: %v", result)
	}
	if mp.Count() != 1 {
		t.Fatalf("Count() = %d, want 1", mp.Count())
	}

	// A second submission of the same transaction is a transient
	// already-known result, not a fresh acceptance.
	result = mp.AcceptToMemoryPool(tx, time.Unix(1700000001, 0))
	if result.Severity != txvalidate.SeverityTransient {
		t.Fatalf("resubmission severity = %v, want SeverityTransient", result.Severity)
	}
}

func TestAcceptToMemoryPoolParksMissingParentAsOrphan(t *testing.T) {
	chain := newFakeChain()
	mp := New(DefaultConfig(&chaincfg.TestNetParams), chain)

	priv, err := btcec.NewPrivateKey()
	if err != nil {
		t.Fatalf("btcec.NewPrivateKey: %v", err)
	}
	pkScript := txscript.PayToAddrScript(util.Hash160(priv.PubKey().SerializeCompressed()))

	tx := wire.NewMsgTx(wire.TxVersion)
	tx.AddTxIn(wire.NewTxIn(wire.NewOutPoint(&chainhash.Hash{0xaa}, 0), nil))
	tx.AddTxOut(wire.NewTxOut(1000, pkScript))
	sigScript, err := txscript.SignatureScript(tx, 0, pkScript, txscript.SigHashAll, priv, true)
	if err != nil {
		t.Fatalf("SignatureScript: %v", err)
	}
	tx.TxIn[0].SignatureScript = sigScript

	result := mp.AcceptToMemoryPool(tx, time.Unix(1700000000, 0))
	if result.Severity != txvalidate.SeverityTransient || result.Kind != txvalidate.TransientMissingParent {
		t.Fatalf("result = %+v, want transient missing-parent", result)
	}
	if mp.OrphanCount() != 1 {
		t.Fatalf("OrphanCount() = %d, want 1", mp.OrphanCount())
	}
}

func TestAcceptToMemoryPoolRejectsDoubleSpendAgainstPool(t *testing.T) {
	chain := newFakeChain()
	mp := New(DefaultConfig(&chaincfg.TestNetParams), chain)

	priv, err := btcec.NewPrivateKey()
	if err != nil {
		t.Fatalf("btcec.NewPrivateKey: %v", err)
	}
	pkScript := txscript.PayToAddrScript(util.Hash160(priv.PubKey().SerializeCompressed()))

	prevTx := wire.NewMsgTx(wire.TxVersion)
	prevTx.AddTxIn(wire.NewTxIn(wire.NewOutPoint(&chainhash.Hash{}, 0), nil))
	prevTx.AddTxOut(wire.NewTxOut(10*util.AtomsPerCoin, pkScript))
	outpoint := wire.OutPoint{Hash: prevTx.TxHash(), Index: 0}
	chain.prevOuts[outpoint] = &txvalidate.PrevOut{
		Tx:    prevTx,
		Index: &database.TxIndex{Spent: make([]*database.DiskTxPos, 1)},
	}

	buildSpend := func(spend int64) *wire.MsgTx {
		tx := wire.NewMsgTx(wire.TxVersion)
		tx.AddTxIn(wire.NewTxIn(&outpoint, nil))
		tx.AddTxOut(wire.NewTxOut(spend, pkScript))
		sigScript, err := txscript.SignatureScript(tx, 0, pkScript, txscript.SigHashAll, priv, true)
		if err != nil {
			t.Fatalf("SignatureScript: %v", err)
		}
		tx.TxIn[0].SignatureScript = sigScript
		return tx
	}

	first := buildSpend(10*util.AtomsPerCoin - 2*txvalidate.MinTxFee)
	if result := mp.AcceptToMemoryPool(first, time.Unix(1700000000, 0)); !result.IsOk() {
		t.Fatalf("first spend: %v", result)
	}

	second := buildSpend(10*util.AtomsPerCoin - 3*txvalidate.MinTxFee)
	result := mp.AcceptToMemoryPool(second, time.Unix(1700000001, 0))
	if result.Severity != txvalidate.SeverityRejected {
		t.Fatalf("second spend severity = %v, want SeverityRejected", result.Severity)
	}
}

func TestFreeLimiterDecaysAcrossElapsedTime(t *testing.T) {
	limiter := NewFreeLimiter(1000)
	start := time.Unix(1700000000, 0)

	if !limiter.Allow(900, start) {
		t.Fatalf("first 900-byte free tx should fit within a fresh 1000 budget")
	}
	if limiter.Allow(900, start) {
		t.Fatalf("second 900-byte free tx should not fit before any decay")
	}

	// After ten minutes (600s), the running count has decayed by
	// (1 - 1/600)^600 ~= e^-1, comfortably under the limit again.
	later := start.Add(600 * time.Second)
	if !limiter.Allow(300, later) {
		t.Fatalf("300-byte free tx should fit after a full decay window")
	}
}

func TestOrphanTxPoolResolvesOnParentArrival(t *testing.T) {
	pool := NewOrphanTxPool(defaultMaxOrphanTxSize, defaultMaxOrphanTxCount)

	parentHash := chainhash.Hash{0x01}
	child := wire.NewMsgTx(wire.TxVersion)
	child.AddTxIn(wire.NewTxIn(wire.NewOutPoint(&parentHash, 0), nil))
	child.AddTxOut(wire.NewTxOut(1000, nil))

	if !pool.Add(child) {
		t.Fatalf("Add rejected a well-formed orphan")
	}
	if pool.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", pool.Len())
	}

	children := pool.Children(parentHash)
	if len(children) != 1 || children[0].TxHash() != child.TxHash() {
		t.Fatalf("Children(parentHash) did not return the parked orphan")
	}

	pool.Remove(child.TxHash())
	if pool.Len() != 0 {
		t.Fatalf("Len() = %d after Remove, want 0", pool.Len())
	}
}

func TestOrphanTxPoolRejectsOversizedOrphan(t *testing.T) {
	pool := NewOrphanTxPool(10, defaultMaxOrphanTxCount)

	tx := wire.NewMsgTx(wire.TxVersion)
	tx.AddTxIn(wire.NewTxIn(wire.NewOutPoint(&chainhash.Hash{}, 0), make([]byte, 64)))
	tx.AddTxOut(wire.NewTxOut(1000, nil))

	if pool.Add(tx) {
		t.Fatalf("Add accepted a transaction larger than the pool's size cap")
	}
}

func TestOrphanTxPoolEvictsAtCapacity(t *testing.T) {
	pool := NewOrphanTxPool(defaultMaxOrphanTxSize, 2)

	for i := byte(0); i < 3; i++ {
		tx := wire.NewMsgTx(wire.TxVersion)
		tx.AddTxIn(wire.NewTxIn(wire.NewOutPoint(&chainhash.Hash{i}, 0), nil))
		tx.AddTxOut(wire.NewTxOut(1000, nil))
		pool.Add(tx)
	}

	if pool.Len() != 2 {
		t.Fatalf("Len() = %d, want 2 (one eviction after exceeding the cap)", pool.Len())
	}
}

func TestIsDustOutputRejectsBelowThreshold(t *testing.T) {
	pkScript := txscript.PayToAddrScript(make([]byte, 20))
	if !isDustOutput(wire.NewTxOut(1, pkScript)) {
		t.Fatalf("a 1-atom output should be dust")
	}
	if isDustOutput(wire.NewTxOut(1000000, pkScript)) {
		t.Fatalf("a 1000000-atom output should not be dust")
	}
}
