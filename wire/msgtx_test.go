package wire

import (
	"bytes"
	"testing"

	"github.com/vireo-chain/vireod/chainhash"
)

func TestMsgTxSerializeRoundTrip(t *testing.T) {
	prevHash := chainhash.HashH([]byte("prev tx"))
	tx := NewMsgTx(TxVersion)
	tx.AddTxIn(NewTxIn(NewOutPoint(&prevHash, 0), []byte{0x01, 0x02}))
	tx.AddTxOut(NewTxOut(5000000, []byte{0x76, 0xa9}))

	var buf bytes.Buffer
	if err := tx.Serialize(&buf); err != nil {
		t.Fatalf("Serialize: %v", err)
	}

	var decoded MsgTx
	if err := decoded.Deserialize(&buf); err != nil {
		t.Fatalf("Deserialize: %v", err)
	}

	if decoded.TxHash() != tx.TxHash() {
		t.Errorf("round trip hash mismatch: got %s, want %s", decoded.TxHash(), tx.TxHash())
	}
	if len(decoded.TxIn) != 1 || len(decoded.TxOut) != 1 {
		t.Errorf("unexpected input/output counts after round trip: %d in, %d out", len(decoded.TxIn), len(decoded.TxOut))
	}
}

func TestMsgTxIsCoinBase(t *testing.T) {
	tx := NewMsgTx(TxVersion)
	tx.AddTxIn(NewTxIn(&OutPoint{Index: ^uint32(0)}, []byte{0x00, 0x01}))
	tx.AddTxOut(NewTxOut(5000000, nil))

	if !tx.IsCoinBase() {
		t.Errorf("expected coinbase with a single null-outpoint input")
	}

	tx.AddTxIn(NewTxIn(&OutPoint{Index: ^uint32(0)}, nil))
	if tx.IsCoinBase() {
		t.Errorf("did not expect coinbase once a second input is present")
	}
}

func TestMsgTxIsCoinStake(t *testing.T) {
	prevHash := chainhash.HashH([]byte("staked output"))
	tx := NewMsgTx(TxVersion)
	tx.AddTxIn(NewTxIn(NewOutPoint(&prevHash, 0), nil))
	tx.AddTxOut(NewTxOut(0, nil))
	tx.AddTxOut(NewTxOut(1000000, []byte{0x76, 0xa9}))

	if !tx.IsCoinStake() {
		t.Errorf("expected coinstake with empty first output and non-null first input")
	}

	tx.TxOut[0].Value = 1
	if tx.IsCoinStake() {
		t.Errorf("did not expect coinstake once the first output carries value")
	}
}

func TestMsgBlockSerializeRoundTrip(t *testing.T) {
	prevHash := chainhash.HashH([]byte("prev block"))
	merkleRoot := chainhash.HashH([]byte("merkle"))
	header := NewBlockHeader(1, &prevHash, &merkleRoot, 0x1d00ffff, 0)

	block := NewMsgBlock(header)
	coinbase := NewMsgTx(TxVersion)
	coinbase.AddTxIn(NewTxIn(&OutPoint{Index: ^uint32(0)}, []byte{0x01, 0x02}))
	coinbase.AddTxOut(NewTxOut(5000000, nil))
	block.AddTransaction(coinbase)

	var buf bytes.Buffer
	if err := block.Serialize(&buf); err != nil {
		t.Fatalf("Serialize: %v", err)
	}

	var decoded MsgBlock
	if err := decoded.Deserialize(&buf); err != nil {
		t.Fatalf("Deserialize: %v", err)
	}

	if decoded.BlockHash() != block.BlockHash() {
		t.Errorf("round trip hash mismatch: got %s, want %s", decoded.BlockHash(), block.BlockHash())
	}
	if len(decoded.Transactions) != 1 {
		t.Errorf("expected 1 transaction after round trip, got %d", len(decoded.Transactions))
	}
}
