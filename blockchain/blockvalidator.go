// Copyright (c) 2014-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"bytes"
	"time"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/pkg/errors"

	"github.com/vireo-chain/vireod/chaincfg"
	"github.com/vireo-chain/vireod/chainhash"
	"github.com/vireo-chain/vireod/txscript"
	"github.com/vireo-chain/vireod/txvalidate"
	"github.com/vireo-chain/vireod/util"
	"github.com/vireo-chain/vireod/wire"
)

var (
	errNoSecondOutput    = errors.New("coinstake transaction has no second output to carry the staking public key")
	errNotBarePubKey     = errors.New("script is not a bare public key push")
	errBadBlockSignature = errors.New("block signature does not verify against the coinstake's staking public key")
)

// MaxBlockSigOps bounds the legacy signature operation count a block's
// transactions may contain. Signature operations inside P2SH redeem
// scripts are not counted against it.
const MaxBlockSigOps = 20000

// minCoinbaseScriptSigSize and maxCoinbaseScriptSigSize bound the
// coinbase signature script's length on mainnet, where it doubles as
// extra nonce space; testnet leaves it unbounded to make small-scale
// mining easier.
const (
	minCoinbaseScriptSigSize = 2
	maxCoinbaseScriptSigSize = 100
)

// BlockValidator holds the network parameters CheckBlock and
// AcceptBlock validate against. It carries no mutable state of its
// own; the chain's mutable state belongs to ChainManager.
type BlockValidator struct {
	params      *chaincfg.Params
	checkpoints *Checkpoints
}

// NewBlockValidator returns a BlockValidator for params, enforcing
// checkpoints.
func NewBlockValidator(params *chaincfg.Params, checkpoints *Checkpoints) *BlockValidator {
	return &BlockValidator{params: params, checkpoints: checkpoints}
}

// CheckBlock performs every context-free structural check a block
// must pass before AcceptBlock is even attempted: size, coinbase/
// coinstake placement, per-transaction structural validity, the
// merkle root, the legacy sigop count, and - for proof-of-stake
// blocks - the block signature.
func (v *BlockValidator) CheckBlock(block *util.Block, now time.Time) txvalidate.Result {
	msg := block.MsgBlock()

	if len(msg.Transactions) == 0 {
		return txvalidate.Rejected(100, "block has no transactions")
	}
	if msg.SerializeSize() > txvalidate.MaxBlockSize {
		return txvalidate.Rejected(100, "block exceeds the maximum allowed size")
	}
	if msg.Header.Timestamp.After(now.Add(v.params.FutureDrift)) {
		return txvalidate.Rejected(20, "block timestamp too far in the future")
	}

	if !msg.Transactions[0].IsCoinBase() {
		return txvalidate.Rejected(100, "first transaction is not a coinbase")
	}
	if v.params.Net == chaincfg.MainNetMagic {
		sigScriptSize := len(msg.Transactions[0].TxIn[0].SignatureScript)
		if sigScriptSize < minCoinbaseScriptSigSize || sigScriptSize > maxCoinbaseScriptSigSize {
			return txvalidate.Rejected(100, "coinbase signature script size is invalid")
		}
	}
	for _, tx := range msg.Transactions[1:] {
		if tx.IsCoinBase() {
			return txvalidate.Rejected(100, "block contains more than one coinbase transaction")
		}
	}

	isPoS := msg.IsProofOfStake()
	if isPoS {
		if len(msg.Transactions[0].TxOut) != 1 || len(msg.Transactions[0].TxOut[0].PkScript) != 0 || msg.Transactions[0].TxOut[0].Value != 0 {
			return txvalidate.Rejected(100, "proof-of-stake block's coinbase must have exactly one empty output")
		}
		for _, tx := range msg.Transactions[2:] {
			if tx.IsCoinStake() {
				return txvalidate.Rejected(100, "block contains more than one coinstake transaction")
			}
		}
		if err := v.checkBlockSignature(msg); err != nil {
			return txvalidate.Rejected(100, "block signature does not verify: "+err.Error())
		}
	}

	seen := make(map[chainhash.Hash]struct{}, len(msg.Transactions))
	sigOps := 0
	for _, tx := range msg.Transactions {
		hash := tx.TxHash()
		if _, dup := seen[hash]; dup {
			return txvalidate.Rejected(100, "block contains a duplicate transaction")
		}
		seen[hash] = struct{}{}

		if tx.Timestamp.After(msg.Header.Timestamp) {
			return txvalidate.Rejected(100, "transaction timestamp is later than its block's")
		}

		if !tx.IsCoinBase() && !tx.IsCoinStake() {
			if result := txvalidate.CheckTransaction(tx); !result.IsOk() {
				return result
			}
		}

		for _, out := range tx.TxOut {
			sigOps += txscript.GetSigOpCount(out.PkScript)
		}
		for _, in := range tx.TxIn {
			sigOps += txscript.GetSigOpCount(in.SignatureScript)
		}
	}
	if sigOps > MaxBlockSigOps {
		return txvalidate.Rejected(100, "block exceeds the maximum legacy sigop count")
	}

	txHashes := make([]chainhash.Hash, 0, len(msg.Transactions))
	for _, tx := range msg.Transactions {
		txHashes = append(txHashes, tx.TxHash())
	}
	root := BuildMerkleRoot(txHashes)
	if root != msg.Header.MerkleRoot {
		return txvalidate.Rejected(100, "merkle root does not match the block's transactions")
	}

	return txvalidate.Ok
}

// checkBlockSignature verifies msg.BlockSig against the block hash
// using the public key embedded in the coinstake transaction's second
// output's pkScript (a bare pay-to-pubkey style script consisting of
// a single data push).
func (v *BlockValidator) checkBlockSignature(msg *wire.MsgBlock) error {
	coinstake := msg.Transactions[1]
	if len(coinstake.TxOut) < 2 {
		return errNoSecondOutput
	}
	pkScript := coinstake.TxOut[1].PkScript
	pubKeyBytes, err := extractBarePubKey(pkScript)
	if err != nil {
		return err
	}
	pubKey, err := btcec.ParsePubKey(pubKeyBytes)
	if err != nil {
		return err
	}
	sig, err := ecdsa.ParseDERSignature(msg.BlockSig)
	if err != nil {
		return err
	}
	hash := msg.BlockHash()
	if !sig.Verify(hash[:], pubKey) {
		return errBadBlockSignature
	}
	return nil
}

// extractBarePubKey reads a single canonical data push out of script,
// the bare pay-to-pubkey template the block-signature check expects.
func extractBarePubKey(script []byte) ([]byte, error) {
	if len(script) < 2 {
		return nil, errNotBarePubKey
	}
	length := int(script[0])
	if length == 0 || len(script) != 1+length {
		return nil, errNotBarePubKey
	}
	return script[1:], nil
}

// CheckCoinbaseHeight verifies the coinbase's signature script begins
// with height serialized as a minimally-encoded little-endian push,
// the standard anti-duplicate-coinbase rule.
func CheckCoinbaseHeight(coinbase *wire.MsgTx, height int32) bool {
	script := coinbase.TxIn[0].SignatureScript
	serialized := serializeHeightPush(height)
	return bytes.HasPrefix(script, serialized)
}

func serializeHeightPush(height int32) []byte {
	v := uint32(height)
	b := []byte{byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24)}
	for len(b) > 1 && b[len(b)-1] == 0 {
		b = b[:len(b)-1]
	}
	return append([]byte{byte(len(b))}, b...)
}
