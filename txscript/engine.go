// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/pkg/errors"

	"github.com/vireo-chain/vireod/util"
	"github.com/vireo-chain/vireod/wire"
)

// VerifySignature reports whether sig (DER-encoded, with the trailing
// hash-type byte) is a valid signature by the given public key over
// tx's idx'th input against subScript.
func VerifySignature(tx *wire.MsgTx, idx int, subScript, sig, pubKeyBytes []byte) error {
	if len(sig) == 0 {
		return errors.New("empty signature")
	}
	hashType := SigHashType(sig[len(sig)-1])
	rawSig := sig[:len(sig)-1]

	parsedSig, err := ecdsa.ParseDERSignature(rawSig)
	if err != nil {
		return errors.Wrap(err, "malformed DER signature")
	}

	pubKey, err := btcec.ParsePubKey(pubKeyBytes)
	if err != nil {
		return errors.Wrap(err, "malformed public key")
	}

	hash, err := CalcSignatureHash(subScript, hashType, tx, idx)
	if err != nil {
		return err
	}

	if !parsedSig.Verify(hash[:], pubKey) {
		return errors.New("signature does not verify against the given public key and hash")
	}
	return nil
}

// VerifyPkScript checks that the scriptSig on tx's idx'th input
// satisfies pkScript, the previous output's script. It covers the
// three spendable standard templates: P2PKH, P2SH, and bare multisig.
// P2SH resolves one level - the redeem script itself must then match
// P2PKH or bare multisig, mirroring the historical non-recursive
// restriction.
func VerifyPkScript(tx *wire.MsgTx, idx int, pkScript []byte) error {
	if idx >= len(tx.TxIn) {
		return errors.Errorf("input index %d out of range", idx)
	}
	scriptSig := tx.TxIn[idx].SignatureScript

	if !IsPushOnly(scriptSig) {
		return errors.New("signature script is not push-only")
	}

	switch GetScriptClass(pkScript) {
	case PubKeyHashTy:
		return verifyPubKeyHash(tx, idx, pkScript, scriptSig)

	case MultiSigTy:
		return verifyMultiSig(tx, idx, pkScript, scriptSig)

	case ScriptHashTy:
		redeemScript, sigPart, err := splitScriptHashSig(scriptSig)
		if err != nil {
			return err
		}
		if !bytesEqual(ExtractScriptHash(pkScript), hash160(redeemScript)) {
			return errors.New("redeem script does not match the P2SH output's script hash")
		}
		switch GetScriptClass(redeemScript) {
		case PubKeyHashTy:
			return verifyPubKeyHash(tx, idx, redeemScript, sigPart)
		case MultiSigTy:
			return verifyMultiSig(tx, idx, redeemScript, sigPart)
		default:
			return errors.New("P2SH redeem script does not match a spendable standard template")
		}

	case NullDataTy, StakeEmptyTy:
		return errors.New("output is unspendable")

	default:
		return errors.New("pkScript does not match a recognized standard template")
	}
}

func hash160(b []byte) []byte {
	return util.Hash160(b)
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// verifyPubKeyHash checks the standard <sig> <pubkey> scriptSig
// against a P2PKH pkScript.
func verifyPubKeyHash(tx *wire.MsgTx, idx int, pkScript, scriptSig []byte) error {
	parsed, err := parseScript(scriptSig)
	if err != nil || len(parsed) != 2 {
		return errors.New("P2PKH signature script must push exactly a signature and a public key")
	}
	sig, pubKeyBytes := parsed[0].Data, parsed[1].Data

	if !bytesEqual(ExtractPubKeyHash(pkScript), hash160(pubKeyBytes)) {
		return errors.New("public key does not match the P2PKH output's key hash")
	}
	return VerifySignature(tx, idx, pkScript, sig, pubKeyBytes)
}

// verifyMultiSig checks a scriptSig consisting of OP_0 (placeholder)
// followed by zero or more signature pushes against a bare m-of-n
// multisig pkScript; m valid signatures, in pubkey order, are
// required.
func verifyMultiSig(tx *wire.MsgTx, idx int, pkScript, scriptSig []byte) error {
	sigParsed, err := parseScript(scriptSig)
	if err != nil {
		return errors.New("malformed multisig signature script")
	}

	var sigs [][]byte
	for _, pop := range sigParsed {
		if len(pop.Data) > 0 {
			sigs = append(sigs, pop.Data)
		}
	}

	pkParsed, err := parseScript(pkScript)
	if err != nil {
		return errors.New("malformed multisig pkScript")
	}
	m, _ := asSmallInt(pkParsed[0].Op)
	n, _ := asSmallInt(pkParsed[len(pkParsed)-2].Op)
	pubKeys := pkParsed[1 : 1+n]

	if len(sigs) < m {
		return errors.Errorf("multisig requires %d signatures, signature script has %d", m, len(sigs))
	}

	sigIdx := 0
	matched := 0
	for _, pk := range pubKeys {
		if sigIdx >= len(sigs) {
			break
		}
		if err := VerifySignature(tx, idx, pkScript, sigs[sigIdx], pk.Data); err == nil {
			matched++
			sigIdx++
		}
	}
	if matched < m {
		return errors.Errorf("multisig verification failed: only %d of %d required signatures matched", matched, m)
	}
	return nil
}

// splitScriptHashSig splits a P2SH scriptSig into its trailing
// redeem-script push and the signature pushes preceding it.
func splitScriptHashSig(scriptSig []byte) (redeemScript []byte, sigPart []byte, err error) {
	parsed, err := parseScript(scriptSig)
	if err != nil || len(parsed) == 0 {
		return nil, nil, errors.New("malformed P2SH signature script")
	}
	redeemScript = parsed[len(parsed)-1].Data
	if redeemScript == nil {
		return nil, nil, errors.New("P2SH signature script does not end in a redeem script push")
	}

	cut := len(scriptSig) - len(appendDataPush(nil, redeemScript))
	if cut < 0 {
		return nil, nil, errors.New("malformed P2SH signature script")
	}
	sigPart = scriptSig[:cut]
	return redeemScript, sigPart, nil
}
