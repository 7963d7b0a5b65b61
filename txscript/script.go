// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import "github.com/pkg/errors"

// MaxScriptSize bounds the serialized length of a single script, on
// either side of a transaction.
const MaxScriptSize = 10000

// ParsedOpcode is a single decoded instruction: the opcode byte plus
// any data it pushes.
type ParsedOpcode struct {
	Op   byte
	Data []byte
}

// parseScript walks script and decodes it into its constituent
// opcodes, resolving the push-data length prefixes along the way. It
// does not execute anything.
func parseScript(script []byte) ([]ParsedOpcode, error) {
	var parsed []ParsedOpcode
	for i := 0; i < len(script); {
		op := script[i]
		i++

		switch {
		case op >= OpData1 && op <= OpData75:
			length := int(op)
			if i+length > len(script) {
				return nil, errors.New("opcode push data exceeds script length")
			}
			parsed = append(parsed, ParsedOpcode{Op: op, Data: script[i : i+length]})
			i += length

		case op == OpPushData1:
			if i+1 > len(script) {
				return nil, errors.New("OP_PUSHDATA1 missing length byte")
			}
			length := int(script[i])
			i++
			if i+length > len(script) {
				return nil, errors.New("OP_PUSHDATA1 push data exceeds script length")
			}
			parsed = append(parsed, ParsedOpcode{Op: op, Data: script[i : i+length]})
			i += length

		case op == OpPushData2:
			if i+2 > len(script) {
				return nil, errors.New("OP_PUSHDATA2 missing length bytes")
			}
			length := int(script[i]) | int(script[i+1])<<8
			i += 2
			if i+length > len(script) {
				return nil, errors.New("OP_PUSHDATA2 push data exceeds script length")
			}
			parsed = append(parsed, ParsedOpcode{Op: op, Data: script[i : i+length]})
			i += length

		case op == OpPushData4:
			if i+4 > len(script) {
				return nil, errors.New("OP_PUSHDATA4 missing length bytes")
			}
			length := int(script[i]) | int(script[i+1])<<8 | int(script[i+2])<<16 | int(script[i+3])<<24
			i += 4
			if i+length > len(script) {
				return nil, errors.New("OP_PUSHDATA4 push data exceeds script length")
			}
			parsed = append(parsed, ParsedOpcode{Op: op, Data: script[i : i+length]})
			i += length

		default:
			parsed = append(parsed, ParsedOpcode{Op: op})
		}
	}
	return parsed, nil
}

// IsPushOnly reports whether script consists entirely of data pushes
// and small-integer constants - the requirement for a valid
// scriptSig.
func IsPushOnly(script []byte) bool {
	parsed, err := parseScript(script)
	if err != nil {
		return false
	}
	for _, pop := range parsed {
		if pop.Op > OpTrue && !(pop.Op >= OpTrue && pop.Op <= Op16) {
			if pop.Op != Op1Negate {
				return false
			}
		}
	}
	return true
}

// GetSigOpCount returns the number of signature operations in script,
// counting a bare OP_CHECKMULTISIG[VERIFY] by the small-integer push
// immediately preceding it when possible, and the conservative maximum
// otherwise.
func GetSigOpCount(script []byte) int {
	parsed, err := parseScript(script)
	if err != nil {
		return 0
	}

	count := 0
	for i, pop := range parsed {
		if !isSigOp(pop.Op) {
			continue
		}
		if pop.Op == OpCheckMultiSig || pop.Op == OpCheckMultiSigVerify {
			if i > 0 {
				if n, ok := asSmallInt(parsed[i-1].Op); ok {
					count += n
					continue
				}
			}
			count += MaxPubKeysPerMultiSig
			continue
		}
		count++
	}
	return count
}
