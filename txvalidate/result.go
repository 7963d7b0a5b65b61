// Copyright (c) 2014-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package txvalidate holds the storage-agnostic transaction validation
// rules shared by the mempool and the block connection path: structural
// checks, fee/standardness checks, and the input-consumption dry run
// that detects double-spends and verifies signatures.
package txvalidate

import "fmt"

// Severity orders the outcomes a validator entry point can produce,
// from least to most severe. The legacy pattern of returning a bool
// while stashing a DoS weight on the side is replaced by this explicit
// sum type threaded through every call.
type Severity int

const (
	// SeverityOk means the check passed outright.
	SeverityOk Severity = iota

	// SeverityTransient means the caller should retry later - a
	// missing parent, an already-known transaction. Never surfaced
	// to the peer scoring layer.
	SeverityTransient

	// SeverityRejected means a validation rule fired. Carries a DoS
	// weight the peer layer adds to the originating peer's
	// misbehavior score.
	SeverityRejected

	// SeverityInvalid means the serialized data itself was malformed.
	// The peer layer drops the connection.
	SeverityInvalid

	// SeverityFatal means a condition that cannot be attributed to a
	// single bad actor: disk full, storage commit failure, a broken
	// money-supply invariant. The process should shut down after
	// flushing a warning, leaving the current tip intact.
	SeverityFatal
)

func (s Severity) String() string {
	switch s {
	case SeverityOk:
		return "ok"
	case SeverityTransient:
		return "transient"
	case SeverityRejected:
		return "rejected"
	case SeverityInvalid:
		return "invalid"
	case SeverityFatal:
		return "fatal"
	default:
		return fmt.Sprintf("unknown severity (%d)", int(s))
	}
}

// TransientKind distinguishes the reasons a Transient result may be
// returned.
type TransientKind int

const (
	// TransientMissingParent means an input's previous output could
	// not be found; the transaction or block should be parked as an
	// orphan pending the parent's arrival.
	TransientMissingParent TransientKind = iota

	// TransientAlreadyKnown means the mempool, or the tx/block index,
	// already has an entry for this hash.
	TransientAlreadyKnown
)

// Result is the outcome of a validator entry point.
type Result struct {
	Severity Severity
	Weight   int
	Reason   string
	Kind     TransientKind
}

// Ok is the zero-cost passing result.
var Ok = Result{Severity: SeverityOk}

// Rejected returns a Result carrying the given DoS weight and reason.
// Valid weights, per the propagation policy, are
// {0, 1, 5, 10, 20, 50, 100}; 100 or more triggers a peer ban upstream.
func Rejected(weight int, reason string) Result {
	return Result{Severity: SeverityRejected, Weight: weight, Reason: reason}
}

// Transient returns a Result signaling the caller should re-queue its
// input rather than treat it as a rule violation.
func Transient(kind TransientKind, reason string) Result {
	return Result{Severity: SeverityTransient, Kind: kind, Reason: reason}
}

// Invalid returns a Result signaling a structural malformation.
func Invalid(reason string) Result {
	return Result{Severity: SeverityInvalid, Reason: reason}
}

// Fatal returns a Result signaling an unrecoverable condition.
func Fatal(reason string) Result {
	return Result{Severity: SeverityFatal, Reason: reason}
}

// IsOk reports whether the result represents success.
func (r Result) IsOk() bool {
	return r.Severity == SeverityOk
}

// Error satisfies the error interface so a Result can be returned
// alongside, or in place of, a plain error where convenient.
func (r Result) Error() string {
	if r.IsOk() {
		return "ok"
	}
	if r.Severity == SeverityRejected {
		return fmt.Sprintf("rejected (weight %d): %s", r.Weight, r.Reason)
	}
	return fmt.Sprintf("%s: %s", r.Severity, r.Reason)
}
