/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package engine

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotSupported is returned by feature-gated methods when the engine does
// not implement the feature. Probe with Engine.Supports first.
var ErrNotSupported = errors.New("not supported by engine")

// FaultCode classifies a single fault recorded by an engine. The taxonomy is
// provider-defined; callers should branch on IsInsufficientBuffer rather
// than on individual codes.
type FaultCode int

const (
	// FaultInternal is an unclassified provider failure.
	FaultInternal FaultCode = iota
	// FaultAllocFailure means the engine's allocator failed.
	FaultAllocFailure
	// FaultBadHandle means an operation or buffer handle is unknown.
	FaultBadHandle
	// FaultUnsupportedAlgorithm means the algorithm family cannot perform
	// the requested mode.
	FaultUnsupportedAlgorithm
	// FaultNotInitialized means the operation is not in the required mode.
	FaultNotInitialized
	// FaultNotSupported means the engine lacks the requested capability.
	FaultNotSupported
	// FaultBufferTooSmall means the output buffer cannot hold the result.
	FaultBufferTooSmall
	// FaultDataTooLarge means the input exceeds what the key and padding
	// allow.
	FaultDataTooLarge
	// FaultBadParameter means a tuning value is invalid for the operation.
	FaultBadParameter
	// FaultMissingParameter means a required tuning value was never set.
	FaultMissingParameter
	// FaultPeerMismatch means the peer key does not match the bound key's
	// family or curve.
	FaultPeerMismatch
	// FaultKeyMismatch means the key was not created by this engine or
	// lacks the required material.
	FaultKeyMismatch
	// FaultCryptoFailure means the primitive itself failed, e.g. a padding
	// check during decryption.
	FaultCryptoFailure
)

// String returns the provider-style reason name of the code.
func (c FaultCode) String() string {
	switch c {
	case FaultAllocFailure:
		return "alloc_failure"
	case FaultBadHandle:
		return "bad_handle"
	case FaultUnsupportedAlgorithm:
		return "unsupported_algorithm"
	case FaultNotInitialized:
		return "operation_not_initialized"
	case FaultNotSupported:
		return "not_supported"
	case FaultBufferTooSmall:
		return "buffer_too_small"
	case FaultDataTooLarge:
		return "data_too_large"
	case FaultBadParameter:
		return "bad_parameter"
	case FaultMissingParameter:
		return "missing_parameter"
	case FaultPeerMismatch:
		return "peer_mismatch"
	case FaultKeyMismatch:
		return "key_mismatch"
	case FaultCryptoFailure:
		return "crypto_failure"
	case FaultInternal:
	}

	return "internal_error"
}

// Fault is one entry in an engine's fault queue.
type Fault struct {
	// Code classifies the fault.
	Code FaultCode
	// Op names the engine entry point that recorded the fault.
	Op string
	// Reason is the provider's human-readable detail, possibly empty.
	Reason string
}

// String renders the fault the way the provider's error strings do.
func (f Fault) String() string {
	if f.Reason == "" {
		return fmt.Sprintf("%s: %s", f.Op, f.Code)
	}

	return fmt.Sprintf("%s: %s: %s", f.Op, f.Code, f.Reason)
}

// Error carries the ordered fault queue drained from an engine after a
// failed call. Faults[0] is the oldest fault.
type Error struct {
	Faults []Fault
}

// Error implements the error interface.
func (e *Error) Error() string {
	if len(e.Faults) == 0 {
		return "engine: unspecified failure"
	}

	msgs := make([]string, len(e.Faults))

	for i, f := range e.Faults {
		msgs[i] = f.String()
	}

	return "engine: " + strings.Join(msgs, "; ")
}

// HasCode reports whether any fault in the queue carries the given code.
func (e *Error) HasCode(code FaultCode) bool {
	for _, f := range e.Faults {
		if f.Code == code {
			return true
		}
	}

	return false
}

// NewError builds an engine error from an ordered list of faults.
func NewError(faults ...Fault) *Error {
	return &Error{Faults: faults}
}

// Errorf builds an engine error holding a single fault with a formatted
// reason.
func Errorf(code FaultCode, op, format string, args ...interface{}) *Error {
	return &Error{Faults: []Fault{{
		Code:   code,
		Op:     op,
		Reason: fmt.Sprintf(format, args...),
	}}}
}

// IsInsufficientBuffer reports whether err is an engine failure caused by an
// output buffer smaller than the operation required. This is the one
// recoverable engine failure: query the required size and retry with a
// larger buffer.
func IsInsufficientBuffer(err error) bool {
	var engineErr *Error

	return errors.As(err, &engineErr) && engineErr.HasCode(FaultBufferTooSmall)
}
