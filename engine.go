/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package engine defines the service provider interface for native
// asymmetric-crypto engines. An engine owns operation contexts, key material
// and scratch buffers behind opaque handles; the pkeyctx and x509verify
// packages are the safe boundary layers driving it. The localengine package
// provides the default in-process implementation.
package engine

import "crypto"

// OpHandle references an operation context allocated inside an engine.
// Handles are engine-scoped and exclusively owned by their creator; 0 is
// never a valid handle.
type OpHandle uint64

// BufferHandle references a byte buffer owned by the engine's allocator.
// 0 means "no buffer".
type BufferHandle uint64

// Feature identifies an optional engine capability. Callers probe features
// with Engine.Supports before using gated operations.
type Feature string

// FeatureRSAOAEP covers OAEP digest selection and OAEP label handoff.
// Engines built against providers without OAEP parameter controls do not
// support it.
const FeatureRSAOAEP = Feature("RSAOAEP")

// Engine is the contract implemented by cryptographic providers.
//
// All methods that can fail inside the provider return *Error carrying the
// provider's ordered fault queue. Engines protect their own internal tables;
// they do not serialize concurrent use of a single operation handle, which
// remains the caller's job.
type Engine interface {
	// NewOperation allocates an operation context bound to key. The key
	// determines the algorithm family of every subsequent init.
	NewOperation(key Key) (OpHandle, error)
	// NewOperationForAlgorithm allocates an operation context from an
	// algorithm family alone, without key material. Such a context can only
	// be initialized for key generation.
	NewOperationForAlgorithm(alg AlgorithmID) (OpHandle, error)
	// ReleaseOperation frees the operation context and everything it owns,
	// including a label buffer whose ownership was handed over. Releasing an
	// unknown handle is a no-op.
	ReleaseOperation(op OpHandle)

	// EncryptInit puts the operation into encryption mode.
	EncryptInit(op OpHandle) error
	// DecryptInit puts the operation into decryption mode.
	DecryptInit(op OpHandle) error
	// DeriveInit puts the operation into shared-secret derivation mode.
	DeriveInit(op OpHandle) error
	// KeygenInit puts the operation into key generation mode.
	//
	// Initializing a mode discards all tuning state of the previous mode
	// and restores the engine's defaults for the new one.
	KeygenInit(op OpHandle) error

	// SetPeer binds the peer public key for a derivation. The peer must
	// belong to the same algorithm family (and curve) as the bound key.
	SetPeer(op OpHandle, peer Key) error

	// Encrypt encrypts from into out.
	// returns:
	//		count of bytes the operation produced (or would produce)
	//		error in case of engine faults
	// A nil out performs no work and returns an upper bound for the output
	// size without mutating operation state. An undersized out fails with a
	// fault satisfying IsInsufficientBuffer; out's contents are then
	// undefined.
	Encrypt(op OpHandle, from, out []byte) (int, error)
	// Decrypt decrypts from into out, with the same two-call buffer
	// protocol as Encrypt.
	Decrypt(op OpHandle, from, out []byte) (int, error)
	// Derive writes the shared secret into out, with the same two-call
	// buffer protocol as Encrypt. SetPeer must have been called.
	Derive(op OpHandle, out []byte) (int, error)
	// Keygen generates a fresh key inside the engine.
	// returns:
	//		the new key, holding private material
	//		error in case of engine faults
	Keygen(op OpHandle) (Key, error)

	// RSAPadding reports the padding scheme of an RSA-bound operation.
	RSAPadding(op OpHandle) (Padding, error)
	// SetRSAPadding selects the padding scheme of an RSA-bound operation.
	SetRSAPadding(op OpHandle, pad Padding) error
	// SetRSAMGF1Digest selects the MGF1 digest for OAEP and PSS paddings.
	SetRSAMGF1Digest(op OpHandle, md crypto.Hash) error
	// SetRSAOAEPDigest selects the OAEP digest. Gated by FeatureRSAOAEP.
	SetRSAOAEPDigest(op OpHandle, md crypto.Hash) error
	// SetRSAOAEPLabel attaches an engine-owned buffer of the given length
	// as the OAEP label. On success the operation takes ownership of label
	// and frees it when the operation is released or re-initialized. On
	// failure ownership stays with the caller. Gated by FeatureRSAOAEP.
	SetRSAOAEPLabel(op OpHandle, label BufferHandle, length int32) error
	// SetRSAKeygenBits selects the modulus size for RSA key generation.
	SetRSAKeygenBits(op OpHandle, bits int) error

	// SetKeygenCipher selects the block cipher parameterizing keyed
	// generation (the generated key's length follows the cipher).
	SetKeygenCipher(op OpHandle, cipher Cipher) error
	// SetKeygenMACKey supplies the raw MAC key of the given length for
	// keyed generation.
	SetKeygenMACKey(op OpHandle, key []byte, length int32) error

	// Alloc copies b into a fresh engine-owned buffer.
	// returns:
	//		handle of the new buffer
	//		error when the engine's allocator fails
	Alloc(b []byte) (BufferHandle, error)
	// Free releases an engine-owned buffer. Freeing 0 or an unknown handle
	// is a no-op.
	Free(buf BufferHandle)

	// Supports reports whether the engine implements the given feature.
	Supports(f Feature) bool
}
