/*
 Copyright SecureKey Technologies Inc. All Rights Reserved.

 SPDX-License-Identifier: Apache-2.0
*/

package engine

import (
	"crypto"

	engineapi "github.com/hyperledger/aries-framework-go/component/engine"
)

// Engine mocks a native crypto engine. Failures are injected through the
// XxxErr fields, behavior through the XxxFn fields, canned results through
// the XxxValue fields, checked in that order. Alloc and Free maintain a
// real buffer ledger so ownership-handoff tests can assert that nothing
// leaks and nothing is freed twice.
type Engine struct {
	NewOperationValue             engineapi.OpHandle
	NewOperationErr               error
	NewOperationFn                func(key engineapi.Key) (engineapi.OpHandle, error)
	NewOperationForAlgorithmValue engineapi.OpHandle
	NewOperationForAlgorithmErr   error
	ReleasedOps                   []engineapi.OpHandle

	EncryptInitErr error
	DecryptInitErr error
	DeriveInitErr  error
	KeygenInitErr  error
	SetPeerErr     error

	// EncryptValue is the canned result; a nil output buffer reports
	// EncryptBound, or len(EncryptValue) when EncryptBound is 0. Decrypt
	// and Derive behave the same way.
	EncryptValue []byte
	EncryptBound int
	EncryptErr   error
	EncryptFn    func(op engineapi.OpHandle, from, out []byte) (int, error)
	DecryptValue []byte
	DecryptBound int
	DecryptErr   error
	DecryptFn    func(op engineapi.OpHandle, from, out []byte) (int, error)
	DeriveValue  []byte
	DeriveBound  int
	DeriveErr    error
	DeriveFn     func(op engineapi.OpHandle, out []byte) (int, error)
	KeygenValue  engineapi.Key
	KeygenErr    error

	RSAPaddingValue     engineapi.Padding
	RSAPaddingErr       error
	SetRSAPaddingErr    error
	SetRSAPaddingFn     func(op engineapi.OpHandle, pad engineapi.Padding) error
	SetRSAMGF1DigestErr error
	SetRSAOAEPDigestErr error
	SetRSAOAEPDigestFn  func(op engineapi.OpHandle, md crypto.Hash) error
	SetRSAOAEPLabelErr  error
	SetRSAOAEPLabelFn   func(op engineapi.OpHandle, label engineapi.BufferHandle, length int32) error
	SetRSAKeygenBitsErr error
	SetKeygenCipherErr  error
	SetKeygenMACKeyErr  error
	SetKeygenMACKeyFn   func(op engineapi.OpHandle, key []byte, length int32) error

	AllocErr   error
	AllocCalls int
	Allocated  map[engineapi.BufferHandle][]byte
	FreeCalls  int
	Freed      []engineapi.BufferHandle

	SupportsValue bool
	SupportsFn    func(f engineapi.Feature) bool

	nextBuf engineapi.BufferHandle
}

// NewOperation returns a mocked operation handle.
func (m *Engine) NewOperation(key engineapi.Key) (engineapi.OpHandle, error) {
	if m.NewOperationErr != nil {
		return 0, m.NewOperationErr
	}

	if m.NewOperationFn != nil {
		return m.NewOperationFn(key)
	}

	return m.NewOperationValue, nil
}

// NewOperationForAlgorithm returns a mocked operation handle.
func (m *Engine) NewOperationForAlgorithm(alg engineapi.AlgorithmID) (engineapi.OpHandle, error) {
	if m.NewOperationForAlgorithmErr != nil {
		return 0, m.NewOperationForAlgorithmErr
	}

	return m.NewOperationForAlgorithmValue, nil
}

// ReleaseOperation records the released handle.
func (m *Engine) ReleaseOperation(op engineapi.OpHandle) {
	m.ReleasedOps = append(m.ReleasedOps, op)
}

// EncryptInit returns a mocked encryption-mode init result.
func (m *Engine) EncryptInit(op engineapi.OpHandle) error {
	return m.EncryptInitErr
}

// DecryptInit returns a mocked decryption-mode init result.
func (m *Engine) DecryptInit(op engineapi.OpHandle) error {
	return m.DecryptInitErr
}

// DeriveInit returns a mocked derivation-mode init result.
func (m *Engine) DeriveInit(op engineapi.OpHandle) error {
	return m.DeriveInitErr
}

// KeygenInit returns a mocked keygen-mode init result.
func (m *Engine) KeygenInit(op engineapi.OpHandle) error {
	return m.KeygenInitErr
}

// SetPeer returns a mocked peer-binding result.
func (m *Engine) SetPeer(op engineapi.OpHandle, peer engineapi.Key) error {
	return m.SetPeerErr
}

// Encrypt returns the mocked ciphertext via the two-call protocol.
func (m *Engine) Encrypt(op engineapi.OpHandle, from, out []byte) (int, error) {
	if m.EncryptErr != nil {
		return 0, m.EncryptErr
	}

	if m.EncryptFn != nil {
		return m.EncryptFn(op, from, out)
	}

	return bufferResult(m.EncryptValue, m.EncryptBound, out)
}

// Decrypt returns the mocked plaintext via the two-call protocol.
func (m *Engine) Decrypt(op engineapi.OpHandle, from, out []byte) (int, error) {
	if m.DecryptErr != nil {
		return 0, m.DecryptErr
	}

	if m.DecryptFn != nil {
		return m.DecryptFn(op, from, out)
	}

	return bufferResult(m.DecryptValue, m.DecryptBound, out)
}

// Derive returns the mocked shared secret via the two-call protocol.
func (m *Engine) Derive(op engineapi.OpHandle, out []byte) (int, error) {
	if m.DeriveErr != nil {
		return 0, m.DeriveErr
	}

	if m.DeriveFn != nil {
		return m.DeriveFn(op, out)
	}

	return bufferResult(m.DeriveValue, m.DeriveBound, out)
}

// bufferResult reports the canned bound for a nil out and otherwise copies
// the canned value, which may be shorter than the bound.
func bufferResult(value []byte, bound int, out []byte) (int, error) {
	if out == nil {
		if bound != 0 {
			return bound, nil
		}

		return len(value), nil
	}

	return copy(out, value), nil
}

// Keygen returns a mocked generated key.
func (m *Engine) Keygen(op engineapi.OpHandle) (engineapi.Key, error) {
	if m.KeygenErr != nil {
		return nil, m.KeygenErr
	}

	return m.KeygenValue, nil
}

// RSAPadding returns a mocked padding scheme.
func (m *Engine) RSAPadding(op engineapi.OpHandle) (engineapi.Padding, error) {
	if m.RSAPaddingErr != nil {
		return 0, m.RSAPaddingErr
	}

	return m.RSAPaddingValue, nil
}

// SetRSAPadding returns a mocked padding-selection result.
func (m *Engine) SetRSAPadding(op engineapi.OpHandle, pad engineapi.Padding) error {
	if m.SetRSAPaddingErr != nil {
		return m.SetRSAPaddingErr
	}

	if m.SetRSAPaddingFn != nil {
		return m.SetRSAPaddingFn(op, pad)
	}

	return nil
}

// SetRSAMGF1Digest returns a mocked digest-selection result.
func (m *Engine) SetRSAMGF1Digest(op engineapi.OpHandle, md crypto.Hash) error {
	return m.SetRSAMGF1DigestErr
}

// SetRSAOAEPDigest returns a mocked digest-selection result.
func (m *Engine) SetRSAOAEPDigest(op engineapi.OpHandle, md crypto.Hash) error {
	if m.SetRSAOAEPDigestErr != nil {
		return m.SetRSAOAEPDigestErr
	}

	if m.SetRSAOAEPDigestFn != nil {
		return m.SetRSAOAEPDigestFn(op, md)
	}

	return nil
}

// SetRSAOAEPLabel returns a mocked label-handoff result.
func (m *Engine) SetRSAOAEPLabel(op engineapi.OpHandle, label engineapi.BufferHandle, length int32) error {
	if m.SetRSAOAEPLabelErr != nil {
		return m.SetRSAOAEPLabelErr
	}

	if m.SetRSAOAEPLabelFn != nil {
		return m.SetRSAOAEPLabelFn(op, label, length)
	}

	return nil
}

// SetRSAKeygenBits returns a mocked modulus-size result.
func (m *Engine) SetRSAKeygenBits(op engineapi.OpHandle, bits int) error {
	return m.SetRSAKeygenBitsErr
}

// SetKeygenCipher returns a mocked cipher-selection result.
func (m *Engine) SetKeygenCipher(op engineapi.OpHandle, cipher engineapi.Cipher) error {
	return m.SetKeygenCipherErr
}

// SetKeygenMACKey returns a mocked MAC-key result.
func (m *Engine) SetKeygenMACKey(op engineapi.OpHandle, key []byte, length int32) error {
	if m.SetKeygenMACKeyErr != nil {
		return m.SetKeygenMACKeyErr
	}

	if m.SetKeygenMACKeyFn != nil {
		return m.SetKeygenMACKeyFn(op, key, length)
	}

	return nil
}

// Alloc copies b into the mock's buffer ledger.
func (m *Engine) Alloc(b []byte) (engineapi.BufferHandle, error) {
	m.AllocCalls++

	if m.AllocErr != nil {
		return 0, m.AllocErr
	}

	if m.Allocated == nil {
		m.Allocated = map[engineapi.BufferHandle][]byte{}
	}

	m.nextBuf++
	m.Allocated[m.nextBuf] = append([]byte(nil), b...)

	return m.nextBuf, nil
}

// Free removes buf from the ledger and records the call.
func (m *Engine) Free(buf engineapi.BufferHandle) {
	m.FreeCalls++
	m.Freed = append(m.Freed, buf)
	delete(m.Allocated, buf)
}

// Supports returns the mocked feature probe result.
func (m *Engine) Supports(f engineapi.Feature) bool {
	if m.SupportsFn != nil {
		return m.SupportsFn(f)
	}

	return m.SupportsValue
}
