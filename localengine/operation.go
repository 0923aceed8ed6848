/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package localengine

import (
	"crypto"
	_ "crypto/sha1"   // registers the default OAEP digest
	_ "crypto/sha256" // registers the SHA-224/256 tuning digests
	_ "crypto/sha512" // registers the SHA-384/512 tuning digests

	"github.com/hyperledger/aries-framework-go/component/engine"
)

// minRSABits is the smallest modulus the engine will generate.
const minRSABits = 512

type opMode int

const (
	modeNone opMode = iota
	modeEncrypt
	modeDecrypt
	modeDerive
	modeKeygen
)

func (m opMode) String() string {
	switch m {
	case modeEncrypt:
		return "encrypt"
	case modeDecrypt:
		return "decrypt"
	case modeDerive:
		return "derive"
	case modeKeygen:
		return "keygen"
	case modeNone:
	}

	return "uninitialized"
}

// opState is one operation context: the bound key or algorithm family, the
// current mode and the mode's tuning. Initializing a mode resets all tuning
// to the engine defaults.
type opState struct {
	alg  engine.AlgorithmID
	key  engine.Key // nil for algorithm-only operations
	mode opMode
	peer engine.Key

	// encrypt/decrypt tuning
	padding engine.Padding
	oaepMD  crypto.Hash
	mgf1MD  crypto.Hash // 0 mirrors oaepMD
	label   engine.BufferHandle

	// keygen tuning
	cipher  engine.Cipher
	macKey  []byte
	rsaBits int
}

// resetLocked moves the operation into mode and restores the engine's
// default tuning, dropping everything the previous mode set up, including
// an owned label buffer. Callers hold e.mu.
func (e *Engine) resetLocked(st *opState, mode opMode) {
	e.freeLocked(st.label)

	st.mode = mode
	st.peer = nil
	st.padding = engine.PaddingPKCS1
	st.oaepMD = crypto.SHA1
	st.mgf1MD = 0
	st.label = 0
	st.cipher = ""
	st.macKey = nil
	st.rsaBits = e.rsaBits
}

// EncryptInit puts the operation into encryption mode. The bound key must
// carry public material and belong to a family that encrypts.
func (e *Engine) EncryptInit(op engine.OpHandle) error {
	return e.initMode(op, modeEncrypt, "encrypt init")
}

// DecryptInit puts the operation into decryption mode. The bound key must
// carry private material.
func (e *Engine) DecryptInit(op engine.OpHandle) error {
	return e.initMode(op, modeDecrypt, "decrypt init")
}

// DeriveInit puts the operation into derivation mode. The bound key must
// carry private material and belong to a family that derives.
func (e *Engine) DeriveInit(op engine.OpHandle) error {
	return e.initMode(op, modeDerive, "derive init")
}

// KeygenInit puts the operation into key generation mode.
func (e *Engine) KeygenInit(op engine.OpHandle) error {
	return e.initMode(op, modeKeygen, "keygen init")
}

func (e *Engine) initMode(op engine.OpHandle, mode opMode, opName string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	st, eerr := e.opLocked(op, opName)
	if eerr != nil {
		return eerr
	}

	if eerr := checkModeSupported(st, mode, opName); eerr != nil {
		return eerr
	}

	if mode != modeKeygen {
		if st.key == nil {
			return engine.Errorf(engine.FaultMissingParameter, opName, "operation has no bound key")
		}

		if mode != modeEncrypt && !st.key.Private() {
			return engine.Errorf(engine.FaultKeyMismatch, opName, "key lacks private material")
		}
	}

	e.resetLocked(st, mode)

	return nil
}

// checkModeSupported enforces which families implement which modes: RSA
// encrypts and decrypts, EC and X25519 derive, and every family generates
// keys.
func checkModeSupported(st *opState, mode opMode, opName string) *engine.Error {
	ok := false

	switch mode {
	case modeEncrypt, modeDecrypt:
		ok = st.alg == engine.AlgorithmRSA
	case modeDerive:
		ok = st.alg == engine.AlgorithmEC || st.alg == engine.AlgorithmX25519
	case modeKeygen:
		ok = true
	case modeNone:
	}

	if !ok {
		return engine.Errorf(engine.FaultUnsupportedAlgorithm, opName,
			"operation not supported for %s keys", st.alg)
	}

	return nil
}

// SetPeer binds the peer public key for a derivation.
func (e *Engine) SetPeer(op engine.OpHandle, peer engine.Key) error {
	const opName = "set peer"

	if peer == nil {
		return engine.Errorf(engine.FaultMissingParameter, opName, "peer key is required")
	}

	if !ownKey(peer) {
		return engine.Errorf(engine.FaultKeyMismatch, opName,
			"peer key %q was not created by this engine", peer.KID())
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	st, eerr := e.opLocked(op, opName)
	if eerr != nil {
		return eerr
	}

	if st.mode != modeDerive {
		return engine.Errorf(engine.FaultNotInitialized, opName,
			"operation is %s, not derive", st.mode)
	}

	if peer.Algorithm() != st.alg {
		return engine.Errorf(engine.FaultPeerMismatch, opName,
			"peer is %s, operation is %s", peer.Algorithm(), st.alg)
	}

	if st.alg == engine.AlgorithmEC {
		own, peerKey := st.key.(*ecKey), peer.(*ecKey)
		if own.pub.Curve() != peerKey.pub.Curve() {
			return engine.Errorf(engine.FaultPeerMismatch, opName, "peer is on a different curve")
		}
	}

	st.peer = peer

	return nil
}

// rsaCryptOpLocked resolves an RSA operation in encryption or decryption
// mode, the precondition shared by every RSA tuning control. Callers hold
// e.mu.
func (e *Engine) rsaCryptOpLocked(op engine.OpHandle, opName string) (*opState, *engine.Error) {
	st, eerr := e.opLocked(op, opName)
	if eerr != nil {
		return nil, eerr
	}

	if st.alg != engine.AlgorithmRSA {
		return nil, engine.Errorf(engine.FaultUnsupportedAlgorithm, opName,
			"operation is bound to %s, not RSA", st.alg)
	}

	if st.mode != modeEncrypt && st.mode != modeDecrypt {
		return nil, engine.Errorf(engine.FaultNotInitialized, opName,
			"operation is %s, not encrypt or decrypt", st.mode)
	}

	return st, nil
}

// RSAPadding reports the padding scheme of an RSA operation.
func (e *Engine) RSAPadding(op engine.OpHandle) (engine.Padding, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	st, eerr := e.rsaCryptOpLocked(op, "rsa padding")
	if eerr != nil {
		return 0, eerr
	}

	return st.padding, nil
}

// SetRSAPadding selects the padding scheme of an RSA operation.
func (e *Engine) SetRSAPadding(op engine.OpHandle, pad engine.Padding) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	st, eerr := e.rsaCryptOpLocked(op, "set rsa padding")
	if eerr != nil {
		return eerr
	}

	switch pad {
	case engine.PaddingPKCS1, engine.PaddingNone, engine.PaddingOAEP, engine.PaddingPSS:
	default:
		return engine.Errorf(engine.FaultBadParameter, "set rsa padding",
			"unknown padding scheme %d", pad)
	}

	st.padding = pad

	return nil
}

// SetRSAMGF1Digest selects the MGF1 digest for the OAEP and PSS paddings.
func (e *Engine) SetRSAMGF1Digest(op engine.OpHandle, md crypto.Hash) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	st, eerr := e.rsaCryptOpLocked(op, "set rsa mgf1 digest")
	if eerr != nil {
		return eerr
	}

	if !md.Available() {
		return engine.Errorf(engine.FaultBadParameter, "set rsa mgf1 digest",
			"digest %v is not available", md)
	}

	st.mgf1MD = md

	return nil
}

// SetRSAOAEPDigest selects the OAEP digest.
func (e *Engine) SetRSAOAEPDigest(op engine.OpHandle, md crypto.Hash) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	st, eerr := e.rsaCryptOpLocked(op, "set rsa oaep digest")
	if eerr != nil {
		return eerr
	}

	if !md.Available() {
		return engine.Errorf(engine.FaultBadParameter, "set rsa oaep digest",
			"digest %v is not available", md)
	}

	st.oaepMD = md

	return nil
}

// SetRSAOAEPLabel attaches an engine-owned buffer as the OAEP label. The
// operation must already use OAEP padding; on success it takes ownership of
// the buffer and frees any previously attached label.
func (e *Engine) SetRSAOAEPLabel(op engine.OpHandle, label engine.BufferHandle, length int32) error {
	const opName = "set rsa oaep label"

	e.mu.Lock()
	defer e.mu.Unlock()

	st, eerr := e.rsaCryptOpLocked(op, opName)
	if eerr != nil {
		return eerr
	}

	if st.padding != engine.PaddingOAEP {
		return engine.Errorf(engine.FaultBadParameter, opName,
			"padding is %s, not oaep", st.padding)
	}

	b, ok := e.bufs[label]
	if !ok {
		return engine.Errorf(engine.FaultBadHandle, opName, "unknown buffer handle %d", label)
	}

	if int(length) != len(b) {
		return engine.Errorf(engine.FaultBadParameter, opName,
			"length %d does not match buffer size %d", length, len(b))
	}

	e.freeLocked(st.label)
	st.label = label

	return nil
}

// SetRSAKeygenBits selects the modulus size for RSA key generation.
func (e *Engine) SetRSAKeygenBits(op engine.OpHandle, bits int) error {
	const opName = "set rsa keygen bits"

	e.mu.Lock()
	defer e.mu.Unlock()

	st, eerr := e.opLocked(op, opName)
	if eerr != nil {
		return eerr
	}

	if st.alg != engine.AlgorithmRSA {
		return engine.Errorf(engine.FaultUnsupportedAlgorithm, opName,
			"operation is bound to %s, not RSA", st.alg)
	}

	if st.mode != modeKeygen {
		return engine.Errorf(engine.FaultNotInitialized, opName,
			"operation is %s, not keygen", st.mode)
	}

	if bits < minRSABits {
		return engine.Errorf(engine.FaultBadParameter, opName,
			"modulus size %d is below the %d-bit minimum", bits, minRSABits)
	}

	st.rsaBits = bits

	return nil
}

// keygenCtrlLocked resolves a CMAC operation in key generation mode, the
// precondition of the keyed-generation controls. Callers hold e.mu.
func (e *Engine) keygenCtrlLocked(op engine.OpHandle, opName string) (*opState, *engine.Error) {
	st, eerr := e.opLocked(op, opName)
	if eerr != nil {
		return nil, eerr
	}

	if st.alg != engine.AlgorithmCMAC {
		return nil, engine.Errorf(engine.FaultUnsupportedAlgorithm, opName,
			"operation is bound to %s, not CMAC", st.alg)
	}

	if st.mode != modeKeygen {
		return nil, engine.Errorf(engine.FaultNotInitialized, opName,
			"operation is %s, not keygen", st.mode)
	}

	return st, nil
}

// SetKeygenCipher selects the block cipher parameterizing CMAC key
// generation. The generated key's length follows the cipher.
func (e *Engine) SetKeygenCipher(op engine.OpHandle, cipher engine.Cipher) error {
	const opName = "set keygen cipher"

	e.mu.Lock()
	defer e.mu.Unlock()

	st, eerr := e.keygenCtrlLocked(op, opName)
	if eerr != nil {
		return eerr
	}

	if cipher.KeySize() == 0 {
		return engine.Errorf(engine.FaultBadParameter, opName, "unknown cipher %q", cipher)
	}

	st.cipher = cipher

	return nil
}

// SetKeygenMACKey supplies the raw MAC key for CMAC key generation.
func (e *Engine) SetKeygenMACKey(op engine.OpHandle, key []byte, length int32) error {
	const opName = "set keygen mac key"

	e.mu.Lock()
	defer e.mu.Unlock()

	st, eerr := e.keygenCtrlLocked(op, opName)
	if eerr != nil {
		return eerr
	}

	if len(key) == 0 {
		return engine.Errorf(engine.FaultBadParameter, opName, "mac key is empty")
	}

	if int(length) != len(key) {
		return engine.Errorf(engine.FaultBadParameter, opName,
			"length %d does not match key size %d", length, len(key))
	}

	st.macKey = append([]byte(nil), key...)

	return nil
}
