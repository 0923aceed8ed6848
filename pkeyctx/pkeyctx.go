/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package pkeyctx provides the stateful boundary for public-key operations
// against a native engine: encryption, decryption, shared-secret derivation
// and key generation, plus the RSA and keyed-generation tuning knobs. A
// Context owns exactly one engine operation handle. Contexts are not safe
// for concurrent use without external locking.
package pkeyctx

import (
	"crypto"
	"errors"
	"fmt"
	"math"

	"github.com/hyperledger/aries-framework-go/component/engine"
)

var (
	// ErrClosed is returned by every method of a closed Context.
	ErrClosed = errors.New("context is closed")

	// ErrInvalidLength is returned when a caller-supplied byte string does
	// not fit the engine's native signed 32-bit length type. It is a local
	// precondition failure: nothing reached the engine.
	ErrInvalidLength = errors.New("invalid length")

	// ErrPublicKeyRequired is returned when a mode needing public key
	// material is initialized on a context without a key.
	ErrPublicKeyRequired = errors.New("operation requires a key with public material")

	// ErrPrivateKeyRequired is returned when a mode needing private key
	// material is initialized on a context whose key is public-only.
	ErrPrivateKeyRequired = errors.New("operation requires a key with private material")
)

// access describes the key material a context was created with.
type access int

const (
	accessNone access = iota
	accessPublic
	accessPrivate
)

// Context drives one engine operation: a key (or bare algorithm family), a
// current mode set by one of the init methods, and the mode's tuning state.
// Re-initializing a mode discards the previous mode's tuning.
type Context struct {
	eng    engine.Engine
	op     engine.OpHandle
	access access
	closed bool
}

// New creates a Context bound to key. The operations available later follow
// the key's material: a public-only key supports encryption, a private key
// additionally supports decryption and derivation.
func New(eng engine.Engine, key engine.Key) (*Context, error) {
	if eng == nil {
		return nil, errors.New("engine is required")
	}

	if key == nil {
		return nil, errors.New("key is required")
	}

	op, err := eng.NewOperation(key)
	if err != nil {
		return nil, fmt.Errorf("new operation: %w", err)
	}

	lvl := accessPublic
	if key.Private() {
		lvl = accessPrivate
	}

	return &Context{eng: eng, op: op, access: lvl}, nil
}

// NewForAlgorithm creates a Context from an algorithm family alone, without
// key material. Such a context can only be initialized for key generation.
func NewForAlgorithm(eng engine.Engine, alg engine.AlgorithmID) (*Context, error) {
	if eng == nil {
		return nil, errors.New("engine is required")
	}

	op, err := eng.NewOperationForAlgorithm(alg)
	if err != nil {
		return nil, fmt.Errorf("new operation: %w", err)
	}

	return &Context{eng: eng, op: op, access: accessNone}, nil
}

// Close releases the engine operation handle, including any label buffer the
// operation took ownership of. Close is idempotent; all other methods fail
// with ErrClosed afterwards.
func (c *Context) Close() error {
	if c.closed {
		return nil
	}

	c.closed = true
	c.eng.ReleaseOperation(c.op)

	return nil
}

func (c *Context) guard() error {
	if c.closed {
		return ErrClosed
	}

	return nil
}

// EncryptInit puts the context into encryption mode. The context must hold a
// key with public material.
func (c *Context) EncryptInit() error {
	if err := c.guard(); err != nil {
		return err
	}

	if c.access == accessNone {
		return ErrPublicKeyRequired
	}

	if err := c.eng.EncryptInit(c.op); err != nil {
		return fmt.Errorf("encrypt init: %w", err)
	}

	return nil
}

// DecryptInit puts the context into decryption mode. The context must hold a
// key with private material.
func (c *Context) DecryptInit() error {
	if err := c.guard(); err != nil {
		return err
	}

	if c.access != accessPrivate {
		return ErrPrivateKeyRequired
	}

	if err := c.eng.DecryptInit(c.op); err != nil {
		return fmt.Errorf("decrypt init: %w", err)
	}

	return nil
}

// DeriveInit puts the context into shared-secret derivation mode. The
// context must hold a key with private material.
func (c *Context) DeriveInit() error {
	if err := c.guard(); err != nil {
		return err
	}

	if c.access != accessPrivate {
		return ErrPrivateKeyRequired
	}

	if err := c.eng.DeriveInit(c.op); err != nil {
		return fmt.Errorf("derive init: %w", err)
	}

	return nil
}

// KeygenInit puts the context into key generation mode. No key material is
// required.
func (c *Context) KeygenInit() error {
	if err := c.guard(); err != nil {
		return err
	}

	if err := c.eng.KeygenInit(c.op); err != nil {
		return fmt.Errorf("keygen init: %w", err)
	}

	return nil
}

// DeriveSetPeer binds the peer public key for the derivation. The peer must
// belong to the same algorithm family and curve as the context's key.
func (c *Context) DeriveSetPeer(peer engine.Key) error {
	if err := c.guard(); err != nil {
		return err
	}

	if c.access != accessPrivate {
		return ErrPrivateKeyRequired
	}

	if peer == nil {
		return errors.New("peer key is required")
	}

	if err := c.eng.SetPeer(c.op, peer); err != nil {
		return fmt.Errorf("derive set peer: %w", err)
	}

	return nil
}

// Encrypt encrypts from into to after EncryptInit.
// returns:
//
//	count of bytes produced, or the output upper bound when to is nil
//	error in case of engine faults
//
// A nil to queries the upper bound for the output size without performing
// the operation. When to is too small the error satisfies
// engine.IsInsufficientBuffer and the operation can be retried with a larger
// buffer; to's contents are undefined after any failure.
func (c *Context) Encrypt(from, to []byte) (int, error) {
	if err := c.guard(); err != nil {
		return 0, err
	}

	n, err := c.eng.Encrypt(c.op, from, to)
	if err != nil {
		return 0, fmt.Errorf("encrypt: %w", err)
	}

	return n, nil
}

// AppendEncrypt encrypts from and appends the result to dst, growing it as
// needed. It returns the extended slice, or dst unchanged on failure.
func (c *Context) AppendEncrypt(dst, from []byte) ([]byte, error) {
	if err := c.guard(); err != nil {
		return dst, err
	}

	return c.appendOp(dst, func(out []byte) (int, error) {
		return c.eng.Encrypt(c.op, from, out)
	}, "encrypt")
}

// Decrypt decrypts from into to after DecryptInit, with the same two-call
// buffer protocol as Encrypt.
func (c *Context) Decrypt(from, to []byte) (int, error) {
	if err := c.guard(); err != nil {
		return 0, err
	}

	n, err := c.eng.Decrypt(c.op, from, to)
	if err != nil {
		return 0, fmt.Errorf("decrypt: %w", err)
	}

	return n, nil
}

// AppendDecrypt decrypts from and appends the result to dst, growing it as
// needed. It returns the extended slice, or dst unchanged on failure.
func (c *Context) AppendDecrypt(dst, from []byte) ([]byte, error) {
	if err := c.guard(); err != nil {
		return dst, err
	}

	return c.appendOp(dst, func(out []byte) (int, error) {
		return c.eng.Decrypt(c.op, from, out)
	}, "decrypt")
}

// Derive writes the shared secret into to after DeriveInit and
// DeriveSetPeer, with the same two-call buffer protocol as Encrypt.
func (c *Context) Derive(to []byte) (int, error) {
	if err := c.guard(); err != nil {
		return 0, err
	}

	n, err := c.eng.Derive(c.op, to)
	if err != nil {
		return 0, fmt.Errorf("derive: %w", err)
	}

	return n, nil
}

// AppendDerive derives the shared secret and appends it to dst, growing it
// as needed. It returns the extended slice, or dst unchanged on failure.
func (c *Context) AppendDerive(dst []byte) ([]byte, error) {
	if err := c.guard(); err != nil {
		return dst, err
	}

	return c.appendOp(dst, func(out []byte) (int, error) {
		return c.eng.Derive(c.op, out)
	}, "derive")
}

// appendOp runs the two-call protocol into the tail of dst: query the upper
// bound, grow, perform, then trim to the count actually produced, which may
// be below the bound.
func (c *Context) appendOp(dst []byte, op func(out []byte) (int, error), name string) ([]byte, error) {
	bound, err := op(nil)
	if err != nil {
		return dst, fmt.Errorf("%s size query: %w", name, err)
	}

	if bound == 0 {
		return dst, nil
	}

	base := len(dst)
	grown := append(dst, make([]byte, bound)...)

	n, err := op(grown[base:])
	if err != nil {
		return dst, fmt.Errorf("%s: %w", name, err)
	}

	return grown[:base+n], nil
}

// Keygen generates a fresh key after KeygenInit and the family's required
// tuning, and returns it holding private material.
func (c *Context) Keygen() (engine.Key, error) {
	if err := c.guard(); err != nil {
		return nil, err
	}

	key, err := c.eng.Keygen(c.op)
	if err != nil {
		return nil, fmt.Errorf("keygen: %w", err)
	}

	return key, nil
}

// RSAPadding reports the padding scheme of an RSA operation.
func (c *Context) RSAPadding() (engine.Padding, error) {
	if err := c.guard(); err != nil {
		return 0, err
	}

	pad, err := c.eng.RSAPadding(c.op)
	if err != nil {
		return 0, fmt.Errorf("rsa padding: %w", err)
	}

	return pad, nil
}

// SetRSAPadding selects the padding scheme of an RSA operation.
func (c *Context) SetRSAPadding(pad engine.Padding) error {
	if err := c.guard(); err != nil {
		return err
	}

	if err := c.eng.SetRSAPadding(c.op, pad); err != nil {
		return fmt.Errorf("set rsa padding: %w", err)
	}

	return nil
}

// SetRSAMGF1Digest selects the MGF1 digest used by the OAEP and PSS padding
// schemes. Without it the engine mirrors the OAEP digest.
func (c *Context) SetRSAMGF1Digest(md crypto.Hash) error {
	if err := c.guard(); err != nil {
		return err
	}

	if err := c.eng.SetRSAMGF1Digest(c.op, md); err != nil {
		return fmt.Errorf("set rsa mgf1 digest: %w", err)
	}

	return nil
}

// SetRSAOAEPDigest selects the OAEP digest. It fails with
// engine.ErrNotSupported when the engine lacks engine.FeatureRSAOAEP.
func (c *Context) SetRSAOAEPDigest(md crypto.Hash) error {
	if err := c.guard(); err != nil {
		return err
	}

	if !c.eng.Supports(engine.FeatureRSAOAEP) {
		return fmt.Errorf("set rsa oaep digest: %w", engine.ErrNotSupported)
	}

	if err := c.eng.SetRSAOAEPDigest(c.op, md); err != nil {
		return fmt.Errorf("set rsa oaep digest: %w", err)
	}

	return nil
}

// SetRSAOAEPLabel attaches label to the OAEP encryption. The label is copied
// into an engine-owned buffer whose ownership passes to the operation on
// success; when the handoff fails the copy is freed here so it cannot leak.
// It fails with ErrInvalidLength before touching the engine when label does
// not fit the engine's 32-bit length type, and with engine.ErrNotSupported
// when the engine lacks engine.FeatureRSAOAEP.
func (c *Context) SetRSAOAEPLabel(label []byte) error {
	if err := c.guard(); err != nil {
		return err
	}

	if !c.eng.Supports(engine.FeatureRSAOAEP) {
		return fmt.Errorf("set rsa oaep label: %w", engine.ErrNotSupported)
	}

	length, err := int32Len(len(label))
	if err != nil {
		return fmt.Errorf("set rsa oaep label: %w", err)
	}

	buf, err := c.eng.Alloc(label)
	if err != nil {
		return fmt.Errorf("set rsa oaep label: %w", err)
	}

	if err := c.eng.SetRSAOAEPLabel(c.op, buf, length); err != nil {
		// ownership stayed with us, release the copy
		c.eng.Free(buf)

		return fmt.Errorf("set rsa oaep label: %w", err)
	}

	return nil
}

// SetRSAKeygenBits selects the modulus size for RSA key generation.
func (c *Context) SetRSAKeygenBits(bits int) error {
	if err := c.guard(); err != nil {
		return err
	}

	if err := c.eng.SetRSAKeygenBits(c.op, bits); err != nil {
		return fmt.Errorf("set rsa keygen bits: %w", err)
	}

	return nil
}

// SetKeygenCipher selects the block cipher parameterizing keyed generation.
func (c *Context) SetKeygenCipher(cipher engine.Cipher) error {
	if err := c.guard(); err != nil {
		return err
	}

	if err := c.eng.SetKeygenCipher(c.op, cipher); err != nil {
		return fmt.Errorf("set keygen cipher: %w", err)
	}

	return nil
}

// SetKeygenMACKey supplies the raw MAC key for keyed generation. It fails
// with ErrInvalidLength before touching the engine when key does not fit the
// engine's 32-bit length type; the context stays usable.
func (c *Context) SetKeygenMACKey(key []byte) error {
	if err := c.guard(); err != nil {
		return err
	}

	length, err := int32Len(len(key))
	if err != nil {
		return fmt.Errorf("set keygen mac key: %w", err)
	}

	if err := c.eng.SetKeygenMACKey(c.op, key, length); err != nil {
		return fmt.Errorf("set keygen mac key: %w", err)
	}

	return nil
}

// int32Len converts a buffer length to the engine's native signed 32-bit
// size, failing with ErrInvalidLength when it does not fit.
func int32Len(n int) (int32, error) {
	if n > math.MaxInt32 {
		return 0, ErrInvalidLength
	}

	return int32(n), nil
}
