/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package localengine

import (
	"crypto/ecdh"
	"crypto/rand"
	"crypto/rsa"
	"errors"

	"github.com/google/uuid"
	"golang.org/x/crypto/curve25519"

	"github.com/hyperledger/aries-framework-go/component/engine"
)

// ownKey reports whether key is one of this engine's key types.
func ownKey(key engine.Key) bool {
	switch key.(type) {
	case *rsaKey, *ecKey, *x25519Key, *cmacKey:
		return true
	}

	return false
}

type rsaKey struct {
	kid  string
	priv *rsa.PrivateKey // nil for a public-only key
	pub  *rsa.PublicKey
}

func (k *rsaKey) KID() string { return k.kid }

func (k *rsaKey) Algorithm() engine.AlgorithmID { return engine.AlgorithmRSA }

func (k *rsaKey) Private() bool { return k.priv != nil }

func (k *rsaKey) Symmetric() bool { return false }

func (k *rsaKey) Public() (engine.Key, error) { return &rsaKey{kid: k.kid, pub: k.pub}, nil }

type ecKey struct {
	kid  string
	priv *ecdh.PrivateKey // nil for a public-only key
	pub  *ecdh.PublicKey
}

func (k *ecKey) KID() string { return k.kid }

func (k *ecKey) Algorithm() engine.AlgorithmID { return engine.AlgorithmEC }

func (k *ecKey) Private() bool { return k.priv != nil }

func (k *ecKey) Symmetric() bool { return false }

func (k *ecKey) Public() (engine.Key, error) { return &ecKey{kid: k.kid, pub: k.pub}, nil }

type x25519Key struct {
	kid  string
	priv []byte // 32-byte scalar, nil for a public-only key
	pub  []byte // 32-byte group element
}

func (k *x25519Key) KID() string { return k.kid }

func (k *x25519Key) Algorithm() engine.AlgorithmID { return engine.AlgorithmX25519 }

func (k *x25519Key) Private() bool { return k.priv != nil }

func (k *x25519Key) Symmetric() bool { return false }

func (k *x25519Key) Public() (engine.Key, error) { return &x25519Key{kid: k.kid, pub: k.pub}, nil }

type cmacKey struct {
	kid    string
	cipher engine.Cipher
	secret []byte
}

func (k *cmacKey) KID() string { return k.kid }

func (k *cmacKey) Algorithm() engine.AlgorithmID { return engine.AlgorithmCMAC }

func (k *cmacKey) Private() bool { return true }

func (k *cmacKey) Symmetric() bool { return true }

func (k *cmacKey) Public() (engine.Key, error) {
	return nil, errors.New("symmetric key has no public part")
}

// Secret returns the raw MAC key of a CMAC key generated by this engine, or
// nil for other keys.
func Secret(key engine.Key) []byte {
	if k, ok := key.(*cmacKey); ok {
		return append([]byte(nil), k.secret...)
	}

	return nil
}

// NewRSAKey wraps an RSA private key for use with this engine.
func NewRSAKey(priv *rsa.PrivateKey) (engine.Key, error) {
	if priv == nil {
		return nil, errors.New("private key is required")
	}

	return &rsaKey{kid: newKID(), priv: priv, pub: &priv.PublicKey}, nil
}

// NewRSAPublicKey wraps an RSA public key for use with this engine. The
// resulting key supports encryption only.
func NewRSAPublicKey(pub *rsa.PublicKey) (engine.Key, error) {
	if pub == nil {
		return nil, errors.New("public key is required")
	}

	return &rsaKey{kid: newKID(), pub: pub}, nil
}

// GenerateECKey creates a fresh key on the given NIST curve.
func GenerateECKey(curve ecdh.Curve) (engine.Key, error) {
	if curve == nil {
		return nil, errors.New("curve is required")
	}

	if curve == ecdh.X25519() {
		return nil, errors.New("X25519 keys are created with GenerateX25519Key")
	}

	priv, err := curve.GenerateKey(rand.Reader)
	if err != nil {
		return nil, err
	}

	return &ecKey{kid: newKID(), priv: priv, pub: priv.PublicKey()}, nil
}

// NewECKey wraps an ECDH private key on a NIST curve for use with this
// engine.
func NewECKey(priv *ecdh.PrivateKey) (engine.Key, error) {
	if priv == nil {
		return nil, errors.New("private key is required")
	}

	if priv.Curve() == ecdh.X25519() {
		return nil, errors.New("X25519 keys are created with GenerateX25519Key")
	}

	return &ecKey{kid: newKID(), priv: priv, pub: priv.PublicKey()}, nil
}

// NewECPublicKey wraps an ECDH public key on a NIST curve for use with this
// engine, e.g. as the peer of a derivation.
func NewECPublicKey(pub *ecdh.PublicKey) (engine.Key, error) {
	if pub == nil {
		return nil, errors.New("public key is required")
	}

	if pub.Curve() == ecdh.X25519() {
		return nil, errors.New("X25519 keys are created with GenerateX25519Key")
	}

	return &ecKey{kid: newKID(), pub: pub}, nil
}

// GenerateX25519Key creates a fresh X25519 key.
func GenerateX25519Key() (engine.Key, error) {
	priv := make([]byte, curve25519.ScalarSize)

	if _, err := rand.Read(priv); err != nil {
		return nil, err
	}

	pub, err := curve25519.X25519(priv, curve25519.Basepoint)
	if err != nil {
		return nil, err
	}

	return &x25519Key{kid: newKID(), priv: priv, pub: pub}, nil
}

func newKID() string {
	return uuid.New().String()
}
