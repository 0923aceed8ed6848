/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package engine

// AlgorithmID identifies an algorithm family understood by an engine.
type AlgorithmID string

const (
	// AlgorithmRSA covers RSA encryption, decryption and key generation.
	AlgorithmRSA = AlgorithmID("RSA")
	// AlgorithmEC covers ECDH derivation and key generation on NIST curves.
	AlgorithmEC = AlgorithmID("EC")
	// AlgorithmX25519 covers X25519 derivation and key generation.
	AlgorithmX25519 = AlgorithmID("X25519")
	// AlgorithmCMAC covers keyed generation of CMAC secrets.
	AlgorithmCMAC = AlgorithmID("CMAC")
)

// Cipher identifies the block cipher parameterizing keyed generation.
type Cipher string

const (
	// CipherAES128CBC is AES-128 in CBC mode.
	CipherAES128CBC = Cipher("AES-128-CBC")
	// CipherAES192CBC is AES-192 in CBC mode.
	CipherAES192CBC = Cipher("AES-192-CBC")
	// CipherAES256CBC is AES-256 in CBC mode.
	CipherAES256CBC = Cipher("AES-256-CBC")
)

// KeySize returns the cipher's key length in bytes, 0 for an unknown cipher.
func (c Cipher) KeySize() int {
	switch c {
	case CipherAES128CBC:
		return 16
	case CipherAES192CBC:
		return 24
	case CipherAES256CBC:
		return 32
	}

	return 0
}

// BlockSize returns the cipher's block length in bytes, 0 for an unknown
// cipher.
func (c Cipher) BlockSize() int {
	switch c {
	case CipherAES128CBC, CipherAES192CBC, CipherAES256CBC:
		return 16
	}

	return 0
}

// Padding selects an RSA padding scheme. The values mirror the native
// provider's constant table and must not be renumbered.
type Padding int

const (
	// PaddingPKCS1 is PKCS #1 v1.5 padding.
	PaddingPKCS1 = Padding(1)
	// PaddingNone is raw RSA without padding.
	PaddingNone = Padding(3)
	// PaddingOAEP is OAEP padding for encryption.
	PaddingOAEP = Padding(4)
	// PaddingPSS is PSS padding for signatures.
	PaddingPSS = Padding(6)
)

// String returns the provider-style name of the padding scheme.
func (p Padding) String() string {
	switch p {
	case PaddingPKCS1:
		return "pkcs1"
	case PaddingNone:
		return "none"
	case PaddingOAEP:
		return "oaep"
	case PaddingPSS:
		return "pss"
	}

	return "unknown"
}
