/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package localengine

import (
	"crypto/ecdh"
	"crypto/rsa"
	"io"

	"github.com/google/tink/go/mac/subtle"
	"golang.org/x/crypto/curve25519"

	"github.com/hyperledger/aries-framework-go/component/engine"
)

// cmacTagSize is the full AES-CMAC tag width used by the consistency check.
const cmacTagSize = 16

// pairwiseProbe is the fixed message MACed to validate a generated CMAC key.
var pairwiseProbe = []byte("pairwise consistency probe")

// Keygen generates a fresh key for the operation's algorithm family. RSA
// follows the configured modulus size, EC generation uses P-256, and CMAC
// requires the cipher and MAC key controls to have been set.
func (e *Engine) Keygen(op engine.OpHandle) (engine.Key, error) {
	const opName = "keygen"

	e.mu.Lock()
	defer e.mu.Unlock()

	st, eerr := e.opLocked(op, opName)
	if eerr != nil {
		return nil, eerr
	}

	if st.mode != modeKeygen {
		return nil, engine.Errorf(engine.FaultNotInitialized, opName,
			"operation is %s, not keygen", st.mode)
	}

	key, eerr := e.keygenLocked(st)
	if eerr != nil {
		return nil, eerr
	}

	logger.Debugf("generated %s key %s", st.alg, key.KID())

	return key, nil
}

func (e *Engine) keygenLocked(st *opState) (engine.Key, *engine.Error) {
	const opName = "keygen"

	switch st.alg {
	case engine.AlgorithmRSA:
		priv, err := rsa.GenerateKey(e.random, st.rsaBits)
		if err != nil {
			return nil, engine.Errorf(engine.FaultInternal, opName, "rsa generation failed: %v", err)
		}

		return &rsaKey{kid: newKID(), priv: priv, pub: &priv.PublicKey}, nil
	case engine.AlgorithmEC:
		priv, err := ecdh.P256().GenerateKey(e.random)
		if err != nil {
			return nil, engine.Errorf(engine.FaultInternal, opName, "ec generation failed: %v", err)
		}

		return &ecKey{kid: newKID(), priv: priv, pub: priv.PublicKey()}, nil
	case engine.AlgorithmX25519:
		priv := make([]byte, curve25519.ScalarSize)

		if _, err := io.ReadFull(e.random, priv); err != nil {
			return nil, engine.Errorf(engine.FaultInternal, opName, "x25519 generation failed: %v", err)
		}

		pub, err := curve25519.X25519(priv, curve25519.Basepoint)
		if err != nil {
			return nil, engine.Errorf(engine.FaultInternal, opName, "x25519 generation failed: %v", err)
		}

		return &x25519Key{kid: newKID(), priv: priv, pub: pub}, nil
	case engine.AlgorithmCMAC:
		return e.cmacKeygenLocked(st)
	}

	return nil, engine.Errorf(engine.FaultUnsupportedAlgorithm, opName,
		"operation not supported for %s keys", st.alg)
}

// cmacKeygenLocked builds a CMAC key from the keyed-generation controls and
// runs a pairwise consistency check through the AES-CMAC primitive before
// releasing it.
func (e *Engine) cmacKeygenLocked(st *opState) (engine.Key, *engine.Error) {
	const opName = "keygen"

	if st.cipher == "" {
		return nil, engine.Errorf(engine.FaultMissingParameter, opName, "cipher not set")
	}

	if st.macKey == nil {
		return nil, engine.Errorf(engine.FaultMissingParameter, opName, "mac key not set")
	}

	if len(st.macKey) != st.cipher.KeySize() {
		return nil, engine.Errorf(engine.FaultBadParameter, opName,
			"mac key holds %d bytes, %s needs %d", len(st.macKey), st.cipher, st.cipher.KeySize())
	}

	cmac, err := subtle.NewAESCMAC(st.macKey, cmacTagSize)
	if err != nil {
		return nil, engine.Errorf(engine.FaultBadParameter, opName, "mac key rejected: %v", err)
	}

	tag, err := cmac.ComputeMAC(pairwiseProbe)
	if err != nil {
		return nil, engine.Errorf(engine.FaultInternal, opName, "consistency check failed: %v", err)
	}

	if err := cmac.VerifyMAC(tag, pairwiseProbe); err != nil {
		return nil, engine.Errorf(engine.FaultCryptoFailure, opName, "consistency check failed: %v", err)
	}

	return &cmacKey{
		kid:    newKID(),
		cipher: st.cipher,
		secret: append([]byte(nil), st.macKey...),
	}, nil
}
