/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package localengine

import (
	"crypto/rsa"

	"github.com/hyperledger/aries-framework-go/component/engine"
)

// pkcs1Overhead is the minimum PKCS #1 v1.5 padding size.
const pkcs1Overhead = 11

// Encrypt encrypts from into out with the operation's key and padding. A
// nil out reports the output upper bound, the modulus size, without
// performing the operation.
func (e *Engine) Encrypt(op engine.OpHandle, from, out []byte) (int, error) {
	const opName = "encrypt"

	e.mu.Lock()
	defer e.mu.Unlock()

	st, eerr := e.opLocked(op, opName)
	if eerr != nil {
		return 0, eerr
	}

	if st.mode != modeEncrypt {
		return 0, engine.Errorf(engine.FaultNotInitialized, opName,
			"operation is %s, not encrypt", st.mode)
	}

	pub := st.key.(*rsaKey).pub
	size := pub.Size()

	if out == nil {
		return size, nil
	}

	if len(out) < size {
		return 0, engine.Errorf(engine.FaultBufferTooSmall, opName,
			"output buffer holds %d bytes, need %d", len(out), size)
	}

	ct, eerr := e.encryptLocked(st, pub, from)
	if eerr != nil {
		return 0, eerr
	}

	return copy(out, ct), nil
}

func (e *Engine) encryptLocked(st *opState, pub *rsa.PublicKey, from []byte) ([]byte, *engine.Error) {
	const opName = "encrypt"

	size := pub.Size()

	switch st.padding {
	case engine.PaddingPKCS1:
		if len(from) > size-pkcs1Overhead {
			return nil, engine.Errorf(engine.FaultDataTooLarge, opName,
				"message length %d exceeds maximum %d", len(from), size-pkcs1Overhead)
		}

		ct, err := rsa.EncryptPKCS1v15(e.random, pub, from)
		if err != nil {
			return nil, engine.Errorf(engine.FaultCryptoFailure, opName, "%v", err)
		}

		return ct, nil
	case engine.PaddingOAEP:
		md := st.oaepMD

		// the provider encrypts with a single digest; a distinct MGF1
		// digest is honored on decryption only
		if mgf := st.mgf1MD; mgf != 0 && mgf != md {
			return nil, engine.Errorf(engine.FaultNotSupported, opName,
				"distinct mgf1 digest is not supported for encryption")
		}

		max := size - 2*md.Size() - 2
		if len(from) > max {
			return nil, engine.Errorf(engine.FaultDataTooLarge, opName,
				"message length %d exceeds maximum %d for the key and digest", len(from), max)
		}

		ct, err := rsa.EncryptOAEP(md.New(), e.random, pub, from, e.bufs[st.label])
		if err != nil {
			return nil, engine.Errorf(engine.FaultCryptoFailure, opName, "%v", err)
		}

		return ct, nil
	}

	return nil, engine.Errorf(engine.FaultBadParameter, opName,
		"%s padding is not usable for encryption", st.padding)
}

// Decrypt decrypts from into out with the operation's key and padding. A
// nil out reports the output upper bound, the modulus size, without
// performing the operation; the plaintext is usually shorter.
func (e *Engine) Decrypt(op engine.OpHandle, from, out []byte) (int, error) {
	const opName = "decrypt"

	e.mu.Lock()
	defer e.mu.Unlock()

	st, eerr := e.opLocked(op, opName)
	if eerr != nil {
		return 0, eerr
	}

	if st.mode != modeDecrypt {
		return 0, engine.Errorf(engine.FaultNotInitialized, opName,
			"operation is %s, not decrypt", st.mode)
	}

	key := st.key.(*rsaKey)

	if out == nil {
		return key.pub.Size(), nil
	}

	pt, eerr := e.decryptLocked(st, key, from)
	if eerr != nil {
		return 0, eerr
	}

	if len(out) < len(pt) {
		return 0, engine.Errorf(engine.FaultBufferTooSmall, opName,
			"output buffer holds %d bytes, need %d", len(out), len(pt))
	}

	return copy(out, pt), nil
}

func (e *Engine) decryptLocked(st *opState, key *rsaKey, from []byte) ([]byte, *engine.Error) {
	const opName = "decrypt"

	switch st.padding {
	case engine.PaddingPKCS1:
		pt, err := rsa.DecryptPKCS1v15(e.random, key.priv, from)
		if err != nil {
			return nil, engine.Errorf(engine.FaultCryptoFailure, opName, "%v", err)
		}

		return pt, nil
	case engine.PaddingOAEP:
		opts := &rsa.OAEPOptions{
			Hash:  st.oaepMD,
			Label: e.bufs[st.label],
		}

		if st.mgf1MD != 0 && st.mgf1MD != st.oaepMD {
			opts.MGFHash = st.mgf1MD
		}

		pt, err := key.priv.Decrypt(e.random, from, opts)
		if err != nil {
			return nil, engine.Errorf(engine.FaultCryptoFailure, opName, "%v", err)
		}

		return pt, nil
	}

	return nil, engine.Errorf(engine.FaultBadParameter, opName,
		"%s padding is not usable for decryption", st.padding)
}
