/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package localengine

import (
	"crypto/ecdh"

	"golang.org/x/crypto/curve25519"

	"github.com/hyperledger/aries-framework-go/component/engine"
)

// Derive writes the shared secret between the operation's key and the peer
// into out. A nil out reports the secret's exact size, the field element
// width of the curve, without performing the operation.
func (e *Engine) Derive(op engine.OpHandle, out []byte) (int, error) {
	const opName = "derive"

	e.mu.Lock()
	defer e.mu.Unlock()

	st, eerr := e.opLocked(op, opName)
	if eerr != nil {
		return 0, eerr
	}

	if st.mode != modeDerive {
		return 0, engine.Errorf(engine.FaultNotInitialized, opName,
			"operation is %s, not derive", st.mode)
	}

	if st.peer == nil {
		return 0, engine.Errorf(engine.FaultMissingParameter, opName, "peer key not set")
	}

	need, eerr := secretSize(st)
	if eerr != nil {
		return 0, eerr
	}

	if out == nil {
		return need, nil
	}

	if len(out) < need {
		return 0, engine.Errorf(engine.FaultBufferTooSmall, opName,
			"output buffer holds %d bytes, need %d", len(out), need)
	}

	secret, eerr := e.deriveLocked(st)
	if eerr != nil {
		return 0, eerr
	}

	return copy(out, secret), nil
}

func (e *Engine) deriveLocked(st *opState) ([]byte, *engine.Error) {
	const opName = "derive"

	switch st.alg {
	case engine.AlgorithmEC:
		own, peer := st.key.(*ecKey), st.peer.(*ecKey)

		secret, err := own.priv.ECDH(peer.pub)
		if err != nil {
			return nil, engine.Errorf(engine.FaultCryptoFailure, opName, "%v", err)
		}

		return secret, nil
	case engine.AlgorithmX25519:
		own, peer := st.key.(*x25519Key), st.peer.(*x25519Key)

		secret, err := curve25519.X25519(own.priv, peer.pub)
		if err != nil {
			return nil, engine.Errorf(engine.FaultCryptoFailure, opName, "%v", err)
		}

		return secret, nil
	}

	return nil, engine.Errorf(engine.FaultUnsupportedAlgorithm, opName,
		"operation not supported for %s keys", st.alg)
}

// secretSize reports the derived secret's size for the operation's family
// and curve.
func secretSize(st *opState) (int, *engine.Error) {
	if st.alg == engine.AlgorithmX25519 {
		return curve25519.PointSize, nil
	}

	switch st.key.(*ecKey).pub.Curve() {
	case ecdh.P256():
		return 32, nil
	case ecdh.P384():
		return 48, nil
	case ecdh.P521():
		return 66, nil
	}

	return 0, engine.Errorf(engine.FaultInternal, "derive", "unknown curve")
}
