/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package localengine

import (
	"bytes"
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"errors"
	"net"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/curve25519"

	"github.com/hyperledger/aries-framework-go/component/engine"
	"github.com/hyperledger/aries-framework-go/component/engine/x509verify"
)

func TestEngine_Operations(t *testing.T) {
	e := New()

	t.Run("test release of unknown handle is a no-op", func(t *testing.T) {
		e.ReleaseOperation(99)
		require.Zero(t, e.LiveOperations())
	})

	t.Run("test free of zero and unknown buffers is a no-op", func(t *testing.T) {
		e.Free(0)
		e.Free(99)
		require.Zero(t, e.LiveBuffers())
	})

	t.Run("test calls on a bad handle - should fail", func(t *testing.T) {
		requireFault(t, e.EncryptInit(99), engine.FaultBadHandle)

		_, err := e.Encrypt(99, []byte("msg"), nil)
		requireFault(t, err, engine.FaultBadHandle)

		_, err = e.Keygen(99)
		requireFault(t, err, engine.FaultBadHandle)
	})

	t.Run("test nil key - should fail", func(t *testing.T) {
		_, err := e.NewOperation(nil)
		requireFault(t, err, engine.FaultMissingParameter)
	})

	t.Run("test foreign key - should fail", func(t *testing.T) {
		_, err := e.NewOperation(&foreignKey{})
		requireFault(t, err, engine.FaultKeyMismatch)
	})

	t.Run("test keygen before init - should fail", func(t *testing.T) {
		op, err := e.NewOperationForAlgorithm(engine.AlgorithmRSA)
		require.NoError(t, err)

		defer e.ReleaseOperation(op)

		_, err = e.Keygen(op)
		requireFault(t, err, engine.FaultNotInitialized)
	})
}

func TestEngine_ModeReset(t *testing.T) {
	e := New()
	op, _ := newRSAOp(t, e, 1024)

	require.NoError(t, e.EncryptInit(op))
	require.NoError(t, e.SetRSAPadding(op, engine.PaddingOAEP))
	require.NoError(t, e.SetRSAOAEPDigest(op, crypto.SHA256))
	require.NoError(t, e.SetRSAMGF1Digest(op, crypto.SHA512))

	buf, err := e.Alloc([]byte("label"))
	require.NoError(t, err)
	require.NoError(t, e.SetRSAOAEPLabel(op, buf, 5))

	st := e.ops[op]
	require.Equal(t, engine.PaddingOAEP, st.padding)
	require.Equal(t, crypto.SHA256, st.oaepMD)
	require.Equal(t, crypto.SHA512, st.mgf1MD)
	require.Equal(t, buf, st.label)
	require.Equal(t, 1, e.LiveBuffers())

	// switching modes drops the whole tuning, label included
	require.NoError(t, e.DecryptInit(op))

	require.Equal(t, engine.PaddingPKCS1, st.padding)
	require.Equal(t, crypto.SHA1, st.oaepMD)
	require.Equal(t, crypto.Hash(0), st.mgf1MD)
	require.Zero(t, st.label)
	require.Zero(t, e.LiveBuffers())
}

func TestEngine_LabelOwnership(t *testing.T) {
	e := New()
	op, _ := newRSAOp(t, e, 1024)

	require.NoError(t, e.EncryptInit(op))
	require.NoError(t, e.SetRSAPadding(op, engine.PaddingOAEP))

	t.Run("test replacing a label frees the previous one", func(t *testing.T) {
		first, err := e.Alloc([]byte("first"))
		require.NoError(t, err)
		require.NoError(t, e.SetRSAOAEPLabel(op, first, 5))

		second, err := e.Alloc([]byte("second"))
		require.NoError(t, err)
		require.NoError(t, e.SetRSAOAEPLabel(op, second, 6))

		require.Equal(t, 1, e.LiveBuffers())
		require.Equal(t, second, e.ops[op].label)
	})

	t.Run("test unknown buffer handle - should fail", func(t *testing.T) {
		requireFault(t, e.SetRSAOAEPLabel(op, 999, 3), engine.FaultBadHandle)
	})

	t.Run("test length mismatch keeps ownership with the caller", func(t *testing.T) {
		buf, err := e.Alloc([]byte("ab"))
		require.NoError(t, err)

		requireFault(t, e.SetRSAOAEPLabel(op, buf, 3), engine.FaultBadParameter)

		// the rejected buffer is still the caller's to free
		require.Equal(t, 2, e.LiveBuffers())
		e.Free(buf)
		require.Equal(t, 1, e.LiveBuffers())
	})

	t.Run("test release frees the owned label", func(t *testing.T) {
		e.ReleaseOperation(op)
		require.Zero(t, e.LiveBuffers())
	})
}

func TestEngine_EncryptBounds(t *testing.T) {
	e := New()
	op, priv := newRSAOp(t, e, 1024)
	out := make([]byte, priv.Size())

	t.Run("test PKCS1 maximum message length", func(t *testing.T) {
		require.NoError(t, e.EncryptInit(op))

		n, err := e.Encrypt(op, make([]byte, priv.Size()-pkcs1Overhead), out)
		require.NoError(t, err)
		require.Equal(t, priv.Size(), n)

		_, err = e.Encrypt(op, make([]byte, priv.Size()-pkcs1Overhead+1), out)
		requireFault(t, err, engine.FaultDataTooLarge)
	})

	t.Run("test OAEP maximum message length", func(t *testing.T) {
		require.NoError(t, e.EncryptInit(op))
		require.NoError(t, e.SetRSAPadding(op, engine.PaddingOAEP))

		// SHA-1 leaves size-2*20-2 bytes of room
		max := priv.Size() - 2*crypto.SHA1.Size() - 2

		n, err := e.Encrypt(op, make([]byte, max), out)
		require.NoError(t, err)
		require.Equal(t, priv.Size(), n)

		_, err = e.Encrypt(op, make([]byte, max+1), out)
		requireFault(t, err, engine.FaultDataTooLarge)
	})

	t.Run("test none padding is rejected", func(t *testing.T) {
		require.NoError(t, e.EncryptInit(op))
		require.NoError(t, e.SetRSAPadding(op, engine.PaddingNone))

		_, err := e.Encrypt(op, []byte("msg"), out)
		requireFault(t, err, engine.FaultBadParameter)
	})
}

func TestEngine_OAEPDigests(t *testing.T) {
	e := New()
	op, priv := newRSAOp(t, e, 1024)
	msg := []byte("digest check")

	encryptOAEP := func(t *testing.T, md crypto.Hash) []byte {
		t.Helper()

		require.NoError(t, e.EncryptInit(op))
		require.NoError(t, e.SetRSAPadding(op, engine.PaddingOAEP))
		require.NoError(t, e.SetRSAOAEPDigest(op, md))

		out := make([]byte, priv.Size())

		n, err := e.Encrypt(op, msg, out)
		require.NoError(t, err)

		return out[:n]
	}

	t.Run("test distinct mgf1 digest rejected for encryption", func(t *testing.T) {
		require.NoError(t, e.EncryptInit(op))
		require.NoError(t, e.SetRSAPadding(op, engine.PaddingOAEP))
		require.NoError(t, e.SetRSAMGF1Digest(op, crypto.SHA256))

		// the size query is tuning-independent and still succeeds
		bound, err := e.Encrypt(op, msg, nil)
		require.NoError(t, err)
		require.Equal(t, priv.Size(), bound)

		_, err = e.Encrypt(op, msg, make([]byte, bound))
		requireFault(t, err, engine.FaultNotSupported)
	})

	t.Run("test wrong oaep digest fails decryption", func(t *testing.T) {
		ct := encryptOAEP(t, crypto.SHA1)

		require.NoError(t, e.DecryptInit(op))
		require.NoError(t, e.SetRSAPadding(op, engine.PaddingOAEP))
		require.NoError(t, e.SetRSAOAEPDigest(op, crypto.SHA256))

		_, err := e.Decrypt(op, ct, make([]byte, priv.Size()))
		requireFault(t, err, engine.FaultCryptoFailure)
	})

	t.Run("test mismatched mgf1 digest fails decryption", func(t *testing.T) {
		ct := encryptOAEP(t, crypto.SHA256)

		require.NoError(t, e.DecryptInit(op))
		require.NoError(t, e.SetRSAPadding(op, engine.PaddingOAEP))
		require.NoError(t, e.SetRSAOAEPDigest(op, crypto.SHA256))
		require.NoError(t, e.SetRSAMGF1Digest(op, crypto.SHA1))

		_, err := e.Decrypt(op, ct, make([]byte, priv.Size()))
		requireFault(t, err, engine.FaultCryptoFailure)
	})

	t.Run("test tampered ciphertext fails decryption", func(t *testing.T) {
		require.NoError(t, e.EncryptInit(op))

		out := make([]byte, priv.Size())

		n, err := e.Encrypt(op, msg, out)
		require.NoError(t, err)

		out[n/2] ^= 0xff

		require.NoError(t, e.DecryptInit(op))

		_, err = e.Decrypt(op, out[:n], make([]byte, priv.Size()))
		requireFault(t, err, engine.FaultCryptoFailure)
	})
}

func TestEngine_Keygen(t *testing.T) {
	t.Run("test configured default modulus size", func(t *testing.T) {
		e := New(WithRSAKeygenBits(1024))

		op, err := e.NewOperationForAlgorithm(engine.AlgorithmRSA)
		require.NoError(t, err)

		defer e.ReleaseOperation(op)

		require.NoError(t, e.KeygenInit(op))

		key, err := e.Keygen(op)
		require.NoError(t, err)
		require.Equal(t, 1024, key.(*rsaKey).priv.N.BitLen())
	})

	t.Run("test randomness source is honored", func(t *testing.T) {
		seed := bytes.Repeat([]byte{7}, curve25519.ScalarSize)

		gen := func(t *testing.T) *x25519Key {
			t.Helper()

			e := New(WithRandom(bytes.NewReader(seed)))

			op, err := e.NewOperationForAlgorithm(engine.AlgorithmX25519)
			require.NoError(t, err)

			defer e.ReleaseOperation(op)

			require.NoError(t, e.KeygenInit(op))

			key, err := e.Keygen(op)
			require.NoError(t, err)

			return key.(*x25519Key)
		}

		first, second := gen(t), gen(t)
		require.Equal(t, seed, first.priv)
		require.Equal(t, first.pub, second.pub)
	})

	t.Run("test keyed-generation controls - should fail", func(t *testing.T) {
		e := New()

		op, err := e.NewOperationForAlgorithm(engine.AlgorithmCMAC)
		require.NoError(t, err)

		defer e.ReleaseOperation(op)

		require.NoError(t, e.KeygenInit(op))

		requireFault(t, e.SetKeygenCipher(op, "DES-EDE3-CBC"), engine.FaultBadParameter)
		requireFault(t, e.SetKeygenMACKey(op, make([]byte, 16), 15), engine.FaultBadParameter)
		requireFault(t, e.SetKeygenMACKey(op, nil, 0), engine.FaultBadParameter)
	})

	t.Run("test keyed-generation controls on RSA - should fail", func(t *testing.T) {
		e := New()

		op, err := e.NewOperationForAlgorithm(engine.AlgorithmRSA)
		require.NoError(t, err)

		defer e.ReleaseOperation(op)

		require.NoError(t, e.KeygenInit(op))

		requireFault(t, e.SetKeygenCipher(op, engine.CipherAES128CBC), engine.FaultUnsupportedAlgorithm)
		requireFault(t, e.SetRSAKeygenBits(op, 256), engine.FaultBadParameter)
	})
}

func TestEngine_VerifyParams(t *testing.T) {
	e := New()

	h, err := e.NewParam()
	require.NoError(t, err)

	t.Run("test host and ip replace each other", func(t *testing.T) {
		require.NoError(t, e.SetHost(h, "example.com"))

		st := e.params[h]
		require.Equal(t, "example.com", st.host)
		require.Nil(t, st.ip)

		require.NoError(t, e.SetIP(h, net.IP{192, 0, 2, 33}))
		require.Equal(t, net.IP{192, 0, 2, 33}, st.ip)
		require.Empty(t, st.host)

		require.NoError(t, e.SetHost(h, "example.org"))
		require.Equal(t, "example.org", st.host)
		require.Nil(t, st.ip)
	})

	t.Run("test stored address is a copy", func(t *testing.T) {
		ip := net.IP{192, 0, 2, 1}

		require.NoError(t, e.SetIP(h, ip))

		ip[3] = 99
		require.Equal(t, net.IP{192, 0, 2, 1}, e.params[h].ip)
	})

	t.Run("test address of an odd width - should fail", func(t *testing.T) {
		requireFault(t, e.SetIP(h, make(net.IP, 5)), engine.FaultBadParameter)
	})

	t.Run("test hostflags are stored", func(t *testing.T) {
		e.SetHostflags(h, x509verify.CheckFlagNoWildcards)
		require.Equal(t, x509verify.CheckFlagNoWildcards, e.params[h].hostflags)
	})

	t.Run("test unknown param handle", func(t *testing.T) {
		requireFault(t, e.SetHost(99, "example.com"), engine.FaultBadHandle)
		requireFault(t, e.SetFlags(99, x509verify.VerifyFlagStrict), engine.FaultBadHandle)
		require.Zero(t, e.Flags(99))

		// setters without an error path just warn
		e.SetHostflags(99, x509verify.CheckFlagNoWildcards)
		e.FreeParam(99)
	})

	t.Run("test free releases the set", func(t *testing.T) {
		require.Equal(t, 1, e.LiveParams())
		e.FreeParam(h)
		require.Zero(t, e.LiveParams())
	})
}

func TestEngine_Buffers(t *testing.T) {
	e := New()

	t.Run("test alloc copies the input", func(t *testing.T) {
		b := []byte("abc")

		buf, err := e.Alloc(b)
		require.NoError(t, err)

		b[0] = 'x'
		require.Equal(t, []byte("abc"), e.bufs[buf])

		e.Free(buf)
		require.Zero(t, e.LiveBuffers())
	})

	t.Run("test supports reports the OAEP surface", func(t *testing.T) {
		require.True(t, e.Supports(engine.FeatureRSAOAEP))
		require.False(t, e.Supports(engine.Feature("GCM")))
	})
}

func newRSAOp(t *testing.T, e *Engine, bits int) (engine.OpHandle, *rsa.PrivateKey) {
	t.Helper()

	priv, err := rsa.GenerateKey(rand.Reader, bits)
	require.NoError(t, err)

	key, err := NewRSAKey(priv)
	require.NoError(t, err)

	op, err := e.NewOperation(key)
	require.NoError(t, err)

	return op, priv
}

func requireFault(t *testing.T, err error, code engine.FaultCode) {
	t.Helper()

	var engineErr *engine.Error

	require.ErrorAs(t, err, &engineErr)
	require.True(t, engineErr.HasCode(code), "want fault %s in %v", code, err)
}

// foreignKey implements engine.Key without being one of the engine's own
// key types.
type foreignKey struct{}

func (k *foreignKey) KID() string { return "foreign" }

func (k *foreignKey) Algorithm() engine.AlgorithmID { return engine.AlgorithmRSA }

func (k *foreignKey) Private() bool { return true }

func (k *foreignKey) Symmetric() bool { return false }

func (k *foreignKey) Public() (engine.Key, error) { return nil, errors.New("no public part") }
