/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package localengine provides the default in-process implementation of the
// engine SPI, backing the pkeyctx and x509verify boundaries with RSA
// encryption and decryption, ECDH and X25519 derivation, RSA, EC, X25519
// and CMAC key generation, and a verification parameter store. Operation
// contexts, engine-owned buffers and parameter sets live in handle tables
// behind one mutex; the tables are safe for concurrent use, individual
// handles are not.
package localengine

import (
	"crypto/rand"
	"io"
	"sync"

	"github.com/hyperledger/aries-framework-go/component/engine"
	"github.com/hyperledger/aries-framework-go/component/engine/x509verify"
	"github.com/hyperledger/aries-framework-go/component/log"
)

var logger = log.New("aries-framework/engine")

const defaultRSABits = 2048

// engineOpts holds the tunable defaults of a local engine.
type engineOpts struct {
	random  io.Reader
	rsaBits int
}

// Opt configures a local engine at creation time.
type Opt func(*engineOpts)

// WithRandom replaces the source of randomness, e.g. with a deterministic
// reader in tests.
func WithRandom(r io.Reader) Opt {
	return func(o *engineOpts) {
		o.random = r
	}
}

// WithRSAKeygenBits replaces the default RSA modulus size used when a
// key generation operation does not set one.
func WithRSAKeygenBits(bits int) Opt {
	return func(o *engineOpts) {
		o.rsaBits = bits
	}
}

// Engine is a software crypto engine. It implements engine.Engine and
// x509verify.Store.
type Engine struct {
	random  io.Reader
	rsaBits int

	mu        sync.Mutex
	nextOp    engine.OpHandle
	nextBuf   engine.BufferHandle
	nextParam x509verify.ParamHandle
	ops       map[engine.OpHandle]*opState
	bufs      map[engine.BufferHandle][]byte
	params    map[x509verify.ParamHandle]*paramState
}

var (
	_ engine.Engine    = (*Engine)(nil)
	_ x509verify.Store = (*Engine)(nil)
)

// New creates a local engine.
func New(opts ...Opt) *Engine {
	o := &engineOpts{
		random:  rand.Reader,
		rsaBits: defaultRSABits,
	}

	for _, opt := range opts {
		opt(o)
	}

	return &Engine{
		random:  o.random,
		rsaBits: o.rsaBits,
		ops:     map[engine.OpHandle]*opState{},
		bufs:    map[engine.BufferHandle][]byte{},
		params:  map[x509verify.ParamHandle]*paramState{},
	}
}

// NewOperation allocates an operation context bound to key.
func (e *Engine) NewOperation(key engine.Key) (engine.OpHandle, error) {
	if key == nil {
		return 0, engine.Errorf(engine.FaultMissingParameter, "new operation", "key is required")
	}

	if !ownKey(key) {
		return 0, engine.Errorf(engine.FaultKeyMismatch, "new operation",
			"key %q was not created by this engine", key.KID())
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	return e.newOpLocked(&opState{alg: key.Algorithm(), key: key}), nil
}

// NewOperationForAlgorithm allocates an operation context without key
// material. Only key generation can be initialized on it.
func (e *Engine) NewOperationForAlgorithm(alg engine.AlgorithmID) (engine.OpHandle, error) {
	switch alg {
	case engine.AlgorithmRSA, engine.AlgorithmEC, engine.AlgorithmX25519, engine.AlgorithmCMAC:
	default:
		return 0, engine.Errorf(engine.FaultUnsupportedAlgorithm, "new operation",
			"unsupported key type %q", alg)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	return e.newOpLocked(&opState{alg: alg}), nil
}

func (e *Engine) newOpLocked(st *opState) engine.OpHandle {
	e.nextOp++
	e.ops[e.nextOp] = st

	return e.nextOp
}

// ReleaseOperation frees the operation context together with any label
// buffer it took ownership of. Releasing an unknown handle is a no-op.
func (e *Engine) ReleaseOperation(op engine.OpHandle) {
	e.mu.Lock()
	defer e.mu.Unlock()

	st, ok := e.ops[op]
	if !ok {
		logger.Warnf("release of unknown operation handle %d", op)

		return
	}

	e.freeLocked(st.label)
	delete(e.ops, op)
}

// Alloc copies b into a fresh engine-owned buffer.
func (e *Engine) Alloc(b []byte) (engine.BufferHandle, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.nextBuf++
	e.bufs[e.nextBuf] = append([]byte(nil), b...)

	return e.nextBuf, nil
}

// Free releases an engine-owned buffer. Freeing 0 or an unknown handle is a
// no-op.
func (e *Engine) Free(buf engine.BufferHandle) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if buf == 0 {
		return
	}

	if _, ok := e.bufs[buf]; !ok {
		logger.Warnf("free of unknown buffer handle %d", buf)

		return
	}

	e.freeLocked(buf)
}

// freeLocked drops a buffer without the unknown-handle warning. Callers
// hold e.mu.
func (e *Engine) freeLocked(buf engine.BufferHandle) {
	if buf == 0 {
		return
	}

	delete(e.bufs, buf)
}

// Supports reports the engine's optional capabilities. The local engine
// implements the full OAEP parameter surface.
func (e *Engine) Supports(f engine.Feature) bool {
	return f == engine.FeatureRSAOAEP
}

// LiveOperations reports the number of operation contexts not yet released.
func (e *Engine) LiveOperations() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	return len(e.ops)
}

// LiveBuffers reports the number of engine-owned buffers not yet freed,
// including label buffers owned by live operations.
func (e *Engine) LiveBuffers() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	return len(e.bufs)
}

// opLocked resolves an operation handle. Callers hold e.mu.
func (e *Engine) opLocked(op engine.OpHandle, opName string) (*opState, *engine.Error) {
	st, ok := e.ops[op]
	if !ok {
		return nil, engine.Errorf(engine.FaultBadHandle, opName, "unknown operation handle %d", op)
	}

	return st, nil
}
