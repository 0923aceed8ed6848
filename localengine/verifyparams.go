/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package localengine

import (
	"net"
	"strings"

	"github.com/hyperledger/aries-framework-go/component/engine"
	"github.com/hyperledger/aries-framework-go/component/engine/x509verify"
)

// paramState is one verification parameter set: the expected peer identity,
// either host or ip, plus the matching and validation policies.
type paramState struct {
	hostflags x509verify.CheckFlags
	flags     x509verify.VerifyFlags
	host      string
	ip        net.IP
}

// NewParam allocates an empty verification parameter set.
func (e *Engine) NewParam() (x509verify.ParamHandle, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.nextParam++
	e.params[e.nextParam] = &paramState{}

	return e.nextParam, nil
}

// FreeParam releases a verification parameter set. Freeing an unknown
// handle is a no-op.
func (e *Engine) FreeParam(h x509verify.ParamHandle) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.params[h]; !ok {
		logger.Warnf("free of unknown param handle %d", h)

		return
	}

	delete(e.params, h)
}

// LiveParams reports the number of verification parameter sets not yet
// freed.
func (e *Engine) LiveParams() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	return len(e.params)
}

// SetHostflags replaces the host-matching policy. Unknown handles are
// ignored.
func (e *Engine) SetHostflags(h x509verify.ParamHandle, f x509verify.CheckFlags) {
	e.mu.Lock()
	defer e.mu.Unlock()

	st, ok := e.params[h]
	if !ok {
		logger.Warnf("set hostflags on unknown param handle %d", h)

		return
	}

	st.hostflags = f
}

// SetFlags ORs f into the verification flag set, rejecting bits outside the
// defined flag table.
func (e *Engine) SetFlags(h x509verify.ParamHandle, f x509verify.VerifyFlags) error {
	const opName = "set flags"

	e.mu.Lock()
	defer e.mu.Unlock()

	st, eerr := e.paramLocked(h, opName)
	if eerr != nil {
		return eerr
	}

	if unknown := f &^ x509verify.VerifyFlagsMask; unknown != 0 {
		return engine.Errorf(engine.FaultBadParameter, opName,
			"unknown verification flag bits %#x", uint64(unknown))
	}

	st.flags |= f

	return nil
}

// ClearFlags removes f from the verification flag set, rejecting bits
// outside the defined flag table.
func (e *Engine) ClearFlags(h x509verify.ParamHandle, f x509verify.VerifyFlags) error {
	const opName = "clear flags"

	e.mu.Lock()
	defer e.mu.Unlock()

	st, eerr := e.paramLocked(h, opName)
	if eerr != nil {
		return eerr
	}

	if unknown := f &^ x509verify.VerifyFlagsMask; unknown != 0 {
		return engine.Errorf(engine.FaultBadParameter, opName,
			"unknown verification flag bits %#x", uint64(unknown))
	}

	st.flags &^= f

	return nil
}

// Flags returns the union of all currently set verification flags, 0 for an
// unknown handle.
func (e *Engine) Flags(h x509verify.ParamHandle) x509verify.VerifyFlags {
	e.mu.Lock()
	defer e.mu.Unlock()

	st, ok := e.params[h]
	if !ok {
		return 0
	}

	return st.flags
}

// SetHost replaces the expected peer identity with a DNS name. An empty
// host clears the expectation.
func (e *Engine) SetHost(h x509verify.ParamHandle, host string) error {
	const opName = "set host"

	e.mu.Lock()
	defer e.mu.Unlock()

	st, eerr := e.paramLocked(h, opName)
	if eerr != nil {
		return eerr
	}

	if strings.IndexByte(host, 0) >= 0 {
		return engine.Errorf(engine.FaultBadParameter, opName, "host contains a NUL byte")
	}

	st.host = host
	st.ip = nil

	return nil
}

// SetIP replaces the expected peer identity with an IP address of exactly 4
// or 16 bytes.
func (e *Engine) SetIP(h x509verify.ParamHandle, ip net.IP) error {
	const opName = "set ip"

	e.mu.Lock()
	defer e.mu.Unlock()

	st, eerr := e.paramLocked(h, opName)
	if eerr != nil {
		return eerr
	}

	if len(ip) != net.IPv4len && len(ip) != net.IPv6len {
		return engine.Errorf(engine.FaultBadParameter, opName,
			"address holds %d bytes, want %d or %d", len(ip), net.IPv4len, net.IPv6len)
	}

	st.ip = append(net.IP(nil), ip...)
	st.host = ""

	return nil
}

// paramLocked resolves a parameter handle. Callers hold e.mu.
func (e *Engine) paramLocked(h x509verify.ParamHandle, opName string) (*paramState, *engine.Error) {
	st, ok := e.params[h]
	if !ok {
		return nil, engine.Errorf(engine.FaultBadHandle, opName, "unknown param handle %d", h)
	}

	return st, nil
}
