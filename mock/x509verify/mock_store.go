/*
 Copyright SecureKey Technologies Inc. All Rights Reserved.

 SPDX-License-Identifier: Apache-2.0
*/

package x509verify

import (
	"net"

	x509verifyapi "github.com/hyperledger/aries-framework-go/component/engine/x509verify"
)

// Store mocks a verification parameter store. Failures are injected through
// the XxxErr fields, behavior through the XxxFn fields, canned results
// through the XxxValue fields, checked in that order. FreeParam keeps a
// record so ownership tests can assert what was released.
type Store struct {
	NewParamValue  x509verifyapi.ParamHandle
	NewParamErr    error
	FreeParamFn    func(h x509verifyapi.ParamHandle)
	FreeParamCalls int
	FreedParams    []x509verifyapi.ParamHandle

	SetHostflagsFn func(h x509verifyapi.ParamHandle, f x509verifyapi.CheckFlags)
	SetFlagsErr    error
	SetFlagsFn     func(h x509verifyapi.ParamHandle, f x509verifyapi.VerifyFlags) error
	ClearFlagsErr  error
	ClearFlagsFn   func(h x509verifyapi.ParamHandle, f x509verifyapi.VerifyFlags) error
	FlagsValue     x509verifyapi.VerifyFlags
	FlagsFn        func(h x509verifyapi.ParamHandle) x509verifyapi.VerifyFlags
	SetHostErr     error
	SetHostFn      func(h x509verifyapi.ParamHandle, host string) error
	SetIPErr       error
	SetIPFn        func(h x509verifyapi.ParamHandle, ip net.IP) error
}

// NewParam returns a mocked parameter handle.
func (m *Store) NewParam() (x509verifyapi.ParamHandle, error) {
	if m.NewParamErr != nil {
		return 0, m.NewParamErr
	}

	return m.NewParamValue, nil
}

// FreeParam records the released handle.
func (m *Store) FreeParam(h x509verifyapi.ParamHandle) {
	m.FreeParamCalls++
	m.FreedParams = append(m.FreedParams, h)

	if m.FreeParamFn != nil {
		m.FreeParamFn(h)
	}
}

// SetHostflags forwards to SetHostflagsFn when set.
func (m *Store) SetHostflags(h x509verifyapi.ParamHandle, f x509verifyapi.CheckFlags) {
	if m.SetHostflagsFn != nil {
		m.SetHostflagsFn(h, f)
	}
}

// SetFlags returns a mocked flag-set result.
func (m *Store) SetFlags(h x509verifyapi.ParamHandle, f x509verifyapi.VerifyFlags) error {
	if m.SetFlagsErr != nil {
		return m.SetFlagsErr
	}

	if m.SetFlagsFn != nil {
		return m.SetFlagsFn(h, f)
	}

	return nil
}

// ClearFlags returns a mocked flag-clear result.
func (m *Store) ClearFlags(h x509verifyapi.ParamHandle, f x509verifyapi.VerifyFlags) error {
	if m.ClearFlagsErr != nil {
		return m.ClearFlagsErr
	}

	if m.ClearFlagsFn != nil {
		return m.ClearFlagsFn(h, f)
	}

	return nil
}

// Flags returns the mocked flag union.
func (m *Store) Flags(h x509verifyapi.ParamHandle) x509verifyapi.VerifyFlags {
	if m.FlagsFn != nil {
		return m.FlagsFn(h)
	}

	return m.FlagsValue
}

// SetHost returns a mocked host-expectation result.
func (m *Store) SetHost(h x509verifyapi.ParamHandle, host string) error {
	if m.SetHostErr != nil {
		return m.SetHostErr
	}

	if m.SetHostFn != nil {
		return m.SetHostFn(h, host)
	}

	return nil
}

// SetIP returns a mocked IP-expectation result.
func (m *Store) SetIP(h x509verifyapi.ParamHandle, ip net.IP) error {
	if m.SetIPErr != nil {
		return m.SetIPErr
	}

	if m.SetIPFn != nil {
		return m.SetIPFn(h, ip)
	}

	return nil
}
