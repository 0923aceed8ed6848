/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package x509verify provides the boundary for certificate-chain
// verification parameters: the expected peer identity (host or IP, with
// hostflag policy) and the chain-validation flag set. Parameter state lives
// inside a verification provider behind opaque handles; Params is the
// owning or borrowing view over one handle.
package x509verify

import (
	"errors"
	"fmt"
	"net"
)

var (
	// ErrClosed is returned by every method of a closed Params.
	ErrClosed = errors.New("params is closed")

	// ErrInvalidIP is returned by SetIP for addresses that are neither
	// 4-byte IPv4 nor 16-byte IPv6 values. Nothing reached the provider.
	ErrInvalidIP = errors.New("invalid IP address")
)

// ParamHandle references a verification parameter set inside a provider.
// 0 is never a valid handle.
type ParamHandle uint64

// Store is the provider-side contract for verification parameter state.
// The localengine package implements it; verification sessions hand out
// handles into their store for borrowing.
type Store interface {
	// NewParam allocates an empty parameter set.
	NewParam() (ParamHandle, error)
	// FreeParam releases a parameter set. Freeing an unknown handle is a
	// no-op.
	FreeParam(h ParamHandle)
	// SetHostflags replaces the host-matching policy. It cannot fail:
	// every bit pattern is a valid policy.
	SetHostflags(h ParamHandle, f CheckFlags)
	// SetFlags ORs f into the verification flag set.
	SetFlags(h ParamHandle, f VerifyFlags) error
	// ClearFlags removes f from the verification flag set.
	ClearFlags(h ParamHandle, f VerifyFlags) error
	// Flags returns the union of all currently set verification flags.
	Flags(h ParamHandle) VerifyFlags
	// SetHost replaces the expected peer identity with a DNS name.
	SetHost(h ParamHandle, host string) error
	// SetIP replaces the expected peer identity with an IP address of 4 or
	// 16 bytes.
	SetIP(h ParamHandle, ip net.IP) error
}

// Params configures one verification parameter set. An owned Params (from
// New) releases the provider handle on Close; a borrowed one (from Borrow)
// never does. Params is not safe for concurrent use without external
// locking.
type Params struct {
	store    Store
	h        ParamHandle
	borrowed bool
	closed   bool
}

// New allocates a fresh parameter set in store and returns the owning view.
func New(store Store) (*Params, error) {
	if store == nil {
		return nil, errors.New("store is required")
	}

	h, err := store.NewParam()
	if err != nil {
		return nil, fmt.Errorf("new param: %w", err)
	}

	return &Params{store: store, h: h}, nil
}

// Borrow wraps a parameter handle owned elsewhere, typically the parameter
// set embedded in a live verification session. The handle stays valid only
// as long as its owner; Close on the borrowed view never releases it.
func Borrow(store Store, h ParamHandle) *Params {
	return &Params{store: store, h: h, borrowed: true}
}

// Handle returns the underlying provider handle, e.g. for lending the
// parameter set out via Borrow.
func (p *Params) Handle() ParamHandle {
	return p.h
}

// Close releases the provider handle of an owned Params. It is idempotent;
// all other methods fail with ErrClosed afterwards.
func (p *Params) Close() error {
	if p.closed {
		return nil
	}

	p.closed = true

	if !p.borrowed {
		p.store.FreeParam(p.h)
	}

	return nil
}

func (p *Params) guard() error {
	if p.closed {
		return ErrClosed
	}

	return nil
}

// SetHostflags replaces the host-matching policy. It fails only on a closed
// Params.
func (p *Params) SetHostflags(f CheckFlags) error {
	if err := p.guard(); err != nil {
		return err
	}

	p.store.SetHostflags(p.h, f)

	return nil
}

// SetFlags ORs f into the verification flag set. Flags accumulate across
// calls in any order; setting a flag twice is a no-op.
func (p *Params) SetFlags(f VerifyFlags) error {
	if err := p.guard(); err != nil {
		return err
	}

	if err := p.store.SetFlags(p.h, f); err != nil {
		return fmt.Errorf("set flags: %w", err)
	}

	return nil
}

// ClearFlags removes f from the verification flag set, restoring the
// provider's default behavior for those bits.
func (p *Params) ClearFlags(f VerifyFlags) error {
	if err := p.guard(); err != nil {
		return err
	}

	if err := p.store.ClearFlags(p.h, f); err != nil {
		return fmt.Errorf("clear flags: %w", err)
	}

	return nil
}

// Flags returns the union of all currently set verification flags.
func (p *Params) Flags() (VerifyFlags, error) {
	if err := p.guard(); err != nil {
		return 0, err
	}

	return p.store.Flags(p.h), nil
}

// SetHost sets the expected peer identity to a DNS name, replacing any
// previously set host or IP expectation. An empty host clears the
// expectation.
func (p *Params) SetHost(host string) error {
	if err := p.guard(); err != nil {
		return err
	}

	if err := p.store.SetHost(p.h, host); err != nil {
		return fmt.Errorf("set host: %w", err)
	}

	return nil
}

// SetIP sets the expected peer identity to an IP address, replacing any
// previously set host or IP expectation. The address is normalized to its
// family's exact width, 4 bytes for IPv4 and 16 for IPv6; malformed
// addresses fail with ErrInvalidIP before reaching the provider.
func (p *Params) SetIP(ip net.IP) error {
	if err := p.guard(); err != nil {
		return err
	}

	norm := ip.To4()
	if norm == nil {
		norm = ip.To16()
	}

	if norm == nil {
		return fmt.Errorf("set ip: %w", ErrInvalidIP)
	}

	if err := p.store.SetIP(p.h, norm); err != nil {
		return fmt.Errorf("set ip: %w", err)
	}

	return nil
}
