/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package engine

// Key represents key material held by an engine. Implementations are
// engine-specific; passing a key to an engine that did not create it fails
// with a key-mismatch fault.
type Key interface {
	// KID returns the key's identifier within its engine.
	KID() string
	// Algorithm returns the key's algorithm family.
	Algorithm() AlgorithmID
	// Private reports whether the key carries private material. Symmetric
	// secrets count as private.
	Private() bool
	// Symmetric reports whether the key is a symmetric secret.
	Symmetric() bool
	// Public returns a public-only view of this key, or an error for
	// symmetric keys, which have no public part.
	Public() (Key, error)
}
