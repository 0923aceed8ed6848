/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package x509verify_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hyperledger/aries-framework-go/component/engine/x509verify"
)

func TestVerifyFlagValues(t *testing.T) {
	t.Run("test values match the provider constant table", func(t *testing.T) {
		require.Equal(t, uint64(0x1), uint64(x509verify.VerifyFlagCBIssuerCheck))
		require.Equal(t, uint64(0x2), uint64(x509verify.VerifyFlagUseCheckTime))
		require.Equal(t, uint64(0x4), uint64(x509verify.VerifyFlagCRLCheck))
		require.Equal(t, uint64(0x8), uint64(x509verify.VerifyFlagCRLCheckAll))
		require.Equal(t, uint64(0x10), uint64(x509verify.VerifyFlagIgnoreCritical))
		require.Equal(t, uint64(0x20), uint64(x509verify.VerifyFlagStrict))
		require.Equal(t, uint64(0x40), uint64(x509verify.VerifyFlagAllowProxyCerts))
		require.Equal(t, uint64(0x80), uint64(x509verify.VerifyFlagPolicyCheck))
		require.Equal(t, uint64(0x100), uint64(x509verify.VerifyFlagExplicitPolicy))
		require.Equal(t, uint64(0x200), uint64(x509verify.VerifyFlagInhibitAny))
		require.Equal(t, uint64(0x400), uint64(x509verify.VerifyFlagInhibitMap))
		require.Equal(t, uint64(0x800), uint64(x509verify.VerifyFlagNotifyPolicy))
		require.Equal(t, uint64(0x1000), uint64(x509verify.VerifyFlagExtendedCRLSupport))
		require.Equal(t, uint64(0x2000), uint64(x509verify.VerifyFlagUseDeltas))
		require.Equal(t, uint64(0x4000), uint64(x509verify.VerifyFlagCheckSsSignature))
		require.Equal(t, uint64(0x8000), uint64(x509verify.VerifyFlagTrustedFirst))
		require.Equal(t, uint64(0x10000), uint64(x509verify.VerifyFlagSuiteB128LosOnly))
		require.Equal(t, uint64(0x20000), uint64(x509verify.VerifyFlagSuiteB192Los))
		require.Equal(t, uint64(0x30000), uint64(x509verify.VerifyFlagSuiteB128Los))
		require.Equal(t, uint64(0x80000), uint64(x509verify.VerifyFlagPartialChain))
		require.Equal(t, uint64(0x100000), uint64(x509verify.VerifyFlagNoAltChains))
		require.Equal(t, uint64(0x200000), uint64(x509verify.VerifyFlagNoCheckTime))
	})

	t.Run("test Suite B combined level", func(t *testing.T) {
		require.Equal(t, x509verify.VerifyFlagSuiteB128LosOnly|x509verify.VerifyFlagSuiteB192Los,
			x509verify.VerifyFlagSuiteB128Los)
	})

	t.Run("test mask unions the whole table", func(t *testing.T) {
		require.Equal(t, uint64(0x3bffff), uint64(x509verify.VerifyFlagsMask))
		require.True(t, x509verify.VerifyFlagsMask.Has(x509verify.VerifyFlagNoCheckTime))
		require.False(t, x509verify.VerifyFlagsMask.Has(x509verify.VerifyFlags(0x40000)))
	})

	t.Run("test Has needs every bit of the mask", func(t *testing.T) {
		f := x509verify.VerifyFlagCRLCheck | x509verify.VerifyFlagCRLCheckAll

		require.True(t, f.Has(x509verify.VerifyFlagCRLCheck))
		require.True(t, f.Has(x509verify.VerifyFlagCRLCheck|x509verify.VerifyFlagCRLCheckAll))
		require.False(t, f.Has(x509verify.VerifyFlagCRLCheck|x509verify.VerifyFlagStrict))
	})
}

func TestCheckFlagValues(t *testing.T) {
	require.Equal(t, uint32(0x1), uint32(x509verify.CheckFlagAlwaysCheckSubject))
	require.Equal(t, uint32(0x2), uint32(x509verify.CheckFlagNoWildcards))
	require.Equal(t, uint32(0x4), uint32(x509verify.CheckFlagNoPartialWildcards))
	require.Equal(t, uint32(0x8), uint32(x509verify.CheckFlagMultiLabelWildcards))
	require.Equal(t, uint32(0x10), uint32(x509verify.CheckFlagSingleLabelSubdomains))
	require.Equal(t, uint32(0x20), uint32(x509verify.CheckFlagNeverCheckSubject))
}
