/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package x509verify

// CheckFlags is the bitset steering how a peer identity is matched against
// certificate subjects. The values mirror the native provider's
// X509_CHECK_FLAG constant table and must not be renumbered.
type CheckFlags uint32

const (
	// CheckFlagAlwaysCheckSubject forces matching against the subject CN
	// even when the certificate carries subject alternative names.
	CheckFlagAlwaysCheckSubject = CheckFlags(0x1)
	// CheckFlagNoWildcards disables wildcard matching entirely.
	CheckFlagNoWildcards = CheckFlags(0x2)
	// CheckFlagNoPartialWildcards disables partial-label wildcards such as
	// "www*.example.com".
	CheckFlagNoPartialWildcards = CheckFlags(0x4)
	// CheckFlagMultiLabelWildcards allows a wildcard to span multiple
	// labels.
	CheckFlagMultiLabelWildcards = CheckFlags(0x8)
	// CheckFlagSingleLabelSubdomains restricts wildcards to direct
	// subdomains.
	CheckFlagSingleLabelSubdomains = CheckFlags(0x10)
	// CheckFlagNeverCheckSubject never matches against the subject CN.
	CheckFlagNeverCheckSubject = CheckFlags(0x20)
)

// VerifyFlags is the bitset steering certificate-chain validation policy.
// The values are the native provider's documented X509_V_FLAG constant
// table and must not be renumbered.
type VerifyFlags uint64

const (
	// VerifyFlagCBIssuerCheck enables debugging callbacks on issuer checks.
	VerifyFlagCBIssuerCheck = VerifyFlags(0x1)
	// VerifyFlagUseCheckTime uses the check time set on the session instead
	// of the current time.
	VerifyFlagUseCheckTime = VerifyFlags(0x2)
	// VerifyFlagCRLCheck checks the leaf certificate against a CRL.
	VerifyFlagCRLCheck = VerifyFlags(0x4)
	// VerifyFlagCRLCheckAll checks the whole chain against CRLs.
	VerifyFlagCRLCheckAll = VerifyFlags(0x8)
	// VerifyFlagIgnoreCritical ignores unhandled critical extensions.
	VerifyFlagIgnoreCritical = VerifyFlags(0x10)
	// VerifyFlagStrict disables workarounds for broken certificates.
	VerifyFlagStrict = VerifyFlags(0x20)
	// VerifyFlagAllowProxyCerts allows proxy certificates in the chain.
	VerifyFlagAllowProxyCerts = VerifyFlags(0x40)
	// VerifyFlagPolicyCheck enables certificate policy processing.
	VerifyFlagPolicyCheck = VerifyFlags(0x80)
	// VerifyFlagExplicitPolicy requires an explicit policy.
	VerifyFlagExplicitPolicy = VerifyFlags(0x100)
	// VerifyFlagInhibitAny inhibits the anyPolicy OID.
	VerifyFlagInhibitAny = VerifyFlags(0x200)
	// VerifyFlagInhibitMap inhibits policy mapping.
	VerifyFlagInhibitMap = VerifyFlags(0x400)
	// VerifyFlagNotifyPolicy notifies the callback about the policy result.
	VerifyFlagNotifyPolicy = VerifyFlags(0x800)
	// VerifyFlagExtendedCRLSupport enables indirect CRL and alternate CRL
	// signing keys.
	VerifyFlagExtendedCRLSupport = VerifyFlags(0x1000)
	// VerifyFlagUseDeltas processes delta CRLs.
	VerifyFlagUseDeltas = VerifyFlags(0x2000)
	// VerifyFlagCheckSsSignature verifies the root CA's self-signature.
	VerifyFlagCheckSsSignature = VerifyFlags(0x4000)
	// VerifyFlagTrustedFirst searches trusted certificates before untrusted
	// ones when building the chain.
	VerifyFlagTrustedFirst = VerifyFlags(0x8000)
	// VerifyFlagSuiteB128LosOnly enforces Suite B at the 128-bit level of
	// security only.
	VerifyFlagSuiteB128LosOnly = VerifyFlags(0x10000)
	// VerifyFlagSuiteB192Los enforces Suite B at the 192-bit level of
	// security.
	VerifyFlagSuiteB192Los = VerifyFlags(0x20000)
	// VerifyFlagSuiteB128Los enforces Suite B at the 128-bit level of
	// security allowing the 192-bit level.
	VerifyFlagSuiteB128Los = VerifyFlags(0x30000)
	// VerifyFlagPartialChain accepts chains anchored at any trusted
	// certificate, not only self-signed roots.
	VerifyFlagPartialChain = VerifyFlags(0x80000)
	// VerifyFlagNoAltChains stops after the first chain found.
	VerifyFlagNoAltChains = VerifyFlags(0x100000)
	// VerifyFlagNoCheckTime disables all validity-period checks.
	VerifyFlagNoCheckTime = VerifyFlags(0x200000)

	// VerifyFlagsMask is the union of all defined verification flags.
	// Providers reject bits outside of it.
	VerifyFlagsMask = VerifyFlagCBIssuerCheck | VerifyFlagUseCheckTime |
		VerifyFlagCRLCheck | VerifyFlagCRLCheckAll | VerifyFlagIgnoreCritical |
		VerifyFlagStrict | VerifyFlagAllowProxyCerts | VerifyFlagPolicyCheck |
		VerifyFlagExplicitPolicy | VerifyFlagInhibitAny | VerifyFlagInhibitMap |
		VerifyFlagNotifyPolicy | VerifyFlagExtendedCRLSupport | VerifyFlagUseDeltas |
		VerifyFlagCheckSsSignature | VerifyFlagTrustedFirst | VerifyFlagSuiteB128Los |
		VerifyFlagPartialChain | VerifyFlagNoAltChains | VerifyFlagNoCheckTime
)

// Has reports whether all bits of mask are set in f.
func (f VerifyFlags) Has(mask VerifyFlags) bool {
	return f&mask == mask
}
