/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package engine

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestError_Error(t *testing.T) {
	t.Run("test empty fault queue", func(t *testing.T) {
		require.EqualError(t, &Error{}, "engine: unspecified failure")
	})

	t.Run("test fault without reason", func(t *testing.T) {
		err := NewError(Fault{Code: FaultBadHandle, Op: "encrypt"})
		require.EqualError(t, err, "engine: encrypt: bad_handle")
	})

	t.Run("test queue order is preserved", func(t *testing.T) {
		err := NewError(
			Fault{Code: FaultBadParameter, Op: "set rsa padding", Reason: "unknown padding scheme 42"},
			Fault{Code: FaultInternal, Op: "encrypt"},
		)

		require.EqualError(t, err,
			"engine: set rsa padding: bad_parameter: unknown padding scheme 42; encrypt: internal_error")
	})

	t.Run("test errorf formats the reason", func(t *testing.T) {
		err := Errorf(FaultBufferTooSmall, "derive", "output buffer holds %d bytes, need %d", 16, 32)
		require.EqualError(t, err, "engine: derive: buffer_too_small: output buffer holds 16 bytes, need 32")
	})
}

func TestError_HasCode(t *testing.T) {
	err := NewError(
		Fault{Code: FaultNotInitialized, Op: "encrypt"},
		Fault{Code: FaultCryptoFailure, Op: "encrypt"},
	)

	require.True(t, err.HasCode(FaultNotInitialized))
	require.True(t, err.HasCode(FaultCryptoFailure))
	require.False(t, err.HasCode(FaultBufferTooSmall))
}

func TestIsInsufficientBuffer(t *testing.T) {
	t.Run("test short-buffer fault", func(t *testing.T) {
		err := Errorf(FaultBufferTooSmall, "encrypt", "output buffer holds 0 bytes, need 256")
		require.True(t, IsInsufficientBuffer(err))
	})

	t.Run("test wrapped short-buffer fault", func(t *testing.T) {
		err := fmt.Errorf("encrypt: %w", Errorf(FaultBufferTooSmall, "encrypt", ""))
		require.True(t, IsInsufficientBuffer(err))
	})

	t.Run("test other faults do not match", func(t *testing.T) {
		require.False(t, IsInsufficientBuffer(Errorf(FaultDataTooLarge, "encrypt", "")))
		require.False(t, IsInsufficientBuffer(errors.New("plain failure")))
		require.False(t, IsInsufficientBuffer(nil))
	})
}

func TestFaultCode_String(t *testing.T) {
	require.Equal(t, "internal_error", FaultInternal.String())
	require.Equal(t, "bad_handle", FaultBadHandle.String())
	require.Equal(t, "operation_not_initialized", FaultNotInitialized.String())
	require.Equal(t, "buffer_too_small", FaultBufferTooSmall.String())
	require.Equal(t, "crypto_failure", FaultCryptoFailure.String())
	require.Equal(t, "internal_error", FaultCode(999).String())
}
