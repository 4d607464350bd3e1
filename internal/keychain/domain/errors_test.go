package domain

import (
	"testing"

	apperrors "github.com/allisson/keychain/internal/errors"
	"github.com/stretchr/testify/assert"
)

func TestErrorsWrapExpectedSentinels(t *testing.T) {
	tests := []struct {
		err    error
		target error
	}{
		{ErrKeychainLocked, apperrors.ErrLocked},
		{ErrKeyAccessForbidden, apperrors.ErrForbidden},
	}
	for _, tt := range tests {
		assert.ErrorIs(t, tt.err, tt.target)
	}
}

func TestErrorsAreDistinct(t *testing.T) {
	all := []error{
		ErrEncoding,
		ErrDecrypt,
		ErrInvalidPassword,
		ErrInvalidCredential,
		ErrKeychainLocked,
		ErrKeyAccessForbidden,
		ErrInternal,
	}
	for i, a := range all {
		for j, b := range all {
			if i == j {
				continue
			}
			assert.NotErrorIs(t, a, b)
		}
	}
}
