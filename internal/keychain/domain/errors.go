// Package domain defines the keychain's error taxonomy and the wire-format
// size constants its tokens are built from. It has no behavior of its own;
// internal/keychain and internal/keychain/crypto depend on it, mirroring how
// the teacher's internal/crypto/domain underlies internal/crypto/service.
package domain

import apperrors "github.com/allisson/keychain/internal/errors"

// Error kinds, not types: every cryptographic or structural failure the
// keychain can produce wraps exactly one of these sentinels, so callers can
// branch with errors.Is without depending on message text.
var (
	// ErrEncoding indicates malformed base64, malformed JSON, a wrong
	// payload part count, or a malformed UUID.
	ErrEncoding = apperrors.Wrap(apperrors.ErrInvalidInput, "encoding error")

	// ErrDecrypt indicates an AEAD tag mismatch, wrong key, or wrong shape
	// at the cryptographic layer. It is deliberately never distinguished
	// further — a distinguishable response would leak oracle information.
	ErrDecrypt = apperrors.New("decrypt error")

	// ErrInvalidPassword indicates the unlock case where password
	// decryption specifically failed after the outer general-key layer
	// decrypted successfully. Distinguishable from ErrDecrypt because the
	// token's outer layer already proved itself well-formed.
	ErrInvalidPassword = apperrors.New("invalid password")

	// ErrInvalidCredential indicates a missing or structurally invalid
	// keychain key, or a pair-secret round-trip verification failure.
	ErrInvalidCredential = apperrors.New("invalid credential")

	// ErrKeychainLocked indicates an operation that requires the
	// Unlocked state was attempted on a Locked aggregate.
	ErrKeychainLocked = apperrors.Wrap(apperrors.ErrLocked, "keychain locked")

	// ErrKeyAccessForbidden indicates an operation that requires
	// can_retrieve_keys was attempted on an aggregate adopted without its
	// secret.
	ErrKeyAccessForbidden = apperrors.Wrap(apperrors.ErrForbidden, "key access forbidden")

	// ErrInternal indicates an invariant violation that should never
	// occur if the construction path enforced the fixed 3-entry
	// credential invariant.
	ErrInternal = apperrors.New("internal error")
)
