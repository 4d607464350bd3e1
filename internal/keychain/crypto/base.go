// Package crypto implements the keychain's three encryptors: General (AES-256-GCM),
// Pair (X25519 + XSalsa20-Poly1305 crypto_box), and Password (Argon2id-derived
// key delegating to General). Each is a single-method capability the Keychain
// aggregate in internal/keychain composes rather than inherits from.
package crypto

import (
	"github.com/allisson/keychain/internal/entropy"
	apperrors "github.com/allisson/keychain/internal/errors"
	"github.com/allisson/keychain/internal/keychain/domain"
)

// Base holds the entropy source every encryptor draws nonces, salts, and
// keypair seeds from. It defines no encrypt/decrypt behavior itself; General,
// Pair, and Password each embed it and add their own sealing logic.
type Base struct {
	source entropy.Source
}

// NewBase wraps an entropy.Source for use by an encryptor.
func NewBase(source entropy.Source) Base {
	return Base{source: source}
}

// bytes draws n random bytes from the underlying entropy source, wrapping
// any failure as domain.ErrInternal: entropy exhaustion is an operational
// fault, not a caller mistake.
func (b Base) bytes(n int) ([]byte, error) {
	out, err := b.source.Bytes(n)
	if err != nil {
		return nil, apperrors.Wrap(domain.ErrInternal, err.Error())
	}
	return out, nil
}

// source returns the underlying entropy.Source, for callers that need to
// hand it to a third-party API expecting an io.Reader (see entropyReader in
// pair.go).
func (b Base) entropySource() entropy.Source {
	return b.source
}
