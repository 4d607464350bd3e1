// Package kmssource resolves a keychain's master key from a KMS-backed
// secrets.Keeper instead of a plain environment variable, for operators who
// don't want to hold the base64 pair secret in cleartext configuration.
package kmssource

import (
	"context"
	"fmt"

	"gocloud.dev/secrets"

	// Register the KMS provider drivers this module supports. hashivault
	// covers self-hosted and cloud Vault deployments; localsecrets covers
	// local development and tests with a static base64 key, never
	// production traffic.
	_ "gocloud.dev/secrets/hashivault"
	_ "gocloud.dev/secrets/localsecrets"

	apperrors "github.com/allisson/keychain/internal/errors"
)

// Source wraps an open secrets.Keeper for a single KMS provider.
type Source struct {
	keeper *secrets.Keeper
}

// Open resolves provider and keyURI into an open secrets.Keeper. provider
// is informational only; the actual driver is selected by keyURI's scheme
// (e.g. "hashivault://", "base64key://").
func Open(ctx context.Context, provider, keyURI string) (*Source, error) {
	if keyURI == "" {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, fmt.Sprintf("kms provider %q has no key uri configured", provider))
	}
	keeper, err := secrets.OpenKeeper(ctx, keyURI)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, fmt.Sprintf("failed to open kms keeper: %v", err))
	}
	return &Source{keeper: keeper}, nil
}

// DecryptMasterKey decrypts ciphertext (as produced by EncryptMasterKey)
// through the KMS keeper and returns the plaintext master key bytes.
func (s *Source) DecryptMasterKey(ctx context.Context, ciphertext []byte) ([]byte, error) {
	plaintext, err := s.keeper.Decrypt(ctx, ciphertext)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, fmt.Sprintf("kms decrypt failed: %v", err))
	}
	return plaintext, nil
}

// EncryptMasterKey encrypts a master key's plaintext bytes through the KMS
// keeper for storage outside the process, for the operator workflow that
// seals a freshly generated master key before writing it down.
func (s *Source) EncryptMasterKey(ctx context.Context, plaintext []byte) ([]byte, error) {
	ciphertext, err := s.keeper.Encrypt(ctx, plaintext)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, fmt.Sprintf("kms encrypt failed: %v", err))
	}
	return ciphertext, nil
}

// Close releases the underlying keeper's resources.
func (s *Source) Close() error {
	return s.keeper.Close()
}
