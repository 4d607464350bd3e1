package crypto

import (
	"crypto/aes"
	"crypto/cipher"

	"github.com/allisson/keychain/internal/codec"
	apperrors "github.com/allisson/keychain/internal/errors"
	"github.com/allisson/keychain/internal/keychain/domain"
)

// General is the symmetric AEAD encryptor: AES-256-GCM with a 12-byte nonce
// and associated data derived deterministically from the nonce itself. It
// forms the outer layer of every credential and token the keychain issues.
type General struct {
	Base
}

// NewGeneral wraps an entropy source for use as a General encryptor.
func NewGeneral(base Base) *General {
	return &General{Base: base}
}

// GenerateKey returns a fresh 32-byte uniform random AES-256 key.
func (g *General) GenerateKey() ([]byte, error) {
	return g.bytes(domain.GeneralKeySize)
}

// Encrypt JSON-encodes value, draws a fresh 12-byte nonce, seals it under
// AES-256-GCM with key and the nonce-derived associated data, and returns
// the resulting GeneralToken string.
func (g *General) Encrypt(value any, key []byte) (string, error) {
	gcm, err := g.aead(key)
	if err != nil {
		return "", err
	}

	plaintext, err := codec.EncodeJSON(value)
	if err != nil {
		return "", apperrors.Wrap(domain.ErrEncoding, err.Error())
	}

	nonce, err := g.bytes(domain.GeneralNonceSize)
	if err != nil {
		return "", err
	}

	ciphertext := gcm.Seal(nil, nonce, plaintext, aad(nonce))
	return codec.StringifyPayload([][]byte{nonce, ciphertext}), nil
}

// Decrypt parses token as a two-part GeneralToken, recomputes the
// associated data from its nonce, opens it under AES-256-GCM with key, and
// JSON-decodes the result into out. Any structural, cryptographic, or
// decode failure surfaces as domain.ErrDecrypt; the underlying cause is
// never attached to the returned message.
func (g *General) Decrypt(token string, key []byte, out any) error {
	parts, err := codec.ParsePayload(token, 2)
	if err != nil {
		return apperrors.Wrap(domain.ErrDecrypt, "malformed general token")
	}
	nonce, ciphertext := parts[0], parts[1]
	if len(nonce) != domain.GeneralNonceSize {
		return apperrors.Wrap(domain.ErrDecrypt, "malformed general token nonce")
	}

	gcm, err := g.aead(key)
	if err != nil {
		return err
	}

	plaintext, err := gcm.Open(nil, nonce, ciphertext, aad(nonce))
	if err != nil {
		return apperrors.Wrap(domain.ErrDecrypt, "aead open failed")
	}

	if err := codec.DecodeJSON(plaintext, out); err != nil {
		return apperrors.Wrap(domain.ErrDecrypt, "json decode failed")
	}
	return nil
}

// aad derives the associated data bound into every General seal/open from
// bytes 4 through 7 of the nonce. This is a public function of public
// input — not a secret — but conforming implementations MUST compute it
// identically so tokens interoperate.
func aad(nonce []byte) []byte {
	return nonce[4:8]
}

func (g *General) aead(key []byte) (cipher.AEAD, error) {
	if len(key) != domain.GeneralKeySize {
		return nil, apperrors.Wrap(domain.ErrDecrypt, "invalid general key size")
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, apperrors.Wrap(domain.ErrDecrypt, "invalid general key")
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, apperrors.Wrap(domain.ErrInternal, err.Error())
	}
	return gcm, nil
}
