package crypto

import (
	"golang.org/x/crypto/argon2"

	"github.com/allisson/keychain/internal/codec"
	apperrors "github.com/allisson/keychain/internal/errors"
	"github.com/allisson/keychain/internal/keychain/domain"
)

// Argon2id parameters this module fixes its key derivation at, matching the
// parameter set the underlying library documentation labels "moderate":
// three passes over 256 MiB of memory, single-threaded. These are fixed
// across versions; rotating them would break every PasswordToken already
// issued.
const (
	argon2Time    = 3
	argon2Memory  = 256 * 1024 // KiB
	argon2Threads = 1
	argon2KeyLen  = domain.GeneralKeySize
)

// Password is the password-based sealing encryptor. It derives a symmetric
// key from a password and a fresh salt via Argon2id, then delegates the
// actual seal to General rather than reimplementing AEAD logic.
type Password struct {
	Base
	general *General
}

// NewPassword wraps an entropy source and a General encryptor for use as a
// Password encryptor.
func NewPassword(base Base, general *General) *Password {
	return &Password{Base: base, general: general}
}

func deriveKey(password string, salt []byte) []byte {
	return argon2.IDKey([]byte(password), salt, argon2Time, argon2Memory, argon2Threads, argon2KeyLen)
}

// Encrypt draws a fresh 16-byte salt, derives a 32-byte key from password
// and the salt via Argon2id, General-encrypts value under the derived key,
// and returns the resulting PasswordToken string.
func (p *Password) Encrypt(value any, password string) (string, error) {
	salt, err := p.bytes(domain.PasswordSaltSize)
	if err != nil {
		return "", err
	}

	key := deriveKey(password, salt)
	defer domain.Zero(key)

	inner, err := p.general.Encrypt(value, key)
	if err != nil {
		return "", err
	}

	return codec.StringifyPayload([][]byte{salt, []byte(inner)}), nil
}

// Decrypt parses token as a two-part PasswordToken, rederives the key from
// password and the embedded salt with the same fixed Argon2id parameters,
// and General-decrypts the inner token into out.
func (p *Password) Decrypt(token string, password string, out any) error {
	parts, err := codec.ParsePayload(token, 2)
	if err != nil {
		return apperrors.Wrap(domain.ErrDecrypt, "malformed password token")
	}
	salt, inner := parts[0], parts[1]
	if len(salt) != domain.PasswordSaltSize {
		return apperrors.Wrap(domain.ErrDecrypt, "malformed password token salt")
	}

	key := deriveKey(password, salt)
	defer domain.Zero(key)

	return p.general.Decrypt(string(inner), key, out)
}
