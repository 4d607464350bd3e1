// Package entropy supplies the random-bytes and password-generation
// capability the keychain's encryptors draw on for nonces, salts, and
// keypair seeds. It is the injected collaborator spec.md names as external
// to the cryptographic core; callers outside the core own exactly one
// instance and pass it in.
package entropy

import (
	"crypto/rand"
	"io"

	apperrors "github.com/allisson/keychain/internal/errors"
)

// passwordAlphabet is a printable, unambiguous character set used by
// GeneratePassword. It excludes characters easily confused with each other
// (0/O, 1/l/I) to keep generated passwords legible when read off a terminal.
const passwordAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz23456789!@#$%^&*-_=+"

// Source is the capability the keychain's encryptors and the Keychain
// aggregate depend on for randomness. Implementations must be safe for
// concurrent use.
type Source interface {
	// Bytes returns n uniformly random bytes.
	Bytes(n int) ([]byte, error)
	// Password returns a fresh, high-entropy printable password of the
	// given length.
	Password(length int) (string, error)
}

// Default is a Source backed by crypto/rand. It holds no state and is safe
// for concurrent use.
type Default struct{}

// New returns the default crypto/rand-backed Source.
func New() Default {
	return Default{}
}

// Bytes returns n uniformly random bytes read from crypto/rand.Reader.
func (Default) Bytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		return nil, apperrors.Wrap(ErrSource, err.Error())
	}
	return b, nil
}

// Password returns a fresh password of the given length drawn uniformly
// from passwordAlphabet via rejection sampling against crypto/rand, so the
// distribution over characters is unbiased.
func (d Default) Password(length int) (string, error) {
	if length <= 0 {
		return "", apperrors.Wrap(ErrSource, "password length must be positive")
	}
	alphabetLen := byte(len(passwordAlphabet))
	maxMultiple := byte(256 - (256 % int(alphabetLen)))

	out := make([]byte, 0, length)
	buf := make([]byte, length)
	for len(out) < length {
		if _, err := io.ReadFull(rand.Reader, buf); err != nil {
			return "", apperrors.Wrap(ErrSource, err.Error())
		}
		for _, b := range buf {
			if b >= maxMultiple {
				continue
			}
			out = append(out, passwordAlphabet[b%alphabetLen])
			if len(out) == length {
				break
			}
		}
	}
	return string(out), nil
}

// ErrSource indicates the underlying randomness source failed to produce
// the requested bytes.
var ErrSource = apperrors.New("entropy source error")
