package crypto

import (
	"io"

	"golang.org/x/crypto/nacl/box"

	"github.com/allisson/keychain/internal/codec"
	"github.com/allisson/keychain/internal/entropy"
	apperrors "github.com/allisson/keychain/internal/errors"
	"github.com/allisson/keychain/internal/keychain/domain"
)

// Pair is the asymmetric authenticated encryptor: X25519 key agreement with
// XSalsa20-Poly1305 sealing, the primitive pair nacl/box calls crypto_box. A
// fresh ephemeral sender keypair is generated per Encrypt call so the sender
// need not retain any long-term secret.
type Pair struct {
	Base
}

// NewPair wraps an entropy source for use as a Pair encryptor.
func NewPair(base Base) *Pair {
	return &Pair{Base: base}
}

// KeyPair is a freshly generated X25519 keypair.
type KeyPair struct {
	Public []byte
	Secret []byte
}

// GenerateKeys draws a fresh X25519 keypair using the encryptor's entropy
// source as the randomness reader for box.GenerateKey.
func (p *Pair) GenerateKeys() (KeyPair, error) {
	public, secret, err := box.GenerateKey(&entropyReader{source: p.entropySource()})
	if err != nil {
		return KeyPair{}, apperrors.Wrap(domain.ErrInternal, err.Error())
	}
	return KeyPair{Public: public[:], Secret: secret[:]}, nil
}

// Encrypt JSON-encodes value, draws a 24-byte nonce, generates an ephemeral
// sender keypair, seals value under crypto_box with the shared key formed
// from the ephemeral secret and recipientPublic, and returns the resulting
// PairToken string. The ephemeral secret never leaves this call.
func (p *Pair) Encrypt(value any, recipientPublic []byte) (string, error) {
	if len(recipientPublic) != domain.PairKeySize {
		return "", apperrors.Wrap(domain.ErrDecrypt, "invalid pair public key size")
	}

	plaintext, err := codec.EncodeJSON(value)
	if err != nil {
		return "", apperrors.Wrap(domain.ErrEncoding, err.Error())
	}

	nonce, err := p.bytes(domain.PairNonceSize)
	if err != nil {
		return "", err
	}

	keys, err := p.GenerateKeys()
	if err != nil {
		return "", err
	}

	var recipientArr [32]byte
	copy(recipientArr[:], recipientPublic)
	var n24 [24]byte
	copy(n24[:], nonce)

	var ephemeralSecret [32]byte
	copy(ephemeralSecret[:], keys.Secret)
	domain.Zero(keys.Secret)

	ciphertext := box.Seal(nil, plaintext, &n24, &recipientArr, &ephemeralSecret)
	zero32(&ephemeralSecret)

	return codec.StringifyPayload([][]byte{nonce, keys.Public, ciphertext}), nil
}

// Decrypt parses token as a three-part PairToken, reconstructs the shared
// key from secret and the token's ephemeral public key, opens it under
// crypto_box, and JSON-decodes the result into out. Any structural or
// cryptographic failure surfaces as domain.ErrDecrypt.
func (p *Pair) Decrypt(token string, secret []byte, out any) error {
	parts, err := codec.ParsePayload(token, 3)
	if err != nil {
		return apperrors.Wrap(domain.ErrDecrypt, "malformed pair token")
	}
	nonce, ephemeralPublic, ciphertext := parts[0], parts[1], parts[2]
	if len(nonce) != domain.PairNonceSize || len(ephemeralPublic) != domain.PairKeySize {
		return apperrors.Wrap(domain.ErrDecrypt, "malformed pair token shape")
	}
	if len(secret) != domain.PairKeySize {
		return apperrors.Wrap(domain.ErrDecrypt, "invalid pair secret size")
	}

	var n24 [24]byte
	copy(n24[:], nonce)
	var ephemeralArr, secretArr [32]byte
	copy(ephemeralArr[:], ephemeralPublic)
	copy(secretArr[:], secret)

	plaintext, ok := box.Open(nil, ciphertext, &n24, &ephemeralArr, &secretArr)
	if !ok {
		return apperrors.Wrap(domain.ErrDecrypt, "box open failed")
	}

	if err := codec.DecodeJSON(plaintext, out); err != nil {
		return apperrors.Wrap(domain.ErrDecrypt, "json decode failed")
	}
	return nil
}

func zero32(b *[32]byte) {
	for i := range b {
		b[i] = 0
	}
}

// entropyReader adapts the keychain's injected entropy.Source to the
// io.Reader box.GenerateKey expects.
type entropyReader struct {
	source entropy.Source
}

func (r *entropyReader) Read(p []byte) (int, error) {
	b, err := r.source.Bytes(len(p))
	if err != nil {
		return 0, err
	}
	copy(p, b)
	return len(p), nil
}

var _ io.Reader = (*entropyReader)(nil)
