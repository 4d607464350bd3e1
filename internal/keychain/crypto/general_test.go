package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allisson/keychain/internal/entropy"
	"github.com/allisson/keychain/internal/keychain/domain"
)

func newGeneral() *General {
	return NewGeneral(NewBase(entropy.New()))
}

func TestGeneralRoundTrip(t *testing.T) {
	g := newGeneral()
	key, err := g.GenerateKey()
	require.NoError(t, err)

	type payload struct {
		User string `json:"user"`
		PW   string `json:"pw"`
	}
	in := payload{User: "a", PW: "b"}

	token, err := g.Encrypt(in, key)
	require.NoError(t, err)

	var out payload
	require.NoError(t, g.Decrypt(token, key, &out))
	assert.Equal(t, in, out)
}

func TestGeneralFreshness(t *testing.T) {
	g := newGeneral()
	key, err := g.GenerateKey()
	require.NoError(t, err)

	a, err := g.Encrypt("same-value", key)
	require.NoError(t, err)
	b, err := g.Encrypt("same-value", key)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestGeneralWrongKeyFails(t *testing.T) {
	g := newGeneral()
	key, err := g.GenerateKey()
	require.NoError(t, err)
	wrongKey, err := g.GenerateKey()
	require.NoError(t, err)

	token, err := g.Encrypt("secret", key)
	require.NoError(t, err)

	var out string
	err = g.Decrypt(token, wrongKey, &out)
	assert.ErrorIs(t, err, domain.ErrDecrypt)
}

func TestGeneralTamperRejection(t *testing.T) {
	g := newGeneral()
	key, err := g.GenerateKey()
	require.NoError(t, err)

	token, err := g.Encrypt("x", key)
	require.NoError(t, err)

	tampered := []byte(token)
	tampered[len(tampered)-1] ^= 0x01

	var out string
	err = g.Decrypt(string(tampered), key, &out)
	assert.Error(t, err)
	assert.NotEqual(t, "x", out)
}

func TestGeneralDecryptRejectsWrongPartCount(t *testing.T) {
	g := newGeneral()
	var out string
	err := g.Decrypt("only.two.parts.here", make([]byte, domain.GeneralKeySize), &out)
	assert.ErrorIs(t, err, domain.ErrDecrypt)
}
