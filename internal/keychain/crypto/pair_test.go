package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allisson/keychain/internal/entropy"
	"github.com/allisson/keychain/internal/keychain/domain"
)

func newPair() *Pair {
	return NewPair(NewBase(entropy.New()))
}

func TestPairRoundTrip(t *testing.T) {
	p := newPair()
	keys, err := p.GenerateKeys()
	require.NoError(t, err)

	token, err := p.Encrypt("hello pair", keys.Public)
	require.NoError(t, err)

	var out string
	require.NoError(t, p.Decrypt(token, keys.Secret, &out))
	assert.Equal(t, "hello pair", out)
}

func TestPairFreshness(t *testing.T) {
	p := newPair()
	keys, err := p.GenerateKeys()
	require.NoError(t, err)

	a, err := p.Encrypt("same-value", keys.Public)
	require.NoError(t, err)
	b, err := p.Encrypt("same-value", keys.Public)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestPairWrongSecretFails(t *testing.T) {
	p := newPair()
	keys, err := p.GenerateKeys()
	require.NoError(t, err)
	otherKeys, err := p.GenerateKeys()
	require.NoError(t, err)

	token, err := p.Encrypt("secret", keys.Public)
	require.NoError(t, err)

	var out string
	err = p.Decrypt(token, otherKeys.Secret, &out)
	assert.ErrorIs(t, err, domain.ErrDecrypt)
}

func TestPairTamperRejection(t *testing.T) {
	p := newPair()
	keys, err := p.GenerateKeys()
	require.NoError(t, err)

	token, err := p.Encrypt("x", keys.Public)
	require.NoError(t, err)

	tampered := []byte(token)
	tampered[len(tampered)-1] ^= 0x01

	var out string
	err = p.Decrypt(string(tampered), keys.Secret, &out)
	assert.Error(t, err)
	assert.NotEqual(t, "x", out)
}

func TestPairGeneratedKeysAreDistinct(t *testing.T) {
	p := newPair()
	a, err := p.GenerateKeys()
	require.NoError(t, err)
	b, err := p.GenerateKeys()
	require.NoError(t, err)
	assert.NotEqual(t, a.Public, b.Public)
	assert.NotEqual(t, a.Secret, b.Secret)
}
