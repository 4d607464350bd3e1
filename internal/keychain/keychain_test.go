package keychain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/allisson/keychain/internal/entropy"
	"github.com/allisson/keychain/internal/keychain/domain"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type credential struct {
	User string `json:"user"`
	PW   string `json:"pw"`
}

// S1 — generate and read back.
func TestScenarioGenerateAndReadBack(t *testing.T) {
	k, err := Generate(entropy.New())
	require.NoError(t, err)

	cipher, err := k.EncryptCredential(credential{User: "a", PW: "b"})
	require.NoError(t, err)

	var out credential
	require.NoError(t, k.DecryptCredential(cipher, &out))
	assert.Equal(t, credential{User: "a", PW: "b"}, out)
}

// S2 — password round-trip for unlock.
func TestScenarioPasswordRoundTripForUnlock(t *testing.T) {
	k, err := Generate(entropy.New())
	require.NoError(t, err)

	password, token, err := k.GenerateKeychainPasswordAndToken()
	require.NoError(t, err)

	keychainKey, err := k.KeychainKey()
	require.NoError(t, err)

	k2, err := AdoptFromKeychainKey(keychainKey, entropy.New())
	require.NoError(t, err)
	assert.False(t, k2.IsUnlocked())

	require.NoError(t, k2.Unlock(password, token))
	assert.True(t, k2.IsUnlocked())

	cipher, err := k.EncryptCredential("secret")
	require.NoError(t, err)

	var out string
	require.NoError(t, k2.DecryptCredential(cipher, &out))
	assert.Equal(t, "secret", out)
}

// S3 — wrong password.
func TestScenarioWrongPassword(t *testing.T) {
	k, err := Generate(entropy.New())
	require.NoError(t, err)

	_, token, err := k.GenerateKeychainPasswordAndToken()
	require.NoError(t, err)

	keychainKey, err := k.KeychainKey()
	require.NoError(t, err)

	k3, err := AdoptFromKeychainKey(keychainKey, entropy.New())
	require.NoError(t, err)

	err = k3.Unlock("not-the-password", token)
	assert.ErrorIs(t, err, domain.ErrInvalidPassword)
	assert.False(t, k3.IsUnlocked())
}

// S4 — master-key unlock.
func TestScenarioMasterKeyUnlock(t *testing.T) {
	k, err := Generate(entropy.New())
	require.NoError(t, err)

	masterKey, err := k.MasterKey()
	require.NoError(t, err)

	keychainKey, err := k.KeychainKey()
	require.NoError(t, err)

	k2, err := AdoptFromKeychainKey(keychainKey, entropy.New())
	require.NoError(t, err)
	require.NoError(t, k2.UnlockUsingMasterKey(masterKey))
	assert.True(t, k2.IsUnlocked())

	k2b, err := AdoptFromKeychainKey(keychainKey, entropy.New())
	require.NoError(t, err)
	err = k2b.UnlockUsingMasterKey("d3JvbmctbGVuZ3RoLW9yLXdyb25nLWtleQ==")
	assert.ErrorIs(t, err, domain.ErrInvalidCredential)
}

// S5 — key-access gating.
func TestScenarioKeyAccessGating(t *testing.T) {
	k, err := Generate(entropy.New())
	require.NoError(t, err)

	masterKey, err := k.MasterKey()
	require.NoError(t, err)

	keychainKey, err := k.KeychainKey()
	require.NoError(t, err)

	k2, err := AdoptFromKeychainKey(keychainKey, entropy.New())
	require.NoError(t, err)
	require.NoError(t, k2.UnlockUsingMasterKey(masterKey))
	assert.True(t, k2.IsUnlocked())

	_, err = k2.KeychainKey()
	assert.ErrorIs(t, err, domain.ErrKeyAccessForbidden)

	_, err = k2.MasterKey()
	assert.ErrorIs(t, err, domain.ErrKeyAccessForbidden)
}

// S6 — tamper.
func TestScenarioTamper(t *testing.T) {
	k, err := Generate(entropy.New())
	require.NoError(t, err)

	cipher, err := k.EncryptCredential("x")
	require.NoError(t, err)

	for i := 0; i < len(cipher); i += 7 {
		tampered := []byte(cipher)
		tampered[i] ^= 0x01

		var out string
		err := k.DecryptCredential(string(tampered), &out)
		if err == nil {
			assert.Equal(t, "x", out)
			continue
		}
		assert.True(t,
			errors.Is(err, domain.ErrDecrypt) || errors.Is(err, domain.ErrEncoding),
			"unexpected error kind: %v", err,
		)
	}
}

func TestLockedAggregateGating(t *testing.T) {
	k, err := Generate(entropy.New())
	require.NoError(t, err)
	keychainKey, err := k.KeychainKey()
	require.NoError(t, err)

	locked, err := AdoptFromKeychainKey(keychainKey, entropy.New())
	require.NoError(t, err)

	cipher, err := k.EncryptCredential("v")
	require.NoError(t, err)

	var out string
	err = locked.DecryptCredential(cipher, &out)
	assert.ErrorIs(t, err, domain.ErrKeychainLocked)

	_, _, err = locked.GenerateKeychainPasswordAndToken()
	assert.ErrorIs(t, err, domain.ErrKeychainLocked)

	_, err = locked.MasterKey()
	assert.ErrorIs(t, err, domain.ErrKeyAccessForbidden)
}

func TestUUIDAlwaysAllowed(t *testing.T) {
	k, err := Generate(entropy.New())
	require.NoError(t, err)
	keychainKey, err := k.KeychainKey()
	require.NoError(t, err)

	locked, err := AdoptFromKeychainKey(keychainKey, entropy.New())
	require.NoError(t, err)

	genUUID, err := k.UUID()
	require.NoError(t, err)
	lockedUUID, err := locked.UUID()
	require.NoError(t, err)
	assert.Equal(t, genUUID, lockedUUID)
}

func TestAdoptFromKeychainKeyRejectsMalformedInput(t *testing.T) {
	_, err := AdoptFromKeychainKey("not-a-valid-keychain-key", entropy.New())
	assert.ErrorIs(t, err, domain.ErrInvalidCredential)
}

func TestSecondUnlockIsNoOp(t *testing.T) {
	k, err := Generate(entropy.New())
	require.NoError(t, err)
	masterKey, err := k.MasterKey()
	require.NoError(t, err)
	keychainKey, err := k.KeychainKey()
	require.NoError(t, err)

	k2, err := AdoptFromKeychainKey(keychainKey, entropy.New())
	require.NoError(t, err)
	require.NoError(t, k2.UnlockUsingMasterKey(masterKey))
	require.NoError(t, k2.UnlockUsingMasterKey("garbage-that-would-fail-if-checked"))
	assert.True(t, k2.IsUnlocked())
}
