package commands

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/allisson/keychain/internal/entropy"
	"github.com/allisson/keychain/internal/keychain"
)

// setupRateLimitedKeychainEnv is like setupKeychainEnv but leaves unlock rate
// limiting enabled (the configuration default), pointed at a scratch state
// directory and tuned to a burst of one with a refill slow enough that a
// second attempt inside the same test cannot succeed.
func setupRateLimitedKeychainEnv(t *testing.T) (masterKey string) {
	t.Helper()
	t.Setenv("METRICS_ENABLED", "false")
	t.Setenv("RATE_LIMIT_STATE_DIR", t.TempDir())
	t.Setenv("RATE_LIMIT_BURST", "1")
	t.Setenv("RATE_LIMIT_REQUESTS_PER_SEC", "0.001")

	kc, err := keychain.Generate(entropy.New())
	require.NoError(t, err)

	keychainKey, err := kc.KeychainKey()
	require.NoError(t, err)
	masterKey, err = kc.MasterKey()
	require.NoError(t, err)

	t.Setenv("KEYCHAIN_KEY", keychainKey)
	return masterKey
}

func TestUnlockMasterKeyRateLimitedAcrossInvocations(t *testing.T) {
	masterKey := setupRateLimitedKeychainEnv(t)

	err := RunUnlockMasterKey(context.Background(), masterKey, IOTuple{Writer: new(discardWriter)})
	require.NoError(t, err)

	// A second, independent invocation reuses the same KEYCHAIN_KEY and
	// therefore the same persisted bucket. With burst 1 and a refill rate of
	// 0.001 tokens/sec it must be rejected before the master key comparison
	// ever runs.
	err = RunUnlockMasterKey(context.Background(), masterKey, IOTuple{Writer: new(discardWriter)})
	require.Error(t, err)
	require.True(t, errors.Is(err, errRateLimited))
}

func TestUnlockPasswordRateLimitedAcrossInvocations(t *testing.T) {
	masterKey := setupRateLimitedKeychainEnv(t)

	err := RunUnlockMasterKey(context.Background(), masterKey, IOTuple{Writer: new(discardWriter)})
	require.NoError(t, err)

	// unlock and unlock-master-key throttle the same keychain UUID, so a
	// prior invocation of one command exhausts the budget for the other.
	err = RunUnlock(context.Background(), "wrong-password", "wrong-token", IOTuple{Writer: new(discardWriter)})
	require.Error(t, err)
	require.True(t, errors.Is(err, errRateLimited))
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }
