package ratelimit

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileBucketAllowsUpToBurstThenBlocks(t *testing.T) {
	dir := t.TempDir()
	b := NewFileBucket(dir, "keychain-a", 1, 3)

	for i := 0; i < 3; i++ {
		allowed, err := b.Allow()
		require.NoError(t, err)
		assert.True(t, allowed, "attempt %d should be allowed within burst", i)
	}

	allowed, err := b.Allow()
	require.NoError(t, err)
	assert.False(t, allowed, "attempt beyond burst should be blocked")
}

func TestFileBucketRefillsOverTime(t *testing.T) {
	dir := t.TempDir()
	b := NewFileBucket(dir, "keychain-b", 1000, 1)

	allowed, err := b.Allow()
	require.NoError(t, err)
	require.True(t, allowed)

	allowed, err = b.Allow()
	require.NoError(t, err)
	require.False(t, allowed)

	time.Sleep(10 * time.Millisecond)

	allowed, err = b.Allow()
	require.NoError(t, err)
	assert.True(t, allowed, "bucket should have refilled at 1000 tokens/sec after 10ms")
}

func TestFileBucketPersistsAcrossInstances(t *testing.T) {
	dir := t.TempDir()

	first := NewFileBucket(dir, "keychain-c", 0.001, 1)
	allowed, err := first.Allow()
	require.NoError(t, err)
	require.True(t, allowed)

	second := NewFileBucket(dir, "keychain-c", 0.001, 1)
	allowed, err = second.Allow()
	require.NoError(t, err)
	assert.False(t, allowed, "a fresh FileBucket instance over the same state file must see the consumed token")
}

func TestFileBucketKeysAreIndependent(t *testing.T) {
	dir := t.TempDir()
	a := NewFileBucket(dir, "keychain-d", 0.001, 1)
	b := NewFileBucket(dir, "keychain-e", 0.001, 1)

	allowedA, err := a.Allow()
	require.NoError(t, err)
	assert.True(t, allowedA)

	allowedB, err := b.Allow()
	require.NoError(t, err)
	assert.True(t, allowedB, "a different key must have its own independent bucket")
}

func TestNewFileBucketPathIncludesKey(t *testing.T) {
	b := NewFileBucket("/tmp/state", "some-uuid", 1, 1)
	assert.Equal(t, filepath.Join("/tmp/state", "some-uuid.json"), b.path)
}
