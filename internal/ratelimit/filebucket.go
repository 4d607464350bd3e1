// Package ratelimit implements a token bucket whose state is persisted to
// disk, so a rate limit survives across separate process invocations. This
// module's CLI commands are one-shot processes: an in-memory
// golang.org/x/time/rate.Limiter (as the teacher's HTTP middleware in
// internal/auth/http uses) is built fresh and discarded on every
// invocation and can never actually throttle anything. Its Limiter also
// has no exported way to serialize and restore its bucket state, so it
// cannot be adapted directly; FileBucket implements the identical
// token-bucket refill algorithm against a small JSON file instead.
package ratelimit

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	apperrors "github.com/allisson/keychain/internal/errors"
)

// lockRetryInterval and lockTimeout bound how long Allow waits to acquire
// the advisory lock file before giving up.
const (
	lockRetryInterval = 10 * time.Millisecond
	lockTimeout       = 2 * time.Second
)

// FileBucket is a token bucket keyed by a single identifier (this module
// keys it by keychain UUID) and persisted under stateDir. It is safe for
// use by multiple processes on the same host, serialized through an
// exclusive-create lock file; it is not safe for distributed use across
// hosts.
type FileBucket struct {
	path  string
	rate  float64
	burst float64
}

// NewFileBucket returns a FileBucket for key, refilling at ratePerSec
// tokens per second up to burst tokens, with state stored under stateDir.
func NewFileBucket(stateDir, key string, ratePerSec float64, burst int) *FileBucket {
	return &FileBucket{
		path:  filepath.Join(stateDir, key+".json"),
		rate:  ratePerSec,
		burst: float64(burst),
	}
}

// bucketState is the on-disk representation of a FileBucket's token count.
type bucketState struct {
	Tokens          float64 `json:"tokens"`
	UpdatedAtUnixNs int64   `json:"updated_at_unix_ns"`
}

// Allow reports whether a token is available and, if so, consumes it. The
// read-refill-consume-write cycle is guarded by an exclusive lock file so
// concurrent callers on the same host serialize rather than race.
func (b *FileBucket) Allow() (bool, error) {
	var allowed bool
	err := b.withLock(func() error {
		state, err := b.load()
		if err != nil {
			return err
		}

		now := time.Now()
		elapsed := now.Sub(time.Unix(0, state.UpdatedAtUnixNs)).Seconds()
		state.Tokens = math.Min(b.burst, state.Tokens+elapsed*b.rate)
		state.UpdatedAtUnixNs = now.UnixNano()

		if state.Tokens >= 1 {
			state.Tokens--
			allowed = true
		}

		return b.save(state)
	})
	if err != nil {
		return false, apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
	}
	return allowed, nil
}

// load reads the persisted bucket state, or returns a full bucket if no
// state file exists yet.
func (b *FileBucket) load() (bucketState, error) {
	data, err := os.ReadFile(b.path)
	if err != nil {
		if os.IsNotExist(err) {
			return bucketState{Tokens: b.burst, UpdatedAtUnixNs: time.Now().UnixNano()}, nil
		}
		return bucketState{}, fmt.Errorf("failed to read rate limit state: %w", err)
	}

	var state bucketState
	if err := json.Unmarshal(data, &state); err != nil {
		return bucketState{Tokens: b.burst, UpdatedAtUnixNs: time.Now().UnixNano()}, nil
	}
	return state, nil
}

// save writes the bucket state to disk, creating its parent directory if
// necessary.
func (b *FileBucket) save(state bucketState) error {
	if err := os.MkdirAll(filepath.Dir(b.path), 0o700); err != nil {
		return fmt.Errorf("failed to create rate limit state directory: %w", err)
	}
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal rate limit state: %w", err)
	}
	if err := os.WriteFile(b.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write rate limit state: %w", err)
	}
	return nil
}

// withLock runs fn while holding an exclusive-create lock file next to
// path, retrying until lockTimeout elapses.
func (b *FileBucket) withLock(fn func() error) error {
	if err := os.MkdirAll(filepath.Dir(b.path), 0o700); err != nil {
		return fmt.Errorf("failed to create rate limit state directory: %w", err)
	}

	lockPath := b.path + ".lock"
	deadline := time.Now().Add(lockTimeout)
	for {
		lockFile, err := os.OpenFile(lockPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
		if err == nil {
			lockFile.Close()
			defer os.Remove(lockPath)
			return fn()
		}
		if !os.IsExist(err) {
			return fmt.Errorf("failed to acquire rate limit lock: %w", err)
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("timed out acquiring rate limit lock")
		}
		time.Sleep(lockRetryInterval)
	}
}
