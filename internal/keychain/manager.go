package keychain

import (
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/allisson/keychain/internal/entropy"
	apperrors "github.com/allisson/keychain/internal/errors"
	"github.com/allisson/keychain/internal/keychain/domain"
)

// KeyProvider returns the serialized KeychainKey configuration should
// supply. It is the external collaborator spec.md's current() reads its
// keychain_key from; Manager never parses environment variables or flags
// directly.
type KeyProvider func() (string, error)

// Manager holds the process-wide current() singleton: a lazily initialized
// Keychain built from a KeyProvider and reused across subsequent calls.
// Initialization is guarded by a singleflight.Group so concurrent first
// callers share one underlying build instead of racing, matching the
// single-flight guard spec.md's design notes ask for when porting this
// lazy-init pattern to an environment with true parallelism.
type Manager struct {
	provider KeyProvider
	source   entropy.Source

	group singleflight.Group

	mu      sync.RWMutex
	current *Keychain
}

// NewManager constructs a Manager bound to provider and source. Nothing is
// built yet; the first call to Current performs the lazy initialization.
func NewManager(provider KeyProvider, source entropy.Source) *Manager {
	return &Manager{provider: provider, source: source}
}

// Current returns the process-wide Keychain, building it from the
// Manager's KeyProvider on the first call and returning the cached
// instance on every subsequent call. A KeyProvider failure or a
// malformed keychain_key surfaces as domain.ErrInvalidCredential.
func (m *Manager) Current() (*Keychain, error) {
	if k := m.get(); k != nil {
		return k, nil
	}

	result, err, _ := m.group.Do("current", func() (any, error) {
		if k := m.get(); k != nil {
			return k, nil
		}

		keychainKey, err := m.provider()
		if err != nil {
			return nil, apperrors.Wrap(domain.ErrInvalidCredential, err.Error())
		}

		k, err := AdoptFromKeychainKey(keychainKey, m.source)
		if err != nil {
			return nil, err
		}

		m.set(k)
		return k, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*Keychain), nil
}

// Reset clears the cached instance so the next call to Current rebuilds it
// from the KeyProvider. Intended for tests; production callers have no
// reason to call it since current() has no teardown in the source design.
func (m *Manager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = nil
}

func (m *Manager) get() *Keychain {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

func (m *Manager) set(k *Keychain) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = k
}
