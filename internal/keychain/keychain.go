// Package keychain implements the vault aggregate: an identity plus three
// public credential parts, an optional pair secret, and a one-way
// locked-to-unlocked state machine orchestrating the three encryptors in
// internal/keychain/crypto.
package keychain

import (
	"encoding/base64"
	"sync"

	"github.com/allisson/keychain/internal/codec"
	"github.com/allisson/keychain/internal/entropy"
	apperrors "github.com/allisson/keychain/internal/errors"
	"github.com/allisson/keychain/internal/keychain/crypto"
	"github.com/allisson/keychain/internal/keychain/domain"
	"github.com/allisson/keychain/internal/secretbytes"
)

// Keychain is the aggregate spec.md calls the vault: an immutable identity
// and three immutable credential parts, plus an optional pair secret that,
// when present, unlocks reads. A Keychain is not safe for concurrent
// mutation from multiple goroutines beyond the guarantees documented on
// Unlock and UnlockUsingMasterKey; callers that need to share one across
// goroutines should treat it as read-mostly after unlock settles.
type Keychain struct {
	mu sync.Mutex

	uuid            []byte
	credentials     [domain.CredentialCount][]byte
	canRetrieveKeys bool

	pairSecret secretbytes.Bytes
	unlocked   bool

	source  entropy.Source
	general *crypto.General
	pair    *crypto.Pair
	pwd     *crypto.Password
}

func newEncryptors(source entropy.Source) (*crypto.General, *crypto.Pair, *crypto.Password) {
	base := crypto.NewBase(source)
	general := crypto.NewGeneral(base)
	pair := crypto.NewPair(base)
	pwd := crypto.NewPassword(base, general)
	return general, pair, pwd
}

// Generate draws a fresh UUID, general key, and pair keypair, and returns a
// Keychain constructed with the pair secret already in hand: unlocked, and
// with can_retrieve_keys true.
func Generate(source entropy.Source) (*Keychain, error) {
	general, pair, pwd := newEncryptors(source)

	uuidBytes, err := source.Bytes(domain.UUIDSize)
	if err != nil {
		return nil, apperrors.Wrap(domain.ErrInternal, err.Error())
	}
	setUUIDVersion4Variant(uuidBytes)

	generalKey, err := general.GenerateKey()
	if err != nil {
		return nil, err
	}

	keys, err := pair.GenerateKeys()
	if err != nil {
		return nil, err
	}

	credentials := [domain.CredentialCount][]byte{uuidBytes, generalKey, keys.Public}
	return build(credentials, keys.Secret, true, source, general, pair, pwd)
}

// setUUIDVersion4Variant stamps random bytes with the version-4, variant-1
// bits so a freshly generated identity round-trips through
// codec.CompressUUID/DecompressUUID as a canonical UUID string.
func setUUIDVersion4Variant(b []byte) {
	b[6] = (b[6] & 0x0f) | 0x40
	b[8] = (b[8] & 0x3f) | 0x80
}

// AdoptFromKeychainKey parses a serialized KeychainKey (the three-part
// public identity) and returns a Keychain constructed without a pair
// secret: locked, and with can_retrieve_keys false. This is the write-only
// adoption path spec.md's current() and any second-instance adoption in the
// test scenarios route through.
func AdoptFromKeychainKey(keychainKey string, source entropy.Source) (*Keychain, error) {
	general, pair, pwd := newEncryptors(source)

	parts, err := codec.ParsePayload(keychainKey, domain.CredentialCount)
	if err != nil {
		return nil, apperrors.Wrap(domain.ErrInvalidCredential, "malformed keychain key")
	}

	var credentials [domain.CredentialCount][]byte
	copy(credentials[:], parts)
	return build(credentials, nil, false, source, general, pair, pwd)
}

// AdoptWithSecret parses a serialized KeychainKey together with a
// base64-encoded pair secret (as returned by MasterKey) and returns a
// Keychain constructed with can_retrieve_keys true, since the caller already
// holds both credential parts and the secret. This is the path an operator
// re-deriving export material from stored credentials routes through,
// distinct from current()'s read-only AdoptFromKeychainKey.
func AdoptWithSecret(keychainKey, masterKey string, source entropy.Source) (*Keychain, error) {
	general, pair, pwd := newEncryptors(source)

	parts, err := codec.ParsePayload(keychainKey, domain.CredentialCount)
	if err != nil {
		return nil, apperrors.Wrap(domain.ErrInvalidCredential, "malformed keychain key")
	}

	secret, err := base64.StdEncoding.DecodeString(masterKey)
	if err != nil {
		return nil, apperrors.Wrap(domain.ErrInvalidCredential, "malformed master key")
	}

	var credentials [domain.CredentialCount][]byte
	copy(credentials[:], parts)
	return build(credentials, secret, true, source, general, pair, pwd)
}

// build validates the fixed credential-shape invariant, verifies a
// candidate pair secret when one is supplied, and constructs the aggregate.
// Both Generate and AdoptFromKeychainKey route through it, matching the
// "internal adopt, both factories route through it" design.
func build(
	credentials [domain.CredentialCount][]byte,
	pairSecret []byte,
	canRetrieveKeys bool,
	source entropy.Source,
	general *crypto.General,
	pair *crypto.Pair,
	pwd *crypto.Password,
) (*Keychain, error) {
	if len(credentials[domain.CredentialUUIDIndex]) != domain.UUIDSize {
		return nil, apperrors.Wrap(domain.ErrInvalidCredential, "invalid uuid size")
	}
	if len(credentials[domain.CredentialGeneralKeyIndex]) != domain.GeneralKeySize {
		return nil, apperrors.Wrap(domain.ErrInvalidCredential, "invalid general key size")
	}
	if len(credentials[domain.CredentialPairPublicIndex]) != domain.PairKeySize {
		return nil, apperrors.Wrap(domain.ErrInvalidCredential, "invalid pair public key size")
	}

	k := &Keychain{
		uuid:            credentials[domain.CredentialUUIDIndex],
		credentials:     credentials,
		canRetrieveKeys: canRetrieveKeys,
		source:          source,
		general:         general,
		pair:            pair,
		pwd:             pwd,
	}

	if pairSecret != nil {
		if err := k.verifyAndInstall(pairSecret); err != nil {
			return nil, err
		}
	}

	return k, nil
}

// verifyAndInstall verifies a candidate pair secret by drawing a random
// verifier string, pair-encrypting it under the keychain's own pair public
// key, pair-decrypting under the candidate secret, and comparing
// byte-for-byte. This is required because crypto_box happily "decrypts" any
// ciphertext into gibberish under a wrong secret; only a round-trip proves
// the secret actually corresponds to the public key. On success it installs
// the secret and marks the keychain unlocked; this is a one-way,
// monotonic transition.
func (k *Keychain) verifyAndInstall(candidate []byte) error {
	if len(candidate) != domain.PairKeySize {
		return apperrors.Wrap(domain.ErrInvalidCredential, "invalid pair secret size")
	}

	verifier, err := k.source.Bytes(32)
	if err != nil {
		return apperrors.Wrap(domain.ErrInternal, err.Error())
	}
	verifierEncoded := base64.StdEncoding.EncodeToString(verifier)

	token, err := k.pair.Encrypt(verifierEncoded, k.credentials[domain.CredentialPairPublicIndex])
	if err != nil {
		return err
	}

	var roundTripped string
	if err := k.pair.Decrypt(token, candidate, &roundTripped); err != nil {
		return apperrors.Wrap(domain.ErrInvalidCredential, "pair secret verification failed")
	}
	if roundTripped != verifierEncoded {
		return apperrors.Wrap(domain.ErrInvalidCredential, "pair secret verification mismatch")
	}

	k.mu.Lock()
	defer k.mu.Unlock()
	if k.unlocked {
		return nil
	}
	k.pairSecret = secretbytes.New(candidate)
	k.unlocked = true
	return nil
}

// IsUnlocked reports whether the aggregate currently holds a verified pair
// secret.
func (k *Keychain) IsUnlocked() bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.unlocked
}

// UUID returns the keychain's identity as a canonical UUID string. Always
// allowed regardless of lock state or can_retrieve_keys.
func (k *Keychain) UUID() (string, error) {
	return codec.DecompressUUID(k.uuid)
}

// KeychainKey returns the three-part public identity (uuid, general key,
// pair public), serialized the way AdoptFromKeychainKey expects to parse
// it. Requires can_retrieve_keys; fails with domain.ErrKeyAccessForbidden
// otherwise.
func (k *Keychain) KeychainKey() (string, error) {
	if !k.canRetrieveKeys {
		return "", domain.ErrKeyAccessForbidden
	}
	return codec.StringifyPayload(k.credentials[:]), nil
}

// MasterKey returns the base64-encoded pair secret, granting full read
// access to whoever holds it. Requires can_retrieve_keys and Unlocked.
func (k *Keychain) MasterKey() (string, error) {
	if !k.canRetrieveKeys {
		return "", domain.ErrKeyAccessForbidden
	}
	k.mu.Lock()
	defer k.mu.Unlock()
	if !k.unlocked {
		return "", domain.ErrKeychainLocked
	}
	return base64.StdEncoding.EncodeToString(k.pairSecret.Reveal()), nil
}

// EncryptCredential seals value for this keychain: an inner PairEncryptor
// layer under the pair public key, wrapped in an outer GeneralEncryptor
// layer under the general key. No lock is required — this is the write
// path a read-only (locked) instance must still support.
func (k *Keychain) EncryptCredential(value any) (string, error) {
	inner, err := k.pair.Encrypt(value, k.credentials[domain.CredentialPairPublicIndex])
	if err != nil {
		return "", err
	}
	return k.general.Encrypt(inner, k.credentials[domain.CredentialGeneralKeyIndex])
}

// DecryptCredential opens a token produced by EncryptCredential into out.
// Requires Unlocked; fails with domain.ErrKeychainLocked otherwise.
func (k *Keychain) DecryptCredential(token string, out any) error {
	k.mu.Lock()
	unlocked := k.unlocked
	secret := k.pairSecret
	k.mu.Unlock()
	if !unlocked {
		return domain.ErrKeychainLocked
	}

	var inner string
	if err := k.general.Decrypt(token, k.credentials[domain.CredentialGeneralKeyIndex], &inner); err != nil {
		return err
	}
	return k.pair.Decrypt(inner, secret.Reveal(), out)
}

// GenerateKeychainPasswordAndToken draws a fresh high-entropy password,
// seals the pair secret under it via PasswordEncryptor, and wraps the
// result in an outer GeneralEncryptor layer keyed by the general key so a
// token stolen from storage cannot be attacked offline unless the general
// key is also leaked. Requires Unlocked.
func (k *Keychain) GenerateKeychainPasswordAndToken() (password string, token string, err error) {
	k.mu.Lock()
	unlocked := k.unlocked
	secret := k.pairSecret
	k.mu.Unlock()
	if !unlocked {
		return "", "", domain.ErrKeychainLocked
	}

	password, err = k.source.Password(32)
	if err != nil {
		return "", "", apperrors.Wrap(domain.ErrInternal, err.Error())
	}

	encodedSecret := base64.StdEncoding.EncodeToString(secret.Reveal())
	inner, err := k.pwd.Encrypt(encodedSecret, password)
	if err != nil {
		return "", "", err
	}

	token, err = k.general.Encrypt(inner, k.credentials[domain.CredentialGeneralKeyIndex])
	if err != nil {
		return "", "", err
	}
	return password, token, nil
}

// Unlock decrypts token with the general key to obtain a PasswordToken,
// decrypts that with password to obtain the base64-encoded pair secret,
// and verifies and installs it. If already unlocked this is a no-op that
// returns nil, per the one-shot monotonic transition. Wrong password
// surfaces as domain.ErrInvalidPassword, distinguishable because the outer
// general-key layer already decrypted successfully; any structural failure
// surfaces as domain.ErrDecrypt.
func (k *Keychain) Unlock(password, token string) error {
	if k.IsUnlocked() {
		return nil
	}

	var inner string
	if err := k.general.Decrypt(token, k.credentials[domain.CredentialGeneralKeyIndex], &inner); err != nil {
		return err
	}

	var encodedSecret string
	if err := k.pwd.Decrypt(inner, password, &encodedSecret); err != nil {
		return apperrors.Wrap(domain.ErrInvalidPassword, "password layer decrypt failed")
	}

	secret, err := base64.StdEncoding.DecodeString(encodedSecret)
	if err != nil {
		return apperrors.Wrap(domain.ErrInvalidCredential, "malformed decoded secret")
	}
	return k.verifyAndInstall(secret)
}

// Close zeroizes the keychain's pair secret, if any, from memory. The
// keychain remains usable for write-path operations (EncryptCredential,
// KeychainKey) afterward, but read-path operations will behave as if
// locked since the secret bytes are gone.
func (k *Keychain) Close() {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.pairSecret.Zero()
	k.unlocked = false
}

// UnlockUsingMasterKey base64-decodes masterKey, verifies it against this
// keychain's pair public key, and installs it. If already unlocked this is
// a no-op. A masterKey that doesn't decode or doesn't correspond to the
// keychain's pair public fails with domain.ErrInvalidCredential.
func (k *Keychain) UnlockUsingMasterKey(masterKey string) error {
	if k.IsUnlocked() {
		return nil
	}

	secret, err := base64.StdEncoding.DecodeString(masterKey)
	if err != nil {
		return apperrors.Wrap(domain.ErrInvalidCredential, "malformed master key")
	}
	return k.verifyAndInstall(secret)
}
