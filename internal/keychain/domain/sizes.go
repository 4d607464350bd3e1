package domain

// Fixed byte widths for the keychain's wire formats. These are invariant
// across versions: changing any of them breaks compatibility with tokens
// already issued.
const (
	// UUIDSize is the binary width of a compressed UUID.
	UUIDSize = 16

	// GeneralKeySize is the width of a GeneralEncryptor symmetric key
	// (AES-256).
	GeneralKeySize = 32

	// GeneralNonceSize is the width of a GeneralEncryptor nonce
	// (AES-256-GCM).
	GeneralNonceSize = 12

	// GeneralAADSize is the width of the associated data derived from a
	// GeneralEncryptor nonce.
	GeneralAADSize = 4

	// PairKeySize is the width of an X25519 public or secret key.
	PairKeySize = 32

	// PairNonceSize is the width of a PairEncryptor nonce (crypto_box).
	PairNonceSize = 24

	// PasswordSaltSize is the Argon2id-required salt width this module
	// fixes its derivation at.
	PasswordSaltSize = 16

	// CredentialCount is the fixed number of positional entries in a
	// keychain's credential list: uuid, general key, pair public.
	CredentialCount = 3

	// CredentialUUIDIndex, CredentialGeneralKeyIndex, and
	// CredentialPairPublicIndex are the fixed positions within the
	// credential list.
	CredentialUUIDIndex       = 0
	CredentialGeneralKeyIndex = 1
	CredentialPairPublicIndex = 2
)
