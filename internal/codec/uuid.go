package codec

import (
	"github.com/google/uuid"

	apperrors "github.com/allisson/keychain/internal/errors"
)

// CompressUUID accepts only the canonical 8-4-4-4-12 hyphenated form and
// returns its 16-byte binary representation.
func CompressUUID(canonical string) ([]byte, error) {
	id, err := uuid.Parse(canonical)
	if err != nil {
		return nil, apperrors.Wrap(ErrEncoding, "invalid uuid string")
	}
	if id.String() != canonical {
		return nil, apperrors.Wrap(ErrEncoding, "uuid not in canonical form")
	}
	b := id[:]
	out := make([]byte, len(b))
	copy(out, b)
	return out, nil
}

// DecompressUUID re-inserts hyphens into a 16-byte UUID and returns its
// canonical string form.
func DecompressUUID(b []byte) (string, error) {
	id, err := uuid.FromBytes(b)
	if err != nil {
		return "", apperrors.Wrap(ErrEncoding, "invalid uuid bytes")
	}
	return id.String(), nil
}
