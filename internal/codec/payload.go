package codec

import (
	"strings"

	apperrors "github.com/allisson/keychain/internal/errors"
)

// StringifyPayload encodes each part with TrimmedEncode and joins the results
// with '.'. Parts are binary-opaque; the caller assigns positional meaning.
func StringifyPayload(parts [][]byte) string {
	encoded := make([]string, len(parts))
	for i, p := range parts {
		encoded[i] = TrimmedEncode(p)
	}
	return strings.Join(encoded, ".")
}

// ParsePayload splits s on '.' and decodes each part. If expectedCount is
// non-negative and the number of parts does not match it, ParsePayload fails
// with ErrEncoding before attempting to decode anything. Pass a negative
// expectedCount to skip the check.
func ParsePayload(s string, expectedCount int) ([][]byte, error) {
	rawParts := strings.Split(s, ".")
	if expectedCount >= 0 && len(rawParts) != expectedCount {
		return nil, apperrors.Wrap(ErrEncoding, "unexpected payload part count")
	}
	parts := make([][]byte, len(rawParts))
	for i, rp := range rawParts {
		decoded, err := TrimmedDecode(rp)
		if err != nil {
			return nil, err
		}
		parts[i] = decoded
	}
	return parts, nil
}
