// Package codec provides the pure, stateless encoding primitives the keychain
// builds its token formats on: URL-safe unpadded base64, JSON, dot-joined
// payload envelopes, and canonical UUID compression. None of these functions
// hold state or touch key material directly; callers are responsible for
// zeroing anything sensitive they pass through.
package codec

import (
	"encoding/base64"
	"strings"

	apperrors "github.com/allisson/keychain/internal/errors"
)

// ErrEncoding indicates malformed base64, malformed JSON, a payload with the
// wrong number of parts, or a malformed UUID. It is the single sentinel all
// DataCoder failures wrap, so callers can use errors.Is against one value
// regardless of which function produced it.
var ErrEncoding = apperrors.Wrap(apperrors.ErrInvalidInput, "encoding error")

// TrimmedEncode base64-encodes b using the URL-safe alphabet with the
// trailing '=' padding stripped.
func TrimmedEncode(b []byte) string {
	return strings.TrimRight(base64.URLEncoding.EncodeToString(b), "=")
}

// TrimmedDecode reverses TrimmedEncode. It restores the padding that was
// stripped and rejects any input containing standard-alphabet characters
// ('+', '/') or explicit padding ('='), since those can never appear in a
// value TrimmedEncode produced.
func TrimmedDecode(s string) ([]byte, error) {
	if strings.ContainsAny(s, "+/=") {
		return nil, apperrors.Wrap(ErrEncoding, "invalid base64 alphabet")
	}
	if n := len(s) % 4; n != 0 {
		s += strings.Repeat("=", 4-n)
	}
	b, err := base64.URLEncoding.DecodeString(s)
	if err != nil {
		return nil, apperrors.Wrap(ErrEncoding, "invalid base64 data")
	}
	return b, nil
}
