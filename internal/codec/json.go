package codec

import (
	"encoding/json"

	apperrors "github.com/allisson/keychain/internal/errors"
)

// EncodeJSON marshals v to JSON bytes, wrapping any marshal failure in
// ErrEncoding.
func EncodeJSON(v any) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, apperrors.Wrap(ErrEncoding, "encode json: "+err.Error())
	}
	return b, nil
}

// DecodeJSON unmarshals JSON bytes into out, wrapping any decode failure in
// ErrEncoding. out must be a pointer, as with json.Unmarshal.
func DecodeJSON(data []byte, out any) error {
	if err := json.Unmarshal(data, out); err != nil {
		return apperrors.Wrap(ErrEncoding, "decode json: "+err.Error())
	}
	return nil
}
