// Package secretbytes provides Bytes, a small container for key material and
// other secrets that must never leak into logs, error messages, or JSON
// payloads, and must be wiped from memory once the caller is done with them.
package secretbytes

import "crypto/subtle"

// Bytes wraps a secret byte slice. Its String and MarshalJSON methods always
// return a fixed redaction, never the underlying bytes, so a Bytes value
// accidentally passed to slog, fmt, or encoding/json never discloses key
// material.
type Bytes struct {
	b []byte
}

// New copies b into a new Bytes. The caller retains ownership of b and may
// zero or discard it independently.
func New(b []byte) Bytes {
	copied := make([]byte, len(b))
	copy(copied, b)
	return Bytes{b: copied}
}

// Len returns the number of bytes held.
func (s Bytes) Len() int {
	return len(s.b)
}

// Reveal returns the underlying bytes. Callers must not retain or mutate the
// returned slice beyond the immediate operation; copy it first if it needs to
// outlive the call.
func (s Bytes) Reveal() []byte {
	return s.b
}

// Zero overwrites the underlying bytes with zeros. After Zero, Reveal returns
// a zeroed slice of the original length; the Bytes value itself remains
// usable but no longer holds secret material.
func (s Bytes) Zero() {
	for i := range s.b {
		s.b[i] = 0
	}
}

// Equal reports whether s and other hold the same bytes, compared in
// constant time regardless of where they first differ.
func (s Bytes) Equal(other Bytes) bool {
	if len(s.b) != len(other.b) {
		return false
	}
	return subtle.ConstantTimeCompare(s.b, other.b) == 1
}

// String always returns a fixed redaction and never the secret value, so
// fmt.Sprintf("%v", secret) and similar calls cannot leak key material.
func (s Bytes) String() string {
	return "secretbytes.Bytes(redacted)"
}

// MarshalJSON always marshals to the JSON string "REDACTED", so a Bytes
// value embedded in a struct that gets logged or serialized never discloses
// its contents.
func (s Bytes) MarshalJSON() ([]byte, error) {
	return []byte(`"REDACTED"`), nil
}
