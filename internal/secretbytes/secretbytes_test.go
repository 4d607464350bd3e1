package secretbytes

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCopiesInput(t *testing.T) {
	original := []byte{0x01, 0x02, 0x03}
	s := New(original)

	original[0] = 0xff
	assert.Equal(t, byte(0x01), s.Reveal()[0], "Bytes must hold its own copy")
}

func TestZeroClearsUnderlyingBytes(t *testing.T) {
	s := New([]byte{0xde, 0xad, 0xbe, 0xef})
	s.Zero()
	assert.Equal(t, []byte{0, 0, 0, 0}, s.Reveal())
}

func TestEqual(t *testing.T) {
	a := New([]byte("same-secret"))
	b := New([]byte("same-secret"))
	c := New([]byte("different"))
	d := New([]byte("longer-secret-value"))

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(d))
}

func TestStringNeverLeaksSecret(t *testing.T) {
	s := New([]byte("super-secret-key-material"))
	out := fmt.Sprintf("%v", s)
	assert.NotContains(t, out, "super-secret-key-material")
}

func TestMarshalJSONNeverLeaksSecret(t *testing.T) {
	s := New([]byte("super-secret-key-material"))
	b, err := json.Marshal(s)
	require.NoError(t, err)
	assert.Equal(t, `"REDACTED"`, string(b))
}

func TestLen(t *testing.T) {
	assert.Equal(t, 5, New([]byte("hello")).Len())
	assert.Equal(t, 0, New(nil).Len())
}
