package entropy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBytesReturnsRequestedLength(t *testing.T) {
	e := New()
	for _, n := range []int{0, 1, 12, 16, 24, 32} {
		b, err := e.Bytes(n)
		require.NoError(t, err)
		assert.Len(t, b, n)
	}
}

func TestBytesIsFresh(t *testing.T) {
	e := New()
	a, err := e.Bytes(32)
	require.NoError(t, err)
	b, err := e.Bytes(32)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestPasswordLengthAndAlphabet(t *testing.T) {
	e := New()
	p, err := e.Password(24)
	require.NoError(t, err)
	assert.Len(t, p, 24)
	for _, r := range p {
		assert.Contains(t, passwordAlphabet, string(r))
	}
}

func TestPasswordRejectsNonPositiveLength(t *testing.T) {
	e := New()
	_, err := e.Password(0)
	assert.ErrorIs(t, err, ErrSource)
}

func TestPasswordIsFresh(t *testing.T) {
	e := New()
	a, err := e.Password(20)
	require.NoError(t, err)
	b, err := e.Password(20)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}
