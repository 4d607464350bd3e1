package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringifyParsePayloadRoundTrip(t *testing.T) {
	parts := [][]byte{
		{0x01, 0x02, 0x03},
		{},
		[]byte("hello world"),
	}

	s := StringifyPayload(parts)
	assert.Equal(t, 2, countDots(s))

	decoded, err := ParsePayload(s, 3)
	require.NoError(t, err)
	assert.Equal(t, parts, decoded)
}

func TestParsePayloadSkipsCountCheckWhenNegative(t *testing.T) {
	s := StringifyPayload([][]byte{{0x01}, {0x02}})
	decoded, err := ParsePayload(s, -1)
	require.NoError(t, err)
	assert.Len(t, decoded, 2)
}

func TestParsePayloadFailsOnCountMismatch(t *testing.T) {
	s := StringifyPayload([][]byte{{0x01}, {0x02}})
	_, err := ParsePayload(s, 3)
	assert.ErrorIs(t, err, ErrEncoding)
}

func TestParsePayloadFailsOnMalformedPart(t *testing.T) {
	_, err := ParsePayload("abc.d+f", 2)
	assert.ErrorIs(t, err, ErrEncoding)
}

func countDots(s string) int {
	n := 0
	for _, r := range s {
		if r == '.' {
			n++
		}
	}
	return n
}
