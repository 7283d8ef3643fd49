package pid

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeDecode(t *testing.T) {
	c := NewCodec("test-secret")
	for _, id := range []uint{1, 42, 1 << 40} {
		p, err := c.Encode(id)
		require.NoError(t, err)
		got, err := c.Decode(p)
		require.NoError(t, err)
		require.Equal(t, id, got)
	}
}

func TestEncodeIsNotDeterministic(t *testing.T) {
	c := NewCodec("test-secret")
	a := c.MustEncode(7)
	b := c.MustEncode(7)
	require.NotEqual(t, a, b)
}

func TestDecodeRejectsForeignTokens(t *testing.T) {
	c := NewCodec("test-secret")
	other := NewCodec("another-secret")

	p := other.MustEncode(5)
	_, err := c.Decode(p)
	require.ErrorIs(t, err, ErrInvalidPID)

	for _, bad := range []string{"", "12", "not base64 !!", "AAAA"} {
		_, err := c.Decode(bad)
		require.ErrorIs(t, err, ErrInvalidPID, bad)
	}
}
