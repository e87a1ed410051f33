package vrchat

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeMessageFloat(t *testing.T) {
	t.Parallel()

	packet, err := encodeMessage("/avatar/parameters/Horns", float32(1))
	require.NoError(t, err)
	require.Equal(t, 0, len(packet)%4, "OSC packets must be 4-byte aligned")

	address, args, err := decodeMessage(packet)
	require.NoError(t, err)
	require.Equal(t, "/avatar/parameters/Horns", address)
	require.Len(t, args, 1)
	require.Equal(t, float32(1), args[0])
}

func TestEncodeDecodeMessageMixedArgs(t *testing.T) {
	t.Parallel()

	packet, err := encodeMessage("/avatar/parameters/Combo", int32(3), true, "meow")
	require.NoError(t, err)

	address, args, err := decodeMessage(packet)
	require.NoError(t, err)
	require.Equal(t, "/avatar/parameters/Combo", address)
	require.Equal(t, []interface{}{int32(3), true, "meow"}, args)
}

func TestEncodeMessageRejectsUnsupportedType(t *testing.T) {
	t.Parallel()

	_, err := encodeMessage("/avatar/parameters/Bad", struct{}{})
	require.Error(t, err)
}
