package znp

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodeEndDeviceAnnounce(t *testing.T) {
	payload := []byte{
		0x34, 0x12, // SrcAddr = 0x1234
		0x78, 0x56, // NwkAddr = 0x5678
		0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08, // IEEEAddr
		0x8E, // Capability
	}
	require.Len(t, payload, 13)

	got, err := decodeEndDeviceAnnounce(payload)
	require.NoError(t, err)
	require.Equal(t, ShortAddr(0x1234), got.SrcAddr)
	require.Equal(t, ShortAddr(0x5678), got.NwkAddr)
	require.Equal(t, IEEEAddr(0x0807060504030201), got.IEEEAddr)
	require.Equal(t, byte(0x8E), got.Capability)
}

func TestDecodeEndDeviceAnnounceWrongLength(t *testing.T) {
	_, err := decodeEndDeviceAnnounce(make([]byte, 11))
	require.Error(t, err)

	_, err = decodeEndDeviceAnnounce(make([]byte, 13))
	require.NoError(t, err)
}
