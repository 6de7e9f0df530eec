package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tomruk/openwire-go/wire"
)

func TestWireFormatProperties(t *testing.T) {
	props := &WireFormatProperties{
		TightEncodingEnabled:             true,
		CacheEnabled:                     true,
		CacheSize:                        1024,
		StackTraceEnabled:                true,
		MaxInactivityDuration:            30000,
		MaxInactivityDurationInitalDelay: 10000,
		MaxFrameSize:                     1 << 20,
	}
	info, err := NewWireFormatInfo(6, props)
	require.NoError(t, err)
	assert.True(t, info.ValidMagic())
	assert.Equal(t, int32(6), info.Version)

	got, err := info.Properties()
	require.NoError(t, err)
	assert.Equal(t, props, got)
}

func TestWireFormatPropertiesMissingAndUnknown(t *testing.T) {
	info, err := NewWireFormatInfo(1, nil)
	require.NoError(t, err)
	assert.Nil(t, info.MarshalledProperties)
	got, err := info.Properties()
	require.NoError(t, err)
	assert.Equal(t, &WireFormatProperties{}, got)

	b, err := wire.MarshalPrimitiveMap(map[string]any{
		"CacheEnabled": true,
		"Host":         "localhost",
	})
	require.NoError(t, err)
	info.MarshalledProperties = b
	got, err = info.Properties()
	require.NoError(t, err)
	assert.Equal(t, &WireFormatProperties{CacheEnabled: true}, got)
}

func TestWireFormatInfoMagic(t *testing.T) {
	info := &WireFormatInfo{Magic: Magic}
	assert.True(t, info.ValidMagic())
	info.Magic[7] = 'X'
	assert.False(t, info.ValidMagic())
	assert.Equal(t, byte('Q'), Magic[7])
}
