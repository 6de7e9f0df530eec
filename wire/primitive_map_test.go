package wire

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrimitiveMapRoundTrip(t *testing.T) {
	m := map[string]any{
		"null":   nil,
		"bool":   true,
		"byte":   int8(-3),
		"char":   Char('x'),
		"short":  int16(-300),
		"int":    int32(70000),
		"long":   int64(1) << 40,
		"double": 3.25,
		"float":  float32(1.5),
		"string": "hello",
		"big":    strings.Repeat("z", bigStringThreshold+1),
		"bytes":  []byte{1, 2, 3},
		"map":    map[string]any{"inner": int32(1)},
		"list":   []any{"a", int64(2), false},
	}

	p, err := MarshalPrimitiveMap(m)
	require.NoError(t, err)

	got, err := UnmarshalPrimitiveMap(p)
	require.NoError(t, err)
	assert.Equal(t, m, got)
}

func TestPrimitiveMapDeterministic(t *testing.T) {
	m := map[string]any{"b": int32(2), "a": int32(1), "c": int32(3)}
	first, err := MarshalPrimitiveMap(m)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := MarshalPrimitiveMap(m)
		require.NoError(t, err)
		require.Equal(t, first, again)
	}
}

func TestPrimitiveMapNil(t *testing.T) {
	p, err := MarshalPrimitiveMap(nil)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xFF, 0xFF, 0xFF, 0xFF}, p)

	m, err := UnmarshalPrimitiveMap(p)
	require.NoError(t, err)
	assert.Nil(t, m)
}

func TestPrimitiveMapIntIsLong(t *testing.T) {
	p, err := MarshalPrimitiveMap(map[string]any{"n": 5})
	require.NoError(t, err)
	m, err := UnmarshalPrimitiveMap(p)
	require.NoError(t, err)
	assert.Equal(t, int64(5), m["n"])
}

func TestPrimitiveMapErrors(t *testing.T) {
	_, err := MarshalPrimitiveMap(map[string]any{"x": struct{}{}})
	assert.ErrorIs(t, err, ErrUnsupportedType)

	_, err = UnmarshalPrimitiveMap([]byte{0, 0, 0, 1, 0, 1, 'k', 99})
	assert.ErrorIs(t, err, ErrMalformed)

	_, err = UnmarshalPrimitiveMap([]byte{0, 0, 0, 5})
	assert.ErrorIs(t, err, ErrTruncated)
}
