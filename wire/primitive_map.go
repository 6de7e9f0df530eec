package wire

import (
	"fmt"
	"math"
	"sort"
)

// Value type codes of the primitive map encoding used for message properties,
// map message bodies and the handshake properties.
const (
	NullType      byte = 0
	BooleanType   byte = 1
	ByteType      byte = 2
	CharType      byte = 3
	ShortType     byte = 4
	IntegerType   byte = 5
	LongType      byte = 6
	DoubleType    byte = 7
	FloatType     byte = 8
	StringType    byte = 9
	ByteArrayType byte = 10
	MapType       byte = 11
	ListType      byte = 12
	BigStringType byte = 13
)

// Strings at least this long (in UTF-16 units) use the BIG_STRING form.
const bigStringThreshold = 8191

// Char is a 16-bit character value. It exists so a CHAR entry survives a
// round trip instead of becoming a SHORT.
type Char uint16

// MarshalPrimitiveMap encodes m. A nil map is encoded as size -1.
func MarshalPrimitiveMap(m map[string]any) ([]byte, error) {
	e := NewEncoder(64)
	if err := WritePrimitiveMap(e, m); err != nil {
		return nil, err
	}
	return e.Bytes(), nil
}

func UnmarshalPrimitiveMap(p []byte) (map[string]any, error) {
	if len(p) == 0 {
		return nil, nil
	}
	d := NewBytesDecoder(p)
	m, err := ReadPrimitiveMap(d)
	if err != nil {
		return nil, err
	}
	if d.Remaining() != 0 {
		return nil, fmt.Errorf("%w: %d trailing bytes after primitive map", ErrMalformed, d.Remaining())
	}
	return m, nil
}

// WritePrimitiveMap writes m with keys in sorted order so equal maps give
// equal bytes.
func WritePrimitiveMap(e *Encoder, m map[string]any) error {
	if m == nil {
		e.WriteInt32(-1)
		return nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	e.WriteInt32(int32(len(keys)))
	for _, k := range keys {
		if err := e.WriteUTF(k, math.MaxUint16); err != nil {
			return err
		}
		if err := WritePrimitive(e, m[k]); err != nil {
			return fmt.Errorf("key %q: %w", k, err)
		}
	}
	return nil
}

func ReadPrimitiveMap(d *Decoder) (map[string]any, error) {
	n, err := d.ReadInt32()
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, nil
	}
	if rem := d.Remaining(); rem >= 0 && int64(n) > rem {
		return nil, ErrTruncated
	}
	m := make(map[string]any, n)
	for i := int32(0); i < n; i++ {
		k, err := d.ReadUTF()
		if err != nil {
			return nil, err
		}
		v, err := ReadPrimitive(d)
		if err != nil {
			return nil, err
		}
		m[k] = v
	}
	return m, nil
}

func WritePrimitiveList(e *Encoder, l []any) error {
	e.WriteInt32(int32(len(l)))
	for _, v := range l {
		if err := WritePrimitive(e, v); err != nil {
			return err
		}
	}
	return nil
}

func ReadPrimitiveList(d *Decoder) ([]any, error) {
	n, err := d.ReadInt32()
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, fmt.Errorf("%w: negative list size %d", ErrMalformed, n)
	}
	if rem := d.Remaining(); rem >= 0 && int64(n) > rem {
		return nil, ErrTruncated
	}
	l := make([]any, 0, n)
	for i := int32(0); i < n; i++ {
		v, err := ReadPrimitive(d)
		if err != nil {
			return nil, err
		}
		l = append(l, v)
	}
	return l, nil
}

// WritePrimitive writes one type-coded value. Go int is written as LONG.
func WritePrimitive(e *Encoder, v any) error {
	switch v := v.(type) {
	case nil:
		e.WriteByte(NullType)
	case bool:
		e.WriteByte(BooleanType)
		e.WriteBool(v)
	case int8:
		e.WriteByte(ByteType)
		e.WriteByte(byte(v))
	case uint8:
		e.WriteByte(ByteType)
		e.WriteByte(v)
	case Char:
		e.WriteByte(CharType)
		e.WriteUint16(uint16(v))
	case int16:
		e.WriteByte(ShortType)
		e.WriteInt16(v)
	case int32:
		e.WriteByte(IntegerType)
		e.WriteInt32(v)
	case int64:
		e.WriteByte(LongType)
		e.WriteInt64(v)
	case int:
		e.WriteByte(LongType)
		e.WriteInt64(int64(v))
	case float64:
		e.WriteByte(DoubleType)
		e.WriteInt64(int64(math.Float64bits(v)))
	case float32:
		e.WriteByte(FloatType)
		e.WriteInt32(int32(math.Float32bits(v)))
	case string:
		if utf16Len(v) < bigStringThreshold {
			e.WriteByte(StringType)
			return e.WriteUTF(v, math.MaxUint16)
		}
		e.WriteByte(BigStringType)
		e.WriteInt32(int32(UTFLength(v)))
		e.buf = AppendModifiedUTF8(e.buf, v)
	case []byte:
		e.WriteByte(ByteArrayType)
		e.WriteInt32(int32(len(v)))
		e.Write(v)
	case map[string]any:
		e.WriteByte(MapType)
		return WritePrimitiveMap(e, v)
	case []any:
		e.WriteByte(ListType)
		return WritePrimitiveList(e, v)
	default:
		return fmt.Errorf("%w: %T", ErrUnsupportedType, v)
	}
	return nil
}

func ReadPrimitive(d *Decoder) (any, error) {
	t, err := d.ReadByte()
	if err != nil {
		return nil, err
	}
	switch t {
	case NullType:
		return nil, nil
	case BooleanType:
		return d.ReadBool()
	case ByteType:
		b, err := d.ReadByte()
		return int8(b), err
	case CharType:
		c, err := d.ReadUint16()
		return Char(c), err
	case ShortType:
		return d.ReadInt16()
	case IntegerType:
		return d.ReadInt32()
	case LongType:
		return d.ReadInt64()
	case DoubleType:
		v, err := d.ReadInt64()
		return math.Float64frombits(uint64(v)), err
	case FloatType:
		v, err := d.ReadInt32()
		return math.Float32frombits(uint32(v)), err
	case StringType:
		return d.ReadUTF()
	case BigStringType:
		n, err := d.ReadInt32()
		if err != nil {
			return nil, err
		}
		p, err := d.ReadBytes(int(n))
		if err != nil {
			return nil, err
		}
		return DecodeModifiedUTF8(p)
	case ByteArrayType:
		n, err := d.ReadInt32()
		if err != nil {
			return nil, err
		}
		return d.ReadBytes(int(n))
	case MapType:
		return ReadPrimitiveMap(d)
	case ListType:
		return ReadPrimitiveList(d)
	default:
		return nil, fmt.Errorf("%w: unknown primitive type code %d", ErrMalformed, t)
	}
}

func utf16Len(s string) int {
	n := 0
	forEachUnit(s, func(uint16) { n++ })
	return n
}
