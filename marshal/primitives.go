package marshal

import (
	"math"

	"github.com/tomruk/openwire-go/wire"
)

// Tight codecs come in three parts: pass 1 records the shape of a value in
// the boolean stream and returns the byte count, pass 2 reads the shape back
// and writes the bytes, and unmarshal reads the shape and the bytes.

const (
	// Longest string, in modified UTF-8 bytes, accepted by the tight codec.
	// Strings of plain ASCII may use the whole 16-bit length.
	maxTightStringLength = math.MaxInt16 - 1
	maxASCIIStringLength = math.MaxUint16
	maxLooseStringLength = math.MaxUint16
)

func TightMarshalBool1(bs *wire.BooleanStream, v bool) int {
	bs.WriteBool(v)
	return 0
}

func TightMarshalBool2(bs *wire.BooleanStream) error {
	_, err := bs.ReadBool()
	return err
}

func TightUnmarshalBool(bs *wire.BooleanStream) (bool, error) {
	return bs.ReadBool()
}

func LooseMarshalBool(e *wire.Encoder, v bool) {
	e.WriteBool(v)
}

func LooseUnmarshalBool(d *wire.Decoder) (bool, error) {
	return d.ReadBool()
}

// TightMarshalLong1 picks one of four widths: zero (no bytes), 16, 32 or 64
// bits, using two flags.
func TightMarshalLong1(bs *wire.BooleanStream, v int64) int {
	u := uint64(v)
	switch {
	case u == 0:
		bs.WriteBool(false)
		bs.WriteBool(false)
		return 0
	case u&0xFFFFFFFFFFFF0000 == 0:
		bs.WriteBool(false)
		bs.WriteBool(true)
		return 2
	case u&0xFFFFFFFF00000000 == 0:
		bs.WriteBool(true)
		bs.WriteBool(false)
		return 4
	default:
		bs.WriteBool(true)
		bs.WriteBool(true)
		return 8
	}
}

func TightMarshalLong2(e *wire.Encoder, bs *wire.BooleanStream, v int64) error {
	wide, err := bs.ReadBool()
	if err != nil {
		return err
	}
	second, err := bs.ReadBool()
	if err != nil {
		return err
	}
	switch {
	case wide && second:
		e.WriteInt64(v)
	case wide:
		e.WriteInt32(int32(v))
	case second:
		e.WriteInt16(int16(v))
	}
	return nil
}

func TightUnmarshalLong(d *wire.Decoder, bs *wire.BooleanStream) (int64, error) {
	wide, err := bs.ReadBool()
	if err != nil {
		return 0, err
	}
	second, err := bs.ReadBool()
	if err != nil {
		return 0, err
	}
	switch {
	case wide && second:
		return d.ReadInt64()
	case wide:
		v, err := d.ReadUint32()
		return int64(v), err
	case second:
		v, err := d.ReadUint16()
		return int64(v), err
	default:
		return 0, nil
	}
}

func LooseMarshalLong(e *wire.Encoder, v int64) {
	e.WriteInt64(v)
}

func LooseUnmarshalLong(d *wire.Decoder) (int64, error) {
	return d.ReadInt64()
}

// TightMarshalString1 records presence and whether the string is plain
// ASCII. The empty string is treated as absent.
func TightMarshalString1(bs *wire.BooleanStream, s string) (int, error) {
	bs.WriteBool(s != "")
	if s == "" {
		return 0, nil
	}
	ascii := wire.IsASCII(s)
	n, limit := wire.UTFLength(s), maxTightStringLength
	if ascii {
		n, limit = len(s), maxASCIIStringLength
	}
	if n > limit {
		return 0, wire.ErrStringTooLong
	}
	bs.WriteBool(ascii)
	return n + 2, nil
}

func TightMarshalString2(e *wire.Encoder, bs *wire.BooleanStream, s string) error {
	present, err := bs.ReadBool()
	if err != nil || !present {
		return err
	}
	ascii, err := bs.ReadBool()
	if err != nil {
		return err
	}
	if ascii {
		e.WriteASCII(s)
		return nil
	}
	return e.WriteUTF(s, maxTightStringLength)
}

func TightUnmarshalString(d *wire.Decoder, bs *wire.BooleanStream) (string, error) {
	present, err := bs.ReadBool()
	if err != nil || !present {
		return "", err
	}
	ascii, err := bs.ReadBool()
	if err != nil {
		return "", err
	}
	if ascii {
		return d.ReadASCII()
	}
	return d.ReadUTF()
}

func LooseMarshalString(e *wire.Encoder, s string) error {
	e.WriteBool(s != "")
	if s == "" {
		return nil
	}
	return e.WriteUTF(s, maxLooseStringLength)
}

func LooseUnmarshalString(d *wire.Decoder) (string, error) {
	present, err := d.ReadBool()
	if err != nil || !present {
		return "", err
	}
	return d.ReadUTF()
}

// TightMarshalByteArray1 records presence. A nil slice is absent, an empty
// one is present with length zero.
func TightMarshalByteArray1(bs *wire.BooleanStream, b []byte) int {
	bs.WriteBool(b != nil)
	if b == nil {
		return 0
	}
	return len(b) + 4
}

func TightMarshalByteArray2(e *wire.Encoder, bs *wire.BooleanStream, b []byte) error {
	present, err := bs.ReadBool()
	if err != nil || !present {
		return err
	}
	e.WriteInt32(int32(len(b)))
	e.Write(b)
	return nil
}

func TightUnmarshalByteArray(d *wire.Decoder, bs *wire.BooleanStream) ([]byte, error) {
	present, err := bs.ReadBool()
	if err != nil || !present {
		return nil, err
	}
	return readSizedBytes(d)
}

func LooseMarshalByteArray(e *wire.Encoder, b []byte) {
	e.WriteBool(b != nil)
	if b == nil {
		return
	}
	e.WriteInt32(int32(len(b)))
	e.Write(b)
}

func LooseUnmarshalByteArray(d *wire.Decoder) ([]byte, error) {
	present, err := d.ReadBool()
	if err != nil || !present {
		return nil, err
	}
	return readSizedBytes(d)
}

func readSizedBytes(d *wire.Decoder) ([]byte, error) {
	n, err := d.ReadInt32()
	if err != nil {
		return nil, err
	}
	return d.ReadBytes(int(n))
}

// Constant-length byte arrays carry no presence flag and no length.

func TightMarshalConstByteArray1(n int) int { return n }

func MarshalConstByteArray(e *wire.Encoder, b []byte, n int) {
	if len(b) >= n {
		e.Write(b[:n])
		return
	}
	e.Write(b)
	e.Write(make([]byte, n-len(b)))
}

func UnmarshalConstByteArray(d *wire.Decoder, n int) ([]byte, error) {
	return d.ReadBytes(n)
}
