package wire

import (
	"fmt"
	"math"
)

// MaxBooleanStreamSize is the largest boolean stream the size header can
// describe, in bytes.
const MaxBooleanStreamSize = math.MaxUint16

// BooleanStream packs presence and shape flags for tight encoding, eight
// per byte, least significant bit first.
//
// During encode, pass 1 writes every bit, Marshal flushes them and rewinds
// the read position so pass 2 can read the same bits back.
type BooleanStream struct {
	data       []byte
	arrayLimit int
	arrayPos   int
	bytePos    uint8
}

func NewBooleanStream() *BooleanStream {
	return &BooleanStream{data: make([]byte, 0, 32)}
}

func (bs *BooleanStream) WriteBool(b bool) {
	if bs.bytePos == 0 {
		bs.arrayLimit++
		bs.data = append(bs.data, 0)
	}
	if b {
		bs.data[bs.arrayPos] |= 1 << bs.bytePos
	}
	bs.bytePos++
	if bs.bytePos >= 8 {
		bs.bytePos = 0
		bs.arrayPos++
	}
}

func (bs *BooleanStream) ReadBool() (bool, error) {
	if bs.arrayPos >= bs.arrayLimit {
		return false, ErrBooleanOverrun
	}
	b := bs.data[bs.arrayPos]&(1<<bs.bytePos) != 0
	bs.bytePos++
	if bs.bytePos >= 8 {
		bs.bytePos = 0
		bs.arrayPos++
	}
	return b, nil
}

// Len returns the number of bytes holding the written bits.
func (bs *BooleanStream) Len() int { return bs.arrayLimit }

// MarshalledSize is the number of bytes Marshal will write.
func (bs *BooleanStream) MarshalledSize() int {
	switch {
	case bs.arrayLimit < 64:
		return 1 + bs.arrayLimit
	case bs.arrayLimit < 256:
		return 2 + bs.arrayLimit
	default:
		return 3 + bs.arrayLimit
	}
}

// Marshal writes the size header and the bits, then rewinds for reading.
// Nothing is written if the stream is larger than MaxBooleanStreamSize.
func (bs *BooleanStream) Marshal(e *Encoder) error {
	if bs.arrayLimit > MaxBooleanStreamSize {
		return fmt.Errorf("%w: %d bytes, limit is %d", ErrBooleanTooLarge, bs.arrayLimit, MaxBooleanStreamSize)
	}
	switch {
	case bs.arrayLimit < 64:
		e.WriteByte(byte(bs.arrayLimit))
	case bs.arrayLimit < 256:
		e.WriteByte(0xC0)
		e.WriteByte(byte(bs.arrayLimit))
	default:
		e.WriteByte(0x80)
		e.WriteUint16(uint16(bs.arrayLimit))
	}
	e.Write(bs.data[:bs.arrayLimit])
	bs.rewind()
	return nil
}

func (bs *BooleanStream) Unmarshal(d *Decoder) error {
	b, err := d.ReadByte()
	if err != nil {
		return err
	}
	n := int(b)
	switch {
	case b&0xC0 == 0xC0:
		l, err := d.ReadByte()
		if err != nil {
			return err
		}
		n = int(l)
	case b&0x80 == 0x80:
		l, err := d.ReadUint16()
		if err != nil {
			return err
		}
		n = int(l)
	case b >= 64:
		return fmt.Errorf("%w: boolean stream header 0x%02x", ErrMalformed, b)
	}
	data, err := d.ReadBytes(n)
	if err != nil {
		return err
	}
	bs.data = data
	bs.arrayLimit = n
	bs.rewind()
	return nil
}

// Consumed reports whether every flushed byte has been read from.
func (bs *BooleanStream) Consumed() bool {
	used := bs.arrayPos
	if bs.bytePos > 0 {
		used++
	}
	return used == bs.arrayLimit
}

// Reset clears the stream for reuse.
func (bs *BooleanStream) Reset() {
	bs.data = bs.data[:0]
	bs.arrayLimit = 0
	bs.rewind()
}

func (bs *BooleanStream) rewind() {
	bs.arrayPos = 0
	bs.bytePos = 0
}
