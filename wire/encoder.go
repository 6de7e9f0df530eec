package wire

import "encoding/binary"

// Encoder appends big-endian values to a growable buffer.
type Encoder struct {
	buf []byte
}

func NewEncoder(sizeHint int) *Encoder {
	return &Encoder{buf: make([]byte, 0, sizeHint)}
}

func (e *Encoder) Bytes() []byte { return e.buf }

func (e *Encoder) Len() int { return len(e.buf) }

func (e *Encoder) Reset() { e.buf = e.buf[:0] }

// Truncate discards everything after the first n bytes.
func (e *Encoder) Truncate(n int) { e.buf = e.buf[:n] }

func (e *Encoder) WriteByte(b byte) error {
	e.buf = append(e.buf, b)
	return nil
}

func (e *Encoder) WriteBool(b bool) {
	if b {
		e.buf = append(e.buf, 1)
	} else {
		e.buf = append(e.buf, 0)
	}
}

func (e *Encoder) WriteInt16(v int16) {
	e.buf = binary.BigEndian.AppendUint16(e.buf, uint16(v))
}

func (e *Encoder) WriteUint16(v uint16) {
	e.buf = binary.BigEndian.AppendUint16(e.buf, v)
}

func (e *Encoder) WriteInt32(v int32) {
	e.buf = binary.BigEndian.AppendUint32(e.buf, uint32(v))
}

func (e *Encoder) WriteInt64(v int64) {
	e.buf = binary.BigEndian.AppendUint64(e.buf, uint64(v))
}

func (e *Encoder) Write(p []byte) (int, error) {
	e.buf = append(e.buf, p...)
	return len(p), nil
}

// WriteUTF writes s in Java's modified UTF-8 with an unsigned 16-bit length.
// maxLen is the largest encoded length the caller accepts.
func (e *Encoder) WriteUTF(s string, maxLen int) error {
	n := UTFLength(s)
	if n > maxLen {
		return ErrStringTooLong
	}
	e.WriteUint16(uint16(n))
	e.buf = AppendModifiedUTF8(e.buf, s)
	return nil
}

// WriteASCII writes a string known to contain only bytes in 0x01..0x7F.
func (e *Encoder) WriteASCII(s string) {
	e.WriteUint16(uint16(len(s)))
	e.buf = append(e.buf, s...)
}
