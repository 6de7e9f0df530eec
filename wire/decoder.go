package wire

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"slices"
)

// Decoder reads big-endian values from an io.Reader. Every short read is
// reported as ErrTruncated, reads past the limit as ErrLimitExceeded.
//
// The limit bounds the total number of bytes the decoder will consume, which
// also bounds the size of any length-prefixed allocation. A negative limit
// means no bound.
type Decoder struct {
	r       io.Reader
	limit   int64
	n       int64
	scratch [8]byte
}

func NewDecoder(r io.Reader, limit int64) *Decoder {
	return &Decoder{r: r, limit: limit}
}

// NewBytesDecoder returns a decoder bounded by len(b).
func NewBytesDecoder(b []byte) *Decoder {
	return NewDecoder(bytes.NewReader(b), int64(len(b)))
}

// Consumed returns the number of bytes read so far.
func (d *Decoder) Consumed() int64 { return d.n }

// Remaining returns how many bytes may still be read, or -1 if unbounded.
func (d *Decoder) Remaining() int64 {
	if d.limit < 0 {
		return -1
	}
	return d.limit - d.n
}

func (d *Decoder) fill(p []byte) error {
	if d.limit >= 0 && d.n+int64(len(p)) > d.limit {
		return ErrLimitExceeded
	}
	n, err := io.ReadFull(d.r, p)
	d.n += int64(n)
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return ErrTruncated
		}
		return err
	}
	return nil
}

func (d *Decoder) ReadByte() (byte, error) {
	if err := d.fill(d.scratch[:1]); err != nil {
		return 0, err
	}
	return d.scratch[0], nil
}

func (d *Decoder) ReadBool() (bool, error) {
	b, err := d.ReadByte()
	return b != 0, err
}

func (d *Decoder) ReadInt16() (int16, error) {
	v, err := d.ReadUint16()
	return int16(v), err
}

func (d *Decoder) ReadUint16() (uint16, error) {
	if err := d.fill(d.scratch[:2]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(d.scratch[:2]), nil
}

func (d *Decoder) ReadInt32() (int32, error) {
	v, err := d.ReadUint32()
	return int32(v), err
}

func (d *Decoder) ReadUint32() (uint32, error) {
	if err := d.fill(d.scratch[:4]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(d.scratch[:4]), nil
}

func (d *Decoder) ReadInt64() (int64, error) {
	if err := d.fill(d.scratch[:8]); err != nil {
		return 0, err
	}
	return int64(binary.BigEndian.Uint64(d.scratch[:8])), nil
}

// Lengths come from the peer. Buffers grow by at most this much per read,
// so memory follows the bytes that actually arrive.
const readChunkSize = 64 << 10

// ReadBytes reads exactly n bytes into a new slice.
func (d *Decoder) ReadBytes(n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: negative length %d", ErrMalformed, n)
	}
	if rem := d.Remaining(); rem >= 0 && int64(n) > rem {
		return nil, ErrLimitExceeded
	}
	if n <= readChunkSize {
		p := make([]byte, n)
		if err := d.fill(p); err != nil {
			return nil, err
		}
		return p, nil
	}

	p := make([]byte, 0, readChunkSize)
	for len(p) < n {
		chunk := min(n-len(p), readChunkSize)
		p = slices.Grow(p, chunk)
		if err := d.fill(p[len(p) : len(p)+chunk]); err != nil {
			return nil, err
		}
		p = p[:len(p)+chunk]
	}
	return p, nil
}

// ReadUTF reads a modified UTF-8 string with an unsigned 16-bit length.
func (d *Decoder) ReadUTF() (string, error) {
	n, err := d.ReadUint16()
	if err != nil {
		return "", err
	}
	p, err := d.ReadBytes(int(n))
	if err != nil {
		return "", err
	}
	return DecodeModifiedUTF8(p)
}

// ReadASCII reads a string written by Encoder.WriteASCII.
func (d *Decoder) ReadASCII() (string, error) {
	n, err := d.ReadUint16()
	if err != nil {
		return "", err
	}
	p, err := d.ReadBytes(int(n))
	if err != nil {
		return "", err
	}
	return string(p), nil
}
