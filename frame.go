package openwire

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/tomruk/openwire-go/command"
	"github.com/tomruk/openwire-go/internal/sync"
	"github.com/tomruk/openwire-go/wire"
)

// FrameWriter writes commands to a stream, each preceded by its length
// unless the size prefix was negotiated away.
type FrameWriter struct {
	w io.Writer
	f *Format

	mu sync.Mutex
	e  *wire.Encoder
}

func NewFrameWriter(w io.Writer, f *Format) *FrameWriter {
	return &FrameWriter{
		w: w,
		f: f,
		e: wire.NewEncoder(encodeSizeHint),
	}
}

// WriteCommand encodes cmd and writes it with a single Write call. Nothing
// is written if cmd exceeds the negotiated maximum frame size.
func (fw *FrameWriter) WriteCommand(cmd command.DataStructure) error {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	fw.e.Reset()
	if err := fw.f.encode(fw.e, cmd, true); err != nil {
		return err
	}
	_, err := fw.w.Write(fw.e.Bytes())
	return err
}

// FrameReader reads the commands written by a FrameWriter.
type FrameReader struct {
	r *bufio.Reader
	f *Format

	mu sync.Mutex
}

func NewFrameReader(r io.Reader, f *Format) *FrameReader {
	return &FrameReader{
		r: bufio.NewReader(r),
		f: f,
	}
}

// ReadCommand reads and decodes the next frame. It returns io.EOF, unwrapped,
// if the stream ends exactly at a frame boundary.
func (fr *FrameReader) ReadCommand() (command.DataStructure, error) {
	fr.mu.Lock()
	defer fr.mu.Unlock()

	if _, err := fr.r.Peek(1); err != nil {
		return nil, err
	}

	if !fr.f.SizePrefix() {
		limit := fr.f.MaxFrameSize()
		if limit <= 0 {
			limit = -1
		}
		d := wire.NewDecoder(fr.r, limit)
		v, err := fr.f.decode(d)
		if errors.Is(err, wire.ErrLimitExceeded) {
			return nil, fmt.Errorf("%w: limit is %d", ErrFrameTooLarge, limit)
		}
		return v, err
	}

	size, err := wire.NewDecoder(fr.r, 4).ReadInt32()
	if err != nil {
		return nil, err
	}
	if size < 0 {
		return nil, fmt.Errorf("%w: negative frame size %d", ErrMalformedFrame, size)
	}
	if max := fr.f.MaxFrameSize(); max > 0 && int64(size) > max {
		return nil, fmt.Errorf("%w: %d bytes, limit is %d", ErrFrameTooLarge, size, max)
	}

	d := wire.NewDecoder(fr.r, int64(size))
	v, err := fr.f.decode(d)
	if err != nil {
		return nil, err
	}
	if n := d.Remaining(); n != 0 {
		return nil, fmt.Errorf("%w: %d bytes left in frame of %T", ErrMalformedFrame, n, v)
	}
	return v, nil
}
