package command

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"
)

// Compress deflates Content in place and sets Compressed. It does nothing if
// the body is empty or already compressed.
func (m *Message) Compress() error {
	if m.Compressed || len(m.Content) == 0 {
		return nil
	}
	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	if _, err := w.Write(m.Content); err != nil {
		return fmt.Errorf("command: compress message body: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("command: compress message body: %w", err)
	}
	m.Content = buf.Bytes()
	m.Compressed = true
	return nil
}

// Decompress inflates Content in place and clears Compressed.
func (m *Message) Decompress() error {
	if !m.Compressed {
		return nil
	}
	content, err := inflate(m.Content)
	if err != nil {
		return err
	}
	m.Content = content
	m.Compressed = false
	return nil
}

// body returns Content, inflated if needed, without modifying the message.
func (m *Message) body() ([]byte, error) {
	if !m.Compressed {
		return m.Content, nil
	}
	return inflate(m.Content)
}

func inflate(p []byte) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(p))
	if err != nil {
		return nil, fmt.Errorf("command: decompress message body: %w", err)
	}
	defer r.Close()
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("command: decompress message body: %w", err)
	}
	return b, nil
}
