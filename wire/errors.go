package wire

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformed is returned for any input that does not follow the wire
	// format. A connection that produced it must be closed.
	ErrMalformed = errors.New("wire: malformed data")

	ErrTruncated       = fmt.Errorf("%w: unexpected end of data", ErrMalformed)
	ErrLimitExceeded   = fmt.Errorf("%w: read past the decoder limit", ErrTruncated)
	ErrBooleanOverrun  = fmt.Errorf("%w: read past the end of the boolean stream", ErrMalformed)
	ErrStringTooLong   = errors.New("wire: string is too long to encode")
	ErrBooleanTooLarge = errors.New("wire: boolean stream is too large to encode")
	ErrUnsupportedType = errors.New("wire: unsupported primitive map value type")
)
