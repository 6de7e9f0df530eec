package openwire

import (
	"errors"

	"github.com/tomruk/openwire-go/marshal"
	"github.com/tomruk/openwire-go/wire"
)

var (
	// ErrMalformedFrame matches every error caused by bytes that do not form
	// a valid frame: truncated input, a boolean stream that does not add up,
	// unknown type tags and cache ids, trailing bytes and bad magic. The
	// connection cannot recover from it.
	ErrMalformedFrame = wire.ErrMalformed

	ErrUnsupportedVersion = marshal.ErrUnsupportedVersion

	// ErrRequiredField is matched by *marshal.RequiredFieldError.
	ErrRequiredField = marshal.ErrRequiredField

	ErrNotNegotiated = errors.New("openwire: only WireFormatInfo may be exchanged before negotiation")
	ErrFrameTooLarge = marshal.ErrFrameTooLarge
)

// InternalError wraps the errors internal to openwire-go.
//
// If you see this error, the problem is neither the input nor the way the
// codec was called, but openwire-go itself. Open an issue on GitHub.
type InternalError = marshal.InternalError
