package marshal

import (
	"errors"
	"fmt"

	"github.com/tomruk/openwire-go/wire"
)

var (
	ErrUnknownType         = fmt.Errorf("%w: unknown data structure type", wire.ErrMalformed)
	ErrUnknownCacheID      = fmt.Errorf("%w: unknown cache reference", wire.ErrMalformed)
	ErrTypeMismatch        = fmt.Errorf("%w: unexpected data structure type", wire.ErrMalformed)
	ErrMarshalledForm      = fmt.Errorf("%w: pre-marshalled message form is not supported", wire.ErrMalformed)
	ErrUnconsumedBits      = fmt.Errorf("%w: boolean stream not fully consumed", wire.ErrMalformed)
	ErrFrameTooLarge       = fmt.Errorf("%w: frame exceeds the maximum frame size", wire.ErrMalformed)
	ErrUnsupportedVersion  = errors.New("marshal: unsupported protocol version")
	ErrRequiredField       = errors.New("marshal: required field is absent")
	ErrNotCacheable        = errors.New("marshal: value is not cacheable")
	ErrNoMarshaller        = errors.New("marshal: type has no marshaller in this version")
	ErrTooManyElements     = errors.New("marshal: too many elements to encode")
	ErrNestingTooDeep      = errors.New("marshal: structures nested too deeply")
	errMissingCacheRef     = errors.New("reference missing for pass 2")
	errDataStructureNotPtr = errors.New("data structure must be a non-nil pointer")
)

// RequiredFieldError reports an attempt to encode a structure with an
// absent required field. It matches ErrRequiredField.
type RequiredFieldError struct {
	Type  string
	Field string
}

func (e *RequiredFieldError) Error() string {
	return fmt.Sprintf("marshal: required field %s.%s is absent", e.Type, e.Field)
}

func (e *RequiredFieldError) Is(target error) bool {
	return target == ErrRequiredField
}

// InternalError wraps failures that indicate a bug in this package rather
// than bad input or a misuse by the caller.
type InternalError struct {
	err error
}

func (e InternalError) Error() string {
	return "marshal: internal error: " + e.err.Error()
}

func (e InternalError) Unwrap() error {
	return e.err
}

func wrapInternalError(err error) *InternalError {
	return &InternalError{err: err}
}
