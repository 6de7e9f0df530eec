package marshal

import (
	"fmt"
	"reflect"

	"github.com/tomruk/openwire-go/command"
	"github.com/tomruk/openwire-go/wire"
)

type field struct {
	owner    string
	name     string
	index    int
	kind     fieldKind
	required bool
	typ      reflect.Type
	length   int
}

func (f *field) wrap(err error) error {
	if _, ok := err.(*RequiredFieldError); ok {
		return err
	}
	return fmt.Errorf("%s.%s: %w", f.owner, f.name, err)
}

func (f *field) checkRequired(fv reflect.Value) error {
	if f.required && isAbsent(fv) {
		return &RequiredFieldError{Type: f.owner, Field: f.name}
	}
	return nil
}

func isAbsent(fv reflect.Value) bool {
	switch fv.Kind() {
	case reflect.String:
		return fv.Len() == 0
	case reflect.Slice, reflect.Pointer:
		return fv.IsNil()
	case reflect.Interface:
		return objectOf(fv) == nil
	}
	return false
}

// objectOf returns the data structure held by an object field, or nil. An
// interface holding a nil pointer counts as nil.
func objectOf(fv reflect.Value) command.DataStructure {
	if fv.IsNil() {
		return nil
	}
	if fv.Kind() == reflect.Interface {
		if e := fv.Elem(); e.Kind() == reflect.Pointer && e.IsNil() {
			return nil
		}
	}
	return fv.Interface().(command.DataStructure)
}

func setObject(fv reflect.Value, v command.DataStructure) error {
	if v == nil {
		fv.Set(reflect.Zero(fv.Type()))
		return nil
	}
	rv := reflect.ValueOf(v)
	if !rv.Type().AssignableTo(fv.Type()) {
		return fmt.Errorf("%w: %T cannot be stored in a %s field", ErrTypeMismatch, v, fv.Type())
	}
	fv.Set(rv)
	return nil
}

func throwableOf(fv reflect.Value) *command.BrokerError {
	return fv.Interface().(*command.BrokerError)
}

func constBytesOf(fv reflect.Value, n int) []byte {
	b := make([]byte, n)
	reflect.Copy(reflect.ValueOf(b), fv)
	return b
}

func (f *field) tight1(s *Session, fv reflect.Value, bs *wire.BooleanStream) (int, error) {
	if err := f.checkRequired(fv); err != nil {
		return 0, err
	}
	switch f.kind {
	case kindBool:
		return TightMarshalBool1(bs, fv.Bool()), nil
	case kindByte:
		return 1, nil
	case kindShort:
		return 2, nil
	case kindInt:
		return 4, nil
	case kindLong:
		return TightMarshalLong1(bs, fv.Int()), nil
	case kindString:
		return TightMarshalString1(bs, fv.String())
	case kindBytes:
		return TightMarshalByteArray1(bs, fv.Bytes()), nil
	case kindConstBytes:
		return TightMarshalConstByteArray1(f.length), nil
	case kindThrowable:
		return s.tightMarshalThrowable1(throwableOf(fv), bs)
	case kindNested:
		return s.tightMarshalNested1(objectOf(fv), bs)
	case kindCached:
		return s.tightMarshalCached1(objectOf(fv), bs)
	case kindObjectArray:
		return s.tightMarshalObjectArray1(fv, bs)
	}
	return 0, wrapInternalError(fmt.Errorf("unhandled field kind %s", f.kind))
}

func (f *field) tight2(s *Session, fv reflect.Value, e *wire.Encoder, bs *wire.BooleanStream) error {
	switch f.kind {
	case kindBool:
		return TightMarshalBool2(bs)
	case kindByte:
		e.WriteByte(byte(fv.Uint()))
	case kindShort:
		e.WriteInt16(int16(fv.Int()))
	case kindInt:
		e.WriteInt32(int32(fv.Int()))
	case kindLong:
		return TightMarshalLong2(e, bs, fv.Int())
	case kindString:
		return TightMarshalString2(e, bs, fv.String())
	case kindBytes:
		return TightMarshalByteArray2(e, bs, fv.Bytes())
	case kindConstBytes:
		MarshalConstByteArray(e, constBytesOf(fv, f.length), f.length)
	case kindThrowable:
		return s.tightMarshalThrowable2(throwableOf(fv), e, bs)
	case kindNested:
		return s.tightMarshalNested2(objectOf(fv), e, bs)
	case kindCached:
		return s.tightMarshalCached2(objectOf(fv), e, bs)
	case kindObjectArray:
		return s.tightMarshalObjectArray2(fv, e, bs)
	default:
		return wrapInternalError(fmt.Errorf("unhandled field kind %s", f.kind))
	}
	return nil
}

func (f *field) tightUnmarshal(s *Session, fv reflect.Value, d *wire.Decoder, bs *wire.BooleanStream) error {
	switch f.kind {
	case kindBool:
		b, err := TightUnmarshalBool(bs)
		if err != nil {
			return err
		}
		fv.SetBool(b)
	case kindLong:
		v, err := TightUnmarshalLong(d, bs)
		if err != nil {
			return err
		}
		fv.SetInt(v)
	case kindString:
		v, err := TightUnmarshalString(d, bs)
		if err != nil {
			return err
		}
		fv.SetString(v)
	case kindBytes:
		b, err := TightUnmarshalByteArray(d, bs)
		if err != nil {
			return err
		}
		fv.SetBytes(b)
	case kindThrowable:
		t, err := s.tightUnmarshalThrowable(d, bs)
		if err != nil {
			return err
		}
		fv.Set(reflect.ValueOf(t))
	case kindNested:
		v, err := s.tightUnmarshalNested(d, bs)
		if err != nil {
			return err
		}
		return setObject(fv, v)
	case kindCached:
		v, err := s.tightUnmarshalCached(d, bs)
		if err != nil {
			return err
		}
		return setObject(fv, v)
	case kindObjectArray:
		return s.tightUnmarshalObjectArray(fv, d, bs)
	default:
		return f.readFixed(fv, d)
	}
	return nil
}

func (f *field) looseMarshal(s *Session, fv reflect.Value, e *wire.Encoder) error {
	if err := f.checkRequired(fv); err != nil {
		return err
	}
	switch f.kind {
	case kindBool:
		LooseMarshalBool(e, fv.Bool())
	case kindByte:
		e.WriteByte(byte(fv.Uint()))
	case kindShort:
		e.WriteInt16(int16(fv.Int()))
	case kindInt:
		e.WriteInt32(int32(fv.Int()))
	case kindLong:
		LooseMarshalLong(e, fv.Int())
	case kindString:
		return LooseMarshalString(e, fv.String())
	case kindBytes:
		LooseMarshalByteArray(e, fv.Bytes())
	case kindConstBytes:
		MarshalConstByteArray(e, constBytesOf(fv, f.length), f.length)
	case kindThrowable:
		return s.looseMarshalThrowable(throwableOf(fv), e)
	case kindNested:
		return s.looseMarshalNested(objectOf(fv), e)
	case kindCached:
		return s.looseMarshalCached(objectOf(fv), e)
	case kindObjectArray:
		return s.looseMarshalObjectArray(fv, e)
	default:
		return wrapInternalError(fmt.Errorf("unhandled field kind %s", f.kind))
	}
	return nil
}

func (f *field) looseUnmarshal(s *Session, fv reflect.Value, d *wire.Decoder) error {
	switch f.kind {
	case kindBool:
		b, err := LooseUnmarshalBool(d)
		if err != nil {
			return err
		}
		fv.SetBool(b)
	case kindLong:
		v, err := LooseUnmarshalLong(d)
		if err != nil {
			return err
		}
		fv.SetInt(v)
	case kindString:
		v, err := LooseUnmarshalString(d)
		if err != nil {
			return err
		}
		fv.SetString(v)
	case kindBytes:
		b, err := LooseUnmarshalByteArray(d)
		if err != nil {
			return err
		}
		fv.SetBytes(b)
	case kindThrowable:
		t, err := s.looseUnmarshalThrowable(d)
		if err != nil {
			return err
		}
		fv.Set(reflect.ValueOf(t))
	case kindNested:
		v, err := s.looseUnmarshalNested(d)
		if err != nil {
			return err
		}
		return setObject(fv, v)
	case kindCached:
		v, err := s.looseUnmarshalCached(d)
		if err != nil {
			return err
		}
		return setObject(fv, v)
	case kindObjectArray:
		return s.looseUnmarshalObjectArray(fv, d)
	default:
		return f.readFixed(fv, d)
	}
	return nil
}

// readFixed reads the kinds whose encoding is the same in both modes.
func (f *field) readFixed(fv reflect.Value, d *wire.Decoder) error {
	switch f.kind {
	case kindByte:
		b, err := d.ReadByte()
		if err != nil {
			return err
		}
		fv.SetUint(uint64(b))
	case kindShort:
		v, err := d.ReadInt16()
		if err != nil {
			return err
		}
		fv.SetInt(int64(v))
	case kindInt:
		v, err := d.ReadInt32()
		if err != nil {
			return err
		}
		fv.SetInt(int64(v))
	case kindConstBytes:
		b, err := UnmarshalConstByteArray(d, f.length)
		if err != nil {
			return err
		}
		reflect.Copy(fv, reflect.ValueOf(b))
	default:
		return wrapInternalError(fmt.Errorf("unhandled field kind %s", f.kind))
	}
	return nil
}
