package marshal

import (
	"math"

	"github.com/tomruk/openwire-go/command"
	"github.com/tomruk/openwire-go/wire"
)

// A throwable is its class name and message. With stack traces enabled the
// trace elements and the cause chain follow.

func (s *Session) tightMarshalThrowable1(t *command.BrokerError, bs *wire.BooleanStream) (int, error) {
	bs.WriteBool(t != nil)
	if t == nil {
		return 0, nil
	}
	if err := s.enter(); err != nil {
		return 0, err
	}
	defer s.leave()
	rc := 0
	for _, str := range []string{t.ExceptionClass, t.Message} {
		n, err := TightMarshalString1(bs, str)
		if err != nil {
			return 0, err
		}
		rc += n
	}
	if !s.stackTrace {
		return rc, nil
	}

	if len(t.StackTrace) > math.MaxInt16 {
		return 0, ErrTooManyElements
	}
	rc += 2
	for _, el := range t.StackTrace {
		for _, str := range []string{el.ClassName, el.MethodName, el.FileName} {
			n, err := TightMarshalString1(bs, str)
			if err != nil {
				return 0, err
			}
			rc += n
		}
		rc += 4
	}
	n, err := s.tightMarshalThrowable1(t.Cause, bs)
	if err != nil {
		return 0, err
	}
	return rc + n, nil
}

func (s *Session) tightMarshalThrowable2(t *command.BrokerError, e *wire.Encoder, bs *wire.BooleanStream) error {
	present, err := bs.ReadBool()
	if err != nil || !present {
		return err
	}
	if err := TightMarshalString2(e, bs, t.ExceptionClass); err != nil {
		return err
	}
	if err := TightMarshalString2(e, bs, t.Message); err != nil {
		return err
	}
	if !s.stackTrace {
		return nil
	}

	e.WriteInt16(int16(len(t.StackTrace)))
	for _, el := range t.StackTrace {
		for _, str := range []string{el.ClassName, el.MethodName, el.FileName} {
			if err := TightMarshalString2(e, bs, str); err != nil {
				return err
			}
		}
		e.WriteInt32(el.LineNumber)
	}
	return s.tightMarshalThrowable2(t.Cause, e, bs)
}

func (s *Session) tightUnmarshalThrowable(d *wire.Decoder, bs *wire.BooleanStream) (*command.BrokerError, error) {
	present, err := bs.ReadBool()
	if err != nil || !present {
		return nil, err
	}
	if err := s.enterDecoded(); err != nil {
		return nil, err
	}
	defer s.leave()
	t := new(command.BrokerError)
	if t.ExceptionClass, err = TightUnmarshalString(d, bs); err != nil {
		return nil, err
	}
	if t.Message, err = TightUnmarshalString(d, bs); err != nil {
		return nil, err
	}
	if !s.stackTrace {
		return t, nil
	}

	n, err := readCount(d)
	if err != nil {
		return nil, err
	}
	if n > 0 {
		t.StackTrace = make([]command.StackTraceElement, n)
	}
	for i := range t.StackTrace {
		el := &t.StackTrace[i]
		if el.ClassName, err = TightUnmarshalString(d, bs); err != nil {
			return nil, err
		}
		if el.MethodName, err = TightUnmarshalString(d, bs); err != nil {
			return nil, err
		}
		if el.FileName, err = TightUnmarshalString(d, bs); err != nil {
			return nil, err
		}
		if el.LineNumber, err = d.ReadInt32(); err != nil {
			return nil, err
		}
	}
	if t.Cause, err = s.tightUnmarshalThrowable(d, bs); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *Session) looseMarshalThrowable(t *command.BrokerError, e *wire.Encoder) error {
	e.WriteBool(t != nil)
	if t == nil {
		return nil
	}
	if err := s.enter(); err != nil {
		return err
	}
	defer s.leave()
	if err := LooseMarshalString(e, t.ExceptionClass); err != nil {
		return err
	}
	if err := LooseMarshalString(e, t.Message); err != nil {
		return err
	}
	if !s.stackTrace {
		return nil
	}

	if len(t.StackTrace) > math.MaxInt16 {
		return ErrTooManyElements
	}
	e.WriteInt16(int16(len(t.StackTrace)))
	for _, el := range t.StackTrace {
		for _, str := range []string{el.ClassName, el.MethodName, el.FileName} {
			if err := LooseMarshalString(e, str); err != nil {
				return err
			}
		}
		e.WriteInt32(el.LineNumber)
	}
	return s.looseMarshalThrowable(t.Cause, e)
}

func (s *Session) looseUnmarshalThrowable(d *wire.Decoder) (*command.BrokerError, error) {
	present, err := d.ReadBool()
	if err != nil || !present {
		return nil, err
	}
	if err := s.enterDecoded(); err != nil {
		return nil, err
	}
	defer s.leave()
	t := new(command.BrokerError)
	if t.ExceptionClass, err = LooseUnmarshalString(d); err != nil {
		return nil, err
	}
	if t.Message, err = LooseUnmarshalString(d); err != nil {
		return nil, err
	}
	if !s.stackTrace {
		return t, nil
	}

	n, err := readCount(d)
	if err != nil {
		return nil, err
	}
	if n > 0 {
		t.StackTrace = make([]command.StackTraceElement, n)
	}
	for i := range t.StackTrace {
		el := &t.StackTrace[i]
		if el.ClassName, err = LooseUnmarshalString(d); err != nil {
			return nil, err
		}
		if el.MethodName, err = LooseUnmarshalString(d); err != nil {
			return nil, err
		}
		if el.FileName, err = LooseUnmarshalString(d); err != nil {
			return nil, err
		}
		if el.LineNumber, err = d.ReadInt32(); err != nil {
			return nil, err
		}
	}
	if t.Cause, err = s.looseUnmarshalThrowable(d); err != nil {
		return nil, err
	}
	return t, nil
}
