package marshal

import (
	"fmt"
	"reflect"

	"github.com/tomruk/openwire-go/command"
	"github.com/tomruk/openwire-go/wire"
)

// Marshaller (de)serializes one data structure type in one protocol
// version. Tight marshalling runs in two passes over the same boolean
// stream: TightMarshal1 records the bits and returns the number of field
// bytes, TightMarshal2 reads the bits back and writes those bytes.
type Marshaller interface {
	DataStructureType() byte
	CreateObject() command.DataStructure

	TightMarshal1(s *Session, v command.DataStructure, bs *wire.BooleanStream) (int, error)
	TightMarshal2(s *Session, v command.DataStructure, e *wire.Encoder, bs *wire.BooleanStream) error
	TightUnmarshal(s *Session, v command.DataStructure, d *wire.Decoder, bs *wire.BooleanStream) error

	LooseMarshal(s *Session, v command.DataStructure, e *wire.Encoder) error
	LooseUnmarshal(s *Session, v command.DataStructure, d *wire.Decoder) error
}

// structMarshaller is compiled from a struct's fields and tags. Embedded
// supertypes get their own structMarshaller, held in parent and always run
// before the struct's own fields.
type structMarshaller struct {
	tag    byte
	typ    reflect.Type
	parent *structMarshaller
	fields []*field
}

var _ Marshaller = (*structMarshaller)(nil)

func (m *structMarshaller) DataStructureType() byte { return m.tag }

func (m *structMarshaller) CreateObject() command.DataStructure {
	return reflect.New(m.typ).Interface().(command.DataStructure)
}

// Fields returns the names of the fields written in this version, supertype
// fields first.
func (m *structMarshaller) Fields() []string {
	var names []string
	if m.parent != nil {
		names = m.parent.Fields()
	}
	for _, f := range m.fields {
		names = append(names, f.name)
	}
	return names
}

func (m *structMarshaller) value(v command.DataStructure) (reflect.Value, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return reflect.Value{}, fmt.Errorf("marshal: %T: %w", v, errDataStructureNotPtr)
	}
	rv = rv.Elem()
	if rv.Type() != m.typ {
		return reflect.Value{}, fmt.Errorf("marshal: %T is not handled by the marshaller for %s", v, m.typ)
	}
	return rv, nil
}

func (m *structMarshaller) TightMarshal1(s *Session, v command.DataStructure, bs *wire.BooleanStream) (int, error) {
	rv, err := m.value(v)
	if err != nil {
		return 0, err
	}
	return m.tight1(s, rv, bs)
}

func (m *structMarshaller) TightMarshal2(s *Session, v command.DataStructure, e *wire.Encoder, bs *wire.BooleanStream) error {
	rv, err := m.value(v)
	if err != nil {
		return err
	}
	return m.tight2(s, rv, e, bs)
}

func (m *structMarshaller) TightUnmarshal(s *Session, v command.DataStructure, d *wire.Decoder, bs *wire.BooleanStream) error {
	rv, err := m.value(v)
	if err != nil {
		return err
	}
	return m.tightUnmarshal(s, rv, d, bs)
}

func (m *structMarshaller) LooseMarshal(s *Session, v command.DataStructure, e *wire.Encoder) error {
	rv, err := m.value(v)
	if err != nil {
		return err
	}
	return m.looseMarshal(s, rv, e)
}

func (m *structMarshaller) LooseUnmarshal(s *Session, v command.DataStructure, d *wire.Decoder) error {
	rv, err := m.value(v)
	if err != nil {
		return err
	}
	return m.looseUnmarshal(s, rv, d)
}

func (m *structMarshaller) tight1(s *Session, rv reflect.Value, bs *wire.BooleanStream) (int, error) {
	rc := 0
	if m.parent != nil {
		n, err := m.parent.tight1(s, rv.Field(0), bs)
		if err != nil {
			return 0, err
		}
		rc += n
	}
	for _, f := range m.fields {
		n, err := f.tight1(s, rv.Field(f.index), bs)
		if err != nil {
			return 0, f.wrap(err)
		}
		rc += n
	}
	return rc, nil
}

func (m *structMarshaller) tight2(s *Session, rv reflect.Value, e *wire.Encoder, bs *wire.BooleanStream) error {
	if m.parent != nil {
		if err := m.parent.tight2(s, rv.Field(0), e, bs); err != nil {
			return err
		}
	}
	for _, f := range m.fields {
		if err := f.tight2(s, rv.Field(f.index), e, bs); err != nil {
			return f.wrap(err)
		}
	}
	return nil
}

func (m *structMarshaller) tightUnmarshal(s *Session, rv reflect.Value, d *wire.Decoder, bs *wire.BooleanStream) error {
	if m.parent != nil {
		if err := m.parent.tightUnmarshal(s, rv.Field(0), d, bs); err != nil {
			return err
		}
	}
	for _, f := range m.fields {
		if err := f.tightUnmarshal(s, rv.Field(f.index), d, bs); err != nil {
			return f.wrap(err)
		}
	}
	return nil
}

func (m *structMarshaller) looseMarshal(s *Session, rv reflect.Value, e *wire.Encoder) error {
	if m.parent != nil {
		if err := m.parent.looseMarshal(s, rv.Field(0), e); err != nil {
			return err
		}
	}
	for _, f := range m.fields {
		if err := f.looseMarshal(s, rv.Field(f.index), e); err != nil {
			return f.wrap(err)
		}
	}
	return nil
}

func (m *structMarshaller) looseUnmarshal(s *Session, rv reflect.Value, d *wire.Decoder) error {
	if m.parent != nil {
		if err := m.parent.looseUnmarshal(s, rv.Field(0), d); err != nil {
			return err
		}
	}
	for _, f := range m.fields {
		if err := f.looseUnmarshal(s, rv.Field(f.index), d); err != nil {
			return f.wrap(err)
		}
	}
	return nil
}
