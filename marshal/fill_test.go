package marshal

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tomruk/openwire-go/command"
	"github.com/tomruk/openwire-go/wire"
)

var (
	destinationType   = reflect.TypeOf((*command.Destination)(nil)).Elem()
	transactionIDType = reflect.TypeOf((*command.TransactionID)(nil)).Elem()
	anyMessageType    = reflect.TypeOf((*command.AnyMessage)(nil)).Elem()
)

const maxFillDepth = 3

// filler populates every field a protocol version knows about with distinct
// values, so equal decoded values prove each field survived.
type filler struct {
	version int
	n       int
}

func newFiller(version int) *filler { return &filler{version: version} }

func (f *filler) next() int {
	f.n++
	return f.n
}

func (f *filler) populate(v command.DataStructure) command.DataStructure {
	f.fill(reflect.ValueOf(v).Elem(), 0)
	return v
}

func (f *filler) fill(v reflect.Value, depth int) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if sf.Anonymous {
			f.fill(v.Field(i), depth)
			continue
		}
		if !sf.IsExported() {
			continue
		}
		opts, err := parseTag(sf.Tag.Get("openwire"))
		if err != nil || opts.skip || opts.since > f.version {
			continue
		}
		f.fillValue(v.Field(i), depth)
	}
}

func (f *filler) fillValue(fv reflect.Value, depth int) {
	t := fv.Type()
	if t == brokerErrorType {
		fv.Set(reflect.ValueOf(&command.BrokerError{
			ExceptionClass: fmt.Sprintf("java.lang.Exception%d", f.next()),
			Message:        fmt.Sprintf("failure é %d", f.next()),
			StackTrace: []command.StackTraceElement{
				{ClassName: "Broker", MethodName: "send", FileName: "Broker.java", LineNumber: int32(f.next())},
			},
			Cause: &command.BrokerError{ExceptionClass: "java.io.IOException", Message: fmt.Sprintf("cause %d", f.next())},
		}))
		return
	}

	switch t.Kind() {
	case reflect.Bool:
		fv.SetBool(true)
	case reflect.Uint8:
		fv.SetUint(uint64(f.next() % 256))
	case reflect.Int16, reflect.Int32:
		fv.SetInt(int64(f.next()))
	case reflect.Int64:
		n := int64(f.next())
		switch n % 4 {
		case 0:
			fv.SetInt(n)
		case 1:
			fv.SetInt(n << 16)
		case 2:
			fv.SetInt(n<<40 | n)
		default:
			fv.SetInt(-n)
		}
	case reflect.String:
		fv.SetString(fmt.Sprintf("s-%d", f.next()))
	case reflect.Array:
		reflect.Copy(fv, reflect.ValueOf(command.Magic[:]))
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			n := byte(f.next())
			fv.SetBytes([]byte{n, n + 1, 0, 0xFF})
			return
		}
		if depth >= maxFillDepth {
			return
		}
		arr := reflect.MakeSlice(t, 2, 2)
		for i := 0; i < 2; i++ {
			arr.Index(i).Set(f.newObject(t.Elem(), depth+1))
		}
		fv.Set(arr)
	case reflect.Pointer, reflect.Interface:
		if depth >= maxFillDepth {
			return
		}
		fv.Set(f.newObject(t, depth+1))
	}
}

func (f *filler) newObject(t reflect.Type, depth int) reflect.Value {
	var obj command.DataStructure
	switch t {
	case destinationType:
		switch f.next() % 4 {
		case 0:
			obj = &command.ActiveMQQueue{}
		case 1:
			obj = &command.ActiveMQTopic{}
		case 2:
			obj = &command.ActiveMQTempQueue{}
		default:
			obj = &command.ActiveMQTempTopic{}
		}
	case transactionIDType:
		if f.next()%2 == 0 {
			obj = &command.LocalTransactionID{}
		} else {
			obj = &command.XATransactionID{}
		}
	case anyMessageType:
		obj = &command.ActiveMQTextMessage{}
	case dataStructureType:
		obj = &command.SessionID{}
	default:
		obj = reflect.New(t.Elem()).Interface().(command.DataStructure)
	}
	f.fill(reflect.ValueOf(obj).Elem(), depth)
	return reflect.ValueOf(obj)
}

func mustSession(t *testing.T, version int, cache bool) *Session {
	t.Helper()
	table, err := TableFor(version)
	require.NoError(t, err)
	return NewSession(table, SessionConfig{CacheEnabled: cache, CacheSize: DefaultCacheSize, StackTraceEnabled: true})
}

func mustMarshal(t *testing.T, s *Session, v command.DataStructure, tight bool) []byte {
	t.Helper()
	e := wire.NewEncoder(128)
	var err error
	if tight {
		err = s.MarshalTight(e, v, false)
	} else {
		err = s.MarshalLoose(e, v, false)
	}
	require.NoError(t, err)
	return e.Bytes()
}

func unmarshal(s *Session, b []byte, tight bool) (command.DataStructure, *wire.Decoder, error) {
	d := wire.NewBytesDecoder(b)
	var (
		v   command.DataStructure
		err error
	)
	if tight {
		v, err = s.UnmarshalTight(d)
	} else {
		v, err = s.UnmarshalLoose(d)
	}
	return v, d, err
}

func mustUnmarshal(t *testing.T, s *Session, b []byte, tight bool) command.DataStructure {
	t.Helper()
	v, d, err := unmarshal(s, b, tight)
	require.NoError(t, err)
	require.Zero(t, d.Remaining(), "trailing bytes")
	return v
}
