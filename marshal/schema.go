package marshal

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/tomruk/openwire-go/command"
)

type fieldKind int

const (
	kindBool fieldKind = iota
	kindByte
	kindShort
	kindInt
	kindLong
	kindString
	kindBytes
	kindConstBytes
	kindThrowable
	kindNested
	kindCached
	kindObjectArray
)

var kindNames = [...]string{
	kindBool:        "boolean",
	kindByte:        "byte",
	kindShort:       "short",
	kindInt:         "int",
	kindLong:        "long",
	kindString:      "string",
	kindBytes:       "byte array",
	kindConstBytes:  "constant byte array",
	kindThrowable:   "throwable",
	kindNested:      "nested object",
	kindCached:      "cached object",
	kindObjectArray: "object array",
}

func (k fieldKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "<invalid>"
}

var (
	errFieldOrder       = errors.New("field added in an older version follows a newer one")
	errEmbeddedPosition = errors.New("embedded supertype must be the first field")
	errUnsupportedField = errors.New("unsupported field type")
	errObjectMode       = errors.New("object field must be tagged cached or nested")
	errBadTag           = errors.New("invalid openwire tag")
	errNotCacheableType = errors.New("field type cannot be cached")
)

var (
	dataStructureType = reflect.TypeOf((*command.DataStructure)(nil)).Elem()
	brokerErrorType   = reflect.TypeOf((*command.BrokerError)(nil))

	// Static types a cached field may be declared with. DataStructure is
	// accepted and checked against cacheableTypes per value.
	cacheableFieldTypes = mapset.NewThreadUnsafeSet(
		reflect.TypeOf((*command.ConnectionID)(nil)),
		reflect.TypeOf((*command.SessionID)(nil)),
		reflect.TypeOf((*command.ConsumerID)(nil)),
		reflect.TypeOf((*command.ProducerID)(nil)),
		reflect.TypeOf((*command.BrokerID)(nil)),
		reflect.TypeOf((*command.MessageID)(nil)),
		reflect.TypeOf((*command.LocalTransactionID)(nil)),
		reflect.TypeOf((*command.XATransactionID)(nil)),
		reflect.TypeOf((*command.ActiveMQQueue)(nil)),
		reflect.TypeOf((*command.ActiveMQTopic)(nil)),
		reflect.TypeOf((*command.ActiveMQTempQueue)(nil)),
		reflect.TypeOf((*command.ActiveMQTempTopic)(nil)),
		reflect.TypeOf((*command.Destination)(nil)).Elem(),
		reflect.TypeOf((*command.TransactionID)(nil)).Elem(),
		dataStructureType,
	)
)

type tagOptions struct {
	cached   bool
	nested   bool
	required bool
	skip     bool
	since    int
}

func parseTag(tag string) (tagOptions, error) {
	opts := tagOptions{since: MinVersion}
	if tag == "" {
		return opts, nil
	}
	if tag == "-" {
		opts.skip = true
		return opts, nil
	}
	for _, part := range strings.Split(tag, ",") {
		switch {
		case part == "cached":
			opts.cached = true
		case part == "nested":
			opts.nested = true
		case part == "required":
			opts.required = true
		case strings.HasPrefix(part, "since="):
			n, err := strconv.Atoi(strings.TrimPrefix(part, "since="))
			if err != nil || n < MinVersion {
				return opts, fmt.Errorf("%w: %q", errBadTag, tag)
			}
			opts.since = n
		default:
			return opts, fmt.Errorf("%w: %q", errBadTag, tag)
		}
	}
	if opts.cached && opts.nested {
		return opts, fmt.Errorf("%w: %q: cached and nested are exclusive", errBadTag, tag)
	}
	return opts, nil
}

func isObjectType(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Pointer, reflect.Interface:
		return t.Implements(dataStructureType)
	}
	return false
}

func fieldKindOf(t reflect.Type, opts tagOptions) (fieldKind, error) {
	if t == brokerErrorType {
		if opts.cached || opts.nested {
			return 0, errObjectMode
		}
		return kindThrowable, nil
	}
	if isObjectType(t) {
		switch {
		case opts.cached:
			if !cacheableFieldTypes.Contains(t) {
				return 0, fmt.Errorf("%w: %s", errNotCacheableType, t)
			}
			return kindCached, nil
		case opts.nested:
			return kindNested, nil
		default:
			return 0, errObjectMode
		}
	}
	if opts.cached || opts.nested {
		return 0, fmt.Errorf("%w: %s is not an object", errBadTag, t)
	}

	switch t.Kind() {
	case reflect.Bool:
		return kindBool, nil
	case reflect.Uint8:
		return kindByte, nil
	case reflect.Int16:
		return kindShort, nil
	case reflect.Int32:
		return kindInt, nil
	case reflect.Int64:
		return kindLong, nil
	case reflect.String:
		return kindString, nil
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			return kindBytes, nil
		}
		if isObjectType(t.Elem()) {
			return kindObjectArray, nil
		}
	case reflect.Array:
		if t.Elem().Kind() == reflect.Uint8 {
			return kindConstBytes, nil
		}
	}
	return 0, fmt.Errorf("%w: %s", errUnsupportedField, t)
}

// compiler builds the marshallers of one protocol version. Supertypes are
// compiled once and shared by every subtype.
type compiler struct {
	version int
	built   map[reflect.Type]*structMarshaller
}

func newCompiler(version int) *compiler {
	return &compiler{version: version, built: make(map[reflect.Type]*structMarshaller)}
}

func (c *compiler) compile(proto command.DataStructure) (*structMarshaller, error) {
	t := reflect.TypeOf(proto)
	if t.Kind() != reflect.Pointer || t.Elem().Kind() != reflect.Struct {
		return nil, fmt.Errorf("marshal: %T: %w", proto, errDataStructureNotPtr)
	}
	m, err := c.compileStruct(t.Elem())
	if err != nil {
		return nil, err
	}
	if m.tag != proto.DataStructureType() {
		return nil, wrapInternalError(fmt.Errorf("%s compiled with tag %d", t, m.tag))
	}
	return m, nil
}

func (c *compiler) compileStruct(t reflect.Type) (*structMarshaller, error) {
	if m, ok := c.built[t]; ok {
		return m, nil
	}
	m := &structMarshaller{typ: t}
	if ds, ok := reflect.New(t).Interface().(command.DataStructure); ok {
		m.tag = ds.DataStructureType()
	}

	lastSince := MinVersion
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if sf.Anonymous {
			if i != 0 || sf.Type.Kind() != reflect.Struct {
				return nil, fmt.Errorf("marshal: %s.%s: %w", t.Name(), sf.Name, errEmbeddedPosition)
			}
			parent, err := c.compileStruct(sf.Type)
			if err != nil {
				return nil, fmt.Errorf("marshal: supertype of %s: %w", t.Name(), err)
			}
			m.parent = parent
			continue
		}
		if !sf.IsExported() {
			continue
		}

		opts, err := parseTag(sf.Tag.Get("openwire"))
		if err != nil {
			return nil, fmt.Errorf("marshal: %s.%s: %w", t.Name(), sf.Name, err)
		}
		if opts.skip {
			continue
		}
		kind, err := fieldKindOf(sf.Type, opts)
		if err != nil {
			return nil, fmt.Errorf("marshal: %s.%s: %w", t.Name(), sf.Name, err)
		}
		if opts.since < lastSince {
			return nil, fmt.Errorf("marshal: %s.%s (since %d): %w", t.Name(), sf.Name, opts.since, errFieldOrder)
		}
		lastSince = opts.since
		if opts.since > c.version {
			continue
		}

		f := &field{
			owner:    t.Name(),
			name:     sf.Name,
			index:    i,
			kind:     kind,
			required: opts.required,
			typ:      sf.Type,
		}
		if kind == kindConstBytes {
			f.length = sf.Type.Len()
		}
		m.fields = append(m.fields, f)
	}

	c.built[t] = m
	return m, nil
}
