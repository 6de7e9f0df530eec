package marshal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tomruk/openwire-go/command"
)

type outOfOrder struct {
	command.BaseCommand
	Newer string `openwire:"since=3"`
	Older string `openwire:"since=2"`
}

func (*outOfOrder) DataStructureType() byte { return 200 }

type bareObject struct {
	ID *command.ConsumerID
}

func (*bareObject) DataStructureType() byte { return 201 }

type cachedMessage struct {
	Message command.AnyMessage `openwire:"cached"`
}

func (*cachedMessage) DataStructureType() byte { return 202 }

type lateEmbed struct {
	Name string
	command.BaseCommand
}

func (*lateEmbed) DataStructureType() byte { return 203 }

type floatField struct {
	Ratio float64
}

func (*floatField) DataStructureType() byte { return 204 }

type badTag struct {
	Name string `openwire:"sometimes"`
}

func (*badTag) DataStructureType() byte { return 205 }

type nestedString struct {
	Name string `openwire:"nested"`
}

func (*nestedString) DataStructureType() byte { return 206 }

type duplicateQueue struct {
	command.ActiveMQDestination
}

func (*duplicateQueue) DataStructureType() byte { return command.TypeActiveMQQueue }

type skipped struct {
	Name   string
	Cached map[string]int `openwire:"-"`
	hidden int
	Count  int32 `openwire:"since=4"`
}

func (*skipped) DataStructureType() byte { return 207 }

func TestBuildTableRejects(t *testing.T) {
	tests := []struct {
		name  string
		proto command.DataStructure
		err   error
	}{
		{name: "field order", proto: &outOfOrder{}, err: errFieldOrder},
		{name: "object without mode", proto: &bareObject{}, err: errObjectMode},
		{name: "not cacheable", proto: &cachedMessage{}, err: errNotCacheableType},
		{name: "embedded position", proto: &lateEmbed{}, err: errEmbeddedPosition},
		{name: "unsupported kind", proto: &floatField{}, err: errUnsupportedField},
		{name: "unknown tag option", proto: &badTag{}, err: errBadTag},
		{name: "nested non-object", proto: &nestedString{}, err: errBadTag},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			// The order check does not depend on which fields a version keeps.
			_, err := buildTable(1, []registration{{proto: test.proto}})
			assert.ErrorIs(t, err, test.err)
		})
	}
}

func TestBuildTableDuplicateTag(t *testing.T) {
	_, err := buildTable(MaxVersion, []registration{
		{proto: &command.ActiveMQQueue{}},
		{proto: &duplicateQueue{}},
	})
	assert.ErrorContains(t, err, "duplicate type tag")
}

func TestCompileSkipsFields(t *testing.T) {
	v3, err := buildTable(3, []registration{{proto: &skipped{}}})
	require.NoError(t, err)
	m, ok := v3.Lookup(207)
	require.True(t, ok)
	assert.Equal(t, []string{"Name"}, m.(*structMarshaller).Fields())

	v4, err := buildTable(4, []registration{{proto: &skipped{}}})
	require.NoError(t, err)
	m, _ = v4.Lookup(207)
	assert.Equal(t, []string{"Name", "Count"}, m.(*structMarshaller).Fields())
}

func TestParseTag(t *testing.T) {
	opts, err := parseTag("cached,required,since=3")
	require.NoError(t, err)
	assert.Equal(t, tagOptions{cached: true, required: true, since: 3}, opts)

	opts, err = parseTag("")
	require.NoError(t, err)
	assert.Equal(t, MinVersion, opts.since)

	_, err = parseTag("cached,nested")
	assert.ErrorIs(t, err, errBadTag)
	_, err = parseTag("since=0")
	assert.ErrorIs(t, err, errBadTag)
	_, err = parseTag("since=x")
	assert.ErrorIs(t, err, errBadTag)
}

func TestTables(t *testing.T) {
	versions := Versions()
	assert.Equal(t, MaxVersion-MinVersion+1, versions.Cardinality())
	for v := MinVersion; v <= MaxVersion; v++ {
		assert.True(t, versions.Contains(v))
		table, err := TableFor(v)
		require.NoError(t, err)
		assert.Equal(t, v, table.Version())
	}

	_, err := TableFor(0)
	assert.ErrorIs(t, err, ErrUnsupportedVersion)
	_, err = TableFor(MaxVersion + 1)
	assert.ErrorIs(t, err, ErrUnsupportedVersion)

	// The returned set is a copy.
	versions.Add(42)
	_, err = TableFor(42)
	assert.ErrorIs(t, err, ErrUnsupportedVersion)
}

func TestTypeAvailability(t *testing.T) {
	v2, err := TableFor(2)
	require.NoError(t, err)
	v3, err := TableFor(3)
	require.NoError(t, err)

	for _, tag := range []byte{command.TypeProducerAck, command.TypeActiveMQBlobMessage} {
		_, ok := v2.Lookup(tag)
		assert.False(t, ok, "type %d in version 2", tag)
		_, ok = v3.Lookup(tag)
		assert.True(t, ok, "type %d in version 3", tag)
	}
	assert.Len(t, v3.Tags(), len(registrations))
	assert.Len(t, v2.Tags(), len(registrations)-2)
}

func TestBootstrapTable(t *testing.T) {
	b := BootstrapTable()
	assert.Equal(t, 0, b.Version())
	assert.Equal(t, []byte{command.TypeWireFormatInfo}, b.Tags())

	m, ok := b.Lookup(command.TypeWireFormatInfo)
	require.True(t, ok)
	assert.Equal(t, []string{"Magic", "Version", "MarshalledProperties"}, m.(*structMarshaller).Fields())
}

func TestSupertypeShared(t *testing.T) {
	table, err := TableFor(MaxVersion)
	require.NoError(t, err)
	text, _ := table.Lookup(command.TypeActiveMQTextMessage)
	bytesMsg, _ := table.Lookup(command.TypeActiveMQBytesMessage)
	assert.Same(t, text.(*structMarshaller).parent, bytesMsg.(*structMarshaller).parent)
}
