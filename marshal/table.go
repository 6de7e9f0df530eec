package marshal

import (
	"fmt"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/tomruk/openwire-go/command"
)

const (
	MinVersion = 1
	MaxVersion = 6
)

// Table maps type tags to the marshallers of one protocol version. Tables
// are built during package initialization and never change afterwards.
type Table struct {
	version     int
	marshallers [256]Marshaller
}

func (t *Table) Version() int { return t.version }

func (t *Table) Lookup(tag byte) (Marshaller, bool) {
	m := t.marshallers[tag]
	return m, m != nil
}

// Tags returns the registered type tags in ascending order.
func (t *Table) Tags() []byte {
	var tags []byte
	for i, m := range t.marshallers {
		if m != nil {
			tags = append(tags, byte(i))
		}
	}
	return tags
}

var (
	tables    [MaxVersion + 1]*Table
	bootstrap *Table
	versions  = mapset.NewThreadUnsafeSet[int]()
)

func init() {
	for v := MinVersion; v <= MaxVersion; v++ {
		t, err := buildTable(v, registrations)
		if err != nil {
			panic(err)
		}
		tables[v] = t
		versions.Add(v)
	}

	var err error
	bootstrap, err = buildTable(0, []registration{{proto: &command.WireFormatInfo{}, since: 0}})
	if err != nil {
		panic(err)
	}
}

// TableFor returns the marshaller table of a protocol version.
func TableFor(version int) (*Table, error) {
	if !versions.Contains(version) {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
	}
	return tables[version], nil
}

// BootstrapTable holds only WireFormatInfo, whose layout does not depend on
// the version. It reports version 0.
func BootstrapTable() *Table { return bootstrap }

// Versions returns the set of supported protocol versions.
func Versions() mapset.Set[int] { return versions.Clone() }

func buildTable(version int, regs []registration) (*Table, error) {
	t := &Table{version: version}
	c := newCompiler(version)
	if version == 0 {
		c = newCompiler(MaxVersion)
	}
	seen := mapset.NewThreadUnsafeSet[byte]()

	for _, r := range regs {
		if r.since > version && version != 0 {
			continue
		}
		tag := r.proto.DataStructureType()
		if !seen.Add(tag) {
			return nil, fmt.Errorf("marshal: version %d: duplicate type tag %d (%T)", version, tag, r.proto)
		}
		m, err := c.compile(r.proto)
		if err != nil {
			return nil, fmt.Errorf("marshal: version %d: %w", version, err)
		}
		t.marshallers[tag] = m
	}
	return t, nil
}
