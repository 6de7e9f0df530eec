package marshal

import (
	"encoding/binary"
	"fmt"
	"math"
	"reflect"

	"github.com/tomruk/openwire-go/command"
	"github.com/tomruk/openwire-go/wire"
)

type SessionConfig struct {
	CacheEnabled      bool
	CacheSize         int
	StackTraceEnabled bool

	// Structures encoding to more bytes than this are refused without
	// touching the cache. Zero means no limit.
	MaxFrameSize int64
}

// Session is the marshalling state of one direction of a connection: the
// marshaller table of the negotiated version and the reference cache. A
// Session must not be used by two goroutines at once.
type Session struct {
	table      *Table
	cache      *Cache
	stackTrace bool
	maxSize    int64

	// Reference ids chosen by pass 1, consumed in order by pass 2.
	refs   []uint16
	refPos int

	// Nested objects and exception causes currently entered.
	depth int
}

// MaxDepth is how deeply objects and exception causes may nest inside one
// command, in both directions.
const MaxDepth = 256

func (s *Session) enter() error {
	if s.depth >= MaxDepth {
		return fmt.Errorf("%w: limit is %d", ErrNestingTooDeep, MaxDepth)
	}
	s.depth++
	return nil
}

func (s *Session) leave() { s.depth-- }

// enterDecoded is enter for input from the peer, where too deep a structure
// is a malformed frame.
func (s *Session) enterDecoded() error {
	if err := s.enter(); err != nil {
		return fmt.Errorf("%w: %w", wire.ErrMalformed, err)
	}
	return nil
}

func NewSession(table *Table, config SessionConfig) *Session {
	s := &Session{
		table:      table,
		stackTrace: config.StackTraceEnabled,
		maxSize:    config.MaxFrameSize,
	}
	if config.CacheEnabled {
		s.cache = NewCache(config.CacheSize)
	}
	return s
}

func (s *Session) Table() *Table { return s.table }

// Cache returns the reference cache, or nil if caching is disabled.
func (s *Session) Cache() *Cache { return s.cache }

func (s *Session) StackTraceEnabled() bool { return s.stackTrace }

// Reset forgets every cached reference.
func (s *Session) Reset() {
	if s.cache != nil {
		s.cache.Reset()
	}
	s.refs = s.refs[:0]
	s.refPos = 0
}

func (s *Session) marshallerFor(v command.DataStructure) (Marshaller, error) {
	tag := v.DataStructureType()
	m, ok := s.table.Lookup(tag)
	if !ok {
		return nil, fmt.Errorf("%w: %T (type %d, version %d)", ErrNoMarshaller, v, tag, s.table.Version())
	}
	return m, nil
}

func (s *Session) lookup(tag byte) (Marshaller, error) {
	m, ok := s.table.Lookup(tag)
	if !ok {
		return nil, fmt.Errorf("%w: %d in version %d", ErrUnknownType, tag, s.table.Version())
	}
	return m, nil
}

// MarshalTight appends [type][boolean stream][fields] to e. If sizePrefix is
// set the frame is preceded by its length, taken from pass 1 before any
// field byte is written. A nil v is written as the null type.
func (s *Session) MarshalTight(e *wire.Encoder, v command.DataStructure, sizePrefix bool) error {
	if v == nil {
		return writeNull(e, sizePrefix)
	}
	m, err := s.marshallerFor(v)
	if err != nil {
		return err
	}

	s.refs = s.refs[:0]
	s.refPos = 0
	bs := wire.NewBooleanStream()

	s.beginCache()
	rc, err := m.TightMarshal1(s, v, bs)
	if err != nil {
		s.rollbackCache()
		return err
	}
	if bs.Len() > wire.MaxBooleanStreamSize {
		s.rollbackCache()
		return fmt.Errorf("%w: %T needs %d bytes of flags, limit is %d", wire.ErrBooleanTooLarge, v, bs.Len(), wire.MaxBooleanStreamSize)
	}
	size := 1 + bs.MarshalledSize() + rc
	if err := s.checkSize(int64(size)); err != nil {
		s.rollbackCache()
		return err
	}
	s.commitCache()

	if sizePrefix {
		e.WriteInt32(int32(size))
	}
	start := e.Len()
	e.WriteByte(m.DataStructureType())
	if err := bs.Marshal(e); err != nil {
		return wrapInternalError(err)
	}
	if err := m.TightMarshal2(s, v, e, bs); err != nil {
		return wrapInternalError(err)
	}
	if written := e.Len() - start; written != size {
		return wrapInternalError(fmt.Errorf("pass 1 sized %T at %d bytes, pass 2 wrote %d", v, size, written))
	}
	return nil
}

// MarshalLoose appends [type][fields] to e, preceded by the length when
// sizePrefix is set.
func (s *Session) MarshalLoose(e *wire.Encoder, v command.DataStructure, sizePrefix bool) error {
	if v == nil {
		return writeNull(e, sizePrefix)
	}
	m, err := s.marshallerFor(v)
	if err != nil {
		return err
	}

	mark := e.Len()
	if sizePrefix {
		e.WriteInt32(0)
	}
	start := e.Len()
	e.WriteByte(m.DataStructureType())

	s.beginCache()
	err = m.LooseMarshal(s, v, e)
	if err == nil {
		err = s.checkSize(int64(e.Len() - start))
	}
	if err != nil {
		s.rollbackCache()
		e.Truncate(mark)
		return err
	}
	s.commitCache()

	if sizePrefix {
		binary.BigEndian.PutUint32(e.Bytes()[mark:], uint32(e.Len()-start))
	}
	return nil
}

func (s *Session) checkSize(size int64) error {
	if s.maxSize > 0 && size > s.maxSize {
		return fmt.Errorf("%w: %d bytes, limit is %d", ErrFrameTooLarge, size, s.maxSize)
	}
	return nil
}

func writeNull(e *wire.Encoder, sizePrefix bool) error {
	if sizePrefix {
		e.WriteInt32(1)
	}
	return e.WriteByte(command.TypeNull)
}

// UnmarshalTight reads one structure written by MarshalTight without a size
// prefix. It fails if the boolean stream was not fully consumed.
func (s *Session) UnmarshalTight(d *wire.Decoder) (command.DataStructure, error) {
	tag, err := d.ReadByte()
	if err != nil || tag == command.TypeNull {
		return nil, err
	}
	m, err := s.lookup(tag)
	if err != nil {
		return nil, err
	}
	v := m.CreateObject()

	bs := wire.NewBooleanStream()
	if err := bs.Unmarshal(d); err != nil {
		return nil, err
	}
	if err := m.TightUnmarshal(s, v, d, bs); err != nil {
		return nil, err
	}
	if !bs.Consumed() {
		return nil, fmt.Errorf("%w: type %d", ErrUnconsumedBits, tag)
	}
	return v, nil
}

func (s *Session) UnmarshalLoose(d *wire.Decoder) (command.DataStructure, error) {
	tag, err := d.ReadByte()
	if err != nil || tag == command.TypeNull {
		return nil, err
	}
	m, err := s.lookup(tag)
	if err != nil {
		return nil, err
	}
	v := m.CreateObject()
	if err := m.LooseUnmarshal(s, v, d); err != nil {
		return nil, err
	}
	return v, nil
}

func (s *Session) beginCache() {
	if s.cache != nil {
		s.cache.begin()
	}
}

func (s *Session) commitCache() {
	if s.cache != nil {
		s.cache.commit()
	}
}

func (s *Session) rollbackCache() {
	if s.cache != nil {
		s.cache.rollback()
	}
}

// Message variants may travel in a pre-marshalled form, announced by an
// extra flag after the presence flag. This package always sends them field
// by field.
func isMarshalAware(v command.DataStructure) bool {
	_, ok := v.(command.AnyMessage)
	return ok
}

func (s *Session) tightMarshalNested1(v command.DataStructure, bs *wire.BooleanStream) (int, error) {
	bs.WriteBool(v != nil)
	if v == nil {
		return 0, nil
	}
	if err := s.enter(); err != nil {
		return 0, err
	}
	defer s.leave()
	m, err := s.marshallerFor(v)
	if err != nil {
		return 0, err
	}
	if isMarshalAware(v) {
		bs.WriteBool(false)
	}
	rc, err := m.TightMarshal1(s, v, bs)
	return 1 + rc, err
}

func (s *Session) tightMarshalNested2(v command.DataStructure, e *wire.Encoder, bs *wire.BooleanStream) error {
	present, err := bs.ReadBool()
	if err != nil || !present {
		return err
	}
	m, err := s.marshallerFor(v)
	if err != nil {
		return err
	}
	e.WriteByte(m.DataStructureType())
	if isMarshalAware(v) {
		if _, err := bs.ReadBool(); err != nil {
			return err
		}
	}
	return m.TightMarshal2(s, v, e, bs)
}

func (s *Session) tightUnmarshalNested(d *wire.Decoder, bs *wire.BooleanStream) (command.DataStructure, error) {
	present, err := bs.ReadBool()
	if err != nil || !present {
		return nil, err
	}
	if err := s.enterDecoded(); err != nil {
		return nil, err
	}
	defer s.leave()
	tag, err := d.ReadByte()
	if err != nil {
		return nil, err
	}
	m, err := s.lookup(tag)
	if err != nil {
		return nil, err
	}
	v := m.CreateObject()
	if isMarshalAware(v) {
		marshalled, err := bs.ReadBool()
		if err != nil {
			return nil, err
		}
		if marshalled {
			return nil, ErrMarshalledForm
		}
	}
	if err := m.TightUnmarshal(s, v, d, bs); err != nil {
		return nil, err
	}
	return v, nil
}

func (s *Session) looseMarshalNested(v command.DataStructure, e *wire.Encoder) error {
	e.WriteBool(v != nil)
	if v == nil {
		return nil
	}
	if err := s.enter(); err != nil {
		return err
	}
	defer s.leave()
	m, err := s.marshallerFor(v)
	if err != nil {
		return err
	}
	e.WriteByte(m.DataStructureType())
	return m.LooseMarshal(s, v, e)
}

func (s *Session) looseUnmarshalNested(d *wire.Decoder) (command.DataStructure, error) {
	present, err := d.ReadBool()
	if err != nil || !present {
		return nil, err
	}
	if err := s.enterDecoded(); err != nil {
		return nil, err
	}
	defer s.leave()
	tag, err := d.ReadByte()
	if err != nil {
		return nil, err
	}
	m, err := s.lookup(tag)
	if err != nil {
		return nil, err
	}
	v := m.CreateObject()
	if err := m.LooseUnmarshal(s, v, d); err != nil {
		return nil, err
	}
	return v, nil
}

// Cached objects are preceded by a flag: true means the full value follows
// and takes the next cache id once decoded, false means a 16-bit id
// follows. Without a cache they are plain nested objects.

func (s *Session) checkCacheable(v command.DataStructure) error {
	if v != nil && !IsCacheable(v) {
		return fmt.Errorf("%w: %T", ErrNotCacheable, v)
	}
	return nil
}

func (s *Session) tightMarshalCached1(v command.DataStructure, bs *wire.BooleanStream) (int, error) {
	if s.cache == nil {
		return s.tightMarshalNested1(v, bs)
	}
	if err := s.checkCacheable(v); err != nil {
		return 0, err
	}
	if v != nil {
		if id, ok := s.cache.Lookup(v); ok {
			bs.WriteBool(false)
			s.refs = append(s.refs, id)
			return 2, nil
		}
	}
	bs.WriteBool(true)
	rc, err := s.tightMarshalNested1(v, bs)
	if err != nil {
		return 0, err
	}
	if v != nil {
		s.cache.Intern(v)
	}
	return rc, nil
}

func (s *Session) tightMarshalCached2(v command.DataStructure, e *wire.Encoder, bs *wire.BooleanStream) error {
	if s.cache == nil {
		return s.tightMarshalNested2(v, e, bs)
	}
	full, err := bs.ReadBool()
	if err != nil {
		return err
	}
	if full {
		return s.tightMarshalNested2(v, e, bs)
	}
	if s.refPos >= len(s.refs) {
		return wrapInternalError(errMissingCacheRef)
	}
	e.WriteUint16(s.refs[s.refPos])
	s.refPos++
	return nil
}

func (s *Session) tightUnmarshalCached(d *wire.Decoder, bs *wire.BooleanStream) (command.DataStructure, error) {
	if s.cache == nil {
		return s.tightUnmarshalNested(d, bs)
	}
	full, err := bs.ReadBool()
	if err != nil {
		return nil, err
	}
	if full {
		v, err := s.tightUnmarshalNested(d, bs)
		if err != nil {
			return nil, err
		}
		if v != nil {
			s.cache.Store(v)
		}
		return v, nil
	}
	id, err := d.ReadUint16()
	if err != nil {
		return nil, err
	}
	return s.cache.Get(id)
}

func (s *Session) looseMarshalCached(v command.DataStructure, e *wire.Encoder) error {
	if s.cache == nil {
		return s.looseMarshalNested(v, e)
	}
	if err := s.checkCacheable(v); err != nil {
		return err
	}
	if v != nil {
		if id, ok := s.cache.Lookup(v); ok {
			e.WriteBool(false)
			e.WriteUint16(id)
			return nil
		}
	}
	e.WriteBool(true)
	if err := s.looseMarshalNested(v, e); err != nil {
		return err
	}
	if v != nil {
		s.cache.Intern(v)
	}
	return nil
}

func (s *Session) looseUnmarshalCached(d *wire.Decoder) (command.DataStructure, error) {
	if s.cache == nil {
		return s.looseUnmarshalNested(d)
	}
	full, err := d.ReadBool()
	if err != nil {
		return nil, err
	}
	if full {
		v, err := s.looseUnmarshalNested(d)
		if err != nil {
			return nil, err
		}
		if v != nil {
			s.cache.Store(v)
		}
		return v, nil
	}
	id, err := d.ReadUint16()
	if err != nil {
		return nil, err
	}
	return s.cache.Get(id)
}

// Object arrays: presence flag, 16-bit count, then each element as a nested
// object.

func (s *Session) tightMarshalObjectArray1(fv reflect.Value, bs *wire.BooleanStream) (int, error) {
	bs.WriteBool(!fv.IsNil())
	if fv.IsNil() {
		return 0, nil
	}
	if fv.Len() > math.MaxInt16 {
		return 0, fmt.Errorf("%w: %d", ErrTooManyElements, fv.Len())
	}
	rc := 2
	for i := 0; i < fv.Len(); i++ {
		n, err := s.tightMarshalNested1(objectOf(fv.Index(i)), bs)
		if err != nil {
			return 0, err
		}
		rc += n
	}
	return rc, nil
}

func (s *Session) tightMarshalObjectArray2(fv reflect.Value, e *wire.Encoder, bs *wire.BooleanStream) error {
	present, err := bs.ReadBool()
	if err != nil || !present {
		return err
	}
	e.WriteInt16(int16(fv.Len()))
	for i := 0; i < fv.Len(); i++ {
		if err := s.tightMarshalNested2(objectOf(fv.Index(i)), e, bs); err != nil {
			return err
		}
	}
	return nil
}

func (s *Session) tightUnmarshalObjectArray(fv reflect.Value, d *wire.Decoder, bs *wire.BooleanStream) error {
	present, err := bs.ReadBool()
	if err != nil || !present {
		return err
	}
	n, err := readCount(d)
	if err != nil {
		return err
	}
	arr := reflect.MakeSlice(fv.Type(), n, n)
	for i := 0; i < n; i++ {
		v, err := s.tightUnmarshalNested(d, bs)
		if err != nil {
			return err
		}
		if err := setObject(arr.Index(i), v); err != nil {
			return err
		}
	}
	fv.Set(arr)
	return nil
}

func (s *Session) looseMarshalObjectArray(fv reflect.Value, e *wire.Encoder) error {
	e.WriteBool(!fv.IsNil())
	if fv.IsNil() {
		return nil
	}
	if fv.Len() > math.MaxInt16 {
		return fmt.Errorf("%w: %d", ErrTooManyElements, fv.Len())
	}
	e.WriteInt16(int16(fv.Len()))
	for i := 0; i < fv.Len(); i++ {
		if err := s.looseMarshalNested(objectOf(fv.Index(i)), e); err != nil {
			return err
		}
	}
	return nil
}

func (s *Session) looseUnmarshalObjectArray(fv reflect.Value, d *wire.Decoder) error {
	present, err := d.ReadBool()
	if err != nil || !present {
		return err
	}
	n, err := readCount(d)
	if err != nil {
		return err
	}
	arr := reflect.MakeSlice(fv.Type(), n, n)
	for i := 0; i < n; i++ {
		v, err := s.looseUnmarshalNested(d)
		if err != nil {
			return err
		}
		if err := setObject(arr.Index(i), v); err != nil {
			return err
		}
	}
	fv.Set(arr)
	return nil
}

func readCount(d *wire.Decoder) (int, error) {
	n, err := d.ReadInt16()
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("%w: negative element count %d", wire.ErrMalformed, n)
	}
	return int(n), nil
}
