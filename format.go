package openwire

import (
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/tomruk/openwire-go/command"
	"github.com/tomruk/openwire-go/internal/sync"
	"github.com/tomruk/openwire-go/marshal"
	"github.com/tomruk/openwire-go/wire"
	"github.com/tomruk/yeast"
)

const encodeSizeHint = 256

// settings are the parameters a Format currently encodes and decodes with.
// They are replaced as a whole on negotiation and never modified.
type settings struct {
	negotiated   bool
	version      int
	tight        bool
	cache        bool
	cacheSize    int
	sizePrefix   bool
	stackTrace   bool
	maxFrameSize int64

	// From the peer, for the caller's inactivity monitor.
	maxInactive  time.Duration
	initialDelay time.Duration
}

// Format is the codec state of one connection: the negotiated protocol
// parameters and one reference cache per direction.
//
// One Encode and one Decode may run at the same time. Calls in the same
// direction are serialized, since the bytes they produce depend on the
// order in which the cache was filled.
type Format struct {
	id    string
	debug Debugger
	local preferences

	settings atomic.Pointer[settings]

	encodeMu sync.Mutex
	encoder  *marshal.Session

	decodeMu sync.Mutex
	decoder  *marshal.Session
}

var (
	idsMu sync.Mutex
	ids   = yeast.New()
)

func newID() string {
	idsMu.Lock()
	defer idsMu.Unlock()
	return ids.Yeast()
}

// NewFormat returns a Format in its bootstrap state, able to exchange only
// WireFormatInfo until Negotiate is called. A nil config is the same as an
// empty one.
func NewFormat(config *FormatConfig) (*Format, error) {
	if config == nil {
		config = new(FormatConfig)
	}
	local, err := newPreferences(config)
	if err != nil {
		return nil, err
	}

	f := &Format{
		id:    newID(),
		local: local,
	}

	f.debug = config.Debugger
	if f.debug == nil {
		f.debug = NewNoopDebugger()
	}
	f.debug = f.debug.WithDynamicContext("openwire format "+f.id, func() string {
		s := f.settings.Load()
		if !s.negotiated {
			return "bootstrap"
		}
		return fmt.Sprintf("v%d", s.version)
	})

	f.install(bootstrapSettings(), marshal.BootstrapTable())
	return f, nil
}

// Before negotiation frames are loose, uncached and size prefixed.
func bootstrapSettings() *settings {
	return &settings{sizePrefix: true}
}

// install replaces the settings and both sessions. The caller must hold both
// mutexes, or own f exclusively.
func (f *Format) install(s *settings, table *marshal.Table) {
	config := marshal.SessionConfig{
		CacheEnabled:      s.cache,
		CacheSize:         s.cacheSize,
		StackTraceEnabled: s.stackTrace,
		MaxFrameSize:      s.maxFrameSize,
	}
	f.encoder = marshal.NewSession(table, config)
	f.decoder = marshal.NewSession(table, config)
	f.settings.Store(s)
}

func (f *Format) ID() string { return f.id }

// PreferredInfo returns the WireFormatInfo to send to the peer.
func (f *Format) PreferredInfo() (*command.WireFormatInfo, error) {
	return command.NewWireFormatInfo(int32(f.local.version), f.local.properties())
}

// Negotiate settles the parameters with the peer's WireFormatInfo: the
// lower of both versions, features both sides enable and the smaller cache
// and frame limits. Both caches start empty afterwards.
func (f *Format) Negotiate(peer *command.WireFormatInfo) error {
	if peer == nil || !peer.ValidMagic() {
		return fmt.Errorf("%w: bad wire format magic", ErrMalformedFrame)
	}
	props, err := peer.Properties()
	if err != nil {
		return fmt.Errorf("openwire: peer wire format properties: %w", err)
	}

	version := min(f.local.version, int(peer.Version))
	table, err := marshal.TableFor(version)
	if err != nil {
		return err
	}

	peerCacheSize := int(props.CacheSize)
	if peerCacheSize <= 0 {
		peerCacheSize = marshal.DefaultCacheSize
	}

	s := &settings{
		negotiated: true,
		version:    version,
		tight:      f.local.tight && props.TightEncodingEnabled,
		cache:      f.local.cache && props.CacheEnabled,
		cacheSize:  min(f.local.cacheSize, peerCacheSize),
		// The prefix is dropped only if both sides ask for it.
		sizePrefix:   f.local.sizePrefix || !props.SizePrefixDisabled,
		stackTrace:   f.local.stackTrace && props.StackTraceEnabled,
		maxFrameSize: minFrameSize(f.local.maxFrameSize, props.MaxFrameSize),
		maxInactive:  time.Duration(props.MaxInactivityDuration) * time.Millisecond,
		initialDelay: time.Duration(props.MaxInactivityDurationInitalDelay) * time.Millisecond,
	}

	f.encodeMu.Lock()
	defer f.encodeMu.Unlock()
	f.decodeMu.Lock()
	defer f.decodeMu.Unlock()
	f.install(s, table)

	f.debug.Log("negotiated",
		fmt.Sprintf("version %d (local %d, peer %d)", version, f.local.version, peer.Version),
		fmt.Sprintf("tight=%t cache=%t/%d sizePrefix=%t stackTrace=%t maxFrameSize=%d",
			s.tight, s.cache, s.cacheSize, s.sizePrefix, s.stackTrace, s.maxFrameSize),
	)
	return nil
}

// minFrameSize returns the smaller positive limit, or 0 if neither side
// sets one.
func minFrameSize(a, b int64) int64 {
	switch {
	case a <= 0:
		return max(b, 0)
	case b <= 0:
		return a
	}
	return min(a, b)
}

// Encode returns cmd as [type][boolean stream if tight][fields], without a
// size prefix. A nil cmd is encoded as the null command.
func (f *Format) Encode(cmd command.DataStructure) ([]byte, error) {
	e := wire.NewEncoder(encodeSizeHint)
	if err := f.encode(e, cmd, false); err != nil {
		return nil, err
	}
	return e.Bytes(), nil
}

func (f *Format) encode(e *wire.Encoder, cmd command.DataStructure, framed bool) error {
	f.encodeMu.Lock()
	defer f.encodeMu.Unlock()

	s := f.settings.Load()
	if !s.negotiated && cmd != nil && cmd.DataStructureType() != command.TypeWireFormatInfo {
		return fmt.Errorf("%w: cannot encode %T", ErrNotNegotiated, cmd)
	}

	sizePrefix := framed && s.sizePrefix
	var err error
	if s.tight {
		err = f.encoder.MarshalTight(e, cmd, sizePrefix)
	} else {
		err = f.encoder.MarshalLoose(e, cmd, sizePrefix)
	}
	if err != nil {
		return err
	}
	f.debug.Log("encoded", describe{cmd})
	return nil
}

// Decode reads one command produced by Encode. Bytes left over after the
// command are a malformed frame.
func (f *Format) Decode(b []byte) (command.DataStructure, error) {
	d := wire.NewBytesDecoder(b)
	v, err := f.decode(d)
	if err != nil {
		return nil, err
	}
	if n := d.Remaining(); n != 0 {
		return nil, fmt.Errorf("%w: %d trailing bytes after %T", ErrMalformedFrame, n, v)
	}
	return v, nil
}

func (f *Format) decode(d *wire.Decoder) (command.DataStructure, error) {
	f.decodeMu.Lock()
	defer f.decodeMu.Unlock()

	s := f.settings.Load()
	var (
		v   command.DataStructure
		err error
	)
	if s.tight {
		v, err = f.decoder.UnmarshalTight(d)
	} else {
		v, err = f.decoder.UnmarshalLoose(d)
	}
	if err != nil {
		// The bootstrap table knows only WireFormatInfo.
		if !s.negotiated && errors.Is(err, marshal.ErrUnknownType) {
			return nil, fmt.Errorf("%w: %w", ErrNotNegotiated, err)
		}
		return nil, err
	}
	f.debug.Log("decoded", describe{v})
	return v, nil
}

// Reset empties both reference caches, keeping the negotiated parameters.
func (f *Format) Reset() {
	f.encodeMu.Lock()
	defer f.encodeMu.Unlock()
	f.decodeMu.Lock()
	defer f.decodeMu.Unlock()
	f.encoder.Reset()
	f.decoder.Reset()
}

func (f *Format) Negotiated() bool { return f.settings.Load().negotiated }

// Version returns the negotiated protocol version, or 0 before negotiation.
func (f *Format) Version() int { return f.settings.Load().version }

func (f *Format) TightEncoding() bool { return f.settings.Load().tight }

func (f *Format) CacheEnabled() bool { return f.settings.Load().cache }

// CacheSize returns the number of reference cache entries per direction,
// or 0 if caching is off.
func (f *Format) CacheSize() int {
	s := f.settings.Load()
	if !s.cache {
		return 0
	}
	return s.cacheSize
}

func (f *Format) SizePrefix() bool { return f.settings.Load().sizePrefix }

func (f *Format) StackTraceEnabled() bool { return f.settings.Load().stackTrace }

// MaxFrameSize returns the negotiated frame size limit. Zero means no limit.
func (f *Format) MaxFrameSize() int64 { return f.settings.Load().maxFrameSize }

// MaxInactivityDuration returns the peer's advertised inactivity timeout and
// initial delay. Both are zero before negotiation.
func (f *Format) MaxInactivityDuration() (timeout, initialDelay time.Duration) {
	s := f.settings.Load()
	return s.maxInactive, s.initialDelay
}
