package openwire

import (
	"fmt"
	"time"

	"github.com/tomruk/openwire-go/command"
	"github.com/tomruk/openwire-go/marshal"
)

const (
	defaultMaxInactivityDuration             = 30 * time.Second
	defaultMaxInactivityDurationInitialDelay = 10 * time.Second
)

// FormatConfig holds the options a Format offers to its peer. The zero value
// offers the newest version with every feature enabled.
type FormatConfig struct {
	// Protocol version to offer. Zero means DefaultVersion.
	Version int

	// Offer loose encoding only.
	DisableTightEncoding bool

	// Offer no object reference cache.
	DisableCache bool
	// Number of cache entries to offer. Zero means marshal.DefaultCacheSize,
	// larger values than marshal.MaxCacheSize are lowered to it.
	CacheSize int

	// Ask for frames without the 4 byte length prefix. The prefix is only
	// dropped if the peer asks for it too.
	DisableSizePrefix bool

	// Leave stack traces and causes out of transported exceptions.
	DisableStackTrace bool

	// Advertised to the peer. The codec does not touch sockets.
	DisableTCPNoDelay bool

	// Advertised inactivity timeouts. Zero selects the defaults, a negative
	// value disables inactivity monitoring.
	MaxInactivityDuration             time.Duration
	MaxInactivityDurationInitialDelay time.Duration

	// Largest frame accepted or sent, without the size prefix. Zero means no
	// limit.
	MaxFrameSize int64

	// For debugging purposes. Leave it nil if it is of no use.
	Debugger Debugger
}

// preferences is a validated FormatConfig.
type preferences struct {
	version      int
	tight        bool
	cache        bool
	cacheSize    int
	sizePrefix   bool
	stackTrace   bool
	tcpNoDelay   bool
	maxInactive  time.Duration
	initialDelay time.Duration
	maxFrameSize int64
}

func newPreferences(config *FormatConfig) (preferences, error) {
	p := preferences{
		version:      config.Version,
		tight:        !config.DisableTightEncoding,
		cache:        !config.DisableCache,
		cacheSize:    config.CacheSize,
		sizePrefix:   !config.DisableSizePrefix,
		stackTrace:   !config.DisableStackTrace,
		tcpNoDelay:   !config.DisableTCPNoDelay,
		maxInactive:  config.MaxInactivityDuration,
		initialDelay: config.MaxInactivityDurationInitialDelay,
		maxFrameSize: config.MaxFrameSize,
	}

	if p.version == 0 {
		p.version = DefaultVersion
	}
	if !marshal.Versions().Contains(p.version) {
		return p, fmt.Errorf("%w: %d", ErrUnsupportedVersion, p.version)
	}
	if p.cacheSize <= 0 {
		p.cacheSize = marshal.DefaultCacheSize
	} else if p.cacheSize > marshal.MaxCacheSize {
		p.cacheSize = marshal.MaxCacheSize
	}
	if p.maxInactive == 0 {
		p.maxInactive = defaultMaxInactivityDuration
	}
	if p.initialDelay == 0 {
		p.initialDelay = defaultMaxInactivityDurationInitialDelay
	}
	if p.maxFrameSize < 0 {
		p.maxFrameSize = 0
	}
	return p, nil
}

func (p *preferences) properties() *command.WireFormatProperties {
	return &command.WireFormatProperties{
		TightEncodingEnabled:             p.tight,
		CacheEnabled:                     p.cache,
		CacheSize:                        int32(p.cacheSize),
		SizePrefixDisabled:               !p.sizePrefix,
		StackTraceEnabled:                p.stackTrace,
		TcpNoDelayEnabled:                p.tcpNoDelay,
		MaxInactivityDuration:            p.maxInactive.Milliseconds(),
		MaxInactivityDurationInitalDelay: p.initialDelay.Milliseconds(),
		MaxFrameSize:                     p.maxFrameSize,
	}
}
