package openwire

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tomruk/openwire-go/command"
	"github.com/tomruk/openwire-go/internal/utils"
	"github.com/tomruk/openwire-go/marshal"
)

func mustFormat(t *testing.T, config *FormatConfig) *Format {
	t.Helper()
	f, err := NewFormat(config)
	require.NoError(t, err)
	return f
}

// negotiatedPair returns two Formats that exchanged their WireFormatInfo.
func negotiatedPair(t *testing.T, clientConfig, brokerConfig *FormatConfig) (client, broker *Format) {
	t.Helper()
	client = mustFormat(t, clientConfig)
	broker = mustFormat(t, brokerConfig)

	clientInfo, err := client.PreferredInfo()
	require.NoError(t, err)
	brokerInfo, err := broker.PreferredInfo()
	require.NoError(t, err)

	require.NoError(t, client.Negotiate(brokerInfo))
	require.NoError(t, broker.Negotiate(clientInfo))
	return
}

func newPull() *command.MessagePull {
	return &command.MessagePull{
		ConsumerID:    &command.ConsumerID{ConnectionID: "C1"},
		Destination:   command.NewTopic("A"),
		Timeout:       5000,
		CorrelationID: "corr-7",
		MessageID:     &command.MessageID{ProducerID: &command.ProducerID{ConnectionID: "M-9"}},
	}
}

func TestNegotiate(t *testing.T) {
	type expected struct {
		version      int
		tight        bool
		cacheSize    int
		sizePrefix   bool
		stackTrace   bool
		maxFrameSize int64
	}

	tests := []struct {
		name           string
		client, broker FormatConfig
		expected       expected
	}{
		{
			name:     "defaults",
			expected: expected{version: 6, tight: true, cacheSize: 1024, sizePrefix: true, stackTrace: true},
		},
		{
			name:     "lower version wins",
			client:   FormatConfig{Version: 3},
			expected: expected{version: 3, tight: true, cacheSize: 1024, sizePrefix: true, stackTrace: true},
		},
		{
			name:     "loose on one side",
			broker:   FormatConfig{DisableTightEncoding: true},
			expected: expected{version: 6, cacheSize: 1024, sizePrefix: true, stackTrace: true},
		},
		{
			name:     "smaller cache",
			client:   FormatConfig{CacheSize: 200},
			broker:   FormatConfig{CacheSize: 100},
			expected: expected{version: 6, tight: true, cacheSize: 100, sizePrefix: true, stackTrace: true},
		},
		{
			name:     "cache off on one side",
			client:   FormatConfig{DisableCache: true},
			expected: expected{version: 6, tight: true, cacheSize: 0, sizePrefix: true, stackTrace: true},
		},
		{
			name:     "size prefix kept unless both drop it",
			client:   FormatConfig{DisableSizePrefix: true},
			expected: expected{version: 6, tight: true, cacheSize: 1024, sizePrefix: true, stackTrace: true},
		},
		{
			name:     "size prefix dropped by both",
			client:   FormatConfig{DisableSizePrefix: true},
			broker:   FormatConfig{DisableSizePrefix: true},
			expected: expected{version: 6, tight: true, cacheSize: 1024, stackTrace: true},
		},
		{
			name:     "stack traces off on one side",
			broker:   FormatConfig{DisableStackTrace: true},
			expected: expected{version: 6, tight: true, cacheSize: 1024, sizePrefix: true},
		},
		{
			name:     "frame limit on one side",
			client:   FormatConfig{MaxFrameSize: 1000},
			expected: expected{version: 6, tight: true, cacheSize: 1024, sizePrefix: true, stackTrace: true, maxFrameSize: 1000},
		},
		{
			name:     "smaller frame limit",
			client:   FormatConfig{MaxFrameSize: 1000},
			broker:   FormatConfig{MaxFrameSize: 500},
			expected: expected{version: 6, tight: true, cacheSize: 1024, sizePrefix: true, stackTrace: true, maxFrameSize: 500},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			client, broker := negotiatedPair(t, &test.client, &test.broker)
			for _, f := range []*Format{client, broker} {
				assert.True(t, f.Negotiated())
				assert.Equal(t, test.expected.version, f.Version())
				assert.Equal(t, test.expected.tight, f.TightEncoding())
				assert.Equal(t, test.expected.cacheSize != 0, f.CacheEnabled())
				assert.Equal(t, test.expected.cacheSize, f.CacheSize())
				assert.Equal(t, test.expected.sizePrefix, f.SizePrefix())
				assert.Equal(t, test.expected.stackTrace, f.StackTraceEnabled())
				assert.Equal(t, test.expected.maxFrameSize, f.MaxFrameSize())
			}
		})
	}
}

func TestNegotiateErrors(t *testing.T) {
	f := mustFormat(t, nil)

	err := f.Negotiate(nil)
	assert.ErrorIs(t, err, ErrMalformedFrame)

	info, err := mustFormat(t, nil).PreferredInfo()
	require.NoError(t, err)
	info.Magic[0] = 'X'
	assert.ErrorIs(t, f.Negotiate(info), ErrMalformedFrame)

	info, err = mustFormat(t, nil).PreferredInfo()
	require.NoError(t, err)
	info.Version = 0
	assert.ErrorIs(t, f.Negotiate(info), ErrUnsupportedVersion)

	info.Version = 1
	info.MarshalledProperties = []byte{1, 2}
	assert.Error(t, f.Negotiate(info))

	assert.False(t, f.Negotiated())
	assert.Equal(t, 0, f.Version())
}

func TestNegotiateNewerPeer(t *testing.T) {
	f := mustFormat(t, &FormatConfig{Version: 2})
	info, err := command.NewWireFormatInfo(42, nil)
	require.NoError(t, err)
	require.NoError(t, f.Negotiate(info))

	assert.Equal(t, 2, f.Version())
	// No properties means no optional feature.
	assert.False(t, f.TightEncoding())
	assert.False(t, f.CacheEnabled())
	assert.True(t, f.SizePrefix())
}

func TestNewFormatUnsupportedVersion(t *testing.T) {
	_, err := NewFormat(&FormatConfig{Version: MaxVersion + 1})
	assert.ErrorIs(t, err, ErrUnsupportedVersion)
	_, err = NewFormat(&FormatConfig{Version: -1})
	assert.ErrorIs(t, err, ErrUnsupportedVersion)
}

func TestPreferredInfo(t *testing.T) {
	f := mustFormat(t, &FormatConfig{
		Version:               4,
		DisableCache:          true,
		CacheSize:             1 << 20,
		MaxInactivityDuration: time.Minute,
		MaxFrameSize:          4096,
	})
	info, err := f.PreferredInfo()
	require.NoError(t, err)
	assert.True(t, info.ValidMagic())
	assert.Equal(t, int32(4), info.Version)

	props, err := info.Properties()
	require.NoError(t, err)
	assert.Equal(t, &command.WireFormatProperties{
		TightEncodingEnabled:             true,
		CacheEnabled:                     false,
		CacheSize:                        marshal.MaxCacheSize,
		StackTraceEnabled:                true,
		TcpNoDelayEnabled:                true,
		MaxInactivityDuration:            60000,
		MaxInactivityDurationInitalDelay: 10000,
		MaxFrameSize:                     4096,
	}, props)
}

func TestMaxInactivityDuration(t *testing.T) {
	client, _ := negotiatedPair(t, nil, &FormatConfig{MaxInactivityDuration: 5 * time.Second})
	timeout, delay := client.MaxInactivityDuration()
	assert.Equal(t, 5*time.Second, timeout)
	assert.Equal(t, defaultMaxInactivityDurationInitialDelay, delay)
}

func TestBootstrap(t *testing.T) {
	f := mustFormat(t, nil)
	assert.False(t, f.Negotiated())
	assert.False(t, f.TightEncoding())
	assert.False(t, f.CacheEnabled())

	_, err := f.Encode(&command.KeepAliveInfo{})
	assert.ErrorIs(t, err, ErrNotNegotiated)

	info, err := f.PreferredInfo()
	require.NoError(t, err)
	b, err := f.Encode(info)
	require.NoError(t, err)
	assert.Equal(t, command.TypeWireFormatInfo, b[0])
	assert.Equal(t, []byte("ActiveMQ"), b[1:9])

	peer := mustFormat(t, nil)
	got, err := peer.Decode(b)
	require.NoError(t, err)
	assert.Equal(t, info, got)

	// A keep alive written before negotiation.
	_, err = peer.Decode([]byte{command.TypeKeepAliveInfo, 0, 0, 0, 0, 0})
	assert.ErrorIs(t, err, ErrNotNegotiated)
	assert.ErrorIs(t, err, ErrMalformedFrame)
}

func TestEncodeDecode(t *testing.T) {
	for _, loose := range []bool{false, true} {
		t.Run(fmt.Sprintf("loose=%t", loose), func(t *testing.T) {
			client, broker := negotiatedPair(t, &FormatConfig{DisableTightEncoding: loose}, nil)
			pull := newPull()

			first, err := client.Encode(pull)
			require.NoError(t, err)
			second, err := client.Encode(pull)
			require.NoError(t, err)
			assert.Less(t, len(second), len(first))

			for _, b := range [][]byte{first, second} {
				got, err := broker.Decode(b)
				require.NoError(t, err)
				assert.Equal(t, pull, got)
			}

			null, err := client.Encode(nil)
			require.NoError(t, err)
			assert.Equal(t, []byte{command.TypeNull}, null)
			got, err := broker.Decode(null)
			require.NoError(t, err)
			assert.Nil(t, got)
		})
	}
}

func TestDecodeTrailingBytes(t *testing.T) {
	client, broker := negotiatedPair(t, nil, nil)
	b, err := client.Encode(&command.KeepAliveInfo{})
	require.NoError(t, err)

	_, err = broker.Decode(append(b, 0))
	assert.ErrorIs(t, err, ErrMalformedFrame)
}

func TestRequiredFieldThroughFormat(t *testing.T) {
	client, _ := negotiatedPair(t, nil, nil)
	_, err := client.Encode(&command.MessagePull{})
	assert.ErrorIs(t, err, ErrRequiredField)

	var rfe *marshal.RequiredFieldError
	require.ErrorAs(t, err, &rfe)
	assert.Equal(t, "ConsumerID", rfe.Field)
}

func TestReset(t *testing.T) {
	client, broker := negotiatedPair(t, nil, nil)
	pull := newPull()

	first, err := client.Encode(pull)
	require.NoError(t, err)
	_, err = broker.Decode(first)
	require.NoError(t, err)

	client.Reset()
	broker.Reset()

	again, err := client.Encode(pull)
	require.NoError(t, err)
	assert.Equal(t, first, again)
	got, err := broker.Decode(again)
	require.NoError(t, err)
	assert.Equal(t, pull, got)
}

func TestConcurrentEncodeDecode(t *testing.T) {
	const n = 200
	client, broker := negotiatedPair(t, nil, nil)

	// Both directions of one connection, driven at the same time.
	frames := make(chan []byte, n)
	replies := make(chan []byte, n)
	tw := utils.NewTestWaiterString()
	tw.Add("client encode")
	tw.Add("broker decode")
	tw.Add("broker encode")
	tw.Add("client decode")

	go func() {
		defer tw.Done("client encode")
		for i := 0; i < n; i++ {
			pull := newPull()
			pull.ConsumerID.Value = int64(i % 7)
			b, err := client.Encode(pull)
			assert.NoError(t, err)
			frames <- b
		}
		close(frames)
	}()
	go func() {
		defer tw.Done("broker decode")
		i := 0
		for b := range frames {
			got, err := broker.Decode(b)
			if assert.NoError(t, err) {
				assert.Equal(t, int64(i%7), got.(*command.MessagePull).ConsumerID.Value)
			}
			i++
		}
		assert.Equal(t, n, i)
	}()
	go func() {
		defer tw.Done("broker encode")
		for i := 0; i < n; i++ {
			b, err := broker.Encode(&command.Response{CorrelationID: int32(i)})
			assert.NoError(t, err)
			replies <- b
		}
		close(replies)
	}()
	go func() {
		defer tw.Done("client decode")
		i := 0
		for b := range replies {
			got, err := client.Decode(b)
			if assert.NoError(t, err) {
				assert.Equal(t, int32(i), got.(*command.Response).CorrelationID)
			}
			i++
		}
	}()

	tw.WaitTimeout(t, utils.DefaultTestWaitTimeout)
}
