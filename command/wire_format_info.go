package command

import (
	"bytes"
	"fmt"

	"github.com/fatih/structs"
	"github.com/mitchellh/mapstructure"
	"github.com/tomruk/openwire-go/wire"
)

// Magic opens every WireFormatInfo.
var Magic = [8]byte{'A', 'c', 't', 'i', 'v', 'e', 'M', 'Q'}

// WireFormatInfo is the handshake each peer sends first. Its layout is the
// same in every protocol version.
type WireFormatInfo struct {
	Magic                [8]byte
	Version              int32
	MarshalledProperties []byte
}

func (*WireFormatInfo) DataStructureType() byte { return TypeWireFormatInfo }

// WireFormatProperties are the negotiable options advertised in a
// WireFormatInfo. Keys on the wire are the field names.
type WireFormatProperties struct {
	TightEncodingEnabled             bool  `structs:"TightEncodingEnabled" mapstructure:"TightEncodingEnabled"`
	CacheEnabled                     bool  `structs:"CacheEnabled" mapstructure:"CacheEnabled"`
	CacheSize                        int32 `structs:"CacheSize" mapstructure:"CacheSize"`
	SizePrefixDisabled               bool  `structs:"SizePrefixDisabled" mapstructure:"SizePrefixDisabled"`
	StackTraceEnabled                bool  `structs:"StackTraceEnabled" mapstructure:"StackTraceEnabled"`
	TcpNoDelayEnabled                bool  `structs:"TcpNoDelayEnabled" mapstructure:"TcpNoDelayEnabled"`
	MaxInactivityDuration            int64 `structs:"MaxInactivityDuration" mapstructure:"MaxInactivityDuration"`
	MaxInactivityDurationInitalDelay int64 `structs:"MaxInactivityDurationInitalDelay" mapstructure:"MaxInactivityDurationInitalDelay"`
	MaxFrameSize                     int64 `structs:"MaxFrameSize" mapstructure:"MaxFrameSize"`
}

func NewWireFormatInfo(version int32, props *WireFormatProperties) (*WireFormatInfo, error) {
	info := &WireFormatInfo{Magic: Magic, Version: version}
	if props != nil {
		if err := info.SetProperties(props); err != nil {
			return nil, err
		}
	}
	return info, nil
}

func (w *WireFormatInfo) ValidMagic() bool {
	return bytes.Equal(w.Magic[:], Magic[:])
}

func (w *WireFormatInfo) SetProperties(props *WireFormatProperties) error {
	m := structs.New(props).Map()
	b, err := wire.MarshalPrimitiveMap(m)
	if err != nil {
		return fmt.Errorf("command: marshal wire format properties: %w", err)
	}
	w.MarshalledProperties = b
	return nil
}

// Properties decodes MarshalledProperties. Keys the peer did not send keep
// their zero value; unknown keys are ignored.
func (w *WireFormatInfo) Properties() (*WireFormatProperties, error) {
	m, err := wire.UnmarshalPrimitiveMap(w.MarshalledProperties)
	if err != nil {
		return nil, fmt.Errorf("command: unmarshal wire format properties: %w", err)
	}
	props := new(WireFormatProperties)
	if m == nil {
		return props, nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           props,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(m); err != nil {
		return nil, fmt.Errorf("command: decode wire format properties: %w", err)
	}
	return props, nil
}
