// Package openwire implements the OpenWire wire format spoken between
// ActiveMQ clients and brokers.
//
// A Format turns commands from the command package into bytes and back. It
// starts in a bootstrap state in which only WireFormatInfo can be exchanged:
//
//	f, _ := openwire.NewFormat(nil)
//	w := openwire.NewFrameWriter(conn, f)
//	r := openwire.NewFrameReader(conn, f)
//
//	info, _ := f.PreferredInfo()
//	w.WriteCommand(info)
//	peer, _ := r.ReadCommand()
//	f.Negotiate(peer.(*command.WireFormatInfo))
//
// After Negotiate both sides use the same protocol version, the same
// encoding (tight or loose) and, if enabled, an object reference cache per
// direction.
package openwire

import "github.com/tomruk/openwire-go/marshal"

const (
	MinVersion = marshal.MinVersion
	MaxVersion = marshal.MaxVersion

	DefaultVersion = MaxVersion
)
