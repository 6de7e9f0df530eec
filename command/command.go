// Package command holds the OpenWire data model: every structure that can
// travel between a client and a broker.
//
// Fields are (de)serialized in declaration order. An embedded struct placed
// first is the supertype and its fields go first. The `openwire` struct tag
// refines a field:
//
//	cached    object sent through the connection's reference cache
//	nested    object sent inline with its own type tag
//	required  encoding fails if the field is absent
//	since=N   field exists from protocol version N on
//
// Strings are absent when empty; slices and pointers are absent when nil.
package command

// Type tags identifying each structure on the wire.
const (
	TypeNull byte = 0

	TypeWireFormatInfo         byte = 1
	TypeBrokerInfo             byte = 2
	TypeConnectionInfo         byte = 3
	TypeSessionInfo            byte = 4
	TypeConsumerInfo           byte = 5
	TypeProducerInfo           byte = 6
	TypeTransactionInfo        byte = 7
	TypeDestinationInfo        byte = 8
	TypeRemoveSubscriptionInfo byte = 9
	TypeKeepAliveInfo          byte = 10
	TypeShutdownInfo           byte = 11
	TypeRemoveInfo             byte = 12
	TypeControlCommand         byte = 14
	TypeFlushCommand           byte = 15
	TypeConnectionError        byte = 16
	TypeConsumerControl        byte = 17
	TypeConnectionControl      byte = 18
	TypeProducerAck            byte = 19

	TypeMessagePull     byte = 20
	TypeMessageDispatch byte = 21
	TypeMessageAck      byte = 22

	TypeActiveMQMessage       byte = 23
	TypeActiveMQBytesMessage  byte = 24
	TypeActiveMQMapMessage    byte = 25
	TypeActiveMQObjectMessage byte = 26
	TypeActiveMQStreamMessage byte = 27
	TypeActiveMQTextMessage   byte = 28
	TypeActiveMQBlobMessage   byte = 29

	TypeResponse          byte = 30
	TypeExceptionResponse byte = 31
	TypeDataResponse      byte = 32
	TypeDataArrayResponse byte = 33
	TypeIntegerResponse   byte = 34

	TypeDiscoveryEvent              byte = 40
	TypeSubscriptionInfo            byte = 55
	TypePartialCommand              byte = 60
	TypeLastPartialCommand          byte = 61
	TypeReplayCommand               byte = 65
	TypeMessageDispatchNotification byte = 90
	TypeNetworkBridgeFilter         byte = 91

	TypeActiveMQQueue     byte = 100
	TypeActiveMQTopic     byte = 101
	TypeActiveMQTempQueue byte = 102
	TypeActiveMQTempTopic byte = 103

	TypeMessageID          byte = 110
	TypeLocalTransactionID byte = 111
	TypeXATransactionID    byte = 112

	TypeConnectionID byte = 120
	TypeSessionID    byte = 121
	TypeConsumerID   byte = 122
	TypeProducerID   byte = 123
	TypeBrokerID     byte = 124
)

// DataStructure is anything with a type tag.
type DataStructure interface {
	DataStructureType() byte
}

// Command is a DataStructure carrying the BaseCommand fields.
type Command interface {
	DataStructure
	Base() *BaseCommand
}

type BaseCommand struct {
	CommandID        int32
	ResponseRequired bool
}

func (c *BaseCommand) Base() *BaseCommand { return c }

// IsResponse reports whether ds is one of the response commands.
func IsResponse(ds DataStructure) bool {
	switch ds.DataStructureType() {
	case TypeResponse, TypeExceptionResponse, TypeDataResponse, TypeDataArrayResponse, TypeIntegerResponse:
		return true
	}
	return false
}

// IsMessage reports whether ds is one of the message variants.
func IsMessage(ds DataStructure) bool {
	_, ok := ds.(AnyMessage)
	return ok
}
