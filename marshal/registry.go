package marshal

import "github.com/tomruk/openwire-go/command"

type registration struct {
	proto command.DataStructure
	// First protocol version that knows the type. Zero means every version.
	since int
}

var registrations = []registration{
	{proto: &command.WireFormatInfo{}},
	{proto: &command.BrokerInfo{}},
	{proto: &command.ConnectionInfo{}},
	{proto: &command.SessionInfo{}},
	{proto: &command.ConsumerInfo{}},
	{proto: &command.ProducerInfo{}},
	{proto: &command.TransactionInfo{}},
	{proto: &command.DestinationInfo{}},
	{proto: &command.RemoveSubscriptionInfo{}},
	{proto: &command.KeepAliveInfo{}},
	{proto: &command.ShutdownInfo{}},
	{proto: &command.RemoveInfo{}},
	{proto: &command.ControlCommand{}},
	{proto: &command.FlushCommand{}},
	{proto: &command.ConnectionError{}},
	{proto: &command.ConsumerControl{}},
	{proto: &command.ConnectionControl{}},
	{proto: &command.ProducerAck{}, since: 3},

	{proto: &command.MessagePull{}},
	{proto: &command.MessageDispatch{}},
	{proto: &command.MessageAck{}},

	{proto: &command.ActiveMQMessage{}},
	{proto: &command.ActiveMQBytesMessage{}},
	{proto: &command.ActiveMQMapMessage{}},
	{proto: &command.ActiveMQObjectMessage{}},
	{proto: &command.ActiveMQStreamMessage{}},
	{proto: &command.ActiveMQTextMessage{}},
	{proto: &command.ActiveMQBlobMessage{}, since: 3},

	{proto: &command.Response{}},
	{proto: &command.ExceptionResponse{}},
	{proto: &command.DataResponse{}},
	{proto: &command.DataArrayResponse{}},
	{proto: &command.IntegerResponse{}},

	{proto: &command.DiscoveryEvent{}},
	{proto: &command.SubscriptionInfo{}},
	{proto: &command.PartialCommand{}},
	{proto: &command.LastPartialCommand{}},
	{proto: &command.ReplayCommand{}},
	{proto: &command.MessageDispatchNotification{}},
	{proto: &command.NetworkBridgeFilter{}},

	{proto: &command.ActiveMQQueue{}},
	{proto: &command.ActiveMQTopic{}},
	{proto: &command.ActiveMQTempQueue{}},
	{proto: &command.ActiveMQTempTopic{}},

	{proto: &command.MessageID{}},
	{proto: &command.LocalTransactionID{}},
	{proto: &command.XATransactionID{}},

	{proto: &command.ConnectionID{}},
	{proto: &command.SessionID{}},
	{proto: &command.ConsumerID{}},
	{proto: &command.ProducerID{}},
	{proto: &command.BrokerID{}},
}
