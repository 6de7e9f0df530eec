package command

type BrokerInfo struct {
	BaseCommand
	BrokerID                   *BrokerID `openwire:"cached"`
	BrokerURL                  string
	PeerBrokerInfos            []*BrokerInfo
	BrokerName                 string
	SlaveBroker                bool
	MasterBroker               bool
	FaultTolerantConfiguration bool
	DuplexConnection           bool   `openwire:"since=2"`
	NetworkConnection          bool   `openwire:"since=2"`
	ConnectionID               int64  `openwire:"since=2"`
	BrokerUploadURL            string `openwire:"since=3"`
	NetworkProperties          string `openwire:"since=3"`
}

func (*BrokerInfo) DataStructureType() byte { return TypeBrokerInfo }

type ConnectionInfo struct {
	BaseCommand
	ConnectionID          *ConnectionID `openwire:"cached,required"`
	ClientID              string
	Password              string
	UserName              string
	BrokerPath            []*BrokerID
	BrokerMasterConnector bool
	Manageable            bool
	ClientMaster          bool `openwire:"since=2"`
	FaultTolerant         bool `openwire:"since=6"`
	FailoverReconnect     bool `openwire:"since=6"`
}

func (*ConnectionInfo) DataStructureType() byte { return TypeConnectionInfo }

type SessionInfo struct {
	BaseCommand
	SessionID *SessionID `openwire:"cached,required"`
}

func (*SessionInfo) DataStructureType() byte { return TypeSessionInfo }

type ConsumerInfo struct {
	BaseCommand
	ConsumerID                 *ConsumerID `openwire:"cached,required"`
	Browser                    bool
	Destination                Destination `openwire:"cached"`
	PrefetchSize               int32
	MaximumPendingMessageLimit int32
	DispatchAsync              bool
	Selector                   string
	SubscriptionName           string
	NoLocal                    bool
	Exclusive                  bool
	Retroactive                bool
	Priority                   byte
	BrokerPath                 []*BrokerID
	AdditionalPredicate        DataStructure `openwire:"nested"`
	NetworkSubscription        bool
	OptimizedAcknowledge       bool
	NoRangeAcks                bool
	NetworkConsumerPath        []*ConsumerID `openwire:"since=4"`
}

func (*ConsumerInfo) DataStructureType() byte { return TypeConsumerInfo }

type ProducerInfo struct {
	BaseCommand
	ProducerID    *ProducerID `openwire:"cached,required"`
	Destination   Destination `openwire:"cached"`
	BrokerPath    []*BrokerID
	DispatchAsync bool  `openwire:"since=2"`
	WindowSize    int32 `openwire:"since=3"`
}

func (*ProducerInfo) DataStructureType() byte { return TypeProducerInfo }

// Transaction operation types carried by TransactionInfo.Type.
const (
	TransactionBegin     byte = 0
	TransactionPrepare   byte = 1
	TransactionCommitOne byte = 2
	TransactionCommitTwo byte = 3
	TransactionRollback  byte = 4
	TransactionRecover   byte = 5
	TransactionForget    byte = 6
	TransactionEnd       byte = 7
)

type TransactionInfo struct {
	BaseCommand
	ConnectionID  *ConnectionID `openwire:"cached"`
	TransactionID TransactionID `openwire:"cached"`
	Type          byte
}

func (*TransactionInfo) DataStructureType() byte { return TypeTransactionInfo }

const (
	DestinationAdd    byte = 0
	DestinationRemove byte = 1
)

type DestinationInfo struct {
	BaseCommand
	ConnectionID  *ConnectionID `openwire:"cached"`
	Destination   Destination   `openwire:"cached"`
	OperationType byte
	Timeout       int64
	BrokerPath    []*BrokerID
}

func (*DestinationInfo) DataStructureType() byte { return TypeDestinationInfo }

type RemoveSubscriptionInfo struct {
	BaseCommand
	ConnectionID     *ConnectionID `openwire:"cached"`
	SubscriptionName string
	ClientID         string
}

func (*RemoveSubscriptionInfo) DataStructureType() byte { return TypeRemoveSubscriptionInfo }

type KeepAliveInfo struct {
	BaseCommand
}

func (*KeepAliveInfo) DataStructureType() byte { return TypeKeepAliveInfo }

type ShutdownInfo struct {
	BaseCommand
}

func (*ShutdownInfo) DataStructureType() byte { return TypeShutdownInfo }

// RemoveInfo removes the connection, session, consumer or producer named by
// ObjectID.
type RemoveInfo struct {
	BaseCommand
	ObjectID                DataStructure `openwire:"cached"`
	LastDeliveredSequenceID int64         `openwire:"since=5"`
}

func (*RemoveInfo) DataStructureType() byte { return TypeRemoveInfo }

type ControlCommand struct {
	BaseCommand
	Command string
}

func (*ControlCommand) DataStructureType() byte { return TypeControlCommand }

type FlushCommand struct {
	BaseCommand
}

func (*FlushCommand) DataStructureType() byte { return TypeFlushCommand }

type ConnectionError struct {
	BaseCommand
	Exception    *BrokerError
	ConnectionID *ConnectionID `openwire:"nested"`
}

func (*ConnectionError) DataStructureType() byte { return TypeConnectionError }

type ConsumerControl struct {
	BaseCommand
	Close       bool
	ConsumerID  *ConsumerID `openwire:"nested"`
	Prefetch    int32
	Flush       bool        `openwire:"since=2"`
	Start       bool        `openwire:"since=2"`
	Stop        bool        `openwire:"since=2"`
	Destination Destination `openwire:"nested,since=6"`
}

func (*ConsumerControl) DataStructureType() byte { return TypeConsumerControl }

type ConnectionControl struct {
	BaseCommand
	Close               bool
	Exit                bool
	FaultTolerant       bool
	Resume              bool
	Suspend             bool
	ConnectedBrokers    string `openwire:"since=6"`
	ReconnectTo         string `openwire:"since=6"`
	RebalanceConnection bool   `openwire:"since=6"`
}

func (*ConnectionControl) DataStructureType() byte { return TypeConnectionControl }

type ProducerAck struct {
	BaseCommand
	ProducerID *ProducerID `openwire:"nested"`
	Size       int32
}

func (*ProducerAck) DataStructureType() byte { return TypeProducerAck }

type MessagePull struct {
	BaseCommand
	ConsumerID    *ConsumerID `openwire:"cached,required"`
	Destination   Destination `openwire:"cached"`
	Timeout       int64
	CorrelationID string     `openwire:"since=3"`
	MessageID     *MessageID `openwire:"nested,since=3"`
}

func (*MessagePull) DataStructureType() byte { return TypeMessagePull }

type MessageDispatch struct {
	BaseCommand
	ConsumerID        *ConsumerID `openwire:"cached,required"`
	Destination       Destination `openwire:"cached"`
	Message           AnyMessage  `openwire:"nested"`
	RedeliveryCounter int32
}

func (*MessageDispatch) DataStructureType() byte { return TypeMessageDispatch }

// Acknowledgement types carried by MessageAck.AckType.
const (
	AckDelivered   byte = 0
	AckPoison      byte = 1
	AckStandard    byte = 2
	AckRedelivered byte = 3
	AckIndividual  byte = 4
)

type MessageAck struct {
	BaseCommand
	Destination    Destination   `openwire:"cached"`
	TransactionID  TransactionID `openwire:"cached"`
	ConsumerID     *ConsumerID   `openwire:"cached,required"`
	AckType        byte
	FirstMessageID *MessageID `openwire:"nested"`
	LastMessageID  *MessageID `openwire:"nested"`
	MessageCount   int32
}

func (*MessageAck) DataStructureType() byte { return TypeMessageAck }

type DiscoveryEvent struct {
	ServiceName string
	BrokerName  string
}

func (*DiscoveryEvent) DataStructureType() byte { return TypeDiscoveryEvent }

type SubscriptionInfo struct {
	ClientID              string
	Destination           Destination `openwire:"cached"`
	Selector              string
	SubscriptionName      string
	SubscribedDestination Destination `openwire:"cached,since=3"`
}

func (*SubscriptionInfo) DataStructureType() byte { return TypeSubscriptionInfo }

// PartialCommand carries one fragment of a command too large for a single
// datagram. LastPartialCommand marks the final fragment.
type PartialCommand struct {
	CommandID int32
	Data      []byte
}

func (*PartialCommand) DataStructureType() byte { return TypePartialCommand }

type LastPartialCommand struct {
	PartialCommand
}

func (*LastPartialCommand) DataStructureType() byte { return TypeLastPartialCommand }

type ReplayCommand struct {
	BaseCommand
	FirstNakNumber int32
	LastNakNumber  int32
}

func (*ReplayCommand) DataStructureType() byte { return TypeReplayCommand }

type MessageDispatchNotification struct {
	BaseCommand
	ConsumerID         *ConsumerID `openwire:"cached"`
	Destination        Destination `openwire:"cached"`
	DeliverySequenceID int64
	MessageID          *MessageID `openwire:"nested"`
}

func (*MessageDispatchNotification) DataStructureType() byte { return TypeMessageDispatchNotification }

type NetworkBridgeFilter struct {
	NetworkBrokerID *BrokerID `openwire:"cached"`
	NetworkTTL      int32
}

func (*NetworkBridgeFilter) DataStructureType() byte { return TypeNetworkBridgeFilter }
