package command

import (
	"encoding/hex"
	"strconv"
)

type ConnectionID struct {
	Value string `openwire:"required"`
}

func (*ConnectionID) DataStructureType() byte { return TypeConnectionID }

func (id *ConnectionID) String() string { return id.Value }

type SessionID struct {
	ConnectionID string
	Value        int64
}

func (*SessionID) DataStructureType() byte { return TypeSessionID }

func (id *SessionID) String() string {
	return id.ConnectionID + ":" + strconv.FormatInt(id.Value, 10)
}

// ParentID returns the connection this session belongs to.
func (id *SessionID) ParentID() *ConnectionID {
	return &ConnectionID{Value: id.ConnectionID}
}

type ConsumerID struct {
	ConnectionID string
	SessionID    int64
	Value        int64
}

func (*ConsumerID) DataStructureType() byte { return TypeConsumerID }

func (id *ConsumerID) String() string {
	return id.ConnectionID + ":" + strconv.FormatInt(id.SessionID, 10) + ":" + strconv.FormatInt(id.Value, 10)
}

func (id *ConsumerID) ParentID() *SessionID {
	return &SessionID{ConnectionID: id.ConnectionID, Value: id.SessionID}
}

type ProducerID struct {
	ConnectionID string
	Value        int64
	SessionID    int64
}

func (*ProducerID) DataStructureType() byte { return TypeProducerID }

func (id *ProducerID) String() string {
	return id.ConnectionID + ":" + strconv.FormatInt(id.SessionID, 10) + ":" + strconv.FormatInt(id.Value, 10)
}

func (id *ProducerID) ParentID() *SessionID {
	return &SessionID{ConnectionID: id.ConnectionID, Value: id.SessionID}
}

type BrokerID struct {
	Value string `openwire:"required"`
}

func (*BrokerID) DataStructureType() byte { return TypeBrokerID }

func (id *BrokerID) String() string { return id.Value }

type MessageID struct {
	ProducerID         *ProducerID `openwire:"cached"`
	ProducerSequenceID int64
	BrokerSequenceID   int64
}

func (*MessageID) DataStructureType() byte { return TypeMessageID }

func (id *MessageID) String() string {
	p := ""
	if id.ProducerID != nil {
		p = id.ProducerID.String()
	}
	return p + ":" + strconv.FormatInt(id.ProducerSequenceID, 10)
}

// CacheKey is String plus the broker sequence, which String leaves out.
func (id *MessageID) CacheKey() string {
	return id.String() + ":" + strconv.FormatInt(id.BrokerSequenceID, 10)
}

// TransactionID is implemented by LocalTransactionID and XATransactionID.
type TransactionID interface {
	DataStructure
	String() string
	IsXA() bool
}

type LocalTransactionID struct {
	Value        int64
	ConnectionID *ConnectionID `openwire:"cached"`
}

func (*LocalTransactionID) DataStructureType() byte { return TypeLocalTransactionID }

func (*LocalTransactionID) IsXA() bool { return false }

func (id *LocalTransactionID) String() string {
	c := ""
	if id.ConnectionID != nil {
		c = id.ConnectionID.Value
	}
	return "TX:" + c + ":" + strconv.FormatInt(id.Value, 10)
}

type XATransactionID struct {
	FormatID            int32
	GlobalTransactionID []byte
	BranchQualifier     []byte
}

func (*XATransactionID) DataStructureType() byte { return TypeXATransactionID }

func (*XATransactionID) IsXA() bool { return true }

func (id *XATransactionID) String() string {
	return "XID:[" + strconv.FormatInt(int64(id.FormatID), 10) +
		",globalId=" + hex.EncodeToString(id.GlobalTransactionID) +
		",branchId=" + hex.EncodeToString(id.BranchQualifier) + "]"
}
