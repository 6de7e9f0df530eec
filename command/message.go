package command

import (
	"fmt"

	"github.com/tomruk/openwire-go/wire"
)

// Message holds the fields shared by every message variant. It has no type
// tag of its own.
type Message struct {
	BaseCommand
	ProducerID            *ProducerID   `openwire:"cached,required"`
	Destination           Destination   `openwire:"cached"`
	TransactionID         TransactionID `openwire:"cached"`
	OriginalDestination   Destination   `openwire:"cached"`
	MessageID             *MessageID    `openwire:"nested,required"`
	OriginalTransactionID TransactionID `openwire:"cached"`
	GroupID               string
	GroupSequence         int32
	CorrelationID         string
	Persistent            bool
	Expiration            int64
	Priority              byte
	ReplyTo               Destination `openwire:"cached"`
	Timestamp             int64
	Type                  string
	Content               []byte
	MarshalledProperties  []byte
	DataStructure         DataStructure `openwire:"nested"`
	TargetConsumerID      *ConsumerID   `openwire:"cached"`
	Compressed            bool
	RedeliveryCounter     int32
	BrokerPath            []*BrokerID
	Arrival               int64
	UserID                string
	ReceivedByDFBridge    bool
	Droppable             bool        `openwire:"since=2"`
	Cluster               []*BrokerID `openwire:"since=3"`
	BrokerInTime          int64       `openwire:"since=3"`
	BrokerOutTime         int64       `openwire:"since=3"`
}

// AnyMessage is implemented by every message variant.
type AnyMessage interface {
	Command
	BaseMessage() *Message
}

func (m *Message) BaseMessage() *Message { return m }

// Properties decodes the application properties of the message.
func (m *Message) Properties() (map[string]any, error) {
	if len(m.MarshalledProperties) == 0 {
		return map[string]any{}, nil
	}
	props, err := wire.UnmarshalPrimitiveMap(m.MarshalledProperties)
	if err != nil {
		return nil, fmt.Errorf("command: message properties: %w", err)
	}
	if props == nil {
		props = map[string]any{}
	}
	return props, nil
}

// SetProperties replaces the application properties. A nil or empty map
// clears them.
func (m *Message) SetProperties(props map[string]any) error {
	if len(props) == 0 {
		m.MarshalledProperties = nil
		return nil
	}
	b, err := wire.MarshalPrimitiveMap(props)
	if err != nil {
		return fmt.Errorf("command: message properties: %w", err)
	}
	m.MarshalledProperties = b
	return nil
}

type ActiveMQMessage struct {
	Message
}

func (*ActiveMQMessage) DataStructureType() byte { return TypeActiveMQMessage }

type ActiveMQBytesMessage struct {
	Message
}

func (*ActiveMQBytesMessage) DataStructureType() byte { return TypeActiveMQBytesMessage }

type ActiveMQMapMessage struct {
	Message
}

func (*ActiveMQMapMessage) DataStructureType() byte { return TypeActiveMQMapMessage }

// Body decodes the map carried in Content.
func (m *ActiveMQMapMessage) Body() (map[string]any, error) {
	content, err := m.body()
	if err != nil {
		return nil, err
	}
	if len(content) == 0 {
		return map[string]any{}, nil
	}
	return wire.UnmarshalPrimitiveMap(content)
}

func (m *ActiveMQMapMessage) SetBody(body map[string]any) error {
	if body == nil {
		m.Content = nil
		m.Compressed = false
		return nil
	}
	b, err := wire.MarshalPrimitiveMap(body)
	if err != nil {
		return err
	}
	m.Content = b
	m.Compressed = false
	return nil
}

type ActiveMQObjectMessage struct {
	Message
}

func (*ActiveMQObjectMessage) DataStructureType() byte { return TypeActiveMQObjectMessage }

type ActiveMQStreamMessage struct {
	Message
}

func (*ActiveMQStreamMessage) DataStructureType() byte { return TypeActiveMQStreamMessage }

type ActiveMQTextMessage struct {
	Message
}

func (*ActiveMQTextMessage) DataStructureType() byte { return TypeActiveMQTextMessage }

// Text decodes Content as an int32 length followed by modified UTF-8.
func (m *ActiveMQTextMessage) Text() (string, error) {
	content, err := m.body()
	if err != nil {
		return "", err
	}
	if content == nil {
		return "", nil
	}
	d := wire.NewBytesDecoder(content)
	n, err := d.ReadInt32()
	if err != nil {
		return "", err
	}
	if n < 0 {
		return "", nil
	}
	p, err := d.ReadBytes(int(n))
	if err != nil {
		return "", err
	}
	return wire.DecodeModifiedUTF8(p)
}

func (m *ActiveMQTextMessage) SetText(text string) {
	e := wire.NewEncoder(4 + len(text))
	e.WriteInt32(int32(wire.UTFLength(text)))
	e.Write(wire.AppendModifiedUTF8(nil, text))
	m.Content = e.Bytes()
	m.Compressed = false
}

type ActiveMQBlobMessage struct {
	Message
	RemoteBlobURL   string
	MimeType        string
	DeletedByBroker bool
}

func (*ActiveMQBlobMessage) DataStructureType() byte { return TypeActiveMQBlobMessage }
