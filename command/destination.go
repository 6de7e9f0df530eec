package command

import (
	"strconv"
	"strings"
)

const (
	QueueQualifiedPrefix     = "queue://"
	TopicQualifiedPrefix     = "topic://"
	TempQueueQualifiedPrefix = "temp-queue://"
	TempTopicQualifiedPrefix = "temp-topic://"

	compositeSeparator = ","
)

// Destination is a queue or topic, temporary or not. Matching destinations
// against wildcard subscriptions happens outside this module; the codec
// treats them as opaque values.
type Destination interface {
	DataStructure
	String() string
	Name() string
	IsTopic() bool
	IsTemporary() bool
}

type ActiveMQDestination struct {
	PhysicalName string `openwire:"required"`
}

func (d *ActiveMQDestination) Name() string { return d.PhysicalName }

// IsComposite reports whether the name lists several destinations.
func (d *ActiveMQDestination) IsComposite() bool {
	return strings.Contains(d.PhysicalName, compositeSeparator)
}

// Names splits a composite name. A plain name yields itself.
func (d *ActiveMQDestination) Names() []string {
	parts := strings.Split(d.PhysicalName, compositeSeparator)
	names := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			names = append(names, p)
		}
	}
	return names
}

type ActiveMQQueue struct {
	ActiveMQDestination
}

func NewQueue(name string) *ActiveMQQueue {
	return &ActiveMQQueue{ActiveMQDestination{PhysicalName: name}}
}

func (*ActiveMQQueue) DataStructureType() byte { return TypeActiveMQQueue }
func (*ActiveMQQueue) IsTopic() bool           { return false }
func (*ActiveMQQueue) IsTemporary() bool       { return false }
func (d *ActiveMQQueue) String() string        { return QueueQualifiedPrefix + d.PhysicalName }

type ActiveMQTopic struct {
	ActiveMQDestination
}

func NewTopic(name string) *ActiveMQTopic {
	return &ActiveMQTopic{ActiveMQDestination{PhysicalName: name}}
}

func (*ActiveMQTopic) DataStructureType() byte { return TypeActiveMQTopic }
func (*ActiveMQTopic) IsTopic() bool           { return true }
func (*ActiveMQTopic) IsTemporary() bool       { return false }
func (d *ActiveMQTopic) String() string        { return TopicQualifiedPrefix + d.PhysicalName }

// ActiveMQTempDestination names are "<connection id>:<sequence>".
type ActiveMQTempDestination struct {
	ActiveMQDestination
}

func tempName(connectionID string, sequenceID int64) string {
	return connectionID + ":" + strconv.FormatInt(sequenceID, 10)
}

// ConnectionID returns the id of the connection that created the
// destination, or "" if the name has no sequence suffix.
func (d *ActiveMQTempDestination) ConnectionID() string {
	p := strings.LastIndex(d.PhysicalName, ":")
	if p < 0 {
		return ""
	}
	if _, err := strconv.ParseInt(d.PhysicalName[p+1:], 10, 64); err != nil {
		return ""
	}
	return d.PhysicalName[:p]
}

// SequenceID returns the numeric suffix of the name. ok is false if the
// name does not carry one.
func (d *ActiveMQTempDestination) SequenceID() (seq int64, ok bool) {
	p := strings.LastIndex(d.PhysicalName, ":")
	if p < 0 {
		return 0, false
	}
	seq, err := strconv.ParseInt(d.PhysicalName[p+1:], 10, 64)
	if err != nil {
		return 0, false
	}
	return seq, true
}

type ActiveMQTempQueue struct {
	ActiveMQTempDestination
}

func NewTempQueue(connectionID string, sequenceID int64) *ActiveMQTempQueue {
	return &ActiveMQTempQueue{ActiveMQTempDestination{ActiveMQDestination{PhysicalName: tempName(connectionID, sequenceID)}}}
}

func (*ActiveMQTempQueue) DataStructureType() byte { return TypeActiveMQTempQueue }
func (*ActiveMQTempQueue) IsTopic() bool           { return false }
func (*ActiveMQTempQueue) IsTemporary() bool       { return true }
func (d *ActiveMQTempQueue) String() string        { return TempQueueQualifiedPrefix + d.PhysicalName }

type ActiveMQTempTopic struct {
	ActiveMQTempDestination
}

func NewTempTopic(connectionID string, sequenceID int64) *ActiveMQTempTopic {
	return &ActiveMQTempTopic{ActiveMQTempDestination{ActiveMQDestination{PhysicalName: tempName(connectionID, sequenceID)}}}
}

func (*ActiveMQTempTopic) DataStructureType() byte { return TypeActiveMQTempTopic }
func (*ActiveMQTempTopic) IsTopic() bool           { return true }
func (*ActiveMQTempTopic) IsTemporary() bool       { return true }
func (d *ActiveMQTempTopic) String() string        { return TempTopicQualifiedPrefix + d.PhysicalName }

// ParseDestination builds a destination from its qualified form. Names
// without a prefix are queues.
func ParseDestination(s string) Destination {
	switch {
	case strings.HasPrefix(s, TopicQualifiedPrefix):
		return NewTopic(strings.TrimPrefix(s, TopicQualifiedPrefix))
	case strings.HasPrefix(s, TempQueueQualifiedPrefix):
		return &ActiveMQTempQueue{ActiveMQTempDestination{ActiveMQDestination{PhysicalName: strings.TrimPrefix(s, TempQueueQualifiedPrefix)}}}
	case strings.HasPrefix(s, TempTopicQualifiedPrefix):
		return &ActiveMQTempTopic{ActiveMQTempDestination{ActiveMQDestination{PhysicalName: strings.TrimPrefix(s, TempTopicQualifiedPrefix)}}}
	default:
		return NewQueue(strings.TrimPrefix(s, QueueQualifiedPrefix))
	}
}
