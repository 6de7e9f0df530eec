package marshal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tomruk/openwire-go/command"
)

func TestCacheIntern(t *testing.T) {
	c := NewCache(DefaultCacheSize)

	id, ref := c.Intern(&command.ConsumerID{ConnectionID: "c", Value: 1})
	assert.Equal(t, uint16(0), id)
	assert.False(t, ref)

	// An equal value gets the reference of the first one.
	id, ref = c.Intern(&command.ConsumerID{ConnectionID: "c", Value: 1})
	assert.Equal(t, uint16(0), id)
	assert.True(t, ref)

	// Same text, different type.
	id, ref = c.Intern(&command.ConnectionID{Value: "c:0:1"})
	assert.Equal(t, uint16(1), id)
	assert.False(t, ref)

	assert.Equal(t, 2, c.Len())
	v, err := c.Get(1)
	require.NoError(t, err)
	assert.Equal(t, &command.ConnectionID{Value: "c:0:1"}, v)
}

func TestCacheKeyIncludesBrokerSequence(t *testing.T) {
	c := NewCache(DefaultCacheSize)
	producer := &command.ProducerID{ConnectionID: "p"}

	id, _ := c.Intern(&command.MessageID{ProducerID: producer, ProducerSequenceID: 1, BrokerSequenceID: 1})
	assert.Equal(t, uint16(0), id)
	id, ref := c.Intern(&command.MessageID{ProducerID: producer, ProducerSequenceID: 1, BrokerSequenceID: 2})
	assert.Equal(t, uint16(1), id)
	assert.False(t, ref)
	id, ref = c.Intern(&command.MessageID{ProducerID: producer, ProducerSequenceID: 1, BrokerSequenceID: 2})
	assert.Equal(t, uint16(1), id)
	assert.True(t, ref)
}

func TestCacheSizeClamp(t *testing.T) {
	assert.Equal(t, DefaultCacheSize, NewCache(0).Size())
	assert.Equal(t, DefaultCacheSize, NewCache(-3).Size())
	assert.Equal(t, MaxCacheSize, NewCache(1<<20).Size())
	assert.Equal(t, 7, NewCache(7).Size())
}

func TestCacheEviction(t *testing.T) {
	c := NewCache(2)
	a := command.NewQueue("a")
	b := command.NewQueue("b")
	d := command.NewQueue("d")

	assert.Equal(t, uint16(0), c.Store(a))
	assert.Equal(t, uint16(1), c.Store(b))
	assert.Equal(t, uint16(0), c.Store(d))
	assert.Equal(t, 2, c.Len())

	_, ok := c.Lookup(a)
	assert.False(t, ok)
	id, ok := c.Lookup(d)
	require.True(t, ok)
	assert.Equal(t, uint16(0), id)

	v, err := c.Get(0)
	require.NoError(t, err)
	assert.Same(t, d, v)
}

func TestCacheGetUnknown(t *testing.T) {
	c := NewCache(4)
	_, err := c.Get(0)
	assert.ErrorIs(t, err, ErrUnknownCacheID)
	_, err = c.Get(4)
	assert.ErrorIs(t, err, ErrUnknownCacheID)
}

func TestCacheRollback(t *testing.T) {
	c := NewCache(2)
	a := command.NewTopic("a")
	c.Store(a)

	c.begin()
	c.Store(command.NewTopic("b"))
	c.Store(command.NewTopic("c"))
	c.rollback()

	assert.Equal(t, 1, c.Len())
	id, ok := c.Lookup(a)
	require.True(t, ok)
	assert.Equal(t, uint16(0), id)
	_, ok = c.Lookup(command.NewTopic("b"))
	assert.False(t, ok)
	_, err := c.Get(1)
	assert.ErrorIs(t, err, ErrUnknownCacheID)

	// The next id is the one the rolled back store would have taken.
	assert.Equal(t, uint16(1), c.Store(command.NewTopic("e")))
}

func TestCacheReset(t *testing.T) {
	c := NewCache(4)
	c.Store(command.NewQueue("a"))
	c.Reset()
	assert.Zero(t, c.Len())
	_, ok := c.Lookup(command.NewQueue("a"))
	assert.False(t, ok)
	assert.Equal(t, uint16(0), c.Store(command.NewQueue("a")))
}

func TestIsCacheable(t *testing.T) {
	assert.True(t, IsCacheable(&command.ProducerID{}))
	assert.True(t, IsCacheable(command.NewTempTopic("c", 1)))
	assert.True(t, IsCacheable(&command.XATransactionID{}))
	assert.False(t, IsCacheable(&command.KeepAliveInfo{}))
	assert.False(t, IsCacheable(&command.ActiveMQTextMessage{}))
}
