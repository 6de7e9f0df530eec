package marshal

import (
	"fmt"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/tomruk/openwire-go/command"
)

const (
	DefaultCacheSize = 1024
	MaxCacheSize     = 16383
)

// Only identifiers, transaction ids and destinations may go through the
// reference cache.
var cacheableTypes = mapset.NewThreadUnsafeSet(
	command.TypeConnectionID,
	command.TypeSessionID,
	command.TypeConsumerID,
	command.TypeProducerID,
	command.TypeBrokerID,
	command.TypeMessageID,
	command.TypeLocalTransactionID,
	command.TypeXATransactionID,
	command.TypeActiveMQQueue,
	command.TypeActiveMQTopic,
	command.TypeActiveMQTempQueue,
	command.TypeActiveMQTempTopic,
)

func IsCacheable(v command.DataStructure) bool {
	return cacheableTypes.Contains(v.DataStructureType())
}

// Values are equal for the cache when they have the same type tag and the
// same text form: CacheKey if they have one, String otherwise. Values
// without a text form are compared by identity.
type cacheKey struct {
	tag  byte
	text string
	ptr  command.DataStructure
}

type cacheKeyer interface {
	CacheKey() string
}

func keyOf(v command.DataStructure) cacheKey {
	if k, ok := v.(cacheKeyer); ok {
		return cacheKey{tag: v.DataStructureType(), text: k.CacheKey()}
	}
	if s, ok := v.(fmt.Stringer); ok {
		return cacheKey{tag: v.DataStructureType(), text: s.String()}
	}
	return cacheKey{tag: v.DataStructureType(), ptr: v}
}

type cacheChange struct {
	slot  int
	value command.DataStructure
	key   cacheKey
}

// Cache is one direction of the connection's object reference cache. Ids
// are handed out in order and wrap around at the cache size, replacing the
// value that held the slot.
type Cache struct {
	size   int
	next   int
	values []command.DataStructure
	keys   []cacheKey
	index  map[cacheKey]uint16

	journal    []cacheChange
	journaling bool
}

// NewCache returns a cache with the given number of slots. Sizes outside
// 1..MaxCacheSize are clamped, zero selects DefaultCacheSize.
func NewCache(size int) *Cache {
	switch {
	case size <= 0:
		size = DefaultCacheSize
	case size > MaxCacheSize:
		size = MaxCacheSize
	}
	return &Cache{
		size:   size,
		values: make([]command.DataStructure, size),
		keys:   make([]cacheKey, size),
		index:  make(map[cacheKey]uint16),
	}
}

func (c *Cache) Size() int { return c.size }

// Len returns the number of occupied slots.
func (c *Cache) Len() int {
	if c.next > c.size {
		return c.size
	}
	return c.next
}

// Intern returns the id of a value equal to v if one is cached, with ref set.
// Otherwise v is stored under the next id and ref is false.
func (c *Cache) Intern(v command.DataStructure) (id uint16, ref bool) {
	if id, ok := c.Lookup(v); ok {
		return id, true
	}
	return c.Store(v), false
}

func (c *Cache) Lookup(v command.DataStructure) (uint16, bool) {
	id, ok := c.index[keyOf(v)]
	return id, ok
}

// Store puts v under the next id without checking for an equal value.
func (c *Cache) Store(v command.DataStructure) uint16 {
	slot := c.next % c.size
	if c.journaling {
		c.journal = append(c.journal, cacheChange{slot: slot, value: c.values[slot], key: c.keys[slot]})
	}
	c.evict(slot)

	k := keyOf(v)
	c.values[slot] = v
	c.keys[slot] = k
	c.index[k] = uint16(slot)
	c.next++
	return uint16(slot)
}

func (c *Cache) Get(id uint16) (command.DataStructure, error) {
	if int(id) >= c.size || c.values[id] == nil {
		return nil, fmt.Errorf("%w: %d", ErrUnknownCacheID, id)
	}
	return c.values[id], nil
}

func (c *Cache) Reset() {
	clear(c.values)
	clear(c.keys)
	clear(c.index)
	c.next = 0
	c.journal = c.journal[:0]
	c.journaling = false
}

func (c *Cache) evict(slot int) {
	if c.values[slot] == nil {
		return
	}
	k := c.keys[slot]
	if id, ok := c.index[k]; ok && int(id) == slot {
		delete(c.index, k)
	}
	c.values[slot] = nil
	c.keys[slot] = cacheKey{}
}

// begin starts recording changes so a failed encode can be undone.
func (c *Cache) begin() {
	c.journal = c.journal[:0]
	c.journaling = true
}

func (c *Cache) commit() {
	c.journal = c.journal[:0]
	c.journaling = false
}

func (c *Cache) rollback() {
	for i := len(c.journal) - 1; i >= 0; i-- {
		ch := c.journal[i]
		c.evict(ch.slot)
		if ch.value != nil {
			c.values[ch.slot] = ch.value
			c.keys[ch.slot] = ch.key
			c.index[ch.key] = uint16(ch.slot)
		}
		c.next--
	}
	c.commit()
}
