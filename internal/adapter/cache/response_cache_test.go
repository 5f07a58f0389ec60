package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/relaylb/relay/internal/core/domain"
)

func TestSingleSlot_EmptyBeforePut(t *testing.T) {
	c := NewSingleSlot()
	_, ok := c.Get()
	assert.False(t, ok)
}

func TestSingleSlot_PutThenGet(t *testing.T) {
	c := NewSingleSlot()
	c.Put(domain.CacheEntry{Body: []byte("hello"), StatusCode: 200})

	entry, ok := c.Get()
	assert.True(t, ok)
	assert.Equal(t, []byte("hello"), entry.Body)
	assert.Equal(t, 200, entry.StatusCode)
}

func TestSingleSlot_PutOverwrites(t *testing.T) {
	c := NewSingleSlot()
	c.Put(domain.CacheEntry{Body: []byte("first"), StatusCode: 200})
	c.Put(domain.CacheEntry{Body: []byte("second"), StatusCode: 503})

	entry, ok := c.Get()
	assert.True(t, ok)
	assert.Equal(t, []byte("second"), entry.Body)
	assert.Equal(t, 503, entry.StatusCode)
}
