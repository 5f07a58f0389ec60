package domain

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPool_FindAndLen(t *testing.T) {
	u, err := url.Parse("http://localhost:9001")
	require.NoError(t, err)
	pool := NewPool([]*Replica{
		NewReplica("a", u, 1, 0),
		NewReplica("b", u, 1, 0),
	})

	assert.Equal(t, 2, pool.Len())
	assert.NotNil(t, pool.Find("b"))
	assert.Nil(t, pool.Find("missing"))
	assert.Len(t, pool.All(), 2)
}
