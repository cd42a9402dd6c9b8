// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package cache

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewLRU(t *testing.T) {
	_, err := NewLRU[string, int](0)
	assert.Error(t, err)

	c, err := NewLRU[string, int](2)
	assert.NoError(t, err)
	assert.Equal(t, 0, c.Len())
}

func TestLRUEviction(t *testing.T) {
	c, _ := NewLRU[string, int](2)
	c.Add("a", 1)
	c.Add("b", 2)
	c.Add("c", 3)

	_, ok := c.Get("a")
	assert.False(t, ok, "oldest entry should be evicted")

	v, ok := c.Get("c")
	assert.True(t, ok)
	assert.Equal(t, 3, v)

	c.Remove("c")
	_, ok = c.Get("c")
	assert.False(t, ok)

	c.Purge()
	assert.Equal(t, 0, c.Len())
}

func TestLRUGetOrLoad(t *testing.T) {
	c, _ := NewLRU[string, int](4)

	loads := 0
	loader := func(key string) (int, error) {
		loads++
		return len(key), nil
	}

	v, err := c.GetOrLoad("abc", loader)
	assert.NoError(t, err)
	assert.Equal(t, 3, v)

	v, err = c.GetOrLoad("abc", loader)
	assert.NoError(t, err)
	assert.Equal(t, 3, v)
	assert.Equal(t, 1, loads)

	hit, miss := c.Stats()
	assert.Equal(t, int64(1), hit)
	assert.Equal(t, int64(1), miss)

	loadErr := errors.New("load failed")
	_, err = c.GetOrLoad("bad", func(string) (int, error) { return 0, loadErr })
	assert.ErrorIs(t, err, loadErr)
	_, ok := c.Get("bad")
	assert.False(t, ok, "failed loads must not be cached")
}

func TestLRUContainsOrAdd(t *testing.T) {
	c, _ := NewLRU[string, int](2)

	ok, evicted := c.ContainsOrAdd("a", 1)
	assert.False(t, ok)
	assert.False(t, evicted)

	ok, _ = c.ContainsOrAdd("a", 2)
	assert.True(t, ok)
	v, _ := c.Get("a")
	assert.Equal(t, 1, v, "existing value is kept")

	c.ContainsOrAdd("b", 2)
	_, evicted = c.ContainsOrAdd("c", 3)
	assert.True(t, evicted)
	assert.Equal(t, 2, c.Len())
}
