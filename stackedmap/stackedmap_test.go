// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stackedmap_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vechain/repstake/stackedmap"
)

type result struct {
	v   string
	ok  bool
	err error
}

func get(sm *stackedmap.StackedMap[string, string], key string) result {
	v, ok, err := sm.Get(key)
	return result{v, ok, err}
}

func TestStackedMap(t *testing.T) {
	assert := assert.New(t)
	src := map[string]string{"foo": "bar"}

	sm := stackedmap.New(func(key string) (string, bool, error) {
		v, r := src[key]
		return v, r, nil
	})

	tests := []struct {
		f         func()
		depth     int
		putKey    string
		putValue  string
		getKey    string
		getReturn result
	}{
		{func() {}, 1, "", "", "foo", result{"bar", true, nil}},
		{func() { sm.Push() }, 2, "foo", "baz", "foo", result{"baz", true, nil}},
		{func() {}, 2, "foo", "baz1", "foo", result{"baz1", true, nil}},
		{func() { sm.Push() }, 3, "foo", "qux", "foo", result{"qux", true, nil}},
		{func() { sm.Pop() }, 2, "", "", "foo", result{"baz1", true, nil}},
		{func() { sm.Pop() }, 1, "", "", "foo", result{"bar", true, nil}},
		{func() {}, 1, "", "", "nope", result{"", false, nil}},

		{func() { sm.Push(); sm.Push() }, 3, "", "", "", result{}},
		{func() { sm.PopTo(1) }, 1, "", "", "foo", result{"bar", true, nil}},
	}

	for _, test := range tests {
		test.f()
		assert.Equal(test.depth, sm.Depth())
		if test.putKey != "" {
			sm.Put(test.putKey, test.putValue)
		}
		if test.getKey != "" {
			assert.Equal(test.getReturn, get(sm, test.getKey))
		}
	}
}

func TestStackedMapSourceError(t *testing.T) {
	errSrc := errors.New("source failure")
	sm := stackedmap.New(func(string) (string, bool, error) {
		return "", false, errSrc
	})

	_, _, err := sm.Get("k")
	assert.ErrorIs(t, err, errSrc)

	// staged values shadow the failing source
	sm.Put("k", "v")
	v, ok, err := sm.Get("k")
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", v)
}

func TestStackedMapPuts(t *testing.T) {
	assert := assert.New(t)
	sm := stackedmap.New(func(string) (string, bool, error) {
		return "", false, nil
	})

	kvs := []struct {
		k, v string
	}{
		{"a", "b"},
		{"a", "b"},
		{"a1", "b1"},
		{"a2", "b2"},
		{"a3", "b3"},
		{"a4", "b4"},
	}

	for _, kv := range kvs {
		sm.Push()
		sm.Put(kv.k, kv.v)
	}
	i := 0
	sm.Journal(func(k, v string) bool {
		assert.Equal(kvs[i].k, k)
		assert.Equal(kvs[i].v, v)
		i++
		return true
	})
	assert.Equal(len(kvs), i)

	i = 0
	sm.Journal(func(string, string) bool {
		i++
		return false
	})
	assert.Equal(1, i, "Journal traverse should abort")
}

func TestStackedMapPopReverts(t *testing.T) {
	sm := stackedmap.New(func(string) (int, bool, error) {
		return 0, false, nil
	})

	sm.Put("a", 1)
	depth := sm.Push()
	sm.Put("a", 2)
	sm.Put("a", 3)
	sm.Put("b", 4)
	sm.PopTo(depth)

	v, ok, _ := sm.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	_, ok, _ = sm.Get("b")
	assert.False(t, ok)

	var journal []string
	sm.Journal(func(k string, _ int) bool {
		journal = append(journal, k)
		return true
	})
	assert.Equal(t, []string{"a"}, journal)
}
