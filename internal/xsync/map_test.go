// MIT License
//
// Copyright (c) 2022-2026 GoAkt Team
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package xsync

import (
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMap(t *testing.T) {
	m := NewMap[string, int]()
	m.Set("a", 1)
	m.Set("b", 2)

	val, ok := m.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, val)
	assert.True(t, m.Has("b"))
	assert.False(t, m.Has("c"))
	assert.Equal(t, 2, m.Len())

	keys := m.Keys()
	sort.Strings(keys)
	assert.Equal(t, []string{"a", "b"}, keys)

	values := m.Values()
	sort.Ints(values)
	assert.Equal(t, []int{1, 2}, values)

	sum := 0
	m.Range(func(_ string, v int) { sum += v })
	assert.Equal(t, 3, sum)

	m.Delete("a")
	assert.False(t, m.Has("a"))

	m.Reset()
	assert.Zero(t, m.Len())
}

func TestMapSetIfAbsent(t *testing.T) {
	m := NewMap[string, int]()
	val, stored := m.SetIfAbsent("a", 1)
	require.True(t, stored)
	assert.Equal(t, 1, val)

	val, stored = m.SetIfAbsent("a", 2)
	require.False(t, stored)
	assert.Equal(t, 1, val)
}

func TestMapPop(t *testing.T) {
	m := NewMap[string, int]()
	m.Set("a", 1)

	val, ok := m.Pop("a")
	require.True(t, ok)
	assert.Equal(t, 1, val)

	_, ok = m.Pop("a")
	require.False(t, ok)
}

func TestMapDeleteFunc(t *testing.T) {
	m := NewMap[string, int]()
	m.Set("a", 1)

	require.False(t, m.DeleteFunc("a", func(v int) bool { return v == 2 }))
	assert.True(t, m.Has("a"))

	require.True(t, m.DeleteFunc("a", func(v int) bool { return v == 1 }))
	assert.False(t, m.Has("a"))

	require.False(t, m.DeleteFunc("b", func(int) bool { return true }))
}

func TestMapConcurrentSetIfAbsent(t *testing.T) {
	m := NewMap[string, int]()
	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		stored int
	)
	for i := range 50 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, ok := m.SetIfAbsent("key", i); ok {
				mu.Lock()
				stored++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 1, stored)
}
