package kv

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStore_Claim(t *testing.T) {
	s := New[uint64, string]()

	assert.True(t, s.Claim(1, "first"))
	assert.False(t, s.Claim(1, "second"))

	v, ok := s.Get(1)
	assert.True(t, ok)
	assert.Equal(t, "first", v, "a failed claim must not overwrite")

	_, ok = s.Get(2)
	assert.False(t, ok)

	assert.True(t, s.Release(1, nil))
	assert.True(t, s.Claim(1, "third"))
}

func TestStore_Release(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		owner func(uint64) bool
		freed bool
	}{
		{name: "other owner", key: "card", owner: func(v uint64) bool { return v == 8 }, freed: false},
		{name: "matching owner", key: "card", owner: func(v uint64) bool { return v == 7 }, freed: true},
		{name: "any owner", key: "card", owner: nil, freed: true},
		{name: "missing key", key: "missing", owner: nil, freed: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New[string, uint64]()
			s.Claim("card", 7)

			assert.Equal(t, tt.freed, s.Release(tt.key, tt.owner))
			if tt.freed {
				assert.Equal(t, 0, s.Len())
			} else {
				assert.Equal(t, 1, s.Len())
			}
		})
	}
}

func TestStore_Sweep(t *testing.T) {
	s := New[uint64, string]()
	for i := uint64(1); i <= 5; i++ {
		s.Claim(i, "card")
	}

	n := s.Sweep(func(id uint64, _ string) bool { return id < 3 })
	assert.Equal(t, 2, n)
	assert.Equal(t, 3, s.Len())

	_, ok := s.Get(1)
	assert.False(t, ok)
	_, ok = s.Get(3)
	assert.True(t, ok)
}

func TestStore_ConcurrentClaim(t *testing.T) {
	s := New[string, int]()
	var (
		wg   sync.WaitGroup
		wins atomic.Int32
	)

	for i := range 100 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if s.Claim("session", i) {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), wins.Load(), "exactly one goroutine may claim a key")
	assert.Equal(t, 1, s.Len())
}
