package lockstore

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetFieldIfAbsent(t *testing.T) {
	s := NewMemoryStore()

	assert.True(t, s.SetFieldIfAbsent("k", "lock", "1"))
	assert.False(t, s.SetFieldIfAbsent("k", "lock", "1"))
	assert.True(t, s.SetFieldIfAbsent("k", "other", "1"))
}

func TestSetFieldIfAbsentConcurrent(t *testing.T) {
	s := NewMemoryStore()

	const n = 50
	var wg sync.WaitGroup
	winners := make(chan int, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if s.SetFieldIfAbsent("k", "lock", fmt.Sprintf("%d", i)) {
				winners <- i
			}
		}(i)
	}
	wg.Wait()
	close(winners)

	count := 0
	for range winners {
		count++
	}
	assert.Equal(t, 1, count)
}

func TestFieldsShareKeyExpiry(t *testing.T) {
	s := NewMemoryStore()

	require.True(t, s.SetFieldIfAbsent("k", "lock", "1"))
	require.True(t, s.Expire("k", 10*time.Millisecond))
	s.SetField("k", "result", "{}")

	v, ok := s.GetField("k", "result")
	require.True(t, ok)
	assert.Equal(t, "{}", v)

	time.Sleep(20 * time.Millisecond)

	_, ok = s.GetField("k", "lock")
	assert.False(t, ok)
	_, ok = s.GetField("k", "result")
	assert.False(t, ok)

	// expired key can be re-acquired
	assert.True(t, s.SetFieldIfAbsent("k", "lock", "1"))
}

func TestDeleteFieldReleasesLock(t *testing.T) {
	s := NewMemoryStore()

	require.True(t, s.SetFieldIfAbsent("k", "lock", "1"))
	s.DeleteField("k", "lock")
	assert.True(t, s.SetFieldIfAbsent("k", "lock", "1"))
}

func TestSetGetWithTTL(t *testing.T) {
	s := NewMemoryStore()

	s.Set("r", "payload", 10*time.Millisecond)
	v, ok := s.Get("r")
	require.True(t, ok)
	assert.Equal(t, "payload", v)

	time.Sleep(20 * time.Millisecond)
	_, ok = s.Get("r")
	assert.False(t, ok)
}

func TestExpireMissingKey(t *testing.T) {
	s := NewMemoryStore()
	assert.False(t, s.Expire("missing", time.Minute))
}

func TestDelete(t *testing.T) {
	s := NewMemoryStore()
	s.Set("r", "payload", time.Minute)
	s.Delete("r")
	_, ok := s.Get("r")
	assert.False(t, ok)
}
