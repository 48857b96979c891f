package pending

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPutAndTake(t *testing.T) {
	s := NewMemoryStore(0, 0)

	s.Put("m1", "лол")
	require.Equal(t, 1, s.Len())

	text, ok := s.Take("m1")
	require.True(t, ok)
	assert.Equal(t, "лол", text)
	assert.Equal(t, 0, s.Len())
}

func TestTakeConsumesExactlyOnce(t *testing.T) {
	s := NewMemoryStore(0, 0)
	s.Put("m1", "текст")

	_, ok := s.Take("m1")
	require.True(t, ok)

	// Duplicate delivery of the button press is a no-op.
	_, ok = s.Take("m1")
	assert.False(t, ok)
}

func TestTakeUnknownID(t *testing.T) {
	s := NewMemoryStore(0, 0)
	_, ok := s.Take("never-existed")
	assert.False(t, ok)
}

func TestPutOverwritesSameID(t *testing.T) {
	s := NewMemoryStore(0, 0)
	s.Put("m1", "первый")
	s.Put("m1", "второй")

	require.Equal(t, 1, s.Len())
	text, ok := s.Take("m1")
	require.True(t, ok)
	assert.Equal(t, "второй", text)
}

func TestTTLEviction(t *testing.T) {
	s := NewMemoryStore(time.Minute, 0)

	current := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	s.clock = func() time.Time { return current }

	s.Put("m1", "текст")
	current = current.Add(2 * time.Minute)

	_, ok := s.Take("m1")
	assert.False(t, ok, "expired entry must behave as already consumed")
	assert.Equal(t, 0, s.Len())
}

func TestMaxEntriesEvictsOldest(t *testing.T) {
	s := NewMemoryStore(time.Hour, 2)

	current := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	s.clock = func() time.Time { return current }

	s.Put("m1", "a")
	current = current.Add(time.Second)
	s.Put("m2", "b")
	current = current.Add(time.Second)
	s.Put("m3", "c")

	assert.Equal(t, 2, s.Len())
	_, ok := s.Take("m1")
	assert.False(t, ok, "oldest entry should have been evicted")
	_, ok = s.Take("m3")
	assert.True(t, ok)
}

func TestConcurrentTakeSingleWinner(t *testing.T) {
	s := NewMemoryStore(0, 0)
	s.Put("m1", "текст")

	var winners int32
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, ok := s.Take("m1"); ok {
				atomic.AddInt32(&winners, 1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), winners, "exactly one Take may succeed")
}

func TestConcurrentDistinctIDs(t *testing.T) {
	s := NewMemoryStore(0, 0)

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			id := fmt.Sprintf("m%d", n)
			s.Put(id, "текст")
			_, ok := s.Take(id)
			assert.True(t, ok)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 0, s.Len())
}
