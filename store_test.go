package abuseguard

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestInMemoryReportCacheWindow(t *testing.T) {
	cache := NewInMemoryReportCache(time.Minute)
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	assert.True(t, cache.Acquire("1.2.3.4", t0), "first attempt proceeds")
	assert.False(t, cache.Acquire("1.2.3.4", t0), "same instant is suppressed")
	assert.False(t, cache.Acquire("1.2.3.4", t0.Add(30*time.Second)))
	assert.False(t, cache.Acquire("1.2.3.4", t0.Add(time.Minute-time.Millisecond)))
	assert.True(t, cache.Acquire("1.2.3.4", t0.Add(time.Minute)), "window is half open")

	last, ok := cache.Last("1.2.3.4")
	assert.True(t, ok)
	assert.Equal(t, t0.Add(time.Minute), last)
}

func TestInMemoryReportCacheSuppressionDoesNotExtendWindow(t *testing.T) {
	cache := NewInMemoryReportCache(time.Minute)
	t0 := time.Now()

	assert.True(t, cache.Acquire("1.2.3.4", t0))
	assert.False(t, cache.Acquire("1.2.3.4", t0.Add(50*time.Second)))
	assert.True(t, cache.Acquire("1.2.3.4", t0.Add(61*time.Second)))
}

func TestInMemoryReportCacheIndependentIPs(t *testing.T) {
	cache := NewInMemoryReportCache(time.Hour)
	now := time.Now()

	assert.True(t, cache.Acquire("1.1.1.1", now))
	assert.True(t, cache.Acquire("2.2.2.2", now))
	assert.Equal(t, 2, cache.Len())

	_, ok := cache.Last("3.3.3.3")
	assert.False(t, ok)
}

func TestInMemoryReportCacheSweep(t *testing.T) {
	cache := NewInMemoryReportCache(time.Minute)
	t0 := time.Now()

	cache.Acquire("old", t0)
	cache.Acquire("fresh", t0.Add(45*time.Second))

	removed := cache.Sweep(t0.Add(time.Minute))
	assert.Equal(t, 1, removed)
	assert.Equal(t, 1, cache.Len())

	_, ok := cache.Last("old")
	assert.False(t, ok)
	assert.False(t, cache.Acquire("fresh", t0.Add(time.Minute)), "sweep keeps fresh entries")
}

func TestInMemoryReportCacheConcurrentAcquire(t *testing.T) {
	cache := NewInMemoryReportCache(time.Hour)
	now := time.Now()

	var granted int32
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if cache.Acquire("9.9.9.9", now) {
				atomic.AddInt32(&granted, 1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), granted)
}
