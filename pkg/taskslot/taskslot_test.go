package taskslot

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDoRunsWhenFree(t *testing.T) {
	var slot Slot

	ran := false
	ok := slot.Do(func() { ran = true })
	assert.True(t, ok)
	assert.True(t, ran)
	assert.EqualValues(t, 0, slot.Dropped())
}

func TestDoDropsWhileHeld(t *testing.T) {
	var slot Slot

	started := make(chan struct{})
	release := make(chan struct{})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		slot.Do(func() {
			close(started)
			<-release
		})
	}()

	<-started
	ran := false
	ok := slot.Do(func() { ran = true })
	assert.False(t, ok, "call during a held slot must be dropped")
	assert.False(t, ran, "dropped call must not run")
	assert.EqualValues(t, 1, slot.Dropped())

	close(release)
	wg.Wait()

	// the slot is free again; nothing queued flushes by itself
	ok = slot.Do(func() { ran = true })
	assert.True(t, ok)
	assert.True(t, ran)
}

func TestTryAcquireRelease(t *testing.T) {
	var slot Slot

	assert.True(t, slot.TryAcquire())
	assert.False(t, slot.TryAcquire())
	slot.Release()
	assert.True(t, slot.TryAcquire())
}

func TestConcurrentDoRunsExactlyOneAtATime(t *testing.T) {
	var slot Slot

	const n = 32
	var wg sync.WaitGroup
	var ran, dropped int
	var mu sync.Mutex

	gate := make(chan struct{})
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-gate
			ok := slot.Do(func() {})
			mu.Lock()
			if ok {
				ran++
			} else {
				dropped++
			}
			mu.Unlock()
		}()
	}
	close(gate)
	wg.Wait()

	assert.Equal(t, n, ran+dropped)
	assert.GreaterOrEqual(t, ran, 1)
	assert.EqualValues(t, dropped, slot.Dropped())
}
