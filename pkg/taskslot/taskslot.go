// Package taskslot provides a single-slot task token: at most one task runs
// at a time, and a task requested while the slot is held is dropped, not
// queued. Callers that need the dropped work done again must re-trigger it
// from fresh state.
package taskslot

import "sync/atomic"

// Slot is a single-slot task token.
// The zero value is ready to use.
type Slot struct {
	busy    atomic.Bool
	dropped atomic.Int64
}

// TryAcquire claims the slot. It returns false if the slot is already held.
func (s *Slot) TryAcquire() bool {
	return s.busy.CompareAndSwap(false, true)
}

// Release frees the slot.
func (s *Slot) Release() {
	s.busy.Store(false)
}

// Do runs fn if the slot is free and returns true. If the slot is held the
// call is dropped and Do returns false without running fn.
func (s *Slot) Do(fn func()) bool {
	if !s.TryAcquire() {
		s.dropped.Add(1)
		return false
	}
	defer s.Release()
	fn()
	return true
}

// Dropped returns the number of calls dropped so far.
func (s *Slot) Dropped() int64 {
	return s.dropped.Load()
}
