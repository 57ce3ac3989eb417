// Package clock provides lock-free monotonic counters used wherever only
// relative ordering matters, not wall-clock time. The cached load view
// stamps each published snapshot with a clock value so tests can assert
// freshness without depending on real timing.
package clock

import "sync/atomic"

// AtomicClock is a monotonically increasing, lock-free counter.
type AtomicClock struct {
	atomic.Uint64
}

func NewAtomic(init uint64) *AtomicClock {
	var ac AtomicClock
	ac.Set(init)
	return &ac
}

func (ac *AtomicClock) Val() uint64 {
	return ac.Load()
}

func (ac *AtomicClock) Next() uint64 {
	return ac.Add(1)
}

func (ac *AtomicClock) Set(t uint64) {
	ac.Store(t)
}
