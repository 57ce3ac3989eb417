package paratree

import "sync/atomic"

// atomicCounter is a relaxed monotonic counter used for routing and
// operation statistics: pure counters use relaxed ordering, never the
// release/acquire discipline reserved for bounds and the cached load
// view.
type atomicCounter struct {
	v atomic.Uint64
}

func (c *atomicCounter) add(delta uint64) {
	c.v.Add(delta)
}

func (c *atomicCounter) load() uint64 {
	return c.v.Load()
}
