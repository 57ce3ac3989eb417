package paratree

import "testing"

func TestAtomicCounter_AddAndLoad(t *testing.T) {
	var c atomicCounter
	c.add(3)
	c.add(4)
	if got := c.load(); got != 7 {
		t.Fatalf("load() = %d, want 7", got)
	}
}
