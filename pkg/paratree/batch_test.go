package paratree

import "testing"

func TestBatch_CountTracksPuts(t *testing.T) {
	b := NewBatch[int, string](4)
	if b.Count() != 0 {
		t.Fatalf("Count() on empty batch = %d, want 0", b.Count())
	}
	b.Put(1, "a")
	b.Put(2, "b")
	if b.Count() != 2 {
		t.Fatalf("Count() = %d, want 2", b.Count())
	}
}
