package paratree

import "testing"

func TestRedirectIndex_RecordLookupForget(t *testing.T) {
	ri := newRedirectIndex[int]()

	if _, ok := ri.lookup(1); ok {
		t.Fatal("lookup on empty index should miss")
	}

	ri.record(1, 3)
	shard, ok := ri.lookup(1)
	if !ok || shard != 3 {
		t.Fatalf("lookup(1) = (%d, %v), want (3, true)", shard, ok)
	}
	if ri.size() != 1 {
		t.Fatalf("size() = %d, want 1", ri.size())
	}

	ri.forget(1)
	if _, ok := ri.lookup(1); ok {
		t.Fatal("lookup after forget should miss")
	}
	if ri.size() != 0 {
		t.Fatalf("size() after forget = %d, want 0", ri.size())
	}
}

func TestRedirectIndex_GCRemovesTautologicalEntries(t *testing.T) {
	ri := newRedirectIndex[int]()
	ri.record(1, 0) // stale: router's natural shard for 1 is now 0 again
	ri.record(2, 1) // still genuinely redirected (natural for 2 is 0)

	removed := ri.gc(func(k int, recordedShard int) bool {
		natural := map[int]int{1: 0, 2: 0}[k]
		return natural == recordedShard
	})
	if removed != 1 {
		t.Fatalf("gc removed = %d, want 1", removed)
	}
	if _, ok := ri.lookup(1); ok {
		t.Fatal("expected key 1's tautological entry to be gone")
	}
	if _, ok := ri.lookup(2); !ok {
		t.Fatal("expected key 2's genuine redirect entry to survive gc")
	}
}
