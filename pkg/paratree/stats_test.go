package paratree

import (
	"math"
	"testing"
	"time"
)

func TestContainer_StatsBalanceScore(t *testing.T) {
	c := newTestContainer(t, StaticHash)
	// weakHash is identity for ints, so key i lands in shard i%4.
	for i := 0; i < 40; i += 4 {
		c.Insert(i, "v")
	}
	// Only shard 0 has entries: maximally unbalanced. BalanceScore is
	// max(0, 1 - stddev/mean), so this collapses to 0.
	st := c.Stats()
	if st.BalanceScore > 0.10 {
		t.Fatalf("BalanceScore = %v, want <= 0.10 for a maximally skewed single shard", st.BalanceScore)
	}
	if st.Inserts != 10 {
		t.Fatalf("Inserts = %d, want 10", st.Inserts)
	}

	for i := 1; i < 40; i++ {
		if i%4 != 0 {
			c.Insert(i, "v")
		}
	}
	time.Sleep(5 * time.Millisecond)
	balanced := c.Stats()
	if balanced.BalanceScore <= st.BalanceScore {
		t.Fatalf("balance score did not improve after spreading keys across shards: before=%v after=%v", st.BalanceScore, balanced.BalanceScore)
	}
	if balanced.BalanceScore < 0.70 {
		t.Fatalf("BalanceScore = %v, want >= 0.70 for evenly spread keys", balanced.BalanceScore)
	}
}

func TestContainer_StatsGetHitsAndMisses(t *testing.T) {
	c := newTestContainer(t, StaticHash)
	c.Insert(1, "a")
	c.Get(1)
	c.Get(2)

	st := c.Stats()
	if st.GetHits != 1 {
		t.Fatalf("GetHits = %d, want 1", st.GetHits)
	}
	if st.GetMisses != 1 {
		t.Fatalf("GetMisses = %d, want 1", st.GetMisses)
	}
}

func TestContainer_StatsAbsentRemoves(t *testing.T) {
	c := newTestContainer(t, StaticHash)
	c.Remove(999)
	st := c.Stats()
	if st.AbsentRemoves != 1 {
		t.Fatalf("AbsentRemoves = %d, want 1", st.AbsentRemoves)
	}
	if math.IsNaN(st.MeanShardSize) {
		t.Fatal("MeanShardSize should not be NaN on an empty container")
	}
}
