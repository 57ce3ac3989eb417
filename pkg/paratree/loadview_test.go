package paratree

import (
	"testing"
	"time"
)

func TestCachedLoadView_PublishesMeanAndLeastLoaded(t *testing.T) {
	sizes := []int64{10, 2, 7}
	fns := make([]func() int, len(sizes))
	for i, sz := range sizes {
		sz := sz
		fns[i] = func() int { return int(sz) }
	}
	v := newCachedLoadView(fns, time.Hour)

	snap := v.snapshot()
	if snap.mean != float64(10+2+7)/3 {
		t.Fatalf("mean = %v, want %v", snap.mean, float64(19)/3)
	}
	if snap.leastLoaded != 1 {
		t.Fatalf("leastLoaded = %d, want 1", snap.leastLoaded)
	}
}

func TestCachedLoadView_IsHotspotThreshold(t *testing.T) {
	snap := &loadSnapshot{sizes: []int64{100, 5}, mean: 52.5}
	if !snap.isHotspot(0, 1.5, 4) {
		t.Fatal("shard 0 should be a hotspot (100 > max(4, 1.5*52.5))")
	}
	if snap.isHotspot(1, 1.5, 4) {
		t.Fatal("shard 1 should not be a hotspot")
	}
}

func TestCachedLoadView_RefreshRepublishesSnapshot(t *testing.T) {
	size := int64(0)
	v := newCachedLoadView([]func() int{func() int { return int(size) }}, time.Hour)
	first := v.snapshot()

	size = 10
	v.refresh()
	second := v.snapshot()

	if second.generation <= first.generation {
		t.Fatalf("generation did not advance: first=%d second=%d", first.generation, second.generation)
	}
	if second.sizes[0] != 10 {
		t.Fatalf("sizes[0] = %d, want 10", second.sizes[0])
	}
}
