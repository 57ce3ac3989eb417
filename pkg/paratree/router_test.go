package paratree

import (
	"testing"
	"time"
)

func testLoadView(sizes []int64) *cachedLoadView {
	fns := make([]func() int, len(sizes))
	for i, sz := range sizes {
		sz := sz
		fns[i] = func() int { return int(sz) }
	}
	return newCachedLoadView(fns, time.Hour)
}

func TestRouter_StaticHashIgnoresLoad(t *testing.T) {
	lv := testLoadView([]int64{100, 0, 0, 0})
	r := newRouter[int](4, StaticHash, routerConfig{
		hotspotFactor: 1.5, hotspotMinAbs: 1, maxConsecutiveRedirects: 3, redirectCooldown: time.Minute,
	}, lv)

	shard, redirected, natural := r.route(0)
	if redirected {
		t.Fatal("STATIC_HASH must never redirect")
	}
	if shard != natural {
		t.Fatalf("shard=%d natural=%d, want equal", shard, natural)
	}
}

func TestRouter_LoadAwareRedirectsHotspot(t *testing.T) {
	lv := testLoadView([]int64{100, 0, 0, 0})
	r := newRouter[int](4, LoadAware, routerConfig{
		hotspotFactor: 1.0, hotspotMinAbs: 1, maxConsecutiveRedirects: 3, redirectCooldown: time.Minute,
	}, lv)

	// key 0's natural shard under weakHash identity % 4 is shard 0, the hotspot.
	shard, redirected, natural := r.route(0)
	if natural != 0 {
		t.Fatalf("natural = %d, want 0", natural)
	}
	if !redirected {
		t.Fatal("expected a redirect away from the hotspot shard")
	}
	if shard == natural {
		t.Fatal("redirected shard must differ from natural shard")
	}
}

func TestRouter_AdversaryGuardPinsAfterThreshold(t *testing.T) {
	lv := testLoadView([]int64{100, 0, 0, 0})
	r := newRouter[int](4, LoadAware, routerConfig{
		hotspotFactor: 1.0, hotspotMinAbs: 1, maxConsecutiveRedirects: 3, redirectCooldown: time.Minute,
	}, lv)

	// Same key redirected repeatedly within the cooldown: calls 1-3
	// succeed, call 4 is denied and the key becomes suspicious.
	for i := 0; i < 3; i++ {
		_, redirected, _ := r.route(0)
		if !redirected {
			t.Fatalf("call %d: expected redirect to succeed", i+1)
		}
	}
	_, redirected, _ := r.route(0)
	if redirected {
		t.Fatal("call 4: expected the adversary guard to deny the redirect")
	}
	if !r.suspicious.Contains(0) {
		t.Fatal("expected key 0 to be marked suspicious")
	}
}

func TestRouter_AdversaryGuardResetsAfterCooldown(t *testing.T) {
	lv := testLoadView([]int64{100, 0, 0, 0})
	r := newRouter[int](4, LoadAware, routerConfig{
		hotspotFactor: 1.0, hotspotMinAbs: 1, maxConsecutiveRedirects: 1, redirectCooldown: time.Millisecond,
	}, lv)

	_, redirected, _ := r.route(0)
	if !redirected {
		t.Fatal("first redirect should succeed")
	}
	_, redirected, _ = r.route(0)
	if redirected {
		t.Fatal("second immediate redirect should be denied (threshold=1)")
	}

	time.Sleep(5 * time.Millisecond)
	_, redirected, _ = r.route(0)
	if !redirected {
		t.Fatal("after the cooldown elapses, the guard should allow a redirect again")
	}
}

func TestRouter_VirtualNodesUsesRing(t *testing.T) {
	lv := testLoadView([]int64{0, 0, 0, 0})
	r := newRouter[int](4, VirtualNodes, routerConfig{
		hotspotFactor: 1.5, hotspotMinAbs: 1, maxConsecutiveRedirects: 3,
		redirectCooldown: time.Minute, virtualNodesPerShard: 16,
	}, lv)
	if r.ring == nil {
		t.Fatal("VIRTUAL_NODES strategy must build a ring")
	}
	shard, redirected, _ := r.route(123)
	if redirected {
		t.Fatal("with a balanced load view, VIRTUAL_NODES should not redirect")
	}
	if shard < 0 || shard >= 4 {
		t.Fatalf("shard %d out of range", shard)
	}
}
