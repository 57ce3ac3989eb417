package paratree

import (
	"cmp"
	"hash/maphash"
	"math"
	"sync"
	"time"

	"github.com/zhangyunhao116/skipset"
)

// Defaults for router tuning knobs exposed via Config.
const (
	DefaultHotspotFactor           = 1.5
	DefaultHotspotMinAbs           = 16
	DefaultMaxConsecutiveRedirects = 3
	DefaultRedirectCooldown        = 100 * time.Millisecond
	DefaultVirtualNodesPerShard    = 16
	DefaultRefreshPeriod           = time.Millisecond
)

// historySweepEvery bounds the adversary-history map's memory: every this
// many guard evaluations, entries whose cooldown expired long ago are
// dropped.
const historySweepEvery = 1024

type adversaryRecord struct {
	lastRedirect time.Time
	consecutive  int
}

// RouterStats is the snapshot returned by router.stats.
type RouterStats struct {
	TotalRoutes        uint64
	TotalRedirects     uint64
	SuspiciousKeyCount int
	HistorySize        int
}

// router maps a key to a shard index, subject to hotspot detection,
// redirect policy, and the adversary guard. Routing never acquires a
// shard lock — only its own short local mutex over adversary history.
type router[K cmp.Ordered] struct {
	n        int
	strategy Strategy
	seed     maphash.Seed
	ring     *hashRing

	loadView *cachedLoadView

	hotspotFactor           float64
	hotspotMinAbs           int
	maxConsecutiveRedirects int
	cooldown                time.Duration

	histMu       sync.Mutex
	history      map[K]*adversaryRecord
	sweepCounter uint64

	suspicious *skipset.FuncSet[K]

	totalRoutes    atomicCounter
	totalRedirects atomicCounter
}

func newRouter[K cmp.Ordered](n int, strategy Strategy, cfg routerConfig, lv *cachedLoadView) *router[K] {
	seed := maphash.MakeSeed()
	r := &router[K]{
		n:                       n,
		strategy:                strategy,
		seed:                    seed,
		loadView:                lv,
		hotspotFactor:           cfg.hotspotFactor,
		hotspotMinAbs:           cfg.hotspotMinAbs,
		maxConsecutiveRedirects: cfg.maxConsecutiveRedirects,
		cooldown:                cfg.redirectCooldown,
		history:                 make(map[K]*adversaryRecord),
		suspicious:              skipset.NewFunc[K](func(a, b K) bool { return a < b }),
	}
	if strategy.usesRing() {
		r.ring = newHashRing(n, cfg.virtualNodesPerShard, seed)
	}
	return r
}

type routerConfig struct {
	hotspotFactor           float64
	hotspotMinAbs           int
	maxConsecutiveRedirects int
	redirectCooldown        time.Duration
	virtualNodesPerShard    int
}

// natural returns the shard the active strategy would choose with no
// redirection: the static/range partition for STATIC_HASH, RANGE and
// LOAD_AWARE, or the consistent-hash ring for VIRTUAL_NODES and
// INTELLIGENT (glossary: "Natural shard of k").
func (r *router[K]) natural(k K) int {
	switch r.strategy {
	case Range:
		return r.rangeShard(k)
	case VirtualNodes, Intelligent:
		shard, ok := r.ring.shardFor(strongHash(r.seed, k))
		if !ok {
			return 0
		}
		return shard
	default: // STATIC_HASH, LOAD_AWARE
		return int(weakHash(r.seed, k) % uint64(r.n))
	}
}

func (r *router[K]) rangeShard(k K) int {
	h := weakHash(r.seed, k)
	width := math.MaxUint64 / uint64(r.n)
	if width == 0 {
		width = 1
	}
	idx := int(h / width)
	if idx >= r.n {
		idx = r.n - 1
	}
	return idx
}

// route returns (shard, wasRedirected, naturalShard).
func (r *router[K]) route(k K) (shard int, redirected bool, natural int) {
	r.totalRoutes.add(1)
	natural = r.natural(k)

	if !r.strategy.overlaysLoadAware() {
		return natural, false, natural
	}

	view := r.loadView.snapshot()
	if !view.isHotspot(natural, r.hotspotFactor, r.hotspotMinAbs) {
		return natural, false, natural
	}

	target := view.leastLoaded
	if target == natural {
		return natural, false, natural
	}

	if !r.guardAllows(k) {
		return natural, false, natural
	}

	r.totalRedirects.add(1)
	return target, true, natural
}

// guardAllows implements the adversary guard and redirect rate limiter: a
// key is pinned to its natural shard once it accumulates
// maxConsecutiveRedirects redirects within the cooldown window, and stays
// pinned — refreshing the cooldown on every subsequent attempt — until an
// attempt arrives after the window has elapsed with no intervening
// redirect.
func (r *router[K]) guardAllows(k K) bool {
	r.histMu.Lock()
	defer r.histMu.Unlock()

	now := time.Now()
	rec, ok := r.history[k]
	if !ok {
		rec = &adversaryRecord{}
		r.history[k] = rec
	} else if now.Sub(rec.lastRedirect) > r.cooldown {
		rec.consecutive = 0
	}

	if rec.consecutive >= r.maxConsecutiveRedirects {
		rec.lastRedirect = now
		r.suspicious.Add(k)
		r.maybeSweepLocked(now)
		return false
	}

	rec.consecutive++
	rec.lastRedirect = now
	r.maybeSweepLocked(now)
	return true
}

// maybeSweepLocked evicts stale adversary-history entries so the map
// stays memory-bounded. Callers hold histMu.
func (r *router[K]) maybeSweepLocked(now time.Time) {
	r.sweepCounter++
	if r.sweepCounter%historySweepEvery != 0 {
		return
	}
	staleAfter := 10 * r.cooldown
	for k, rec := range r.history {
		if now.Sub(rec.lastRedirect) > staleAfter {
			delete(r.history, k)
			r.suspicious.Remove(k)
		}
	}
}

func (r *router[K]) stats() RouterStats {
	return RouterStats{
		TotalRoutes:        r.totalRoutes.load(),
		TotalRedirects:     r.totalRedirects.load(),
		SuspiciousKeyCount: r.suspicious.Len(),
		HistorySize:        r.historyLen(),
	}
}

func (r *router[K]) historyLen() int {
	r.histMu.Lock()
	defer r.histMu.Unlock()
	return len(r.history)
}
