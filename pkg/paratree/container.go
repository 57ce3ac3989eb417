// Package paratree implements an in-memory, thread-safe, ordered,
// sharded key->value container with adaptive routing and a redirect
// index for linearizable lookups.
package paratree

import (
	"cmp"
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"paratree/pkg/errs"
)

// Config configures a Container at construction time. New rejects a
// NumShards, VirtualNodesPerShard or MaxConsecutiveRedirects below 1, a
// non-positive HotspotFactor or RefreshPeriod, and an unknown Strategy;
// zero HotspotMinAbs and RedirectCooldown are accepted. Use DefaultConfig
// as a starting point.
type Config struct {
	NumShards               int
	Strategy                Strategy
	VirtualNodesPerShard    int
	HotspotFactor           float64
	HotspotMinAbs           int
	MaxConsecutiveRedirects int
	RedirectCooldown        time.Duration
	RefreshPeriod           time.Duration
}

// DefaultConfig mirrors pkg/config.Default's ContainerConfig values.
func DefaultConfig() Config {
	return Config{
		NumShards:               16,
		Strategy:                Intelligent,
		VirtualNodesPerShard:    DefaultVirtualNodesPerShard,
		HotspotFactor:           DefaultHotspotFactor,
		HotspotMinAbs:           DefaultHotspotMinAbs,
		MaxConsecutiveRedirects: DefaultMaxConsecutiveRedirects,
		RedirectCooldown:        DefaultRedirectCooldown,
		RefreshPeriod:           time.Millisecond,
	}
}

func (c Config) validate() error {
	if c.NumShards < 1 {
		return fmt.Errorf("%w: NumShards must be >= 1, got %d", errs.ErrConfigInvalid, c.NumShards)
	}
	if !c.Strategy.valid() {
		return fmt.Errorf("%w: unknown strategy %q", errs.ErrConfigInvalid, c.Strategy)
	}
	if c.VirtualNodesPerShard < 1 {
		return fmt.Errorf("%w: VirtualNodesPerShard must be >= 1", errs.ErrConfigInvalid)
	}
	if c.HotspotFactor <= 0 {
		return fmt.Errorf("%w: HotspotFactor must be > 0", errs.ErrConfigInvalid)
	}
	if c.MaxConsecutiveRedirects < 1 {
		return fmt.Errorf("%w: MaxConsecutiveRedirects must be >= 1", errs.ErrConfigInvalid)
	}
	if c.RefreshPeriod <= 0 {
		return fmt.Errorf("%w: RefreshPeriod must be > 0", errs.ErrConfigInvalid)
	}
	return nil
}

// Container is the top-level parallel tree: N independent shards fronted
// by an adaptive router and a redirect index, wired together as a thin
// struct of independently-testable collaborators.
type Container[K cmp.Ordered, V any] struct {
	cfg       Config
	shards    []*shard[K, V]
	router    *router[K]
	redirects *redirectIndex[K]
	loadView  *cachedLoadView

	cancel context.CancelFunc
	closed atomic.Bool

	opInserts, opUpdates, opRemoves, opAbsent, opGetHits, opGetMisses atomicCounter
}

// New constructs a Container and starts its background load-view
// refresher. Callers must call Close when done.
func New[K cmp.Ordered, V any](cfg Config) (*Container[K, V], error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	shards := make([]*shard[K, V], cfg.NumShards)
	for i := range shards {
		shards[i] = newShard[K, V]()
	}

	sizeFns := make([]func() int, cfg.NumShards)
	for i, s := range shards {
		s := s
		sizeFns[i] = s.sizeOf
	}
	loadView := newCachedLoadView(sizeFns, cfg.RefreshPeriod)

	rt := newRouter[K](cfg.NumShards, cfg.Strategy, routerConfig{
		hotspotFactor:           cfg.HotspotFactor,
		hotspotMinAbs:           cfg.HotspotMinAbs,
		maxConsecutiveRedirects: cfg.MaxConsecutiveRedirects,
		redirectCooldown:        cfg.RedirectCooldown,
		virtualNodesPerShard:    cfg.VirtualNodesPerShard,
	}, loadView)

	ctx, cancel := context.WithCancel(context.Background())
	c := &Container[K, V]{
		cfg:       cfg,
		shards:    shards,
		router:    rt,
		redirects: newRedirectIndex[K](),
		loadView:  loadView,
		cancel:    cancel,
	}
	loadView.start(ctx)
	return c, nil
}

// locate returns the shard k actually lives in (or would be placed into,
// for a key that doesn't exist yet): the redirect index's recorded shard
// if present, otherwise the strategy's natural shard. Reads never
// re-run the redirect decision — only Insert does, for fresh keys.
func (c *Container[K, V]) locate(k K) int {
	if loc, ok := c.redirects.lookup(k); ok {
		return loc
	}
	return c.router.natural(k)
}

// Insert upserts k->v and reports whether k was absent beforehand. An
// existing key is always written back to the shard it already lives in;
// only a genuinely new key is subject to the router's redirect decision,
// following the write ordering lock -> mutate -> bounds -> redirect
// bookkeeping -> unlock, all under one shard lock via shard.insert's
// afterMutate hook.
//
// A key with no redirect-index entry is not necessarily new: the common
// case for every key is to live at its natural shard with no redirect
// entry at all, since one is only ever recorded when route() picked
// something other than natural. Without the natural-shard check below,
// re-inserting such a key after its natural shard turns into a hotspot
// would call route() again, get handed a different target, and plant a
// second copy of the key there — the original at natural is never
// removed, so the same logical key ends up live in two shards at once.
func (c *Container[K, V]) Insert(k K, v V) bool {
	if loc, ok := c.redirects.lookup(k); ok {
		kind := c.shards[loc].insert(k, v, nil)
		c.recordInsert(kind)
		return kind == inserted
	}

	natural := c.router.natural(k)
	if c.shards[natural].contains(k) {
		kind := c.shards[natural].insert(k, v, nil)
		c.recordInsert(kind)
		return kind == inserted
	}

	target, redirected, _ := c.router.route(k)
	kind := c.shards[target].insert(k, v, func(mk mutationKind) {
		if mk == inserted && redirected {
			c.redirects.record(k, target)
		}
	})
	c.recordInsert(kind)
	return kind == inserted
}

// InsertBatch applies every pair in b in order, returning the count that
// were fresh inserts rather than updates.
func (c *Container[K, V]) InsertBatch(b Batch[K, V]) int {
	fresh := 0
	for _, p := range b.pairs {
		if c.Insert(p.Key, p.Value) {
			fresh++
		}
	}
	return fresh
}

// Remove deletes k if present and reports whether it was present. A
// redirect index entry for k, if any, is forgotten under the same shard
// lock that performs the deletion.
func (c *Container[K, V]) Remove(k K) bool {
	if loc, ok := c.redirects.lookup(k); ok {
		kind := c.shards[loc].remove(k, func(mk mutationKind) {
			if mk == removed {
				c.redirects.forget(k)
			}
		})
		c.recordRemove(kind)
		return kind == removed
	}

	natural := c.router.natural(k)
	kind := c.shards[natural].remove(k, nil)
	c.recordRemove(kind)
	return kind == removed
}

// Get returns the value stored for k, if any.
func (c *Container[K, V]) Get(k K) (V, bool) {
	v, ok := c.shards[c.locate(k)].lookup(k)
	if ok {
		c.opGetHits.add(1)
	} else {
		c.opGetMisses.add(1)
	}
	return v, ok
}

// Contains reports whether k is present, without returning its value.
func (c *Container[K, V]) Contains(k K) bool {
	return c.shards[c.locate(k)].contains(k)
}

// Pair is one key/value result from a range query.
type Pair[K cmp.Ordered, V any] struct {
	Key   K
	Value V
}

// RangeCollect returns every (k, v) with lo <= k <= hi, in ascending key
// order across the whole container. Each shard is pruned lock-free via
// its atomic bounds before paying for its locked scan; the per-shard
// results, each already ascending, are then merged.
func (c *Container[K, V]) RangeCollect(lo, hi K) []Pair[K, V] {
	var perShard [][]Pair[K, V]
	for _, s := range c.shards {
		if !s.intersectsRange(lo, hi) {
			continue
		}
		var out []Pair[K, V]
		s.rangeCollect(lo, hi, func(k K, v V) {
			out = append(out, Pair[K, V]{Key: k, Value: v})
		})
		if len(out) > 0 {
			perShard = append(perShard, out)
		}
	}
	return mergeAscending(perShard)
}

// Range calls visit for every (k, v) with lo <= k <= hi, in ascending
// order, stopping early if visit returns false.
func (c *Container[K, V]) Range(lo, hi K, visit func(K, V) bool) {
	for _, p := range c.RangeCollect(lo, hi) {
		if !visit(p.Key, p.Value) {
			return
		}
	}
}

// mergeAscending k-way merges already-sorted runs into one ascending
// sequence. Each run is small relative to the whole container, so a
// straightforward repeated-scan merge (no heap) is adequate.
func mergeAscending[K cmp.Ordered, V any](runs [][]Pair[K, V]) []Pair[K, V] {
	total := 0
	for _, r := range runs {
		total += len(r)
	}
	if total == 0 {
		return nil
	}
	idx := make([]int, len(runs))
	out := make([]Pair[K, V], 0, total)
	for {
		best := -1
		for i, r := range runs {
			if idx[i] >= len(r) {
				continue
			}
			if best == -1 || r[idx[i]].Key < runs[best][idx[best]].Key {
				best = i
			}
		}
		if best == -1 {
			break
		}
		out = append(out, runs[best][idx[best]])
		idx[best]++
	}
	return out
}

// Size returns the total number of keys across every shard.
func (c *Container[K, V]) Size() int {
	total := 0
	for _, s := range c.shards {
		total += s.sizeOf()
	}
	return total
}

func (c *Container[K, V]) recordInsert(kind mutationKind) {
	if kind == inserted {
		c.opInserts.add(1)
	} else {
		c.opUpdates.add(1)
	}
}

func (c *Container[K, V]) recordRemove(kind mutationKind) {
	if kind == removed {
		c.opRemoves.add(1)
	} else {
		c.opAbsent.add(1)
	}
}

// RebalanceShards walks the shards in index order and, for each one the
// cached load view reports as a hotspot, moves keys one at a time into
// the view's least-loaded shard, re-reading the view after each move and
// stopping on that shard once the view no longer marks it hot (or it is
// empty). It records a redirect-index entry for each moved key and
// returns the number moved. Like GCRedirects' migrateKey, each move holds
// two shard locks at once, always acquired in ascending index order to
// prevent deadlock against any other two-lock caller.
func (c *Container[K, V]) RebalanceShards() int {
	snap := c.loadView.snapshot()
	moved := 0
	for src := range c.shards {
		for {
			if !snap.isHotspot(src, c.cfg.HotspotFactor, c.cfg.HotspotMinAbs) {
				break
			}
			dst := snap.leastLoaded
			if dst == src {
				break
			}
			k, v, ok := c.migrateOne(src, dst)
			if !ok {
				break
			}
			c.redirects.record(k, dst)
			moved++
			snap = c.loadView.snapshot()
			_ = v
		}
	}
	return moved
}

// migrateOne moves one arbitrary key from shard src to shard dst, locking
// the lower index first.
func (c *Container[K, V]) migrateOne(src, dst int) (K, V, bool) {
	lo, hi := src, dst
	if lo > hi {
		lo, hi = hi, lo
	}
	c.shards[lo].mu.Lock()
	defer c.shards[lo].mu.Unlock()
	if lo != hi {
		c.shards[hi].mu.Lock()
		defer c.shards[hi].mu.Unlock()
	}

	var zeroK K
	var zeroV V
	var foundK K
	var foundV V
	found := false
	c.shards[src].data.Range(func(k K, v V) bool {
		foundK, foundV = k, v
		found = true
		return false
	})
	if !found {
		return zeroK, zeroV, false
	}

	c.shards[src].data.Delete(foundK)
	c.shards[src].size.Add(-1)
	c.shards[src].refreshBoundsLocked()

	c.shards[dst].data.Store(foundK, foundV)
	c.shards[dst].size.Add(1)
	c.shards[dst].refreshBoundsLocked()

	return foundK, foundV, true
}

// GCRedirects reclaims redirect-index entries the router no longer has
// any reason to keep: ones where route(k), asked right now, no longer
// wants to send k away from its natural shard. Comparing against the
// stable natural(k) directly can never reclaim anything, since every
// entry was recorded precisely because the redirected target differed
// from natural at insert time; comparing against the live route(k)
// decision is what lets an entry become reclaimable once the load
// conditions that caused the redirect have subsided.
//
// locate()'s fallback for a key with no redirect entry is natural(k), so
// dropping the bookkeeping alone would leave k unreachable wherever it
// actually still lives. GC therefore migrates k from its recorded shard
// back to natural, under both shard locks, before forgetting the entry —
// the same physical-move step RebalanceShards performs when it redirects
// a key in the first place, run here in reverse.
func (c *Container[K, V]) GCRedirects() int {
	return c.redirects.gc(func(k K, recordedShard int) bool {
		target, redirected, natural := c.router.route(k)
		if redirected || target != natural {
			return false
		}
		if natural != recordedShard {
			c.migrateKey(k, recordedShard, natural)
		}
		return true
	})
}

// migrateKey moves k from shard src to shard dst if it is present there,
// locking the lower index first to match migrateOne's deadlock-avoidance
// order.
func (c *Container[K, V]) migrateKey(k K, src, dst int) bool {
	if src == dst {
		return false
	}
	lo, hi := src, dst
	if lo > hi {
		lo, hi = hi, lo
	}
	c.shards[lo].mu.Lock()
	defer c.shards[lo].mu.Unlock()
	c.shards[hi].mu.Lock()
	defer c.shards[hi].mu.Unlock()

	v, ok := c.shards[src].data.Load(k)
	if !ok {
		return false
	}
	c.shards[src].data.Delete(k)
	c.shards[src].size.Add(-1)
	c.shards[src].refreshBoundsLocked()

	c.shards[dst].data.Store(k, v)
	c.shards[dst].size.Add(1)
	c.shards[dst].refreshBoundsLocked()
	return true
}

// Close stops the background load-view refresher. The container remains
// readable and writable afterward, but its size distribution snapshot
// freezes at the last published value.
func (c *Container[K, V]) Close() {
	if !c.closed.CompareAndSwap(false, true) {
		return
	}
	c.cancel()
	c.loadView.stop()
}
