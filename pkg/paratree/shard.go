package paratree

import (
	"cmp"
	"sync"
	"sync/atomic"

	"github.com/zhangyunhao116/skipmap"
)

// mutationKind reports what insert/remove actually did, mirroring the
// spec's INSERTED|UPDATED and REMOVED|ABSENT result kinds.
type mutationKind int

const (
	inserted mutationKind = iota
	updated
	removed
	absent
)

// shard owns one ordered partition of the keyspace: a skip-list-backed
// ordered map (github.com/zhangyunhao116/skipmap) guarded by a single
// exclusive lock, plus lock-free atomic bounds for range-scan pruning.
// The skip list tolerates concurrent readers on its own, but the shard
// still serializes every access through one mutex — the simplest legal
// rendering of "single exclusive lock, readers-also-serialize-within-shard."
type shard[K cmp.Ordered, V any] struct {
	mu   sync.Mutex
	data *skipmap.FuncMap[K, V]
	size atomic.Int64

	hasKeys atomic.Bool
	minKey  atomic.Pointer[K]
	maxKey  atomic.Pointer[K]
}

func newShard[K cmp.Ordered, V any]() *shard[K, V] {
	return &shard[K, V]{data: skipmap.NewFunc[K, V](func(a, b K) bool { return a < b })}
}

// insert upserts k->v and returns whether this was a fresh key. Bounds are
// recomputed from the post-mutation extremes under the shard lock. If
// afterMutate is non-nil it runs before the lock is released, so a caller
// can fold in the redirect-index bookkeeping for the write ordering
// (lock -> mutate -> bounds -> redirect entry -> unlock) instead of
// racing a second, separately-locked step.
func (s *shard[K, V]) insert(k K, v V, afterMutate func(mutationKind)) mutationKind {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, existed := s.data.Load(k)
	s.data.Store(k, v)
	kind := updated
	if !existed {
		s.size.Add(1)
		s.refreshBoundsLocked()
		kind = inserted
	}
	if afterMutate != nil {
		afterMutate(kind)
	}
	return kind
}

func (s *shard[K, V]) remove(k K, afterMutate func(mutationKind)) mutationKind {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.data.Delete(k) {
		if afterMutate != nil {
			afterMutate(absent)
		}
		return absent
	}
	s.size.Add(-1)
	s.refreshBoundsLocked()
	if afterMutate != nil {
		afterMutate(removed)
	}
	return removed
}

func (s *shard[K, V]) lookup(k K) (V, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.Load(k)
}

func (s *shard[K, V]) contains(k K) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.data.Load(k)
	return ok
}

// refreshBoundsLocked recomputes min/max from the map's current ordered
// extremes. Callers hold s.mu. The skip list's Range walks in ascending
// key order, so the first entry is the minimum and the last visited is
// the maximum.
func (s *shard[K, V]) refreshBoundsLocked() {
	if s.data.Len() == 0 {
		s.hasKeys.Store(false)
		return
	}
	var min, max K
	first := true
	s.data.Range(func(key K, _ V) bool {
		if first {
			min, max = key, key
			first = false
			return true
		}
		max = key
		return true
	})
	s.minKey.Store(&min)
	s.maxKey.Store(&max)
	s.hasKeys.Store(true)
}

func (s *shard[K, V]) sizeOf() int {
	return int(s.size.Load())
}

// intersectsRange is lock-free pruning: it may return true spuriously (a
// later locked scan finds nothing) but must never return false for a
// shard that provably holds a qualifying key at the moment pruning
// started.
func (s *shard[K, V]) intersectsRange(lo, hi K) bool {
	if !s.hasKeys.Load() {
		return false
	}
	max := s.maxKey.Load()
	if max == nil || *max < lo {
		return false
	}
	min := s.minKey.Load()
	if min == nil || hi < *min {
		return false
	}
	return true
}

// rangeCollect appends, in ascending order, every (k, v) with lo <= k <=
// hi, under the shard lock.
func (s *shard[K, V]) rangeCollect(lo, hi K, sink func(K, V)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data.Range(func(key K, value V) bool {
		if key < lo {
			return true
		}
		if hi < key {
			return false
		}
		sink(key, value)
		return true
	})
}
