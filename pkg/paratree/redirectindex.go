package paratree

import (
	"cmp"

	"github.com/zhangyunhao116/skipmap"
)

// redirectIndex is the key->actual-shard map, used so a Get/Remove on a
// key that the router would route elsewhere today can still find it at
// the shard it was actually inserted into. Backed by
// skipmap.FuncMap for the same reason shards are: it is a lock-free,
// reader-parallel ordered map, and record/forget/gc are the only mutators.
type redirectIndex[K cmp.Ordered] struct {
	data *skipmap.FuncMap[K, int]
}

func newRedirectIndex[K cmp.Ordered]() *redirectIndex[K] {
	return &redirectIndex[K]{data: skipmap.NewFunc[K, int](func(a, b K) bool { return a < b })}
}

// record pins k to actualShard. Called by Container.Insert when the
// write was redirected away from the natural shard, and by
// Container.RebalanceShards for each key it moves.
func (ri *redirectIndex[K]) record(k K, actualShard int) {
	ri.data.Store(k, actualShard)
}

// lookup returns the shard k was actually placed into, if it has an
// outstanding redirect entry.
func (ri *redirectIndex[K]) lookup(k K) (int, bool) {
	return ri.data.Load(k)
}

// forget removes k's redirect entry. Called once the key is removed from
// the container entirely; gc deletes the entries it drops itself.
func (ri *redirectIndex[K]) forget(k K) {
	ri.data.Delete(k)
}

func (ri *redirectIndex[K]) size() int {
	return ri.data.Len()
}

// gc drops every entry for which isCurrent(k, recordedShard) returns
// true, and returns how many it dropped. The caller decides which
// entries are no longer needed; Container.GCRedirects drops those whose
// live route(k) no longer redirects k away from its natural shard.
func (ri *redirectIndex[K]) gc(isCurrent func(k K, recordedShard int) bool) int {
	removed := 0
	var stale []K
	ri.data.Range(func(k K, recordedShard int) bool {
		if isCurrent(k, recordedShard) {
			stale = append(stale, k)
		}
		return true
	})
	for _, k := range stale {
		ri.data.Delete(k)
		removed++
	}
	return removed
}
