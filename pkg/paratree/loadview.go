package paratree

import (
	"context"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"paratree/pkg/clock"
)

// loadSnapshot is the immutable published view of every shard's size.
// Readers never lock: they load the current *loadSnapshot via an atomic
// pointer and read its fields.
type loadSnapshot struct {
	sizes       []int64
	mean        float64
	leastLoaded int
	generation  uint64
}

// isHotspot applies the hotspot threshold: size(s) > max(minAbs,
// factor*mean).
func (s *loadSnapshot) isHotspot(shard int, factor float64, minAbs int) bool {
	threshold := math.Max(float64(minAbs), factor*s.mean)
	return float64(s.sizes[shard]) > threshold
}

// cachedLoadView republishes a fresh loadSnapshot on a fixed period via a
// background goroutine: an atomic.Pointer snapshot-publish idiom driven
// directly by a time.Ticker, since the refresh loop has exactly one
// handler and gains nothing from a generic channel-consumer indirection.
type cachedLoadView struct {
	current atomic.Pointer[loadSnapshot]
	sizeFns []func() int
	gen     *clock.AtomicClock

	period time.Duration
	ticker *time.Ticker
	wg     sync.WaitGroup
	cancel context.CancelFunc
}

func newCachedLoadView(sizeFns []func() int, period time.Duration) *cachedLoadView {
	v := &cachedLoadView{
		sizeFns: sizeFns,
		gen:     clock.NewAtomic(0),
		period:  period,
	}
	v.refresh()
	return v
}

// start launches the background refresh goroutine. Safe to call at most
// once per cachedLoadView. It observes cancellation or a tick within one
// select, same shape as the shutdown path every other background worker
// in this module follows.
func (v *cachedLoadView) start(ctx context.Context) {
	ctx, v.cancel = context.WithCancel(ctx)
	v.ticker = time.NewTicker(v.period)
	v.wg.Add(1)

	go func() {
		defer v.wg.Done()
		for {
			select {
			case <-v.ticker.C:
				v.refresh()
			case <-ctx.Done():
				return
			}
		}
	}()
}

func (v *cachedLoadView) stop() {
	if v.cancel == nil {
		return
	}
	v.cancel()
	v.wg.Wait()
	v.ticker.Stop()
}

// refresh recomputes sizes, mean, and least-loaded shard, then publishes
// the new snapshot with a single atomic store (release semantics;
// readers' Load is the matching acquire).
func (v *cachedLoadView) refresh() {
	n := len(v.sizeFns)
	sizes := make([]int64, n)
	var total int64
	least := 0
	for i, fn := range v.sizeFns {
		sz := int64(fn())
		sizes[i] = sz
		total += sz
		if sz < sizes[least] {
			least = i
		}
	}
	mean := 0.0
	if n > 0 {
		mean = float64(total) / float64(n)
	}
	snap := &loadSnapshot{
		sizes:       sizes,
		mean:        mean,
		leastLoaded: least,
		generation:  v.gen.Next(),
	}
	v.current.Store(snap)
}

func (v *cachedLoadView) snapshot() *loadSnapshot {
	return v.current.Load()
}
