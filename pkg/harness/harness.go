// Package harness runs a statistical benchmark against a paratree
// Container: a warmup phase followed by R independent timed rounds,
// reporting throughput with a 95% confidence interval and latency
// percentiles, driven by an arbitrary workload.Generator and operation
// mix.
package harness

import (
	"cmp"
	"context"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"paratree/pkg/metrics"
	"paratree/pkg/paratree"
	"paratree/pkg/workload"
)

// OpKind is the operation a harness iteration performs for one drawn key.
type OpKind int

const (
	OpInsert OpKind = iota
	OpGet
	OpRemove
)

// RunConfig controls one harness invocation.
type RunConfig struct {
	WarmupOps   int
	OpsPerRound int
	Rounds      int
	Concurrency int

	// InsertRatio and RemoveRatio partition [0,1): a draw below
	// InsertRatio is an Insert, below InsertRatio+RemoveRatio is a
	// Remove, otherwise a Get. Generators are still consulted for the
	// key; the mix only decides the operation kind, via a second,
	// independent draw so it stays uncorrelated with key skew.
	InsertRatio float64
	RemoveRatio float64
}

// RoundResult is one timed round's raw measurements.
type RoundResult struct {
	Ops       int
	Duration  time.Duration
	OpsPerSec float64
	Latencies []time.Duration
}

// Report is the full output of Harness.Run.
type Report struct {
	RunID string
	Rounds []RoundResult

	MeanOpsPerSec   float64
	StddevOpsPerSec float64
	CI95Low         float64
	CI95High        float64

	P50, P90, P99, P999 time.Duration
}

// Harness drives a Container[K, V] with int64-keyed workload draws,
// mapped through KeyOf/ValueOf into the container's actual key and value
// types.
type Harness[K cmp.Ordered, V any] struct {
	container *paratree.Container[K, V]
	metrics   metrics.Collector
	keyOf     func(int64) K
	valueOf   func(int64) V
}

func New[K cmp.Ordered, V any](c *paratree.Container[K, V], m metrics.Collector, keyOf func(int64) K, valueOf func(int64) V) *Harness[K, V] {
	if m == nil {
		m = metrics.Noop{}
	}
	return &Harness[K, V]{container: c, metrics: m, keyOf: keyOf, valueOf: valueOf}
}

// Run performs cfg.WarmupOps unmeasured inserts, then cfg.Rounds
// independent timed rounds of cfg.OpsPerRound operations each, spread
// across cfg.Concurrency worker goroutines per round.
func (h *Harness[K, V]) Run(ctx context.Context, cfg RunConfig, gen workload.Generator, mixSeed int64) (Report, error) {
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}

	h.warmup(cfg, gen)

	report := Report{RunID: uuid.New().String()}
	mix := newMixer(mixSeed, cfg.InsertRatio, cfg.RemoveRatio)

	for round := 0; round < cfg.Rounds; round++ {
		select {
		case <-ctx.Done():
			return report, ctx.Err()
		default:
		}
		rr := h.runRound(cfg, gen, mix)
		h.metrics.SetGauge("harness_ops_per_sec", nil, rr.OpsPerSec)
		report.Rounds = append(report.Rounds, rr)
	}

	report.finalize()
	return report, nil
}

func (h *Harness[K, V]) warmup(cfg RunConfig, gen workload.Generator) {
	for i := 0; i < cfg.WarmupOps; i++ {
		k := gen.Next()
		h.container.Insert(h.keyOf(k), h.valueOf(k))
	}
}

// runRound divides the round's ops across worker goroutines, has each
// record its own latencies, then merges under one mutex before
// computing the round's statistics. Workers share gen and mix, so each
// key/kind draw is taken under drawMu.
func (h *Harness[K, V]) runRound(cfg RunConfig, gen workload.Generator, mix *mixer) RoundResult {
	start := time.Now()

	var mu sync.Mutex
	var drawMu sync.Mutex
	var wg sync.WaitGroup
	latencies := make([]time.Duration, 0, cfg.OpsPerRound)

	opsPerWorker := cfg.OpsPerRound / cfg.Concurrency
	remainder := cfg.OpsPerRound % cfg.Concurrency

	for w := 0; w < cfg.Concurrency; w++ {
		ops := opsPerWorker
		if w < remainder {
			ops++
		}
		wg.Add(1)
		go func(ops int) {
			defer wg.Done()
			local := make([]time.Duration, 0, ops)
			for i := 0; i < ops; i++ {
				drawMu.Lock()
				draw := gen.Next()
				kind := mix.next()
				drawMu.Unlock()

				opStart := time.Now()
				switch kind {
				case OpInsert:
					h.container.Insert(h.keyOf(draw), h.valueOf(draw))
				case OpRemove:
					h.container.Remove(h.keyOf(draw))
				default:
					h.container.Get(h.keyOf(draw))
				}
				local = append(local, time.Since(opStart))
			}
			mu.Lock()
			latencies = append(latencies, local...)
			h.metrics.IncCounter("harness_ops_total", nil, float64(len(local)))
			mu.Unlock()
		}(ops)
	}
	wg.Wait()

	duration := time.Since(start)
	sort.Slice(latencies, func(i, j int) bool { return latencies[i] < latencies[j] })

	return RoundResult{
		Ops:       cfg.OpsPerRound,
		Duration:  duration,
		OpsPerSec: float64(cfg.OpsPerRound) / duration.Seconds(),
		Latencies: latencies,
	}
}

// finalize computes the round-level 95% confidence interval for
// OpsPerSec (Student's t, since Rounds is typically small) and the
// latency percentiles over every measured operation across all rounds.
func (r *Report) finalize() {
	n := len(r.Rounds)
	if n == 0 {
		return
	}
	var sum float64
	for _, rr := range r.Rounds {
		sum += rr.OpsPerSec
	}
	mean := sum / float64(n)

	var sqDiff float64
	for _, rr := range r.Rounds {
		d := rr.OpsPerSec - mean
		sqDiff += d * d
	}
	stddev := 0.0
	if n > 1 {
		stddev = math.Sqrt(sqDiff / float64(n-1))
	}

	r.MeanOpsPerSec = mean
	r.StddevOpsPerSec = stddev

	if n > 1 {
		margin := tCritical95(n-1) * stddev / math.Sqrt(float64(n))
		r.CI95Low = mean - margin
		r.CI95High = mean + margin
	} else {
		r.CI95Low, r.CI95High = mean, mean
	}

	var all []time.Duration
	for _, rr := range r.Rounds {
		all = append(all, rr.Latencies...)
	}
	sort.Slice(all, func(i, j int) bool { return all[i] < all[j] })
	r.P50 = percentile(all, 0.50)
	r.P90 = percentile(all, 0.90)
	r.P99 = percentile(all, 0.99)
	r.P999 = percentile(all, 0.999)
}

// percentile uses the nearest-rank method over an already-sorted slice.
func percentile(sorted []time.Duration, p float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	idx := int(math.Ceil(p*float64(len(sorted)))) - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}
