package paratree

import (
	"math"
)

// Stats is the point-in-time snapshot returned by Container.Stats,
// combining shard balance, router activity, and operation counts.
type Stats struct {
	ShardSizes         []int64
	MeanShardSize      float64
	StddevShardSize    float64
	BalanceScore       float64
	RedirectIndexSize  int
	SuspiciousKeyCount int

	TotalRoutes    uint64
	TotalRedirects uint64

	Inserts       uint64
	Updates       uint64
	Removes       uint64
	AbsentRemoves uint64
	GetHits       uint64
	GetMisses     uint64
}

// Stats computes the current balance and activity snapshot. BalanceScore
// is max(0, 1 - stddev/mean): 1.0 means perfectly even shard sizes, 0.0
// means one shard holds everything (or worse), and an empty container
// (mean == 0) is defined as perfectly balanced.
func (c *Container[K, V]) Stats() Stats {
	sizes := make([]int64, len(c.shards))
	var total int64
	for i, s := range c.shards {
		sz := int64(s.sizeOf())
		sizes[i] = sz
		total += sz
	}
	mean := 0.0
	if len(sizes) > 0 {
		mean = float64(total) / float64(len(sizes))
	}
	var sqDiff float64
	for _, sz := range sizes {
		d := float64(sz) - mean
		sqDiff += d * d
	}
	stddev := 0.0
	if len(sizes) > 0 {
		stddev = math.Sqrt(sqDiff / float64(len(sizes)))
	}
	balance := 1.0
	if mean > 0 {
		balance = math.Max(0, 1-stddev/mean)
	}

	rs := c.router.stats()
	return Stats{
		ShardSizes:         sizes,
		MeanShardSize:      mean,
		StddevShardSize:    stddev,
		BalanceScore:       balance,
		RedirectIndexSize:  c.redirects.size(),
		SuspiciousKeyCount: rs.SuspiciousKeyCount,
		TotalRoutes:        rs.TotalRoutes,
		TotalRedirects:     rs.TotalRedirects,
		Inserts:            c.opInserts.load(),
		Updates:            c.opUpdates.load(),
		Removes:            c.opRemoves.load(),
		AbsentRemoves:      c.opAbsent.load(),
		GetHits:            c.opGetHits.load(),
		GetMisses:          c.opGetMisses.load(),
	}
}
