package paratree

import (
	"fmt"
	"hash/maphash"
	"math"
	"testing"
)

func TestHashRing_DistributionUniformity(t *testing.T) {
	const numShards = 8
	const replicas = 64
	const total = 60_000

	seed := maphash.MakeSeed()
	r := newHashRing(numShards, replicas, seed)

	counts := make([]int, numShards)
	for i := 0; i < total; i++ {
		h := maphash.String(seed, fmt.Sprintf("key-%d", i))
		shard, ok := r.shardFor(h)
		if !ok {
			t.Fatalf("ring returned no owner for key index %d", i)
		}
		counts[shard]++
	}

	ideal := float64(total) / float64(numShards)
	tolerance := 0.2 * ideal
	for shard, c := range counts {
		if diff := math.Abs(float64(c) - ideal); diff > tolerance {
			t.Fatalf("shard %d: count=%d ideal=%.0f diff=%.0f > tol=%.0f", shard, c, ideal, diff, tolerance)
		}
	}
}

func TestHashRing_WrapsAround(t *testing.T) {
	seed := maphash.MakeSeed()
	r := newHashRing(4, 8, seed)

	shard, ok := r.shardFor(math.MaxUint64)
	if !ok {
		t.Fatal("expected a shard for the maximum possible hash")
	}
	if shard < 0 || shard >= 4 {
		t.Fatalf("shard %d out of range", shard)
	}
}

func TestHashRing_EmptyRingReportsMissing(t *testing.T) {
	r := &hashRing{}
	if _, ok := r.shardFor(42); ok {
		t.Fatal("expected shardFor to report missing on an empty ring")
	}
}
