package paratree

import (
	"hash/maphash"
	"sort"
	"strconv"
)

// hashRing implements consistent hashing with virtual nodes over shard
// indices 0..n-1 directly, rather than node names, since paratree's
// shard count never changes at runtime.
type hashRing struct {
	seed     maphash.Seed
	replicas int
	points   []ringPoint // sorted ascending by hash
}

type ringPoint struct {
	hash  uint64
	shard int
}

func newHashRing(numShards, replicas int, seed maphash.Seed) *hashRing {
	if replicas < 1 {
		replicas = 1
	}
	r := &hashRing{seed: seed, replicas: replicas}
	points := make([]ringPoint, 0, numShards*replicas)
	for shard := 0; shard < numShards; shard++ {
		for v := 0; v < replicas; v++ {
			label := strconv.Itoa(shard) + "#" + strconv.Itoa(v)
			points = append(points, ringPoint{hash: maphash.String(seed, label), shard: shard})
		}
	}
	sort.Slice(points, func(i, j int) bool { return points[i].hash < points[j].hash })
	r.points = points
	return r
}

// shardFor returns the shard owning the first virtual node at or after
// hash, wrapping around to the first point if hash exceeds every point.
// Returns false only when the ring has no points, which cannot happen
// once constructed with numShards >= 1.
func (r *hashRing) shardFor(hash uint64) (int, bool) {
	if len(r.points) == 0 {
		return 0, false
	}
	idx := sort.Search(len(r.points), func(i int) bool { return r.points[i].hash >= hash })
	if idx == len(r.points) {
		idx = 0
	}
	return r.points[idx].shard, true
}
