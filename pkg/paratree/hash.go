package paratree

import (
	"cmp"
	"fmt"
	"hash/maphash"
	"math"
)

// formatOrdered renders any cmp.Ordered value as text for strongHash's
// fallback path.
func formatOrdered[K cmp.Ordered](k K) string {
	return fmt.Sprintf("%v", k)
}

// weakHash is the reference hash behind STATIC_HASH and RANGE: identity
// for integer and float kinds, dispersive only for strings. It is
// deliberately naive for numeric keys — real sharded systems commonly use
// "id % N" precisely because it is well dispersed for i.i.d. random keys,
// which is also why an adversary who knows N can pick an arithmetic
// progression with common difference N and pin every key to one shard
// (see pkg/workload.Adversarial). That exploitability is the whole point
// of the router's load-aware and virtual-node strategies.
func weakHash[K cmp.Ordered](seed maphash.Seed, k K) uint64 {
	switch v := any(k).(type) {
	case int:
		return uint64(v)
	case int8:
		return uint64(uint8(v))
	case int16:
		return uint64(uint16(v))
	case int32:
		return uint64(uint32(v))
	case int64:
		return uint64(v)
	case uint:
		return uint64(v)
	case uint8:
		return uint64(v)
	case uint16:
		return uint64(v)
	case uint32:
		return uint64(v)
	case uint64:
		return v
	case uintptr:
		return uint64(v)
	case float32:
		return uint64(math.Float32bits(v))
	case float64:
		return math.Float64bits(v)
	case string:
		return maphash.String(seed, v)
	default:
		return 0
	}
}

// strongHash is used by the virtual-node ring: it must disperse any input,
// including adversarial arithmetic progressions, across the full hash
// space so consistent hashing's uniformity guarantee actually holds.
func strongHash[K cmp.Ordered](seed maphash.Seed, k K) uint64 {
	switch v := any(k).(type) {
	case string:
		return maphash.String(seed, v)
	default:
		// Route the numeric value through the string hasher on its
		// decimal rendering so small arithmetic progressions (the
		// shape of pkg/workload.Adversarial) land at unrelated ring
		// positions instead of clustering near one another.
		return maphash.String(seed, formatOrdered(k))
	}
}
