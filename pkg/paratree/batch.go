package paratree

import "cmp"

// Batch groups a sequence of key/value pairs for InsertBatch's
// insert-only bulk-load use case; there is no delete/clear entry kind
// since Container.Remove already covers single-key deletion.
type Batch[K cmp.Ordered, V any] struct {
	pairs []Pair[K, V]
}

// NewBatch returns an empty batch, optionally pre-sized.
func NewBatch[K cmp.Ordered, V any](capacity int) Batch[K, V] {
	return Batch[K, V]{pairs: make([]Pair[K, V], 0, capacity)}
}

// Put appends k->v to the batch. Later entries for the same key win when
// the batch is applied, since InsertBatch applies pairs in order.
func (b *Batch[K, V]) Put(k K, v V) {
	b.pairs = append(b.pairs, Pair[K, V]{Key: k, Value: v})
}

// Count returns the number of pairs queued in the batch.
func (b *Batch[K, V]) Count() int {
	return len(b.pairs)
}
