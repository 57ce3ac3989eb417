package harness

import "math/rand"

// mixer decides each operation's kind from an independent, deterministic
// draw so the InsertRatio/RemoveRatio split doesn't correlate with the
// workload generator's own key skew.
type mixer struct {
	rng         *rand.Rand
	insertRatio float64
	removeRatio float64
}

func newMixer(seed int64, insertRatio, removeRatio float64) *mixer {
	return &mixer{rng: rand.New(rand.NewSource(seed)), insertRatio: insertRatio, removeRatio: removeRatio}
}

func (m *mixer) next() OpKind {
	d := m.rng.Float64()
	switch {
	case d < m.insertRatio:
		return OpInsert
	case d < m.insertRatio+m.removeRatio:
		return OpRemove
	default:
		return OpGet
	}
}
