package metrics

import "testing"

func TestMemory_RecordsCountersGaugesHistograms(t *testing.T) {
	m := NewMemory()
	m.IncCounter("ops", nil, 1)
	m.IncCounter("ops", nil, 2)
	if got := m.Counter("ops"); got != 3 {
		t.Fatalf("Counter(ops) = %v, want 3", got)
	}

	m.SetGauge("load", nil, 5)
	m.SetGauge("load", nil, 7)
	if got := m.Gauge("load"); got != 7 {
		t.Fatalf("Gauge(load) = %v, want 7", got)
	}

	m.ObserveHistogram("latency", nil, 1.5)
	m.ObserveHistogram("latency", nil, 2.5)
	if got := m.Histogram("latency"); len(got) != 2 {
		t.Fatalf("Histogram(latency) = %v, want 2 values", got)
	}
}

func TestNoop_DiscardsEverything(t *testing.T) {
	var n Noop
	n.IncCounter("x", nil, 1)
	n.SetGauge("x", nil, 1)
	n.ObserveHistogram("x", nil, 1)
}
