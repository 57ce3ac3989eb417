package workload

import "testing"

func TestUniform_StaysInBoundsAndIsDeterministic(t *testing.T) {
	a := NewUniform(42, 10, 20)
	b := NewUniform(42, 10, 20)
	for i := 0; i < 1000; i++ {
		va, vb := a.Next(), b.Next()
		if va != vb {
			t.Fatalf("same seed produced different sequences at step %d: %d != %d", i, va, vb)
		}
		if va < 10 || va > 20 {
			t.Fatalf("Next() = %d, out of [10,20]", va)
		}
	}
}

func TestSequential_AdvancesByStep(t *testing.T) {
	s := NewSequential(5, 3)
	want := []int64{5, 8, 11, 14}
	for _, w := range want {
		if got := s.Next(); got != w {
			t.Fatalf("Next() = %d, want %d", got, w)
		}
	}
}

func TestAdversarial_ArithmeticProgression(t *testing.T) {
	a := NewAdversarial(100, 16)
	want := []int64{100, 116, 132, 148}
	for _, w := range want {
		if got := a.Next(); got != w {
			t.Fatalf("Next() = %d, want %d", got, w)
		}
	}
}

func TestHotspot_OnlyDrawsFromHotOrColdRanges(t *testing.T) {
	hot := []int64{1, 2, 3}
	h := NewHotspot(1, hot, 0.9, 1000, 2000)

	hotSet := map[int64]bool{1: true, 2: true, 3: true}
	for i := 0; i < 2000; i++ {
		v := h.Next()
		if hotSet[v] {
			continue
		}
		if v < 1000 || v > 2000 {
			t.Fatalf("Next() = %d, not a hot key and out of cold range [1000,2000]", v)
		}
	}
}

func TestHotspot_SkewsTowardHotKeys(t *testing.T) {
	hot := []int64{7}
	h := NewHotspot(1, hot, 0.8, 1000, 2000)

	hits := 0
	const n = 5000
	for i := 0; i < n; i++ {
		if h.Next() == 7 {
			hits++
		}
	}
	frac := float64(hits) / float64(n)
	if frac < 0.6 {
		t.Fatalf("hot key fraction = %.2f, want roughly >= 0.6 given hotProb=0.8", frac)
	}
}

func TestZipfian_StaysWithinBounds(t *testing.T) {
	const n = 10000
	z, err := NewZipfian(1, 0.99, 500, n)
	if err != nil {
		t.Fatalf("NewZipfian: %v", err)
	}
	for i := 0; i < 2000; i++ {
		v := z.Next()
		if v < 500 || v >= 500+int64(n) {
			t.Fatalf("Next() = %d, out of [500, %d)", v, 500+int64(n))
		}
	}
}

// TestZipfian_DefaultSkewConcentratesOnLowRanks exercises theta=0.99, the
// spec-mandated default (Testable Property 7 / Scenario S6), which
// stdlib math/rand.Zipf cannot serve at all (it requires s > 1 and
// returns nil otherwise).
func TestZipfian_DefaultSkewConcentratesOnLowRanks(t *testing.T) {
	const n = 100000
	z, err := NewZipfian(1, 0.99, 0, n)
	if err != nil {
		t.Fatalf("NewZipfian: %v", err)
	}

	const draws = 20000
	hitsTop10 := 0
	for i := 0; i < draws; i++ {
		if v := z.Next(); v < 10 {
			hitsTop10++
		}
	}
	frac := float64(hitsTop10) / float64(draws)
	if frac < 0.2 {
		t.Fatalf("fraction of draws landing in the lowest 10 of %d ranks = %.3f, want a clear skew toward low ranks", n, frac)
	}
}

func TestZipfian_RejectsInvalidParameters(t *testing.T) {
	if _, err := NewZipfian(1, 0, 0, 100); err == nil {
		t.Fatal("expected an error for theta <= 0")
	}
	if _, err := NewZipfian(1, 1, 0, 100); err == nil {
		t.Fatal("expected an error for theta == 1")
	}
	if _, err := NewZipfian(1, 0.99, 0, 0); err == nil {
		t.Fatal("expected an error for n == 0")
	}
}
