package harness

import "testing"

func TestTCritical95_KnownValues(t *testing.T) {
	if got := tCritical95(1); got != 12.706 {
		t.Fatalf("tCritical95(1) = %v, want 12.706", got)
	}
	if got := tCritical95(9); got != 2.262 {
		t.Fatalf("tCritical95(9) = %v, want 2.262", got)
	}
}

func TestTCritical95_FallsBackToZBeyondTable(t *testing.T) {
	if got := tCritical95(1000); got != 1.96 {
		t.Fatalf("tCritical95(1000) = %v, want 1.96", got)
	}
}

func TestTCritical95_ClampsBelowOne(t *testing.T) {
	if got := tCritical95(0); got != tCritical95(1) {
		t.Fatalf("tCritical95(0) = %v, want same as tCritical95(1) = %v", got, tCritical95(1))
	}
}
