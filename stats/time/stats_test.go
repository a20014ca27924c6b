package time

import (
	"math"
	"testing"
)

func TestRMS(t *testing.T) {
	tests := []struct {
		in   []float64
		want float64
	}{
		{nil, 0},
		{[]float64{1, -1, 1, -1}, 1},
		{[]float64{3, 4}, math.Sqrt(12.5)},
	}
	for _, tc := range tests {
		if got := RMS(tc.in); math.Abs(got-tc.want) > 1e-12 {
			t.Fatalf("RMS(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestDC(t *testing.T) {
	if got := DC([]float64{1, 2, 3, 6}); got != 3 {
		t.Fatalf("DC = %v, want 3", got)
	}
	if got := DC(nil); got != 0 {
		t.Fatalf("DC(nil) = %v", got)
	}
}

func TestExtremes(t *testing.T) {
	lo, hi := Extremes([]float64{2, -7, 5, 1})
	if lo != -7 || hi != 5 {
		t.Fatalf("Extremes = %v, %v", lo, hi)
	}
	lo, hi = Extremes([]float64{2, 3})
	if lo != 0 || hi != 3 {
		t.Fatalf("positive-only Extremes = %v, %v", lo, hi)
	}
}

func TestZeroCrossingRate(t *testing.T) {
	if got := ZeroCrossingRate([]float64{1, -1, 1, -1, 1}); got != 1 {
		t.Fatalf("alternating ZCR = %v, want 1", got)
	}
	// Offset does not matter once the mean is removed.
	if got := ZeroCrossingRate([]float64{11, 9, 11, 9, 11}); got != 1 {
		t.Fatalf("offset ZCR = %v, want 1", got)
	}
	if got := ZeroCrossingRate([]float64{1, 2, 3, 4}); math.Abs(got-1.0/3) > 1e-12 {
		t.Fatalf("ramp ZCR = %v", got)
	}
	if got := ZeroCrossingRate([]float64{1}); got != 0 {
		t.Fatalf("short ZCR = %v", got)
	}
}
