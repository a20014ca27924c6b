package window

import (
	"math"
	"testing"
)

func TestGenerateEndpoints(t *testing.T) {
	tests := []struct {
		typ   Type
		edge  float64
		inner float64
	}{
		{TypeRectangular, 1, 1},
		{TypeHann, 0, 1},
		{TypeHamming, 0.08, 1},
		{TypeBlackman, 0, 1},
	}
	for _, tc := range tests {
		w := Generate(tc.typ, 9)
		if len(w) != 9 {
			t.Fatalf("%v: len = %d, want 9", tc.typ, len(w))
		}
		if math.Abs(w[0]-tc.edge) > 1e-12 || math.Abs(w[8]-tc.edge) > 1e-12 {
			t.Fatalf("%v: edges = %v,%v want %v", tc.typ, w[0], w[8], tc.edge)
		}
		if math.Abs(w[4]-tc.inner) > 1e-12 {
			t.Fatalf("%v: center = %v, want %v", tc.typ, w[4], tc.inner)
		}
	}
}

func TestGenerateSymmetric(t *testing.T) {
	w := Generate(TypeHamming, 80)
	for i := range w {
		if math.Abs(w[i]-w[len(w)-1-i]) > 1e-12 {
			t.Fatalf("index %d not symmetric: %v vs %v", i, w[i], w[len(w)-1-i])
		}
	}
}

func TestPeriodicDiffersFromSymmetric(t *testing.T) {
	s := Generate(TypeHann, 8)
	p := Generate(TypeHann, 8, WithPeriodic())
	if p[0] != 0 {
		t.Fatalf("periodic w[0] = %v, want 0", p[0])
	}
	if p[7] == s[7] {
		t.Fatal("periodic and symmetric forms should differ at the last sample")
	}
}

func TestGenerateInvalidLength(t *testing.T) {
	if w := Generate(TypeHann, 0); w != nil {
		t.Fatalf("Generate(0) = %v, want nil", w)
	}
}

func TestApply(t *testing.T) {
	buf := []float64{2, 2, 2, 2, 2}
	Apply(TypeHann, buf)
	want := Generate(TypeHann, 5)
	for i := range buf {
		if math.Abs(buf[i]-2*want[i]) > 1e-12 {
			t.Fatalf("index %d: got %v want %v", i, buf[i], 2*want[i])
		}
	}
}

func TestString(t *testing.T) {
	if TypeBlackman.String() != "Blackman" {
		t.Fatalf("String() = %q", TypeBlackman.String())
	}
}
