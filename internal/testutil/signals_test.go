package testutil

import (
	"math"
	"strings"
	"testing"
)

func TestDeterministicSine(t *testing.T) {
	s := DeterministicSine(1000, 48000, 1.0, 48)
	if len(s) != 48 {
		t.Fatalf("len = %d, want 48", len(s))
	}
	if math.Abs(s[0]) > 1e-15 {
		t.Fatalf("s[0] = %v, want 0", s[0])
	}
}

func TestDeterministicNoiseReproducible(t *testing.T) {
	a := DeterministicNoise(42, 1.0, 64)
	b := DeterministicNoise(42, 1.0, 64)
	RequireSliceNearlyEqual(t, a, b, 0)
	for i, v := range a {
		if v < -1 || v > 1 {
			t.Fatalf("a[%d] = %v out of range", i, v)
		}
	}
}

func TestVoicedPolarity(t *testing.T) {
	v := Voiced(100, 16000, 1000, 1600)
	lo, hi := 0.0, 0.0
	for _, x := range v {
		lo = math.Min(lo, x)
		hi = math.Max(hi, x)
	}
	if hi <= -lo {
		t.Fatalf("expected positive-dominant waveform, max %v min %v", hi, lo)
	}
	RequireNear(t, "peak", hi, 1000, 1)
}

func TestConcatAndNegate(t *testing.T) {
	c := Concat([]float64{1}, nil, []float64{2, 3})
	RequireSliceNearlyEqual(t, c, []float64{1, 2, 3}, 0)
	RequireSliceNearlyEqual(t, Negate(c), []float64{-1, -2, -3}, 0)
	RequireSliceNearlyEqual(t, Round([]float64{1.4, -2.6}), []float64{1, -3}, 0)
}

func TestTextGridFixture(t *testing.T) {
	s := TextGrid(1, FixtureTier{Name: "phone", Labels: []Label{{0, 0.5, "S"}, {0.5, 1, `a"b`}}})
	for _, want := range []string{`name = "phone"`, "intervals: size = 2", `text = "a""b"`} {
		if !strings.Contains(s, want) {
			t.Fatalf("fixture missing %q:\n%s", want, s)
		}
	}
}
