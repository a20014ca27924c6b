package resample

import (
	"errors"
	"fmt"
	"math"
)

// designPrototype returns the low-pass prototype for an up/down
// converter, scaled so each polyphase branch has unity DC gain.
func designPrototype(up, down int, p prototype) ([]float64, error) {
	n := p.tapsPerPhase * up
	fc := 0.5 / float64(max(up, down)) * p.cutoffScale
	if fc <= 0 || fc >= 0.5 {
		return nil, fmt.Errorf("resample: invalid cutoff %.6f", fc)
	}

	taps := make([]float64, n)
	center := 0.5 * float64(n-1)
	var sum float64
	for i := range taps {
		taps[i] = 2 * fc * sinc(2*fc*(float64(i)-center)) * kaiserWindow(i, n, p.beta)
		sum += taps[i]
	}
	if sum == 0 {
		return nil, errors.New("resample: designed zero-sum filter")
	}

	scale := float64(up) / sum
	for i := range taps {
		taps[i] *= scale
	}
	return taps, nil
}

// splitBranches deinterleaves taps into up polyphase branches and returns
// the longest branch length less one, the input history a stream needs.
func splitBranches(taps []float64, up int) ([][]float64, int) {
	branches := make([][]float64, up)
	longest := 0
	for ph := range branches {
		for i := ph; i < len(taps); i += up {
			branches[ph] = append(branches[ph], taps[i])
		}
		longest = max(longest, len(branches[ph]))
	}
	return branches, max(0, longest-1)
}

// approximateRatio finds num/den close to v with den <= maxDen using
// continued fractions.
func approximateRatio(v float64, maxDen int) (num, den int) {
	if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 1, 1
	}

	p0, q0 := 1.0, 0.0
	p1, q1 := math.Floor(v), 1.0
	x := v

	for {
		frac := x - math.Floor(x)
		if frac == 0 {
			break
		}

		x = 1 / frac
		a := math.Floor(x)
		p2 := a*p1 + p0
		q2 := a*q1 + q0
		if q2 > float64(maxDen) {
			break
		}

		p0, q0 = p1, q1
		p1, q1 = p2, q2
	}

	num = int(math.Round(p1))
	den = int(math.Round(q1))
	if den <= 0 || num <= 0 {
		return 1, 1
	}

	g := gcd(num, den)
	return num / g, den / g
}

func gcd(a, b int) int {
	if a < 0 {
		a = -a
	}
	if b < 0 {
		b = -b
	}
	for b != 0 {
		a, b = b, a%b
	}
	if a == 0 {
		return 1
	}
	return a
}

func sinc(x float64) float64 {
	if math.Abs(x) < 1e-12 {
		return 1
	}
	pix := math.Pi * x
	return math.Sin(pix) / pix
}

func kaiserWindow(i, n int, beta float64) float64 {
	if n <= 1 || beta == 0 {
		return 1
	}
	t := 2*float64(i)/float64(n-1) - 1
	a := math.Sqrt(math.Max(0, 1-t*t))
	return i0(beta*a) / i0(beta)
}

// i0 is the zeroth-order modified Bessel function (power series).
func i0(x float64) float64 {
	sum := 1.0
	term := 1.0
	x2 := (x * x) / 4
	for k := 1; k < 64; k++ {
		term *= x2 / float64(k*k)
		sum += term
		if term < 1e-16*sum {
			break
		}
	}
	return sum
}
