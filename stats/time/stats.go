// Package time provides time-domain statistics of short signal segments.
package time

import "math"

// RMS returns the root-mean-square of the signal.
func RMS(signal []float64) float64 {
	if len(signal) == 0 {
		return 0
	}

	var sumSq float64
	for _, x := range signal {
		sumSq += x * x
	}

	return math.Sqrt(sumSq / float64(len(signal)))
}

// DC returns the mean of the signal.
func DC(signal []float64) float64 {
	if len(signal) == 0 {
		return 0
	}
	// Kahan summation.
	var sum, c float64
	for _, x := range signal {
		y := x - c
		t := sum + y
		c = (t - sum) - y
		sum = t
	}

	return sum / float64(len(signal))
}

// Extremes returns the most negative and most positive sample, each
// clamped towards zero: a signal that never goes below zero has min 0.
func Extremes(signal []float64) (minV, maxV float64) {
	for _, x := range signal {
		minV = math.Min(minV, x)
		maxV = math.Max(maxV, x)
	}
	return minV, maxV
}

// ZeroCrossingRate returns the number of sign changes of the mean-removed
// signal per sample interval. Samples equal to the mean count as positive.
func ZeroCrossingRate(signal []float64) float64 {
	if len(signal) < 2 {
		return 0
	}
	mean := DC(signal)

	var count int
	for i := 1; i < len(signal); i++ {
		a, b := signal[i-1]-mean, signal[i]-mean
		if (a >= 0) != (b >= 0) {
			count++
		}
	}

	return float64(count) / float64(len(signal)-1)
}
