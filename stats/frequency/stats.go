// Package frequency computes descriptive statistics of a one-sided power
// spectrum, treating it as a distribution over frequency.
package frequency

import "math"

// Moments are the first four spectral moments. Centroid and Spread are in
// Hz; Skewness and Kurtosis are dimensionless, Kurtosis in excess form.
type Moments struct {
	Centroid float64 `json:"centroid" yaml:"centroid"`
	Spread   float64 `json:"spread" yaml:"spread"`
	Skewness float64 `json:"skewness" yaml:"skewness"`
	Kurtosis float64 `json:"kurtosis" yaml:"kurtosis"`
}

// binFreq returns the centre frequency of bin k of a spectrum with n bins
// covering DC to Nyquist.
func binFreq(k, n int, rate float64) float64 {
	if n <= 1 {
		return 0
	}
	return float64(k) * rate / (2 * float64(n-1))
}

// Calculate returns the moments of power (length fftSize/2+1). An empty or
// all-zero spectrum yields zero Moments.
func Calculate(power []float64, rate float64) Moments {
	n := len(power)
	var total, m1 float64
	for k, p := range power {
		total += p
		m1 += binFreq(k, n, rate) * p
	}
	if total <= 0 {
		return Moments{}
	}
	m1 /= total

	var m2, m3, m4 float64
	for k, p := range power {
		d := binFreq(k, n, rate) - m1
		d2 := d * d
		m2 += d2 * p
		m3 += d2 * d * p
		m4 += d2 * d2 * p
	}
	m2 /= total
	m3 /= total
	m4 /= total

	out := Moments{Centroid: m1, Spread: math.Sqrt(m2)}
	if m2 > 0 {
		out.Skewness = m3 / math.Pow(m2, 1.5)
		out.Kurtosis = m4/(m2*m2) - 3
	}
	return out
}

// Centroid returns the power-weighted mean frequency.
func Centroid(power []float64, rate float64) float64 {
	return Calculate(power, rate).Centroid
}

// Flatness returns the ratio of geometric to arithmetic mean power, in
// [0, 1]. Any zero bin gives 0.
func Flatness(power []float64) float64 {
	if len(power) == 0 {
		return 0
	}
	var logSum, sum float64
	for _, p := range power {
		if p <= 0 {
			return 0
		}
		logSum += math.Log(p)
		sum += p
	}
	n := float64(len(power))
	return math.Exp(logSum/n) / (sum / n)
}

// Rolloff returns the lowest frequency below which the given fraction of
// the total power lies.
func Rolloff(power []float64, rate, fraction float64) float64 {
	var total float64
	for _, p := range power {
		total += p
	}
	if total <= 0 {
		return 0
	}
	target := total * fraction
	var acc float64
	for k, p := range power {
		acc += p
		if acc >= target {
			return binFreq(k, len(power), rate)
		}
	}
	return binFreq(len(power)-1, len(power), rate)
}
