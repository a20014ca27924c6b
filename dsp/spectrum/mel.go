package spectrum

import (
	"fmt"
	"math"
)

// floorPower keeps silent bands finite on the dB scale (-100 dB).
const floorPower = 1e-10

// HzToMel converts frequency in Hz to the mel scale.
func HzToMel(hz float64) float64 {
	return 2595.0 * math.Log10(1.0+hz/700.0)
}

// MelToHz converts a mel value back to Hz.
func MelToHz(mel float64) float64 {
	return 700.0 * (math.Pow(10.0, mel/2595.0) - 1.0)
}

// MelBank is a set of triangular filters equally spaced on the mel scale.
type MelBank struct {
	centers []float64
	weights [][]float64
	// fallback holds the fractional bin of a band centre for bands too
	// narrow to cover any FFT bin.
	fallback []float64
}

// NewMelBank builds bands triangular filters between lowHz and highHz for
// an FFT of fftSize points at the given sample rate.
func NewMelBank(rate float64, fftSize int, lowHz, highHz float64, bands int) (*MelBank, error) {
	switch {
	case rate <= 0:
		return nil, fmt.Errorf("spectrum: mel bank rate must be > 0: %v", rate)
	case fftSize <= 0:
		return nil, fmt.Errorf("spectrum: mel bank fft size must be > 0: %d", fftSize)
	case bands <= 0:
		return nil, fmt.Errorf("spectrum: mel bank needs at least one band: %d", bands)
	case lowHz < 0 || highHz <= lowHz || highHz > rate/2+1e-9:
		return nil, fmt.Errorf("spectrum: mel bank range %v..%v Hz invalid for rate %v", lowHz, highHz, rate)
	}

	half := fftSize/2 + 1
	binHz := rate / float64(fftSize)

	lowMel, highMel := HzToMel(lowHz), HzToMel(highHz)
	step := (highMel - lowMel) / float64(bands+1)
	edges := make([]float64, bands+2)
	for i := range edges {
		edges[i] = MelToHz(lowMel + float64(i)*step)
	}

	b := &MelBank{
		centers:  make([]float64, bands),
		weights:  make([][]float64, bands),
		fallback: make([]float64, bands),
	}
	for m := range bands {
		left, center, right := edges[m], edges[m+1], edges[m+2]
		b.centers[m] = center
		w := make([]float64, half)
		total := 0.0
		for k := range half {
			f := float64(k) * binHz
			switch {
			case f > left && f <= center:
				w[k] = (f - left) / (center - left)
			case f > center && f < right:
				w[k] = (right - f) / (right - center)
			}
			total += w[k]
		}
		if total > 0 {
			for k := range w {
				w[k] /= total
			}
			b.fallback[m] = -1
		} else {
			b.fallback[m] = center / binHz
		}
		b.weights[m] = w
	}

	return b, nil
}

// Bands returns the number of filters.
func (b *MelBank) Bands() int { return len(b.centers) }

// Centers returns a copy of the band centre frequencies in Hz.
func (b *MelBank) Centers() []float64 {
	return append([]float64(nil), b.centers...)
}

// Apply maps a power spectrum (FFTSize/2+1 bins) to mel band levels in dB.
// Each band is the weight-normalised mean power under its triangle; bands
// narrower than one bin interpolate the power at their centre.
func (b *MelBank) Apply(power []float64) ([]float64, error) {
	if len(b.weights) > 0 && len(power) != len(b.weights[0]) {
		return nil, fmt.Errorf("spectrum: power spectrum has %d bins, mel bank expects %d", len(power), len(b.weights[0]))
	}

	out := make([]float64, len(b.weights))
	for m, w := range b.weights {
		var p float64
		if pos := b.fallback[m]; pos >= 0 {
			p = interpolate(power, pos)
		} else {
			for k, wk := range w {
				if wk != 0 {
					p += wk * power[k]
				}
			}
		}
		out[m] = 10 * math.Log10(p+floorPower)
	}
	return out, nil
}

func interpolate(x []float64, pos float64) float64 {
	j := int(pos)
	if j >= len(x)-1 {
		return x[len(x)-1]
	}
	frac := pos - float64(j)
	return x[j]*(1-frac) + x[j+1]*frac
}
