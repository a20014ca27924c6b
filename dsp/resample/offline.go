package resample

import "math"

// Convert resamples a complete signal from inRate to outRate. The prototype
// filter delay is removed so that output sample i sits at time i/outRate,
// the same instant as input sample i*inRate/outRate. Equal rates return a
// copy of the input.
func Convert(input []float64, inRate, outRate float64, opts ...Option) ([]float64, error) {
	if inRate <= 0 || outRate <= 0 || math.IsNaN(inRate) || math.IsNaN(outRate) {
		return nil, ErrInvalidRate
	}
	if len(input) == 0 {
		return nil, nil
	}
	if inRate == outRate {
		return append([]float64(nil), input...), nil
	}

	r, err := NewForRates(inRate, outRate, opts...)
	if err != nil {
		return nil, err
	}
	up, down := r.Ratio()

	want := int(math.Round(float64(len(input)) * float64(up) / float64(down)))
	delay := r.Delay()

	// Flush the filter tail with zeros so the delayed samples are produced.
	pad := int(math.Ceil((delay+2)*float64(down)/float64(up))) + 1
	y := r.Process(append(append([]float64(nil), input...), make([]float64, pad)...))

	out := make([]float64, want)
	for i := range out {
		pos := float64(i) + delay
		j := int(pos)
		frac := pos - float64(j)
		if j+1 >= len(y) {
			if j < len(y) {
				out[i] = y[j]
			}
			continue
		}
		out[i] = y[j]*(1-frac) + y[j+1]*frac
	}

	return out, nil
}
