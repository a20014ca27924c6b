package fir

// Filter implements a direct-form FIR filter using a circular-buffer delay line.
type Filter struct {
	coeffs []float64
	delay  []float64
	pos    int
}

// New creates a FIR filter from the given coefficient slice.
// The coefficients are copied. The filter order is len(coeffs)-1.
func New(coeffs []float64) *Filter {
	return &Filter{
		coeffs: append([]float64(nil), coeffs...),
		delay:  make([]float64, len(coeffs)),
	}
}

// ProcessSample filters one input sample.
//
//	y[n] = sum_{k=0}^{N-1} h[k] * x[n-k]
func (f *Filter) ProcessSample(x float64) float64 {
	n := len(f.coeffs)
	if n == 0 {
		return 0
	}
	f.delay[f.pos] = x
	var y float64
	p := f.pos
	for _, c := range f.coeffs {
		y += c * f.delay[p]
		if p--; p < 0 {
			p = n - 1
		}
	}
	if f.pos++; f.pos >= n {
		f.pos = 0
	}
	return y
}

// ProcessBlock filters a block of samples in-place.
func (f *Filter) ProcessBlock(buf []float64) {
	for i, x := range buf {
		buf[i] = f.ProcessSample(x)
	}
}

// Reset clears the delay line.
func (f *Filter) Reset() {
	clear(f.delay)
	f.pos = 0
}

// Order returns the filter order (len(coeffs) - 1).
func (f *Filter) Order() int {
	return len(f.coeffs) - 1
}

// Coefficients returns a copy of the filter coefficients.
func (f *Filter) Coefficients() []float64 {
	return append([]float64(nil), f.coeffs...)
}

// GroupDelay returns the delay in samples of a linear-phase filter.
func (f *Filter) GroupDelay() int {
	return f.Order() / 2
}
