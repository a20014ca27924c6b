package spectrum

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-phonetics/dsp/window"
	"github.com/cwbudde/algo-phonetics/internal/testutil"
)

func TestMagnitudeAndPower(t *testing.T) {
	in := []complex128{complex(3, 4), complex(0, -2), 0}
	testutil.RequireSliceNearlyEqual(t, Magnitude(in), []float64{5, 2, 0}, 1e-12)
	testutil.RequireSliceNearlyEqual(t, Power(in), []float64{25, 4, 0}, 1e-12)
	if Magnitude(nil) != nil || Power(nil) != nil {
		t.Fatal("empty input should return nil")
	}
}

func TestAnalyzerSizes(t *testing.T) {
	a, err := NewAnalyzer(80, window.TypeHamming)
	if err != nil {
		t.Fatalf("NewAnalyzer() error = %v", err)
	}
	if a.FFTSize() != 128 || a.FrameLen() != 80 {
		t.Fatalf("sizes = %d/%d, want 80/128", a.FrameLen(), a.FFTSize())
	}
	if _, err := NewAnalyzer(0, window.TypeHamming); err == nil {
		t.Fatal("expected error for zero frame length")
	}
	if _, err := a.PowerSpectrum(make([]float64, 81)); err == nil {
		t.Fatal("expected error for long frame")
	}
}

func TestAnalyzerPeakBin(t *testing.T) {
	const rate = 16000.0
	a, err := NewAnalyzer(256, window.TypeHamming)
	if err != nil {
		t.Fatalf("NewAnalyzer() error = %v", err)
	}
	// 2000 Hz falls exactly on bin 32 of a 256-point FFT at 16 kHz.
	p, err := a.PowerSpectrum(testutil.DeterministicSine(2000, rate, 1, 256))
	if err != nil {
		t.Fatalf("PowerSpectrum() error = %v", err)
	}
	if len(p) != 129 {
		t.Fatalf("len = %d, want 129", len(p))
	}
	peak := 0
	for k := range p {
		if p[k] > p[peak] {
			peak = k
		}
	}
	if peak != 32 {
		t.Fatalf("peak bin = %d, want 32", peak)
	}
	testutil.RequireNear(t, "bin freq", a.BinFrequency(peak, rate), 2000, 1e-9)
}

func TestMelScale(t *testing.T) {
	testutil.RequireNear(t, "mel(1000)", HzToMel(1000), 1000, 0.5)
	testutil.RequireNear(t, "hz(mel(4321))", MelToHz(HzToMel(4321)), 4321, 1e-6)
}

func TestMelBankValidation(t *testing.T) {
	cases := []struct {
		rate      float64
		fft       int
		low, high float64
		bands     int
	}{
		{0, 128, 300, 8000, 60},
		{16000, 0, 300, 8000, 60},
		{16000, 128, 300, 8000, 0},
		{16000, 128, 300, 200, 60},
		{16000, 128, 300, 9000, 60},
	}
	for i, c := range cases {
		if _, err := NewMelBank(c.rate, c.fft, c.low, c.high, c.bands); err == nil {
			t.Fatalf("case %d: expected error", i)
		}
	}
}

func TestMelBankLocatesTone(t *testing.T) {
	const rate = 16000.0
	a, _ := NewAnalyzer(512, window.TypeHamming)
	bank, err := NewMelBank(rate, a.FFTSize(), 300, rate/2, 60)
	if err != nil {
		t.Fatalf("NewMelBank() error = %v", err)
	}
	p, _ := a.PowerSpectrum(testutil.DeterministicSine(3000, rate, 1000, 512))
	mel, err := bank.Apply(p)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	testutil.RequireFinite(t, mel)

	best := 0
	for m := range mel {
		if mel[m] > mel[best] {
			best = m
		}
	}
	centers := bank.Centers()
	if math.Abs(centers[best]-3000) > 250 {
		t.Fatalf("loudest band centre %v Hz, want near 3000", centers[best])
	}
}

func TestMelBankNarrowBandsStayFinite(t *testing.T) {
	// 5 ms at 16 kHz gives a 128-point FFT with 125 Hz bins, narrower than
	// the low mel bands.
	a, _ := NewAnalyzer(80, window.TypeHamming)
	bank, err := NewMelBank(16000, a.FFTSize(), 300, 8000, 60)
	if err != nil {
		t.Fatalf("NewMelBank() error = %v", err)
	}
	p, _ := a.PowerSpectrum(testutil.DeterministicNoise(1, 100, 80))
	mel, err := bank.Apply(p)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	testutil.RequireFinite(t, mel)
	for m, v := range mel {
		if v < -50 {
			t.Fatalf("band %d = %v dB, expected energy from noise", m, v)
		}
	}
	if _, err := bank.Apply(p[:10]); err == nil {
		t.Fatal("expected error for mismatched bin count")
	}
}

func TestMelSpectrogramFrames(t *testing.T) {
	x := testutil.DeterministicNoise(3, 10, 1000)
	g, err := MelSpectrogram(x, 16000, Config{FrameLen: 80, Window: window.TypeHamming, LowHz: 300, Bands: 60})
	if err != nil {
		t.Fatalf("MelSpectrogram() error = %v", err)
	}
	// 1000/80 = 12.5 -> 13 frames, the last one zero-padded.
	if len(g.Frames) != 13 {
		t.Fatalf("frames = %d, want 13", len(g.Frames))
	}
	if g.Hop != 80 || len(g.Freqs) != 60 {
		t.Fatalf("hop %d freqs %d", g.Hop, len(g.Freqs))
	}
}

func TestChange(t *testing.T) {
	frames := [][]float64{{1, 1}, {2, 4}, {0, 0}}
	testutil.RequireSliceNearlyEqual(t, Change(frames), []float64{0, 4, -6}, 0)
	if Change(nil) != nil {
		t.Fatal("Change(nil) should be nil")
	}
}

func TestSum(t *testing.T) {
	v := []float64{1, 2, 3, 4}
	if s := Sum(v, 1, 3); s != 5 {
		t.Fatalf("Sum = %v, want 5", s)
	}
	if s := Sum(v, -2, 10); s != 10 {
		t.Fatalf("clamped Sum = %v, want 10", s)
	}
}
