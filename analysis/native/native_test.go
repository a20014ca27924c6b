package native

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/cwbudde/algo-phonetics/analysis"
	"github.com/cwbudde/algo-phonetics/format/wav"
	"github.com/cwbudde/algo-phonetics/internal/testutil"
)

func writeFixture(t *testing.T, rate int, x []float64) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "token.wav")
	if err := wav.Write(path, rate, 16, x); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	return path
}

func TestOpenKeepsNativeRate(t *testing.T) {
	x := testutil.DeterministicSine(440, 16000, 1000, 1600)
	path := writeFixture(t, 16000, x)

	src, err := New().Open(context.Background(), path, 0)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer src.Close()

	if src.Rate() != 16000 {
		t.Fatalf("Rate() = %v, want 16000", src.Rate())
	}
	if src.Path() != path {
		t.Fatalf("Path() = %q", src.Path())
	}
	got, err := src.Samples(context.Background(), 10, 19)
	if err != nil {
		t.Fatalf("Samples() error = %v", err)
	}
	testutil.RequireSliceNearlyEqual(t, got, testutil.Round(x[10:20]), 1e-9)
}

func TestOpenResamples(t *testing.T) {
	x := testutil.DeterministicSine(200, 8000, 1000, 8000)
	path := writeFixture(t, 8000, x)

	src, err := New().Open(context.Background(), path, 16000)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if src.Rate() != 16000 {
		t.Fatalf("Rate() = %v, want 16000", src.Rate())
	}
	all, err := src.Samples(context.Background(), 0, 1<<30)
	if err != nil {
		t.Fatalf("Samples() error = %v", err)
	}
	if len(all) != 16000 {
		t.Fatalf("len = %d, want 16000", len(all))
	}
}

func TestSamplesRange(t *testing.T) {
	path := writeFixture(t, 16000, testutil.DC(100, 100))
	src, err := New().Open(context.Background(), path, 0)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	got, err := src.Samples(context.Background(), -5, 4)
	if err != nil || len(got) != 5 {
		t.Fatalf("Samples(-5, 4) = %d samples, %v", len(got), err)
	}
	if _, err := src.Samples(context.Background(), 200, 300); !errors.Is(err, analysis.ErrRange) {
		t.Fatalf("error = %v, want ErrRange", err)
	}
}

func TestMelFrames(t *testing.T) {
	x := testutil.DeterministicNoise(3, 2000, 1600)
	path := writeFixture(t, 16000, x)
	src, err := New().Open(context.Background(), path, 0)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	mel, err := src.Mel(context.Background(), analysis.MelRequest{
		Start: 0, End: 799, FrameLen: 80, LowHz: analysis.DefaultLowHz, Bands: analysis.DefaultBands,
	})
	if err != nil {
		t.Fatalf("Mel() error = %v", err)
	}
	if len(mel.Frames) != 10 {
		t.Fatalf("frames = %d, want 10", len(mel.Frames))
	}
	if len(mel.Freqs) != 60 || len(mel.Frames[0]) != 60 {
		t.Fatalf("bands = %d/%d, want 60", len(mel.Freqs), len(mel.Frames[0]))
	}
	for _, f := range mel.Frames {
		testutil.RequireFinite(t, f)
	}

	if _, err := src.Mel(context.Background(), analysis.MelRequest{Start: 0, End: 10, FrameLen: 0, Bands: 60}); err == nil {
		t.Fatal("expected error for zero frame length")
	}
}

func TestVoicingIsCached(t *testing.T) {
	x := testutil.Concat(
		testutil.DeterministicNoise(1, 5, 3200),
		testutil.Voiced(120, 16000, 6000, 4800),
	)
	path := writeFixture(t, 16000, x)
	src, err := New().Open(context.Background(), path, 0)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	v1, err := src.Voicing(context.Background(), 0.005)
	if err != nil {
		t.Fatalf("Voicing() error = %v", err)
	}
	if len(v1) < 100 || len(v1) > 101 {
		t.Fatalf("frames = %d, want about 100", len(v1))
	}
	if v1[10] {
		t.Fatal("frame in the noise floor reported voiced")
	}
	if !v1[70] {
		t.Fatal("frame inside the vowel reported unvoiced")
	}

	v2, err := src.Voicing(context.Background(), 0.005)
	if err != nil {
		t.Fatalf("Voicing() error = %v", err)
	}
	if &v1[0] != &v2[0] {
		t.Fatal("second call should reuse the cached track")
	}
}

func TestOpenCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := New().Open(ctx, "missing.wav", 0); !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
}

func TestName(t *testing.T) {
	if New().Name() != "native" {
		t.Fatalf("Name() = %q", New().Name())
	}
}
