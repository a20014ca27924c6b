package analysis

import (
	"errors"
	"testing"
)

func TestMelRequestValidate(t *testing.T) {
	ok := MelRequest{Start: 0, End: 99, FrameLen: 80, LowHz: 300, Bands: 60}
	if err := ok.Validate(100); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	bad := []MelRequest{
		{Start: 0, End: 10, FrameLen: 0, Bands: 60},
		{Start: 0, End: 10, FrameLen: 8, Bands: 0},
		{Start: 5, End: 4, FrameLen: 8, Bands: 60},
		{Start: 100, End: 120, FrameLen: 8, Bands: 60},
	}
	for i, r := range bad {
		if err := r.Validate(100); err == nil {
			t.Fatalf("case %d: expected error", i)
		}
	}
	if err := bad[3].Validate(100); !errors.Is(err, ErrRange) {
		t.Fatalf("error = %v, want ErrRange", err)
	}
}

func TestParseFloats(t *testing.T) {
	v, err := ParseFloats(" 1 -2\t3.5\n")
	if err != nil || len(v) != 3 || v[2] != 3.5 {
		t.Fatalf("ParseFloats = %v, %v", v, err)
	}
	if _, err := ParseFloats("1 x"); err == nil {
		t.Fatal("expected error for non-number")
	}
}

func TestParseRows(t *testing.T) {
	rows, err := ParseRows("1 2\n\n3 4\n")
	if err != nil || len(rows) != 2 || rows[1][0] != 3 {
		t.Fatalf("ParseRows = %v, %v", rows, err)
	}
}
