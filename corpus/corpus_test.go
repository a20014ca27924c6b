package corpus

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestParseName(t *testing.T) {
	tests := []struct {
		file               string
		talker, word, rest string
		wantErr            bool
	}{
		{"kj_ship_1.wav", "kj", "ship", "1", false},
		{"/data/s01/kj_ship_take_2.wav", "kj", "ship", "take_2", false},
		{"kj_ship.wav", "", "", "", true},
		{"single.wav", "", "", "", true},
	}
	for _, tc := range tests {
		talker, word, rest, err := ParseName(tc.file)
		if (err != nil) != tc.wantErr {
			t.Fatalf("%s: err = %v, wantErr %v", tc.file, err, tc.wantErr)
		}
		if tc.wantErr {
			if !errors.Is(err, ErrBadName) {
				t.Fatalf("%s: err = %v, want ErrBadName", tc.file, err)
			}
			continue
		}
		if talker != tc.talker || word != tc.word || rest != tc.rest {
			t.Fatalf("%s: got %q %q %q", tc.file, talker, word, rest)
		}
	}
}

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestWalk(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "b_sea_1.wav"))
	touch(t, filepath.Join(root, "b_sea_1.TextGrid"))
	touch(t, filepath.Join(root, "a_fee_1.wav"))
	touch(t, filepath.Join(root, "a_fee_1.TextGrid"))
	touch(t, filepath.Join(root, "sub", "c_thy_2.wav"))
	touch(t, filepath.Join(root, "sub", "notes.txt"))
	touch(t, filepath.Join(root, "sub", "d_upper_1.WAV"))
	touch(t, filepath.Join(root, "sub", "d_upper_1.TextGrid"))
	touch(t, filepath.Join(root, "sub", "bad.wav"))
	touch(t, filepath.Join(root, "sub", "bad.TextGrid"))

	var (
		seen    []string
		missing []string
		badName []string
	)
	err := Walk(context.Background(), root, func(rec Recording, err error) error {
		switch {
		case errors.Is(err, ErrNoTextGrid):
			missing = append(missing, rec.Word)
		case errors.Is(err, ErrBadName):
			badName = append(badName, filepath.Base(rec.Path))
		case err != nil:
			return err
		default:
			seen = append(seen, rec.Talker+"/"+rec.Word)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Walk() error = %v", err)
	}

	if len(seen) != 2 || seen[0] != "a/fee" || seen[1] != "b/sea" {
		t.Fatalf("seen = %v", seen)
	}
	if len(missing) != 1 || missing[0] != "thy" {
		t.Fatalf("missing = %v", missing)
	}
	if len(badName) != 1 || badName[0] != "bad.wav" {
		t.Fatalf("badName = %v", badName)
	}
}

func TestWalkStops(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "a_b_c.wav"))
	touch(t, filepath.Join(root, "a_b_c.TextGrid"))

	stop := errors.New("stop")
	if err := Walk(context.Background(), root, func(Recording, error) error { return stop }); !errors.Is(err, stop) {
		t.Fatalf("Walk() error = %v, want stop", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := Walk(ctx, root, func(Recording, error) error { return nil }); !errors.Is(err, context.Canceled) {
		t.Fatalf("Walk() error = %v, want context.Canceled", err)
	}
}
