package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cwbudde/algo-phonetics/ecog"
	"github.com/cwbudde/algo-phonetics/format/htk"
	"github.com/cwbudde/algo-phonetics/format/wav"
	"github.com/cwbudde/algo-phonetics/internal/testutil"
)

func runCmd(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	t.Chdir(t.TempDir())
	var out, errOut bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err = root.Execute()
	return out.String(), errOut.String(), err
}

func TestVersion(t *testing.T) {
	stdout, _, err := runCmd(t, "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.HasPrefix(stdout, "phonetics dev") {
		t.Fatalf("stdout = %q", stdout)
	}
}

func TestChannel(t *testing.T) {
	stdout, _, err := runCmd(t, "channel", "1", "65", "256")
	if err != nil {
		t.Fatalf("channel: %v", err)
	}
	if stdout != "Wav11.htk\nWav21.htk\nWav464.htk\n" {
		t.Fatalf("stdout = %q", stdout)
	}
	if _, _, err := runCmd(t, "channel", "300"); err == nil {
		t.Fatal("expected error for channel 300")
	}
	if _, _, err := runCmd(t, "channel", "x"); err == nil {
		t.Fatal("expected error for non-numeric channel")
	}
}

func TestInvalidOutput(t *testing.T) {
	if _, _, err := runCmd(t, "-o", "csv", "channel", "1"); err == nil {
		t.Fatal("expected error for csv output")
	}
}

// writeFricatives writes one recording with an S between 0.1 and 0.2 s.
func writeFricatives(t *testing.T, dir string) {
	t.Helper()
	x := testutil.Concat(
		testutil.DeterministicNoise(1, 2, 1600),
		testutil.DeterministicNoise(2, 3000, 1600),
		testutil.DeterministicNoise(3, 2, 1600),
	)
	if err := wav.Write(filepath.Join(dir, "kj_sip_1.wav"), 16000, 16, x); err != nil {
		t.Fatal(err)
	}
	grid := testutil.TextGrid(0.3, testutil.FixtureTier{Name: "phone", Labels: []testutil.Label{
		{Start: 0, End: 0.1}, {Start: 0.1, End: 0.2, Text: "S"}, {Start: 0.2, End: 0.3},
	}})
	if err := os.WriteFile(filepath.Join(dir, "kj_sip_1.TextGrid"), []byte(grid), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestFricative(t *testing.T) {
	dir := t.TempDir()
	writeFricatives(t, dir)

	stdout, _, err := runCmd(t, "fricative", dir)
	if err != nil {
		t.Fatalf("fricative: %v", err)
	}
	if f := strings.Fields(stdout); len(f) != 6 || f[0] != "kj" || f[1] != "sip" || f[2] != "S" {
		t.Fatalf("stdout = %q", stdout)
	}

	stdout, stderr, err := runCmd(t, "fricative", "--plot", "-o", "json", dir)
	if err != nil {
		t.Fatalf("fricative json: %v", err)
	}
	if !strings.Contains(stdout, `"talker": "kj"`) {
		t.Fatalf("json stdout = %s", stdout)
	}
	if !strings.Contains(stderr, "H/L = ") {
		t.Fatalf("plot missing from stderr: %q", stderr)
	}
}

func TestVOTMissingLabels(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a_b_c.wav")
	if err := wav.Write(path, 16000, 16, make([]float64, 160)); err != nil {
		t.Fatal(err)
	}
	_, stderr, err := runCmd(t, "vot", "--log-level", "error", path)
	if err == nil || !strings.Contains(err.Error(), "1 of 1 files failed") {
		t.Fatalf("error = %v", err)
	}
	if !strings.Contains(stderr, "measurement failed") {
		t.Fatalf("stderr = %q", stderr)
	}
}

func TestECoG(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "Artifacts"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "Artifacts", "badChannels.txt"), []byte("7 8\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(dir, "B1"), 0o755); err != nil {
		t.Fatal(err)
	}
	data := [][]float64{{1, 2}, {1, 2}, {1, 2}, {1, 2}}
	for n := 1; n <= ecog.Channels; n++ {
		name, _ := ecog.ChannelFileName(n)
		if err := htk.WriteFile(filepath.Join(dir, "B1", name), 25000, 9, data); err != nil {
			t.Fatal(err)
		}
	}

	out := filepath.Join(t.TempDir(), "block.msgpack")
	stdout, _, err := runCmd(t, "ecog", "--decimate", "2", "--out", out, dir, "B1")
	if err != nil {
		t.Fatalf("ecog: %v", err)
	}
	if !strings.Contains(stdout, "256 x 2 x 2") || !strings.Contains(stdout, "bad channels [7 8]") {
		t.Fatalf("stdout = %q", stdout)
	}

	f, err := os.Open(out)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	b, err := ecog.DecodeBlock(f)
	if err != nil {
		t.Fatalf("DecodeBlock() error = %v", err)
	}
	if !b.IsBad(7) || b.Rate != 200 {
		t.Fatalf("decoded block rate=%v bad=%v", b.Rate, b.Bad)
	}
}
