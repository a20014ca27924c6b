package config

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	c, err := Load(New(), "")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if c.Backend != "native" || c.Output != "text" || c.VOT.Rate != 16000 || c.VOT.Step != 0.005 {
		t.Fatalf("defaults = %+v", c)
	}
	if c.ECoG.Decimate != 10 || c.Fricative.Window != 0.005 {
		t.Fatalf("defaults = %+v", c)
	}
	if got := c.NewBackend(c.Logger(&bytes.Buffer{})).Name(); got != "native" {
		t.Fatalf("backend = %q", got)
	}
}

func TestFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "phonetics.yaml")
	yaml := "backend: esps\nvot:\n  rate: 8000\necog:\n  workers: 2\nesps:\n  bin_dir: /opt/esps/bin\n"
	if err := os.WriteFile(file, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PHONETICS_OUTPUT", "json")

	c, err := Load(New(), file)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if c.Backend != "esps" || c.VOT.Rate != 8000 || c.ECoG.Workers != 2 || c.ESPS.BinDir != "/opt/esps/bin" {
		t.Fatalf("file settings not applied: %+v", c)
	}
	if c.Output != "json" {
		t.Fatalf("env output = %q, want json", c.Output)
	}
	if got := c.NewBackend(c.Logger(&bytes.Buffer{})).Name(); got != "esps" {
		t.Fatalf("backend = %q", got)
	}
}

func TestSearchPath(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	if err := os.WriteFile("phonetics.yaml", []byte("output: yaml\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err := Load(New(), "")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if c.Output != "yaml" {
		t.Fatalf("output = %q, want yaml", c.Output)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(New(), filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for an explicit missing file")
	}

	t.Chdir(t.TempDir())
	t.Setenv("PHONETICS_BACKEND", "praat")
	if _, err := Load(New(), ""); !errors.Is(err, ErrInvalid) {
		t.Fatalf("error = %v, want ErrInvalid", err)
	}
}

func TestValidate(t *testing.T) {
	base := Config{
		Backend: "native", Output: "text",
		Log:       Log{Level: "info", Format: "text"},
		VOT:       VOT{Rate: 16000, Step: 0.005},
		Fricative: Fricative{Window: 0.005},
		ECoG:      ECoG{Decimate: 10, Workers: 1},
	}
	if err := base.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	mutations := []func(*Config){
		func(c *Config) { c.Output = "csv" },
		func(c *Config) { c.Log.Level = "loud" },
		func(c *Config) { c.Log.Format = "xml" },
		func(c *Config) { c.VOT.Step = 0 },
		func(c *Config) { c.Fricative.Window = -1 },
		func(c *Config) { c.ECoG.Decimate = 0 },
	}
	for i, m := range mutations {
		c := base
		m(&c)
		if err := c.Validate(); !errors.Is(err, ErrInvalid) {
			t.Fatalf("mutation %d: error = %v, want ErrInvalid", i, err)
		}
	}
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	c := Config{Log: Log{Level: "info", Format: "json"}}
	l := c.Logger(&buf)
	l.Debug("hidden")
	l.WithField("file", "a.wav").Info("shown")
	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, `"file":"a.wav"`) {
		t.Fatalf("log output = %q", out)
	}
}
