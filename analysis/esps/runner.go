package esps

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

// Runner executes an external tool and returns its standard output.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecRunner runs tools as subprocesses. Tools are looked up in BinDir when
// it is set and on PATH otherwise.
type ExecRunner struct {
	BinDir string
}

// Run implements Runner.
func (r ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	bin := name
	if r.BinDir != "" {
		bin = filepath.Join(r.BinDir, name)
	}

	cmd := exec.CommandContext(ctx, bin, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return nil, fmt.Errorf("esps: %s: %w", name, err)
		}
		return nil, fmt.Errorf("esps: %s: %w: %s", name, err, msg)
	}
	return stdout.Bytes(), nil
}
