package layout

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"time"
)

// Prober reports the consuming tool's self-described version.
type Prober interface {
	Version(ctx context.Context) (string, error)
}

// ExecProber runs "<Binary> --version".
type ExecProber struct {
	Binary  string
	Timeout time.Duration
}

// Available reports whether Binary is on PATH.
func (p *ExecProber) Available() bool {
	_, err := exec.LookPath(p.Binary)
	return err == nil
}

// Version returns the combined output of "<Binary> --version".
func (p *ExecProber) Version(ctx context.Context) (string, error) {
	bin, err := exec.LookPath(p.Binary)
	if err != nil {
		return "", fmt.Errorf("%s not found: %w", p.Binary, err)
	}

	if p.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}

	var out bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, "--version")
	cmd.Stdout = &out
	cmd.Stderr = &out
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("running %s --version: %w", p.Binary, err)
	}
	return out.String(), nil
}

// StaticProber returns a fixed answer. An empty Output with a nil Err still
// counts as a successful probe.
type StaticProber struct {
	Output string
	Err    error
}

// Version implements Prober.
func (p StaticProber) Version(context.Context) (string, error) {
	return p.Output, p.Err
}
