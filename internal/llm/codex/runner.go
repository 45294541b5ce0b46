package codex

import (
	"context"
	"fmt"
	"io"
	"os/exec"
)

// Streams holds the subprocess output: progress on Stderr, the answer on Stdout.
type Streams struct {
	Stderr io.Reader
	Stdout io.Reader
}

// Runner starts a command. wait blocks until it exits.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (streams Streams, wait func() error, err error)
}

type execRunner struct {
	dir string
}

func (r *execRunner) Run(ctx context.Context, name string, args ...string) (Streams, func() error, error) {
	if err := ctx.Err(); err != nil {
		return Streams{}, nil, err
	}

	// Cancellation is handled by the process group cleanup so that children
	// spawned by codex die with it.
	cmd := exec.Command(name, args...) //nolint:gosec // binary and args come from config
	cmd.Dir = r.dir
	setupProcessGroup(cmd)

	stderr, err := cmd.StderrPipe()
	if err != nil {
		return Streams{}, nil, fmt.Errorf("stderr pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		stderr.Close()
		return Streams{}, nil, fmt.Errorf("stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		stderr.Close()
		stdout.Close()
		return Streams{}, nil, err
	}

	pg := newProcessGroup(cmd, ctx.Done())
	return Streams{Stderr: stderr, Stdout: stdout}, pg.Wait, nil
}
