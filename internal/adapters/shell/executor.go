// Package shell provides the subprocess executor adapter.
package shell

import (
	"bufio"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"

	"go.trai.ch/lumos/internal/core/domain"
	"go.trai.ch/lumos/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Executor = (*Executor)(nil)

const maxLineSize = 1024 * 1024

// Executor implements ports.Executor using os/exec.
type Executor struct {
	logger ports.Logger
}

// NewExecutor creates a new Executor.
func NewExecutor(logger ports.Logger) *Executor {
	return &Executor{
		logger: logger,
	}
}

// Execute runs cmd and waits for it to exit.
//
// Each non-nil writer is fed from its own os.Pipe by a relay goroutine that forwards whole lines
// until the child closes the stream. Relays are fire-and-forget: Execute returns once the process
// has exited, without waiting for them to drain. Cancelling ctx kills the process.
func (e *Executor) Execute(ctx context.Context, cmd *domain.Command, stdout, stderr io.Writer) error {
	if cmd == nil || cmd.Name == "" {
		return nil
	}

	executable, err := exec.LookPath(cmd.Name)
	if err != nil {
		return zerr.With(errors.Join(domain.ErrToolNotFound, err), "binary", cmd.Name)
	}

	c := exec.CommandContext(ctx, executable, cmd.Args...) //nolint:gosec // toolchain binary from config
	// Keep the name as invoked rather than the resolved path.
	c.Args[0] = cmd.Name

	outRelay, err := newRelay(stdout)
	if err != nil {
		return zerr.Wrap(err, "failed to open stdout pipe")
	}
	errRelay, err := newRelay(stderr)
	if err != nil {
		outRelay.abort()
		return zerr.Wrap(err, "failed to open stderr pipe")
	}
	if outRelay != nil {
		c.Stdout = outRelay.w
	}
	if errRelay != nil {
		c.Stderr = errRelay.w
	}

	e.logger.Debug("exec: " + cmd.String())

	if err := c.Start(); err != nil {
		outRelay.abort()
		errRelay.abort()
		return zerr.With(errors.Join(domain.ErrCommandFailed, err), "command", cmd.Name)
	}

	outRelay.start()
	errRelay.start()

	if err := c.Wait(); err != nil {
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		return zerr.With(zerr.With(errors.Join(domain.ErrCommandFailed, err), "exit_code", exitCode), "command", cmd.Name)
	}

	return nil
}

// relay forwards one child stream to a writer line by line.
type relay struct {
	r   *os.File
	w   *os.File
	dst io.Writer
}

func newRelay(dst io.Writer) (*relay, error) {
	if dst == nil {
		return nil, nil
	}
	r, w, err := os.Pipe()
	if err != nil {
		return nil, err
	}
	return &relay{r: r, w: w, dst: dst}, nil
}

// start hands the write end to the child and drains the read end in the background.
// It must be called after the process has started.
func (rl *relay) start() {
	if rl == nil {
		return
	}
	// The child holds its own copy; closing ours lets the reader see EOF when the child exits.
	_ = rl.w.Close()

	go func() {
		defer rl.r.Close() //nolint:errcheck // read end, nothing to flush

		scanner := bufio.NewScanner(rl.r)
		scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
		for scanner.Scan() {
			text := scanner.Bytes()
			line := make([]byte, 0, len(text)+1)
			line = append(line, text...)
			line = append(line, '\n')
			_, _ = rl.dst.Write(line)
		}
		// An overlong line stops the scanner; keep draining so the child never blocks on a full pipe.
		_, _ = io.Copy(io.Discard, rl.r)
	}()
}

func (rl *relay) abort() {
	if rl == nil {
		return
	}
	_ = rl.w.Close()
	_ = rl.r.Close()
}
