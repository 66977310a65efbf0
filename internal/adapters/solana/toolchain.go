// Package solana drives the solana CLI and solana-test-validator through the executor.
package solana

import (
	"context"
	"errors"
	"io"
	"strings"

	"go.trai.ch/lumos/internal/core/domain"
	"go.trai.ch/lumos/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Toolchain = (*Toolchain)(nil)

// Toolchain implements ports.Toolchain.
//
// Subprocess output goes to the vertex carried by the context. Without one, stderr is logged
// as warnings and stdout is dropped.
type Toolchain struct {
	executor  ports.Executor
	logger    ports.Logger
	solana    string
	validator string
}

// NewToolchain creates a Toolchain invoking the given binaries. Empty names fall back to the defaults.
func NewToolchain(executor ports.Executor, logger ports.Logger, bins domain.Toolchain) *Toolchain {
	t := &Toolchain{
		executor:  executor,
		logger:    logger,
		solana:    bins.Solana,
		validator: bins.Validator,
	}
	if t.solana == "" {
		t.solana = domain.DefaultSolanaBinary
	}
	if t.validator == "" {
		t.validator = domain.DefaultValidatorBinary
	}
	return t
}

// FetchAccount runs `solana account <address> --output json --url <endpoint> --output-file <dest>`.
func (t *Toolchain) FetchAccount(ctx context.Context, req domain.FetchRequest) error {
	if _, err := domain.ParseAddress(req.Address); err != nil {
		return err
	}

	cmd := domain.NewCommand(t.solana,
		"account", req.Address,
		"--output", "json",
		"--url", req.Endpoint,
		"--output-file", req.Dest,
	)
	if err := t.run(ctx, cmd, req.Verbose); err != nil {
		return zerr.With(errors.Join(domain.ErrFetchFailed, err), "address", req.Address)
	}
	return nil
}

// FetchProgram runs `solana program dump <address> <dest> --url <endpoint>`.
func (t *Toolchain) FetchProgram(ctx context.Context, req domain.FetchRequest) error {
	if _, err := domain.ParseAddress(req.Address); err != nil {
		return err
	}

	cmd := domain.NewCommand(t.solana,
		"program", "dump", req.Address, req.Dest,
		"--url", req.Endpoint,
	)
	if err := t.run(ctx, cmd, req.Verbose); err != nil {
		return zerr.With(errors.Join(domain.ErrFetchFailed, err), "address", req.Address)
	}
	return nil
}

// StartValidator runs solana-test-validator with the plan's arguments and blocks until it exits.
func (t *Toolchain) StartValidator(ctx context.Context, plan domain.ValidatorPlan) error {
	cmd := domain.NewCommand(t.validator, plan.Args()...)
	if err := t.run(ctx, cmd, plan.Verbose); err != nil {
		return errors.Join(domain.ErrLaunchFailed, err)
	}
	return nil
}

func (t *Toolchain) run(ctx context.Context, cmd *domain.Command, verbose bool) error {
	var stdout, stderr io.Writer
	if v, ok := ports.VertexFromContext(ctx); ok {
		stderr = v.Stderr()
		if verbose {
			stdout = v.Stdout()
		}
	} else {
		stderr = &logWriter{logger: t.logger}
	}
	return t.executor.Execute(ctx, cmd, stdout, stderr)
}

type logWriter struct {
	logger ports.Logger
}

func (w *logWriter) Write(p []byte) (int, error) {
	for line := range strings.SplitSeq(strings.TrimRight(string(p), "\r\n"), "\n") {
		if line != "" {
			w.logger.Warn(line)
		}
	}
	return len(p), nil
}
