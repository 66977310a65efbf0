// Package app implements the application layer for lumos.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"go.trai.ch/lumos/internal/adapters/solana"
	"go.trai.ch/lumos/internal/core/domain"
	"go.trai.ch/lumos/internal/core/ports"
	"go.trai.ch/lumos/internal/engine/launcher"
	"go.trai.ch/lumos/internal/engine/materializer"
	"go.trai.ch/zerr"
)

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	executor     ports.Executor
	logger       ports.Logger
	opener       ports.CacheOpener
	hasher       ports.Hasher
	prober       ports.PortProber
	telemetry    ports.Telemetry
	out          io.Writer
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	executor ports.Executor,
	log ports.Logger,
	opener ports.CacheOpener,
	hasher ports.Hasher,
	prober ports.PortProber,
	telemetry ports.Telemetry,
) *App {
	return &App{
		configLoader: loader,
		executor:     executor,
		logger:       log,
		opener:       opener,
		hasher:       hasher,
		prober:       prober,
		telemetry:    telemetry,
		out:          os.Stdout,
	}
}

// WithOutput redirects listings and reports to w.
func (a *App) WithOutput(w io.Writer) *App {
	a.out = w
	return a
}

// CloneOptions configuration for the Clone method.
type CloneOptions struct {
	ConfigPath string
	Endpoint   string
	Force      bool
	Verbose    bool
}

// Clone materializes every configured artifact into the cache.
func (a *App) Clone(ctx context.Context, opts CloneOptions) error {
	a.logger.SetVerbose(opts.Verbose)

	model, err := a.load(opts.ConfigPath)
	if err != nil {
		return err
	}

	cache, err := a.opener.Open(model.Settings.CacheDir)
	if err != nil {
		return zerr.Wrap(err, "failed to open cache")
	}

	mat := a.newMaterializer(cache, model)
	if err := mat.Materialize(ctx, model, materializer.Options{
		Endpoint:    opts.Endpoint,
		ForceUpdate: opts.Force,
		Verbose:     opts.Verbose,
	}); err != nil {
		return zerr.Wrap(err, "clone failed")
	}

	a.logger.Info(fmt.Sprintf("%d artifact(s) ready in %s", model.Total(), cache.Root()))
	return nil
}

// RunOptions configuration for the Run method.
type RunOptions struct {
	ConfigPath string
	Endpoint   string
	Force      bool
	Verbose    bool
	Reset      bool
}

// Run materializes outstanding artifacts and runs the local validator until it exits.
func (a *App) Run(ctx context.Context, opts RunOptions) error {
	a.logger.SetVerbose(opts.Verbose)

	model, err := a.load(opts.ConfigPath)
	if err != nil {
		return err
	}

	cache, err := a.opener.Open(model.Settings.CacheDir)
	if err != nil {
		return zerr.Wrap(err, "failed to open cache")
	}

	toolchain := solana.NewToolchain(a.executor, a.logger, model.Toolchain)
	mat := materializer.New(cache, toolchain, a.telemetry, a.hasher, a.logger)
	l := launcher.New(a.prober, toolchain, cache, mat, a.telemetry, a.logger)

	err = l.Run(ctx, model, launcher.Options{
		Endpoint:    opts.Endpoint,
		Reset:       opts.Reset,
		ForceUpdate: opts.Force,
		Verbose:     opts.Verbose,
	})
	if err != nil {
		if ctx.Err() != nil && errors.Is(err, domain.ErrLaunchFailed) {
			// Interrupted by the user.
			return nil
		}
		return zerr.Wrap(err, "run failed")
	}
	return nil
}

func (a *App) load(path string) (*domain.Model, error) {
	if path == "" {
		path = domain.DefaultConfigFile
	}
	model, err := a.configLoader.Load(path)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load configuration")
	}
	return model, nil
}

func (a *App) newMaterializer(cache ports.ArtifactCache, model *domain.Model) *materializer.Materializer {
	toolchain := solana.NewToolchain(a.executor, a.logger, model.Toolchain)
	return materializer.New(cache, toolchain, a.telemetry, a.hasher, a.logger)
}
