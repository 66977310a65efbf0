// Package launcher negotiates ports, assembles the validator invocation and runs it.
package launcher

import (
	"context"
	"errors"
	"fmt"
	"os"

	"go.trai.ch/lumos/internal/core/domain"
	"go.trai.ch/lumos/internal/core/ports"
	"go.trai.ch/lumos/internal/engine/materializer"
	"go.trai.ch/zerr"
)

// Ports lists the preferred and fallback ports of the validator services.
type Ports struct {
	RPC            int
	FallbackRPC    int
	Faucet         int
	FallbackFaucet int
}

// DefaultPorts returns the solana-test-validator defaults and their fallbacks.
func DefaultPorts() Ports {
	return Ports{
		RPC:            domain.DefaultRPCPort,
		FallbackRPC:    domain.FallbackRPCPort,
		Faucet:         domain.DefaultFaucetPort,
		FallbackFaucet: domain.FallbackFaucetPort,
	}
}

// Options tune one launch.
type Options struct {
	// Endpoint overrides Settings.Endpoint when set.
	Endpoint string
	// Reset wipes the validator ledger on start.
	Reset bool
	// ForceUpdate refetches every artifact before launching.
	ForceUpdate bool
	// Verbose relays fetch and validator output.
	Verbose bool
	// Ports overrides DefaultPorts when non-zero.
	Ports Ports
}

// Launcher starts a local validator seeded from the artifact cache.
type Launcher struct {
	prober       ports.PortProber
	toolchain    ports.Toolchain
	cache        ports.ArtifactCache
	materializer *materializer.Materializer
	telemetry    ports.Telemetry
	logger       ports.Logger
}

// New creates a Launcher.
func New(
	prober ports.PortProber,
	toolchain ports.Toolchain,
	cache ports.ArtifactCache,
	mat *materializer.Materializer,
	telemetry ports.Telemetry,
	logger ports.Logger,
) *Launcher {
	return &Launcher{
		prober:       prober,
		toolchain:    toolchain,
		cache:        cache,
		materializer: mat,
		telemetry:    telemetry,
		logger:       logger,
	}
}

// Run materializes outstanding artifacts, plans the invocation and blocks until the validator exits.
func (l *Launcher) Run(ctx context.Context, model *domain.Model, opts Options) error {
	if err := l.materializer.Materialize(ctx, model, materializer.Options{
		Endpoint:    opts.Endpoint,
		ForceUpdate: opts.ForceUpdate,
		Verbose:     opts.Verbose,
	}); err != nil {
		return err
	}

	plan, err := l.Plan(model, opts)
	if err != nil {
		return err
	}
	return l.Launch(ctx, plan)
}

// Plan builds the validator invocation from the model and the current cache content.
// Programs without a cache entry are skipped.
func (l *Launcher) Plan(model *domain.Model, opts Options) (domain.ValidatorPlan, error) {
	endpoint := opts.Endpoint
	if endpoint == "" {
		endpoint = model.Settings.Endpoint
	}
	if endpoint == "" {
		return domain.ValidatorPlan{}, zerr.Wrap(domain.ErrMissingEndpoint, "cannot plan validator")
	}

	p := opts.Ports
	if p == (Ports{}) {
		p = DefaultPorts()
	}

	ledger := model.Settings.LedgerDir
	if ledger == "" {
		ledger = domain.DefaultLedgerDir
	}

	plan := domain.ValidatorPlan{
		Endpoint:   endpoint,
		LedgerDir:  ledger,
		AccountDir: l.cache.Dir(domain.KindAccount),
		RPCPort:    l.negotiate("rpc", p.RPC, p.FallbackRPC),
		FaucetPort: l.negotiate("faucet", p.Faucet, p.FallbackFaucet),
		Reset:      opts.Reset,
		Verbose:    opts.Verbose,
	}

	for _, program := range model.Programs {
		if _, err := domain.ParseAddress(program.Address); err != nil {
			return domain.ValidatorPlan{}, zerr.With(err, "name", program.Name)
		}
		if !l.cache.Exists(domain.KindProgram, program.Address) {
			l.logger.Debug(fmt.Sprintf("program %s (%s) is not cached, skipping", program.Name, program.Address))
			continue
		}

		flag := domain.ProgramFlag{
			Address: program.Address,
			Path:    l.cache.Path(domain.KindProgram, program.Address),
		}
		if program.Upgradeable() {
			flag.Authority = program.UpgradeAuthority
		}
		plan.Programs = append(plan.Programs, flag)
	}

	return plan, nil
}

// negotiate returns preferred when it can be bound, fallback otherwise.
// The fallback is not probed.
func (l *Launcher) negotiate(service string, preferred, fallback int) int {
	if l.prober.Available(preferred) {
		return preferred
	}
	l.logger.Warn(fmt.Sprintf("%s port %d is in use, using %d", service, preferred, fallback))
	return fallback
}

// Launch starts the validator and blocks until it exits.
func (l *Launcher) Launch(ctx context.Context, plan domain.ValidatorPlan) error {
	if err := os.MkdirAll(plan.AccountDir, domain.DirPerm); err != nil {
		return zerr.With(errors.Join(domain.ErrCacheIO, err), "path", plan.AccountDir)
	}

	l.logger.Info(fmt.Sprintf("starting validator: rpc port %d, faucet port %d, %d program(s)",
		plan.RPCPort, plan.FaucetPort, len(plan.Programs)))

	ctx, vertex := l.telemetry.Record(ctx, fmt.Sprintf("validator :%d", plan.RPCPort))
	err := l.toolchain.StartValidator(ctx, plan)
	vertex.Complete(err)
	if err != nil {
		return zerr.With(zerr.With(zerr.Wrap(err, "validator exited"), "rpc_port", plan.RPCPort), "faucet_port", plan.FaucetPort)
	}
	return nil
}
