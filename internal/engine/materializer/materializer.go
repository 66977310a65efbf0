// Package materializer ensures every artifact of a model is present in the cache.
package materializer

import (
	"context"
	"fmt"

	"go.trai.ch/lumos/internal/core/domain"
	"go.trai.ch/lumos/internal/core/ports"
	"go.trai.ch/lumos/internal/engine/mint"
	"go.trai.ch/zerr"
)

// Options tune a single materialization run.
type Options struct {
	// Endpoint overrides Settings.Endpoint when set.
	Endpoint string
	// ForceUpdate refetches every artifact regardless of its own flag.
	ForceUpdate bool
	// Verbose relays toolchain output and reports patched authorities.
	Verbose bool
}

// Materializer walks a model and fetches whatever the cache is missing.
// It runs on a single goroutine and stops at the first failure.
type Materializer struct {
	cache     ports.ArtifactCache
	toolchain ports.Toolchain
	telemetry ports.Telemetry
	hasher    ports.Hasher
	logger    ports.Logger
}

// New creates a Materializer.
func New(
	cache ports.ArtifactCache,
	toolchain ports.Toolchain,
	telemetry ports.Telemetry,
	hasher ports.Hasher,
	logger ports.Logger,
) *Materializer {
	return &Materializer{
		cache:     cache,
		toolchain: toolchain,
		telemetry: telemetry,
		hasher:    hasher,
		logger:    logger,
	}
}

// step identifies one artifact of the run.
type step struct {
	index   int
	total   int
	kind    domain.ArtifactKind
	name    string
	address string
	force   bool
}

func (s step) String() string {
	return fmt.Sprintf("[%d/%d] %s %s %s", s.index, s.total, s.kind, s.name, s.address)
}

// Materialize fetches accounts, then programs, in declaration order.
func (m *Materializer) Materialize(ctx context.Context, model *domain.Model, opts Options) error {
	endpoint := opts.Endpoint
	if endpoint == "" {
		endpoint = model.Settings.Endpoint
	}
	if endpoint == "" {
		return zerr.Wrap(domain.ErrMissingEndpoint, "nothing to fetch from")
	}

	total := model.Total()
	index := 0

	for _, account := range model.Accounts {
		index++
		s := step{
			index:   index,
			total:   total,
			kind:    domain.KindAccount,
			name:    account.Name,
			address: account.Address,
			force:   account.ForceUpdate || opts.ForceUpdate,
		}
		authority := model.ReplacementAuthority(account)
		if account.ApplyMintPatch && authority == "" {
			return zerr.With(zerr.With(zerr.Wrap(domain.ErrMissingMintAuthority, "cannot patch account"),
				"name", account.Name), "address", account.Address)
		}

		err := m.run(ctx, s, func(ctx context.Context, vertex ports.Vertex) (bool, error) {
			return m.account(ctx, vertex, s, account.ApplyMintPatch, authority, endpoint, opts.Verbose)
		})
		if err != nil {
			return err
		}
	}

	for _, program := range model.Programs {
		index++
		s := step{
			index:   index,
			total:   total,
			kind:    domain.KindProgram,
			name:    program.Name,
			address: program.Address,
			force:   program.ForceUpdate || opts.ForceUpdate,
		}

		err := m.run(ctx, s, func(ctx context.Context, _ ports.Vertex) (bool, error) {
			return m.program(ctx, s, endpoint, opts.Verbose)
		})
		if err != nil {
			return err
		}
	}

	return ctx.Err()
}

// run wraps one step in a progress vertex. fn reports whether the step was a cache hit.
func (m *Materializer) run(
	ctx context.Context,
	s step,
	fn func(ctx context.Context, vertex ports.Vertex) (bool, error),
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	ctx, vertex := m.telemetry.Record(ctx, s.String())
	cached, err := fn(ctx, vertex)
	if err != nil {
		vertex.Complete(err)
		return zerr.With(zerr.With(zerr.Wrap(err, "failed to materialize "+string(s.kind)),
			"name", s.name), "address", s.address)
	}

	if cached {
		vertex.Cached()
	} else {
		vertex.Complete(nil)
	}
	return nil
}

func (m *Materializer) account(
	ctx context.Context,
	vertex ports.Vertex,
	s step,
	patch bool,
	authority, endpoint string,
	verbose bool,
) (bool, error) {
	if _, err := domain.ParseAddress(s.address); err != nil {
		return false, err
	}
	res, err := m.cache.Resolve(s.kind, s.address, s.force)
	if err != nil {
		return false, err
	}

	if res.Cached {
		if !patch {
			return true, nil
		}
		changed, err := m.patchInPlace(vertex, res.Path, authority, verbose)
		if err != nil {
			return false, err
		}
		if !changed {
			return true, nil
		}
		return false, m.record(s, true, false)
	}

	staged, err := m.cache.Stage(s.kind, s.address)
	if err != nil {
		return false, err
	}

	if err := m.toolchain.FetchAccount(ctx, domain.FetchRequest{
		Endpoint: endpoint,
		Address:  s.address,
		Dest:     staged,
		Verbose:  verbose,
	}); err != nil {
		m.cache.Discard(staged)
		return false, err
	}

	if patch {
		if _, err := m.patchInPlace(vertex, staged, authority, verbose); err != nil {
			m.cache.Discard(staged)
			return false, err
		}
	}

	if err := m.cache.Commit(s.kind, s.address, staged); err != nil {
		m.cache.Discard(staged)
		return false, err
	}
	return false, m.record(s, patch, true)
}

func (m *Materializer) program(ctx context.Context, s step, endpoint string, verbose bool) (bool, error) {
	if _, err := domain.ParseAddress(s.address); err != nil {
		return false, err
	}
	res, err := m.cache.Resolve(s.kind, s.address, s.force)
	if err != nil {
		return false, err
	}
	if res.Cached {
		return true, nil
	}

	staged, err := m.cache.Stage(s.kind, s.address)
	if err != nil {
		return false, err
	}

	if err := m.toolchain.FetchProgram(ctx, domain.FetchRequest{
		Endpoint: endpoint,
		Address:  s.address,
		Dest:     staged,
		Verbose:  verbose,
	}); err != nil {
		m.cache.Discard(staged)
		return false, err
	}

	if err := m.cache.Commit(s.kind, s.address, staged); err != nil {
		m.cache.Discard(staged)
		return false, err
	}
	return false, m.record(s, false, true)
}

// patchInPlace rewrites the mint authority of the snapshot at path.
// The file is only rewritten when its bytes change.
func (m *Materializer) patchInPlace(vertex ports.Vertex, path, authority string, verbose bool) (bool, error) {
	snapshot, err := m.cache.ReadSnapshot(path)
	if err != nil {
		return false, err
	}

	patched, patch, err := mint.ApplyAuthorityPatch(snapshot, authority)
	if err != nil {
		return false, err
	}

	if !patch.OptionSet {
		vertex.Log(domain.LogLevelWarn, "mint authority option is unset; the validator will treat the mint as fixed supply")
	}
	if verbose {
		vertex.Log(domain.LogLevelInfo, fmt.Sprintf("mint authority %s -> %s", patch.Previous, patch.Replacement))
	}
	if !patch.Changed {
		return false, nil
	}

	if err := m.cache.WriteSnapshot(path, patched); err != nil {
		return false, err
	}
	return true, nil
}

// record hashes the entry and stores its manifest record.
func (m *Materializer) record(s step, patched, fetched bool) error {
	path := m.cache.Path(s.kind, s.address)
	digest, err := m.hasher.HashFile(path)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to hash cache entry"), "path", path)
	}

	rec := domain.FetchRecord{
		Kind:    s.kind,
		Address: s.address,
		Digest:  digest,
		Patched: patched,
	}
	if !fetched {
		// Rewritten in place: the entry keeps its original fetch time.
		prev, err := m.cache.Lookup(s.kind, s.address)
		if err != nil {
			return err
		}
		if prev != nil {
			rec.FetchedAt = prev.FetchedAt
		}
	}
	if err := m.cache.Record(rec); err != nil {
		return err
	}

	m.logger.Debug(fmt.Sprintf("cached %s %s (%s)", s.kind, s.address, digest))
	return nil
}
