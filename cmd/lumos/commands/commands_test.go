package commands_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/lumos/cmd/lumos/commands"
	"go.trai.ch/lumos/internal/app"
	"go.trai.ch/lumos/internal/build"
	"go.trai.ch/lumos/internal/core/domain"
)

type mockApp struct {
	cloneFunc      func(ctx context.Context, opts app.CloneOptions) error
	runFunc        func(ctx context.Context, opts app.RunOptions) error
	cacheListFunc  func(ctx context.Context, opts app.CacheListOptions) error
	cacheCleanFunc func(ctx context.Context, opts app.CacheCleanOptions) error
	inspectFunc    func(ctx context.Context, opts app.InspectOptions) error
}

func (m *mockApp) Clone(ctx context.Context, opts app.CloneOptions) error {
	if m.cloneFunc != nil {
		return m.cloneFunc(ctx, opts)
	}
	return nil
}

func (m *mockApp) Run(ctx context.Context, opts app.RunOptions) error {
	if m.runFunc != nil {
		return m.runFunc(ctx, opts)
	}
	return nil
}

func (m *mockApp) CacheList(ctx context.Context, opts app.CacheListOptions) error {
	if m.cacheListFunc != nil {
		return m.cacheListFunc(ctx, opts)
	}
	return nil
}

func (m *mockApp) CacheClean(ctx context.Context, opts app.CacheCleanOptions) error {
	if m.cacheCleanFunc != nil {
		return m.cacheCleanFunc(ctx, opts)
	}
	return nil
}

func (m *mockApp) Inspect(ctx context.Context, opts app.InspectOptions) error {
	if m.inspectFunc != nil {
		return m.inspectFunc(ctx, opts)
	}
	return nil
}

func execute(t *testing.T, a commands.Application, args ...string) (string, error) {
	t.Helper()
	cli := commands.New(a)
	buf := new(bytes.Buffer)
	cli.SetOutput(buf, buf)
	cli.SetArgs(args)
	err := cli.Execute(context.Background())
	return buf.String(), err
}

func TestCommands_Clone(t *testing.T) {
	t.Setenv(domain.ConfigEnvKey, "")

	t.Run("wires flags correctly", func(t *testing.T) {
		var captured app.CloneOptions
		mock := &mockApp{cloneFunc: func(_ context.Context, opts app.CloneOptions) error {
			captured = opts
			return nil
		}}

		_, err := execute(t, mock, "clone", "-c", "net.yaml", "--url", "http://localhost:8899", "-f", "-v")
		require.NoError(t, err)
		assert.Equal(t, app.CloneOptions{
			ConfigPath: "net.yaml",
			Endpoint:   "http://localhost:8899",
			Force:      true,
			Verbose:    true,
		}, captured)
	})

	t.Run("defaults", func(t *testing.T) {
		var captured app.CloneOptions
		mock := &mockApp{cloneFunc: func(_ context.Context, opts app.CloneOptions) error {
			captured = opts
			return nil
		}}

		_, err := execute(t, mock, "c")
		require.NoError(t, err)
		assert.Equal(t, domain.DefaultConfigFile, captured.ConfigPath)
		assert.Empty(t, captured.Endpoint)
		assert.False(t, captured.Force)
	})

	t.Run("returns error on failure", func(t *testing.T) {
		mock := &mockApp{cloneFunc: func(_ context.Context, _ app.CloneOptions) error {
			return errors.New("simulated error")
		}}

		_, err := execute(t, mock, "clone")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "simulated error")
	})
}

func TestCommands_ConfigFromEnv(t *testing.T) {
	t.Setenv(domain.ConfigEnvKey, "from-env.yaml")

	var captured app.CloneOptions
	mock := &mockApp{cloneFunc: func(_ context.Context, opts app.CloneOptions) error {
		captured = opts
		return nil
	}}

	_, err := execute(t, mock, "clone")
	require.NoError(t, err)
	assert.Equal(t, "from-env.yaml", captured.ConfigPath)

	_, err = execute(t, mock, "clone", "--config", "flag.yaml")
	require.NoError(t, err)
	assert.Equal(t, "flag.yaml", captured.ConfigPath)
}

func TestCommands_Run(t *testing.T) {
	var captured app.RunOptions
	mock := &mockApp{runFunc: func(_ context.Context, opts app.RunOptions) error {
		captured = opts
		return nil
	}}

	_, err := execute(t, mock, "run", "--reset", "--force", "-u", "http://localhost:8899")
	require.NoError(t, err)
	assert.True(t, captured.Reset)
	assert.True(t, captured.Force)
	assert.False(t, captured.Verbose)
	assert.Equal(t, "http://localhost:8899", captured.Endpoint)

	_, err = execute(t, mock, "r")
	require.NoError(t, err)
	assert.False(t, captured.Reset)
}

func TestCommands_RunRejectsArgs(t *testing.T) {
	_, err := execute(t, &mockApp{}, "run", "extra")
	require.Error(t, err)
}

func TestCommands_Cache(t *testing.T) {
	t.Run("ls", func(t *testing.T) {
		called := false
		mock := &mockApp{cacheListFunc: func(_ context.Context, _ app.CacheListOptions) error {
			called = true
			return nil
		}}

		_, err := execute(t, mock, "cache", "ls")
		require.NoError(t, err)
		assert.True(t, called)
	})

	t.Run("clean all", func(t *testing.T) {
		var captured app.CacheCleanOptions
		mock := &mockApp{cacheCleanFunc: func(_ context.Context, opts app.CacheCleanOptions) error {
			captured = opts
			return nil
		}}

		_, err := execute(t, mock, "cache", "clean")
		require.NoError(t, err)
		assert.Empty(t, captured.Kinds)
	})

	t.Run("clean programs", func(t *testing.T) {
		var captured app.CacheCleanOptions
		mock := &mockApp{cacheCleanFunc: func(_ context.Context, opts app.CacheCleanOptions) error {
			captured = opts
			return nil
		}}

		_, err := execute(t, mock, "cache", "clean", "programs")
		require.NoError(t, err)
		assert.Equal(t, []domain.ArtifactKind{domain.KindProgram}, captured.Kinds)
	})

	t.Run("clean unknown kind", func(t *testing.T) {
		mock := &mockApp{cacheCleanFunc: func(_ context.Context, _ app.CacheCleanOptions) error {
			panic("should not be called")
		}}

		_, err := execute(t, mock, "cache", "clean", "ledgers")
		require.Error(t, err)
	})

	t.Run("shows usage without subcommand", func(t *testing.T) {
		out, err := execute(t, &mockApp{}, "cache")
		require.NoError(t, err)
		assert.Contains(t, out, "Usage:")
	})
}

func TestCommands_Inspect(t *testing.T) {
	var captured app.InspectOptions
	mock := &mockApp{inspectFunc: func(_ context.Context, opts app.InspectOptions) error {
		captured = opts
		return nil
	}}

	_, err := execute(t, mock, "inspect", "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v")
	require.NoError(t, err)
	assert.Equal(t, "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v", captured.Address)

	_, err = execute(t, mock, "inspect")
	require.Error(t, err)
}

func TestCommands_Version(t *testing.T) {
	out, err := execute(t, &mockApp{}, "version")
	require.NoError(t, err)
	assert.Contains(t, out, build.Version)

	out, err = execute(t, &mockApp{}, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, build.Version)
}
