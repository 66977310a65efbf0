package launcher_test

import (
	"context"
	"encoding/base64"
	"errors"
	"io"
	"net"
	"os"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vito/progrock"
	"go.trai.ch/lumos/internal/adapters/cas"
	"go.trai.ch/lumos/internal/adapters/fs"
	"go.trai.ch/lumos/internal/adapters/logger"
	"go.trai.ch/lumos/internal/adapters/netprobe"
	lumosprogrock "go.trai.ch/lumos/internal/adapters/telemetry/progrock"
	"go.trai.ch/lumos/internal/core/domain"
	"go.trai.ch/lumos/internal/core/ports"
	"go.trai.ch/lumos/internal/core/ports/mocks"
	"go.trai.ch/lumos/internal/engine/launcher"
	"go.trai.ch/lumos/internal/engine/materializer"
	"go.uber.org/mock/gomock"
)

const (
	endpoint  = "https://api.mainnet-beta.solana.com"
	usdcMint  = "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"
	metadata  = "metaqbxxUerdq28cj1RbAWkYQm3ybzjb6a8bt518x1s"
	token     = "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA"
	authority = "9WzDXwBbmkg8ZTbNMqUxvQRAyrZzDsGYdLVL9zYtAWWM"
)

type env struct {
	cache     *cas.Store
	toolchain *mocks.MockToolchain
	launcher  *launcher.Launcher
}

func newEnv(t *testing.T, prober ports.PortProber) *env {
	t.Helper()
	ctrl := gomock.NewController(t)

	cache, err := cas.NewStore(t.TempDir())
	require.NoError(t, err)

	log := logger.NewWithWriter(io.Discard)
	telemetry := lumosprogrock.NewRecorder(progrock.NewTape(), nil)
	toolchain := mocks.NewMockToolchain(ctrl)
	mat := materializer.New(cache, toolchain, telemetry, fs.NewHasher(), log)

	return &env{
		cache:     cache,
		toolchain: toolchain,
		launcher:  launcher.New(prober, toolchain, cache, mat, telemetry, log),
	}
}

func allFree(t *testing.T) ports.PortProber {
	t.Helper()
	prober := mocks.NewMockPortProber(gomock.NewController(t))
	prober.EXPECT().Available(gomock.Any()).Return(true).AnyTimes()
	return prober
}

func commitProgram(t *testing.T, cache *cas.Store, address string) {
	t.Helper()
	staged, err := cache.Stage(domain.KindProgram, address)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(staged, []byte("\x7fELF"), 0o600))
	require.NoError(t, cache.Commit(domain.KindProgram, address, staged))
}

func model() *domain.Model {
	return &domain.Model{
		Settings: domain.Settings{Endpoint: endpoint, LedgerDir: "ledger"},
	}
}

func TestPlan_DefaultPorts(t *testing.T) {
	ctrl := gomock.NewController(t)
	prober := mocks.NewMockPortProber(ctrl)
	prober.EXPECT().Available(domain.DefaultRPCPort).Return(true)
	prober.EXPECT().Available(domain.DefaultFaucetPort).Return(true)

	e := newEnv(t, prober)
	plan, err := e.launcher.Plan(model(), launcher.Options{})
	require.NoError(t, err)

	assert.Equal(t, domain.DefaultRPCPort, plan.RPCPort)
	assert.Equal(t, domain.DefaultFaucetPort, plan.FaucetPort)
	assert.Equal(t, endpoint, plan.Endpoint)
	assert.Equal(t, "ledger", plan.LedgerDir)
	assert.Equal(t, e.cache.Dir(domain.KindAccount), plan.AccountDir)
	assert.Empty(t, plan.Programs)
}

func TestPlan_FallbackWithoutSecondProbe(t *testing.T) {
	ctrl := gomock.NewController(t)
	prober := mocks.NewMockPortProber(ctrl)
	// Fallback ports are never probed; any call for them fails the test.
	prober.EXPECT().Available(domain.DefaultRPCPort).Return(false)
	prober.EXPECT().Available(domain.DefaultFaucetPort).Return(true)

	e := newEnv(t, prober)
	plan, err := e.launcher.Plan(model(), launcher.Options{})
	require.NoError(t, err)

	assert.Equal(t, domain.FallbackRPCPort, plan.RPCPort)
	assert.Equal(t, domain.DefaultFaucetPort, plan.FaucetPort)
}

func TestPlan_FaucetFallbackIndependent(t *testing.T) {
	ctrl := gomock.NewController(t)
	prober := mocks.NewMockPortProber(ctrl)
	prober.EXPECT().Available(domain.DefaultRPCPort).Return(true)
	prober.EXPECT().Available(domain.DefaultFaucetPort).Return(false)

	e := newEnv(t, prober)
	plan, err := e.launcher.Plan(model(), launcher.Options{})
	require.NoError(t, err)

	assert.Equal(t, domain.DefaultRPCPort, plan.RPCPort)
	assert.Equal(t, domain.FallbackFaucetPort, plan.FaucetPort)
}

func freePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "0.0.0.0:0")
	require.NoError(t, err)
	port := l.Addr().(*net.TCPAddr).Port
	require.NoError(t, l.Close())
	return port
}

// bindPair holds two adjacent ports until the test ends.
func bindPair(t *testing.T) int {
	t.Helper()
	for range 20 {
		first, err := net.Listen("tcp", "0.0.0.0:0")
		require.NoError(t, err)
		port := first.Addr().(*net.TCPAddr).Port

		second, err := net.Listen("tcp", net.JoinHostPort("0.0.0.0", strconv.Itoa(port+1)))
		if err != nil {
			_ = first.Close()
			continue
		}
		t.Cleanup(func() {
			_ = first.Close()
			_ = second.Close()
		})
		return port
	}
	t.Fatal("no adjacent free ports")
	return 0
}

func TestPlan_RealListener(t *testing.T) {
	taken, err := net.Listen("tcp", "0.0.0.0:0")
	require.NoError(t, err)
	defer func() { _ = taken.Close() }()
	takenPort := taken.Addr().(*net.TCPAddr).Port
	faucet := freePort(t)

	e := newEnv(t, netprobe.New())
	plan, err := e.launcher.Plan(model(), launcher.Options{Ports: launcher.Ports{
		RPC:            takenPort,
		FallbackRPC:    takenPort + 1,
		Faucet:         faucet,
		FallbackFaucet: faucet + 1,
	}})
	require.NoError(t, err)

	assert.Equal(t, takenPort+1, plan.RPCPort)
	assert.Equal(t, faucet, plan.FaucetPort)
}

func TestPlan_FallbackChosenWhenAlsoBound(t *testing.T) {
	rpc := bindPair(t)
	faucet := bindPair(t)

	e := newEnv(t, netprobe.New())
	plan, err := e.launcher.Plan(model(), launcher.Options{Ports: launcher.Ports{
		RPC:            rpc,
		FallbackRPC:    rpc + 1,
		Faucet:         faucet,
		FallbackFaucet: faucet + 1,
	}})
	require.NoError(t, err)

	// Both candidates are bound; the fallback is used without a second probe.
	assert.Equal(t, rpc+1, plan.RPCPort)
	assert.Equal(t, faucet+1, plan.FaucetPort)
}

func TestPlan_InvalidProgramAddress(t *testing.T) {
	e := newEnv(t, allFree(t))

	m := model()
	m.Programs = []domain.DesiredProgram{{Name: "bad", Address: "../../outside"}}

	_, err := e.launcher.Plan(m, launcher.Options{})
	require.ErrorIs(t, err, domain.ErrInvalidAddress)
}

func TestPlan_Programs(t *testing.T) {
	e := newEnv(t, allFree(t))
	commitProgram(t, e.cache, metadata)
	commitProgram(t, e.cache, token)

	m := model()
	m.Programs = []domain.DesiredProgram{
		{Name: "metadata", Address: metadata, UpgradeAuthority: authority},
		{Name: "missing", Address: "11111111111111111111111111111111"},
		{Name: "token", Address: token},
	}

	plan, err := e.launcher.Plan(m, launcher.Options{Reset: true})
	require.NoError(t, err)

	require.Len(t, plan.Programs, 2)
	assert.Equal(t, []string{"--upgradeable-program", metadata, e.cache.Path(domain.KindProgram, metadata), authority},
		plan.Programs[0].Args())
	assert.Equal(t, []string{"--bpf-program", token, e.cache.Path(domain.KindProgram, token)},
		plan.Programs[1].Args())

	args := plan.Args()
	assert.Equal(t, "--reset", args[len(args)-1])
	assert.NotContains(t, args, "11111111111111111111111111111111")
}

func TestPlan_EndpointOverride(t *testing.T) {
	e := newEnv(t, allFree(t))

	plan, err := e.launcher.Plan(model(), launcher.Options{Endpoint: "http://localhost:8899"})
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8899", plan.Endpoint)
}

func TestPlan_MissingEndpoint(t *testing.T) {
	e := newEnv(t, allFree(t))

	_, err := e.launcher.Plan(&domain.Model{}, launcher.Options{})
	require.ErrorIs(t, err, domain.ErrMissingEndpoint)
}

func TestLaunch_Failure(t *testing.T) {
	e := newEnv(t, allFree(t))
	e.toolchain.EXPECT().StartValidator(gomock.Any(), gomock.Any()).
		Return(errors.Join(domain.ErrLaunchFailed, errors.New("exit status 1")))

	plan, err := e.launcher.Plan(model(), launcher.Options{})
	require.NoError(t, err)

	err = e.launcher.Launch(context.Background(), plan)
	require.ErrorIs(t, err, domain.ErrLaunchFailed)
	assert.DirExists(t, plan.AccountDir)
}

func TestRun_EndToEnd(t *testing.T) {
	e := newEnv(t, allFree(t))

	m := model()
	m.Accounts = []domain.DesiredAccount{{Name: "usdc", Address: usdcMint}}
	m.Programs = []domain.DesiredProgram{{Name: "token", Address: token}}

	snapshot := &domain.AccountSnapshot{
		Pubkey: usdcMint,
		Account: domain.AccountData{
			Lamports: 1,
			Data:     []string{base64.StdEncoding.EncodeToString(make([]byte, 82)), domain.EncodingBase64},
			Owner:    token,
		},
	}
	body, err := snapshot.Marshal()
	require.NoError(t, err)

	e.toolchain.EXPECT().FetchAccount(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, req domain.FetchRequest) error {
			return os.WriteFile(req.Dest, body, 0o600)
		}).Times(1)
	e.toolchain.EXPECT().FetchProgram(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, req domain.FetchRequest) error {
			return os.WriteFile(req.Dest, []byte("\x7fELF"), 0o600)
		}).Times(1)

	var launched domain.ValidatorPlan
	e.toolchain.EXPECT().StartValidator(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, plan domain.ValidatorPlan) error {
			launched = plan
			return nil
		})

	require.NoError(t, e.launcher.Run(context.Background(), m, launcher.Options{}))

	assert.FileExists(t, e.cache.Path(domain.KindAccount, usdcMint))
	assert.FileExists(t, e.cache.Path(domain.KindProgram, token))

	entries, err := e.cache.List()
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	args := launched.Args()
	bpf := 0
	for i, arg := range args {
		if arg == "--bpf-program" {
			bpf++
			assert.Equal(t, token, args[i+1])
			assert.Equal(t, e.cache.Path(domain.KindProgram, token), args[i+2])
		}
	}
	assert.Equal(t, 1, bpf)
	assert.NotContains(t, args, "--upgradeable-program")
}

func TestRun_MaterializeFailureSkipsLaunch(t *testing.T) {
	e := newEnv(t, allFree(t))

	m := model()
	m.Programs = []domain.DesiredProgram{{Name: "token", Address: token}}

	e.toolchain.EXPECT().FetchProgram(gomock.Any(), gomock.Any()).
		Return(errors.Join(domain.ErrFetchFailed, errors.New("exit status 1")))

	err := e.launcher.Run(context.Background(), m, launcher.Options{})
	require.ErrorIs(t, err, domain.ErrFetchFailed)
}
