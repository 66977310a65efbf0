package cas_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/lumos/internal/adapters/cas"
	"go.trai.ch/lumos/internal/core/domain"
)

const (
	mintAddr    = "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"
	programAddr = "metaqbxxUerdq28cj1RbAWkYQm3ybzjb6a8bt518x1s"
)

func newStore(t *testing.T) *cas.Store {
	t.Helper()
	store, err := cas.NewStore(filepath.Join(t.TempDir(), ".lumos-cache"))
	require.NoError(t, err)
	return store
}

func stageAndCommit(t *testing.T, store *cas.Store, kind domain.ArtifactKind, address string, content []byte) {
	t.Helper()
	staged, err := store.Stage(kind, address)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(staged, content, 0o600))
	require.NoError(t, store.Commit(kind, address, staged))
}

func TestStore_Layout(t *testing.T) {
	root := filepath.Join(t.TempDir(), "cache")
	store, err := cas.NewStore(root)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(root, "accounts"), store.Dir(domain.KindAccount))
	assert.Equal(t, filepath.Join(root, "accounts", mintAddr+".json"), store.Path(domain.KindAccount, mintAddr))
	assert.Equal(t, filepath.Join(root, "programs", programAddr+".so"), store.Path(domain.KindProgram, programAddr))
}

func TestStore_DefaultRoot(t *testing.T) {
	t.Chdir(t.TempDir())

	store, err := cas.NewStore("")
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultCacheDir, store.Root())
}

func TestStore_Resolve(t *testing.T) {
	store := newStore(t)

	res, err := store.Resolve(domain.KindAccount, mintAddr, false)
	require.NoError(t, err)
	assert.False(t, res.Cached)
	assert.Equal(t, store.Path(domain.KindAccount, mintAddr), res.Path)
	assert.DirExists(t, store.Dir(domain.KindAccount))

	stageAndCommit(t, store, domain.KindAccount, mintAddr, []byte("{}"))

	res, err = store.Resolve(domain.KindAccount, mintAddr, false)
	require.NoError(t, err)
	assert.True(t, res.Cached)

	res, err = store.Resolve(domain.KindAccount, mintAddr, true)
	require.NoError(t, err)
	assert.False(t, res.Cached, "forced resolution must ask for a fetch")
}

func TestStore_RejectsMalformedAddress(t *testing.T) {
	store := newStore(t)
	const address = "../../outside"

	outside := store.Path(domain.KindAccount, address)
	require.NoError(t, os.MkdirAll(filepath.Dir(outside), 0o750))
	require.NoError(t, os.WriteFile(outside, []byte("{}"), 0o600))

	_, err := store.Resolve(domain.KindAccount, address, false)
	require.ErrorIs(t, err, domain.ErrInvalidAddress)

	_, err = store.Stage(domain.KindAccount, address)
	require.ErrorIs(t, err, domain.ErrInvalidAddress)

	err = store.Commit(domain.KindAccount, address, outside)
	require.ErrorIs(t, err, domain.ErrInvalidAddress)
	assert.FileExists(t, outside)
}

func TestStore_ResolveCacheIOError(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "programs"), []byte("not a directory"), 0o600))

	store, err := cas.NewStore(root)
	require.NoError(t, err)

	_, err = store.Resolve(domain.KindProgram, programAddr, false)
	require.ErrorIs(t, err, domain.ErrCacheIO)
}

func TestStore_StageRemovesLeftovers(t *testing.T) {
	store := newStore(t)

	staged, err := store.Stage(domain.KindProgram, programAddr)
	require.NoError(t, err)
	assert.Equal(t, "."+programAddr+".so.partial", filepath.Base(staged))
	require.NoError(t, os.WriteFile(staged, []byte("stale"), 0o600))

	again, err := store.Stage(domain.KindProgram, programAddr)
	require.NoError(t, err)
	assert.Equal(t, staged, again)
	assert.NoFileExists(t, again)
}

func TestStore_CommitAndDiscard(t *testing.T) {
	store := newStore(t)

	err := store.Commit(domain.KindProgram, programAddr, filepath.Join(store.Dir(domain.KindProgram), "missing"))
	require.ErrorIs(t, err, domain.ErrCacheIO)
	assert.False(t, store.Exists(domain.KindProgram, programAddr))

	staged, err := store.Stage(domain.KindProgram, programAddr)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(staged, []byte("partial"), 0o600))
	store.Discard(staged)
	assert.NoFileExists(t, staged)
	assert.False(t, store.Exists(domain.KindProgram, programAddr))

	stageAndCommit(t, store, domain.KindProgram, programAddr, []byte{0x7f, 'E', 'L', 'F'})
	assert.True(t, store.Exists(domain.KindProgram, programAddr))
	got, err := os.ReadFile(store.Path(domain.KindProgram, programAddr))
	require.NoError(t, err)
	assert.Equal(t, []byte{0x7f, 'E', 'L', 'F'}, got)
}

func TestStore_SnapshotRoundTrip(t *testing.T) {
	store := newStore(t)
	_, err := store.Resolve(domain.KindAccount, mintAddr, false)
	require.NoError(t, err)

	snap := &domain.AccountSnapshot{
		Pubkey: mintAddr,
		Account: domain.AccountData{
			Lamports:  1461600,
			Data:      []string{"AQAAAA==", "base64"},
			Owner:     "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA",
			RentEpoch: 18446744073709551615,
			Space:     4,
		},
	}

	path := store.Path(domain.KindAccount, mintAddr)
	require.NoError(t, store.WriteSnapshot(path, snap))

	got, err := store.ReadSnapshot(path)
	require.NoError(t, err)
	assert.Equal(t, snap, got)

	entries, err := os.ReadDir(store.Dir(domain.KindAccount))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files must not be left behind")
}

func TestStore_ReadSnapshotErrors(t *testing.T) {
	store := newStore(t)

	_, err := store.ReadSnapshot(filepath.Join(store.Root(), "missing.json"))
	require.ErrorIs(t, err, domain.ErrCacheIO)

	stageAndCommit(t, store, domain.KindAccount, mintAddr, []byte("not json"))
	_, err = store.ReadSnapshot(store.Path(domain.KindAccount, mintAddr))
	require.ErrorIs(t, err, domain.ErrSnapshotDecode)
}

func TestStore_ListAndClean(t *testing.T) {
	store := newStore(t)

	stageAndCommit(t, store, domain.KindProgram, programAddr, []byte("elf"))
	stageAndCommit(t, store, domain.KindAccount, mintAddr, []byte("{}"))
	stageAndCommit(t, store, domain.KindAccount, "11111111111111111111111111111111", []byte("{}"))
	_, err := store.Stage(domain.KindAccount, "So11111111111111111111111111111111111111112")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(
		filepath.Join(store.Dir(domain.KindAccount), ".So11111111111111111111111111111111111111112.json.partial"),
		[]byte("x"), 0o600))

	require.NoError(t, store.Record(domain.FetchRecord{Kind: domain.KindProgram, Address: programAddr, Digest: "abc"}))

	entries, err := store.List()
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "11111111111111111111111111111111", entries[0].Address)
	assert.Equal(t, mintAddr, entries[1].Address)
	assert.Equal(t, domain.KindProgram, entries[2].Kind)
	assert.Equal(t, int64(3), entries[2].Size)
	assert.Equal(t, "abc", entries[2].Digest)

	require.NoError(t, store.Clean([]domain.ArtifactKind{domain.KindProgram}))
	assert.NoDirExists(t, store.Dir(domain.KindProgram))
	assert.True(t, store.Exists(domain.KindAccount, mintAddr))

	rec, err := store.Lookup(domain.KindProgram, programAddr)
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestStore_RecordFillsSizeAndTime(t *testing.T) {
	store := newStore(t)
	stageAndCommit(t, store, domain.KindProgram, programAddr, []byte("elf-bytes"))

	require.NoError(t, store.Record(domain.FetchRecord{Kind: domain.KindProgram, Address: programAddr, Digest: "d1"}))

	rec, err := store.Lookup(domain.KindProgram, programAddr)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, int64(9), rec.Size)
	assert.False(t, rec.FetchedAt.IsZero())
	assert.Equal(t, "d1", rec.Digest)
}

func TestStore_RecordMissingEntry(t *testing.T) {
	store := newStore(t)

	err := store.Record(domain.FetchRecord{Kind: domain.KindAccount, Address: mintAddr})
	require.ErrorIs(t, err, domain.ErrCacheIO)
}

func TestStore_ListEmpty(t *testing.T) {
	store := newStore(t)

	entries, err := store.List()
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestOpener_Open(t *testing.T) {
	root := t.TempDir()

	cache, err := cas.NewOpener().Open(root)
	require.NoError(t, err)
	assert.Equal(t, root, cache.Root())
}
