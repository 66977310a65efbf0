package fs_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/cespare/xxhash/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/lumos/internal/adapters/fs"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestHasher_HashFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.so", "program bytes")

	h := fs.NewHasher()
	digest, err := h.HashFile(path)
	require.NoError(t, err)

	assert.Len(t, digest, 16)
	sum, err := h.ComputeFileHash(path)
	require.NoError(t, err)
	assert.Equal(t, xxhash.Sum64String("program bytes"), sum)
}

func TestHasher_HashFile_Missing(t *testing.T) {
	_, err := fs.NewHasher().HashFile(filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open file")
}

func TestHasher_HashFiles(t *testing.T) {
	dir := t.TempDir()
	paths := []string{
		writeFile(t, dir, "1.json", "one"),
		writeFile(t, dir, "2.json", "two"),
		writeFile(t, dir, "3.json", "one"),
	}

	digests, err := fs.NewHasher().HashFiles(context.Background(), paths)
	require.NoError(t, err)
	require.Len(t, digests, 3)
	assert.Equal(t, digests[0], digests[2])
	assert.NotEqual(t, digests[0], digests[1])
}

func TestHasher_HashFiles_Error(t *testing.T) {
	dir := t.TempDir()
	paths := []string{writeFile(t, dir, "ok", "x"), filepath.Join(dir, "missing")}

	_, err := fs.NewHasher().HashFiles(context.Background(), paths)
	require.Error(t, err)
}
