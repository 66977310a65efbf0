// Package fs provides file system adapters for hashing cache entries.
package fs

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/lumos/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

var _ ports.Hasher = (*Hasher)(nil)

// Hasher computes xxhash digests of files.
type Hasher struct {
	workers int
}

// NewHasher creates a Hasher hashing up to one file per CPU at a time.
func NewHasher() *Hasher {
	return &Hasher{workers: runtime.NumCPU()}
}

// ComputeFileHash computes the XXHash of a file's content.
func (h *Hasher) ComputeFileHash(path string) (uint64, error) {
	f, err := os.Open(path) //nolint:gosec // Path is controlled by caller
	if err != nil {
		return 0, zerr.With(zerr.Wrap(err, "failed to open file"), "path", path)
	}
	defer f.Close() //nolint:errcheck // Best effort close in defer

	hasher := xxhash.New()
	if _, err := io.Copy(hasher, f); err != nil {
		return 0, zerr.With(zerr.Wrap(err, "failed to hash file content"), "path", path)
	}

	return hasher.Sum64(), nil
}

// HashFile returns the file digest as 16 hex digits.
func (h *Hasher) HashFile(path string) (string, error) {
	sum, err := h.ComputeFileHash(path)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%016x", sum), nil
}

// HashFiles hashes paths concurrently. The result is index-aligned with paths.
func (h *Hasher) HashFiles(ctx context.Context, paths []string) ([]string, error) {
	digests := make([]string, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(h.workers, 1))

	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			digest, err := h.HashFile(path)
			if err != nil {
				return err
			}
			digests[i] = digest
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return digests, nil
}
