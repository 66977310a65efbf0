package ports

import "context"

// Hasher computes content digests of cache entries.
//
//go:generate go run go.uber.org/mock/mockgen -source=hasher.go -destination=mocks/mock_hasher.go -package=mocks
type Hasher interface {
	// HashFile returns the hex digest of the file content.
	HashFile(path string) (string, error)
	// HashFiles hashes several files concurrently, index-aligned with paths.
	HashFiles(ctx context.Context, paths []string) ([]string, error)
}
