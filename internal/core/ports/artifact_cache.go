// Package ports defines the core interfaces for the application.
package ports

import "go.trai.ch/lumos/internal/core/domain"

// ArtifactCache is the address-keyed, kind-partitioned on-disk store of fetched artifacts.
// A single writer per cache root is assumed.
//
//go:generate go run go.uber.org/mock/mockgen -source=artifact_cache.go -destination=mocks/mock_artifact_cache.go -package=mocks
type ArtifactCache interface {
	// Root returns the cache root directory.
	Root() string
	// Dir returns the directory holding entries of kind.
	Dir(kind domain.ArtifactKind) string
	// Path returns the entry path for an address, whether or not it exists.
	Path(kind domain.ArtifactKind, address string) string
	// Exists reports whether an entry is present.
	Exists(kind domain.ArtifactKind, address string) bool

	// Resolve decides whether a fetch is needed. A present entry that is not forced
	// resolves as cached; otherwise the parent directory is created.
	Resolve(kind domain.ArtifactKind, address string, force bool) (domain.Resolution, error)
	// Stage returns a fresh staging path a fetch writes into before Commit.
	Stage(kind domain.ArtifactKind, address string) (string, error)
	// Commit atomically moves a staged file onto the entry path.
	Commit(kind domain.ArtifactKind, address, staged string) error
	// Discard removes a staged file after a failed fetch. Errors are ignored.
	Discard(staged string)

	// ReadSnapshot loads an account snapshot.
	ReadSnapshot(path string) (*domain.AccountSnapshot, error)
	// WriteSnapshot replaces the snapshot at path as a whole.
	WriteSnapshot(path string, snapshot *domain.AccountSnapshot) error

	// Record stores a fetch record in the manifest.
	Record(record domain.FetchRecord) error
	// Lookup returns the manifest record for an entry, or nil if none was recorded.
	Lookup(kind domain.ArtifactKind, address string) (*domain.FetchRecord, error)

	// List returns every entry in the cache, accounts first, sorted by address.
	List() ([]domain.CacheEntry, error)
	// Clean removes every entry of the given kinds together with their manifest records.
	Clean(kinds []domain.ArtifactKind) error
}

// CacheOpener opens the artifact cache rooted at a directory.
type CacheOpener interface {
	Open(root string) (ArtifactCache, error)
}
