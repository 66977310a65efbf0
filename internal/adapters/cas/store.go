// Package cas implements the on-disk artifact cache and its fetch manifest.
package cas

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"go.trai.ch/lumos/internal/core/domain"
	"go.trai.ch/lumos/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.ArtifactCache = (*Store)(nil)

const stagingSuffix = ".partial"

// Store implements ports.ArtifactCache as one file per address under a kind directory.
//
// Layout:
//
//	<root>/accounts/<address>.json
//	<root>/programs/<address>.so
//	<root>/manifest.json
type Store struct {
	root     string
	manifest *Manifest
}

// NewStore opens the cache rooted at root. Directories are created lazily.
func NewStore(root string) (*Store, error) {
	if root == "" {
		root = domain.DefaultCacheDir
	}
	root = filepath.Clean(root)

	manifest, err := NewManifest(filepath.Join(root, domain.ManifestFileName))
	if err != nil {
		return nil, err
	}
	return &Store{root: root, manifest: manifest}, nil
}

// Root returns the cache root directory.
func (s *Store) Root() string {
	return s.root
}

// Dir returns the directory holding entries of kind.
func (s *Store) Dir(kind domain.ArtifactKind) string {
	return filepath.Join(s.root, kind.Dir())
}

// Path returns the entry path for address.
func (s *Store) Path(kind domain.ArtifactKind, address string) string {
	return filepath.Join(s.Dir(kind), address+kind.Ext())
}

// Exists reports whether the entry is present as a regular file.
func (s *Store) Exists(kind domain.ArtifactKind, address string) bool {
	info, err := os.Stat(s.Path(kind, address))
	return err == nil && info.Mode().IsRegular()
}

// Resolve reports a present, unforced entry as cached. Otherwise it prepares the kind directory.
// A malformed address is rejected before the cache is consulted.
func (s *Store) Resolve(kind domain.ArtifactKind, address string, force bool) (domain.Resolution, error) {
	if _, err := domain.ParseAddress(address); err != nil {
		return domain.Resolution{}, err
	}

	res := domain.Resolution{
		Kind:    kind,
		Address: address,
		Path:    s.Path(kind, address),
	}

	if !force && s.Exists(kind, address) {
		res.Cached = true
		return res, nil
	}

	if err := os.MkdirAll(s.Dir(kind), domain.DirPerm); err != nil {
		return res, zerr.With(errors.Join(domain.ErrCacheIO, err), "path", s.Dir(kind))
	}
	return res, nil
}

// Stage returns the staging path for address and removes any leftover from an interrupted run.
func (s *Store) Stage(kind domain.ArtifactKind, address string) (string, error) {
	if _, err := domain.ParseAddress(address); err != nil {
		return "", err
	}
	if err := os.MkdirAll(s.Dir(kind), domain.DirPerm); err != nil {
		return "", zerr.With(errors.Join(domain.ErrCacheIO, err), "path", s.Dir(kind))
	}

	staged := s.stagingPath(kind, address)
	if err := os.Remove(staged); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return "", zerr.With(errors.Join(domain.ErrCacheIO, err), "path", staged)
	}
	return staged, nil
}

func (s *Store) stagingPath(kind domain.ArtifactKind, address string) string {
	return filepath.Join(s.Dir(kind), "."+address+kind.Ext()+stagingSuffix)
}

// Commit renames the staged file onto the entry path.
func (s *Store) Commit(kind domain.ArtifactKind, address, staged string) error {
	if _, err := domain.ParseAddress(address); err != nil {
		return err
	}
	info, err := os.Stat(staged)
	if err != nil {
		return zerr.With(errors.Join(domain.ErrCacheIO, err), "path", staged)
	}
	if !info.Mode().IsRegular() {
		return zerr.With(zerr.Wrap(domain.ErrCacheIO, "staged artifact is not a regular file"), "path", staged)
	}

	final := s.Path(kind, address)
	if err := os.Rename(staged, final); err != nil {
		return zerr.With(errors.Join(domain.ErrCacheIO, err), "path", final)
	}
	return nil
}

// Discard removes a staged file. It is best effort.
func (s *Store) Discard(staged string) {
	_ = os.Remove(staged)
}

// ReadSnapshot loads the account snapshot at path.
func (s *Store) ReadSnapshot(path string) (*domain.AccountSnapshot, error) {
	//nolint:gosec // Path is derived from the cache root
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, zerr.With(errors.Join(domain.ErrCacheIO, err), "path", path)
	}

	snap, err := domain.ParseSnapshot(data)
	if err != nil {
		return nil, zerr.With(err, "path", path)
	}
	return snap, nil
}

// WriteSnapshot replaces the snapshot at path through a temporary sibling and a rename.
func (s *Store) WriteSnapshot(path string, snapshot *domain.AccountSnapshot) error {
	data, err := snapshot.Marshal()
	if err != nil {
		return err
	}
	if err := writeFileAtomic(path, data); err != nil {
		return zerr.With(errors.Join(domain.ErrCacheIO, err), "path", path)
	}
	return nil
}

// Record stores a fetch record in the manifest.
// Size and FetchedAt are filled from the committed entry when left zero.
func (s *Store) Record(record domain.FetchRecord) error {
	if record.Size == 0 {
		path := s.Path(record.Kind, record.Address)
		info, err := os.Stat(path)
		if err != nil {
			return zerr.With(errors.Join(domain.ErrCacheIO, err), "path", path)
		}
		record.Size = info.Size()
	}
	if record.FetchedAt.IsZero() {
		record.FetchedAt = time.Now().UTC()
	}
	return s.manifest.Put(record)
}

// Lookup returns the manifest record for an entry, or nil if none was recorded.
func (s *Store) Lookup(kind domain.ArtifactKind, address string) (*domain.FetchRecord, error) {
	return s.manifest.Get(kind, address)
}

// List returns the cache entries, accounts first, each kind sorted by address.
// Staging leftovers and foreign files are skipped.
func (s *Store) List() ([]domain.CacheEntry, error) {
	var entries []domain.CacheEntry

	for _, kind := range domain.Kinds() {
		dir := s.Dir(kind)
		items, err := os.ReadDir(dir)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, zerr.With(errors.Join(domain.ErrCacheIO, err), "path", dir)
		}

		for _, item := range items {
			name := item.Name()
			if !item.Type().IsRegular() || strings.HasPrefix(name, ".") || filepath.Ext(name) != kind.Ext() {
				continue
			}
			info, err := item.Info()
			if err != nil {
				return nil, zerr.With(errors.Join(domain.ErrCacheIO, err), "path", filepath.Join(dir, name))
			}

			entry := domain.CacheEntry{
				Kind:    kind,
				Address: strings.TrimSuffix(name, kind.Ext()),
				Path:    filepath.Join(dir, name),
				Size:    info.Size(),
				ModTime: info.ModTime(),
			}
			if rec, _ := s.manifest.Get(kind, entry.Address); rec != nil {
				entry.Digest = rec.Digest
			}
			entries = append(entries, entry)
		}
	}

	slices.SortStableFunc(entries, func(a, b domain.CacheEntry) int {
		if a.Kind != b.Kind {
			return strings.Compare(string(a.Kind), string(b.Kind))
		}
		return strings.Compare(a.Address, b.Address)
	})
	return entries, nil
}

// Clean removes the directories of the given kinds and forgets their manifest records.
func (s *Store) Clean(kinds []domain.ArtifactKind) error {
	for _, kind := range kinds {
		dir := s.Dir(kind)
		if err := os.RemoveAll(dir); err != nil {
			return zerr.With(errors.Join(domain.ErrCacheIO, err), "path", dir)
		}
	}
	return s.manifest.Forget(kinds)
}

func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, domain.FilePerm); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	return nil
}
