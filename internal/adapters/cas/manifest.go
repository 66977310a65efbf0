package cas

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"go.trai.ch/lumos/internal/core/domain"
	"go.trai.ch/zerr"
)

// Manifest records committed fetches in a flat JSON file.
type Manifest struct {
	path    string
	mu      sync.RWMutex
	records map[string]domain.FetchRecord
}

// NewManifest loads the manifest backed by the file at path. A missing file is an empty manifest.
func NewManifest(path string) (*Manifest, error) {
	m := &Manifest{
		path:    filepath.Clean(path),
		records: make(map[string]domain.FetchRecord),
	}
	if err := m.load(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Manifest) load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	//nolint:gosec // Path is cleaned and provided by trusted caller
	data, err := os.ReadFile(m.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return zerr.With(errors.Join(domain.ErrManifestIO, err), "path", m.path)
	}

	if len(data) == 0 {
		return nil
	}

	if err := json.Unmarshal(data, &m.records); err != nil {
		return zerr.With(errors.Join(domain.ErrManifestIO, err), "path", m.path)
	}

	return nil
}

// save must be called with m.mu held.
func (m *Manifest) save() error {
	data, err := json.MarshalIndent(m.records, "", "  ")
	if err != nil {
		return zerr.Wrap(err, "failed to marshal fetch manifest")
	}

	if err := os.MkdirAll(filepath.Dir(m.path), domain.DirPerm); err != nil {
		return zerr.With(errors.Join(domain.ErrManifestIO, err), "path", m.path)
	}

	if err := writeFileAtomic(m.path, data); err != nil {
		return zerr.With(errors.Join(domain.ErrManifestIO, err), "path", m.path)
	}

	return nil
}

// Get returns the record for kind and address. Returns nil, nil if not found.
func (m *Manifest) Get(kind domain.ArtifactKind, address string) (*domain.FetchRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.records[domain.RecordKey(kind, address)]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

// Put stores the record and persists the manifest.
func (m *Manifest) Put(rec domain.FetchRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.records[rec.Key()] = rec
	return m.save()
}

// Forget drops every record of the given kinds.
func (m *Manifest) Forget(kinds []domain.ArtifactKind) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	changed := false
	for key, rec := range m.records {
		if slices.Contains(kinds, rec.Kind) {
			delete(m.records, key)
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return m.save()
}

// Len returns the number of records.
func (m *Manifest) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records)
}
