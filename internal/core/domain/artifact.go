package domain

import "time"

// ArtifactKind partitions the cache into account snapshots and program binaries.
type ArtifactKind string

const (
	// KindAccount marks a structured account snapshot.
	KindAccount ArtifactKind = "account"
	// KindProgram marks a raw executable program binary.
	KindProgram ArtifactKind = "program"
)

// Kinds lists every artifact kind in materialization order.
func Kinds() []ArtifactKind {
	return []ArtifactKind{KindAccount, KindProgram}
}

// Dir returns the cache subdirectory holding entries of this kind.
func (k ArtifactKind) Dir() string {
	switch k {
	case KindAccount:
		return "accounts"
	case KindProgram:
		return "programs"
	default:
		return string(k)
	}
}

// Ext returns the file extension of entries of this kind.
func (k ArtifactKind) Ext() string {
	switch k {
	case KindAccount:
		return ".json"
	case KindProgram:
		return ".so"
	default:
		return ""
	}
}

// Resolution is the outcome of a cache lookup for one address.
// When Cached is false, Path is where a fetch must leave its output.
type Resolution struct {
	Kind    ArtifactKind
	Address string
	Path    string
	Cached  bool
}

// CacheEntry describes one artifact present in the cache.
type CacheEntry struct {
	Kind    ArtifactKind `json:"kind"`
	Address string       `json:"address"`
	Path    string       `json:"path"`
	Size    int64        `json:"size"`
	ModTime time.Time    `json:"mod_time,omitzero"`
	Digest  string       `json:"digest,omitzero"`
}

// FetchRecord is written to the manifest after an artifact is committed to the cache.
type FetchRecord struct {
	Kind      ArtifactKind `json:"kind"`
	Address   string       `json:"address"`
	Digest    string       `json:"digest,omitzero"`
	Size      int64        `json:"size,omitzero"`
	FetchedAt time.Time    `json:"fetched_at,omitzero"`
	Patched   bool         `json:"patched,omitzero"`
}

// Key identifies the record inside the manifest.
func (r FetchRecord) Key() string {
	return RecordKey(r.Kind, r.Address)
}

// RecordKey builds the manifest key for a kind and address.
func RecordKey(kind ArtifactKind, address string) string {
	return string(kind) + "/" + address
}
