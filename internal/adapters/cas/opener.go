package cas

import "go.trai.ch/lumos/internal/core/ports"

// Opener implements ports.CacheOpener.
type Opener struct{}

// NewOpener creates a new Opener.
func NewOpener() *Opener {
	return &Opener{}
}

// Open returns the Store rooted at root.
func (o *Opener) Open(root string) (ports.ArtifactCache, error) {
	return NewStore(root)
}
