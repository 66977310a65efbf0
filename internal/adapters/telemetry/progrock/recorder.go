// Package progrock provides the Progrock implementation of the telemetry adapter.
package progrock

import (
	"context"
	"os"

	"github.com/opencontainers/go-digest"
	"github.com/vito/progrock"
	"go.trai.ch/lumos/internal/core/ports"
)

var _ ports.Telemetry = (*Recorder)(nil)

// Recorder implements ports.Telemetry on a progrock tape, mirroring every vertex
// to an optional Console.
type Recorder struct {
	w       progrock.Writer
	rec     *progrock.Recorder
	console *Console
}

// New creates a Recorder on a fresh tape that prints to the process streams.
func New() *Recorder {
	return NewRecorder(progrock.NewTape(), NewConsole(os.Stdout, os.Stderr))
}

// NewRecorder creates a Recorder with the given writer. console may be nil.
func NewRecorder(w progrock.Writer, console *Console) *Recorder {
	return &Recorder{
		w:       w,
		rec:     progrock.NewRecorder(w),
		console: console,
	}
}

// Record starts recording a new vertex.
func (r *Recorder) Record(ctx context.Context, name string) (context.Context, ports.Vertex) {
	v := r.rec.Vertex(digest.FromString(name), name)
	vertex := &Vertex{vertex: v}
	if r.console != nil {
		vertex.span = r.console.start(name)
	}
	return ports.ContextWithVertex(ctx, vertex), vertex
}

// Close flushes and closes the recording session.
func (r *Recorder) Close() error {
	if c, ok := r.w.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}
