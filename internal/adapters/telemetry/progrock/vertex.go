package progrock

import (
	"fmt"
	"io"
	"sync"

	"github.com/vito/progrock"
	"go.trai.ch/lumos/internal/core/domain"
	"go.trai.ch/lumos/internal/core/ports"
)

var _ ports.Vertex = (*Vertex)(nil)

// Vertex implements ports.Vertex wrapping *progrock.VertexRecorder.
// The first of Complete or Cached wins; later calls are ignored.
type Vertex struct {
	vertex *progrock.VertexRecorder
	span   *span
	once   sync.Once
}

// Stdout returns a writer to capture standard output stream.
func (v *Vertex) Stdout() io.Writer {
	if v.span == nil {
		return v.vertex.Stdout()
	}
	return io.MultiWriter(v.vertex.Stdout(), v.span.stdout)
}

// Stderr returns a writer to capture error output stream.
func (v *Vertex) Stderr() io.Writer {
	if v.span == nil {
		return v.vertex.Stderr()
	}
	return io.MultiWriter(v.vertex.Stderr(), v.span.stderr)
}

// Log records a structured log message associated with this vertex.
func (v *Vertex) Log(level domain.LogLevel, msg string) {
	_, _ = fmt.Fprintf(v.vertex.Stdout(), "[%s] %s\n", level.String(), msg)
	if v.span != nil {
		v.span.log(level, msg)
	}
}

// Complete marks the vertex as finished (successfully or with an error).
func (v *Vertex) Complete(err error) {
	v.once.Do(func() {
		v.vertex.Done(err)
		if v.span != nil {
			v.span.complete(err)
		}
	})
}

// Cached marks the vertex as a cache hit and finishes it.
func (v *Vertex) Cached() {
	v.once.Do(func() {
		v.vertex.Cached()
		v.vertex.Done(nil)
		if v.span != nil {
			v.span.cached()
		}
	})
}
