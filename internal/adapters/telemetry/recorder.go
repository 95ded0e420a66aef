// Package telemetry provides the Progrock implementation of the telemetry
// adapter, recording one vertex per evaluated expression.
package telemetry

import (
	"context"
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"github.com/opencontainers/go-digest"
	"github.com/vito/progrock"
	"go.trai.ch/memo/internal/core/domain"
	"go.trai.ch/memo/internal/core/ports"
)

// Recorder implements ports.Telemetry using the progrock library.
type Recorder struct {
	w   progrock.Writer
	rec *progrock.Recorder
	seq atomic.Uint64

	// tape and out are set when the Recorder owns its tape; Close then
	// renders the full session to out.
	tape *progrock.Tape
	out  io.Writer
}

// New creates a Recorder over a fresh tape. Closing the recorder renders the
// recorded session to out.
func New(out io.Writer) ports.Telemetry {
	tape := progrock.NewTape()
	r := NewRecorder(tape)
	r.tape = tape
	r.out = out
	return r
}

// NewRecorder creates a new Recorder with the given writer.
func NewRecorder(w progrock.Writer) *Recorder {
	return &Recorder{
		w:   w,
		rec: progrock.NewRecorder(w),
	}
}

// Record starts recording a new vertex. Repeated expressions with identical
// source text still get distinct vertices.
func (r *Recorder) Record(ctx context.Context, name string, _ ...ports.VertexOption) (context.Context, ports.Vertex) {
	seq := r.seq.Add(1)
	d := digest.FromString(fmt.Sprintf("%d:%s", seq, name))
	vertex := &Vertex{
		vertex: r.rec.Vertex(d, name),
		status: domain.VertexStatusRunning,
	}
	return ports.ContextWithVertex(ctx, vertex), vertex
}

// Close flushes the recording session. A recorder that owns its tape renders
// the final state of every vertex to the configured output.
func (r *Recorder) Close() error {
	if c, ok := r.w.(interface{ Close() error }); ok {
		if err := c.Close(); err != nil {
			return err
		}
	}
	if r.tape != nil {
		return r.tape.Render(r.out, progrock.DefaultUI())
	}
	return nil
}

// Vertex implements ports.Vertex wrapping *progrock.VertexRecorder.
type Vertex struct {
	vertex *progrock.VertexRecorder

	mu     sync.Mutex
	status domain.VertexStatus
}

// Stdout returns a writer mirroring the expression's captured output.
func (v *Vertex) Stdout() io.Writer {
	return v.vertex.Stdout()
}

// Log records a diagnostic message associated with this vertex.
func (v *Vertex) Log(level domain.LogLevel, msg string) {
	_, _ = fmt.Fprintf(v.vertex.Stdout(), "[%s] %s\n", level.String(), msg)
}

// Cached marks the vertex as served from cache. Cached is terminal; a
// following Complete finishes the underlying vertex without overwriting it.
func (v *Vertex) Cached() {
	v.mu.Lock()
	v.status = domain.VertexStatusCached
	v.mu.Unlock()
	v.vertex.Cached()
}

// Complete marks the vertex as finished (successfully or with an error).
func (v *Vertex) Complete(err error) {
	v.mu.Lock()
	if !v.status.IsTerminal() {
		if err != nil {
			v.status = domain.VertexStatusFailed
		} else {
			v.status = domain.VertexStatusCompleted
		}
	}
	v.mu.Unlock()
	v.vertex.Done(err)
}

// Status reports the vertex's lifecycle state.
func (v *Vertex) Status() domain.VertexStatus {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.status
}
