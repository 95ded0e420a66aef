package telemetry_test

import (
	"bytes"
	"context"
	"io"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vito/progrock"
	"go.trai.ch/memo/internal/adapters/telemetry"
	"go.trai.ch/memo/internal/core/domain"
	"go.trai.ch/memo/internal/core/ports"
	"go.trai.ch/zerr"
)

// captureWriter records every status update it receives.
type captureWriter struct {
	mu      sync.Mutex
	updates []*progrock.StatusUpdate
}

func (w *captureWriter) WriteStatus(u *progrock.StatusUpdate) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.updates = append(w.updates, u)
	return nil
}

func (w *captureWriter) Close() error { return nil }

func (w *captureWriter) vertexNames() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	var names []string
	for _, u := range w.updates {
		for _, v := range u.Vertexes {
			names = append(names, v.Name)
		}
	}
	return names
}

func TestNew(t *testing.T) {
	recorder := telemetry.New(io.Discard)
	assert.NotNil(t, recorder)
}

func TestClose_RendersSession(t *testing.T) {
	var out bytes.Buffer
	recorder := telemetry.New(&out)

	_, vertex := recorder.Record(context.Background(), "sum(1:10)")
	vertex.Complete(nil)
	require.NoError(t, recorder.Close())

	assert.NotZero(t, out.Len(), "closing renders the recorded session")
	assert.Contains(t, out.String(), "sum(1:10)")
}

func TestVertex_StatusLifecycle(t *testing.T) {
	recorder := telemetry.NewRecorder(&captureWriter{})

	_, completed := recorder.Record(context.Background(), "1 + 1")
	v := completed.(*telemetry.Vertex)
	assert.Equal(t, domain.VertexStatusRunning, v.Status())
	completed.Complete(nil)
	assert.Equal(t, domain.VertexStatusCompleted, v.Status())

	_, failed := recorder.Record(context.Background(), "stop(\"boom\")")
	failed.Complete(zerr.New("boom"))
	assert.Equal(t, domain.VertexStatusFailed, failed.(*telemetry.Vertex).Status())

	// Cached is terminal; the finishing Complete must not overwrite it.
	_, cached := recorder.Record(context.Background(), "x")
	cached.Cached()
	cached.Complete(nil)
	assert.Equal(t, domain.VertexStatusCached, cached.(*telemetry.Vertex).Status())
	assert.True(t, cached.(*telemetry.Vertex).Status().IsTerminal())
}

func TestRecord_EmitsVertex(t *testing.T) {
	w := &captureWriter{}
	recorder := telemetry.NewRecorder(w)

	ctx, vertex := recorder.Record(context.Background(), "sum(1:10)")
	vertex.Log(domain.LogLevelInfo, "evaluating")
	vertex.Complete(nil)
	require.NoError(t, recorder.Close())

	assert.Contains(t, w.vertexNames(), "sum(1:10)")

	attached, ok := ports.VertexFromContext(ctx)
	require.True(t, ok)
	assert.Same(t, vertex, attached)
}

func TestRecord_RepeatedNamesGetDistinctVertices(t *testing.T) {
	w := &captureWriter{}
	recorder := telemetry.NewRecorder(w)

	_, a := recorder.Record(context.Background(), "x <- 1")
	_, b := recorder.Record(context.Background(), "x <- 1")
	a.Complete(nil)
	b.Cached()
	b.Complete(nil)
	require.NoError(t, recorder.Close())

	names := w.vertexNames()
	count := 0
	for _, n := range names {
		if n == "x <- 1" {
			count++
		}
	}
	assert.GreaterOrEqual(t, count, 2)
}

func TestNoOp(t *testing.T) {
	recorder := telemetry.NewNoOp()

	ctx, vertex := recorder.Record(context.Background(), "anything")
	n, err := vertex.Stdout().Write([]byte("discarded"))
	require.NoError(t, err)
	assert.Equal(t, 9, n)

	vertex.Log(domain.LogLevelError, "ignored")
	vertex.Cached()
	vertex.Complete(nil)
	require.NoError(t, recorder.Close())

	_, ok := ports.VertexFromContext(ctx)
	assert.True(t, ok)
}
