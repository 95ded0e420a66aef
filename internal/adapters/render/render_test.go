package render_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/memo/internal/adapters/render"
	"go.trai.ch/memo/internal/core/domain"
)

func TestRender_WritesArtifact(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plot.svg")
	artifact := domain.GraphicsArtifact{Format: "svg", Data: []byte("<svg/>")}

	require.NoError(t, render.New().Render(artifact, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "<svg/>", string(data))
}

func TestRender_AppendsFormatExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plot")
	artifact := domain.GraphicsArtifact{Format: "svg", Data: []byte("<svg/>")}

	require.NoError(t, render.New().Render(artifact, path))

	_, err := os.Stat(path + ".svg")
	assert.NoError(t, err)
}

func TestRender_CreatesParentDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "deep", "plot.svg")
	artifact := domain.GraphicsArtifact{Format: "svg", Data: []byte("<svg/>")}

	require.NoError(t, render.New().Render(artifact, path))

	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestRender_EmptyArtifactFails(t *testing.T) {
	err := render.New().Render(domain.GraphicsArtifact{Format: "svg"}, filepath.Join(t.TempDir(), "x.svg"))
	assert.Error(t, err)
}
