// Package render exports recorded graphics artifacts to files.
package render

import (
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/memo/internal/core/domain"
	"go.trai.ch/zerr"
)

// FileRenderer implements ports.Renderer by writing artifacts to disk.
type FileRenderer struct{}

// New creates a FileRenderer.
func New() *FileRenderer {
	return &FileRenderer{}
}

// Render writes the artifact to path, creating parent directories as needed.
// A missing extension gets the artifact's format appended.
func (r *FileRenderer) Render(artifact domain.GraphicsArtifact, path string) error {
	if len(artifact.Data) == 0 {
		return zerr.New("artifact has no data")
	}

	if filepath.Ext(path) == "" {
		path += "." + strings.ToLower(artifact.Format)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return zerr.With(zerr.Wrap(err, "failed to create output directory"), "dir", dir)
		}
	}

	if err := os.WriteFile(path, artifact.Data, 0o644); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to write artifact"), "path", path)
	}
	return nil
}
