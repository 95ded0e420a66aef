package ports

import "go.trai.ch/memo/internal/core/domain"

// Renderer exports a recorded graphics artifact to a file. The evaluation
// core only records that a graphic was produced; rendering is peripheral.
//
//go:generate go run go.uber.org/mock/mockgen -source=renderer.go -destination=mocks/mock_renderer.go -package=mocks
type Renderer interface {
	// Render writes the artifact to path in its recorded format.
	Render(artifact domain.GraphicsArtifact, path string) error
}
