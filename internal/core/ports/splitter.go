// Package ports defines the core interfaces for the application.
package ports

import "go.trai.ch/memo/internal/core/domain"

// Splitter breaks source text into its ordered evaluable statements.
//
//go:generate go run go.uber.org/mock/mockgen -source=splitter.go -destination=mocks/mock_splitter.go -package=mocks
type Splitter interface {
	// Split returns one Expression per top-level statement, in source order.
	Split(source string) ([]domain.Expression, error)
}
