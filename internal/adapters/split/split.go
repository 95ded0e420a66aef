// Package split implements the statement splitter over the language parser.
package split

import (
	"go.trai.ch/memo/internal/core/domain"
	"go.trai.ch/memo/internal/lang"
)

// Splitter implements ports.Splitter.
type Splitter struct{}

// New creates a Splitter.
func New() *Splitter {
	return &Splitter{}
}

// Split parses source into one Expression per top-level statement. Malformed
// statements come through with ParseErr set instead of failing the batch, so
// the failure is captured in that statement's record while the rest still
// runs.
func (s *Splitter) Split(source string) ([]domain.Expression, error) {
	stmts := lang.SplitLenient(source)
	exprs := make([]domain.Expression, len(stmts))
	for i, st := range stmts {
		exprs[i] = domain.Expression{
			Text:     st.Text,
			Node:     st.Node,
			Line:     st.Line,
			ParseErr: st.Err,
		}
	}
	return exprs, nil
}
