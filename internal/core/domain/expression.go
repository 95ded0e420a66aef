// Package domain defines the core value types of the evaluation cache.
package domain

import "go.trai.ch/memo/internal/lang"

// Expression is one evaluable unit of source text, produced by the splitter.
// Immutable once obtained. A malformed statement carries a nil Node and its
// parse failure in ParseErr; evaluation records the failure without aborting
// the surrounding batch.
type Expression struct {
	Text     string
	Node     lang.Node
	Line     int
	ParseErr error
}

// PartKind tags one symbolic token of an expression's decomposed structure.
type PartKind uint8

const (
	// PartOp is an operator or callee identifier.
	PartOp PartKind = iota
	// PartLiteral is a normalized literal representation.
	PartLiteral
	// PartArgName tags the following argument part with its name.
	PartArgName
	// PartFreeVar marks a free variable whose current binding's content must
	// be folded into the cache key. Free variables are name-erased in the
	// structure itself; Text carries the name only so the key builder can
	// look the binding up.
	PartFreeVar
)

// Part is one element of StructuralParts.
type Part struct {
	Kind PartKind
	Text string
}

// StructuralParts is the ordered symbolic decomposition of one Expression:
// structure and literal content, independent of which concrete objects free
// variables currently refer to.
type StructuralParts struct {
	Parts []Part
}

// FreeVars returns the distinct free-variable names in first-appearance
// order.
func (sp StructuralParts) FreeVars() []string {
	seen := make(map[string]struct{})
	var names []string
	for _, p := range sp.Parts {
		if p.Kind != PartFreeVar {
			continue
		}
		if _, ok := seen[p.Text]; ok {
			continue
		}
		seen[p.Text] = struct{}{}
		names = append(names, p.Text)
	}
	return names
}
