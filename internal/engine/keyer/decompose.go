// Package keyer implements the structural decomposer, the memoizing object
// hasher, and the cache key builder.
package keyer

import (
	"fmt"
	"strconv"

	"go.trai.ch/memo/internal/core/domain"
	"go.trai.ch/memo/internal/lang"
	"go.trai.ch/zerr"
)

// Decompose walks an expression's syntax tree and emits its ordered symbolic
// parts: callee and operator identifiers, normalized literals, named-argument
// tags, and free-variable markers. The walk is a canonical pre-order
// traversal, so identical source text always yields identical parts.
//
// Free-variable markers are name-erased in the structural stream (they emit
// a positional marker only); the binding name rides along in Part.Text so the
// key builder can resolve content later. Two expressions differing only in
// free-variable names therefore share structure.
func Decompose(expr domain.Expression) (domain.StructuralParts, error) {
	if expr.Node == nil {
		return domain.StructuralParts{}, zerr.With(zerr.Wrap(domain.ErrDecomposition, "missing syntax tree"), "source", expr.Text)
	}
	var parts []domain.Part
	if err := walk(expr.Node, &parts); err != nil {
		return domain.StructuralParts{}, zerr.With(zerr.Wrap(err, "decomposition failed"), "source", expr.Text)
	}
	return domain.StructuralParts{Parts: parts}, nil
}

// bindingMutators are callees whose identifier arguments refer to bindings
// by name rather than to the bound values.
var bindingMutators = map[string]bool{
	"rm": true,
}

func walk(n lang.Node, parts *[]domain.Part) error {
	switch node := n.(type) {
	case *lang.IntLit:
		emitLiteral(parts, "i"+strconv.FormatInt(node.Value, 10))
	case *lang.FloatLit:
		emitLiteral(parts, "f"+strconv.FormatFloat(node.Value, 'g', 17, 64))
	case *lang.StrLit:
		emitLiteral(parts, "s"+strconv.Quote(node.Value))
	case *lang.BoolLit:
		if node.Value {
			emitLiteral(parts, "bTRUE")
		} else {
			emitLiteral(parts, "bFALSE")
		}
	case *lang.NullLit:
		emitLiteral(parts, "n")
	case *lang.Ident:
		*parts = append(*parts, domain.Part{Kind: domain.PartFreeVar, Text: node.Name})
	case *lang.Unary:
		emitOp(parts, "u"+node.Op)
		return walk(node.X, parts)
	case *lang.Binary:
		emitOp(parts, "b"+node.Op)
		if err := walk(node.L, parts); err != nil {
			return err
		}
		return walk(node.R, parts)
	case *lang.Assign:
		// The assignment target is a binding change, not a free variable;
		// it contributes its name to the structure so `x <- 1` and `y <- 1`
		// key differently (they mutate different bindings).
		emitOp(parts, "<-")
		emitOp(parts, node.Target)
		return walk(node.X, parts)
	case *lang.Call:
		emitOp(parts, "c"+node.Callee)
		for _, arg := range node.Args {
			if arg.Name != "" {
				*parts = append(*parts, domain.Part{Kind: domain.PartArgName, Text: arg.Name})
			}
			// Identifier arguments of binding mutators name the bindings
			// themselves, like an assignment target; `rm(x)` and `rm(y)`
			// mutate different bindings and must key differently.
			if bindingMutators[node.Callee] {
				if ident, ok := arg.X.(*lang.Ident); ok {
					emitOp(parts, ident.Name)
					continue
				}
			}
			if err := walk(arg.X, parts); err != nil {
				return err
			}
		}
	default:
		return zerr.With(zerr.Wrap(domain.ErrDecomposition, "unsupported node"), "node", fmt.Sprintf("%T", n))
	}
	return nil
}

func emitOp(parts *[]domain.Part, text string) {
	*parts = append(*parts, domain.Part{Kind: domain.PartOp, Text: text})
}

func emitLiteral(parts *[]domain.Part, text string) {
	*parts = append(*parts, domain.Part{Kind: domain.PartLiteral, Text: text})
}
