package shapescript

import (
	"shapescript/ast"
	"shapescript/eval"
)

// Evaluate runs prog against delegate and builder, returning the resulting
// Scene. maxDepth <= 0 uses eval's default recursion guard. cancel, when
// non-nil, is polled between statements; returning true aborts evaluation
// with an assertionFailure diagnostic.
func Evaluate(prog *ast.Program, delegate Delegate, builder GeometryBuilder, cancel func() bool, maxDepth int) (*Scene, error) {
	if delegate == nil {
		return nil, ErrNoDelegate
	}

	if builder == nil {
		return nil, ErrNoGeometryBuilder
	}

	return eval.NewEvaluator(delegate, builder, cancel, maxDepth).Evaluate(prog)
}
