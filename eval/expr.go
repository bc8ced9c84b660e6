package eval

import (
	"fmt"

	"shapescript/ast"
	"shapescript/symbols"
	"shapescript/value"
)

func (e *Evaluator) evalExpr(ctx *Context, expr ast.Expr) (value.Value, error) {
	switch n := expr.(type) {
	case *ast.NumberExpr:
		return value.NumberValue(n.Value), nil
	case *ast.StringExpr:
		return value.StringValue(n.Value), nil
	case *ast.HexColorExpr:
		return value.ColorValue(value.RGBA{R: n.Red, G: n.Green, B: n.Blue, A: n.Alpha}), nil
	case *ast.IdentifierExpr:
		return e.evalIdentifier(ctx, n)
	case *ast.TupleExpr:
		if n.Explicit {
			vals := make([]value.Value, 0, len(n.Elems))

			for _, el := range n.Elems {
				v, err := e.evalExpr(ctx, el)
				if err != nil {
					return value.Value{}, err
				}

				vals = append(vals, v)
			}

			return value.Value{Kind: value.Tuple, Tup: vals}, nil
		}

		vals, err := e.reduceImplicitSequence(ctx, n.Elems)
		if err != nil {
			return value.Value{}, err
		}

		return value.TupleValue(vals), nil
	case *ast.PrefixExpr:
		return e.evalPrefix(ctx, n)
	case *ast.InfixExpr:
		return e.evalInfix(ctx, n)
	case *ast.MemberExpr:
		x, err := e.evalExpr(ctx, n.X)
		if err != nil {
			return value.Value{}, err
		}

		return value.Member(x, n.Name, n.R)
	case *ast.RangeExpr:
		return e.evalRange(ctx, n)
	case *ast.BlockExpr:
		return e.evalBlockExpr(ctx, n)
	default:
		return value.Value{}, fmt.Errorf("eval: unhandled expression %T", expr)
	}
}

func (e *Evaluator) evalIdentifier(ctx *Context, n *ast.IdentifierExpr) (value.Value, error) {
	sym, ok := ctx.scope.Lookup(n.Name)
	if !ok {
		return value.Value{}, unknownSymbolErr(n.Name, n.R, ctx.scope.Names())
	}

	switch sym.Kind {
	case symbols.ConstantKind:
		return sym.Const, nil
	case symbols.CommandKind:
		return e.callCommandFn(ctx, sym.Name, nil, n.R)
	case symbols.PropertyKind:
		return e.readProperty(ctx, sym), nil
	default:
		return value.Value{}, typeMismatchErr(n.Name, "value", "block", n.R)
	}
}

func (e *Evaluator) evalPrefix(ctx *Context, n *ast.PrefixExpr) (value.Value, error) {
	v, err := e.evalExpr(ctx, n.X)
	if err != nil {
		return value.Value{}, err
	}

	switch n.Op {
	case "-":
		nv, err := value.AsScalar(v, "-", n.R)
		if err != nil {
			return value.Value{}, err
		}

		return value.NumberValue(-nv.Num), nil
	case "+":
		return v, nil
	case "not":
		if v.Kind != value.Boolean {
			return value.Value{}, typeMismatchErr("not", "boolean", v.Kind.String(), n.R)
		}

		return value.BoolValue(!v.Bool), nil
	default:
		return value.Value{}, fmt.Errorf("eval: unknown prefix operator %q", n.Op)
	}
}

// isExplicitOperand reports whether expr compares as a single whole in
// value.Compare: true for an explicit (parenthesized) tuple and for any
// non-tuple expression, false for an implicit tuple, whose elements
// Compare pairs with the other side's.
func isExplicitOperand(expr ast.Expr) bool {
	if t, ok := expr.(*ast.TupleExpr); ok {
		return t.Explicit
	}

	return true
}

func (e *Evaluator) evalInfix(ctx *Context, n *ast.InfixExpr) (value.Value, error) {
	lv, err := e.evalExpr(ctx, n.L)
	if err != nil {
		return value.Value{}, err
	}

	rv, err := e.evalExpr(ctx, n.R)
	if err != nil {
		return value.Value{}, err
	}

	switch n.Op {
	case "=":
		return value.Compare(lv, isExplicitOperand(n.L), rv, isExplicitOperand(n.R), false), nil
	case "<>":
		return value.Compare(lv, isExplicitOperand(n.L), rv, isExplicitOperand(n.R), true), nil
	case "and", "or":
		if lv.Kind != value.Boolean {
			return value.Value{}, typeMismatchErr(n.Op, "boolean", lv.Kind.String(), n.L.Range())
		}

		if rv.Kind != value.Boolean {
			return value.Value{}, typeMismatchErr(n.Op, "boolean", rv.Kind.String(), n.R.Range())
		}

		if n.Op == "and" {
			return value.BoolValue(lv.Bool && rv.Bool), nil
		}

		return value.BoolValue(lv.Bool || rv.Bool), nil
	}

	a, err := value.AsScalar(lv, n.Op, n.L.Range())
	if err != nil {
		return value.Value{}, err
	}

	b, err := value.AsScalar(rv, n.Op, n.R.Range())
	if err != nil {
		return value.Value{}, err
	}

	switch n.Op {
	case "+":
		return value.NumberValue(a.Num + b.Num), nil
	case "-":
		return value.NumberValue(a.Num - b.Num), nil
	case "*":
		return value.NumberValue(a.Num * b.Num), nil
	case "/":
		return value.NumberValue(a.Num / b.Num), nil
	case "<":
		return value.BoolValue(a.Num < b.Num), nil
	case "<=":
		return value.BoolValue(a.Num <= b.Num), nil
	case ">":
		return value.BoolValue(a.Num > b.Num), nil
	case ">=":
		return value.BoolValue(a.Num >= b.Num), nil
	default:
		return value.Value{}, fmt.Errorf("eval: unknown infix operator %q", n.Op)
	}
}

// evalRange builds a RangeValue; step defaults to 1 when from <= to, else
// 0 (an empty range), per spec.md §4.G.
func (e *Evaluator) evalRange(ctx *Context, n *ast.RangeExpr) (value.Value, error) {
	fromV, err := e.evalExpr(ctx, n.From)
	if err != nil {
		return value.Value{}, err
	}

	toV, err := e.evalExpr(ctx, n.To)
	if err != nil {
		return value.Value{}, err
	}

	fromN, err := value.AsScalar(fromV, "range", n.R)
	if err != nil {
		return value.Value{}, err
	}

	toN, err := value.AsScalar(toV, "range", n.R)
	if err != nil {
		return value.Value{}, err
	}

	step := 1.0
	if fromN.Num > toN.Num {
		step = 0
	}

	stepExplicit := n.Step != nil
	if stepExplicit {
		stepV, err := e.evalExpr(ctx, n.Step)
		if err != nil {
			return value.Value{}, err
		}

		stepN, err := value.AsScalar(stepV, "range", n.R)
		if err != nil {
			return value.Value{}, err
		}

		step = stepN.Num
	}

	return value.RangeVal(value.RangeValue{From: fromN.Num, To: toN.Num, Step: step, StepExplicit: stepExplicit}), nil
}

// blockReturnValue is the generic "a block with no children returns
// nothing, one returns that one value, several return a tuple" rule
// (spec.md §4.I) used by group and custom-definition blocks. It is the
// same mechanism that pushes a single evaluated ExprStmt result into the
// enclosing context (evalStmt's *ast.ExprStmt case) — scene assembly for
// primitive/builder/CSG blocks, which always call GeometryBuilder.Build
// instead, is the one exception (see evalBlockExpr).
func blockReturnValue(children []value.Value) value.Value {
	switch len(children) {
	case 0:
		return value.Value{}
	case 1:
		return children[0]
	default:
		return value.Value{Kind: value.Tuple, Tup: children}
	}
}
