package lowering

import (
	"fmt"

	"shapescript/ast"
	"shapescript/scadast"
)

// lowerExpr translates one secondary-dialect expression.
func lowerExpr(e scadast.Expr) (ast.Expr, error) {
	switch n := e.(type) {
	case *scadast.NumberExpr:
		return &ast.NumberExpr{Base: ast.Base{R: n.R}, Value: n.Value}, nil
	case *scadast.StringExpr:
		return &ast.StringExpr{Base: ast.Base{R: n.R}, Value: n.Value}, nil
	case *scadast.BooleanExpr:
		// ShapeScript has no boolean literal node; lower to the `true`/
		// `false` built-in constants by name, same as the primary parser
		// produces for its own `true`/`false` keywords.
		name := "false"
		if n.Value {
			name = "true"
		}

		return ident(name, n.R), nil
	case *scadast.UndefinedExpr:
		return ident("undefined", n.R), nil
	case *scadast.IdentifierExpr:
		return ident(mangleName(n.Name), n.R), nil
	case *scadast.VectorExpr:
		elems, err := lowerExprList(n.Elems)
		if err != nil {
			return nil, err
		}

		return &ast.TupleExpr{Base: ast.Base{R: n.R}, Elems: elems, Explicit: true}, nil
	case *scadast.RangeExpr:
		from, err := lowerExpr(n.From)
		if err != nil {
			return nil, err
		}

		to, err := lowerExpr(n.To)
		if err != nil {
			return nil, err
		}

		step, err := lowerExprOrNil(n.Step)
		if err != nil {
			return nil, err
		}

		return &ast.RangeExpr{Base: ast.Base{R: n.R}, From: from, To: to, Step: step}, nil
	case *scadast.CallExpr:
		return lowerCallExpr(n)
	case *scadast.PrefixExpr:
		x, err := lowerExpr(n.X)
		if err != nil {
			return nil, err
		}

		return &ast.PrefixExpr{Base: ast.Base{R: n.R}, Op: n.Op, X: x}, nil
	case *scadast.InfixExpr:
		l, err := lowerExpr(n.L)
		if err != nil {
			return nil, err
		}

		r, err := lowerExpr(n.R)
		if err != nil {
			return nil, err
		}

		return &ast.InfixExpr{Base: ast.Base{R: n.Base.R}, Op: lowerInfixOp(n.Op), L: l, R: r}, nil
	case *scadast.MemberExpr:
		x, err := lowerExpr(n.X)
		if err != nil {
			return nil, err
		}

		if n.Index != nil {
			// Bracket indexing `v[i]` has no direct primary-dialect
			// syntax; translate to the ordinal member name family
			// (v[0] -> v.first) when the index is a literal small
			// integer, which covers the overwhelming common case of
			// SCAD vector indexing.
			if idxName, ok := literalOrdinalMember(n.Index); ok {
				return member(x, idxName, n.R), nil
			}

			return nil, fmt.Errorf("%w: dynamic index expression has no primary-dialect equivalent", errUnhandled)
		}

		return member(x, n.Name, n.R), nil
	case *scadast.LetExpr:
		return lowerLet(n)
	default:
		return nil, fmt.Errorf("%w: unhandled secondary-dialect expression %T", errUnhandled, e)
	}
}

func lowerExprList(in []scadast.Expr) ([]ast.Expr, error) {
	out := make([]ast.Expr, 0, len(in))

	for _, e := range in {
		lowered, err := lowerExpr(e)
		if err != nil {
			return nil, err
		}

		out = append(out, lowered)
	}

	return out, nil
}

// lowerInfixOp maps the secondary dialect's operator spellings onto the
// primary dialect's: `==`/`!=` become `=`/`<>`.
func lowerInfixOp(op string) string {
	switch op {
	case "==":
		return "="
	case "!=":
		return "<>"
	case "&&":
		return "and"
	case "||":
		return "or"
	default:
		return op
	}
}

// literalOrdinalMember recognizes `expr[N]` where N is a small non-negative
// integer literal, returning the corresponding ordinal member name.
func literalOrdinalMember(idx scadast.Expr) (string, bool) {
	num, ok := idx.(*scadast.NumberExpr)
	if !ok || num.Value != float64(int(num.Value)) || num.Value < 0 {
		return "", false
	}

	names := [...]string{"first", "second", "third", "fourth", "fifth"}
	i := int(num.Value)

	if i >= len(names) {
		return "", false
	}

	return names[i], true
}

func lowerLet(n *scadast.LetExpr) (ast.Expr, error) {
	body, err := lowerExpr(n.Body)
	if err != nil {
		return nil, err
	}

	stmts := make([]ast.Stmt, 0, len(n.Bindings)+1)

	for _, b := range n.Bindings {
		val, vErr := lowerExpr(b.Value)
		if vErr != nil {
			return nil, vErr
		}

		stmts = append(stmts, &ast.DefineStmt{
			Name:       mangleName(b.Name),
			Definition: ast.Definition{Expr: val},
		})
	}

	stmts = append(stmts, &ast.ExprStmt{Base: ast.Base{R: body.Range()}, Expr: body})

	return &ast.BlockExpr{Base: ast.Base{R: n.R}, Name: "group", Body: stmts}, nil
}

// lowerCallExpr translates a SCAD expression-position function call.
// Trig calls taking a degree argument are pre-multiplied by pi/180 so
// ShapeScript's own radian-based sin/cos/tan see the right value; every
// other call becomes a generic juxtaposed invocation `name arg1 arg2 ...`
// (an implicit tuple whose first element is the callee name), matching
// how the primary dialect itself expresses a nested command call inside
// an expression (spec.md §8 scenario 1, `print cos pi`).
func lowerCallExpr(n *scadast.CallExpr) (ast.Expr, error) {
	args, err := lowerCallArgs(n.Args)
	if err != nil {
		return nil, err
	}

	name := mangleName(n.Name)

	if trigDegreeArgs[n.Name] && len(args) == 1 {
		name = n.Name
		args[0] = infix("*", args[0], infix("/", pi(), num(180, n.R)))
	}

	elems := append([]ast.Expr{ident(name, n.NameRange)}, args...)

	return implicitTuple(elems, n.R), nil
}

func lowerCallArgs(args []scadast.Arg) ([]ast.Expr, error) {
	out := make([]ast.Expr, 0, len(args))

	for _, a := range args {
		v, err := lowerExpr(a.Value)
		if err != nil {
			return nil, err
		}

		out = append(out, v)
	}

	return out, nil
}
