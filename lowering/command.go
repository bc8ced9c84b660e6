package lowering

import (
	"shapescript/ast"
	"shapescript/scadast"
	"shapescript/srcrange"
)

// lowerCommand dispatches a SCAD statement-position call onto the named
// translation rules in spec.md §4.F, falling back to a best-effort generic
// form for anything not explicitly listed there.
func lowerCommand(n *scadast.CommandStmt) ([]ast.Stmt, error) {
	if unsupported[n.Name] {
		return nil, unsupportedErr(n.Name, n.R)
	}

	switch n.Name {
	case "translate":
		return lowerChainedTransform(n, "position", 0)
	case "rotate":
		return lowerRotate(n)
	case "scale":
		return lowerChainedTransform(n, "size", 0)
	case "color":
		return lowerColor(n)
	case "cube":
		return lowerBoxLike(n, "cube")
	case "square":
		return lowerBoxLike(n, "square")
	case "sphere":
		return lowerSphere(n)
	case "circle":
		return lowerCircle(n)
	case "linear_extrude":
		return lowerLinearExtrude(n)
	case "union", "difference", "intersection", "xor", "stencil", "group":
		body, err := lowerStmts(n.Body)
		if err != nil {
			return nil, err
		}

		return []ast.Stmt{mkBlock(n.Name, body, n.R)}, nil
	case "echo":
		args, err := lowerArgList(n.Args)
		if err != nil {
			return nil, err
		}

		stmt := mkCommand("print", args, n.R)

		return appendNext(n, stmt)
	default:
		return lowerGenericCommand(n)
	}
}

func lowerArgList(args []scadast.Arg) ([]ast.Expr, error) {
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

// findArg returns the value of a named argument if present; otherwise the
// pos-th positional (unnamed) argument; otherwise nil.
func findArg(args []scadast.Arg, pos int, names ...string) scadast.Expr {
	for _, a := range args {
		if a.Name == "" {
			continue
		}

		for _, want := range names {
			if a.Name == want {
				return a.Value
			}
		}
	}

	idx := 0

	for _, a := range args {
		if a.Name != "" {
			continue
		}

		if idx == pos {
			return a.Value
		}

		idx++
	}

	return nil
}

func mkBlock(name string, body []ast.Stmt, r srcrange.Range) ast.Stmt {
	return &ast.ExprStmt{Base: ast.Base{R: r}, Expr: &ast.BlockExpr{Base: ast.Base{R: r}, Name: name, Body: body}}
}

func mkCommand(name string, args []ast.Expr, r srcrange.Range) ast.Stmt {
	return &ast.CommandStmt{Base: ast.Base{R: r}, Name: name, Args: args}
}

func mkDefine(name string, expr ast.Expr, r srcrange.Range) ast.Stmt {
	return &ast.DefineStmt{Base: ast.Base{R: r}, Name: name, Definition: ast.Definition{Expr: expr}}
}

// appendNext wraps stmt together with the chained "next" statement (if
// any) into the caller's result list, without introducing an extra group
// scope — used for statements (echo, generic commands) whose chained
// sibling is not itself scoping-sensitive.
func appendNext(n *scadast.CommandStmt, stmt ast.Stmt) ([]ast.Stmt, error) {
	out := []ast.Stmt{stmt}

	if n.Next == nil {
		return out, nil
	}

	next, err := lowerStmt(n.Next)
	if err != nil {
		return nil, err
	}

	return append(out, next...), nil
}

// lowerChainedTransform implements the `translate(v) next` / `scale(v)
// next` shape: `group { <propertyName> v ; <next> }`.
func lowerChainedTransform(n *scadast.CommandStmt, propertyName string, argPos int) ([]ast.Stmt, error) {
	v := findArg(n.Args, argPos, "v")
	if v == nil {
		v = findArg(n.Args, argPos)
	}

	val, err := lowerExprOrNil(v)
	if err != nil {
		return nil, err
	}

	if val == nil {
		val = num(0, n.R)
	}

	body := []ast.Stmt{mkCommand(propertyName, []ast.Expr{val}, n.R)}

	if n.Next != nil {
		next, nErr := lowerStmt(n.Next)
		if nErr != nil {
			return nil, nErr
		}

		body = append(body, next...)
	}

	return []ast.Stmt{mkBlock("group", body, n.R)}, nil
}

// lowerRotate implements `rotate(a) next` -> `group { define a' = a/-180;
// orientation a'.z a'.y a'.x ; <next> }`, using "orientation" as the
// primary dialect's rotation property name (§5.H).
func lowerRotate(n *scadast.CommandStmt) ([]ast.Stmt, error) {
	a := findArg(n.Args, 0, "a")
	if a == nil {
		a = findArg(n.Args, 0)
	}

	aVal, err := lowerExprOrNil(a)
	if err != nil {
		return nil, err
	}

	if aVal == nil {
		aVal = num(0, n.R)
	}

	const tmp = "__rotate_deg"

	degrees := infix("/", aVal, num(-180, n.R))

	body := []ast.Stmt{
		mkDefine(tmp, degrees, n.R),
		mkCommand("orientation", []ast.Expr{
			member(ident(tmp, n.R), "z", n.R),
			member(ident(tmp, n.R), "y", n.R),
			member(ident(tmp, n.R), "x", n.R),
		}, n.R),
	}

	if n.Next != nil {
		next, nErr := lowerStmt(n.Next)
		if nErr != nil {
			return nil, nErr
		}

		body = append(body, next...)
	}

	return []ast.Stmt{mkBlock("group", body, n.R)}, nil
}

// lowerColor implements `color(c[,alpha]) next` -> `group { color
// c[,alpha] ; <next> }`.
func lowerColor(n *scadast.CommandStmt) ([]ast.Stmt, error) {
	c := findArg(n.Args, 0, "c")
	alpha := findArg(n.Args, 1, "alpha")

	cVal, err := lowerExprOrNil(c)
	if err != nil {
		return nil, err
	}

	if cVal == nil {
		cVal = ident("white", n.R)
	}

	args := []ast.Expr{cVal}

	if alpha != nil {
		alphaVal, aErr := lowerExpr(alpha)
		if aErr != nil {
			return nil, aErr
		}

		args = append(args, alphaVal)
	}

	body := []ast.Stmt{mkCommand("color", args, n.R)}

	if n.Next != nil {
		next, nErr := lowerStmt(n.Next)
		if nErr != nil {
			return nil, nErr
		}

		body = append(body, next...)
	}

	return []ast.Stmt{mkBlock("group", body, n.R)}, nil
}

// lowerBoxLike implements `cube(size, center?)` / `square(size, center?)`
// -> `<blockName> { size <size>; if(center==false) position size/2 }`.
func lowerBoxLike(n *scadast.CommandStmt, blockName string) ([]ast.Stmt, error) {
	sizeArg := findArg(n.Args, 0, "size")
	centerArg := findArg(n.Args, 1, "center")

	sizeVal, err := lowerExprOrNil(sizeArg)
	if err != nil {
		return nil, err
	}

	if sizeVal == nil {
		sizeVal = num(1, n.R)
	}

	centerVal, err := lowerExprOrNil(centerArg)
	if err != nil {
		return nil, err
	}

	if centerVal == nil {
		centerVal = ident("false", n.R)
	}

	const tmp = "__size"

	half := infix("/", ident(tmp, n.R), num(2, n.R))

	body := []ast.Stmt{
		mkDefine(tmp, sizeVal, n.R),
		mkCommand("size", []ast.Expr{ident(tmp, n.R)}, n.R),
		&ast.IfStmt{
			Base: ast.Base{R: n.R},
			Cond: infix("=", centerVal, ident("false", n.R)),
			Body: []ast.Stmt{mkCommand("position", []ast.Expr{half}, n.R)},
		},
	}

	return []ast.Stmt{mkBlock(blockName, body, n.R)}, nil
}

// lowerSphere implements `sphere(r|d, $fn?)` ->
// `sphere { size <2r|d>; detail <$fn>? }`.
func lowerSphere(n *scadast.CommandStmt) ([]ast.Stmt, error) {
	var sizeVal ast.Expr

	if d := findArg(n.Args, -1, "d"); d != nil {
		lowered, err := lowerExpr(d)
		if err != nil {
			return nil, err
		}

		sizeVal = lowered
	} else {
		r := findArg(n.Args, 0, "r")

		rVal, err := lowerExprOrNil(r)
		if err != nil {
			return nil, err
		}

		if rVal == nil {
			rVal = num(1, n.R)
		}

		sizeVal = infix("*", rVal, num(2, n.R))
	}

	body := []ast.Stmt{mkCommand("size", []ast.Expr{sizeVal}, n.R)}

	if fn := findArg(n.Args, -1, "$fn"); fn != nil {
		fnVal, err := lowerExpr(fn)
		if err != nil {
			return nil, err
		}

		body = append(body, mkCommand("detail", []ast.Expr{fnVal}, n.R))
	}

	return []ast.Stmt{mkBlock("sphere", body, n.R)}, nil
}

// lowerCircle implements `circle(r|d, $fn?)` as a `circle` path block with
// sphere's size/detail body. The result is never wrapped in an extrude,
// and no later step turns the path into a mesh.
func lowerCircle(n *scadast.CommandStmt) ([]ast.Stmt, error) {
	stmts, err := lowerSphere(n) // identical size/detail shape
	if err != nil {
		return nil, err
	}

	blockExpr := stmts[0].(*ast.ExprStmt).Expr.(*ast.BlockExpr)
	blockExpr.Name = "circle"

	return stmts, nil
}

// lowerLinearExtrude implements `linear_extrude(height, twist?, slices?,
// center?) { body }` -> `extrude { size 1 1 <h>; position 0 0 <h/2> (if
// !center); twist <twist>/180; <body>; detail <slices>*4 }`.
func lowerLinearExtrude(n *scadast.CommandStmt) ([]ast.Stmt, error) {
	height := findArg(n.Args, 0, "height")
	twist := findArg(n.Args, 1, "twist")
	slices := findArg(n.Args, 2, "slices")
	center := findArg(n.Args, 3, "center")

	hVal, err := lowerExprOrNil(height)
	if err != nil {
		return nil, err
	}

	if hVal == nil {
		hVal = num(1, n.R)
	}

	centerVal, err := lowerExprOrNil(center)
	if err != nil {
		return nil, err
	}

	if centerVal == nil {
		centerVal = ident("false", n.R)
	}

	const tmp = "__extrude_h"

	body := []ast.Stmt{
		mkDefine(tmp, hVal, n.R),
		mkCommand("size", []ast.Expr{num(1, n.R), num(1, n.R), ident(tmp, n.R)}, n.R),
		&ast.IfStmt{
			Base: ast.Base{R: n.R},
			Cond: infix("=", centerVal, ident("false", n.R)),
			Body: []ast.Stmt{mkCommand("position", []ast.Expr{
				num(0, n.R), num(0, n.R), infix("/", ident(tmp, n.R), num(2, n.R)),
			}, n.R)},
		},
	}

	if twist != nil {
		twistVal, tErr := lowerExpr(twist)
		if tErr != nil {
			return nil, tErr
		}

		body = append(body, mkCommand("twist", []ast.Expr{infix("/", twistVal, num(180, n.R))}, n.R))
	}

	childBody, err := lowerStmts(n.Body)
	if err != nil {
		return nil, err
	}

	body = append(body, childBody...)

	if slices != nil {
		slicesVal, sErr := lowerExpr(slices)
		if sErr != nil {
			return nil, sErr
		}

		body = append(body, mkCommand("detail", []ast.Expr{infix("*", slicesVal, num(4, n.R))}, n.R))
	}

	return []ast.Stmt{mkBlock("extrude", body, n.R)}, nil
}

// lowerGenericCommand is the best-effort fallback for SCAD calls with no
// dedicated rule above (user-defined modules/functions, or built-ins not
// named in spec.md §4.F's representative list). A call with a trailing
// block becomes a same-named block invocation of the lowered body; its
// arguments, since the target definition's parameter names aren't known
// syntactically, are instead passed as a leading juxtaposed command of
// the same name so the evaluator's own symbol resolution still sees them.
// A chained "next" statement is lowered by appendNext and placed after
// the call as a sibling statement; it is not wrapped into a group.
func lowerGenericCommand(n *scadast.CommandStmt) ([]ast.Stmt, error) {
	args, err := lowerArgList(n.Args)
	if err != nil {
		return nil, err
	}

	name := mangleName(n.Name)

	if n.Body != nil {
		body, bErr := lowerStmts(n.Body)
		if bErr != nil {
			return nil, bErr
		}

		out := []ast.Stmt{}
		if len(args) > 0 {
			out = append(out, mkCommand(name, args, n.R))
		}

		out = append(out, mkBlock(name, body, n.R))

		return out, nil
	}

	stmt := mkCommand(name, args, n.R)

	return appendNext(n, stmt)
}
