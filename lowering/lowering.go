// Package lowering implements the deterministic AST-to-AST translation from
// the secondary (OpenSCAD-style) dialect's AST into the primary ShapeScript
// AST, so both front ends share one evaluator. Every rule in spec.md §4.F
// is implemented here; source ranges are carried over verbatim from the
// scadast node being translated.
package lowering

import (
	"errors"
	"fmt"
	"strings"

	"shapescript/ast"
	"shapescript/diag"
	"shapescript/scadast"
	"shapescript/srcrange"
	"shapescript/symbols"
)

// errUnhandled marks a secondary-dialect node shape with no lowering rule
// defined yet.
var errUnhandled = errors.New("lowering: unhandled node")

// unsupported lists the SCAD features spec.md §9 records as future work:
// recognized by name, rejected with a structured diagnostic rather than
// silently mistranslated.
var unsupported = map[string]bool{
	"hull": true, "minkowski": true, "multmatrix": true,
	"offset": true, "mirror": true, "resize": true,
}

// trigDegreeArgs names the forward trig functions whose single angle
// argument OpenSCAD takes in degrees; ShapeScript's own sin/cos/tan take
// radians, so the argument is pre-multiplied by pi/180 during lowering.
var trigDegreeArgs = map[string]bool{"sin": true, "cos": true, "tan": true}

// Lower translates a parsed secondary-dialect program into its primary-
// dialect equivalent.
func Lower(prog *scadast.Program) (*ast.Program, error) {
	stmts, err := lowerStmts(prog.Stmts)
	if err != nil {
		return nil, err
	}

	return &ast.Program{Source: prog.Source, FileURL: prog.FileURL, Stmts: stmts}, nil
}

func lowerStmts(in []scadast.Stmt) ([]ast.Stmt, error) {
	out := make([]ast.Stmt, 0, len(in))

	for _, s := range in {
		lowered, err := lowerStmt(s)
		if err != nil {
			return nil, err
		}

		out = append(out, lowered...)
	}

	return out, nil
}

// lowerStmt translates one secondary-dialect statement. It returns a slice
// because a single SCAD statement sometimes has no primary-dialect
// equivalent on its own (e.g. an empty statement) and, more commonly,
// because the caller flattens nested single-statement results.
func lowerStmt(s scadast.Stmt) ([]ast.Stmt, error) {
	switch n := s.(type) {
	case *scadast.CommandStmt:
		return lowerCommand(n)
	case *scadast.ForStmt:
		return lowerFor(n)
	case *scadast.IfStmt:
		return lowerIf(n)
	case *scadast.DefineStmt:
		return lowerDefine(n)
	case *scadast.BlockStmt:
		body, err := lowerStmts(n.Stmts)
		if err != nil {
			return nil, err
		}

		return []ast.Stmt{&ast.BlockStmt{Base: ast.Base{R: n.R}, Stmts: body}}, nil
	default:
		return nil, fmt.Errorf("%w: unhandled secondary-dialect statement %T", errUnhandled, s)
	}
}

func lowerFor(n *scadast.ForStmt) ([]ast.Stmt, error) {
	in, err := lowerExpr(n.In)
	if err != nil {
		return nil, err
	}

	body, err := lowerStmt(n.Body)
	if err != nil {
		return nil, err
	}

	return []ast.Stmt{&ast.ForStmt{
		Base:  ast.Base{R: n.R},
		Index: mangleName(n.Index),
		In:    in,
		Body:  body,
	}}, nil
}

func lowerIf(n *scadast.IfStmt) ([]ast.Stmt, error) {
	cond, err := lowerExpr(n.Cond)
	if err != nil {
		return nil, err
	}

	thenBody, err := lowerStmt(n.Then)
	if err != nil {
		return nil, err
	}

	ifStmt := &ast.IfStmt{Base: ast.Base{R: n.R}, Cond: cond, Body: thenBody}

	if n.Else != nil {
		elseBody, eErr := lowerStmt(n.Else)
		if eErr != nil {
			return nil, eErr
		}

		ifStmt.Else = &ast.ElseClause{ElseBlock: elseBody}
	}

	return []ast.Stmt{ifStmt}, nil
}

func lowerDefine(n *scadast.DefineStmt) ([]ast.Stmt, error) {
	switch n.Kind {
	case scadast.DefineExpr:
		expr, err := lowerExpr(n.Expr)
		if err != nil {
			return nil, err
		}

		return []ast.Stmt{&ast.DefineStmt{
			Base:       ast.Base{R: n.R},
			Name:       mangleName(n.Name),
			Definition: ast.Definition{Expr: expr},
		}}, nil
	case scadast.DefineFunction:
		expr, err := lowerExpr(n.Expr)
		if err != nil {
			return nil, err
		}

		body := optionsForParams(n.Params)
		body = append(body, &ast.ExprStmt{Base: ast.Base{R: expr.Range()}, Expr: expr})

		return []ast.Stmt{&ast.DefineStmt{
			Base:       ast.Base{R: n.R},
			Name:       mangleName(n.Name),
			Definition: ast.Definition{Block: body},
		}}, nil
	case scadast.DefineModule:
		body, err := lowerStmts(n.Body)
		if err != nil {
			return nil, err
		}

		full := append(optionsForParams(n.Params), body...)

		return []ast.Stmt{&ast.DefineStmt{
			Base:       ast.Base{R: n.R},
			Name:       mangleName(n.Name),
			Definition: ast.Definition{Block: full},
		}}, nil
	default:
		return nil, fmt.Errorf("%w: unhandled define kind %v", errUnhandled, n.Kind)
	}
}

// optionsForParams translates module/function formal parameters into
// leading `option name default?` statements, so the lowered definition
// binds caller arguments the same way a native ShapeScript custom block
// does (spec.md §4.I).
func optionsForParams(params []scadast.Param) []ast.Stmt {
	out := make([]ast.Stmt, 0, len(params))

	for _, p := range params {
		var def ast.Expr

		if p.Default != nil {
			if lowered, err := lowerExpr(p.Default); err == nil {
				def = lowered
			}
		}

		out = append(out, &ast.OptionStmt{Name: mangleName(p.Name), Default: def})
	}

	return out
}

func lowerExprOrNil(e scadast.Expr) (ast.Expr, error) {
	if e == nil {
		return nil, nil
	}

	return lowerExpr(e)
}

// mangleName applies spec.md §4.F's identifier-mangling rules: `$fn` →
// `dollar_fn`, a leading underscore name → `underscore_`-prefixed, and any
// name colliding with a standard (root-scope) symbol is suffixed `_`.
var rootScope = symbols.Root()

func mangleName(name string) string {
	switch {
	case strings.HasPrefix(name, "$"):
		name = "dollar_" + name[1:]
	case strings.HasPrefix(name, "_"):
		name = "underscore_" + name[1:]
	}

	if _, collides := rootScope.Lookup(name); collides {
		name += "_"
	}

	return name
}

func pi() ast.Expr { return &ast.IdentifierExpr{Name: "pi"} }

func num(v float64, r srcrange.Range) ast.Expr { return &ast.NumberExpr{Base: ast.Base{R: r}, Value: v} }

func ident(name string, r srcrange.Range) ast.Expr {
	return &ast.IdentifierExpr{Base: ast.Base{R: r}, Name: name}
}

func infix(op string, l, r ast.Expr) ast.Expr {
	return &ast.InfixExpr{Base: ast.Base{R: l.Range().Union(r.Range())}, Op: op, L: l, R: r}
}

func member(x ast.Expr, name string, r srcrange.Range) ast.Expr {
	return &ast.MemberExpr{Base: ast.Base{R: r}, X: x, Name: name}
}

func implicitTuple(elems []ast.Expr, r srcrange.Range) ast.Expr {
	if len(elems) == 1 {
		return elems[0]
	}

	return &ast.TupleExpr{Base: ast.Base{R: r}, Elems: elems, Explicit: false}
}

func unsupportedErr(name string, r srcrange.Range) error {
	return &diag.Error{
		Kind:    diag.ParserUnsupportedSCADFeature,
		Message: fmt.Sprintf("%q is not supported", name),
		Hint:    fmt.Sprintf("%s has no ShapeScript equivalent and is not implemented.", name),
		Range:   r,
	}
}
