package eval

import (
	"strings"

	"shapescript/ast"
	"shapescript/diag"
	"shapescript/parser"
	"shapescript/value"
)

// evalImport resolves the imported path through the delegate and either
// parses and evaluates it as a nested ShapeScript program (`.shape` files)
// or hands it to Delegate.ImportGeometry (anything else — meshes, images
// used as textures, etc., per spec.md §4.I). Parsed `.shape` programs are
// cached per URL so a file imported from multiple places is only parsed
// once, matching the shared import-cache note in spec.md §5.
func (e *Evaluator) evalImport(ctx *Context, n *ast.ImportStmt) error {
	if !ctx.scope.AllowsChild("import") {
		return structuralNotAllowedErr("import", n.Range())
	}

	pathVal, err := e.evalExpr(ctx, n.Expr)
	if err != nil {
		return err
	}

	if pathVal.Kind != value.String {
		return typeMismatchErr("import", "string", pathVal.Kind.String(), n.Expr.Range())
	}

	url, err := e.Delegate.ResolveURL(pathVal.Str)
	if err != nil {
		return &diag.Error{
			Kind:    diag.EvalFileNotFound,
			Message: "cannot resolve \"" + pathVal.Str + "\"",
			Range:   n.R,
		}
	}

	if !strings.HasSuffix(url, ".shape") {
		geom, err := e.Delegate.ImportGeometry(url)
		if err != nil {
			return &diag.Error{Kind: diag.EvalImportError, Message: err.Error(), Range: n.R}
		}

		ctx.children = append(ctx.children, geom)

		return nil
	}

	prog, ok := e.importCache[url]
	if !ok {
		src, err := e.Delegate.ReadSource(url)
		if err != nil {
			return &diag.Error{
				Kind:    diag.EvalFileAccessRestricted,
				Message: "cannot read \"" + url + "\": " + err.Error(),
				Range:   n.R,
			}
		}

		prog, err = parser.Parse(src, url)
		if err != nil {
			return &diag.Error{Kind: diag.EvalFileParsingError, Message: err.Error(), Range: n.R}
		}

		e.importCache[url] = prog
	}

	nested := ctx.push(ctx.blockType, nil, false)
	if err := e.evalStmts(nested, prog.Stmts); err != nil {
		return err
	}

	ctx.children = append(ctx.children, nested.children...)

	return nil
}
