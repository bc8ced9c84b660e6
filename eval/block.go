package eval

import (
	"shapescript/ast"
	"shapescript/diag"
	"shapescript/symbols"
	"shapescript/value"
)

func (e *Evaluator) evalBlockExpr(ctx *Context, n *ast.BlockExpr) (value.Value, error) {
	sym, ok := ctx.scope.Lookup(n.Name)
	if !ok {
		return value.Value{}, unknownSymbolErr(n.Name, n.NameRange, ctx.scope.Names())
	}

	if sym.Kind != symbols.BlockKind {
		return value.Value{}, typeMismatchErr(n.Name, "block", "value", n.NameRange)
	}

	if !ctx.scope.AllowsChild(n.Name) {
		return value.Value{}, &diag.Error{
			Kind:    diag.EvalUnknownSymbol,
			Message: "\"" + n.Name + "\" is not allowed here",
			Range:   n.NameRange,
		}
	}

	switch sym.Block {
	case symbols.BlockCustomDefinition:
		return e.invokeCustomBlock(ctx, n, sym)
	case symbols.BlockPath:
		return e.invokePathBlock(ctx, n, sym)
	case symbols.BlockPrimitive, symbols.BlockBuilder, symbols.BlockCSG:
		return e.invokeGeometryBlock(ctx, n, sym)
	default: // BlockGroup, and any fallback
		return e.invokeGroupBlock(ctx, n, sym)
	}
}

// invokeGeometryBlock covers every block kind that always produces exactly
// one mesh: primitives (cube, sphere...), builders (extrude, lathe...),
// and CSG combinators (union, difference...). It pushes a child context,
// evaluates the invocation body once against it, then calls
// GeometryBuilder.Build exactly once — that one mesh is both the block's
// return value and the single value the caller's ExprStmt dispatch
// appends to its own children.
func (e *Evaluator) invokeGeometryBlock(ctx *Context, n *ast.BlockExpr, sym symbols.Symbol) (value.Value, error) {
	child := ctx.push(sym.Block, nil, false)

	if err := e.evalStmts(child, n.Body); err != nil {
		return value.Value{}, err
	}

	handle, err := e.Builder.Build(BuildRequest{
		Tag:       n.Name,
		Transform: child.cumulative(),
		Material:  child.mat,
		Children:  child.children,
		Along:     child.along,
	})
	if err != nil {
		return value.Value{}, err
	}

	handle.Debug = child.debug

	return value.MeshValue(handle), nil
}

// invokePathBlock covers `circle`/`square`/`path` blocks: these never call
// GeometryBuilder.Build (their built-in name isn't in its closed tag
// enumeration at all — see the GeometryBuilder doc comment) and never
// produce a mesh. Their body may only contain `point` commands (spec.md
// §4.H's "path points and path commands"), collected into a PathRef that
// is returned as a value.Path — consumed, for instance, by a builder
// block's `along` property.
func (e *Evaluator) invokePathBlock(ctx *Context, n *ast.BlockExpr, sym symbols.Symbol) (value.Value, error) {
	child := ctx.push(sym.Block, nil, false)

	if err := e.evalStmts(child, n.Body); err != nil {
		return value.Value{}, err
	}

	return value.PathValue(value.PathRef{Points: child.points}), nil
}

// invokeGroupBlock covers `group` blocks (and falls back to it for the
// unreachable BlockRoot/BlockLoopBody cases). A group never calls the
// geometry builder: its nested blocks run directly against the group's
// own pushed context, so they automatically inherit its accumulated
// transform/material, and the group's return value is simply the generic
// blockReturnValue of whatever its body collected.
func (e *Evaluator) invokeGroupBlock(ctx *Context, n *ast.BlockExpr, sym symbols.Symbol) (value.Value, error) {
	child := ctx.push(sym.Block, nil, false)

	if err := e.evalStmts(child, n.Body); err != nil {
		return value.Value{}, err
	}

	return blockReturnValue(child.children), nil
}

// invokeCustomBlock re-enters a user `define name { ... }` block. The
// definition's own Body runs against a context scoped lexically to
// sym.DefScope (not the call site's scope), so a custom block closes over
// the names visible where it was defined, per symbols.Symbol's DefScope
// field. Depth is tracked against e.MaxDepth; exceeding it raises
// assertionFailure("Too much recursion") rather than overflowing the Go
// stack, per spec.md §4.I.
//
// Two passes bind caller arguments to declared options: first every
// `option name default` in the definition body is evaluated in order,
// defining name as a ConstantKind local (so later options/body statements
// can already see it); then every top-level command statement in the call
// site's own body (n.Body) whose name matches one of those just-declared
// options overrides it. Remaining definition-body statements run first
// (producing the block's own logic/children), followed by the call site's
// own remaining statements (typically extra children, since ShapeScript's
// bare-brace invocation syntax carries no positional argument list of its
// own — see DESIGN.md).
func (e *Evaluator) invokeCustomBlock(ctx *Context, n *ast.BlockExpr, sym symbols.Symbol) (value.Value, error) {
	if e.depth >= e.MaxDepth {
		return value.Value{}, &diag.Error{
			Kind:    diag.EvalAssertionFailure,
			Message: "Too much recursion",
			Range:   n.NameRange,
		}
	}

	e.depth++
	defer func() { e.depth-- }()

	child := ctx.push(symbols.BlockCustomDefinition, sym.DefScope, true)

	declaredOptions := make(map[string]bool)

	var bodyRest []ast.Stmt

	for _, s := range sym.Body {
		opt, ok := s.(*ast.OptionStmt)
		if !ok {
			bodyRest = append(bodyRest, s)
			continue
		}

		def, err := e.evalExpr(child, opt.Default)
		if err != nil {
			return value.Value{}, err
		}

		child.scope.Define(symbols.Symbol{Kind: symbols.ConstantKind, Name: opt.Name, Const: def})
		declaredOptions[opt.Name] = true
	}

	var callSiteRest []ast.Stmt

	for _, s := range n.Body {
		cmd, ok := s.(*ast.CommandStmt)
		if ok && declaredOptions[cmd.Name] {
			args, err := e.reduceImplicitSequence(child, cmd.Args)
			if err != nil {
				return value.Value{}, err
			}

			child.scope.Define(symbols.Symbol{Kind: symbols.ConstantKind, Name: cmd.Name, Const: value.TupleValue(args)})

			continue
		}

		callSiteRest = append(callSiteRest, s)
	}

	if err := e.evalStmts(child, bodyRest); err != nil {
		return value.Value{}, err
	}

	if err := e.evalStmts(child, callSiteRest); err != nil {
		return value.Value{}, err
	}

	return blockReturnValue(child.children), nil
}
