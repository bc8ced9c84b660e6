// Package eval tree-walks a ShapeScript ast.Program and produces a Scene:
// a flat list of values, most commonly mesh values minted by a
// GeometryBuilder. It threads a stack of Contexts (transform, material,
// symbol scope, RNG) through statement dispatch, and defers every effect
// it cannot perform itself (import resolution, geometry construction,
// print/debug output) to an embedder-supplied Delegate/GeometryBuilder
// pair, per spec.md §6's external-interfaces design.
package eval

import (
	"fmt"

	"shapescript/ast"
	"shapescript/diag"
	"shapescript/srcrange"
	"shapescript/symbols"
	"shapescript/value"
)

// defaultMaxDepth bounds custom-block re-entry (spec.md §4.I's recursion guard);
// exceeding it raises assertionFailure("Too much recursion") rather than
// overflowing the Go call stack.
const defaultMaxDepth = 1000

// Context is one pushed evaluation scope: the transform and material state
// in effect, the RNG stream, the symbol layer visible here, and the values
// collected so far by the statements running against it.
type Context struct {
	scope *symbols.Scope

	base  Transform // cumulative transform inherited from the enclosing context
	local Transform // this context's own position/orientation/size settings
	mat   Material
	along *value.PathRef

	rng *rngState

	blockType symbols.BlockType
	children  []value.Value
	points    []value.Vec3 // BlockPath only: collected via the `point` command
	debug     bool
}

// cumulative folds local on top of base; it is what seeds a pushed child's
// base and what is passed to GeometryBuilder.Build.
func (c *Context) cumulative() Transform {
	return compose(c.base, c.local)
}

func newRootContext() *Context {
	return &Context{
		scope:     symbols.Root(),
		base:      identityTransform(),
		local:     identityTransform(),
		mat:       defaultMaterial(),
		rng:       newRNG(),
		blockType: symbols.BlockRoot,
	}
}

// push creates a child context of blockType. defScope, when non-nil,
// replaces c.scope as the new scope's outer layer — used when re-entering
// a `define`d block, so it resolves names lexically against the scope
// active when it was defined rather than dynamically against the caller.
//
// isDefinition controls RNG sharing: a plain nested block shares the
// parent's *rngState pointer, so advancing it is visible to the parent
// once control returns (spec.md §5's write-back rule); a definition
// re-entry gets an independent copy, so its advances never propagate back.
func (c *Context) push(blockType symbols.BlockType, defScope *symbols.Scope, isDefinition bool) *Context {
	outer := c.scope
	if defScope != nil {
		outer = defScope
	}

	child := &Context{
		scope:     symbols.NewScope(blockType, outer),
		base:      c.cumulative(),
		local:     identityTransform(),
		mat:       c.mat,
		blockType: blockType,
	}

	if isDefinition {
		child.rng = &rngState{s: c.rng.s}
	} else {
		child.rng = c.rng
	}

	return child
}

// Scene is the flat result of evaluating a Program: top-level values, most
// commonly meshes, in source order.
type Scene struct {
	Children []value.Value
}

// Evaluator walks a Program against a Delegate and GeometryBuilder.
type Evaluator struct {
	Delegate Delegate
	Builder  GeometryBuilder

	// Cancel is polled between statements and loop iterations; when it
	// returns true, evaluation stops with an assertionFailure.
	Cancel func() bool

	MaxDepth int

	importCache map[string]*ast.Program
	depth       int
}

// NewEvaluator constructs an Evaluator. maxDepth <= 0 uses defaultMaxDepth.
func NewEvaluator(delegate Delegate, builder GeometryBuilder, cancel func() bool, maxDepth int) *Evaluator {
	if maxDepth <= 0 {
		maxDepth = defaultMaxDepth
	}

	return &Evaluator{
		Delegate:    delegate,
		Builder:     builder,
		Cancel:      cancel,
		MaxDepth:    maxDepth,
		importCache: make(map[string]*ast.Program),
	}
}

// Evaluate runs prog's top-level statements against a fresh root context
// and returns the resulting Scene.
func (e *Evaluator) Evaluate(prog *ast.Program) (*Scene, error) {
	root := newRootContext()

	if err := e.evalStmts(root, prog.Stmts); err != nil {
		return nil, err
	}

	return &Scene{Children: root.children}, nil
}

func (e *Evaluator) evalStmts(ctx *Context, stmts []ast.Stmt) error {
	for _, s := range stmts {
		if e.Cancel != nil && e.Cancel() {
			return &diag.Error{Kind: diag.EvalAssertionFailure, Message: "Cancelled", Range: s.Range()}
		}

		if err := e.evalStmt(ctx, s); err != nil {
			return err
		}
	}

	return nil
}

// blockConsumesValues reports whether blockType has anywhere to put a value
// an *ast.ExprStmt produces. BlockPath only collects points (via the
// `point` command, not ExprStmt) and BlockPrimitive only collects property
// settings — neither has a children/return channel a bare expression
// statement's value could flow into, so producing one there is
// diag.EvalUnusedValue (spec.md §7's "a block body produces a value the
// enclosing scope cannot consume").
func blockConsumesValues(blockType symbols.BlockType) bool {
	switch blockType {
	case symbols.BlockPath, symbols.BlockPrimitive:
		return false
	default:
		return true
	}
}

func (e *Evaluator) evalStmt(ctx *Context, s ast.Stmt) error {
	switch n := s.(type) {
	case *ast.DefineStmt:
		return e.evalDefine(ctx, n)
	case *ast.OptionStmt:
		// Formal parameter declarations are consumed up front by
		// invokeCustomBlock's first pass; a bare second pass over the
		// definition body must not re-run them.
		return nil
	case *ast.CommandStmt:
		return e.evalCommand(ctx, n)
	case *ast.ForStmt:
		return e.evalFor(ctx, n)
	case *ast.IfStmt:
		return e.evalIf(ctx, n)
	case *ast.ImportStmt:
		return e.evalImport(ctx, n)
	case *ast.BlockStmt:
		inner := ctx.push(ctx.blockType, nil, false)
		if err := e.evalStmts(inner, n.Stmts); err != nil {
			return err
		}

		ctx.children = append(ctx.children, inner.children...)

		return nil
	case *ast.ExprStmt:
		val, err := e.evalExpr(ctx, n.Expr)
		if err != nil {
			return err
		}

		if !blockConsumesValues(ctx.blockType) {
			return &diag.Error{
				Kind:    diag.EvalUnusedValue,
				Message: fmt.Sprintf("a %s value has nothing to consume it inside a %s block", val.Kind, ctx.blockType),
				Range:   n.Expr.Range(),
			}
		}

		ctx.children = append(ctx.children, val)

		return nil
	default:
		return fmt.Errorf("eval: unhandled statement %T", s)
	}
}

// structuralNotAllowedErr reports that a structural statement kind (define,
// for, if, import) isn't in the current BlockType's allowed-children set
// per spec.md §4.H — e.g. a `for` loop nested inside a `cube { ... }` body.
func structuralNotAllowedErr(name string, r srcrange.Range) error {
	return &diag.Error{
		Kind:    diag.EvalUnknownSymbol,
		Message: "\"" + name + "\" is not allowed here",
		Range:   r,
	}
}

func (e *Evaluator) evalDefine(ctx *Context, n *ast.DefineStmt) error {
	if !ctx.scope.AllowsChild("define") {
		return structuralNotAllowedErr("define", n.Range())
	}

	if n.Definition.IsBlock() {
		ctx.scope.Define(symbols.Symbol{
			Kind:     symbols.BlockKind,
			Name:     n.Name,
			Block:    symbols.BlockCustomDefinition,
			Body:     n.Definition.Block,
			DefScope: ctx.scope,
		})

		return nil
	}

	v, err := e.evalExpr(ctx, n.Definition.Expr)
	if err != nil {
		return err
	}

	ctx.scope.Define(symbols.Symbol{Kind: symbols.ConstantKind, Name: n.Name, Const: v})

	return nil
}

func (e *Evaluator) evalIf(ctx *Context, n *ast.IfStmt) error {
	if !ctx.scope.AllowsChild("if") {
		return structuralNotAllowedErr("if", n.Range())
	}

	condVal, err := e.evalExpr(ctx, n.Cond)
	if err != nil {
		return err
	}

	if condVal.Kind != value.Boolean {
		return typeMismatchErr("if", "boolean", condVal.Kind.String(), n.Cond.Range())
	}

	if condVal.Bool {
		return e.runBranch(ctx, n.Body)
	}

	if n.Else == nil {
		return nil
	}

	if n.Else.ElseIf != nil {
		return e.evalIf(ctx, n.Else.ElseIf)
	}

	return e.runBranch(ctx, n.Else.ElseBlock)
}

func (e *Evaluator) runBranch(ctx *Context, stmts []ast.Stmt) error {
	branch := ctx.push(ctx.blockType, nil, false)
	if err := e.evalStmts(branch, stmts); err != nil {
		return err
	}

	ctx.children = append(ctx.children, branch.children...)

	return nil
}

func (e *Evaluator) evalFor(ctx *Context, n *ast.ForStmt) error {
	if !ctx.scope.AllowsChild("for") {
		return structuralNotAllowedErr("for", n.Range())
	}

	inVal, err := e.evalExpr(ctx, n.In)
	if err != nil {
		return err
	}

	runBody := func(elem value.Value) error {
		if e.Cancel != nil && e.Cancel() {
			return &diag.Error{Kind: diag.EvalAssertionFailure, Message: "Cancelled", Range: n.R}
		}

		// Reuses the enclosing block's own BlockType rather than a
		// separate loop-body type, so Scope.AllowsChild correctly
		// "inherits from enclosing block type" per spec.md §4.H.
		loopCtx := ctx.push(ctx.blockType, nil, false)
		if n.Index != "" {
			loopCtx.scope.Define(symbols.Symbol{Kind: symbols.ConstantKind, Name: n.Index, Const: elem})
		}

		if err := e.evalStmts(loopCtx, n.Body); err != nil {
			return err
		}

		ctx.children = append(ctx.children, loopCtx.children...)

		return nil
	}

	if inVal.Kind == value.RangeKind {
		rng := inVal.Rng
		if rng.Step == 0 {
			if rng.StepExplicit {
				return &diag.Error{Kind: diag.EvalAssertionFailure, Message: "Step value must be nonzero", Range: n.In.Range()}
			}

			// Implicit reversed range (from > to, no explicit step):
			// spec.md §4.I defines this as an empty loop, not an error
			// (§8 scenario 3: `for 3 to 1 { print 0 }` -> []).
			return nil
		}

		if rng.Step > 0 {
			for i := rng.From; i <= rng.To; i += rng.Step {
				if err := runBody(value.NumberValue(i)); err != nil {
					return err
				}
			}
		} else {
			for i := rng.From; i >= rng.To; i += rng.Step {
				if err := runBody(value.NumberValue(i)); err != nil {
					return err
				}
			}
		}

		return nil
	}

	elems := []value.Value{inVal}
	if inVal.Kind == value.Tuple {
		elems = inVal.Tup
	}

	for _, el := range elems {
		if err := runBody(el); err != nil {
			return err
		}
	}

	return nil
}
