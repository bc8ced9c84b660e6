package eval

import (
	"fmt"
	"math"

	"shapescript/ast"
	"shapescript/diag"
	"shapescript/srcrange"
	"shapescript/symbols"
	"shapescript/value"
)

func unknownSymbolErr(name string, r srcrange.Range, candidates []string) error {
	return &diag.Error{
		Kind:       diag.EvalUnknownSymbol,
		Message:    fmt.Sprintf("unknown symbol %q", name),
		Suggestion: diag.Suggest(name, candidates),
		Range:      r,
	}
}

func typeMismatchErr(forName, expected, got string, r srcrange.Range) error {
	return &diag.Error{
		Kind:    diag.EvalTypeMismatch,
		Message: fmt.Sprintf("type mismatch for %s: expected %s, got %s", forName, expected, got),
		Range:   r,
	}
}

func missingArgumentErr(name string, index int, expected string, r srcrange.Range) error {
	return &diag.Error{
		Kind:    diag.EvalMissingArgument,
		Message: fmt.Sprintf("missing argument %d for %s (expected %s)", index, name, expected),
		Range:   r,
	}
}

func unexpectedArgumentErr(name string, max int, r srcrange.Range) error {
	return &diag.Error{
		Kind:    diag.EvalUnexpectedArgument,
		Message: fmt.Sprintf("too many arguments for %s (expected at most %d)", name, max),
		Range:   r,
	}
}

// commandArity is how many following expressions a bare command-symbol
// identifier consumes when it appears mid implicit-sequence (spec.md §8
// scenario 1: `print cos pi` folds `cos pi` into one argument of `print`).
func commandArity(name string) int {
	switch name {
	case "cos", "sin", "tan", "asin", "acos", "atan", "sqrt", "abs", "floor", "ceil", "round":
		return 1
	case "min", "max":
		return 2
	default:
		return 0
	}
}

// reduceImplicitSequence evaluates a juxtaposed sequence of expressions
// left to right, folding a command-kind identifier together with the
// following expressions its arity consumes into a single result. This is
// the one mechanism behind both CommandStmt.Args and an implicit TupleExpr
// (ast.TupleExpr{Explicit: false}): both are juxtaposed sequences.
func (e *Evaluator) reduceImplicitSequence(ctx *Context, exprs []ast.Expr) ([]value.Value, error) {
	var out []value.Value

	i := 0
	for i < len(exprs) {
		if id, ok := exprs[i].(*ast.IdentifierExpr); ok {
			if sym, found := ctx.scope.Lookup(id.Name); found && sym.Kind == symbols.CommandKind {
				arity := commandArity(sym.Name)
				end := i + 1 + arity

				if end > len(exprs) {
					end = len(exprs)
				}

				argExprs := exprs[i+1 : end]

				args := make([]value.Value, 0, len(argExprs))

				for _, a := range argExprs {
					v, err := e.evalExpr(ctx, a)
					if err != nil {
						return nil, err
					}

					args = append(args, v)
				}

				result, err := e.callCommandFn(ctx, sym.Name, args, id.R)
				if err != nil {
					return nil, err
				}

				out = append(out, result)
				i += 1 + len(argExprs)

				continue
			}
		}

		v, err := e.evalExpr(ctx, exprs[i])
		if err != nil {
			return nil, err
		}

		out = append(out, v)
		i++
	}

	return out, nil
}

var unaryMathFns = map[string]func(float64) float64{
	"cos":   math.Cos,
	"sin":   math.Sin,
	"tan":   math.Tan,
	"asin":  math.Asin,
	"acos":  math.Acos,
	"atan":  math.Atan,
	"sqrt":  math.Sqrt,
	"abs":   math.Abs,
	"floor": math.Floor,
	"ceil":  math.Ceil,
	"round": math.Round,
}

// callCommandFn invokes a CommandKind built-in by name against already
// evaluated arguments (math/std, per spec.md §4.H's "command(number, fn)"
// shape) or random, which draws from ctx's RNG stream.
func (e *Evaluator) callCommandFn(ctx *Context, name string, args []value.Value, r srcrange.Range) (value.Value, error) {
	if fn, ok := unaryMathFns[name]; ok {
		if len(args) < 1 {
			return value.Value{}, missingArgumentErr(name, 0, "number", r)
		}

		if len(args) > 1 {
			return value.Value{}, unexpectedArgumentErr(name, 1, r)
		}

		n, err := value.AsScalar(args[0], name, r)
		if err != nil {
			return value.Value{}, err
		}

		return value.NumberValue(fn(n.Num)), nil
	}

	switch name {
	case "min", "max":
		if len(args) < 2 {
			return value.Value{}, missingArgumentErr(name, len(args), "number", r)
		}

		if len(args) > 2 {
			return value.Value{}, unexpectedArgumentErr(name, 2, r)
		}

		a, err := value.AsScalar(args[0], name, r)
		if err != nil {
			return value.Value{}, err
		}

		b, err := value.AsScalar(args[1], name, r)
		if err != nil {
			return value.Value{}, err
		}

		if name == "min" {
			return value.NumberValue(math.Min(a.Num, b.Num)), nil
		}

		return value.NumberValue(math.Max(a.Num, b.Num)), nil
	case "random":
		if len(args) > 0 {
			return value.Value{}, unexpectedArgumentErr(name, 0, r)
		}

		return value.NumberValue(ctx.rng.nextFloat()), nil
	default:
		return value.Value{}, fmt.Errorf("eval: unknown command %q", name)
	}
}

func (e *Evaluator) evalCommand(ctx *Context, n *ast.CommandStmt) error {
	sym, ok := ctx.scope.Lookup(n.Name)
	if !ok {
		return unknownSymbolErr(n.Name, n.NameRange, ctx.scope.Names())
	}

	if sym.Kind != symbols.ConstantKind && !ctx.scope.AllowsChild(n.Name) {
		return &diag.Error{
			Kind:    diag.EvalUnknownSymbol,
			Message: fmt.Sprintf("%q is not allowed here", n.Name),
			Range:   n.NameRange,
		}
	}

	args, err := e.reduceImplicitSequence(ctx, n.Args)
	if err != nil {
		return err
	}

	switch sym.Kind {
	case symbols.PropertyKind:
		return e.applyProperty(ctx, sym, value.TupleValue(args), n.R)
	case symbols.CommandKind:
		switch n.Name {
		case "print":
			e.Delegate.DebugLog(args)
			return nil
		case "debug":
			e.Delegate.DebugLog(args)
			ctx.debug = true

			return nil
		case "point":
			vec, err := value.AsVector(value.TupleValue(args), "point", n.R)
			if err != nil {
				return err
			}

			ctx.points = append(ctx.points, vec.Vec)

			return nil
		default:
			v, err := e.callCommandFn(ctx, n.Name, args, n.R)
			if err != nil {
				return err
			}

			ctx.children = append(ctx.children, v)

			return nil
		}
	case symbols.ConstantKind:
		ctx.children = append(ctx.children, sym.Const)
		return nil
	case symbols.BlockKind:
		if len(args) > 0 {
			return unexpectedArgumentErr(n.Name, 0, n.R)
		}

		v, err := e.evalBlockExpr(ctx, &ast.BlockExpr{Base: n.Base, Name: n.Name, NameRange: n.NameRange})
		if err != nil {
			return err
		}

		ctx.children = append(ctx.children, v)

		return nil
	default:
		return fmt.Errorf("eval: %q is not invocable as a command", n.Name)
	}
}

// applyProperty overwrites ctx's transform/material state from a property
// command's coerced argument. Properties are read/write, not compositional:
// repeated `position ...` commands in the same block overwrite, they do
// not accumulate.
func (e *Evaluator) applyProperty(ctx *Context, sym symbols.Symbol, v value.Value, r srcrange.Range) error {
	switch sym.Name {
	case "position":
		vec, err := value.AsVector(v, "position", r)
		if err != nil {
			return err
		}

		ctx.local.Position = vec.Vec
	case "orientation":
		vec, err := value.AsRotation(v, "orientation", r)
		if err != nil {
			return err
		}

		ctx.local.Orientation = vec.Vec
	case "size":
		vec, err := value.AsSize(v, "size", r)
		if err != nil {
			return err
		}

		ctx.local.Size = vec.Vec
	case "color":
		col, err := value.AsColor(v, "color", r)
		if err != nil {
			return err
		}

		ctx.mat.Color = col.Col
	case "texture":
		switch v.Kind {
		case value.String:
			ctx.mat.Texture = value.TextureRef{URL: v.Str}
		case value.Texture:
			ctx.mat.Texture = v.Tex
		default:
			return typeMismatchErr("texture", "string", v.Kind.String(), r)
		}
	case "detail":
		n, err := value.AsScalar(v, "detail", r)
		if err != nil {
			return err
		}

		ctx.mat.Detail = int(n.Num)
	case "font":
		if v.Kind != value.String {
			return typeMismatchErr("font", "string", v.Kind.String(), r)
		}

		ctx.mat.Font = v.Str
	case "opacity":
		n, err := value.AsScalar(v, "opacity", r)
		if err != nil {
			return err
		}

		ctx.mat.Opacity = n.Num
	case "name":
		if v.Kind != value.String {
			return typeMismatchErr("name", "string", v.Kind.String(), r)
		}

		ctx.mat.Name = v.Str
	case "along":
		if v.Kind != value.Path {
			return typeMismatchErr("along", "path", v.Kind.String(), r)
		}

		pth := v.Pth
		ctx.along = &pth
	}

	return nil
}

// readProperty reads back a property's current value (spec.md §8 scenario
// 2: `color 1 0 0` then `print color` logs the color just set).
func (e *Evaluator) readProperty(ctx *Context, sym symbols.Symbol) value.Value {
	switch sym.Name {
	case "position":
		return value.VectorValue(ctx.local.Position)
	case "orientation":
		return value.RotationValue(ctx.local.Orientation)
	case "size":
		return value.SizeValue(ctx.local.Size)
	case "color":
		return value.ColorValue(ctx.mat.Color)
	case "texture":
		return value.TextureValue(ctx.mat.Texture)
	case "detail":
		return value.NumberValue(float64(ctx.mat.Detail))
	case "font":
		return value.StringValue(ctx.mat.Font)
	case "opacity":
		return value.NumberValue(ctx.mat.Opacity)
	case "name":
		return value.StringValue(ctx.mat.Name)
	case "along":
		if ctx.along != nil {
			return value.PathValue(*ctx.along)
		}

		return value.Value{}
	default:
		return value.Value{}
	}
}
