package symbols

import "shapescript/value"

var namedColors = map[string]value.RGBA{
	"white":   {R: 1, G: 1, B: 1, A: 1},
	"black":   {R: 0, G: 0, B: 0, A: 1},
	"gray":    {R: 0.5, G: 0.5, B: 0.5, A: 1},
	"red":     {R: 1, G: 0, B: 0, A: 1},
	"green":   {R: 0, G: 1, B: 0, A: 1},
	"blue":    {R: 0, G: 0, B: 1, A: 1},
	"yellow":  {R: 1, G: 1, B: 0, A: 1},
	"cyan":    {R: 0, G: 1, B: 1, A: 1},
	"magenta": {R: 1, G: 0, B: 1, A: 1},
	"orange":  {R: 1, G: 0.5, B: 0, A: 1},
}

var primitiveBlocks = []string{"cube", "sphere", "cylinder", "cone"}

var builderBlocks = []string{"extrude", "lathe", "loft", "fill"}

var pathBlocks = []string{"circle", "square", "path"}

var csgBlocks = []string{"union", "difference", "intersection", "xor", "stencil"}

// mathCommands are command(number, fn) built-ins: a bare juxtaposed call
// like `cos pi` (spec.md §8 scenario 1), resolved by eval against math/std.
var mathCommands = []string{
	"cos", "sin", "tan", "asin", "acos", "atan", "sqrt",
	"abs", "floor", "ceil", "round", "min", "max", "random",
}

var transformProperties = map[string]string{
	"position":    "vector",
	"orientation": "rotation",
	"size":        "size",
	"color":       "color",
	"texture":     "texture",
	"detail":      "number",
	"font":        "string",
	"opacity":     "number",
	"name":        "string",
	"along":       "path",
}

// Root builds the built-in root scope: named colours and pi as constants,
// the primitive/builder/path/CSG/group block shapes, and the transform and
// material properties listed in spec.md §4.H.
func Root() *Scope {
	root := NewScope(BlockRoot, nil)

	root.Define(Symbol{Kind: ConstantKind, Name: "pi", Const: value.NumberValue(3.141592653589793)})
	root.Define(Symbol{Kind: ConstantKind, Name: "true", Const: value.BoolValue(true)})
	root.Define(Symbol{Kind: ConstantKind, Name: "false", Const: value.BoolValue(false)})

	for name, c := range namedColors {
		root.Define(Symbol{Kind: ConstantKind, Name: name, Const: value.ColorValue(c)})
	}

	for _, name := range primitiveBlocks {
		root.Define(Symbol{Kind: BlockKind, Name: name, Block: BlockPrimitive})
	}

	for _, name := range builderBlocks {
		root.Define(Symbol{Kind: BlockKind, Name: name, Block: BlockBuilder})
	}

	for _, name := range pathBlocks {
		root.Define(Symbol{Kind: BlockKind, Name: name, Block: BlockPath})
	}

	for _, name := range csgBlocks {
		root.Define(Symbol{Kind: BlockKind, Name: name, Block: BlockCSG})
	}

	root.Define(Symbol{Kind: BlockKind, Name: "group", Block: BlockGroup})

	for name, t := range transformProperties {
		root.Define(Symbol{Kind: PropertyKind, Name: name, ExpectedType: t})
	}

	root.Define(Symbol{Kind: CommandKind, Name: "print", ExpectedType: "tuple"})
	root.Define(Symbol{Kind: CommandKind, Name: "debug", ExpectedType: "tuple"})

	// point is the one path command a `circle`/`square`/`path` block body
	// may contain (spec.md §4.H's "path points and path commands"); eval
	// collects it into the block's PathRef instead of appending to children.
	root.Define(Symbol{Kind: CommandKind, Name: "point", ExpectedType: "vector"})

	for _, name := range mathCommands {
		root.Define(Symbol{Kind: CommandKind, Name: name, ExpectedType: "number"})
	}

	return root
}

// IsPrimitive, IsBuilder, IsPath, IsCSG report whether name is one of the
// closed built-in names of that shape, used by eval/lowering to branch on
// exact geometry kind without re-deriving it from BlockType alone (several
// BlockTypes share names differing only by kind, e.g. "extrude" vs "cube").
func IsPrimitive(name string) bool { return contains(primitiveBlocks, name) }
func IsBuilder(name string) bool   { return contains(builderBlocks, name) }
func IsPath(name string) bool      { return contains(pathBlocks, name) }
func IsCSG(name string) bool       { return contains(csgBlocks, name) }

func contains(list []string, name string) bool {
	for _, n := range list {
		if n == name {
			return true
		}
	}

	return false
}
