// Package symbols implements the layered ShapeScript symbol table: the
// built-in constant/command/property/block entries available at the root
// scope, and the per-block-type allowed-children rules from spec.md §4.H.
//
// Symbol only records what a name IS (a constant's value, a command's or
// property's expected value kind, a block's BlockType); the behavior that
// kind of name triggers — setting the live context's color, invoking a
// geometry builder, appending to the print log — is dispatched centrally
// by eval against its own running context, keyed by name. That keeps this
// package free of any dependency on the live evaluation state.
package symbols

import (
	"shapescript/ast"
	"shapescript/value"
)

// Kind distinguishes the four shapes a Symbol can take.
type Kind int

const (
	ConstantKind Kind = iota
	CommandKind
	PropertyKind
	BlockKind
)

// BlockType closes the enumeration of block shapes a block(...) symbol can
// build, each with its own allowed-children set (spec.md §4.H table).
type BlockType int

const (
	BlockRoot BlockType = iota
	BlockGroup
	BlockPrimitive
	BlockBuilder
	BlockCSG
	BlockCustomDefinition
	BlockPath
	BlockLoopBody
)

func (t BlockType) String() string {
	names := [...]string{
		"root", "group", "primitive", "builder", "csg", "custom-definition", "path", "loop-body",
	}
	if int(t) < len(names) {
		return names[t]
	}

	return "unknown"
}

// Symbol is a single entry in a Scope.
type Symbol struct {
	Kind Kind
	Name string

	Const value.Value // ConstantKind

	ExpectedType string // CommandKind / PropertyKind: the value.Kind name args coerce to

	Block BlockType // BlockKind

	// Body and DefScope are set only for a user `define name { ... }` block
	// symbol: Body is the static statement list (data, not behavior), and
	// DefScope is the scope chain active at the point of definition, so a
	// later invocation re-enters lexically rather than over the caller's
	// scope. Neither captures live evaluator state (transform, material,
	// RNG) — that still comes from whatever context eval pushes at the
	// invocation site.
	Body     []ast.Stmt
	DefScope *Scope
}

// Scope is one layer of the symbol table: a local set of definitions plus
// a link to the enclosing (outer) layer. Lookup walks outward to the root.
type Scope struct {
	BlockType BlockType
	entries   map[string]Symbol
	outer     *Scope
}

// NewScope creates a child scope of outer with the given block type. outer
// may be nil only for the root scope built by Root().
func NewScope(blockType BlockType, outer *Scope) *Scope {
	return &Scope{BlockType: blockType, entries: make(map[string]Symbol), outer: outer}
}

// Define adds sym to the local layer only, per spec.md §4.H ("define
// inside a block adds only to the local layer"). A built-in such as
// `color` can be shadowed this way.
func (s *Scope) Define(sym Symbol) {
	s.entries[sym.Name] = sym
}

// Lookup resolves name in the local layer first, then each outer layer up
// to the root built-ins.
func (s *Scope) Lookup(name string) (Symbol, bool) {
	for sc := s; sc != nil; sc = sc.outer {
		if sym, ok := sc.entries[name]; ok {
			return sym, true
		}
	}

	return Symbol{}, false
}

// Names returns every name visible from s (local and outer layers),
// deduplicated, for use as Levenshtein-suggestion candidates.
func (s *Scope) Names() []string {
	seen := make(map[string]bool)

	var names []string

	for sc := s; sc != nil; sc = sc.outer {
		for name := range sc.entries {
			if !seen[name] {
				seen[name] = true

				names = append(names, name)
			}
		}
	}

	return names
}

// AllowsChild reports whether childName is a permitted child symbol (or, for
// "define"/"for"/"if"/"import", a permitted nested statement kind) of the
// current scope's BlockType. This is a true allow-list over the closed
// table in spec.md §4.H — every BlockType enumerates exactly what it
// accepts, rather than defaulting unlisted names to allowed, so e.g. `print`
// or a nested `cube { ... }` inside a `cube { ... }` body is rejected just
// like the table says, not silently let through.
func (s *Scope) AllowsChild(childName string) bool {
	isBlockName := IsPrimitive(childName) || IsBuilder(childName) || IsPath(childName) || IsCSG(childName) || childName == "group"

	// A user `define`d block has no static name to match against; treat it
	// like any other built-in block name (invocable wherever scene
	// assembly happens, not inside a primitive/builder/path body), since
	// it's the same BlockKind/block(block_type, builder) symbol shape.
	if !isBlockName {
		if sym, ok := s.Lookup(childName); ok && sym.Kind == BlockKind && sym.Block == BlockCustomDefinition {
			isBlockName = true
		}
	}

	isTransformProp := childName == "orientation" || childName == "size"
	isMaterialProp := childName == "color" || childName == "texture" || childName == "detail" || childName == "font" || childName == "opacity"
	isBuiltinCommand := childName == "print" || childName == "debug" || contains(mathCommands, childName)
	isStructural := childName == "define" || childName == "for" || childName == "if" || childName == "import"

	switch s.BlockType {
	case BlockRoot:
		return isBlockName || isTransformProp || isMaterialProp || isBuiltinCommand || isStructural
	case BlockGroup:
		return isBlockName || childName == "name" || childName == "position" ||
			isTransformProp || isMaterialProp || isBuiltinCommand || isStructural
	case BlockPrimitive:
		return childName == "name" || childName == "position" || isTransformProp || isMaterialProp
	case BlockBuilder:
		return childName == "along" || IsPath(childName) ||
			childName == "name" || childName == "position" || isTransformProp || isMaterialProp
	case BlockCSG:
		return isBlockName || childName == "name" || childName == "position" ||
			isTransformProp || isMaterialProp || isBuiltinCommand || isStructural
	case BlockCustomDefinition:
		return childName == "option" ||
			isBlockName || isTransformProp || isMaterialProp || isBuiltinCommand || isStructural
	case BlockPath:
		return childName == "point"
	default: // BlockLoopBody is never itself pushed; evalFor reuses the enclosing BlockType.
		return false
	}
}
