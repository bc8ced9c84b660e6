// Package shapescript is the embedder-facing surface: parsing a source
// file in either dialect down to a single primary-dialect ast.Program, and
// evaluating that program against a caller-supplied Delegate and
// GeometryBuilder. The Delegate/GeometryBuilder/BuildRequest/Scene types
// are implemented in package eval (which the evaluator itself depends on)
// and re-exported here as aliases, per spec.md §6's embedder API.
package shapescript

import (
	"fmt"

	"shapescript/ast"
	"shapescript/lowering"
	"shapescript/parser"
	"shapescript/scadparser"
)

// Parse parses source as dialect (DetectDialect(fileURL) when dialect is
// empty), lowering an OpenSCAD-dialect program into primary-dialect AST.
// The returned Program is always primary-dialect, ready for Evaluate.
func Parse(source, fileURL string, dialect Dialect) (*ast.Program, error) {
	if dialect == "" {
		dialect = DetectDialect(fileURL)
	}

	switch dialect {
	case DialectShapeScript:
		return parser.Parse(source, fileURL)
	case DialectOpenSCAD:
		scadProg, err := scadparser.Parse(source, fileURL)
		if err != nil {
			return nil, err
		}

		return lowering.Lower(scadProg)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDialect, dialect)
	}
}
