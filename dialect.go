package shapescript

import "strings"

// Dialect selects which front end a source file parses with: the primary
// ShapeScript grammar, or the secondary OpenSCAD-compatible grammar that
// is lowered into primary-dialect AST before evaluation.
type Dialect string

const (
	DialectShapeScript Dialect = "shapescript"
	DialectOpenSCAD    Dialect = "openscad"
)

// DetectDialect picks a Dialect from a file's extension: ".scad" selects
// the OpenSCAD front end, anything else (".shape" included) the primary
// ShapeScript one.
func DetectDialect(fileURL string) Dialect {
	if strings.HasSuffix(fileURL, ".scad") {
		return DialectOpenSCAD
	}

	return DialectShapeScript
}
