package shapescript

import "errors"

// Common errors used throughout the ShapeScript package
var (
	// ErrConfigFileNotFound indicates a configuration file could not be located.
	// Config errors
	ErrConfigFileNotFound = errors.New("configuration file not found")
	// ErrConfigValidation is returned when configuration validation fails.
	ErrConfigValidation = errors.New("configuration validation failed")

	// ErrUnsupportedDialect indicates Parse was given a Dialect value other
	// than DialectShapeScript or DialectOpenSCAD.
	// Dialect errors
	ErrUnsupportedDialect = errors.New("unsupported source dialect")

	// ErrNoDelegate indicates Evaluate was called without a Delegate.
	// Evaluation errors
	ErrNoDelegate = errors.New("evaluator requires a delegate")
	// ErrNoGeometryBuilder indicates Evaluate was called without a GeometryBuilder.
	ErrNoGeometryBuilder = errors.New("evaluator requires a geometry builder")

	// ErrImportNotResolved indicates the delegate could not resolve an import path.
	// Import errors
	ErrImportNotResolved = errors.New("import path could not be resolved")
	// ErrImportCycle indicates an import graph referenced itself.
	ErrImportCycle = errors.New("import cycle detected")
)
