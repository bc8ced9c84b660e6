package eval

import "shapescript/value"

// Delegate is the embedder-supplied host for effects the evaluator cannot
// perform itself: resolving and reading import paths, building geometry
// for non-ShapeScript import targets, and surfacing print/debug output.
//
// ResolveURL and ImportGeometry correspond directly to spec.md §6's
// `resolve_url`/`import_geometry` delegate calls. ReadSource is a
// necessary supplement the distilled spec is silent on: importing a
// `.shape` file requires its source text to parse and evaluate in a
// nested context, and nothing else in the three-method surface can
// provide those bytes (see DESIGN.md).
type Delegate interface {
	ResolveURL(path string) (string, error)
	ReadSource(url string) (string, error)
	ImportGeometry(url string) (value.Value, error)
	DebugLog(values []value.Value)
}

// BuildRequest is everything a GeometryBuilder needs to mint one geometry
// handle for a single block invocation: its tag (the built-in name, e.g.
// "cube" or "union"), the cumulative transform and material state, the
// child values collected inside its body, and (for path-consuming builder
// blocks) the path the geometry is built along.
type BuildRequest struct {
	Tag       string
	Transform Transform
	Material  Material
	Children  []value.Value
	Along     *value.PathRef
}

// GeometryBuilder turns one BuildRequest into an opaque geometry handle.
// spec.md §6 enumerates the tags an embedder must recognize: cone,
// cylinder, sphere, cube, extrude, lathe, loft, fill, union, difference,
// intersection, xor, stencil, path, mesh.
type GeometryBuilder interface {
	Build(req BuildRequest) (value.MeshHandle, error)
}
