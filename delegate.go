package shapescript

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"shapescript/eval"
	"shapescript/value"
)

// Delegate, GeometryBuilder, BuildRequest, Transform, Material and Scene
// are defined in package eval (which needs them for its own function
// signatures) and re-exported here so embedders only ever import the root
// package, matching the embedder surface table in spec.md §6.
type (
	Delegate        = eval.Delegate
	GeometryBuilder = eval.GeometryBuilder
	BuildRequest    = eval.BuildRequest
	Transform       = eval.Transform
	Material        = eval.Material
	Scene           = eval.Scene
)

// FileDelegate is the default Delegate: it resolves import paths against
// a fixed list of search roots (Config.ImportPaths) and reads them
// straight off disk. Non-.shape imports fail with ErrImportNotResolved,
// since turning an arbitrary file into geometry is necessarily
// embedder-specific (spec.md §6 leaves import_geometry's decoding to the
// delegate).
type FileDelegate struct {
	SearchPaths []string
	Log         []value.Value

	visiting map[string]bool
}

// NewFileDelegate builds a FileDelegate searching searchPaths in order.
func NewFileDelegate(searchPaths []string) *FileDelegate {
	return &FileDelegate{SearchPaths: searchPaths, visiting: make(map[string]bool)}
}

func (d *FileDelegate) ResolveURL(path string) (string, error) {
	if filepath.IsAbs(path) {
		if fileExists(path) {
			return path, nil
		}

		return "", fmt.Errorf("%w: %s", ErrImportNotResolved, path)
	}

	for _, root := range d.SearchPaths {
		candidate := filepath.Join(root, path)
		if fileExists(candidate) {
			return candidate, nil
		}
	}

	return "", fmt.Errorf("%w: %s", ErrImportNotResolved, path)
}

func (d *FileDelegate) ReadSource(url string) (string, error) {
	if d.visiting[url] {
		return "", fmt.Errorf("%w: %s", ErrImportCycle, url)
	}

	d.visiting[url] = true
	defer delete(d.visiting, url)

	data, err := os.ReadFile(url)
	if err != nil {
		return "", err
	}

	return string(data), nil
}

func (d *FileDelegate) ImportGeometry(url string) (value.Value, error) {
	return value.Value{}, fmt.Errorf("%w: %s (FileDelegate only evaluates .shape imports)", ErrImportNotResolved, url)
}

func (d *FileDelegate) DebugLog(values []value.Value) {
	d.Log = append(d.Log, values...)
}

// StubBuilder is a GeometryBuilder that mints an opaque handle per call,
// identified by a fresh UUID, without doing any real geometry construction.
// The CLI's `eval` subcommand uses it to drive the evaluator without
// rendering a scene.
type StubBuilder struct{}

func (StubBuilder) Build(req eval.BuildRequest) (value.MeshHandle, error) {
	return value.MeshHandle{ID: req.Tag + "-" + uuid.NewString()}, nil
}
