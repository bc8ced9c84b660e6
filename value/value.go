// Package value implements the ShapeScript runtime value algebra: a tagged
// union over the language's concrete types, the tuple-coercion rules used
// when a block/command expects a more specific shape than was written, and
// the per-kind member lookup table consumed by MemberExpr evaluation.
package value

import (
	"fmt"

	"shapescript/diag"
	"shapescript/srcrange"
)

// Kind identifies the concrete shape a Value holds.
type Kind int

const (
	Number Kind = iota
	Boolean
	String
	Color
	Vector
	Size
	Rotation
	Texture
	Path
	Mesh
	RangeKind
	Tuple
)

func (k Kind) String() string {
	names := [...]string{
		"number", "boolean", "string", "color", "vector", "size",
		"rotation", "texture", "path", "mesh", "range", "tuple",
	}
	if int(k) < len(names) {
		return names[k]
	}

	return "unknown"
}

// Vec3 is a plain 3-component tuple reused by Vector/Size/Rotation.
type Vec3 struct{ X, Y, Z float64 }

// RGBA is a plain 4-component colour.
type RGBA struct{ R, G, B, A float64 }

// RangeValue is a `from to step` range value.
type RangeValue struct {
	From, To, Step float64

	// StepExplicit distinguishes a user-written `step 0` (an error) from
	// the implicit Step=0 a descending default range computes (an empty
	// loop, not an error).
	StepExplicit bool
}

// MeshHandle is an opaque geometry handle minted by a GeometryBuilder; the
// value package never inspects its contents.
type MeshHandle struct {
	ID    string
	Debug bool
}

// TextureRef is a texture reference by URL; PathRef holds the points a
// path block collected. value only carries them around.
type TextureRef struct{ URL string }

type PathRef struct{ Points []Vec3 }

// Value is a single ShapeScript runtime value. Exactly one field group is
// meaningful per Kind; callers must switch on Kind (or use the As* helpers)
// rather than reading fields directly.
type Value struct {
	Kind Kind

	Num  float64
	Bool bool
	Str  string
	Col  RGBA
	Vec  Vec3 // Vector, Size, Rotation all share this shape
	Tex  TextureRef
	Pth  PathRef
	Mesh MeshHandle
	Rng  RangeValue
	Tup  []Value
}

func NumberValue(n float64) Value  { return Value{Kind: Number, Num: n} }
func BoolValue(b bool) Value       { return Value{Kind: Boolean, Bool: b} }
func StringValue(s string) Value   { return Value{Kind: String, Str: s} }
func ColorValue(c RGBA) Value      { return Value{Kind: Color, Col: c} }
func VectorValue(v Vec3) Value     { return Value{Kind: Vector, Vec: v} }
func SizeValue(v Vec3) Value       { return Value{Kind: Size, Vec: v} }
func RotationValue(v Vec3) Value   { return Value{Kind: Rotation, Vec: v} }
func TextureValue(t TextureRef) Value { return Value{Kind: Texture, Tex: t} }
func PathValue(p PathRef) Value    { return Value{Kind: Path, Pth: p} }
func MeshValue(m MeshHandle) Value { return Value{Kind: Mesh, Mesh: m} }
func RangeVal(r RangeValue) Value  { return Value{Kind: RangeKind, Rng: r} }
func TupleValue(elems []Value) Value {
	if len(elems) == 1 {
		return elems[0]
	}

	return Value{Kind: Tuple, Tup: elems}
}

// Len returns how many scalar elements a value would occupy when flattened
// into a tuple (used by the length-based coercion rules in AsColor/AsSize/
// AsVector/AsRotation).
func (v Value) Len() int {
	if v.Kind == Tuple {
		return len(v.Tup)
	}

	return 1
}

// elems returns v's constituent values: itself for a scalar, Tup for a tuple.
func (v Value) elems() []Value {
	if v.Kind == Tuple {
		return v.Tup
	}

	return []Value{v}
}

func typeMismatch(forName string, index int, expected, got string, r srcrange.Range) error {
	return &diag.Error{
		Kind:    diag.EvalTypeMismatch,
		Message: fmt.Sprintf("type mismatch for %s: expected %s, got %s", forName, expected, got),
		Range:   r,
	}
}

// AsScalar coerces v to a single number. A length-1 tuple unwraps; anything
// else of non-Number kind is a type mismatch.
func AsScalar(v Value, forName string, r srcrange.Range) (Value, error) {
	if v.Kind == Tuple && len(v.Tup) == 1 {
		v = v.Tup[0]
	}

	if v.Kind != Number {
		return Value{}, typeMismatch(forName, 0, "number", v.Kind.String(), r)
	}

	return v, nil
}

// AsColor coerces v to a Color per spec.md §4.G: length 1 → gray, length 2
// → (gray, alpha), length 3 → (r,g,b,1), length 4 → (r,g,b,a); a tuple whose
// first element is already a Color is read as (color, alpha).
func AsColor(v Value, forName string, r srcrange.Range) (Value, error) {
	if v.Kind == Color {
		return v, nil
	}

	es := v.elems()

	if len(es) >= 1 && es[0].Kind == Color && len(es) <= 2 {
		c := es[0].Col
		if len(es) == 2 {
			a, err := AsScalar(es[1], forName, r)
			if err != nil {
				return Value{}, err
			}

			c.A = a.Num
		}

		return ColorValue(c), nil
	}

	nums := make([]float64, 0, len(es))

	for _, e := range es {
		n, err := AsScalar(e, forName, r)
		if err != nil {
			return Value{}, typeMismatch(forName, 0, "color", v.Kind.String(), r)
		}

		nums = append(nums, n.Num)
	}

	switch len(nums) {
	case 1:
		return ColorValue(RGBA{R: nums[0], G: nums[0], B: nums[0], A: 1}), nil
	case 2:
		return ColorValue(RGBA{R: nums[0], G: nums[0], B: nums[0], A: nums[1]}), nil
	case 3:
		return ColorValue(RGBA{R: nums[0], G: nums[1], B: nums[2], A: 1}), nil
	case 4:
		return ColorValue(RGBA{R: nums[0], G: nums[1], B: nums[2], A: nums[3]}), nil
	default:
		return Value{}, typeMismatch(forName, 0, "color", v.Kind.String(), r)
	}
}

// AsSize coerces v to a Size per spec.md §4.G: length 1 → (n,n,n), length 2
// → (w,h,0), length 3 → (w,h,d).
func AsSize(v Value, forName string, r srcrange.Range) (Value, error) {
	return asVec3(v, Size, forName, r)
}

// AsVector coerces v to a Vector (length 1 → (n,n,n), length 2 → (x,y,0),
// length 3 → (x,y,z)).
func AsVector(v Value, forName string, r srcrange.Range) (Value, error) {
	return asVec3(v, Vector, forName, r)
}

// AsRotation coerces v to a Rotation, same length rules as AsVector.
func AsRotation(v Value, forName string, r srcrange.Range) (Value, error) {
	return asVec3(v, Rotation, forName, r)
}

func asVec3(v Value, kind Kind, forName string, r srcrange.Range) (Value, error) {
	if v.Kind == kind {
		return v, nil
	}

	if v.Kind == Vector || v.Kind == Size || v.Kind == Rotation {
		return Value{Kind: kind, Vec: v.Vec}, nil
	}

	es := v.elems()
	nums := make([]float64, 0, len(es))

	for _, e := range es {
		n, err := AsScalar(e, forName, r)
		if err != nil {
			return Value{}, typeMismatch(forName, 0, kind.String(), v.Kind.String(), r)
		}

		nums = append(nums, n.Num)
	}

	var vec Vec3

	switch len(nums) {
	case 1:
		vec = Vec3{nums[0], nums[0], nums[0]}
	case 2:
		vec = Vec3{nums[0], nums[1], 0}
	case 3:
		vec = Vec3{nums[0], nums[1], nums[2]}
	default:
		return Value{}, typeMismatch(forName, 0, kind.String(), v.Kind.String(), r)
	}

	return Value{Kind: kind, Vec: vec}, nil
}
