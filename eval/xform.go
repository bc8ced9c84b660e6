package eval

import "shapescript/value"

// Transform is the cumulative position/orientation/size a block carries
// into its geometry builder call. Composition is componentwise rather than
// matrix multiplication: the polygon/mesh math that would make orientation
// and position interact (rotating a translated child around its parent's
// origin) is out of scope here, so Orientation and Position simply add and
// Size multiplies. Embedders that need true affine composition derive it
// themselves from these three vectors in GeometryBuilder.Build.
type Transform struct {
	Position    value.Vec3
	Orientation value.Vec3
	Size        value.Vec3
}

func identityTransform() Transform {
	return Transform{Size: value.Vec3{X: 1, Y: 1, Z: 1}}
}

func addVec3(a, b value.Vec3) value.Vec3 {
	return value.Vec3{X: a.X + b.X, Y: a.Y + b.Y, Z: a.Z + b.Z}
}

func mulVec3(a, b value.Vec3) value.Vec3 {
	return value.Vec3{X: a.X * b.X, Y: a.Y * b.Y, Z: a.Z * b.Z}
}

// compose folds local on top of base: positions/orientations add, sizes
// multiply. Used both to seed a pushed child's base transform and to build
// the transform argument passed to GeometryBuilder.Build.
func compose(base, local Transform) Transform {
	return Transform{
		Position:    addVec3(base.Position, local.Position),
		Orientation: addVec3(base.Orientation, local.Orientation),
		Size:        mulVec3(base.Size, local.Size),
	}
}

// Material is the material/text state a block carries, copied by value at
// push time (simple inheritance) and then overwritten in place by property
// commands (read/write, not compositional, per spec.md §4.I).
type Material struct {
	Color   value.RGBA
	Texture value.TextureRef
	Detail  int
	Font    string
	Opacity float64
	Name    string
}

func defaultMaterial() Material {
	return Material{
		Color:   value.RGBA{R: 1, G: 1, B: 1, A: 1},
		Detail:  16,
		Opacity: 1,
	}
}
