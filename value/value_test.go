package value

import (
	"testing"

	"github.com/alecthomas/assert/v2"

	"shapescript/srcrange"
)

func TestAsColorFromScalar(t *testing.T) {
	c, err := AsColor(NumberValue(0.5), "color", srcrange.Range{})
	assert.NoError(t, err)
	assert.Equal(t, RGBA{R: 0.5, G: 0.5, B: 0.5, A: 1}, c.Col)
}

func TestAsColorFromTriple(t *testing.T) {
	tup := TupleValue([]Value{NumberValue(1), NumberValue(0), NumberValue(0)})
	c, err := AsColor(tup, "color", srcrange.Range{})
	assert.NoError(t, err)
	assert.Equal(t, RGBA{R: 1, G: 0, B: 0, A: 1}, c.Col)
}

func TestAsColorFromColorPlusAlpha(t *testing.T) {
	tup := TupleValue([]Value{ColorValue(RGBA{R: 1, G: 0, B: 0, A: 1}), NumberValue(0.2)})
	c, err := AsColor(tup, "color", srcrange.Range{})
	assert.NoError(t, err)
	assert.Equal(t, 0.2, c.Col.A)
}

func TestAsVectorLengthRules(t *testing.T) {
	v1, err := AsVector(NumberValue(2), "position", srcrange.Range{})
	assert.NoError(t, err)
	assert.Equal(t, Vec3{2, 2, 2}, v1.Vec)

	v2, err := AsVector(TupleValue([]Value{NumberValue(1), NumberValue(2)}), "position", srcrange.Range{})
	assert.NoError(t, err)
	assert.Equal(t, Vec3{1, 2, 0}, v2.Vec)
}

func TestAsVectorTypeMismatch(t *testing.T) {
	_, err := AsVector(StringValue("nope"), "position", srcrange.Range{})
	assert.Error(t, err)
}

func TestMemberVector(t *testing.T) {
	v := VectorValue(Vec3{1, 2, 3})

	x, err := Member(v, "x", srcrange.Range{})
	assert.NoError(t, err)
	assert.Equal(t, 1.0, x.Num)

	depth, err := Member(v, "depth", srcrange.Range{})
	assert.NoError(t, err)
	assert.Equal(t, 3.0, depth.Num)
}

func TestMemberUnknown(t *testing.T) {
	_, err := Member(VectorValue(Vec3{}), "nope", srcrange.Range{})
	assert.Error(t, err)
}

func TestMemberTupleOrdinal(t *testing.T) {
	tup := TupleValue([]Value{NumberValue(10), NumberValue(20), NumberValue(30)})

	third, err := Member(tup, "third", srcrange.Range{})
	assert.NoError(t, err)
	assert.Equal(t, 30.0, third.Num)
}

func TestCompareImplicitTupleInterleave(t *testing.T) {
	// [1,2,3] = [1,9]: pairs (1,1)->true, (2,9)->false, then the
	// unmatched "3" from the left passes through unchanged.
	l := TupleValue([]Value{NumberValue(1), NumberValue(2), NumberValue(3)})
	r := TupleValue([]Value{NumberValue(1), NumberValue(9)})

	out := Compare(l, false, r, false, false)
	assert.Equal(t, Tuple, out.Kind)
	elems := out.Tup
	assert.Equal(t, 3, len(elems))
	assert.Equal(t, true, elems[0].Bool)
	assert.Equal(t, false, elems[1].Bool)
	assert.Equal(t, 3.0, elems[2].Num)
}

func TestCompareExplicitTupleWhole(t *testing.T) {
	l := TupleValue([]Value{NumberValue(1), NumberValue(2), NumberValue(3)})
	r := TupleValue([]Value{NumberValue(1), NumberValue(2), NumberValue(3)})

	out := Compare(l, true, r, true, false)
	assert.Equal(t, Boolean, out.Kind)
	assert.True(t, out.Bool)
}

func TestCompareScalar(t *testing.T) {
	out := Compare(NumberValue(1), false, NumberValue(1), false, true)
	assert.Equal(t, Boolean, out.Kind)
	assert.False(t, out.Bool)
}
