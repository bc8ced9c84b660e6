package eval

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shapescript/diag"
	"shapescript/parser"
	"shapescript/testhelper"
	"shapescript/value"
)

type fakeDelegate struct {
	logs [][]value.Value
}

func (d *fakeDelegate) ResolveURL(path string) (string, error)       { return path, nil }
func (d *fakeDelegate) ReadSource(url string) (string, error)        { return "", nil }
func (d *fakeDelegate) ImportGeometry(url string) (value.Value, error) {
	return value.Value{}, nil
}
func (d *fakeDelegate) DebugLog(values []value.Value) {
	d.logs = append(d.logs, values)
}

type fakeBuilder struct {
	requests []BuildRequest
}

func (b *fakeBuilder) Build(req BuildRequest) (value.MeshHandle, error) {
	b.requests = append(b.requests, req)
	return value.MeshHandle{ID: req.Tag}, nil
}

func run(t *testing.T, src string) (*Scene, *fakeDelegate, *fakeBuilder, error) {
	t.Helper()

	prog, err := parser.Parse(src, "")
	require.NoError(t, err)

	delegate := &fakeDelegate{}
	builder := &fakeBuilder{}
	ev := NewEvaluator(delegate, builder, nil, 0)

	scene, err := ev.Evaluate(prog)

	return scene, delegate, builder, err
}

func TestPrintCosPiFoldsCommandArg(t *testing.T) {
	_, delegate, _, err := run(t, "print cos pi")
	require.NoError(t, err)
	require.Len(t, delegate.logs, 1)
	require.Len(t, delegate.logs[0], 1)
	assert.InDelta(t, math.Cos(math.Pi), delegate.logs[0][0].Num, 1e-9)
}

func TestColorSetThenReadBack(t *testing.T) {
	_, delegate, _, err := run(t, "color 1 0 0\nprint color")
	require.NoError(t, err)
	require.Len(t, delegate.logs, 1)
	require.Len(t, delegate.logs[0], 1)
	assert.Equal(t, value.RGBA{R: 1, G: 0, B: 0, A: 1}, delegate.logs[0][0].Col)
}

func TestColorByName(t *testing.T) {
	_, delegate, _, err := run(t, "color red\nprint color")
	require.NoError(t, err)
	assert.Equal(t, value.RGBA{R: 1, G: 0, B: 0, A: 1}, delegate.logs[0][0].Col)
}

func TestColorNameWithAlpha(t *testing.T) {
	_, delegate, _, err := run(t, "color red 0.5\nprint color")
	require.NoError(t, err)
	assert.Equal(t, value.RGBA{R: 1, G: 0, B: 0, A: 0.5}, delegate.logs[0][0].Col)
}

func TestForOverRangeRunsBodyPerValue(t *testing.T) {
	scene, delegate, _, err := run(t, "for i in 1 to 3 {\nprint i\n}")
	require.NoError(t, err)
	require.Len(t, delegate.logs, 3)
	assert.Equal(t, 1.0, delegate.logs[0][0].Num)
	assert.Equal(t, 2.0, delegate.logs[1][0].Num)
	assert.Equal(t, 3.0, delegate.logs[2][0].Num)
	assert.Empty(t, scene.Children)
}

func TestForOverExplicitTuple(t *testing.T) {
	_, delegate, _, err := run(t, "for i in (10 20 30) {\nprint i\n}")
	require.NoError(t, err)
	require.Len(t, delegate.logs, 3)
	assert.Equal(t, 30.0, delegate.logs[2][0].Num)
}

func TestForOverReversedDefaultRangeIsEmptyNotError(t *testing.T) {
	scene, delegate, _, err := run(t, "for 3 to 1 {\nprint 0\n}")
	require.NoError(t, err)
	assert.Empty(t, delegate.logs)
	assert.Empty(t, scene.Children)
}

func TestForWithExplicitStepZeroIsAssertionFailure(t *testing.T) {
	_, _, _, err := run(t, "for i in 1 to 5 step 0 {\nprint i\n}")
	require.Error(t, err)

	derr, ok := err.(*diag.Error)
	require.True(t, ok)
	assert.Equal(t, diag.EvalAssertionFailure, derr.Kind)
}

func TestForWithoutIndexStillRunsBody(t *testing.T) {
	_, delegate, _, err := run(t, "for 1 to 3 {\nprint 1\n}")
	require.NoError(t, err)
	assert.Len(t, delegate.logs, 3)
}

func TestExplicitTupleComparisonIsSingleBoolean(t *testing.T) {
	_, delegate, _, err := run(t, "print (1 2 3) = (1 2 3)")
	require.NoError(t, err)
	require.Len(t, delegate.logs[0], 1)
	assert.Equal(t, value.Boolean, delegate.logs[0][0].Kind)
}

func TestCubeBuildsOneMeshWithCumulativeTransform(t *testing.T) {
	// position/name are disallowed at the bare program root (spec.md
	// §4.H), so the offset is set on an enclosing group instead.
	scene, _, builder, err := run(t, "group {\nposition 1 2 3\ncube { size 2 }\n}")
	require.NoError(t, err)
	require.Len(t, builder.requests, 1)
	assert.Equal(t, "cube", builder.requests[0].Tag)
	assert.Equal(t, value.Vec3{X: 1, Y: 2, Z: 3}, builder.requests[0].Transform.Position)
	assert.Equal(t, value.Vec3{X: 2, Y: 2, Z: 2}, builder.requests[0].Transform.Size)
	require.Len(t, scene.Children, 1)
	assert.Equal(t, value.Mesh, scene.Children[0].Kind)
}

func TestGroupDoesNotCallBuilderItself(t *testing.T) {
	scene, _, builder, err := run(t, "group {\ncube {}\nsphere {}\n}")
	require.NoError(t, err)
	require.Len(t, builder.requests, 2)
	assert.ElementsMatch(t, []string{"cube", "sphere"}, []string{builder.requests[0].Tag, builder.requests[1].Tag})

	require.Len(t, scene.Children, 1)
	assert.Equal(t, value.Tuple, scene.Children[0].Kind)
	assert.Len(t, scene.Children[0].Tup, 2)
}

func TestGroupChildInheritsParentTransform(t *testing.T) {
	_, _, builder, err := run(t, "group {\nposition 5 0 0\ncube {}\n}")
	require.NoError(t, err)
	require.Len(t, builder.requests, 1)
	assert.Equal(t, value.Vec3{X: 5, Y: 0, Z: 0}, builder.requests[0].Transform.Position)
}

func TestCustomBlockDefinitionReturnsSingleStatementValue(t *testing.T) {
	scene, _, _, err := run(t, "define foo {\n42\n}\nfoo")
	require.NoError(t, err)
	require.Len(t, scene.Children, 1)
	assert.Equal(t, 42.0, scene.Children[0].Num)
}

func TestCustomBlockOptionDefaultAndOverride(t *testing.T) {
	scene, _, _, err := run(t, "define foo {\noption n 1\nn\n}\nfoo\nfoo { n 9 }")
	require.NoError(t, err)
	require.Len(t, scene.Children, 2)
	assert.Equal(t, 1.0, scene.Children[0].Num)
	assert.Equal(t, 9.0, scene.Children[1].Num)
}

func TestRecursionGuardRaisesAssertionFailure(t *testing.T) {
	prog, err := parser.Parse("define foo {\nfoo\n}\nfoo", "")
	require.NoError(t, err)

	ev := NewEvaluator(&fakeDelegate{}, &fakeBuilder{}, nil, 10)
	_, err = ev.Evaluate(prog)
	require.Error(t, err)

	derr, ok := err.(*diag.Error)
	require.True(t, ok)
	assert.Equal(t, diag.EvalAssertionFailure, derr.Kind)
	assert.Equal(t, "Too much recursion", derr.Message)
}

func TestRNGWriteBackSharedForPlainNesting(t *testing.T) {
	root := newRootContext()
	child := root.push(root.blockType, nil, false)

	child.rng.nextFloat()
	child.rng.nextFloat()

	assert.Equal(t, root.rng.s, child.rng.s)
	assert.Same(t, root.rng, child.rng)
}

func TestRNGCopiedForDefinitionReentry(t *testing.T) {
	root := newRootContext()
	before := root.rng.s

	child := root.push(root.blockType, nil, true)
	child.rng.nextFloat()
	child.rng.nextFloat()

	assert.NotSame(t, root.rng, child.rng)
	assert.Equal(t, before, root.rng.s)
	assert.NotEqual(t, before, child.rng.s)
}

func TestIfElseIfElseChain(t *testing.T) {
	_, delegate, _, err := run(t, "if false {\nprint 1\n} else if true {\nprint 2\n} else {\nprint 3\n}")
	require.NoError(t, err)
	require.Len(t, delegate.logs, 1)
	assert.Equal(t, 2.0, delegate.logs[0][0].Num)
}

func TestScalarCommandsProduceExpectedPrintedValue(t *testing.T) {
	cases := []struct {
		name   string
		src    string
		want   float64
	}{
		{
			name: "AdditionInsideJuxtaposedPrint",
			src: `
				print 1 + 2
			`,
			want: 3,
		},
		{
			name: "MinOfTwoJuxtaposedArgs",
			src: `
				print min 4 1
			`,
			want: 1,
		},
		{
			name: "MaxOfTwoJuxtaposedArgs",
			src: `
				print max 4 1
			`,
			want: 4,
		},
		{
			name: "SqrtOfSixteen",
			src: `
				print sqrt 16
			`,
			want: 4,
		},
	}

	for _, c := range cases {
		t.Run(c.name+testhelper.GetCaller(t), func(t *testing.T) {
			src := testhelper.TrimIndent(t, c.src)
			_, delegate, _, err := run(t, src)
			require.NoError(t, err)
			require.Len(t, delegate.logs, 1)
			assert.Equal(t, c.want, delegate.logs[0][0].Num)
		})
	}
}

func TestNestedPrimitiveInsidePrimitiveIsRejected(t *testing.T) {
	_, _, _, err := run(t, "cube {\nsphere {}\n}")
	require.Error(t, err)

	derr, ok := err.(*diag.Error)
	require.True(t, ok)
	assert.Equal(t, diag.EvalUnknownSymbol, derr.Kind)
}

func TestPrintInsidePrimitiveIsRejected(t *testing.T) {
	_, _, _, err := run(t, "cube {\nprint 1\n}")
	require.Error(t, err)

	derr, ok := err.(*diag.Error)
	require.True(t, ok)
	assert.Equal(t, diag.EvalUnknownSymbol, derr.Kind)
}

func TestForInsidePrimitiveIsRejected(t *testing.T) {
	_, _, _, err := run(t, "cube {\nfor i in 1 to 3 {\nsize i i i\n}\n}")
	require.Error(t, err)

	derr, ok := err.(*diag.Error)
	require.True(t, ok)
	assert.Equal(t, diag.EvalUnknownSymbol, derr.Kind)
}

func TestCirclePointsProducePathValue(t *testing.T) {
	scene, _, _, err := run(t, "group {\ncircle {\npoint 1 0 0\npoint 0 1 0\n}\n}")
	require.NoError(t, err)
	require.Len(t, scene.Children, 1)
	assert.Equal(t, value.Path, scene.Children[0].Kind)
	require.Len(t, scene.Children[0].Pth.Points, 2)
	assert.Equal(t, value.Vec3{X: 1, Y: 0, Z: 0}, scene.Children[0].Pth.Points[0])
	assert.Equal(t, value.Vec3{X: 0, Y: 1, Z: 0}, scene.Children[0].Pth.Points[1])
}

func TestAlongConsumesPathProducedByPathBlock(t *testing.T) {
	_, _, builder, err := run(t, "extrude {\nalong circle {\npoint 1 0 0\npoint 0 1 0\n}\n}")
	require.NoError(t, err)
	require.Len(t, builder.requests, 1)
	require.NotNil(t, builder.requests[0].Along)
	require.Len(t, builder.requests[0].Along.Points, 2)
}

func TestBareExpressionInsidePrimitiveIsUnusedValue(t *testing.T) {
	_, _, _, err := run(t, "cube {\n1 + 1\n}")
	require.Error(t, err)

	derr, ok := err.(*diag.Error)
	require.True(t, ok)
	assert.Equal(t, diag.EvalUnusedValue, derr.Kind)
}

func TestBareExpressionInsidePathIsUnusedValue(t *testing.T) {
	_, _, _, err := run(t, "circle {\n1\n}")
	require.Error(t, err)

	derr, ok := err.(*diag.Error)
	require.True(t, ok)
	assert.Equal(t, diag.EvalUnusedValue, derr.Kind)
}

func TestUnknownSymbolSuggestsClosestName(t *testing.T) {
	_, _, _, err := run(t, "colr 1 0 0")
	require.Error(t, err)

	derr, ok := err.(*diag.Error)
	require.True(t, ok)
	assert.Equal(t, diag.EvalUnknownSymbol, derr.Kind)
	assert.Equal(t, "color", derr.Suggestion)
}
