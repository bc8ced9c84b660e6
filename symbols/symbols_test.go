package symbols

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shapescript/value"
)

func TestRootHasPiAndColors(t *testing.T) {
	root := Root()

	pi, ok := root.Lookup("pi")
	require.True(t, ok)
	assert.Equal(t, value.Number, pi.Const.Kind)

	red, ok := root.Lookup("red")
	require.True(t, ok)
	assert.Equal(t, value.Color, red.Const.Kind)
}

func TestLocalShadowsRoot(t *testing.T) {
	root := Root()
	local := NewScope(BlockGroup, root)

	local.Define(Symbol{Kind: ConstantKind, Name: "color", Const: value.StringValue("white")})

	sym, ok := local.Lookup("color")
	require.True(t, ok)
	assert.Equal(t, ConstantKind, sym.Kind)
}

func TestDefineOnlyAffectsLocalLayer(t *testing.T) {
	root := Root()
	child := NewScope(BlockGroup, root)

	child.Define(Symbol{Kind: ConstantKind, Name: "onlyLocal", Const: value.NumberValue(1)})

	_, ok := root.Lookup("onlyLocal")
	assert.False(t, ok)

	_, ok = child.Lookup("onlyLocal")
	assert.True(t, ok)
}

func TestAllowsChildTable(t *testing.T) {
	root := NewScope(BlockRoot, nil)
	assert.False(t, root.AllowsChild("option"))
	assert.False(t, root.AllowsChild("name"))
	assert.False(t, root.AllowsChild("position"))

	group := NewScope(BlockGroup, nil)
	assert.True(t, group.AllowsChild("position"))
	assert.True(t, group.AllowsChild("orientation"))

	def := NewScope(BlockCustomDefinition, nil)
	assert.True(t, def.AllowsChild("option"))

	path := NewScope(BlockPath, nil)
	assert.False(t, path.AllowsChild("color"))
}

func TestBlockShapeClassifiers(t *testing.T) {
	assert.True(t, IsPrimitive("cube"))
	assert.True(t, IsBuilder("extrude"))
	assert.True(t, IsPath("circle"))
	assert.True(t, IsCSG("difference"))
	assert.False(t, IsPrimitive("extrude"))
}
