package lowering

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shapescript/ast"
	"shapescript/scadparser"
)

func lowerSource(t *testing.T, src string) *ast.Program {
	t.Helper()

	scadProg, err := scadparser.Parse(src, "")
	require.NoError(t, err)

	prog, err := Lower(scadProg)
	require.NoError(t, err)

	return prog
}

func TestLowerCubeWithCenter(t *testing.T) {
	prog := lowerSource(t, "cube(10, center=true);")
	require.Len(t, prog.Stmts, 1)

	blockExpr := prog.Stmts[0].(*ast.ExprStmt).Expr.(*ast.BlockExpr)
	assert.Equal(t, "cube", blockExpr.Name)
	require.Len(t, blockExpr.Body, 3)

	ifStmt := blockExpr.Body[2].(*ast.IfStmt)
	require.NotNil(t, ifStmt)
}

func TestLowerTranslateChain(t *testing.T) {
	prog := lowerSource(t, "translate([1,0,0]) cube(1);")
	require.Len(t, prog.Stmts, 1)

	group := prog.Stmts[0].(*ast.ExprStmt).Expr.(*ast.BlockExpr)
	assert.Equal(t, "group", group.Name)
	require.Len(t, group.Body, 2)

	posCmd := group.Body[0].(*ast.CommandStmt)
	assert.Equal(t, "position", posCmd.Name)

	cubeExpr := group.Body[1].(*ast.ExprStmt).Expr.(*ast.BlockExpr)
	assert.Equal(t, "cube", cubeExpr.Name)
}

func TestLowerRotateUsesOrientationAndScaledAngle(t *testing.T) {
	prog := lowerSource(t, "rotate([0,0,90]) cube(1);")

	group := prog.Stmts[0].(*ast.ExprStmt).Expr.(*ast.BlockExpr)
	require.Len(t, group.Body, 3)

	define := group.Body[0].(*ast.DefineStmt)
	assert.Equal(t, "__rotate_deg", define.Name)

	orientCmd := group.Body[1].(*ast.CommandStmt)
	assert.Equal(t, "orientation", orientCmd.Name)
	require.Len(t, orientCmd.Args, 3)
}

func TestLowerEchoToPrint(t *testing.T) {
	prog := lowerSource(t, `echo("hi");`)

	cmd := prog.Stmts[0].(*ast.CommandStmt)
	assert.Equal(t, "print", cmd.Name)
}

func TestLowerUnionBlock(t *testing.T) {
	prog := lowerSource(t, "union() { cube(1); sphere(1); }")

	block := prog.Stmts[0].(*ast.ExprStmt).Expr.(*ast.BlockExpr)
	assert.Equal(t, "union", block.Name)
	assert.Len(t, block.Body, 2)
}

func TestLowerHullRejected(t *testing.T) {
	_, err := scadparser.Parse("hull() { cube(1); sphere(1); }", "")
	require.NoError(t, err)

	scadProg, _ := scadparser.Parse("hull() { cube(1); sphere(1); }", "")
	_, err = Lower(scadProg)
	require.Error(t, err)
}

func TestLowerSphereWithDiameterAndFn(t *testing.T) {
	prog := lowerSource(t, "sphere(d=4, $fn=16);")

	block := prog.Stmts[0].(*ast.ExprStmt).Expr.(*ast.BlockExpr)
	assert.Equal(t, "sphere", block.Name)
	require.Len(t, block.Body, 2)

	detail := block.Body[1].(*ast.CommandStmt)
	assert.Equal(t, "detail", detail.Name)
}

func TestLowerLinearExtrude(t *testing.T) {
	prog := lowerSource(t, "linear_extrude(height=10) { circle(5); }")

	block := prog.Stmts[0].(*ast.ExprStmt).Expr.(*ast.BlockExpr)
	assert.Equal(t, "extrude", block.Name)

	var sawCircle bool

	for _, s := range block.Body {
		if es, ok := s.(*ast.ExprStmt); ok {
			if be, ok := es.Expr.(*ast.BlockExpr); ok && be.Name == "circle" {
				sawCircle = true
			}
		}
	}

	assert.True(t, sawCircle)
}

func TestLowerIdentifierMangling(t *testing.T) {
	prog := lowerSource(t, "x = $fn;")

	def := prog.Stmts[0].(*ast.DefineStmt)
	assert.Equal(t, "x", def.Name)

	ident := def.Definition.Expr.(*ast.IdentifierExpr)
	assert.Equal(t, "dollar_fn", ident.Name)
}

func TestLowerTrigCallPreMultiplies(t *testing.T) {
	prog := lowerSource(t, "x = cos(90);")

	def := prog.Stmts[0].(*ast.DefineStmt)
	tuple := def.Definition.Expr.(*ast.TupleExpr)
	require.Len(t, tuple.Elems, 2)

	callee := tuple.Elems[0].(*ast.IdentifierExpr)
	assert.Equal(t, "cos", callee.Name)

	mulExpr := tuple.Elems[1].(*ast.InfixExpr)
	assert.Equal(t, "*", mulExpr.Op)
}
