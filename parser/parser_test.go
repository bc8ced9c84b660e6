package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shapescript/ast"
)

func TestImplicitTupleArgumentSplitting(t *testing.T) {
	// print 1 2 3 = 1 2 3 -> five juxtaposed args, the third being
	// InfixExpr(3 = 1) since relational binds only its adjacent operand.
	prog, err := Parse("print 1 2 3 = 1 2 3", "")
	require.NoError(t, err)
	require.Len(t, prog.Stmts, 1)

	cmd, ok := prog.Stmts[0].(*ast.CommandStmt)
	require.True(t, ok)
	assert.Equal(t, "print", cmd.Name)
	require.Len(t, cmd.Args, 5)

	assert.IsType(t, &ast.NumberExpr{}, cmd.Args[0])
	assert.IsType(t, &ast.NumberExpr{}, cmd.Args[1])

	infix, ok := cmd.Args[2].(*ast.InfixExpr)
	require.True(t, ok)
	assert.Equal(t, "=", infix.Op)
	assert.Equal(t, 3.0, infix.L.(*ast.NumberExpr).Value)
	assert.Equal(t, 1.0, infix.R.(*ast.NumberExpr).Value)

	assert.IsType(t, &ast.NumberExpr{}, cmd.Args[3])
	assert.IsType(t, &ast.NumberExpr{}, cmd.Args[4])
}

func TestExplicitTupleComparison(t *testing.T) {
	prog, err := Parse("print (1 2 3) = (1 2 3)", "")
	require.NoError(t, err)
	require.Len(t, prog.Stmts, 1)

	cmd, ok := prog.Stmts[0].(*ast.CommandStmt)
	require.True(t, ok)
	require.Len(t, cmd.Args, 1)

	infix, ok := cmd.Args[0].(*ast.InfixExpr)
	require.True(t, ok)
	assert.Equal(t, "=", infix.Op)
	assert.IsType(t, &ast.TupleExpr{}, infix.L)
	assert.IsType(t, &ast.TupleExpr{}, infix.R)
}

func TestColorThreeBareArgs(t *testing.T) {
	prog, err := Parse("color 1 0 0", "")
	require.NoError(t, err)

	cmd := prog.Stmts[0].(*ast.CommandStmt)
	assert.Equal(t, "color", cmd.Name)
	require.Len(t, cmd.Args, 3)
}

func TestBlockInvocationVsCommand(t *testing.T) {
	prog, err := Parse("cube { size 1 }", "")
	require.NoError(t, err)
	require.Len(t, prog.Stmts, 1)

	exprStmt, ok := prog.Stmts[0].(*ast.ExprStmt)
	require.True(t, ok)

	block, ok := exprStmt.Expr.(*ast.BlockExpr)
	require.True(t, ok)
	assert.Equal(t, "cube", block.Name)
	require.Len(t, block.Body, 1)

	inner := block.Body[0].(*ast.CommandStmt)
	assert.Equal(t, "size", inner.Name)
}

func TestDefineWithExpression(t *testing.T) {
	prog, err := Parse("define x 5", "")
	require.NoError(t, err)

	def := prog.Stmts[0].(*ast.DefineStmt)
	assert.Equal(t, "x", def.Name)
	assert.False(t, def.Definition.IsBlock())
	assert.Equal(t, 5.0, def.Definition.Expr.(*ast.NumberExpr).Value)
}

func TestDefineWithBlock(t *testing.T) {
	prog, err := Parse("define mycube {\ncube { size 1 }\n}", "")
	require.NoError(t, err)

	def := prog.Stmts[0].(*ast.DefineStmt)
	assert.Equal(t, "mycube", def.Name)
	assert.True(t, def.Definition.IsBlock())
	require.Len(t, def.Definition.Block, 1)
}

func TestOptionStmt(t *testing.T) {
	prog, err := Parse("option size 1", "")
	require.NoError(t, err)

	opt := prog.Stmts[0].(*ast.OptionStmt)
	assert.Equal(t, "size", opt.Name)
	assert.Equal(t, 1.0, opt.Default.(*ast.NumberExpr).Value)
}

func TestForWithIndex(t *testing.T) {
	prog, err := Parse("for i in 1 to 5 {\nprint i\n}", "")
	require.NoError(t, err)

	forStmt := prog.Stmts[0].(*ast.ForStmt)
	assert.Equal(t, "i", forStmt.Index)

	rng, ok := forStmt.In.(*ast.RangeExpr)
	require.True(t, ok)
	assert.Equal(t, 1.0, rng.From.(*ast.NumberExpr).Value)
	assert.Equal(t, 5.0, rng.To.(*ast.NumberExpr).Value)
	require.Len(t, forStmt.Body, 1)
}

func TestForWithoutIndex(t *testing.T) {
	prog, err := Parse("for 1 to 3 {\nprint 1\n}", "")
	require.NoError(t, err)

	forStmt := prog.Stmts[0].(*ast.ForStmt)
	assert.Equal(t, "", forStmt.Index)
}

func TestRangeWithStep(t *testing.T) {
	prog, err := Parse("print 1 to 10 step 2", "")
	require.NoError(t, err)

	cmd := prog.Stmts[0].(*ast.CommandStmt)
	require.Len(t, cmd.Args, 1)

	rng := cmd.Args[0].(*ast.RangeExpr)
	require.NotNil(t, rng.Step)
	assert.Equal(t, 2.0, rng.Step.(*ast.NumberExpr).Value)
}

func TestIfElseIfElse(t *testing.T) {
	src := "if true {\nprint 1\n} else if false {\nprint 2\n} else {\nprint 3\n}"
	prog, err := Parse(src, "")
	require.NoError(t, err)

	ifStmt := prog.Stmts[0].(*ast.IfStmt)
	require.NotNil(t, ifStmt.Else)
	require.NotNil(t, ifStmt.Else.ElseIf)
	require.NotNil(t, ifStmt.Else.ElseIf.Else)
	require.NotNil(t, ifStmt.Else.ElseIf.Else.ElseBlock)
}

func TestImportStmt(t *testing.T) {
	prog, err := Parse(`import "foo.shape"`, "")
	require.NoError(t, err)

	imp := prog.Stmts[0].(*ast.ImportStmt)
	assert.Equal(t, "foo.shape", imp.Expr.(*ast.StringExpr).Value)
}

func TestHexColorLiteral(t *testing.T) {
	prog, err := Parse("print #f00", "")
	require.NoError(t, err)

	cmd := prog.Stmts[0].(*ast.CommandStmt)
	hc := cmd.Args[0].(*ast.HexColorExpr)
	assert.InDelta(t, 1.0, hc.Red, 0.01)
	assert.InDelta(t, 0.0, hc.Green, 0.01)
	assert.InDelta(t, 0.0, hc.Blue, 0.01)
	assert.InDelta(t, 1.0, hc.Alpha, 0.01)
}

func TestMemberExpr(t *testing.T) {
	prog, err := Parse("print foo.x", "")
	require.NoError(t, err)

	cmd := prog.Stmts[0].(*ast.CommandStmt)
	member := cmd.Args[0].(*ast.MemberExpr)
	assert.Equal(t, "x", member.Name)
	assert.Equal(t, "foo", member.X.(*ast.IdentifierExpr).Name)
}

func TestPrecedenceArithmeticBeforeRelational(t *testing.T) {
	prog, err := Parse("print 1 + 2 = 3", "")
	require.NoError(t, err)

	cmd := prog.Stmts[0].(*ast.CommandStmt)
	require.Len(t, cmd.Args, 1)

	infix := cmd.Args[0].(*ast.InfixExpr)
	assert.Equal(t, "=", infix.Op)
	sum := infix.L.(*ast.InfixExpr)
	assert.Equal(t, "+", sum.Op)
}

func TestAndOrLowerThanRelational(t *testing.T) {
	prog, err := Parse("print 1 = 1 and 2 = 2", "")
	require.NoError(t, err)

	cmd := prog.Stmts[0].(*ast.CommandStmt)
	require.Len(t, cmd.Args, 1)

	andExpr := cmd.Args[0].(*ast.InfixExpr)
	assert.Equal(t, "and", andExpr.Op)
	assert.Equal(t, "=", andExpr.L.(*ast.InfixExpr).Op)
	assert.Equal(t, "=", andExpr.R.(*ast.InfixExpr).Op)
}

func TestBareBlockStmt(t *testing.T) {
	prog, err := Parse("{\nprint 1\n}", "")
	require.NoError(t, err)

	block := prog.Stmts[0].(*ast.BlockStmt)
	require.Len(t, block.Stmts, 1)
}

func TestUnexpectedTokenError(t *testing.T) {
	_, err := Parse("print )", "")
	require.Error(t, err)
}
