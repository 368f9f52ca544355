package passes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lil-lang/lilc/internal/ast"
)

func makeFor(arg *ast.Node) *ast.Node {
	fc := ast.NewNode(ast.KindFlowControl)
	fc.FlowKind = ast.FlowFor
	fc.AddArgument(arg)
	return fc
}

func TestForLowererNumber(t *testing.T) {
	// for (10) { ... }
	fc := makeFor(makeNumber("10"))
	fn := ast.NewNode(ast.KindFunctionDecl)
	fn.Name = "main"
	fn.AddToBody(fc)
	root := makeRoot(fn)

	lowerer := NewForLowerer()
	lowerer.PerformVisit(root)
	require.Empty(t, lowerer.Errors())

	require.Len(t, fc.Arguments, 3)

	init := fc.Arguments[0]
	require.Equal(t, ast.KindVarDecl, init.Kind)
	assert.Equal(t, "@value", init.Name)
	assert.True(t, init.Ty.Equal(ast.NewBasicType("i64")))
	require.NotNil(t, init.InitVal)
	assert.Equal(t, "0", init.InitVal.Value)

	cond := fc.Arguments[1]
	require.Equal(t, ast.KindExpression, cond.Kind)
	assert.Equal(t, ast.ExprSmallerComparison, cond.ExprKind)
	assert.Equal(t, "@value", cond.Left.Name)
	assert.Equal(t, "10", cond.Right.Value)

	step := fc.Arguments[2]
	require.Equal(t, ast.KindUnaryExpression, step.Kind)
	assert.Equal(t, ast.UnarySum, step.UnaryKind)
	assert.Equal(t, "@value", step.Subject.Name)
	assert.Equal(t, "1", step.AsgValue.Value)
}

func TestForLowererObject(t *testing.T) {
	// for (items) where items: @array
	arrayClass := makeClass("array", makeVarDecl("size", ast.NewBasicType("i64")))
	items := makeVarDecl("items", ast.NewObjectType("array"))

	fc := makeFor(ast.NewVarName("items"))
	fn := ast.NewNode(ast.KindFunctionDecl)
	fn.Name = "main"
	fn.AddToBody(fc)
	root := makeRoot(arrayClass, items, fn)

	lowerer := NewForLowerer()
	lowerer.PerformVisit(root)
	require.Empty(t, lowerer.Errors())

	require.Len(t, fc.Arguments, 3)
	assert.Equal(t, "@key", fc.Arguments[0].Name)

	cond := fc.Arguments[1]
	require.Equal(t, ast.KindExpression, cond.Kind)
	right := cond.Right
	require.Equal(t, ast.KindValuePath, right.Kind)
	require.Len(t, right.Children, 2)
	assert.Equal(t, "items", right.Children[0].Name)
	assert.Equal(t, "size", right.Children[1].Name)
}

func TestForLowererNumericVariable(t *testing.T) {
	count := makeVarDecl("count", ast.NewBasicType("i64"))
	fc := makeFor(ast.NewVarName("count"))
	fn := ast.NewNode(ast.KindFunctionDecl)
	fn.AddToBody(fc)
	root := makeRoot(count, fn)

	lowerer := NewForLowerer()
	lowerer.PerformVisit(root)
	require.Empty(t, lowerer.Errors())
	require.Len(t, fc.Arguments, 3)
	assert.Equal(t, "@value", fc.Arguments[0].Name)
}

func TestForLowererUnexpectedType(t *testing.T) {
	flag := makeVarDecl("flag", ast.NewBasicType("bool"))
	fc := makeFor(ast.NewVarName("flag"))
	fn := ast.NewNode(ast.KindFunctionDecl)
	fn.AddToBody(fc)
	root := makeRoot(flag, fn)

	lowerer := NewForLowerer()
	lowerer.PerformVisit(root)
	require.Len(t, lowerer.Errors(), 1)
	assert.Contains(t, lowerer.Errors()[0].Message, "Unexpected type")
}

func TestForLowererKeepsThreeArgForms(t *testing.T) {
	fc := ast.NewNode(ast.KindFlowControl)
	fc.FlowKind = ast.FlowFor
	fc.AddArgument(makeVarDecl("i", ast.NewBasicType("i64")))
	fc.AddArgument(makeNumber("1"))
	fc.AddArgument(makeNumber("1"))
	fn := ast.NewNode(ast.KindFunctionDecl)
	fn.AddToBody(fc)
	root := makeRoot(fn)

	lowerer := NewForLowerer()
	lowerer.PerformVisit(root)
	assert.Len(t, fc.Arguments, 3)
	assert.Equal(t, ast.KindVarDecl, fc.Arguments[0].Kind)
}
