package passes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lil-lang/lilc/internal/ast"
)

func TestPathExpanderThroughExpandedField(t *testing.T) {
	// class B { var x: i64 }; class A { var @expanded b: B }; a.x -> a.b.x
	classB := makeClass("B", makeVarDecl("x", ast.NewBasicType("i64")))
	fieldB := makeVarDecl("b", ast.NewObjectType("B"))
	fieldB.IsExpanded = true
	classA := makeClass("A", fieldB)
	varA := makeVarDecl("a", ast.NewObjectType("A"))

	vp := makeValuePath(ast.NewVarName("a"), ast.NewPropertyName("x"))
	holder := makeVarDecl("y", ast.NewBasicType("i64"))
	holder.SetInitVal(vp)

	root := makeRoot(classB, classA, varA, holder)

	expander := NewPathExpander()
	expander.PerformVisit(root)
	require.Empty(t, expander.Errors())

	require.Len(t, vp.Children, 3)
	assert.Equal(t, "a", vp.Children[0].Name)
	assert.Equal(t, "b", vp.Children[1].Name)
	assert.Equal(t, ast.KindPropertyName, vp.Children[1].Kind)
	assert.Equal(t, "x", vp.Children[2].Name)
}

func TestPathExpanderNestedExpansion(t *testing.T) {
	// expansion recurses: A --@expanded b--> B --@expanded c--> C { x }
	classC := makeClass("C", makeVarDecl("x", ast.NewBasicType("i64")))
	fieldC := makeVarDecl("c", ast.NewObjectType("C"))
	fieldC.IsExpanded = true
	classB := makeClass("B", fieldC)
	fieldB := makeVarDecl("b", ast.NewObjectType("B"))
	fieldB.IsExpanded = true
	classA := makeClass("A", fieldB)
	varA := makeVarDecl("a", ast.NewObjectType("A"))

	vp := makeValuePath(ast.NewVarName("a"), ast.NewPropertyName("x"))
	holder := makeVarDecl("y", ast.NewBasicType("i64"))
	holder.SetInitVal(vp)

	root := makeRoot(classC, classB, classA, varA, holder)
	expander := NewPathExpander()
	expander.PerformVisit(root)
	require.Empty(t, expander.Errors())

	var names []string
	for _, seg := range vp.Children {
		names = append(names, seg.Name)
	}
	assert.Equal(t, []string{"a", "b", "c", "x"}, names)
}

func TestPathExpanderAmbiguity(t *testing.T) {
	// two expanded fields both resolving x is a fatal ambiguity
	classB := makeClass("B", makeVarDecl("x", ast.NewBasicType("i64")))
	classC := makeClass("C", makeVarDecl("x", ast.NewBasicType("i64")))
	fieldB := makeVarDecl("b", ast.NewObjectType("B"))
	fieldB.IsExpanded = true
	fieldC := makeVarDecl("c", ast.NewObjectType("C"))
	fieldC.IsExpanded = true
	classA := makeClass("A", fieldB, fieldC)
	varA := makeVarDecl("a", ast.NewObjectType("A"))

	vp := makeValuePath(ast.NewVarName("a"), ast.NewPropertyName("x"))
	holder := makeVarDecl("y", ast.NewBasicType("i64"))
	holder.SetInitVal(vp)

	root := makeRoot(classB, classC, classA, varA, holder)
	expander := NewPathExpander()
	expander.PerformVisit(root)

	require.NotEmpty(t, expander.Errors())
	assert.Contains(t, expander.Errors()[0].Message, "Ambiguous")
}

func TestPathExpanderDirectFieldUntouched(t *testing.T) {
	classA := makeClass("A", makeVarDecl("x", ast.NewBasicType("i64")))
	varA := makeVarDecl("a", ast.NewObjectType("A"))
	vp := makeValuePath(ast.NewVarName("a"), ast.NewPropertyName("x"))
	holder := makeVarDecl("y", ast.NewBasicType("i64"))
	holder.SetInitVal(vp)

	root := makeRoot(classA, varA, holder)
	expander := NewPathExpander()
	expander.PerformVisit(root)
	require.Empty(t, expander.Errors())
	assert.Len(t, vp.Children, 2)
}

func TestPathExpanderIndexAccessor(t *testing.T) {
	// arr[0].x where at() returns @B
	classB := makeClass("B", makeVarDecl("x", ast.NewBasicType("i64")))
	arrayClass := makeClass("array", makeVarDecl("size", ast.NewBasicType("i64")))
	arrayClass.AddMethod(makeMethod("at", []*ast.Type{ast.NewBasicType("i64")}, ast.NewObjectType("B")))
	varArr := makeVarDecl("arr", ast.NewObjectType("array"))

	idx := ast.NewNode(ast.KindIndexAccessor)
	idx.AddChild(makeNumber("0"))
	vp := makeValuePath(ast.NewVarName("arr"), idx, ast.NewPropertyName("x"))
	holder := makeVarDecl("y", ast.NewBasicType("i64"))
	holder.SetInitVal(vp)

	root := makeRoot(classB, arrayClass, varArr, holder)
	expander := NewPathExpander()
	expander.PerformVisit(root)
	require.Empty(t, expander.Errors())
	assert.Len(t, vp.Children, 3)
}

func TestPathExpanderStaticArrayIndex(t *testing.T) {
	varArr := makeVarDecl("arr", ast.NewStaticArrayType(ast.NewBasicType("i64"), 4))
	idx := ast.NewNode(ast.KindIndexAccessor)
	idx.AddChild(makeNumber("1"))
	vp := makeValuePath(ast.NewVarName("arr"), idx)
	holder := makeVarDecl("y", ast.NewBasicType("i64"))
	holder.SetInitVal(vp)

	root := makeRoot(varArr, holder)
	expander := NewPathExpander()
	expander.PerformVisit(root)
	assert.Empty(t, expander.Errors())
}

func TestPathExpanderSelfConsistency(t *testing.T) {
	// after expansion, walking the path against the class model must
	// succeed at every step
	classB := makeClass("B", makeVarDecl("x", ast.NewBasicType("i64")))
	fieldB := makeVarDecl("b", ast.NewObjectType("B"))
	fieldB.IsExpanded = true
	classA := makeClass("A", fieldB)
	varA := makeVarDecl("a", ast.NewObjectType("A"))
	vp := makeValuePath(ast.NewVarName("a"), ast.NewPropertyName("x"))
	holder := makeVarDecl("y", ast.NewBasicType("i64"))
	holder.SetInitVal(vp)

	root := makeRoot(classB, classA, varA, holder)
	expander := NewPathExpander()
	expander.PerformVisit(root)
	require.Empty(t, expander.Errors())

	// each intermediate segment names a real member on the walk
	currentClass := classA
	for i := 1; i < len(vp.Children); i++ {
		seg := vp.Children[i]
		field := currentClass.FieldNamed(seg.Name)
		require.NotNil(t, field, "segment %s not found on %s", seg.Name, currentClass.Name)
		if field.Ty.IsA(ast.TypeObject) {
			currentClass = root.ClassNamed(field.Ty.Name)
			require.NotNil(t, currentClass)
		}
	}
}
