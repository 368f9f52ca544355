package passes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lil-lang/lilc/internal/ast"
)

func TestClassTemplateLowererSpecialization(t *testing.T) {
	// class Box(T) { var value: T } plus Box(i64) { value: 42 }
	paramT := ast.NewBasicType("T")
	box := makeClass("Box", makeVarDecl("value", paramT.Clone()))
	box.Ty = ast.NewObjectType("Box", paramT.Clone())

	objdef := makeObjDef(ast.NewObjectType("Box", ast.NewBasicType("i64")),
		makeAssignment(ast.NewPropertyName("value"), makeNumber("42")))
	holder := makeVarDecl("b", nil)
	holder.SetInitVal(objdef)

	root := makeRoot(box, holder)

	lowerer := NewClassTemplateLowerer()
	lowerer.PerformVisit(root)
	require.Empty(t, lowerer.Errors())

	t.Run("original generic is removed", func(t *testing.T) {
		assert.Nil(t, root.ClassNamed("Box"))
		for _, node := range root.Nodes() {
			if node.Kind == ast.KindClassDecl {
				assert.NotEqual(t, "Box", node.Name)
			}
		}
	})

	t.Run("specialized class exists with substituted field type", func(t *testing.T) {
		specialized := root.ClassNamed("lil_Box_i64")
		require.NotNil(t, specialized)
		field := specialized.FieldNamed("value")
		require.NotNil(t, field)
		assert.True(t, field.Ty.Equal(ast.NewBasicType("i64")))
	})

	t.Run("object definition is retagged", func(t *testing.T) {
		assert.Equal(t, "lil_Box_i64", objdef.Ty.Name)
		assert.Empty(t, objdef.Ty.ParamTypes)
	})

	t.Run("no surviving generics", func(t *testing.T) {
		for _, node := range root.Nodes() {
			if node.Kind == ast.KindClassDecl {
				assert.Empty(t, node.Ty.ParamTypes)
			}
		}
		(&root.Node).Walk(func(n *ast.Node) bool {
			if n.Kind == ast.KindObjectDefinition && n.Ty != nil {
				assert.Empty(t, n.Ty.ParamTypes)
			}
			return true
		})
	})
}

func TestClassTemplateLowererTwoSpecializations(t *testing.T) {
	paramT := ast.NewBasicType("T")
	box := makeClass("Box", makeVarDecl("value", paramT.Clone()))
	box.Ty = ast.NewObjectType("Box", paramT.Clone())

	objdefA := makeObjDef(ast.NewObjectType("Box", ast.NewBasicType("i64")))
	holderA := makeVarDecl("a", nil)
	holderA.SetInitVal(objdefA)
	objdefB := makeObjDef(ast.NewObjectType("Box", ast.NewBasicType("f64")))
	holderB := makeVarDecl("b", nil)
	holderB.SetInitVal(objdefB)

	root := makeRoot(box, holderA, holderB)
	lowerer := NewClassTemplateLowerer()
	lowerer.PerformVisit(root)

	require.NotNil(t, root.ClassNamed("lil_Box_i64"))
	require.NotNil(t, root.ClassNamed("lil_Box_f64"))
	assert.Equal(t, "lil_Box_i64", objdefA.Ty.Name)
	assert.Equal(t, "lil_Box_f64", objdefB.Ty.Name)
}

func TestClassTemplateLowererParamCountMismatch(t *testing.T) {
	paramT := ast.NewBasicType("T")
	box := makeClass("Box", makeVarDecl("value", paramT.Clone()))
	box.Ty = ast.NewObjectType("Box", paramT.Clone())

	objdef := makeObjDef(ast.NewObjectType("Box", ast.NewBasicType("i64"), ast.NewBasicType("f64")))
	holder := makeVarDecl("b", nil)
	holder.SetInitVal(objdef)

	root := makeRoot(box, holder)
	lowerer := NewClassTemplateLowerer()
	lowerer.PerformVisit(root)

	assert.NotEmpty(t, lowerer.Errors())
}
