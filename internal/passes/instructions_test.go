package passes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lil-lang/lilc/internal/ast"
	"github.com/lil-lang/lilc/internal/config"
)

func TestArgResolver(t *testing.T) {
	t.Run("replaces #arg with the driver argument", func(t *testing.T) {
		instr := ast.NewNode(ast.KindInstruction)
		instr.InstrKind = ast.InstrArg
		instr.SetArgument(makeNumber("1"))
		vd := makeVarDecl("name", ast.NewBasicType("str"))
		vd.SetInitVal(instr)
		root := makeRoot(vd)

		resolver := NewArgResolver([]string{"zero", "one"})
		resolver.PerformVisit(root)
		require.Empty(t, resolver.Errors())

		require.Equal(t, ast.KindStringLiteral, vd.InitVal.Kind)
		assert.Equal(t, "one", vd.InitVal.Value)
	})

	t.Run("unknown index is an error", func(t *testing.T) {
		instr := ast.NewNode(ast.KindInstruction)
		instr.InstrKind = ast.InstrArg
		instr.SetArgument(makeNumber("5"))
		vd := makeVarDecl("name", ast.NewBasicType("str"))
		vd.SetInitVal(instr)
		root := makeRoot(vd)

		resolver := NewArgResolver([]string{"zero"})
		resolver.PerformVisit(root)
		require.Len(t, resolver.Errors(), 1)
		assert.Contains(t, resolver.Errors()[0].Message, "Unknown argument")
	})
}

func TestConfigGetter(t *testing.T) {
	makeGetConfig := func(key string) (*ast.Node, *ast.Node) {
		instr := ast.NewNode(ast.KindInstruction)
		instr.InstrKind = ast.InstrGetConfig
		instr.Name = key
		vd := makeVarDecl("value", nil)
		vd.SetInitVal(instr)
		return instr, vd
	}

	t.Run("string value", func(t *testing.T) {
		cfg := config.New()
		cfg.Set("name", "app")
		_, vd := makeGetConfig("name")
		root := makeRoot(vd)

		getter := NewConfigGetter(cfg)
		getter.PerformVisit(root)
		require.Empty(t, getter.Errors())
		require.Equal(t, ast.KindStringLiteral, vd.InitVal.Kind)
		assert.Equal(t, "app", vd.InitVal.Value)
	})

	t.Run("number and bool values", func(t *testing.T) {
		cfg := config.New()
		cfg.Set("width", int64(800))
		cfg.Set("fullscreen", true)

		_, vdNum := makeGetConfig("width")
		_, vdBool := makeGetConfig("fullscreen")
		root := makeRoot(vdNum, vdBool)

		getter := NewConfigGetter(cfg)
		getter.PerformVisit(root)
		require.Empty(t, getter.Errors())
		assert.Equal(t, ast.KindNumberLiteral, vdNum.InitVal.Kind)
		assert.Equal(t, "800", vdNum.InitVal.Value)
		assert.Equal(t, ast.KindBoolLiteral, vdBool.InitVal.Kind)
		assert.Equal(t, "true", vdBool.InitVal.Value)
	})

	t.Run("list value", func(t *testing.T) {
		cfg := config.New()
		cfg.Set("paths", []interface{}{"a", "b"})
		_, vd := makeGetConfig("paths")
		root := makeRoot(vd)

		getter := NewConfigGetter(cfg)
		getter.PerformVisit(root)
		require.Empty(t, getter.Errors())
		require.Equal(t, ast.KindValueList, vd.InitVal.Kind)
		assert.Len(t, vd.InitVal.Values, 2)
	})

	t.Run("missing key is an error", func(t *testing.T) {
		_, vd := makeGetConfig("absent")
		root := makeRoot(vd)

		getter := NewConfigGetter(config.New())
		getter.PerformVisit(root)
		require.Len(t, getter.Errors(), 1)
		assert.Contains(t, getter.Errors()[0].Message, "Unknown config key")
	})
}

func TestColorMaker(t *testing.T) {
	makeColor := func(hex string) (*ast.Node, *ast.Node) {
		instr := ast.NewNode(ast.KindInstruction)
		instr.InstrKind = ast.InstrColor
		instr.SetArgument(makeString(hex))
		vd := makeVarDecl("tint", nil)
		vd.SetInitVal(instr)
		return instr, vd
	}

	t.Run("six digit color", func(t *testing.T) {
		_, vd := makeColor("FF8000")
		root := makeRoot(vd)

		maker := NewColorMaker()
		maker.PerformVisit(root)
		require.Empty(t, maker.Errors())

		objdef := vd.InitVal
		require.Equal(t, ast.KindObjectDefinition, objdef.Kind)
		assert.Equal(t, "color", objdef.Ty.Name)
		require.Len(t, objdef.Children, 4)

		want := map[string]string{"red": "255", "green": "128", "blue": "0", "alpha": "255"}
		for _, asgmt := range objdef.Children {
			assert.Equal(t, want[asgmt.Subject.Name], asgmt.AsgValue.Value)
		}
	})

	t.Run("three digit color expands", func(t *testing.T) {
		_, vd := makeColor("#F00")
		root := makeRoot(vd)
		maker := NewColorMaker()
		maker.PerformVisit(root)
		require.Empty(t, maker.Errors())
		objdef := vd.InitVal
		for _, asgmt := range objdef.Children {
			if asgmt.Subject.Name == "red" {
				assert.Equal(t, "255", asgmt.AsgValue.Value)
			}
		}
	})

	t.Run("bad literal is an error", func(t *testing.T) {
		_, vd := makeColor("XYZ")
		root := makeRoot(vd)
		maker := NewColorMaker()
		maker.PerformVisit(root)
		assert.NotEmpty(t, maker.Errors())
	})
}
