package passes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lil-lang/lilc/internal/ast"
)

func TestASTValidator(t *testing.T) {
	t.Run("clean tree passes", func(t *testing.T) {
		cd := makeClass("A", makeVarDecl("x", ast.NewBasicType("i64")))
		root := makeRoot(cd)
		validator := NewASTValidator()
		validator.PerformVisit(root)
		assert.Empty(t, validator.Errors())
	})

	t.Run("method without function type is reported", func(t *testing.T) {
		cd := makeClass("A")
		badMethod := makeVarDecl("m", ast.NewBasicType("i64"))
		cd.AddMethod(badMethod)
		root := makeRoot(cd)
		validator := NewASTValidator()
		validator.PerformVisit(root)
		require.NotEmpty(t, validator.Errors())
		assert.Contains(t, validator.Errors()[0].Message, "function type")
	})

	t.Run("empty value path is reported", func(t *testing.T) {
		vp := ast.NewNode(ast.KindValuePath)
		holder := makeVarDecl("x", nil)
		holder.SetInitVal(vp)
		root := makeRoot(holder)
		validator := NewASTValidator()
		validator.PerformVisit(root)
		assert.NotEmpty(t, validator.Errors())
	})

	t.Run("broken parent link is reported", func(t *testing.T) {
		cd := makeClass("A", makeVarDecl("x", ast.NewBasicType("i64")))
		root := makeRoot(cd)
		cd.Fields[0].Parent = nil
		validator := NewASTValidator()
		validator.PerformVisit(root)
		assert.NotEmpty(t, validator.Errors())
	})
}

func TestMethodInserter(t *testing.T) {
	t.Run("vvar gets accessors", func(t *testing.T) {
		field := makeVarDecl("width", ast.NewBasicType("i64"))
		field.IsVVar = true
		cd := makeClass("A", field)
		root := makeRoot(cd)

		inserter := NewMethodInserter()
		inserter.PerformVisit(root)

		getter := cd.MethodNamed("getWidth")
		require.NotNil(t, getter)
		assert.True(t, getter.Hidden)
		assert.True(t, getter.Ty.IsA(ast.TypeFunction))
		assert.True(t, getter.Ty.Return.Equal(field.Ty))

		setter := cd.MethodNamed("setWidth")
		require.NotNil(t, setter)
		require.Len(t, setter.Ty.Arguments, 1)
		assert.True(t, setter.Ty.Arguments[0].Equal(field.Ty))
	})

	t.Run("existing accessor is kept", func(t *testing.T) {
		field := makeVarDecl("width", ast.NewBasicType("i64"))
		field.IsVVar = true
		existing := makeMethod("getWidth", nil, ast.NewBasicType("i64"))
		cd := makeClass("A", field)
		cd.AddMethod(existing)
		root := makeRoot(cd)

		NewMethodInserter().PerformVisit(root)
		assert.Same(t, existing, cd.MethodNamed("getWidth"))
	})

	t.Run("default constructor synthesized", func(t *testing.T) {
		field := makeVarDecl("x", ast.NewBasicType("i64"))
		field.SetInitVal(makeNumber("1"))
		cd := makeClass("A", field)
		root := makeRoot(cd)

		NewMethodInserter().PerformVisit(root)
		require.NotNil(t, cd.MethodNamed("construct"))
	})

	t.Run("synthesized methods inherit the field location", func(t *testing.T) {
		field := makeVarDecl("width", ast.NewBasicType("i64"))
		field.IsVVar = true
		field.Loc = ast.Location{File: "a.lil", Line: 7, Column: 3}
		cd := makeClass("A", field)
		root := makeRoot(cd)

		NewMethodInserter().PerformVisit(root)
		assert.Equal(t, field.Loc, cd.MethodNamed("getWidth").Loc)
	})
}

func TestTypeResolver(t *testing.T) {
	cd := makeClass("Point")
	vd := makeVarDecl("p", ast.NewBasicType("Point"))
	ptr := makeVarDecl("pp", ast.NewPointerType(ast.NewBasicType("Point")))
	root := makeRoot(cd, vd, ptr)

	resolver := NewTypeResolver()
	resolver.PerformVisit(root)
	require.Empty(t, resolver.Errors())

	assert.True(t, vd.Ty.IsA(ast.TypeObject))
	assert.True(t, ptr.Ty.Argument.IsA(ast.TypeObject))
}

func TestStructureLowerer(t *testing.T) {
	t.Run("inherited members are flattened", func(t *testing.T) {
		parent := makeClass("Base",
			makeVarDecl("id", ast.NewBasicType("i64")))
		parent.AddMethod(makeMethod("describe", nil, ast.NewBasicType("str")))
		child := makeClass("Derived", makeVarDecl("name", ast.NewBasicType("str")))
		child.InheritTy = ast.NewObjectType("Base")
		root := makeRoot(parent, child)

		lowerer := NewStructureLowerer()
		lowerer.PerformVisit(root)
		require.Empty(t, lowerer.Errors())

		assert.NotNil(t, child.FieldNamed("id"))
		assert.NotNil(t, child.MethodNamed("describe"))
		assert.Nil(t, child.InheritTy)
		// inherited fields precede own fields
		assert.Equal(t, "id", child.Fields[0].Name)
	})

	t.Run("override wins", func(t *testing.T) {
		parent := makeClass("Base", makeVarDecl("id", ast.NewBasicType("i64")))
		own := makeVarDecl("id", ast.NewBasicType("i32"))
		child := makeClass("Derived", own)
		child.InheritTy = ast.NewObjectType("Base")
		root := makeRoot(parent, child)

		NewStructureLowerer().PerformVisit(root)
		require.Len(t, child.Fields, 1)
		assert.Same(t, own, child.Fields[0])
	})

	t.Run("inheritance cycle is reported", func(t *testing.T) {
		a := makeClass("A")
		a.InheritTy = ast.NewObjectType("B")
		b := makeClass("B")
		b.InheritTy = ast.NewObjectType("A")
		root := makeRoot(a, b)

		lowerer := NewStructureLowerer()
		lowerer.PerformVisit(root)
		assert.NotEmpty(t, lowerer.Errors())
	})
}

func TestTypeGuesser(t *testing.T) {
	t.Run("literals", func(t *testing.T) {
		intLit := &ast.Node{Kind: ast.KindNumberLiteral, Value: "42"}
		floatLit := &ast.Node{Kind: ast.KindNumberLiteral, Value: "4.2"}
		vd1 := makeVarDecl("a", nil)
		vd1.SetInitVal(intLit)
		vd2 := makeVarDecl("b", nil)
		vd2.SetInitVal(floatLit)
		root := makeRoot(vd1, vd2)

		guesser := NewTypeGuesser()
		guesser.PerformVisit(root)

		assert.Equal(t, "i64", intLit.Ty.Name)
		assert.Equal(t, "f64", floatLit.Ty.Name)
		assert.Equal(t, "i64", vd1.Ty.Name)
	})

	t.Run("var name propagates from declaration", func(t *testing.T) {
		decl := makeVarDecl("count", ast.NewBasicType("i64"))
		use := ast.NewVarName("count")
		holder := makeVarDecl("copy", nil)
		holder.SetInitVal(use)
		root := makeRoot(decl, holder)

		NewTypeGuesser().PerformVisit(root)
		require.NotNil(t, use.Ty)
		assert.Equal(t, "i64", use.Ty.Name)
	})

	t.Run("value path through class model", func(t *testing.T) {
		classB := makeClass("B", makeVarDecl("x", ast.NewBasicType("i64")))
		classA := makeClass("A", makeVarDecl("b", ast.NewObjectType("B")))
		varA := makeVarDecl("a", ast.NewObjectType("A"))
		vp := makeValuePath(ast.NewVarName("a"), ast.NewPropertyName("b"), ast.NewPropertyName("x"))
		holder := makeVarDecl("y", nil)
		holder.SetInitVal(vp)
		root := makeRoot(classB, classA, varA, holder)

		NewTypeGuesser().PerformVisit(root)
		require.NotNil(t, vp.Ty)
		assert.Equal(t, "i64", vp.Ty.Name)
	})

	t.Run("comparison expressions are bool", func(t *testing.T) {
		expr := ast.NewNode(ast.KindExpression)
		expr.ExprKind = ast.ExprSmallerComparison
		expr.SetLeft(makeNumber("1"))
		expr.SetRight(makeNumber("2"))
		holder := makeVarDecl("ok", nil)
		holder.SetInitVal(expr)
		root := makeRoot(holder)

		NewTypeGuesser().PerformVisit(root)
		assert.Equal(t, "bool", expr.Ty.Name)
	})
}

func TestStringFnLowerer(t *testing.T) {
	strFn := ast.NewNode(ast.KindStringFunction)
	strFn.AddChild(makeString("count: "))
	count := ast.NewVarName("count")
	count.Ty = ast.NewBasicType("i64")
	strFn.AddChild(count)
	vd := makeVarDecl("msg", ast.NewBasicType("str"))
	vd.SetInitVal(strFn)
	root := makeRoot(vd)

	lowerer := NewStringFnLowerer()
	lowerer.PerformVisit(root)
	require.Empty(t, lowerer.Errors())

	concat := vd.InitVal
	require.Equal(t, ast.KindExpression, concat.Kind)
	assert.Equal(t, ast.ExprSum, concat.ExprKind)
	assert.Equal(t, "str", concat.Ty.Name)
	assert.Equal(t, ast.KindStringLiteral, concat.Left.Kind)
	// the non-string part is wrapped in a conversion call
	require.Equal(t, ast.KindFunctionCall, concat.Right.Kind)
	assert.Equal(t, "str", concat.Right.Name)
}

func TestConversionInserter(t *testing.T) {
	t.Run("widening conversion is inserted", func(t *testing.T) {
		small := makeNumber("1")
		small.Ty = ast.NewBasicType("i32")
		vd := makeVarDecl("x", ast.NewBasicType("i64"))
		vd.SetInitVal(small)
		root := makeRoot(vd)

		inserter := NewConversionInserter()
		inserter.PerformVisit(root)
		require.Empty(t, inserter.Errors())

		call := vd.InitVal
		require.Equal(t, ast.KindFunctionCall, call.Kind)
		assert.Equal(t, "i32_to_i64", call.Name)
		assert.Equal(t, "i64", call.Ty.Name)
	})

	t.Run("unknown conversion is an error", func(t *testing.T) {
		boolLit := ast.NewNode(ast.KindBoolLiteral)
		boolLit.Value = "true"
		boolLit.Ty = ast.NewBasicType("bool")
		vd := makeVarDecl("x", ast.NewBasicType("i64"))
		vd.SetInitVal(boolLit)
		root := makeRoot(vd)

		inserter := NewConversionInserter()
		inserter.PerformVisit(root)
		require.NotEmpty(t, inserter.Errors())
		assert.Contains(t, inserter.Errors()[0].Message, "No conversion")
	})

	t.Run("matching types untouched", func(t *testing.T) {
		lit := makeNumber("1")
		vd := makeVarDecl("x", ast.NewBasicType("i64"))
		vd.SetInitVal(lit)
		root := makeRoot(vd)

		inserter := NewConversionInserter()
		inserter.PerformVisit(root)
		assert.Same(t, lit, vd.InitVal)
	})
}

func TestConstantFolder(t *testing.T) {
	tests := []struct {
		name string
		kind ast.ExpressionKind
		l, r string
		want string
	}{
		{"addition", ast.ExprSum, "2", "3", "5"},
		{"subtraction", ast.ExprSubtraction, "7", "3", "4"},
		{"multiplication", ast.ExprMultiplication, "4", "5", "20"},
		{"division", ast.ExprDivision, "9", "3", "3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expr := ast.NewNode(ast.KindExpression)
			expr.ExprKind = tt.kind
			expr.SetLeft(makeNumber(tt.l))
			expr.SetRight(makeNumber(tt.r))
			vd := makeVarDecl("x", ast.NewBasicType("i64"))
			vd.SetInitVal(expr)
			root := makeRoot(vd)

			folder := NewConstantFolder()
			folder.PerformVisit(root)
			require.Empty(t, folder.Errors())
			require.Equal(t, ast.KindNumberLiteral, vd.InitVal.Kind)
			assert.Equal(t, tt.want, vd.InitVal.Value)
		})
	}

	t.Run("nested expressions fold bottom up", func(t *testing.T) {
		inner := ast.NewNode(ast.KindExpression)
		inner.ExprKind = ast.ExprSum
		inner.SetLeft(makeNumber("1"))
		inner.SetRight(makeNumber("2"))
		outer := ast.NewNode(ast.KindExpression)
		outer.ExprKind = ast.ExprMultiplication
		outer.SetLeft(inner)
		outer.SetRight(makeNumber("10"))
		vd := makeVarDecl("x", ast.NewBasicType("i64"))
		vd.SetInitVal(outer)
		root := makeRoot(vd)

		NewConstantFolder().PerformVisit(root)
		require.Equal(t, ast.KindNumberLiteral, vd.InitVal.Kind)
		assert.Equal(t, "30", vd.InitVal.Value)
	})

	t.Run("division by zero is reported", func(t *testing.T) {
		expr := ast.NewNode(ast.KindExpression)
		expr.ExprKind = ast.ExprDivision
		expr.SetLeft(makeNumber("1"))
		expr.SetRight(makeNumber("0"))
		vd := makeVarDecl("x", ast.NewBasicType("i64"))
		vd.SetInitVal(expr)
		root := makeRoot(vd)

		folder := NewConstantFolder()
		folder.PerformVisit(root)
		assert.NotEmpty(t, folder.Errors())
	})

	t.Run("string concatenation folds", func(t *testing.T) {
		expr := ast.NewNode(ast.KindExpression)
		expr.ExprKind = ast.ExprSum
		expr.SetLeft(makeString("foo"))
		expr.SetRight(makeString("bar"))
		vd := makeVarDecl("x", ast.NewBasicType("str"))
		vd.SetInitVal(expr)
		root := makeRoot(vd)

		NewConstantFolder().PerformVisit(root)
		require.Equal(t, ast.KindStringLiteral, vd.InitVal.Kind)
		assert.Equal(t, "foobar", vd.InitVal.Value)
	})
}

func TestNameLowerer(t *testing.T) {
	buildRoot := func() (*ast.RootNode, *ast.Node) {
		method := makeMethod("area", nil, ast.NewBasicType("i64"))
		fd := ast.NewNode(ast.KindFunctionDecl)
		fd.Name = "area"
		fd.Ty = method.Ty.Clone()
		method.SetInitVal(fd)
		cd := makeClass("Rect")
		cd.AddMethod(method)
		return makeRoot(cd), fd
	}

	t.Run("method names are decorated with the class", func(t *testing.T) {
		root, fd := buildRoot()
		lowerer := NewNameLowerer()
		lowerer.PerformVisit(root)
		assert.Equal(t, "_lil_Rect_area", fd.Name)
	})

	t.Run("idempotent", func(t *testing.T) {
		root, fd := buildRoot()
		lowerer := NewNameLowerer()
		lowerer.PerformVisit(root)
		first := fd.Name
		lowerer.PerformVisit(root)
		assert.Equal(t, first, fd.Name)
	})

	t.Run("signature includes argument types", func(t *testing.T) {
		method := makeMethod("scale", []*ast.Type{ast.NewBasicType("f64")}, nil)
		fd := ast.NewNode(ast.KindFunctionDecl)
		fd.Name = "scale"
		fd.Ty = method.Ty.Clone()
		method.SetInitVal(fd)
		cd := makeClass("Rect")
		cd.AddMethod(method)
		root := makeRoot(cd)

		NewNameLowerer().PerformVisit(root)
		assert.Equal(t, "_lil_Rect_scale_f64", fd.Name)
	})
}

func TestTypeValidator(t *testing.T) {
	makeCall := func(name string, args ...*ast.Node) *ast.Node {
		fc := ast.NewNode(ast.KindFunctionCall)
		fc.Name = name
		fc.FnCallKind = ast.FnCallNone
		for _, a := range args {
			fc.AddArgument(a)
		}
		return fc
	}

	t.Run("unknown function is reported", func(t *testing.T) {
		fn := ast.NewNode(ast.KindFunctionDecl)
		fn.Name = "main"
		fn.AddToBody(makeCall("missing"))
		root := makeRoot(fn)

		validator := NewTypeValidator()
		validator.PerformVisit(root)
		require.NotEmpty(t, validator.Errors())
		assert.Contains(t, validator.Errors()[0].Message, "not found")
	})

	t.Run("arity mismatch is reported", func(t *testing.T) {
		decl := makeVarDecl("f", ast.NewFunctionType([]*ast.Type{ast.NewBasicType("i64"), ast.NewBasicType("i64")}, nil, false))
		fn := ast.NewNode(ast.KindFunctionDecl)
		fn.Name = "main"
		fn.AddToBody(makeCall("f", makeNumber("1")))
		root := makeRoot(decl, fn)

		validator := NewTypeValidator()
		validator.PerformVisit(root)
		require.NotEmpty(t, validator.Errors())
		assert.Contains(t, validator.Errors()[0].Message, "arguments")
	})

	t.Run("argument type mismatch is reported", func(t *testing.T) {
		decl := makeVarDecl("f", ast.NewFunctionType([]*ast.Type{ast.NewBasicType("str")}, nil, false))
		fn := ast.NewNode(ast.KindFunctionDecl)
		fn.Name = "main"
		fn.AddToBody(makeCall("f", makeNumber("1")))
		root := makeRoot(decl, fn)

		validator := NewTypeValidator()
		validator.PerformVisit(root)
		require.NotEmpty(t, validator.Errors())
		assert.Contains(t, validator.Errors()[0].Message, "Type mismatch")
	})

	t.Run("matching call passes", func(t *testing.T) {
		decl := makeVarDecl("f", ast.NewFunctionType([]*ast.Type{ast.NewBasicType("i64")}, nil, false))
		fn := ast.NewNode(ast.KindFunctionDecl)
		fn.Name = "main"
		fn.AddToBody(makeCall("f", makeNumber("1")))
		root := makeRoot(decl, fn)

		validator := NewTypeValidator()
		validator.PerformVisit(root)
		assert.Empty(t, validator.Errors())
	})
}

func TestResourceGatherer(t *testing.T) {
	// class img { var @resource src: str }; rule img { src: "logo.png" }
	srcField := makeVarDecl("src", ast.NewBasicType("str"))
	srcField.IsResource = true
	imgClass := makeClass("img", srcField)

	rule := ast.NewNode(ast.KindRule)
	rule.Ty = ast.NewObjectType("img")
	rule.AddValue(makeAssignment(ast.NewPropertyName("src"), makeString("logo.png")))
	root := makeRoot(imgClass, rule)

	gatherer := NewResourceGatherer()
	gatherer.PerformVisit(root)
	assert.Equal(t, []string{"logo.png"}, gatherer.GatherResources())
}

func TestResourceGathererNestedRules(t *testing.T) {
	srcField := makeVarDecl("src", ast.NewBasicType("str"))
	srcField.IsResource = true
	imgClass := makeClass("img", srcField)
	boxClass := makeClass("box", makeVarDecl("title", ast.NewBasicType("str")))

	inner := ast.NewNode(ast.KindRule)
	inner.Ty = ast.NewObjectType("img")
	inner.AddValue(makeAssignment(ast.NewPropertyName("src"), makeString("icon.png")))
	outer := ast.NewNode(ast.KindRule)
	outer.Ty = ast.NewObjectType("box")
	outer.AddValue(makeAssignment(ast.NewPropertyName("title"), makeString("not a resource")))
	outer.AddChildRule(inner)
	root := makeRoot(imgClass, boxClass, outer)

	gatherer := NewResourceGatherer()
	gatherer.PerformVisit(root)
	assert.Equal(t, []string{"icon.png"}, gatherer.GatherResources())
}

func TestManagerStopsAfterTerminalPass(t *testing.T) {
	// an invalid tree stops the pipeline at the validator
	cd := makeClass("A")
	badMethod := makeVarDecl("m", ast.NewBasicType("i64"))
	cd.AddMethod(badMethod)
	root := makeRoot(cd)

	ran := false
	probe := &probePass{onVisit: func() { ran = true }}

	m := NewManager()
	m.Execute([]Pass{NewASTValidator(), probe}, root, "")

	assert.True(t, m.HasErrors())
	assert.False(t, ran, "pass after failing validator must not run")
	assert.Error(t, m.Err())
}

func TestManagerRunsAllWhenClean(t *testing.T) {
	root := makeRoot(makeClass("A"))
	count := 0
	probe1 := &probePass{onVisit: func() { count++ }}
	probe2 := &probePass{onVisit: func() { count++ }}

	m := NewManager()
	m.Execute([]Pass{probe1, probe2}, root, "")
	assert.Equal(t, 2, count)
	assert.False(t, m.HasErrors())
	assert.NoError(t, m.Err())
}

type probePass struct {
	base
	onVisit func()
}

func (p *probePass) Name() string { return "probe" }
func (p *probePass) PerformVisit(root *ast.RootNode) {
	p.setRoot(root)
	p.onVisit()
}
