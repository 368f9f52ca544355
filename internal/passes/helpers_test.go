package passes

import (
	"github.com/lil-lang/lilc/internal/ast"
)

// Builders shared by the pass tests. They construct the trees the
// external parser would normally produce.

func makeVarDecl(name string, ty *ast.Type) *ast.Node {
	vd := ast.NewNode(ast.KindVarDecl)
	vd.Name = name
	vd.Ty = ty
	return vd
}

func makeClass(name string, fields ...*ast.Node) *ast.Node {
	cd := ast.NewNode(ast.KindClassDecl)
	cd.Name = name
	cd.Ty = ast.NewObjectType(name)
	for _, f := range fields {
		cd.AddField(f)
	}
	return cd
}

func makeMethod(name string, args []*ast.Type, ret *ast.Type) *ast.Node {
	m := ast.NewNode(ast.KindVarDecl)
	m.Name = name
	m.Ty = ast.NewFunctionType(args, ret, false)
	return m
}

func makeAssignment(subject, value *ast.Node) *ast.Node {
	asgmt := ast.NewNode(ast.KindAssignment)
	asgmt.SetSubject(subject)
	asgmt.SetValue(value)
	return asgmt
}

func makeValuePath(segments ...*ast.Node) *ast.Node {
	vp := ast.NewNode(ast.KindValuePath)
	for _, s := range segments {
		vp.AddChild(s)
	}
	return vp
}

func makeObjDef(ty *ast.Type, assignments ...*ast.Node) *ast.Node {
	objdef := ast.NewNode(ast.KindObjectDefinition)
	objdef.Ty = ty
	for _, a := range assignments {
		objdef.AddChild(a)
	}
	return objdef
}

func makeEnum(name string, entries ...*ast.Node) *ast.Node {
	enm := ast.NewNode(ast.KindEnum)
	enm.Name = name
	enm.Ty = ast.NewBasicType("i64")
	for _, e := range entries {
		enm.AddValue(e)
	}
	return enm
}

func makeNumber(value string) *ast.Node {
	return ast.NewNumberLiteral(value, ast.NewBasicType("i64"))
}

func makeString(value string) *ast.Node {
	lit := ast.NewNode(ast.KindStringLiteral)
	lit.Value = value
	lit.Ty = ast.NewBasicType("str")
	return lit
}

func makeRoot(nodes ...*ast.Node) *ast.RootNode {
	root := ast.NewRootNode()
	for _, n := range nodes {
		root.Add(n)
	}
	return root
}

// checkParents walks the tree verifying every child's parent link
func checkParents(root *ast.RootNode) []*ast.Node {
	var broken []*ast.Node
	var walk func(n *ast.Node)
	walk = func(n *ast.Node) {
		for _, child := range n.ChildNodes() {
			if child.Parent != n {
				broken = append(broken, child)
			}
			walk(child)
		}
	}
	walk(&root.Node)
	return broken
}
