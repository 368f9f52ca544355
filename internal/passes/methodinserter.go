package passes

import (
	"github.com/lil-lang/lilc/internal/ast"
)

// MethodInserter synthesizes default accessors for vvar fields and a
// default constructor where missing. Synthesized nodes are hidden and
// inherit the location of the declaration that triggered them.
type MethodInserter struct {
	base
}

// NewMethodInserter creates the pass
func NewMethodInserter() *MethodInserter {
	return &MethodInserter{}
}

func (p *MethodInserter) Name() string { return "methodInserter" }

func (p *MethodInserter) PerformVisit(root *ast.RootNode) {
	p.setRoot(root)
	for _, node := range root.Nodes() {
		if node.Kind == ast.KindClassDecl {
			p.process(node)
		}
	}
}

func (p *MethodInserter) process(cd *ast.Node) {
	for _, field := range cd.Fields {
		if field.Kind != ast.KindVarDecl || !field.IsVVar {
			continue
		}
		getterName := "get" + capitalize(field.Name)
		setterName := "set" + capitalize(field.Name)
		if cd.MethodNamed(getterName) == nil {
			cd.AddMethod(p.makeGetter(getterName, field))
		}
		if cd.MethodNamed(setterName) == nil {
			cd.AddMethod(p.makeSetter(setterName, field))
		}
		if field.ReturnTy == nil {
			field.ReturnTy = field.Ty.Clone()
		}
	}
	if cd.MethodNamed("construct") == nil && !cd.IsExtern {
		cd.AddMethod(p.makeConstructor(cd))
	}
}

func (p *MethodInserter) makeGetter(name string, field *ast.Node) *ast.Node {
	method := ast.NewNode(ast.KindVarDecl)
	method.Name = name
	method.Loc = field.Loc
	method.Hidden = true
	method.Ty = ast.NewFunctionType(nil, field.Ty.Clone(), false)

	fd := ast.NewNode(ast.KindFunctionDecl)
	fd.Name = name
	fd.Loc = field.Loc
	fd.Ty = method.Ty.Clone()
	ret := ast.NewNode(ast.KindFlowControlCall)
	ret.Name = "return"
	ret.Loc = field.Loc
	vp := p.selfPath(field)
	ret.AddArgument(vp)
	fd.AddToBody(ret)
	method.SetInitVal(fd)
	return method
}

func (p *MethodInserter) makeSetter(name string, field *ast.Node) *ast.Node {
	method := ast.NewNode(ast.KindVarDecl)
	method.Name = name
	method.Loc = field.Loc
	method.Hidden = true
	method.Ty = ast.NewFunctionType([]*ast.Type{field.Ty.Clone()}, nil, false)

	fd := ast.NewNode(ast.KindFunctionDecl)
	fd.Name = name
	fd.Loc = field.Loc
	fd.Ty = method.Ty.Clone()
	param := ast.NewNode(ast.KindVarDecl)
	param.Name = "value"
	param.Loc = field.Loc
	param.Ty = field.Ty.Clone()
	fd.AddArgument(param)

	asgmt := ast.NewNode(ast.KindAssignment)
	asgmt.Loc = field.Loc
	asgmt.Ty = field.Ty.Clone()
	asgmt.SetSubject(p.selfPath(field))
	asgmt.SetValue(ast.NewVarName("value"))
	fd.AddToBody(asgmt)
	method.SetInitVal(fd)
	return method
}

func (p *MethodInserter) makeConstructor(cd *ast.Node) *ast.Node {
	method := ast.NewNode(ast.KindVarDecl)
	method.Name = "construct"
	method.Loc = cd.Loc
	method.Hidden = true
	method.Ty = ast.NewFunctionType(nil, nil, false)

	fd := ast.NewNode(ast.KindFunctionDecl)
	fd.Name = "construct"
	fd.Loc = cd.Loc
	fd.Ty = method.Ty.Clone()
	for _, field := range cd.Fields {
		if field.Kind != ast.KindVarDecl || field.InitVal == nil || field.IsVVar {
			continue
		}
		asgmt := ast.NewNode(ast.KindAssignment)
		asgmt.Loc = field.Loc
		asgmt.Ty = field.Ty.Clone()
		asgmt.SetSubject(p.selfPath(field))
		asgmt.SetValue(field.InitVal.Clone())
		fd.AddToBody(asgmt)
	}
	method.SetInitVal(fd)
	return method
}

// selfPath builds the value path @self.<field>
func (p *MethodInserter) selfPath(field *ast.Node) *ast.Node {
	vp := ast.NewNode(ast.KindValuePath)
	vp.Loc = field.Loc
	self := ast.NewNode(ast.KindSelector)
	self.SelKind = ast.SelectorSelf
	self.Name = "@self"
	self.Loc = field.Loc
	vp.AddChild(self)
	vp.AddChild(ast.NewPropertyName(field.Name))
	return vp
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	if s[0] >= 'a' && s[0] <= 'z' {
		return string(s[0]-'a'+'A') + s[1:]
	}
	return s
}
