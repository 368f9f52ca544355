package passes

import (
	"github.com/lil-lang/lilc/internal/ast"
)

// TypeResolver rewrites named types whose name refers to a declared
// class into object types, recursing through pointer, array and
// function types. Enums without an explicit value type get i64.
type TypeResolver struct {
	base
}

// NewTypeResolver creates the pass
func NewTypeResolver() *TypeResolver {
	return &TypeResolver{}
}

func (p *TypeResolver) Name() string { return "typeResolver" }

func (p *TypeResolver) PerformVisit(root *ast.RootNode) {
	p.setRoot(root)
	for _, node := range root.Nodes() {
		p.process(node)
	}
}

func (p *TypeResolver) process(node *ast.Node) {
	for _, child := range node.ChildNodes() {
		p.process(child)
	}
	if node.Ty != nil {
		node.Ty = p.resolve(node.Ty)
	}
	if node.ReturnTy != nil {
		node.ReturnTy = p.resolve(node.ReturnTy)
	}
	if node.InheritTy != nil {
		node.InheritTy = p.resolve(node.InheritTy)
	}
	if node.Kind == ast.KindEnum && node.Ty == nil {
		node.Ty = ast.NewBasicType("i64")
	}
}

func (p *TypeResolver) resolve(ty *ast.Type) *ast.Type {
	if ty == nil {
		return nil
	}
	switch ty.Kind {
	case ast.TypeBasic:
		if p.findClassWithName(ty.Name) != nil {
			resolved := ast.NewObjectType(ty.Name)
			return resolved
		}
	case ast.TypeObject:
		for i, param := range ty.ParamTypes {
			ty.ParamTypes[i] = p.resolve(param)
		}
	case ast.TypePointer:
		ty.Argument = p.resolve(ty.Argument)
	case ast.TypeStaticArray:
		ty.Element = p.resolve(ty.Element)
	case ast.TypeFunction:
		for i, arg := range ty.Arguments {
			ty.Arguments[i] = p.resolve(arg)
		}
		ty.Return = p.resolve(ty.Return)
	}
	return ty
}
