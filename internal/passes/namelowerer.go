package passes

import (
	"strings"

	"github.com/lil-lang/lilc/internal/ast"
)

// NameLowerer decorates identifiers with namespace and type signature
// to produce linker-stable names. Running it twice yields the same
// tree: already decorated names are left alone.
type NameLowerer struct {
	base
}

// NewNameLowerer creates the pass
func NewNameLowerer() *NameLowerer {
	return &NameLowerer{}
}

func (p *NameLowerer) Name() string { return "nameLowerer" }

const decoratedPrefix = "_lil_"

func (p *NameLowerer) PerformVisit(root *ast.RootNode) {
	p.setRoot(root)
	for _, node := range root.Nodes() {
		p.process(node)
	}
}

func (p *NameLowerer) process(node *ast.Node) {
	for _, child := range node.ChildNodes() {
		p.process(child)
	}
	switch node.Kind {
	case ast.KindClassDecl:
		for _, method := range node.Methods {
			if method.Kind != ast.KindVarDecl {
				continue
			}
			if fd := method.InitVal; fd != nil && fd.Kind == ast.KindFunctionDecl {
				fd.Name = p.decorate("", node.Name, method.Name, method.Ty)
			}
		}
	case ast.KindFunctionDecl:
		if node.Parent != nil && node.Parent.Kind == ast.KindRoot {
			node.Name = p.decorate("", "", node.Name, node.Ty)
		}
	case ast.KindVarDecl:
		if node.Parent != nil && node.Parent.Kind == ast.KindRoot &&
			node.InitVal != nil && node.InitVal.Kind == ast.KindFunctionDecl &&
			!node.IsExtern {
			node.InitVal.Name = p.decorate("", "", node.Name, node.Ty)
		}
	}
}

// decorate builds _lil_[ns_][class_]name[_signature]
func (p *NameLowerer) decorate(ns, className, name string, ty *ast.Type) string {
	if strings.HasPrefix(name, decoratedPrefix) {
		return name
	}
	var b strings.Builder
	b.WriteString(decoratedPrefix)
	if ns != "" {
		b.WriteString(ns)
		b.WriteString("_")
	}
	if className != "" {
		b.WriteString(className)
		b.WriteString("_")
	}
	b.WriteString(name)
	if ty.IsA(ast.TypeFunction) && len(ty.Arguments) > 0 {
		for _, arg := range ty.Arguments {
			b.WriteString("_")
			b.WriteString(typeSignature(arg))
		}
	}
	return b.String()
}

func typeSignature(ty *ast.Type) string {
	if ty == nil {
		return "void"
	}
	switch ty.Kind {
	case ast.TypeBasic:
		return ty.Name
	case ast.TypeObject:
		return "obj_" + ty.Name
	case ast.TypePointer:
		return "ptr_" + typeSignature(ty.Argument)
	case ast.TypeStaticArray:
		return "arr_" + typeSignature(ty.Element)
	case ast.TypeFunction:
		return "fn"
	}
	return ty.Name
}
