package passes

import (
	"fmt"

	"github.com/lil-lang/lilc/internal/ast"
)

// ClassTemplateLowerer makes concrete classes out of parameterized
// ones. For every distinct specialization found in the tree it clones
// the generic class, substitutes the parameter types and renames the
// clone to lil_<base>_<param>...; the generic declaration is removed.
type ClassTemplateLowerer struct {
	base
}

// NewClassTemplateLowerer creates the pass
func NewClassTemplateLowerer() *ClassTemplateLowerer {
	return &ClassTemplateLowerer{}
}

func (p *ClassTemplateLowerer) Name() string { return "classTemplateLowerer" }

func (p *ClassTemplateLowerer) PerformVisit(root *ast.RootNode) {
	p.setRoot(root)
	nodes := root.Nodes()
	var result []*ast.Node
	for _, node := range nodes {
		if node.Kind != ast.KindClassDecl || node.Ty == nil || len(node.Ty.ParamTypes) == 0 {
			result = append(result, node)
			continue
		}
		var newClasses []*ast.Node
		seen := map[string]bool{}
		for _, spNode := range p.findSpecializations(nodes, node.Ty.Name) {
			spTy := spNode.Ty
			newClass := p.makeSpecializedClass(node, spTy)
			if newClass == nil {
				continue
			}
			spNode.Ty = newClass.Ty.Clone()
			if !seen[newClass.Name] {
				seen[newClass.Name] = true
				newClasses = append(newClasses, newClass)
			}
		}
		root.RemoveClass(node)
		for _, newCd := range newClasses {
			newCd.Parent = &root.Node
			result = append(result, newCd)
			root.AddClass(newCd)
		}
	}
	root.SetNodes(result)
}

// findSpecializations collects object definitions whose type names the
// generic class and carries parameter types
func (p *ClassTemplateLowerer) findSpecializations(nodes []*ast.Node, className string) []*ast.Node {
	var ret []*ast.Node
	for _, node := range nodes {
		ret = append(ret, p.findSpecializations(node.ChildNodes(), className)...)
		if node.Kind == ast.KindObjectDefinition && node.Ty != nil &&
			node.Ty.Name == className && len(node.Ty.ParamTypes) > 0 {
			ret = append(ret, node)
		}
	}
	return ret
}

func (p *ClassTemplateLowerer) makeSpecializedClass(cd *ast.Node, specializedTy *ast.Type) *ast.Node {
	paramTys := cd.Ty.ParamTypes
	spParamTys := specializedTy.ParamTypes
	if len(paramTys) != len(spParamTys) {
		p.addError(fmt.Sprintf("Type parameter count mismatch: class %s takes %d, was given %d",
			cd.Name, len(paramTys), len(spParamTys)), cd.Loc)
		return nil
	}
	ret := cd.Clone()
	for i := range paramTys {
		p.replaceType(ret, paramTys[i], spParamTys[i])
	}
	newName := "lil_" + specializedTy.Name
	for _, paramTy := range spParamTys {
		newName += "_" + paramTy.Name
	}
	ret.Name = newName
	ret.Ty = ast.NewObjectType(newName)
	return ret
}

// replaceType rewrites every occurrence of the template type in the
// subtree with the specialized one
func (p *ClassTemplateLowerer) replaceType(node *ast.Node, templateTy, specializedTy *ast.Type) {
	for _, child := range node.ChildNodes() {
		p.replaceType(child, templateTy, specializedTy)
	}
	if node.Ty != nil {
		node.Ty = substituteType(node.Ty, templateTy, specializedTy)
	}
	if node.ReturnTy != nil {
		node.ReturnTy = substituteType(node.ReturnTy, templateTy, specializedTy)
	}
}

func substituteType(ty, templateTy, specializedTy *ast.Type) *ast.Type {
	if ty == nil {
		return nil
	}
	if ty.Equal(templateTy) {
		return specializedTy.Clone()
	}
	switch ty.Kind {
	case ast.TypeObject:
		for i, param := range ty.ParamTypes {
			ty.ParamTypes[i] = substituteType(param, templateTy, specializedTy)
		}
	case ast.TypePointer:
		ty.Argument = substituteType(ty.Argument, templateTy, specializedTy)
	case ast.TypeStaticArray:
		ty.Element = substituteType(ty.Element, templateTy, specializedTy)
	case ast.TypeFunction:
		for i, arg := range ty.Arguments {
			ty.Arguments[i] = substituteType(arg, templateTy, specializedTy)
		}
		ty.Return = substituteType(ty.Return, templateTy, specializedTy)
	}
	return ty
}
