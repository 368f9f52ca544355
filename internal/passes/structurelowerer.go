package passes

import (
	"fmt"

	"github.com/lil-lang/lilc/internal/ast"
)

// StructureLowerer flattens composed class structure: classes that
// inherit receive clones of the parent's fields and methods as
// discrete members, so later passes only ever see flat classes.
type StructureLowerer struct {
	base
	done map[*ast.Node]bool
}

// NewStructureLowerer creates the pass
func NewStructureLowerer() *StructureLowerer {
	return &StructureLowerer{}
}

func (p *StructureLowerer) Name() string { return "structureLowerer" }

func (p *StructureLowerer) PerformVisit(root *ast.RootNode) {
	p.setRoot(root)
	p.done = make(map[*ast.Node]bool)
	for _, node := range root.Nodes() {
		if node.Kind == ast.KindClassDecl {
			p.flatten(node, nil)
		}
	}
}

func (p *StructureLowerer) flatten(cd *ast.Node, chain []string) {
	if p.done[cd] {
		return
	}
	for _, seen := range chain {
		if seen == cd.Name {
			p.addError(fmt.Sprintf("Inheritance cycle through class %s", cd.Name), cd.Loc)
			return
		}
	}
	if cd.InheritTy == nil {
		p.done[cd] = true
		return
	}
	parent := p.findClassWithName(cd.InheritTy.Name)
	if parent == nil {
		p.addError(fmt.Sprintf("Unknown parent class %s", cd.InheritTy.Name), cd.Loc)
		return
	}
	p.flatten(parent, append(chain, cd.Name))

	var inherited []*ast.Node
	for _, field := range parent.Fields {
		if cd.FieldNamed(field.Name) != nil {
			continue
		}
		clone := field.Clone()
		clone.Parent = cd
		inherited = append(inherited, clone)
	}
	cd.Fields = append(inherited, cd.Fields...)
	for _, method := range parent.Methods {
		if cd.MethodNamed(method.Name) != nil {
			continue
		}
		cd.AddMethod(method.Clone())
	}
	cd.InheritTy = nil
	p.done[cd] = true
}
