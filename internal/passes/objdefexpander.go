package passes

import (
	"fmt"

	"github.com/lil-lang/lilc/internal/ast"
)

// ObjDefExpander converts long value paths inside object definitions
// into nested object definitions. For each object-typed field of the
// class it collects the flat initializer and any modifier assignments
// whose path reaches into the field; modifiers are re-attached, head
// stripped, to the nested initializer. Afterwards no assignment inside
// an object definition has a multi-segment path subject.
type ObjDefExpander struct {
	base
}

// NewObjDefExpander creates the pass
func NewObjDefExpander() *ObjDefExpander {
	return &ObjDefExpander{}
}

func (p *ObjDefExpander) Name() string { return "objDefExpander" }

func (p *ObjDefExpander) PerformVisit(root *ast.RootNode) {
	p.setRoot(root)
	for _, node := range root.Nodes() {
		p.process(node)
	}
}

func (p *ObjDefExpander) process(node *ast.Node) {
	if node.Kind == ast.KindObjectDefinition {
		p.expand(node)
	}
	for _, child := range node.ChildNodes() {
		p.process(child)
	}
}

func (p *ObjDefExpander) expand(objdef *ast.Node) {
	if objdef.Ty == nil {
		return
	}
	cd := p.findClassWithName(objdef.Ty.Name)
	if cd == nil {
		p.addError(fmt.Sprintf("Class %s not found", objdef.Ty.Name), objdef.Loc)
		return
	}
	for _, field := range cd.Fields {
		if field.Kind != ast.KindVarDecl {
			continue
		}
		fieldTy := field.Ty
		if !fieldTy.IsA(ast.TypeObject) {
			continue
		}
		if p.findClassWithName(fieldTy.Name) == nil {
			p.addError(fmt.Sprintf("Class %s of field %s not found", fieldTy.Name, field.Name), field.Loc)
			continue
		}

		var initializer *ast.Node
		var initializerAsgmt *ast.Node
		var modifiers []*ast.Node
		hasChanges := false
		var newNodes []*ast.Node

		for _, node := range objdef.Children {
			if node.Kind != ast.KindAssignment {
				newNodes = append(newNodes, node)
				continue
			}
			subj := node.Subject
			used := false
			switch {
			case subj.IsA(ast.KindPropertyName):
				if subj.Name == field.Name {
					initializer = node.AsgValue
					initializerAsgmt = node
					newNodes = append(newNodes, node)
					used = true
				}
			case subj.IsA(ast.KindValuePath):
				segments := subj.Children
				if len(segments) > 0 && segments[0].IsA(ast.KindPropertyName) && segments[0].Name == field.Name {
					if len(segments) == 1 {
						initializer = node.AsgValue
						initializerAsgmt = node
						newNodes = append(newNodes, node)
					} else {
						modifiers = append(modifiers, node)
					}
					used = true
					hasChanges = true
				}
			}
			if !used {
				newNodes = append(newNodes, node)
			}
		}

		if len(modifiers) > 0 && initializer == nil {
			if field.InitVal != nil {
				initializer = field.InitVal.Clone()
			} else {
				newObjDef := ast.NewNode(ast.KindObjectDefinition)
				newObjDef.Ty = fieldTy.Clone()
				newObjDef.Loc = modifiers[0].Loc
				initializer = newObjDef
			}
			newAsgmt := ast.NewNode(ast.KindAssignment)
			newAsgmt.Loc = modifiers[0].Loc
			subj := ast.NewPropertyName(field.Name)
			subj.Loc = modifiers[0].Loc
			newAsgmt.SetSubject(subj)
			newAsgmt.SetValue(initializer)
			newAsgmt.Ty = fieldTy.Clone()
			initializerAsgmt = newAsgmt
			newNodes = append(newNodes, newAsgmt)
		}

		if initializerAsgmt != nil && initializerAsgmt.AsgValue != nil &&
			initializerAsgmt.AsgValue.Kind == ast.KindObjectDefinition {
			nested := initializerAsgmt.AsgValue
			for _, modifier := range modifiers {
				newAsgmt := ast.NewNode(ast.KindAssignment)
				newAsgmt.Loc = modifier.Loc
				segments := modifier.Subject.Children
				var newSubj []*ast.Node
				for i := 1; i < len(segments); i++ {
					newSubj = append(newSubj, segments[i].Clone())
				}
				if len(newSubj) == 1 {
					newAsgmt.SetSubject(newSubj[0])
				} else {
					newVp := ast.NewNode(ast.KindValuePath)
					newVp.Loc = modifier.Loc
					for _, s := range newSubj {
						newVp.AddChild(s)
					}
					newAsgmt.SetSubject(newVp)
				}
				newAsgmt.SetValue(modifier.AsgValue.Clone())
				if modifier.Ty != nil {
					newAsgmt.Ty = modifier.Ty.Clone()
				}
				nested.AddChild(newAsgmt)
			}
		} else if len(modifiers) > 0 {
			p.addError(fmt.Sprintf("Cannot attach modifiers: initializer of field %s is not an object definition", field.Name), modifiers[0].Loc)
		}

		if hasChanges {
			objdef.SetChildren(newNodes)
		}
	}
}
