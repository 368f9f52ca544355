package passes

import (
	"fmt"

	"github.com/lil-lang/lilc/internal/ast"
)

// ASTValidator checks structural invariants before type work begins:
// parent/child consistency, value path shape, class member shapes and
// enum entry shapes.
type ASTValidator struct {
	base
}

// NewASTValidator creates the pass
func NewASTValidator() *ASTValidator {
	return &ASTValidator{}
}

func (p *ASTValidator) Name() string { return "astValidator" }

func (p *ASTValidator) PerformVisit(root *ast.RootNode) {
	p.setRoot(root)
	for _, node := range root.Nodes() {
		if node.Parent != &root.Node {
			p.addError(fmt.Sprintf("Top level node %s has a wrong parent", node), node.Loc)
		}
		p.validate(node)
	}
}

func (p *ASTValidator) validate(node *ast.Node) {
	for _, child := range node.ChildNodes() {
		if child.Parent != node {
			p.addError(fmt.Sprintf("Node %s has a wrong parent", child), child.Loc)
		}
		p.validate(child)
	}
	switch node.Kind {
	case ast.KindValuePath:
		p.validateValuePath(node)
	case ast.KindClassDecl:
		p.validateClassDecl(node)
	case ast.KindEnum:
		p.validateEnum(node)
	case ast.KindAssignment:
		if node.Subject == nil {
			p.addError("Assignment has no subject", node.Loc)
		}
		if node.AsgValue == nil {
			p.addError("Assignment has no value", node.Loc)
		}
	case ast.KindObjectDefinition:
		if node.Ty == nil {
			p.addError("Object definition has no type", node.Loc)
		}
	}
}

func (p *ASTValidator) validateValuePath(vp *ast.Node) {
	if len(vp.Children) == 0 {
		p.addError("Value path has no segments", vp.Loc)
		return
	}
	first := vp.Children[0]
	switch first.Kind {
	case ast.KindVarName, ast.KindPropertyName:
	case ast.KindSelector:
		if first.SelKind != ast.SelectorSelf && first.SelKind != ast.SelectorThis && first.SelKind != ast.SelectorRoot {
			p.addError(fmt.Sprintf("Invalid selector %s at head of value path", first.Name), first.Loc)
		}
	default:
		p.addError(fmt.Sprintf("Invalid head of value path: %s", first.Kind), first.Loc)
	}
	for _, segment := range vp.Children[1:] {
		switch segment.Kind {
		case ast.KindPropertyName, ast.KindFunctionCall, ast.KindIndexAccessor:
		default:
			p.addError(fmt.Sprintf("Invalid value path segment: %s", segment.Kind), segment.Loc)
		}
	}
}

func (p *ASTValidator) validateClassDecl(cd *ast.Node) {
	for _, field := range cd.Fields {
		if field.Kind != ast.KindVarDecl {
			p.addError(fmt.Sprintf("Field of class %s is not a var declaration", cd.Name), field.Loc)
		}
	}
	for _, method := range cd.Methods {
		if method.Kind != ast.KindVarDecl {
			p.addError(fmt.Sprintf("Method of class %s is not a var declaration", cd.Name), method.Loc)
			continue
		}
		if method.Ty != nil && !method.Ty.IsA(ast.TypeFunction) {
			p.addError(fmt.Sprintf("Method %s of class %s does not have a function type", method.Name, cd.Name), method.Loc)
		}
	}
}

func (p *ASTValidator) validateEnum(enm *ast.Node) {
	for _, value := range enm.Values {
		switch value.Kind {
		case ast.KindPropertyName:
		case ast.KindAssignment:
			if value.Subject == nil || value.Subject.Kind != ast.KindPropertyName {
				p.addError(fmt.Sprintf("Enum %s entry is not a property name", enm.Name), value.Loc)
			}
		default:
			p.addError(fmt.Sprintf("Invalid entry in enum %s: %s", enm.Name, value.Kind), value.Loc)
		}
	}
}
