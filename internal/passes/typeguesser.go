package passes

import (
	"strings"

	"github.com/lil-lang/lilc/internal/ast"
)

// TypeGuesser fills in missing type attributes by propagating from
// literals, declarations and usage sites, including through value
// paths. It runs bottom up and resolves on demand when a declaration
// is reached before its initializer was visited.
type TypeGuesser struct {
	base
	inProgress map[*ast.Node]bool
}

// NewTypeGuesser creates the pass
func NewTypeGuesser() *TypeGuesser {
	return &TypeGuesser{}
}

func (p *TypeGuesser) Name() string { return "typeGuesser" }

func (p *TypeGuesser) PerformVisit(root *ast.RootNode) {
	p.setRoot(root)
	p.inProgress = make(map[*ast.Node]bool)
	for _, node := range root.Nodes() {
		p.process(node)
	}
}

func (p *TypeGuesser) process(node *ast.Node) {
	for _, child := range node.ChildNodes() {
		p.process(child)
	}
	if node.Ty == nil && (node.IsTypedNode() || node.Kind == ast.KindVarName) {
		node.Ty = p.guess(node)
	}
	if node.Kind == ast.KindRule && node.Ty == nil {
		if sel := node.FirstSelector(); sel != nil {
			if p.findClassWithName(sel.Name) != nil {
				node.Ty = ast.NewObjectType(sel.Name)
			}
		}
	}
}

// guess computes a type for the node without mutating anything else
func (p *TypeGuesser) guess(node *ast.Node) *ast.Type {
	if node == nil {
		return nil
	}
	if node.Ty != nil {
		return node.Ty
	}
	if p.inProgress[node] {
		return nil
	}
	p.inProgress[node] = true
	defer delete(p.inProgress, node)

	switch node.Kind {
	case ast.KindNumberLiteral:
		if strings.Contains(node.Value, ".") {
			return ast.NewBasicType("f64")
		}
		return ast.NewBasicType("i64")
	case ast.KindStringLiteral, ast.KindStringFunction:
		return ast.NewBasicType("str")
	case ast.KindBoolLiteral:
		return ast.NewBasicType("bool")
	case ast.KindVarDecl:
		return p.guess(node.InitVal)
	case ast.KindAssignment:
		if ty := p.subjectType(node.Subject); ty != nil {
			return ty
		}
		return p.guess(node.AsgValue)
	case ast.KindExpression:
		switch node.ExprKind {
		case ast.ExprEqualComparison, ast.ExprNotEqual, ast.ExprSmallerComparison,
			ast.ExprBiggerComparison, ast.ExprSmallerOrEqual, ast.ExprBiggerOrEqual,
			ast.ExprLogicalAnd, ast.ExprLogicalOr:
			return ast.NewBasicType("bool")
		}
		if ty := p.guess(node.Left); ty != nil {
			return ty
		}
		return p.guess(node.Right)
	case ast.KindUnaryExpression:
		return p.guess(node.Subject)
	case ast.KindVarName:
		if decl := p.findNodeForVarName(node); decl != nil {
			if decl.Ty != nil {
				return decl.Ty.Clone()
			}
			return p.guess(decl)
		}
	case ast.KindValuePath:
		return p.valuePathType(node)
	case ast.KindFunctionCall:
		if node.FnCallKind == ast.FnCallNone {
			if decl := p.findNodeForName(node.Name, node.Parent); decl != nil {
				if decl.Ty.IsA(ast.TypeFunction) {
					return decl.Ty.Return.Clone()
				}
			}
		}
	case ast.KindObjectDefinition:
		return node.Ty
	}
	return nil
}

// subjectType resolves the declared type of an assignment subject
func (p *TypeGuesser) subjectType(subject *ast.Node) *ast.Type {
	if subject == nil {
		return nil
	}
	switch subject.Kind {
	case ast.KindVarName:
		if decl := p.findNodeForVarName(subject); decl != nil && decl.Ty != nil {
			return decl.Ty.Clone()
		}
	case ast.KindValuePath:
		return p.valuePathType(subject)
	case ast.KindPropertyName:
		// inside an object definition the property resolves against
		// the definition's class
		if objdef := subject.AncestorOfKind(ast.KindObjectDefinition); objdef != nil && objdef.Ty != nil {
			if cd := p.findClassWithName(objdef.Ty.Name); cd != nil {
				if field := cd.FieldNamed(subject.Name); field != nil && field.Ty != nil {
					return field.Ty.Clone()
				}
			}
		}
		if rule := subject.AncestorOfKind(ast.KindRule); rule != nil && rule.Ty != nil {
			if cd := p.findClassWithName(rule.Ty.Name); cd != nil {
				if field := cd.FieldNamed(subject.Name); field != nil && field.Ty != nil {
					return field.Ty.Clone()
				}
			}
		}
	}
	return nil
}

// valuePathType walks the path against the class model and returns the
// type the full path evaluates to
func (p *TypeGuesser) valuePathType(vp *ast.Node) *ast.Type {
	if len(vp.Children) == 0 {
		return nil
	}
	first := vp.Children[0]
	var currentTy *ast.Type
	switch first.Kind {
	case ast.KindVarName:
		decl := p.findNodeForVarName(first)
		if decl == nil {
			return nil
		}
		if decl.Kind == ast.KindEnum {
			return decl.Ty.Clone()
		}
		currentTy = decl.Ty
		if currentTy == nil {
			currentTy = p.guess(decl)
		}
	case ast.KindSelector:
		switch first.SelKind {
		case ast.SelectorSelf:
			if cd := p.findAncestorClass(first); cd != nil {
				currentTy = cd.Ty
			}
		case ast.SelectorThis:
			if rule := p.findAncestorRule(first); rule != nil {
				currentTy = rule.Ty
			}
		}
	}
	for i := 1; i < len(vp.Children) && currentTy != nil; i++ {
		segment := vp.Children[i]
		if currentTy.IsA(ast.TypePointer) {
			currentTy = currentTy.Argument
		}
		switch segment.Kind {
		case ast.KindPropertyName:
			if !currentTy.IsA(ast.TypeObject) {
				return nil
			}
			cd := p.findClassWithName(currentTy.Name)
			if cd == nil {
				return nil
			}
			field := cd.FieldNamed(segment.Name)
			if field == nil {
				field = p.findExpandedField(cd, segment.Name)
			}
			if field == nil {
				return nil
			}
			if field.IsVVar && field.ReturnTy != nil {
				currentTy = field.ReturnTy
			} else {
				currentTy = field.Ty
			}
		case ast.KindFunctionCall:
			if !currentTy.IsA(ast.TypeObject) {
				return nil
			}
			cd := p.findClassWithName(currentTy.Name)
			if cd == nil {
				return nil
			}
			method := cd.MethodNamed(segment.Name)
			if method == nil || !method.Ty.IsA(ast.TypeFunction) {
				return nil
			}
			currentTy = method.Ty.Return
		case ast.KindIndexAccessor:
			switch {
			case currentTy.IsA(ast.TypeStaticArray):
				currentTy = currentTy.Element
			case currentTy.IsA(ast.TypeObject):
				cd := p.findClassWithName(currentTy.Name)
				if cd == nil {
					return nil
				}
				method := cd.MethodNamed("at")
				if method == nil || !method.Ty.IsA(ast.TypeFunction) {
					return nil
				}
				currentTy = method.Ty.Return
			default:
				return nil
			}
		default:
			return nil
		}
	}
	if currentTy == nil {
		return nil
	}
	return currentTy.Clone()
}
