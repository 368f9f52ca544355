package passes

import (
	"fmt"

	"github.com/lil-lang/lilc/internal/ast"
)

// PathExpander inserts the intermediate segments of value paths that
// reach through expanded fields. Walking head to tail it tracks the
// current view type; a segment that is not declared directly on the
// current class is searched for in expanded composition members, and
// the property names leading to the match are spliced into the path.
// Two expanded fields resolving the same member is a fatal ambiguity.
type PathExpander struct {
	base
	inhibitIfCastSearch bool
}

// NewPathExpander creates the pass
func NewPathExpander() *PathExpander {
	return &PathExpander{}
}

func (p *PathExpander) Name() string { return "pathExpander" }

func (p *PathExpander) PerformVisit(root *ast.RootNode) {
	p.setRoot(root)
	for _, node := range root.Nodes() {
		p.process(node)
	}
}

func (p *PathExpander) process(node *ast.Node) {
	if node.Kind == ast.KindFlowControl && node.FlowKind == ast.FlowIfCast {
		p.inhibitIfCastSearch = true
		for _, arg := range node.Arguments {
			p.process(arg)
		}
		p.inhibitIfCastSearch = false
		for _, stmt := range node.Body {
			p.process(stmt)
		}
		for _, stmt := range node.Else {
			p.process(stmt)
		}
		return
	}
	for _, child := range node.ChildNodes() {
		p.process(child)
	}
	switch node.Kind {
	case ast.KindValuePath:
		p.expandPath(node)
	case ast.KindObjectDefinition:
		p.expandObjDef(node)
	case ast.KindRule:
		p.expandRule(node)
	}
}

func (p *PathExpander) expandPath(vp *ast.Node) {
	nodes := vp.Children
	if len(nodes) == 0 {
		return
	}
	hasChanges := false
	var newNodes []*ast.Node
	var currentTy *ast.Type
	startIndex := 1

	first := nodes[0]
	switch {
	case first.Kind == ast.KindVarName:
		remote := p.recursiveFindNode(first)
		if remote == nil {
			return
		}
		if remote.Kind == ast.KindEnum {
			return
		}
		subjTy := remote.Ty
		if subjTy == nil && remote.Kind == ast.KindVarDecl && remote.InitVal != nil {
			subjTy = remote.InitVal.Ty
		}
		if subjTy == nil {
			return
		}
		currentTy = subjTy
	case first.Kind == ast.KindPropertyName:
		// property heads resolve against the enclosing object definition
		parent := vp.Parent
		if parent != nil && parent.Kind == ast.KindAssignment {
			grandpa := parent.Parent
			if grandpa != nil && grandpa.Kind == ast.KindObjectDefinition {
				currentTy = grandpa.Ty
				startIndex = 0
			}
		}
		if currentTy == nil {
			return
		}
	case first.Kind == ast.KindSelector && first.SelKind == ast.SelectorSelf:
		cd := p.findAncestorClass(first)
		if cd == nil {
			return
		}
		currentTy = cd.Ty
	case first.Kind == ast.KindSelector && first.SelKind == ast.SelectorThis:
		rule := p.findAncestorRule(first)
		if rule == nil || rule.Ty == nil {
			p.addError("Rule has no type", first.Loc)
			return
		}
		currentTy = rule.Ty
	default:
		return
	}

	for i := 0; i < startIndex; i++ {
		newNodes = append(newNodes, nodes[i].Clone())
	}
	for i := startIndex; i < len(nodes); i++ {
		isLast := i == len(nodes)-1
		node := nodes[i]
		if currentTy.IsA(ast.TypePointer) {
			currentTy = currentTy.Argument
		}
		switch node.Kind {
		case ast.KindPropertyName:
			if !currentTy.IsA(ast.TypeObject) {
				p.addError(fmt.Sprintf("Type %s is not an object type", currentTy), node.Loc)
				return
			}
			cd := p.findClassWithName(currentTy.Name)
			if cd == nil {
				p.addError(fmt.Sprintf("Class %s not found", currentTy.Name), node.Loc)
				return
			}
			field := cd.FieldNamed(node.Name)
			if field == nil {
				var steps []*ast.Node
				field = p.addExpandedFields(&steps, cd, node.Name, false, node.Loc)
				if field != nil {
					for _, step := range steps {
						step.Loc = node.Loc
						newNodes = append(newNodes, step)
					}
					hasChanges = true
				}
			}
			if field == nil {
				p.addError(fmt.Sprintf("Field %s not found on class %s", node.Name, currentTy.Name), node.Loc)
				return
			}
			if field.IsVVar && field.ReturnTy != nil {
				currentTy = field.ReturnTy
			} else {
				currentTy = field.Ty
			}
			newNodes = append(newNodes, node.Clone())
		case ast.KindFunctionCall:
			if !currentTy.IsA(ast.TypeObject) {
				p.addError(fmt.Sprintf("Type %s is not an object type", currentTy), node.Loc)
				return
			}
			cd := p.findClassWithName(currentTy.Name)
			if cd == nil {
				p.addError(fmt.Sprintf("Class %s not found", currentTy.Name), node.Loc)
				return
			}
			method := cd.MethodNamed(node.Name)
			if method == nil {
				var steps []*ast.Node
				method = p.addExpandedFields(&steps, cd, node.Name, true, node.Loc)
				if method != nil {
					for _, step := range steps {
						step.Loc = node.Loc
						newNodes = append(newNodes, step)
					}
					hasChanges = true
				}
			}
			if method == nil {
				p.addError(fmt.Sprintf("Method %s not found on class %s", node.Name, currentTy.Name), node.Loc)
				return
			}
			if !method.Ty.IsA(ast.TypeFunction) {
				p.addError(fmt.Sprintf("Method %s does not have a function type", node.Name), node.Loc)
				return
			}
			if !isLast {
				retTy := method.Ty.Return
				if retTy == nil {
					p.addError(fmt.Sprintf("Method %s has no return type", node.Name), node.Loc)
					return
				}
				currentTy = retTy
			}
			newNodes = append(newNodes, node.Clone())
		case ast.KindIndexAccessor:
			switch {
			case currentTy.IsA(ast.TypeObject):
				cd := p.findClassWithName(currentTy.Name)
				if cd == nil {
					p.addError(fmt.Sprintf("Class %s not found", currentTy.Name), node.Loc)
					return
				}
				method := cd.MethodNamed("at")
				if method == nil {
					p.addError(fmt.Sprintf("Class %s has no at method", currentTy.Name), node.Loc)
					return
				}
				if !method.Ty.IsA(ast.TypeFunction) || method.Ty.Return == nil {
					p.addError(fmt.Sprintf("Bad at method on class %s", currentTy.Name), node.Loc)
					return
				}
				currentTy = method.Ty.Return
			case currentTy.IsA(ast.TypeStaticArray):
				currentTy = currentTy.Element
			default:
				p.addError(fmt.Sprintf("Type %s cannot be indexed", currentTy), node.Loc)
				return
			}
			newNodes = append(newNodes, node.Clone())
		default:
			p.addError(fmt.Sprintf("Invalid value path segment: %s", node.Kind), node.Loc)
			return
		}
	}
	if hasChanges {
		vp.SetChildren(newNodes)
	}
}

// addExpandedFields searches the class's expanded fields for the named
// member. On a match the property names leading to it are prepended to
// steps. A second match in the same scope is a fatal ambiguity.
func (p *PathExpander) addExpandedFields(steps *[]*ast.Node, cd *ast.Node, name string, isMethod bool, loc ast.Location) *ast.Node {
	var ret *ast.Node
	found := false
	for _, field := range cd.Fields {
		if field.Kind != ast.KindVarDecl || !field.IsExpanded {
			continue
		}
		fieldTy := field.Ty
		if !fieldTy.IsA(ast.TypeObject) {
			continue
		}
		expClass := p.findClassWithName(fieldTy.Name)
		if expClass == nil {
			continue
		}
		if !found {
			if isMethod {
				ret = expClass.MethodNamed(name)
			} else {
				ret = expClass.FieldNamed(name)
			}
			if ret == nil {
				ret = p.addExpandedFields(steps, expClass, name, isMethod, loc)
			}
			if ret != nil {
				found = true
				*steps = append([]*ast.Node{ast.NewPropertyName(field.Name)}, *steps...)
			}
		} else {
			candidate := expClass.FieldNamed(name)
			if isMethod {
				candidate = expClass.MethodNamed(name)
			}
			if candidate == nil {
				var dummy []*ast.Node
				candidate = p.addExpandedFields(&dummy, expClass, name, isMethod, loc)
			}
			if candidate != nil {
				p.addError(fmt.Sprintf("Ambiguous member %s: reachable through more than one expanded field of class %s", name, cd.Name), loc)
				return nil
			}
		}
	}
	return ret
}

// expandObjDef gives flat property names that live on expanded fields
// an explicit path through the composition member
func (p *PathExpander) expandObjDef(objdef *ast.Node) {
	if objdef.Ty == nil {
		return
	}
	cd := p.findClassWithName(objdef.Ty.Name)
	if cd == nil {
		return
	}
	for _, node := range objdef.Children {
		if node.Kind != ast.KindAssignment || node.Subject == nil {
			continue
		}
		p.expandFlatSubject(node, cd)
	}
}

// expandRule does the same for rule value assignments
func (p *PathExpander) expandRule(rule *ast.Node) {
	if rule.Ty == nil || !rule.Ty.IsA(ast.TypeObject) {
		return
	}
	cd := p.findClassWithName(rule.Ty.Name)
	if cd == nil {
		return
	}
	for _, node := range rule.Values {
		if node.Kind != ast.KindAssignment || node.Subject == nil {
			continue
		}
		p.expandFlatSubject(node, cd)
	}
}

func (p *PathExpander) expandFlatSubject(asgmt *ast.Node, cd *ast.Node) {
	subject := asgmt.Subject
	if subject.Kind != ast.KindPropertyName {
		return
	}
	if cd.FieldNamed(subject.Name) != nil {
		return
	}
	var steps []*ast.Node
	field := p.addExpandedFields(&steps, cd, subject.Name, false, subject.Loc)
	if field == nil {
		return
	}
	vp := ast.NewNode(ast.KindValuePath)
	vp.Loc = subject.Loc
	for _, step := range steps {
		step.Loc = subject.Loc
		vp.AddChild(step)
	}
	vp.AddChild(subject.Clone())
	asgmt.SetSubject(vp)
}
