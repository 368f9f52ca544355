package passes

import (
	"strings"

	"github.com/lil-lang/lilc/internal/ast"
)

// ResourceGatherer walks the rule tree collecting string literals
// assigned to fields whose declaration is marked as a resource,
// following composed objects recursively.
type ResourceGatherer struct {
	base
}

// NewResourceGatherer creates the pass
func NewResourceGatherer() *ResourceGatherer {
	return &ResourceGatherer{}
}

func (p *ResourceGatherer) Name() string { return "resourceGatherer" }

func (p *ResourceGatherer) PerformVisit(root *ast.RootNode) {
	p.setRoot(root)
}

// GatherResources returns the resource paths referenced by rules
func (p *ResourceGatherer) GatherResources() []string {
	var ret []string
	for _, child := range p.root.Nodes() {
		if child.Kind == ast.KindRule {
			ret = append(ret, p.gatherFromRule(child)...)
		}
	}
	return ret
}

func (p *ResourceGatherer) gatherFromRule(rule *ast.Node) []string {
	var ret []string
	ty := rule.Ty
	if ty != nil && ty.IsA(ast.TypeObject) {
		if cd := p.findClassWithName(ty.Name); cd != nil {
			for _, value := range rule.Values {
				if res, ok := p.resourceFromAssignment(value, cd); ok {
					ret = append(ret, res)
				}
			}
		}
	}
	for _, childRule := range rule.ChildRules {
		ret = append(ret, p.gatherFromRule(childRule)...)
	}
	return ret
}

// resourceFromAssignment checks whether an assignment stores a string
// into a resource field
func (p *ResourceGatherer) resourceFromAssignment(node *ast.Node, cd *ast.Node) (string, bool) {
	if node.Kind != ast.KindAssignment {
		return "", false
	}
	value := node.AsgValue
	if value == nil || value.Kind != ast.KindStringLiteral {
		return "", false
	}
	subj := node.Subject
	if subj == nil {
		return "", false
	}
	var vd *ast.Node
	switch subj.Kind {
	case ast.KindPropertyName:
		vd = cd.FieldNamed(subj.Name)
		if vd == nil {
			vd = p.findExpandedField(cd, subj.Name)
		}
	case ast.KindValuePath:
		remote := p.findNodeForValuePath(subj)
		if remote != nil && remote.Kind == ast.KindVarDecl {
			vd = remote
		}
	}
	if vd == nil || vd.Kind != ast.KindVarDecl {
		return "", false
	}
	if vd.IsResource {
		return stripQuotes(value.Value), true
	}
	if vd.Ty.IsA(ast.TypeObject) && vd.InitVal != nil && vd.InitVal.Kind == ast.KindObjectDefinition {
		if inner := p.recursiveResourceDecl(vd.InitVal); inner != nil && inner.IsResource {
			return stripQuotes(value.Value), true
		}
	}
	return "", false
}

// recursiveResourceDecl searches a default object definition for the
// declaration its string assignments target
func (p *ResourceGatherer) recursiveResourceDecl(objdef *ast.Node) *ast.Node {
	ty := objdef.Ty
	if !ty.IsA(ast.TypeObject) {
		return nil
	}
	cd := p.findClassWithName(ty.Name)
	if cd == nil {
		return nil
	}
	for _, value := range objdef.Children {
		if value.Kind != ast.KindAssignment {
			continue
		}
		asgValue := value.AsgValue
		if asgValue == nil || asgValue.Kind != ast.KindStringLiteral {
			continue
		}
		subj := value.Subject
		if subj == nil {
			continue
		}
		var vd *ast.Node
		switch subj.Kind {
		case ast.KindPropertyName:
			vd = cd.FieldNamed(subj.Name)
			if vd == nil {
				vd = p.findExpandedField(cd, subj.Name)
			}
		case ast.KindValuePath:
			remote := p.findNodeForValuePath(subj)
			if remote != nil && remote.Kind == ast.KindVarDecl {
				vd = remote
			}
		}
		if vd == nil {
			continue
		}
		if vd.IsResource {
			return vd
		}
		if vd.Ty.IsA(ast.TypeObject) && vd.InitVal != nil && vd.InitVal.Kind == ast.KindObjectDefinition {
			if inner := p.recursiveResourceDecl(vd.InitVal); inner != nil && inner.IsResource {
				return inner
			}
		}
	}
	return nil
}

func stripQuotes(s string) string {
	s = strings.TrimPrefix(s, "\"")
	s = strings.TrimSuffix(s, "\"")
	s = strings.TrimPrefix(s, "'")
	s = strings.TrimSuffix(s, "'")
	return s
}
