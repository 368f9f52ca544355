package passes

import (
	"fmt"
	"strconv"

	"github.com/lil-lang/lilc/internal/ast"
)

// EnumLowerer assigns numeric values to bare property name entries.
// The auto counter starts at zero and increments per synthesized
// entry, independently of explicit values; duplicate explicit values
// are diagnosed.
type EnumLowerer struct {
	base
}

// NewEnumLowerer creates the pass
func NewEnumLowerer() *EnumLowerer {
	return &EnumLowerer{}
}

func (p *EnumLowerer) Name() string { return "enumLowerer" }

func (p *EnumLowerer) PerformVisit(root *ast.RootNode) {
	p.setRoot(root)
	for _, node := range root.Nodes() {
		p.process(node)
	}
}

func (p *EnumLowerer) process(node *ast.Node) {
	for _, child := range node.ChildNodes() {
		p.process(child)
	}
	if node.Kind == ast.KindEnum {
		p.lower(node)
	}
}

func (p *EnumLowerer) lower(enm *ast.Node) {
	hasChanges := false
	used := map[int64]bool{}
	autoIndex := int64(0)
	newNodes := make([]*ast.Node, 0, len(enm.Values))
	for _, node := range enm.Values {
		switch node.Kind {
		case ast.KindAssignment:
			value := node.AsgValue
			if value == nil {
				continue
			}
			if value.Kind == ast.KindExpression {
				p.addError(fmt.Sprintf("Enum %s: expression values are not supported", enm.Name), value.Loc)
				continue
			}
			if value.Kind == ast.KindNumberLiteral {
				numValue, err := strconv.ParseInt(value.Value, 10, 64)
				if err == nil {
					if used[numValue] {
						p.addError(fmt.Sprintf("The value %s was already used", value.Value), value.Loc)
					} else {
						used[numValue] = true
					}
				}
			}
			newNodes = append(newNodes, node)
		case ast.KindPropertyName:
			asgmt := ast.NewNode(ast.KindAssignment)
			asgmt.Loc = node.Loc
			asgmt.SetSubject(node)
			numLit := ast.NewNumberLiteral(strconv.FormatInt(autoIndex, 10), enm.Ty.Clone())
			numLit.Loc = node.Loc
			asgmt.SetValue(numLit)
			asgmt.Ty = enm.Ty.Clone()
			newNodes = append(newNodes, asgmt)
			used[autoIndex] = true
			autoIndex++
			hasChanges = true
		default:
			newNodes = append(newNodes, node)
		}
	}
	if hasChanges {
		enm.SetValues(newNodes)
	}
}
