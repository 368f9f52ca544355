package passes

import (
	"strconv"

	"github.com/lil-lang/lilc/internal/ast"
)

// DOMBuilder walks rules carrying #new instructions and builds the
// static element tree. The root element is @root/container with id 0;
// ids then count up in creation order.
type DOMBuilder struct {
	base
	dom            *ast.Element
	elementCount   int64
	insertionPoint *ast.Element
}

// NewDOMBuilder creates the pass
func NewDOMBuilder() *DOMBuilder {
	return &DOMBuilder{}
}

func (p *DOMBuilder) Name() string { return "domBuilder" }

// DOM returns the built element tree
func (p *DOMBuilder) DOM() *ast.Element {
	return p.dom
}

func (p *DOMBuilder) PerformVisit(root *ast.RootNode) {
	p.setRoot(root)
	p.dom = &ast.Element{
		Name: "@root",
		Ty:   ast.NewObjectType("container"),
		ID:   0,
	}
	p.elementCount = 1
	p.insertionPoint = p.dom
	for _, rule := range root.Rules() {
		for _, innerRule := range rule.ChildRules {
			p.recursiveAddElement(innerRule)
		}
	}
}

func (p *DOMBuilder) recursiveAddElement(rule *ast.Node) {
	insertionPointBackup := p.insertionPoint

	instr := rule.Instruction
	if instr != nil && instr.InstrKind == ast.InstrNew {
		iterations := int64(1)
		if arg := instr.Argument; arg != nil && arg.Kind == ast.KindNumberLiteral {
			if n, err := strconv.ParseInt(arg.Value, 10, 64); err == nil {
				iterations = n
			}
		}
		for i := int64(0); i < iterations; i++ {
			name := ""
			if sel := rule.FirstSelector(); sel != nil {
				name = sel.Name
			}
			ruleTy := rule.Ty
			if ruleTy == nil {
				ruleTy = instr.Ty
			}
			newElem := p.insertionPoint.Add(name, ruleTy, p.elementCount)
			p.elementCount++
			p.insertionPoint = newElem

			for _, innerRule := range rule.ChildRules {
				p.recursiveAddElement(innerRule)
			}
			p.insertionPoint = insertionPointBackup
		}
	}
	p.insertionPoint = insertionPointBackup
}
