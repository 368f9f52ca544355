package passes

import (
	"fmt"
	"io"
	"strings"

	"github.com/lil-lang/lilc/internal/ast"
)

// Printer renders the tree structure for verbose mode. It is inserted
// between real passes by the manager.
type Printer struct {
	base
	writer io.Writer
}

// NewPrinter creates a printer pass writing to w
func NewPrinter(w io.Writer) *Printer {
	return &Printer{writer: w}
}

func (p *Printer) Name() string { return "printer" }

func (p *Printer) PerformVisit(root *ast.RootNode) {
	p.setRoot(root)
	for _, node := range root.Nodes() {
		if node.Hidden {
			continue
		}
		p.print(node, 0)
	}
}

func (p *Printer) print(node *ast.Node, depth int) {
	fmt.Fprint(p.writer, strings.Repeat("  ", depth))
	label := string(node.Kind)
	switch {
	case node.Name != "":
		label = fmt.Sprintf("%s %s", node.Kind, node.Name)
	case node.Value != "":
		label = fmt.Sprintf("%s %s", node.Kind, node.Value)
	}
	if node.Ty != nil {
		label += fmt.Sprintf(" : %s", node.Ty)
	}
	fmt.Fprintln(p.writer, label)
	for _, child := range node.ChildNodes() {
		if child.Hidden {
			continue
		}
		p.print(child, depth+1)
	}
}
