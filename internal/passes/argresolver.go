package passes

import (
	"fmt"
	"strconv"

	"github.com/lil-lang/lilc/internal/ast"
)

// ArgResolver replaces #arg instructions with literals taken from the
// caller-supplied argument list.
type ArgResolver struct {
	base
	args []string
}

// NewArgResolver creates the pass with the driver arguments
func NewArgResolver(args []string) *ArgResolver {
	return &ArgResolver{args: args}
}

func (p *ArgResolver) Name() string { return "argResolver" }

func (p *ArgResolver) PerformVisit(root *ast.RootNode) {
	p.setRoot(root)
	for _, node := range root.Nodes() {
		p.process(node)
	}
}

func (p *ArgResolver) process(node *ast.Node) {
	for _, child := range node.ChildNodes() {
		p.process(child)
	}
	p.resolveInSlice(node, node.Children, func(i int, repl *ast.Node) {
		node.Children[i] = repl
	})
	p.resolveInSlice(node, node.Arguments, func(i int, repl *ast.Node) {
		node.Arguments[i] = repl
	})
	p.resolveInSlice(node, node.Body, func(i int, repl *ast.Node) {
		node.Body[i] = repl
	})
	if repl := p.resolveOne(node.AsgValue); repl != nil {
		node.SetValue(repl)
	}
	if repl := p.resolveOne(node.InitVal); repl != nil {
		node.SetInitVal(repl)
	}
}

func (p *ArgResolver) resolveInSlice(parent *ast.Node, nodes []*ast.Node, replace func(int, *ast.Node)) {
	for i, child := range nodes {
		if repl := p.resolveOne(child); repl != nil {
			repl.Parent = parent
			replace(i, repl)
		}
	}
}

// resolveOne returns the replacement literal for an #arg instruction,
// nil when the node is not one
func (p *ArgResolver) resolveOne(node *ast.Node) *ast.Node {
	if node == nil || node.Kind != ast.KindInstruction || node.InstrKind != ast.InstrArg {
		return nil
	}
	arg := node.Argument
	if arg == nil || arg.Kind != ast.KindNumberLiteral {
		p.addError("#arg needs a number argument", node.Loc)
		return nil
	}
	index, err := strconv.Atoi(arg.Value)
	if err != nil || index < 0 || index >= len(p.args) {
		p.addError(fmt.Sprintf("Unknown argument %s", arg.Value), node.Loc)
		return nil
	}
	lit := ast.NewNode(ast.KindStringLiteral)
	lit.Value = p.args[index]
	lit.Ty = ast.NewBasicType("str")
	lit.Loc = node.Loc
	return lit
}
