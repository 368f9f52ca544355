package passes

import (
	"sort"

	"github.com/lil-lang/lilc/internal/ast"
)

// ParameterSorter reorders function parameters into canonical
// positions: required before optional before variadic. Source order is
// preserved within each group, so re-running is a no-op.
type ParameterSorter struct {
	base
}

// NewParameterSorter creates the pass
func NewParameterSorter() *ParameterSorter {
	return &ParameterSorter{}
}

func (p *ParameterSorter) Name() string { return "parameterSorter" }

func (p *ParameterSorter) PerformVisit(root *ast.RootNode) {
	p.setRoot(root)
	for _, node := range root.Nodes() {
		p.process(node)
	}
}

func (p *ParameterSorter) process(node *ast.Node) {
	for _, child := range node.ChildNodes() {
		p.process(child)
	}
	if node.Kind != ast.KindFunctionDecl {
		return
	}
	args := node.Arguments
	sort.SliceStable(args, func(i, j int) bool {
		return paramGroup(args[i]) < paramGroup(args[j])
	})
	node.Arguments = args
}

// paramGroup buckets a parameter: 0 required, 1 optional, 2 variadic
func paramGroup(param *ast.Node) int {
	if param.Ty != nil && param.Ty.IsVariadic {
		return 2
	}
	if param.InitVal != nil {
		return 1
	}
	return 0
}
