package passes

import (
	"github.com/lil-lang/lilc/internal/ast"
)

// StringFnLowerer rewrites string interpolation nodes into a chain of
// concatenations, converting non-string parts on the way.
type StringFnLowerer struct {
	base
	count int
}

// NewStringFnLowerer creates the pass
func NewStringFnLowerer() *StringFnLowerer {
	return &StringFnLowerer{}
}

func (p *StringFnLowerer) Name() string { return "stringFnLowerer" }

func (p *StringFnLowerer) PerformVisit(root *ast.RootNode) {
	p.setRoot(root)
	for _, node := range root.Nodes() {
		p.process(node)
	}
}

func (p *StringFnLowerer) process(node *ast.Node) {
	for _, child := range node.ChildNodes() {
		p.process(child)
	}
	for i, child := range node.Children {
		if repl := p.lowerOne(child); repl != nil {
			repl.Parent = node
			node.Children[i] = repl
		}
	}
	for i, child := range node.Arguments {
		if repl := p.lowerOne(child); repl != nil {
			repl.Parent = node
			node.Arguments[i] = repl
		}
	}
	if repl := p.lowerOne(node.AsgValue); repl != nil {
		node.SetValue(repl)
	}
	if repl := p.lowerOne(node.InitVal); repl != nil {
		node.SetInitVal(repl)
	}
}

// lowerOne converts a string function into nested concatenations,
// nil when the node is not one
func (p *StringFnLowerer) lowerOne(node *ast.Node) *ast.Node {
	if node == nil || node.Kind != ast.KindStringFunction {
		return nil
	}
	strTy := ast.NewBasicType("str")
	parts := node.Children
	if len(parts) == 0 {
		lit := ast.NewNode(ast.KindStringLiteral)
		lit.Value = node.Value
		lit.Ty = strTy
		lit.Loc = node.Loc
		return lit
	}
	var result *ast.Node
	for _, part := range parts {
		piece := p.asString(part.Clone(), strTy)
		if result == nil {
			result = piece
			continue
		}
		concat := ast.NewNode(ast.KindExpression)
		concat.ExprKind = ast.ExprSum
		concat.Ty = strTy.Clone()
		concat.Loc = node.Loc
		concat.SetLeft(result)
		concat.SetRight(piece)
		result = concat
	}
	p.count++
	return result
}

// asString wraps non-string parts in a conversion call
func (p *StringFnLowerer) asString(part *ast.Node, strTy *ast.Type) *ast.Node {
	if part.Kind == ast.KindStringLiteral || (part.Ty != nil && part.Ty.Equal(strTy)) {
		return part
	}
	call := ast.NewNode(ast.KindFunctionCall)
	call.Name = "str"
	call.FnCallKind = ast.FnCallNone
	call.Ty = strTy.Clone()
	call.Loc = part.Loc
	call.AddArgument(part)
	return call
}
