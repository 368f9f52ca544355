package passes

import (
	"strconv"
	"strings"

	"github.com/lil-lang/lilc/internal/ast"
)

// ConstantFolder evaluates pure expressions over literals and replaces
// them with the resulting literal.
type ConstantFolder struct {
	base
}

// NewConstantFolder creates the pass
func NewConstantFolder() *ConstantFolder {
	return &ConstantFolder{}
}

func (p *ConstantFolder) Name() string { return "constantFolder" }

func (p *ConstantFolder) PerformVisit(root *ast.RootNode) {
	p.setRoot(root)
	for _, node := range root.Nodes() {
		p.process(node)
	}
}

func (p *ConstantFolder) process(node *ast.Node) {
	for _, child := range node.ChildNodes() {
		p.process(child)
	}
	for i, child := range node.Children {
		if folded := p.fold(child); folded != nil {
			folded.Parent = node
			node.Children[i] = folded
		}
	}
	for i, child := range node.Arguments {
		if folded := p.fold(child); folded != nil {
			folded.Parent = node
			node.Arguments[i] = folded
		}
	}
	if folded := p.fold(node.AsgValue); folded != nil {
		node.SetValue(folded)
	}
	if folded := p.fold(node.InitVal); folded != nil {
		node.SetInitVal(folded)
	}
	if folded := p.fold(node.Left); folded != nil {
		node.SetLeft(folded)
	}
	if folded := p.fold(node.Right); folded != nil {
		node.SetRight(folded)
	}
}

// fold evaluates an expression over literals, nil when not foldable
func (p *ConstantFolder) fold(node *ast.Node) *ast.Node {
	if node == nil || node.Kind != ast.KindExpression {
		return nil
	}
	left, right := node.Left, node.Right
	if left == nil || right == nil {
		return nil
	}
	if left.Kind == ast.KindStringLiteral && right.Kind == ast.KindStringLiteral && node.ExprKind == ast.ExprSum {
		lit := ast.NewNode(ast.KindStringLiteral)
		lit.Value = left.Value + right.Value
		lit.Ty = ast.NewBasicType("str")
		lit.Loc = node.Loc
		return lit
	}
	if left.Kind != ast.KindNumberLiteral || right.Kind != ast.KindNumberLiteral {
		return nil
	}
	if strings.Contains(left.Value, ".") || strings.Contains(right.Value, ".") {
		return p.foldFloat(node, left, right)
	}
	return p.foldInt(node, left, right)
}

func (p *ConstantFolder) foldInt(node, left, right *ast.Node) *ast.Node {
	l, err1 := strconv.ParseInt(left.Value, 10, 64)
	r, err2 := strconv.ParseInt(right.Value, 10, 64)
	if err1 != nil || err2 != nil {
		return nil
	}
	var result int64
	switch node.ExprKind {
	case ast.ExprSum:
		result = l + r
	case ast.ExprSubtraction:
		result = l - r
	case ast.ExprMultiplication:
		result = l * r
	case ast.ExprDivision:
		if r == 0 {
			p.addError("Division by zero", node.Loc)
			return nil
		}
		result = l / r
	case ast.ExprMod:
		if r == 0 {
			p.addError("Division by zero", node.Loc)
			return nil
		}
		result = l % r
	default:
		return nil
	}
	ty := node.Ty
	if ty == nil {
		ty = left.Ty
	}
	lit := ast.NewNumberLiteral(strconv.FormatInt(result, 10), ty.Clone())
	lit.Loc = node.Loc
	return lit
}

func (p *ConstantFolder) foldFloat(node, left, right *ast.Node) *ast.Node {
	l, err1 := strconv.ParseFloat(left.Value, 64)
	r, err2 := strconv.ParseFloat(right.Value, 64)
	if err1 != nil || err2 != nil {
		return nil
	}
	var result float64
	switch node.ExprKind {
	case ast.ExprSum:
		result = l + r
	case ast.ExprSubtraction:
		result = l - r
	case ast.ExprMultiplication:
		result = l * r
	case ast.ExprDivision:
		if r == 0 {
			p.addError("Division by zero", node.Loc)
			return nil
		}
		result = l / r
	default:
		return nil
	}
	ty := node.Ty
	if ty == nil {
		ty = ast.NewBasicType("f64")
	}
	lit := ast.NewNumberLiteral(strconv.FormatFloat(result, 'f', -1, 64), ty.Clone())
	lit.Loc = node.Loc
	return lit
}
