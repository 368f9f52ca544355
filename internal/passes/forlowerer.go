package passes

import (
	"github.com/lil-lang/lilc/internal/ast"
)

// ForLowerer turns single-argument for blocks into the three-argument
// (init, condition, step) form. Numeric subjects count @value up to
// the number; object subjects count @key up to subject.size.
type ForLowerer struct {
	base
}

// NewForLowerer creates the pass
func NewForLowerer() *ForLowerer {
	return &ForLowerer{}
}

func (p *ForLowerer) Name() string { return "forLowerer" }

func (p *ForLowerer) PerformVisit(root *ast.RootNode) {
	p.setRoot(root)
	for _, node := range root.Nodes() {
		p.process(node)
	}
}

func (p *ForLowerer) process(node *ast.Node) {
	for _, child := range node.ChildNodes() {
		p.process(child)
	}
	if node.Kind != ast.KindFlowControl || node.FlowKind != ast.FlowFor {
		return
	}
	if len(node.Arguments) != 1 {
		return
	}
	arg := node.Arguments[0]
	node.SetSubject(arg.Clone())
	switch arg.Kind {
	case ast.KindNumberLiteral:
		p.lowerNumber(node, arg)
	case ast.KindVarName, ast.KindValuePath:
		remote := p.recursiveFindNode(arg)
		if remote == nil {
			p.addError("Could not resolve subject of for loop", arg.Loc)
			return
		}
		ty := remote.Ty
		if ty == nil && remote.InitVal != nil {
			ty = remote.InitVal.Ty
		}
		if ty == nil {
			p.addError("Subject of for loop has no type", arg.Loc)
			return
		}
		switch {
		case ty.IsNumberType():
			p.lowerNumber(node, arg)
		case ty.IsA(ast.TypeObject):
			p.lowerObject(node, arg)
		default:
			p.addError("Unexpected type in for loop", arg.Loc)
		}
	default:
		p.addError("Unexpected node in for loop", arg.Loc)
	}
}

// lowerNumber builds: var @value: i64 = 0; @value < subject; @value +: 1
func (p *ForLowerer) lowerNumber(fc *ast.Node, arg *ast.Node) {
	numTy := ast.NewBasicType("i64")
	loc := arg.Loc

	vd := ast.NewNode(ast.KindVarDecl)
	vd.Name = "@value"
	vd.Ty = numTy
	vd.Loc = loc
	vd.SetInitVal(ast.NewNumberLiteral("0", numTy.Clone()))
	vd.InitVal.Loc = loc

	comparison := ast.NewNode(ast.KindExpression)
	comparison.ExprKind = ast.ExprSmallerComparison
	comparison.Ty = numTy.Clone()
	comparison.Loc = loc
	vn := ast.NewVarName("@value")
	vn.Ty = numTy.Clone()
	vn.Loc = loc
	comparison.SetLeft(vn)
	comparison.SetRight(arg.Clone())

	step := p.makeStep(vn.Clone(), numTy, loc)

	fc.SetArguments([]*ast.Node{vd, comparison, step})
}

// lowerObject builds: var @key: i64 = 0; @key < subject.size; @key +: 1
func (p *ForLowerer) lowerObject(fc *ast.Node, arg *ast.Node) {
	numTy := ast.NewBasicType("i64")
	loc := arg.Loc

	vd := ast.NewNode(ast.KindVarDecl)
	vd.Name = "@key"
	vd.Ty = numTy
	vd.Loc = loc
	vd.SetInitVal(ast.NewNumberLiteral("0", numTy.Clone()))
	vd.InitVal.Loc = loc

	comparison := ast.NewNode(ast.KindExpression)
	comparison.ExprKind = ast.ExprSmallerComparison
	comparison.Ty = numTy.Clone()
	comparison.Loc = loc
	vn := ast.NewVarName("@key")
	vn.Ty = numTy.Clone()
	vn.Loc = loc
	comparison.SetLeft(vn)
	vp := ast.NewNode(ast.KindValuePath)
	vp.Ty = numTy.Clone()
	vp.Loc = loc
	vp.AddChild(arg.Clone())
	sizePn := ast.NewPropertyName("size")
	sizePn.Loc = loc
	vp.AddChild(sizePn)
	comparison.SetRight(vp)

	step := p.makeStep(vn.Clone(), numTy, loc)

	fc.SetArguments([]*ast.Node{vd, comparison, step})
}

func (p *ForLowerer) makeStep(subject *ast.Node, numTy *ast.Type, loc ast.Location) *ast.Node {
	plusOne := ast.NewNode(ast.KindUnaryExpression)
	plusOne.UnaryKind = ast.UnarySum
	plusOne.Ty = numTy.Clone()
	plusOne.Loc = loc
	plusOne.SetSubject(subject)
	oneLit := ast.NewNumberLiteral("1", numTy.Clone())
	oneLit.Loc = loc
	plusOne.SetValue(oneLit)
	return plusOne
}
