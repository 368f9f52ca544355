package passes

import (
	"fmt"

	"github.com/lil-lang/lilc/internal/ast"
)

// ConversionInserter wraps values at assignment and argument sites in
// calls to registered conversion functions where the types differ.
// Conversions are declared as conversion decls named from_to.
type ConversionInserter struct {
	base
	conversions map[string]*ast.Node
}

// NewConversionInserter creates the pass
func NewConversionInserter() *ConversionInserter {
	return &ConversionInserter{}
}

func (p *ConversionInserter) Name() string { return "conversionInserter" }

func (p *ConversionInserter) PerformVisit(root *ast.RootNode) {
	p.setRoot(root)
	p.conversions = make(map[string]*ast.Node)
	for _, node := range root.Nodes() {
		if node.Kind == ast.KindConversionDecl {
			p.conversions[node.Name] = node
		}
	}
	widening := [][2]string{
		{"i8", "i16"}, {"i8", "i32"}, {"i8", "i64"},
		{"i16", "i32"}, {"i16", "i64"},
		{"i32", "i64"},
		{"f32", "f64"},
		{"i8", "f64"}, {"i16", "f64"}, {"i32", "f64"}, {"i64", "f64"},
	}
	for _, pair := range widening {
		key := pair[0] + "_to_" + pair[1]
		if _, ok := p.conversions[key]; !ok {
			p.conversions[key] = nil
		}
	}
	for _, node := range root.Nodes() {
		p.process(node)
	}
}

func (p *ConversionInserter) process(node *ast.Node) {
	for _, child := range node.ChildNodes() {
		p.process(child)
	}
	switch node.Kind {
	case ast.KindAssignment:
		if node.Ty != nil && node.AsgValue != nil {
			if wrapped := p.maybeConvert(node.AsgValue, node.Ty); wrapped != nil {
				node.SetValue(wrapped)
			}
		}
	case ast.KindVarDecl:
		if node.Ty != nil && node.InitVal != nil {
			if wrapped := p.maybeConvert(node.InitVal, node.Ty); wrapped != nil {
				node.SetInitVal(wrapped)
			}
		}
	case ast.KindFunctionCall:
		p.processCallArgs(node)
	}
}

func (p *ConversionInserter) processCallArgs(fc *ast.Node) {
	decl := p.findNodeForName(fc.Name, fc.Parent)
	if decl == nil || !decl.Ty.IsA(ast.TypeFunction) {
		return
	}
	declArgs := decl.Ty.Arguments
	for i, callArg := range fc.Arguments {
		if i >= len(declArgs) {
			break
		}
		if wrapped := p.maybeConvert(callArg, declArgs[i]); wrapped != nil {
			wrapped.Parent = fc
			fc.Arguments[i] = wrapped
		}
	}
}

// maybeConvert returns the value wrapped in a conversion call when the
// types differ and a conversion exists, nil otherwise
func (p *ConversionInserter) maybeConvert(value *ast.Node, targetTy *ast.Type) *ast.Node {
	valueTy := value.Ty
	if valueTy == nil || targetTy == nil || valueTy.Equal(targetTy) {
		return nil
	}
	if !valueTy.IsA(ast.TypeBasic) || !targetTy.IsA(ast.TypeBasic) {
		return nil
	}
	key := valueTy.Name + "_to_" + targetTy.Name
	if _, ok := p.conversions[key]; !ok {
		p.addError(fmt.Sprintf("No conversion from %s to %s", valueTy.Name, targetTy.Name), value.Loc)
		return nil
	}
	call := ast.NewNode(ast.KindFunctionCall)
	call.Name = key
	call.FnCallKind = ast.FnCallNone
	call.Ty = targetTy.Clone()
	call.Loc = value.Loc
	call.Hidden = true
	call.AddArgument(value.Clone())
	return call
}
