package passes

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lil-lang/lilc/internal/ast"
)

// ColorMaker lowers #color instructions into object definitions of the
// color class, with one channel assignment per component.
type ColorMaker struct {
	base
}

// NewColorMaker creates the pass
func NewColorMaker() *ColorMaker {
	return &ColorMaker{}
}

func (p *ColorMaker) Name() string { return "colorMaker" }

func (p *ColorMaker) PerformVisit(root *ast.RootNode) {
	p.setRoot(root)
	for _, node := range root.Nodes() {
		p.process(node)
	}
}

func (p *ColorMaker) process(node *ast.Node) {
	for _, child := range node.ChildNodes() {
		p.process(child)
	}
	for i, child := range node.Children {
		if repl := p.lowerOne(child); repl != nil {
			repl.Parent = node
			node.Children[i] = repl
		}
	}
	for i, child := range node.Values {
		if repl := p.lowerOne(child); repl != nil {
			repl.Parent = node
			node.Values[i] = repl
		}
	}
	if repl := p.lowerOne(node.AsgValue); repl != nil {
		node.SetValue(repl)
	}
	if repl := p.lowerOne(node.InitVal); repl != nil {
		node.SetInitVal(repl)
	}
}

// lowerOne converts a #color instruction into an object definition,
// nil when the node is not one
func (p *ColorMaker) lowerOne(node *ast.Node) *ast.Node {
	if node == nil || node.Kind != ast.KindInstruction || node.InstrKind != ast.InstrColor {
		return nil
	}
	arg := node.Argument
	if arg == nil || arg.Kind != ast.KindStringLiteral {
		p.addError("#color needs a hex string argument", node.Loc)
		return nil
	}
	hex := strings.TrimPrefix(arg.Value, "#")
	red, green, blue, alpha, err := parseHexColor(hex)
	if err != nil {
		p.addError(fmt.Sprintf("Invalid color literal %s", arg.Value), node.Loc)
		return nil
	}
	objdef := ast.NewNode(ast.KindObjectDefinition)
	objdef.Ty = ast.NewObjectType("color")
	objdef.Loc = node.Loc
	channels := []struct {
		name  string
		value int64
	}{
		{"red", red}, {"green", green}, {"blue", blue}, {"alpha", alpha},
	}
	for _, ch := range channels {
		asgmt := ast.NewNode(ast.KindAssignment)
		asgmt.Loc = node.Loc
		asgmt.SetSubject(ast.NewPropertyName(ch.name))
		numTy := ast.NewBasicType("i64")
		asgmt.SetValue(ast.NewNumberLiteral(strconv.FormatInt(ch.value, 10), numTy))
		asgmt.Ty = numTy
		objdef.AddChild(asgmt)
	}
	return objdef
}

// parseHexColor accepts 3, 4, 6 and 8 digit hex colors
func parseHexColor(hex string) (red, green, blue, alpha int64, err error) {
	alpha = 255
	expand := func(s string) string {
		var b strings.Builder
		for _, r := range s {
			b.WriteRune(r)
			b.WriteRune(r)
		}
		return b.String()
	}
	switch len(hex) {
	case 3, 4:
		hex = expand(hex)
	case 6, 8:
	default:
		return 0, 0, 0, 0, fmt.Errorf("bad length %d", len(hex))
	}
	channel := func(offset int) (int64, error) {
		return strconv.ParseInt(hex[offset:offset+2], 16, 64)
	}
	if red, err = channel(0); err != nil {
		return
	}
	if green, err = channel(2); err != nil {
		return
	}
	if blue, err = channel(4); err != nil {
		return
	}
	if len(hex) == 8 {
		alpha, err = channel(6)
	}
	return
}
