package passes

import (
	"fmt"
	"strconv"

	"github.com/lil-lang/lilc/internal/ast"
	"github.com/lil-lang/lilc/internal/config"
)

// ConfigGetter replaces #getConfig instructions with literals from the
// configuration object.
type ConfigGetter struct {
	base
	cfg *config.Configuration
}

// NewConfigGetter creates the pass with the configuration to query
func NewConfigGetter(cfg *config.Configuration) *ConfigGetter {
	return &ConfigGetter{cfg: cfg}
}

func (p *ConfigGetter) Name() string { return "configGetter" }

func (p *ConfigGetter) PerformVisit(root *ast.RootNode) {
	p.setRoot(root)
	for _, node := range root.Nodes() {
		p.process(node)
	}
}

func (p *ConfigGetter) process(node *ast.Node) {
	for _, child := range node.ChildNodes() {
		p.process(child)
	}
	for i, child := range node.Children {
		if repl := p.resolveOne(child); repl != nil {
			repl.Parent = node
			node.Children[i] = repl
		}
	}
	for i, child := range node.Arguments {
		if repl := p.resolveOne(child); repl != nil {
			repl.Parent = node
			node.Arguments[i] = repl
		}
	}
	if repl := p.resolveOne(node.AsgValue); repl != nil {
		node.SetValue(repl)
	}
	if repl := p.resolveOne(node.InitVal); repl != nil {
		node.SetInitVal(repl)
	}
}

func (p *ConfigGetter) resolveOne(node *ast.Node) *ast.Node {
	if node == nil || node.Kind != ast.KindInstruction || node.InstrKind != ast.InstrGetConfig {
		return nil
	}
	if p.cfg == nil {
		p.addError("No configuration available", node.Loc)
		return nil
	}
	key := node.Name
	if key == "" && node.Argument != nil {
		key = node.Argument.Value
	}
	value, ok := p.cfg.Get(key)
	if !ok {
		p.addError(fmt.Sprintf("Unknown config key %s", key), node.Loc)
		return nil
	}
	lit := p.literalFor(value, node.Loc)
	if lit == nil {
		p.addError(fmt.Sprintf("Unsupported config value for key %s", key), node.Loc)
	}
	return lit
}

func (p *ConfigGetter) literalFor(value config.Value, loc ast.Location) *ast.Node {
	var lit *ast.Node
	switch v := value.(type) {
	case string:
		lit = ast.NewNode(ast.KindStringLiteral)
		lit.Value = v
		lit.Ty = ast.NewBasicType("str")
	case bool:
		lit = ast.NewNode(ast.KindBoolLiteral)
		lit.Value = strconv.FormatBool(v)
		lit.Ty = ast.NewBasicType("bool")
	case int64:
		lit = ast.NewNumberLiteral(strconv.FormatInt(v, 10), ast.NewBasicType("i64"))
	case int:
		lit = ast.NewNumberLiteral(strconv.Itoa(v), ast.NewBasicType("i64"))
	case float64:
		lit = ast.NewNumberLiteral(strconv.FormatFloat(v, 'f', -1, 64), ast.NewBasicType("f64"))
	case []interface{}:
		lit = ast.NewNode(ast.KindValueList)
		for _, item := range v {
			entry := p.literalFor(item, loc)
			if entry == nil {
				return nil
			}
			lit.AddValue(entry)
		}
	default:
		return nil
	}
	lit.Loc = loc
	return lit
}
