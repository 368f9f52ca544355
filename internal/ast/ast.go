package ast

import "fmt"

// NodeKind represents the kind of AST node
type NodeKind string

// L AST node kinds
const (
	KindRoot             NodeKind = "Root"
	KindAssignment       NodeKind = "Assignment"
	KindClassDecl        NodeKind = "ClassDecl"
	KindEnum             NodeKind = "Enum"
	KindPropertyName     NodeKind = "PropertyName"
	KindVarName          NodeKind = "VarName"
	KindVarDecl          NodeKind = "VarDecl"
	KindNumberLiteral    NodeKind = "NumberLiteral"
	KindStringLiteral    NodeKind = "StringLiteral"
	KindBoolLiteral      NodeKind = "BoolLiteral"
	KindStringFunction   NodeKind = "StringFunction"
	KindValuePath        NodeKind = "ValuePath"
	KindValueList        NodeKind = "ValueList"
	KindObjectDefinition NodeKind = "ObjectDefinition"
	KindFunctionDecl     NodeKind = "FunctionDecl"
	KindFunctionCall     NodeKind = "FunctionCall"
	KindFlowControl      NodeKind = "FlowControl"
	KindFlowControlCall  NodeKind = "FlowControlCall"
	KindExpression       NodeKind = "Expression"
	KindUnaryExpression  NodeKind = "UnaryExpression"
	KindRule             NodeKind = "Rule"
	KindSelector         NodeKind = "Selector"
	KindSimpleSelector   NodeKind = "SimpleSelector"
	KindInstruction      NodeKind = "Instruction"
	KindIndexAccessor    NodeKind = "IndexAccessor"
	KindConversionDecl   NodeKind = "ConversionDecl"
	KindForeignLang      NodeKind = "ForeignLang"
)

// FlowControlKind distinguishes flow control constructs
type FlowControlKind string

const (
	FlowNone    FlowControlKind = ""
	FlowIf      FlowControlKind = "if"
	FlowIfCast  FlowControlKind = "ifcast"
	FlowFor     FlowControlKind = "for"
	FlowLoop    FlowControlKind = "loop"
	FlowSwitch  FlowControlKind = "switch"
	FlowFinally FlowControlKind = "finally"
)

// ExpressionKind distinguishes binary expressions
type ExpressionKind string

const (
	ExprNone              ExpressionKind = ""
	ExprSum               ExpressionKind = "+"
	ExprSubtraction       ExpressionKind = "-"
	ExprMultiplication    ExpressionKind = "*"
	ExprDivision          ExpressionKind = "/"
	ExprMod               ExpressionKind = "%"
	ExprEqualComparison   ExpressionKind = "="
	ExprNotEqual          ExpressionKind = "!="
	ExprSmallerComparison ExpressionKind = "<"
	ExprBiggerComparison  ExpressionKind = ">"
	ExprSmallerOrEqual    ExpressionKind = "<="
	ExprBiggerOrEqual     ExpressionKind = ">="
	ExprLogicalAnd        ExpressionKind = "&&"
	ExprLogicalOr         ExpressionKind = "||"
	ExprBitwiseAnd        ExpressionKind = "&"
	ExprBitwiseOr         ExpressionKind = "|"
	ExprCast              ExpressionKind = "=>"
)

// UnaryExpressionKind distinguishes unary (compound) expressions like `+: 1`
type UnaryExpressionKind string

const (
	UnaryNone           UnaryExpressionKind = ""
	UnarySum            UnaryExpressionKind = "+:"
	UnarySubtraction    UnaryExpressionKind = "-:"
	UnaryMultiplication UnaryExpressionKind = "*:"
	UnaryDivision       UnaryExpressionKind = "/:"
)

// InstructionKind identifies preprocessor instructions
type InstructionKind string

const (
	InstrNone      InstructionKind = ""
	InstrNeeds     InstructionKind = "needs"
	InstrImport    InstructionKind = "import"
	InstrExport    InstructionKind = "export"
	InstrIf        InstructionKind = "if"
	InstrSnippet   InstructionKind = "snippet"
	InstrPaste     InstructionKind = "paste"
	InstrArg       InstructionKind = "arg"
	InstrGetConfig InstructionKind = "getConfig"
	InstrNew       InstructionKind = "new"
	InstrColor     InstructionKind = "color"
	InstrConfigure InstructionKind = "configure"
	InstrBug       InstructionKind = "bug"
)

// SelectorKind identifies selector flavors inside rules and value paths
type SelectorKind string

const (
	SelectorNone SelectorKind = ""
	SelectorName SelectorKind = "name"
	SelectorSelf SelectorKind = "@self"
	SelectorThis SelectorKind = "@this"
	SelectorRoot SelectorKind = "@root"
)

// FunctionCallKind distinguishes free calls from value path tails
type FunctionCallKind string

const (
	FnCallNone      FunctionCallKind = "none"
	FnCallValuePath FunctionCallKind = "valuePath"
)

// Location represents the position of a node in the source code
type Location struct {
	File   string
	Line   int
	Column int
	Index  int
	Length int
}

// Node is the single tagged variant all AST shapes share. Kind-specific
// fields are only meaningful for the kinds that set them; ChildNodes
// aggregates every owned child regardless of which field holds it.
type Node struct {
	Kind     NodeKind
	Parent   *Node
	Children []*Node
	Loc      Location
	Ty       *Type

	IsExported bool
	Hidden     bool

	// Names and literal payloads
	Name  string // var/class/enum/property/function/selector/instruction name
	Value string // literal text for number/string/bool literals

	// Assignment / unary expression
	Subject  *Node
	AsgValue *Node

	// VarDecl
	InitVal    *Node
	IsConst    bool
	IsVVar     bool
	IsIVar     bool
	IsResource bool
	IsExpanded bool
	ReturnTy   *Type // vvar accessor return type

	// ClassDecl
	Fields           []*Node
	Methods          []*Node
	InheritTy        *Type
	ReceivesInherits bool
	IsExtern         bool

	// Enum / Rule / ValueList
	Values []*Node

	// Function decl/call, flow control
	Arguments  []*Node
	Body       []*Node
	Else       []*Node
	FlowKind   FlowControlKind
	FnCallKind FunctionCallKind

	// Expression
	Left     *Node
	Right    *Node
	ExprKind ExpressionKind

	// UnaryExpression
	UnaryKind UnaryExpressionKind

	// Rule
	SelectorChain []*Node
	ChildRules    []*Node
	Instruction   *Node

	// Instruction
	InstrKind InstructionKind
	Argument  *Node
	Verbose   bool

	// Selector
	SelKind SelectorKind
}

// NewNode creates a node of the given kind
func NewNode(kind NodeKind) *Node {
	return &Node{Kind: kind}
}

// NewVarName builds a VarName node
func NewVarName(name string) *Node {
	n := NewNode(KindVarName)
	n.Name = name
	return n
}

// NewPropertyName builds a PropertyName node
func NewPropertyName(name string) *Node {
	n := NewNode(KindPropertyName)
	n.Name = name
	return n
}

// NewNumberLiteral builds a NumberLiteral node with the given text and type
func NewNumberLiteral(value string, ty *Type) *Node {
	n := NewNode(KindNumberLiteral)
	n.Value = value
	n.Ty = ty
	return n
}

// AddChild appends to the generic child list and re-parents
func (n *Node) AddChild(child *Node) {
	if child != nil {
		child.Parent = n
		n.Children = append(n.Children, child)
	}
}

// SetSubject sets the assignment/unary subject and re-parents
func (n *Node) SetSubject(subject *Node) {
	if subject != nil {
		subject.Parent = n
	}
	n.Subject = subject
}

// SetValue sets the assignment value and re-parents
func (n *Node) SetValue(value *Node) {
	if value != nil {
		value.Parent = n
	}
	n.AsgValue = value
}

// SetInitVal sets a var decl's initial value and re-parents
func (n *Node) SetInitVal(value *Node) {
	if value != nil {
		value.Parent = n
	}
	n.InitVal = value
}

// AddField appends a field to a class decl
func (n *Node) AddField(field *Node) {
	if field != nil {
		field.Parent = n
		n.Fields = append(n.Fields, field)
	}
}

// AddMethod appends a method to a class decl
func (n *Node) AddMethod(method *Node) {
	if method != nil {
		method.Parent = n
		n.Methods = append(n.Methods, method)
	}
}

// AddValue appends to the value list of enums, rules and value lists
func (n *Node) AddValue(value *Node) {
	if value != nil {
		value.Parent = n
		n.Values = append(n.Values, value)
	}
}

// SetValues replaces the value list, re-parenting each entry
func (n *Node) SetValues(values []*Node) {
	for _, v := range values {
		if v != nil {
			v.Parent = n
		}
	}
	n.Values = values
}

// AddArgument appends a call/flow-control argument
func (n *Node) AddArgument(arg *Node) {
	if arg != nil {
		arg.Parent = n
		n.Arguments = append(n.Arguments, arg)
	}
}

// SetArguments replaces the argument list, re-parenting each entry
func (n *Node) SetArguments(args []*Node) {
	for _, a := range args {
		if a != nil {
			a.Parent = n
		}
	}
	n.Arguments = args
}

// AddToBody appends to a function or flow-control body
func (n *Node) AddToBody(stmt *Node) {
	if stmt != nil {
		stmt.Parent = n
		n.Body = append(n.Body, stmt)
	}
}

// AddChildRule appends a nested rule
func (n *Node) AddChildRule(rule *Node) {
	if rule != nil {
		rule.Parent = n
		n.ChildRules = append(n.ChildRules, rule)
	}
}

// AddSelector appends to a rule's selector chain
func (n *Node) AddSelector(sel *Node) {
	if sel != nil {
		sel.Parent = n
		n.SelectorChain = append(n.SelectorChain, sel)
	}
}

// SetInstruction attaches an instruction to a rule
func (n *Node) SetInstruction(instr *Node) {
	if instr != nil {
		instr.Parent = n
	}
	n.Instruction = instr
}

// SetArgument attaches an instruction argument
func (n *Node) SetArgument(arg *Node) {
	if arg != nil {
		arg.Parent = n
	}
	n.Argument = arg
}

// SetLeft sets an expression's left operand
func (n *Node) SetLeft(left *Node) {
	if left != nil {
		left.Parent = n
	}
	n.Left = left
}

// SetRight sets an expression's right operand
func (n *Node) SetRight(right *Node) {
	if right != nil {
		right.Parent = n
	}
	n.Right = right
}

// SetChildren replaces the generic child list, re-parenting each entry
func (n *Node) SetChildren(children []*Node) {
	for _, c := range children {
		if c != nil {
			c.Parent = n
		}
	}
	n.Children = children
}

// RemoveChild removes a node from the generic child list
func (n *Node) RemoveChild(child *Node) {
	for i, c := range n.Children {
		if c == child {
			n.Children = append(n.Children[:i], n.Children[i+1:]...)
			return
		}
	}
}

// ChildNodes returns all owned children in traversal order
func (n *Node) ChildNodes() []*Node {
	all := []*Node{}
	all = append(all, n.Children...)
	if n.Subject != nil {
		all = append(all, n.Subject)
	}
	if n.AsgValue != nil {
		all = append(all, n.AsgValue)
	}
	if n.InitVal != nil {
		all = append(all, n.InitVal)
	}
	all = append(all, n.Fields...)
	all = append(all, n.Methods...)
	all = append(all, n.Values...)
	all = append(all, n.Arguments...)
	all = append(all, n.Body...)
	all = append(all, n.Else...)
	if n.Left != nil {
		all = append(all, n.Left)
	}
	if n.Right != nil {
		all = append(all, n.Right)
	}
	all = append(all, n.SelectorChain...)
	all = append(all, n.ChildRules...)
	if n.Instruction != nil {
		all = append(all, n.Instruction)
	}
	if n.Argument != nil {
		all = append(all, n.Argument)
	}
	return all
}

// IsA reports whether the node has the given kind
func (n *Node) IsA(kind NodeKind) bool {
	return n != nil && n.Kind == kind
}

// HasType reports whether the node carries a resolved type
func (n *Node) HasType() bool {
	return n != nil && n.Ty != nil
}

// IsTypedNode reports whether this kind carries a type attribute at all
func (n *Node) IsTypedNode() bool {
	if n == nil {
		return false
	}
	switch n.Kind {
	case KindAssignment, KindClassDecl, KindEnum, KindVarDecl,
		KindNumberLiteral, KindStringLiteral, KindBoolLiteral,
		KindValuePath, KindValueList, KindObjectDefinition,
		KindFunctionDecl, KindFunctionCall, KindExpression,
		KindUnaryExpression, KindRule, KindInstruction, KindStringFunction:
		return true
	default:
		return false
	}
}

// String returns a short human representation
func (n *Node) String() string {
	switch {
	case n.Name != "":
		return fmt.Sprintf("%s(%s)", n.Kind, n.Name)
	case n.Value != "":
		return fmt.Sprintf("%s(%s)", n.Kind, n.Value)
	default:
		return string(n.Kind)
	}
}

// Walk traverses the subtree depth first; returning false from the
// visitor skips the node's children
func (n *Node) Walk(visitor func(*Node) bool) {
	if n == nil {
		return
	}
	if !visitor(n) {
		return
	}
	for _, child := range n.ChildNodes() {
		child.Walk(visitor)
	}
}

// Find collects all nodes in the subtree matching the predicate
func (n *Node) Find(predicate func(*Node) bool) []*Node {
	var results []*Node
	n.Walk(func(node *Node) bool {
		if predicate(node) {
			results = append(results, node)
		}
		return true
	})
	return results
}

// FindByKind collects all nodes of the given kind
func (n *Node) FindByKind(kind NodeKind) []*Node {
	return n.Find(func(node *Node) bool {
		return node.Kind == kind
	})
}

// AncestorOfKind returns the nearest ancestor of the given kind
func (n *Node) AncestorOfKind(kind NodeKind) *Node {
	current := n.Parent
	for current != nil {
		if current.Kind == kind {
			return current
		}
		current = current.Parent
	}
	return nil
}

// FieldNamed looks up a class decl field by name
func (n *Node) FieldNamed(name string) *Node {
	for _, f := range n.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// MethodNamed looks up a class decl method by name
func (n *Node) MethodNamed(name string) *Node {
	for _, m := range n.Methods {
		if m.Name == name {
			return m
		}
	}
	return nil
}

// ValueNamed looks up an enum entry by name. Entries may be bare
// property names before lowering or assignments afterwards.
func (n *Node) ValueNamed(name string) *Node {
	for _, v := range n.Values {
		switch v.Kind {
		case KindPropertyName:
			if v.Name == name {
				return v
			}
		case KindAssignment:
			if v.Subject != nil && v.Subject.Name == name {
				return v
			}
		}
	}
	return nil
}

// FirstSelector returns the first selector of a rule's chain, looking
// through simple selector wrappers
func (n *Node) FirstSelector() *Node {
	if len(n.SelectorChain) == 0 {
		return nil
	}
	first := n.SelectorChain[0]
	if first.Kind == KindSimpleSelector && len(first.Children) > 0 {
		return first.Children[0]
	}
	return first
}

// Clone deep-copies the subtree. The copy has no parent; child parent
// links are re-established inside the copy.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	copied := &Node{
		Kind:             n.Kind,
		Loc:              n.Loc,
		Ty:               n.Ty.Clone(),
		IsExported:       n.IsExported,
		Hidden:           n.Hidden,
		Name:             n.Name,
		Value:            n.Value,
		IsConst:          n.IsConst,
		IsVVar:           n.IsVVar,
		IsIVar:           n.IsIVar,
		IsResource:       n.IsResource,
		IsExpanded:       n.IsExpanded,
		ReturnTy:         n.ReturnTy.Clone(),
		InheritTy:        n.InheritTy.Clone(),
		ReceivesInherits: n.ReceivesInherits,
		IsExtern:         n.IsExtern,
		FlowKind:         n.FlowKind,
		FnCallKind:       n.FnCallKind,
		ExprKind:         n.ExprKind,
		UnaryKind:        n.UnaryKind,
		InstrKind:        n.InstrKind,
		Verbose:          n.Verbose,
		SelKind:          n.SelKind,
	}
	cloneInto := func(nodes []*Node) []*Node {
		if nodes == nil {
			return nil
		}
		out := make([]*Node, 0, len(nodes))
		for _, c := range nodes {
			cc := c.Clone()
			cc.Parent = copied
			out = append(out, cc)
		}
		return out
	}
	cloneOne := func(node *Node) *Node {
		if node == nil {
			return nil
		}
		cc := node.Clone()
		cc.Parent = copied
		return cc
	}
	copied.Children = cloneInto(n.Children)
	copied.Subject = cloneOne(n.Subject)
	copied.AsgValue = cloneOne(n.AsgValue)
	copied.InitVal = cloneOne(n.InitVal)
	copied.Fields = cloneInto(n.Fields)
	copied.Methods = cloneInto(n.Methods)
	copied.Values = cloneInto(n.Values)
	copied.Arguments = cloneInto(n.Arguments)
	copied.Body = cloneInto(n.Body)
	copied.Else = cloneInto(n.Else)
	copied.Left = cloneOne(n.Left)
	copied.Right = cloneOne(n.Right)
	copied.SelectorChain = cloneInto(n.SelectorChain)
	copied.ChildRules = cloneInto(n.ChildRules)
	copied.Instruction = cloneOne(n.Instruction)
	copied.Argument = cloneOne(n.Argument)
	return copied
}
