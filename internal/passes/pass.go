// Package passes implements the AST transformation pipeline. Each pass
// receives the root node, rewrites the tree in place and accumulates
// diagnostics; the manager sequences them in a fixed order.
package passes

import (
	"io"
	"log"

	"github.com/lil-lang/lilc/internal/ast"
)

// Pass is a single tree transformation. Initialize is called by the
// manager before PerformVisit; diagnostics collected during the visit
// are drained through Errors.
type Pass interface {
	Name() string
	Initialize()
	PerformVisit(root *ast.RootNode)
	Errors() []ast.Diagnostic
}

// base carries the state shared by every pass: the root node, the
// diagnostic list and the verbosity toggles.
type base struct {
	root    *ast.RootNode
	errs    []ast.Diagnostic
	verbose bool
	logger  *log.Logger
	out     io.Writer
}

func (b *base) Initialize() {}

func (b *base) Errors() []ast.Diagnostic {
	return b.errs
}

func (b *base) setRoot(root *ast.RootNode) {
	b.root = root
}

func (b *base) addError(message string, loc ast.Location) {
	b.errs = append(b.errs, ast.NewDiagnostic(message, loc))
}

func (b *base) logf(format string, args ...interface{}) {
	if b.logger != nil {
		b.logger.Printf(format, args...)
	}
}

// SetLogger sets an optional logger for debug tracing
func (b *base) SetLogger(logger *log.Logger) {
	b.logger = logger
}

// SetVerbose toggles verbose tracing for this pass
func (b *base) SetVerbose(verbose bool) {
	b.verbose = verbose
}

// findClassWithName looks up a class declaration in the root index
func (b *base) findClassWithName(name string) *ast.Node {
	if b.root == nil {
		return nil
	}
	return b.root.ClassNamed(name)
}

// findAncestorClass walks up the parent chain to the enclosing class
func (b *base) findAncestorClass(node *ast.Node) *ast.Node {
	return node.AncestorOfKind(ast.KindClassDecl)
}

// findAncestorRule walks up the parent chain to the enclosing rule
func (b *base) findAncestorRule(node *ast.Node) *ast.Node {
	return node.AncestorOfKind(ast.KindRule)
}

// findNodeForVarName resolves a var name against enclosing scopes:
// function bodies, method receivers, class fields and the root.
func (b *base) findNodeForVarName(vn *ast.Node) *ast.Node {
	return b.findNodeForName(vn.Name, vn.Parent)
}

// findNodeForName resolves a name starting from the given scope node
func (b *base) findNodeForName(name string, from *ast.Node) *ast.Node {
	current := from
	for current != nil {
		for _, candidate := range scopeDeclarations(current) {
			if candidate.Kind == ast.KindVarDecl && candidate.Name == name {
				return candidate
			}
			if candidate.Kind == ast.KindEnum && candidate.Name == name {
				return candidate
			}
			if candidate.Kind == ast.KindClassDecl && candidate.Name == name {
				return candidate
			}
		}
		current = current.Parent
	}
	if b.root != nil {
		for _, candidate := range b.root.Nodes() {
			if (candidate.Kind == ast.KindVarDecl || candidate.Kind == ast.KindEnum) && candidate.Name == name {
				return candidate
			}
		}
	}
	return nil
}

// scopeDeclarations returns the declarations a scope node contributes
func scopeDeclarations(node *ast.Node) []*ast.Node {
	var decls []*ast.Node
	switch node.Kind {
	case ast.KindFunctionDecl:
		decls = append(decls, node.Arguments...)
		decls = append(decls, node.Body...)
	case ast.KindFlowControl:
		decls = append(decls, node.Arguments...)
		decls = append(decls, node.Body...)
	case ast.KindClassDecl:
		decls = append(decls, node.Fields...)
		decls = append(decls, node.Methods...)
	case ast.KindRoot:
		decls = append(decls, node.Children...)
	}
	return decls
}

// recursiveFindNode resolves a var name or value path to its declaration
func (b *base) recursiveFindNode(node *ast.Node) *ast.Node {
	switch node.Kind {
	case ast.KindVarName:
		return b.findNodeForVarName(node)
	case ast.KindValuePath:
		return b.findNodeForValuePath(node)
	}
	return nil
}

// findNodeForValuePath walks a value path against the class model and
// returns the declaration of the final segment, nil when unresolved.
func (b *base) findNodeForValuePath(vp *ast.Node) *ast.Node {
	nodes := vp.Children
	if len(nodes) == 0 {
		return nil
	}
	first := nodes[0]
	if len(nodes) == 1 {
		if first.Kind == ast.KindVarName {
			return b.findNodeForVarName(first)
		}
		return nil
	}
	var classDecl *ast.Node
	switch {
	case first.Kind == ast.KindVarName:
		local := b.findNodeForVarName(first)
		if local != nil {
			subjTy := local.Ty
			if subjTy == nil && local.InitVal != nil {
				subjTy = local.InitVal.Ty
			}
			if subjTy.IsA(ast.TypePointer) {
				subjTy = subjTy.Argument
			}
			if subjTy.IsA(ast.TypeObject) {
				classDecl = b.findClassWithName(subjTy.Name)
			}
		}
	case first.Kind == ast.KindSelector && first.SelKind == ast.SelectorSelf:
		classDecl = b.findAncestorClass(first)
	}
	if classDecl == nil {
		return nil
	}
	for i := 1; i < len(nodes); i++ {
		node := nodes[i]
		switch node.Kind {
		case ast.KindFunctionCall:
			method := classDecl.MethodNamed(node.Name)
			if method == nil || method.Kind != ast.KindVarDecl {
				return nil
			}
			ty := method.Ty
			if !ty.IsA(ast.TypeFunction) || ty.Return == nil {
				return nil
			}
			if i == len(nodes)-1 {
				return method
			}
			if !ty.Return.IsA(ast.TypeObject) {
				return nil
			}
			classDecl = b.findClassWithName(ty.Return.Name)
			if classDecl == nil {
				return nil
			}
		case ast.KindPropertyName:
			field := classDecl.FieldNamed(node.Name)
			if field == nil {
				field = b.findExpandedField(classDecl, node.Name)
			}
			if i == len(nodes)-1 {
				return field
			}
			if field == nil {
				return nil
			}
			fieldTy := field.Ty
			if fieldTy.IsA(ast.TypePointer) {
				fieldTy = fieldTy.Argument
			}
			if !fieldTy.IsA(ast.TypeObject) {
				return nil
			}
			classDecl = b.findClassWithName(fieldTy.Name)
			if classDecl == nil {
				return nil
			}
		default:
			return nil
		}
	}
	return nil
}

// findExpandedField searches expanded composition members recursively
// for a field with the given name
func (b *base) findExpandedField(classDecl *ast.Node, name string) *ast.Node {
	for _, field := range classDecl.Fields {
		if field.Kind != ast.KindVarDecl || !field.IsExpanded {
			continue
		}
		fieldTy := field.Ty
		if !fieldTy.IsA(ast.TypeObject) {
			continue
		}
		expClass := b.findClassWithName(fieldTy.Name)
		if expClass == nil {
			continue
		}
		if found := expClass.FieldNamed(name); found != nil {
			return found
		}
		if found := b.findExpandedField(expClass, name); found != nil {
			return found
		}
	}
	return nil
}
