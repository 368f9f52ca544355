package passes

import (
	"fmt"
	"strings"

	"github.com/lil-lang/lilc/internal/ast"
)

// TypeValidator checks that function calls match their prototypes:
// the target resolves, the argument count matches and argument types
// are compatible.
type TypeValidator struct {
	base
}

// NewTypeValidator creates the pass
func NewTypeValidator() *TypeValidator {
	return &TypeValidator{}
}

func (p *TypeValidator) Name() string { return "typeValidator" }

func (p *TypeValidator) PerformVisit(root *ast.RootNode) {
	p.setRoot(root)
	for _, node := range root.Nodes() {
		p.validate(node)
	}
}

func (p *TypeValidator) validate(node *ast.Node) {
	for _, child := range node.ChildNodes() {
		p.validate(child)
	}
	if node.Kind == ast.KindFunctionCall {
		p.validateCall(node)
	}
}

func (p *TypeValidator) validateCall(fc *ast.Node) {
	if fc.Hidden {
		return
	}
	switch fc.FnCallKind {
	case ast.FnCallValuePath:
		p.validatePathCall(fc)
	default:
		p.validateFreeCall(fc)
	}
}

// validatePathCall handles calls that are the tail of a value path
func (p *TypeValidator) validatePathCall(fc *ast.Node) {
	vp := fc.Parent
	if vp == nil || vp.Kind != ast.KindValuePath {
		return
	}
	prefix := pathPrefix(vp, fc)
	classDecl := p.classOfPathPrefix(vp, fc)
	if classDecl == nil {
		p.addError(fmt.Sprintf("Function %s() not found", prefix), fc.Loc)
		return
	}
	method := classDecl.MethodNamed(fc.Name)
	if method == nil {
		p.addError(fmt.Sprintf("Function %s() not found", prefix), fc.Loc)
		return
	}
	ty := method.Ty
	if !ty.IsA(ast.TypeFunction) {
		p.addError(fmt.Sprintf("The path %s does not point to a function", prefix), fc.Loc)
		return
	}
	p.checkArguments(fc, prefix, ty)
}

func (p *TypeValidator) validateFreeCall(fc *ast.Node) {
	decl := p.findNodeForName(fc.Name, fc.Parent)
	if decl == nil {
		p.addError(fmt.Sprintf("Function %s not found.", fc.Name), fc.Loc)
		return
	}
	if decl.Ty.IsA(ast.TypeFunction) {
		p.checkArguments(fc, fc.Name, decl.Ty)
	}
}

func (p *TypeValidator) checkArguments(fc *ast.Node, name string, fnTy *ast.Type) {
	declArgs := fnTy.Arguments
	args := fc.Arguments
	if fnTy.IsVariadic {
		if len(args) < len(declArgs) {
			p.addError(fmt.Sprintf("Missing argument in call: %s needs at least %d arguments", name, len(declArgs)), fc.Loc)
		}
	} else if len(declArgs) != len(args) {
		if len(args) == 0 {
			if len(declArgs) > 1 {
				p.addError(fmt.Sprintf("Missing argument in call: %s needs %d arguments", name, len(declArgs)), fc.Loc)
			} else {
				p.addError(fmt.Sprintf("Missing argument in call: %s needs one argument", name), fc.Loc)
			}
		} else {
			p.addError(fmt.Sprintf("Mismatch of number of arguments: %s needs %d arguments and was given %d", name, len(declArgs), len(args)), fc.Loc)
		}
		return
	}
	for i := 0; i < len(args) && i < len(declArgs); i++ {
		declTy := declArgs[i]
		argTy := args[i].Ty
		if declTy == nil || argTy == nil {
			continue
		}
		if !typesCompatible(argTy, declTy) {
			p.addError(fmt.Sprintf("Type mismatch in call to %s: argument %d is %s, expected %s", name, i+1, argTy, declTy), args[i].Loc)
		}
	}
}

// typesCompatible allows exact matches and pointer decay
func typesCompatible(got, want *ast.Type) bool {
	if got.Equal(want) {
		return true
	}
	if want.IsA(ast.TypePointer) && got.Equal(want.Argument) {
		return true
	}
	if got.IsA(ast.TypePointer) && got.Argument.Equal(want) {
		return true
	}
	return false
}

// classOfPathPrefix resolves the class the call's receiver evaluates to
func (p *TypeValidator) classOfPathPrefix(vp *ast.Node, fc *ast.Node) *ast.Node {
	nodes := vp.Children
	var classDecl *ast.Node
	first := nodes[0]
	switch {
	case first.Kind == ast.KindVarName:
		local := p.findNodeForVarName(first)
		if local == nil {
			return nil
		}
		subjTy := local.Ty
		if subjTy.IsA(ast.TypePointer) {
			subjTy = subjTy.Argument
		}
		if !subjTy.IsA(ast.TypeObject) {
			return nil
		}
		classDecl = p.findClassWithName(subjTy.Name)
	case first.Kind == ast.KindSelector && first.SelKind == ast.SelectorSelf:
		classDecl = p.findAncestorClass(first)
	default:
		return nil
	}
	for i := 1; i < len(nodes) && classDecl != nil; i++ {
		node := nodes[i]
		if node == fc {
			return classDecl
		}
		switch node.Kind {
		case ast.KindPropertyName:
			field := classDecl.FieldNamed(node.Name)
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
			classDecl = p.findClassWithName(fieldTy.Name)
		case ast.KindFunctionCall:
			method := classDecl.MethodNamed(node.Name)
			if method == nil || !method.Ty.IsA(ast.TypeFunction) {
				return nil
			}
			retTy := method.Ty.Return
			if !retTy.IsA(ast.TypeObject) {
				return nil
			}
			classDecl = p.findClassWithName(retTy.Name)
		default:
			return nil
		}
	}
	return nil
}

// pathPrefix renders the path up to the call for diagnostics
func pathPrefix(vp *ast.Node, fc *ast.Node) string {
	var parts []string
	for _, node := range vp.Children {
		if node == fc {
			break
		}
		parts = append(parts, node.Name)
	}
	parts = append(parts, fc.Name)
	return strings.Join(parts, ".")
}
