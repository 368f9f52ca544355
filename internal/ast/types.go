package ast

import (
	"fmt"
	"strings"
)

// TypeKind represents the flavor of a type
type TypeKind string

const (
	TypeBasic       TypeKind = "basic"
	TypeObject      TypeKind = "object"
	TypePointer     TypeKind = "pointer"
	TypeStaticArray TypeKind = "staticArray"
	TypeFunction    TypeKind = "function"
)

// Type is the small type algebra shared by all typed nodes
type Type struct {
	Kind TypeKind
	Name string

	// Object types
	ParamTypes []*Type

	// Pointer types
	Argument *Type

	// Static array types
	Element *Type
	Length  int64

	// Function types
	Arguments  []*Type
	Return     *Type
	IsVariadic bool
}

// NewBasicType builds a primitive type such as i64, f32, bool or str
func NewBasicType(name string) *Type {
	return &Type{Kind: TypeBasic, Name: name}
}

// NewObjectType builds a named class type
func NewObjectType(name string, paramTypes ...*Type) *Type {
	return &Type{Kind: TypeObject, Name: name, ParamTypes: paramTypes}
}

// NewPointerType builds a pointer to the given type
func NewPointerType(argument *Type) *Type {
	return &Type{Kind: TypePointer, Name: "ptr", Argument: argument}
}

// NewStaticArrayType builds a fixed-length array type
func NewStaticArrayType(element *Type, length int64) *Type {
	return &Type{Kind: TypeStaticArray, Element: element, Length: length}
}

// NewFunctionType builds a function type
func NewFunctionType(args []*Type, ret *Type, variadic bool) *Type {
	return &Type{Kind: TypeFunction, Name: "fn", Arguments: args, Return: ret, IsVariadic: variadic}
}

var numberTypeNames = map[string]bool{
	"i8": true, "i16": true, "i32": true, "i64": true, "i128": true,
	"f32": true, "f64": true,
}

// IsNumberType reports whether the type is a numeric primitive
func (t *Type) IsNumberType() bool {
	return t != nil && t.Kind == TypeBasic && numberTypeNames[t.Name]
}

// IsA reports whether the type has the given kind
func (t *Type) IsA(kind TypeKind) bool {
	return t != nil && t.Kind == kind
}

// Equal compares two types structurally
func (t *Type) Equal(other *Type) bool {
	if t == nil || other == nil {
		return t == other
	}
	if t.Kind != other.Kind || t.Name != other.Name {
		return false
	}
	switch t.Kind {
	case TypeObject:
		if len(t.ParamTypes) != len(other.ParamTypes) {
			return false
		}
		for i := range t.ParamTypes {
			if !t.ParamTypes[i].Equal(other.ParamTypes[i]) {
				return false
			}
		}
	case TypePointer:
		return t.Argument.Equal(other.Argument)
	case TypeStaticArray:
		return t.Length == other.Length && t.Element.Equal(other.Element)
	case TypeFunction:
		if t.IsVariadic != other.IsVariadic || len(t.Arguments) != len(other.Arguments) {
			return false
		}
		for i := range t.Arguments {
			if !t.Arguments[i].Equal(other.Arguments[i]) {
				return false
			}
		}
		return t.Return.Equal(other.Return)
	}
	return true
}

// Clone deep-copies the type
func (t *Type) Clone() *Type {
	if t == nil {
		return nil
	}
	copied := &Type{
		Kind:       t.Kind,
		Name:       t.Name,
		Length:     t.Length,
		IsVariadic: t.IsVariadic,
		Argument:   t.Argument.Clone(),
		Element:    t.Element.Clone(),
		Return:     t.Return.Clone(),
	}
	for _, p := range t.ParamTypes {
		copied.ParamTypes = append(copied.ParamTypes, p.Clone())
	}
	for _, a := range t.Arguments {
		copied.Arguments = append(copied.Arguments, a.Clone())
	}
	return copied
}

// String renders the type in source notation
func (t *Type) String() string {
	if t == nil {
		return "<nil>"
	}
	switch t.Kind {
	case TypeBasic:
		return t.Name
	case TypeObject:
		if len(t.ParamTypes) == 0 {
			return "@" + t.Name
		}
		params := make([]string, len(t.ParamTypes))
		for i, p := range t.ParamTypes {
			params[i] = p.String()
		}
		return fmt.Sprintf("@%s(%s)", t.Name, strings.Join(params, ","))
	case TypePointer:
		return fmt.Sprintf("ptr(%s)", t.Argument)
	case TypeStaticArray:
		return fmt.Sprintf("[%d x %s]", t.Length, t.Element)
	case TypeFunction:
		args := make([]string, len(t.Arguments))
		for i, a := range t.Arguments {
			args[i] = a.String()
		}
		s := fmt.Sprintf("fn(%s)", strings.Join(args, ","))
		if t.IsVariadic {
			s = fmt.Sprintf("fn(%s,...)", strings.Join(args, ","))
		}
		if t.Return != nil {
			s += "=>" + t.Return.String()
		}
		return s
	}
	return t.Name
}
