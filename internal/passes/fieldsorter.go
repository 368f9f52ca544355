package passes

import (
	"sort"

	"github.com/lil-lang/lilc/internal/ast"
)

// FieldSorter reorders class fields by alignment class, widest first,
// preserving source order within each bucket. Running it twice yields
// an identical tree.
type FieldSorter struct {
	base
}

// NewFieldSorter creates the pass
func NewFieldSorter() *FieldSorter {
	return &FieldSorter{}
}

func (p *FieldSorter) Name() string { return "fieldSorter" }

func (p *FieldSorter) PerformVisit(root *ast.RootNode) {
	p.setRoot(root)
	for _, node := range root.Nodes() {
		if node.Kind == ast.KindClassDecl {
			p.sortFields(node)
		}
	}
}

func (p *FieldSorter) sortFields(cd *ast.Node) {
	fields := cd.Fields
	sort.SliceStable(fields, func(i, j int) bool {
		return alignmentClass(fields[i].Ty) > alignmentClass(fields[j].Ty)
	})
	cd.Fields = fields
}

// alignmentClass maps a type to its alignment bucket
func alignmentClass(ty *ast.Type) int {
	if ty == nil {
		return 0
	}
	switch ty.Kind {
	case ast.TypePointer, ast.TypeFunction:
		return 8
	case ast.TypeBasic:
		switch ty.Name {
		case "i64", "f64", "str":
			return 8
		case "i32", "f32":
			return 4
		case "i16":
			return 2
		case "i8", "bool":
			return 1
		}
	case ast.TypeStaticArray:
		return alignmentClass(ty.Element)
	case ast.TypeObject:
		return 0
	}
	return 0
}
