package passes

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lil-lang/lilc/internal/ast"
)

func fieldNames(cd *ast.Node) []string {
	var names []string
	for _, f := range cd.Fields {
		names = append(names, f.Name)
	}
	return names
}

func TestFieldSorterAlignmentBuckets(t *testing.T) {
	cd := makeClass("A",
		makeVarDecl("flag", ast.NewBasicType("bool")),
		makeVarDecl("count", ast.NewBasicType("i64")),
		makeVarDecl("small", ast.NewBasicType("i16")),
		makeVarDecl("ratio", ast.NewBasicType("f64")),
		makeVarDecl("mode", ast.NewBasicType("i32")),
	)
	root := makeRoot(cd)

	sorter := NewFieldSorter()
	sorter.PerformVisit(root)

	// widest first, source order preserved within buckets
	want := []string{"count", "ratio", "mode", "small", "flag"}
	if diff := cmp.Diff(want, fieldNames(cd)); diff != "" {
		t.Errorf("field order mismatch (-want +got):\n%s", diff)
	}
}

func TestFieldSorterIdempotent(t *testing.T) {
	cd := makeClass("A",
		makeVarDecl("a", ast.NewBasicType("i8")),
		makeVarDecl("b", ast.NewBasicType("i64")),
		makeVarDecl("c", ast.NewBasicType("i8")),
		makeVarDecl("d", ast.NewBasicType("i32")),
	)
	root := makeRoot(cd)

	sorter := NewFieldSorter()
	sorter.PerformVisit(root)
	first := fieldNames(cd)
	sorter.PerformVisit(root)
	second := fieldNames(cd)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("second run changed the order (-first +second):\n%s", diff)
	}
}

func TestParameterSorterGroups(t *testing.T) {
	fn := ast.NewNode(ast.KindFunctionDecl)
	fn.Name = "f"
	optional := makeVarDecl("opt", ast.NewBasicType("i64"))
	optional.SetInitVal(makeNumber("1"))
	variadic := makeVarDecl("rest", &ast.Type{Kind: ast.TypeBasic, Name: "i64", IsVariadic: true})
	required := makeVarDecl("req", ast.NewBasicType("i64"))
	fn.AddArgument(optional)
	fn.AddArgument(variadic)
	fn.AddArgument(required)
	root := makeRoot(fn)

	sorter := NewParameterSorter()
	sorter.PerformVisit(root)

	var names []string
	for _, a := range fn.Arguments {
		names = append(names, a.Name)
	}
	assert.Equal(t, []string{"req", "opt", "rest"}, names)
}

func TestParameterSorterIdempotent(t *testing.T) {
	fn := ast.NewNode(ast.KindFunctionDecl)
	opt1 := makeVarDecl("o1", ast.NewBasicType("i64"))
	opt1.SetInitVal(makeNumber("1"))
	opt2 := makeVarDecl("o2", ast.NewBasicType("i64"))
	opt2.SetInitVal(makeNumber("2"))
	fn.AddArgument(opt1)
	fn.AddArgument(makeVarDecl("r1", ast.NewBasicType("i64")))
	fn.AddArgument(opt2)
	root := makeRoot(fn)

	sorter := NewParameterSorter()
	sorter.PerformVisit(root)
	var first []string
	for _, a := range fn.Arguments {
		first = append(first, a.Name)
	}
	sorter.PerformVisit(root)
	var second []string
	for _, a := range fn.Arguments {
		second = append(second, a.Name)
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("second run changed the order (-first +second):\n%s", diff)
	}
}

func TestSortersPreserveParentLinks(t *testing.T) {
	cd := makeClass("A",
		makeVarDecl("a", ast.NewBasicType("i8")),
		makeVarDecl("b", ast.NewBasicType("i64")),
	)
	root := makeRoot(cd)
	NewFieldSorter().PerformVisit(root)
	require.Empty(t, checkParents(root))
}
