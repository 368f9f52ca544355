package passes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lil-lang/lilc/internal/ast"
)

func makeImportInstr(kind ast.InstructionKind, path string) *ast.Node {
	instr := ast.NewNode(ast.KindInstruction)
	instr.InstrKind = kind
	instr.SetArgument(makeString(path))
	return instr
}

func TestPreprocessorImportMemoization(t *testing.T) {
	// N #needs for the same path parse the file at most once
	loads := 0
	loader := func(path string, mode ImportMode, verbose bool) (*ImportResult, error) {
		loads++
		exported := makeClass("Shared")
		exported.IsExported = true
		return &ImportResult{Nodes: []*ast.Node{exported}}, nil
	}

	root := makeRoot(
		makeImportInstr(ast.InstrNeeds, "shared.lil"),
		makeImportInstr(ast.InstrNeeds, "shared.lil"),
		makeImportInstr(ast.InstrNeeds, "shared.lil"),
	)

	pp := NewPreprocessor()
	pp.SetLoader(loader)
	pp.PerformVisit(root)

	require.Empty(t, pp.Errors())
	assert.Equal(t, 1, loads)

	// exported nodes appear at most once in visible form
	visible := 0
	for _, n := range root.Nodes() {
		if n.Kind == ast.KindClassDecl && n.Name == "Shared" && !n.Hidden {
			visible++
		}
	}
	assert.Equal(t, 1, visible)
}

func TestPreprocessorSeparateMemoTables(t *testing.T) {
	var loadedModes []ImportMode
	loader := func(path string, mode ImportMode, verbose bool) (*ImportResult, error) {
		loadedModes = append(loadedModes, mode)
		exported := makeClass("Shared")
		exported.IsExported = true
		return &ImportResult{Nodes: []*ast.Node{exported}}, nil
	}

	root := makeRoot(
		makeImportInstr(ast.InstrNeeds, "shared.lil"),
		makeImportInstr(ast.InstrImport, "shared.lil"),
	)
	pp := NewPreprocessor()
	pp.SetLoader(loader)
	pp.PerformVisit(root)

	// needs and import are memoized independently
	assert.Equal(t, []ImportMode{ImportModeNeeds, ImportModeImport}, loadedModes)
}

func TestPreprocessorNeedsFiltersUnexported(t *testing.T) {
	loader := func(path string, mode ImportMode, verbose bool) (*ImportResult, error) {
		exported := makeClass("Public")
		exported.IsExported = true
		private := makeClass("Private")
		return &ImportResult{Nodes: []*ast.Node{exported, private}}, nil
	}
	root := makeRoot(makeImportInstr(ast.InstrNeeds, "lib.lil"))
	pp := NewPreprocessor()
	pp.SetLoader(loader)
	pp.PerformVisit(root)

	assert.NotNil(t, root.ClassNamed("Public"))
	assert.Nil(t, root.ClassNamed("Private"))
}

func TestPreprocessorIfInstruction(t *testing.T) {
	kept := makeVarDecl("kept", ast.NewBasicType("i64"))
	dropped := makeVarDecl("dropped", ast.NewBasicType("i64"))

	ifTrue := ast.NewNode(ast.KindInstruction)
	ifTrue.InstrKind = ast.InstrIf
	ifTrue.Name = "DEBUG"
	ifTrue.AddChild(kept)

	ifFalse := ast.NewNode(ast.KindInstruction)
	ifFalse.InstrKind = ast.InstrIf
	ifFalse.Name = "RELEASE"
	ifFalse.AddChild(dropped)

	root := makeRoot(ifTrue, ifFalse)
	pp := NewPreprocessor()
	pp.SetConstants([]string{"DEBUG"})
	pp.PerformVisit(root)

	names := map[string]bool{}
	for _, n := range root.Nodes() {
		if n.Kind == ast.KindVarDecl {
			names[n.Name] = true
		}
	}
	assert.True(t, names["kept"])
	assert.False(t, names["dropped"])
}

func TestPreprocessorIfAgainstConstDecl(t *testing.T) {
	constDecl := makeVarDecl("FEATURE", ast.NewBasicType("bool"))
	constDecl.IsConst = true
	boolVal := ast.NewNode(ast.KindBoolLiteral)
	boolVal.Value = "true"
	constDecl.SetInitVal(boolVal)

	kept := makeVarDecl("kept", ast.NewBasicType("i64"))
	ifInstr := ast.NewNode(ast.KindInstruction)
	ifInstr.InstrKind = ast.InstrIf
	ifInstr.Name = "FEATURE"
	ifInstr.AddChild(kept)

	root := makeRoot(constDecl, ifInstr)
	pp := NewPreprocessor()
	pp.PerformVisit(root)

	found := false
	for _, n := range root.Nodes() {
		if n.Name == "kept" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestPreprocessorSnippetPaste(t *testing.T) {
	snippet := ast.NewNode(ast.KindInstruction)
	snippet.InstrKind = ast.InstrSnippet
	snippet.Name = "header"
	snippet.AddChild(makeVarDecl("fromSnippet", ast.NewBasicType("i64")))

	paste := ast.NewNode(ast.KindInstruction)
	paste.InstrKind = ast.InstrPaste
	paste.Name = "header"
	fn := ast.NewNode(ast.KindFunctionDecl)
	fn.Name = "main"
	fn.AddToBody(paste)

	root := makeRoot(snippet, fn)
	pp := NewPreprocessor()
	pp.PerformVisit(root)
	require.Empty(t, pp.Errors())

	// the snippet declaration leaves the tree, the paste site gets
	// the clone
	for _, n := range root.Nodes() {
		assert.NotEqual(t, ast.InstrSnippet, n.InstrKind)
	}
	require.Len(t, fn.Body, 1)
	assert.Equal(t, "fromSnippet", fn.Body[0].Name)
}

func TestPreprocessorUnknownSnippet(t *testing.T) {
	paste := ast.NewNode(ast.KindInstruction)
	paste.InstrKind = ast.InstrPaste
	paste.Name = "missing"
	fn := ast.NewNode(ast.KindFunctionDecl)
	fn.AddToBody(paste)
	root := makeRoot(fn)

	pp := NewPreprocessor()
	pp.PerformVisit(root)
	require.Len(t, pp.Errors(), 1)
	assert.Contains(t, pp.Errors()[0].Message, "Unknown snippet")
}

func TestPreprocessorExport(t *testing.T) {
	cd := makeClass("Visible")
	export := ast.NewNode(ast.KindInstruction)
	export.InstrKind = ast.InstrExport
	export.AddChild(cd)
	root := makeRoot(export)

	pp := NewPreprocessor()
	pp.PerformVisit(root)

	require.NotNil(t, root.ClassNamed("Visible"))
	assert.True(t, root.ClassNamed("Visible").IsExported)
}

func TestPreprocessorNeededFilesDeduped(t *testing.T) {
	loader := func(path string, mode ImportMode, verbose bool) (*ImportResult, error) {
		return &ImportResult{
			NeededFiles: []NeededFile{{Path: "dep.o"}},
			Resources:   []string{"logo.png"},
		}, nil
	}
	root := makeRoot(
		makeImportInstr(ast.InstrImport, "a.lil"),
		makeImportInstr(ast.InstrImport, "b.lil"),
	)
	pp := NewPreprocessor()
	pp.SetLoader(loader)
	pp.PerformVisit(root)

	// dep.o arrives from both imports but is recorded once
	deps := 0
	for _, nf := range pp.NeededFilesForBuild() {
		if nf.Path == "dep.o" {
			deps++
		}
	}
	assert.Equal(t, 1, deps)
	assert.Equal(t, []string{"logo.png"}, pp.Resources())
}
