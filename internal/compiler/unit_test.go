package compiler

import (
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lil-lang/lilc/internal/ast"
	"github.com/lil-lang/lilc/internal/passes"
)

// scriptedBuilder is a fake front end: it returns pre-built trees
// keyed by file path.
type scriptedBuilder struct {
	trees  map[string]func() *ast.RootNode
	parsed map[string]int
}

func newScriptedBuilder() *scriptedBuilder {
	return &scriptedBuilder{
		trees:  make(map[string]func() *ast.RootNode),
		parsed: make(map[string]int),
	}
}

func (b *scriptedBuilder) add(path string, build func() *ast.RootNode) {
	b.trees[path] = build
}

func (b *scriptedBuilder) BuildAST(source, file string) (*ast.RootNode, []ast.Diagnostic) {
	b.parsed[file]++
	if build, ok := b.trees[file]; ok {
		return build(), nil
	}
	return ast.NewRootNode(), nil
}

// scriptedSources serves in-memory file contents
type scriptedSources map[string]string

func (s scriptedSources) ReadSource(path string) (string, error) {
	if content, ok := s[path]; ok {
		return content, nil
	}
	return "", fmt.Errorf("no such file: %s", path)
}

func newTestUnit(builder ASTBuilder, sources SourceLoader) *CodeUnit {
	unit := NewCodeUnit()
	unit.File = "main.lil"
	unit.Dir = "."
	unit.Source = "// main"
	unit.Builder = builder
	unit.Sources = sources
	unit.NeedsConfigureDefaults = false
	unit.VerboseOutput = io.Discard
	return unit
}

func TestCodeUnitConstantsArePrepended(t *testing.T) {
	builder := newScriptedBuilder()
	builder.add("main.lil", func() *ast.RootNode { return ast.NewRootNode() })

	unit := newTestUnit(builder, scriptedSources{})
	unit.Constants = []string{"DEBUG"}
	unit.Run()
	require.False(t, unit.HasErrors())

	var decl *ast.Node
	for _, n := range unit.RootNode().Nodes() {
		if n.Kind == ast.KindVarDecl && n.Name == "DEBUG" {
			decl = n
		}
	}
	require.NotNil(t, decl)
	assert.True(t, decl.IsConst)
	require.NotNil(t, decl.InitVal)
	assert.Equal(t, "true", decl.InitVal.Value)
}

func TestCodeUnitRunsFullPipeline(t *testing.T) {
	builder := newScriptedBuilder()
	builder.add("main.lil", func() *ast.RootNode {
		root := ast.NewRootNode()
		enm := ast.NewNode(ast.KindEnum)
		enm.Name = "E"
		enm.Ty = ast.NewBasicType("i64")
		enm.AddValue(ast.NewPropertyName("a"))
		enm.AddValue(ast.NewPropertyName("b"))
		root.Add(enm)
		return root
	})

	unit := newTestUnit(builder, scriptedSources{})
	unit.Run()
	require.False(t, unit.HasErrors())

	var enm *ast.Node
	for _, n := range unit.RootNode().Nodes() {
		if n.Kind == ast.KindEnum {
			enm = n
		}
	}
	require.NotNil(t, enm)
	// the enum lowerer ran as part of the pipeline
	for _, v := range enm.Values {
		assert.Equal(t, ast.KindAssignment, v.Kind)
	}
	// DOM was built
	require.NotNil(t, unit.DOM())
	assert.Equal(t, "@root", unit.DOM().Name)
}

func TestCodeUnitImportMemoization(t *testing.T) {
	builder := newScriptedBuilder()
	builder.add("main.lil", func() *ast.RootNode {
		root := ast.NewRootNode()
		for i := 0; i < 3; i++ {
			instr := ast.NewNode(ast.KindInstruction)
			instr.InstrKind = ast.InstrNeeds
			arg := ast.NewNode(ast.KindStringLiteral)
			arg.Value = "lib.lil"
			instr.SetArgument(arg)
			root.Add(instr)
		}
		return root
	})
	builder.add("lib.lil", func() *ast.RootNode {
		root := ast.NewRootNode()
		export := ast.NewNode(ast.KindInstruction)
		export.InstrKind = ast.InstrExport
		cd := ast.NewNode(ast.KindClassDecl)
		cd.Name = "Lib"
		cd.Ty = ast.NewObjectType("Lib")
		export.AddChild(cd)
		root.Add(export)
		return root
	})

	unit := newTestUnit(builder, scriptedSources{"lib.lil": "// lib"})
	unit.Run()
	require.False(t, unit.HasErrors())

	// three #needs, one parse
	assert.Equal(t, 1, builder.parsed["lib.lil"])
	assert.True(t, unit.IsAlreadyImported("lib.lil", passes.ImportModeNeeds))

	// the imported class resolves in the consumer tree
	assert.NotNil(t, unit.RootNode().ClassNamed("Lib"))
}

func TestCodeUnitMemoizedNodesAreNotReExported(t *testing.T) {
	unit := newTestUnit(newScriptedBuilder(), scriptedSources{})
	exported := ast.NewNode(ast.KindClassDecl)
	exported.Name = "X"
	exported.IsExported = true
	unit.AddAlreadyImportedFile("x.lil", []*ast.Node{exported}, passes.ImportModeNeeds)

	// original stays exported, memo clone does not
	assert.True(t, exported.IsExported)
	require.True(t, unit.IsAlreadyImported("x.lil", passes.ImportModeNeeds))
	require.Len(t, unit.alreadyImportedNeeds["x.lil"], 1)
	assert.False(t, unit.alreadyImportedNeeds["x.lil"][0].IsExported)
	assert.False(t, unit.IsAlreadyImported("x.lil", passes.ImportModeImport))
}

func TestCodeUnitMissingImportIsFatal(t *testing.T) {
	builder := newScriptedBuilder()
	builder.add("main.lil", func() *ast.RootNode {
		root := ast.NewRootNode()
		instr := ast.NewNode(ast.KindInstruction)
		instr.InstrKind = ast.InstrImport
		arg := ast.NewNode(ast.KindStringLiteral)
		arg.Value = "missing.lil"
		instr.SetArgument(arg)
		root.Add(instr)
		return root
	})

	unit := newTestUnit(builder, scriptedSources{})
	unit.Run()
	assert.True(t, unit.HasErrors())
	require.NotEmpty(t, unit.Diagnostics())
	assert.Contains(t, unit.Diagnostics()[0].Message, "Failed to read the file")
}

func TestCodeUnitForcedImports(t *testing.T) {
	builder := newScriptedBuilder()
	builder.add("main.lil", func() *ast.RootNode { return ast.NewRootNode() })
	builder.add("extra.lil", func() *ast.RootNode {
		root := ast.NewRootNode()
		cd := ast.NewNode(ast.KindClassDecl)
		cd.Name = "Extra"
		cd.Ty = ast.NewObjectType("Extra")
		root.Add(cd)
		return root
	})

	unit := newTestUnit(builder, scriptedSources{"extra.lil": "// extra"})
	unit.Imports = []string{"extra.lil"}
	unit.Run()
	require.False(t, unit.HasErrors())
	assert.NotNil(t, unit.RootNode().ClassNamed("Extra"))
	// the forced import is recorded as a build dependency
	found := false
	for _, nf := range unit.NeededFilesForBuild() {
		if nf.Path == "extra.lil" {
			found = true
		}
	}
	assert.True(t, found)
}
