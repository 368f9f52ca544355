// Package compiler drives the per-translation-unit pipeline: it owns
// the code unit state, sequences the passes and recursively loads
// imported units through the preprocessor.
package compiler

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/lil-lang/lilc/internal/ast"
	"github.com/lil-lang/lilc/internal/config"
	"github.com/lil-lang/lilc/internal/passes"
)

// ASTBuilder is the front-end boundary: it parses source text into a
// root node. The core never reads raw source except for diagnostics.
type ASTBuilder interface {
	BuildAST(source, file string) (*ast.RootNode, []ast.Diagnostic)
}

// SourceLoader reads imported files from disk
type SourceLoader interface {
	ReadSource(path string) (string, error)
}

// OSSourceLoader reads sources through the filesystem
type OSSourceLoader struct{}

func (OSSourceLoader) ReadSource(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// CodeUnit is the compilation job for one top-level source file
// including its transitive imports.
type CodeUnit struct {
	File        string
	Dir         string
	CompilerDir string
	Source      string
	Suffix      string
	StdLilPath  string

	Arguments []string
	Constants []string
	Imports   []string

	IsMain                    bool
	Verbose                   bool
	DebugStdLil               bool
	ImportStdLil              bool
	NeedsConfigureDefaults    bool
	DebugConfigureDefaults    bool
	IsBeingImportedWithNeeds  bool
	IsBeingImportedWithImport bool

	Config        *config.Configuration
	Builder       ASTBuilder
	Sources       SourceLoader
	VerboseOutput io.Writer

	root        *ast.RootNode
	pm          *passes.Manager
	dom         *ast.Element
	neededFiles []passes.NeededFile
	resources   []string

	alreadyImportedNeeds  map[string][]*ast.Node
	alreadyImportedImport map[string][]*ast.Node

	buildErrors []ast.Diagnostic
}

// NewCodeUnit creates a unit with defaults matching a main compilation
func NewCodeUnit() *CodeUnit {
	return &CodeUnit{
		NeedsConfigureDefaults: true,
		Sources:                OSSourceLoader{},
		VerboseOutput:          os.Stderr,
		pm:                     passes.NewManager(),
		alreadyImportedNeeds:   make(map[string][]*ast.Node),
		alreadyImportedImport:  make(map[string][]*ast.Node),
	}
}

// RootNode returns the unit's tree, nil before Run
func (u *CodeUnit) RootNode() *ast.RootNode { return u.root }

// DOM returns the static element tree, nil before Run
func (u *CodeUnit) DOM() *ast.Element { return u.dom }

// NeededFilesForBuild returns the deduplicated build dependencies
func (u *CodeUnit) NeededFilesForBuild() []passes.NeededFile { return u.neededFiles }

// Resources returns the gathered resource paths
func (u *CodeUnit) Resources() []string { return u.resources }

// HasErrors reports whether building or any pass failed
func (u *CodeUnit) HasErrors() bool {
	return len(u.buildErrors) > 0 || u.pm.HasErrors()
}

// Diagnostics returns build and pass diagnostics in order
func (u *CodeUnit) Diagnostics() []ast.Diagnostic {
	out := append([]ast.Diagnostic{}, u.buildErrors...)
	return append(out, u.pm.Diagnostics()...)
}

// AddAlreadyImportedFile memoizes an import: nodes are cloned and
// their exported flag cleared so the consumer tree can traverse but
// not re-export them.
func (u *CodeUnit) AddAlreadyImportedFile(path string, nodes []*ast.Node, mode passes.ImportMode) {
	data := make([]*ast.Node, 0, len(nodes))
	for _, n := range nodes {
		clone := n.Clone()
		clone.IsExported = false
		data = append(data, clone)
	}
	if mode == passes.ImportModeNeeds {
		u.alreadyImportedNeeds[path] = data
	} else {
		u.alreadyImportedImport[path] = data
	}
}

// IsAlreadyImported reports whether a path was imported in the mode
func (u *CodeUnit) IsAlreadyImported(path string, mode passes.ImportMode) bool {
	if mode == passes.ImportModeNeeds {
		_, ok := u.alreadyImportedNeeds[path]
		return ok
	}
	_, ok := u.alreadyImportedImport[path]
	return ok
}

// Run builds the AST and threads it through the pass pipeline. The
// pipeline variant depends on how this unit is being consumed.
func (u *CodeUnit) Run() {
	u.pm.SetVerbose(u.Verbose)
	u.pm.SetOutput(u.VerboseOutput)

	u.buildAST()
	if len(u.buildErrors) > 0 {
		return
	}
	switch {
	case u.IsBeingImportedWithNeeds:
		u.runPassesForNeeds()
	case u.IsBeingImportedWithImport:
		u.runPassesForImport()
	default:
		u.runPasses()
	}
}

// buildAST parses configure defaults, synthesizes forced imports and
// constant declarations, then parses the main source.
func (u *CodeUnit) buildAST() {
	if u.Builder == nil {
		u.buildErrors = append(u.buildErrors, ast.Diagnostic{Message: "No AST builder configured", File: u.File})
		return
	}
	root := ast.NewRootNode()
	u.root = root

	if u.NeedsConfigureDefaults {
		path := filepath.Join(u.CompilerDir, "std", "configure_defaults.lil")
		source, err := u.Sources.ReadSource(path)
		if err != nil {
			fmt.Fprintf(u.VerboseOutput, "\nERROR: Failed to read the file %s\n\n", path)
		} else {
			defaults, errs := u.Builder.BuildAST(source, path)
			u.buildErrors = append(u.buildErrors, errs...)
			for _, node := range defaults.Nodes() {
				if !u.DebugConfigureDefaults {
					node.Hidden = true
				}
				root.Add(node)
			}
		}
	}

	if u.ImportStdLil {
		instr := ast.NewNode(ast.KindInstruction)
		instr.InstrKind = ast.InstrImport
		instr.Name = "import"
		strConst := ast.NewNode(ast.KindStringLiteral)
		strConst.Value = u.StdLilPath
		instr.SetArgument(strConst)
		instr.Verbose = u.DebugStdLil
		instr.Hidden = !u.DebugStdLil
		root.Add(instr)
	}

	for _, importFile := range u.Imports {
		instr := ast.NewNode(ast.KindInstruction)
		instr.InstrKind = ast.InstrImport
		instr.Name = "import"
		strConst := ast.NewNode(ast.KindStringLiteral)
		strConst.Value = importFile
		instr.SetArgument(strConst)
		root.Add(instr)
	}

	for _, constant := range u.Constants {
		vd := ast.NewNode(ast.KindVarDecl)
		vd.Name = constant
		vd.IsConst = true
		boolVal := ast.NewNode(ast.KindBoolLiteral)
		boolVal.Value = "true"
		boolVal.Ty = ast.NewBasicType("bool")
		vd.SetInitVal(boolVal)
		vd.Ty = ast.NewBasicType("bool")
		root.Add(vd)
	}

	mainRoot, errs := u.Builder.BuildAST(u.Source, u.File)
	u.buildErrors = append(u.buildErrors, errs...)
	if mainRoot != nil {
		for _, node := range mainRoot.Nodes() {
			root.Add(node)
		}
	}
}

// newPreprocessor wires a preprocessor with this unit's state
func (u *CodeUnit) newPreprocessor() *passes.Preprocessor {
	pp := passes.NewPreprocessor()
	for path, nodes := range u.alreadyImportedNeeds {
		pp.AddAlreadyImportedFile(path, nodes, passes.ImportModeNeeds)
	}
	for path, nodes := range u.alreadyImportedImport {
		pp.AddAlreadyImportedFile(path, nodes, passes.ImportModeImport)
	}
	pp.SetDir(u.Dir)
	pp.SetCompilerDir(u.CompilerDir)
	pp.SetSuffix(u.Suffix)
	pp.SetConstants(u.Constants)
	pp.SetLoader(u.loadImportedUnit)
	return pp
}

// loadImportedUnit recursively invokes the pipeline on an imported
// file. Invocation is synchronous and depth first.
func (u *CodeUnit) loadImportedUnit(path string, mode passes.ImportMode, verbose bool) (*passes.ImportResult, error) {
	source, err := u.Sources.ReadSource(path)
	if err != nil {
		return nil, err
	}
	child := NewCodeUnit()
	child.File = path
	child.Dir = filepath.Dir(path)
	child.CompilerDir = u.CompilerDir
	child.Source = source
	child.Suffix = u.Suffix
	child.Constants = u.Constants
	child.Config = u.Config
	child.Builder = u.Builder
	child.Sources = u.Sources
	child.VerboseOutput = u.VerboseOutput
	child.Verbose = verbose
	child.NeedsConfigureDefaults = false
	if mode == passes.ImportModeNeeds {
		child.IsBeingImportedWithNeeds = true
	} else {
		child.IsBeingImportedWithImport = true
	}
	for p, nodes := range u.alreadyImportedNeeds {
		child.alreadyImportedNeeds[p] = nodes
	}
	for p, nodes := range u.alreadyImportedImport {
		child.alreadyImportedImport[p] = nodes
	}
	child.Run()
	if child.HasErrors() {
		return nil, fmt.Errorf("errors in imported unit %s", path)
	}
	result := &passes.ImportResult{
		Nodes:       child.root.Nodes(),
		NeededFiles: child.neededFiles,
		Resources:   child.resources,
	}
	u.AddAlreadyImportedFile(path, result.Nodes, mode)
	return result, nil
}

// runPasses is the full pipeline for a main unit
func (u *CodeUnit) runPasses() {
	preprocessor := u.newPreprocessor()
	domBuilder := passes.NewDOMBuilder()
	resourceGatherer := passes.NewResourceGatherer()

	pipeline := []passes.Pass{
		passes.NewArgResolver(u.Arguments),
		passes.NewConfigGetter(u.Config),
		passes.NewColorMaker(),
		preprocessor,
		passes.NewASTValidator(),
		passes.NewMethodInserter(),
		passes.NewTypeResolver(),
		passes.NewClassTemplateLowerer(),
		passes.NewStructureLowerer(),
		domBuilder,
		passes.NewTypeGuesser(),
		passes.NewPathExpander(),
		passes.NewEnumLowerer(),
		passes.NewStringFnLowerer(),
		passes.NewForLowerer(),
		passes.NewFieldSorter(),
		passes.NewParameterSorter(),
		passes.NewConversionInserter(),
		passes.NewConstantFolder(),
		passes.NewNameLowerer(),
		passes.NewObjDefExpander(),
		passes.NewTypeValidator(),
		resourceGatherer,
	}
	u.pm.Execute(pipeline, u.root, u.Source)

	if u.pm.HasErrors() {
		fmt.Fprintf(u.VerboseOutput, "Errors encountered. Exiting.\n\n")
		return
	}
	for _, neededFile := range preprocessor.NeededFilesForBuild() {
		u.addNeededFileForBuild(neededFile)
	}
	for _, resource := range preprocessor.Resources() {
		u.addResource(resource)
	}
	for _, resource := range resourceGatherer.GatherResources() {
		u.addResource(resource)
	}
	u.dom = domBuilder.DOM()
}

// runPassesForNeeds stops after name lowering: the consumer only needs
// resolved public declarations
func (u *CodeUnit) runPassesForNeeds() {
	preprocessor := u.newPreprocessor()
	domBuilder := passes.NewDOMBuilder()

	pipeline := []passes.Pass{
		passes.NewArgResolver(u.Arguments),
		passes.NewConfigGetter(u.Config),
		preprocessor,
		passes.NewASTValidator(),
		passes.NewMethodInserter(),
		passes.NewTypeResolver(),
		passes.NewClassTemplateLowerer(),
		passes.NewStructureLowerer(),
		domBuilder,
		passes.NewTypeGuesser(),
		passes.NewFieldSorter(),
		passes.NewParameterSorter(),
		passes.NewNameLowerer(),
	}
	u.pm.Execute(pipeline, u.root, u.Source)

	if u.pm.HasErrors() {
		fmt.Fprintf(u.VerboseOutput, "Errors encountered. Exiting.\n\n")
		return
	}
	for _, neededFile := range preprocessor.NeededFilesForBuild() {
		u.addNeededFileForBuild(neededFile)
	}
	for _, resource := range preprocessor.Resources() {
		u.addResource(resource)
	}
	u.dom = domBuilder.DOM()
}

// runPassesForImport only preprocesses and validates: the consumer
// splices the whole tree
func (u *CodeUnit) runPassesForImport() {
	preprocessor := u.newPreprocessor()

	pipeline := []passes.Pass{
		passes.NewArgResolver(u.Arguments),
		passes.NewConfigGetter(u.Config),
		preprocessor,
		passes.NewASTValidator(),
	}
	u.pm.Execute(pipeline, u.root, u.Source)

	for _, neededFile := range preprocessor.NeededFilesForBuild() {
		u.addNeededFileForBuild(neededFile)
	}
	for _, resource := range preprocessor.Resources() {
		u.addResource(resource)
	}
	if u.pm.HasErrors() {
		fmt.Fprintf(u.VerboseOutput, "Errors encountered. Exiting.\n\n")
	}
}

func (u *CodeUnit) addNeededFileForBuild(nf passes.NeededFile) {
	for _, existing := range u.neededFiles {
		if existing == nf {
			return
		}
	}
	u.neededFiles = append(u.neededFiles, nf)
}

func (u *CodeUnit) addResource(path string) {
	for _, existing := range u.resources {
		if existing == path {
			return
		}
	}
	u.resources = append(u.resources, path)
}
