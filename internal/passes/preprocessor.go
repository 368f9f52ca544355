package passes

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/lil-lang/lilc/internal/ast"
)

// ImportMode distinguishes the two memo tables of the preprocessor
type ImportMode int

const (
	// ImportModeNeeds includes another unit's public declarations
	ImportModeNeeds ImportMode = iota
	// ImportModeImport includes the whole unit
	ImportModeImport
)

// NeededFile is a file the build depends on
type NeededFile struct {
	Path    string
	Verbose bool
}

// ImportResult is what loading an imported unit yields
type ImportResult struct {
	Nodes       []*ast.Node
	NeededFiles []NeededFile
	Resources   []string
}

// UnitLoader loads and preprocesses another translation unit. The
// code unit wires this to a recursive pipeline invocation.
type UnitLoader func(path string, mode ImportMode, verbose bool) (*ImportResult, error)

// Preprocessor resolves #needs and #import by loading sibling units,
// evaluates #if against the declared constants, performs
// #snippet/#paste substitution and handles #export blocks. Failure is
// fatal for the pipeline.
type Preprocessor struct {
	base
	dir         string
	compilerDir string
	suffix      string
	constants   []string
	loader      UnitLoader

	alreadyImportedNeeds  map[string][]*ast.Node
	alreadyImportedImport map[string][]*ast.Node

	neededFiles []NeededFile
	resources   []string
}

// NewPreprocessor creates the pass
func NewPreprocessor() *Preprocessor {
	return &Preprocessor{
		alreadyImportedNeeds:  make(map[string][]*ast.Node),
		alreadyImportedImport: make(map[string][]*ast.Node),
	}
}

func (p *Preprocessor) Name() string { return "preprocessor" }

// SetDir sets the directory imports resolve against
func (p *Preprocessor) SetDir(dir string) { p.dir = dir }

// SetCompilerDir sets the directory std imports resolve against
func (p *Preprocessor) SetCompilerDir(dir string) { p.compilerDir = dir }

// SetSuffix sets the suffix appended to bare import names
func (p *Preprocessor) SetSuffix(suffix string) { p.suffix = suffix }

// SetConstants sets the names that evaluate to true in #if conditions
func (p *Preprocessor) SetConstants(constants []string) { p.constants = constants }

// SetLoader wires the recursive unit loader
func (p *Preprocessor) SetLoader(loader UnitLoader) { p.loader = loader }

// AddAlreadyImportedFile seeds a memo table with cloned, unexported
// nodes from a previous import of the same path
func (p *Preprocessor) AddAlreadyImportedFile(path string, nodes []*ast.Node, mode ImportMode) {
	cloned := make([]*ast.Node, 0, len(nodes))
	for _, n := range nodes {
		c := n.Clone()
		c.IsExported = false
		cloned = append(cloned, c)
	}
	if mode == ImportModeNeeds {
		p.alreadyImportedNeeds[path] = cloned
	} else {
		p.alreadyImportedImport[path] = cloned
	}
}

// IsAlreadyImported reports whether a path was imported in the given mode
func (p *Preprocessor) IsAlreadyImported(path string, mode ImportMode) bool {
	if mode == ImportModeNeeds {
		_, ok := p.alreadyImportedNeeds[path]
		return ok
	}
	_, ok := p.alreadyImportedImport[path]
	return ok
}

// NeededFilesForBuild returns the deduplicated build dependencies
func (p *Preprocessor) NeededFilesForBuild() []NeededFile { return p.neededFiles }

// Resources returns resource paths contributed by imported units
func (p *Preprocessor) Resources() []string { return p.resources }

func (p *Preprocessor) PerformVisit(root *ast.RootNode) {
	p.setRoot(root)
	p.registerSnippets(root)
	var result []*ast.Node
	for _, node := range root.Nodes() {
		result = append(result, p.processTopLevel(node)...)
	}
	root.SetNodes(result)
	for _, node := range root.Nodes() {
		p.pasteSnippets(node)
	}
	p.reindexClasses(root)
}

// registerSnippets collects #snippet instructions before substitution
func (p *Preprocessor) registerSnippets(root *ast.RootNode) {
	for _, node := range root.Nodes() {
		if node.Kind == ast.KindInstruction && node.InstrKind == ast.InstrSnippet {
			root.AddSnippet(node.Name, node)
		}
	}
}

// processTopLevel rewrites one top-level node into zero or more nodes
func (p *Preprocessor) processTopLevel(node *ast.Node) []*ast.Node {
	if node.Kind != ast.KindInstruction {
		return []*ast.Node{node}
	}
	switch node.InstrKind {
	case ast.InstrNeeds:
		return p.processImport(node, ImportModeNeeds)
	case ast.InstrImport:
		return p.processImport(node, ImportModeImport)
	case ast.InstrExport:
		var out []*ast.Node
		for _, child := range node.Children {
			child.IsExported = true
			out = append(out, child)
		}
		return out
	case ast.InstrIf:
		if p.constantIsTrue(node.Name) {
			return node.Children
		}
		return nil
	case ast.InstrSnippet:
		// registered already, drops out of the tree
		return nil
	default:
		return []*ast.Node{node}
	}
}

func (p *Preprocessor) constantIsTrue(name string) bool {
	for _, c := range p.constants {
		if c == name {
			return true
		}
	}
	if p.root != nil {
		for _, n := range p.root.Nodes() {
			if n.Kind == ast.KindVarDecl && n.IsConst && n.Name == name &&
				n.InitVal != nil && n.InitVal.Kind == ast.KindBoolLiteral {
				return n.InitVal.Value == "true"
			}
		}
	}
	return false
}

// processImport resolves the argument to one or more paths, loads each
// through the unit loader and splices the resulting nodes in place of
// the instruction.
func (p *Preprocessor) processImport(instr *ast.Node, mode ImportMode) []*ast.Node {
	arg := instr.Argument
	if arg == nil || arg.Kind != ast.KindStringLiteral {
		p.addError("import instruction needs a path argument", instr.Loc)
		return nil
	}
	paths, err := p.resolvePaths(arg.Value)
	if err != nil {
		p.addError(err.Error(), instr.Loc)
		return nil
	}
	var out []*ast.Node
	for _, path := range paths {
		out = append(out, p.importOne(instr, path, mode)...)
	}
	return out
}

func (p *Preprocessor) importOne(instr *ast.Node, path string, mode ImportMode) []*ast.Node {
	memo := p.alreadyImportedImport
	if mode == ImportModeNeeds {
		memo = p.alreadyImportedNeeds
	}
	if nodes, ok := memo[path]; ok {
		// second import of the same path still contributes symbols
		var out []*ast.Node
		for _, n := range nodes {
			c := n.Clone()
			c.Hidden = true
			out = append(out, c)
		}
		return out
	}
	if p.loader == nil {
		p.addError(fmt.Sprintf("Failed to read the file %s", path), instr.Loc)
		return nil
	}
	result, err := p.loader(path, mode, instr.Verbose)
	if err != nil {
		p.addError(fmt.Sprintf("Failed to read the file %s: %v", path, err), instr.Loc)
		return nil
	}
	p.addNeededFile(NeededFile{Path: path, Verbose: instr.Verbose})
	for _, nf := range result.NeededFiles {
		p.addNeededFile(nf)
	}
	for _, res := range result.Resources {
		p.addResource(res)
	}
	var keep []*ast.Node
	for _, n := range result.Nodes {
		if mode == ImportModeNeeds && !n.IsExported {
			continue
		}
		keep = append(keep, n)
	}
	memoNodes := make([]*ast.Node, 0, len(keep))
	var out []*ast.Node
	for _, n := range keep {
		c := n.Clone()
		c.Hidden = instr.Hidden
		out = append(out, c)
		m := n.Clone()
		m.IsExported = false
		memoNodes = append(memoNodes, m)
	}
	memo[path] = memoNodes
	return out
}

// resolvePaths expands the import argument: bare names gain the unit
// suffix and the .lil extension, std/ names resolve against the
// compiler directory and glob patterns expand through the filesystem.
func (p *Preprocessor) resolvePaths(arg string) ([]string, error) {
	name := arg
	baseDir := p.dir
	if strings.HasPrefix(name, "std/") {
		baseDir = p.compilerDir
	}
	if filepath.Ext(name) == "" {
		name = name + p.suffix + ".lil"
	}
	if strings.ContainsAny(name, "*?[") {
		matches, err := doublestar.FilepathGlob(filepath.Join(baseDir, name))
		if err != nil {
			return nil, fmt.Errorf("bad import pattern %s: %v", arg, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("import pattern %s matched no files", arg)
		}
		return matches, nil
	}
	return []string{filepath.Join(baseDir, name)}, nil
}

// pasteSnippets replaces #paste instructions anywhere in the subtree
func (p *Preprocessor) pasteSnippets(node *ast.Node) {
	for _, child := range node.ChildNodes() {
		p.pasteSnippets(child)
	}
	replace := func(nodes []*ast.Node) []*ast.Node {
		var out []*ast.Node
		for _, child := range nodes {
			if child.Kind == ast.KindInstruction && child.InstrKind == ast.InstrPaste {
				snippet := p.root.SnippetNamed(child.Name)
				if snippet == nil {
					p.addError(fmt.Sprintf("Unknown snippet %s", child.Name), child.Loc)
					continue
				}
				for _, sn := range snippet.Children {
					c := sn.Clone()
					c.Loc = child.Loc
					out = append(out, c)
				}
				continue
			}
			out = append(out, child)
		}
		return out
	}
	if containsPaste(node.Children) {
		node.SetChildren(replace(node.Children))
	}
	if containsPaste(node.Body) {
		body := replace(node.Body)
		for _, n := range body {
			n.Parent = node
		}
		node.Body = body
	}
}

func containsPaste(nodes []*ast.Node) bool {
	for _, n := range nodes {
		if n.Kind == ast.KindInstruction && n.InstrKind == ast.InstrPaste {
			return true
		}
	}
	return false
}

// reindexClasses picks up class declarations spliced in by imports
func (p *Preprocessor) reindexClasses(root *ast.RootNode) {
	for _, node := range root.Nodes() {
		if node.Kind == ast.KindClassDecl {
			root.AddClass(node)
		}
	}
}

func (p *Preprocessor) addNeededFile(nf NeededFile) {
	for _, existing := range p.neededFiles {
		if existing == nf {
			return
		}
	}
	p.neededFiles = append(p.neededFiles, nf)
}

func (p *Preprocessor) addResource(path string) {
	for _, existing := range p.resources {
		if existing == path {
			return
		}
	}
	p.resources = append(p.resources, path)
}
