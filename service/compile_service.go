package service

import (
	"path/filepath"

	"github.com/lil-lang/lilc/domain"
	"github.com/lil-lang/lilc/internal/ast"
	"github.com/lil-lang/lilc/internal/compiler"
	"github.com/lil-lang/lilc/internal/config"
)

// CompileServiceImpl implements the domain.CompileService interface on
// top of the code unit pipeline.
type CompileServiceImpl struct {
	builder  compiler.ASTBuilder
	reader   domain.FileReader
	progress *ProgressManager
}

// NewCompileService creates a compile service with the given front end
func NewCompileService(builder compiler.ASTBuilder) *CompileServiceImpl {
	return &CompileServiceImpl{
		builder:  builder,
		reader:   NewFileReader(),
		progress: NewProgressManager(),
	}
}

// Compile runs the full pipeline for one translation unit
func (s *CompileServiceImpl) Compile(req domain.CompileRequest) (*domain.CompileResponse, error) {
	if s.builder == nil {
		return nil, domain.NewNotImplementedError("front-end parser (register one with compiler.RegisterASTBuilder)")
	}
	source, err := s.reader.ReadFile(req.InputPath)
	if err != nil {
		return nil, domain.NewFileNotFoundError(req.InputPath, err)
	}

	var cfg *config.Configuration
	configPath := req.ConfigPath
	if configPath == "" {
		configPath, _ = config.Discover(filepath.Dir(req.InputPath))
	}
	if configPath != "" {
		cfg, err = config.LoadFile(configPath)
		if err != nil {
			return nil, domain.NewConfigError("could not load configuration", err)
		}
	} else {
		cfg = config.New()
	}

	s.progress.Start("compile", 1)
	defer s.progress.Finish("compile")

	unit := compiler.NewCodeUnit()
	unit.File = req.InputPath
	unit.Dir = filepath.Dir(req.InputPath)
	unit.CompilerDir = req.CompilerDir
	unit.Source = source
	unit.Suffix = req.Suffix
	unit.Arguments = req.Arguments
	unit.Constants = req.Constants
	unit.Imports = req.Imports
	unit.IsMain = true
	unit.Verbose = req.Verbose
	unit.NeedsConfigureDefaults = req.CompilerDir != ""
	unit.Config = cfg
	unit.Builder = s.builder
	unit.Run()

	response := &domain.CompileResponse{
		Success: !unit.HasErrors(),
	}
	for _, nf := range unit.NeededFilesForBuild() {
		response.NeededFiles = append(response.NeededFiles, domain.NeededFile{Path: nf.Path, Verbose: nf.Verbose})
	}
	response.Resources = unit.Resources()
	if dom := unit.DOM(); dom != nil {
		converted := convertElement(dom)
		response.DOM = &converted
	}
	for _, d := range unit.Diagnostics() {
		response.Diagnostics = append(response.Diagnostics, domain.Diagnostic{
			Message: d.Message,
			File:    d.File,
			Line:    d.Line,
			Column:  d.Column,
		})
	}
	return response, nil
}

func convertElement(e *ast.Element) domain.DOMElement {
	out := domain.DOMElement{
		Name: e.Name,
		ID:   e.ID,
	}
	if e.Ty != nil {
		out.Type = e.Ty.Name
	}
	for _, child := range e.Children {
		out.Children = append(out.Children, convertElement(child))
	}
	return out
}
