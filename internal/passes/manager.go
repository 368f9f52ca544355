package passes

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/multierr"

	"github.com/lil-lang/lilc/internal/ast"
)

// Manager threads the root node through an ordered list of passes.
// After each pass it merges the pass's diagnostics into the global
// list; passes classified as terminal stop the pipeline when they
// record errors.
type Manager struct {
	verbose bool
	out     io.Writer
	errs    []ast.Diagnostic
}

// Passes whose errors invalidate everything downstream.
var terminalOnError = map[string]bool{
	"astValidator":  true,
	"preprocessor":  true,
	"typeResolver":  true,
	"typeValidator": true,
}

// NewManager creates a pass manager
func NewManager() *Manager {
	return &Manager{out: os.Stderr}
}

// SetVerbose toggles verbose tracing; when on, a pretty-printer pass
// runs between every real pass
func (m *Manager) SetVerbose(verbose bool) {
	m.verbose = verbose
}

// SetOutput redirects verbose tracing
func (m *Manager) SetOutput(w io.Writer) {
	m.out = w
}

// Execute runs the passes in order against the root node. The source
// text is kept for diagnostics only.
func (m *Manager) Execute(passes []Pass, root *ast.RootNode, source string) {
	printer := NewPrinter(m.out)
	for _, pass := range passes {
		if m.verbose {
			fmt.Fprintf(m.out, "\n============================\n== %s\n============================\n", pass.Name())
		}
		pass.Initialize()
		pass.PerformVisit(root)
		passErrs := pass.Errors()
		m.errs = append(m.errs, passErrs...)
		if m.verbose {
			printer.Initialize()
			printer.PerformVisit(root)
		}
		if len(passErrs) > 0 && terminalOnError[pass.Name()] {
			return
		}
	}
}

// HasErrors reports whether any pass recorded diagnostics
func (m *Manager) HasErrors() bool {
	return len(m.errs) > 0
}

// Diagnostics returns the accumulated diagnostics in pass order
func (m *Manager) Diagnostics() []ast.Diagnostic {
	return m.errs
}

// Err folds the accumulated diagnostics into a single error, nil when
// the pipeline is clean
func (m *Manager) Err() error {
	var err error
	for _, d := range m.errs {
		err = multierr.Append(err, fmt.Errorf("%s", d.String()))
	}
	return err
}
