package domain

import "io"

// OutputFormat specifies how compile reports are rendered
type OutputFormat string

const (
	OutputFormatText OutputFormat = "text"
	OutputFormatJSON OutputFormat = "json"
	OutputFormatYAML OutputFormat = "yaml"
)

// CompileRequest carries everything needed to compile one unit
type CompileRequest struct {
	// InputPath is the main source file
	InputPath string

	// OutputWriter receives the formatted report
	OutputWriter io.Writer

	// OutputFormat specifies the report format
	OutputFormat OutputFormat

	// Arguments are the user-visible driver arguments queried by #arg
	Arguments []string

	// Constants evaluate to true in #if conditions
	Constants []string

	// Imports are additional forced imports
	Imports []string

	// ConfigPath points at the lil.toml; empty means discovery
	ConfigPath string

	// CompilerDir locates the std library
	CompilerDir string

	// Suffix is appended to bare import names
	Suffix string

	// Verbose enables pass tracing
	Verbose bool
}

// Diagnostic is a user-visible error with a source position
type Diagnostic struct {
	Message string `json:"message" yaml:"message"`
	File    string `json:"file" yaml:"file"`
	Line    int    `json:"line" yaml:"line"`
	Column  int    `json:"column" yaml:"column"`
}

// NeededFile is a build dependency discovered during preprocessing
type NeededFile struct {
	Path    string `json:"path" yaml:"path"`
	Verbose bool   `json:"verbose" yaml:"verbose"`
}

// DOMElement is a static element in the compile report
type DOMElement struct {
	Name     string       `json:"name" yaml:"name"`
	Type     string       `json:"type" yaml:"type"`
	ID       int64        `json:"id" yaml:"id"`
	Children []DOMElement `json:"children,omitempty" yaml:"children,omitempty"`
}

// CompileResponse is the result handed to the IR emitter boundary
type CompileResponse struct {
	Success     bool         `json:"success" yaml:"success"`
	NeededFiles []NeededFile `json:"needed_files" yaml:"needed_files"`
	Resources   []string     `json:"resources" yaml:"resources"`
	DOM         *DOMElement  `json:"dom,omitempty" yaml:"dom,omitempty"`
	Diagnostics []Diagnostic `json:"diagnostics,omitempty" yaml:"diagnostics,omitempty"`
}

// CompileService runs the pipeline for a request
type CompileService interface {
	Compile(req CompileRequest) (*CompileResponse, error)
}

// ReportFormatter renders a compile response
type ReportFormatter interface {
	Format(response *CompileResponse, format OutputFormat) (string, error)
}

// FileReader resolves and reads source files
type FileReader interface {
	ReadFile(path string) (string, error)
	CollectSources(pattern string) ([]string, error)
}
