package ast

import "fmt"

// Diagnostic is a single error message tied to a source location
type Diagnostic struct {
	Message string
	File    string
	Line    int
	Column  int
}

// NewDiagnostic builds a diagnostic from a node's location
func NewDiagnostic(message string, loc Location) Diagnostic {
	return Diagnostic{
		Message: message,
		File:    loc.File,
		Line:    loc.Line,
		Column:  loc.Column,
	}
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s on line %d column %d of %s", d.Message, d.Line, d.Column, d.File)
}
