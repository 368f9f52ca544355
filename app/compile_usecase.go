// Package app wires domain services into use cases the commands call.
package app

import (
	"fmt"

	"github.com/lil-lang/lilc/domain"
)

// CompileUseCase orchestrates a compile request: run the service,
// format the report and write it to the requested destination.
type CompileUseCase struct {
	service   domain.CompileService
	formatter domain.ReportFormatter
}

// NewCompileUseCase creates the use case
func NewCompileUseCase(service domain.CompileService, formatter domain.ReportFormatter) *CompileUseCase {
	return &CompileUseCase{service: service, formatter: formatter}
}

// Execute runs the compilation and writes the report. The returned
// error is non-nil for infrastructure failures; compile diagnostics
// are part of the report.
func (uc *CompileUseCase) Execute(req domain.CompileRequest) (*domain.CompileResponse, error) {
	if req.InputPath == "" {
		return nil, domain.NewInvalidInputError("no input file given", nil)
	}
	response, err := uc.service.Compile(req)
	if err != nil {
		return nil, err
	}
	report, err := uc.formatter.Format(response, req.OutputFormat)
	if err != nil {
		return nil, err
	}
	if req.OutputWriter != nil {
		if _, err := fmt.Fprintln(req.OutputWriter, report); err != nil {
			return nil, domain.NewOutputError("failed to write report", err)
		}
	}
	return response, nil
}
