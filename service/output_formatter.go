package service

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/lil-lang/lilc/domain"
)

// ReportFormatterImpl renders compile responses as text, JSON or YAML.
type ReportFormatterImpl struct{}

// NewReportFormatter creates a report formatter
func NewReportFormatter() *ReportFormatterImpl {
	return &ReportFormatterImpl{}
}

// Format renders the response in the requested format
func (f *ReportFormatterImpl) Format(response *domain.CompileResponse, format domain.OutputFormat) (string, error) {
	switch format {
	case domain.OutputFormatJSON:
		data, err := json.MarshalIndent(response, "", "  ")
		if err != nil {
			return "", domain.NewOutputError("failed to marshal JSON", err)
		}
		return string(data), nil
	case domain.OutputFormatYAML:
		data, err := yaml.Marshal(response)
		if err != nil {
			return "", domain.NewOutputError("failed to marshal YAML", err)
		}
		return string(data), nil
	case domain.OutputFormatText, "":
		return f.formatText(response), nil
	}
	return "", domain.NewUnsupportedFormatError(string(format))
}

func (f *ReportFormatterImpl) formatText(response *domain.CompileResponse) string {
	var b strings.Builder
	if response.Success {
		b.WriteString("Compilation succeeded\n")
	} else {
		b.WriteString("Compilation failed\n")
	}
	for _, d := range response.Diagnostics {
		fmt.Fprintf(&b, "%s on line %d column %d of %s\n", d.Message, d.Line, d.Column, d.File)
	}
	if len(response.NeededFiles) > 0 {
		b.WriteString("\nNeeded files:\n")
		for _, nf := range response.NeededFiles {
			fmt.Fprintf(&b, "  %s\n", nf.Path)
		}
	}
	if len(response.Resources) > 0 {
		b.WriteString("\nResources:\n")
		for _, res := range response.Resources {
			fmt.Fprintf(&b, "  %s\n", res)
		}
	}
	if response.DOM != nil {
		b.WriteString("\nDOM:\n")
		f.writeElement(&b, response.DOM, 1)
	}
	return b.String()
}

func (f *ReportFormatterImpl) writeElement(b *strings.Builder, elem *domain.DOMElement, depth int) {
	fmt.Fprintf(b, "%s%s (%s) #%d\n", strings.Repeat("  ", depth), elem.Name, elem.Type, elem.ID)
	for i := range elem.Children {
		f.writeElement(b, &elem.Children[i], depth+1)
	}
}
