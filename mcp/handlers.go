package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/lil-lang/lilc/app"
	"github.com/lil-lang/lilc/domain"
	"github.com/lil-lang/lilc/internal/compiler"
	"github.com/lil-lang/lilc/internal/irparser"
	"github.com/lil-lang/lilc/service"
)

// HandleCompile handles the compile tool
func HandleCompile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return mcp.NewToolResultError("invalid arguments format"), nil
	}
	path, ok := args["path"].(string)
	if !ok {
		return mcp.NewToolResultError("path parameter is required and must be a string"), nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return mcp.NewToolResultError(fmt.Sprintf("path does not exist: %s", path)), nil
	}
	configPath := ""
	if c, ok := args["config"].(string); ok {
		configPath = c
	}
	var constants []string
	if rawConstants, ok := args["constants"].([]interface{}); ok {
		for _, c := range rawConstants {
			if str, ok := c.(string); ok {
				constants = append(constants, str)
			}
		}
	}

	svc := service.NewCompileService(compiler.DefaultASTBuilder())
	useCase := app.NewCompileUseCase(svc, service.NewReportFormatter())
	response, err := useCase.Execute(domain.CompileRequest{
		InputPath:    path,
		ConfigPath:   configPath,
		Constants:    constants,
		OutputFormat: domain.OutputFormatJSON,
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	data, err := json.MarshalIndent(response, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// irEvent is one entry of the parse_ir event log
type irEvent struct {
	Kind   string `json:"kind"`
	Event  int    `json:"event"`
	Data   string `json:"data,omitempty"`
	Line   int    `json:"line,omitempty"`
	Column int    `json:"column,omitempty"`
}

// eventLogReceiver records parser events for the tool response
type eventLogReceiver struct {
	events []irEvent
}

func (r *eventLogReceiver) NodeStart(event irparser.Event) {
	r.events = append(r.events, irEvent{Kind: "start", Event: int(event)})
}

func (r *eventLogReceiver) Data(event irparser.Event, data string) {
	r.events = append(r.events, irEvent{Kind: "data", Event: int(event), Data: data})
}

func (r *eventLogReceiver) NodeEnd(event irparser.Event) {
	r.events = append(r.events, irEvent{Kind: "end", Event: int(event)})
}

func (r *eventLogReceiver) Error(message string, line, column int) {
	r.events = append(r.events, irEvent{Kind: "error", Data: message, Line: line, Column: column})
}

func (r *eventLogReceiver) SourceLocation(line, column, startIndex, length int) {
	r.events = append(r.events, irEvent{Kind: "loc", Line: line, Column: column})
}

// HandleParseIR handles the parse_ir tool
func HandleParseIR(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return mcp.NewToolResultError("invalid arguments format"), nil
	}
	source, ok := args["source"].(string)
	if !ok {
		return mcp.NewToolResultError("source parameter is required and must be a string"), nil
	}
	recv := &eventLogReceiver{}
	parser := irparser.NewParser(source, recv)
	parser.Run()
	data, err := json.MarshalIndent(recv.events, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
