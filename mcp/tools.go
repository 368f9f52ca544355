// Package mcp exposes the compiler over the Model Context Protocol:
// a compile tool driving the pass pipeline and a parse_ir tool
// dumping the embedded IR parser's event stream.
package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// RegisterTools registers all lilc MCP tools with the server
func RegisterTools(s *server.MCPServer) {
	s.AddTool(mcp.NewTool("compile",
		mcp.WithDescription("Compile an L source file through the full pass pipeline and report needed files, resources, DOM and diagnostics"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path to the .lil source file to compile")),
		mcp.WithString("config",
			mcp.Description("Path to lil.toml (default: discover upwards from the source)")),
		mcp.WithArray("constants",
			mcp.Description("Constant names that evaluate to true in #if conditions")),
	), HandleCompile)

	s.AddTool(mcp.NewTool("parse_ir",
		mcp.WithDescription("Parse a fragment of textual LLVM IR and return the typed event stream"),
		mcp.WithString("source",
			mcp.Required(),
			mcp.Description("The LLVM IR text to parse")),
	), HandleParseIR)
}
