// Package mcpserver is the inbound adapter exposing generated tools
// over the Model Context Protocol. It implements the service.ToolSink
// interface on top of the official MCP Go SDK and serves stdio.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/caregate/caregate/internal/domain/tool"
	"github.com/caregate/caregate/internal/service"
)

// Server wraps an MCP server instance and tracks registered tool names.
type Server struct {
	impl   *mcp.Server
	names  map[string]bool
	logger *slog.Logger
}

// New creates a Server with the given implementation name and version.
func New(name, version string, logger *slog.Logger) *Server {
	return &Server{
		impl: mcp.NewServer(&mcp.Implementation{
			Name:    name,
			Version: version,
		}, nil),
		names:  make(map[string]bool),
		logger: logger,
	}
}

// Register adds one generated tool to the MCP server. Tool names are
// operation ids and must be unique within a generation pass; a
// duplicate is a schema defect surfaced as an error rather than a
// silent overwrite.
func (s *Server) Register(t tool.GeneratedTool) error {
	if s.names[t.Name] {
		return fmt.Errorf("duplicate tool name %q", t.Name)
	}
	s.names[t.Name] = true

	invoke := t.Invoke
	s.impl.AddTool(&mcp.Tool{
		Name:        t.Name,
		Description: t.Description,
		InputSchema: inputSchema(t.Operation),
	}, func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := map[string]any{}
		if len(req.Params.Arguments) > 0 {
			if err := json.Unmarshal(req.Params.Arguments, &args); err != nil {
				return errorResult(tool.Result{
					Success: false,
					Error:   "invalid arguments",
					Detail:  err.Error(),
				})
			}
		}
		return toCallResult(invoke(ctx, args))
	})
	return nil
}

// Count returns the number of registered tools.
func (s *Server) Count() int { return len(s.names) }

// Run serves the MCP protocol over stdin/stdout until the context is
// cancelled or the client disconnects.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("serving mcp over stdio", "tools", len(s.names))
	return s.impl.Run(ctx, &mcp.StdioTransport{})
}

// toCallResult renders the envelope as a JSON text content block. The
// envelope is the wire contract: agents branch on its success field, so
// IsError mirrors it but the full structure always rides in the text.
func toCallResult(res tool.Result) (*mcp.CallToolResult, error) {
	raw, err := json.Marshal(res)
	if err != nil {
		// The envelope itself failed to serialize (unmarshalable Data).
		return errorResult(tool.Result{
			Success: false,
			Error:   "response encoding failed",
			Detail:  err.Error(),
		})
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(raw)}},
		IsError: !res.Success,
	}, nil
}

func errorResult(res tool.Result) (*mcp.CallToolResult, error) {
	raw, _ := json.Marshal(res)
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(raw)}},
		IsError: true,
	}, nil
}

// Compile-time check that Server satisfies the generator's sink.
var _ service.ToolSink = (*Server)(nil)
