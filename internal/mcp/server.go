package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/rytswd/slow/model"
	"github.com/rytswd/slow/slow"
)

// Server exposes the slow mode gate to an agent host as MCP tools. Stdio
// carries the protocol, so reviews run on the controlling terminal.
type Server struct {
	app     *slow.App
	version string
}

// NewServer creates the MCP server wrapper around app.
func NewServer(app *slow.App, version string) *Server {
	return &Server{app: app, version: version}
}

// MCPServer returns a configured mcp-go server with all tools registered.
func (s *Server) MCPServer() *server.MCPServer {
	srv := server.NewMCPServer("slow", s.version, server.WithToolCapabilities(true))

	srv.AddTool(s.toggleTool())
	srv.AddTool(s.statusTool())
	srv.AddTool(s.interceptWriteTool())
	srv.AddTool(s.interceptEditTool())
	srv.AddTool(s.completeTool())

	return srv
}

// ServeStdio starts the stdio transport, blocking until ctx is cancelled.
func (s *Server) ServeStdio(ctx context.Context) error {
	srv := s.MCPServer()
	stdioServer := server.NewStdioServer(srv)
	return stdioServer.Listen(ctx, os.Stdin, os.Stdout)
}

type statusOut struct {
	Enabled bool   `json:"enabled"`
	Status  string `json:"status"`
	Pending int    `json:"pending"`
}

type interceptOut struct {
	model.Outcome
	Error string `json:"error,omitempty"`
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) status() statusOut {
	c := s.app.Controller()
	return statusOut{Enabled: c.IsEnabled(), Status: c.Status(), Pending: c.Pending()}
}

// ---------------------------------------------------------------------------
// Tool definitions and handlers
// ---------------------------------------------------------------------------

// slow_toggle
func (s *Server) toggleTool() (mcp.Tool, server.ToolHandlerFunc) {
	tool := mcp.NewTool("slow_toggle",
		mcp.WithDescription("Turn slow mode on or off. While on, every file write and edit is shown to the user for approval before it happens."),
	)
	return tool, s.handleToggle
}

func (s *Server) handleToggle(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.app.Toggle()
	return jsonResult(s.status())
}

// slow_status
func (s *Server) statusTool() (mcp.Tool, server.ToolHandlerFunc) {
	tool := mcp.NewTool("slow_status",
		mcp.WithDescription("Report whether slow mode is on and how many reviewed mutations await completion."),
	)
	return tool, s.handleStatus
}

func (s *Server) handleStatus(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.status())
}

// slow_intercept_write
func (s *Server) interceptWriteTool() (mcp.Tool, server.ToolHandlerFunc) {
	tool := mcp.NewTool("slow_intercept_write",
		mcp.WithDescription("Submit a proposed full-file write. Returns {action: proceed|block}; when replaced is true, write the returned content instead of the proposal."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Target file path")),
		mcp.WithString("content", mcp.Required(), mcp.Description("Proposed file content")),
		mcp.WithString("request_id", mcp.Description("Identifier to pass to slow_complete; generated when omitted")),
	)
	return tool, s.handleInterceptWrite
}

func (s *Server) handleInterceptWrite(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: path"), nil
	}
	content, err := request.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: content"), nil
	}

	return s.intercept(ctx, model.Mutation{
		RequestID: request.GetString("request_id", ""),
		Kind:      model.KindWrite,
		Path:      path,
		Content:   content,
	})
}

// slow_intercept_edit
func (s *Server) interceptEditTool() (mcp.Tool, server.ToolHandlerFunc) {
	tool := mcp.NewTool("slow_intercept_edit",
		mcp.WithDescription("Submit a proposed edit replacing old_text with new_text. Returns {action: proceed|block}; when replaced is true, use the returned new_text."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Target file path")),
		mcp.WithString("old_text", mcp.Required(), mcp.Description("Text being replaced")),
		mcp.WithString("new_text", mcp.Required(), mcp.Description("Replacement text")),
		mcp.WithString("request_id", mcp.Description("Identifier to pass to slow_complete; generated when omitted")),
	)
	return tool, s.handleInterceptEdit
}

func (s *Server) handleInterceptEdit(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: path"), nil
	}

	return s.intercept(ctx, model.Mutation{
		RequestID: request.GetString("request_id", ""),
		Kind:      model.KindEdit,
		Path:      path,
		OldText:   request.GetString("old_text", ""),
		NewText:   request.GetString("new_text", ""),
	})
}

func (s *Server) intercept(ctx context.Context, m model.Mutation) (*mcp.CallToolResult, error) {
	out, err := s.app.Intercept(ctx, m)
	result := interceptOut{Outcome: out}
	if err != nil {
		result.Error = err.Error()
	}
	return jsonResult(result)
}

// slow_complete
func (s *Server) completeTool() (mcp.Tool, server.ToolHandlerFunc) {
	tool := mcp.NewTool("slow_complete",
		mcp.WithDescription("Report that an intercepted mutation was carried out. Returns the result text, annotated when the user edited the content during review."),
		mcp.WithString("request_id", mcp.Required(), mcp.Description("request_id from the intercept result")),
		mcp.WithString("result", mcp.Description("Result text to annotate")),
	)
	return tool, s.handleComplete
}

func (s *Server) handleComplete(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("request_id")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: request_id"), nil
	}
	return mcp.NewToolResultText(s.app.Complete(id, request.GetString("result", ""))), nil
}
