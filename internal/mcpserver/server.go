// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes thread tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/threads/internal/apperr"
	"github.com/starford/threads/internal/threadservice"
)

// FormatURI is the resource URI of the thread line format contract.
const FormatURI = "threads://format"

// Server wraps the MCP server with thread tools.
type Server struct {
	mcp *server.MCPServer
	svc *threadservice.Service
}

// New creates a new MCP server with all thread tools registered.
func New(svc *threadservice.Service, version string) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"Threads",
		version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_threads",
		mcp.WithDescription("List threads in file order. Open threads carry their 0-based ordinal, "+
			"which is the value complete_thread expects."),
		mcp.WithString("status", mcp.Description("open (default), closed or all"),
			mcp.Enum(threadservice.FilterOpen, threadservice.FilterClosed, threadservice.FilterAll)),
	), s.listThreads)

	s.mcp.AddTool(mcp.NewTool("add_thread",
		mcp.WithDescription("Append a new open thread stamped with the current time. "+
			"The body is a single line of plain text without HTML comment delimiters."),
		mcp.WithString("body", mcp.Required(), mcp.Description("Thread text")),
	), s.addThread)

	s.mcp.AddTool(mcp.NewTool("complete_thread",
		mcp.WithDescription("Mark the nth open thread (0-based, file order) as done and stamp it cleared."),
		mcp.WithNumber("n", mcp.Required(), mcp.Description("Open-thread ordinal as returned by list_threads")),
	), s.completeThread)

	s.mcp.AddTool(mcp.NewTool("reorder_threads",
		mcp.WithDescription("Rewrite the file into an Open section (newest created first) and a Closed "+
			"section (most recently cleared first). Lines that are not threads are removed and reported."),
	), s.reorderThreads)

	s.mcp.AddTool(mcp.NewTool("search_threads",
		mcp.WithDescription("Search thread text."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
		mcp.WithNumber("limit", mcp.Description("Maximum number of results (default 20)")),
	), s.searchThreads)

	s.mcp.AddTool(mcp.NewTool("get_thread_format",
		mcp.WithDescription("Returns the thread line format contract."),
	), s.getThreadFormat)

	s.mcp.AddResource(
		mcp.NewResource(FormatURI, "Thread Line Format",
			mcp.WithResourceDescription("Grammar of thread lines in the threads file."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readFormatResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) listThreads(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	items, err := s.svc.List(ctx, req.GetString("status", threadservice.FilterOpen))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(items)
}

func (s *Server) addThread(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	body, err := req.RequireString("body")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	t, err := s.svc.Add(ctx, body)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(t)
}

func (s *Server) completeThread(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	n, err := req.RequireInt("n")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	t, err := s.svc.Complete(ctx, n)
	if errors.Is(err, apperr.ErrOutOfRange) {
		return mcp.NewToolResultError(fmt.Sprintf("no open thread at %d; call list_threads for current ordinals", n)), nil
	}
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(t)
}

func (s *Server) reorderThreads(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	res, err := s.svc.Reorder(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(res)
}

func (s *Server) searchThreads(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	results, err := s.svc.Search(ctx, query, req.GetInt("limit", 20))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(results) == 0 {
		return mcp.NewToolResultText("no matches"), nil
	}
	return jsonResult(results)
}

func (s *Server) getThreadFormat(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(ThreadFormatContract), nil
}

func (s *Server) readFormatResource(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      FormatURI,
			MIMEType: "text/markdown",
			Text:     ThreadFormatContract,
		},
	}, nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}
