package mcpserver

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"easel/internal/service"
)

// Server is the MCP server for the drawing engine. It exposes the editor
// command surface as tools so AI agents can build and edit scenes.
type Server struct {
	mcp     *server.MCPServer
	emitter service.EventEmitter
	docs    *service.DocumentService

	// Active document context (set by the set_active_document tool)
	activeDocID string
}

// Deps holds the dependencies passed from the host to the MCP server.
type Deps struct {
	Emitter   service.EventEmitter
	Documents *service.DocumentService
}

// New creates and configures a new MCP server with all tools registered.
func New(deps Deps) *Server {
	s := &Server{
		emitter: deps.Emitter,
		docs:    deps.Documents,
	}

	s.mcp = server.NewMCPServer(
		"easel-mcp",
		"1.0.0",
		server.WithToolCapabilities(true),
	)

	s.registerDocumentTools()
	s.registerEditorTools()

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	log.Println("mcp: starting stdio server")
	return server.ServeStdio(s.mcp)
}

// resolveDocumentID returns the documentId from tool args or falls back to
// the active document.
func (s *Server) resolveDocumentID(args map[string]any) (string, error) {
	if id, ok := args["documentId"].(string); ok && id != "" {
		return id, nil
	}
	if s.activeDocID != "" {
		return s.activeDocID, nil
	}
	return "", fmt.Errorf("no documentId given and no active document set (use set_active_document)")
}

// textResult creates a simple text tool result.
func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

// jsonResult serializes v to JSON and wraps it in a text tool result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	return textResult(string(data)), nil
}

func boolPtr(b bool) *bool { return &b }
