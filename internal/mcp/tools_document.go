package mcpserver

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerDocumentTools() {
	s.mcp.AddTool(mcp.NewTool("list_documents",
		mcp.WithDescription("List all drawing documents with their IDs, names and canvas sizes"),
	), s.handleListDocuments)

	s.mcp.AddTool(mcp.NewTool("create_document",
		mcp.WithDescription("Create a new empty drawing document and make it active"),
		mcp.WithString("name", mcp.Description("Document name"), mcp.Required()),
	), s.handleCreateDocument)

	s.mcp.AddTool(mcp.NewTool("set_active_document",
		mcp.WithDescription("Open a document and make it the target of subsequent editor tools"),
		mcp.WithString("documentId", mcp.Description("Document ID"), mcp.Required()),
	), s.handleSetActiveDocument)

	s.mcp.AddTool(mcp.NewTool("rename_document",
		mcp.WithDescription("Rename a document"),
		mcp.WithString("documentId", mcp.Description("Document ID (optional, defaults to active document)")),
		mcp.WithString("name", mcp.Description("New document name"), mcp.Required()),
	), s.handleRenameDocument)

	s.mcp.AddTool(mcp.NewTool("link_document_file",
		mcp.WithDescription("Link a document to a JSON scene file on disk; the scene is written there on save and external edits to the file reload the document"),
		mcp.WithString("documentId", mcp.Description("Document ID (optional, defaults to active document)")),
		mcp.WithString("path", mcp.Description("Path of the scene file to create or overwrite"), mcp.Required()),
	), s.handleLinkDocumentFile)

	s.mcp.AddTool(mcp.NewTool("save_document",
		mcp.WithDescription("Persist the current scene of a document"),
		mcp.WithString("documentId", mcp.Description("Document ID (optional, defaults to active document)")),
	), s.handleSaveDocument)

	s.mcp.AddTool(mcp.NewTool("export_png",
		mcp.WithDescription("Render a document to PNG and return it as a base64 data URL"),
		mcp.WithString("documentId", mcp.Description("Document ID (optional, defaults to active document)")),
	), s.handleExportPNG)

	s.mcp.AddTool(mcp.NewTool("delete_document",
		mcp.WithDescription("🛑 DESTRUCTIVE: Delete a document and its scene."),
		mcp.WithString("documentId", mcp.Description("Document ID"), mcp.Required()),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{DestructiveHint: boolPtr(true)}),
	), s.handleDeleteDocument)
}

func (s *Server) handleListDocuments(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	docs, err := s.docs.ListDocuments()
	if err != nil {
		return nil, err
	}
	return jsonResult(map[string]any{
		"documents": docs,
		"active":    s.activeDocID,
	})
}

func (s *Server) handleCreateDocument(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	name, _ := args["name"].(string)
	d, err := s.docs.CreateDocument(name)
	if err != nil {
		return nil, err
	}
	s.activeDocID = d.ID
	s.emitter.Emit(ctx, "mcp:document-created", map[string]string{"documentId": d.ID})
	return jsonResult(d)
}

func (s *Server) handleSetActiveDocument(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	id, _ := args["documentId"].(string)
	if _, err := s.docs.Open(id); err != nil {
		return nil, err
	}
	s.activeDocID = id
	return textResult(fmt.Sprintf("Active document set to %s", id)), nil
}

func (s *Server) handleRenameDocument(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	id, err := s.resolveDocumentID(args)
	if err != nil {
		return nil, err
	}
	name, _ := args["name"].(string)
	if err := s.docs.Rename(id, name); err != nil {
		return nil, err
	}
	return textResult(fmt.Sprintf("Document %s renamed to %q", id, name)), nil
}

func (s *Server) handleLinkDocumentFile(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	id, err := s.resolveDocumentID(args)
	if err != nil {
		return nil, err
	}
	path, _ := args["path"].(string)
	if path == "" {
		return nil, fmt.Errorf("path is required")
	}
	if _, err := s.docs.Open(id); err != nil {
		return nil, err
	}
	abs, err := s.docs.LinkFile(ctx, id, path)
	if err != nil {
		return nil, err
	}
	return textResult(fmt.Sprintf("Document %s linked to %s", id, abs)), nil
}

func (s *Server) handleSaveDocument(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := s.resolveDocumentID(req.GetArguments())
	if err != nil {
		return nil, err
	}
	if err := s.docs.Save(ctx, id); err != nil {
		return nil, err
	}
	return textResult(fmt.Sprintf("Document %s saved", id)), nil
}

func (s *Server) handleExportPNG(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := s.resolveDocumentID(req.GetArguments())
	if err != nil {
		return nil, err
	}
	if _, err := s.docs.Open(id); err != nil {
		return nil, err
	}
	data, err := s.docs.ExportPNG(id)
	if err != nil {
		return nil, err
	}
	return textResult("data:image/png;base64," + base64.StdEncoding.EncodeToString(data)), nil
}

func (s *Server) handleDeleteDocument(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	id, _ := args["documentId"].(string)
	if err := s.docs.DeleteDocument(id); err != nil {
		return nil, err
	}
	if s.activeDocID == id {
		s.activeDocID = ""
	}
	s.emitter.Emit(ctx, "mcp:document-deleted", map[string]string{"documentId": id})
	return textResult(fmt.Sprintf("Document %s deleted", id)), nil
}
