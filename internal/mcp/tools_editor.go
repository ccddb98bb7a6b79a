package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"easel/internal/domain"
	"easel/internal/editor"
	"easel/internal/scene"
)

func (s *Server) registerEditorTools() {
	s.mcp.AddTool(mcp.NewTool("add_element",
		mcp.WithDescription("Add a shape or text element to the active document"),
		mcp.WithString("documentId", mcp.Description("Document ID (optional, defaults to active document)")),
		mcp.WithString("type", mcp.Description("Element type: rectangle, circle, triangle, text"), mcp.Required()),
		mcp.WithNumber("x", mcp.Description("X position (top-left)"), mcp.Required()),
		mcp.WithNumber("y", mcp.Description("Y position (top-left)"), mcp.Required()),
		mcp.WithNumber("width", mcp.Description("Width (optional, default 100)")),
		mcp.WithNumber("height", mcp.Description("Height (optional, default 100)")),
		mcp.WithString("fill", mcp.Description("Fill color hex (optional, e.g. #3b82f6)")),
		mcp.WithString("stroke", mcp.Description("Stroke color hex (optional)")),
		mcp.WithString("text", mcp.Description("Text content (text elements only)")),
	), s.handleAddElement)

	s.mcp.AddTool(mcp.NewTool("move_element",
		mcp.WithDescription("Move an element to a new position"),
		mcp.WithString("documentId", mcp.Description("Document ID (optional, defaults to active document)")),
		mcp.WithString("elementId", mcp.Description("Element ID to move"), mcp.Required()),
		mcp.WithNumber("x", mcp.Description("New X position (top-left)"), mcp.Required()),
		mcp.WithNumber("y", mcp.Description("New Y position (top-left)"), mcp.Required()),
	), s.handleMoveElement)

	s.mcp.AddTool(mcp.NewTool("resize_element",
		mcp.WithDescription("Resize an element; sizes are clamped to the 1-unit minimum"),
		mcp.WithString("documentId", mcp.Description("Document ID (optional, defaults to active document)")),
		mcp.WithString("elementId", mcp.Description("Element ID to resize"), mcp.Required()),
		mcp.WithNumber("width", mcp.Description("New width"), mcp.Required()),
		mcp.WithNumber("height", mcp.Description("New height"), mcp.Required()),
	), s.handleResizeElement)

	s.mcp.AddTool(mcp.NewTool("update_element",
		mcp.WithDescription("Update properties of an element (position, size, rotation, style, text)"),
		mcp.WithString("documentId", mcp.Description("Document ID (optional, defaults to active document)")),
		mcp.WithString("elementId", mcp.Description("Element ID to update"), mcp.Required()),
		mcp.WithNumber("x", mcp.Description("New X position")),
		mcp.WithNumber("y", mcp.Description("New Y position")),
		mcp.WithNumber("width", mcp.Description("New width")),
		mcp.WithNumber("height", mcp.Description("New height")),
		mcp.WithNumber("rotation", mcp.Description("Rotation in degrees about the element center")),
		mcp.WithString("fill", mcp.Description("Fill color hex")),
		mcp.WithString("stroke", mcp.Description("Stroke color hex")),
		mcp.WithNumber("strokeWidth", mcp.Description("Stroke width (0 disables the outline)")),
		mcp.WithNumber("opacity", mcp.Description("Opacity 0..1")),
		mcp.WithBoolean("visible", mcp.Description("Visibility (invisible elements are not rendered or selectable)")),
		mcp.WithString("text", mcp.Description("Text content (text elements only)")),
		mcp.WithNumber("fontSize", mcp.Description("Font size (text elements only)")),
		mcp.WithNumber("fontWeight", mcp.Description("Font weight, e.g. 400 or 700 (text elements only)")),
	), s.handleUpdateElement)

	s.mcp.AddTool(mcp.NewTool("duplicate_element",
		mcp.WithDescription("Duplicate an element; the copy is offset and becomes selected"),
		mcp.WithString("documentId", mcp.Description("Document ID (optional, defaults to active document)")),
		mcp.WithString("elementId", mcp.Description("Element ID to duplicate"), mcp.Required()),
	), s.handleDuplicateElement)

	s.mcp.AddTool(mcp.NewTool("delete_element",
		mcp.WithDescription("🛑 DESTRUCTIVE: Remove an element by ID."),
		mcp.WithString("documentId", mcp.Description("Document ID (optional, defaults to active document)")),
		mcp.WithString("elementId", mcp.Description("Element ID to delete"), mcp.Required()),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{DestructiveHint: boolPtr(true)}),
	), s.handleDeleteElement)

	s.mcp.AddTool(mcp.NewTool("reorder_element",
		mcp.WithDescription("Move an element one step forward or backward in z-order"),
		mcp.WithString("documentId", mcp.Description("Document ID (optional, defaults to active document)")),
		mcp.WithString("elementId", mcp.Description("Element ID"), mcp.Required()),
		mcp.WithString("direction", mcp.Description("'forward' or 'backward'"), mcp.Required()),
	), s.handleReorderElement)

	s.mcp.AddTool(mcp.NewTool("select_element",
		mcp.WithDescription("Select an element (or pass an empty ID to clear the selection)"),
		mcp.WithString("documentId", mcp.Description("Document ID (optional, defaults to active document)")),
		mcp.WithString("elementId", mcp.Description("Element ID, or empty to deselect")),
	), s.handleSelectElement)

	s.mcp.AddTool(mcp.NewTool("list_elements",
		mcp.WithDescription("List all elements of a document in z-order (first = back-most)"),
		mcp.WithString("documentId", mcp.Description("Document ID (optional, defaults to active document)")),
	), s.handleListElements)

	s.mcp.AddTool(mcp.NewTool("undo",
		mcp.WithDescription("Undo the last committed edit of a document"),
		mcp.WithString("documentId", mcp.Description("Document ID (optional, defaults to active document)")),
	), s.handleUndo)

	s.mcp.AddTool(mcp.NewTool("redo",
		mcp.WithDescription("Redo the last undone edit of a document"),
		mcp.WithString("documentId", mcp.Description("Document ID (optional, defaults to active document)")),
	), s.handleRedo)
}

// withEditor resolves the target document and runs fn with its editor under
// the document service lock, serializing tool calls against autosave and the
// file watcher.
func (s *Server) withEditor(args map[string]any, fn func(ed *editor.Editor) error) (string, error) {
	id, err := s.resolveDocumentID(args)
	if err != nil {
		return "", err
	}
	return id, s.docs.WithEditor(id, fn)
}

func (s *Server) emitSceneChanged(ctx context.Context, docID string) {
	s.emitter.Emit(ctx, "mcp:scene-changed", map[string]string{"documentId": docID})
}

func floatArg(args map[string]any, key string) (float64, bool) {
	v, ok := args[key].(float64)
	return v, ok
}

func (s *Server) handleAddElement(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()

	kind, _ := args["type"].(string)
	switch editor.Tool(kind) {
	case editor.ToolText, editor.ToolRectangle, editor.ToolCircle, editor.ToolTriangle:
	default:
		return nil, fmt.Errorf("unknown element type %q", kind)
	}
	x, _ := floatArg(args, "x")
	y, _ := floatArg(args, "y")
	w, ok := floatArg(args, "width")
	if !ok {
		w = 100
	}
	h, ok := floatArg(args, "height")
	if !ok {
		h = 100
	}

	var el domain.Element
	docID, err := s.withEditor(args, func(ed *editor.Editor) error {
		// Drive the same one-shot creation gesture the pointer would.
		ed.SetActiveTool(editor.Tool(kind))
		ed.PointerDown(x, y)
		ed.PointerMove(x+w, y+h)
		ed.PointerUp()

		patch := scene.Patch{}
		patched := false
		if fill, ok := args["fill"].(string); ok && fill != "" {
			patch.Fill = &fill
			patched = true
		}
		if stroke, ok := args["stroke"].(string); ok && stroke != "" {
			patch.Stroke = &stroke
			patched = true
		}
		if text, ok := args["text"].(string); ok && text != "" {
			patch.TextContent = &text
			patched = true
		}
		if patched {
			ed.UpdateSelectedProperties(patch)
		}
		el, _ = findElement(ed.Elements(), ed.SelectedID())
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.emitSceneChanged(ctx, docID)
	return jsonResult(el)
}

func (s *Server) handleMoveElement(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	elementID, _ := args["elementId"].(string)
	x, okX := floatArg(args, "x")
	y, okY := floatArg(args, "y")
	if !okX || !okY {
		return nil, fmt.Errorf("x and y are required")
	}

	docID, err := s.withEditor(args, func(ed *editor.Editor) error {
		if _, ok := findElement(ed.Elements(), elementID); !ok {
			return fmt.Errorf("element %s not found", elementID)
		}
		ed.Select(elementID)
		ed.UpdateSelectedProperties(scene.Patch{X: &x, Y: &y})
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.emitSceneChanged(ctx, docID)
	return textResult(fmt.Sprintf("Element %s moved to (%g, %g)", elementID, x, y)), nil
}

func (s *Server) handleResizeElement(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	elementID, _ := args["elementId"].(string)
	w, okW := floatArg(args, "width")
	h, okH := floatArg(args, "height")
	if !okW || !okH {
		return nil, fmt.Errorf("width and height are required")
	}

	docID, err := s.withEditor(args, func(ed *editor.Editor) error {
		if _, ok := findElement(ed.Elements(), elementID); !ok {
			return fmt.Errorf("element %s not found", elementID)
		}
		ed.Select(elementID)
		ed.UpdateSelectedProperties(scene.Patch{Width: &w, Height: &h})
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.emitSceneChanged(ctx, docID)
	return textResult(fmt.Sprintf("Element %s resized to %gx%g", elementID, w, h)), nil
}

func (s *Server) handleUpdateElement(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	elementID, _ := args["elementId"].(string)

	patch := scene.Patch{}
	if v, ok := floatArg(args, "x"); ok {
		patch.X = &v
	}
	if v, ok := floatArg(args, "y"); ok {
		patch.Y = &v
	}
	if v, ok := floatArg(args, "width"); ok {
		patch.Width = &v
	}
	if v, ok := floatArg(args, "height"); ok {
		patch.Height = &v
	}
	if v, ok := floatArg(args, "rotation"); ok {
		patch.Rotation = &v
	}
	if v, ok := args["fill"].(string); ok {
		patch.Fill = &v
	}
	if v, ok := args["stroke"].(string); ok {
		patch.Stroke = &v
	}
	if v, ok := floatArg(args, "strokeWidth"); ok {
		patch.StrokeWidth = &v
	}
	if v, ok := floatArg(args, "opacity"); ok {
		patch.Opacity = &v
	}
	if v, ok := args["visible"].(bool); ok {
		patch.Visible = &v
	}
	if v, ok := args["text"].(string); ok {
		patch.TextContent = &v
	}
	if v, ok := floatArg(args, "fontSize"); ok {
		patch.FontSize = &v
	}
	if v, ok := floatArg(args, "fontWeight"); ok {
		w := int(v)
		patch.FontWeight = &w
	}

	docID, err := s.withEditor(args, func(ed *editor.Editor) error {
		if _, ok := findElement(ed.Elements(), elementID); !ok {
			return fmt.Errorf("element %s not found", elementID)
		}
		ed.Select(elementID)
		ed.UpdateSelectedProperties(patch)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.emitSceneChanged(ctx, docID)
	return textResult(fmt.Sprintf("Element %s updated", elementID)), nil
}

func (s *Server) handleDuplicateElement(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	elementID, _ := args["elementId"].(string)

	var el domain.Element
	docID, err := s.withEditor(args, func(ed *editor.Editor) error {
		if _, ok := findElement(ed.Elements(), elementID); !ok {
			return fmt.Errorf("element %s not found", elementID)
		}
		ed.Select(elementID)
		ed.DuplicateSelected()
		el, _ = findElement(ed.Elements(), ed.SelectedID())
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.emitSceneChanged(ctx, docID)
	return jsonResult(el)
}

func (s *Server) handleDeleteElement(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	elementID, _ := args["elementId"].(string)

	docID, err := s.withEditor(args, func(ed *editor.Editor) error {
		if _, ok := findElement(ed.Elements(), elementID); !ok {
			return fmt.Errorf("element %s not found", elementID)
		}
		ed.Select(elementID)
		ed.DeleteSelected()
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.emitSceneChanged(ctx, docID)
	return textResult(fmt.Sprintf("Element %s deleted", elementID)), nil
}

func (s *Server) handleReorderElement(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	elementID, _ := args["elementId"].(string)
	direction, _ := args["direction"].(string)
	var dir scene.Direction
	switch direction {
	case "forward":
		dir = scene.Forward
	case "backward":
		dir = scene.Backward
	default:
		return nil, fmt.Errorf("direction must be 'forward' or 'backward', got %q", direction)
	}

	docID, err := s.withEditor(args, func(ed *editor.Editor) error {
		if _, ok := findElement(ed.Elements(), elementID); !ok {
			return fmt.Errorf("element %s not found", elementID)
		}
		ed.Select(elementID)
		ed.Reorder(dir)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.emitSceneChanged(ctx, docID)
	return textResult(fmt.Sprintf("Element %s moved %s", elementID, direction)), nil
}

func (s *Server) handleSelectElement(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	elementID, _ := args["elementId"].(string)

	docID, err := s.withEditor(args, func(ed *editor.Editor) error {
		if elementID != "" {
			if _, ok := findElement(ed.Elements(), elementID); !ok {
				return fmt.Errorf("element %s not found", elementID)
			}
		}
		ed.Select(elementID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.emitSceneChanged(ctx, docID)
	if elementID == "" {
		return textResult("Selection cleared"), nil
	}
	return textResult(fmt.Sprintf("Element %s selected", elementID)), nil
}

func (s *Server) handleListElements(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var result map[string]any
	_, err := s.withEditor(req.GetArguments(), func(ed *editor.Editor) error {
		snap := ed.Snapshot()
		elements := snap.Elements
		if elements == nil {
			elements = []domain.Element{}
		}
		result = map[string]any{
			"elements":      elements,
			"selectedId":    snap.SelectedID,
			"historyDepth":  ed.HistoryDepth(),
			"historyPos":    ed.HistoryPos(),
			"totalElements": len(elements),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return jsonResult(result)
}

func (s *Server) handleUndo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	undone := false
	docID, err := s.withEditor(req.GetArguments(), func(ed *editor.Editor) error {
		if ed.CanUndo() {
			ed.Undo()
			undone = true
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !undone {
		return textResult("Nothing to undo"), nil
	}
	s.emitSceneChanged(ctx, docID)
	return textResult("Undone"), nil
}

func (s *Server) handleRedo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	redone := false
	docID, err := s.withEditor(req.GetArguments(), func(ed *editor.Editor) error {
		if ed.CanRedo() {
			ed.Redo()
			redone = true
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !redone {
		return textResult("Nothing to redo"), nil
	}
	s.emitSceneChanged(ctx, docID)
	return textResult("Redone"), nil
}

func findElement(elements []domain.Element, id string) (domain.Element, bool) {
	for _, el := range elements {
		if el.ID == id {
			return el, true
		}
	}
	return domain.Element{}, false
}
