package server

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

// findElement backs sap_find_element. Without raise_error a miss is a
// found=false result, not an error response.
func (s *Server) findElement(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("element_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	sess, err := s.sessions.Current()
	if err != nil {
		return nil, err
	}
	foundID, found, err := s.ops.FindByID(sess, id, req.GetBool("raise_error", false))
	if err != nil {
		return nil, err
	}
	return jsonResult(map[string]any{"element_id": foundID, "found": found})
}

func (s *Server) registerElementTools() {
	s.addTool(readOnlyTool("sap_find_element",
		"Check whether an element exists by its hierarchical id, e.g. wnd[0]/usr/txtRSYST-BNAME. "+
			"A miss is reported as found=false unless raise_error is set.",
		mcp.WithString("element_id", mcp.Required(), mcp.Description("Hierarchical element id.")),
		mcp.WithBoolean("raise_error", mcp.Description("Treat a miss as an error instead of found=false. Defaults to false.")),
	), s.findElement)

	s.addTool(readOnlyTool("sap_find_by_name",
		"Find the first element matching a name and scripting type, e.g. name=RSYST-BNAME type=GuiTextField.",
		mcp.WithString("name", mcp.Required(), mcp.Description("Element name.")),
		mcp.WithString("type", mcp.Description("Scripting type filter, e.g. GuiTextField. Empty matches any type.")),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name, err := req.RequireString("name")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		sess, err := s.sessions.Current()
		if err != nil {
			return nil, err
		}
		id, err := s.ops.FindByName(sess, name, req.GetString("type", ""))
		if err != nil {
			return nil, err
		}
		return jsonResult(map[string]string{"element_id": id})
	})

	s.addTool(readOnlyTool("sap_find_all_by_name",
		"Find every element matching a name and scripting type. An empty list is a valid result.",
		mcp.WithString("name", mcp.Required(), mcp.Description("Element name.")),
		mcp.WithString("type", mcp.Description("Scripting type filter. Empty matches any type.")),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name, err := req.RequireString("name")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		sess, err := s.sessions.Current()
		if err != nil {
			return nil, err
		}
		ids, err := s.ops.FindAllByName(sess, name, req.GetString("type", ""))
		if err != nil {
			return nil, err
		}
		return jsonResult(map[string]any{"element_ids": ids, "count": len(ids)})
	})

	s.addTool(readOnlyTool("sap_get_element_text",
		"Read the text value of a field, label or title bar.",
		mcp.WithString("element_id", mcp.Required(), mcp.Description("Hierarchical element id.")),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := req.RequireString("element_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		sess, err := s.sessions.Current()
		if err != nil {
			return nil, err
		}
		text, err := s.ops.GetText(sess, id)
		if err != nil {
			return nil, err
		}
		return jsonResult(map[string]string{"element_id": id, "text": text})
	})

	s.addTool(mutatingTool("sap_set_element_text",
		"Write the text value of an input field.",
		mcp.WithString("element_id", mcp.Required(), mcp.Description("Hierarchical element id.")),
		mcp.WithString("text", mcp.Required(), mcp.Description("Value to write.")),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := req.RequireString("element_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		text, err := req.RequireString("text")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		sess, err := s.sessions.Current()
		if err != nil {
			return nil, err
		}
		if err := s.ops.SetText(sess, id, text); err != nil {
			return nil, err
		}
		return textResult("set text of %s", id)
	})

	s.addTool(readOnlyTool("sap_get_checkbox",
		"Read a checkbox's selected state.",
		mcp.WithString("element_id", mcp.Required(), mcp.Description("Hierarchical element id.")),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := req.RequireString("element_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		sess, err := s.sessions.Current()
		if err != nil {
			return nil, err
		}
		selected, err := s.ops.GetCheckbox(sess, id)
		if err != nil {
			return nil, err
		}
		return jsonResult(map[string]any{"element_id": id, "selected": selected})
	})

	s.addTool(mutatingTool("sap_set_checkbox",
		"Set a checkbox's selected state.",
		mcp.WithString("element_id", mcp.Required(), mcp.Description("Hierarchical element id.")),
		mcp.WithBoolean("selected", mcp.Required(), mcp.Description("Desired state.")),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := req.RequireString("element_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		selected, err := req.RequireBool("selected")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		sess, err := s.sessions.Current()
		if err != nil {
			return nil, err
		}
		if err := s.ops.SetCheckbox(sess, id, selected); err != nil {
			return nil, err
		}
		return textResult("set checkbox %s to %t", id, selected)
	})

	s.addTool(mutatingTool("sap_set_radio_button",
		"Select a radio button. Radio buttons cannot be deselected directly; select a sibling instead.",
		mcp.WithString("element_id", mcp.Required(), mcp.Description("Hierarchical element id.")),
		mcp.WithBoolean("selected", mcp.Description("Must be true; false is rejected. Defaults to true.")),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := req.RequireString("element_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		sess, err := s.sessions.Current()
		if err != nil {
			return nil, err
		}
		if err := s.ops.SetRadioButton(sess, id, req.GetBool("selected", true)); err != nil {
			return nil, err
		}
		return textResult("selected radio button %s", id)
	})

	s.addTool(mutatingTool("sap_set_combobox",
		"Set a combo box value by its entry key.",
		mcp.WithString("element_id", mcp.Required(), mcp.Description("Hierarchical element id.")),
		mcp.WithString("key", mcp.Required(), mcp.Description("Entry key to select.")),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := req.RequireString("element_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		key, err := req.RequireString("key")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		sess, err := s.sessions.Current()
		if err != nil {
			return nil, err
		}
		if err := s.ops.SetCombo(sess, id, key); err != nil {
			return nil, err
		}
		return textResult("set combo box %s to %s", id, key)
	})

	s.addTool(mutatingTool("sap_set_focus",
		"Give an element keyboard focus.",
		mcp.WithString("element_id", mcp.Required(), mcp.Description("Hierarchical element id.")),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := req.RequireString("element_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		sess, err := s.sessions.Current()
		if err != nil {
			return nil, err
		}
		if err := s.ops.SetFocus(sess, id); err != nil {
			return nil, err
		}
		return textResult("focused %s", id)
	})

	s.addTool(mutatingTool("sap_press_button",
		"Press a button.",
		mcp.WithString("element_id", mcp.Required(), mcp.Description("Hierarchical element id.")),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := req.RequireString("element_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		sess, err := s.sessions.Current()
		if err != nil {
			return nil, err
		}
		if err := s.ops.PressButton(sess, id); err != nil {
			return nil, err
		}
		return textResult("pressed %s", id)
	})

	s.addTool(readOnlyTool("sap_get_object_tree",
		"Dump the full element tree of every open window. Elements that fail introspection are annotated and skipped.",
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		sess, err := s.sessions.Current()
		if err != nil {
			return nil, err
		}
		dump, err := s.ops.ObjectTree(sess)
		if err != nil {
			return nil, err
		}
		return jsonResult(dump)
	})

	s.addTool(readOnlyTool("sap_get_vertical_scroll",
		"Read an element's vertical scrollbar position.",
		mcp.WithString("element_id", mcp.Required(), mcp.Description("Hierarchical element id.")),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := req.RequireString("element_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		sess, err := s.sessions.Current()
		if err != nil {
			return nil, err
		}
		pos, err := s.ops.VerticalScrollPosition(sess, id)
		if err != nil {
			return nil, err
		}
		return jsonResult(map[string]any{"element_id": id, "position": pos})
	})

	s.addTool(mutatingTool("sap_set_vertical_scroll",
		"Set an element's vertical scrollbar position.",
		mcp.WithString("element_id", mcp.Required(), mcp.Description("Hierarchical element id.")),
		mcp.WithNumber("position", mcp.Required(), mcp.Description("Target position.")),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := req.RequireString("element_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		pos, err := req.RequireInt("position")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		sess, err := s.sessions.Current()
		if err != nil {
			return nil, err
		}
		if err := s.ops.SetVerticalScrollPosition(sess, id, pos); err != nil {
			return nil, err
		}
		return textResult("scrolled %s to %d", id, pos)
	})

	s.addTool(readOnlyTool("sap_get_horizontal_scroll",
		"Read an element's horizontal scrollbar position.",
		mcp.WithString("element_id", mcp.Required(), mcp.Description("Hierarchical element id.")),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := req.RequireString("element_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		sess, err := s.sessions.Current()
		if err != nil {
			return nil, err
		}
		pos, err := s.ops.HorizontalScrollPosition(sess, id)
		if err != nil {
			return nil, err
		}
		return jsonResult(map[string]any{"element_id": id, "position": pos})
	})

	s.addTool(mutatingTool("sap_set_horizontal_scroll",
		"Set an element's horizontal scrollbar position.",
		mcp.WithString("element_id", mcp.Required(), mcp.Description("Hierarchical element id.")),
		mcp.WithNumber("position", mcp.Required(), mcp.Description("Target position.")),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := req.RequireString("element_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		pos, err := req.RequireInt("position")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		sess, err := s.sessions.Current()
		if err != nil {
			return nil, err
		}
		if err := s.ops.SetHorizontalScrollPosition(sess, id, pos); err != nil {
			return nil, err
		}
		return textResult("scrolled %s to %d", id, pos)
	})
}
