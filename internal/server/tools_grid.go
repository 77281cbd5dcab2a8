package server

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerGridTools() {
	s.addTool(readOnlyTool("sap_get_grid_data",
		"Extract a grid view's full contents: column titles and every row. Large grids can produce large results; prefer sap_get_grid_cell_value for single cells.",
		mcp.WithString("element_id", mcp.Required(), mcp.Description("Hierarchical id of the grid view.")),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := req.RequireString("element_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		sess, err := s.sessions.Current()
		if err != nil {
			return nil, err
		}
		snapshot, err := s.ops.GridData(sess, id)
		if err != nil {
			return nil, err
		}
		return jsonResult(snapshot)
	})

	s.addTool(readOnlyTool("sap_get_grid_cell_value",
		"Read a single grid cell by zero-based row and column index.",
		mcp.WithString("element_id", mcp.Required(), mcp.Description("Hierarchical id of the grid view.")),
		mcp.WithNumber("row", mcp.Required(), mcp.Description("Zero-based row index.")),
		mcp.WithNumber("column", mcp.Required(), mcp.Description("Zero-based column index.")),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := req.RequireString("element_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		row, err := req.RequireInt("row")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		col, err := req.RequireInt("column")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		sess, err := s.sessions.Current()
		if err != nil {
			return nil, err
		}
		cell, err := s.ops.GridCellValue(sess, id, row, col)
		if err != nil {
			return nil, err
		}
		return jsonResult(cell)
	})

	s.addTool(mutatingTool("sap_select_grid_row",
		"Select a grid row by zero-based index, replacing the current selection.",
		mcp.WithString("element_id", mcp.Required(), mcp.Description("Hierarchical id of the grid view.")),
		mcp.WithNumber("row", mcp.Required(), mcp.Description("Zero-based row index.")),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := req.RequireString("element_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		row, err := req.RequireInt("row")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		sess, err := s.sessions.Current()
		if err != nil {
			return nil, err
		}
		if err := s.ops.SelectGridRow(sess, id, row); err != nil {
			return nil, err
		}
		return textResult("selected row %d of %s", row, id)
	})

	s.addTool(readOnlyTool("sap_get_selected_grid_rows",
		"Read the grid's current selection and return the selected rows' data keyed by column title.",
		mcp.WithString("element_id", mcp.Required(), mcp.Description("Hierarchical id of the grid view.")),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := req.RequireString("element_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		sess, err := s.sessions.Current()
		if err != nil {
			return nil, err
		}
		rows, err := s.ops.SelectedGridRows(sess, id)
		if err != nil {
			return nil, err
		}
		return jsonResult(rows)
	})

	s.addTool(mutatingTool("sap_double_click_grid_cell",
		"Double-click a grid cell, typically drilling into the record behind it.",
		mcp.WithString("element_id", mcp.Required(), mcp.Description("Hierarchical id of the grid view.")),
		mcp.WithNumber("row", mcp.Required(), mcp.Description("Zero-based row index.")),
		mcp.WithNumber("column", mcp.Required(), mcp.Description("Zero-based column index.")),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := req.RequireString("element_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		row, err := req.RequireInt("row")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		col, err := req.RequireInt("column")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		sess, err := s.sessions.Current()
		if err != nil {
			return nil, err
		}
		if err := s.ops.DoubleClickGridCell(sess, id, row, col); err != nil {
			return nil, err
		}
		return textResult("double-clicked row %d column %d of %s", row, col, id)
	})

	s.addTool(mutatingTool("sap_export_grid_csv",
		"Export a grid view to a CSV file through the grid's export dialog and return the path written.",
		mcp.WithString("element_id", mcp.Required(), mcp.Description("Hierarchical id of the grid view.")),
		mcp.WithString("output_path", mcp.Description("Target file. Empty generates a timestamped file under the export directory.")),
		mcp.WithString("identifier", mcp.Description("Label woven into generated file names, e.g. the report name.")),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := req.RequireString("element_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		sess, err := s.sessions.Current()
		if err != nil {
			return nil, err
		}
		path, err := s.ops.ExportGridCSV(sess, id, req.GetString("output_path", ""), req.GetString("identifier", ""))
		if err != nil {
			return nil, err
		}
		return jsonResult(map[string]string{"path": path})
	})

	s.addTool(readOnlyTool("sap_take_screenshot",
		"Capture a window to an image file and return the path written. Format follows the file extension (png, jpg, bmp, gif).",
		mcp.WithString("output_path", mcp.Description("Target file. Empty generates a timestamped PNG under the screenshot directory.")),
		mcp.WithString("window_id", mcp.Description("Window to capture. Empty captures the active window.")),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		sess, err := s.sessions.Current()
		if err != nil {
			return nil, err
		}
		path, err := s.ops.Screenshot(sess, req.GetString("output_path", ""), req.GetString("window_id", ""))
		if err != nil {
			return nil, err
		}
		return jsonResult(map[string]string{"path": path})
	})
}
