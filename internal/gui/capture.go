package gui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/saptools/sapmcp/internal/engine"
)

// timestampLayout stamps generated screenshot and export file names.
const timestampLayout = "20060102_150405"

// exportFormatKey is the lean CSV entry of the ALV export format combo.
const exportFormatKey = "csv-LEAN-STANDARD"

// ALV export dialog element ids.
const (
	exportFileField   = "wnd[1]/usr/ssubSUB_CONFIGURATION:SAPLSALV_GUI_CUL_EXPORT_AS:0512/txtGS_EXPORT-FILE_NAME"
	exportFormatCombo = "wnd[1]/usr/ssubSUB_CONFIGURATION:SAPLSALV_GUI_CUL_EXPORT_AS:0512/cmbGS_EXPORT-FORMAT"
	exportReplaceBtn  = "wnd[1]/tbar[0]/btn[20]"
	exportConfirmBtn  = "wnd[1]/tbar[0]/btn[0]"
)

// Screenshot captures a window to an image file and returns the path
// written. With no outputPath a timestamped file is generated under the
// screenshot directory (created lazily); a caller-specified path is used
// exactly as given. With no windowID the active window is captured.
func (f *Facade) Screenshot(sess engine.Session, outputPath, windowID string) (string, error) {
	var wnd engine.Window
	if windowID != "" {
		el, err := sess.FindByID(windowID)
		if err != nil {
			return "", fmt.Errorf("%w: window %s not found", ErrCapture, windowID)
		}
		w, ok := el.(engine.Window)
		if !ok {
			return "", fmt.Errorf("%w: %s (%s) is not a window", ErrCapture, windowID, el.Type())
		}
		wnd = w
	} else {
		w, err := sess.ActiveWindow()
		if err != nil {
			return "", fmt.Errorf("%w: no active window", ErrCapture)
		}
		wnd = w
	}

	path := outputPath
	if path == "" {
		if err := os.MkdirAll(f.ScreenshotDir, 0o755); err != nil {
			return "", fmt.Errorf("%w: creating %s: %v", ErrCapture, f.ScreenshotDir, err)
		}
		name := "sap_screenshot_" + f.Now().Format(timestampLayout) + ".png"
		path = filepath.Join(f.ScreenshotDir, name)
	} else if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("%w: creating %s: %v", ErrCapture, dir, err)
		}
	}

	if err := wnd.HardCopy(path, captureFormat(path)); err != nil {
		return "", fmt.Errorf("%w: capturing %s to %s: %v", ErrCapture, wnd.ID(), path, err)
	}
	f.Log.Info("captured screenshot", "window", wnd.ID(), "path", path)
	return path, nil
}

// captureFormat picks the HardCopy format from the file extension,
// defaulting to PNG.
func captureFormat(path string) int {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".bmp":
		return engine.FormatBMP
	case ".jpg", ".jpeg":
		return engine.FormatJPG
	case ".gif":
		return engine.FormatGIF
	default:
		return engine.FormatPNG
	}
}

// ExportGridCSV drives the ALV export dialog to write the grid as CSV and
// returns the path written. With no outputPath a timestamped file is
// generated under the export directory; the optional identifier is woven
// into the generated name.
func (f *Facade) ExportGridCSV(sess engine.Session, gridID, outputPath, identifier string) (string, error) {
	g, err := grid(sess, gridID)
	if err != nil {
		return "", err
	}

	path := outputPath
	if path == "" {
		if err := os.MkdirAll(f.ExportDir, 0o755); err != nil {
			return "", fmt.Errorf("%w: creating %s: %v", ErrExport, f.ExportDir, err)
		}
		name := "export_"
		if identifier != "" {
			name += identifier + "_"
		}
		name += f.Now().Format(timestampLayout) + ".csv"
		path = filepath.Join(f.ExportDir, name)
	} else if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("%w: creating %s: %v", ErrExport, dir, err)
		}
	}

	if err := g.PressToolbarContextButton("&MB_EXPORT"); err != nil {
		return "", fmt.Errorf("%w: opening export menu on %s: %v", ErrExport, gridID, err)
	}
	if err := g.SelectContextMenuItem("&XXL"); err != nil {
		return "", fmt.Errorf("%w: choosing export entry on %s: %v", ErrExport, gridID, err)
	}

	if err := f.SetText(sess, exportFileField, path); err != nil {
		return "", fmt.Errorf("%w: filling export file name: %v", ErrExport, err)
	}
	if err := f.SetFocus(sess, exportFormatCombo); err != nil {
		return "", fmt.Errorf("%w: focusing export format: %v", ErrExport, err)
	}
	if err := f.SetCombo(sess, exportFormatCombo, exportFormatKey); err != nil {
		return "", fmt.Errorf("%w: choosing export format: %v", ErrExport, err)
	}
	if err := f.PressButton(sess, exportReplaceBtn); err != nil {
		return "", fmt.Errorf("%w: confirming export dialog: %v", ErrExport, err)
	}
	if err := f.PressButton(sess, exportConfirmBtn); err != nil {
		return "", fmt.Errorf("%w: confirming export dialog: %v", ErrExport, err)
	}

	if _, err := os.Stat(path); err != nil {
		return path, fmt.Errorf("%w: export completed but file not found at %s", ErrExport, path)
	}
	f.Log.Info("exported grid", "grid", gridID, "path", path)
	return path, nil
}
