// Package engine abstracts the SAP GUI scripting surface. The real
// implementation talks to the SAPGUI COM automation object on Windows;
// tests substitute the in-memory fake from the enginetest subpackage.
//
// Elements are capability-tagged: a control resolved through a Session is
// always an Element, and callers type-assert to the capability they need
// (TextElement, Checkbox, Grid, ...). Asking a control for a capability it
// does not have is a typed failure, not a late runtime fault.
package engine

// SessionInfo is the identity of one authenticated session as reported by
// the scripting engine.
type SessionInfo struct {
	ID           string
	User         string
	Client       string
	Language     string
	SystemName   string
	SystemNumber string
}

// Engine is the entry point to the scripting surface: the running SAP GUI
// process and its open connections.
type Engine interface {
	// Running reports whether the scripting engine is reachable at all.
	Running() bool

	// Connections returns the open connections in engine order.
	Connections() ([]Connection, error)

	// OpenConnection opens a new connection to the system described by the
	// logon pad entry name. When sync is true the call blocks until the
	// connection window exists.
	OpenConnection(description string, sync bool) (Connection, error)
}

// Connection is one open connection, holding one or more sessions.
type Connection interface {
	Sessions() ([]Session, error)
}

// Session is one authenticated (or logon-screen) session.
type Session interface {
	Info() (SessionInfo, error)

	// Busy reports whether the session is processing a roundtrip.
	Busy() (bool, error)

	StartTransaction(code string) error
	EndTransaction() error

	// SendCommand executes an okcode string and waits for completion.
	SendCommand(command string) error

	// SendCommandAsync dispatches an okcode string without waiting.
	// Ordering relative to later calls is the caller's responsibility.
	SendCommandAsync(command string) error

	// FindByID resolves an element by its hierarchical path. Returns
	// ErrNotFound (wrapped) when no element exists at the path.
	FindByID(id string) (Element, error)

	// FindByName scans descendants for the first element with the given
	// name and type.
	FindByName(name, kind string) (Element, error)

	// FindAllByName returns every matching descendant in engine order.
	FindAllByName(name, kind string) ([]Element, error)

	// Windows returns the session's open windows (the session's direct
	// children, wnd[0], wnd[1], ...).
	Windows() ([]Element, error)

	ActiveWindow() (Window, error)

	// SendVKey sends a virtual key to the active window. VKey 0 is Enter.
	SendVKey(key int) error
}

// Element is the minimal surface every resolved control exposes.
type Element interface {
	ID() string
	Type() string
	Children() ([]Element, error)
}

// TextElement is a control with a readable and writable text value.
type TextElement interface {
	Element
	Text() (string, error)
	SetText(text string) error
}

// Checkbox is a control with a boolean selected state.
type Checkbox interface {
	Element
	Selected() (bool, error)
	SetSelected(state bool) error
}

// RadioButton can only be selected; deselection happens by selecting a
// sibling, the scripting surface has no direct deselect.
type RadioButton interface {
	Element
	Select() error
}

// ComboBox is a control whose value is addressed by entry key.
type ComboBox interface {
	Element
	Key() (string, error)
	SetKey(key string) error
}

// Focusable is a control that can take keyboard focus.
type Focusable interface {
	Element
	SetFocus() error
}

// Button is a pressable control.
type Button interface {
	Element
	Press() error
}

// Grid is an ALV grid view. Rows beyond the visible area may be
// virtualized: RowCount reports the full logical count while the backend
// materializes rows on access.
type Grid interface {
	Element
	RowCount() (int, error)
	VisibleRowCount() (int, error)
	ColumnCount() (int, error)
	ColumnTitle(col int) (string, error)

	// CellValue returns the display value at (row, col). Out-of-range
	// coordinates return ErrCellOutOfRange (wrapped).
	CellValue(row, col int) (string, error)

	// SelectedRows returns the native selection specification, a comma
	// list with hyphen ranges ("2,4-6"). Empty means no selection.
	SelectedRows() (string, error)
	SetSelectedRows(spec string) error

	SetCurrentCell(row, col int) error
	DoubleClick(row, col int) error

	// PressToolbarContextButton and SelectContextMenuItem drive the grid
	// toolbar menus, used for the export dialog.
	PressToolbarContextButton(id string) error
	SelectContextMenuItem(id string) error
}

// Scrollable is a control carrying scrollbars.
type Scrollable interface {
	Element
	VerticalScrollPosition() (int, error)
	SetVerticalScrollPosition(pos int) error
	HorizontalScrollPosition() (int, error)
	SetHorizontalScrollPosition(pos int) error
}

// Window is a top-level session window.
type Window interface {
	Element
	Maximize() error

	// HardCopy captures the window to an image file. Format follows the
	// scripting engine's HardCopy encoding (0=bmp, 1=jpg, 2=png, 3=gif).
	HardCopy(path string, format int) error
}

// HardCopy format values.
const (
	FormatBMP = 0
	FormatJPG = 1
	FormatPNG = 2
	FormatGIF = 3
)
