// Package enginetest provides an in-memory fake of the scripting engine
// for tests. The fake models a session with a tree of typed controls,
// virtualized grids, and per-element failure injection.
package enginetest

import (
	"fmt"
	"os"
	"strings"

	"github.com/saptools/sapmcp/internal/engine"
)

// FakeEngine is a configurable in-memory engine.Engine.
type FakeEngine struct {
	// Up mirrors whether the engine would be reachable. A freshly started
	// fake with Up=false behaves like SAP Logon not running.
	Up bool

	Conns []*FakeConnection

	// OpenConnectionFunc, when set, overrides OpenConnection.
	OpenConnectionFunc func(description string, sync bool) (engine.Connection, error)

	OpenConnectionCalls int
}

// Running implements engine.Engine.
func (e *FakeEngine) Running() bool { return e.Up }

// Connections implements engine.Engine.
func (e *FakeEngine) Connections() ([]engine.Connection, error) {
	if !e.Up {
		return nil, engine.ErrNotRunning
	}
	conns := make([]engine.Connection, len(e.Conns))
	for i, c := range e.Conns {
		conns[i] = c
	}
	return conns, nil
}

// OpenConnection implements engine.Engine.
func (e *FakeEngine) OpenConnection(description string, sync bool) (engine.Connection, error) {
	e.OpenConnectionCalls++
	if e.OpenConnectionFunc != nil {
		return e.OpenConnectionFunc(description, sync)
	}
	if !e.Up {
		return nil, engine.ErrNotRunning
	}
	conn := &FakeConnection{}
	e.Conns = append(e.Conns, conn)
	return conn, nil
}

// FakeConnection implements engine.Connection.
type FakeConnection struct {
	Sess        []*FakeSession
	SessionsErr error
}

// Sessions implements engine.Connection.
func (c *FakeConnection) Sessions() ([]engine.Session, error) {
	if c.SessionsErr != nil {
		return nil, c.SessionsErr
	}
	sessions := make([]engine.Session, len(c.Sess))
	for i, s := range c.Sess {
		sessions[i] = s
	}
	return sessions, nil
}

// FakeSession implements engine.Session over a tree of fake elements.
type FakeSession struct {
	SessionInfo engine.SessionInfo
	InfoErr     error

	BusyState bool

	// Transaction is the currently running transaction code; empty means
	// the session sits on the entry menu.
	Transaction     string
	TransactionErrs map[string]error

	Commands      []string
	AsyncCommands []string
	CommandErr    error

	// Wnds are the open windows (wnd[0], wnd[1], ...). Element lookup
	// walks all of them.
	Wnds []*FakeWindow

	VKeys []int

	// VKeyFunc, when set, runs on SendVKey after recording the key. Tests
	// use it to mutate the window tree the way a real roundtrip would
	// (e.g. replacing the logon screen after Enter).
	VKeyFunc func(key int) error
}

// Info implements engine.Session.
func (s *FakeSession) Info() (engine.SessionInfo, error) {
	if s.InfoErr != nil {
		return engine.SessionInfo{}, s.InfoErr
	}
	return s.SessionInfo, nil
}

// Busy implements engine.Session.
func (s *FakeSession) Busy() (bool, error) { return s.BusyState, nil }

// StartTransaction implements engine.Session.
func (s *FakeSession) StartTransaction(code string) error {
	if err := s.TransactionErrs[code]; err != nil {
		return err
	}
	s.Transaction = code
	return nil
}

// EndTransaction implements engine.Session.
func (s *FakeSession) EndTransaction() error {
	s.Transaction = ""
	return nil
}

// SendCommand implements engine.Session.
func (s *FakeSession) SendCommand(command string) error {
	if s.CommandErr != nil {
		return s.CommandErr
	}
	s.Commands = append(s.Commands, command)
	return nil
}

// SendCommandAsync implements engine.Session.
func (s *FakeSession) SendCommandAsync(command string) error {
	if s.CommandErr != nil {
		return s.CommandErr
	}
	s.AsyncCommands = append(s.AsyncCommands, command)
	return nil
}

// FindByID implements engine.Session.
func (s *FakeSession) FindByID(id string) (engine.Element, error) {
	for _, w := range s.Wnds {
		if el := findByID(w, id); el != nil {
			return el, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", engine.ErrNotFound, id)
}

// FindByName implements engine.Session.
func (s *FakeSession) FindByName(name, kind string) (engine.Element, error) {
	for _, w := range s.Wnds {
		if el := findByName(w, name, kind); el != nil {
			return el, nil
		}
	}
	return nil, fmt.Errorf("%w: name=%s type=%s", engine.ErrNotFound, name, kind)
}

// FindAllByName implements engine.Session.
func (s *FakeSession) FindAllByName(name, kind string) ([]engine.Element, error) {
	var out []engine.Element
	for _, w := range s.Wnds {
		collectByName(w, name, kind, &out)
	}
	return out, nil
}

// Windows implements engine.Session.
func (s *FakeSession) Windows() ([]engine.Element, error) {
	wnds := make([]engine.Element, len(s.Wnds))
	for i, w := range s.Wnds {
		wnds[i] = w
	}
	return wnds, nil
}

// ActiveWindow implements engine.Session.
func (s *FakeSession) ActiveWindow() (engine.Window, error) {
	if len(s.Wnds) == 0 {
		return nil, fmt.Errorf("%w: active window", engine.ErrNotFound)
	}
	return s.Wnds[len(s.Wnds)-1], nil
}

// SendVKey implements engine.Session.
func (s *FakeSession) SendVKey(key int) error {
	s.VKeys = append(s.VKeys, key)
	if s.VKeyFunc != nil {
		return s.VKeyFunc(key)
	}
	return nil
}

// FakeElement is the base control. Concrete capability fakes embed it.
type FakeElement struct {
	ElemID   string
	ElemType string
	Name     string

	Kids []engine.Element

	// ChildrenErr injects an introspection failure, used to exercise the
	// tree dump's skip-on-error behavior.
	ChildrenErr error
}

// ID implements engine.Element.
func (e *FakeElement) ID() string { return e.ElemID }

// Type implements engine.Element.
func (e *FakeElement) Type() string { return e.ElemType }

// Children implements engine.Element.
func (e *FakeElement) Children() ([]engine.Element, error) {
	if e.ChildrenErr != nil {
		return nil, e.ChildrenErr
	}
	return e.Kids, nil
}

func base(e engine.Element) *FakeElement {
	switch v := e.(type) {
	case *FakeElement:
		return v
	case *FakeText:
		return &v.FakeElement
	case *FakeCheckbox:
		return &v.FakeElement
	case *FakeRadio:
		return &v.FakeElement
	case *FakeCombo:
		return &v.FakeElement
	case *FakeButton:
		return &v.FakeElement
	case *FakeGrid:
		return &v.FakeElement
	case *FakeWindow:
		return &v.FakeElement
	case *FakeContainer:
		return &v.FakeElement
	default:
		return nil
	}
}

func findByID(e engine.Element, id string) engine.Element {
	if e.ID() == id {
		return e
	}
	kids, err := e.Children()
	if err != nil {
		return nil
	}
	for _, k := range kids {
		if found := findByID(k, id); found != nil {
			return found
		}
	}
	return nil
}

func findByName(e engine.Element, name, kind string) engine.Element {
	if b := base(e); b != nil && b.Name == name && e.Type() == kind {
		return e
	}
	kids, err := e.Children()
	if err != nil {
		return nil
	}
	for _, k := range kids {
		if found := findByName(k, name, kind); found != nil {
			return found
		}
	}
	return nil
}

func collectByName(e engine.Element, name, kind string, out *[]engine.Element) {
	if b := base(e); b != nil && b.Name == name && e.Type() == kind {
		*out = append(*out, e)
	}
	kids, err := e.Children()
	if err != nil {
		return
	}
	for _, k := range kids {
		collectByName(k, name, kind, out)
	}
}

// FakeText implements engine.TextElement and engine.Focusable.
type FakeText struct {
	FakeElement
	Value   string
	TextErr error
	SetErr  error
	Focused bool
}

func (e *FakeText) Text() (string, error) {
	if e.TextErr != nil {
		return "", e.TextErr
	}
	return e.Value, nil
}

func (e *FakeText) SetText(text string) error {
	if e.SetErr != nil {
		return e.SetErr
	}
	e.Value = text
	return nil
}

func (e *FakeText) SetFocus() error {
	e.Focused = true
	return nil
}

// FakeCheckbox implements engine.Checkbox.
type FakeCheckbox struct {
	FakeElement
	State  bool
	SetErr error
}

func (e *FakeCheckbox) Selected() (bool, error) { return e.State, nil }

func (e *FakeCheckbox) SetSelected(state bool) error {
	if e.SetErr != nil {
		return e.SetErr
	}
	e.State = state
	return nil
}

// FakeRadio implements engine.RadioButton.
type FakeRadio struct {
	FakeElement
	SelectedState bool
	SelectErr     error
}

func (e *FakeRadio) Select() error {
	if e.SelectErr != nil {
		return e.SelectErr
	}
	e.SelectedState = true
	return nil
}

// FakeCombo implements engine.ComboBox and engine.Focusable.
type FakeCombo struct {
	FakeElement
	KeyValue string
	SetErr   error
	Focused  bool
}

func (e *FakeCombo) Key() (string, error) { return e.KeyValue, nil }

func (e *FakeCombo) SetKey(key string) error {
	if e.SetErr != nil {
		return e.SetErr
	}
	e.KeyValue = key
	return nil
}

func (e *FakeCombo) SetFocus() error {
	e.Focused = true
	return nil
}

// FakeButton implements engine.Button and engine.Focusable.
type FakeButton struct {
	FakeElement
	Presses     int
	PressErr    error
	Focused     bool
	SetFocusErr error
}

func (e *FakeButton) Press() error {
	if e.PressErr != nil {
		return e.PressErr
	}
	e.Presses++
	return nil
}

func (e *FakeButton) SetFocus() error {
	if e.SetFocusErr != nil {
		return e.SetFocusErr
	}
	e.Focused = true
	return nil
}

// FakeGrid implements engine.Grid and engine.Scrollable. Cells holds the
// full logical row set; VisibleRows models the virtualized viewport.
type FakeGrid struct {
	FakeElement

	Titles      []string
	Cells       [][]string
	VisibleRows int

	SelectedSpec   string
	SetSelectedErr error

	CurrentRow int
	CurrentCol int

	DoubleClicks [][2]int

	Context []ContextAction

	VPos, HPos int
	ScrollErr  error
}

func (g *FakeGrid) RowCount() (int, error)        { return len(g.Cells), nil }
func (g *FakeGrid) VisibleRowCount() (int, error) { return g.VisibleRows, nil }

func (g *FakeGrid) ColumnCount() (int, error) { return len(g.Titles), nil }

func (g *FakeGrid) ColumnTitle(col int) (string, error) {
	if col < 0 || col >= len(g.Titles) {
		return "", fmt.Errorf("%w: column %d", engine.ErrCellOutOfRange, col)
	}
	return g.Titles[col], nil
}

func (g *FakeGrid) CellValue(row, col int) (string, error) {
	if row < 0 || row >= len(g.Cells) {
		return "", fmt.Errorf("%w: row %d", engine.ErrCellOutOfRange, row)
	}
	if col < 0 || col >= len(g.Titles) {
		return "", fmt.Errorf("%w: column %d", engine.ErrCellOutOfRange, col)
	}
	return g.Cells[row][col], nil
}

func (g *FakeGrid) SelectedRows() (string, error) { return g.SelectedSpec, nil }

func (g *FakeGrid) SetSelectedRows(spec string) error {
	if g.SetSelectedErr != nil {
		return g.SetSelectedErr
	}
	g.SelectedSpec = spec
	return nil
}

func (g *FakeGrid) SetCurrentCell(row, col int) error {
	if row < 0 || row >= len(g.Cells) {
		return fmt.Errorf("%w: row %d", engine.ErrCellOutOfRange, row)
	}
	g.CurrentRow = row
	if col >= 0 {
		if col >= len(g.Titles) {
			return fmt.Errorf("%w: column %d", engine.ErrCellOutOfRange, col)
		}
		g.CurrentCol = col
	}
	return nil
}

func (g *FakeGrid) DoubleClick(row, col int) error {
	if row < 0 || row >= len(g.Cells) || col < 0 || col >= len(g.Titles) {
		return fmt.Errorf("%w: row=%d col=%d", engine.ErrCellOutOfRange, row, col)
	}
	g.DoubleClicks = append(g.DoubleClicks, [2]int{row, col})
	return nil
}

// ContextAction records one toolbar/menu invocation (export dialog driving).
type ContextAction struct {
	Kind string // "button" or "menu"
	ID   string
}

func (g *FakeGrid) PressToolbarContextButton(id string) error {
	g.Context = append(g.Context, ContextAction{Kind: "button", ID: id})
	return nil
}

func (g *FakeGrid) SelectContextMenuItem(id string) error {
	g.Context = append(g.Context, ContextAction{Kind: "menu", ID: id})
	return nil
}

func (g *FakeGrid) VerticalScrollPosition() (int, error) {
	if g.ScrollErr != nil {
		return 0, g.ScrollErr
	}
	return g.VPos, nil
}

func (g *FakeGrid) SetVerticalScrollPosition(pos int) error {
	if g.ScrollErr != nil {
		return g.ScrollErr
	}
	g.VPos = pos
	return nil
}

func (g *FakeGrid) HorizontalScrollPosition() (int, error) {
	if g.ScrollErr != nil {
		return 0, g.ScrollErr
	}
	return g.HPos, nil
}

func (g *FakeGrid) SetHorizontalScrollPosition(pos int) error {
	if g.ScrollErr != nil {
		return g.ScrollErr
	}
	g.HPos = pos
	return nil
}

// FakeContainer implements engine.Scrollable for non-grid containers.
type FakeContainer struct {
	FakeElement
	VPos, HPos int
}

func (c *FakeContainer) VerticalScrollPosition() (int, error)    { return c.VPos, nil }
func (c *FakeContainer) SetVerticalScrollPosition(pos int) error { c.VPos = pos; return nil }
func (c *FakeContainer) HorizontalScrollPosition() (int, error)  { return c.HPos, nil }
func (c *FakeContainer) SetHorizontalScrollPosition(pos int) error {
	c.HPos = pos
	return nil
}

// FakeWindow implements engine.Window. HardCopy writes a small placeholder
// file so capture tests can assert on the filesystem.
type FakeWindow struct {
	FakeElement
	Maximized   bool
	HardCopies  []HardCopyCall
	HardCopyErr error
}

// HardCopyCall records one capture invocation.
type HardCopyCall struct {
	Path   string
	Format int
}

func (w *FakeWindow) Maximize() error {
	w.Maximized = true
	return nil
}

func (w *FakeWindow) HardCopy(path string, format int) error {
	if w.HardCopyErr != nil {
		return w.HardCopyErr
	}
	w.HardCopies = append(w.HardCopies, HardCopyCall{Path: path, Format: format})
	return os.WriteFile(path, []byte("fake-image"), 0o644)
}

// SingleSession wires an engine with one connection holding one session, the
// common fixture for façade tests.
func SingleSession(sess *FakeSession) *FakeEngine {
	return &FakeEngine{
		Up:    true,
		Conns: []*FakeConnection{{Sess: []*FakeSession{sess}}},
	}
}

// LoginScreenSession builds a session showing the standard logon screen
// (client/user/password/language fields plus the password probe used to
// detect login success).
func LoginScreenSession() *FakeSession {
	return &FakeSession{
		Wnds: []*FakeWindow{{
			FakeElement: FakeElement{ElemID: "wnd[0]", ElemType: "GuiMainWindow"},
		}},
	}
}

// AddLoginFields populates the logon screen controls on wnd[0].
func AddLoginFields(s *FakeSession) map[string]*FakeText {
	fields := map[string]*FakeText{}
	for _, id := range []string{
		"wnd[0]/usr/txtRSYST-MANDT",
		"wnd[0]/usr/txtRSYST-BNAME",
		"wnd[0]/usr/pwdRSYST-BCODE",
		"wnd[0]/usr/txtRSYST-LANGU",
	} {
		f := &FakeText{FakeElement: FakeElement{ElemID: id, ElemType: fieldType(id)}}
		fields[id] = f
		s.Wnds[0].Kids = append(s.Wnds[0].Kids, f)
	}
	return fields
}

func fieldType(id string) string {
	if strings.Contains(id, "/pwd") {
		return "GuiPasswordField"
	}
	return "GuiTextField"
}

// Interface guards.
var (
	_ engine.Engine      = (*FakeEngine)(nil)
	_ engine.Connection  = (*FakeConnection)(nil)
	_ engine.Session     = (*FakeSession)(nil)
	_ engine.Element     = (*FakeElement)(nil)
	_ engine.TextElement = (*FakeText)(nil)
	_ engine.Focusable   = (*FakeText)(nil)
	_ engine.Checkbox    = (*FakeCheckbox)(nil)
	_ engine.RadioButton = (*FakeRadio)(nil)
	_ engine.ComboBox    = (*FakeCombo)(nil)
	_ engine.Focusable   = (*FakeCombo)(nil)
	_ engine.Button      = (*FakeButton)(nil)
	_ engine.Focusable   = (*FakeButton)(nil)
	_ engine.Grid        = (*FakeGrid)(nil)
	_ engine.Scrollable  = (*FakeGrid)(nil)
	_ engine.Scrollable  = (*FakeContainer)(nil)
	_ engine.Window      = (*FakeWindow)(nil)
)
