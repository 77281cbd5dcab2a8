//go:build windows

package engine

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-ole/go-ole"
	"github.com/go-ole/go-ole/oleutil"
)

// Connect attaches to the running SAP GUI scripting engine via the SAPGUI
// COM automation object. It fails with ErrNotRunning when SAP Logon is not
// started or scripting is disabled on the frontend.
func Connect() (Engine, error) {
	// CoInitialize is idempotent per thread; the "already initialized"
	// S_FALSE result surfaces as a non-nil error we can ignore.
	_ = ole.CoInitialize(0)

	unknown, err := oleutil.GetActiveObject("SAPGUI")
	if err != nil || unknown == nil {
		return nil, fmt.Errorf("%w: %v", ErrNotRunning, err)
	}
	wrapper, err := unknown.QueryInterface(ole.IID_IDispatch)
	if err != nil {
		return nil, fmt.Errorf("%w: querying IDispatch: %v", ErrNotRunning, err)
	}

	app, err := oleutil.GetProperty(wrapper, "GetScriptingEngine")
	if err != nil {
		return nil, fmt.Errorf("%w: scripting engine unavailable: %v", ErrNotRunning, err)
	}
	return &comEngine{app: app.ToIDispatch()}, nil
}

type comEngine struct {
	app *ole.IDispatch
}

func (e *comEngine) Running() bool {
	if e.app == nil {
		return false
	}
	// A dead automation object still holds a non-nil dispatch pointer
	// after SAP Logon exits; probe liveness with a cheap property read.
	v, err := oleutil.GetProperty(e.app, "Connections")
	if err != nil {
		return false
	}
	_ = v.Clear()
	return true
}

func (e *comEngine) Connections() ([]Connection, error) {
	items, err := collection(e.app, "Connections")
	if err != nil {
		return nil, fmt.Errorf("reading connections: %w", err)
	}
	conns := make([]Connection, len(items))
	for i, d := range items {
		conns[i] = &comConnection{disp: d}
	}
	return conns, nil
}

func (e *comEngine) OpenConnection(description string, sync bool) (Connection, error) {
	v, err := oleutil.CallMethod(e.app, "OpenConnection", description, sync)
	if err != nil {
		return nil, fmt.Errorf("opening connection to %q: %w", description, err)
	}
	d := v.ToIDispatch()
	if d == nil {
		return nil, fmt.Errorf("opening connection to %q: engine returned nothing", description)
	}
	return &comConnection{disp: d}, nil
}

type comConnection struct {
	disp *ole.IDispatch
}

func (c *comConnection) Sessions() ([]Session, error) {
	items, err := collection(c.disp, "Sessions")
	if err != nil {
		return nil, fmt.Errorf("reading sessions: %w", err)
	}
	sessions := make([]Session, len(items))
	for i, d := range items {
		sessions[i] = &comSession{disp: d}
	}
	return sessions, nil
}

type comSession struct {
	disp *ole.IDispatch
}

func (s *comSession) Info() (SessionInfo, error) {
	id, err := getString(s.disp, "Id")
	if err != nil {
		return SessionInfo{}, err
	}
	infoV, err := oleutil.GetProperty(s.disp, "Info")
	if err != nil {
		return SessionInfo{}, fmt.Errorf("reading session info: %w", err)
	}
	info := infoV.ToIDispatch()

	out := SessionInfo{ID: id}
	for _, f := range []struct {
		prop string
		dst  *string
	}{
		{"User", &out.User},
		{"Client", &out.Client},
		{"Language", &out.Language},
		{"SystemName", &out.SystemName},
		{"SystemNumber", &out.SystemNumber},
	} {
		v, err := getString(info, f.prop)
		if err != nil {
			return SessionInfo{}, err
		}
		*f.dst = v
	}
	return out, nil
}

func (s *comSession) Busy() (bool, error) {
	v, err := oleutil.GetProperty(s.disp, "Busy")
	if err != nil {
		return false, fmt.Errorf("reading busy flag: %w", err)
	}
	b, _ := v.Value().(bool)
	return b, nil
}

func (s *comSession) StartTransaction(code string) error {
	_, err := oleutil.CallMethod(s.disp, "StartTransaction", code)
	return err
}

func (s *comSession) EndTransaction() error {
	_, err := oleutil.CallMethod(s.disp, "EndTransaction")
	return err
}

func (s *comSession) SendCommand(command string) error {
	_, err := oleutil.CallMethod(s.disp, "SendCommand", command)
	return err
}

func (s *comSession) SendCommandAsync(command string) error {
	_, err := oleutil.CallMethod(s.disp, "SendCommandAsync", command)
	return err
}

func (s *comSession) FindByID(id string) (Element, error) {
	v, err := oleutil.CallMethod(s.disp, "FindById", id, false)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrNotFound, id, err)
	}
	d := v.ToIDispatch()
	if d == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return wrapElement(d)
}

func (s *comSession) FindByName(name, kind string) (Element, error) {
	v, err := oleutil.CallMethod(s.disp, "FindByName", name, kind)
	if err != nil {
		return nil, fmt.Errorf("%w: name=%s type=%s: %v", ErrNotFound, name, kind, err)
	}
	d := v.ToIDispatch()
	if d == nil {
		return nil, fmt.Errorf("%w: name=%s type=%s", ErrNotFound, name, kind)
	}
	return wrapElement(d)
}

func (s *comSession) FindAllByName(name, kind string) ([]Element, error) {
	v, err := oleutil.CallMethod(s.disp, "FindAllByName", name, kind)
	if err != nil {
		return nil, fmt.Errorf("finding elements name=%s type=%s: %w", name, kind, err)
	}
	d := v.ToIDispatch()
	if d == nil {
		return nil, nil
	}
	items, err := collectionItems(d)
	if err != nil {
		return nil, err
	}
	elems := make([]Element, 0, len(items))
	for _, item := range items {
		el, err := wrapElement(item)
		if err != nil {
			return nil, err
		}
		elems = append(elems, el)
	}
	return elems, nil
}

func (s *comSession) Windows() ([]Element, error) {
	items, err := collection(s.disp, "Children")
	if err != nil {
		return nil, fmt.Errorf("reading session windows: %w", err)
	}
	elems := make([]Element, 0, len(items))
	for _, item := range items {
		el, err := wrapElement(item)
		if err != nil {
			return nil, err
		}
		elems = append(elems, el)
	}
	return elems, nil
}

func (s *comSession) ActiveWindow() (Window, error) {
	v, err := oleutil.GetProperty(s.disp, "ActiveWindow")
	if err != nil {
		return nil, fmt.Errorf("%w: active window: %v", ErrNotFound, err)
	}
	d := v.ToIDispatch()
	if d == nil {
		return nil, fmt.Errorf("%w: active window", ErrNotFound)
	}
	el, err := wrapElement(d)
	if err != nil {
		return nil, err
	}
	w, ok := el.(Window)
	if !ok {
		return nil, fmt.Errorf("%w: %s is not a window", ErrUnsupportedOp, el.ID())
	}
	return w, nil
}

func (s *comSession) SendVKey(key int) error {
	wnd, err := oleutil.CallMethod(s.disp, "FindById", "wnd[0]")
	if err != nil {
		return fmt.Errorf("%w: wnd[0]: %v", ErrNotFound, err)
	}
	_, err = oleutil.CallMethod(wnd.ToIDispatch(), "SendVKey", key)
	return err
}

// comElement is the base wrapper shared by every resolved control.
type comElement struct {
	disp *ole.IDispatch
	id   string
	typ  string
}

func (e *comElement) ID() string   { return e.id }
func (e *comElement) Type() string { return e.typ }

func (e *comElement) Children() ([]Element, error) {
	// Leaf controls have no Children property; treat that as empty.
	items, err := collection(e.disp, "Children")
	if err != nil {
		return nil, nil
	}
	elems := make([]Element, 0, len(items))
	for _, item := range items {
		el, wrapErr := wrapElement(item)
		if wrapErr != nil {
			continue
		}
		elems = append(elems, el)
	}
	return elems, nil
}

func (e *comElement) SetFocus() error {
	_, err := oleutil.CallMethod(e.disp, "SetFocus")
	return err
}

type comText struct{ comElement }

func (e *comText) Text() (string, error)    { return getString(e.disp, "Text") }
func (e *comText) SetText(text string) error {
	return putProp(e.disp, "Text", text)
}

type comCheckbox struct{ comElement }

func (e *comCheckbox) Selected() (bool, error) {
	v, err := oleutil.GetProperty(e.disp, "Selected")
	if err != nil {
		return false, err
	}
	b, _ := v.Value().(bool)
	return b, nil
}

func (e *comCheckbox) SetSelected(state bool) error {
	return putProp(e.disp, "Selected", state)
}

type comRadio struct{ comElement }

func (e *comRadio) Select() error {
	_, err := oleutil.CallMethod(e.disp, "Select")
	return err
}

type comCombo struct{ comElement }

func (e *comCombo) Key() (string, error) { return getString(e.disp, "Key") }
func (e *comCombo) SetKey(key string) error {
	return putProp(e.disp, "Key", key)
}

type comButton struct{ comElement }

func (e *comButton) Press() error {
	_, err := oleutil.CallMethod(e.disp, "Press")
	return err
}

type comWindow struct{ comElement }

func (e *comWindow) Maximize() error {
	_, err := oleutil.CallMethod(e.disp, "Maximize")
	return err
}

func (e *comWindow) HardCopy(path string, format int) error {
	_, err := oleutil.CallMethod(e.disp, "HardCopy", path, format)
	return err
}

type comShell struct {
	comElement
}

func (e *comShell) RowCount() (int, error)        { return getInt(e.disp, "RowCount") }
func (e *comShell) VisibleRowCount() (int, error) { return getInt(e.disp, "VisibleRowCount") }
func (e *comShell) ColumnCount() (int, error)     { return getInt(e.disp, "ColumnCount") }

func (e *comShell) ColumnTitle(col int) (string, error) {
	// ColumnOrder maps display position to technical column name; titles
	// are looked up through it.
	orderV, err := oleutil.GetProperty(e.disp, "ColumnOrder")
	if err != nil {
		return "", err
	}
	nameV, err := oleutil.CallMethod(orderV.ToIDispatch(), "Item", col)
	if err != nil {
		return "", fmt.Errorf("%w: column %d: %v", ErrCellOutOfRange, col, err)
	}
	titlesV, err := oleutil.CallMethod(e.disp, "GetColumnTitles", nameV.Value())
	if err != nil {
		return "", err
	}
	titleV, err := oleutil.CallMethod(titlesV.ToIDispatch(), "Item", 0)
	if err != nil {
		return "", err
	}
	title, _ := titleV.Value().(string)
	return title, nil
}

func (e *comShell) CellValue(row, col int) (string, error) {
	v, err := oleutil.CallMethod(e.disp, "GetCellValue", row, col)
	if err != nil {
		return "", fmt.Errorf("%w: row=%d col=%d: %v", ErrCellOutOfRange, row, col, err)
	}
	s, _ := v.Value().(string)
	return s, nil
}

func (e *comShell) SelectedRows() (string, error) {
	return getString(e.disp, "SelectedRows")
}

func (e *comShell) SetSelectedRows(spec string) error {
	return putProp(e.disp, "SelectedRows", spec)
}

func (e *comShell) SetCurrentCell(row, col int) error {
	if err := putProp(e.disp, "CurrentCellRow", row); err != nil {
		return fmt.Errorf("%w: row=%d: %v", ErrCellOutOfRange, row, err)
	}
	if col >= 0 {
		if err := putProp(e.disp, "CurrentCellColumn", col); err != nil {
			return fmt.Errorf("%w: col=%d: %v", ErrCellOutOfRange, col, err)
		}
	}
	return nil
}

func (e *comShell) DoubleClick(row, col int) error {
	_, err := oleutil.CallMethod(e.disp, "DoubleClick", row, col)
	if err != nil {
		return fmt.Errorf("%w: row=%d col=%d: %v", ErrCellOutOfRange, row, col, err)
	}
	return nil
}

func (e *comShell) PressToolbarContextButton(id string) error {
	_, err := oleutil.CallMethod(e.disp, "PressToolbarContextButton", id)
	return err
}

func (e *comShell) SelectContextMenuItem(id string) error {
	_, err := oleutil.CallMethod(e.disp, "SelectContextMenuItem", id)
	return err
}

func (e *comShell) VerticalScrollPosition() (int, error) {
	return scrollPosition(e.disp, "VerticalScrollbar")
}

func (e *comShell) SetVerticalScrollPosition(pos int) error {
	return setScrollPosition(e.disp, "VerticalScrollbar", pos)
}

func (e *comShell) HorizontalScrollPosition() (int, error) {
	return scrollPosition(e.disp, "HorizontalScrollbar")
}

func (e *comShell) SetHorizontalScrollPosition(pos int) error {
	return setScrollPosition(e.disp, "HorizontalScrollbar", pos)
}

type comContainer struct{ comElement }

func (e *comContainer) VerticalScrollPosition() (int, error) {
	return scrollPosition(e.disp, "VerticalScrollbar")
}

func (e *comContainer) SetVerticalScrollPosition(pos int) error {
	return setScrollPosition(e.disp, "VerticalScrollbar", pos)
}

func (e *comContainer) HorizontalScrollPosition() (int, error) {
	return scrollPosition(e.disp, "HorizontalScrollbar")
}

func (e *comContainer) SetHorizontalScrollPosition(pos int) error {
	return setScrollPosition(e.disp, "HorizontalScrollbar", pos)
}

// wrapElement reads the control's type and returns the matching capability
// wrapper. Unknown types fall back to the base wrapper so discovery still
// works on controls we do not model.
func wrapElement(d *ole.IDispatch) (Element, error) {
	id, err := getString(d, "Id")
	if err != nil {
		return nil, fmt.Errorf("reading element id: %w", err)
	}
	typ, err := getString(d, "Type")
	if err != nil {
		return nil, fmt.Errorf("reading element type for %s: %w", id, err)
	}
	base := comElement{disp: d, id: id, typ: typ}

	switch typ {
	case "GuiTextField", "GuiCTextField", "GuiPasswordField", "GuiTextedit",
		"GuiLabel", "GuiStatusbar", "GuiTitlebar", "GuiOkCodeField":
		return &comText{base}, nil
	case "GuiCheckBox":
		return &comCheckbox{base}, nil
	case "GuiRadioButton":
		return &comRadio{base}, nil
	case "GuiComboBox":
		return &comCombo{base}, nil
	case "GuiButton", "GuiMenu":
		return &comButton{base}, nil
	case "GuiMainWindow", "GuiModalWindow", "GuiFrameWindow", "GuiDialogShell":
		return &comWindow{base}, nil
	case "GuiShell":
		// Grid capability only applies to GridView shells; other shells
		// (trees, toolbars) keep the generic wrapper.
		if sub, err := getString(d, "SubType"); err == nil && strings.EqualFold(sub, "GridView") {
			return &comShell{base}, nil
		}
		return &base, nil
	case "GuiUserArea", "GuiScrollContainer", "GuiSimpleContainer":
		return &comContainer{base}, nil
	default:
		return &base, nil
	}
}

func collection(d *ole.IDispatch, prop string) ([]*ole.IDispatch, error) {
	v, err := oleutil.GetProperty(d, prop)
	if err != nil {
		return nil, err
	}
	coll := v.ToIDispatch()
	if coll == nil {
		return nil, errors.New("collection property returned nothing")
	}
	return collectionItems(coll)
}

func collectionItems(coll *ole.IDispatch) ([]*ole.IDispatch, error) {
	countV, err := oleutil.GetProperty(coll, "Count")
	if err != nil {
		return nil, err
	}
	count := variantInt(countV)
	items := make([]*ole.IDispatch, 0, count)
	for i := 0; i < count; i++ {
		itemV, err := oleutil.CallMethod(coll, "Item", i)
		if err != nil {
			return nil, fmt.Errorf("reading collection item %d: %w", i, err)
		}
		items = append(items, itemV.ToIDispatch())
	}
	return items, nil
}

func scrollPosition(d *ole.IDispatch, prop string) (int, error) {
	barV, err := oleutil.GetProperty(d, prop)
	if err != nil {
		return 0, fmt.Errorf("%w: no %s: %v", ErrUnsupportedOp, prop, err)
	}
	bar := barV.ToIDispatch()
	if bar == nil {
		return 0, fmt.Errorf("%w: no %s", ErrUnsupportedOp, prop)
	}
	return getInt(bar, "Position")
}

func setScrollPosition(d *ole.IDispatch, prop string, pos int) error {
	barV, err := oleutil.GetProperty(d, prop)
	if err != nil {
		return fmt.Errorf("%w: no %s: %v", ErrUnsupportedOp, prop, err)
	}
	bar := barV.ToIDispatch()
	if bar == nil {
		return fmt.Errorf("%w: no %s", ErrUnsupportedOp, prop)
	}
	return putProp(bar, "Position", pos)
}

func getString(d *ole.IDispatch, prop string) (string, error) {
	v, err := oleutil.GetProperty(d, prop)
	if err != nil {
		return "", err
	}
	s, _ := v.Value().(string)
	return s, nil
}

func getInt(d *ole.IDispatch, prop string) (int, error) {
	v, err := oleutil.GetProperty(d, prop)
	if err != nil {
		return 0, err
	}
	return variantInt(v), nil
}

func variantInt(v *ole.VARIANT) int {
	switch n := v.Value().(type) {
	case int32:
		return int(n)
	case int64:
		return int(n)
	case int:
		return n
	case float64:
		return int(n)
	default:
		return 0
	}
}

func putProp(d *ole.IDispatch, prop string, value any) error {
	_, err := oleutil.PutProperty(d, prop, value)
	return err
}
