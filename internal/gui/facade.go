// Package gui is the tool façade over the scripting engine: one operation
// per automation action, each stateless, each taking the session
// explicitly. Every operation converts engine failures into the package's
// error taxonomy; no raw engine error escapes to the protocol layer.
package gui

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/saptools/sapmcp/internal/engine"
)

// Facade bundles the operation set with its logger and output directories.
type Facade struct {
	Log           *slog.Logger
	ScreenshotDir string
	ExportDir     string

	// Now stamps generated file names; overridable in tests.
	Now func() time.Time
}

// New builds a Facade with the given output directories.
func New(log *slog.Logger, screenshotDir, exportDir string) *Facade {
	return &Facade{
		Log:           log,
		ScreenshotDir: screenshotDir,
		ExportDir:     exportDir,
		Now:           time.Now,
	}
}

// SessionDetails is the flat session metadata structure.
type SessionDetails struct {
	SessionID    string `json:"session_id"`
	User         string `json:"user"`
	Client       string `json:"client"`
	Language     string `json:"language"`
	SystemName   string `json:"system_name"`
	SystemNumber string `json:"system_number"`
}

// SessionDetails reports the current session's identity.
func (f *Facade) SessionDetails(sess engine.Session) (SessionDetails, error) {
	info, err := sess.Info()
	if err != nil {
		return SessionDetails{}, fmt.Errorf("%w: reading session info: %v", ErrAutomation, err)
	}
	return SessionDetails{
		SessionID:    info.ID,
		User:         info.User,
		Client:       info.Client,
		Language:     info.Language,
		SystemName:   info.SystemName,
		SystemNumber: info.SystemNumber,
	}, nil
}

// Busy reports whether the session is processing a roundtrip.
func (f *Facade) Busy(sess engine.Session) (bool, error) {
	busy, err := sess.Busy()
	if err != nil {
		return false, fmt.Errorf("%w: reading busy flag: %v", ErrAutomation, err)
	}
	return busy, nil
}

// StartTransaction starts the named transaction.
func (f *Facade) StartTransaction(sess engine.Session, code string) error {
	if code == "" {
		return fmt.Errorf("%w: no transaction code specified", ErrTransaction)
	}
	if err := sess.StartTransaction(code); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrTransaction, code, err)
	}
	f.Log.Info("started transaction", "code", code)
	return nil
}

// EndTransaction ends the current transaction. Succeeds whenever a session
// exists.
func (f *Facade) EndTransaction(sess engine.Session) error {
	if err := sess.EndTransaction(); err != nil {
		return fmt.Errorf("%w: ending transaction: %v", ErrAutomation, err)
	}
	f.Log.Info("ended transaction")
	return nil
}

// SendCommand executes an okcode synchronously.
func (f *Facade) SendCommand(sess engine.Session, command string) error {
	if command == "" {
		return fmt.Errorf("%w: no command specified", ErrTransaction)
	}
	if err := sess.SendCommand(command); err != nil {
		return fmt.Errorf("%w: command %q: %v", ErrAutomation, command, err)
	}
	return nil
}

// SendCommandAsync dispatches an okcode without waiting for completion.
// Ordering relative to later operations is the caller's responsibility;
// use Busy to serialize.
func (f *Facade) SendCommandAsync(sess engine.Session, command string) error {
	if command == "" {
		return fmt.Errorf("%w: no command specified", ErrTransaction)
	}
	if err := sess.SendCommandAsync(command); err != nil {
		return fmt.Errorf("%w: async command %q: %v", ErrAutomation, command, err)
	}
	return nil
}

// FindByID resolves an element by its hierarchical path. When raise is
// false a miss is reported through found=false instead of an error.
func (f *Facade) FindByID(sess engine.Session, id string, raise bool) (foundID string, found bool, err error) {
	if id == "" {
		return "", false, fmt.Errorf("%w: no element id specified", ErrElementNotFound)
	}
	el, err := sess.FindByID(id)
	if err != nil {
		if !raise {
			return "", false, nil
		}
		return "", false, fmt.Errorf("%w: %s", ErrElementNotFound, id)
	}
	return el.ID(), true, nil
}

// FindByName returns the id of the first descendant matching name and type.
func (f *Facade) FindByName(sess engine.Session, name, kind string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("%w: no element name specified", ErrElementNotFound)
	}
	el, err := sess.FindByName(name, kind)
	if err != nil {
		return "", fmt.Errorf("%w: name=%s type=%s", ErrElementNotFound, name, kind)
	}
	return el.ID(), nil
}

// FindAllByName returns the ids of every matching descendant in engine
// order. An empty result is not an error; callers get the explicit empty
// slice.
func (f *Facade) FindAllByName(sess engine.Session, name, kind string) ([]string, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: no element name specified", ErrElementNotFound)
	}
	elems, err := sess.FindAllByName(name, kind)
	if err != nil {
		return nil, fmt.Errorf("%w: finding name=%s type=%s: %v", ErrAutomation, name, kind, err)
	}
	ids := make([]string, 0, len(elems))
	for _, el := range elems {
		ids = append(ids, el.ID())
	}
	return ids, nil
}

// resolve looks up an element and maps a miss to ErrElementNotFound.
func resolve(sess engine.Session, id string) (engine.Element, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: no element id specified", ErrElementNotFound)
	}
	el, err := sess.FindByID(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrElementNotFound, id)
	}
	return el, nil
}

// GetText reads an element's text value.
func (f *Facade) GetText(sess engine.Session, id string) (string, error) {
	el, err := resolve(sess, id)
	if err != nil {
		return "", err
	}
	text, ok := el.(engine.TextElement)
	if !ok {
		return "", fmt.Errorf("%w: %s (%s) has no text", ErrUnsupportedOperation, id, el.Type())
	}
	value, err := text.Text()
	if err != nil {
		return "", fmt.Errorf("%w: reading text of %s: %v", ErrAutomation, id, err)
	}
	return value, nil
}

// SetText writes an element's text value.
func (f *Facade) SetText(sess engine.Session, id, value string) error {
	el, err := resolve(sess, id)
	if err != nil {
		return err
	}
	text, ok := el.(engine.TextElement)
	if !ok {
		return fmt.Errorf("%w: %s (%s) has no text", ErrUnsupportedOperation, id, el.Type())
	}
	if err := text.SetText(value); err != nil {
		return fmt.Errorf("%w: setting text of %s: %v", ErrAutomation, id, err)
	}
	f.Log.Debug("set text", "id", id)
	return nil
}

// GetCheckbox reads a checkbox's selected state.
func (f *Facade) GetCheckbox(sess engine.Session, id string) (bool, error) {
	el, err := resolve(sess, id)
	if err != nil {
		return false, err
	}
	box, ok := el.(engine.Checkbox)
	if !ok {
		return false, fmt.Errorf("%w: %s (%s) is not a checkbox", ErrUnsupportedOperation, id, el.Type())
	}
	state, err := box.Selected()
	if err != nil {
		return false, fmt.Errorf("%w: reading checkbox %s: %v", ErrAutomation, id, err)
	}
	return state, nil
}

// SetCheckbox sets a checkbox's selected state.
func (f *Facade) SetCheckbox(sess engine.Session, id string, state bool) error {
	el, err := resolve(sess, id)
	if err != nil {
		return err
	}
	box, ok := el.(engine.Checkbox)
	if !ok {
		return fmt.Errorf("%w: %s (%s) is not a checkbox", ErrUnsupportedOperation, id, el.Type())
	}
	if err := box.SetSelected(state); err != nil {
		return fmt.Errorf("%w: setting checkbox %s: %v", ErrAutomation, id, err)
	}
	return nil
}

// SetRadioButton selects a radio button. The scripting surface cannot
// deselect a radio button directly (deselection happens by selecting a
// sibling), so selected=false is a typed error rather than a silent
// select, which is what the underlying engine would otherwise do.
func (f *Facade) SetRadioButton(sess engine.Session, id string, selected bool) error {
	el, err := resolve(sess, id)
	if err != nil {
		return err
	}
	radio, ok := el.(engine.RadioButton)
	if !ok {
		return fmt.Errorf("%w: %s (%s) is not a radio button", ErrUnsupportedOperation, id, el.Type())
	}
	if !selected {
		return fmt.Errorf("%w: radio button %s cannot be deselected directly, select a sibling instead", ErrUnsupportedOperation, id)
	}
	if err := radio.Select(); err != nil {
		return fmt.Errorf("%w: selecting radio button %s: %v", ErrAutomation, id, err)
	}
	return nil
}

// SetCombo sets a combo box value by entry key.
func (f *Facade) SetCombo(sess engine.Session, id, key string) error {
	el, err := resolve(sess, id)
	if err != nil {
		return err
	}
	combo, ok := el.(engine.ComboBox)
	if !ok {
		return fmt.Errorf("%w: %s (%s) is not a combo box", ErrUnsupportedOperation, id, el.Type())
	}
	if err := combo.SetKey(key); err != nil {
		return fmt.Errorf("%w: setting combo box %s to %q: %v", ErrAutomation, id, key, err)
	}
	return nil
}

// SetFocus gives an element keyboard focus.
func (f *Facade) SetFocus(sess engine.Session, id string) error {
	el, err := resolve(sess, id)
	if err != nil {
		return err
	}
	focusable, ok := el.(engine.Focusable)
	if !ok {
		return fmt.Errorf("%w: %s (%s) cannot take focus", ErrUnsupportedOperation, id, el.Type())
	}
	if err := focusable.SetFocus(); err != nil {
		return fmt.Errorf("%w: focusing %s: %v", ErrAutomation, id, err)
	}
	return nil
}

// PressButton presses a button.
func (f *Facade) PressButton(sess engine.Session, id string) error {
	el, err := resolve(sess, id)
	if err != nil {
		return err
	}
	button, ok := el.(engine.Button)
	if !ok {
		return fmt.Errorf("%w: %s (%s) is not pressable", ErrUnsupportedOperation, id, el.Type())
	}
	if err := button.Press(); err != nil {
		return fmt.Errorf("%w: pressing %s: %v", ErrAutomation, id, err)
	}
	f.Log.Debug("pressed button", "id", id)
	return nil
}

// MaximizeWindow maximizes the active window. Idempotent.
func (f *Facade) MaximizeWindow(sess engine.Session) error {
	wnd, err := sess.ActiveWindow()
	if err != nil {
		return fmt.Errorf("%w: no active window", ErrElementNotFound)
	}
	if err := wnd.Maximize(); err != nil {
		return fmt.Errorf("%w: maximizing %s: %v", ErrAutomation, wnd.ID(), err)
	}
	return nil
}

// scrollable resolves an element and asserts scrollbar capability.
func scrollable(sess engine.Session, id string) (engine.Scrollable, error) {
	el, err := resolve(sess, id)
	if err != nil {
		return nil, err
	}
	s, ok := el.(engine.Scrollable)
	if !ok {
		return nil, fmt.Errorf("%w: %s (%s) has no scrollbars", ErrUnsupportedOperation, id, el.Type())
	}
	return s, nil
}

// VerticalScrollPosition reads the vertical scrollbar position.
func (f *Facade) VerticalScrollPosition(sess engine.Session, id string) (int, error) {
	s, err := scrollable(sess, id)
	if err != nil {
		return 0, err
	}
	pos, err := s.VerticalScrollPosition()
	if err != nil {
		return 0, fmt.Errorf("%w: vertical scrollbar of %s: %v", ErrAutomation, id, err)
	}
	return pos, nil
}

// SetVerticalScrollPosition sets the vertical scrollbar position.
// Out-of-range positions are passed through; the engine's own failure is
// wrapped, not pre-validated.
func (f *Facade) SetVerticalScrollPosition(sess engine.Session, id string, pos int) error {
	s, err := scrollable(sess, id)
	if err != nil {
		return err
	}
	if err := s.SetVerticalScrollPosition(pos); err != nil {
		return fmt.Errorf("%w: setting vertical scrollbar of %s to %d: %v", ErrAutomation, id, pos, err)
	}
	return nil
}

// HorizontalScrollPosition reads the horizontal scrollbar position.
func (f *Facade) HorizontalScrollPosition(sess engine.Session, id string) (int, error) {
	s, err := scrollable(sess, id)
	if err != nil {
		return 0, err
	}
	pos, err := s.HorizontalScrollPosition()
	if err != nil {
		return 0, fmt.Errorf("%w: horizontal scrollbar of %s: %v", ErrAutomation, id, err)
	}
	return pos, nil
}

// SetHorizontalScrollPosition sets the horizontal scrollbar position.
func (f *Facade) SetHorizontalScrollPosition(sess engine.Session, id string, pos int) error {
	s, err := scrollable(sess, id)
	if err != nil {
		return err
	}
	if err := s.SetHorizontalScrollPosition(pos); err != nil {
		return fmt.Errorf("%w: setting horizontal scrollbar of %s to %d: %v", ErrAutomation, id, pos, err)
	}
	return nil
}

// IsNotFound reports whether err is an element resolution failure, used by
// the protocol layer to pick response shapes.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrElementNotFound)
}
