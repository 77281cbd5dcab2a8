package gui

import (
	"errors"
	"io"
	"log/slog"
	"slices"
	"testing"

	"github.com/saptools/sapmcp/internal/engine"
	"github.com/saptools/sapmcp/internal/engine/enginetest"
)

func testFacade(t *testing.T) *Facade {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(log, t.TempDir(), t.TempDir())
}

// screenSession builds a session with one window holding a typical mix of
// controls.
func screenSession() (*enginetest.FakeSession, *enginetest.FakeWindow) {
	wnd := &enginetest.FakeWindow{
		FakeElement: enginetest.FakeElement{ElemID: "wnd[0]", ElemType: "GuiMainWindow"},
	}
	sess := &enginetest.FakeSession{
		SessionInfo: engine.SessionInfo{
			ID: "/app/con[0]/ses[0]", User: "JDOE", Client: "100",
			Language: "EN", SystemName: "PRD", SystemNumber: "00",
		},
		Wnds: []*enginetest.FakeWindow{wnd},
	}
	return sess, wnd
}

func TestSessionDetails(t *testing.T) {
	t.Parallel()

	sess, _ := screenSession()
	details, err := testFacade(t).SessionDetails(sess)
	if err != nil {
		t.Fatalf("SessionDetails() error = %v", err)
	}
	if details.User != "JDOE" || details.Client != "100" || details.SystemName != "PRD" {
		t.Errorf("details = %+v", details)
	}
}

func TestStartTransaction(t *testing.T) {
	t.Parallel()

	f := testFacade(t)
	sess, _ := screenSession()

	if err := f.StartTransaction(sess, "VA01"); err != nil {
		t.Fatalf("StartTransaction() error = %v", err)
	}
	if sess.Transaction != "VA01" {
		t.Errorf("transaction = %q, want VA01", sess.Transaction)
	}

	if err := f.EndTransaction(sess); err != nil {
		t.Fatalf("EndTransaction() error = %v", err)
	}
	if sess.Transaction != "" {
		t.Errorf("transaction = %q after end, want empty", sess.Transaction)
	}
}

func TestStartTransactionEmptyCode(t *testing.T) {
	t.Parallel()

	sess, _ := screenSession()
	if err := testFacade(t).StartTransaction(sess, ""); !errors.Is(err, ErrTransaction) {
		t.Errorf("error = %v, want ErrTransaction", err)
	}
}

func TestStartTransactionFailure(t *testing.T) {
	t.Parallel()

	sess, _ := screenSession()
	sess.TransactionErrs = map[string]error{"ZBAD": errors.New("does not exist")}
	if err := testFacade(t).StartTransaction(sess, "ZBAD"); !errors.Is(err, ErrTransaction) {
		t.Errorf("error = %v, want ErrTransaction", err)
	}
}

func TestSendCommand(t *testing.T) {
	t.Parallel()

	f := testFacade(t)
	sess, _ := screenSession()

	if err := f.SendCommand(sess, "/nVA01"); err != nil {
		t.Fatalf("SendCommand() error = %v", err)
	}
	if err := f.SendCommandAsync(sess, "/nSE16"); err != nil {
		t.Fatalf("SendCommandAsync() error = %v", err)
	}
	if !slices.Equal(sess.Commands, []string{"/nVA01"}) {
		t.Errorf("commands = %v", sess.Commands)
	}
	if !slices.Equal(sess.AsyncCommands, []string{"/nSE16"}) {
		t.Errorf("async commands = %v", sess.AsyncCommands)
	}

	// Empty input is a validation failure, not a failed automation call.
	if err := f.SendCommand(sess, ""); !errors.Is(err, ErrTransaction) {
		t.Errorf("empty command error = %v, want ErrTransaction", err)
	}
	if err := f.SendCommandAsync(sess, ""); !errors.Is(err, ErrTransaction) {
		t.Errorf("empty async command error = %v, want ErrTransaction", err)
	}
}

func TestFindByID(t *testing.T) {
	t.Parallel()

	f := testFacade(t)
	sess, wnd := screenSession()
	wnd.Kids = append(wnd.Kids, &enginetest.FakeText{
		FakeElement: enginetest.FakeElement{ElemID: "wnd[0]/usr/txtF1", ElemType: "GuiTextField"},
	})

	id, found, err := f.FindByID(sess, "wnd[0]/usr/txtF1", true)
	if err != nil || !found || id != "wnd[0]/usr/txtF1" {
		t.Errorf("FindByID() = (%q, %t, %v)", id, found, err)
	}

	// raise=false reports a miss without an error.
	_, found, err = f.FindByID(sess, "wnd[0]/usr/txtNOPE", false)
	if err != nil || found {
		t.Errorf("FindByID(raise=false) = (_, %t, %v), want miss without error", found, err)
	}

	// raise=true turns the miss into a typed error.
	_, _, err = f.FindByID(sess, "wnd[0]/usr/txtNOPE", true)
	if !errors.Is(err, ErrElementNotFound) {
		t.Errorf("FindByID(raise=true) error = %v, want ErrElementNotFound", err)
	}
}

func TestFindByName(t *testing.T) {
	t.Parallel()

	f := testFacade(t)
	sess, wnd := screenSession()
	wnd.Kids = append(wnd.Kids,
		&enginetest.FakeText{FakeElement: enginetest.FakeElement{
			ElemID: "wnd[0]/usr/txtA", ElemType: "GuiTextField", Name: "MATNR"}},
		&enginetest.FakeText{FakeElement: enginetest.FakeElement{
			ElemID: "wnd[0]/usr/txtB", ElemType: "GuiTextField", Name: "MATNR"}},
	)

	id, err := f.FindByName(sess, "MATNR", "GuiTextField")
	if err != nil {
		t.Fatalf("FindByName() error = %v", err)
	}
	if id != "wnd[0]/usr/txtA" {
		t.Errorf("id = %q, want first match", id)
	}

	ids, err := f.FindAllByName(sess, "MATNR", "GuiTextField")
	if err != nil {
		t.Fatalf("FindAllByName() error = %v", err)
	}
	if !slices.Equal(ids, []string{"wnd[0]/usr/txtA", "wnd[0]/usr/txtB"}) {
		t.Errorf("ids = %v", ids)
	}

	// No match is an empty slice, not an error.
	ids, err = f.FindAllByName(sess, "WERKS", "GuiTextField")
	if err != nil || len(ids) != 0 {
		t.Errorf("FindAllByName(no match) = (%v, %v)", ids, err)
	}

	if _, err := f.FindByName(sess, "WERKS", "GuiTextField"); !errors.Is(err, ErrElementNotFound) {
		t.Errorf("FindByName(no match) error = %v, want ErrElementNotFound", err)
	}
}

func TestTextRoundTrip(t *testing.T) {
	t.Parallel()

	f := testFacade(t)
	sess, wnd := screenSession()
	field := &enginetest.FakeText{FakeElement: enginetest.FakeElement{
		ElemID: "wnd[0]/usr/txtF1", ElemType: "GuiTextField"}}
	wnd.Kids = append(wnd.Kids, field)

	if err := f.SetText(sess, "wnd[0]/usr/txtF1", "4711"); err != nil {
		t.Fatalf("SetText() error = %v", err)
	}
	got, err := f.GetText(sess, "wnd[0]/usr/txtF1")
	if err != nil {
		t.Fatalf("GetText() error = %v", err)
	}
	if got != "4711" {
		t.Errorf("text = %q, want 4711", got)
	}
}

func TestTextOnNonTextElement(t *testing.T) {
	t.Parallel()

	f := testFacade(t)
	sess, wnd := screenSession()
	wnd.Kids = append(wnd.Kids, &enginetest.FakeElement{
		ElemID: "wnd[0]/usr/cust", ElemType: "GuiCustomControl"})

	if _, err := f.GetText(sess, "wnd[0]/usr/cust"); !errors.Is(err, ErrUnsupportedOperation) {
		t.Errorf("GetText error = %v, want ErrUnsupportedOperation", err)
	}
	if err := f.SetText(sess, "wnd[0]/usr/cust", "x"); !errors.Is(err, ErrUnsupportedOperation) {
		t.Errorf("SetText error = %v, want ErrUnsupportedOperation", err)
	}
}

func TestCheckboxRoundTrip(t *testing.T) {
	t.Parallel()

	f := testFacade(t)
	sess, wnd := screenSession()
	box := &enginetest.FakeCheckbox{FakeElement: enginetest.FakeElement{
		ElemID: "wnd[0]/usr/chkX", ElemType: "GuiCheckBox"}}
	wnd.Kids = append(wnd.Kids, box)

	for _, state := range []bool{true, false} {
		if err := f.SetCheckbox(sess, "wnd[0]/usr/chkX", state); err != nil {
			t.Fatalf("SetCheckbox(%t) error = %v", state, err)
		}
		got, err := f.GetCheckbox(sess, "wnd[0]/usr/chkX")
		if err != nil {
			t.Fatalf("GetCheckbox() error = %v", err)
		}
		if got != state {
			t.Errorf("checkbox = %t, want %t", got, state)
		}
	}
}

func TestSetRadioButton(t *testing.T) {
	t.Parallel()

	f := testFacade(t)
	sess, wnd := screenSession()
	radio := &enginetest.FakeRadio{FakeElement: enginetest.FakeElement{
		ElemID: "wnd[0]/usr/radA", ElemType: "GuiRadioButton"}}
	wnd.Kids = append(wnd.Kids, radio)

	if err := f.SetRadioButton(sess, "wnd[0]/usr/radA", true); err != nil {
		t.Fatalf("SetRadioButton() error = %v", err)
	}
	if !radio.SelectedState {
		t.Error("radio button not selected")
	}

	// Deselection is not expressible on the scripting surface.
	err := f.SetRadioButton(sess, "wnd[0]/usr/radA", false)
	if !errors.Is(err, ErrUnsupportedOperation) {
		t.Errorf("deselect error = %v, want ErrUnsupportedOperation", err)
	}
	if !radio.SelectedState {
		t.Error("failed deselect changed the radio state")
	}
}

func TestSetCombo(t *testing.T) {
	t.Parallel()

	f := testFacade(t)
	sess, wnd := screenSession()
	combo := &enginetest.FakeCombo{FakeElement: enginetest.FakeElement{
		ElemID: "wnd[0]/usr/cmbX", ElemType: "GuiComboBox"}}
	wnd.Kids = append(wnd.Kids, combo)

	if err := f.SetCombo(sess, "wnd[0]/usr/cmbX", "01"); err != nil {
		t.Fatalf("SetCombo() error = %v", err)
	}
	if combo.KeyValue != "01" {
		t.Errorf("key = %q, want 01", combo.KeyValue)
	}
}

func TestPressButtonAndFocus(t *testing.T) {
	t.Parallel()

	f := testFacade(t)
	sess, wnd := screenSession()
	btn := &enginetest.FakeButton{FakeElement: enginetest.FakeElement{
		ElemID: "wnd[0]/tbar[1]/btn[8]", ElemType: "GuiButton"}}
	wnd.Kids = append(wnd.Kids, btn)

	if err := f.SetFocus(sess, "wnd[0]/tbar[1]/btn[8]"); err != nil {
		t.Fatalf("SetFocus() error = %v", err)
	}
	if !btn.Focused {
		t.Error("button not focused")
	}
	if err := f.PressButton(sess, "wnd[0]/tbar[1]/btn[8]"); err != nil {
		t.Fatalf("PressButton() error = %v", err)
	}
	if btn.Presses != 1 {
		t.Errorf("presses = %d, want 1", btn.Presses)
	}
}

func TestOperationsOnUnknownElement(t *testing.T) {
	t.Parallel()

	f := testFacade(t)
	sess, _ := screenSession()

	ops := map[string]func() error{
		"GetText":     func() error { _, err := f.GetText(sess, "wnd[9]/usr/txtX"); return err },
		"SetText":     func() error { return f.SetText(sess, "wnd[9]/usr/txtX", "v") },
		"GetCheckbox": func() error { _, err := f.GetCheckbox(sess, "wnd[9]/usr/chkX"); return err },
		"SetCheckbox": func() error { return f.SetCheckbox(sess, "wnd[9]/usr/chkX", true) },
		"SetRadio":    func() error { return f.SetRadioButton(sess, "wnd[9]/usr/radX", true) },
		"SetCombo":    func() error { return f.SetCombo(sess, "wnd[9]/usr/cmbX", "k") },
		"SetFocus":    func() error { return f.SetFocus(sess, "wnd[9]/usr/txtX") },
		"PressButton": func() error { return f.PressButton(sess, "wnd[9]/tbar[0]/btn[0]") },
		"VScroll":     func() error { _, err := f.VerticalScrollPosition(sess, "wnd[9]/usr"); return err },
	}
	for name, op := range ops {
		if err := op(); !errors.Is(err, ErrElementNotFound) {
			t.Errorf("%s error = %v, want ErrElementNotFound", name, err)
		}
	}
}

func TestMaximizeWindow(t *testing.T) {
	t.Parallel()

	f := testFacade(t)
	sess, wnd := screenSession()

	if err := f.MaximizeWindow(sess); err != nil {
		t.Fatalf("MaximizeWindow() error = %v", err)
	}
	if !wnd.Maximized {
		t.Error("window not maximized")
	}
	// Idempotent.
	if err := f.MaximizeWindow(sess); err != nil {
		t.Fatalf("second MaximizeWindow() error = %v", err)
	}
}

func TestScrollPositions(t *testing.T) {
	t.Parallel()

	f := testFacade(t)
	sess, wnd := screenSession()
	area := &enginetest.FakeContainer{FakeElement: enginetest.FakeElement{
		ElemID: "wnd[0]/usr", ElemType: "GuiUserArea"}}
	wnd.Kids = append(wnd.Kids, area)

	if err := f.SetVerticalScrollPosition(sess, "wnd[0]/usr", 12); err != nil {
		t.Fatalf("SetVerticalScrollPosition() error = %v", err)
	}
	if pos, err := f.VerticalScrollPosition(sess, "wnd[0]/usr"); err != nil || pos != 12 {
		t.Errorf("VerticalScrollPosition() = (%d, %v), want 12", pos, err)
	}

	if err := f.SetHorizontalScrollPosition(sess, "wnd[0]/usr", 3); err != nil {
		t.Fatalf("SetHorizontalScrollPosition() error = %v", err)
	}
	if pos, err := f.HorizontalScrollPosition(sess, "wnd[0]/usr"); err != nil || pos != 3 {
		t.Errorf("HorizontalScrollPosition() = (%d, %v), want 3", pos, err)
	}
}

func TestScrollOnNonScrollable(t *testing.T) {
	t.Parallel()

	f := testFacade(t)
	sess, wnd := screenSession()
	wnd.Kids = append(wnd.Kids, &enginetest.FakeCheckbox{FakeElement: enginetest.FakeElement{
		ElemID: "wnd[0]/usr/chkX", ElemType: "GuiCheckBox"}})

	if _, err := f.VerticalScrollPosition(sess, "wnd[0]/usr/chkX"); !errors.Is(err, ErrUnsupportedOperation) {
		t.Errorf("error = %v, want ErrUnsupportedOperation", err)
	}
}
