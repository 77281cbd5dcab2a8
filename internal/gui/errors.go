package gui

import "errors"

var (
	// ErrTransaction is returned when starting a transaction fails.
	ErrTransaction = errors.New("transaction failed")

	// ErrElementNotFound is returned when an element id, name, or type
	// does not resolve to a control.
	ErrElementNotFound = errors.New("element not found")

	// ErrUnsupportedOperation is returned when the resolved control does
	// not have the capability the operation needs.
	ErrUnsupportedOperation = errors.New("operation not supported by this element")

	// ErrAutomation wraps any other engine failure on a read, write, or
	// invoke call.
	ErrAutomation = errors.New("automation call failed")

	// ErrInvalidCell is returned for grid coordinates outside the
	// reported bounds.
	ErrInvalidCell = errors.New("invalid grid cell")

	// ErrCapture is returned when a window cannot be resolved for capture
	// or the capture call fails.
	ErrCapture = errors.New("screenshot capture failed")

	// ErrExport is returned when driving the grid export dialog fails.
	ErrExport = errors.New("grid export failed")
)
