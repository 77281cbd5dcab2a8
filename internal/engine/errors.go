package engine

import "errors"

var (
	// ErrNotRunning is returned when the scripting engine is not reachable,
	// typically because SAP Logon is not started.
	ErrNotRunning = errors.New("sap gui scripting engine is not running")

	// ErrNoConnections is returned when the engine is running but has no
	// open connections.
	ErrNoConnections = errors.New("no open sap connections")

	// ErrNoSessions is returned when a connection exists but carries no
	// sessions.
	ErrNoSessions = errors.New("connection has no sessions")

	// ErrNotFound is returned when an element cannot be resolved by id,
	// name, or type.
	ErrNotFound = errors.New("element not found")

	// ErrUnsupportedOp is returned when an element does not support the
	// requested capability (e.g. pressing a text field).
	ErrUnsupportedOp = errors.New("element does not support this operation")

	// ErrCellOutOfRange is returned for grid coordinates outside the
	// reported row/column counts.
	ErrCellOutOfRange = errors.New("grid cell out of range")
)
