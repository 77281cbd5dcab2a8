package session

import "errors"

var (
	// ErrNoSession is returned when the engine is unreachable or reports
	// zero open connections/sessions.
	ErrNoSession = errors.New("no active sap session available")

	// ErrMissingCredentials is returned when login is attempted without
	// required fields after argument/environment fallback.
	ErrMissingCredentials = errors.New("missing required login parameters")

	// ErrLogin wraps engine-level login failures: bad credentials, unknown
	// system, connection refused.
	ErrLogin = errors.New("sap login failed")

	// ErrLauncherNotFound is returned when no SAP Logon executable
	// resolves from the override path, the well-known install directories,
	// or the search path.
	ErrLauncherNotFound = errors.New("sap logon executable not found")

	// ErrLaunchTimeout is returned when SAP Logon was started but did not
	// become scriptable within the caller-supplied wait.
	ErrLaunchTimeout = errors.New("sap logon did not initialize in time")
)
